package main

import (
	"os"

	"github.com/tarea-pm/tarea/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
