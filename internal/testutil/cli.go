package testutil

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

// ExecuteCommand runs a cobra command with the given arguments and captures
// its combined output
func ExecuteCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}
