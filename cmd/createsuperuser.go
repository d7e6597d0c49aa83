package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tarea-pm/tarea/internal/app"
	"github.com/tarea-pm/tarea/internal/services/user"
)

// CreateSuperuserCmd returns the createsuperuser subcommand
func CreateSuperuserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff account",
		Long: `Create an account with staff privileges, able to manage roles and
read the audit trail.

Example:
  tarea createsuperuser --username admin --email admin@example.com --password s3cret123`,
		RunE: runCreateSuperuser,
	}

	cmd.Flags().String("username", "", "Username for the new account")
	cmd.Flags().String("email", "", "Email for the new account")
	cmd.Flags().String("password", "", "Password for the new account")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runCreateSuperuser(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	username, _ := cmd.Flags().GetString("username")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	created, err := application.Services.Users.Register(cmd.Context(), user.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
		IsStaff:  true,
	})
	if err != nil {
		return fmt.Errorf("creating superuser: %w", err)
	}

	cmd.Printf("superuser %s created (%s)\n", created.Username, created.Email)
	return nil
}
