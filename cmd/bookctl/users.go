package main

import (
	"inkdrop-backend/internal/domains/user/model"
	"inkdrop-backend/internal/shared"
	"inkdrop-backend/pkg/container"

	"github.com/spf13/cobra"
)

func createAdminCmd() *cobra.Command {
	var req model.RegisterRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := container.NewContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			user, err := c.UserService.CreateWithRole(cmd.Context(), req, shared.RoleAdmin)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "admin", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
