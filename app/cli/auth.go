package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"localloop/model"
)

func (a *App) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.LoginReq{Email: email, Password: password}
			if err := a.V.Struct(req); err != nil {
				return fmt.Errorf("email and password are required")
			}

			token, user, err := a.Users.Login(cmd.Context(), req)
			if err != nil {
				a.Log.Error("login", "err", err)
				return fmt.Errorf("login failed: %v", err)
			}
			if err := a.Session.Login(token, *user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", user.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.viewer()
			if err != nil {
				return err
			}
			renderUser(cmd, *u)
			return nil
		},
	}
}
