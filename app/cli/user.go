package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"localloop/model"
)

func (a *App) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit my profile",
	}
	cmd.AddCommand(a.profileShowCmd(), a.profileEditCmd(), a.profilePasswdCmd())
	return cmd
}

func (a *App) profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show my profile as the server sees it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			u, err := a.Users.Me(cmd.Context())
			if err != nil {
				return err
			}
			renderUser(cmd, *u)
			return nil
		},
	}
}

func (a *App) profileEditCmd() *cobra.Command {
	var nickname, email string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Update my nickname or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			req := model.UpdateProfileReq{Nickname: nickname, Email: email}
			if err := a.V.Struct(req); err != nil {
				return fmt.Errorf("invalid profile: %v", err)
			}
			u, err := a.Users.UpdateMe(cmd.Context(), req)
			if err != nil {
				a.Log.Error("profile edit", "err", err)
				return err
			}
			// Mirror the authoritative profile into the session so
			// every later render agrees with the server.
			if err := a.Session.UpdateUser(*u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile updated, you are now %s\n", u.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVar(&nickname, "nickname", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *App) profilePasswdCmd() *cobra.Command {
	var oldPass, newPass string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change my password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			req := model.ChangePasswordReq{OldPassword: oldPass, NewPassword: newPass}
			if err := a.V.Struct(req); err != nil {
				return fmt.Errorf("both passwords are required and the new one must be at least 6 characters")
			}
			if err := a.Users.ChangePassword(cmd.Context(), req); err != nil {
				a.Log.Error("password change", "err", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "password changed")
			return nil
		},
	}
	cmd.Flags().StringVar(&oldPass, "old", "", "current password")
	cmd.Flags().StringVar(&newPass, "new", "", "new password")
	return cmd
}

func (a *App) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Look up other members",
	}
	cmd.AddCommand(a.usersShowCmd(), a.usersAvatarCmd())
	return cmd
}

func (a *App) usersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a member's public profile and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.Users.ByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderUser(cmd, *u)
			reviews, err := a.Reviews.ForUser(cmd.Context(), args[0])
			if err != nil || len(reviews) == 0 {
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "  reviews:")
			for _, r := range reviews {
				fmt.Fprintf(out, "    %d/5 from %s (%s)\n", r.Rating, r.Reviewer.DisplayName(), r.Role)
			}
			return nil
		},
	}
}

func (a *App) usersAvatarCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "avatar ID",
		Short: "Download a member's avatar image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, contentType, err := a.Users.Avatar(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d bytes)\n", outPath, contentType, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "avatar.img", "output file")
	return cmd
}

func renderUser(cmd *cobra.Command, u model.User) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s <%s>\n", u.DisplayName(), u.Email)
	fmt.Fprintf(out, "  lender rating:   %.1f (%d)\n", u.LenderRating.Average, u.LenderRating.Count)
	fmt.Fprintf(out, "  borrower rating: %.1f (%d)\n", u.BorrowerRating.Average, u.BorrowerRating.Count)
	if u.IsPremium {
		fmt.Fprintln(out, "  premium member")
	}
}
