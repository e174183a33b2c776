// Package cli is the delivery layer: it renders API records and the
// action set the viewer is allowed to take, and maps coded service
// errors to inline messages. It owns no state of its own; the server is
// the single source of truth and every view re-fetches after a write.
package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"localloop/model"
	userrepo "localloop/repository/user"
	"localloop/service/catalog"
	"localloop/service/payment"
	"localloop/service/premium"
	"localloop/service/review"
	"localloop/service/transaction"
	"localloop/session"
	jwtutil "localloop/util/jwt"
)

type App struct {
	Log      *slog.Logger
	V        *validator.Validate
	Session  *session.Store
	Users    userrepo.Repo
	Tx       transaction.Service
	Catalog  catalog.Service
	Reviews  review.Service
	Premium  premium.Service
	Payments payment.Service
}

func NewRoot(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "loop",
		Short:         "Local Loop - borrow and lend items with people nearby",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.startupChecks(cmd)
		},
	}

	root.AddCommand(
		app.loginCmd(),
		app.logoutCmd(),
		app.whoamiCmd(),
		app.profileCmd(),
		app.usersCmd(),
		app.itemsCmd(),
		app.txCmd(),
		app.reviewCmd(),
		app.premiumCmd(),
	)
	return root
}

// startupChecks warns about an expired token and surfaces any pending
// forced-action notice for the logged-in user.
func (a *App) startupChecks(cmd *cobra.Command) {
	tok := a.Session.Token()
	if tok != "" && jwtutil.Expired(tok, time.Now()) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: your session has expired, please log in again")
	}

	u, err := a.Session.Current()
	if err != nil {
		return
	}
	n, err := a.Session.TakeNotice(u.Email)
	if err != nil || n == nil {
		return
	}
	if n.Action == "review" {
		fmt.Fprintln(cmd.OutOrStdout(), "reminder: a lender completed one of your returns - leave them a review with 'loop review add'")
	}
}

// viewer returns the stored identity or an error the commands surface
// inline.
func (a *App) viewer() (*model.User, error) {
	u, err := a.Session.Current()
	if err != nil {
		return nil, fmt.Errorf("you are not logged in (run 'loop login')")
	}
	return u, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
