package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"localloop/fetch"
	"localloop/model"
	"localloop/service/payment"
	"localloop/service/transaction"
)

func (a *App) txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "View transactions and drive their lifecycle",
	}
	cmd.AddCommand(
		a.txListCmd(),
		a.txShowCmd(),
		a.txRequestCmd(),
		a.txActionCmd("accept", "Accept a borrow request", a.Tx.Accept),
		a.txActionCmd("decline", "Decline a borrow request", a.Tx.Decline),
		a.txActionCmd("retract", "Retract my borrow request", a.Tx.Retract),
		a.txRenegotiateCmd(),
		a.txRenegotiationCmd(),
		a.txPayCmd(),
		a.txReturnCodeCmd(),
		a.txReturnCmd(),
		a.txCompleteCmd(),
	)
	return cmd
}

func (a *App) txListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List my transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			txs, err := a.Tx.Mine(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(txs) == 0 {
				fmt.Fprintln(out, "no transactions")
				return nil
			}
			for _, tx := range txs {
				fmt.Fprintf(out, "%s  %-24s %-22s %s -> %s\n",
					tx.ID, tx.Item.Title, tx.Status,
					tx.RequestedFrom.Format("2006-01-02"), tx.RequestedTo.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func (a *App) txShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a transaction and the actions open to me",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			loader := fetch.NewLoader(func(ctx context.Context) (*model.Transaction, error) {
				return a.Tx.Get(ctx, args[0])
			})
			snap := loader.Reload(cmd.Context())
			if snap.Err != "" {
				return fmt.Errorf("%s", snap.Err)
			}
			renderTransaction(cmd.OutOrStdout(), *snap.Data, *viewer)
			return nil
		},
	}
}

func (a *App) txRequestCmd() *cobra.Command {
	var itemID, from, to string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Ask to borrow an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			f, err := parseDate(from)
			if err != nil {
				return err
			}
			t, err := parseDate(to)
			if err != nil {
				return err
			}
			req := model.RequestTransactionReq{ItemID: itemID, From: f, To: t}
			if err := a.V.Struct(req); err != nil {
				return fmt.Errorf("item and both dates are required")
			}
			tx, err := a.Tx.Request(cmd.Context(), req)
			if err != nil {
				a.Log.Error("tx request", "err", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requested %q, transaction %s\n", tx.Item.Title, tx.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&itemID, "item", "", "item id")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	return cmd
}

type txAction func(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error)

// txActionCmd wraps the common transition shape: load the record, run
// the action, render the authoritative new state.
func (a *App) txActionCmd(use, short string, fn txAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			tx, err := a.Tx.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fresh, err := fn(cmd.Context(), *viewer, *tx)
			if err != nil {
				return a.txError(use, err)
			}
			renderTransaction(cmd.OutOrStdout(), *fresh, *viewer)
			return nil
		},
	}
}

func (a *App) txRenegotiateCmd() *cobra.Command {
	var from, to, message string

	cmd := &cobra.Command{
		Use:   "renegotiate ID",
		Short: "Propose a different rental window (lender)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			f, err := parseDate(from)
			if err != nil {
				return err
			}
			t, err := parseDate(to)
			if err != nil {
				return err
			}
			tx, err := a.Tx.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fresh, err := a.Tx.Renegotiate(cmd.Context(), *viewer, *tx, model.RenegotiateReq{
				From: f, To: t, Message: message,
			})
			if err != nil {
				return a.txError("renegotiate", err)
			}
			renderTransaction(cmd.OutOrStdout(), *fresh, *viewer)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "proposed start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "proposed end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&message, "message", "", "note for the borrower")
	return cmd
}

func (a *App) txRenegotiationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renegotiation",
		Short: "Answer a lender's counter-proposal (borrower)",
	}
	cmd.AddCommand(
		a.txActionCmd("accept", "Accept the proposed window", a.Tx.AcceptRenegotiation),
		a.txActionCmd("decline", "Decline the proposed window", a.Tx.DeclineRenegotiation),
	)
	return cmd
}

func (a *App) txPayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay ID",
		Short: "Pay for an accepted rental",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			tx, err := a.Tx.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !transaction.Allowed(tx.Status, transaction.RoleOf(*viewer, *tx), transaction.ActionPay) {
				return fmt.Errorf("payment is not open on this transaction")
			}

			if sum, err := a.Tx.Summary(cmd.Context(), tx.ID); err == nil {
				renderSummary(cmd.OutOrStdout(), *sum)
			}

			paid, err := a.Payments.PayRental(cmd.Context(), *tx)
			if err != nil {
				if payment.Code(err) == payment.ErrUnreconciled {
					// Money moved at the gateway; this must never look
					// like an ordinary failure.
					return fmt.Errorf("payment captured but not confirmed with the server - contact support with capture details (%v)", err)
				}
				a.Log.Error("tx pay", "err", err)
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "payment complete (capture %s)\n", paid.CaptureID)
			fmt.Fprintf(out, "your pickup code: %s\n", paid.PickupCode)
			renderTransaction(out, *paid.Transaction, *viewer)
			return nil
		},
	}
}

func (a *App) txReturnCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return-code ID",
		Short: "Get the return code to give the borrower (lender)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			tx, err := a.Tx.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			code, err := a.Tx.GenerateReturnCode(cmd.Context(), *viewer, *tx)
			if err != nil {
				return a.txError("return-code", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "return code: %s\n", code)
			return nil
		},
	}
}

func (a *App) txReturnCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "return ID",
		Short: "Confirm the return with the code you received (borrower)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			tx, err := a.Tx.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fresh, err := a.Tx.SubmitReturnCode(cmd.Context(), *viewer, *tx, code)
			if err != nil {
				if transaction.Code(err) == transaction.ErrWrongCode {
					return fmt.Errorf("that code does not match - check with the lender and try again")
				}
				return a.txError("return", err)
			}
			out := cmd.OutOrStdout()
			renderTransaction(out, *fresh, *viewer)
			other := transaction.Counterparty(*viewer, *fresh)
			fmt.Fprintf(out, "return confirmed - leave %s a review with 'loop review add --tx %s'\n",
				other.DisplayName(), fresh.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "return code from the lender")
	return cmd
}

func (a *App) txCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Close the return without a code (lender override)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			tx, err := a.Tx.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fresh, err := a.Tx.ForceComplete(cmd.Context(), *viewer, *tx)
			if err != nil {
				return a.txError("complete", err)
			}
			renderTransaction(cmd.OutOrStdout(), *fresh, *viewer)
			return nil
		},
	}
}

func (a *App) txError(action string, err error) error {
	switch transaction.Code(err) {
	case transaction.ErrNotAllowed:
		return fmt.Errorf("you cannot %s this transaction in its current state", action)
	case transaction.ErrNotFound:
		return fmt.Errorf("transaction not found")
	case transaction.ErrBadInput:
		return err
	}
	a.Log.Error("tx "+action, "err", err)
	return err
}

var actionHelp = map[transaction.Action]string{
	transaction.ActionAccept:               "tx accept",
	transaction.ActionDecline:              "tx decline",
	transaction.ActionRenegotiate:          "tx renegotiate --from --to",
	transaction.ActionEditRequest:          "tx request --item (submit a fresh request)",
	transaction.ActionRetract:              "tx retract",
	transaction.ActionAcceptRenegotiation:  "tx renegotiation accept",
	transaction.ActionDeclineRenegotiation: "tx renegotiation decline",
	transaction.ActionPay:                  "tx pay",
	transaction.ActionGenerateReturnCode:   "tx return-code",
	transaction.ActionSubmitReturnCode:     "tx return --code",
	transaction.ActionForceComplete:        "tx complete",
	transaction.ActionReview:               "review add --tx",
}

// renderTransaction prints the record plus exactly the actions the
// viewer may take. A viewer who is neither party sees no actions.
func renderTransaction(out io.Writer, tx model.Transaction, viewer model.User) {
	fmt.Fprintf(out, "transaction %s [%s]\n", tx.ID, tx.Status)
	fmt.Fprintf(out, "  item:     %s (%.2f/week)\n", tx.Item.Title, tx.Item.PricePerWeek)
	fmt.Fprintf(out, "  lender:   %s\n", tx.Lender.DisplayName())
	fmt.Fprintf(out, "  borrower: %s\n", tx.Borrower.DisplayName())
	fmt.Fprintf(out, "  window:   %s to %s\n",
		tx.RequestedFrom.Format("2006-01-02"), tx.RequestedTo.Format("2006-01-02"))
	fmt.Fprintf(out, "  total:    %.2f (fee %.2f, deposit %.2f)\n", tx.TotalAmount, tx.LendingFee, tx.Deposit)
	if tx.PremiumDiscount != nil {
		fmt.Fprintf(out, "  premium discount: -%.2f\n", *tx.PremiumDiscount)
	}
	if tx.Renegotiation != nil {
		fmt.Fprintf(out, "  proposed window: %s to %s\n",
			tx.Renegotiation.From.Format("2006-01-02"), tx.Renegotiation.To.Format("2006-01-02"))
		if tx.Renegotiation.Message != "" {
			fmt.Fprintf(out, "  lender says: %s\n", tx.Renegotiation.Message)
		}
	}
	if tx.Status == model.StatusRejected && tx.LenderMessage != "" {
		fmt.Fprintf(out, "  lender message: %s\n", tx.LenderMessage)
	}

	role := transaction.RoleOf(viewer, tx)
	var lines []string
	for _, action := range transaction.AllowedActions(tx.Status, role) {
		if action == transaction.ActionReview && !tx.CanReview {
			continue
		}
		lines = append(lines, actionHelp[action])
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(out, "  actions:")
	for _, l := range lines {
		fmt.Fprintf(out, "    loop %s %s\n", l, tx.ID)
	}
}

func renderSummary(out io.Writer, sum model.TransactionSummary) {
	fmt.Fprintf(out, "summary for %s: %d days\n", sum.TransactionID, sum.Days)
	fmt.Fprintf(out, "  lending fee: %.2f\n", sum.LendingFee)
	fmt.Fprintf(out, "  deposit:     %.2f\n", sum.Deposit)
	if sum.PremiumDiscount != nil {
		fmt.Fprintf(out, "  discount:    -%.2f\n", *sum.PremiumDiscount)
	}
	fmt.Fprintf(out, "  total:       %.2f\n", sum.TotalAmount)
}
