package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"localloop/service/payment"
)

func (a *App) premiumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "premium",
		Short: "Manage the premium tier",
	}
	cmd.AddCommand(
		a.premiumStatusCmd(),
		a.premiumPlansCmd(),
		a.premiumUpgradeCmd(),
		a.premiumCancelCmd(),
	)
	return cmd
}

func (a *App) premiumStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show my premium status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			p, err := a.Premium.Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if p.IsPremium {
				fmt.Fprintf(out, "premium: yes (discount %.0f%%)\n", p.DiscountRate*100)
			} else {
				fmt.Fprintf(out, "premium: no (up to %d listings)\n", p.MaxListings)
			}
			if sub, err := a.Premium.Subscription(cmd.Context()); err == nil && sub.ID != "" {
				fmt.Fprintf(out, "subscription %s: %s\n", sub.ID, sub.Status)
			}
			return nil
		},
	}
}

func (a *App) premiumPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List available premium plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := a.Premium.Plans(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range plans {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %.2f/%s\n", p.ID, p.Name, p.Price, p.Interval)
			}
			return nil
		},
	}
}

func (a *App) premiumUpgradeCmd() *cobra.Command {
	var plan string

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade to premium via subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			if plan == "" {
				return fmt.Errorf("--plan is required (see 'loop premium plans')")
			}
			created, err := a.Payments.Subscribe(cmd.Context(), plan)
			if err != nil {
				if payment.Code(err) == payment.ErrUnreconciled {
					return fmt.Errorf("subscription created at the gateway but not confirmed with the server - contact support (%v)", err)
				}
				a.Log.Error("premium upgrade", "err", err)
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "subscription %s created\n", created.Subscription.SubscriptionID)
			if created.Premium.IsPremium {
				fmt.Fprintln(out, "welcome to premium: unlimited listings and rental discounts")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&plan, "plan", "", "plan id")
	return cmd
}

func (a *App) premiumCancelCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the premium subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			p, err := a.Premium.Cancel(cmd.Context(), reason)
			if err != nil {
				a.Log.Error("premium cancel", "err", err)
				return err
			}
			if !p.IsPremium {
				fmt.Fprintln(cmd.OutOrStdout(), "premium canceled")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "cancellation requested; premium stays active until the period ends")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "optional cancellation reason")
	return cmd
}
