package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"localloop/model"
	"localloop/service/review"
)

func (a *App) reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Rate your counterparty after a rental",
	}
	cmd.AddCommand(a.reviewAddCmd(), a.reviewListCmd(), a.reviewCanCmd())
	return cmd
}

func (a *App) reviewAddCmd() *cobra.Command {
	var (
		txID    string
		rating  int
		comment string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Leave a review (rating 1-5, comment up to 500 chars)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			req := model.CreateReviewReq{TransactionID: txID, Rating: rating, Comment: comment}
			r, err := a.Reviews.Create(cmd.Context(), req)
			if err != nil {
				switch review.Code(err) {
				case review.ErrBadInput:
					return fmt.Errorf("rating must be 1-5 and the comment at most 500 characters")
				case review.ErrNotReviewable:
					return fmt.Errorf("this transaction cannot be reviewed (already reviewed, or not far enough along)")
				}
				a.Log.Error("review add", "err", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reviewed %s: %d/5\n", r.Reviewee.DisplayName(), r.Rating)
			return nil
		},
	}
	cmd.Flags().StringVar(&txID, "tx", "", "transaction id")
	cmd.Flags().IntVar(&rating, "rating", 0, "rating 1-5")
	cmd.Flags().StringVar(&comment, "comment", "", "optional comment")
	return cmd
}

func (a *App) reviewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list USER_ID",
		Short: "List reviews received by a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := a.Reviews.ForUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(reviews) == 0 {
				fmt.Fprintln(out, "no reviews")
				return nil
			}
			for _, r := range reviews {
				fmt.Fprintf(out, "%d/5 from %s (%s)", r.Rating, r.Reviewer.DisplayName(), r.Role)
				if r.Comment != "" {
					fmt.Fprintf(out, ": %s", r.Comment)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func (a *App) reviewCanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "can TX_ID",
		Short: "Check whether I may review a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			ok, err := a.Reviews.CanReview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), "yes")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "no")
			}
			return nil
		},
	}
}
