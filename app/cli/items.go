package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"localloop/fetch"
	"localloop/model"
	"localloop/service/catalog"
	"localloop/util/httpx"
)

func (a *App) itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Browse and manage listings",
	}
	cmd.AddCommand(
		a.itemsListCmd(),
		a.itemsNearbyCmd(),
		a.itemsShowCmd(),
		a.itemsMineCmd(),
		a.itemsAddCmd(),
		a.itemsEditCmd(),
		a.itemsRemoveCmd(),
	)
	return cmd
}

func (a *App) itemsListCmd() *cobra.Command {
	var query, category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := fetch.NewLoader(func(ctx context.Context) ([]model.Item, error) {
				return a.Catalog.List(ctx, model.ItemFilter{Query: query, Category: category})
			})
			snap := loader.Reload(cmd.Context())
			if snap.Err != "" {
				return fmt.Errorf("%s", snap.Err)
			}
			renderItems(cmd, snap.Data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "text filter")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category filter")
	return cmd
}

func (a *App) itemsNearbyCmd() *cobra.Command {
	var lat, lng float64

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List items near a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.Catalog.Nearby(cmd.Context(), lat, lng)
			if err != nil {
				return err
			}
			renderItems(cmd, items)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	return cmd
}

func (a *App) itemsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.Catalog.Get(cmd.Context(), args[0])
			if err != nil {
				if catalog.Code(err) == catalog.ErrNotFound {
					return fmt.Errorf("item not found")
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s) - %.2f/week\n", it.Title, it.Category, it.PricePerWeek)
			fmt.Fprintf(out, "offered by %s\n", it.Owner.DisplayName())
			if it.Description != "" {
				fmt.Fprintln(out, it.Description)
			}
			for _, w := range it.Availability {
				fmt.Fprintf(out, "  available %s to %s\n", w.From.Format("2006-01-02"), w.To.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func (a *App) itemsMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List my listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			items, err := a.Catalog.Mine(cmd.Context())
			if err != nil {
				return err
			}
			renderItems(cmd, items)
			return nil
		},
	}
}

func (a *App) itemsAddCmd() *cobra.Command {
	var (
		title, description, category string
		price                        float64
		imagePaths                   []string
		windows                      []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a listing (up to 3 images)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			req := model.CreateItemReq{
				Title:        title,
				Description:  description,
				Category:     category,
				PricePerWeek: price,
			}
			for _, w := range windows {
				dr, err := parseWindow(w)
				if err != nil {
					return err
				}
				req.Availability = append(req.Availability, dr)
			}
			if err := a.V.Struct(req); err != nil {
				return fmt.Errorf("invalid listing: %v", err)
			}

			uploads, closeAll, err := openUploads(imagePaths)
			if err != nil {
				return err
			}
			defer closeAll()

			it, err := a.Catalog.Create(cmd.Context(), req, uploads)
			if err != nil {
				switch catalog.Code(err) {
				case catalog.ErrListingLimit:
					return fmt.Errorf("you reached your listing limit - upgrade with 'loop premium upgrade' for unlimited listings")
				case catalog.ErrTooManyImages:
					return fmt.Errorf("at most 3 images are allowed")
				}
				a.Log.Error("item create", "err", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "listed %q (%s)\n", it.Title, it.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "listing title")
	cmd.Flags().StringVar(&description, "description", "", "listing description")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().Float64Var(&price, "price", 0, "weekly price")
	cmd.Flags().StringArrayVar(&imagePaths, "image", nil, "image file (repeatable, max 3)")
	cmd.Flags().StringArrayVar(&windows, "available", nil, "availability window FROM:TO (repeatable)")
	return cmd
}

func (a *App) itemsEditCmd() *cobra.Command {
	var (
		title, description, category string
		price                        float64
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			req := model.CreateItemReq{
				Title:        title,
				Description:  description,
				Category:     category,
				PricePerWeek: price,
			}
			if err := a.V.Struct(req); err != nil {
				return fmt.Errorf("invalid listing: %v", err)
			}
			it, err := a.Catalog.Update(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %q\n", it.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "listing title")
	cmd.Flags().StringVar(&description, "description", "", "listing description")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().Float64Var(&price, "price", 0, "weekly price")
	return cmd
}

func (a *App) itemsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			if err := a.Catalog.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}

func renderItems(cmd *cobra.Command, items []model.Item) {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "no items")
		return
	}
	for _, it := range items {
		fmt.Fprintf(out, "%s  %-30s %-12s %8.2f/week  by %s\n",
			it.ID, it.Title, it.Category, it.PricePerWeek, it.Owner.DisplayName())
	}
}

// parseWindow parses "2024-06-01:2024-06-14".
func parseWindow(s string) (model.DateRange, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return model.DateRange{}, fmt.Errorf("invalid window %q (want FROM:TO)", s)
	}
	from, err := parseDate(parts[0])
	if err != nil {
		return model.DateRange{}, err
	}
	to, err := parseDate(parts[1])
	if err != nil {
		return model.DateRange{}, err
	}
	return model.DateRange{From: from, To: to}, nil
}

func openUploads(paths []string) ([]httpx.Upload, func(), error) {
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	var uploads []httpx.Upload
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		uploads = append(uploads, httpx.Upload{Field: "images", Filename: filepath.Base(p), Reader: f})
	}
	return uploads, closeAll, nil
}
