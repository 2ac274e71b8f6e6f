package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/presenter"
	"github.com/rl1809/storefront/internal/core/domain"
)

var exportDir string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the starter catalog if the store has none",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			products, err := a.catalog.Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog holds %d products\n", len(products))
			return nil
		})
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the navigation bar and product catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			nav, err := a.catalog.NavBar(ctx)
			if err != nil {
				return err
			}
			products, err := a.catalog.ListProducts(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), presenter.RenderNavBar(nav))
			fmt.Fprint(cmd.OutOrStdout(), presenter.RenderCatalog(products))
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write XLSX reports",
}

var exportOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Export every order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			r, err := a.reports.ExportOrders(ctx)
			if err != nil {
				return err
			}
			return writeReport(cmd, a, r)
		})
	},
}

var exportCustomersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Export order count and spend per customer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			r, err := a.reports.ExportCustomers(ctx)
			if err != nil {
				return err
			}
			return writeReport(cmd, a, r)
		})
	},
}

var exportProductCmd = &cobra.Command{
	Use:   "product [product-id]",
	Short: "Export the orders of one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			r, err := a.reports.ExportProductOrders(ctx, args[0])
			if err != nil {
				return err
			}
			return writeReport(cmd, a, r)
		})
	},
}

func withApp(ctx context.Context, fn func(context.Context, *app) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func writeReport(cmd *cobra.Command, a *app, r domain.Report) error {
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(exportDir, filepath.Base(r.FileName))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := a.reports.Render(f, r); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Info("report written", zap.String("path", path), zap.Int("rows", len(r.Sheet.Rows)))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
