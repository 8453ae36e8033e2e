package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/packagingcountry/stockroom/internal/config"
	"github.com/packagingcountry/stockroom/internal/seed"
	"github.com/packagingcountry/stockroom/internal/services"
	"github.com/packagingcountry/stockroom/pkg/scheduler"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

func NewMigrateCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			info, err := st.Schema(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			green.Fprintf(out, "schema version %d\n", info.Version)
			bold.Fprintln(out, "collections:")
			fmt.Fprintf(out, "  %s\n", strings.Join(info.Collections, ", "))
			bold.Fprintln(out, "indexes:")
			fmt.Fprintf(out, "  %s\n", strings.Join(info.Indexes, ", "))
			return nil
		},
	}
}

func NewSeedCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "seed CATALOG",
		Short: "Import suppliers, categories and products from a YAML catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := seed.LoadFile(args[0])
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := seed.Apply(cmd.Context(), st, catalog)
			if err != nil {
				return err
			}

			green.Fprintf(cmd.OutOrStdout(), "added %d suppliers, %d categories, %d products (%d skipped)\n",
				res.Suppliers, res.Categories, res.Products, res.Skipped)
			return nil
		},
	}
}

func NewReportCommand(cfg *config.Configuration) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the inventory and sales workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			f, err := os.Create(output)
			if err != nil {
				return err
			}

			inventorySrv := services.NewInventoryService(st)
			report := services.NewReportService(inventorySrv, services.NewSalesService(st, inventorySrv))
			if err := report.Export(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			green.Fprintf(cmd.OutOrStdout(), "report written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "inventory.xlsx", "output file")

	return cmd
}

func NewDashboardCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			sched := scheduler.NewScheduler(cfg.Scheduler.Workers)
			defer sched.Close()

			summary, err := services.NewDashboardService(st, sched).Summary(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d\n", bold.Sprint("Products:"), summary.TotalProducts)
			fmt.Fprintf(out, "%s %s\n", bold.Sprint("Sales:"), summary.TotalSales.StringFixed(2))
			fmt.Fprintf(out, "%s %d\n", bold.Sprint("Orders:"), summary.TotalOrders)

			low := green.Sprint(summary.LowStockItems)
			if summary.LowStockItems > 0 {
				low = red.Sprint(summary.LowStockItems)
			}
			fmt.Fprintf(out, "%s %s\n", bold.Sprint("Low stock:"), low)

			bold.Fprintln(out, "Sales by month:")
			for _, m := range summary.SalesByMonth {
				fmt.Fprintf(out, "  %s  %10s\n", m.Month, m.Amount.StringFixed(2))
			}
			return nil
		},
	}
}
