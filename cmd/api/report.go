package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"storefront/internal/analytics"
)

func newReportCommand(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print an analytics report as JSON",
	}

	var limit int
	bestSellers := &cobra.Command{
		Use:   "best-sellers",
		Short: "Products ranked by units sold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, *envFile, func(e analytics.Engine) (interface{}, error) {
				return e.BestSellers(cmd.Context(), limit)
			})
		},
	}
	bestSellers.Flags().IntVar(&limit, "limit", 0, "maximum rows (0 = all)")

	categoryRatings := &cobra.Command{
		Use:   "category-ratings",
		Short: "Average review rating per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, *envFile, func(e analytics.Engine) (interface{}, error) {
				return e.CategoryRatings(cmd.Context())
			})
		},
	}

	orderHistory := &cobra.Command{
		Use:   "order-history <userId>",
		Short: "Orders of a user, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, *envFile, func(e analytics.Engine) (interface{}, error) {
				return e.OrderHistory(cmd.Context(), args[0])
			})
		},
	}

	cmd.AddCommand(bestSellers, categoryRatings, orderHistory)
	return cmd
}

func runReport(cmd *cobra.Command, envFile string, query func(analytics.Engine) (interface{}, error)) error {
	a, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer a.close()

	rows, err := query(a.engine)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), rows)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
