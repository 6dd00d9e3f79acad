// Package cmd - payout and price commands
package cmd

import (
	"github.com/spf13/cobra"

	"payout-calc/core/batch"
	"payout-calc/core/output"
	"payout-calc/core/types"
	"payout-calc/internal/logging"
)

type payoutOutput struct {
	Rates  types.RateConfig `json:"rates"`
	Result batch.PayoutRow  `json:"result"`
}

type priceOutput struct {
	Rates        types.RateConfig `json:"rates"`
	Result       batch.PriceRow   `json:"result"`
	Verification *batch.PayoutRow `json:"verification,omitempty"`
}

// newPayoutCmd computes the settlement for a single sale
func newPayoutCmd(root *rootOptions) *cobra.Command {
	var (
		in     types.ProductInput
		format string
	)
	cmd := &cobra.Command{
		Use:   "payout",
		Short: "Calculate the settled amount and net profit for a sale price",
		Long: `Calculate what the marketplace settles for one sale and the resulting
net profit after product cost.

Examples:
  payout-calc payout --sale-price 1045 --cost 500 --gst 5 --royalty 10
  payout-calc payout -p 1045 -c 500 --gst 5 --royalty 10 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := root.format(format)
			if err != nil {
				return err
			}
			p, err := batch.NewProcessor(root.cfg.Rates, nil)
			if err != nil {
				return err
			}

			res := p.Payout(in)
			if res.Err != nil {
				return res.Err
			}
			row := batch.PresentPayout(res)
			logging.Debug("payout computed", logging.Row(0, in.SKU)...)

			if f == output.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), payoutOutput{Rates: p.Rates(), Result: row})
			}
			root.ui.PayoutSummary(row, p.Rates())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.SKU, "sku", "", "product SKU shown with the result")
	flags.Float64VarP(&in.SalePrice, "sale-price", "p", 0, "sale price including GST")
	flags.Float64VarP(&in.Cost, "cost", "c", 0, "product cost")
	flags.Float64Var(&in.GSTRatePercent, "gst", 0, "GST rate in percent")
	flags.Float64Var(&in.RoyaltyPercent, "royalty", 0, "royalty in percent of sale price")
	flags.StringVarP(&format, "format", "f", "", "output format (table, json)")
	for _, name := range []string{"sale-price", "cost", "gst", "royalty"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// newPriceCmd solves the sale price for a target net profit
func newPriceCmd(root *rootOptions) *cobra.Command {
	var (
		in       types.ProductInput
		mrp      float64
		format   string
		noVerify bool
	)
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Calculate the sale price needed for a target net profit",
		Long: `Solve the sale price at which net profit equals the target, and the
discount it represents against the MRP when one is given. The payout at the
solved price is recomputed as a verification.

Examples:
  payout-calc price --cost 500 --target-profit 100 --gst 5 --royalty 10
  payout-calc price -c 500 -t 100 --gst 5 --royalty 10 --mrp 1899`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := root.format(format)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("mrp") {
				in.PriceCeiling = &mrp
			}
			p, err := batch.NewProcessor(root.cfg.Rates, nil)
			if err != nil {
				return err
			}

			res := p.Price(in)
			if res.Err != nil {
				return res.Err
			}
			row := batch.PresentPrice(res)

			var check *batch.PayoutRow
			if price := res.Solution.RequiredSalePrice; price != nil && !noVerify {
				verify := in
				verify.SalePrice = *price
				v := batch.PresentPayout(p.Payout(verify))
				check = &v
			}

			if f == output.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), priceOutput{Rates: p.Rates(), Result: row, Verification: check})
			}
			root.ui.PriceSummary(row, check)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.SKU, "sku", "", "product SKU shown with the result")
	flags.Float64VarP(&in.Cost, "cost", "c", 0, "product cost")
	flags.Float64VarP(&in.TargetProfit, "target-profit", "t", 0, "net profit to reach")
	flags.Float64Var(&in.GSTRatePercent, "gst", 0, "GST rate in percent")
	flags.Float64Var(&in.RoyaltyPercent, "royalty", 0, "royalty in percent of sale price")
	flags.Float64Var(&mrp, "mrp", 0, "maximum retail price to compare against")
	flags.StringVarP(&format, "format", "f", "", "output format (table, json)")
	flags.BoolVar(&noVerify, "no-verify", false, "skip recomputing the payout at the solved price")
	for _, name := range []string{"cost", "target-profit", "gst", "royalty"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
