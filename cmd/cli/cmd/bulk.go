// Package cmd - bulk and template commands
package cmd

import (
	"iter"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"payout-calc/adapters/tabular"
	"payout-calc/core/batch"
	"payout-calc/core/output"
	"payout-calc/core/types"
	"payout-calc/core/ui"
	"payout-calc/internal/logging"
)

var directions = []string{string(types.DirectionForward), string(types.DirectionBackward)}

type bulkOutput struct {
	Input   string           `json:"input"`
	Output  string           `json:"output"`
	Rates   types.RateConfig `json:"rates"`
	Summary batch.Summary    `json:"summary"`
}

// newBulkCmd processes a whole spreadsheet
func newBulkCmd(root *rootOptions) *cobra.Command {
	var (
		outPath string
		format  string
		preview int
	)
	cmd := &cobra.Command{
		Use:   "bulk <payout|price> <file>",
		Short: "Process every row of a CSV or XLSX file",
		Long: `Run the payout or price calculation over every row of a spreadsheet and
write the results, with the input columns echoed, to a new file. Rows that
cannot be computed keep their place and carry the reason in the Status column.

Use "payout-calc template" to get a file with the expected columns.

Examples:
  payout-calc bulk payout products.xlsx
  payout-calc bulk price products.csv -o prices.xlsx`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: directions,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := types.ParseDirection(args[0])
			if err != nil {
				return err
			}
			f, err := root.format(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("preview") {
				preview = root.cfg.Output.PreviewRows
			}
			if outPath == "" {
				outPath = resultsPath(args[1])
			}
			if _, err := output.FileFormat(outPath); err != nil {
				return err
			}

			table, err := tabular.ReadFile(args[1])
			if err != nil {
				return err
			}
			if err := tabular.RequireColumns(table, tabular.Required(dir)); err != nil {
				return err
			}
			p, err := batch.NewProcessor(root.cfg.Rates, nil)
			if err != nil {
				return err
			}

			if f == output.FormatJSON {
				root.ui.SetVerbosity(0)
			}
			bar := root.ui.NewProgressBar(table.Len(), "Calculating")
			sheet, summary := tabular.Process(p, counted(tabular.Records(table, dir), bar), dir)
			bar.Done()

			if err := tabular.WriteFile(outPath, sheet); err != nil {
				return err
			}
			logging.Info("bulk run finished",
				zap.String("direction", string(dir)),
				zap.String("input", args[1]),
				zap.String("output", outPath),
				zap.Int("processed", summary.Processed),
				zap.Int("failed", summary.Failed))

			if f == output.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), bulkOutput{
					Input:   args[1],
					Output:  outPath,
					Rates:   p.Rates(),
					Summary: summary,
				})
			}
			root.ui.BatchReport(sheet, summary, preview)
			root.ui.Success("Results written to %s", outPath)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&outPath, "output", "o", "", "results file, .xlsx or .csv (default <file>_results.<ext>)")
	flags.StringVarP(&format, "format", "f", "", "report format (table, json)")
	flags.IntVar(&preview, "preview", 0, "rows to show in the terminal (default output.preview_rows)")
	return cmd
}

// counted advances bar as each record is pulled.
func counted(records iter.Seq[batch.Record], bar *ui.ProgressBar) iter.Seq[batch.Record] {
	return func(yield func(batch.Record) bool) {
		for rec := range records {
			bar.Increment()
			if !yield(rec) {
				return
			}
		}
	}
}

// resultsPath derives "<name>_results.<ext>" next to the input file.
func resultsPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_results" + ext
}

// newTemplateCmd writes a blank upload file with sample rows
func newTemplateCmd(root *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "template <payout|price>",
		Short: "Write a template spreadsheet for bulk processing",
		Long: `Write a spreadsheet with the columns bulk processing expects and two
sample rows to replace.

Examples:
  payout-calc template payout
  payout-calc template price -o price_template.csv`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: directions,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := types.ParseDirection(args[0])
			if err != nil {
				return err
			}
			sheet := output.PayoutTemplate()
			if dir == types.DirectionBackward {
				sheet = output.PriceTemplate()
			}
			if outPath == "" {
				outPath = string(dir) + "_template.xlsx"
			}
			if err := tabular.WriteFile(outPath, sheet); err != nil {
				return err
			}
			root.ui.Success("Template written to %s", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "template file, .xlsx or .csv (default <direction>_template.xlsx)")
	return cmd
}
