// Package cmd provides the CLI commands for payout-calc.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"payout-calc/core/output"
	"payout-calc/core/ui"
	"payout-calc/internal/config"
	"payout-calc/internal/errors"
	"payout-calc/internal/logging"
)

// Version is set at build time with -ldflags "-X payout-calc/cmd/cli/cmd.Version=..."
var Version = "0.1.0"

// rootOptions holds the persistent flags and the state initConfig resolves
// from them before any subcommand runs.
type rootOptions struct {
	cfgFile string
	verbose bool
	noColor bool

	flatRate float64
	tdsRate  float64
	tcsRate  float64

	cfg *config.Config
	ui  *ui.Writer
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "payout-calc",
		Short: "Calculate marketplace settlements and target sale prices",
		Long: `payout-calc computes what a marketplace pays out for a sale after
GST, the flat platform fee, royalty, TDS and TCS, and solves the sale price
needed to reach a target net profit.

Examples:
  payout-calc payout --sale-price 1045 --cost 500 --gst 5 --royalty 10
  payout-calc price --cost 500 --target-profit 100 --gst 5 --royalty 10 --mrp 1899
  payout-calc bulk payout products.xlsx -o results.xlsx
  payout-calc template price -o price_template.xlsx`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file, JSON or .hcl (default is $HOME/.payout-calc.json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.Float64Var(&opts.flatRate, "flat-rate", 0, "flat platform fee as a fraction of sale price (overrides config)")
	flags.Float64Var(&opts.tdsRate, "tds-rate", 0, "TDS rate on the taxable amount (overrides config)")
	flags.Float64Var(&opts.tcsRate, "tcs-rate", 0, "TCS rate on the GST component (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(newPayoutCmd(opts))
	rootCmd.AddCommand(newPriceCmd(opts))
	rootCmd.AddCommand(newBulkCmd(opts))
	rootCmd.AddCommand(newTemplateCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return NewRootCmd().Execute()
}

// initConfig resolves configuration in increasing precedence: defaults, the
// config file, PAYOUT_* environment variables, then command-line flags.
func (o *rootOptions) initConfig(cmd *cobra.Command) error {
	path := o.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("flat-rate") {
		cfg.Rates.FlatRate = o.flatRate
	}
	if flags.Changed("tds-rate") {
		cfg.Rates.TDSRate = o.tdsRate
	}
	if flags.Changed("tcs-rate") {
		cfg.Rates.TCSRate = o.tcsRate
	}
	if o.noColor {
		cfg.Output.NoColor = true
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Initialize logging
	if err := logging.Initialize(cfg.Logging); err != nil {
		return errors.Config("initializing logging", err)
	}
	config.Set(cfg)

	o.cfg = cfg
	o.ui = ui.NewWriter(cmd.OutOrStdout(), cfg.Output.NoColor)
	if o.verbose {
		o.ui.SetVerbosity(2)
	}
	return nil
}

// format resolves a --format flag against the configured default. Single
// calculations render to the terminal, so only table and json are accepted.
func (o *rootOptions) format(flag string) (output.Format, error) {
	if flag == "" {
		flag = o.cfg.Output.DefaultFormat
	}
	f, err := output.ParseFormat(flag)
	if err != nil {
		return "", err
	}
	if f.IsFile() {
		return "", errors.NotSupported("output format " + flag + " here (use table or json)")
	}
	return f, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Internal("encoding output", err)
	}
	return nil
}

// newVersionCmd prints version information
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "payout-calc version %s\n", Version)
		},
	}
}
