package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"goasterix/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds flag values and the config file path
type options struct {
	configPath  string
	showVersion bool
	category    uint8
	flags       app.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{flags: app.DefaultConfig()}

	rootCmd := &cobra.Command{
		Use:   "asterix",
		Short: "ASTERIX data block decoder and encoder",
		Long: `Decodes and encodes EUROCONTROL ASTERIX data blocks.

Supported categories: CAT021 (ADS-B target reports) and CAT034
(monoradar service messages).

Example usage:
  asterix decode feed.bin --output-dir ./logs
  asterix decode --hex capture.txt
  asterix encode record.yaml
  asterix uap --category 21`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				app.ShowVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	pf.BoolVarP(&opts.flags.Verbose, "verbose", "v", false, "Verbose logging")
	pf.StringVar(&opts.flags.Logs.Directory, "log-dir", "", "Application log directory (console only when empty)")
	rootCmd.Flags().BoolVar(&opts.showVersion, "version", false, "Show version information")

	rootCmd.AddCommand(newDecodeCmd(opts), newEncodeCmd(opts), newUAPCmd(opts))
	return rootCmd
}

func newDecodeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "List the records of a file of data blocks",
		Long: `Reads concatenated binary data blocks (or one hex block per line with
--hex) from file, or stdin when file is "-" or omitted, and writes one
listing line per block to stdout and to a daily file in the output
directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(cmd, opts, func(a *app.Application, cfg app.Config) error {
				input := cfg.Input
				if len(args) > 0 {
					input = args[0]
				}
				r, closeInput, err := openInput(cmd, input)
				if err != nil {
					return err
				}
				defer closeInput()
				return a.Decode(cmd.Context(), r)
			})
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.flags.Hex, "hex", false, "Input is one hex encoded block per line")
	f.StringVarP(&opts.flags.OutputDir, "output-dir", "o", app.DefaultOutputDir, "Listing directory (no file when empty)")
	f.BoolVarP(&opts.flags.RotateUTC, "utc", "u", true, "Use UTC for listing rotation")
	f.BoolVar(&opts.flags.StrictLength, "strict-length", true, "Reject records whose LEN disagrees with their content")
	f.DurationVar(&opts.flags.StationTTL, "station-ttl", app.DefaultStationTTL, "How long a silent data source is remembered")
	f.DurationVar(&opts.flags.StatsInterval, "stats-interval", app.DefaultStatsInterval, "Statistics logging interval")
	return cmd
}

func newEncodeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "encode [file.yaml]",
		Short: "Encode YAML record documents into hex data blocks",
		Long: `Reads YAML documents of the form

  category: 34
  items:
    I034/010: "190C"
    I034/000: "01"

and prints each encoded data block as one hex line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(cmd, opts, func(a *app.Application, _ app.Config) error {
				input := "-"
				if len(args) > 0 {
					input = args[0]
				}
				r, closeInput, err := openInput(cmd, input)
				if err != nil {
					return err
				}
				defer closeInput()
				_, err = a.Encode(r, cmd.OutOrStdout())
				return err
			})
		},
	}
}

func newUAPCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uap",
		Short: "Print the dispatch table of a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(cmd, opts, func(a *app.Application, _ app.Config) error {
				return a.WriteUAP(cmd.OutOrStdout(), opts.category)
			})
		},
	}
	cmd.Flags().Uint8Var(&opts.category, "category", 0, "Category id, e.g. 21")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// loadConfig reads the config file when given and lets explicitly set
// flags override it
func loadConfig(cmd *cobra.Command, opts *options) (app.Config, error) {
	if opts.configPath == "" {
		return opts.flags, nil
	}
	cfg, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	src := opts.flags
	if flags.Changed("verbose") {
		cfg.Verbose = src.Verbose
	}
	if flags.Changed("log-dir") {
		cfg.Logs.Directory = src.Logs.Directory
	}
	if flags.Changed("hex") {
		cfg.Hex = src.Hex
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = src.OutputDir
	}
	if flags.Changed("utc") {
		cfg.RotateUTC = src.RotateUTC
	}
	if flags.Changed("strict-length") {
		cfg.StrictLength = src.StrictLength
	}
	if flags.Changed("station-ttl") {
		cfg.StationTTL = src.StationTTL
	}
	if flags.Changed("stats-interval") {
		cfg.StatsInterval = src.StatsInterval
	}
	return cfg, nil
}

// withApplication builds logger and application for one command run
func withApplication(cmd *cobra.Command, opts *options, fn func(*app.Application, app.Config) error) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, logFile, err := app.NewLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	a, err := app.NewApplication(cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := fn(a, cfg); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"command": cmd.Name(),
		}).Debug("Command failed")
		return err
	}
	return nil
}

// openInput opens path, or the command's stdin for "" and "-"
func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}
