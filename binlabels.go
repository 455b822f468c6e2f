package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"binlabels/bin"
	"binlabels/confirm"
	"binlabels/label"
	"binlabels/mqtt"
	"binlabels/printer"
)

var myBuild string

// App holds state shared by the subcommands.
type App struct {
	cfgFile string
	dir     string
	verbose bool

	cfg    *Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd(&App{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "binlabels",
		Short: "Generate and print storage bin labels",
		Long: `binlabels renders storage bin identifiers (rack letter, row, column)
two to a label image and sends them to a thermal label printer.

Run "generate" to fill the label directory, then "print" to print it.`,
		Version:       myBuild,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&app.cfgFile, "cfg", DefaultConfigFile, "Config file")
	root.PersistentFlags().StringVar(&app.dir, "dir", "", "Label directory (overrides output_dir)")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(newGenerateCmd(app), newPrintCmd(app))
	return root
}

func (app *App) init(cmd *cobra.Command) error {
	if app.logger == nil {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if app.verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		app.logger = logger
	}

	cfg, err := LoadConfig(app.cfgFile, cmd.Flags().Changed("cfg"))
	if err != nil {
		return err
	}
	if app.dir != "" {
		cfg.OutputDir = app.dir
	}
	app.cfg = cfg
	return nil
}

func (app *App) connectMQTT() (*mqtt.Client, error) {
	client, err := mqtt.New(app.cfg.MQTT, app.cfg.ClientID, app.logger)
	if err != nil {
		return nil, fmt.Errorf("init MQTT: %w", err)
	}
	if err := client.Connect(); err != nil {
		// status messages are best effort
		app.logger.Warn("MQTT connect", zap.Error(err))
	}
	return client, nil
}

func newGenerateCmd(app *App) *cobra.Command {
	var specialRows []string

	cmd := &cobra.Command{
		Use:   "generate LETTER WIDTH HEIGHT",
		Short: "Generate label images for a storage rack",
		Long: `Clears the label directory and writes one PNG per pair of bins.

Bins are numbered row by row, e.g. A0103 is rack A, row 1, column 3.
Rows with a different number of bins are given as ROW:COUNT:

  binlabels generate A 6 12 --special_rows 10:2 11:1`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			// "--special_rows 10:2 11:1" leaves the later entries as arguments
			if len(args) > 3 {
				if !cmd.Flags().Changed("special_rows") {
					return fmt.Errorf("accepts 3 arg(s), received %d", len(args))
				}
				specialRows = append(specialRows, args[3:]...)
			}
			width, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("width: %w", err)
			}
			height, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("height: %w", err)
			}
			rows, err := bin.ParseSpecialRows(specialRows)
			if err != nil {
				return err
			}
			rack := bin.Rack{
				Letter:      args[0],
				Width:       width,
				Height:      height,
				SpecialRows: rows,
			}
			return app.generate(cmd.Context(), rack)
		},
	}
	cmd.Flags().StringSliceVar(&specialRows, "special_rows", nil, "Rows with a different bin count, as ROW:COUNT (repeatable)")
	return cmd
}

func (app *App) generate(ctx context.Context, rack bin.Rack) error {
	if ctx == nil {
		ctx = context.Background()
	}

	renderer, err := label.NewRenderer(app.cfg.Label, app.logger)
	if err != nil {
		return err
	}
	gen := label.NewGenerator(app.cfg.OutputDir, renderer, app.logger)

	files, err := gen.Run(ctx, rack)
	if err != nil {
		return err
	}
	app.logger.Info("Generation complete",
		zap.String("rack", rack.Letter),
		zap.Int("bins", rack.Count()),
		zap.Int("files", len(files)),
		zap.Strings("special_rows", bin.FormatSpecialRows(rack.SpecialRows)))

	client, err := app.connectMQTT()
	if err != nil {
		return err
	}
	defer client.Disconnect()
	client.RackGenerated(rack.Letter, len(files))
	return nil
}

func newPrintCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print every label in the label directory",
		Long: `Prints the label files in name order, waiting for confirmation
after each one. The first failed print stops the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.print(cmd.Context(), cmd)
		},
	}
}

func (app *App) print(parent context.Context, cmd *cobra.Command) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := printer.New(app.cfg.Printer, app.logger)
	if err != nil {
		return fmt.Errorf("init printer: %w", err)
	}
	defer p.Close()

	gate, err := confirm.New(app.cfg.Confirm, cmd.InOrStdin(), cmd.OutOrStdout(), app.logger)
	if err != nil {
		return fmt.Errorf("init confirm: %w", err)
	}
	defer gate.Close()

	client, err := app.connectMQTT()
	if err != nil {
		return err
	}
	defer client.Disconnect()

	runner := printer.NewRunner(p, gate, app.logger)
	runner.OnPrinted = client.LabelPrinted

	sum, err := runner.Run(ctx, app.cfg.OutputDir)
	if sum.Total > 0 {
		app.logger.Info("Print run finished", zap.Int("printed", sum.Printed), zap.Int("total", sum.Total))
	}
	// A failed print ends the run, not the process; the runner logged it.
	var perr *printer.PrintError
	if errors.As(err, &perr) {
		return nil
	}
	return err
}
