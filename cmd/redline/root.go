package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/redline/internal/annotation"
	"github.com/dshills/redline/internal/config"
	"github.com/dshills/redline/internal/engine/buffer"
	"github.com/dshills/redline/internal/engine/tracking"
	"github.com/dshills/redline/internal/logging"
	"github.com/dshills/redline/internal/snapwatch"
)

// app carries state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "redline",
		Short: "Tracked-change overlays for plain text documents",
		Long: `redline renders tracked changes and comment threads recorded against a
document, and reverts selected changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.DefaultPath(), "Path to configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newRenderCmd(a),
		newRejectCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return root
}

// init loads configuration and builds the logger. Flags override the
// configuration file and environment.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	logger.Debug("configuration loaded", slog.String("path", a.configPath), slog.String("config", cfg.String()))
	return nil
}

// input is a document and the snapshot recorded against it.
type input struct {
	docPath string
	doc     *buffer.Document
	snap    tracking.SnapshotFile
}

func (a *app) loadInput(docPath, snapPath string) (*input, error) {
	if docPath == "" || snapPath == "" {
		return nil, fmt.Errorf("--doc and --snapshot are required")
	}
	text, err := os.ReadFile(docPath)
	if err != nil {
		return nil, err
	}
	snap, err := snapwatch.LoadFile(snapPath)
	if err != nil {
		return nil, err
	}
	return &input{docPath: docPath, doc: buffer.NewDocument(string(text)), snap: snap}, nil
}

func (a *app) build(in *input) annotation.Set {
	b := annotation.NewBuilder(annotation.WithLogger(a.logger))
	return b.Build(in.snap.Ranges, in.snap.Threads, annotation.WithDocumentLength(in.doc.Len()))
}
