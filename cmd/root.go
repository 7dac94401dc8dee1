// Package cmd provides the root command and CLI setup for suspect.
package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/suspect/internal/adapter"
	"github.com/mouse-blink/suspect/internal/config"
	"github.com/mouse-blink/suspect/internal/controller"
	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var eventSource adapter.EventSource
var locationFinder adapter.LocationFinder
var workflow domain.Workflow
var ui controller.UI
var logger *slog.Logger
var logLevel = new(slog.LevelVar)

func init() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	eventSource = adapter.NewCSVEventSource()
	locationFinder = adapter.NewGoLocationFinder(fsAdapter, adapter.NewLocalGoFileAdapter())
	workflow = domain.NewWorkflow(
		fsAdapter,
		eventSource,
		locationFinder,
		ui,
		domain.WithWorkflowLogger(logger),
	)
}

var verboseFlag bool
var configFlag string
var reportsFlag string
var formatFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suspect",
		Short: "Statistical fault localization from execution event logs",
		Long: `Suspect ranks source locations by how strongly their execution correlates
with failing runs. It replays instrumentation event logs of passing and
failing runs, builds spectra and predicates, and scores them with
similarity metrics such as Ochiai, Tarantula or DStar.

Run inputs are event-log files or directories:
  - logs/failing        every log directly inside the directory
  - logs/passing/...    every log below the directory`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verboseFlag {
				logLevel.Set(slog.LevelDebug)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "",
		"configuration file (default "+config.DefaultFile+" when present)")
	cmd.PersistentFlags().StringVarP(&reportsFlag, "reports", "r", string(domain.DefaultReports),
		"report database; empty disables persistence")
	cmd.PersistentFlags().StringVar(&formatFlag, "format", "", "output format: table or json")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the --config file, or the default file when it exists.
// Without either the zero configuration is returned.
func loadConfig() (config.Config, error) {
	path := configFlag
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); errors.Is(err, os.ErrNotExist) {
			return config.Config{}, nil
		}

		path = config.DefaultFile
	}

	return config.Load(m.Path(path))
}

func parseFormat(fallback controller.Format) (controller.Format, error) {
	if formatFlag == "" {
		return fallback, nil
	}

	format, ok := controller.ParseFormat(formatFlag)
	if !ok {
		return 0, &domain.ConfigError{Field: "format", Reason: "unknown format " + formatFlag}
	}

	return format, nil
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
