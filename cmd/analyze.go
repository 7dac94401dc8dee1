package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

var analyzeFailingFlags []string
var analyzePassingFlags []string
var analyzeKindsFlags []string
var analyzeMetricsFlags []string
var analyzeBaseDirFlag string
var analyzeParallelFlag int
var analyzeLimitFlag int
var analyzeWatchFlag bool

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank suspicious locations from passing and failing runs",
		Long: `Replay the event logs of failing and passing runs and rank the analyzed
elements of every requested kind under every requested metric.

Without --kinds the line spectrum is analyzed. Without --metrics spectra are
ranked by Ochiai and predicates by IncreaseTrue. Flags override the values of
the configuration file.`,
		Example: `  suspect analyze --failing logs/failing --passing logs/passing/...
  suspect analyze -f fail.csv -p pass1.csv -p pass2.csv -k line,branch -m Ochiai,DStar
  suspect analyze --config suspect.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := analyzeArgs(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if analyzeWatchFlag {
				return workflow.Watch(ctx, args)
			}

			return workflow.Analyze(ctx, args)
		},
	}
	cmd.Flags().StringArrayVarP(&analyzeFailingFlags, "failing", "f", nil, "event log or directory of a failing run (can be repeated)")
	cmd.Flags().StringArrayVarP(&analyzePassingFlags, "passing", "p", nil, "event log or directory of a passing run (can be repeated)")
	cmd.Flags().StringSliceVarP(&analyzeKindsFlags, "kinds", "k", nil, "analysis kinds, e.g. line,branch,scalar_pair")
	cmd.Flags().StringSliceVarP(&analyzeMetricsFlags, "metrics", "m", nil, "ranking metrics, e.g. Ochiai,Tarantula")
	cmd.Flags().StringVarP(&analyzeBaseDirFlag, "base-dir", "b", "", "source directory used to expand functions, loops and branches into lines")
	cmd.Flags().IntVarP(&analyzeParallelFlag, "parallel", "j", 1, "number of event logs decoded concurrently")
	cmd.Flags().IntVarP(&analyzeLimitFlag, "limit", "n", 0, "show at most this many suggestions per ranking (0 shows all)")
	cmd.Flags().BoolVarP(&analyzeWatchFlag, "watch", "w", false, "re-run the analysis when event logs change")

	return cmd
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// analyzeArgs merges the configuration file with the flags set on cmd.
func analyzeArgs(cmd *cobra.Command) (domain.AnalyzeArgs, error) {
	cfg, err := loadConfig()
	if err != nil {
		return domain.AnalyzeArgs{}, err
	}

	args, err := cfg.AnalyzeArgs()
	if err != nil {
		return domain.AnalyzeArgs{}, err
	}

	flags := cmd.Flags()

	if flags.Changed("failing") {
		args.Failing = parsePaths(analyzeFailingFlags)
	}

	if flags.Changed("passing") {
		args.Passing = parsePaths(analyzePassingFlags)
	}

	if flags.Changed("kinds") {
		if args.Kinds, err = domain.ParseKinds(analyzeKindsFlags); err != nil {
			return domain.AnalyzeArgs{}, err
		}
	}

	if flags.Changed("metrics") {
		if args.Metrics, err = domain.ParseMetrics(analyzeMetricsFlags); err != nil {
			return domain.AnalyzeArgs{}, err
		}
	}

	if flags.Changed("base-dir") {
		args.BaseDir = m.Path(analyzeBaseDirFlag)
	}

	if flags.Changed("parallel") || args.Parallel == 0 {
		args.Parallel = analyzeParallelFlag
	}

	if cmd.Flags().Changed("reports") || args.Reports == "" {
		args.Reports = m.Path(reportsFlag)
	}

	if args.Format, err = parseFormat(args.Format); err != nil {
		return domain.AnalyzeArgs{}, err
	}

	args.Limit = analyzeLimitFlag

	if len(args.Failing) == 0 && len(args.Passing) == 0 {
		return domain.AnalyzeArgs{}, &domain.ConfigError{
			Field:  "runs",
			Reason: "no runs given, use --failing/--passing or a configuration file",
		}
	}

	return args, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
