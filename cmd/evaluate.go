package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/suspect/internal/controller"
	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

var evaluateFaultyFlags []string
var evaluateScenarioFlag string
var evaluateTopNFlags []int
var evaluateKindsFlags []string
var evaluateMetricsFlags []string

// evaluateCmd represents the evaluate command.
var evaluateCmd = newEvaluateCmd()

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [report-id]",
		Short: "Rate a stored report against known faulty locations",
		Long: `Compute rank, EXAM, wasted effort and top-n scores of every ranking in a
stored report against known faulty locations. Without a report id the latest
report is evaluated.`,
		Example: `  suspect evaluate --faulty middle.go:8
  suspect evaluate 3f2a9c01d4e5b6a7 --faulty middle.go:8 --scenario worst --top-n 1,5,10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			evaluateArgs, err := newEvaluateArgs(args)
			if err != nil {
				return err
			}

			return workflow.Evaluate(evaluateArgs)
		},
	}
	cmd.Flags().StringArrayVar(&evaluateFaultyFlags, "faulty", nil, "faulty location as file:line (can be repeated)")
	cmd.Flags().StringVarP(&evaluateScenarioFlag, "scenario", "s", "default", "tie scenario: default, best, avg or worst")
	cmd.Flags().IntSliceVar(&evaluateTopNFlags, "top-n", nil, "compute top-n scores for these cut-offs")
	cmd.Flags().StringSliceVarP(&evaluateKindsFlags, "kinds", "k", nil, "only evaluate these analysis kinds")
	cmd.Flags().StringSliceVarP(&evaluateMetricsFlags, "metrics", "m", nil, "only evaluate these metrics")

	return cmd
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func newEvaluateArgs(args []string) (domain.EvaluateArgs, error) {
	faulty := make([]m.Location, 0, len(evaluateFaultyFlags))

	for _, raw := range evaluateFaultyFlags {
		location, err := m.ParseLocation(raw)
		if err != nil {
			return domain.EvaluateArgs{}, &domain.ConfigError{Field: "faulty", Reason: err.Error()}
		}

		faulty = append(faulty, location)
	}

	scenario, err := domain.ParseScenario(evaluateScenarioFlag)
	if err != nil {
		return domain.EvaluateArgs{}, err
	}

	kinds, err := domain.ParseKinds(evaluateKindsFlags)
	if err != nil {
		return domain.EvaluateArgs{}, err
	}

	metrics, err := domain.ParseMetrics(evaluateMetricsFlags)
	if err != nil {
		return domain.EvaluateArgs{}, err
	}

	format, err := parseFormat(controller.FormatTable)
	if err != nil {
		return domain.EvaluateArgs{}, err
	}

	evaluateArgs := domain.EvaluateArgs{
		Reports:  m.Path(reportsFlag),
		Faulty:   faulty,
		Scenario: scenario,
		TopN:     evaluateTopNFlags,
		Kinds:    kinds,
		Metrics:  metrics,
		Format:   format,
	}

	if len(args) == 1 {
		evaluateArgs.ReportID = args[0]
	}

	return evaluateArgs, nil
}
