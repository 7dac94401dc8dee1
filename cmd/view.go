package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/suspect/internal/controller"
	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

var viewLatestFlag bool
var viewLimitFlag int

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [report-id]",
		Short: "View previously stored analysis reports",
		Long:  "List the stored analysis reports, or show one report by id or with --latest.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			format, err := parseFormat(controller.FormatTable)
			if err != nil {
				return err
			}

			viewArgs := domain.ViewArgs{
				Reports: m.Path(reportsFlag),
				Latest:  viewLatestFlag,
				Format:  format,
				Limit:   viewLimitFlag,
			}
			if len(args) == 1 {
				viewArgs.ReportID = args[0]
			}

			return workflow.View(viewArgs)
		},
	}
	cmd.Flags().BoolVarP(&viewLatestFlag, "latest", "l", false, "show the most recent report")
	cmd.Flags().IntVarP(&viewLimitFlag, "limit", "n", 0, "show at most this many suggestions per ranking (0 shows all)")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
