package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/suspect/internal/controller"
	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

// eventsCmd represents the events command.
var eventsCmd = newEventsCmd()

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events <event-log>",
		Short: "Decode and print an event log",
		Long: `Decode an event log and print its events. With --format json every event is
written as one JSON object per line. A malformed log is printed up to the bad
row and the decode error is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			format, err := parseFormat(controller.FormatTable)
			if err != nil {
				return err
			}

			return workflow.Events(domain.EventsArgs{Path: m.Path(args[0]), Format: format})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
