package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/suspect/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd, config: newStartConfig()}
}

// Start initializes the UI.
func (s *SimpleUI) Start(options ...StartOption) error {
	s.config = newStartConfig(options...)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {}

// Wait returns immediately; plain output needs no user interaction.
func (s *SimpleUI) Wait() {}

// DisplayReport prints one table per analysis type and metric.
func (s *SimpleUI) DisplayReport(report m.Report) error {
	if s.config.format == FormatJSON {
		return s.encode(report)
	}

	s.printf("Report %s: %d failing, %d passing runs\n", displayID(report.ID), report.Failing, report.Passing)

	for _, kind := range report.Kinds() {
		for _, metric := range report.Metrics(kind) {
			suggestions, _ := report.Suggestions(kind, metric)
			s.printf("\n%s / %s\n", kind, metric)
			s.printf("%s", renderSuggestions(suggestions, s.config.limit))
		}
	}

	return nil
}

// DisplayEvaluations prints the evaluation statistics of a report.
func (s *SimpleUI) DisplayEvaluations(report m.Report, evaluations []m.Evaluation) error {
	if s.config.format == FormatJSON {
		return s.encode(evaluations)
	}

	s.printf("Evaluation of report %s\n\n", displayID(report.ID))
	s.printf("%s", renderEvaluations(evaluations))

	return nil
}

// DisplayReports prints the stored reports.
func (s *SimpleUI) DisplayReports(summaries []m.ReportSummary) error {
	if s.config.format == FormatJSON {
		return s.encode(summaries)
	}

	if len(summaries) == 0 {
		s.printf("No reports stored\n")

		return nil
	}

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"ID", "Created", "Failing", "Passing", "Kinds"},
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT)

	for _, summary := range summaries {
		kinds := make([]string, len(summary.Kinds))
		for i, kind := range summary.Kinds {
			kinds[i] = kind.String()
		}

		table.Append([]string{
			summary.ID,
			summary.CreatedAt.Local().Format(timeLayout),
			strconv.Itoa(summary.Failing),
			strconv.Itoa(summary.Passing),
			strings.Join(kinds, ","),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Reports %d", len(summaries)), "", "", "", ""})
	table.Render()
	s.printf("%s", tableBuffer.String())

	return nil
}

// DisplayEvents prints the events of one log. The JSON format writes one
// object per line.
func (s *SimpleUI) DisplayEvents(path m.Path, events []m.Event) error {
	if s.config.format == FormatJSON {
		return writeJSONLines(s.cmd.OutOrStdout(), events)
	}

	s.printf("%s: %d events\n", path, len(events))
	s.printf("%s", renderEvents(events))

	return nil
}

// DisplayWatching announces watch mode.
func (s *SimpleUI) DisplayWatching(dirs []m.Path) {
	names := make([]string, len(dirs))
	for i, dir := range dirs {
		names[i] = string(dir)
	}

	s.printf("\nWatching %s for changes (ctrl+c to stop)\n", strings.Join(names, ", "))
}

func (s *SimpleUI) encode(v any) error {
	return writeJSON(s.cmd.OutOrStdout(), v)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func writeJSONLines(w io.Writer, events []m.Event) error {
	encoder := json.NewEncoder(w)
	for _, event := range events {
		if err := encoder.Encode(event); err != nil {
			return err
		}
	}

	return nil
}

func newTable(w io.Writer, header []string, alignment ...int) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment(alignment)

	return table
}

func renderSuggestions(suggestions []m.Suggestion, limit int) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"#", "Suspiciousness", "Locations"},
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT)

	locations := 0

	for i, suggestion := range suggestions {
		locations += len(suggestion.Locations)

		if limit > 0 && i >= limit {
			continue
		}

		table.Append([]string{
			strconv.Itoa(i + 1),
			formatScore(suggestion.Suspiciousness),
			joinLocations(suggestion.Locations),
		})
	}

	table.SetFooter([]string{"", fmt.Sprintf("Suggestions %d", len(suggestions)), fmt.Sprintf("Locations %d", locations)})
	table.Render()

	return tableBuffer.String()
}

func renderEvaluations(evaluations []m.Evaluation) string {
	var ns []int

	seen := make(map[int]bool)

	for _, evaluation := range evaluations {
		for n := range evaluation.TopN {
			if !seen[n] {
				seen[n] = true

				ns = append(ns, n)
			}
		}
	}

	sort.Ints(ns)

	header := []string{"Kind", "Metric", "Scenario", "Locations", "Rank", "EXAM", "Wasted Effort"}
	alignment := []int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	}

	for _, n := range ns {
		header = append(header, fmt.Sprintf("Top-%d", n))
		alignment = append(alignment, tablewriter.ALIGN_RIGHT)
	}

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, header, alignment...)

	for _, evaluation := range evaluations {
		row := []string{
			evaluation.Kind.String(),
			evaluation.Metric,
			evaluation.Scenario,
			strconv.Itoa(evaluation.Locations),
			formatScore(evaluation.Rank),
			formatScore(evaluation.Exam),
			formatScore(evaluation.WastedEffort),
		}

		for _, n := range ns {
			if value, ok := evaluation.TopN[n]; ok {
				row = append(row, formatScore(value))
			} else {
				row = append(row, "-")
			}
		}

		table.Append(row)
	}

	table.Render()

	return tableBuffer.String()
}

func renderEvents(events []m.Event) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"#", "Event", "Location", "ID", "Details"},
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT)

	for i, event := range events {
		table.Append([]string{
			strconv.Itoa(i + 1),
			event.Type.String(),
			m.Location{File: event.File, Line: event.Line}.String(),
			strconv.Itoa(event.ID),
			eventDetails(event),
		})
	}

	table.Render()

	return tableBuffer.String()
}

// eventDetails renders the kind-specific fields of an event.
func eventDetails(e m.Event) string {
	switch e.Type {
	case m.EventBranch:
		return fmt.Sprintf("then=%d else=%d", e.ThenID, e.ElseID)
	case m.EventFunctionEnter, m.EventFunctionError:
		return fmt.Sprintf("%s (%d)", e.Function, e.FunctionID)
	case m.EventFunctionExit:
		return fmt.Sprintf("%s (%d) -> %s", e.Function, e.FunctionID, e.Value)
	case m.EventDef:
		return fmt.Sprintf("%s = %s", e.Var, e.Value)
	case m.EventUse:
		return e.Var
	case m.EventCondition:
		return fmt.Sprintf("%s is %t", e.Condition, e.Outcome)
	case m.EventLoopBegin, m.EventLoopHit, m.EventLoopEnd:
		return fmt.Sprintf("loop %d", e.LoopID)
	default:
		return ""
	}
}

func joinLocations(locations []m.Location) string {
	parts := make([]string, len(locations))
	for i, loc := range locations {
		parts[i] = loc.String()
	}

	return strings.Join(parts, ", ")
}

func formatScore(value float64) string {
	return strconv.FormatFloat(value, 'f', 4, 64)
}

func displayID(id string) string {
	if id == "" {
		return "(unsaved)"
	}

	return id
}
