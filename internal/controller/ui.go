// Package controller provides output adapters for displaying fault localization results.
package controller

import (
	m "github.com/mouse-blink/suspect/internal/model"
)

// Format selects how results are rendered.
type Format int

// Available Format values.
const (
	FormatTable Format = iota
	FormatJSON
)

// ParseFormat resolves an output format by name.
func ParseFormat(name string) (Format, bool) {
	switch name {
	case "", "table":
		return FormatTable, true
	case "json":
		return FormatJSON, true
	default:
		return 0, false
	}
}

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}

	return "table"
}

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	format Format
	limit  int
}

// WithFormat sets the output format.
func WithFormat(format Format) StartOption {
	return func(c *StartConfig) {
		c.format = format
	}
}

// WithLimit caps the number of suggestions shown per ranking. Zero shows all.
func WithLimit(limit int) StartOption {
	return func(c *StartConfig) {
		if limit >= 0 {
			c.limit = limit
		}
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	cfg := StartConfig{format: FormatTable}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying analysis results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(options ...StartOption) error
	Close()
	Wait() // Wait for UI to finish (user closes it)
	DisplayReport(report m.Report) error
	DisplayEvaluations(report m.Report, evaluations []m.Evaluation) error
	DisplayReports(summaries []m.ReportSummary) error
	DisplayEvents(path m.Path, events []m.Event) error
	DisplayWatching(dirs []m.Path)
}
