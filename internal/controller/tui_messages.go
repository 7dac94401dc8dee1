package controller

import (
	m "github.com/mouse-blink/suspect/internal/model"
)

// Message types.
type reportMsg struct {
	report m.Report
}

type evaluationsMsg struct {
	report      m.Report
	evaluations []m.Evaluation
}

type reportsMsg struct {
	summaries []m.ReportSummary
}

type eventsMsg struct {
	path   m.Path
	events []m.Event
}

type watchingMsg struct {
	dirs []m.Path
}

// List item types.
type rowItem struct {
	index string
	score string
	text  string
}

func (r rowItem) FilterValue() string {
	return r.text
}

// section is one page of the browser: a titled list of rows.
type section struct {
	title   string
	summary string
	items   []rowItem
}
