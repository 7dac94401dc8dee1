package controller

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/suspect/internal/model"
)

type tickMsg time.Time

// rowDelegate renders one suggestion, evaluation, report or event per line.
type rowDelegate struct {
	offset int
}

func (d rowDelegate) Height() int  { return 1 }
func (d rowDelegate) Spacing() int { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d rowDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	row, ok := item.(rowItem)
	if !ok {
		return
	}

	isSelected := index == l.Index()

	var textStyle, indexStyle, scoreStyle lipgloss.Style

	var displayText string

	width := l.Width() - 20 // index (5) + score (11) + spacing (4)

	if isSelected {
		selected := lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		textStyle = selected
		indexStyle = selected.Width(5).Align(lipgloss.Right)
		scoreStyle = selected.Width(11).Align(lipgloss.Right)

		displayText = animateScroll(row.text, width, d.offset)
	} else {
		textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Width(5).
			Align(lipgloss.Right)
		scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Width(11).
			Align(lipgloss.Right)

		displayText = truncateToWidth(row.text, width)
	}

	line := fmt.Sprintf("%s  %s  %s",
		indexStyle.Render(row.index),
		scoreStyle.Render(row.score),
		textStyle.Render(displayText),
	)
	_, _ = fmt.Fprint(w, line)
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	textWidth := lipgloss.Width(text)
	if textWidth <= width {
		return text
	}

	gap := "   "

	// ticks before scrolling starts
	pause := 5

	if offset < pause {
		return truncateToWidth(text, width)
	}

	effectiveStep := offset - pause

	runes := []rune(text + gap)
	n := len(runes)

	start := effectiveStep % n

	res := make([]rune, 0, width)
	for i := range width {
		idx := (start + i) % n
		res = append(res, runes[idx])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// browserModel pages through the sections of a result: one section per
// analysis type and metric for reports, a single section otherwise.
type browserModel struct {
	width        int
	height       int
	limit        int
	rowList      list.Model
	delegate     rowDelegate
	sections     []section
	current      int
	status       string
	rendered     bool
	animOffset   int
	lastSelected int
}

func newBrowserModel(limit int) browserModel {
	delegate := rowDelegate{}
	rowList := list.New([]list.Item{}, delegate, 80, 20)
	rowList.SetShowPagination(false)
	rowList.SetShowFilter(true)
	rowList.SetShowHelp(false)
	rowList.SetShowTitle(false)
	rowList.SetShowStatusBar(false)
	rowList.FilterInput.Placeholder = "Filter…"

	return browserModel{
		limit:        limit,
		rowList:      rowList,
		delegate:     delegate,
		lastSelected: -1,
	}
}

func (b browserModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (b browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.rowList.SetWidth(b.width)

	case tickMsg:
		if b.rowList.FilterState() != list.Filtering && b.rendered {
			b.animOffset++
			b.delegate.offset = b.animOffset
			b.rowList.SetDelegate(b.delegate)
		}

		return b, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyMsg:
		if b.rowList.FilterState() == list.Filtering {
			b.rowList, cmd = b.rowList.Update(msg)

			return b, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return b, tea.Quit
		case "tab", "right", "l":
			return b.showSection(b.current + 1), nil
		case "shift+tab", "left", "h":
			return b.showSection(b.current - 1), nil
		default:
			b.rowList, cmd = b.rowList.Update(msg)

			if b.rowList.Index() != b.lastSelected {
				b.lastSelected = b.rowList.Index()
				b.resetAnimation()
			}

			return b, cmd
		}

	case reportMsg:
		b = b.setSections(reportSections(msg.report, b.limit))
	case evaluationsMsg:
		b = b.setSections([]section{evaluationSection(msg.report, msg.evaluations)})
	case reportsMsg:
		b = b.setSections([]section{reportsSection(msg.summaries)})
	case eventsMsg:
		b = b.setSections([]section{eventsSection(msg.path, msg.events)})
	case watchingMsg:
		names := make([]string, len(msg.dirs))
		for i, dir := range msg.dirs {
			names[i] = string(dir)
		}

		b.status = "watching " + strings.Join(names, ", ")
	}

	return b, cmd
}

func (b *browserModel) resetAnimation() {
	b.animOffset = 0
	b.delegate.offset = 0
	b.rowList.SetDelegate(b.delegate)
}

func (b browserModel) setSections(sections []section) browserModel {
	b.sections = sections
	b.rendered = true

	current := b.current
	if current >= len(sections) {
		current = 0
	}

	return b.showSection(current)
}

// showSection selects section i, wrapping around at both ends.
func (b browserModel) showSection(i int) browserModel {
	if len(b.sections) == 0 {
		b.rowList.SetItems(nil)

		return b
	}

	i = ((i % len(b.sections)) + len(b.sections)) % len(b.sections)
	b.current = i

	items := make([]list.Item, len(b.sections[i].items))
	for j, row := range b.sections[i].items {
		items[j] = row
	}

	b.rowList.ResetFilter()
	b.rowList.SetItems(items)
	b.rowList.Select(0)
	b.lastSelected = 0
	b.resetAnimation()

	return b
}

func (b browserModel) View() string {
	if !b.rendered {
		return "Analyzing event logs…\n"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := "Suspect"
	summary := ""

	if len(b.sections) > 0 {
		sec := b.sections[b.current]
		title = fmt.Sprintf("Suspect · %s", sec.title)
		summary = sec.summary

		if len(b.sections) > 1 {
			summary += "   " + accentStyle.Render(fmt.Sprintf("[%d/%d]", b.current+1, len(b.sections)))
		}
	}

	if b.status != "" {
		summary += "\n" + accentStyle.Render(b.status)
	}

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(b.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • ←/→ section • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		summaryStyle.Render(summary),
		b.renderTable(),
		footer,
	)
}

func (b browserModel) renderTable() string {
	// title (2) + summary (2) + footer (1) + border (2) + header (2)
	listHeight := max(b.height-9, 5)

	// margin (2) + border (2) + padding (2)
	listWidth := max(b.width-6, 20)

	b.rowList.SetHeight(listHeight)
	b.rowList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%5s  %11s  %s", "#", "Score", "Details"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			b.rowList.View(),
		),
	)
}

func reportSections(report m.Report, limit int) []section {
	var sections []section

	summary := fmt.Sprintf("Report %s   Failing: %d   Passing: %d",
		displayID(report.ID), report.Failing, report.Passing)

	for _, kind := range report.Kinds() {
		for _, metric := range report.Metrics(kind) {
			suggestions, _ := report.Suggestions(kind, metric)

			items := make([]rowItem, 0, len(suggestions))

			for i, suggestion := range suggestions {
				if limit > 0 && i >= limit {
					break
				}

				items = append(items, rowItem{
					index: strconv.Itoa(i + 1),
					score: formatScore(suggestion.Suspiciousness),
					text:  joinLocations(suggestion.Locations),
				})
			}

			sections = append(sections, section{
				title:   fmt.Sprintf("%s / %s", kind, metric),
				summary: summary,
				items:   items,
			})
		}
	}

	return sections
}

func evaluationSection(report m.Report, evaluations []m.Evaluation) section {
	items := make([]rowItem, 0, len(evaluations))

	for i, evaluation := range evaluations {
		text := fmt.Sprintf("%s / %s  rank %s  wasted %s  of %d",
			evaluation.Kind, evaluation.Metric,
			formatScore(evaluation.Rank), formatScore(evaluation.WastedEffort), evaluation.Locations)

		ns := make([]int, 0, len(evaluation.TopN))
		for n := range evaluation.TopN {
			ns = append(ns, n)
		}

		sort.Ints(ns)

		for _, n := range ns {
			text += fmt.Sprintf("  top-%d %s", n, formatScore(evaluation.TopN[n]))
		}

		items = append(items, rowItem{index: strconv.Itoa(i + 1), score: formatScore(evaluation.Exam), text: text})
	}

	scenario := ""
	if len(evaluations) > 0 {
		scenario = evaluations[0].Scenario
	}

	return section{
		title:   "Evaluation (EXAM)",
		summary: fmt.Sprintf("Report %s   Scenario: %s", displayID(report.ID), scenario),
		items:   items,
	}
}

func reportsSection(summaries []m.ReportSummary) section {
	items := make([]rowItem, 0, len(summaries))

	for i, summary := range summaries {
		kinds := make([]string, len(summary.Kinds))
		for j, kind := range summary.Kinds {
			kinds[j] = kind.String()
		}

		items = append(items, rowItem{
			index: strconv.Itoa(i + 1),
			score: fmt.Sprintf("%d/%d", summary.Failing, summary.Passing),
			text: fmt.Sprintf("%s  %s  %s",
				summary.ID, summary.CreatedAt.Local().Format(timeLayout), strings.Join(kinds, ",")),
		})
	}

	return section{
		title:   "Reports",
		summary: fmt.Sprintf("Stored reports: %d   Score column: failing/passing runs", len(summaries)),
		items:   items,
	}
}

func eventsSection(path m.Path, events []m.Event) section {
	items := make([]rowItem, 0, len(events))

	for i, event := range events {
		items = append(items, rowItem{
			index: strconv.Itoa(i + 1),
			score: truncateToWidth(event.Type.String(), 11),
			text:  fmt.Sprintf("%s  %s", m.Location{File: event.File, Line: event.Line}, eventDetails(event)),
		})
	}

	return section{
		title:   string(path),
		summary: fmt.Sprintf("Events: %d", len(events)),
		items:   items,
	}
}
