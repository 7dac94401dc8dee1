package controller

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/suspect/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	input   io.Reader
	config  StartConfig
	program *tea.Program
	done    chan struct{}
	mu      sync.Mutex
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// WithInput sets the keyboard input of the program. The default is stdin.
func (t *TUI) WithInput(input io.Reader) *TUI {
	t.input = input

	return t
}

// Start launches the Bubble Tea program. In JSON mode nothing is launched
// and results are written as JSON.
func (t *TUI) Start(options ...StartOption) error {
	t.config = newStartConfig(options...)
	if t.config.format == FormatJSON {
		return nil
	}

	return t.startWithModel(newBrowserModel(t.config.limit))
}

func (t *TUI) startWithModel(model tea.Model) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	programOptions := []tea.ProgramOption{tea.WithOutput(t.output), tea.WithAltScreen()}
	if t.input != nil {
		programOptions = append(programOptions, tea.WithInput(t.input))
	}

	t.program = tea.NewProgram(model, programOptions...)
	t.done = make(chan struct{})

	go func(program *tea.Program, done chan struct{}) {
		defer close(done)

		_, _ = program.Run()
	}(t.program, t.done)

	return nil
}

// Close stops the program and restores the terminal.
func (t *TUI) Close() {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program = nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user quits the program.
func (t *TUI) Wait() {
	t.mu.Lock()
	done := t.done
	running := t.program != nil
	t.mu.Unlock()

	if running {
		<-done
	}
}

// DisplayReport shows the rankings of a report, one page per type and metric.
func (t *TUI) DisplayReport(report m.Report) error {
	if t.config.format == FormatJSON {
		return writeJSON(t.output, report)
	}

	t.send(reportMsg{report: report})

	return nil
}

// DisplayEvaluations shows evaluation statistics.
func (t *TUI) DisplayEvaluations(report m.Report, evaluations []m.Evaluation) error {
	if t.config.format == FormatJSON {
		return writeJSON(t.output, evaluations)
	}

	t.send(evaluationsMsg{report: report, evaluations: evaluations})

	return nil
}

// DisplayReports lists stored reports.
func (t *TUI) DisplayReports(summaries []m.ReportSummary) error {
	if t.config.format == FormatJSON {
		return writeJSON(t.output, summaries)
	}

	t.send(reportsMsg{summaries: summaries})

	return nil
}

// DisplayEvents lists the events of one log.
func (t *TUI) DisplayEvents(path m.Path, events []m.Event) error {
	if t.config.format == FormatJSON {
		return writeJSONLines(t.output, events)
	}

	t.send(eventsMsg{path: path, events: events})

	return nil
}

// DisplayWatching shows the watched directories in the status line.
func (t *TUI) DisplayWatching(dirs []m.Path) {
	if t.config.format == FormatJSON {
		return
	}

	t.send(watchingMsg{dirs: dirs})
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}
