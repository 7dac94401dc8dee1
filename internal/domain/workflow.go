package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mouse-blink/suspect/internal/adapter"
	"github.com/mouse-blink/suspect/internal/controller"
	m "github.com/mouse-blink/suspect/internal/model"
)

// DefaultReports is the report database used when none is configured.
const DefaultReports = m.Path(".suspect/reports.db")

// AnalyzeArgs holds the inputs of one analysis.
type AnalyzeArgs struct {
	Failing  []m.Path
	Passing  []m.Path
	Kinds    []m.AnalysisType
	Metrics  []Metric
	BaseDir  m.Path
	Parallel int
	// Reports is the report database; empty disables persistence.
	Reports m.Path
	Format  controller.Format
	Limit   int
}

// EvaluateArgs selects a stored report and the faulty locations to rate it against.
type EvaluateArgs struct {
	Reports  m.Path
	ReportID string
	Faulty   []m.Location
	Scenario Scenario
	TopN     []int
	Kinds    []m.AnalysisType
	Metrics  []Metric
	Format   controller.Format
}

// ViewArgs selects a stored report. An empty ReportID lists all reports.
type ViewArgs struct {
	Reports  m.Path
	ReportID string
	Latest   bool
	Format   controller.Format
	Limit    int
}

// EventsArgs selects an event log to print.
type EventsArgs struct {
	Path   m.Path
	Format controller.Format
}

// Workflow defines the interface for fault localization operations.
type Workflow interface {
	Analyze(ctx context.Context, args AnalyzeArgs) error
	Watch(ctx context.Context, args AnalyzeArgs) error
	Evaluate(args EvaluateArgs) error
	View(args ViewArgs) error
	Events(args EventsArgs) error
}

// StoreOpener opens the report database at a path.
type StoreOpener func(path m.Path) (adapter.ReportStore, error)

// WatcherFactory creates a file watcher.
type WatcherFactory func() (adapter.Watcher, error)

// WorkflowOption configures a Workflow.
type WorkflowOption func(*workflow)

// WithStoreOpener replaces the bbolt report database.
func WithStoreOpener(open StoreOpener) WorkflowOption {
	return func(w *workflow) {
		w.openStore = open
	}
}

// WithWatcherFactory replaces the fsnotify watcher.
func WithWatcherFactory(factory WatcherFactory) WorkflowOption {
	return func(w *workflow) {
		w.newWatcher = factory
	}
}

// WithWorkflowLogger sets the logger used by the workflow and its analyses.
func WithWorkflowLogger(logger *slog.Logger) WorkflowOption {
	return func(w *workflow) {
		w.logger = logger
	}
}

// WithRankOptions sets the options used to build rankings during evaluation.
func WithRankOptions(opts ...RankOption) WorkflowOption {
	return func(w *workflow) {
		w.rankOpts = opts
	}
}

type workflow struct {
	fsAdapter  adapter.SourceFSAdapter
	source     adapter.EventSource
	finder     adapter.LocationFinder
	ui         controller.UI
	openStore  StoreOpener
	newWatcher WatcherFactory
	logger     *slog.Logger
	rankOpts   []RankOption
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	source adapter.EventSource,
	finder adapter.LocationFinder,
	ui controller.UI,
	opts ...WorkflowOption,
) Workflow {
	w := &workflow{
		fsAdapter:  fsAdapter,
		source:     source,
		finder:     finder,
		ui:         ui,
		openStore:  openBoltStore,
		newWatcher: newFSWatcher,
		logger:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func openBoltStore(path m.Path) (adapter.ReportStore, error) {
	if dir := filepath.Dir(string(path)); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create report directory %s: %w", dir, err)
		}
	}

	return adapter.NewBoltReportStore(path)
}

func newFSWatcher() (adapter.Watcher, error) {
	return adapter.NewFSWatcher(adapter.DefaultDebounce)
}

// Analyze replays the runs, ranks every requested kind and metric, stores
// the report when a database is configured, and displays it.
func (w *workflow) Analyze(ctx context.Context, args AnalyzeArgs) error {
	if err := w.ui.Start(controller.WithFormat(args.Format), controller.WithLimit(args.Limit)); err != nil {
		return err
	}

	defer w.ui.Close()

	report, err := w.analyze(ctx, args)
	if err != nil {
		return err
	}

	if err := w.ui.DisplayReport(report); err != nil {
		return err
	}

	w.ui.Wait()

	return nil
}

// Watch analyzes once, then again every time an event log below the run
// inputs changes, until ctx is done.
func (w *workflow) Watch(ctx context.Context, args AnalyzeArgs) error {
	if err := w.ui.Start(controller.WithFormat(args.Format), controller.WithLimit(args.Limit)); err != nil {
		return err
	}

	defer w.ui.Close()

	report, err := w.analyze(ctx, args)
	if err != nil {
		return err
	}

	if err := w.ui.DisplayReport(report); err != nil {
		return err
	}

	watcher, err := w.newWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	defer func() { _ = watcher.Stop() }()

	dirs := w.watchDirs(append(append([]m.Path{}, args.Failing...), args.Passing...))
	changes := make(chan []string, 1)

	err = watcher.Watch(dirs, func(paths []string) {
		select {
		case changes <- paths:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("failed to watch %v: %w", dirs, err)
	}

	w.ui.DisplayWatching(dirs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			w.logger.Info("event logs changed", "paths", len(paths))

			report, err := w.analyze(ctx, args)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}

				w.logger.Error("analysis failed", "error", err)

				continue
			}

			if err := w.ui.DisplayReport(report); err != nil {
				return err
			}
		}
	}
}

// watchDirs maps run inputs to the directories holding them.
func (w *workflow) watchDirs(inputs []m.Path) []m.Path {
	seen := make(map[m.Path]bool)

	var dirs []m.Path

	for _, input := range inputs {
		root, recursive := parseRootPath(string(input))

		dir := root
		if info, err := w.fsAdapter.FileInfo(m.Path(root)); err == nil && !info.IsDir() {
			dir = filepath.Dir(root)
		}

		if recursive {
			dir += "/..."
		}

		if !seen[m.Path(dir)] {
			seen[m.Path(dir)] = true

			dirs = append(dirs, m.Path(dir))
		}
	}

	return dirs
}

// parseRootPath extracts the root path and recursive flag from a path string.
func parseRootPath(rootStr string) (path string, recursive bool) {
	if len(rootStr) >= 4 && rootStr[len(rootStr)-4:] == "/..." {
		return rootStr[:len(rootStr)-4], true
	}

	return rootStr, false
}

func (w *workflow) analyze(ctx context.Context, args AnalyzeArgs) (m.Report, error) {
	relevant, irrelevant, err := w.fsAdapter.CollectRuns(args.Failing, args.Passing)
	if err != nil {
		return m.Report{}, fmt.Errorf("failed to collect runs: %w", err)
	}

	if len(relevant) == 0 {
		w.logger.Warn("no failing runs, every element scores as unsuspicious")
	}

	start := time.Now()

	report, err := Analyze(ctx, relevant, irrelevant, args.Kinds, args.Metrics,
		WithEventSource(w.source),
		WithLocationFinder(w.finder),
		WithParallel(args.Parallel),
		WithLogger(w.logger),
		WithBaseDir(args.BaseDir),
	)
	if err != nil {
		return m.Report{}, err
	}

	w.logger.Debug("analysis done",
		"failing", len(relevant), "passing", len(irrelevant), "duration", time.Since(start))

	if args.Reports == "" {
		return report, nil
	}

	store, err := w.openStore(args.Reports)
	if err != nil {
		return m.Report{}, err
	}

	defer func() { _ = store.Close() }()

	report, err = store.SaveReport(report)
	if err != nil {
		return m.Report{}, fmt.Errorf("failed to save report: %w", err)
	}

	w.logger.Info("report saved", "id", report.ID, "reports", args.Reports)

	return report, nil
}

// Evaluate rates a stored report against known faulty locations.
func (w *workflow) Evaluate(args EvaluateArgs) error {
	if len(args.Faulty) == 0 {
		return &ConfigError{Field: "faulty", Reason: "at least one faulty location is required"}
	}

	report, err := w.loadReport(args.Reports, args.ReportID)
	if err != nil {
		return err
	}

	evaluations := Evaluate(report, args.Faulty, args.Scenario, args.TopN, w.rankOpts...)
	evaluations = filterEvaluations(evaluations, args.Kinds, args.Metrics)

	if err := w.ui.Start(controller.WithFormat(args.Format)); err != nil {
		return err
	}

	defer w.ui.Close()

	if err := w.ui.DisplayEvaluations(report, evaluations); err != nil {
		return err
	}

	w.ui.Wait()

	return nil
}

// View shows a stored report, or lists the stored reports when no id is
// given and the latest one is not requested.
func (w *workflow) View(args ViewArgs) error {
	if err := w.ui.Start(controller.WithFormat(args.Format), controller.WithLimit(args.Limit)); err != nil {
		return err
	}

	defer w.ui.Close()

	if args.ReportID == "" && !args.Latest {
		store, err := w.openStore(args.Reports)
		if err != nil {
			return err
		}

		defer func() { _ = store.Close() }()

		summaries, err := store.ListReports()
		if err != nil {
			return fmt.Errorf("failed to list reports: %w", err)
		}

		if err := w.ui.DisplayReports(summaries); err != nil {
			return err
		}

		w.ui.Wait()

		return nil
	}

	report, err := w.loadReport(args.Reports, args.ReportID)
	if err != nil {
		return err
	}

	if err := w.ui.DisplayReport(report); err != nil {
		return err
	}

	w.ui.Wait()

	return nil
}

// Events decodes an event log and displays it. A malformed log is shown
// up to the bad row and then reported.
func (w *workflow) Events(args EventsArgs) error {
	events, readErr := adapter.ReadEventLog(args.Path)
	if readErr != nil && !errors.Is(readErr, adapter.ErrDecode) {
		return fmt.Errorf("failed to read %s: %w", args.Path, readErr)
	}

	if err := w.ui.Start(controller.WithFormat(args.Format)); err != nil {
		return err
	}

	defer w.ui.Close()

	if err := w.ui.DisplayEvents(args.Path, events); err != nil {
		return err
	}

	w.ui.Wait()

	return readErr
}

func (w *workflow) loadReport(reports m.Path, id string) (m.Report, error) {
	store, err := w.openStore(reports)
	if err != nil {
		return m.Report{}, err
	}

	defer func() { _ = store.Close() }()

	if id == "" {
		return store.LatestReport()
	}

	return store.LoadReport(id)
}

// Analyze replays failing (relevant) and passing (irrelevant) runs into the
// objects of kinds and ranks each kind under every metric. Without kinds the
// line spectrum is analyzed; without metrics each kind uses its default
// metric. Predicate-only metrics are skipped for spectrum kinds.
func Analyze(
	ctx context.Context,
	relevant, irrelevant []m.Run,
	kinds []m.AnalysisType,
	metrics []Metric,
	opts ...AnalyzerOption,
) (m.Report, error) {
	if len(kinds) == 0 {
		kinds = []m.AnalysisType{m.AnalysisLine}
	}

	for _, metric := range metrics {
		if !metric.Valid() {
			return m.Report{}, &ConfigError{Field: "metric", Reason: fmt.Sprintf("unknown metric %d", int(metric))}
		}
	}

	factory, err := NewFactory(kinds...)
	if err != nil {
		return m.Report{}, err
	}

	analyzer := NewAnalyzer(relevant, irrelevant, factory, opts...)
	if err := analyzer.Analyze(ctx); err != nil {
		return m.Report{}, fmt.Errorf("analysis failed: %w", err)
	}

	results := make(m.Results, len(kinds))

	for _, kind := range kinds {
		selected := metrics
		if len(selected) == 0 {
			selected = []Metric{DefaultMetricFor(kind)}
		}

		byMetric := make(map[string][]m.Suggestion, len(selected))

		for _, metric := range selected {
			if metric.PredicateOnly() && !kind.IsPredicate() {
				analyzer.config.logger.Debug("skipping predicate metric for spectrum", "metric", metric, "kind", kind)

				continue
			}

			byMetric[metric.String()] = analyzer.SortedSuggestions("", metric, kind)
		}

		results[kind] = byMetric
	}

	return m.Report{
		BaseDir: analyzer.config.baseDir,
		Passing: len(irrelevant),
		Failing: len(relevant),
		Results: results,
	}, nil
}

// Evaluate rates every ranking of report against the faulty locations.
// Evaluations are ordered by kind, then metric name.
func Evaluate(report m.Report, faulty []m.Location, scenario Scenario, topN []int, opts ...RankOption) []m.Evaluation {
	var evaluations []m.Evaluation

	for _, kind := range report.Kinds() {
		for _, metric := range report.Metrics(kind) {
			suggestions, _ := report.Suggestions(kind, metric)
			rank := NewRank(suggestions, opts...)

			evaluation := m.Evaluation{
				Kind:         kind,
				Metric:       metric,
				Scenario:     scenario.String(),
				Locations:    rank.Locations(),
				Rank:         rank.Rank(faulty, scenario),
				Exam:         rank.Exam(faulty, scenario),
				WastedEffort: rank.WastedEffort(faulty, scenario),
			}

			if len(topN) > 0 {
				evaluation.TopN = make(map[int]float64, len(topN))
				for _, n := range topN {
					evaluation.TopN[n] = rank.TopN(faulty, n, scenario)
				}
			}

			evaluations = append(evaluations, evaluation)
		}
	}

	return evaluations
}

func filterEvaluations(evaluations []m.Evaluation, kinds []m.AnalysisType, metrics []Metric) []m.Evaluation {
	if len(kinds) == 0 && len(metrics) == 0 {
		return evaluations
	}

	kindSet := make(map[m.AnalysisType]bool, len(kinds))
	for _, kind := range kinds {
		kindSet[kind] = true
	}

	metricSet := make(map[string]bool, len(metrics))
	for _, metric := range metrics {
		metricSet[metric.String()] = true
	}

	filtered := make([]m.Evaluation, 0, len(evaluations))

	for _, evaluation := range evaluations {
		if len(kindSet) > 0 && !kindSet[evaluation.Kind] {
			continue
		}

		if len(metricSet) > 0 && !metricSet[evaluation.Metric] {
			continue
		}

		filtered = append(filtered, evaluation)
	}

	return filtered
}
