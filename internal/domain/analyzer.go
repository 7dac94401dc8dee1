package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/suspect/internal/adapter"
	m "github.com/mouse-blink/suspect/internal/model"
)

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*analyzerConfig)

type analyzerConfig struct {
	source   adapter.EventSource
	finder   adapter.LocationFinder
	parallel int
	logger   *slog.Logger
	baseDir  m.Path
}

// WithEventSource sets where run events are read from. The default reads
// CSV event logs from the run paths.
func WithEventSource(source adapter.EventSource) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.source = source
	}
}

// WithLocationFinder enables expansion of functions, loops and branches to
// all the lines they span.
func WithLocationFinder(finder adapter.LocationFinder) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.finder = finder
	}
}

// WithParallel decodes up to n event logs concurrently. Replay stays
// sequential in run order.
func WithParallel(n int) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.parallel = n
	}
}

// WithLogger sets the logger. The default discards all records.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.logger = logger
	}
}

// WithBaseDir sets the directory relative source paths are resolved against.
func WithBaseDir(dir m.Path) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.baseDir = dir
	}
}

// Analyzer replays labeled runs into analysis objects and ranks them.
type Analyzer struct {
	relevant   []m.Run
	irrelevant []m.Run
	model      Model
	config     analyzerConfig
	objects    []*Object
	paths      map[m.RunID]m.Path
}

// NewAnalyzer creates an analyzer over failing (relevant) and passing
// (irrelevant) runs feeding the objects of factory.
func NewAnalyzer(relevant, irrelevant []m.Run, factory Factory, opts ...AnalyzerOption) *Analyzer {
	cfg := analyzerConfig{
		source:   adapter.NewCSVEventSource(),
		parallel: 1,
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	paths := make(map[m.RunID]m.Path, len(relevant)+len(irrelevant))
	for _, run := range relevant {
		paths[run.ID] = run.Path
	}

	for _, run := range irrelevant {
		paths[run.ID] = run.Path
	}

	return &Analyzer{
		relevant:   relevant,
		irrelevant: irrelevant,
		model:      NewModel(factory),
		config:     cfg,
		paths:      paths,
	}
}

// decodedRun holds the events of one run read ahead of replay.
type decodedRun struct {
	events []m.Event
	err    error
}

// Analyze replays every failing run, then every passing run, and finalizes
// all objects. A malformed event log ends its run early; any other read
// failure aborts the analysis.
func (a *Analyzer) Analyze(ctx context.Context) error {
	runs := make([]m.Run, 0, len(a.relevant)+len(a.irrelevant))
	runs = append(runs, a.relevant...)
	runs = append(runs, a.irrelevant...)

	if a.config.parallel > 1 {
		decoded, err := a.decodeAll(ctx, runs)
		if err != nil {
			return err
		}

		for i, run := range runs {
			a.replayDecoded(run, decoded[i])
		}
	} else {
		for _, run := range runs {
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := a.replay(run); err != nil {
				return err
			}
		}
	}

	a.model.Finalize(m.RunIDs(a.irrelevant), m.RunIDs(a.relevant))
	a.objects = a.model.Objects()

	a.config.logger.Debug("analysis finalized",
		"objects", len(a.objects), "failing", len(a.relevant), "passing", len(a.irrelevant))

	return nil
}

func (a *Analyzer) replay(run m.Run) error {
	stream, err := a.config.source.Open(run)
	if err != nil {
		return fmt.Errorf("failed to open run %s: %w", run, err)
	}

	defer func() { _ = stream.Close() }()

	a.config.logger.Debug("replaying run", "run", run.ID, "path", run.Path, "failing", run.Failing)
	a.model.Prepare(run.ID)

	events := 0

	for {
		event, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if errors.Is(err, adapter.ErrDecode) {
			a.warnTruncated(run, events, err)

			break
		}

		if err != nil {
			return fmt.Errorf("failed to read run %s: %w", run, err)
		}

		a.model.Handle(event)
		events++
	}

	a.config.logger.Debug("run replayed", "run", run.ID, "events", events)

	return nil
}

func (a *Analyzer) decodeAll(ctx context.Context, runs []m.Run) ([]decodedRun, error) {
	decoded := make([]decodedRun, len(runs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.parallel)

	for i, run := range runs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			stream, err := a.config.source.Open(run)
			if err != nil {
				return fmt.Errorf("failed to open run %s: %w", run, err)
			}

			defer func() { _ = stream.Close() }()

			events, err := adapter.Drain(stream)
			if err != nil && !errors.Is(err, adapter.ErrDecode) {
				return fmt.Errorf("failed to read run %s: %w", run, err)
			}

			decoded[i] = decodedRun{events: events, err: err}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return decoded, nil
}

func (a *Analyzer) replayDecoded(run m.Run, decoded decodedRun) {
	a.config.logger.Debug("replaying run", "run", run.ID, "path", run.Path, "failing", run.Failing)
	a.model.Prepare(run.ID)

	for _, event := range decoded.events {
		a.model.Handle(event)
	}

	if decoded.err != nil {
		a.warnTruncated(run, len(decoded.events), decoded.err)
	}
}

func (a *Analyzer) warnTruncated(run m.Run, events int, err error) {
	a.config.logger.Warn("event log truncated",
		"run", run.ID, "path", run.Path, "events", events, "error", err)
}

// Analysis returns every finalized object.
func (a *Analyzer) Analysis() []*Object {
	return a.objects
}

// AnalysisByType returns the finalized objects of one kind.
func (a *Analyzer) AnalysisByType(kind m.AnalysisType) []*Object {
	var objects []*Object

	for _, obj := range a.objects {
		if obj.Kind == kind {
			objects = append(objects, obj)
		}
	}

	return objects
}

// SortedSuggestions ranks the objects of kind under metric. Objects with
// exactly the same score are merged into one suggestion holding the union
// of their locations. Suggestions are ordered by descending score.
// A metric that does not apply to kind yields no suggestions.
func (a *Analyzer) SortedSuggestions(baseDir m.Path, metric Metric, kind m.AnalysisType) []m.Suggestion {
	if baseDir == "" {
		baseDir = a.config.baseDir
	}

	groups := make(map[float64]map[m.Location]struct{})

	for _, obj := range a.AnalysisByType(kind) {
		suggestion, ok := obj.Suggestion(metric, a.config.finder, baseDir)
		if !ok {
			a.config.logger.Debug("metric does not apply", "metric", metric, "kind", kind)

			return nil
		}

		group, exists := groups[suggestion.Suspiciousness]
		if !exists {
			group = make(map[m.Location]struct{})
			groups[suggestion.Suspiciousness] = group
		}

		for _, loc := range suggestion.Locations {
			group[loc] = struct{}{}
		}
	}

	suggestions := make([]m.Suggestion, 0, len(groups))

	for score, group := range groups {
		locations := make([]m.Location, 0, len(group))
		for loc := range group {
			locations = append(locations, loc)
		}

		m.SortLocations(locations)
		suggestions = append(suggestions, m.Suggestion{Locations: locations, Suspiciousness: score})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Suspiciousness > suggestions[j].Suspiciousness
	})

	return suggestions
}

// CoveragePerRun returns, per run, the objects of kind hit at least once
// in that run.
func (a *Analyzer) CoveragePerRun(kind m.AnalysisType) map[m.RunID][]*Object {
	objects := a.AnalysisByType(kind)
	coverage := make(map[m.RunID][]*Object, len(a.paths))

	for run := range a.paths {
		covered := make([]*Object, 0, len(objects))

		for _, obj := range objects {
			if obj.HitIn(run) {
				covered = append(covered, obj)
			}
		}

		coverage[run] = covered
	}

	return coverage
}

// Coverage returns the objects of kind hit in any run.
func (a *Analyzer) Coverage(kind m.AnalysisType) []*Object {
	var covered []*Object

	for _, obj := range a.AnalysisByType(kind) {
		for run := range a.paths {
			if obj.HitIn(run) {
				covered = append(covered, obj)

				break
			}
		}
	}

	return covered
}

// RunPath returns the event-log path of run.
func (a *Analyzer) RunPath(run m.RunID) (m.Path, bool) {
	path, ok := a.paths[run]

	return path, ok
}
