package domain

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/suspect/internal/adapter"
	m "github.com/mouse-blink/suspect/internal/model"
)

const middleExample = "../../examples/middle"

// TestAnalyze_MiddleExample localizes the wrong assignment on line 10 of
// the middle example from its recorded event logs.
func TestAnalyze_MiddleExample(t *testing.T) {
	fsAdapter := adapter.NewLocalSourceFSAdapter()

	relevant, irrelevant, err := fsAdapter.CollectRuns(
		[]m.Path{m.Path(filepath.Join(middleExample, "logs", "failing"))},
		[]m.Path{m.Path(filepath.Join(middleExample, "logs", "passing"))},
	)
	require.NoError(t, err)
	require.Len(t, relevant, 1)
	require.Len(t, irrelevant, 4)

	report, err := Analyze(context.Background(), relevant, irrelevant,
		[]m.AnalysisType{m.AnalysisLine, m.AnalysisBranch},
		[]Metric{MetricOchiai},
		WithEventSource(adapter.NewCSVEventSource()),
		WithLocationFinder(adapter.NewGoLocationFinder(fsAdapter, adapter.NewLocalGoFileAdapter())),
		WithBaseDir(middleExample),
		WithParallel(2),
	)
	require.NoError(t, err)

	lines, ok := report.Suggestions(m.AnalysisLine, "Ochiai")
	require.True(t, ok)
	require.NotEmpty(t, lines)

	bug := m.Location{File: "middle.go", Line: 10}

	assert.Equal(t, []m.Location{bug}, lines[0].Locations)
	assert.InDelta(t, 1/math.Sqrt2, lines[0].Suspiciousness, 1e-9)

	evaluations := Evaluate(report, []m.Location{bug}, ScenarioDefault, []int{1})
	require.NotEmpty(t, evaluations)

	for _, evaluation := range evaluations {
		if evaluation.Kind == m.AnalysisLine {
			assert.Equal(t, 1.0, evaluation.Rank)
			assert.Equal(t, 1.0, evaluation.TopN[1])
		}
	}

	branches, ok := report.Suggestions(m.AnalysisBranch, "Ochiai")
	require.True(t, ok)
	assert.NotEmpty(t, branches)
}
