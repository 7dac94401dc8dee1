package domain

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/suspect/internal/model"
)

func loc(line int) m.Location {
	return m.Location{File: testFile, Line: line}
}

func seeded() RankOption {
	return WithRand(rand.New(rand.NewPCG(1, 2)))
}

func TestRank_TiesShareMidRank(t *testing.T) {
	r := NewRank([]m.Suggestion{
		{Locations: []m.Location{loc(1), loc(2)}, Suspiciousness: 1},
		{Locations: []m.Location{loc(3)}, Suspiciousness: 0.5},
	})

	tests := []struct {
		location m.Location
		want     float64
	}{
		{location: loc(1), want: 1.5},
		{location: loc(2), want: 1.5},
		{location: loc(3), want: 3},
	}

	for _, tt := range tests {
		rank, ok := r.RankOf(tt.location)
		assert.True(t, ok)
		assert.Equal(t, tt.want, rank, tt.location.String())
	}

	_, ok := r.RankOf(loc(9))
	assert.False(t, ok)
	assert.Equal(t, 3, r.Locations())
	assert.Equal(t, []m.Location{loc(1), loc(2), loc(3)}, r.Ordered())
}

func TestRank_ExamOfTopLocation(t *testing.T) {
	r := NewRank([]m.Suggestion{
		{Locations: []m.Location{loc(2)}, Suspiciousness: 1},
		{Locations: []m.Location{loc(1), loc(3), loc(4)}, Suspiciousness: 0.5},
	})

	assert.Equal(t, 1.0, r.Rank([]m.Location{loc(2)}, ScenarioDefault))
	assert.Equal(t, 0.25, r.Exam([]m.Location{loc(2)}, ScenarioDefault))
	assert.Equal(t, 1.0, r.WastedEffort([]m.Location{loc(2)}, ScenarioDefault))
}

func TestRank_Scenarios(t *testing.T) {
	r := NewRank([]m.Suggestion{
		{Locations: []m.Location{loc(1)}, Suspiciousness: 0.9},
		{Locations: []m.Location{loc(2)}, Suspiciousness: 0.8},
		{Locations: []m.Location{loc(3), loc(4)}, Suspiciousness: 0.5},
	})

	faulty := []m.Location{loc(3), loc(1)}

	tests := []struct {
		scenario Scenario
		want     float64
	}{
		{scenario: ScenarioBest, want: 1},
		{scenario: ScenarioWorst, want: 3.5},
		{scenario: ScenarioAverage, want: 1},
		{scenario: ScenarioDefault, want: 2.25},
	}

	for _, tt := range tests {
		t.Run(tt.scenario.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, r.Rank(faulty, tt.scenario))
		})
	}
}

func TestRank_MissingAndEmptyFaulty(t *testing.T) {
	r := NewRank([]m.Suggestion{
		{Locations: []m.Location{loc(1), loc(2)}, Suspiciousness: 1},
	})

	assert.Equal(t, 3.0, r.Rank([]m.Location{loc(7)}, ScenarioDefault))
	assert.Equal(t, 0.0, r.Rank(nil, ScenarioDefault))
	assert.Equal(t, 0.0, r.TopN(nil, 1, ScenarioDefault))

	empty := NewRank(nil)
	assert.Equal(t, 0.0, empty.Exam([]m.Location{loc(1)}, ScenarioDefault))
	assert.Equal(t, 1.0, empty.Rank([]m.Location{loc(1)}, ScenarioDefault))
}

func TestRank_CombineScores(t *testing.T) {
	suggestions := []m.Suggestion{
		{Locations: []m.Location{loc(1)}, Suspiciousness: 0.3},
		{Locations: []m.Location{loc(1), loc(2)}, Suspiciousness: 0.9},
	}

	score, ok := NewRank(suggestions).Suspiciousness(loc(1))
	require.True(t, ok)
	assert.Equal(t, 0.9, score)

	score, _ = NewRank(suggestions, WithCombine(math.Min)).Suspiciousness(loc(1))
	assert.Equal(t, 0.3, score)
}

func TestRank_TopNExact(t *testing.T) {
	r := NewRank([]m.Suggestion{
		{Locations: []m.Location{loc(1)}, Suspiciousness: 0.9},
		{Locations: []m.Location{loc(2)}, Suspiciousness: 0.8},
		{Locations: []m.Location{loc(3), loc(4)}, Suspiciousness: 0.5},
	}, seeded())

	faulty := []m.Location{loc(2)}

	assert.Equal(t, 0.0, r.TopN(faulty, 1, ScenarioDefault))
	assert.Equal(t, 0.5, r.TopN(faulty, 2, ScenarioDefault))
	assert.Equal(t, 1.0, r.TopN(faulty, 2, ScenarioBest))
	assert.InDelta(t, 0.25, r.TopN(faulty, 3, ScenarioDefault), 0.03)
	assert.Equal(t, 0.25, r.TopN(faulty, 10, ScenarioDefault))
	assert.Equal(t, 0.0, r.TopN(faulty, 0, ScenarioDefault))
}

func TestRank_TopNScenarios(t *testing.T) {
	r := NewRank([]m.Suggestion{
		{Locations: []m.Location{loc(1)}, Suspiciousness: 0.9},
		{Locations: []m.Location{loc(2)}, Suspiciousness: 0.8},
		{Locations: []m.Location{loc(3)}, Suspiciousness: 0.1},
	})

	faulty := []m.Location{loc(1), loc(2), loc(9)}

	tests := []struct {
		scenario Scenario
		want     float64
	}{
		{scenario: ScenarioBest, want: 1},
		{scenario: ScenarioWorst, want: 2.0 / 3},
		{scenario: ScenarioAverage, want: 1},
		{scenario: ScenarioDefault, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.scenario.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, r.TopN(faulty, 2, tt.scenario), 1e-9)
		})
	}
}

func TestRank_TopNSamplesTies(t *testing.T) {
	suggestions := []m.Suggestion{
		{Locations: []m.Location{loc(1)}, Suspiciousness: 0.9},
		{Locations: []m.Location{loc(2), loc(3)}, Suspiciousness: 0.5},
	}

	tests := []struct {
		name     string
		faulty   m.Location
		scenario Scenario
		want     float64
	}{
		{name: "top location default", faulty: loc(1), scenario: ScenarioDefault, want: 1.0 / 3},
		{name: "top location best", faulty: loc(1), scenario: ScenarioBest, want: 2.0 / 3},
		{name: "tied location best", faulty: loc(3), scenario: ScenarioBest, want: 2.0 / 3},
		{name: "tied location worst", faulty: loc(3), scenario: ScenarioWorst, want: 2.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRank(suggestions, seeded(), WithRepeat(20000))

			assert.InDelta(t, tt.want, r.TopN([]m.Location{tt.faulty}, 2, tt.scenario), 0.02)
		})
	}

	once := NewRank([]m.Suggestion{
		{Locations: []m.Location{loc(2), loc(3)}, Suspiciousness: 0.5},
	}, seeded(), WithRepeat(1))

	score := once.TopN([]m.Location{loc(3)}, 1, ScenarioBest)
	assert.Contains(t, []float64{0, 1}, score)
}

func TestParseScenario(t *testing.T) {
	tests := []struct {
		name string
		want Scenario
	}{
		{name: "", want: ScenarioDefault},
		{name: "default", want: ScenarioDefault},
		{name: "best", want: ScenarioBest},
		{name: "best_case", want: ScenarioBest},
		{name: "AVG_CASE", want: ScenarioAverage},
		{name: "average", want: ScenarioAverage},
		{name: " worst ", want: ScenarioWorst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario, err := ParseScenario(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, scenario)
		})
	}

	_, err := ParseScenario("median")

	var cfgErr *ConfigError

	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "scenario", cfgErr.Field)
}

func TestScenario_String(t *testing.T) {
	assert.Equal(t, "best_case", ScenarioBest.String())
	assert.Equal(t, "avg_case", ScenarioAverage.String())
	assert.Equal(t, "unknown", Scenario(9).String())
}
