package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/suspect/internal/model"
)

func TestMetrics_ListsEveryMetric(t *testing.T) {
	metrics := Metrics()

	assert.Len(t, metrics, 46)
	assert.Equal(t, MetricAMPLE, metrics[0])
	assert.Equal(t, MetricIncreaseFalse, metrics[len(metrics)-1])
	assert.Len(t, SpectrumMetrics(), 44)

	for _, metric := range SpectrumMetrics() {
		assert.False(t, metric.PredicateOnly(), metric.String())
	}
}

func TestCompute_ZeroCountsNeverFail(t *testing.T) {
	for _, metric := range Metrics() {
		t.Run(metric.String(), func(t *testing.T) {
			assert.Equal(t, 0.0, Compute(metric, 0, 0, 0, 0))

			for po := range 3 {
				for pn := range 3 {
					for fo := range 3 {
						for fn := range 3 {
							value := Compute(metric, po, pn, fo, fn)
							assert.False(t, math.IsNaN(value), "NaN for %d %d %d %d", po, pn, fo, fn)
							assert.False(t, math.IsInf(value, 0), "Inf for %d %d %d %d", po, pn, fo, fn)
						}
					}
				}
			}
		})
	}
}

func TestCompute_KnownValues(t *testing.T) {
	tests := []struct {
		name           string
		metric         Metric
		po, pn, fo, fn int
		want           float64
	}{
		{name: "ochiai perfect", metric: MetricOchiai, po: 0, pn: 1, fo: 2, fn: 0, want: 1},
		{name: "ochiai shared", metric: MetricOchiai, po: 1, pn: 0, fo: 1, fn: 0, want: 1 / math.Sqrt(2)},
		{name: "tarantula", metric: MetricTarantula, po: 1, pn: 1, fo: 1, fn: 0, want: 1 / 1.5},
		{name: "jaccard", metric: MetricJaccard, po: 1, pn: 1, fo: 1, fn: 1, want: 1.0 / 3},
		{name: "dstar", metric: MetricDStar, po: 1, pn: 0, fo: 2, fn: 1, want: 2},
		{name: "binary all failing", metric: MetricBinary, po: 3, pn: 0, fo: 2, fn: 0, want: 1},
		{name: "binary missing failing", metric: MetricBinary, po: 0, pn: 0, fo: 1, fn: 1, want: 0},
		{name: "binary without failing runs", metric: MetricBinary, po: 2, pn: 1, fo: 0, fn: 0, want: 0},
		{name: "dstar squares failed observed", metric: MetricDStar, po: 1, pn: 0, fo: 3, fn: 1, want: 4.5},
		{name: "naish1 missing failing", metric: MetricNaish1, po: 0, pn: 4, fo: 1, fn: 1, want: -1},
		{name: "naish1 all failing", metric: MetricNaish1, po: 0, pn: 4, fo: 2, fn: 0, want: 4},
		{name: "wong2", metric: MetricWong2, po: 3, pn: 0, fo: 1, fn: 0, want: -2},
		{name: "wong3 small", metric: MetricWong3, po: 2, pn: 0, fo: 5, fn: 0, want: 3},
		{name: "wong3 medium", metric: MetricWong3, po: 12, pn: 0, fo: 5, fn: 0, want: 5 - 2.802},
		{name: "qe", metric: MetricQe, po: 3, pn: 0, fo: 1, fn: 0, want: 0.25},
		{name: "russel rao", metric: MetricRusselAndRao, po: 1, pn: 1, fo: 1, fn: 1, want: 0.25},
		{name: "simple matching", metric: MetricSimpleMatching, po: 1, pn: 1, fo: 1, fn: 1, want: 0.5},
		{name: "undefined denominator", metric: MetricKulczynski1, po: 0, pn: 1, fo: 2, fn: 0, want: 0},
		{name: "predicate only", metric: MetricIncreaseTrue, po: 1, pn: 1, fo: 1, fn: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Compute(tt.metric, tt.po, tt.pn, tt.fo, tt.fn), 1e-9)
		})
	}
}

// TestCompute_EveryCoefficient evaluates each spectrum metric on one set of
// counts: po=1, pn=2, fo=3, fn=1, so f=4, p=3 and n=7.
func TestCompute_EveryCoefficient(t *testing.T) {
	want := map[Metric]float64{
		MetricAMPLE:             5.0 / 12,
		MetricAMPLE2:            5.0 / 12,
		MetricAnderberg:         3.0 / 7,
		MetricArithmeticMean:    5.0 / 72,
		MetricBinary:            0,
		MetricCBIInc:            5.0 / 28,
		MetricCohen:             5.0 / 12,
		MetricCrosstab:          1225.0 / 1008,
		MetricDice:              1.2,
		MetricDStar:             4.5,
		MetricEuclid:            math.Sqrt(5),
		MetricFleiss:            10.0 / 7,
		MetricGP02:              2*(3+math.Sqrt2) + 1,
		MetricGP03:              math.Sqrt(8),
		MetricGP13:              3.6,
		MetricGP19:              3 * math.Sqrt(3),
		MetricGoodman:           0.5,
		MetricHamann:            3.0 / 7,
		MetricHammingEtc:        5,
		MetricHarmonicMean:      5.0 / 6,
		MetricJaccard:           0.6,
		MetricKulczynski1:       1.5,
		MetricKulczynski2:       0.75,
		MetricM1:                2.5,
		MetricM2:                1.0 / 3,
		MetricNaish1:            -1,
		MetricNaish2:            2.75,
		MetricOchiai:            0.75,
		MetricOchiai2:           0.5,
		MetricPairScoring:       15,
		MetricQe:                0.75,
		MetricRogersAndTanimoto: 5.0 / 9,
		MetricRogot1:            17.0 / 48,
		MetricRogot2:            17.0 / 24,
		MetricRusselAndRao:      3.0 / 7,
		MetricScott:             5.0 / 12,
		MetricSimpleMatching:    5.0 / 7,
		MetricSokal:             5.0 / 6,
		MetricSorensenDice:      0.75,
		MetricTarantula:         9.0 / 13,
		MetricWong1:             3,
		MetricWong2:             2,
		MetricWong3:             2,
		MetricZoltar:            9.0 / 10015,
	}

	for _, metric := range SpectrumMetrics() {
		t.Run(metric.String(), func(t *testing.T) {
			expected, ok := want[metric]
			require.True(t, ok, "no expected value for %s", metric)

			assert.InDelta(t, expected, Compute(metric, 1, 2, 3, 1), 1e-9)
		})
	}

	assert.Len(t, want, len(SpectrumMetrics()))
}

func TestFunc_MatchesCompute(t *testing.T) {
	f := Func(MetricOchiai)

	assert.Equal(t, Compute(MetricOchiai, 1, 2, 3, 0), f(1, 2, 3, 0))
}

func TestParseMetric(t *testing.T) {
	metric, err := ParseMetric(" ochiai ")
	require.NoError(t, err)
	assert.Equal(t, MetricOchiai, metric)

	metric, err = ParseMetric("QE")
	require.NoError(t, err)
	assert.Equal(t, MetricQe, metric)

	_, err = ParseMetric("Bogus")

	var cfgErr *ConfigError

	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "metric", cfgErr.Field)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestParseMetrics_StopsAtUnknown(t *testing.T) {
	metrics, err := ParseMetrics([]string{"Tarantula", "DStar"})
	require.NoError(t, err)
	assert.Equal(t, []Metric{MetricTarantula, MetricDStar}, metrics)

	_, err = ParseMetrics([]string{"Tarantula", "nope"})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds([]string{"line", "def-use", "SCALAR_PAIR"})
	require.NoError(t, err)
	assert.Equal(t, []m.AnalysisType{m.AnalysisLine, m.AnalysisDefUse, m.AnalysisScalarPair}, kinds)

	_, err = ParseKinds([]string{"statement"})

	var cfgErr *ConfigError

	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "kind", cfgErr.Field)
}

func TestDefaultMetricFor(t *testing.T) {
	assert.Equal(t, MetricOchiai, DefaultMetricFor(m.AnalysisLine))
	assert.Equal(t, MetricOchiai, DefaultMetricFor(m.AnalysisDefUse))
	assert.Equal(t, MetricIncreaseTrue, DefaultMetricFor(m.AnalysisBranch))
	assert.Equal(t, MetricIncreaseTrue, DefaultMetricFor(m.AnalysisScalarPair))
}

func TestMetric_String(t *testing.T) {
	assert.Equal(t, "Ochiai", MetricOchiai.String())
	assert.Equal(t, "qe", MetricQe.String())
	assert.Equal(t, "Metric(?)", Metric(-1).String())
}
