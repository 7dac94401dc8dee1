package domain

import (
	"math"
	"strings"

	m "github.com/mouse-blink/suspect/internal/model"
)

// Metric selects a suspiciousness coefficient.
type Metric int

// Similarity coefficients over the spectrum counts, followed by the
// predicate-only increase metrics.
const (
	MetricAMPLE Metric = iota
	MetricAMPLE2
	MetricAnderberg
	MetricArithmeticMean
	MetricBinary
	MetricCBIInc
	MetricCohen
	MetricCrosstab
	MetricDice
	MetricDStar
	MetricEuclid
	MetricFleiss
	MetricGP02
	MetricGP03
	MetricGP13
	MetricGP19
	MetricGoodman
	MetricHamann
	MetricHammingEtc
	MetricHarmonicMean
	MetricJaccard
	MetricKulczynski1
	MetricKulczynski2
	MetricM1
	MetricM2
	MetricNaish1
	MetricNaish2
	MetricOchiai
	MetricOchiai2
	MetricPairScoring
	MetricQe
	MetricRogersAndTanimoto
	MetricRogot1
	MetricRogot2
	MetricRusselAndRao
	MetricScott
	MetricSimpleMatching
	MetricSokal
	MetricSorensenDice
	MetricTarantula
	MetricWong1
	MetricWong2
	MetricWong3
	MetricZoltar
	MetricIncreaseTrue
	MetricIncreaseFalse
)

// DefaultMetric is used for spectra when no metric is configured.
const DefaultMetric = MetricOchiai

// DefaultPredicateMetric is the natural metric of predicates.
const DefaultPredicateMetric = MetricIncreaseTrue

// dStar is the exponent of the D* coefficient.
const dStar = 2

// stats are the four spectrum counts and their totals as floats.
type stats struct {
	fo, fn, po, pn float64
	f, p           float64
}

type metricFunc func(c *calc, s stats) float64

type metricDef struct {
	name      string
	fn        metricFunc
	predicate bool
}

var metricTable = [...]metricDef{
	MetricAMPLE: {name: "AMPLE", fn: func(c *calc, s stats) float64 {
		return math.Abs(c.div(s.fo, s.f) - c.div(s.po, s.p))
	}},
	MetricAMPLE2: {name: "AMPLE2", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo, s.f) - c.div(s.po, s.p)
	}},
	MetricAnderberg: {name: "Anderberg", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo, s.fo+2*(s.fn+s.po))
	}},
	MetricArithmeticMean: {name: "ArithmeticMean", fn: func(c *calc, s stats) float64 {
		return c.div(2*s.fo*s.pn-2*s.fn*s.po, (s.fo+s.po)*(s.fn+s.pn)*s.f*s.p)
	}},
	MetricBinary: {name: "Binary", fn: func(_ *calc, s stats) float64 {
		if s.f > 0 && s.fo == s.f {
			return 1
		}

		return 0
	}},
	MetricCBIInc: {name: "CBIInc", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo, s.fo+s.po) - c.div(s.f, s.f+s.p)
	}},
	MetricCohen: {name: "Cohen", fn: func(c *calc, s stats) float64 {
		return c.div(2*s.fo*s.pn-2*s.fn*s.po, (s.fo+s.po)*s.p+s.f*(s.fn+s.pn))
	}},
	MetricCrosstab: {name: "Crosstab", fn: crosstab},
	MetricDice: {name: "Dice", fn: func(c *calc, s stats) float64 {
		return c.div(2*s.fo, s.f+s.po)
	}},
	MetricDStar: {name: "DStar", fn: func(c *calc, s stats) float64 {
		return c.div(math.Pow(s.fo, dStar), s.fn+s.po)
	}},
	MetricEuclid: {name: "Euclid", fn: func(_ *calc, s stats) float64 {
		return math.Sqrt(s.fo + s.pn)
	}},
	MetricFleiss: {name: "Fleiss", fn: func(c *calc, s stats) float64 {
		return c.div(4*s.fo*s.pn-4*s.fn*s.po-(s.fn-s.po)*(s.fn-s.po), (2*s.fo+s.fn+s.po)+(2*s.pn+s.fn+s.po))
	}},
	MetricGP02: {name: "GP02", fn: func(_ *calc, s stats) float64 {
		return 2*(s.fo+math.Sqrt(s.pn)) + math.Sqrt(s.po)
	}},
	MetricGP03: {name: "GP03", fn: func(_ *calc, s stats) float64 {
		return math.Sqrt(math.Abs(s.fo*s.fo - math.Sqrt(s.po)))
	}},
	MetricGP13: {name: "GP13", fn: func(c *calc, s stats) float64 {
		return s.fo * (1 + c.div(1, 2*s.po+s.fo))
	}},
	MetricGP19: {name: "GP19", fn: func(_ *calc, s stats) float64 {
		return s.fo * math.Sqrt(math.Abs(s.po-s.fo+s.fn-s.pn))
	}},
	MetricGoodman: {name: "Goodman", fn: func(c *calc, s stats) float64 {
		return c.div(2*s.fo-s.fn-s.po, 2*s.fo+s.fn+s.po)
	}},
	MetricHamann: {name: "Hamann", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo+s.pn-s.fn-s.po, s.f+s.p)
	}},
	MetricHammingEtc: {name: "HammingEtc", fn: func(_ *calc, s stats) float64 {
		return s.fo + s.pn
	}},
	MetricHarmonicMean: {name: "HarmonicMean", fn: func(c *calc, s stats) float64 {
		return c.div((s.fo*s.pn-s.fn*s.po)*((s.fo+s.po)*(s.fn+s.pn)+s.f*s.p), (s.fo+s.po)*(s.fn+s.pn)*s.f*s.p)
	}},
	MetricJaccard: {name: "Jaccard", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo, s.f+s.po)
	}},
	MetricKulczynski1: {name: "Kulczynski1", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo, s.fn+s.po)
	}},
	MetricKulczynski2: {name: "Kulczynski2", fn: func(c *calc, s stats) float64 {
		return 0.5 * (c.div(s.fo, s.f) + c.div(s.fo, s.fo+s.po))
	}},
	MetricM1: {name: "M1", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo+s.pn, s.fn+s.po)
	}},
	MetricM2: {name: "M2", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo, s.fo+s.pn+2*(s.fn+s.po))
	}},
	MetricNaish1: {name: "Naish1", fn: func(_ *calc, s stats) float64 {
		if s.fo < s.f {
			return -1
		}

		return s.pn
	}},
	MetricNaish2: {name: "Naish2", fn: func(c *calc, s stats) float64 {
		return s.fo - c.div(s.po, s.p+1)
	}},
	MetricOchiai: {name: "Ochiai", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo, math.Sqrt(s.f*(s.fo+s.po)))
	}},
	MetricOchiai2: {name: "Ochiai2", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo*s.pn, math.Sqrt((s.fo+s.po)*(s.fn+s.pn)*s.f*s.p))
	}},
	MetricPairScoring: {name: "PairScoring", fn: func(_ *calc, s stats) float64 {
		return s.fo * (2*s.pn + s.po)
	}},
	MetricQe: {name: "qe", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo, s.fo+s.po)
	}},
	MetricRogersAndTanimoto: {name: "RogersAndTanimoto", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo+s.pn, s.fo+s.pn+2*(s.fn+s.po))
	}},
	MetricRogot1: {name: "Rogot1", fn: func(c *calc, s stats) float64 {
		return 0.5 * (c.div(s.fo, 2*s.fo+s.fn+s.po) + c.div(s.pn, 2*s.pn+s.fn+s.po))
	}},
	MetricRogot2: {name: "Rogot2", fn: func(c *calc, s stats) float64 {
		return 0.25 * (c.div(s.fo, s.fo+s.po) + c.div(s.fo, s.f) + c.div(s.pn, s.p) + c.div(s.pn, s.fn+s.pn))
	}},
	MetricRusselAndRao: {name: "RusselAndRao", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo, s.f+s.p)
	}},
	MetricScott: {name: "Scott", fn: func(c *calc, s stats) float64 {
		return c.div(4*s.fo*s.pn-4*s.fn*s.po-(s.fn-s.po)*(s.fn-s.po), (2*s.fo+s.fn+s.po)*(2*s.pn+s.fn+s.po))
	}},
	MetricSimpleMatching: {name: "SimpleMatching", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo+s.pn, s.f+s.p)
	}},
	MetricSokal: {name: "Sokal", fn: func(c *calc, s stats) float64 {
		return c.div(2*(s.fo+s.pn), 2*(s.fo+s.pn)+s.fn+s.po)
	}},
	MetricSorensenDice: {name: "SorensenDice", fn: func(c *calc, s stats) float64 {
		return c.div(2*s.fo, 2*s.fo+s.fn+s.po)
	}},
	MetricTarantula: {name: "Tarantula", fn: func(c *calc, s stats) float64 {
		failRatio := c.div(s.fo, s.f)

		return c.div(failRatio, failRatio+c.div(s.po, s.p))
	}},
	MetricWong1: {name: "Wong1", fn: func(_ *calc, s stats) float64 {
		return s.fo
	}},
	MetricWong2: {name: "Wong2", fn: func(_ *calc, s stats) float64 {
		return s.fo - s.po
	}},
	MetricWong3: {name: "Wong3", fn: wong3},
	MetricZoltar: {name: "Zoltar", fn: func(c *calc, s stats) float64 {
		return c.div(s.fo, s.f+s.po+c.div(10000*s.fn*s.po, s.fo))
	}},
	MetricIncreaseTrue:  {name: "IncreaseTrue", predicate: true},
	MetricIncreaseFalse: {name: "IncreaseFalse", predicate: true},
}

// crosstab is the chi-square statistic of the 2x2 observed/failed table.
func crosstab(c *calc, s stats) float64 {
	n := s.f + s.p
	observed := s.fo + s.po
	notObserved := s.fn + s.pn

	cell := func(actual, rowTotal, columnTotal float64) float64 {
		expected := c.div(rowTotal*columnTotal, n)
		diff := actual - expected

		return c.div(diff*diff, expected)
	}

	return cell(s.fo, observed, s.f) + cell(s.po, observed, s.p) +
		cell(s.fn, notObserved, s.f) + cell(s.pn, notObserved, s.p)
}

func wong3(_ *calc, s stats) float64 {
	var h float64

	switch {
	case s.po <= 2:
		h = s.po
	case s.po <= 10:
		h = 2 + 0.1*(s.po-2)
	default:
		h = 2.8 + 0.001*(s.po-10)
	}

	return s.fo - h
}

// calc performs checked divisions. Any zero denominator marks the whole
// computation as undefined.
type calc struct {
	undefined bool
}

func (c *calc) div(numerator, denominator float64) float64 {
	if denominator == 0 {
		c.undefined = true

		return 0
	}

	return numerator / denominator
}

// DefaultMetricFor returns the metric ranking kind when none is requested:
// predicates rank by IncreaseTrue, spectra by Ochiai.
func DefaultMetricFor(kind m.AnalysisType) Metric {
	if kind.IsPredicate() {
		return DefaultPredicateMetric
	}

	return DefaultMetric
}

// Metrics lists every metric in declaration order.
func Metrics() []Metric {
	metrics := make([]Metric, len(metricTable))
	for i := range metricTable {
		metrics[i] = Metric(i)
	}

	return metrics
}

// SpectrumMetrics lists the metrics computable from the four spectrum counts.
func SpectrumMetrics() []Metric {
	metrics := make([]Metric, 0, len(metricTable))

	for i, def := range metricTable {
		if !def.predicate {
			metrics = append(metrics, Metric(i))
		}
	}

	return metrics
}

// Valid reports whether mt is a known metric.
func (mt Metric) Valid() bool {
	return mt >= MetricAMPLE && mt <= MetricIncreaseFalse
}

// PredicateOnly reports whether mt needs predicate outcomes and cannot be
// computed for spectra.
func (mt Metric) PredicateOnly() bool {
	return mt.Valid() && metricTable[mt].predicate
}

func (mt Metric) String() string {
	if !mt.Valid() {
		return "Metric(?)"
	}

	return metricTable[mt].name
}

// ParseMetric resolves a metric by name, ignoring case.
func ParseMetric(name string) (Metric, error) {
	trimmed := strings.TrimSpace(name)

	for i, def := range metricTable {
		if strings.EqualFold(def.name, trimmed) {
			return Metric(i), nil
		}
	}

	return 0, &ConfigError{Field: "metric", Reason: "unknown metric " + name}
}

// ParseMetrics resolves a list of metric names, failing on the first unknown one.
func ParseMetrics(names []string) ([]Metric, error) {
	metrics := make([]Metric, 0, len(names))

	for _, name := range names {
		metric, err := ParseMetric(name)
		if err != nil {
			return nil, err
		}

		metrics = append(metrics, metric)
	}

	return metrics, nil
}

// Compute evaluates a spectrum metric on raw counts: po/pn are the passing
// runs that did/did not observe the element, fo/fn the failing ones.
// Undefined results, including every zero denominator, are reported as 0.
// Predicate-only metrics yield 0.
func Compute(metric Metric, po, pn, fo, fn int) float64 {
	if !metric.Valid() || metricTable[metric].predicate {
		return 0
	}

	s := stats{
		fo: float64(fo), fn: float64(fn),
		po: float64(po), pn: float64(pn),
		f: float64(fo + fn), p: float64(po + pn),
	}

	var c calc

	result := metricTable[metric].fn(&c, s)
	if c.undefined || math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}

	return result
}

// Func returns metric as a plain function of (po, pn, fo, fn).
func Func(metric Metric) func(po, pn, fo, fn int) float64 {
	return func(po, pn, fo, fn int) float64 {
		return Compute(metric, po, pn, fo, fn)
	}
}

// ParseKinds resolves a list of analysis type names, failing on the first
// unknown one.
func ParseKinds(names []string) ([]m.AnalysisType, error) {
	kinds := make([]m.AnalysisType, 0, len(names))

	for _, name := range names {
		kind, ok := m.ParseAnalysisType(name)
		if !ok {
			return nil, &ConfigError{Field: "kind", Reason: "unknown analysis type " + name}
		}

		kinds = append(kinds, kind)
	}

	return kinds, nil
}
