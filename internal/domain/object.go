package domain

import (
	"fmt"

	"github.com/mouse-blink/suspect/internal/adapter"
	m "github.com/mouse-blink/suspect/internal/model"
)

// Object is one analysis object: a program element, or a predicate over
// one, whose execution is counted per run. Kind selects the meaningful
// kind-specific fields and the behavior in the kind table.
//
//	FUNCTION                    Function, FunctionID
//	BRANCH                      ThenID, Then
//	LOOP                        LoopID, Bucket
//	DEF_USE                     Var, UseFile, UseLine
//	SCALAR_PAIR                 Var, Other, Comp, Class
//	VARIABLE                    Var, Comp, Sentinel
//	RETURN                      Function, Comp, Sentinel
//	NONE, EMPTY_*               Var, Comp, Sentinel
//	ASCII/DIGIT/SPECIAL_STRING  Var
//	CONDITION                   Condition
type Object struct {
	Kind           m.AnalysisType
	File           string
	Line           int
	Suspiciousness float64

	Counts
	Predicate PredicateCounts

	Function   string
	FunctionID int
	ThenID     int
	Then       bool
	LoopID     int
	Bucket     LoopBucket
	Var        string
	Other      string
	UseFile    string
	UseLine    int
	Comp       Comp
	Class      string
	Sentinel   m.Value
	Condition  string

	hits       map[m.RunID]int
	trueHits   map[m.RunID]int
	iterations map[m.RunID][]int
	loop       *loopTracker
}

// objectBehavior is the per-kind part of an analysis object.
type objectBehavior struct {
	hit      func(o *Object, run m.RunID, event m.Event, scope *Scope)
	observed func(o *Object, run m.RunID) bool
	evaluate func(o *Object, event m.Event, scope *Scope) bool
	query    func(o *Object, metric Metric) (m.FinderQuery, bool)
	lines    func(o *Object) []m.Location
}

var behaviors map[m.AnalysisType]objectBehavior

func init() {
	spectrum := objectBehavior{hit: spectrumHit}
	predicate := func(evaluate func(o *Object, event m.Event, scope *Scope) bool) objectBehavior {
		return objectBehavior{hit: predicateHit, evaluate: evaluate}
	}

	behaviors = map[m.AnalysisType]objectBehavior{
		m.AnalysisLine:     spectrum,
		m.AnalysisFunction: {hit: spectrumHit, query: functionQuery},
		m.AnalysisLoop:     {hit: loopHit, observed: loopObserved, query: loopQuery},
		m.AnalysisDefUse:   {hit: spectrumHit, lines: defUseLines},
		m.AnalysisBranch:   {hit: branchHit, query: branchQuery},
		m.AnalysisCondition: predicate(func(_ *Object, event m.Event, _ *Scope) bool {
			return event.Outcome
		}),
		m.AnalysisScalarPair: predicate(func(o *Object, _ m.Event, scope *Scope) bool {
			x, ok := scope.Value(o.Var)
			if !ok {
				return false
			}

			y, ok := scope.Value(o.Other)
			if !ok {
				return false
			}

			return o.Comp.Evaluate(x, y)
		}),
		m.AnalysisVariable:      predicate(compareToSentinel),
		m.AnalysisReturn:        predicate(compareReturn),
		m.AnalysisNone:          predicate(compareToSentinel),
		m.AnalysisEmptyString:   predicate(compareToSentinel),
		m.AnalysisEmptyBytes:    predicate(compareToSentinel),
		m.AnalysisASCIIString:   predicate(stringCheck(isASCII)),
		m.AnalysisDigitString:   predicate(stringCheck(containsDigit)),
		m.AnalysisSpecialString: predicate(stringCheck(containsSpecial)),
	}
}

func newObject(kind m.AnalysisType, event m.Event) *Object {
	return &Object{
		Kind:      kind,
		File:      event.File,
		Line:      event.Line,
		Predicate: newPredicateCounts(),
		hits:      make(map[m.RunID]int),
		trueHits:  make(map[m.RunID]int),
	}
}

func (o *Object) behavior() objectBehavior {
	return behaviors[o.Kind]
}

// Hit records one occurrence of the object in run.
func (o *Object) Hit(run m.RunID, event m.Event, scope *Scope) {
	o.behavior().hit(o, run, event, scope)
}

// Hits returns how often the object was hit in run.
func (o *Object) Hits(run m.RunID) int {
	return o.hits[run]
}

// HitIn reports whether the object was observed in run.
func (o *Object) HitIn(run m.RunID) bool {
	if observed := o.behavior().observed; observed != nil {
		return observed(o, run)
	}

	return o.hits[run] > 0
}

// Finalize computes the counts over the given passing and failing runs.
func (o *Object) Finalize(passed, failed []m.RunID) {
	o.Counts = finalizeCounts(o.HitIn, passed, failed)

	if o.Kind.IsPredicate() {
		o.Predicate = finalizePredicate(o.trueHits, passed, failed)
	}
}

// Calculate derives the predicate ratios. It is a no-op for spectra.
func (o *Object) Calculate() {
	if o.Kind.IsPredicate() {
		o.Predicate.Calculate()
	}
}

// Analyze finalizes the object and calculates its ratios.
func (o *Object) Analyze(passed, failed []m.RunID) {
	o.Finalize(passed, failed)
	o.Calculate()
}

// Metric evaluates metric on the finalized object. ok is false when the
// metric does not apply to the object's kind.
func (o *Object) Metric(metric Metric) (value float64, ok bool) {
	if metric.PredicateOnly() {
		if !o.Kind.IsPredicate() {
			return 0, false
		}

		return o.Predicate.Metric(metric), true
	}

	return o.Counts.Metric(metric), true
}

// DefaultMetric is the metric used for the object's kind when none is given.
func (o *Object) DefaultMetric() Metric {
	return DefaultMetricFor(o.Kind)
}

// Suggestion assigns the object's suspiciousness under metric and returns
// the locations it blames. Elements spanning several lines are expanded
// through finder when one is given.
func (o *Object) Suggestion(metric Metric, finder adapter.LocationFinder, baseDir m.Path) (m.Suggestion, bool) {
	value, ok := o.Metric(metric)
	if !ok {
		return m.Suggestion{}, false
	}

	o.Suspiciousness = value

	return m.Suggestion{Locations: o.Locations(metric, finder, baseDir), Suspiciousness: value}, true
}

// Locations returns the source lines the object stands for.
func (o *Object) Locations(metric Metric, finder adapter.LocationFinder, baseDir m.Path) []m.Location {
	b := o.behavior()
	if b.lines != nil {
		return b.lines(o)
	}

	single := []m.Location{{File: o.File, Line: o.Line}}

	if b.query == nil || finder == nil {
		return single
	}

	query, ok := b.query(o, metric)
	if !ok {
		return single
	}

	lines, err := finder.FindLines(baseDir, query)
	if err != nil || len(lines) == 0 {
		return single
	}

	locations := make([]m.Location, len(lines))
	for i, line := range lines {
		locations[i] = m.Location{File: o.File, Line: line}
	}

	return locations
}

func (o *Object) String() string {
	switch o.Kind {
	case m.AnalysisFunction:
		return fmt.Sprintf("%s(%s:%d,%s)", o.Kind, o.File, o.Line, o.Function)
	case m.AnalysisBranch:
		return fmt.Sprintf("%s(%s:%d,%d,then=%t)", o.Kind, o.File, o.Line, o.ThenID, o.Then)
	case m.AnalysisLoop:
		return fmt.Sprintf("%s(%s:%d,%d,%s)", o.Kind, o.File, o.Line, o.LoopID, o.Bucket)
	case m.AnalysisDefUse:
		return fmt.Sprintf("%s(%s:%d,%s:%d,%s)", o.Kind, o.File, o.Line, o.UseFile, o.UseLine, o.Var)
	case m.AnalysisScalarPair:
		return fmt.Sprintf("%s(%s:%d,%s%s%s,%s)", o.Kind, o.File, o.Line, o.Var, o.Comp, o.Other, o.Class)
	case m.AnalysisVariable, m.AnalysisNone, m.AnalysisEmptyString, m.AnalysisEmptyBytes:
		return fmt.Sprintf("%s(%s:%d,%s%s%s)", o.Kind, o.File, o.Line, o.Var, o.Comp, o.Sentinel.TypeName())
	case m.AnalysisReturn:
		return fmt.Sprintf("%s(%s:%d,%s%s%s:%s)", o.Kind, o.File, o.Line, o.Function, o.Comp, o.Sentinel.TypeName(), o.Sentinel)
	case m.AnalysisASCIIString, m.AnalysisDigitString, m.AnalysisSpecialString:
		return fmt.Sprintf("%s(%s:%d,%s)", o.Kind, o.File, o.Line, o.Var)
	case m.AnalysisCondition:
		return fmt.Sprintf("%s(%s:%d,%s)", o.Kind, o.File, o.Line, o.Condition)
	default:
		return fmt.Sprintf("%s(%s:%d)", o.Kind, o.File, o.Line)
	}
}

// evaluated registers run as one in which the predicate was evaluated.
func (o *Object) evaluated(run m.RunID) {
	if _, ok := o.trueHits[run]; !ok {
		o.trueHits[run] = 0
	}
}

func spectrumHit(o *Object, run m.RunID, _ m.Event, _ *Scope) {
	o.hits[run]++
}

func predicateHit(o *Object, run m.RunID, event m.Event, scope *Scope) {
	o.hits[run]++
	o.evaluated(run)

	if o.behavior().evaluate(o, event, scope) {
		o.trueHits[run]++
	}
}

// branchHit counts only the side that was taken. Every evaluation of the
// branch still registers the run for the predicate outcome.
func branchHit(o *Object, run m.RunID, event m.Event, _ *Scope) {
	o.evaluated(run)

	if event.ThenID == o.ThenID {
		o.hits[run]++
		o.trueHits[run]++
	}
}

func loopHit(o *Object, run m.RunID, _ m.Event, _ *Scope) {
	if o.iterations == nil {
		o.iterations = make(map[m.RunID][]int)
	}

	o.hits[run]++
	o.iterations[run] = append(o.iterations[run], o.loop.last)
}

// loopObserved reports whether any execution of the loop in run falls
// into the object's bucket.
func loopObserved(o *Object, run m.RunID) bool {
	for _, n := range o.iterations[run] {
		if o.Bucket.matches(n) {
			return true
		}
	}

	return false
}

func compareToSentinel(o *Object, _ m.Event, scope *Scope) bool {
	x, ok := scope.Value(o.Var)
	if !ok {
		return false
	}

	return o.Comp.Evaluate(x, o.Sentinel)
}

func compareReturn(o *Object, _ m.Event, scope *Scope) bool {
	x, ok := scope.Value(o.Function)
	if !ok {
		return false
	}

	return o.Comp.Evaluate(x, o.Sentinel)
}

func stringCheck(check func(string) bool) func(o *Object, _ m.Event, scope *Scope) bool {
	return func(o *Object, _ m.Event, scope *Scope) bool {
		x, ok := scope.Value(o.Var)
		if !ok || x.Kind() != m.ValueString {
			return false
		}

		return check(x.Str())
	}
}

func functionQuery(o *Object, _ Metric) (m.FinderQuery, bool) {
	return m.FinderQuery{Kind: m.AnalysisFunction, File: o.File, Line: o.Line, Function: o.Function}, true
}

func loopQuery(o *Object, _ Metric) (m.FinderQuery, bool) {
	return m.FinderQuery{Kind: m.AnalysisLoop, File: o.File, Line: o.Line}, true
}

// branchQuery selects the side of the branch; IncreaseFalse blames the
// opposite side.
func branchQuery(o *Object, metric Metric) (m.FinderQuery, bool) {
	then := o.Then
	if metric == MetricIncreaseFalse {
		then = !then
	}

	return m.FinderQuery{Kind: m.AnalysisBranch, File: o.File, Line: o.Line, Then: then}, true
}

func defUseLines(o *Object) []m.Location {
	def := m.Location{File: o.File, Line: o.Line}
	use := m.Location{File: o.UseFile, Line: o.UseLine}

	if def == use {
		return []m.Location{def}
	}

	return []m.Location{def, use}
}
