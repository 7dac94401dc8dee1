package domain

import (
	"bytes"
	"cmp"
	"math"
	"strings"
	"unicode"

	m "github.com/mouse-blink/suspect/internal/model"
)

// Comp is a comparison operator of a comparison predicate.
type Comp int

const (
	// CompLT is <.
	CompLT Comp = iota
	// CompLE is <=.
	CompLE
	// CompEQ is ==.
	CompEQ
	// CompGE is >=.
	CompGE
	// CompGT is >.
	CompGT
	// CompNE is !=.
	CompNE
)

var compSymbols = [...]string{
	CompLT: "<",
	CompLE: "<=",
	CompEQ: "==",
	CompGE: ">=",
	CompGT: ">",
	CompNE: "!=",
}

// Comps lists the six operators.
func Comps() []Comp {
	return []Comp{CompLT, CompLE, CompEQ, CompGE, CompGT, CompNE}
}

// equalityComps lists the operators available for non-ordered values.
func equalityComps() []Comp {
	return []Comp{CompEQ, CompNE}
}

func (c Comp) String() string {
	if c < CompLT || c > CompNE {
		return "?"
	}

	return compSymbols[c]
}

// Evaluate applies the operator. Values of different classes are never
// equal and never ordered. None and values of other types only support
// equality.
func (c Comp) Evaluate(x, y m.Value) bool {
	order, ordered := compareValues(x, y)
	if !ordered {
		equal := sameOpaque(x, y)

		switch c {
		case CompEQ:
			return equal
		case CompNE:
			return !equal
		default:
			return false
		}
	}

	switch c {
	case CompLT:
		return order < 0
	case CompLE:
		return order <= 0
	case CompEQ:
		return order == 0
	case CompGE:
		return order >= 0
	case CompGT:
		return order > 0
	case CompNE:
		return order != 0
	default:
		return false
	}
}

// compareValues orders two values of the same ordered class. Comparisons
// involving a NaN report as not comparable.
func compareValues(x, y m.Value) (order int, ok bool) {
	switch {
	case x.IsNumeric() && y.IsNumeric():
		if x.Kind() != m.ValueFloat && y.Kind() != m.ValueFloat {
			return cmp.Compare(x.Int(), y.Int()), true
		}

		a, b := x.Float(), y.Float()
		if math.IsNaN(a) || math.IsNaN(b) {
			return 0, false
		}

		return cmp.Compare(a, b), true
	case x.Kind() == m.ValueString && y.Kind() == m.ValueString:
		return strings.Compare(x.Str(), y.Str()), true
	case x.Kind() == m.ValueBytes && y.Kind() == m.ValueBytes:
		return bytes.Compare(x.Bytes(), y.Bytes()), true
	default:
		return 0, false
	}
}

// sameOpaque is the equality of values without an order.
func sameOpaque(x, y m.Value) bool {
	if x.IsNumeric() || y.IsNumeric() {
		return false
	}

	return x == y
}

// typeClass groups values that may be compared with each other.
func typeClass(v m.Value) string {
	switch {
	case v.IsNumeric():
		return "number"
	case v.Kind() == m.ValueString:
		return m.TypeStr
	case v.Kind() == m.ValueBytes:
		return m.TypeBytes
	default:
		return "other:" + v.TypeName()
	}
}

// compsFor returns the operators that apply to values of a class.
func compsFor(v m.Value) []Comp {
	if v.IsNumeric() {
		return Comps()
	}

	return equalityComps()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}

	return true
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// containsSpecial reports whether s is not purely alphanumeric. The empty
// string counts as special.
func containsSpecial(s string) bool {
	if s == "" {
		return true
	}

	return strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) >= 0
}

// PredicateCounts are the finalized outcome statistics of a predicate.
// Relevant runs are failing runs, irrelevant runs are passing ones.
type PredicateCounts struct {
	TrueRelevant    int
	FalseRelevant   int
	TrueIrrelevant  int
	FalseIrrelevant int

	FailTrue      float64
	FailFalse     float64
	Context       float64
	IncreaseTrue  float64
	IncreaseFalse float64
}

func newPredicateCounts() PredicateCounts {
	return PredicateCounts{Context: 1}
}

// finalizePredicate classifies every run that evaluated the predicate by
// whether it was true at least once.
func finalizePredicate(trueHits map[m.RunID]int, passed, failed []m.RunID) PredicateCounts {
	p := newPredicateCounts()

	for _, run := range passed {
		if n, ok := trueHits[run]; ok {
			if n > 0 {
				p.TrueIrrelevant++
			} else {
				p.FalseIrrelevant++
			}
		}
	}

	for _, run := range failed {
		if n, ok := trueHits[run]; ok {
			if n > 0 {
				p.TrueRelevant++
			} else {
				p.FalseRelevant++
			}
		}
	}

	return p
}

// Fail computes the failure ratios of both outcomes. A ratio without
// observations stays 0.
func (p *PredicateCounts) Fail() (failTrue, failFalse float64) {
	if total := p.TrueRelevant + p.TrueIrrelevant; total > 0 {
		p.FailTrue = float64(p.TrueRelevant) / float64(total)
	}

	if total := p.FalseRelevant + p.FalseIrrelevant; total > 0 {
		p.FailFalse = float64(p.FalseRelevant) / float64(total)
	}

	return p.FailTrue, p.FailFalse
}

// ComputeContext computes the failure ratio of all runs that evaluated the
// predicate. Without observations the context keeps its current value.
func (p *PredicateCounts) ComputeContext() float64 {
	total := p.TrueRelevant + p.TrueIrrelevant + p.FalseRelevant + p.FalseIrrelevant
	if total > 0 {
		p.Context = float64(p.TrueRelevant+p.FalseRelevant) / float64(total)
	}

	return p.Context
}

// Increase computes how much each outcome raises the failure ratio over the context.
func (p *PredicateCounts) Increase() (increaseTrue, increaseFalse float64) {
	p.IncreaseTrue = p.FailTrue - p.Context
	p.IncreaseFalse = p.FailFalse - p.Context

	return p.IncreaseTrue, p.IncreaseFalse
}

// Calculate derives all ratios from the finalized counts.
func (p *PredicateCounts) Calculate() {
	p.Fail()
	p.ComputeContext()
	p.Increase()
}

// Metric returns the value of a predicate-only metric.
func (p *PredicateCounts) Metric(metric Metric) float64 {
	switch metric {
	case MetricIncreaseTrue:
		return p.IncreaseTrue
	case MetricIncreaseFalse:
		return p.IncreaseFalse
	default:
		return 0
	}
}
