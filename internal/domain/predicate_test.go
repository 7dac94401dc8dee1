package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	m "github.com/mouse-blink/suspect/internal/model"
)

func TestComp_Evaluate(t *testing.T) {
	tests := []struct {
		name string
		comp Comp
		x, y m.Value
		want bool
	}{
		{name: "int less", comp: CompLT, x: m.IntValue(1), y: m.IntValue(2), want: true},
		{name: "int not less", comp: CompLT, x: m.IntValue(2), y: m.IntValue(2), want: false},
		{name: "int less equal", comp: CompLE, x: m.IntValue(2), y: m.IntValue(2), want: true},
		{name: "int greater", comp: CompGT, x: m.IntValue(3), y: m.IntValue(2), want: true},
		{name: "int greater equal", comp: CompGE, x: m.IntValue(1), y: m.IntValue(2), want: false},
		{name: "mixed numeric equal", comp: CompEQ, x: m.IntValue(1), y: m.FloatValue(1.0), want: true},
		{name: "bool as number", comp: CompGT, x: m.BoolValue(true), y: m.IntValue(0), want: true},
		{name: "nan never equal", comp: CompEQ, x: m.FloatValue(math.NaN()), y: m.FloatValue(math.NaN()), want: false},
		{name: "nan not equal", comp: CompNE, x: m.FloatValue(math.NaN()), y: m.IntValue(1), want: true},
		{name: "string order", comp: CompLT, x: m.StringValue("a"), y: m.StringValue("b"), want: true},
		{name: "bytes equal", comp: CompEQ, x: m.BytesValue([]byte("ab")), y: m.BytesValue([]byte("ab")), want: true},
		{name: "none equal", comp: CompEQ, x: m.NoneValue(), y: m.NoneValue(), want: true},
		{name: "none unordered", comp: CompLE, x: m.NoneValue(), y: m.NoneValue(), want: false},
		{name: "classes differ equal", comp: CompEQ, x: m.IntValue(0), y: m.StringValue("0"), want: false},
		{name: "classes differ not equal", comp: CompNE, x: m.IntValue(0), y: m.NoneValue(), want: true},
		{name: "classes differ ordered", comp: CompLT, x: m.StringValue("a"), y: m.IntValue(5), want: false},
		{name: "other same repr", comp: CompEQ, x: m.OtherValue("list", "[1]"), y: m.OtherValue("list", "[1]"), want: true},
		{name: "other different type", comp: CompEQ, x: m.OtherValue("list", "[1]"), y: m.OtherValue("tuple", "[1]"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.comp.Evaluate(tt.x, tt.y))
		})
	}
}

func TestComp_String(t *testing.T) {
	symbols := make([]string, 0, 6)
	for _, comp := range Comps() {
		symbols = append(symbols, comp.String())
	}

	assert.Equal(t, []string{"<", "<=", "==", ">=", ">", "!="}, symbols)
	assert.Equal(t, "?", Comp(42).String())
}

func TestStringChecks(t *testing.T) {
	assert.True(t, isASCII("plain text"))
	assert.False(t, isASCII("naïve"))
	assert.True(t, containsDigit("abc1"))
	assert.False(t, containsDigit("abc"))
	assert.True(t, containsSpecial(""))
	assert.True(t, containsSpecial("a b"))
	assert.True(t, containsSpecial("a_b"))
	assert.False(t, containsSpecial("abc123"))
	assert.False(t, containsSpecial("ÄÖü"))
}

func TestPredicateCounts_Calculate(t *testing.T) {
	// true in both failing runs and one passing run, false in one passing run
	trueHits := map[m.RunID]int{0: 2, 1: 1, 2: 1, 3: 0}
	p := finalizePredicate(trueHits, []m.RunID{2, 3, 4}, []m.RunID{0, 1})

	assert.Equal(t, 2, p.TrueRelevant)
	assert.Equal(t, 0, p.FalseRelevant)
	assert.Equal(t, 1, p.TrueIrrelevant)
	assert.Equal(t, 1, p.FalseIrrelevant)

	p.Calculate()

	assert.InDelta(t, 2.0/3, p.FailTrue, 1e-9)
	assert.InDelta(t, 0.0, p.FailFalse, 1e-9)
	assert.InDelta(t, 0.5, p.Context, 1e-9)
	assert.InDelta(t, 2.0/3-0.5, p.Metric(MetricIncreaseTrue), 1e-9)
	assert.InDelta(t, -0.5, p.Metric(MetricIncreaseFalse), 1e-9)
	assert.Equal(t, 0.0, p.Metric(MetricOchiai))
}

func TestPredicateCounts_NoObservations(t *testing.T) {
	p := finalizePredicate(map[m.RunID]int{}, []m.RunID{1}, []m.RunID{0})
	p.Calculate()

	assert.Equal(t, 0.0, p.FailTrue)
	assert.Equal(t, 0.0, p.FailFalse)
	assert.Equal(t, 1.0, p.Context)
	assert.Equal(t, -1.0, p.IncreaseTrue)
}
