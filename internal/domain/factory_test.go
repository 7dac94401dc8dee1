package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/suspect/internal/model"
)

const testFile = "main.go"

// replay feeds the runs into a fresh model over kind and finalizes it.
// Run i is failing when failing[i] is true.
func replay(t *testing.T, kind m.AnalysisType, runs [][]m.Event, failing []bool) []*Object {
	t.Helper()

	factory, err := NewKindFactory(kind)
	require.NoError(t, err)

	md := NewModel(factory)

	var passed, failed []m.RunID

	for i, events := range runs {
		run := m.RunID(i)
		md.Prepare(run)

		for _, event := range events {
			md.Handle(event)
		}

		if failing[i] {
			failed = append(failed, run)
		} else {
			passed = append(passed, run)
		}
	}

	md.Finalize(passed, failed)

	return md.Objects()
}

func findObject(t *testing.T, objects []*Object, match func(o *Object) bool) *Object {
	t.Helper()

	for _, obj := range objects {
		if match(obj) {
			return obj
		}
	}

	t.Fatalf("no matching object among %v", objects)

	return nil
}

func TestNewKindFactory_UnknownKind(t *testing.T) {
	_, err := NewKindFactory(m.AnalysisType(99))

	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewFactory(m.AnalysisLine, m.AnalysisType(99))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestFactory_LineIdentity(t *testing.T) {
	factory, err := NewKindFactory(m.AnalysisLine)
	require.NoError(t, err)

	first := factory.Handle(m.NewLineEvent(testFile, 3, 1), nil)
	second := factory.Handle(m.NewLineEvent(testFile, 3, 7), nil)
	other := factory.Handle(m.NewLineEvent(testFile, 4, 1), nil)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Same(t, first[0], second[0])
	assert.NotSame(t, first[0], other[0])
	assert.Len(t, factory.All(), 2)

	assert.Empty(t, factory.Handle(m.NewUseEvent(testFile, 3, 1, "x", 1), nil))
}

func TestFactory_CombinationDeduplicatesKinds(t *testing.T) {
	factory, err := NewFactory(m.AnalysisLine, m.AnalysisLine, m.AnalysisCondition)
	require.NoError(t, err)

	objects := factory.Handle(m.NewLineEvent(testFile, 1, 1), nil)
	assert.Len(t, objects, 1)

	factory.Handle(m.NewConditionEvent(testFile, 2, 1, "x > 0", true), nil)

	all := factory.All()
	require.Len(t, all, 2)
	assert.Equal(t, m.AnalysisLine, all[0].Kind)
	assert.Equal(t, m.AnalysisCondition, all[1].Kind)
}

func TestFactory_FunctionSpectrum(t *testing.T) {
	objects := replay(t, m.AnalysisFunction, [][]m.Event{
		{m.NewFunctionEnterEvent(testFile, 10, 1, 4, "divide"), m.NewFunctionExitEvent(testFile, 10, 2, 4, "divide", m.IntValue(1))},
		{},
	}, []bool{true, false})

	require.Len(t, objects, 1)
	assert.Equal(t, "divide", objects[0].Function)
	assert.Equal(t, 1, objects[0].FailedObserved)
	assert.Equal(t, 1, objects[0].PassedNotObserved)
}

func TestFactory_BranchSides(t *testing.T) {
	objects := replay(t, m.AnalysisBranch, [][]m.Event{
		{m.NewBranchEvent(testFile, 5, 1, 6, 9)},
		{m.NewBranchEvent(testFile, 5, 1, 9, 6)},
	}, []bool{true, false})

	require.Len(t, objects, 2)

	then := findObject(t, objects, func(o *Object) bool { return o.ThenID == 6 })
	els := findObject(t, objects, func(o *Object) bool { return o.ThenID == 9 })

	assert.True(t, then.Then)
	assert.False(t, els.Then)
	assert.Equal(t, 1, then.FailedObserved)
	assert.Equal(t, 0, then.PassedObserved)
	assert.Equal(t, 1, els.PassedObserved)

	// both runs evaluated both sides
	assert.Equal(t, 1, then.Predicate.TrueRelevant)
	assert.Equal(t, 1, then.Predicate.FalseIrrelevant)
	assert.Equal(t, 1, els.Predicate.FalseRelevant)
	assert.InDelta(t, 0.5, then.Predicate.IncreaseTrue, 1e-9)
}

func TestFactory_BranchWithoutElse(t *testing.T) {
	factory, err := NewKindFactory(m.AnalysisBranch)
	require.NoError(t, err)

	objects := factory.Handle(m.NewBranchEvent(testFile, 5, 1, 6, -1), nil)

	require.Len(t, objects, 1)
	assert.True(t, objects[0].Then)
}

func TestFactory_LoopBuckets(t *testing.T) {
	begin := m.NewLoopEvent(m.EventLoopBegin, testFile, 4, 1, 7)
	hit := m.NewLoopEvent(m.EventLoopHit, testFile, 4, 2, 7)
	end := m.NewLoopEvent(m.EventLoopEnd, testFile, 4, 3, 7)

	objects := replay(t, m.AnalysisLoop, [][]m.Event{
		{begin, hit, hit, end},
		{begin, end},
		{begin, hit, end, begin, begin, hit, end, end},
	}, []bool{true, false, false})

	require.Len(t, objects, 3)

	zero := findObject(t, objects, func(o *Object) bool { return o.Bucket == LoopZero })
	once := findObject(t, objects, func(o *Object) bool { return o.Bucket == LoopOnce })
	many := findObject(t, objects, func(o *Object) bool { return o.Bucket == LoopMany })

	assert.True(t, many.HitIn(0))
	assert.False(t, once.HitIn(0))
	assert.True(t, zero.HitIn(1))
	assert.True(t, once.HitIn(2))
	assert.True(t, zero.HitIn(2))
	assert.False(t, many.HitIn(2))

	assert.Equal(t, 1, many.FailedObserved)
	assert.Equal(t, 2, zero.PassedObserved)
}

func TestFactory_LoopStateResetsBetweenRuns(t *testing.T) {
	objects := replay(t, m.AnalysisLoop, [][]m.Event{
		{m.NewLoopEvent(m.EventLoopBegin, testFile, 4, 1, 7), m.NewLoopEvent(m.EventLoopHit, testFile, 4, 2, 7)},
		{m.NewLoopEvent(m.EventLoopEnd, testFile, 4, 3, 7)},
	}, []bool{true, false})

	for _, obj := range objects {
		assert.False(t, obj.HitIn(0), obj.String())
		assert.False(t, obj.HitIn(1), obj.String())
	}
}

func TestFactory_DefUsePairs(t *testing.T) {
	objects := replay(t, m.AnalysisDefUse, [][]m.Event{
		{
			m.NewUseEvent(testFile, 1, 1, "x", 3),
			m.NewDefEvent(testFile, 2, 2, "x", 3, m.IntValue(1)),
			m.NewUseEvent(testFile, 5, 3, "x", 3),
			m.NewUseEvent(testFile, 6, 4, "x", 3),
		},
		{m.NewUseEvent(testFile, 5, 3, "x", 3)},
	}, []bool{true, false})

	require.Len(t, objects, 2)

	pair := objects[0]
	assert.Equal(t, 2, pair.Line)
	assert.Equal(t, 5, pair.UseLine)
	assert.Equal(t, []m.Location{{File: testFile, Line: 2}, {File: testFile, Line: 5}}, pair.Locations(MetricOchiai, nil, ""))
	assert.Equal(t, 1, pair.FailedObserved)
	assert.Equal(t, 0, pair.PassedObserved)
}

func TestFactory_ScalarPairsFollowTypeClass(t *testing.T) {
	objects := replay(t, m.AnalysisScalarPair, [][]m.Event{
		{
			m.NewDefEvent(testFile, 1, 1, "a", 1, m.IntValue(1)),
			m.NewDefEvent(testFile, 2, 2, "s", 2, m.StringValue("text")),
			m.NewDefEvent(testFile, 3, 3, "b", 3, m.FloatValue(2.5)),
		},
	}, []bool{true})

	require.Len(t, objects, 6)

	for _, obj := range objects {
		assert.Equal(t, "b", obj.Var)
		assert.Equal(t, "a", obj.Other)
		assert.Equal(t, "number", obj.Class)
	}

	greater := findObject(t, objects, func(o *Object) bool { return o.Comp == CompGT })
	less := findObject(t, objects, func(o *Object) bool { return o.Comp == CompLT })

	assert.Equal(t, 1, greater.Predicate.TrueRelevant)
	assert.Equal(t, 1, less.Predicate.FalseRelevant)
}

func TestFactory_ScalarPairsOfStrings(t *testing.T) {
	objects := replay(t, m.AnalysisScalarPair, [][]m.Event{
		{
			m.NewDefEvent(testFile, 1, 1, "a", 1, m.StringValue("x")),
			m.NewDefEvent(testFile, 2, 2, "b", 2, m.StringValue("x")),
		},
	}, []bool{true})

	require.Len(t, objects, 2)

	equal := findObject(t, objects, func(o *Object) bool { return o.Comp == CompEQ })
	assert.Equal(t, 1, equal.Predicate.TrueRelevant)
}

func TestFactory_VariableComparesNumbersWithZero(t *testing.T) {
	objects := replay(t, m.AnalysisVariable, [][]m.Event{
		{
			m.NewDefEvent(testFile, 1, 1, "n", 1, m.IntValue(-3)),
			m.NewDefEvent(testFile, 2, 2, "s", 2, m.StringValue("no")),
		},
	}, []bool{true})

	require.Len(t, objects, 6)

	negative := findObject(t, objects, func(o *Object) bool { return o.Comp == CompLT })
	assert.Equal(t, m.IntValue(0), negative.Sentinel)
	assert.Equal(t, 1, negative.Predicate.TrueRelevant)
}

func TestFactory_ReturnSentinels(t *testing.T) {
	tests := []struct {
		name  string
		value m.Value
		want  int
	}{
		{name: "number", value: m.IntValue(0), want: 8},
		{name: "string", value: m.StringValue("x"), want: 4},
		{name: "bytes", value: m.BytesValue([]byte("x")), want: 4},
		{name: "none", value: m.NoneValue(), want: 2},
		{name: "other", value: m.OtherValue("list", "[]"), want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, err := NewKindFactory(m.AnalysisReturn)
			require.NoError(t, err)

			objects := factory.Handle(m.NewFunctionExitEvent(testFile, 9, 1, 2, "f", tt.value), nil)
			assert.Len(t, objects, tt.want)
		})
	}
}

func TestFactory_ReturnEvaluatesReturnedValue(t *testing.T) {
	objects := replay(t, m.AnalysisReturn, [][]m.Event{
		{
			m.NewFunctionEnterEvent(testFile, 9, 1, 2, "f"),
			m.NewFunctionExitEvent(testFile, 9, 2, 2, "f", m.IntValue(0)),
		},
	}, []bool{true})

	zero := findObject(t, objects, func(o *Object) bool {
		return o.Comp == CompEQ && o.Sentinel == m.IntValue(0)
	})
	none := findObject(t, objects, func(o *Object) bool {
		return o.Comp == CompNE && o.Sentinel.IsNone()
	})

	assert.Equal(t, 1, zero.Predicate.TrueRelevant)
	assert.Equal(t, 1, none.Predicate.TrueRelevant)
}

func TestFactory_ConstantChecks(t *testing.T) {
	tests := []struct {
		kind  m.AnalysisType
		value m.Value
	}{
		{kind: m.AnalysisNone, value: m.NoneValue()},
		{kind: m.AnalysisEmptyString, value: m.StringValue("")},
		{kind: m.AnalysisEmptyBytes, value: m.BytesValue(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			objects := replay(t, tt.kind, [][]m.Event{
				{m.NewDefEvent(testFile, 1, 1, "v", 1, tt.value)},
			}, []bool{true})

			require.Len(t, objects, 2)

			equal := findObject(t, objects, func(o *Object) bool { return o.Comp == CompEQ })
			assert.Equal(t, 1, equal.Predicate.TrueRelevant)
		})
	}
}

func TestFactory_StringChecks(t *testing.T) {
	tests := []struct {
		kind  m.AnalysisType
		value m.Value
		want  bool
	}{
		{kind: m.AnalysisDigitString, value: m.StringValue("abc1"), want: true},
		{kind: m.AnalysisDigitString, value: m.IntValue(1), want: false},
		{kind: m.AnalysisASCIIString, value: m.StringValue("abc"), want: true},
		{kind: m.AnalysisSpecialString, value: m.StringValue("abc"), want: false},
		{kind: m.AnalysisSpecialString, value: m.StringValue("a-b"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.value.String(), func(t *testing.T) {
			objects := replay(t, tt.kind, [][]m.Event{
				{m.NewDefEvent(testFile, 1, 1, "v", 1, tt.value)},
			}, []bool{true})

			require.Len(t, objects, 1)
			assert.Equal(t, tt.want, objects[0].Predicate.TrueRelevant == 1)
		})
	}
}

func TestFactory_ConditionOutcome(t *testing.T) {
	objects := replay(t, m.AnalysisCondition, [][]m.Event{
		{m.NewConditionEvent(testFile, 3, 1, "x > 0", false), m.NewConditionEvent(testFile, 3, 1, "x > 0", true)},
		{m.NewConditionEvent(testFile, 3, 1, "x > 0", false)},
	}, []bool{true, false})

	require.Len(t, objects, 1)

	p := objects[0].Predicate
	assert.Equal(t, 1, p.TrueRelevant)
	assert.Equal(t, 1, p.FalseIrrelevant)
	assert.InDelta(t, 1.0, p.FailTrue, 1e-9)
	assert.InDelta(t, 0.5, p.IncreaseTrue, 1e-9)
	assert.InDelta(t, -0.5, p.IncreaseFalse, 1e-9)
}
