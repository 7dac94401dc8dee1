package domain

import (
	"fmt"
	"sort"

	m "github.com/mouse-blink/suspect/internal/model"
)

// Factory maps events to the analysis objects they affect. Objects are
// created on first encounter and returned again for every event with the
// same structural identity.
type Factory interface {
	// Handle returns the objects affected by event. scope is the scope the
	// dispatcher selected for the event and may be nil.
	Handle(event m.Event, scope *Scope) []*Object
	// Reset clears per-run state. Objects are kept.
	Reset()
	// All returns every object created so far in a stable order.
	All() []*Object
}

// objectKey is the structural identity of an object within one kind.
type objectKey struct {
	file     string
	line     int
	id       int
	name     string
	other    string
	class    string
	useFile  string
	useLine  int
	comp     Comp
	bucket   LoopBucket
	sentinel string
}

type buildFunc func(f *kindFactory, event m.Event, scope *Scope) []*Object

// kindFactory is the registry of one analysis kind.
type kindFactory struct {
	kind    m.AnalysisType
	objects map[objectKey]*Object
	build   buildFunc

	pendingDefs map[int]m.Event
	loops       map[objectKey]*loopTracker
}

var factoryBuilders = map[m.AnalysisType]buildFunc{
	m.AnalysisLine:          buildLine,
	m.AnalysisBranch:        buildBranch,
	m.AnalysisFunction:      buildFunction,
	m.AnalysisLoop:          buildLoop,
	m.AnalysisDefUse:        buildDefUse,
	m.AnalysisCondition:     buildCondition,
	m.AnalysisScalarPair:    buildScalarPair,
	m.AnalysisVariable:      buildVariable,
	m.AnalysisReturn:        buildReturn,
	m.AnalysisNone:          buildConstant(m.NoneValue()),
	m.AnalysisEmptyString:   buildConstant(m.StringValue("")),
	m.AnalysisEmptyBytes:    buildConstant(m.BytesValue(nil)),
	m.AnalysisASCIIString:   buildStringCheck,
	m.AnalysisDigitString:   buildStringCheck,
	m.AnalysisSpecialString: buildStringCheck,
}

// NewKindFactory creates the registry of a single analysis kind.
func NewKindFactory(kind m.AnalysisType) (Factory, error) {
	build, ok := factoryBuilders[kind]
	if !ok {
		return nil, &ConfigError{Field: "kinds", Reason: fmt.Sprintf("unknown analysis type %s", kind)}
	}

	return &kindFactory{
		kind:        kind,
		objects:     make(map[objectKey]*Object),
		build:       build,
		pendingDefs: make(map[int]m.Event),
		loops:       make(map[objectKey]*loopTracker),
	}, nil
}

// NewFactory builds a combination of the registries of the given kinds.
// Duplicate kinds are ignored.
func NewFactory(kinds ...m.AnalysisType) (Factory, error) {
	seen := make(map[m.AnalysisType]bool, len(kinds))
	factories := make([]Factory, 0, len(kinds))

	for _, kind := range kinds {
		if seen[kind] {
			continue
		}

		seen[kind] = true

		f, err := NewKindFactory(kind)
		if err != nil {
			return nil, err
		}

		factories = append(factories, f)
	}

	return NewCombinationFactory(factories...), nil
}

func (f *kindFactory) Handle(event m.Event, scope *Scope) []*Object {
	return f.build(f, event, scope)
}

func (f *kindFactory) Reset() {
	clear(f.pendingDefs)

	for _, tracker := range f.loops {
		tracker.reset()
	}
}

func (f *kindFactory) All() []*Object {
	all := make([]*Object, 0, len(f.objects))
	for _, obj := range f.objects {
		all = append(all, obj)
	}

	sortObjects(all)

	return all
}

// get returns the object stored under key, creating it with init on first use.
func (f *kindFactory) get(key objectKey, event m.Event, init func(o *Object)) *Object {
	if obj, ok := f.objects[key]; ok {
		return obj
	}

	obj := newObject(f.kind, event)
	if init != nil {
		init(obj)
	}

	f.objects[key] = obj

	return obj
}

func buildLine(f *kindFactory, event m.Event, _ *Scope) []*Object {
	if event.Type != m.EventLine {
		return nil
	}

	return []*Object{f.get(objectKey{file: event.File, line: event.Line}, event, nil)}
}

func buildFunction(f *kindFactory, event m.Event, _ *Scope) []*Object {
	if event.Type != m.EventFunctionEnter {
		return nil
	}

	key := objectKey{file: event.File, line: event.Line, id: event.FunctionID}

	return []*Object{f.get(key, event, func(o *Object) {
		o.Function = event.Function
		o.FunctionID = event.FunctionID
	})}
}

// buildBranch returns the object of the taken side and, when the branch has
// an else side, the object of the other side.
func buildBranch(f *kindFactory, event m.Event, _ *Scope) []*Object {
	if event.Type != m.EventBranch {
		return nil
	}

	then := event.ElseID < 0 || event.ThenID < event.ElseID

	taken := f.get(objectKey{file: event.File, line: event.Line, id: event.ThenID}, event, func(o *Object) {
		o.ThenID = event.ThenID
		o.Then = then
	})

	if event.ElseID < 0 {
		return []*Object{taken}
	}

	other := f.get(objectKey{file: event.File, line: event.Line, id: event.ElseID}, event, func(o *Object) {
		o.ThenID = event.ElseID
		o.Then = !then
	})

	return []*Object{taken, other}
}

// buildLoop tracks open loop executions and hands the three buckets of a
// loop to the dispatcher when an execution ends.
func buildLoop(f *kindFactory, event m.Event, _ *Scope) []*Object {
	switch event.Type {
	case m.EventLoopBegin, m.EventLoopHit, m.EventLoopEnd:
	default:
		return nil
	}

	loopKey := objectKey{file: event.File, line: event.Line, id: event.LoopID}

	tracker, ok := f.loops[loopKey]
	if !ok {
		tracker = &loopTracker{}
		f.loops[loopKey] = tracker
	}

	buckets := make([]*Object, 0, 3)

	for _, bucket := range []LoopBucket{LoopZero, LoopOnce, LoopMany} {
		key := loopKey
		key.bucket = bucket

		buckets = append(buckets, f.get(key, event, func(o *Object) {
			o.LoopID = event.LoopID
			o.Bucket = bucket
			o.loop = tracker
		}))
	}

	switch event.Type {
	case m.EventLoopBegin:
		tracker.begin()
	case m.EventLoopHit:
		tracker.iterate()
	case m.EventLoopEnd:
		if tracker.end() {
			return buckets
		}
	}

	return nil
}

// buildDefUse pairs each use with the latest definition of the same
// variable id in the current run.
func buildDefUse(f *kindFactory, event m.Event, _ *Scope) []*Object {
	switch event.Type {
	case m.EventDef:
		f.pendingDefs[event.VarID] = event

		return nil
	case m.EventUse:
		def, ok := f.pendingDefs[event.VarID]
		if !ok {
			return nil
		}

		key := objectKey{file: def.File, line: def.Line, useFile: event.File, useLine: event.Line, name: event.Var}

		return []*Object{f.get(key, def, func(o *Object) {
			o.Var = event.Var
			o.UseFile = event.File
			o.UseLine = event.Line
		})}
	default:
		return nil
	}
}

func buildCondition(f *kindFactory, event m.Event, _ *Scope) []*Object {
	if event.Type != m.EventCondition {
		return nil
	}

	key := objectKey{file: event.File, line: event.Line, name: event.Condition}

	return []*Object{f.get(key, event, func(o *Object) {
		o.Condition = event.Condition
	})}
}

// buildScalarPair compares the defined variable with every other variable
// in scope whose value belongs to the same type class.
func buildScalarPair(f *kindFactory, event m.Event, scope *Scope) []*Object {
	if event.Type != m.EventDef {
		return nil
	}

	class := typeClass(event.Value)
	comps := compsFor(event.Value)

	var objects []*Object

	for _, other := range scope.AllVars() {
		if other.Name == event.Var || typeClass(other.Value) != class {
			continue
		}

		for _, comp := range comps {
			key := objectKey{file: event.File, line: event.Line, name: event.Var, other: other.Name, comp: comp, class: class}

			objects = append(objects, f.get(key, event, func(o *Object) {
				o.Var = event.Var
				o.Other = other.Name
				o.Comp = comp
				o.Class = class
			}))
		}
	}

	return objects
}

func buildVariable(f *kindFactory, event m.Event, _ *Scope) []*Object {
	if event.Type != m.EventDef || !event.Value.IsNumeric() {
		return nil
	}

	objects := make([]*Object, 0, len(Comps()))

	for _, comp := range Comps() {
		key := objectKey{file: event.File, line: event.Line, name: event.Var, comp: comp}

		objects = append(objects, f.get(key, event, func(o *Object) {
			o.Var = event.Var
			o.Comp = comp
			o.Sentinel = m.IntValue(0)
		}))
	}

	return objects
}

// returnSentinel is the value a return of the given kind is compared with.
func returnSentinel(v m.Value) (m.Value, bool) {
	switch {
	case v.IsNumeric():
		return m.IntValue(0), true
	case v.Kind() == m.ValueString:
		return m.StringValue(""), true
	case v.Kind() == m.ValueBytes:
		return m.BytesValue(nil), true
	default:
		return m.Value{}, false
	}
}

// buildReturn compares return values with the sentinel of their type class
// and always with None.
func buildReturn(f *kindFactory, event m.Event, _ *Scope) []*Object {
	if event.Type != m.EventFunctionExit {
		return nil
	}

	var objects []*Object

	add := func(comp Comp, sentinel m.Value) {
		key := objectKey{
			file: event.File, line: event.Line, name: event.Function, comp: comp,
			class: typeClass(sentinel), sentinel: sentinel.Encode(),
		}

		objects = append(objects, f.get(key, event, func(o *Object) {
			o.Function = event.Function
			o.FunctionID = event.FunctionID
			o.Comp = comp
			o.Sentinel = sentinel
		}))
	}

	if sentinel, ok := returnSentinel(event.Value); ok {
		for _, comp := range compsFor(event.Value) {
			add(comp, sentinel)
		}
	}

	for _, comp := range equalityComps() {
		add(comp, m.NoneValue())
	}

	return objects
}

// buildConstant compares every defined variable with a fixed value.
func buildConstant(sentinel m.Value) buildFunc {
	return func(f *kindFactory, event m.Event, _ *Scope) []*Object {
		if event.Type != m.EventDef {
			return nil
		}

		objects := make([]*Object, 0, 2)

		for _, comp := range equalityComps() {
			key := objectKey{file: event.File, line: event.Line, name: event.Var, comp: comp}

			objects = append(objects, f.get(key, event, func(o *Object) {
				o.Var = event.Var
				o.Comp = comp
				o.Sentinel = sentinel
			}))
		}

		return objects
	}
}

func buildStringCheck(f *kindFactory, event m.Event, _ *Scope) []*Object {
	if event.Type != m.EventDef {
		return nil
	}

	key := objectKey{file: event.File, line: event.Line, name: event.Var}

	return []*Object{f.get(key, event, func(o *Object) {
		o.Var = event.Var
	})}
}

type combinationFactory struct {
	factories []Factory
}

// NewCombinationFactory merges several factories: Handle concatenates their
// results, Reset reaches each of them and All unions their objects.
func NewCombinationFactory(factories ...Factory) Factory {
	return &combinationFactory{factories: factories}
}

func (c *combinationFactory) Handle(event m.Event, scope *Scope) []*Object {
	var objects []*Object
	for _, f := range c.factories {
		objects = append(objects, f.Handle(event, scope)...)
	}

	return objects
}

func (c *combinationFactory) Reset() {
	for _, f := range c.factories {
		f.Reset()
	}
}

func (c *combinationFactory) All() []*Object {
	seen := make(map[*Object]bool)

	var all []*Object

	for _, f := range c.factories {
		for _, obj := range f.All() {
			if !seen[obj] {
				seen[obj] = true

				all = append(all, obj)
			}
		}
	}

	sortObjects(all)

	return all
}

func sortObjects(objects []*Object) {
	sort.SliceStable(objects, func(i, j int) bool {
		a, b := objects[i], objects[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}

		if a.File != b.File {
			return a.File < b.File
		}

		if a.Line != b.Line {
			return a.Line < b.Line
		}

		return a.String() < b.String()
	})
}
