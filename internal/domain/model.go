package domain

import (
	m "github.com/mouse-blink/suspect/internal/model"
)

// Model replays the events of one run at a time into a factory, keeping
// the variable and return-value scopes of the run.
type Model interface {
	// Prepare starts a new run with fresh scopes.
	Prepare(run m.RunID)
	// Handle dispatches one event of the current run.
	Handle(event m.Event)
	// Finalize analyzes every object once over the given runs.
	Finalize(passed, failed []m.RunID)
	// Objects returns every object known to the factory.
	Objects() []*Object
}

type dispatchFunc func(md *model, event m.Event)

var dispatchTable = map[m.EventType]dispatchFunc{
	m.EventLine:          (*model).dispatchPlain,
	m.EventBranch:        (*model).dispatchPlain,
	m.EventCondition:     (*model).dispatchPlain,
	m.EventLoopBegin:     (*model).dispatchPlain,
	m.EventLoopHit:       (*model).dispatchPlain,
	m.EventLoopEnd:       (*model).dispatchPlain,
	m.EventDef:           (*model).dispatchDef,
	m.EventUse:           (*model).dispatchUse,
	m.EventFunctionEnter: (*model).dispatchEnter,
	m.EventFunctionExit:  (*model).dispatchExit,
	m.EventFunctionError: (*model).dispatchError,
}

type model struct {
	factory   Factory
	variables *Scope
	returns   *Scope
	run       m.RunID
}

// NewModel creates a dispatcher feeding factory.
func NewModel(factory Factory) Model {
	return &model{
		factory:   factory,
		variables: NewScope(),
		returns:   NewScope(),
	}
}

func (md *model) Prepare(run m.RunID) {
	md.run = run
	md.variables = NewScope()
	md.returns = NewScope()
	md.factory.Reset()
}

func (md *model) Handle(event m.Event) {
	if dispatch, ok := dispatchTable[event.Type]; ok {
		dispatch(md, event)
	}
}

func (md *model) Finalize(passed, failed []m.RunID) {
	for _, obj := range md.factory.All() {
		obj.Analyze(passed, failed)
	}
}

func (md *model) Objects() []*Object {
	return md.factory.All()
}

func (md *model) hit(event m.Event, scope *Scope) {
	for _, obj := range md.factory.Handle(event, scope) {
		obj.Hit(md.run, event, scope)
	}
}

func (md *model) dispatchPlain(event m.Event) {
	md.hit(event, nil)
}

func (md *model) dispatchDef(event m.Event) {
	md.variables.Add(event.Var, event.Value)
	md.hit(event, md.variables)
}

func (md *model) dispatchUse(event m.Event) {
	md.hit(event, md.variables)
}

func (md *model) dispatchEnter(event m.Event) {
	md.variables = md.variables.Enter()
	md.hit(event, md.variables)
}

// dispatchExit binds the return value under the function name so that
// return predicates can look it up like a variable.
func (md *model) dispatchExit(event m.Event) {
	md.returns.Add(event.Function, event.Value)
	md.hit(event, md.returns)
	md.variables = md.variables.Exit()
}

func (md *model) dispatchError(event m.Event) {
	md.hit(event, md.variables)
	md.variables = md.variables.Exit()
}
