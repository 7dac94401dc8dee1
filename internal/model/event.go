// Package model defines the data structures shared by the fault localization engine.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventType identifies the kind of an instrumentation event. The numeric values
// are part of the event-log wire format.
type EventType int

const (
	// EventLine marks the execution of a source line.
	EventLine EventType = iota
	// EventBranch marks the selection of one side of a branch.
	EventBranch
	// EventFunctionEnter marks the entry into a function.
	EventFunctionEnter
	// EventFunctionExit marks the normal return from a function.
	EventFunctionExit
	// EventFunctionError marks an abnormal exit from a function.
	EventFunctionError
	// EventDef marks a variable definition with its runtime value.
	EventDef
	// EventUse marks a variable use.
	EventUse
	// EventCondition marks the evaluation of a boolean condition.
	EventCondition
	// EventLoopBegin marks the start of a loop.
	EventLoopBegin
	// EventLoopHit marks one loop iteration.
	EventLoopHit
	// EventLoopEnd marks the end of a loop.
	EventLoopEnd
)

var eventTypeNames = [...]string{
	EventLine:          "LINE",
	EventBranch:        "BRANCH",
	EventFunctionEnter: "FUNCTION_ENTER",
	EventFunctionExit:  "FUNCTION_EXIT",
	EventFunctionError: "FUNCTION_ERROR",
	EventDef:           "DEF",
	EventUse:           "USE",
	EventCondition:     "CONDITION",
	EventLoopBegin:     "LOOP_BEGIN",
	EventLoopHit:       "LOOP_HIT",
	EventLoopEnd:       "LOOP_END",
}

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t >= EventLine && t <= EventLoopEnd
}

func (t EventType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("EventType(%d)", int(t))
	}

	return eventTypeNames[t]
}

// ParseEventType resolves an event type by its name, ignoring case.
func ParseEventType(name string) (EventType, bool) {
	for i, n := range eventTypeNames {
		if strings.EqualFold(n, name) {
			return EventType(i), true
		}
	}

	return 0, false
}

// Event is a single runtime event emitted by an instrumented program. It is a
// tagged value: Type selects which of the kind-specific fields are meaningful.
//
//	BRANCH                      ThenID, ElseID
//	FUNCTION_ENTER/ERROR        FunctionID, Function
//	FUNCTION_EXIT               FunctionID, Function, Value
//	DEF                         Var, VarID, Value
//	USE                         Var, VarID
//	CONDITION                   Condition, Outcome
//	LOOP_BEGIN/HIT/END          LoopID
type Event struct {
	File string
	Line int
	ID   int
	Type EventType

	ThenID     int
	ElseID     int
	FunctionID int
	Function   string
	Var        string
	VarID      int
	Value      Value
	Condition  string
	Outcome    bool
	LoopID     int
}

// NewLineEvent creates a LINE event.
func NewLineEvent(file string, line, id int) Event {
	return Event{File: file, Line: line, ID: id, Type: EventLine}
}

// NewBranchEvent creates a BRANCH event. A negative elseID marks a branch
// without an else side.
func NewBranchEvent(file string, line, id, thenID, elseID int) Event {
	return Event{File: file, Line: line, ID: id, Type: EventBranch, ThenID: thenID, ElseID: elseID}
}

// NewFunctionEnterEvent creates a FUNCTION_ENTER event.
func NewFunctionEnterEvent(file string, line, id, functionID int, function string) Event {
	return Event{File: file, Line: line, ID: id, Type: EventFunctionEnter, FunctionID: functionID, Function: function}
}

// NewFunctionExitEvent creates a FUNCTION_EXIT event carrying the return value.
func NewFunctionExitEvent(file string, line, id, functionID int, function string, value Value) Event {
	return Event{
		File: file, Line: line, ID: id, Type: EventFunctionExit,
		FunctionID: functionID, Function: function, Value: value,
	}
}

// NewFunctionErrorEvent creates a FUNCTION_ERROR event.
func NewFunctionErrorEvent(file string, line, id, functionID int, function string) Event {
	return Event{File: file, Line: line, ID: id, Type: EventFunctionError, FunctionID: functionID, Function: function}
}

// NewDefEvent creates a DEF event for variable v with its runtime value.
func NewDefEvent(file string, line, id int, v string, varID int, value Value) Event {
	return Event{File: file, Line: line, ID: id, Type: EventDef, Var: v, VarID: varID, Value: value}
}

// NewUseEvent creates a USE event.
func NewUseEvent(file string, line, id int, v string, varID int) Event {
	return Event{File: file, Line: line, ID: id, Type: EventUse, Var: v, VarID: varID}
}

// NewConditionEvent creates a CONDITION event.
func NewConditionEvent(file string, line, id int, condition string, outcome bool) Event {
	return Event{File: file, Line: line, ID: id, Type: EventCondition, Condition: condition, Outcome: outcome}
}

// NewLoopEvent creates a LOOP_BEGIN, LOOP_HIT or LOOP_END event.
func NewLoopEvent(t EventType, file string, line, id, loopID int) Event {
	return Event{File: file, Line: line, ID: id, Type: t, LoopID: loopID}
}

// Same reports whether two events denote the same instrumentation point,
// comparing file, line, id and kind only.
func (e Event) Same(other Event) bool {
	return e.File == other.File && e.Line == other.Line && e.ID == other.ID && e.Type == other.Type
}

func (e Event) String() string {
	switch e.Type {
	case EventBranch:
		return fmt.Sprintf("%s(%s,%d,%d,%d,%d)", e.Type, e.File, e.Line, e.ID, e.ThenID, e.ElseID)
	case EventFunctionEnter, EventFunctionError:
		return fmt.Sprintf("%s(%s,%d,%d,%s)", e.Type, e.File, e.Line, e.ID, e.Function)
	case EventFunctionExit:
		return fmt.Sprintf("%s(%s,%d,%d,%s,%s)", e.Type, e.File, e.Line, e.ID, e.Function, e.Value)
	case EventDef:
		return fmt.Sprintf("%s(%s,%d,%d,%s,%d,%s)", e.Type, e.File, e.Line, e.ID, e.Var, e.VarID, e.Value)
	case EventUse:
		return fmt.Sprintf("%s(%s,%d,%d,%s,%d)", e.Type, e.File, e.Line, e.ID, e.Var, e.VarID)
	case EventCondition:
		return fmt.Sprintf("%s(%s,%d,%d,%t,%s)", e.Type, e.File, e.Line, e.ID, e.Outcome, e.Condition)
	case EventLoopBegin, EventLoopHit, EventLoopEnd:
		return fmt.Sprintf("%s(%s,%d,%d,%d)", e.Type, e.File, e.Line, e.ID, e.LoopID)
	default:
		return fmt.Sprintf("%s(%s,%d,%d)", e.Type, e.File, e.Line, e.ID)
	}
}

// MarshalJSON renders the event with its kind-specific fields only.
func (e Event) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"file":       e.File,
		"line":       e.Line,
		"id":         e.ID,
		"event_type": int(e.Type),
	}

	switch e.Type {
	case EventBranch:
		out["then_id"] = e.ThenID
		out["else_id"] = e.ElseID
	case EventFunctionEnter, EventFunctionError:
		out["function_id"] = e.FunctionID
		out["function"] = e.Function
	case EventFunctionExit:
		out["function_id"] = e.FunctionID
		out["function"] = e.Function
		out["return_value"] = e.Value.String()
		out["type"] = e.Value.TypeName()
	case EventDef:
		out["var"] = e.Var
		out["var_id"] = e.VarID
		out["value"] = e.Value.String()
		out["type"] = e.Value.TypeName()
	case EventUse:
		out["var"] = e.Var
		out["var_id"] = e.VarID
	case EventCondition:
		out["condition"] = e.Condition
		out["value"] = e.Outcome
	case EventLoopBegin, EventLoopHit, EventLoopEnd:
		out["loop_id"] = e.LoopID
	}

	return json.Marshal(out)
}
