package adapter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	m "github.com/mouse-blink/suspect/internal/model"
)

// headerFields are the leading columns of every event-log row:
// tag, file, line, id.
const headerFields = 4

type eventDecoder struct {
	fields int
	decode func(base m.Event, fields []string) (m.Event, error)
}

var eventDecoders = map[m.EventType]eventDecoder{
	m.EventLine: {fields: 0, decode: func(base m.Event, _ []string) (m.Event, error) {
		return base, nil
	}},
	m.EventBranch: {fields: 2, decode: func(base m.Event, f []string) (m.Event, error) {
		thenID, err := parseInt("then_id", f[0])
		if err != nil {
			return m.Event{}, err
		}

		elseID, err := parseInt("else_id", f[1])
		if err != nil {
			return m.Event{}, err
		}

		return m.NewBranchEvent(base.File, base.Line, base.ID, thenID, elseID), nil
	}},
	m.EventFunctionEnter: {fields: 2, decode: decodeFunction},
	m.EventFunctionError: {fields: 2, decode: decodeFunction},
	m.EventFunctionExit: {fields: 4, decode: func(base m.Event, f []string) (m.Event, error) {
		functionID, err := parseInt("function_id", f[0])
		if err != nil {
			return m.Event{}, err
		}

		value, err := m.ParseValue(f[3], f[2])
		if err != nil {
			return m.Event{}, err
		}

		return m.NewFunctionExitEvent(base.File, base.Line, base.ID, functionID, f[1], value), nil
	}},
	m.EventDef: {fields: 4, decode: func(base m.Event, f []string) (m.Event, error) {
		varID, err := parseInt("var_id", f[1])
		if err != nil {
			return m.Event{}, err
		}

		value, err := m.ParseValue(f[3], f[2])
		if err != nil {
			return m.Event{}, err
		}

		return m.NewDefEvent(base.File, base.Line, base.ID, f[0], varID, value), nil
	}},
	m.EventUse: {fields: 2, decode: func(base m.Event, f []string) (m.Event, error) {
		varID, err := parseInt("var_id", f[1])
		if err != nil {
			return m.Event{}, err
		}

		return m.NewUseEvent(base.File, base.Line, base.ID, f[0], varID), nil
	}},
	m.EventCondition: {fields: 2, decode: func(base m.Event, f []string) (m.Event, error) {
		outcome, err := m.ParseValue(m.TypeBool, f[1])
		if err != nil {
			return m.Event{}, err
		}

		return m.NewConditionEvent(base.File, base.Line, base.ID, f[0], outcome.Bool()), nil
	}},
	m.EventLoopBegin: {fields: 1, decode: decodeLoop},
	m.EventLoopHit:   {fields: 1, decode: decodeLoop},
	m.EventLoopEnd:   {fields: 1, decode: decodeLoop},
}

func decodeFunction(base m.Event, f []string) (m.Event, error) {
	functionID, err := parseInt("function_id", f[0])
	if err != nil {
		return m.Event{}, err
	}

	if base.Type == m.EventFunctionError {
		return m.NewFunctionErrorEvent(base.File, base.Line, base.ID, functionID, f[1]), nil
	}

	return m.NewFunctionEnterEvent(base.File, base.Line, base.ID, functionID, f[1]), nil
}

func decodeLoop(base m.Event, f []string) (m.Event, error) {
	loopID, err := parseInt("loop_id", f[0])
	if err != nil {
		return m.Event{}, err
	}

	return m.NewLoopEvent(base.Type, base.File, base.Line, base.ID, loopID), nil
}

func parseInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", field, raw)
	}

	return v, nil
}

// DecodeEvent parses one event-log row. Malformed rows yield a *DecodeError
// without path and row information.
func DecodeEvent(row []string) (m.Event, error) {
	if len(row) < headerFields {
		return m.Event{}, &DecodeError{Reason: fmt.Sprintf("expected at least %d fields, got %d", headerFields, len(row))}
	}

	tag, err := strconv.Atoi(row[0])
	if err != nil {
		return m.Event{}, &DecodeError{Reason: fmt.Sprintf("event tag %q is not an integer", row[0])}
	}

	decoder, ok := eventDecoders[m.EventType(tag)]
	if !ok {
		return m.Event{}, &DecodeError{Reason: fmt.Sprintf("unknown event tag %d", tag)}
	}

	if len(row) != headerFields+decoder.fields {
		return m.Event{}, &DecodeError{Reason: fmt.Sprintf(
			"%s expects %d fields, got %d", m.EventType(tag), headerFields+decoder.fields, len(row))}
	}

	line, err := parseInt("line", row[2])
	if err != nil {
		return m.Event{}, &DecodeError{Reason: err.Error()}
	}

	id, err := parseInt("id", row[3])
	if err != nil {
		return m.Event{}, &DecodeError{Reason: err.Error()}
	}

	base := m.Event{File: row[1], Line: line, ID: id, Type: m.EventType(tag)}

	event, err := decoder.decode(base, row[headerFields:])
	if err != nil {
		return m.Event{}, &DecodeError{Reason: err.Error()}
	}

	return event, nil
}

// EncodeEvent renders an event as an event-log row.
func EncodeEvent(e m.Event) []string {
	row := []string{
		strconv.Itoa(int(e.Type)),
		e.File,
		strconv.Itoa(e.Line),
		strconv.Itoa(e.ID),
	}

	switch e.Type {
	case m.EventBranch:
		row = append(row, strconv.Itoa(e.ThenID), strconv.Itoa(e.ElseID))
	case m.EventFunctionEnter, m.EventFunctionError:
		row = append(row, strconv.Itoa(e.FunctionID), e.Function)
	case m.EventFunctionExit:
		row = append(row, strconv.Itoa(e.FunctionID), e.Function, e.Value.Encode(), e.Value.TypeName())
	case m.EventDef:
		row = append(row, e.Var, strconv.Itoa(e.VarID), e.Value.Encode(), e.Value.TypeName())
	case m.EventUse:
		row = append(row, e.Var, strconv.Itoa(e.VarID))
	case m.EventCondition:
		row = append(row, e.Condition, m.BoolValue(e.Outcome).Encode())
	case m.EventLoopBegin, m.EventLoopHit, m.EventLoopEnd:
		row = append(row, strconv.Itoa(e.LoopID))
	}

	return row
}

// WriteEventLog writes events as CSV rows.
func WriteEventLog(w io.Writer, events []m.Event) error {
	cw := csv.NewWriter(w)

	for _, e := range events {
		if err := cw.Write(EncodeEvent(e)); err != nil {
			return fmt.Errorf("failed to write event %s: %w", e, err)
		}
	}

	cw.Flush()

	return cw.Error()
}
