package adapter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	m "github.com/mouse-blink/suspect/internal/model"
)

// EventStream yields the events of one run in order. Next returns io.EOF
// after the last event and a *DecodeError on malformed data.
type EventStream interface {
	Next() (m.Event, error)
	Close() error
}

// EventSource opens the event stream of a run.
type EventSource interface {
	Open(run m.Run) (EventStream, error)
}

// CSVEventSource reads runs from CSV event-log files at Run.Path.
type CSVEventSource struct{}

// NewCSVEventSource constructs a CSVEventSource.
func NewCSVEventSource() *CSVEventSource {
	return &CSVEventSource{}
}

// Open opens the event log of run.
func (s *CSVEventSource) Open(run m.Run) (EventStream, error) {
	// #nosec G304 - event logs are user-selected inputs
	f, err := os.Open(string(run.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open event log %s: %w", run.Path, err)
	}

	return newCSVEventStream(string(run.Path), f), nil
}

type csvEventStream struct {
	path   string
	reader *csv.Reader
	closer io.Closer
	row    int
}

func newCSVEventStream(path string, rc io.ReadCloser) *csvEventStream {
	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	return &csvEventStream{path: path, reader: reader, closer: rc}
}

func (s *csvEventStream) Next() (m.Event, error) {
	record, err := s.reader.Read()
	if errors.Is(err, io.EOF) {
		return m.Event{}, io.EOF
	}

	s.row++

	if err != nil {
		return m.Event{}, &DecodeError{Path: s.path, Row: s.row, Reason: err.Error()}
	}

	event, err := DecodeEvent(record)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Path = s.path
			decodeErr.Row = s.row
		}

		return m.Event{}, err
	}

	return event, nil
}

func (s *csvEventStream) Close() error {
	return s.closer.Close()
}

// ReadEventLog decodes a whole event-log file. On malformed data it returns
// the events decoded so far together with the *DecodeError.
func ReadEventLog(path m.Path) ([]m.Event, error) {
	stream, err := NewCSVEventSource().Open(m.Run{Path: path})
	if err != nil {
		return nil, err
	}

	defer func() { _ = stream.Close() }()

	return Drain(stream)
}

// Drain reads a stream to its end.
func Drain(stream EventStream) ([]m.Event, error) {
	var events []m.Event

	for {
		event, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}

		if err != nil {
			return events, err
		}

		events = append(events, event)
	}
}

// MemoryEventSource serves runs from in-memory event lists keyed by run id.
type MemoryEventSource struct {
	events map[m.RunID][]m.Event
	errs   map[m.RunID]error
}

// NewMemoryEventSource constructs a MemoryEventSource.
func NewMemoryEventSource(events map[m.RunID][]m.Event) *MemoryEventSource {
	return &MemoryEventSource{events: events, errs: make(map[m.RunID]error)}
}

// FailAfter makes the stream of run return err once its events are exhausted.
func (s *MemoryEventSource) FailAfter(run m.RunID, err error) {
	s.errs[run] = err
}

// Open returns the events recorded for run.
func (s *MemoryEventSource) Open(run m.Run) (EventStream, error) {
	events, ok := s.events[run.ID]
	if !ok {
		return nil, fmt.Errorf("no events for run %s", run)
	}

	return &memoryEventStream{events: events, err: s.errs[run.ID]}, nil
}

type memoryEventStream struct {
	events []m.Event
	err    error
	pos    int
}

func (s *memoryEventStream) Next() (m.Event, error) {
	if s.pos >= len(s.events) {
		if s.err != nil {
			return m.Event{}, s.err
		}

		return m.Event{}, io.EOF
	}

	event := s.events[s.pos]
	s.pos++

	return event, nil
}

func (s *memoryEventStream) Close() error { return nil }
