package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Location is a single source line.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Less orders locations by file, then line.
func (l Location) Less(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}

	return l.Line < other.Line
}

// ParseLocation parses the "file:line" form. The last colon separates the line
// so that file names containing colons survive.
func ParseLocation(s string) (Location, error) {
	idx := strings.LastIndex(s, ":")
	if idx <= 0 || idx == len(s)-1 {
		return Location{}, fmt.Errorf("invalid location %q: want file:line", s)
	}

	line, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q: %w", s, err)
	}

	return Location{File: s[:idx], Line: line}, nil
}

// SortLocations sorts locations in place by file and line.
func SortLocations(locations []Location) {
	sort.Slice(locations, func(i, j int) bool { return locations[i].Less(locations[j]) })
}

// Suggestion pairs one or more locations with the suspiciousness they share.
type Suggestion struct {
	Locations      []Location
	Suspiciousness float64
}

type suggestionJSON struct {
	Locations      []string `json:"locations"`
	Suspiciousness float64  `json:"suspiciousness"`
}

// MarshalJSON renders {"locations": ["file:line", ...], "suspiciousness": f}.
func (s Suggestion) MarshalJSON() ([]byte, error) {
	out := suggestionJSON{Locations: make([]string, len(s.Locations)), Suspiciousness: s.Suspiciousness}
	for i, loc := range s.Locations {
		out.Locations[i] = loc.String()
	}

	return json.Marshal(out)
}

// UnmarshalJSON parses the form written by MarshalJSON.
func (s *Suggestion) UnmarshalJSON(data []byte) error {
	var in suggestionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	locations := make([]Location, 0, len(in.Locations))

	for _, raw := range in.Locations {
		loc, err := ParseLocation(raw)
		if err != nil {
			return err
		}

		locations = append(locations, loc)
	}

	s.Locations = locations
	s.Suspiciousness = in.Suspiciousness

	return nil
}
