package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("pkg/middle.go:10")
	require.NoError(t, err)
	assert.Equal(t, Location{File: "pkg/middle.go", Line: 10}, loc)

	loc, err = ParseLocation("c:/src/a.go:2")
	require.NoError(t, err)
	assert.Equal(t, "c:/src/a.go", loc.File)

	for _, bad := range []string{"middle.go", ":3", "middle.go:", "middle.go:x"} {
		_, err := ParseLocation(bad)
		assert.Errorf(t, err, "ParseLocation(%q)", bad)
	}
}

func TestSortLocations(t *testing.T) {
	locations := []Location{{File: "b.go", Line: 1}, {File: "a.go", Line: 9}, {File: "a.go", Line: 2}}

	SortLocations(locations)

	assert.Equal(t, []Location{{File: "a.go", Line: 2}, {File: "a.go", Line: 9}, {File: "b.go", Line: 1}}, locations)
}

func TestSuggestion_JSON(t *testing.T) {
	suggestion := Suggestion{
		Locations:      []Location{{File: "middle.go", Line: 10}, {File: "middle.go", Line: 11}},
		Suspiciousness: 0.5,
	}

	data, err := json.Marshal(suggestion)
	require.NoError(t, err)
	assert.JSONEq(t, `{"locations":["middle.go:10","middle.go:11"],"suspiciousness":0.5}`, string(data))

	var decoded Suggestion
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, suggestion, decoded)

	assert.Error(t, json.Unmarshal([]byte(`{"locations":["middle.go"]}`), &decoded))
}

func TestReport_Accessors(t *testing.T) {
	report := Report{
		ID: "abc",
		Results: Results{
			AnalysisBranch: {"Ochiai": nil},
			AnalysisLine:   {"Tarantula": nil, "DStar": nil},
		},
	}

	assert.Equal(t, []AnalysisType{AnalysisLine, AnalysisBranch}, report.Kinds())
	assert.Equal(t, []string{"DStar", "Tarantula"}, report.Metrics(AnalysisLine))

	_, ok := report.Suggestions(AnalysisLoop, "Ochiai")
	assert.False(t, ok)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"LINE"`)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Kinds(), decoded.Kinds())
}
