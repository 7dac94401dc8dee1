package model

import (
	"sort"
	"time"
)

// Results maps an analysis type and a metric name to the ranked suggestions.
type Results map[AnalysisType]map[string][]Suggestion

// Report is the persisted outcome of one analysis.
type Report struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	BaseDir   Path      `json:"base_dir"`
	Passing   int       `json:"passing"`
	Failing   int       `json:"failing"`
	Results   Results   `json:"results"`
}

// Suggestions returns the ranked suggestions for a type and metric, if present.
func (r Report) Suggestions(kind AnalysisType, metric string) ([]Suggestion, bool) {
	byMetric, ok := r.Results[kind]
	if !ok {
		return nil, false
	}

	suggestions, ok := byMetric[metric]

	return suggestions, ok
}

// Kinds returns the analysis types present in the report in declaration order.
func (r Report) Kinds() []AnalysisType {
	kinds := make([]AnalysisType, 0, len(r.Results))
	for kind := range r.Results {
		kinds = append(kinds, kind)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}

// Metrics returns the metric names computed for kind, sorted.
func (r Report) Metrics(kind AnalysisType) []string {
	metrics := make([]string, 0, len(r.Results[kind]))
	for metric := range r.Results[kind] {
		metrics = append(metrics, metric)
	}

	sort.Strings(metrics)

	return metrics
}

// Summary describes the report without its results.
func (r Report) Summary() ReportSummary {
	return ReportSummary{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Passing:   r.Passing,
		Failing:   r.Failing,
		Kinds:     r.Kinds(),
	}
}

// ReportSummary describes a stored report without its results.
type ReportSummary struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Passing   int            `json:"passing"`
	Failing   int            `json:"failing"`
	Kinds     []AnalysisType `json:"kinds"`
}

// Evaluation holds localization quality statistics of one ranking against
// a set of known faulty locations.
type Evaluation struct {
	Kind         AnalysisType    `json:"kind"`
	Metric       string          `json:"metric"`
	Scenario     string          `json:"scenario"`
	Locations    int             `json:"locations"`
	Rank         float64         `json:"rank"`
	Exam         float64         `json:"exam"`
	WastedEffort float64         `json:"wasted_effort"`
	TopN         map[int]float64 `json:"top_n"`
}
