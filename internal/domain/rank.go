package domain

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	m "github.com/mouse-blink/suspect/internal/model"
)

// Scenario selects how a ranking is scored against several faulty locations.
type Scenario int

const (
	// ScenarioDefault averages over all faulty locations.
	ScenarioDefault Scenario = iota
	// ScenarioBest scores by the best ranked faulty location.
	ScenarioBest
	// ScenarioAverage scores by the middle faulty location.
	ScenarioAverage
	// ScenarioWorst scores by the worst ranked faulty location.
	ScenarioWorst
)

var scenarioNames = [...]string{
	ScenarioDefault: "default",
	ScenarioBest:    "best_case",
	ScenarioAverage: "avg_case",
	ScenarioWorst:   "worst_case",
}

func (s Scenario) String() string {
	if s < ScenarioDefault || s > ScenarioWorst {
		return "unknown"
	}

	return scenarioNames[s]
}

// ParseScenario resolves a scenario by name. "best", "avg" and "worst" are
// accepted as short forms.
func ParseScenario(name string) (Scenario, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.TrimSuffix(normalized, "_case")

	switch normalized {
	case "", "default":
		return ScenarioDefault, nil
	case "best":
		return ScenarioBest, nil
	case "avg", "average":
		return ScenarioAverage, nil
	case "worst":
		return ScenarioWorst, nil
	default:
		return 0, &ConfigError{Field: "scenario", Reason: "unknown scenario " + name}
	}
}

// DefaultRepeat is the number of samples drawn by TopN when the top n
// locations are ambiguous.
const DefaultRepeat = 1000

// RankOption configures a Rank.
type RankOption func(*Rank)

// WithRand sets the random source used for sampling.
func WithRand(rng *rand.Rand) RankOption {
	return func(r *Rank) {
		r.rng = rng
	}
}

// WithRepeat sets the number of samples drawn by TopN.
func WithRepeat(repeat int) RankOption {
	return func(r *Rank) {
		if repeat > 0 {
			r.repeat = repeat
		}
	}
}

// WithCombine sets how the scores of a location listed in several
// suggestions are combined. The default keeps the maximum.
func WithCombine(combine func(a, b float64) float64) RankOption {
	return func(r *Rank) {
		r.combine = combine
	}
}

// rankGroup is a set of locations sharing one score.
type rankGroup struct {
	score     float64
	rank      float64
	locations []m.Location
}

// Rank assigns ranks to the locations of a suggestion list. Locations with
// the same score share the mid-rank of the positions they occupy.
type Rank struct {
	groups         []rankGroup
	ranks          map[m.Location]float64
	suspiciousness map[m.Location]float64
	rng            *rand.Rand
	repeat         int
	combine        func(a, b float64) float64
}

// NewRank ranks the locations of suggestions.
func NewRank(suggestions []m.Suggestion, opts ...RankOption) *Rank {
	r := &Rank{
		ranks:          make(map[m.Location]float64),
		suspiciousness: make(map[m.Location]float64),
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		repeat:         DefaultRepeat,
		combine:        math.Max,
	}

	for _, opt := range opts {
		opt(r)
	}

	for _, suggestion := range suggestions {
		for _, loc := range suggestion.Locations {
			if current, ok := r.suspiciousness[loc]; ok {
				r.suspiciousness[loc] = r.combine(current, suggestion.Suspiciousness)
			} else {
				r.suspiciousness[loc] = suggestion.Suspiciousness
			}
		}
	}

	byScore := make(map[float64][]m.Location)
	for loc, score := range r.suspiciousness {
		byScore[score] = append(byScore[score], loc)
	}

	for score, locations := range byScore {
		m.SortLocations(locations)
		r.groups = append(r.groups, rankGroup{score: score, locations: locations})
	}

	sort.Slice(r.groups, func(i, j int) bool { return r.groups[i].score > r.groups[j].score })

	prior := 0

	for i := range r.groups {
		count := len(r.groups[i].locations)
		r.groups[i].rank = float64(prior) + float64(count+1)/2

		for _, loc := range r.groups[i].locations {
			r.ranks[loc] = r.groups[i].rank
		}

		prior += count
	}

	return r
}

// Locations returns the number of distinct ranked locations.
func (r *Rank) Locations() int {
	return len(r.ranks)
}

// RankOf returns the rank of loc. ok is false for unranked locations.
func (r *Rank) RankOf(loc m.Location) (rank float64, ok bool) {
	rank, ok = r.ranks[loc]

	return rank, ok
}

// Suspiciousness returns the combined score of loc.
func (r *Rank) Suspiciousness(loc m.Location) (float64, bool) {
	score, ok := r.suspiciousness[loc]

	return score, ok
}

// Ordered returns all ranked locations from most to least suspicious.
func (r *Rank) Ordered() []m.Location {
	ordered := make([]m.Location, 0, len(r.ranks))
	for _, group := range r.groups {
		ordered = append(ordered, group.locations...)
	}

	return ordered
}

// TopN scores the n most suspicious locations against faulty. Score groups
// are collected from the top until they hold at least n locations. When
// they hold more, n of them are sampled repeatedly and the scores averaged.
func (r *Rank) TopN(faulty []m.Location, n int, scenario Scenario) float64 {
	if n <= 0 || len(faulty) == 0 {
		return 0
	}

	faultySet := locationSet(faulty)

	var candidates []m.Location

	for _, group := range r.groups {
		if len(candidates) >= n {
			break
		}

		candidates = append(candidates, group.locations...)
	}

	if len(candidates) <= n {
		return scoreTopN(faultySet, candidates, scenario)
	}

	pool := make([]m.Location, len(candidates))

	var sum float64

	for range r.repeat {
		copy(pool, candidates)
		r.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

		sum += scoreTopN(faultySet, pool[:n], scenario)
	}

	return sum / float64(r.repeat)
}

func scoreTopN(faulty map[m.Location]struct{}, selected []m.Location, scenario Scenario) float64 {
	found := 0

	for _, loc := range selected {
		if _, ok := faulty[loc]; ok {
			found++
		}
	}

	switch scenario {
	case ScenarioBest:
		if found > 0 {
			return 1
		}

		return 0
	case ScenarioWorst:
		return float64(found) / float64(len(faulty))
	case ScenarioAverage:
		return math.Min(float64(found)/(float64(len(faulty))/2), 1)
	default:
		if len(selected) == 0 {
			return 0
		}

		return float64(found) / float64(len(selected))
	}
}

// Rank returns the rank of the faulty locations under scenario. Faulty
// locations missing from the ranking count as ranked after every ranked
// location.
func (r *Rank) Rank(faulty []m.Location, scenario Scenario) float64 {
	if len(faulty) == 0 {
		return 0
	}

	ranks := make([]float64, 0, len(faulty))

	for loc := range locationSet(faulty) {
		rank, ok := r.ranks[loc]
		if !ok {
			rank = float64(len(r.ranks) + 1)
		}

		ranks = append(ranks, rank)
	}

	sort.Float64s(ranks)

	switch scenario {
	case ScenarioBest:
		return ranks[0]
	case ScenarioWorst:
		return ranks[len(ranks)-1]
	case ScenarioAverage:
		return ranks[max(len(ranks)/2-1, 0)]
	default:
		var sum float64
		for _, rank := range ranks {
			sum += rank
		}

		return sum / float64(len(ranks))
	}
}

// Exam is the rank normalized by the number of ranked locations.
func (r *Rank) Exam(faulty []m.Location, scenario Scenario) float64 {
	if len(r.ranks) == 0 {
		return 0
	}

	return r.Rank(faulty, scenario) / float64(len(r.ranks))
}

// WastedEffort is the number of locations inspected before reaching the
// faulty ones, expressed as their rank.
func (r *Rank) WastedEffort(faulty []m.Location, scenario Scenario) float64 {
	return r.Rank(faulty, scenario)
}

func locationSet(locations []m.Location) map[m.Location]struct{} {
	set := make(map[m.Location]struct{}, len(locations))
	for _, loc := range locations {
		set[loc] = struct{}{}
	}

	return set
}
