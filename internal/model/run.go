package model

import "fmt"

// RunID identifies one recorded execution. Ids are small, dense and unique
// across the passing and failing sets of one analysis.
type RunID int

// Run is one recorded execution: the event log it produced and its verdict.
type Run struct {
	ID      RunID
	Path    Path
	Failing bool
}

func (r Run) String() string {
	verdict := "PASS"
	if r.Failing {
		verdict = "FAIL"
	}

	return fmt.Sprintf("%s:%d:%s", r.Path, r.ID, verdict)
}

// RunIDs extracts the ids of the given runs, preserving order.
func RunIDs(runs []Run) []RunID {
	ids := make([]RunID, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}

	return ids
}
