package model

// Path represents a file system path.
type Path string

// CodeRange is an inclusive line range covered by a program element.
type CodeRange struct {
	StartLine int
	EndLine   int
}

// Lines expands the range into its individual line numbers.
func (r CodeRange) Lines() []int {
	if r.EndLine < r.StartLine {
		return nil
	}

	lines := make([]int, 0, r.EndLine-r.StartLine+1)
	for line := r.StartLine; line <= r.EndLine; line++ {
		lines = append(lines, line)
	}

	return lines
}

// FinderQuery asks a location finder for the full extent of a program element.
// Function is set for FUNCTION queries, Then selects the branch side for BRANCH
// queries; LOOP queries only need File and Line.
type FinderQuery struct {
	Kind     AnalysisType
	File     string
	Line     int
	Function string
	Then     bool
}
