package model

import (
	"fmt"
	"strings"
)

// AnalysisType names a family of analysis objects (spectra or predicates).
type AnalysisType int

const (
	// AnalysisLine is the line spectrum.
	AnalysisLine AnalysisType = iota
	// AnalysisBranch is the branch predicate (then/else side taken).
	AnalysisBranch
	// AnalysisFunction is the function spectrum.
	AnalysisFunction
	// AnalysisLoop is the loop spectrum over iteration-count buckets.
	AnalysisLoop
	// AnalysisDefUse is the def-use pair spectrum.
	AnalysisDefUse
	// AnalysisCondition is the condition predicate.
	AnalysisCondition
	// AnalysisScalarPair compares a freshly defined variable with other variables.
	AnalysisScalarPair
	// AnalysisVariable compares a numeric variable with zero.
	AnalysisVariable
	// AnalysisReturn compares function return values with sentinels.
	AnalysisReturn
	// AnalysisNone checks variables against None.
	AnalysisNone
	// AnalysisEmptyString checks variables against the empty string.
	AnalysisEmptyString
	// AnalysisASCIIString checks whether a string variable is pure ASCII.
	AnalysisASCIIString
	// AnalysisDigitString checks whether a string variable contains a digit.
	AnalysisDigitString
	// AnalysisSpecialString checks whether a string variable contains a non-alphanumeric character.
	AnalysisSpecialString
	// AnalysisEmptyBytes checks variables against the empty byte string.
	AnalysisEmptyBytes
)

var analysisTypeNames = [...]string{
	AnalysisLine:          "LINE",
	AnalysisBranch:        "BRANCH",
	AnalysisFunction:      "FUNCTION",
	AnalysisLoop:          "LOOP",
	AnalysisDefUse:        "DEF_USE",
	AnalysisCondition:     "CONDITION",
	AnalysisScalarPair:    "SCALAR_PAIR",
	AnalysisVariable:      "VARIABLE",
	AnalysisReturn:        "RETURN",
	AnalysisNone:          "NONE",
	AnalysisEmptyString:   "EMPTY_STRING",
	AnalysisASCIIString:   "ASCII_STRING",
	AnalysisDigitString:   "DIGIT_STRING",
	AnalysisSpecialString: "SPECIAL_STRING",
	AnalysisEmptyBytes:    "EMPTY_BYTES",
}

// AnalysisTypes lists every analysis type in declaration order.
func AnalysisTypes() []AnalysisType {
	types := make([]AnalysisType, len(analysisTypeNames))
	for i := range analysisTypeNames {
		types[i] = AnalysisType(i)
	}

	return types
}

// Valid reports whether t is a known analysis type.
func (t AnalysisType) Valid() bool {
	return t >= AnalysisLine && t <= AnalysisEmptyBytes
}

func (t AnalysisType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("AnalysisType(%d)", int(t))
	}

	return analysisTypeNames[t]
}

// IsPredicate reports whether objects of this type track a boolean outcome
// in addition to execution counts.
func (t AnalysisType) IsPredicate() bool {
	switch t {
	case AnalysisLine, AnalysisFunction, AnalysisLoop, AnalysisDefUse:
		return false
	default:
		return t.Valid()
	}
}

// ParseAnalysisType resolves an analysis type by name. Case and the
// separator ("-" or "_") are ignored.
func ParseAnalysisType(name string) (AnalysisType, bool) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	for i, n := range analysisTypeNames {
		if n == normalized {
			return AnalysisType(i), true
		}
	}

	return 0, false
}

// MarshalText encodes the type by name.
func (t AnalysisType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid analysis type %d", int(t))
	}

	return []byte(t.String()), nil
}

// UnmarshalText decodes a type from its name.
func (t *AnalysisType) UnmarshalText(text []byte) error {
	parsed, ok := ParseAnalysisType(string(text))
	if !ok {
		return fmt.Errorf("unknown analysis type %q", string(text))
	}

	*t = parsed

	return nil
}
