package adapter

import (
	"go/token"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/suspect/internal/model"
)

const midSource = `package main

func mid(x, y, z int) int {
	m := z
	if y < z {
		if x < y {
			m = y
		} else if x < z {
			m = y
		}
	} else {
		m = x
	}
	return m
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
`

func TestLocalGoFileAdapter_Parse(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	file, err := adapter.Parse(fset, "mid.go", []byte(midSource))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if file.Name.Name != "main" {
		t.Fatalf("Parse() package = %s, want main", file.Name.Name)
	}
}

func TestLocalGoFileAdapter_Parse_InvalidSource(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	if _, err := adapter.Parse(fset, "broken.go", []byte("package foo\n func")); err == nil {
		t.Fatalf("Parse() expected error for invalid source")
	}
}

func newMidFinder(t *testing.T) (*GoLocationFinder, m.Path) {
	t.Helper()

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "mid.go"), midSource)

	return NewGoLocationFinder(NewLocalSourceFSAdapter(), NewLocalGoFileAdapter()), m.Path(dir)
}

func TestGoLocationFinder_FindLines(t *testing.T) {
	finder, dir := newMidFinder(t)

	tests := []struct {
		name  string
		query m.FinderQuery
		want  []int
	}{
		{
			name:  "function body",
			query: m.FinderQuery{Kind: m.AnalysisFunction, File: "mid.go", Line: 3, Function: "mid"},
			want:  []int{3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		},
		{
			name:  "function name mismatch",
			query: m.FinderQuery{Kind: m.AnalysisFunction, File: "mid.go", Line: 3, Function: "other"},
			want:  nil,
		},
		{
			name:  "range loop",
			query: m.FinderQuery{Kind: m.AnalysisLoop, File: "mid.go", Line: 19},
			want:  []int{19, 20, 21},
		},
		{
			name:  "then side",
			query: m.FinderQuery{Kind: m.AnalysisBranch, File: "mid.go", Line: 5, Then: true},
			want:  []int{6, 7, 8, 9, 10},
		},
		{
			name:  "else block",
			query: m.FinderQuery{Kind: m.AnalysisBranch, File: "mid.go", Line: 5},
			want:  []int{12},
		},
		{
			name:  "else if chain",
			query: m.FinderQuery{Kind: m.AnalysisBranch, File: "mid.go", Line: 6},
			want:  []int{8, 9, 10},
		},
		{
			name:  "missing else",
			query: m.FinderQuery{Kind: m.AnalysisBranch, File: "mid.go", Line: 8},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := finder.FindLines(dir, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGoLocationFinder_AbsolutePath(t *testing.T) {
	finder, dir := newMidFinder(t)

	got, err := finder.FindLines("", m.FinderQuery{
		Kind: m.AnalysisLoop, File: filepath.Join(string(dir), "mid.go"), Line: 19,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{19, 20, 21}, got)
}

func TestGoLocationFinder_Errors(t *testing.T) {
	finder, dir := newMidFinder(t)

	_, err := finder.FindLines(dir, m.FinderQuery{Kind: m.AnalysisLine, File: "mid.go", Line: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no location expansion")

	for range 2 {
		_, err = finder.FindLines(dir, m.FinderQuery{Kind: m.AnalysisLoop, File: "missing.go", Line: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	}

	writeTestFile(t, filepath.Join(string(dir), "broken.go"), "package foo\n func")

	_, err = finder.FindLines(dir, m.FinderQuery{Kind: m.AnalysisLoop, File: "broken.go", Line: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}
