package adapter

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"sync"

	m "github.com/mouse-blink/suspect/internal/model"
)

// LocationFinder expands a program element reported at a single line into
// all the lines it spans.
type LocationFinder interface {
	FindLines(baseDir m.Path, query m.FinderQuery) ([]int, error)
}

// GoFileAdapter encapsulates Go-specific parsing so the domain layer can
// work with element extents instead of syntax trees.
type GoFileAdapter interface {
	// Parse builds an AST using the provided file set and optional source bytes.
	Parse(fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	return parser.ParseFile(fileSet, filename, src, parser.SkipObjectResolution)
}

// GoLocationFinder finds function bodies, loop statements and branch sides
// in Go sources. Parsed files are cached per path.
type GoLocationFinder struct {
	fsAdapter SourceFSAdapter
	goAdapter GoFileAdapter

	mu    sync.Mutex
	files map[string]parsedFile
}

type parsedFile struct {
	fset *token.FileSet
	file *ast.File
	err  error
}

// NewGoLocationFinder constructs a GoLocationFinder reading through fsAdapter.
func NewGoLocationFinder(fsAdapter SourceFSAdapter, goAdapter GoFileAdapter) *GoLocationFinder {
	return &GoLocationFinder{
		fsAdapter: fsAdapter,
		goAdapter: goAdapter,
		files:     make(map[string]parsedFile),
	}
}

// FindLines returns the lines of the element described by query, resolved
// against baseDir when the file path is relative. It returns no lines when
// the element is not found.
func (f *GoLocationFinder) FindLines(baseDir m.Path, query m.FinderQuery) ([]int, error) {
	path := query.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(string(baseDir), path)
	}

	parsed := f.parse(path)
	if parsed.err != nil {
		return nil, parsed.err
	}

	switch query.Kind {
	case m.AnalysisFunction:
		return f.functionLines(parsed, query), nil
	case m.AnalysisLoop:
		return f.loopLines(parsed, query), nil
	case m.AnalysisBranch:
		return f.branchLines(parsed, query), nil
	default:
		return nil, fmt.Errorf("no location expansion for %s", query.Kind)
	}
}

func (f *GoLocationFinder) parse(path string) parsedFile {
	f.mu.Lock()
	defer f.mu.Unlock()

	if parsed, ok := f.files[path]; ok {
		return parsed
	}

	parsed := parsedFile{fset: token.NewFileSet()}

	src, err := f.fsAdapter.ReadFile(m.Path(path))
	if err != nil {
		parsed.err = fmt.Errorf("failed to read %s: %w", path, err)
	} else {
		parsed.file, err = f.goAdapter.Parse(parsed.fset, path, src)
		if err != nil {
			parsed.err = fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	f.files[path] = parsed

	return parsed
}

func (f *GoLocationFinder) functionLines(parsed parsedFile, query m.FinderQuery) []int {
	var found []int

	ast.Inspect(parsed.file, func(n ast.Node) bool {
		if found != nil {
			return false
		}

		switch fn := n.(type) {
		case *ast.FuncDecl:
			if fn.Body != nil && f.line(parsed, fn.Pos()) == query.Line &&
				(query.Function == "" || fn.Name.Name == query.Function) {
				found = f.span(parsed, fn)
			}
		case *ast.FuncLit:
			if f.line(parsed, fn.Pos()) == query.Line {
				found = f.span(parsed, fn)
			}
		}

		return true
	})

	return found
}

func (f *GoLocationFinder) loopLines(parsed parsedFile, query m.FinderQuery) []int {
	var found []int

	ast.Inspect(parsed.file, func(n ast.Node) bool {
		if found != nil {
			return false
		}

		switch n.(type) {
		case *ast.ForStmt, *ast.RangeStmt:
			if f.line(parsed, n.Pos()) == query.Line {
				found = f.span(parsed, n)
			}
		}

		return true
	})

	return found
}

// branchLines returns the statements of the then or else side of the if
// statement at the query line.
func (f *GoLocationFinder) branchLines(parsed parsedFile, query m.FinderQuery) []int {
	var (
		found []int
		done  bool
	)

	ast.Inspect(parsed.file, func(n ast.Node) bool {
		if done {
			return false
		}

		stmt, ok := n.(*ast.IfStmt)
		if !ok || f.line(parsed, stmt.Pos()) != query.Line {
			return true
		}

		done = true

		switch {
		case query.Then:
			found = f.blockLines(parsed, stmt.Body)
		case stmt.Else != nil:
			if block, ok := stmt.Else.(*ast.BlockStmt); ok {
				found = f.blockLines(parsed, block)
			} else {
				found = f.span(parsed, stmt.Else)
			}
		}

		return false
	})

	return found
}

func (f *GoLocationFinder) blockLines(parsed parsedFile, block *ast.BlockStmt) []int {
	if block == nil || len(block.List) == 0 {
		return nil
	}

	first := f.line(parsed, block.List[0].Pos())
	last := parsed.fset.Position(block.List[len(block.List)-1].End()).Line

	return m.CodeRange{StartLine: first, EndLine: last}.Lines()
}

func (f *GoLocationFinder) span(parsed parsedFile, n ast.Node) []int {
	return m.CodeRange{
		StartLine: f.line(parsed, n.Pos()),
		EndLine:   parsed.fset.Position(n.End()).Line,
	}.Lines()
}

func (f *GoLocationFinder) line(parsed parsedFile, pos token.Pos) int {
	return parsed.fset.Position(pos).Line
}
