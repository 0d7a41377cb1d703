package weave

import (
	"fmt"
	"os"

	"github.com/everydev1618/goweave/ast"
	"github.com/everydev1618/goweave/parser"
	"github.com/everydev1618/goweave/semantic"
)

// Compile lexes, parses, and validates Weave source text. It returns the
// validated Program, or the first lexical/syntax error, or the complete
// semantic diagnostic batch as a *semantic.ErrorList.
//
// Compile is a pure function of its input. Compiling many files
// concurrently is safe as long as each call gets its own source string.
func Compile(src string) (*ast.Program, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	if err := semantic.NewAnalyzer().Analyze(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

// CompileFile reads and compiles a .workflow file.
func CompileFile(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Compile(string(data))
}
