package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dhamidi/abnfcst/abnf"
	"github.com/dhamidi/abnfcst/grammar"
	"github.com/dhamidi/abnfcst/odata"
)

// builtinOData names the OData grammar shipped with the binary.
const builtinOData = "odata"

// loadGrammar reads a grammar, choosing the notation by file extension.
// The core ABNF rules are not included.
func loadGrammar(path string) (*grammar.Grammar, error) {
	if path == builtinOData {
		return abnf.ParseString("odata.abnf", odata.Source())
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".abnf", ".txt":
		return abnf.Load(path)
	case ".ebnf":
		return grammar.LoadEBNF(path)
	case ".yaml", ".yml":
		return grammar.LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported grammar file extension %q (expected .abnf, .ebnf, .yaml or %s)", ext, builtinOData)
	}
}

// compileGrammar loads and compiles a grammar with the core ABNF rules
// available to it.
func compileGrammar(path string) (*grammar.Compiled, error) {
	g, err := loadGrammar(path)
	if err != nil {
		return nil, err
	}
	c, err := abnf.Compile(g)
	if err != nil {
		return nil, fmt.Errorf("compile grammar: %w", err)
	}
	return c, nil
}
