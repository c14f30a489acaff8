// Package typecheck drives the four ordered passes (§4.3) over a parsed
// compilation unit, handing each pass to the root GlobalStatements node in
// turn so forward references across sibling classes and namespaces resolve
// cleanly before any method body is checked.
package typecheck

import (
	"github.com/pkg/errors"

	"github.com/arc-lang/ruddyc/ast"
	"github.com/arc-lang/ruddyc/symbols"
)

// passOrder is the fixed sequence of the driver's four passes (§4.3).
var passOrder = [...]symbols.Pass{
	symbols.ClassAndNamespaceDeclarations,
	symbols.ClassVariables,
	symbols.MethodDeclarations,
	symbols.MethodBodies,
}

// Run walks root through every pass in order against a fresh symbol
// table, stopping at the first error (§7's "propagation: errors are
// unrecoverable and abort the compilation").
func Run(root *ast.GlobalStatements) (*symbols.Table, error) {
	tbl := symbols.NewTable()
	if err := RunWithTable(tbl, root); err != nil {
		return nil, err
	}
	return tbl, nil
}

// RunWithTable is Run against a caller-supplied table, used when checking
// a compilation unit against bindings already registered from an imported
// library (§4.6's BindExternal* entry points populate tbl before this is
// called).
func RunWithTable(tbl *symbols.Table, root *ast.GlobalStatements) error {
	if root == nil {
		return nil
	}
	for _, pass := range passOrder {
		if err := root.TypeCheck(tbl, pass); err != nil {
			return errors.Wrapf(err, "pass %s", passName(pass))
		}
	}
	return nil
}

func passName(p symbols.Pass) string {
	switch p {
	case symbols.ClassAndNamespaceDeclarations:
		return "class-and-namespace-declarations"
	case symbols.ClassVariables:
		return "class-variables"
	case symbols.MethodDeclarations:
		return "method-declarations"
	case symbols.MethodBodies:
		return "method-bodies"
	default:
		return "unknown"
	}
}
