// Package ast defines the node contracts the (out-of-scope) parser
// populates and the type-check driver annotates: expressions, statements,
// and class/member/function/constructor/destructor declarations (§3.3,
// §6.1). Each node carries its source location and, once type-checked,
// the binding or TypeInfo resolved into it.
package ast

import "github.com/arc-lang/ruddyc/diag"

// Node is the minimal contract every AST node satisfies: a source
// location for diagnostics.
type Node interface {
	Location() diag.Location
}

type node struct {
	Loc diag.Location
}

func (n node) Location() diag.Location { return n.Loc }
