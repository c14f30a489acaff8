package ast

import (
	"testing"

	"github.com/arc-lang/ruddyc/diag"
	"github.com/arc-lang/ruddyc/symbols"
	"github.com/arc-lang/ruddyc/types"
)

func TestAssignmentDeclaresAutoLocal(t *testing.T) {
	tbl := symbols.NewTable()
	tbl.Enter()
	defer tbl.Exit()

	target := &DeclareVariableTarget{Loc: loc0, Name: "x"}
	lhs := &AssignFrom{This: target}
	assign := NewAssignment(loc0, lhs, NewIntegerLiteral(loc0, "7"))

	if err := assign.TypeCheck(tbl, symbols.MethodBodies); err != nil {
		t.Fatalf("TypeCheck: %v", err)
	}
	if target.Variable == nil {
		t.Fatal("expected Variable to be bound")
	}
	if target.Variable.Type != types.Int32 {
		t.Fatalf("got %v, want types.Int32 (best-fit of the literal 7)", target.Variable.Type)
	}
}

// TestAssignmentDeclaresAutoLocalWidensNegativeOutOfInt32 checks the
// other side of the best-fit rule: a negative literal outside int32's
// range widens to int64 rather than staying int32 or erroring.
func TestAssignmentDeclaresAutoLocalWidensNegativeOutOfInt32(t *testing.T) {
	tbl := symbols.NewTable()
	tbl.Enter()
	defer tbl.Exit()

	target := &DeclareVariableTarget{Loc: loc0, Name: "x"}
	lhs := &AssignFrom{This: target}
	assign := NewAssignment(loc0, lhs, NewIntegerLiteral(loc0, "-9999999999"))

	if err := assign.TypeCheck(tbl, symbols.MethodBodies); err != nil {
		t.Fatalf("TypeCheck: %v", err)
	}
	if target.Variable.Type != types.Int64 {
		t.Fatalf("got %v, want types.Int64 (best-fit of a large negative literal)", target.Variable.Type)
	}
}

func TestAssignmentArityMismatch(t *testing.T) {
	tbl := symbols.NewTable()
	tbl.Enter()
	defer tbl.Exit()

	a := &DeclareVariableTarget{Loc: loc0, Name: "a"}
	b := &DeclareVariableTarget{Loc: loc0, Name: "b"}
	lhs := &AssignFrom{This: a, Next: &AssignFrom{This: b}}
	assign := NewAssignment(loc0, lhs, NewIntegerLiteral(loc0, "1"))

	if err := assign.TypeCheck(tbl, symbols.MethodBodies); err == nil {
		t.Fatal("expected arity-mismatch error")
	}
}

func TestAssignmentDeclaredTypeRejectsMismatch(t *testing.T) {
	tbl := symbols.NewTable()
	tbl.Enter()
	defer tbl.Exit()

	target := &DeclareVariableTarget{Loc: loc0, Name: "flag", Declared: types.Bool}
	lhs := &AssignFrom{This: target}
	assign := NewAssignment(loc0, lhs, NewIntegerLiteral(loc0, "1"))

	if err := assign.TypeCheck(tbl, symbols.MethodBodies); err == nil {
		t.Fatal("expected TypeMismatch error")
	} else if de, ok := diag.As(err); !ok || de.Kind != diag.TypeMismatch {
		t.Fatalf("got %v, want TypeMismatch", err)
	}
}

// TestAssignmentDeclaredTypeRejectsOverflow exercises §8.3's value-level
// narrowing check: a literal that fits int32's family but not its range
// must raise Overflow even though IsImplicitlyAssignableFrom (a family-
// level check) alone would accept it.
func TestAssignmentDeclaredTypeRejectsOverflow(t *testing.T) {
	tbl := symbols.NewTable()
	tbl.Enter()
	defer tbl.Exit()

	target := &DeclareVariableTarget{Loc: loc0, Name: "x", Declared: types.Int32}
	lhs := &AssignFrom{This: target}
	assign := NewAssignment(loc0, lhs, NewIntegerLiteral(loc0, "2147483648"))

	if err := assign.TypeCheck(tbl, symbols.MethodBodies); err == nil {
		t.Fatal("expected Overflow error")
	} else if de, ok := diag.As(err); !ok || de.Kind != diag.Overflow {
		t.Fatalf("got %v, want Overflow", err)
	}
}

// TestReferenceTargetAssignmentRejectsTypeMismatch exercises the same
// "ensure lhs_type <- rhs_type" rule on the other AssignTarget kind:
// assigning a bool into an already-declared int32 local.
func TestReferenceTargetAssignmentRejectsTypeMismatch(t *testing.T) {
	tbl := symbols.NewTable()
	tbl.Enter()
	defer tbl.Exit()

	if _, err := tbl.BindVariable(loc0, "n", types.Int32); err != nil {
		t.Fatalf("BindVariable: %v", err)
	}
	lhs := &AssignFrom{This: &ReferenceTarget{Loc: loc0, Path: "n"}}
	assign := NewAssignment(loc0, lhs, NewBoolLiteral(loc0, true))

	if err := assign.TypeCheck(tbl, symbols.MethodBodies); err == nil {
		t.Fatal("expected TypeMismatch error")
	} else if de, ok := diag.As(err); !ok || de.Kind != diag.TypeMismatch {
		t.Fatalf("got %v, want TypeMismatch", err)
	}
}

// TestReferenceTargetAssignmentRejectsOverflow mirrors
// TestAssignmentDeclaredTypeRejectsOverflow for an assignment into an
// already-bound local rather than a fresh declaration.
func TestReferenceTargetAssignmentRejectsOverflow(t *testing.T) {
	tbl := symbols.NewTable()
	tbl.Enter()
	defer tbl.Exit()

	if _, err := tbl.BindVariable(loc0, "n", types.Int32); err != nil {
		t.Fatalf("BindVariable: %v", err)
	}
	lhs := &AssignFrom{This: &ReferenceTarget{Loc: loc0, Path: "n"}}
	assign := NewAssignment(loc0, lhs, NewIntegerLiteral(loc0, "2147483648"))

	if err := assign.TypeCheck(tbl, symbols.MethodBodies); err == nil {
		t.Fatal("expected Overflow error")
	} else if de, ok := diag.As(err); !ok || de.Kind != diag.Overflow {
		t.Fatalf("got %v, want Overflow", err)
	}
}

func TestIfStatementRejectsNonBoolCondition(t *testing.T) {
	tbl := symbols.NewTable()
	ifStmt := NewIfStatement(loc0, NewIntegerLiteral(loc0, "1"), NewExpressionAsStatement(loc0, NewIntegerLiteral(loc0, "1")), nil)
	if err := ifStmt.TypeCheck(tbl, symbols.MethodBodies); err == nil {
		t.Fatal("expected TypeMismatch for non-bool condition")
	}
}

func TestIfStatementAcceptsBoolCondition(t *testing.T) {
	tbl := symbols.NewTable()
	ifStmt := NewIfStatement(loc0, NewBoolLiteral(loc0, true), NewExpressionAsStatement(loc0, NewIntegerLiteral(loc0, "1")), nil)
	if err := ifStmt.TypeCheck(tbl, symbols.MethodBodies); err != nil {
		t.Fatalf("TypeCheck: %v", err)
	}
}

func TestBreakOutsideLoopFails(t *testing.T) {
	tbl := symbols.NewTable()
	brk := NewBreakStatement(loc0)
	if err := brk.TypeCheck(tbl, symbols.MethodBodies); err == nil {
		t.Fatal("expected BreakInWrongPlace error")
	} else if de, ok := diag.As(err); !ok || de.Kind != diag.BreakInWrongPlace {
		t.Fatalf("got %v, want BreakInWrongPlace", err)
	}
}

func TestWhileStatementBindsAndExitsLoop(t *testing.T) {
	tbl := symbols.NewTable()
	body := NewLineStatements(loc0, NewBreakStatement(loc0), nil)
	while := NewWhileStatement(loc0, NewBoolLiteral(loc0, true), body)
	if err := while.TypeCheck(tbl, symbols.MethodBodies); err != nil {
		t.Fatalf("TypeCheck: %v", err)
	}
	// The loop scope must be fully unwound: a break issued after the loop
	// has exited should fail again.
	brk := NewBreakStatement(loc0)
	if err := brk.TypeCheck(tbl, symbols.MethodBodies); err == nil {
		t.Fatal("expected loop stack to be empty after WhileStatement.TypeCheck returns")
	}
}

func TestScopedStatementsCollectsValueClassDestructorsInReverseOrder(t *testing.T) {
	tbl := symbols.NewTable()
	decl := &types.ClassDeclarationType{ClassName: "V", FullyQualifiedName: "V"}
	valueType := &types.ClassType{Decl: decl, IsValueType: true}

	declareA := &DeclareVariableTarget{Loc: loc0, Name: "a", Declared: valueType}
	declareB := &DeclareVariableTarget{Loc: loc0, Name: "b", Declared: valueType}

	body := NewLineStatements(loc0,
		NewAssignment(loc0, &AssignFrom{This: declareA}, newFixedExpr(valueType)),
		NewLineStatements(loc0,
			NewAssignment(loc0, &AssignFrom{This: declareB}, newFixedExpr(valueType)),
			nil))

	scoped := NewScopedStatements(loc0, body)
	if err := scoped.TypeCheck(tbl, symbols.MethodBodies); err != nil {
		t.Fatalf("TypeCheck: %v", err)
	}
	if len(scoped.Destructors) != 2 {
		t.Fatalf("got %d destructors, want 2", len(scoped.Destructors))
	}
	if scoped.Destructors[0].BindingName() != "b" || scoped.Destructors[1].BindingName() != "a" {
		t.Fatalf("destructor order = [%s, %s], want [b, a]",
			scoped.Destructors[0].BindingName(), scoped.Destructors[1].BindingName())
	}
}

func TestUnsafeStatementsOpensUnsafeContext(t *testing.T) {
	tbl := symbols.NewTable()
	arr := &types.UnsafeArrayType{Element: types.Int32}
	idx := NewIndexOperation(loc0, newFixedExpr(arr), NewIntegerLiteral(loc0, "0"))
	body := NewLineStatements(loc0, NewExpressionAsStatement(loc0, idx), nil)
	unsafeBlock := NewUnsafeStatements(loc0, body)
	if err := unsafeBlock.TypeCheck(tbl, symbols.MethodBodies); err != nil {
		t.Fatalf("TypeCheck: %v", err)
	}
	if tbl.InUnsafeContext() {
		t.Fatal("unsafe depth should be unwound after the block")
	}
}
