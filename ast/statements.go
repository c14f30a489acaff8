package ast

import (
	"github.com/arc-lang/ruddyc/diag"
	"github.com/arc-lang/ruddyc/symbols"
	"github.com/arc-lang/ruddyc/types"
)

// Stmt is the contract every statement node satisfies. TypeCheck receives
// the active four-pass Pass so a node can no-op on passes it doesn't
// participate in (a line statement only ever runs during
// MethodBodies, but GlobalStatement-derived nodes run on every pass).
type Stmt interface {
	Node
	TypeCheck(tbl *symbols.Table, pass symbols.Pass) error
}

type stmtBase struct {
	node
}

// AssignTarget is one slot of an assignment's left-hand side (§4.3): either
// a reference to an already-bound symbol, or a fresh variable declaration.
type AssignTarget interface {
	Resolve(tbl *symbols.Table) (types.TypeInfo, error)
	Bind(tbl *symbols.Table, rhs types.TypeInfo) error
}

// ReferenceTarget assigns into an already-bound variable or member.
type ReferenceTarget struct {
	Loc  diag.Location
	Path string

	binding  symbols.Binding
	declared types.TypeInfo
}

func (r *ReferenceTarget) Resolve(tbl *symbols.Table) (types.TypeInfo, error) {
	b, err := tbl.Lookup(r.Loc, r.Path)
	if err != nil {
		return nil, err
	}
	r.binding = b
	ty, err := bindingType(r.Loc, b)
	if err != nil {
		return nil, err
	}
	r.declared = ty
	return ty, nil
}

// Bind enforces §4.3's "ensure lhs_type <- rhs_type" for an assignment
// into an already-bound symbol: family-level assignability first, then
// value-level narrowing for a constant rhs (§8.3).
func (r *ReferenceTarget) Bind(tbl *symbols.Table, rhs types.TypeInfo) error {
	if !r.declared.IsImplicitlyAssignableFrom(rhs) {
		return diag.New(diag.TypeMismatch, r.Loc, r.Path)
	}
	if err := types.CheckConstantFits(r.declared, rhs); err != nil {
		return diag.Newf(diag.Overflow, r.Loc, r.Path, "%v", err)
	}
	return nil
}

// DeclareVariableTarget introduces a new local, inferring its type from the
// right-hand side when Declared is nil (auto, §3.2).
type DeclareVariableTarget struct {
	Loc      diag.Location
	Name     string
	Declared types.TypeInfo // nil for `auto`

	Variable *symbols.VariableBinding
}

func (d *DeclareVariableTarget) Resolve(tbl *symbols.Table) (types.TypeInfo, error) {
	if d.Declared != nil {
		return d.Declared, nil
	}
	return &types.AutoTypeInfo{}, nil
}

func (d *DeclareVariableTarget) Bind(tbl *symbols.Table, rhs types.TypeInfo) error {
	declared := d.Declared
	if declared == nil {
		// auto: a primitive constant rebinds to its best-fit type rather
		// than the raw constant (§3.2 never allows a constant itself to
		// be a variable's type; §4.3/§4.5).
		declared = types.BestFitConstant(rhs)
	} else {
		if !declared.IsImplicitlyAssignableFrom(rhs) {
			return diag.New(diag.TypeMismatch, d.Loc, d.Name)
		}
		if err := types.CheckConstantFits(declared, rhs); err != nil {
			return diag.Newf(diag.Overflow, d.Loc, d.Name, "%v", err)
		}
	}
	vb, err := tbl.BindVariable(d.Loc, d.Name, declared)
	if err != nil {
		return err
	}
	d.Variable = vb
	return nil
}

// AssignFrom is a possibly-chained list of AssignTargets, mirroring the
// comma-separated left-hand side of an Assignment (§4.3).
type AssignFrom struct {
	This AssignTarget
	Next *AssignFrom
}

func (a *AssignFrom) targets() []AssignTarget {
	var out []AssignTarget
	for c := a; c != nil; c = c.Next {
		out = append(out, c.This)
	}
	return out
}

func flattenType(t types.TypeInfo) []types.TypeInfo {
	if t == nil {
		return nil
	}
	if c, ok := t.(*types.CompositeType); ok {
		return c.Flatten()
	}
	return []types.TypeInfo{t}
}

// resolveAndBind matches rhs's flattened elements positionally against the
// chain's targets, resolving each target's declared/current type first (so
// a DeclareVariableTarget can still see it had no prior type) and then
// binding it to its matched element.
func (a *AssignFrom) resolveAndBind(loc diag.Location, tbl *symbols.Table, rhs types.TypeInfo) error {
	targets := a.targets()
	rhsElems := flattenType(rhs)
	if len(targets) != len(rhsElems) {
		return diag.Newf(diag.TypeMismatch, loc, "assignment", "%d target(s), %d value(s)", len(targets), len(rhsElems))
	}
	for i, target := range targets {
		if _, err := target.Resolve(tbl); err != nil {
			return err
		}
		if err := target.Bind(tbl, rhsElems[i]); err != nil {
			return err
		}
	}
	return nil
}

// Assignment is `lhs = rhs;` (§4.3): declares and/or assigns the targets in
// lhs from rhs's (possibly multi-valued) result.
type Assignment struct {
	stmtBase
	Lhs *AssignFrom
	Rhs Expr
}

func NewAssignment(loc diag.Location, lhs *AssignFrom, rhs Expr) *Assignment {
	return &Assignment{stmtBase: stmtBase{node{Loc: loc}}, Lhs: lhs, Rhs: rhs}
}

func (s *Assignment) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	if pass != symbols.MethodBodies {
		return nil
	}
	rhsType, err := s.Rhs.Evaluate(tbl, inInitializerContext(tbl))
	if err != nil {
		return err
	}
	return s.Lhs.resolveAndBind(s.Loc, tbl, rhsType)
}

// inInitializerContext reports whether the current function is a
// constructor whose initializer list is still being checked (§4.4);
// Reference.Evaluate uses this to enforce UninitializedVariableReferenced.
func inInitializerContext(tbl *symbols.Table) bool {
	_, ok := currentConstructor(tbl)
	return ok
}

// IfStatement is `if (cond) stmt [else elseStmt]` (§4.3).
type IfStatement struct {
	stmtBase
	Condition Expr
	Then      Stmt
	Else      Stmt // nil if absent
}

func NewIfStatement(loc diag.Location, cond Expr, then, els Stmt) *IfStatement {
	return &IfStatement{stmtBase: stmtBase{node{Loc: loc}}, Condition: cond, Then: then, Else: els}
}

func (s *IfStatement) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	if pass != symbols.MethodBodies {
		return nil
	}
	condType, err := s.Condition.Evaluate(tbl, false)
	if err != nil {
		return err
	}
	if !types.Bool.IsImplicitlyAssignableFrom(condType) {
		return diag.New(diag.TypeMismatch, s.Loc, "if condition")
	}
	if err := s.Then.TypeCheck(tbl, pass); err != nil {
		return err
	}
	if s.Else != nil {
		return s.Else.TypeCheck(tbl, pass)
	}
	return nil
}

// WhileStatement is `while (cond) stmt` (§4.3); its body is a loop scope
// for break/continue purposes (§4.4).
type WhileStatement struct {
	stmtBase
	Condition Expr
	Body      Stmt
}

func NewWhileStatement(loc diag.Location, cond Expr, body Stmt) *WhileStatement {
	return &WhileStatement{stmtBase: stmtBase{node{Loc: loc}}, Condition: cond, Body: body}
}

func (s *WhileStatement) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	if pass != symbols.MethodBodies {
		return nil
	}
	condType, err := s.Condition.Evaluate(tbl, false)
	if err != nil {
		return err
	}
	if !types.Bool.IsImplicitlyAssignableFrom(condType) {
		return diag.New(diag.TypeMismatch, s.Loc, "while condition")
	}
	tbl.BindLoop()
	if err := s.Body.TypeCheck(tbl, pass); err != nil {
		tbl.ExitLoop()
		return err
	}
	tbl.ExitLoop()
	return nil
}

// BreakStatement is `break;` (§4.4); it records the destructor calls owed
// on the way out of every enclosing scope up to (and not past) the loop.
type BreakStatement struct {
	stmtBase
	Destructors []*symbols.VariableBinding
}

func NewBreakStatement(loc diag.Location) *BreakStatement {
	return &BreakStatement{stmtBase: stmtBase{node{Loc: loc}}}
}

func (s *BreakStatement) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	if pass != symbols.MethodBodies {
		return nil
	}
	dtors, err := tbl.BreakFromCurrentLoop(s.Loc)
	if err != nil {
		return err
	}
	s.Destructors = dtors
	return nil
}

// ContinueStatement is `continue;` (§4.4), the continue-side counterpart
// of BreakStatement (SPEC_FULL.md §C.5).
type ContinueStatement struct {
	stmtBase
	Destructors []*symbols.VariableBinding
}

func NewContinueStatement(loc diag.Location) *ContinueStatement {
	return &ContinueStatement{stmtBase: stmtBase{node{Loc: loc}}}
}

func (s *ContinueStatement) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	if pass != symbols.MethodBodies {
		return nil
	}
	dtors, err := tbl.ContinueFromCurrentLoop(s.Loc)
	if err != nil {
		return err
	}
	s.Destructors = dtors
	return nil
}

// ReturnStatement is `return [expr];` (§4.3, §4.4).
type ReturnStatement struct {
	stmtBase
	Value       Expr // nil for a bare `return;`
	Destructors []*symbols.VariableBinding
}

func NewReturnStatement(loc diag.Location, value Expr) *ReturnStatement {
	return &ReturnStatement{stmtBase: stmtBase{node{Loc: loc}}, Value: value}
}

func (s *ReturnStatement) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	if pass != symbols.MethodBodies {
		return nil
	}
	fn, ok := tbl.CurrentFunction()
	if !ok {
		return diag.New(diag.ReturnStatementMustBeDeclaredInFunctionScope, s.Loc, "")
	}
	sig, err := functionSignature(s.Loc, fn)
	if err != nil {
		return err
	}
	var valueType types.TypeInfo
	if s.Value != nil {
		valueType, err = s.Value.Evaluate(tbl, false)
		if err != nil {
			return err
		}
	}
	if !acceptsArgs(sig.Output, valueType) {
		return diag.New(diag.TypeMismatch, s.Loc, "return value")
	}
	dtors, err := tbl.ReturnFromCurrentFunction(s.Loc)
	if err != nil {
		return err
	}
	s.Destructors = dtors
	return nil
}

func functionSignature(loc diag.Location, b symbols.Binding) (*types.FunctionType, error) {
	switch v := b.(type) {
	case *symbols.FunctionBinding:
		return v.Sig, nil
	case *symbols.ConstructorBinding:
		return v.Sig, nil
	case *symbols.DestructorBinding:
		return v.Sig, nil
	default:
		return nil, diag.New(diag.SymbolWrongType, loc, b.BindingName())
	}
}

// ScopedStatements is `{ ... }` (§4.1): opens a scope, type-checks its
// body, and closes it, recording the destructor calls owed at the closing
// brace in declaration-reverse order (§4.4).
type ScopedStatements struct {
	stmtBase
	Body        Stmt // typically a *LineStatements chain, possibly nil (empty block)
	Destructors []*symbols.VariableBinding
}

func NewScopedStatements(loc diag.Location, body Stmt) *ScopedStatements {
	return &ScopedStatements{stmtBase: stmtBase{node{Loc: loc}}, Body: body}
}

func (s *ScopedStatements) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	if pass != symbols.MethodBodies {
		return nil
	}
	tbl.Enter()
	if s.Body != nil {
		if err := s.Body.TypeCheck(tbl, pass); err != nil {
			tbl.Exit()
			return err
		}
	}
	s.Destructors = tbl.Exit()
	return nil
}

// UnsafeStatements is `unsafe { ... }` (§4.3): the only place
// IndexOperation over an UnsafeArrayType is legal.
type UnsafeStatements struct {
	stmtBase
	Body Stmt
}

func NewUnsafeStatements(loc diag.Location, body Stmt) *UnsafeStatements {
	return &UnsafeStatements{stmtBase: stmtBase{node{Loc: loc}}, Body: body}
}

func (s *UnsafeStatements) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	if pass != symbols.MethodBodies {
		return nil
	}
	tbl.EnterUnsafe()
	defer tbl.ExitUnsafe()
	if s.Body == nil {
		return nil
	}
	return s.Body.TypeCheck(tbl, pass)
}

// ExpressionAsStatement is a bare expression used for its side effects
// (typically a FunctionCall), its result discarded (§4.3).
type ExpressionAsStatement struct {
	stmtBase
	Expr Expr
}

func NewExpressionAsStatement(loc diag.Location, expr Expr) *ExpressionAsStatement {
	return &ExpressionAsStatement{stmtBase: stmtBase{node{Loc: loc}}, Expr: expr}
}

func (s *ExpressionAsStatement) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	if pass != symbols.MethodBodies {
		return nil
	}
	_, err := s.Expr.Evaluate(tbl, inInitializerContext(tbl))
	return err
}

// LineStatements is a singly-linked list of statements inside a function
// body, walked in order (§4.1).
type LineStatements struct {
	stmtBase
	Stmt Stmt
	Next *LineStatements // nil at the end of the list
}

func NewLineStatements(loc diag.Location, stmt Stmt, next *LineStatements) *LineStatements {
	return &LineStatements{stmtBase: stmtBase{node{Loc: loc}}, Stmt: stmt, Next: next}
}

func (s *LineStatements) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	for c := s; c != nil; c = c.Next {
		if err := c.Stmt.TypeCheck(tbl, pass); err != nil {
			return err
		}
	}
	return nil
}
