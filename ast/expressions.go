package ast

import (
	"github.com/arc-lang/ruddyc/diag"
	"github.com/arc-lang/ruddyc/symbols"
	"github.com/arc-lang/ruddyc/types"
)

// Expr is the contract every expression node satisfies. Evaluate is
// memoizing (§4.3): once a node has resolved its type, repeat calls return
// the cached result instead of re-walking the symbol table.
type Expr interface {
	Node
	Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error)
	Resolved() (types.TypeInfo, bool)
}

type exprBase struct {
	node
	resolved types.TypeInfo
}

func (e *exprBase) Resolved() (types.TypeInfo, bool) { return e.resolved, e.resolved != nil }

// Reference is an identifier or dotted path (§4.3).
type Reference struct {
	exprBase
	Path    string
	Binding symbols.Binding
}

func NewReference(loc diag.Location, path string) *Reference {
	return &Reference{exprBase: exprBase{node: node{Loc: loc}}, Path: path}
}

func (r *Reference) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if r.resolved != nil {
		return r.resolved, nil
	}
	b, err := tbl.Lookup(r.Loc, r.Path)
	if err != nil {
		return nil, err
	}
	if mi, ok := b.(*symbols.MemberInstance); ok {
		if mi.Receiver == nil {
			return nil, diag.New(diag.NonStaticMemberFromStaticContext, r.Loc, r.Path)
		}
		if inInitializerList {
			if ctor, ok := currentConstructor(tbl); ok && !ctor.InitializedMembers[mi.Member.BindingName()] {
				return nil, diag.New(diag.UninitializedVariableReferenced, r.Loc, mi.Member.BindingName())
			}
		}
	}
	ty, err := bindingType(r.Loc, b)
	if err != nil {
		return nil, err
	}
	r.Binding = b
	r.resolved = ty
	return ty, nil
}

func currentConstructor(tbl *symbols.Table) (*symbols.ConstructorBinding, bool) {
	fn, ok := tbl.CurrentFunction()
	if !ok {
		return nil, false
	}
	ctor, ok := fn.(*symbols.ConstructorBinding)
	return ctor, ok
}

func bindingType(loc diag.Location, b symbols.Binding) (types.TypeInfo, error) {
	switch v := b.(type) {
	case *symbols.VariableBinding:
		return v.Type, nil
	case *symbols.MemberInstance:
		return v.Member.Type, nil
	case *symbols.FunctionInstance:
		return v.Func.Sig, nil
	case *symbols.OverloadedFunctionInstance:
		return nil, diag.New(diag.SymbolWrongType, loc, b.BindingName())
	case *symbols.FunctionBinding:
		return v.Sig, nil
	case *symbols.ClassBinding:
		return v.Decl, nil
	default:
		return nil, diag.New(diag.SymbolWrongType, loc, b.BindingName())
	}
}

// ExpressionList is a comma-separated list of expressions, evaluated into
// a CompositeType left-to-right (§4.3).
type ExpressionList struct {
	exprBase
	Left, Right Expr
}

func NewExpressionList(loc diag.Location, left, right Expr) *ExpressionList {
	return &ExpressionList{exprBase: exprBase{node: node{Loc: loc}}, Left: left, Right: right}
}

func (e *ExpressionList) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	leftType, err := e.Left.Evaluate(tbl, inInitializerList)
	if err != nil {
		return nil, err
	}
	if e.Right == nil {
		e.resolved = leftType
		return leftType, nil
	}
	rightType, err := e.Right.Evaluate(tbl, inInitializerList)
	if err != nil {
		return nil, err
	}
	e.resolved = types.AppendComposite(leftType, rightType)
	return e.resolved, nil
}

// NewExpression is `new C(args)` (§4.3): resolves the class, overload-
// resolves its constructor list, and yields a reference-form ClassType.
type NewExpression struct {
	exprBase
	ClassName string
	Args      Expr // nil for a no-arg call

	Ctor *symbols.ConstructorBinding
}

func NewNewExpression(loc diag.Location, className string, args Expr) *NewExpression {
	return &NewExpression{exprBase: exprBase{node: node{Loc: loc}}, ClassName: className, Args: args}
}

func (e *NewExpression) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	cb, err := resolveClass(tbl, e.Loc, e.ClassName)
	if err != nil {
		return nil, err
	}
	argType, err := evaluateOptional(e.Args, tbl, inInitializerList)
	if err != nil {
		return nil, err
	}
	ctor, err := resolveConstructorOverload(e.Loc, cb, argType)
	if err != nil {
		return nil, err
	}
	e.Ctor = ctor
	e.resolved = &types.ClassType{Decl: cb.Decl, IsValueType: false}
	return e.resolved, nil
}

// StackConstructionExpression is `new C varName(args)` form (§4.3): like
// NewExpression but value-typed, and it additionally binds varName as a
// local of the constructed value type.
type StackConstructionExpression struct {
	exprBase
	ClassName string
	VarName   string
	Args      Expr

	Ctor     *symbols.ConstructorBinding
	Variable *symbols.VariableBinding
}

func NewStackConstructionExpression(loc diag.Location, className, varName string, args Expr) *StackConstructionExpression {
	return &StackConstructionExpression{exprBase: exprBase{node: node{Loc: loc}}, ClassName: className, VarName: varName, Args: args}
}

func (e *StackConstructionExpression) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	cb, err := resolveClass(tbl, e.Loc, e.ClassName)
	if err != nil {
		return nil, err
	}
	argType, err := evaluateOptional(e.Args, tbl, inInitializerList)
	if err != nil {
		return nil, err
	}
	ctor, err := resolveConstructorOverload(e.Loc, cb, argType)
	if err != nil {
		return nil, err
	}
	valueType := &types.ClassType{Decl: cb.Decl, IsValueType: true}
	vb, err := tbl.BindVariable(e.Loc, e.VarName, valueType)
	if err != nil {
		return nil, err
	}
	e.Ctor = ctor
	e.Variable = vb
	e.resolved = valueType
	return e.resolved, nil
}

func resolveClass(tbl *symbols.Table, loc diag.Location, name string) (*symbols.ClassBinding, error) {
	b, err := tbl.Lookup(loc, name)
	if err != nil {
		return nil, err
	}
	cb, ok := b.(*symbols.ClassBinding)
	if !ok {
		return nil, diag.New(diag.SymbolWrongType, loc, name)
	}
	return cb, nil
}

func evaluateOptional(e Expr, tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e == nil {
		return nil, nil
	}
	return e.Evaluate(tbl, inInitializerList)
}

func resolveConstructorOverload(loc diag.Location, cb *symbols.ClassBinding, argType types.TypeInfo) (*symbols.ConstructorBinding, error) {
	for _, ctor := range cb.Ctors {
		if acceptsArgs(ctor.Sig.Input, argType) {
			return ctor, nil
		}
	}
	return nil, diag.New(diag.NoMatchingFunctionSignature, loc, cb.BindingName())
}

// acceptsArgs reports whether a (possibly nil, no-arg) declared input
// composite implicitly accepts the (possibly nil) argument composite.
func acceptsArgs(input, args types.TypeInfo) bool {
	if input == nil {
		return args == nil
	}
	if args == nil {
		return false
	}
	return input.IsImplicitlyAssignableFrom(args)
}

// FunctionCall is `callee(args)` (§4.3): resolves the callee reference
// (possibly overloaded), picks the matching overload, and returns its
// output composite.
type FunctionCall struct {
	exprBase
	Callee Expr // a Reference whose Evaluate yields a FunctionInstance-shaped binding
	Args   Expr

	Chosen   *symbols.FunctionBinding
	Receiver symbols.Binding
}

func NewFunctionCall(loc diag.Location, callee, args Expr) *FunctionCall {
	return &FunctionCall{exprBase: exprBase{node: node{Loc: loc}}, Callee: callee, Args: args}
}

func (e *FunctionCall) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	ref, ok := e.Callee.(*Reference)
	if !ok {
		return nil, diag.New(diag.SymbolWrongType, e.Loc, "call target")
	}
	b, err := tbl.Lookup(ref.Loc, ref.Path)
	if err != nil {
		return nil, err
	}
	argType, err := evaluateOptional(e.Args, tbl, inInitializerList)
	if err != nil {
		return nil, err
	}

	var candidates []*symbols.FunctionBinding
	var receiver symbols.Binding
	switch v := b.(type) {
	case *symbols.FunctionInstance:
		candidates = []*symbols.FunctionBinding{v.Func}
		receiver = v.Receiver
	case *symbols.OverloadedFunctionInstance:
		candidates = v.Overloads
		receiver = v.Receiver
	default:
		return nil, diag.New(diag.SymbolWrongType, e.Loc, ref.Path)
	}
	if receiver == nil && candidates[0].IsMethod() {
		return nil, diag.New(diag.NonStaticMemberFromStaticContext, e.Loc, ref.Path)
	}

	for _, cand := range candidates {
		if acceptsArgs(cand.Sig.Input, argType) {
			e.Chosen = cand
			e.Receiver = receiver
			e.resolved = outputOf(cand.Sig.Output)
			return e.resolved, nil
		}
	}
	return nil, diag.New(diag.NoMatchingFunctionSignature, e.Loc, ref.Path)
}

func outputOf(out types.TypeInfo) types.TypeInfo {
	if out == nil {
		// No declared return composite; the driver treats this as "no
		// value", represented the same way a zero-arg input is.
		return nil
	}
	return out
}

// IntegerLiteral, FloatingLiteral, BoolLiteral, CharLiteral, and
// StringLiteral wrap the parser's raw token text; parsing into a concrete
// constant TypeInfo (with overflow detection, §4.5) happens on first
// Evaluate, same as every other memoizing Expr.
type IntegerLiteral struct {
	exprBase
	Text string
}

func NewIntegerLiteral(loc diag.Location, text string) *IntegerLiteral {
	return &IntegerLiteral{exprBase: exprBase{node: node{Loc: loc}}, Text: text}
}

func (e *IntegerLiteral) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	c, err := types.ParseIntegerLiteral(e.Text)
	if err != nil {
		return nil, diag.Newf(diag.Overflow, e.Loc, e.Text, "%v", err)
	}
	e.resolved = c
	return c, nil
}

type FloatingLiteral struct {
	exprBase
	Text string
}

func NewFloatingLiteral(loc diag.Location, text string) *FloatingLiteral {
	return &FloatingLiteral{exprBase: exprBase{node: node{Loc: loc}}, Text: text}
}

func (e *FloatingLiteral) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	c, err := types.ParseFloatingLiteral(e.Text)
	if err != nil {
		return nil, diag.Newf(diag.Overflow, e.Loc, e.Text, "%v", err)
	}
	e.resolved = c
	return c, nil
}

type BoolLiteral struct {
	exprBase
	Value bool
}

func NewBoolLiteral(loc diag.Location, value bool) *BoolLiteral {
	return &BoolLiteral{exprBase: exprBase{node: node{Loc: loc}}, Value: value}
}

func (e *BoolLiteral) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved == nil {
		e.resolved = &types.BoolConstant{Value: e.Value}
	}
	return e.resolved, nil
}

type CharLiteral struct {
	exprBase
	Body string // literal body without surrounding quotes
}

func NewCharLiteral(loc diag.Location, body string) *CharLiteral {
	return &CharLiteral{exprBase: exprBase{node: node{Loc: loc}}, Body: body}
}

func (e *CharLiteral) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	c, err := types.ParseCharLiteral(e.Body)
	if err != nil {
		return nil, diag.Newf(diag.UnknownControlCharacter, e.Loc, e.Body, "%v", err)
	}
	e.resolved = c
	return c, nil
}

type StringLiteral struct {
	exprBase
	Value string
}

func NewStringLiteral(loc diag.Location, value string) *StringLiteral {
	return &StringLiteral{exprBase: exprBase{node: node{Loc: loc}}, Value: value}
}

func (e *StringLiteral) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved == nil {
		e.resolved = &types.StringConstant{Value: e.Value}
	}
	return e.resolved, nil
}

// BinaryOperation and UnaryOperation delegate resolution to
// types.EvaluateBinary/EvaluateUnary (§4.2), storing the implicit-cast
// type alongside the result for the (out-of-scope) IR emitter to consult.
type BinaryOperation struct {
	exprBase
	Op          types.Operator
	Left, Right Expr

	ImplicitCast types.TypeInfo
}

func NewBinaryOperation(loc diag.Location, op types.Operator, left, right Expr) *BinaryOperation {
	return &BinaryOperation{exprBase: exprBase{node: node{Loc: loc}}, Op: op, Left: left, Right: right}
}

func (e *BinaryOperation) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	lt, err := e.Left.Evaluate(tbl, inInitializerList)
	if err != nil {
		return nil, err
	}
	rt, err := e.Right.Evaluate(tbl, inInitializerList)
	if err != nil {
		return nil, err
	}
	result, cast, err := types.EvaluateBinary(e.Op, lt, rt)
	if err != nil {
		return nil, diag.Newf(diag.OperationNotDefined, e.Loc, "", "%v", err)
	}
	e.resolved = result
	e.ImplicitCast = cast
	return result, nil
}

type UnaryOperation struct {
	exprBase
	Op       types.Operator
	Operand  Expr
	IsLValue bool
}

func NewUnaryOperation(loc diag.Location, op types.Operator, operand Expr, isLValue bool) *UnaryOperation {
	return &UnaryOperation{exprBase: exprBase{node: node{Loc: loc}}, Op: op, Operand: operand, IsLValue: isLValue}
}

func (e *UnaryOperation) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	ot, err := e.Operand.Evaluate(tbl, inInitializerList)
	if err != nil {
		return nil, err
	}
	result, err := types.EvaluateUnary(e.Op, ot, e.IsLValue)
	if err != nil {
		return nil, diag.Newf(diag.OperationNotDefined, e.Loc, "", "%v", err)
	}
	e.resolved = result
	return result, nil
}

// CastExpression is an explicit `(T)expr` cast; it validates
// representability and records the CastKind for the emitter.
type CastExpression struct {
	exprBase
	Target   types.TypeInfo
	Operand  Expr
	CastKind types.CastKind
}

func NewCastExpression(loc diag.Location, target types.TypeInfo, operand Expr) *CastExpression {
	return &CastExpression{exprBase: exprBase{node: node{Loc: loc}}, Target: target, Operand: operand}
}

func (e *CastExpression) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	ot, err := e.Operand.Evaluate(tbl, inInitializerList)
	if err != nil {
		return nil, err
	}
	capable, ok := ot.(types.CastCapable)
	if !ok {
		return nil, diag.New(diag.TypeMismatch, e.Loc, ot.Name())
	}
	kind, err := capable.CreateCastTo(e.Target)
	if err != nil {
		return nil, diag.Newf(diag.TypeMismatch, e.Loc, ot.Name(), "%v", err)
	}
	e.CastKind = kind
	e.resolved = e.Target
	return e.Target, nil
}

// IndexOperation indexes into an UnsafeArrayType; only legal inside an
// unsafe context (§4.3).
type IndexOperation struct {
	exprBase
	Base  Expr
	Index Expr
}

func NewIndexOperation(loc diag.Location, base, index Expr) *IndexOperation {
	return &IndexOperation{exprBase: exprBase{node: node{Loc: loc}}, Base: base, Index: index}
}

func (e *IndexOperation) Evaluate(tbl *symbols.Table, inInitializerList bool) (types.TypeInfo, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}
	if !tbl.InUnsafeContext() {
		return nil, diag.New(diag.CannotReferenceUnsafeMemberFromSafeContext, e.Loc, "")
	}
	baseType, err := e.Base.Evaluate(tbl, inInitializerList)
	if err != nil {
		return nil, err
	}
	arr, ok := baseType.(*types.UnsafeArrayType)
	if !ok {
		return nil, diag.New(diag.SymbolWrongType, e.Loc, baseType.Name())
	}
	indexType, err := e.Index.Evaluate(tbl, inInitializerList)
	if err != nil {
		return nil, err
	}
	if !types.Int32.IsImplicitlyAssignableFrom(indexType) && !types.Int64.IsImplicitlyAssignableFrom(indexType) {
		return nil, diag.Newf(diag.TypeMismatch, e.Loc, indexType.Name(), "array index must be an integer")
	}
	e.resolved = arr.Element
	return arr.Element, nil
}
