package ast

import (
	"github.com/arc-lang/ruddyc/diag"
	"github.com/arc-lang/ruddyc/symbols"
	"github.com/arc-lang/ruddyc/types"
)

// GlobalStatements is the top-level list threading every namespace and
// class declaration in a compilation unit, walked once per pass (§4.3).
type GlobalStatements struct {
	stmtBase
	Stmt Stmt
	Next *GlobalStatements
}

func NewGlobalStatements(loc diag.Location, stmt Stmt, next *GlobalStatements) *GlobalStatements {
	return &GlobalStatements{stmtBase: stmtBase{node{Loc: loc}}, Stmt: stmt, Next: next}
}

func (s *GlobalStatements) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	for c := s; c != nil; c = c.Next {
		if err := c.Stmt.TypeCheck(tbl, pass); err != nil {
			return err
		}
	}
	return nil
}

// NamespaceDeclaration opens a named scope around a nested
// GlobalStatements list (§4.1).
type NamespaceDeclaration struct {
	stmtBase
	Name  string
	Body  *GlobalStatements
}

func NewNamespaceDeclaration(loc diag.Location, name string, body *GlobalStatements) *NamespaceDeclaration {
	return &NamespaceDeclaration{stmtBase: stmtBase{node{Loc: loc}}, Name: name, Body: body}
}

func (s *NamespaceDeclaration) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	tbl.BindNamespace(s.Name)
	if s.Body != nil {
		if err := s.Body.TypeCheck(tbl, pass); err != nil {
			tbl.ExitNamespace()
			return err
		}
	}
	tbl.ExitNamespace()
	return nil
}

// Argument is one declared parameter or named return slot (§3.3).
type Argument struct {
	Loc  diag.Location
	Type types.TypeInfo
	Name string
}

// ArgumentList composite-builds its declared types in order and, on
// MethodBodies, binds each as a local (method parameters become
// visible starting with the body-checking pass).
type ArgumentList struct {
	Arg  Argument
	Next *ArgumentList
}

func (a *ArgumentList) compositeType() types.TypeInfo {
	if a == nil {
		return nil
	}
	elems := make([]types.TypeInfo, 0, 4)
	for c := a; c != nil; c = c.Next {
		elems = append(elems, c.Arg.Type)
	}
	return types.NewComposite(elems...)
}

func (a *ArgumentList) bindAll(tbl *symbols.Table) error {
	for c := a; c != nil; c = c.Next {
		if _, err := tbl.BindVariable(c.Arg.Loc, c.Arg.Name, c.Arg.Type); err != nil {
			return err
		}
	}
	return nil
}

// resolveTypes replaces every still-unresolved UnresolvedClassType in the
// list with its concrete ClassType, in place (§4.1/§4.3 — forward class
// references are legal in argument/return position, resolved no later
// than MethodDeclarations).
func (a *ArgumentList) resolveTypes(tbl *symbols.Table) error {
	for c := a; c != nil; c = c.Next {
		resolved, err := resolveType(tbl, c.Arg.Loc, c.Arg.Type)
		if err != nil {
			return err
		}
		c.Arg.Type = resolved
	}
	return nil
}

// bindThis binds the implicit `this` local at the top of a non-static
// method/constructor/destructor body (original_source/Ast/Classes.h's
// FunctionDeclaration::_thisPtrBinding), so a bare member reference or an
// explicit `this.Field` resolves to a non-nil receiver instead of tripping
// NonStaticMemberFromStaticContext.
func bindThis(tbl *symbols.Table) error {
	cb, ok := tbl.CurrentClass()
	if !ok {
		return nil
	}
	_, err := tbl.BindVariable(diag.Synthesized, "this", &types.ClassType{Decl: cb.Decl, IsValueType: false})
	return err
}

// resolveType resolves ty if it is an UnresolvedClassType, caching the
// result on the node exactly once (§4.1's forward-reference contract);
// any other TypeInfo passes through unchanged.
func resolveType(tbl *symbols.Table, loc diag.Location, ty types.TypeInfo) (types.TypeInfo, error) {
	uct, ok := ty.(*types.UnresolvedClassType)
	if !ok {
		return ty, nil
	}
	if resolved, ok := uct.Resolved(); ok {
		return resolved, nil
	}
	b, err := tbl.Lookup(loc, uct.ClassName)
	if err != nil {
		return nil, err
	}
	cb, ok := b.(*symbols.ClassBinding)
	if !ok {
		return nil, diag.New(diag.SymbolWrongType, loc, uct.ClassName)
	}
	resolved := &types.ClassType{Decl: cb.Decl, IsValueType: uct.IsValueType}
	uct.CacheResolution(resolved)
	return resolved, nil
}

// MemberVariableDeclaration is a class field declaration (§3.3); bound
// during ClassVariables, the second pass.
type MemberVariableDeclaration struct {
	stmtBase
	Visibility symbols.Visibility
	Mods       types.Modifiers
	Type       types.TypeInfo
	Name       string

	Binding *symbols.MemberBinding
}

func NewMemberVariableDeclaration(loc diag.Location, vis symbols.Visibility, mods types.Modifiers, ty types.TypeInfo, name string) *MemberVariableDeclaration {
	return &MemberVariableDeclaration{stmtBase: stmtBase{node{Loc: loc}}, Visibility: vis, Mods: mods, Type: ty, Name: name}
}

func (s *MemberVariableDeclaration) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	if pass != symbols.ClassVariables {
		return nil
	}
	resolved, err := resolveType(tbl, s.Loc, s.Type)
	if err != nil {
		return err
	}
	s.Type = resolved
	mb, err := tbl.BindMemberVariable(s.Loc, s.Name, s.Visibility, s.Mods, s.Type)
	if err != nil {
		return err
	}
	s.Binding = mb
	return nil
}

// ClassDeclaration is `class C { ... }` (§3.3); every member statement
// inside Body runs through all four passes alongside it, so a method body
// referencing a sibling class declared later in the file still resolves
// (forward references, §4.1).
type ClassDeclaration struct {
	stmtBase
	Visibility symbols.Visibility
	Name       string
	Body       []Stmt

	Binding *symbols.ClassBinding
}

func NewClassDeclaration(loc diag.Location, vis symbols.Visibility, name string, body []Stmt) *ClassDeclaration {
	return &ClassDeclaration{stmtBase: stmtBase{node{Loc: loc}}, Visibility: vis, Name: name, Body: body}
}

func (s *ClassDeclaration) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	cb, err := tbl.BindClass(s.Loc, s.Name, s.Visibility, pass)
	if err != nil {
		return err
	}
	s.Binding = cb
	for _, member := range s.Body {
		if err := member.TypeCheck(tbl, pass); err != nil {
			tbl.ExitClass()
			return err
		}
	}
	if pass == symbols.MethodDeclarations {
		if err := s.synthesizeMissingMembers(tbl, cb); err != nil {
			tbl.ExitClass()
			return err
		}
	}
	tbl.ExitClass()
	return nil
}

// synthesizeMissingMembers implements §4.3's synthesis rule: a class with
// no user-declared constructor gets `public C() {}`, and a class with no
// destructor gets `~C() {}`. Both are appended to Body (as if declared
// last) so the MethodBodies pass walks and binds their (empty) bodies the
// same way it would a source-declared one.
func (s *ClassDeclaration) synthesizeMissingMembers(tbl *symbols.Table, cb *symbols.ClassBinding) error {
	if len(cb.Ctors) == 0 {
		ctor := NewConstructorDeclaration(diag.Synthesized, symbols.Public, nil, nil, nil)
		if err := ctor.TypeCheck(tbl, symbols.MethodDeclarations); err != nil {
			return err
		}
		s.Body = append(s.Body, ctor)
	}
	if cb.Dtor == nil {
		dtor := NewDestructorDeclaration(diag.Synthesized, nil)
		if err := dtor.TypeCheck(tbl, symbols.MethodDeclarations); err != nil {
			return err
		}
		s.Body = append(s.Body, dtor)
	}
	return nil
}

// FunctionDeclaration is a method (§3.3); its return/input argument
// composites are computed once, during MethodDeclarations, and its body
// is only walked during MethodBodies.
type FunctionDeclaration struct {
	stmtBase
	Visibility symbols.Visibility
	Mods       types.Modifiers
	Name       string
	ReturnArgs *ArgumentList
	InputArgs  *ArgumentList
	Body       Stmt

	Binding *symbols.FunctionBinding
}

func NewFunctionDeclaration(loc diag.Location, vis symbols.Visibility, mods types.Modifiers, name string, returnArgs, inputArgs *ArgumentList, body Stmt) *FunctionDeclaration {
	return &FunctionDeclaration{
		stmtBase: stmtBase{node{Loc: loc}}, Visibility: vis, Mods: mods, Name: name,
		ReturnArgs: returnArgs, InputArgs: inputArgs, Body: body,
	}
}

func (s *FunctionDeclaration) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	switch pass {
	case symbols.MethodDeclarations:
		if err := s.InputArgs.resolveTypes(tbl); err != nil {
			return err
		}
		if err := s.ReturnArgs.resolveTypes(tbl); err != nil {
			return err
		}
		sig := &types.FunctionType{
			FuncName: s.Name,
			Input:    s.InputArgs.compositeType(),
			Output:   s.ReturnArgs.compositeType(),
			Mods:     s.Mods,
		}
		fb, err := tbl.BindFunction(s.Loc, s.Name, s.Visibility, sig)
		if err != nil {
			return err
		}
		s.Binding = fb
	case symbols.MethodBodies:
		if s.Body == nil {
			return nil
		}
		tbl.EnterFunctionBody(s.Binding)
		if s.Binding.IsMethod() {
			if err := bindThis(tbl); err != nil {
				tbl.ExitFunctionBody()
				return err
			}
		}
		if err := s.InputArgs.bindAll(tbl); err != nil {
			tbl.ExitFunctionBody()
			return err
		}
		if err := s.Body.TypeCheck(tbl, pass); err != nil {
			tbl.ExitFunctionBody()
			return err
		}
		tbl.ExitFunctionBody()
	}
	return nil
}

// Initializer is one `name(expr)` slot of a constructor's initializer
// list (§4.4). It has no methods of its own: ConstructorDeclaration's
// checkInitializers checks that the member's declared type accepts the
// expression and marks the member as covered.
type Initializer struct {
	Loc  diag.Location
	Name string
	Expr Expr
}

// InitializerList threads Initializer entries in source order (§4.4).
type InitializerList struct {
	This *Initializer
	Next *InitializerList
}

// ConstructorDeclaration is `C(args) : m1(e1), m2(e2) { body }` (§4.4).
// Its initializer list is checked member-by-member before the body, with
// UninitializedVariableReferenced enforced for any member not yet listed
// and CannotReinitializeMember enforced against re-listing the same one.
type ConstructorDeclaration struct {
	stmtBase
	Visibility  symbols.Visibility
	InputArgs   *ArgumentList
	Initializer *InitializerList
	Body        Stmt

	Binding *symbols.ConstructorBinding
}

func NewConstructorDeclaration(loc diag.Location, vis symbols.Visibility, inputArgs *ArgumentList, initializer *InitializerList, body Stmt) *ConstructorDeclaration {
	return &ConstructorDeclaration{stmtBase: stmtBase{node{Loc: loc}}, Visibility: vis, InputArgs: inputArgs, Initializer: initializer, Body: body}
}

func (s *ConstructorDeclaration) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	switch pass {
	case symbols.MethodDeclarations:
		if err := s.InputArgs.resolveTypes(tbl); err != nil {
			return err
		}
		sig := &types.FunctionType{Input: s.InputArgs.compositeType()}
		cb, err := tbl.BindConstructor(s.Loc, sig)
		if err != nil {
			return err
		}
		s.Binding = cb
	case symbols.MethodBodies:
		tbl.EnterFunctionBody(s.Binding)
		if err := bindThis(tbl); err != nil {
			tbl.ExitFunctionBody()
			return err
		}
		if err := s.InputArgs.bindAll(tbl); err != nil {
			tbl.ExitFunctionBody()
			return err
		}
		if err := s.checkInitializers(tbl); err != nil {
			tbl.ExitFunctionBody()
			return err
		}
		if s.Body != nil {
			if err := s.Body.TypeCheck(tbl, pass); err != nil {
				tbl.ExitFunctionBody()
				return err
			}
		}
		tbl.ExitFunctionBody()
	}
	return nil
}

func (s *ConstructorDeclaration) checkInitializers(tbl *symbols.Table) error {
	if s.Binding.InitializedMembers == nil {
		s.Binding.InitializedMembers = make(map[string]bool)
	}
	for c := s.Initializer; c != nil; c = c.Next {
		init := c.This
		if s.Binding.InitializedMembers[init.Name] {
			return diag.New(diag.CannotReinitializeMember, init.Loc, init.Name)
		}
		member, ok := s.ownMember(tbl, init.Name)
		if !ok {
			return diag.New(diag.SymbolNotDefined, init.Loc, init.Name)
		}
		ct, isClass := member.Type.(*types.ClassType)
		if !isClass || !ct.IsValueType {
			return diag.New(diag.ExpectedValueType, init.Loc, init.Name)
		}
		exprType, err := init.Expr.Evaluate(tbl, true)
		if err != nil {
			return err
		}
		if !member.Type.IsImplicitlyAssignableFrom(exprType) {
			return diag.New(diag.TypeMismatch, init.Loc, init.Name)
		}
		s.Binding.InitializedMembers[init.Name] = true
	}
	return s.requireValueTypesInitialized(tbl)
}

func (s *ConstructorDeclaration) ownMember(tbl *symbols.Table, name string) (*symbols.MemberBinding, bool) {
	cb, ok := tbl.CurrentClass()
	if !ok {
		return nil, false
	}
	for _, m := range cb.Members {
		if m.BindingName() == name {
			return m, true
		}
	}
	return nil, false
}

// requireValueTypesInitialized implements §4.4's third bullet: any
// value-class member left out of the initializer list gets one more
// chance via its own class's no-arg constructor; only a member whose
// class has no such constructor fails with ValueTypeMustBeInitialized.
func (s *ConstructorDeclaration) requireValueTypesInitialized(tbl *symbols.Table) error {
	cb, ok := tbl.CurrentClass()
	if !ok {
		return nil
	}
	for _, m := range cb.Members {
		ct, isClass := m.Type.(*types.ClassType)
		if !isClass || !ct.IsValueType {
			continue
		}
		if s.Binding.InitializedMembers[m.BindingName()] {
			continue
		}
		memberClass, ok := tbl.ClassBindingFor(ct.Decl)
		if !ok || !hasNoArgConstructor(memberClass) {
			return diag.New(diag.ValueTypeMustBeInitialized, s.Loc, m.BindingName())
		}
		s.Binding.InitializedMembers[m.BindingName()] = true
	}
	return nil
}

func hasNoArgConstructor(cb *symbols.ClassBinding) bool {
	for _, ctor := range cb.Ctors {
		if acceptsArgs(ctor.Sig.Input, nil) {
			return true
		}
	}
	return false
}

// DestructorDeclaration is `~C() { body }` (§4.4); always private, never
// takes arguments, and its member-cleanup calls are appended after the
// body is checked, in reverse declaration order.
type DestructorDeclaration struct {
	stmtBase
	Body Stmt

	Binding *symbols.DestructorBinding
}

func NewDestructorDeclaration(loc diag.Location, body Stmt) *DestructorDeclaration {
	return &DestructorDeclaration{stmtBase: stmtBase{node{Loc: loc}}, Body: body}
}

func (s *DestructorDeclaration) TypeCheck(tbl *symbols.Table, pass symbols.Pass) error {
	switch pass {
	case symbols.MethodDeclarations:
		cb, ok := tbl.CurrentClass()
		if !ok {
			return diag.New(diag.FunctionMustBeDeclaredInClassScope, s.Loc, "")
		}
		s.Binding = tbl.BindDestructor(cb)
	case symbols.MethodBodies:
		tbl.EnterFunctionBody(s.Binding)
		if err := bindThis(tbl); err != nil {
			tbl.ExitFunctionBody()
			return err
		}
		if s.Body != nil {
			if err := s.Body.TypeCheck(tbl, pass); err != nil {
				tbl.ExitFunctionBody()
				return err
			}
		}
		tbl.ExitFunctionBody()
		s.scheduleMemberDestructors(tbl)
	}
	return nil
}

// scheduleMemberDestructors records, in reverse declaration order, every
// value-class member this class owns (§4.4/§4.5): the driver downstream
// emits one destructor call per entry when lowering this destructor body.
func (s *DestructorDeclaration) scheduleMemberDestructors(tbl *symbols.Table) {
	cb, ok := tbl.CurrentClass()
	if !ok {
		return
	}
	for i := len(cb.Members) - 1; i >= 0; i-- {
		m := cb.Members[i]
		if ct, isClass := m.Type.(*types.ClassType); isClass && ct.IsValueType {
			s.Binding.MemberDtorCalls = append(s.Binding.MemberDtorCalls, m)
		}
	}
}
