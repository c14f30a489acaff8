package symbols

import (
	"strings"

	"github.com/arc-lang/ruddyc/diag"
	"github.com/arc-lang/ruddyc/types"
	"github.com/samber/lo"
)

// Pass identifies which of the driver's four ordered traversals (§4.3) is
// currently asking the table to bind something. BindClass behaves
// differently depending on which pass calls it.
type Pass int

const (
	ClassAndNamespaceDeclarations Pass = iota
	ClassVariables
	MethodDeclarations
	MethodBodies
)

// auxEntry is one slot of the auxiliary stack: either a live binding or a
// ScopeMarker sentinel (§4.1's aux_stack).
type auxEntry struct {
	binding Binding
	marker  bool
}

// Table is the single scope-tracking authority every pass shares (§4.1).
type Table struct {
	byName map[string]Binding

	aux []auxEntry

	namespaceStack []*NamespaceBinding
	classStack     []*ClassBinding
	functionStack  []functionFrame
	loopStack      []loopFrame

	// addressableNamespaces is the LIFO chain of namespace + class scopes
	// consulted for unqualified lookup and for PRIVATE/PROTECTED
	// visibility checks.
	addressableNamespaces []Binding

	unsafeDepth int
}

type functionFrame struct {
	binding Binding // *FunctionBinding, *ConstructorBinding, or *DestructorBinding
	auxBase int      // len(aux) at function-body entry
}

type loopFrame struct {
	binding *LoopBinding
	auxBase int
}

// NewTable constructs an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]Binding)}
}

// InUnsafeContext reports whether the traversal is currently inside an
// UnsafeStatements block (§4.3); nesting is tracked by depth so unsafe
// blocks may nest without prematurely leaving the context.
func (t *Table) InUnsafeContext() bool { return t.unsafeDepth > 0 }

// EnterUnsafe / ExitUnsafe bracket an UnsafeStatements block.
func (t *Table) EnterUnsafe() { t.unsafeDepth++ }
func (t *Table) ExitUnsafe()  { t.unsafeDepth-- }

// Enter pushes a ScopeMarker, opening a new lexical scope.
func (t *Table) Enter() {
	t.aux = append(t.aux, auxEntry{marker: true})
}

// Exit pops back to the most recently pushed ScopeMarker and returns the
// ordered list of variable bindings introduced in that scope whose type
// was a value-class, in reverse declaration order — the destructor call
// list the driver attaches to the closing node (§4.5's scheduling
// invariants: "destructor calls run in reverse order of introduction").
func (t *Table) Exit() []*VariableBinding {
	var dtors []*VariableBinding
	for len(t.aux) > 0 {
		entry := t.aux[len(t.aux)-1]
		t.aux = t.aux[:len(t.aux)-1]
		if entry.marker {
			break
		}
		if vb, ok := entry.binding.(*VariableBinding); ok && isValueClass(vb.Type) {
			dtors = append(dtors, vb)
		}
	}
	return dtors
}

func isValueClass(t types.TypeInfo) bool {
	ct, ok := t.(*types.ClassType)
	return ok && ct.IsValueType
}

// BindVariable registers a new local. It fails with diag.SymbolAlreadyDefinedInThisScope
// if the unqualified name is already bound in the current (innermost)
// scope — shadowing across scopes is allowed, shadowing within one is not.
func (t *Table) BindVariable(loc diag.Location, name string, ty types.TypeInfo) (*VariableBinding, error) {
	if t.definedInCurrentScope(name) {
		return nil, diag.New(diag.SymbolAlreadyDefinedInThisScope, loc, name)
	}
	vb := &VariableBinding{baseBinding: baseBinding{name: name, fqName: name, visibility: Public}, Type: ty}
	t.aux = append(t.aux, auxEntry{binding: vb})
	return vb, nil
}

func (t *Table) definedInCurrentScope(name string) bool {
	for i := len(t.aux) - 1; i >= 0; i-- {
		if t.aux[i].marker {
			return false
		}
		if t.aux[i].binding.BindingName() == name {
			return true
		}
	}
	return false
}

// BindNamespace enters (creating if necessary) a namespace binding,
// idempotent across multiple files that contribute to the same namespace.
func (t *Table) BindNamespace(name string) *NamespaceBinding {
	fq := t.qualify(name)
	if existing, ok := t.byName[fq]; ok {
		ns := existing.(*NamespaceBinding)
		t.namespaceStack = append(t.namespaceStack, ns)
		t.addressableNamespaces = append(t.addressableNamespaces, ns)
		return ns
	}
	var parent Binding
	if len(t.namespaceStack) > 0 {
		parent = t.namespaceStack[len(t.namespaceStack)-1]
	}
	ns := &NamespaceBinding{baseBinding{name: name, fqName: fq, visibility: Public, parent: parent}}
	t.byName[fq] = ns
	t.namespaceStack = append(t.namespaceStack, ns)
	t.addressableNamespaces = append(t.addressableNamespaces, ns)
	return ns
}

// ExitNamespace pops the innermost namespace scope, mirroring BindNamespace.
func (t *Table) ExitNamespace() {
	t.namespaceStack = t.namespaceStack[:len(t.namespaceStack)-1]
	t.addressableNamespaces = t.addressableNamespaces[:len(t.addressableNamespaces)-1]
}

func (t *Table) qualify(name string) string {
	if len(t.namespaceStack) == 0 {
		return name
	}
	return t.namespaceStack[len(t.namespaceStack)-1].FullyQualifiedName() + "." + name
}

// BindClass registers the class binding on CLASS_AND_NAMESPACE_DECLARATIONS
// and simply pushes the existing one onto class_stack on later passes
// (§4.1's BindClass).
func (t *Table) BindClass(loc diag.Location, name string, vis Visibility, pass Pass) (*ClassBinding, error) {
	fq := t.qualify(name)
	if pass == ClassAndNamespaceDeclarations {
		if _, exists := t.byName[fq]; exists {
			return nil, diag.New(diag.TypeAlreadyExists, loc, name)
		}
		var parent Binding
		if len(t.namespaceStack) > 0 {
			parent = t.namespaceStack[len(t.namespaceStack)-1]
		}
		cb := &ClassBinding{
			baseBinding: baseBinding{name: name, fqName: fq, visibility: vis, parent: parent},
			Decl:        &types.ClassDeclarationType{ClassName: name, FullyQualifiedName: fq},
			Funcs:       make(map[string]Binding),
		}
		t.byName[fq] = cb
		t.classStack = append(t.classStack, cb)
		t.addressableNamespaces = append(t.addressableNamespaces, cb)
		return cb, nil
	}
	existing, ok := t.byName[fq]
	if !ok {
		return nil, diag.New(diag.SymbolNotDefined, loc, name)
	}
	cb := existing.(*ClassBinding)
	t.classStack = append(t.classStack, cb)
	t.addressableNamespaces = append(t.addressableNamespaces, cb)
	return cb, nil
}

// ExitClass pops the innermost class scope.
func (t *Table) ExitClass() {
	t.classStack = t.classStack[:len(t.classStack)-1]
	t.addressableNamespaces = t.addressableNamespaces[:len(t.addressableNamespaces)-1]
}

// CurrentClass returns the innermost active class scope, if any.
func (t *Table) CurrentClass() (*ClassBinding, bool) {
	if len(t.classStack) == 0 {
		return nil, false
	}
	return t.classStack[len(t.classStack)-1], true
}

// BindMemberVariable registers a member on CLASS_VARIABLES. It rejects
// with diag.VariablesMustBeInitialized if no class is active or if a
// function body is active, since member variables cannot be declared from
// inside a function body (§4.1).
func (t *Table) BindMemberVariable(loc diag.Location, name string, vis Visibility, mods types.Modifiers, ty types.TypeInfo) (*MemberBinding, error) {
	cb, ok := t.CurrentClass()
	if !ok || len(t.functionStack) > 0 {
		return nil, diag.New(diag.VariablesMustBeInitialized, loc, name)
	}
	mb := &MemberBinding{
		baseBinding: baseBinding{name: name, fqName: cb.FullyQualifiedName() + "." + name, visibility: vis, parent: cb},
		Mods:        mods,
		Type:        ty,
	}
	cb.AddMember(mb)
	return mb, nil
}

// BindFunction registers a method on METHOD_DECLARATIONS. It rejects if no
// class is active (free functions do not exist in this language — every
// function is a method of some class, per §3.5).
func (t *Table) BindFunction(loc diag.Location, name string, vis Visibility, sig *types.FunctionType) (*FunctionBinding, error) {
	cb, ok := t.CurrentClass()
	if !ok {
		return nil, diag.New(diag.FunctionMustBeDeclaredInClassScope, loc, name)
	}
	return t.addFunctionBinding(loc, cb, name, vis, sig, false)
}

// BindExternalFunction registers a method rehydrated from a serialized
// library import (§4.6) directly onto cb, bypassing the "must be inside a
// class scope" check since import happens outside any traversal pass, but
// still running the same ambiguous-overload check (SPEC_FULL.md §C.1).
func (t *Table) BindExternalFunction(loc diag.Location, cb *ClassBinding, name string, vis Visibility, sig *types.FunctionType) (*FunctionBinding, error) {
	return t.addFunctionBinding(loc, cb, name, vis, sig, true)
}

func (t *Table) addFunctionBinding(loc diag.Location, cb *ClassBinding, name string, vis Visibility, sig *types.FunctionType, external bool) (*FunctionBinding, error) {
	fb := &FunctionBinding{
		baseBinding: baseBinding{name: name, fqName: cb.FullyQualifiedName() + "." + name, visibility: vis, parent: cb},
		Class:       cb,
		Sig:         sig,
		External:    external,
	}
	existing, has := cb.Funcs[name]
	if !has {
		cb.Funcs[name] = fb
		cb.order = append(cb.order, name)
		return fb, nil
	}
	switch e := existing.(type) {
	case *FunctionBinding:
		if types.HaveSameSignatures(e.Sig.Input, sig.Input) {
			return nil, diag.New(diag.SymbolAlreadyDefinedInThisScope, loc, name)
		}
		cb.Funcs[name] = &OverloadedFunctionBinding{
			baseBinding: e.baseBinding,
			Overloads:   []*FunctionBinding{e, fb},
		}
		return fb, nil
	case *OverloadedFunctionBinding:
		for _, other := range e.Overloads {
			if types.HaveSameSignatures(other.Sig.Input, sig.Input) {
				return nil, diag.New(diag.SymbolAlreadyDefinedInThisScope, loc, name)
			}
		}
		e.Overloads = append(e.Overloads, fb)
		return fb, nil
	default:
		return nil, diag.New(diag.SymbolAlreadyDefinedInThisScope, loc, name)
	}
}

// BindConstructor registers a constructor on METHOD_DECLARATIONS,
// rejecting with diag.SymbolAlreadyDefinedInThisScope if it is ambiguous
// with an already-registered constructor: two ctors whose input composites
// are mutually implicitly-assignable collide, including the special case
// where both are zero-arg (SPEC_FULL.md §C.6).
func (t *Table) BindConstructor(loc diag.Location, sig *types.FunctionType) (*ConstructorBinding, error) {
	cb, ok := t.CurrentClass()
	if !ok {
		return nil, diag.New(diag.FunctionMustBeDeclaredInClassScope, loc, "constructor")
	}
	return t.addConstructorBinding(loc, cb, sig, false)
}

// BindExternalConstructor registers a constructor rehydrated from a
// serialized library import directly onto cb, running the same
// ambiguous-overload check an in-source constructor would (SPEC_FULL.md
// §C.1) even though it arrives without a body to type-check.
func (t *Table) BindExternalConstructor(loc diag.Location, cb *ClassBinding, sig *types.FunctionType) (*ConstructorBinding, error) {
	return t.addConstructorBinding(loc, cb, sig, true)
}

func (t *Table) addConstructorBinding(loc diag.Location, cb *ClassBinding, sig *types.FunctionType, external bool) (*ConstructorBinding, error) {
	for _, existing := range cb.Ctors {
		if haveAmbiguousSignatures(existing.Sig.Input, sig.Input) {
			return nil, diag.New(diag.SymbolAlreadyDefinedInThisScope, loc, cb.BindingName())
		}
	}
	ctor := &ConstructorBinding{
		FunctionBinding: FunctionBinding{
			baseBinding: baseBinding{name: cb.BindingName(), fqName: cb.FullyQualifiedName(), visibility: Public, parent: cb},
			Class:       cb,
			Sig:         sig,
			External:    external,
		},
		InitializedMembers: make(map[string]bool),
	}
	cb.Ctors = append(cb.Ctors, ctor)
	return ctor, nil
}

// haveAmbiguousSignatures implements SPEC_FULL.md §C.6: two ctor input
// composites collide whenever either direction of implicit assignability
// holds, with zero-arg vs. zero-arg always counting as a collision (since
// neither side has a composite to test assignability against).
func haveAmbiguousSignatures(a, b types.TypeInfo) bool {
	if a == nil && b == nil {
		return true
	}
	return types.HaveSameSignatures(a, b)
}

// BindDestructor registers the (possibly synthesized) destructor.
func (t *Table) BindDestructor(cb *ClassBinding) *DestructorBinding {
	dtor := &DestructorBinding{
		FunctionBinding: FunctionBinding{
			baseBinding: baseBinding{name: "~" + cb.BindingName(), fqName: cb.FullyQualifiedName() + ".~dtor", visibility: Private, parent: cb},
			Class:       cb,
			Sig:         &types.FunctionType{FuncName: "~" + cb.BindingName()},
		},
	}
	cb.Dtor = dtor
	return dtor
}

// EnterFunctionBody records binding as the active function/ctor/dtor and
// opens its outermost scope, so ReturnFromCurrentFunction knows where to
// stop collecting destructors.
func (t *Table) EnterFunctionBody(binding Binding) {
	t.Enter()
	t.functionStack = append(t.functionStack, functionFrame{binding: binding, auxBase: len(t.aux)})
}

// ExitFunctionBody closes the scope opened by EnterFunctionBody.
func (t *Table) ExitFunctionBody() []*VariableBinding {
	t.functionStack = t.functionStack[:len(t.functionStack)-1]
	return t.Exit()
}

// CurrentFunction returns the active function/ctor/dtor binding, if any.
func (t *Table) CurrentFunction() (Binding, bool) {
	if len(t.functionStack) == 0 {
		return nil, false
	}
	return t.functionStack[len(t.functionStack)-1].binding, true
}

// BindLoop pushes a loop marker and opens its scope. break/continue
// resolve against the innermost entry on loopStack.
func (t *Table) BindLoop() *LoopBinding {
	t.Enter()
	lb := &LoopBinding{baseBinding{name: "<loop>", visibility: Public}}
	t.loopStack = append(t.loopStack, loopFrame{binding: lb, auxBase: len(t.aux)})
	return lb
}

// ExitLoop closes the scope BindLoop opened and pops the loop marker.
func (t *Table) ExitLoop() []*VariableBinding {
	t.loopStack = t.loopStack[:len(t.loopStack)-1]
	return t.Exit()
}

// BreakFromCurrentLoop returns the destructor calls accumulated from the
// current position out to (and including) the innermost loop's scope,
// without popping anything — the driver itself still walks out through
// the enclosing ScopedStatements via ordinary Exit calls (§4.1).
func (t *Table) BreakFromCurrentLoop(loc diag.Location) ([]*VariableBinding, error) {
	if len(t.loopStack) == 0 {
		return nil, diag.New(diag.BreakInWrongPlace, loc, "break")
	}
	frame := t.loopStack[len(t.loopStack)-1]
	return t.peekValueClassVars(frame.auxBase), nil
}

// ContinueFromCurrentLoop mirrors BreakFromCurrentLoop: it collects the
// same destructor list and, like it, pops nothing, matching the original's
// LoopBinding handling for `continue` (SPEC_FULL.md §C.5).
func (t *Table) ContinueFromCurrentLoop(loc diag.Location) ([]*VariableBinding, error) {
	if len(t.loopStack) == 0 {
		return nil, diag.New(diag.ContinueInWrongPlace, loc, "continue")
	}
	frame := t.loopStack[len(t.loopStack)-1]
	return t.peekValueClassVars(frame.auxBase), nil
}

// ReturnFromCurrentFunction returns the destructor calls accumulated from
// the return point out to the enclosing function's scope boundary.
func (t *Table) ReturnFromCurrentFunction(loc diag.Location) ([]*VariableBinding, error) {
	if len(t.functionStack) == 0 {
		return nil, diag.New(diag.ReturnStatementMustBeDeclaredInFunctionScope, loc, "return")
	}
	frame := t.functionStack[len(t.functionStack)-1]
	return t.peekValueClassVars(frame.auxBase), nil
}

// peekValueClassVars collects value-class variable bindings from the top
// of the aux stack down to (not including) index base, in reverse
// declaration order, without mutating the stack.
func (t *Table) peekValueClassVars(base int) []*VariableBinding {
	var out []*VariableBinding
	for i := len(t.aux) - 1; i >= base; i-- {
		entry := t.aux[i]
		if entry.marker {
			continue
		}
		if vb, ok := entry.binding.(*VariableBinding); ok && isValueClass(vb.Type) {
			out = append(out, vb)
		}
	}
	return out
}

// Lookup resolves a dotted path (§4.1): the leftmost component against
// locals then addressableNamespaces in LIFO order, each subsequent
// component against the resolved parent's members.
func (t *Table) Lookup(loc diag.Location, dottedName string) (Binding, error) {
	parts := strings.Split(dottedName, ".")
	first := parts[0]

	current, err := t.lookupUnqualified(loc, first)
	if err != nil {
		return nil, err
	}

	for _, comp := range parts[1:] {
		classBinding, err := t.dereferenceToClass(loc, current)
		if err != nil {
			return nil, err
		}
		next, err := t.lookupMember(loc, classBinding, current, comp)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func (t *Table) lookupUnqualified(loc diag.Location, name string) (Binding, error) {
	for i := len(t.aux) - 1; i >= 0; i-- {
		if !t.aux[i].marker && t.aux[i].binding.BindingName() == name {
			return t.aux[i].binding, nil
		}
	}
	for i := len(t.addressableNamespaces) - 1; i >= 0; i-- {
		scope := t.addressableNamespaces[i]
		if b, ok := t.byName[scope.FullyQualifiedName()+"."+name]; ok {
			if err := t.checkVisible(loc, b); err != nil {
				return nil, err
			}
			return b, nil
		}
		if cb, ok := scope.(*ClassBinding); ok {
			if b, ok := cb.Funcs[name]; ok {
				if err := t.checkVisible(loc, b); err != nil {
					return nil, err
				}
				return wrapFuncInstance(b, t.implicitThis()), nil
			}
			if mb, ok := lookupOwnMember(cb, name); ok {
				if err := t.checkVisible(loc, mb); err != nil {
					return nil, err
				}
				return &MemberInstance{Member: mb, Receiver: t.implicitThis()}, nil
			}
		}
	}
	if b, ok := t.byName[name]; ok {
		return b, nil
	}
	return nil, diag.New(diag.SymbolNotDefined, loc, name)
}

// implicitThis returns the receiver local bound inside a method body, if
// one is active, for member references with no explicit receiver.
func (t *Table) implicitThis() Binding {
	for i := len(t.aux) - 1; i >= 0; i-- {
		if !t.aux[i].marker && t.aux[i].binding.BindingName() == "this" {
			return t.aux[i].binding
		}
	}
	return nil
}

// ClassBindingFor resolves decl back to its ClassBinding, used by
// constructor-body initializer synthesis to inspect a member class's own
// constructor list (§4.4).
func (t *Table) ClassBindingFor(decl *types.ClassDeclarationType) (*ClassBinding, bool) {
	b, ok := t.byName[decl.FullyQualifiedName]
	if !ok {
		return nil, false
	}
	cb, ok := b.(*ClassBinding)
	return cb, ok
}

func lookupOwnMember(cb *ClassBinding, name string) (*MemberBinding, bool) {
	m, ok := lo.Find(cb.Members, func(m *MemberBinding) bool { return m.BindingName() == name })
	return m, ok
}

func (t *Table) dereferenceToClass(loc diag.Location, b Binding) (*ClassBinding, error) {
	var ty types.TypeInfo
	switch v := b.(type) {
	case *VariableBinding:
		ty = v.Type
	case *MemberBinding:
		ty = v.Type
	case *MemberInstance:
		ty = v.Member.Type
	default:
		return nil, diag.New(diag.SymbolWrongType, loc, b.BindingName())
	}
	ct, ok := ty.(*types.ClassType)
	if !ok {
		if uct, ok := ty.(*types.UnresolvedClassType); ok {
			if resolved, ok := uct.Resolved(); ok {
				ct = resolved
			}
		}
	}
	if ct == nil {
		return nil, diag.New(diag.SymbolWrongType, loc, b.BindingName())
	}
	owner, ok := t.byName[ct.Decl.FullyQualifiedName]
	if !ok {
		return nil, diag.New(diag.SymbolNotDefined, loc, ct.Decl.FullyQualifiedName)
	}
	return owner.(*ClassBinding), nil
}

func (t *Table) lookupMember(loc diag.Location, cb *ClassBinding, receiver Binding, name string) (Binding, error) {
	if mb, ok := lookupOwnMember(cb, name); ok {
		if err := t.checkVisible(loc, mb); err != nil {
			return nil, err
		}
		return &MemberInstance{Member: mb, Receiver: receiver}, nil
	}
	if fb, ok := cb.Funcs[name]; ok {
		if err := t.checkVisible(loc, fb); err != nil {
			return nil, err
		}
		return wrapFuncInstance(fb, receiver), nil
	}
	return nil, diag.New(diag.SymbolNotDefined, loc, name)
}

// wrapFuncInstance binds b (a FunctionBinding or OverloadedFunctionBinding)
// to receiver, producing the *Instance view that carries `this` along for
// the eventual call site (§3.5's FunctionInstance).
func wrapFuncInstance(b Binding, receiver Binding) Binding {
	switch f := b.(type) {
	case *FunctionBinding:
		return &FunctionInstance{Func: f, Receiver: receiver}
	case *OverloadedFunctionBinding:
		return &OverloadedFunctionInstance{Overloads: f.Overloads, Receiver: receiver}
	default:
		return b
	}
}

// checkVisible enforces §4.1's visibility rule: PUBLIC is always fine;
// PRIVATE/PROTECTED require the binding's parent to be one of the
// currently addressable scopes, by identity.
func (t *Table) checkVisible(loc diag.Location, b Binding) error {
	if b.Visibility() == Public {
		return nil
	}
	parent := b.Parent()
	for _, scope := range t.addressableNamespaces {
		if scope == parent {
			return nil
		}
	}
	return diag.New(diag.SymbolNotAccessable, loc, b.BindingName())
}
