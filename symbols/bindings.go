// Package symbols implements the scope-tracking symbol table shared by
// every type-check pass (§3.5, §3.6, §4.1 of the distillation this module
// grew from).
package symbols

import "github.com/arc-lang/ruddyc/types"

// Visibility is the access-control tag every binding carries.
type Visibility int

const (
	Public Visibility = iota
	Private
	Protected
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Private:
		return "private"
	case Protected:
		return "protected"
	default:
		return "unknown"
	}
}

// Binding is the closed sum type every entry in the table's map and stacks
// belongs to. A free type switch over the concrete variant replaces the
// original's virtual binding hierarchy, matching how this module's types
// package already tags TypeInfo (Design Notes §9).
type Binding interface {
	BindingName() string
	FullyQualifiedName() string
	Visibility() Visibility
	Parent() Binding
}

type baseBinding struct {
	name       string
	fqName     string
	visibility Visibility
	parent     Binding // enclosing namespace or class scope, by identity
}

func (b *baseBinding) BindingName() string       { return b.name }
func (b *baseBinding) FullyQualifiedName() string { return b.fqName }
func (b *baseBinding) Visibility() Visibility     { return b.visibility }
func (b *baseBinding) Parent() Binding            { return b.parent }

// NamespaceBinding is a pure scope holder; namespaces never carry
// visibility of their own (always addressable once entered).
type NamespaceBinding struct {
	baseBinding
}

// ClassBinding owns every member, constructor, method, and the one
// destructor a class declares, plus its ClassDeclarationType identity.
type ClassBinding struct {
	baseBinding

	Decl    *types.ClassDeclarationType
	Members []*MemberBinding

	Ctors []*ConstructorBinding
	Dtor  *DestructorBinding

	// Funcs holds one FunctionBinding or OverloadedFunctionBinding per
	// distinct method name, in first-declaration order.
	Funcs map[string]Binding
	order []string
}

// AddMember appends m to the class's member list in declaration order.
func (c *ClassBinding) AddMember(m *MemberBinding) {
	m.OwningClass = c
	m.IndexInClass = len(c.Members)
	c.Members = append(c.Members, m)
}

// FuncNames returns every distinct method name this class declares, in
// first-declaration order, for callers (e.g. serialize) that need a
// stable walk over Funcs without reaching into the unexported order slice.
func (c *ClassBinding) FuncNames() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// FunctionBinding is a function, method, or the un-bundled shape a
// constructor/destructor also wraps (§3.5). Methods (IsMethod() on Sig)
// carry an implicit `this` the caller never spells out explicitly.
type FunctionBinding struct {
	baseBinding

	Class *ClassBinding // owning class; every function is a method of some class
	Sig   *types.FunctionType

	// External marks a binding rehydrated from a serialized library (§4.6)
	// rather than declared in the source under analysis; the IR emitter
	// treats it as an externally-linked declaration (SPEC_FULL.md §C.1).
	External bool
}

// IsMethod reports whether calls to this binding supply an implicit
// receiver (SPEC_FULL.md §C.2).
func (f *FunctionBinding) IsMethod() bool { return f.Sig.IsMethod() }

// OverloadedFunctionBinding is the ordered set of FunctionBindings sharing
// one name but differing in input-composite shape.
type OverloadedFunctionBinding struct {
	baseBinding
	Overloads []*FunctionBinding
}

// FunctionInstance is a FunctionBinding resolved against a concrete
// receiver; produced only by member lookup and never stored in the table.
// It implements Binding by delegating identity to the underlying
// FunctionBinding, since it borrows rather than owns (§3.6).
type FunctionInstance struct {
	Func     *FunctionBinding
	Receiver Binding
}

func (f *FunctionInstance) BindingName() string       { return f.Func.BindingName() }
func (f *FunctionInstance) FullyQualifiedName() string { return f.Func.FullyQualifiedName() }
func (f *FunctionInstance) Visibility() Visibility     { return f.Func.Visibility() }
func (f *FunctionInstance) Parent() Binding            { return f.Func.Parent() }

// OverloadedFunctionInstance is an OverloadedFunctionBinding resolved
// against a concrete receiver, mirroring FunctionInstance for the
// multi-overload case so a call site's overload resolution always has the
// receiver in hand (§4.3's FunctionCall).
type OverloadedFunctionInstance struct {
	Overloads []*FunctionBinding
	Receiver  Binding
}

func (o *OverloadedFunctionInstance) BindingName() string {
	return o.Overloads[0].BindingName()
}
func (o *OverloadedFunctionInstance) FullyQualifiedName() string {
	return o.Overloads[0].FullyQualifiedName()
}
func (o *OverloadedFunctionInstance) Visibility() Visibility { return o.Overloads[0].Visibility() }
func (o *OverloadedFunctionInstance) Parent() Binding        { return o.Overloads[0].Parent() }

// ConstructorBinding is a FunctionBinding whose output is the owning
// class's value form, plus the set of member names its initializer list
// has already covered (§4.4). InitializedMembers is populated while the
// driver walks the ctor body, not at bind time.
type ConstructorBinding struct {
	FunctionBinding
	InitializedMembers map[string]bool
}

// DestructorBinding is the class's no-arg, always-private cleanup
// function; MemberDtorCalls is filled in after the body is checked, in
// reverse declaration order (§4.4).
type DestructorBinding struct {
	FunctionBinding
	MemberDtorCalls []*MemberBinding
}

// VariableBinding is a local, scope-owned binding.
type VariableBinding struct {
	baseBinding
	Type types.TypeInfo
}

// MemberBinding is a class field, ordered by declaration.
type MemberBinding struct {
	baseBinding
	OwningClass  *ClassBinding
	IndexInClass int
	Mods         types.Modifiers
	Type         types.TypeInfo
}

// MemberInstance is MemberBinding bound to a receiver (`this` or another
// variable); it owns nothing and is never stored in the table, only
// returned from Lookup.
type MemberInstance struct {
	Member   *MemberBinding
	Receiver Binding
}

func (m *MemberInstance) BindingName() string       { return m.Member.BindingName() }
func (m *MemberInstance) FullyQualifiedName() string { return m.Member.FullyQualifiedName() }
func (m *MemberInstance) Visibility() Visibility     { return m.Member.Visibility() }
func (m *MemberInstance) Parent() Binding            { return m.Member.Parent() }

// LoopBinding is the anonymous marker BindLoop pushes; break/continue
// resolve against the innermost one on loopStack.
type LoopBinding struct {
	baseBinding
}

// scopeMarker is not used by the table: Enter and Exit mark scope
// boundaries with an auxEntry whose marker field is set, and callers only
// see those boundaries indirectly via Exit's returned destructor list.
type scopeMarker struct{}
