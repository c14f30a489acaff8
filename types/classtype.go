package types

import (
	irtypes "github.com/llir/llvm/ir/types"
)

// ClassDeclarationType is the identity of a class, independent of whether
// a particular use of it is a value or reference instantiation (§3.2). It
// is never itself a legal type for a variable/member/parameter — only
// ClassType (below) is.
type ClassDeclarationType struct {
	ClassName          string
	FullyQualifiedName string

	// IRTypeHandle is an optional capability slot the downstream IR
	// emitter may stash its lowered representation of this class into
	// once it has one (§3.2's `ir_type_handle?`). The semantic core never
	// constructs, reads the fields of, or interprets this value — it only
	// carries it so the emitter doesn't need a side table keyed by
	// fully-qualified name. See SPEC_FULL.md §B.
	IRTypeHandle irtypes.Type
}

func (t *ClassDeclarationType) Kind() Kind                        { return KindClassDeclaration }
func (t *ClassDeclarationType) Name() string                      { return t.ClassName }
func (t *ClassDeclarationType) IsLegalForAssignment() bool        { return false }
func (t *ClassDeclarationType) SerializedName() string            { return t.FullyQualifiedName }
func (t *ClassDeclarationType) SupportsOperator(op Operator) bool  { return false }
func (t *ClassDeclarationType) SameType(other TypeInfo) bool {
	o, ok := other.(*ClassDeclarationType)
	return ok && o == t
}
func (t *ClassDeclarationType) IsImplicitlyAssignableFrom(other TypeInfo) bool { return false }

// ClassType is the TypeInfo of an instantiated class reference: a
// ClassDeclarationType plus the value/reference distinction (§3.2).
// Reference instances live on the GC heap; value instances live inline in
// their owner. The two forms are never mutually assignable even when
// Decl is identical (§3.2's invariant).
type ClassType struct {
	Decl        *ClassDeclarationType
	IsValueType bool
}

func (t *ClassType) Kind() Kind                       { return KindClass }
func (t *ClassType) Name() string                     { return t.Decl.ClassName }
func (t *ClassType) IsLegalForAssignment() bool       { return true }
func (t *ClassType) SupportsOperator(op Operator) bool { return false }

func (t *ClassType) SerializedName() string {
	if t.IsValueType {
		return t.Decl.FullyQualifiedName + "&"
	}
	return t.Decl.FullyQualifiedName
}

func (t *ClassType) SameType(other TypeInfo) bool {
	o, ok := other.(*ClassType)
	return ok && o.Decl == t.Decl && o.IsValueType == t.IsValueType
}

func (t *ClassType) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	o, ok := other.(*ClassType)
	if !ok {
		return false
	}
	return o.Decl == t.Decl && o.IsValueType == t.IsValueType
}

func (t *ClassType) DefaultValue() ConstantValue {
	// Reference classes default to the heap null; value classes are
	// default-constructed by the driver's ctor-synthesis logic, not by a
	// scalar default (see the ast package's constructor handling, §4.4).
	return ConstantValue{Kind: KindClass}
}

// UnresolvedClassType is the placeholder the parser emits for any class
// name referenced before its declaration point (§3.2); it must be
// resolved via the symbol table before any operation other than name
// lookup. Resolution is driven by the ast package's resolveType (not this
// package, to avoid an import cycle between types and symbols) and the
// result is cached here exactly once, mirroring the original's
// TypeSpecifier/UnresolvedClassTypeInfo caching (SPEC_FULL.md §C.3).
type UnresolvedClassType struct {
	ClassName   string
	IsValueType bool

	resolved *ClassType
}

func (t *UnresolvedClassType) Kind() Kind                       { return KindUnresolvedClass }
func (t *UnresolvedClassType) Name() string                     { return t.ClassName }
func (t *UnresolvedClassType) IsLegalForAssignment() bool       { return false }
func (t *UnresolvedClassType) SerializedName() string           { return t.ClassName }
func (t *UnresolvedClassType) SupportsOperator(op Operator) bool { return false }

func (t *UnresolvedClassType) SameType(other TypeInfo) bool {
	o, ok := other.(*UnresolvedClassType)
	return ok && o == t
}

func (t *UnresolvedClassType) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	if t.resolved == nil {
		return false
	}
	return t.resolved.IsImplicitlyAssignableFrom(other)
}

// Resolved returns the cached resolution, if any.
func (t *UnresolvedClassType) Resolved() (*ClassType, bool) {
	return t.resolved, t.resolved != nil
}

// CacheResolution stores ct as this placeholder's resolution. Called
// exactly once, by the driver, the first time this node is resolved
// against the symbol table.
func (t *UnresolvedClassType) CacheResolution(ct *ClassType) {
	t.resolved = ct
}
