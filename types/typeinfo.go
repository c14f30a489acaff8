package types

// TypeInfo is the value domain of the type system: every expression,
// member declaration, and function signature resolves to exactly one of
// these. The interface is intentionally small — identity, assignability,
// and operator support — everything else (IsInteger, IsClassType, ...) is
// a free function in predicates.go that type-switches on the concrete
// variant, per Design Notes §9.
type TypeInfo interface {
	Kind() Kind

	// Name is a short, non-qualified display name ("int32", "A", "auto").
	Name() string

	// IsLegalForAssignment reports whether a variable, member, or
	// parameter may be declared with this exact TypeInfo. Constants
	// (IntegerConstant, FloatingConstant, ...) are never legal here; they
	// only ever appear as the type of a literal expression on its way to
	// being assigned into something else.
	IsLegalForAssignment() bool

	// IsImplicitlyAssignableFrom is the assignment arrow of the lattice:
	// does a value of type `other` convert, without an explicit cast,
	// into a storage location of this type? This is evaluated with
	// `target.IsImplicitlyAssignableFrom(source)`.
	IsImplicitlyAssignableFrom(other TypeInfo) bool

	// SupportsOperator reports whether this type can appear as an operand
	// to op directly (without an implicit promotion).
	SupportsOperator(op Operator) bool

	// SameType is a stricter identity check than mutual assignability
	// (e.g. ClassType value vs. reference forms are never SameType even
	// when IsImplicitlyAssignableFrom would be symmetric-false for both).
	SameType(other TypeInfo) bool

	// SerializedName is the library-export spelling of this type (§4.6).
	SerializedName() string
}

// CastCapable is implemented by types that know how to describe an
// explicit cast to another type (integer width/sign changes, int<->float
// widenings). Types for which an explicit cast never makes sense
// (composite, function, auto, unresolved class) do not implement it.
type CastCapable interface {
	TypeInfo
	CreateCastTo(other TypeInfo) (CastKind, error)
}

// DefaultValued is implemented by every type that has a zero/default
// value available for member- and local-initialization purposes (§4.4).
type DefaultValued interface {
	TypeInfo
	DefaultValue() ConstantValue
}

// PromotesForOperator is implemented by types where operator support
// implies a possible implicit promotion: "I don't support op directly,
// but I'm implicitly assignable to something that does" (§3.2's
// is_implicitly_castable_to_type_supporting).
type PromotesForOperator interface {
	TypeInfo
	PromoteForOperator(op Operator) (TypeInfo, bool)
}
