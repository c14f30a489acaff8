// Package types implements the TypeInfo lattice of the semantic core: the
// value domain every expression, member, and function signature resolves
// into. Rather than a class hierarchy with virtual dispatch (the shape of
// the original C++ TypeInfo), this is a closed tagged sum: one interface
// with a Kind-returning method, one concrete struct per variant, and
// pattern matches (type switches) wherever the original used a virtual
// call — see Design Notes §9 and arch/amd64/abi.go in the teacher, which
// already prefers exactly this shape (switch t.Kind() { case ...
// t.(*types.IntType) }) over deeper interface hierarchies.
package types

// Kind tags which TypeInfo variant a value holds.
type Kind int

const (
	KindIntegerPrimitive Kind = iota
	KindFloatingPrimitive
	KindBoolPrimitive
	KindStringPrimitive
	KindIntegerConstant
	KindFloatingConstant
	KindBoolConstant
	KindCharConstant
	KindStringConstant
	KindAuto
	KindClassDeclaration
	KindClass
	KindUnresolvedClass
	KindFunction
	KindComposite
	KindUnsafeArray
)

func (k Kind) String() string {
	switch k {
	case KindIntegerPrimitive:
		return "integer"
	case KindFloatingPrimitive:
		return "floating"
	case KindBoolPrimitive:
		return "bool"
	case KindStringPrimitive:
		return "string"
	case KindIntegerConstant:
		return "integer-constant"
	case KindFloatingConstant:
		return "floating-constant"
	case KindBoolConstant:
		return "bool-constant"
	case KindCharConstant:
		return "char-constant"
	case KindStringConstant:
		return "string-constant"
	case KindAuto:
		return "auto"
	case KindClassDeclaration:
		return "class-declaration"
	case KindClass:
		return "class"
	case KindUnresolvedClass:
		return "unresolved-class"
	case KindFunction:
		return "function"
	case KindComposite:
		return "composite"
	case KindUnsafeArray:
		return "unsafe-array"
	default:
		return "unknown"
	}
}
