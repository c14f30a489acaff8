package types

// Modifiers records the small set of per-declaration modifiers the
// source language supports on functions/members (§6.4): `static` and
// `unsafe`.
type Modifiers struct {
	Static bool
	Unsafe bool
}

// FunctionType is the TypeInfo of a function/method/constructor/
// destructor signature (§3.2). Input/Output are nil for a no-arg/no-
// return shape, or a CompositeType for multiple arguments/returns.
type FunctionType struct {
	FuncName string
	Input    TypeInfo
	Output   TypeInfo
	Mods     Modifiers
}

func (t *FunctionType) Kind() Kind                       { return KindFunction }
func (t *FunctionType) Name() string                     { return t.FuncName }
func (t *FunctionType) IsLegalForAssignment() bool       { return false }
func (t *FunctionType) SerializedName() string           { return t.SignatureString() }
func (t *FunctionType) SupportsOperator(op Operator) bool { return false }

func (t *FunctionType) SameType(other TypeInfo) bool {
	o, ok := other.(*FunctionType)
	if !ok {
		return false
	}
	return sameOptionalType(t.Input, o.Input) && sameOptionalType(t.Output, o.Output)
}

func (t *FunctionType) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	// Functions are never assignment targets in this language (no
	// closures, no first-class function values — §1's Non-goals).
	return false
}

// IsMethod reports whether this signature carries an implicit `this`
// (i.e. it is not `static`).
func (t *FunctionType) IsMethod() bool {
	return !t.Mods.Static
}

// SignatureString renders the input composite's serialized shape, used
// both for library export (§4.6) and for diagnosing "no matching
// overload" errors with a readable argument list.
func (t *FunctionType) SignatureString() string {
	if t.Input == nil {
		return "()"
	}
	return "(" + t.Input.SerializedName() + ")"
}

func sameOptionalType(a, b TypeInfo) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.SameType(b)
}

// HaveSameSignatures reports whether two (possibly nil) input composites
// would collide as overloads: either both nil, or one implicitly accepts
// the other (§3.5/§4.4 — ambiguity is defined by mutual implicit
// assignability, not by shape equality).
func HaveSameSignatures(a, b TypeInfo) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.IsImplicitlyAssignableFrom(b) || b.IsImplicitlyAssignableFrom(a)
}
