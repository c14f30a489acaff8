package types

import "strings"

// CompositeType is an ordered tuple of types used for multi-arg function
// input and multi-value return/assignment (§3.2). A CompositeType with a
// nil Tail is equivalent to its Head for assignment purposes but remains
// distinguishable in call/return shape (e.g. it still contributes exactly
// one element when flattened).
type CompositeType struct {
	Head     TypeInfo
	Tail     *CompositeType
	HeadName string // optional: the declared parameter/return name, if any
}

func (t *CompositeType) Kind() Kind                       { return KindComposite }
func (t *CompositeType) SupportsOperator(op Operator) bool { return false }

func (t *CompositeType) Name() string {
	var parts []string
	for _, e := range t.Flatten() {
		parts = append(parts, e.Name())
	}
	return strings.Join(parts, ", ")
}

func (t *CompositeType) IsLegalForAssignment() bool {
	for _, e := range t.Flatten() {
		if !e.IsLegalForAssignment() {
			return false
		}
	}
	return true
}

func (t *CompositeType) SerializedName() string {
	var parts []string
	for _, e := range t.Flatten() {
		parts = append(parts, e.SerializedName())
	}
	return strings.Join(parts, ",")
}

func (t *CompositeType) SameType(other TypeInfo) bool {
	o, ok := other.(*CompositeType)
	if !ok {
		return false
	}
	a, b := t.Flatten(), o.Flatten()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].SameType(b[i]) {
			return false
		}
	}
	return true
}

// IsImplicitlyAssignableFrom checks positional, elementwise assignability
// against `other`, which may itself be a bare (non-composite) TypeInfo —
// in which case it is treated as a single-element composite, matching
// §3.2's tail=nil equivalence.
func (t *CompositeType) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	otherElems := flattenAny(other)
	selfElems := t.Flatten()
	if len(selfElems) != len(otherElems) {
		return false
	}
	for i := range selfElems {
		if !selfElems[i].IsImplicitlyAssignableFrom(otherElems[i]) {
			return false
		}
	}
	return true
}

// Flatten returns this composite's elements in order.
func (t *CompositeType) Flatten() []TypeInfo {
	var out []TypeInfo
	for c := t; c != nil; c = c.Tail {
		out = append(out, c.Head)
	}
	return out
}

// flattenAny flattens any TypeInfo into its element list: a CompositeType
// flattens structurally, anything else is a one-element list. nil yields
// an empty (zero-element) list, representing a no-arg/no-return shape.
func flattenAny(t TypeInfo) []TypeInfo {
	if t == nil {
		return nil
	}
	if c, ok := t.(*CompositeType); ok {
		return c.Flatten()
	}
	return []TypeInfo{t}
}

// NewComposite builds a CompositeType from an ordered element list. A
// single-element list collapses to that element directly (no trivial
// wrapping composite), and an empty list returns nil (the "no args/no
// return" shape used throughout the function/ctor machinery).
func NewComposite(elems ...TypeInfo) TypeInfo {
	if len(elems) == 0 {
		return nil
	}
	if len(elems) == 1 {
		return elems[0]
	}
	var tail *CompositeType
	for i := len(elems) - 1; i >= 1; i-- {
		tail = &CompositeType{Head: elems[i], Tail: tail}
	}
	return &CompositeType{Head: elems[0], Tail: tail}
}

// AppendComposite appends rhs's flattened elements after lhs's, used by
// comma-expression evaluation (§4.3's ExpressionList).
func AppendComposite(lhs, rhs TypeInfo) TypeInfo {
	elems := append(flattenAny(lhs), flattenAny(rhs)...)
	return NewComposite(elems...)
}
