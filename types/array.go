package types

import "fmt"

// UnsafeArrayType is a fixed-rank array of Element, legal only inside an
// `unsafe` context (§3.2, §4.3's UnsafeStatements/IndexOperation).
type UnsafeArrayType struct {
	Element TypeInfo
	Rank    uint32
}

func (t *UnsafeArrayType) Kind() Kind                 { return KindUnsafeArray }
func (t *UnsafeArrayType) IsLegalForAssignment() bool { return true }

func (t *UnsafeArrayType) Name() string {
	return fmt.Sprintf("%s[%d]", t.Element.Name(), t.Rank)
}

func (t *UnsafeArrayType) SerializedName() string {
	return fmt.Sprintf("%s[%d]", t.Element.SerializedName(), t.Rank)
}

func (t *UnsafeArrayType) SupportsOperator(op Operator) bool { return false }

func (t *UnsafeArrayType) SameType(other TypeInfo) bool {
	o, ok := other.(*UnsafeArrayType)
	return ok && o.Rank == t.Rank && o.Element.SameType(t.Element)
}

func (t *UnsafeArrayType) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	o, ok := other.(*UnsafeArrayType)
	return ok && o.Rank == t.Rank && o.Element.SameType(t.Element)
}
