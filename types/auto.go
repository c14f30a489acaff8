package types

// AutoTypeInfo is the placeholder type for `let x = ...` declarations
// whose concrete type is inferred from the right-hand side (§3.2). It is
// never the final type of anything the driver finishes checking — every
// AutoType slot is rebound to a concrete TypeInfo before type check
// completes (§8.1 invariant 1).
type AutoTypeInfo struct{}

// Auto is the single shared AutoTypeInfo instance.
var Auto = &AutoTypeInfo{}

func (t *AutoTypeInfo) Kind() Kind                 { return KindAuto }
func (t *AutoTypeInfo) Name() string               { return "auto" }
func (t *AutoTypeInfo) IsLegalForAssignment() bool { return true }
func (t *AutoTypeInfo) SerializedName() string     { return "auto" }
func (t *AutoTypeInfo) SameType(other TypeInfo) bool {
	_, ok := other.(*AutoTypeInfo)
	return ok
}
func (t *AutoTypeInfo) IsImplicitlyAssignableFrom(other TypeInfo) bool { return true }
func (t *AutoTypeInfo) SupportsOperator(op Operator) bool              { return false }
