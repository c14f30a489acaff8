package types

import "github.com/pkg/errors"

// CastKind describes the shape of an explicit numeric cast, for the
// downstream IR emitter to pick a concrete instruction (sign-extend,
// truncate, int-to-float, ...). The core only decides representability
// and which kind of cast applies; it never materializes the cast itself.
type CastKind int

const (
	CastIdentity CastKind = iota
	CastIntWiden
	CastIntNarrow
	CastIntSignChange
	CastIntToFloat
	CastFloatToInt
	CastFloatWiden
	CastFloatNarrow
)

// CreateCastTo implements §3.2's create_cast_to for integer primitives:
// integer<->integer sign/width changes and int->float widenings.
func (t *IntegerType) CreateCastTo(other TypeInfo) (CastKind, error) {
	switch o := other.(type) {
	case *IntegerType:
		if o.LogName == t.LogName {
			return CastIdentity, nil
		}
		if o.Bits != t.Bits {
			if o.Bits > t.Bits {
				return CastIntWiden, nil
			}
			return CastIntNarrow, nil
		}
		return CastIntSignChange, nil
	case *FloatingType:
		return CastIntToFloat, nil
	default:
		return 0, errors.Errorf("cannot cast %s to %s", t.Name(), other.Name())
	}
}

// CreateCastTo implements §3.2's create_cast_to for floating primitives.
func (t *FloatingType) CreateCastTo(other TypeInfo) (CastKind, error) {
	switch o := other.(type) {
	case *FloatingType:
		if o.LogName == t.LogName {
			return CastIdentity, nil
		}
		if o.Bits > t.Bits {
			return CastFloatWiden, nil
		}
		return CastFloatNarrow, nil
	case *IntegerType:
		return CastFloatToInt, nil
	default:
		return 0, errors.Errorf("cannot cast %s to %s", t.Name(), other.Name())
	}
}
