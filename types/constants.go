package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CheckConstantFits is the value-level half of assigning a literal into a
// concrete (non-auto) declared type: IsImplicitlyAssignableFrom only
// checks the type *family* (§3.3), so once the driver knows the exact
// target type of a declaration or assignment it calls this to raise
// diag.Overflow for a literal whose value doesn't actually fit (§8.3).
// target types with no narrowing concern (bool/string/char/auto/class/
// composite/...) always return nil here.
func CheckConstantFits(target TypeInfo, value TypeInfo) error {
	switch t := target.(type) {
	case *IntegerType:
		c, ok := value.(*IntegerConstant)
		if !ok {
			return nil
		}
		if !c.fitsIn(t) {
			return errors.Errorf("integer literal does not fit in %s", t.Name())
		}
		return nil
	case *FloatingType:
		c, ok := value.(*FloatingConstant)
		if !ok {
			return nil
		}
		if t.LogName == "float" && !c.FitsInFloat32 {
			return errors.Errorf("floating literal does not fit in %s", t.Name())
		}
		return nil
	default:
		return nil
	}
}

// ConstantValue is the materialized value behind a constant TypeInfo —
// enough for the driver to hand member/local default-initialization and
// narrowing checks a concrete value without reaching into a concrete
// struct type per call site.
type ConstantValue struct {
	Kind  Kind
	Int   int64
	UInt  uint64
	Float float64
	Bool  bool
	Char  rune
	Str   string
}

// Representation records which literal grammar produced an
// IntegerConstant (§4.5): the three forms narrow differently.
type Representation int

const (
	RepUnsigned Representation = iota
	RepNegativeSigned
	RepHex
)

// IntegerConstant is the TypeInfo of an integer literal before it commits
// to a concrete width/signedness. IsLegalForAssignment is always false —
// a constant only ever appears transiently as an expression's type on its
// way into a declared/assigned storage location (§3.2's invariant).
type IntegerConstant struct {
	Rep      Representation
	Unsigned uint64 // valid for RepUnsigned and RepHex
	Signed   int64  // valid for RepNegativeSigned
}

func (c *IntegerConstant) Kind() Kind                 { return KindIntegerConstant }
func (c *IntegerConstant) Name() string               { return "integer-constant" }
func (c *IntegerConstant) IsLegalForAssignment() bool { return false }
func (c *IntegerConstant) SerializedName() string     { return "integer-constant" }
func (c *IntegerConstant) SupportsOperator(op Operator) bool {
	return allIntegerOps.Has(op)
}
func (c *IntegerConstant) SameType(other TypeInfo) bool {
	_, ok := other.(*IntegerConstant)
	return ok
}
func (c *IntegerConstant) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	_, ok := other.(*IntegerConstant)
	return ok
}

// magnitude returns the constant's value as a signed 128-bit-safe pair:
// the raw bit pattern and whether it is negative.
func (c *IntegerConstant) magnitude() (uint64, bool) {
	if c.Rep == RepNegativeSigned {
		return uint64(-c.Signed), true
	}
	return c.Unsigned, false
}

// fitsIn reports whether the constant's family-level assignability into
// target (§3.3) also holds at the value level — used by the driver when a
// literal initializes a variable of a concrete (non-auto) integer type, to
// raise Overflow exactly where §8.3 expects it.
func (c *IntegerConstant) fitsIn(target *IntegerType) bool {
	_, err := c.narrowTo(target)
	return err == nil
}

// narrowTo performs the bounds-checked narrowing of §4.5: regular
// literals check numeric range; hex literals additionally require that no
// bit above the target width is set (they are a bit pattern, not a signed
// magnitude).
func (c *IntegerConstant) narrowTo(target *IntegerType) (uint64, error) {
	if c.Rep == RepHex {
		if target.Bits < 64 && c.Unsigned>>uint(target.Bits) != 0 {
			return 0, errors.Errorf("hex literal 0x%x does not fit in %d bits", c.Unsigned, target.Bits)
		}
		return c.Unsigned, nil
	}
	if c.Rep == RepNegativeSigned {
		if !target.Signed {
			return 0, errors.Errorf("negative literal %d cannot fit in unsigned type %s", c.Signed, target.Name())
		}
		min := minForBits(target.Bits)
		if c.Signed < min {
			return 0, errors.Errorf("literal %d overflows %s", c.Signed, target.Name())
		}
		return uint64(c.Signed), nil
	}
	// RepUnsigned
	if target.Signed {
		max := maxSignedForBits(target.Bits)
		if c.Unsigned > uint64(max) {
			return 0, errors.Errorf("literal %d overflows %s", c.Unsigned, target.Name())
		}
		return c.Unsigned, nil
	}
	max := maxUnsignedForBits(target.Bits)
	if c.Unsigned > max {
		return 0, errors.Errorf("literal %d overflows %s", c.Unsigned, target.Name())
	}
	return c.Unsigned, nil
}

func minForBits(bits int) int64 {
	switch bits {
	case 8:
		return math.MinInt8
	case 16:
		return math.MinInt16
	case 32:
		return math.MinInt32
	default:
		return math.MinInt64
	}
}

func maxSignedForBits(bits int) int64 {
	switch bits {
	case 8:
		return math.MaxInt8
	case 16:
		return math.MaxInt16
	case 32:
		return math.MaxInt32
	default:
		return math.MaxInt64
	}
}

func maxUnsignedForBits(bits int) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}
	return (uint64(1) << uint(bits)) - 1
}

// AsInt32, AsInt64, AsUint32, AsUint64 are bounds-checked narrowings used
// by the driver and by round-trip tests (§8.2).
func (c *IntegerConstant) AsInt32() (int32, error) {
	v, err := c.narrowTo(Int32)
	return int32(v), err
}
func (c *IntegerConstant) AsInt64() (int64, error) {
	v, err := c.narrowTo(Int64)
	return int64(v), err
}
func (c *IntegerConstant) AsUint32() (uint32, error) {
	v, err := c.narrowTo(UInt32)
	return uint32(v), err
}
func (c *IntegerConstant) AsUint64() (uint64, error) {
	return c.narrowTo(UInt64)
}

// BestFit implements §4.5's best-fit rule for `let x = <int literal>`:
// int32 is the default, negatives outside int32 widen to int64, and
// magnitudes above int64's range widen to uint64.
func (c *IntegerConstant) BestFit() *IntegerType {
	if c.Rep == RepNegativeSigned {
		if c.Signed >= math.MinInt32 {
			return Int32
		}
		return Int64
	}
	if c.Unsigned <= math.MaxInt32 {
		return Int32
	}
	if c.Unsigned <= math.MaxInt64 {
		return Int64
	}
	return UInt64
}

// ParseIntegerLiteral parses an integer literal's source text into one of
// the three representations of §4.5. Hex detection uses an explicit
// prefix match (see DESIGN.md's Open Question decisions — the original's
// `||` instead of `==` here was dead logic).
func ParseIntegerLiteral(text string) (*IntegerConstant, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		v, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "overflow parsing hex literal %q", text)
		}
		return &IntegerConstant{Rep: RepHex, Unsigned: v}, nil
	}
	if strings.HasPrefix(text, "-") {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "overflow parsing integer literal %q", text)
		}
		return &IntegerConstant{Rep: RepNegativeSigned, Signed: v}, nil
	}
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "overflow parsing integer literal %q", text)
	}
	return &IntegerConstant{Rep: RepUnsigned, Unsigned: v}, nil
}

// FloatingConstant is the TypeInfo of a floating literal. FitsInFloat32
// records whether the double-precision parse also survives a float32
// round trip without overflowing to +/-Inf (§4.5).
type FloatingConstant struct {
	Value         float64
	FitsInFloat32 bool
}

func (c *FloatingConstant) Kind() Kind                 { return KindFloatingConstant }
func (c *FloatingConstant) Name() string               { return "floating-constant" }
func (c *FloatingConstant) IsLegalForAssignment() bool { return false }
func (c *FloatingConstant) SerializedName() string     { return "floating-constant" }
func (c *FloatingConstant) SupportsOperator(op Operator) bool {
	return allFloatingOps.Has(op)
}
func (c *FloatingConstant) SameType(other TypeInfo) bool {
	_, ok := other.(*FloatingConstant)
	return ok
}
func (c *FloatingConstant) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	switch other.(type) {
	case *FloatingConstant, *IntegerConstant:
		return true
	default:
		return false
	}
}

// AsFloat32 returns the float32 narrowing, raising Overflow (via the error
// return) if the value doesn't survive the round trip.
func (c *FloatingConstant) AsFloat32() (float32, error) {
	if !c.FitsInFloat32 {
		return 0, errors.Errorf("literal %v overflows float", c.Value)
	}
	return float32(c.Value), nil
}

// ParseFloatingLiteral parses a floating literal's source text (§4.5).
func ParseFloatingLiteral(text string) (*FloatingConstant, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid floating literal %q", text)
	}
	f32 := float32(v)
	fits := !math.IsInf(float64(f32), 0) || math.IsInf(v, 0)
	return &FloatingConstant{Value: v, FitsInFloat32: fits}, nil
}

// BoolConstant is the TypeInfo of `true`/`false`.
type BoolConstant struct{ Value bool }

func (c *BoolConstant) Kind() Kind                 { return KindBoolConstant }
func (c *BoolConstant) Name() string               { return "bool-constant" }
func (c *BoolConstant) IsLegalForAssignment() bool { return false }
func (c *BoolConstant) SerializedName() string     { return "bool-constant" }
func (c *BoolConstant) SupportsOperator(op Operator) bool {
	return allBoolOps.Has(op)
}
func (c *BoolConstant) SameType(other TypeInfo) bool {
	_, ok := other.(*BoolConstant)
	return ok
}
func (c *BoolConstant) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	_, ok := other.(*BoolConstant)
	return ok
}

// CharConstant is the TypeInfo of a char literal ('x', '\n', '\uXXXX',
// '\xHH'). Value is a full code point up to 16 bits, validated by the
// parser below.
type CharConstant struct{ Value rune }

func (c *CharConstant) Kind() Kind                 { return KindCharConstant }
func (c *CharConstant) Name() string               { return "char-constant" }
func (c *CharConstant) IsLegalForAssignment() bool { return false }
func (c *CharConstant) SerializedName() string     { return "char-constant" }
func (c *CharConstant) SupportsOperator(op Operator) bool {
	return allIntegerOps.Has(op)
}
func (c *CharConstant) SameType(other TypeInfo) bool {
	_, ok := other.(*CharConstant)
	return ok
}
func (c *CharConstant) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	_, ok := other.(*CharConstant)
	return ok
}

// ParseCharLiteral decodes the body of a char literal (without the
// surrounding quotes), supporting \n \r \t \\ \' \0, \uXXXX, and
// \xHH... (up to 16 bits) per §4.5.
func ParseCharLiteral(body string) (*CharConstant, error) {
	if !strings.HasPrefix(body, "\\") {
		r := []rune(body)
		if len(r) != 1 {
			return nil, errors.Errorf("invalid char literal %q", body)
		}
		return &CharConstant{Value: r[0]}, nil
	}
	rest := body[1:]
	switch {
	case rest == "n":
		return &CharConstant{Value: '\n'}, nil
	case rest == "r":
		return &CharConstant{Value: '\r'}, nil
	case rest == "t":
		return &CharConstant{Value: '\t'}, nil
	case rest == "\\":
		return &CharConstant{Value: '\\'}, nil
	case rest == "'":
		return &CharConstant{Value: '\''}, nil
	case rest == "0":
		return &CharConstant{Value: 0}, nil
	case strings.HasPrefix(rest, "u"):
		hex := rest[1:]
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || v > 0xFFFF {
			return nil, errors.Errorf("unicode escape \\u%s out of range", hex)
		}
		return &CharConstant{Value: rune(v)}, nil
	case strings.HasPrefix(rest, "x"):
		hex := rest[1:]
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || v > 0xFFFF {
			return nil, errors.Errorf("hex escape \\x%s out of range", hex)
		}
		return &CharConstant{Value: rune(v)}, nil
	default:
		return nil, errors.Errorf("unknown control character \\%s", rest)
	}
}

// StringConstant is the TypeInfo of a string literal.
type StringConstant struct{ Value string }

func (c *StringConstant) Kind() Kind                        { return KindStringConstant }
func (c *StringConstant) Name() string                      { return "string-constant" }
func (c *StringConstant) IsLegalForAssignment() bool        { return false }
func (c *StringConstant) SerializedName() string            { return "string-constant" }
func (c *StringConstant) SupportsOperator(op Operator) bool  { return allStringOps.Has(op) }
func (c *StringConstant) SameType(other TypeInfo) bool {
	_, ok := other.(*StringConstant)
	return ok
}
func (c *StringConstant) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	_, ok := other.(*StringConstant)
	return ok
}

// BestFitConstant implements §4.3's "for a primitive constant, to its
// best-fit type" rule for `auto` bindings: a value whose type is not
// IsLegalForAssignment (§3.2) is rebound to the concrete primitive it
// actually denotes. IntegerConstant is the only one with more than one
// candidate width (IntegerConstant.BestFit); the rest have exactly one
// primitive they can mean. Anything already legal for assignment (or not
// a constant at all) passes through unchanged.
func BestFitConstant(value TypeInfo) TypeInfo {
	switch c := value.(type) {
	case *IntegerConstant:
		return c.BestFit()
	case *FloatingConstant:
		return Float64
	case *BoolConstant:
		return Bool
	case *CharConstant:
		return Char
	case *StringConstant:
		return StringPrimitive
	default:
		return value
	}
}
