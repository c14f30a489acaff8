package types

// IntegerType is a sized, signed-or-not integer primitive. Name identifies
// the logical type ("int32", "byte", "charbyte", "char", ...): several
// logical names share the same (bits, signed) pair but are not
// interchangeable (byte and charbyte are both 8-bit unsigned, but §3.3
// assigns them different source operands).
type IntegerType struct {
	Bits    int
	Signed  bool
	LogName string
}

func (t *IntegerType) Kind() Kind   { return KindIntegerPrimitive }
func (t *IntegerType) Name() string { return t.LogName }

func (t *IntegerType) IsLegalForAssignment() bool { return true }

func (t *IntegerType) SameType(other TypeInfo) bool {
	o, ok := other.(*IntegerType)
	return ok && o.LogName == t.LogName
}

func (t *IntegerType) SerializedName() string { return t.LogName }

func (t *IntegerType) SupportsOperator(op Operator) bool {
	return allIntegerOps.Has(op)
}

func (t *IntegerType) DefaultValue() ConstantValue {
	return ConstantValue{Kind: KindIntegerConstant, Int: 0}
}

func (t *IntegerType) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	set, ok := integerAssignability[t.LogName]
	if !ok {
		return false
	}
	if _, isConst := other.(*IntegerConstant); isConst {
		// Family-level acceptance only; whether the literal's value
		// actually fits is an Overflow check the driver runs separately
		// when it narrows the constant into this declared type, so that
		// an out-of-range literal reports Overflow rather than a generic
		// TypeMismatch (§8.3).
		return set.constants
	}
	if _, isChar := other.(*CharConstant); isChar {
		// charbyte and char additionally accept a character literal
		// directly, independent of the general integer-constant family
		// flag (§3.3: "charbyte <- {charbyte, CharConstant}", "char <-
		// {char, CharConstant}").
		return t.LogName == "charbyte" || t.LogName == "char"
	}
	o, ok := other.(*IntegerType)
	if !ok {
		return false
	}
	for _, from := range set.from {
		if from == o.LogName {
			return true
		}
	}
	return false
}

type integerSourceSet struct {
	from      []string
	constants bool
}

// integerAssignability is the exhaustive table of §3.3: for each integer
// logical name, which other integer logical names (plus IntegerConstant)
// may flow into it implicitly.
var integerAssignability = map[string]integerSourceSet{
	"int32":    {from: []string{"int32", "byte", "charbyte", "char"}, constants: true},
	"int64":    {from: []string{"int64", "int32", "uint32", "byte", "charbyte", "char"}, constants: true},
	"uint32":   {from: []string{"uint32", "byte", "charbyte", "char"}, constants: true},
	"uint64":   {from: []string{"uint64", "uint32", "byte", "charbyte", "char"}, constants: true},
	"byte":     {from: []string{"byte", "charbyte"}, constants: true},
	"charbyte": {from: []string{"charbyte"}, constants: false},
	"char":     {from: []string{"char"}, constants: false},
}

// FloatingType is a 32- or 64-bit floating point primitive.
type FloatingType struct {
	Bits    int
	LogName string
}

func (t *FloatingType) Kind() Kind   { return KindFloatingPrimitive }
func (t *FloatingType) Name() string { return t.LogName }

func (t *FloatingType) IsLegalForAssignment() bool { return true }

func (t *FloatingType) SameType(other TypeInfo) bool {
	o, ok := other.(*FloatingType)
	return ok && o.LogName == t.LogName
}

func (t *FloatingType) SerializedName() string { return t.LogName }

func (t *FloatingType) SupportsOperator(op Operator) bool {
	return allFloatingOps.Has(op)
}

func (t *FloatingType) DefaultValue() ConstantValue {
	return ConstantValue{Kind: KindFloatingConstant, Float: 0}
}

// floatingAssignability lists the non-constant sources (integer and
// floating primitives) each floating type accepts (§3.3); floating-constants and integer-constants
// are handled separately below since they widen by value, not by name.
var floatingAssignability = map[string][]string{
	"float":   {"float", "byte", "int32", "uint32", "int64", "uint64", "charbyte", "char"},
	"float64": {"float64", "float", "byte", "int32", "uint32", "int64", "uint64", "charbyte", "char"},
}

func (t *FloatingType) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	switch o := other.(type) {
	case *FloatingConstant:
		if t.LogName == "float" {
			return o.FitsInFloat32
		}
		return true
	case *IntegerConstant:
		return true
	case *IntegerType:
		for _, from := range floatingAssignability[t.LogName] {
			if from == o.LogName {
				return true
			}
		}
		return false
	case *FloatingType:
		for _, from := range floatingAssignability[t.LogName] {
			if from == o.LogName {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// BoolType is the sole boolean primitive.
type BoolType struct{}

func (t *BoolType) Kind() Kind                         { return KindBoolPrimitive }
func (t *BoolType) Name() string                       { return "bool" }
func (t *BoolType) IsLegalForAssignment() bool         { return true }
func (t *BoolType) SerializedName() string             { return "bool" }
func (t *BoolType) SupportsOperator(op Operator) bool  { return allBoolOps.Has(op) }
func (t *BoolType) DefaultValue() ConstantValue        { return ConstantValue{Kind: KindBoolConstant, Bool: false} }
func (t *BoolType) SameType(other TypeInfo) bool {
	_, ok := other.(*BoolType)
	return ok
}
func (t *BoolType) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	switch other.(type) {
	case *BoolType, *BoolConstant:
		return true
	default:
		return false
	}
}

// StringType is the sole string primitive. It is only assignable from a
// string constant (§3.3): the source language has no runtime string
// concatenation or conversion operators yet (§3.4 reserves `+`).
type StringType struct{}

func (t *StringType) Kind() Kind                        { return KindStringPrimitive }
func (t *StringType) Name() string                      { return "string" }
func (t *StringType) IsLegalForAssignment() bool        { return true }
func (t *StringType) SerializedName() string            { return "string" }
func (t *StringType) SupportsOperator(op Operator) bool { return allStringOps.Has(op) }
func (t *StringType) DefaultValue() ConstantValue       { return ConstantValue{Kind: KindStringConstant, Str: ""} }
func (t *StringType) SameType(other TypeInfo) bool {
	_, ok := other.(*StringType)
	return ok
}
func (t *StringType) IsImplicitlyAssignableFrom(other TypeInfo) bool {
	switch other.(type) {
	case *StringType, *StringConstant:
		return true
	default:
		return false
	}
}

// Singleton primitive instances. The driver and tests share these rather
// than constructing fresh structs, which makes the common case of
// comparing "is this the int32 type" a pointer-cheap SameType check.
var (
	Int32    = &IntegerType{Bits: 32, Signed: true, LogName: "int32"}
	Int64    = &IntegerType{Bits: 64, Signed: true, LogName: "int64"}
	UInt32   = &IntegerType{Bits: 32, Signed: false, LogName: "uint32"}
	UInt64   = &IntegerType{Bits: 64, Signed: false, LogName: "uint64"}
	Byte     = &IntegerType{Bits: 8, Signed: false, LogName: "byte"}
	CharByte = &IntegerType{Bits: 8, Signed: false, LogName: "charbyte"}
	Char     = &IntegerType{Bits: 16, Signed: false, LogName: "char"}

	Float   = &FloatingType{Bits: 32, LogName: "float"}
	Float64 = &FloatingType{Bits: 64, LogName: "float64"}

	Bool            = &BoolType{}
	StringPrimitive = &StringType{}
)

// ByName resolves a primitive's keyword spelling (§6.4) to its singleton,
// including the "int"/"uint" aliases for int32/uint32.
func ByName(name string) (TypeInfo, bool) {
	switch name {
	case "int32", "int":
		return Int32, true
	case "int64":
		return Int64, true
	case "uint32", "uint":
		return UInt32, true
	case "uint64":
		return UInt64, true
	case "byte":
		return Byte, true
	case "charbyte":
		return CharByte, true
	case "char":
		return Char, true
	case "float":
		return Float, true
	case "float64":
		return Float64, true
	case "bool":
		return Bool, true
	case "string":
		return StringPrimitive, true
	default:
		return nil, false
	}
}
