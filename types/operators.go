package types

import "github.com/pkg/errors"

// Operator enumerates every operator the type system resolves (§3.4/§4.2).
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpShl
	OpShr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpLogAnd
	OpLogOr
	OpLogNot
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpPreInc
	OpPostInc
	OpPreDec
	OpPostDec
)

// OperatorSet is a bitset of supported Operators, one bit per Operator id.
type OperatorSet uint32

func setOf(ops ...Operator) OperatorSet {
	var s OperatorSet
	for _, op := range ops {
		s |= 1 << uint(op)
	}
	return s
}

func (s OperatorSet) Has(op Operator) bool {
	return s&(1<<uint(op)) != 0
}

// arithmeticOps/comparisonOps/etc. are named subsets of the operator ids,
// used to build each primitive's bitset (§3.4).
var (
	arithmeticOps  = []Operator{OpAdd, OpSub, OpMul, OpDiv, OpRem}
	comparisonOps  = []Operator{OpEq, OpNe, OpLt, OpLe, OpGt, OpGe}
	bitwiseOps     = []Operator{OpBitAnd, OpBitOr, OpBitXor, OpBitNot}
	shiftOps       = []Operator{OpShl, OpShr}
	incDecOps      = []Operator{OpPreInc, OpPostInc, OpPreDec, OpPostDec}
	booleanOps     = []Operator{OpLogAnd, OpLogOr, OpLogNot}
	allIntegerOps  = setOf(concatOps(arithmeticOps, comparisonOps, bitwiseOps, shiftOps, incDecOps)...)
	allFloatingOps = setOf(concatOps(arithmeticOps, comparisonOps, incDecOps)...)
	allBoolOps     = setOf(append(append([]Operator{}, booleanOps...), OpEq, OpNe)...)
	allStringOps   = OperatorSet(0)
)

func concatOps(groups ...[]Operator) []Operator {
	var out []Operator
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func isComparison(op Operator) bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

func isBoolean(op Operator) bool {
	switch op {
	case OpLogAnd, OpLogOr:
		return true
	}
	return false
}

func isBitwise(op Operator) bool {
	switch op {
	case OpBitAnd, OpBitOr, OpBitXor:
		return true
	}
	return false
}

func isShift(op Operator) bool {
	return op == OpShl || op == OpShr
}

// EvaluateBinary resolves a binary operator against its operands following
// §4.2: pick the "wider" side by one-way assignability, check operator
// support (promoting if needed), and special-case comparison/boolean/
// bitwise/shift result types. It returns the result type and the common
// operand type both operands are implicitly cast to (never nil on
// success; bool for the boolean operators).
func EvaluateBinary(op Operator, lhs, rhs TypeInfo) (result TypeInfo, implicitCast TypeInfo, err error) {
	if isBoolean(op) {
		if !Bool.IsImplicitlyAssignableFrom(lhs) || !Bool.IsImplicitlyAssignableFrom(rhs) {
			return nil, nil, errors.Errorf("operator %v requires bool operands, got %s and %s", op, lhs.Name(), rhs.Name())
		}
		return Bool, Bool, nil
	}

	if isBitwise(op) {
		if lhs.Kind() == KindBoolPrimitive || rhs.Kind() == KindBoolPrimitive || lhs.Kind() == KindBoolConstant || rhs.Kind() == KindBoolConstant {
			return nil, nil, errors.Errorf("bitwise operator %v not defined on bool", op)
		}
	}

	chosen, err := widerOperand(lhs, rhs)
	if err != nil {
		return nil, nil, err
	}

	if isShift(op) {
		// Shift note: `>>` is taken as a logical (unsigned) shift for every
		// integer type, as in the original. Only the result type is decided
		// here; nothing in this package tells logical from arithmetic shifts.
		if chosen.Kind() == KindBoolPrimitive || chosen.Kind() == KindFloatingPrimitive {
			return nil, nil, errors.Errorf("shift operator %v not defined on %s", op, chosen.Name())
		}
		if !Int32.IsImplicitlyAssignableFrom(rhs) {
			return nil, nil, errors.Errorf("shift amount must be assignable to int32, got %s", rhs.Name())
		}
		return chosen, chosen, nil
	}

	cast, err := supportOrPromote(op, chosen)
	if err != nil {
		return nil, nil, err
	}

	if isComparison(op) {
		return Bool, cast, nil
	}
	return cast, cast, nil
}

// widerOperand picks the operand type that the other one-way converts
// into, per §4.2.1: prefer `rhs` if `rhs <- lhs` holds, else `lhs` if
// `lhs <- rhs` holds, else the operands simply don't combine.
func widerOperand(lhs, rhs TypeInfo) (TypeInfo, error) {
	if rhs.IsImplicitlyAssignableFrom(lhs) {
		return rhs, nil
	}
	if lhs.IsImplicitlyAssignableFrom(rhs) {
		return lhs, nil
	}
	return nil, errors.Errorf("operands %s and %s cannot be combined", lhs.Name(), rhs.Name())
}

// supportOrPromote returns t itself if it supports op directly, or the
// type t implicitly promotes to in order to support op.
func supportOrPromote(op Operator, t TypeInfo) (TypeInfo, error) {
	if t.SupportsOperator(op) {
		return t, nil
	}
	if p, ok := t.(PromotesForOperator); ok {
		if promoted, ok := p.PromoteForOperator(op); ok {
			return promoted, nil
		}
	}
	return nil, errors.Errorf("operator %v not defined for %s", op, t.Name())
}

// EvaluateUnary resolves a unary operator against its single operand
// (§4.2). isLValue must be true for ++/-- since they mutate storage.
func EvaluateUnary(op Operator, operand TypeInfo, isLValue bool) (TypeInfo, error) {
	switch op {
	case OpLogNot:
		if !Bool.IsImplicitlyAssignableFrom(operand) {
			return nil, errors.Errorf("! requires a bool operand, got %s", operand.Name())
		}
		return Bool, nil
	case OpBitNot:
		if !isIntegerish(operand) {
			return nil, errors.Errorf("~ requires an integer operand, got %s", operand.Name())
		}
		return operand, nil
	case OpPreInc, OpPostInc, OpPreDec, OpPostDec:
		if !isIntegerish(operand) && operand.Kind() != KindFloatingPrimitive && operand.Kind() != KindFloatingConstant {
			return nil, errors.Errorf("%v requires an integer or floating operand, got %s", op, operand.Name())
		}
		if !isLValue {
			return nil, errors.Errorf("%v requires an lvalue operand", op)
		}
		return operand, nil
	default:
		return nil, errors.Errorf("%v is not a unary operator", op)
	}
}

func isIntegerish(t TypeInfo) bool {
	switch t.Kind() {
	case KindIntegerPrimitive, KindIntegerConstant:
		return true
	}
	return false
}
