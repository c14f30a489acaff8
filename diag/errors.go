package diag

import "fmt"

// Kind enumerates the error taxonomy of spec.md §7. It is the thing code
// inside this module switches on; the formatted message is for humans.
type Kind int

const (
	TypeMismatch Kind = iota
	TypeAlreadyExists
	NoMatchingFunctionSignature
	OperationNotDefined
	SymbolAlreadyDefinedInThisScope
	SymbolNotDefined
	SymbolWrongType
	SymbolNotAccessable
	VariablesMustBeInitialized
	VariablesCannotBeDeclaredOutsideScopesOrFunctions
	UninitializedVariableReferenced
	CannotReinitializeMember
	ValueTypeMustBeInitialized
	BreakInWrongPlace
	ContinueInWrongPlace
	ExpectedValueType
	Overflow
	UnknownControlCharacter
	NonStaticMemberFromStaticContext
	ReturnStatementMustBeDeclaredInFunctionScope
	FunctionMustBeDeclaredInClassScope
	CannotReferenceUnsafeMemberFromSafeContext
)

var kindNames = map[Kind]string{
	TypeMismatch:                       "TypeMismatch",
	TypeAlreadyExists:                  "TypeAlreadyExists",
	NoMatchingFunctionSignature:        "NoMatchingFunctionSignature",
	OperationNotDefined:                "OperationNotDefined",
	SymbolAlreadyDefinedInThisScope:    "SymbolAlreadyDefinedInThisScope",
	SymbolNotDefined:                   "SymbolNotDefined",
	SymbolWrongType:                    "SymbolWrongType",
	SymbolNotAccessable:                "SymbolNotAccessable",
	VariablesMustBeInitialized:         "VariablesMustBeInitialized",
	VariablesCannotBeDeclaredOutsideScopesOrFunctions: "VariablesCannotBeDeclaredOutsideScopesOrFunctions",
	UninitializedVariableReferenced:    "UninitializedVariableReferenced",
	CannotReinitializeMember:           "CannotReinitializeMember",
	ValueTypeMustBeInitialized:         "ValueTypeMustBeInitialized",
	BreakInWrongPlace:                  "BreakInWrongPlace",
	ContinueInWrongPlace:               "ContinueInWrongPlace",
	ExpectedValueType:                  "ExpectedValueType",
	Overflow:                           "Overflow",
	UnknownControlCharacter:            "UnknownControlCharacter",
	NonStaticMemberFromStaticContext:   "NonStaticMemberFromStaticContext",
	ReturnStatementMustBeDeclaredInFunctionScope: "ReturnStatementMustBeDeclaredInFunctionScope",
	FunctionMustBeDeclaredInClassScope: "FunctionMustBeDeclaredInClassScope",
	CannotReferenceUnsafeMemberFromSafeContext:  "CannotReferenceUnsafeMemberFromSafeContext",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UnknownErrorKind"
}

// Error is the single error type the core ever constructs. It always
// carries the kind and the location active when it was raised; the driver
// is the only thing that formats it for a human.
type Error struct {
	Kind     Kind
	Location Location
	Subject  string // symbol name, member name, etc. — whatever the kind names
	Detail   string // optional extra context, e.g. "wanted int32, got string"
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s(%s): %s: %s (%s)", "<file>", e.Location, e.Kind, e.Subject, e.Detail)
	}
	return fmt.Sprintf("%s(%s): %s: %s", "<file>", e.Location, e.Kind, e.Subject)
}

// New constructs an *Error at loc. The ast and symbols packages return it
// unwrapped, so a concrete Kind is always there to switch on; typecheck and
// serialize wrap it with github.com/pkg/errors to name the pass or the
// imported symbol, and As still finds it under that wrap.
func New(kind Kind, loc Location, subject string) *Error {
	return &Error{Kind: kind, Location: loc, Subject: subject}
}

// Newf is New with a formatted Detail.
func Newf(kind Kind, loc Location, subject, detailFmt string, args ...any) *Error {
	return &Error{Kind: kind, Location: loc, Subject: subject, Detail: fmt.Sprintf(detailFmt, args...)}
}

// As reports whether err (or something it wraps) is a *Error, mirroring
// the errors.As idiom this module's callers use against
// github.com/pkg/errors-wrapped returns.
func As(err error) (*Error, bool) {
	type causer interface{ Cause() error }
	for err != nil {
		if de, ok := err.(*Error); ok {
			return de, true
		}
		c, ok := err.(causer)
		if !ok {
			return nil, false
		}
		err = c.Cause()
	}
	return nil, false
}
