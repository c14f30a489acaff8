package ast

import (
	"testing"

	"github.com/arc-lang/ruddyc/diag"
	"github.com/arc-lang/ruddyc/symbols"
	"github.com/arc-lang/ruddyc/types"
)

var fourPasses = []symbols.Pass{
	symbols.ClassAndNamespaceDeclarations,
	symbols.ClassVariables,
	symbols.MethodDeclarations,
	symbols.MethodBodies,
}

func runAllPasses(tbl *symbols.Table, root *GlobalStatements) error {
	for _, pass := range fourPasses {
		if err := root.TypeCheck(tbl, pass); err != nil {
			return err
		}
	}
	return nil
}

// TestForwardClassReferenceAndNoArgCtorRescue exercises §4.1's forward
// reference rule and §4.4's no-arg-ctor rescue together: Wrapper is
// declared before Empty (the class it references) and never lists its
// value-class member in an initializer list, relying on Empty's
// synthesized no-arg constructor.
func TestForwardClassReferenceAndNoArgCtorRescue(t *testing.T) {
	classWrapper := NewClassDeclaration(loc0, symbols.Public, "Wrapper", []Stmt{
		NewMemberVariableDeclaration(loc0, symbols.Public, types.Modifiers{},
			&types.UnresolvedClassType{ClassName: "Empty", IsValueType: true}, "item"),
	})
	classEmpty := NewClassDeclaration(loc0, symbols.Public, "Empty", nil)

	root := NewGlobalStatements(loc0, classWrapper, NewGlobalStatements(loc0, classEmpty, nil))
	tbl := symbols.NewTable()
	if err := runAllPasses(tbl, root); err != nil {
		t.Fatalf("runAllPasses: %v", err)
	}

	if len(classEmpty.Binding.Ctors) != 1 {
		t.Fatalf("Empty got %d ctors, want 1 synthesized", len(classEmpty.Binding.Ctors))
	}
	if classEmpty.Binding.Dtor == nil {
		t.Fatal("Empty should have a synthesized destructor")
	}

	mem := classWrapper.Binding.Members[0]
	ct, ok := mem.Type.(*types.ClassType)
	if !ok {
		t.Fatalf("Wrapper.item type = %T, want *types.ClassType (resolved)", mem.Type)
	}
	if ct.Decl != classEmpty.Binding.Decl {
		t.Fatal("Wrapper.item did not resolve to Empty's declaration identity")
	}
	if len(classWrapper.Binding.Ctors) != 1 {
		t.Fatalf("Wrapper got %d ctors, want 1 synthesized", len(classWrapper.Binding.Ctors))
	}
	if !classWrapper.Binding.Ctors[0].InitializedMembers["item"] {
		t.Fatal("expected the no-arg-ctor rescue to mark item as initialized")
	}
}

// TestValueTypeMustBeInitializedWithoutRescue exercises the failure side of
// the same rule: NeedsArg has only a one-arg constructor, so Holder2's
// synthesized ctor has no rescue available for its value-class member.
func TestValueTypeMustBeInitializedWithoutRescue(t *testing.T) {
	classNeedsArg := NewClassDeclaration(loc0, symbols.Public, "NeedsArg", []Stmt{
		NewConstructorDeclaration(loc0, symbols.Public,
			&ArgumentList{Arg: Argument{Loc: loc0, Type: types.Int32, Name: "v"}}, nil, nil),
	})
	classHolder := NewClassDeclaration(loc0, symbols.Public, "Holder2", []Stmt{
		NewMemberVariableDeclaration(loc0, symbols.Public, types.Modifiers{},
			&types.UnresolvedClassType{ClassName: "NeedsArg", IsValueType: true}, "needs"),
	})

	root := NewGlobalStatements(loc0, classNeedsArg, NewGlobalStatements(loc0, classHolder, nil))
	tbl := symbols.NewTable()
	err := runAllPasses(tbl, root)
	if err == nil {
		t.Fatal("expected ValueTypeMustBeInitialized error")
	}
	if de, ok := diag.As(err); !ok || de.Kind != diag.ValueTypeMustBeInitialized {
		t.Fatalf("got %v, want ValueTypeMustBeInitialized", err)
	}
}

func TestCannotReinitializeMember(t *testing.T) {
	valueType := &types.UnresolvedClassType{ClassName: "Val", IsValueType: true}
	inits := &InitializerList{
		This: &Initializer{Loc: loc0, Name: "Value", Expr: NewReference(loc0, "v")},
		Next: &InitializerList{
			This: &Initializer{Loc: loc0, Name: "Value", Expr: NewReference(loc0, "v")},
		},
	}
	classVal := NewClassDeclaration(loc0, symbols.Public, "Val", nil)
	classDup := NewClassDeclaration(loc0, symbols.Public, "Dup", []Stmt{
		NewMemberVariableDeclaration(loc0, symbols.Public, types.Modifiers{}, valueType, "Value"),
		NewConstructorDeclaration(loc0, symbols.Public,
			&ArgumentList{Arg: Argument{Loc: loc0, Type: valueType, Name: "v"}}, inits, nil),
	})

	root := NewGlobalStatements(loc0, classVal, NewGlobalStatements(loc0, classDup, nil))
	tbl := symbols.NewTable()
	err := runAllPasses(tbl, root)
	if err == nil {
		t.Fatal("expected CannotReinitializeMember error")
	}
	if de, ok := diag.As(err); !ok || de.Kind != diag.CannotReinitializeMember {
		t.Fatalf("got %v, want CannotReinitializeMember", err)
	}
}

// TestInitializerRejectsPrimitiveMember exercises §4.4's restriction that
// an initializer-list entry may only target a value-class member: a
// primitive field must be assigned in the constructor body instead.
func TestInitializerRejectsPrimitiveMember(t *testing.T) {
	classPrim := NewClassDeclaration(loc0, symbols.Public, "Prim", []Stmt{
		NewMemberVariableDeclaration(loc0, symbols.Public, types.Modifiers{}, types.Int32, "Value"),
		NewConstructorDeclaration(loc0, symbols.Public,
			&ArgumentList{Arg: Argument{Loc: loc0, Type: types.Int32, Name: "v"}},
			&InitializerList{This: &Initializer{Loc: loc0, Name: "Value", Expr: NewReference(loc0, "v")}},
			nil),
	})
	root := NewGlobalStatements(loc0, classPrim, nil)
	tbl := symbols.NewTable()
	err := runAllPasses(tbl, root)
	if err == nil {
		t.Fatal("expected ExpectedValueType error")
	}
	if de, ok := diag.As(err); !ok || de.Kind != diag.ExpectedValueType {
		t.Fatalf("got %v, want ExpectedValueType", err)
	}
}

// TestInitializerRejectsReferenceClassMember covers the other half of the
// same rule: a reference-class (IsValueType false) member can't be
// targeted by an initializer-list entry either.
func TestInitializerRejectsReferenceClassMember(t *testing.T) {
	refType := &types.UnresolvedClassType{ClassName: "Ref", IsValueType: false}
	classRef := NewClassDeclaration(loc0, symbols.Public, "Ref", nil)
	classHolder := NewClassDeclaration(loc0, symbols.Public, "RefHolder", []Stmt{
		NewMemberVariableDeclaration(loc0, symbols.Public, types.Modifiers{}, refType, "item"),
		NewConstructorDeclaration(loc0, symbols.Public,
			&ArgumentList{Arg: Argument{Loc: loc0, Type: refType, Name: "v"}},
			&InitializerList{This: &Initializer{Loc: loc0, Name: "item", Expr: NewReference(loc0, "v")}},
			nil),
	})
	root := NewGlobalStatements(loc0, classRef, NewGlobalStatements(loc0, classHolder, nil))
	tbl := symbols.NewTable()
	err := runAllPasses(tbl, root)
	if err == nil {
		t.Fatal("expected ExpectedValueType error")
	}
	if de, ok := diag.As(err); !ok || de.Kind != diag.ExpectedValueType {
		t.Fatalf("got %v, want ExpectedValueType", err)
	}
}

func TestAmbiguousZeroArgConstructorsConflict(t *testing.T) {
	classAmb := NewClassDeclaration(loc0, symbols.Public, "Amb", []Stmt{
		NewConstructorDeclaration(loc0, symbols.Public, nil, nil, nil),
		NewConstructorDeclaration(loc0, symbols.Public, nil, nil, nil),
	})
	root := NewGlobalStatements(loc0, classAmb, nil)
	tbl := symbols.NewTable()
	err := runAllPasses(tbl, root)
	if err == nil {
		t.Fatal("expected ambiguous-constructor error")
	}
	if de, ok := diag.As(err); !ok || de.Kind != diag.SymbolAlreadyDefinedInThisScope {
		t.Fatalf("got %v, want SymbolAlreadyDefinedInThisScope", err)
	}
}

func TestConstructorInitializerAssignsMemberAndEvaluatesBody(t *testing.T) {
	classBox := NewClassDeclaration(loc0, symbols.Public, "Box", []Stmt{
		NewMemberVariableDeclaration(loc0, symbols.Public, types.Modifiers{}, types.Int32, "Value"),
		NewConstructorDeclaration(loc0, symbols.Public,
			&ArgumentList{Arg: Argument{Loc: loc0, Type: types.Int32, Name: "v"}},
			nil,
			NewLineStatements(loc0,
				NewAssignment(loc0, &AssignFrom{This: &ReferenceTarget{Loc: loc0, Path: "this.Value"}}, NewReference(loc0, "v")),
				nil)),
		NewFunctionDeclaration(loc0, symbols.Public, types.Modifiers{}, "Get",
			&ArgumentList{Arg: Argument{Loc: loc0, Type: types.Int32, Name: "result"}}, nil,
			NewLineStatements(loc0, NewReturnStatement(loc0, NewReference(loc0, "this.Value")), nil)),
	})
	root := NewGlobalStatements(loc0, classBox, nil)
	tbl := symbols.NewTable()
	if err := runAllPasses(tbl, root); err != nil {
		t.Fatalf("runAllPasses: %v", err)
	}
	if len(classBox.Binding.Ctors) != 1 {
		t.Fatalf("got %d ctors, want 1 (no synthesis since one is declared)", len(classBox.Binding.Ctors))
	}
	if classBox.Binding.Ctors[0].External {
		t.Fatal("source-declared ctor must not be External")
	}
}
