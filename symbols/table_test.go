package symbols

import (
	"testing"

	"github.com/arc-lang/ruddyc/diag"
	"github.com/arc-lang/ruddyc/types"
)

func valueClassType(t *testing.T, name string) *types.ClassType {
	t.Helper()
	decl := &types.ClassDeclarationType{ClassName: name, FullyQualifiedName: name}
	return &types.ClassType{Decl: decl, IsValueType: true}
}

func TestBindVariableRejectsShadowingInSameScope(t *testing.T) {
	tbl := NewTable()
	tbl.Enter()
	if _, err := tbl.BindVariable(diag.Location{}, "x", types.Int32); err != nil {
		t.Fatalf("first bind: %v", err)
	}
	if _, err := tbl.BindVariable(diag.Location{}, "x", types.Int32); err == nil {
		t.Fatal("expected SymbolAlreadyDefinedInThisScope on redeclare")
	}
	tbl.Enter()
	if _, err := tbl.BindVariable(diag.Location{}, "x", types.Int32); err != nil {
		t.Fatalf("shadow in nested scope should succeed: %v", err)
	}
	tbl.Exit()
	tbl.Exit()
}

func TestExitCollectsValueClassDestructorsInReverseOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Enter()
	aTy := valueClassType(t, "A")
	if _, err := tbl.BindVariable(diag.Location{}, "a", aTy); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.BindVariable(diag.Location{}, "n", types.Int32); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.BindVariable(diag.Location{}, "b", aTy); err != nil {
		t.Fatal(err)
	}
	dtors := tbl.Exit()
	if len(dtors) != 2 {
		t.Fatalf("expected 2 value-class destructors, got %d", len(dtors))
	}
	if dtors[0].BindingName() != "b" || dtors[1].BindingName() != "a" {
		t.Fatalf("expected reverse declaration order [b, a], got [%s, %s]",
			dtors[0].BindingName(), dtors[1].BindingName())
	}
}

func TestBreakFromCurrentLoopCollectsAcrossNestedScopes(t *testing.T) {
	tbl := NewTable()
	tbl.BindLoop()
	aTy := valueClassType(t, "A")
	if _, err := tbl.BindVariable(diag.Location{}, "outer", aTy); err != nil {
		t.Fatal(err)
	}
	tbl.Enter()
	if _, err := tbl.BindVariable(diag.Location{}, "inner", aTy); err != nil {
		t.Fatal(err)
	}
	dtors, err := tbl.BreakFromCurrentLoop(diag.Location{})
	if err != nil {
		t.Fatal(err)
	}
	if len(dtors) != 2 {
		t.Fatalf("expected 2 destructors visible at break point, got %d", len(dtors))
	}
	if dtors[0].BindingName() != "inner" || dtors[1].BindingName() != "outer" {
		t.Fatalf("unexpected order: %v", dtors)
	}
	tbl.Exit()
	tbl.ExitLoop()
}

func TestBreakOutsideLoopFails(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.BreakFromCurrentLoop(diag.Location{}); err == nil {
		t.Fatal("expected BreakInWrongPlace error outside any loop")
	}
}

func TestBindConstructorRejectsAmbiguousZeroArgOverloads(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.BindClass(diag.Location{}, "A", Public, ClassAndNamespaceDeclarations); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.BindConstructor(diag.Location{}, &types.FunctionType{}); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.BindConstructor(diag.Location{}, &types.FunctionType{}); err == nil {
		t.Fatal("expected ambiguous zero-arg constructor to be rejected")
	}
}

func TestBindConstructorAcceptsDistinctSignatures(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.BindClass(diag.Location{}, "A", Public, ClassAndNamespaceDeclarations); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.BindConstructor(diag.Location{}, &types.FunctionType{}); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.BindConstructor(diag.Location{}, &types.FunctionType{Input: types.Int32}); err != nil {
		t.Fatalf("distinct signature should not collide: %v", err)
	}
}

func TestLookupResolvesMemberThroughNamespaceAndVisibility(t *testing.T) {
	tbl := NewTable()
	tbl.BindNamespace("pkg")
	if _, err := tbl.BindClass(diag.Location{}, "A", Public, ClassAndNamespaceDeclarations); err != nil {
		t.Fatal(err)
	}
	cb, _ := tbl.CurrentClass()
	if _, err := tbl.BindMemberVariable(diag.Location{}, "count", Public, types.Modifiers{}, types.Int32); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.BindMemberVariable(diag.Location{}, "secret", Private, types.Modifiers{}, types.Int32); err != nil {
		t.Fatal(err)
	}

	ct := &types.ClassType{Decl: cb.Decl, IsValueType: false}
	tbl.Enter()
	if _, err := tbl.BindVariable(diag.Location{}, "obj", ct); err != nil {
		t.Fatal(err)
	}

	b, err := tbl.Lookup(diag.Location{}, "obj.count")
	if err != nil {
		t.Fatalf("expected public member lookup to succeed: %v", err)
	}
	mi, ok := b.(*MemberInstance)
	if !ok || mi.Member.BindingName() != "count" {
		t.Fatalf("expected MemberInstance(count), got %#v", b)
	}

	tbl.ExitClass()
	tbl.ExitNamespace()

	if _, err := tbl.Lookup(diag.Location{}, "obj.secret"); err == nil {
		t.Fatal("expected private member to be inaccessible once class scope is left")
	}
	tbl.Exit()
}
