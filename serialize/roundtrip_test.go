package serialize

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/arc-lang/ruddyc/ast"
	"github.com/arc-lang/ruddyc/diag"
	"github.com/arc-lang/ruddyc/symbols"
	"github.com/arc-lang/ruddyc/types"
	"github.com/arc-lang/ruddyc/typecheck"
)

var loc0 = diag.Location{Line: 1, Column: 1}

// TestExportImportRoundTripsPublicSurface builds a two-class library
// (Point with a public field and a public method, Path with a value-class
// member of Point set from its constructor's argument), exports it, marshals/unmarshals through JSON, and
// imports it into a fresh table, checking the re-imported surface matches
// what the source compilation produced (§4.6).
func TestExportImportRoundTripsPublicSurface(t *testing.T) {
	classPoint := ast.NewClassDeclaration(loc0, symbols.Public, "Point", []ast.Stmt{
		ast.NewMemberVariableDeclaration(loc0, symbols.Public, types.Modifiers{}, types.Int32, "X"),
		ast.NewConstructorDeclaration(loc0, symbols.Public,
			&ast.ArgumentList{Arg: ast.Argument{Loc: loc0, Type: types.Int32, Name: "x"}},
			nil,
			ast.NewLineStatements(loc0,
				ast.NewAssignment(loc0, &ast.AssignFrom{This: &ast.ReferenceTarget{Loc: loc0, Path: "this.X"}}, ast.NewReference(loc0, "x")),
				nil)),
		ast.NewFunctionDeclaration(loc0, symbols.Public, types.Modifiers{}, "GetX",
			&ast.ArgumentList{Arg: ast.Argument{Loc: loc0, Type: types.Int32, Name: "result"}}, nil,
			ast.NewLineStatements(loc0, ast.NewReturnStatement(loc0, ast.NewReference(loc0, "this.X")), nil)),
	})
	classPath := ast.NewClassDeclaration(loc0, symbols.Public, "Path", []ast.Stmt{
		ast.NewMemberVariableDeclaration(loc0, symbols.Public, types.Modifiers{},
			&types.UnresolvedClassType{ClassName: "Point", IsValueType: true}, "origin"),
		ast.NewConstructorDeclaration(loc0, symbols.Public,
			&ast.ArgumentList{Arg: ast.Argument{Loc: loc0, Type: &types.UnresolvedClassType{ClassName: "Point", IsValueType: true}, Name: "p"}},
			&ast.InitializerList{This: &ast.Initializer{Loc: loc0, Name: "origin", Expr: ast.NewReference(loc0, "p")}},
			nil),
	})

	root := ast.NewGlobalStatements(loc0, classPoint, ast.NewGlobalStatements(loc0, classPath, nil))
	if _, err := typecheck.Run(root); err != nil {
		t.Fatalf("typecheck.Run: %v", err)
	}

	lib := Export("geometry", nil, []*symbols.ClassBinding{classPoint.Binding, classPath.Binding})
	data, err := Marshal(lib)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	reloaded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	tbl := symbols.NewTable()
	if err := Import(tbl, reloaded); err != nil {
		t.Fatalf("Import: %v", err)
	}

	pointCB, ok := tbl.ClassBindingFor(classPoint.Binding.Decl)
	if !ok {
		t.Fatal("Point was not re-registered by Import")
	}
	if len(pointCB.Ctors) != 1 {
		t.Fatalf("re-imported Point has %d ctors, want 1", len(pointCB.Ctors))
	}
	if !pointCB.Ctors[0].External {
		t.Fatal("re-imported ctor must be marked External")
	}
	if pointCB.Dtor == nil {
		t.Fatal("re-imported Point is missing its destructor binding")
	}
	if len(pointCB.Members) != 1 || pointCB.Members[0].BindingName() != "X" {
		t.Fatalf("re-imported Point members = %# v, want [X]", pretty.Formatter(pointCB.Members))
	}
	if _, ok := pointCB.Funcs["GetX"]; !ok {
		t.Fatal("re-imported Point is missing method GetX")
	}

	pathCB, ok := tbl.ClassBindingFor(classPath.Binding.Decl)
	if !ok {
		t.Fatal("Path was not re-registered by Import")
	}
	mem := pathCB.Members[0]
	uct, ok := mem.Type.(*types.UnresolvedClassType)
	if !ok {
		t.Fatalf("re-imported Path.origin type = %T, want *types.UnresolvedClassType", mem.Type)
	}
	if uct.ClassName != classPoint.Binding.Decl.FullyQualifiedName || !uct.IsValueType {
		t.Fatalf("re-imported Path.origin points at %q (value %v), want %q (value true)",
			uct.ClassName, uct.IsValueType, classPoint.Binding.Decl.FullyQualifiedName)
	}
}

// TestExportSkipsPrivateMembersAndMethods exercises §4.6's visibility
// filter: a private field and a private method must not appear in the
// exported tree at all.
func TestExportSkipsPrivateMembersAndMethods(t *testing.T) {
	classSecret := ast.NewClassDeclaration(loc0, symbols.Public, "Secret", []ast.Stmt{
		ast.NewMemberVariableDeclaration(loc0, symbols.Private, types.Modifiers{}, types.Int32, "hidden"),
		ast.NewFunctionDeclaration(loc0, symbols.Private, types.Modifiers{}, "helper", nil, nil,
			ast.NewLineStatements(loc0, ast.NewExpressionAsStatement(loc0, ast.NewIntegerLiteral(loc0, "0")), nil)),
	})
	root := ast.NewGlobalStatements(loc0, classSecret, nil)
	if _, err := typecheck.Run(root); err != nil {
		t.Fatalf("typecheck.Run: %v", err)
	}

	lib := Export("vault", nil, []*symbols.ClassBinding{classSecret.Binding})
	c := lib.Symbols[classSecret.Binding.FullyQualifiedName()]
	if c == nil {
		t.Fatal("Secret itself should still be exported (the class is public)")
	}
	if len(c.Mems) != 0 {
		t.Fatalf("got %d exported members, want 0 (hidden is private)", len(c.Mems))
	}
	if len(c.Funs) != 0 {
		t.Fatalf("got %d exported funcs, want 0 (helper is private)", len(c.Funs))
	}
}

// TestExportSkipsNonPublicClasses checks that a protected/private class
// never appears as a top-level Symbols entry.
func TestExportSkipsNonPublicClasses(t *testing.T) {
	classInternal := ast.NewClassDeclaration(loc0, symbols.Private, "Internal", nil)
	root := ast.NewGlobalStatements(loc0, classInternal, nil)
	if _, err := typecheck.Run(root); err != nil {
		t.Fatalf("typecheck.Run: %v", err)
	}

	lib := Export("lib", nil, []*symbols.ClassBinding{classInternal.Binding})
	if len(lib.Symbols) != 0 {
		t.Fatalf("got %d exported classes, want 0 (Internal is private)", len(lib.Symbols))
	}
}
