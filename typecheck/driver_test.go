package typecheck

import (
	"strings"
	"testing"

	"github.com/arc-lang/ruddyc/ast"
	"github.com/arc-lang/ruddyc/diag"
	"github.com/arc-lang/ruddyc/symbols"
	"github.com/arc-lang/ruddyc/types"
)

var loc0 = diag.Location{Line: 1, Column: 1}

// TestRunDrivesAllFourPassesInOrder builds two classes where the first
// (Account) holds a value-class member of the second (Balance), declared
// after it in source order, and checks that Run resolves the forward
// reference, synthesizes Balance's no-arg constructor, and type-checks a
// method body that reads the member through the implicit `this` local.
func TestRunDrivesAllFourPassesInOrder(t *testing.T) {
	classAccount := ast.NewClassDeclaration(loc0, symbols.Public, "Account", []ast.Stmt{
		ast.NewMemberVariableDeclaration(loc0, symbols.Public, types.Modifiers{},
			&types.UnresolvedClassType{ClassName: "Balance", IsValueType: true}, "balance"),
		ast.NewFunctionDeclaration(loc0, symbols.Public, types.Modifiers{}, "Describe",
			nil, nil,
			ast.NewLineStatements(loc0,
				ast.NewExpressionAsStatement(loc0, ast.NewReference(loc0, "this.balance")), nil)),
	})
	classBalance := ast.NewClassDeclaration(loc0, symbols.Public, "Balance", nil)

	root := ast.NewGlobalStatements(loc0, classAccount, ast.NewGlobalStatements(loc0, classBalance, nil))

	tbl, err := Run(root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tbl == nil {
		t.Fatal("Run returned a nil table alongside a nil error")
	}

	if len(classBalance.Binding.Ctors) != 1 {
		t.Fatalf("Balance got %d ctors, want 1 synthesized", len(classBalance.Binding.Ctors))
	}
	mem := classAccount.Binding.Members[0]
	ct, ok := mem.Type.(*types.ClassType)
	if !ok {
		t.Fatalf("Account.balance type = %T, want resolved *types.ClassType", mem.Type)
	}
	if ct.Decl != classBalance.Binding.Decl {
		t.Fatal("Account.balance did not resolve to Balance's declaration identity")
	}
}

// TestRunWrapsFailingPassName exercises the "pass %s" error-wrapping
// convention: a bare break statement at the top level fails during
// MethodBodies, and the wrapped message must name that pass.
func TestRunWrapsFailingPassName(t *testing.T) {
	classBad := ast.NewClassDeclaration(loc0, symbols.Public, "Bad", []ast.Stmt{
		ast.NewFunctionDeclaration(loc0, symbols.Public, types.Modifiers{}, "Oops",
			nil, nil,
			ast.NewLineStatements(loc0, ast.NewBreakStatement(loc0), nil)),
	})
	root := ast.NewGlobalStatements(loc0, classBad, nil)

	_, err := Run(root)
	if err == nil {
		t.Fatal("expected BreakInWrongPlace to surface from Run")
	}
	if got := err.Error(); !strings.Contains(got, "method-bodies") {
		t.Fatalf("error %q does not name the failing pass", got)
	}
}

// TestRunWithTableSeesPreboundExternalSymbols checks that a table already
// populated by an imported library (BindExternalConstructor et al., as
// serialize.Import would do) is visible to a fresh compilation unit run
// through RunWithTable rather than Run.
func TestRunWithTableSeesPreboundExternalSymbols(t *testing.T) {
	tbl := symbols.NewTable()
	cb, err := tbl.BindClass(diag.Synthesized, "External", symbols.Public, symbols.ClassAndNamespaceDeclarations)
	if err != nil {
		t.Fatalf("BindClass: %v", err)
	}
	if _, err := tbl.BindExternalConstructor(diag.Synthesized, cb, &types.FunctionType{}); err != nil {
		t.Fatalf("BindExternalConstructor: %v", err)
	}
	cb.Dtor = tbl.BindDestructor(cb)
	tbl.ExitClass()

	classUser := ast.NewClassDeclaration(loc0, symbols.Public, "User", []ast.Stmt{
		ast.NewMemberVariableDeclaration(loc0, symbols.Public, types.Modifiers{},
			&types.UnresolvedClassType{ClassName: "External", IsValueType: true}, "ext"),
	})
	root := ast.NewGlobalStatements(loc0, classUser, nil)

	if err := RunWithTable(tbl, root); err != nil {
		t.Fatalf("RunWithTable: %v", err)
	}
	mem := classUser.Binding.Members[0]
	ct, ok := mem.Type.(*types.ClassType)
	if !ok {
		t.Fatalf("User.ext type = %T, want resolved *types.ClassType", mem.Type)
	}
	if ct.Decl != cb.Decl {
		t.Fatal("User.ext did not resolve to the preregistered External binding")
	}
}
