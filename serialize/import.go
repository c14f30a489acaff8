package serialize

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/arc-lang/ruddyc/diag"
	"github.com/arc-lang/ruddyc/symbols"
	"github.com/arc-lang/ruddyc/types"
)

// Import registers lib's namespaces and public classes into tbl, following
// §4.6's three-step order: namespaces first, then per class its binding,
// ctors, dtor, members, and methods. The constructor and method bindings
// registered this way are marked External so the downstream IR emitter
// treats them as externally-linked declarations rather than something this
// compilation unit must define; the class, destructor and member bindings
// carry no such mark.
func Import(tbl *symbols.Table, lib *Library) error {
	for _, ns := range lib.Namespaces {
		enterNamespacePath(tbl, ns)
		exitNamespacePath(tbl, ns)
	}
	for fqName, class := range lib.Symbols {
		if err := importClass(tbl, fqName, class); err != nil {
			return errors.Wrapf(err, "import class %s", fqName)
		}
	}
	return nil
}

func enterNamespacePath(tbl *symbols.Table, path string) {
	for _, seg := range strings.Split(path, ".") {
		tbl.BindNamespace(seg)
	}
}

func exitNamespacePath(tbl *symbols.Table, path string) {
	for range strings.Split(path, ".") {
		tbl.ExitNamespace()
	}
}

func importClass(tbl *symbols.Table, fqName string, class *Class) error {
	namespacePath, localName := splitQualified(fqName)
	enterNamespacePath(tbl, namespacePath)
	defer exitNamespacePath(tbl, namespacePath)

	cb, err := tbl.BindClass(diag.Synthesized, localName, symbols.Public, symbols.ClassAndNamespaceDeclarations)
	if err != nil {
		return err
	}
	defer tbl.ExitClass()

	for _, ctorSig := range class.Ctors {
		input, err := parseSignature(ctorSig)
		if err != nil {
			return errors.Wrapf(err, "ctor %s", ctorSig)
		}
		if _, err := tbl.BindExternalConstructor(diag.Synthesized, cb, &types.FunctionType{Input: input}); err != nil {
			return err
		}
	}
	cb.Dtor = tbl.BindDestructor(cb)

	for _, mem := range class.Mems {
		ty, err := parseTypeName(mem.Type)
		if err != nil {
			return errors.Wrapf(err, "member %s", mem.Name)
		}
		vis := parseVisibility(mem.Visibility)
		mods := types.Modifiers{Static: mem.Mod == "static", Unsafe: mem.Mod == "unsafe"}
		if _, err := tbl.BindMemberVariable(diag.Synthesized, mem.Name, vis, mods, ty); err != nil {
			return err
		}
	}

	for _, fn := range class.Funs {
		if err := importFunc(tbl, cb, fn); err != nil {
			return errors.Wrapf(err, "func %s", fn.Name)
		}
	}
	return nil
}

func importFunc(tbl *symbols.Table, cb *symbols.ClassBinding, fn Func) error {
	if err := importOneOverload(tbl, cb, fn.Name, fn.Input, fn.Output); err != nil {
		return err
	}
	for _, sig := range fn.Overload {
		input, err := parseSignature(sig)
		if err != nil {
			return err
		}
		if _, err := tbl.BindExternalFunction(diag.Synthesized, cb, fn.Name, symbols.Public, &types.FunctionType{FuncName: fn.Name, Input: input}); err != nil {
			return err
		}
	}
	return nil
}

func importOneOverload(tbl *symbols.Table, cb *symbols.ClassBinding, name, inputName, outputName string) error {
	var input, output types.TypeInfo
	var err error
	if inputName != "" {
		input, err = parseSignature("(" + inputName + ")")
		if err != nil {
			return err
		}
	}
	if outputName != "" {
		output, err = parseSignature("(" + outputName + ")")
		if err != nil {
			return err
		}
	}
	_, err = tbl.BindExternalFunction(diag.Synthesized, cb, name, symbols.Public, &types.FunctionType{FuncName: name, Input: input, Output: output})
	return err
}

func splitQualified(fqName string) (namespacePath, localName string) {
	idx := strings.LastIndex(fqName, ".")
	if idx < 0 {
		return "", fqName
	}
	return fqName[:idx], fqName[idx+1:]
}

func parseVisibility(s string) symbols.Visibility {
	switch s {
	case "private":
		return symbols.Private
	case "protected":
		return symbols.Protected
	default:
		return symbols.Public
	}
}

// parseSignature parses a SignatureString()-shaped "(a,b,c)" back into a
// composite TypeInfo; "()" is the no-arg shape (§4.6).
func parseSignature(sig string) (types.TypeInfo, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(sig, "("), ")")
	if inner == "" {
		return nil, nil
	}
	parts := strings.Split(inner, ",")
	elems := make([]types.TypeInfo, 0, len(parts))
	for _, p := range parts {
		ty, err := parseTypeName(p)
		if err != nil {
			return nil, err
		}
		elems = append(elems, ty)
	}
	return types.NewComposite(elems...), nil
}

// parseTypeName maps one serialized element name back to a TypeInfo: a
// known primitive resolves directly; anything else is treated as a
// not-yet-seen class, lazily resolved the same way a forward reference
// within one compilation unit is (§4.6's step 2, "resolved lazily via
// UnresolvedClassType"). A trailing "&" marks the value-class form
// (ClassType.SerializedName's own convention).
func parseTypeName(name string) (types.TypeInfo, error) {
	if name == "" {
		return nil, errors.New("empty type name")
	}
	isValueType := strings.HasSuffix(name, "&")
	bare := strings.TrimSuffix(name, "&")
	if prim, ok := types.ByName(bare); ok {
		return prim, nil
	}
	return &types.UnresolvedClassType{ClassName: bare, IsValueType: isValueType}, nil
}
