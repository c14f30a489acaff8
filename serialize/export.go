// Package serialize exports a symbol table's public surface to the JSON
// tree shape specified in §4.6, and rehydrates it back into bindings a
// downstream compilation unit can link against (§6.3's archive/library
// packager reads and writes this shape; this package only owns the JSON
// codec, not the archive container itself).
package serialize

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/arc-lang/ruddyc/symbols"
)

// Library is the top-level exported shape: a name, the namespace paths
// the caller passed to Export, and the public class surface (§4.6).
type Library struct {
	Name       string            `json:"Name"`
	Namespaces []string          `json:"Namespaces"`
	Symbols    map[string]*Class `json:"Symbols"`
}

// Class is one PUBLIC class binding's exported surface.
type Class struct {
	Name  string    `json:"Name"`
	Ctors []string  `json:"Ctors"`
	Mems  []Member  `json:"Mems"`
	Funs  []Func    `json:"Funs"`
}

// Member is a non-private field.
type Member struct {
	Name       string `json:"Name"`
	Type       string `json:"Type"`
	Mod        string `json:"Mod,omitempty"`
	Visibility string `json:"Visibility"`
}

// Func is a non-private method; Overload holds every signature past the
// first when the name is overloaded (§4.6).
type Func struct {
	Name     string   `json:"Name"`
	Input    string   `json:"Input,omitempty"`
	Output   string   `json:"Output,omitempty"`
	Overload []string `json:"Overload,omitempty"`
}

// Export builds the JSON-ready Library shape for the given namespace
// paths and class bindings (the caller collects both by walking whatever
// it used to build the table, typically the root GlobalStatements).
func Export(name string, namespaces []string, classes []*symbols.ClassBinding) *Library {
	lib := &Library{Name: name, Namespaces: namespaces, Symbols: make(map[string]*Class)}
	for _, cb := range classes {
		if cb.Visibility() != symbols.Public {
			continue
		}
		lib.Symbols[cb.FullyQualifiedName()] = exportClass(cb)
	}
	return lib
}

func exportClass(cb *symbols.ClassBinding) *Class {
	c := &Class{Name: cb.FullyQualifiedName()}
	for _, ctor := range cb.Ctors {
		c.Ctors = append(c.Ctors, ctor.Sig.SignatureString())
	}
	// The dtor is always implicit and unparameterized (§4.6); every class
	// has exactly one, so no explicit "Dtor" field carries anything Ctors
	// doesn't already convey.
	for _, m := range cb.Members {
		if m.Visibility() == symbols.Private {
			continue
		}
		mem := Member{Name: m.BindingName(), Type: m.Type.SerializedName(), Visibility: m.Visibility().String()}
		if m.Mods.Static {
			mem.Mod = "static"
		} else if m.Mods.Unsafe {
			mem.Mod = "unsafe"
		}
		c.Mems = append(c.Mems, mem)
	}
	for _, name := range cb.FuncNames() {
		b := cb.Funcs[name]
		switch v := b.(type) {
		case *symbols.FunctionBinding:
			if v.Visibility() == symbols.Private {
				continue
			}
			c.Funs = append(c.Funs, exportFunc(v))
		case *symbols.OverloadedFunctionBinding:
			var overloads []string
			var first Func
			haveFirst := false
			for _, fb := range v.Overloads {
				if fb.Visibility() == symbols.Private {
					continue
				}
				if !haveFirst {
					first = exportFunc(fb)
					haveFirst = true
					continue
				}
				overloads = append(overloads, fb.Sig.SignatureString())
			}
			if !haveFirst {
				continue
			}
			first.Overload = overloads
			c.Funs = append(c.Funs, first)
		}
	}
	return c
}

func exportFunc(fb *symbols.FunctionBinding) Func {
	f := Func{Name: fb.BindingName()}
	if fb.Sig.Input != nil {
		f.Input = fb.Sig.Input.SerializedName()
	}
	if fb.Sig.Output != nil {
		f.Output = fb.Sig.Output.SerializedName()
	}
	return f
}

// Marshal renders lib as indented JSON.
func Marshal(lib *Library) ([]byte, error) {
	out, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal library")
	}
	return out, nil
}

// Unmarshal parses JSON produced by Marshal back into a Library tree,
// ready for Import.
func Unmarshal(data []byte) (*Library, error) {
	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, errors.Wrap(err, "unmarshal library")
	}
	return &lib, nil
}
