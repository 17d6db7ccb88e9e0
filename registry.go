package scryptlib

import (
	"fmt"
)

// StructRegistry resolves struct names and type strings declared by a
// contract description. It is immutable once built and safe for concurrent
// reads.
type StructRegistry struct {
	entities map[string]StructEntity
	structs  map[string]*StructType
	order    []string
}

// NewStructRegistry resolves every declared struct, including nested
// structs and array fields. Undeclared names, bad array sizes, duplicate or
// self-referencing declarations fail with a TypeError.
func NewStructRegistry(entities []StructEntity) (*StructRegistry, error) {
	r := &StructRegistry{
		entities: make(map[string]StructEntity, len(entities)),
		structs:  make(map[string]*StructType, len(entities)),
		order:    make([]string, 0, len(entities)),
	}

	for _, e := range entities {
		if !identifierRe.MatchString(e.Name) {
			return nil, typeErrorf(e.Name, "invalid struct name")
		}
		if IsPrimitiveType(e.Name) {
			return nil, typeErrorf(e.Name, "struct name shadows a primitive type")
		}
		if _, dup := r.entities[e.Name]; dup {
			return nil, typeErrorf(e.Name, "struct declared more than once")
		}
		r.entities[e.Name] = e
		r.order = append(r.order, e.Name)
	}

	for _, name := range r.order {
		if _, err := r.resolveStruct(name, map[string]bool{}); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// resolveStruct builds the StructType for name, memoizing the result.
// Only called while the registry is being constructed.
func (r *StructRegistry) resolveStruct(name string, visiting map[string]bool) (*StructType, error) {
	if st, ok := r.structs[name]; ok {
		return st, nil
	}
	e, ok := r.entities[name]
	if !ok {
		return nil, typeErrorf(name, "undeclared struct")
	}
	if visiting[name] {
		return nil, typeErrorf(name, "struct contains itself")
	}
	visiting[name] = true
	defer delete(visiting, name)

	st := &StructType{Name: name, Fields: make([]StructField, 0, len(e.Params))}
	seen := make(map[string]bool, len(e.Params))
	for _, p := range e.Params {
		if seen[p.Name] {
			return nil, typeErrorf(name+"."+p.Name, "duplicate struct field")
		}
		seen[p.Name] = true

		t, err := r.resolve(p.Type, visiting)
		if err != nil {
			return nil, wrapTypeName(name+"."+p.Name, err)
		}
		st.Fields = append(st.Fields, StructField{Name: p.Name, Type: t})
	}

	r.structs[name] = st
	return st, nil
}

// Resolve turns a type string into a TypeInfo. Accepted forms are the
// primitive names, declared struct names (optionally wrapped as
// "struct Name {}"), and arrays "T[n]" / "T[n][m]" of either.
func (r *StructRegistry) Resolve(typ string) (*TypeInfo, error) {
	return r.resolve(typ, nil)
}

func (r *StructRegistry) resolve(typ string, visiting map[string]bool) (*TypeInfo, error) {
	if elem, sizes, ok := FactorizeArrayType(typ); ok {
		dims := make([]int, len(sizes))
		for i, s := range sizes {
			n, err := parseArraySize(s)
			if err != nil {
				return nil, &TypeError{Expected: "T[n] with positive literal n", Got: typ, Err: err}
			}
			dims[i] = n
		}

		t, err := r.resolve(elem, visiting)
		if err != nil {
			return nil, err
		}
		base := t.Name
		// innermost dimension binds first: int[2][3] is two int[3]
		for i := len(dims) - 1; i >= 0; i-- {
			t = &TypeInfo{
				Kind: KindArray,
				Name: ArrayTypeString(base, dims[i:]),
				Elem: t,
				Len:  dims[i],
			}
		}
		return t, nil
	}

	name := StructNameOf(typ)
	if kind, ok := primitiveKinds[name]; ok {
		return &TypeInfo{Kind: kind, Name: name}, nil
	}

	var st *StructType
	if visiting != nil {
		var err error
		if st, err = r.resolveStruct(name, visiting); err != nil {
			return nil, err
		}
	} else {
		var ok bool
		if st, ok = r.structs[name]; !ok {
			return nil, typeErrorf(name, "undeclared struct")
		}
	}
	return &TypeInfo{Kind: KindStruct, Name: st.Name, Struct: st}, nil
}

// Struct returns the resolved struct type with the given name.
func (r *StructRegistry) Struct(name string) (*StructType, bool) {
	st, ok := r.structs[StructNameOf(name)]
	return st, ok
}

// Names returns struct names in declaration order.
func (r *StructRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// NewStruct builds a struct value of the named type from native field values.
func (r *StructRegistry) NewStruct(name string, fields map[string]any) (Struct, error) {
	st, ok := r.Struct(name)
	if !ok {
		return Struct{}, typeErrorf(name, "undeclared struct")
	}
	return NewStruct(st, fields)
}

// wrapTypeName attaches a field path to an unnamed TypeError.
func wrapTypeName(name string, err error) error {
	if te, ok := err.(*TypeError); ok && te.Name == "" {
		cp := *te
		cp.Name = name
		return &cp
	}
	if _, ok := err.(*TypeError); ok {
		return err
	}
	return &TypeError{Name: name, Err: fmt.Errorf("%w", err)}
}
