package scryptlib

import (
	"fmt"
	"sort"
)

// Param is a resolved constructor or function parameter.
type Param struct {
	Name string
	Type *TypeInfo
}

// Function is a resolved public function.
type Function struct {
	Name   string
	Index  int
	Params []Param
}

// ABI is the resolved interface of a contract: its constructor, public
// functions, state properties and struct declarations.
type ABI struct {
	Contract    string
	Constructor []Param
	StateProps  []Param
	Structs     *StructRegistry

	functions map[string]*Function
	order     []*Function
}

// NewABI resolves every type referenced by desc. Exactly one constructor is
// required and public function indices must be 0..n-1 without gaps.
func NewABI(desc *Description) (*ABI, error) {
	registry, err := NewStructRegistry(desc.Structs)
	if err != nil {
		return nil, err
	}

	a := &ABI{
		Contract:  desc.Contract,
		Structs:   registry,
		functions: make(map[string]*Function),
	}

	constructors := 0
	for _, e := range desc.ABI {
		switch e.Type {
		case CONSTRUCTOR:
			constructors++
			if constructors > 1 {
				return nil, fmt.Errorf("%w: more than one constructor", ErrInvalidDescription)
			}
			params, err := resolveParams("constructor", e.Params, registry)
			if err != nil {
				return nil, err
			}
			a.Constructor = params

		case FUNCTION:
			if e.Name == "" {
				return nil, fmt.Errorf("%w: public function without a name", ErrInvalidDescription)
			}
			if e.Index == nil {
				return nil, fmt.Errorf("%w: public function %q has no index", ErrInvalidDescription, e.Name)
			}
			if _, dup := a.functions[e.Name]; dup {
				return nil, fmt.Errorf("%w: public function %q declared more than once", ErrInvalidDescription, e.Name)
			}
			params, err := resolveParams(e.Name, e.Params, registry)
			if err != nil {
				return nil, err
			}
			fn := &Function{Name: e.Name, Index: *e.Index, Params: params}
			a.functions[e.Name] = fn
			a.order = append(a.order, fn)

		default:
			return nil, fmt.Errorf("%w: unknown abi entity type %q", ErrInvalidDescription, e.Type)
		}
	}
	if constructors == 0 {
		return nil, fmt.Errorf("%w: no constructor", ErrInvalidDescription)
	}

	sort.SliceStable(a.order, func(i, j int) bool { return a.order[i].Index < a.order[j].Index })
	for i, fn := range a.order {
		if fn.Index != i {
			return nil, fmt.Errorf("%w: public function indices are not contiguous at %q (index %d)",
				ErrInvalidDescription, fn.Name, fn.Index)
		}
	}

	a.StateProps, err = resolveParams("stateProps", desc.StateProps, registry)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func resolveParams(owner string, entities []ParamEntity, registry *StructRegistry) ([]Param, error) {
	params := make([]Param, 0, len(entities))
	seen := make(map[string]bool, len(entities))
	for _, p := range entities {
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: %s declares %q more than once", ErrInvalidDescription, owner, p.Name)
		}
		seen[p.Name] = true

		t, err := registry.Resolve(p.Type)
		if err != nil {
			return nil, wrapTypeName(p.Name, err)
		}
		params = append(params, Param{Name: p.Name, Type: t})
	}
	return params, nil
}

// Function returns the public function with the given name.
func (a *ABI) Function(name string) (*Function, bool) {
	fn, ok := a.functions[name]
	return fn, ok
}

// Functions returns the public functions ordered by index.
func (a *ABI) Functions() []*Function {
	out := make([]*Function, len(a.order))
	copy(out, a.order)
	return out
}

// FunctionNames returns public function names ordered by index.
func (a *ABI) FunctionNames() []string {
	names := make([]string, len(a.order))
	for i, fn := range a.order {
		names[i] = fn.Name
	}
	return names
}

// IsStateProp reports whether name is a state property.
func (a *ABI) IsStateProp(name string) bool {
	for _, p := range a.StateProps {
		if p.Name == name {
			return true
		}
	}
	return false
}
