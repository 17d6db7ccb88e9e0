package scryptlib

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
)

// ContractClass is built once from a description and creates contract
// instances. It is immutable and safe for concurrent use: it keeps its own
// copy of the description.
type ContractClass struct {
	desc   *Description
	abi    *ABI
	config *classConfig
	logger log.Logger

	// stateIndex maps a state property to its position in StateProps.
	stateIndex map[string]int
}

// BuildContractClass validates desc and resolves its types. Every state
// property must also be a constructor parameter of the same type.
func BuildContractClass(desc *Description, opts ...ClassOption) (*ContractClass, error) {
	if desc == nil {
		return nil, fmt.Errorf("%w: nil description", ErrInvalidDescription)
	}
	desc = desc.Clone()
	if desc.Contract == "" {
		return nil, fmt.Errorf("%w: missing contract name", ErrInvalidDescription)
	}
	if err := checkTemplate(desc.Hex); err != nil {
		return nil, err
	}

	a, err := NewABI(desc)
	if err != nil {
		return nil, err
	}

	stateIndex := make(map[string]int, len(a.StateProps))
	for i, sp := range a.StateProps {
		var ctor *Param
		for j := range a.Constructor {
			if a.Constructor[j].Name == sp.Name {
				ctor = &a.Constructor[j]
				break
			}
		}
		if ctor == nil {
			return nil, fmt.Errorf("%w: state property %q is not a constructor parameter", ErrInvalidDescription, sp.Name)
		}
		if ctor.Type.Name != sp.Type.Name {
			return nil, fmt.Errorf("%w: state property %q is %s but constructor parameter is %s",
				ErrInvalidDescription, sp.Name, sp.Type.Name, ctor.Type.Name)
		}
		stateIndex[sp.Name] = i
	}

	config := defaultClassConfig()
	for _, opt := range opts {
		opt(config)
	}
	logger := config.logger.With("contract", desc.Contract)

	logger.Debug("Built contract class",
		"functions", len(a.order), "stateProps", len(a.StateProps), "structs", len(a.Structs.order))

	return &ContractClass{
		desc:       desc,
		abi:        a,
		config:     config,
		logger:     logger,
		stateIndex: stateIndex,
	}, nil
}

// MustBuildContractClass is like BuildContractClass but panics on error.
func MustBuildContractClass(desc *Description, opts ...ClassOption) *ContractClass {
	c, err := BuildContractClass(desc, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the contract name.
func (c *ContractClass) Name() string {
	return c.desc.Contract
}

// ABI returns the resolved contract interface.
func (c *ContractClass) ABI() *ABI {
	return c.abi
}

// Description returns a copy of the description the class was built from.
func (c *ContractClass) Description() *Description {
	return c.desc.Clone()
}

// Stateful reports whether the contract declares state properties.
func (c *ContractClass) Stateful() bool {
	return len(c.abi.StateProps) > 0
}

// AutoTypedVars returns the compiler-inferred variable types.
func (c *ContractClass) AutoTypedVars() []AutoTypedVar {
	return cloneAutoTypedVars(c.desc.AutoTypedVars)
}

// New creates an instance from constructor arguments, given in declaration
// order as Values or native Go values.
func (c *ContractClass) New(args ...any) (*Contract, error) {
	params := c.abi.Constructor
	if len(args) != len(params) {
		return nil, &ArgumentError{Function: "constructor", Expected: len(params), Got: len(args)}
	}

	values := make([]Value, len(args))
	for i, arg := range args {
		v, err := Coerce(params[i].Type, arg)
		if err != nil {
			return nil, wrapTypeName(params[i].Name, err)
		}
		values[i] = v
	}

	code, err := buildCodePart(c.desc.Hex, params, values, c.abi.IsStateProp)
	if err != nil {
		return nil, err
	}

	args0 := make(map[string]Value, len(params))
	for i, p := range params {
		args0[p.Name] = values[i]
	}
	state := make([]Value, len(c.abi.StateProps))
	for i, sp := range c.abi.StateProps {
		state[i] = args0[sp.Name]
	}

	k := c.newContract(code, args0, state)
	c.logger.Debug("Created contract instance", "scriptLen", len(k.LockingScript()))
	return k, nil
}

// MustNew is like New but panics on error.
func (c *ContractClass) MustNew(args ...any) *Contract {
	k, err := c.New(args...)
	if err != nil {
		panic(err)
	}
	return k
}

// FromScript rebuilds an instance from a full locking script. State values
// are decoded from the data part; non-state constructor arguments are not
// recoverable and are absent from the instance.
func (c *ContractClass) FromScript(script []byte) (*Contract, error) {
	code, data, err := SplitScript(script)
	if err != nil {
		return nil, err
	}
	state, err := DecodeState(c.abi.StateProps, data)
	if err != nil {
		return nil, err
	}

	args := make(map[string]Value, len(state))
	for i, sp := range c.abi.StateProps {
		args[sp.Name] = state[i]
	}
	return c.newContract(code, args, state), nil
}

// FromHex is like FromScript for a hex-encoded script.
func (c *ContractClass) FromHex(s string) (*Contract, error) {
	script, err := decodeHex(s)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return c.FromScript(script)
}

func (c *ContractClass) newContract(code []byte, args map[string]Value, state []Value) *Contract {
	k := &Contract{
		class:    c,
		codePart: code,
		args:     args,
		state:    state,
	}
	k.prevScript = bytes.Clone(k.LockingScript())
	return k
}

// Contract is one instance of a contract class: a fixed code part plus the
// current state values. A Contract is not safe for concurrent mutation.
type Contract struct {
	class    *ContractClass
	codePart []byte
	args     map[string]Value
	state    []Value

	script     []byte // cached locking script, nil after a state write
	prevScript []byte
	txContext  *TxContext
}

// Class returns the class the instance was created from.
func (k *Contract) Class() *ContractClass {
	return k.class
}

// Get returns a state value or a known constructor argument.
func (k *Contract) Get(name string) (Value, bool) {
	if i, ok := k.class.stateIndex[name]; ok {
		return k.state[i], true
	}
	v, ok := k.args[name]
	return v, ok
}

// Set assigns a state property. The value must match the declared type
// exactly; the locking script reflects the write immediately.
func (k *Contract) Set(name string, v any) error {
	i, ok := k.class.stateIndex[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotStateField, name)
	}
	prop := k.class.abi.StateProps[i]
	val, err := Coerce(prop.Type, v)
	if err != nil {
		return wrapTypeName(name, err)
	}
	k.state[i] = val
	k.script = nil
	return nil
}

// MustSet is like Set but panics on error.
func (k *Contract) MustSet(name string, v any) {
	if err := k.Set(name, v); err != nil {
		panic(err)
	}
}

// State returns the current state values in declaration order.
func (k *Contract) State() []Field {
	out := make([]Field, len(k.state))
	for i, sp := range k.class.abi.StateProps {
		out[i] = Field{Name: sp.Name, Value: k.state[i]}
	}
	return out
}

// CodePart returns the code part of the locking script.
func (k *Contract) CodePart() []byte {
	return bytes.Clone(k.codePart)
}

// DataPart returns the encoded current state.
func (k *Contract) DataPart() []byte {
	return EncodeState(k.class.abi.StateProps, k.state)
}

// LockingScript returns code part, OP_RETURN and data part for the current
// state.
func (k *Contract) LockingScript() []byte {
	if k.script == nil {
		k.script = AssembleScript(k.codePart, k.DataPart())
	}
	return bytes.Clone(k.script)
}

// LockingScriptHex returns the locking script as hex.
func (k *Contract) LockingScriptHex() string {
	return toHex(k.LockingScript())
}

// PrevLockingScript returns the locking script as of the last CommitState,
// or as constructed if the state was never committed.
func (k *Contract) PrevLockingScript() []byte {
	return bytes.Clone(k.prevScript)
}

// CommitState snapshots the current locking script as the previous one.
// Committing twice without a write in between is a no-op.
func (k *Contract) CommitState() {
	k.prevScript = k.LockingScript()
	k.class.logger.Trace("Committed contract state", "scriptLen", len(k.prevScript))
}

// SetTxContext sets the transaction context handed to the verifier.
func (k *Contract) SetTxContext(ctx *TxContext) {
	k.txContext = ctx
}

// TxContext returns the transaction context, or nil.
func (k *Contract) TxContext() *TxContext {
	return k.txContext
}

// Invoke prepares a call to a public function. Arguments are given in
// declaration order as Values or native Go values.
func (k *Contract) Invoke(name string, args ...any) (*Call, error) {
	fn, ok := k.class.abi.Function(name)
	if !ok {
		return nil, &FunctionNotFoundError{Contract: k.class.Name(), Function: name}
	}
	return newCall(k, fn, args)
}

// MustInvoke is like Invoke but panics on error.
func (k *Contract) MustInvoke(name string, args ...any) *Call {
	call, err := k.Invoke(name, args...)
	if err != nil {
		panic(err)
	}
	return call
}
