package scryptlib

import (
	"bytes"
	"math/big"
)

// TxContext is the transaction context a script is evaluated in. The
// transaction bytes are owned by the caller's transaction library and are
// passed to the verifier untouched.
type TxContext struct {
	Tx            []byte
	InputIndex    int
	InputSatoshis uint64
}

// VerifyRequest is everything a Verifier needs to evaluate one call.
type VerifyRequest struct {
	Contract          string
	Function          string
	LockingScript     []byte
	PrevLockingScript []byte
	UnlockingScript   []byte
	TxContext         *TxContext
}

// Verifier evaluates an unlocking script against a locking script. A nil
// error means the script succeeded.
type Verifier interface {
	Verify(req *VerifyRequest) error
}

// VerifierFunc adapts a function to a Verifier.
type VerifierFunc func(req *VerifyRequest) error

// Verify calls f(req).
func (f VerifierFunc) Verify(req *VerifyRequest) error {
	return f(req)
}

// VerifyResult is the outcome of Call.Verify.
type VerifyResult struct {
	Success bool
	Error   error
}

// Call is a prepared invocation of a public function. It snapshots the
// contract's scripts at creation, so later state writes don't affect it.
type Call struct {
	contract   *Contract
	function   *Function
	args       []Value
	unlocking  []byte
	locking    []byte
	prevScript []byte
}

// newCall checks arity and argument types and builds the unlocking script.
func newCall(k *Contract, fn *Function, rawArgs []any) (*Call, error) {
	if len(rawArgs) != len(fn.Params) {
		return nil, &ArgumentError{Function: fn.Name, Expected: len(fn.Params), Got: len(rawArgs)}
	}

	args := make([]Value, len(rawArgs))
	for i, arg := range rawArgs {
		v, err := Coerce(fn.Params[i].Type, arg)
		if err != nil {
			return nil, wrapTypeName(fn.Params[i].Name, err)
		}
		args[i] = v
	}

	return &Call{
		contract:   k,
		function:   fn,
		args:       args,
		unlocking:  unlockingScript(args, fn.Index, len(k.class.abi.order)),
		locking:    k.LockingScript(),
		prevScript: k.PrevLockingScript(),
	}, nil
}

// unlockingScript pushes each argument and, when the contract has more than
// one public function, the function index as the selector.
func unlockingScript(args []Value, index, functions int) []byte {
	var out []byte
	for _, a := range args {
		out = append(out, PushValue(a)...)
	}
	if functions > 1 {
		out = append(out, PushInt(big.NewInt(int64(index)))...)
	}
	return out
}

// Contract returns the contract the call targets.
func (c *Call) Contract() *Contract {
	return c.contract
}

// Function returns the resolved public function.
func (c *Call) Function() *Function {
	return c.function
}

// Args returns the typed arguments.
func (c *Call) Args() []Value {
	out := make([]Value, len(c.args))
	copy(out, c.args)
	return out
}

// UnlockingScript returns the script that supplies the call's arguments.
func (c *Call) UnlockingScript() []byte {
	return bytes.Clone(c.unlocking)
}

// UnlockingScriptHex returns the unlocking script as hex.
func (c *Call) UnlockingScriptHex() string {
	return toHex(c.unlocking)
}

// LockingScript returns the contract's locking script when the call was made.
func (c *Call) LockingScript() []byte {
	return bytes.Clone(c.locking)
}

// Verify hands the call to the class's verifier using the contract's
// transaction context. Without a verifier the result carries ErrNoVerifier.
func (c *Call) Verify() VerifyResult {
	return c.VerifyWith(c.contract.txContext)
}

// VerifyWith is like Verify with an explicit transaction context.
func (c *Call) VerifyWith(txCtx *TxContext) VerifyResult {
	class := c.contract.class
	if class.config.verifier == nil {
		return VerifyResult{Error: ErrNoVerifier}
	}

	err := class.config.verifier.Verify(&VerifyRequest{
		Contract:          class.Name(),
		Function:          c.function.Name,
		LockingScript:     bytes.Clone(c.locking),
		PrevLockingScript: bytes.Clone(c.prevScript),
		UnlockingScript:   bytes.Clone(c.unlocking),
		TxContext:         txCtx,
	})
	if err != nil {
		class.logger.Debug("Call verification failed", "function", c.function.Name, "err", err)
		return VerifyResult{Error: err}
	}
	return VerifyResult{Success: true}
}
