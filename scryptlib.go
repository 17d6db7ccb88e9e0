// Package scryptlib builds Bitcoin SV locking and unlocking scripts for
// compiled smart contracts and manages the state carried inside them.
//
// A contract description, produced by the scryptc compiler, declares the
// contract's constructor, public functions, struct types and state
// properties, plus a hex template of its code. This package turns that
// description into a ContractClass, instantiates it with typed arguments,
// and produces scripts:
//
//	desc, err := scryptlib.LoadDescription("out/counter_desc.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	class, err := scryptlib.BuildContractClass(desc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	counter := class.MustNew(0)
//	lockingScript := counter.LockingScript()
//
//	call := counter.MustInvoke("increment")
//	unlockingScript := call.UnlockingScript()
//
// # Script Layout
//
// A locking script is the code part, then OP_RETURN, then the data part:
//
//	<code part> 6a <prefix><field 1> <prefix><field 2> ...
//
// The code part is the template with non-state constructor arguments
// substituted. The data part holds every state property in declaration
// order, each behind a push-data style length prefix (one byte below 0x4c,
// otherwise 0x4c/0x4d/0x4e followed by a 1, 2 or 4 byte little-endian
// length). The separator is present even when the contract has no state.
//
// # State
//
// State properties are read with Contract.Get and written with
// Contract.Set. Writes are visible in LockingScript immediately;
// PrevLockingScript keeps the script as of the last CommitState so a
// spending transaction can reference the output it consumes.
//
// # Values
//
// Contract values are typed: Bool, Int, Bytes, PubKey, PrivKey, Ripemd160,
// Sha256, Sig, SigHashType, OpCodeType, SigHashPreimage, plus user structs
// and fixed-size arrays. Native Go values (bool, integers, *big.Int, hex
// strings, []byte, map[string]any for structs, slices for arrays) are
// accepted wherever a Value is expected and converted to the declared type.
//
// # Compiling
//
// Scryptc wraps the external compiler. Compilation failures are reported as
// Diagnostics located in the file that declares the offending construct.
package scryptlib
