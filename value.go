package scryptlib

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Value represents any typed value that a contract accepts as a constructor
// argument, function argument or state field.
// This is a sealed interface - only types within this package can implement it.
type Value interface {
	// isValue is unexported to seal the interface.
	isValue()

	// Type returns the canonical type string of this value.
	Type() string

	// Serialize returns the canonical byte encoding.
	Serialize() []byte

	// Hex returns Serialize() as lowercase hex without a 0x prefix.
	Hex() string

	// Equals compares type and canonical encoding.
	Equals(other Value) bool
}

func equalValues(a, b Value) bool {
	if b == nil {
		return false
	}
	return a.Type() == b.Type() && bytes.Equal(a.Serialize(), b.Serialize())
}

func toHex(b []byte) string {
	return common.Bytes2Hex(b)
}

// decodeHex accepts hex with or without a 0x prefix.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

// Bool is a contract boolean.
type Bool struct {
	v bool
}

// NewBool creates a Bool.
func NewBool(v bool) Bool { return Bool{v: v} }

func (Bool) isValue() {}

// Type returns "bool".
func (b Bool) Type() string { return TypeBool }

// Value returns the native boolean.
func (b Bool) Value() bool { return b.v }

// Serialize returns 0x01 for true and 0x00 for false.
func (b Bool) Serialize() []byte {
	if b.v {
		return []byte{0x01}
	}
	return []byte{0x00}
}

// Hex returns the hex encoding.
func (b Bool) Hex() string { return toHex(b.Serialize()) }

// Equals compares canonical encodings.
func (b Bool) Equals(o Value) bool { return equalValues(b, o) }

// Int is an arbitrary-precision signed contract integer.
type Int struct {
	v *big.Int
}

// NewInt creates an Int from any Go integer kind, *big.Int, or a decimal or
// 0x-prefixed string.
func NewInt(v any) (Int, error) {
	n, err := toBigInt(v)
	if err != nil {
		return Int{}, &TypeError{Expected: TypeInt, Got: fmt.Sprintf("%T", v), Err: err}
	}
	return Int{v: n}, nil
}

// MustInt is like NewInt but panics on error.
func MustInt(v any) Int {
	i, err := NewInt(v)
	if err != nil {
		panic(err)
	}
	return i
}

func (Int) isValue() {}

// Type returns "int".
func (i Int) Type() string { return TypeInt }

// BigInt returns a copy of the integer.
func (i Int) BigInt() *big.Int { return new(big.Int).Set(i.bigInt()) }

func (i Int) bigInt() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return i.v
}

// Serialize returns the minimal script number encoding.
func (i Int) Serialize() []byte { return encodeScriptNum(i.bigInt()) }

// Hex returns the hex encoding.
func (i Int) Hex() string { return toHex(i.Serialize()) }

// Equals compares canonical encodings.
func (i Int) Equals(o Value) bool { return equalValues(i, o) }

// String returns the decimal form.
func (i Int) String() string { return i.bigInt().String() }

// Bytes is an opaque contract byte string.
type Bytes struct {
	b []byte
}

// NewBytes creates Bytes from a []byte or a hex string.
func NewBytes(v any) (Bytes, error) {
	b, err := toByteSlice(v)
	if err != nil {
		return Bytes{}, &TypeError{Expected: TypeBytes, Got: fmt.Sprintf("%T", v), Err: err}
	}
	return Bytes{b: b}, nil
}

// MustBytes is like NewBytes but panics on error.
func MustBytes(v any) Bytes {
	b, err := NewBytes(v)
	if err != nil {
		panic(err)
	}
	return b
}

func (Bytes) isValue() {}

// Type returns "bytes".
func (b Bytes) Type() string { return TypeBytes }

// Serialize returns the bytes verbatim.
func (b Bytes) Serialize() []byte { return bytes.Clone(nonNil(b.b)) }

// Hex returns the hex encoding.
func (b Bytes) Hex() string { return toHex(b.b) }

// Equals compares canonical encodings.
func (b Bytes) Equals(o Value) bool { return equalValues(b, o) }

// PubKey is a 33-byte compressed or 65-byte uncompressed public key.
type PubKey struct {
	b []byte
}

// NewPubKey creates a PubKey from a []byte or hex string.
func NewPubKey(v any) (PubKey, error) {
	b, err := fixedBytes(TypePubKey, v, PubKeyCompressedLen, PubKeyUncompressedLen)
	if err != nil {
		return PubKey{}, err
	}
	return PubKey{b: b}, nil
}

func (PubKey) isValue() {}

// Type returns "PubKey".
func (k PubKey) Type() string { return TypePubKey }

// Serialize returns the key bytes.
func (k PubKey) Serialize() []byte { return bytes.Clone(nonNil(k.b)) }

// Hex returns the hex encoding.
func (k PubKey) Hex() string { return toHex(k.b) }

// Equals compares canonical encodings.
func (k PubKey) Equals(o Value) bool { return equalValues(k, o) }

// PrivKey is a private key scalar. It encodes like an Int.
type PrivKey struct {
	v *big.Int
}

// NewPrivKey creates a PrivKey from the same inputs NewInt accepts.
func NewPrivKey(v any) (PrivKey, error) {
	n, err := toBigInt(v)
	if err != nil {
		return PrivKey{}, &TypeError{Expected: TypePrivKey, Got: fmt.Sprintf("%T", v), Err: err}
	}
	if n.Sign() < 0 {
		return PrivKey{}, &TypeError{Expected: TypePrivKey, Got: n.String(), Err: errors.New("negative private key")}
	}
	return PrivKey{v: n}, nil
}

func (PrivKey) isValue() {}

// Type returns "PrivKey".
func (k PrivKey) Type() string { return TypePrivKey }

// BigInt returns a copy of the scalar.
func (k PrivKey) BigInt() *big.Int {
	if k.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(k.v)
}

// Serialize returns the minimal script number encoding.
func (k PrivKey) Serialize() []byte { return encodeScriptNum(k.BigInt()) }

// Hex returns the hex encoding.
func (k PrivKey) Hex() string { return toHex(k.Serialize()) }

// Equals compares canonical encodings.
func (k PrivKey) Equals(o Value) bool { return equalValues(k, o) }

// Ripemd160 is a 20-byte hash.
type Ripemd160 struct {
	b []byte
}

// NewRipemd160 creates a Ripemd160 from a []byte or hex string.
func NewRipemd160(v any) (Ripemd160, error) {
	b, err := fixedBytes(TypeRipemd160, v, Ripemd160Len)
	if err != nil {
		return Ripemd160{}, err
	}
	return Ripemd160{b: b}, nil
}

func (Ripemd160) isValue() {}

// Type returns "Ripemd160".
func (h Ripemd160) Type() string { return TypeRipemd160 }

// Serialize returns the hash bytes.
func (h Ripemd160) Serialize() []byte { return bytes.Clone(nonNil(h.b)) }

// Hex returns the hex encoding.
func (h Ripemd160) Hex() string { return toHex(h.b) }

// Equals compares canonical encodings.
func (h Ripemd160) Equals(o Value) bool { return equalValues(h, o) }

// Sha256 is a 32-byte hash.
type Sha256 struct {
	b []byte
}

// NewSha256 creates a Sha256 from a []byte or hex string.
func NewSha256(v any) (Sha256, error) {
	b, err := fixedBytes(TypeSha256, v, Sha256Len)
	if err != nil {
		return Sha256{}, err
	}
	return Sha256{b: b}, nil
}

func (Sha256) isValue() {}

// Type returns "Sha256".
func (h Sha256) Type() string { return TypeSha256 }

// Serialize returns the hash bytes.
func (h Sha256) Serialize() []byte { return bytes.Clone(nonNil(h.b)) }

// Hex returns the hex encoding.
func (h Sha256) Hex() string { return toHex(h.b) }

// Equals compares canonical encodings.
func (h Sha256) Equals(o Value) bool { return equalValues(h, o) }

// Sig is a DER signature followed by one sighash flag byte.
type Sig struct {
	b []byte
}

// NewSig creates a Sig from a []byte or hex string.
func NewSig(v any) (Sig, error) {
	b, err := toByteSlice(v)
	if err != nil {
		return Sig{}, &TypeError{Expected: TypeSig, Got: fmt.Sprintf("%T", v), Err: err}
	}
	if len(b) < MinSigLen || len(b) > MaxSigLen {
		return Sig{}, &TypeError{
			Expected: fmt.Sprintf("%s of %d..%d bytes", TypeSig, MinSigLen, MaxSigLen),
			Got:      fmt.Sprintf("%d bytes", len(b)),
		}
	}
	return Sig{b: b}, nil
}

func (Sig) isValue() {}

// Type returns "Sig".
func (s Sig) Type() string { return TypeSig }

// Serialize returns the signature bytes including the sighash byte.
func (s Sig) Serialize() []byte { return bytes.Clone(nonNil(s.b)) }

// Hex returns the hex encoding.
func (s Sig) Hex() string { return toHex(s.b) }

// Equals compares canonical encodings.
func (s Sig) Equals(o Value) bool { return equalValues(s, o) }

// SigHash is a set of OR-able signature hash flags.
type SigHash byte

const (
	SigHashAll          SigHash = 0x01
	SigHashNone         SigHash = 0x02
	SigHashSingle       SigHash = 0x03
	SigHashForkID       SigHash = 0x40
	SigHashAnyOneCanPay SigHash = 0x80
)

// SigHashType wraps a single sighash flag byte.
type SigHashType struct {
	b SigHash
}

// NewSigHashType creates a SigHashType from combined flags.
func NewSigHashType(flags SigHash) SigHashType { return SigHashType{b: flags} }

func (SigHashType) isValue() {}

// Type returns "SigHashType".
func (s SigHashType) Type() string { return TypeSigHashType }

// Flags returns the flag byte.
func (s SigHashType) Flags() SigHash { return s.b }

// Has reports whether every bit of f is set.
func (s SigHashType) Has(f SigHash) bool { return s.b&f == f }

// Serialize returns the single flag byte.
func (s SigHashType) Serialize() []byte { return []byte{byte(s.b)} }

// Hex returns the hex encoding.
func (s SigHashType) Hex() string { return toHex(s.Serialize()) }

// Equals compares canonical encodings.
func (s SigHashType) Equals(o Value) bool { return equalValues(s, o) }

// OpCodeType wraps one opcode byte.
type OpCodeType struct {
	b byte
}

// NewOpCodeType creates an OpCodeType from a byte, int, or one-byte hex string.
func NewOpCodeType(v any) (OpCodeType, error) {
	switch x := v.(type) {
	case byte:
		return OpCodeType{b: x}, nil
	case int:
		if x < 0 || x > 0xff {
			return OpCodeType{}, &TypeError{Expected: TypeOpCodeType, Got: fmt.Sprint(x), Err: errors.New("opcode out of range")}
		}
		return OpCodeType{b: byte(x)}, nil
	}
	b, err := fixedBytes(TypeOpCodeType, v, 1)
	if err != nil {
		return OpCodeType{}, err
	}
	return OpCodeType{b: b[0]}, nil
}

func (OpCodeType) isValue() {}

// Type returns "OpCodeType".
func (o OpCodeType) Type() string { return TypeOpCodeType }

// Code returns the opcode byte.
func (o OpCodeType) Code() byte { return o.b }

// Serialize returns the opcode byte.
func (o OpCodeType) Serialize() []byte { return []byte{o.b} }

// Hex returns the hex encoding.
func (o OpCodeType) Hex() string { return toHex(o.Serialize()) }

// Equals compares canonical encodings.
func (o OpCodeType) Equals(v Value) bool { return equalValues(o, v) }

// SigHashPreimage is the opaque digest preimage produced by the transaction
// library. It has no internal structure here.
type SigHashPreimage struct {
	b []byte
}

// NewSigHashPreimage creates a SigHashPreimage from a []byte or hex string.
func NewSigHashPreimage(v any) (SigHashPreimage, error) {
	b, err := toByteSlice(v)
	if err != nil {
		return SigHashPreimage{}, &TypeError{Expected: TypeSigHashPreimage, Got: fmt.Sprintf("%T", v), Err: err}
	}
	return SigHashPreimage{b: b}, nil
}

func (SigHashPreimage) isValue() {}

// Type returns "SigHashPreimage".
func (p SigHashPreimage) Type() string { return TypeSigHashPreimage }

// Serialize returns the preimage verbatim.
func (p SigHashPreimage) Serialize() []byte { return bytes.Clone(nonNil(p.b)) }

// Hex returns the hex encoding.
func (p SigHashPreimage) Hex() string { return toHex(p.b) }

// Equals compares canonical encodings.
func (p SigHashPreimage) Equals(o Value) bool { return equalValues(p, o) }

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// toBigInt handles the Go integer conversions accepted by Int and PrivKey.
func toBigInt(v any) (*big.Int, error) {
	switch x := v.(type) {
	case int:
		return big.NewInt(int64(x)), nil
	case int8:
		return big.NewInt(int64(x)), nil
	case int16:
		return big.NewInt(int64(x)), nil
	case int32:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case *big.Int:
		if x == nil {
			return nil, errors.New("nil *big.Int")
		}
		return new(big.Int).Set(x), nil
	case big.Int:
		return new(big.Int).Set(&x), nil
	case string:
		n, ok := new(big.Int).SetString(strings.TrimSpace(x), 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer literal %q", x)
		}
		return n, nil
	default:
		return nil, &EncodingError{Value: v, Err: errors.New("not an integer")}
	}
}

// toByteSlice accepts a []byte (copied) or a hex string.
func toByteSlice(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return bytes.Clone(nonNil(x)), nil
	case string:
		b, err := decodeHex(x)
		if err != nil {
			return nil, fmt.Errorf("invalid hex %q: %w", x, err)
		}
		return b, nil
	default:
		return nil, &EncodingError{Value: v, Err: errors.New("not a byte string")}
	}
}

// fixedBytes decodes v and checks its length against the allowed sizes.
func fixedBytes(typ string, v any, sizes ...int) ([]byte, error) {
	b, err := toByteSlice(v)
	if err != nil {
		return nil, &TypeError{Expected: typ, Got: fmt.Sprintf("%T", v), Err: err}
	}
	for _, n := range sizes {
		if len(b) == n {
			return b, nil
		}
	}
	want := make([]string, len(sizes))
	for i, n := range sizes {
		want[i] = fmt.Sprint(n)
	}
	return nil, &TypeError{
		Expected: fmt.Sprintf("%s of %s bytes", typ, strings.Join(want, " or ")),
		Got:      fmt.Sprintf("%d bytes", len(b)),
	}
}
