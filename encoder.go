package scryptlib

import (
	"encoding/binary"
	"math"
	"math/big"
)

// Script opcode constants used by the encoder.
const (
	// OpFalse pushes an empty byte string (also OP_0).
	OpFalse = 0x00

	// OpPushData1 is followed by a 1-byte length.
	OpPushData1 = 0x4c

	// OpPushData2 is followed by a 2-byte little-endian length.
	OpPushData2 = 0x4d

	// OpPushData4 is followed by a 4-byte little-endian length.
	OpPushData4 = 0x4e

	// Op1Negate pushes -1.
	Op1Negate = 0x4f

	// OpTrue pushes 1 (also OP_1). OP_2..OP_16 follow contiguously.
	OpTrue = 0x51

	// Op16 pushes 16.
	Op16 = 0x60

	// OpReturn separates the code part from the data part of a stateful script.
	OpReturn = 0x6a
)

// LengthPrefix returns the push-data style prefix announcing n bytes:
// one byte below 0x4c, otherwise a marker byte and a 1, 2 or 4 byte
// little-endian length.
func LengthPrefix(n int) []byte {
	switch {
	case n < OpPushData1:
		return []byte{byte(n)}
	case n <= 0xff:
		return []byte{OpPushData1, byte(n)}
	case n <= 0xffff:
		p := make([]byte, 3)
		p[0] = OpPushData2
		binary.LittleEndian.PutUint16(p[1:], uint16(n))
		return p
	default:
		p := make([]byte, 5)
		p[0] = OpPushData4
		binary.LittleEndian.PutUint32(p[1:], uint32(n))
		return p
	}
}

// LengthPrefixSize returns len(LengthPrefix(n)) without allocating.
func LengthPrefixSize(n int) int {
	switch {
	case n < OpPushData1:
		return 1
	case n <= 0xff:
		return 2
	case n <= 0xffff:
		return 3
	default:
		return 5
	}
}

// ReadLengthPrefix parses a length prefix at the start of data and returns
// the announced body length and the prefix size.
func ReadLengthPrefix(data []byte) (n int, size int, err error) {
	if len(data) == 0 {
		return 0, 0, ErrTruncated
	}
	op := data[0]
	switch {
	case op < OpPushData1:
		return int(op), 1, nil
	case op == OpPushData1:
		if len(data) < 2 {
			return 0, 0, ErrTruncated
		}
		return int(data[1]), 2, nil
	case op == OpPushData2:
		if len(data) < 3 {
			return 0, 0, ErrTruncated
		}
		return int(binary.LittleEndian.Uint16(data[1:3])), 3, nil
	case op == OpPushData4:
		if len(data) < 5 {
			return 0, 0, ErrTruncated
		}
		n := binary.LittleEndian.Uint32(data[1:5])
		// a length beyond int cannot be satisfied by any slice
		if uint64(n) > uint64(math.MaxInt) {
			return 0, 0, ErrTruncated
		}
		return int(n), 5, nil
	default:
		return 0, 0, ErrBadLengthPrefix
	}
}

// readPrefixed reads one length-prefixed body and returns it with the total
// number of bytes consumed.
func readPrefixed(data []byte) ([]byte, int, error) {
	n, size, err := ReadLengthPrefix(data)
	if err != nil {
		return nil, 0, err
	}
	if uint64(len(data)-size) < uint64(n) {
		return nil, 0, ErrTruncated
	}
	return data[size : size+n], size + n, nil
}

// PushData encodes data as a script push: the length prefix followed by the
// bytes. An empty slice becomes OP_0.
func PushData(data []byte) []byte {
	out := make([]byte, 0, LengthPrefixSize(len(data))+len(data))
	out = append(out, LengthPrefix(len(data))...)
	return append(out, data...)
}

// PushInt encodes n as the shortest script push: OP_0, OP_1NEGATE,
// OP_1..OP_16, or a script number push.
func PushInt(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{OpFalse}
	}
	if n.IsInt64() {
		v := n.Int64()
		if v == -1 {
			return []byte{Op1Negate}
		}
		if v >= 1 && v <= 16 {
			return []byte{byte(OpTrue - 1 + v)}
		}
	}
	return PushData(encodeScriptNum(n))
}

// encodeScriptNum produces the minimal little-endian sign-magnitude
// encoding used for script numbers. Zero encodes as the empty string.
func encodeScriptNum(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{}
	}
	be := new(big.Int).Abs(n).Bytes()
	out := make([]byte, len(be), len(be)+1)
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	if out[len(out)-1]&0x80 != 0 {
		if n.Sign() < 0 {
			out = append(out, 0x80)
		} else {
			out = append(out, 0x00)
		}
	} else if n.Sign() < 0 {
		out[len(out)-1] |= 0x80
	}
	return out
}

// decodeScriptNum inverts encodeScriptNum. A set sign bit on an otherwise
// zero magnitude (negative zero) decodes to 0.
func decodeScriptNum(b []byte) *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	neg := be[0]&0x80 != 0
	be[0] &^= 0x80
	n := new(big.Int).SetBytes(be)
	if neg {
		n.Neg(n)
	}
	return n
}

// scriptOp is a single decoded opcode with the offset it starts at.
type scriptOp struct {
	Offset int
	Code   byte
	Data   []byte
}

// decodeOps walks a script opcode by opcode, keeping push bodies intact.
func decodeOps(script []byte) ([]scriptOp, error) {
	ops := make([]scriptOp, 0, len(script)/2)
	for off := 0; off < len(script); {
		op := script[off]
		if op == OpFalse || op > OpPushData4 {
			ops = append(ops, scriptOp{Offset: off, Code: op})
			off++
			continue
		}
		body, consumed, err := readPrefixed(script[off:])
		if err != nil {
			return nil, &DecodeError{Offset: off, Err: err}
		}
		ops = append(ops, scriptOp{Offset: off, Code: op, Data: body})
		off += consumed
	}
	return ops, nil
}
