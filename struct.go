package scryptlib

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
)

// Struct is a value of a declared struct type. Fields keep declaration order.
type Struct struct {
	typ    *StructType
	values []Value
}

// NewStruct builds a struct value from native or Value field inputs.
// Every declared field must be supplied and no others.
func NewStruct(t *StructType, fields map[string]any) (Struct, error) {
	if t == nil {
		return Struct{}, typeErrorf("", "nil struct type")
	}
	if len(fields) != len(t.Fields) {
		return Struct{}, &TypeError{
			Name:     t.Name,
			Expected: fmt.Sprintf("%d fields", len(t.Fields)),
			Got:      fmt.Sprintf("%d fields", len(fields)),
		}
	}
	values := make([]Value, len(t.Fields))
	for i, f := range t.Fields {
		raw, ok := fields[f.Name]
		if !ok {
			return Struct{}, typeErrorf(t.Name+"."+f.Name, "missing struct field")
		}
		v, err := Coerce(f.Type, raw)
		if err != nil {
			return Struct{}, wrapTypeName(t.Name+"."+f.Name, err)
		}
		values[i] = v
	}
	return Struct{typ: t, values: values}, nil
}

func (Struct) isValue() {}

// Type returns the struct name.
func (s Struct) Type() string {
	if s.typ == nil {
		return ""
	}
	return s.typ.Name
}

// StructType returns the declaration this value conforms to.
func (s Struct) StructType() *StructType { return s.typ }

// Fields returns field names in declaration order.
func (s Struct) Fields() []string {
	if s.typ == nil {
		return nil
	}
	names := make([]string, len(s.typ.Fields))
	for i, f := range s.typ.Fields {
		names[i] = f.Name
	}
	return names
}

// Get returns the value of the named field.
func (s Struct) Get(name string) (Value, bool) {
	if s.typ == nil {
		return nil, false
	}
	_, i, ok := s.typ.Field(name)
	if !ok {
		return nil, false
	}
	return s.values[i], true
}

// With returns a copy of s with one field replaced.
func (s Struct) With(name string, v any) (Struct, error) {
	if s.typ == nil {
		return Struct{}, typeErrorf(name, "zero struct value")
	}
	f, i, ok := s.typ.Field(name)
	if !ok {
		return Struct{}, typeErrorf(s.typ.Name+"."+name, "no such struct field")
	}
	val, err := Coerce(f.Type, v)
	if err != nil {
		return Struct{}, wrapTypeName(s.typ.Name+"."+name, err)
	}
	values := make([]Value, len(s.values))
	copy(values, s.values)
	values[i] = val
	return Struct{typ: s.typ, values: values}, nil
}

// Serialize concatenates field element encodings in declaration order.
func (s Struct) Serialize() []byte {
	var buf bytes.Buffer
	if s.typ == nil {
		return []byte{}
	}
	for i, f := range s.typ.Fields {
		buf.Write(encodeElement(f.Type, s.values[i]))
	}
	return buf.Bytes()
}

// Hex returns the hex encoding.
func (s Struct) Hex() string { return toHex(s.Serialize()) }

// Equals compares struct name and canonical encoding.
func (s Struct) Equals(o Value) bool { return equalValues(s, o) }

// Array is a fixed-length array value T[n].
type Array struct {
	typ   *TypeInfo
	items []Value
}

// NewArray builds an array value of type t from exactly t.Len items.
func NewArray(t *TypeInfo, items ...any) (Array, error) {
	if t == nil || t.Kind != KindArray {
		return Array{}, typeErrorf("", "not an array type")
	}
	if len(items) != t.Len {
		return Array{}, &TypeError{
			Expected: t.Name,
			Got:      fmt.Sprintf("%d items", len(items)),
		}
	}
	values := make([]Value, len(items))
	for i, it := range items {
		v, err := Coerce(t.Elem, it)
		if err != nil {
			return Array{}, wrapTypeName(fmt.Sprintf("[%d]", i), err)
		}
		values[i] = v
	}
	return Array{typ: t, items: values}, nil
}

func (Array) isValue() {}

// Type returns the array type string, e.g. "int[2]".
func (a Array) Type() string {
	if a.typ == nil {
		return ""
	}
	return a.typ.Name
}

// Len returns the number of items.
func (a Array) Len() int { return len(a.items) }

// At returns item i.
func (a Array) At(i int) Value { return a.items[i] }

// Items returns a copy of the items.
func (a Array) Items() []Value {
	out := make([]Value, len(a.items))
	copy(out, a.items)
	return out
}

// Serialize concatenates exactly n element encodings.
func (a Array) Serialize() []byte {
	var buf bytes.Buffer
	if a.typ == nil {
		return []byte{}
	}
	for _, it := range a.items {
		buf.Write(encodeElement(a.typ.Elem, it))
	}
	return buf.Bytes()
}

// Hex returns the hex encoding.
func (a Array) Hex() string { return toHex(a.Serialize()) }

// Equals compares array type and canonical encoding.
func (a Array) Equals(o Value) bool { return equalValues(a, o) }

// Coerce converts v to a Value of type t. Values already of the right type
// are passed through; native Go values are converted through the matching
// constructor. Mismatches fail with a TypeError.
func Coerce(t *TypeInfo, v any) (Value, error) {
	if v == nil {
		return nil, &TypeError{Expected: t.Name, Got: "nil"}
	}
	if val, ok := v.(Value); ok {
		if val.Type() != t.Name {
			return nil, &TypeError{Expected: t.Name, Got: val.Type()}
		}
		if !conforms(t, val) {
			return nil, &TypeError{Expected: t.Name, Got: val.Type() + " of a different declaration"}
		}
		return val, nil
	}

	switch t.Kind {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, &TypeError{Expected: TypeBool, Got: fmt.Sprintf("%T", v)}
		}
		return NewBool(b), nil
	case KindInt:
		return NewInt(v)
	case KindBytes:
		return NewBytes(v)
	case KindPubKey:
		return NewPubKey(v)
	case KindPrivKey:
		return NewPrivKey(v)
	case KindRipemd160:
		return NewRipemd160(v)
	case KindSha256:
		return NewSha256(v)
	case KindSig:
		return NewSig(v)
	case KindSigHashType:
		switch x := v.(type) {
		case SigHash:
			return NewSigHashType(x), nil
		case byte:
			return NewSigHashType(SigHash(x)), nil
		case int:
			if x >= 0 && x <= 0xff {
				return NewSigHashType(SigHash(x)), nil
			}
		}
		return nil, &TypeError{Expected: TypeSigHashType, Got: fmt.Sprintf("%T", v)}
	case KindOpCodeType:
		return NewOpCodeType(v)
	case KindSigHashPreimage:
		return NewSigHashPreimage(v)
	case KindStruct:
		fields, ok := v.(map[string]any)
		if !ok {
			return nil, &TypeError{Expected: t.Name, Got: fmt.Sprintf("%T", v)}
		}
		return NewStruct(t.Struct, fields)
	case KindArray:
		items, ok := sliceItems(v)
		if !ok {
			return nil, &TypeError{Expected: t.Name, Got: fmt.Sprintf("%T", v)}
		}
		return NewArray(t, items...)
	default:
		return nil, &TypeError{Expected: t.Name, Got: fmt.Sprintf("%T", v)}
	}
}

// conforms reports whether val has exactly the layout of t. Struct names
// alone are not enough: another registry may declare the same name with
// different fields.
func conforms(t *TypeInfo, val Value) bool {
	switch x := val.(type) {
	case Struct:
		return t.Kind == KindStruct && sameStruct(t.Struct, x.typ)
	case Array:
		return t.Kind == KindArray && sameType(t, x.typ)
	default:
		return true
	}
}

func sameType(a, b *TypeInfo) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind || a.Name != b.Name {
		return false
	}
	switch a.Kind {
	case KindStruct:
		return sameStruct(a.Struct, b.Struct)
	case KindArray:
		return a.Len == b.Len && sameType(a.Elem, b.Elem)
	default:
		return true
	}
}

func sameStruct(a, b *StructType) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Name != b.Name || len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i].Name != b.Fields[i].Name || !sameType(a.Fields[i].Type, b.Fields[i].Type) {
			return false
		}
	}
	return true
}

// sliceItems flattens any Go slice or array (other than []byte) to []any.
func sliceItems(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	if _, isBytes := v.([]byte); isBytes {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// encodeElement writes a value inside a composite: fixed-width and composite
// types verbatim, variable-width leaves behind a length prefix.
func encodeElement(t *TypeInfo, v Value) []byte {
	raw := v.Serialize()
	if t.fixedWidth() > 0 || t.Kind == KindStruct || t.Kind == KindArray {
		return raw
	}
	return append(LengthPrefix(len(raw)), raw...)
}

// Deserialize decodes one element encoding of type t from the start of data
// and reports how many bytes it consumed.
func Deserialize(t *TypeInfo, data []byte) (Value, int, error) {
	switch t.Kind {
	case KindStruct:
		values := make([]Value, len(t.Struct.Fields))
		off := 0
		for i, f := range t.Struct.Fields {
			v, n, err := Deserialize(f.Type, data[off:])
			if err != nil {
				return nil, 0, withDecodeContext(err, t.Name+"."+f.Name, off)
			}
			values[i] = v
			off += n
		}
		return Struct{typ: t.Struct, values: values}, off, nil
	case KindArray:
		items := make([]Value, t.Len)
		off := 0
		for i := 0; i < t.Len; i++ {
			if off >= len(data) {
				return nil, 0, &DecodeError{
					Field:  fmt.Sprintf("%s[%d]", t.Name, i),
					Offset: off,
					Err:    fmt.Errorf("%w: %d of %d elements present", ErrTruncated, i, t.Len),
				}
			}
			v, n, err := Deserialize(t.Elem, data[off:])
			if err != nil {
				return nil, 0, withDecodeContext(err, fmt.Sprintf("%s[%d]", t.Name, i), off)
			}
			items[i] = v
			off += n
		}
		return Array{typ: t, items: items}, off, nil
	}

	if w := t.fixedWidth(); w > 0 {
		if len(data) < w {
			return nil, 0, &DecodeError{Field: t.Name, Err: ErrTruncated}
		}
		v, err := DecodeValue(t, data[:w])
		return v, w, err
	}

	body, n, err := readPrefixed(data)
	if err != nil {
		return nil, 0, &DecodeError{Field: t.Name, Err: err}
	}
	v, err := DecodeValue(t, body)
	return v, n, err
}

// DecodeValue decodes the exact canonical encoding of a value of type t.
// Composite encodings must be consumed completely.
func DecodeValue(t *TypeInfo, raw []byte) (Value, error) {
	var (
		v   Value
		err error
	)
	switch t.Kind {
	case KindBool:
		if len(raw) != 1 || raw[0] > 0x01 {
			return nil, &DecodeError{Field: t.Name, Err: fmt.Errorf("invalid bool encoding %x", raw)}
		}
		return NewBool(raw[0] == 0x01), nil
	case KindInt:
		return Int{v: decodeScriptNum(raw)}, nil
	case KindPrivKey:
		n := decodeScriptNum(raw)
		if n.Sign() < 0 {
			return nil, &DecodeError{Field: t.Name, Err: fmt.Errorf("negative private key")}
		}
		return PrivKey{v: n}, nil
	case KindBytes:
		return Bytes{b: bytes.Clone(raw)}, nil
	case KindSigHashPreimage:
		return SigHashPreimage{b: bytes.Clone(raw)}, nil
	case KindSigHashType:
		if len(raw) != 1 {
			return nil, &DecodeError{Field: t.Name, Err: fmt.Errorf("expected 1 byte, got %d", len(raw))}
		}
		return NewSigHashType(SigHash(raw[0])), nil
	case KindOpCodeType:
		if len(raw) != 1 {
			return nil, &DecodeError{Field: t.Name, Err: fmt.Errorf("expected 1 byte, got %d", len(raw))}
		}
		return OpCodeType{b: raw[0]}, nil
	case KindPubKey:
		v, err = NewPubKey(bytes.Clone(raw))
	case KindRipemd160:
		v, err = NewRipemd160(bytes.Clone(raw))
	case KindSha256:
		v, err = NewSha256(bytes.Clone(raw))
	case KindSig:
		v, err = NewSig(bytes.Clone(raw))
	case KindStruct, KindArray:
		var n int
		v, n, err = Deserialize(t, raw)
		if err == nil && n != len(raw) {
			return nil, &DecodeError{Field: t.Name, Offset: n, Err: ErrTrailingBytes}
		}
	default:
		return nil, &DecodeError{Field: t.Name, Err: fmt.Errorf("unsupported type %s", t.Name)}
	}
	if err != nil {
		if _, ok := err.(*DecodeError); ok {
			return nil, err
		}
		return nil, &DecodeError{Field: t.Name, Err: err}
	}
	return v, nil
}

// withDecodeContext rebases a nested DecodeError onto the enclosing field.
func withDecodeContext(err error, field string, offset int) error {
	de, ok := err.(*DecodeError)
	if !ok {
		return &DecodeError{Field: field, Offset: offset, Err: err}
	}
	name := field
	if strings.HasPrefix(de.Field, field+".") || strings.HasPrefix(de.Field, field+"[") {
		name = de.Field
	}
	return &DecodeError{Field: name, Offset: offset + de.Offset, Err: de.Err}
}
