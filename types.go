package scryptlib

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Primitive type names as they appear in contract descriptions.
const (
	TypeBool            = "bool"
	TypeInt             = "int"
	TypeBytes           = "bytes"
	TypePubKey          = "PubKey"
	TypePrivKey         = "PrivKey"
	TypeRipemd160       = "Ripemd160"
	TypeSha256          = "Sha256"
	TypeSig             = "Sig"
	TypeSigHashType     = "SigHashType"
	TypeOpCodeType      = "OpCodeType"
	TypeSigHashPreimage = "SigHashPreimage"
)

// Kind identifies the arm of the value union a type belongs to.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindBytes
	KindPubKey
	KindPrivKey
	KindRipemd160
	KindSha256
	KindSig
	KindSigHashType
	KindOpCodeType
	KindSigHashPreimage
	KindStruct
	KindArray
)

var primitiveKinds = map[string]Kind{
	TypeBool:            KindBool,
	TypeInt:             KindInt,
	TypeBytes:           KindBytes,
	TypePubKey:          KindPubKey,
	TypePrivKey:         KindPrivKey,
	TypeRipemd160:       KindRipemd160,
	TypeSha256:          KindSha256,
	TypeSig:             KindSig,
	TypeSigHashType:     KindSigHashType,
	TypeOpCodeType:      KindOpCodeType,
	TypeSigHashPreimage: KindSigHashPreimage,
}

// Byte lengths accepted by the fixed-length types.
const (
	PubKeyCompressedLen   = 33
	PubKeyUncompressedLen = 65
	Ripemd160Len          = 20
	Sha256Len             = 32
	MinSigLen             = 9
	MaxSigLen             = 73
)

// IsPrimitiveType reports whether name is one of the built-in leaf types.
func IsPrimitiveType(name string) bool {
	_, ok := primitiveKinds[name]
	return ok
}

// TypeInfo is a fully resolved contract type.
type TypeInfo struct {
	Kind   Kind
	Name   string      // canonical type string, e.g. "int", "Person", "int[2][3]"
	Struct *StructType // set for KindStruct
	Elem   *TypeInfo   // set for KindArray
	Len    int         // set for KindArray
}

// String returns the canonical type string.
func (t *TypeInfo) String() string {
	return t.Name
}

// fixedWidth returns the element width of types that are never length
// prefixed inside a composite, or 0 for variable-width types.
func (t *TypeInfo) fixedWidth() int {
	switch t.Kind {
	case KindBool, KindSigHashType, KindOpCodeType:
		return 1
	case KindRipemd160:
		return Ripemd160Len
	case KindSha256:
		return Sha256Len
	default:
		return 0
	}
}

// StructType is a resolved struct declaration.
type StructType struct {
	Name   string
	Fields []StructField
}

// StructField is one ordered field of a StructType.
type StructField struct {
	Name string
	Type *TypeInfo
}

// Field returns the named field and its position.
func (s *StructType) Field(name string) (StructField, int, bool) {
	for i, f := range s.Fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return StructField{}, -1, false
}

var (
	arrayTypeRe  = regexp.MustCompile(`^(.+?)((?:\[[^\[\]]*\])+)$`)
	arraySizeRe  = regexp.MustCompile(`\[([^\[\]]*)\]`)
	structTypeRe = regexp.MustCompile(`^struct\s+(\w+)\s*\{\s*\}$`)
	identifierRe = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// FactorizeArrayType splits "T[a][b]" into "T" and its sizes, outermost first.
// ok is false when typ is not an array type.
func FactorizeArrayType(typ string) (elem string, sizes []string, ok bool) {
	m := arrayTypeRe.FindStringSubmatch(strings.TrimSpace(typ))
	if m == nil {
		return typ, nil, false
	}
	for _, s := range arraySizeRe.FindAllStringSubmatch(m[2], -1) {
		sizes = append(sizes, strings.TrimSpace(s[1]))
	}
	return strings.TrimSpace(m[1]), sizes, true
}

// ArrayTypeString formats an element type and sizes back into "T[a][b]".
func ArrayTypeString(elem string, sizes []int) string {
	var sb strings.Builder
	sb.WriteString(elem)
	for _, n := range sizes {
		fmt.Fprintf(&sb, "[%d]", n)
	}
	return sb.String()
}

// StructNameOf strips the "struct Name {}" wrapper the compiler emits in
// some type strings. Plain names are returned unchanged.
func StructNameOf(typ string) string {
	if m := structTypeRe.FindStringSubmatch(strings.TrimSpace(typ)); m != nil {
		return m[1]
	}
	return strings.TrimSpace(typ)
}

// parseArraySize accepts positive integer literals only.
func parseArraySize(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("array size %q is not an integer literal", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("array size %d is not positive", n)
	}
	return n, nil
}
