package scryptlib

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// codePartPlaceholder marks where the compiler expects the code part itself.
const codePartPlaceholder = "<__codePart__>"

var placeholderRe = regexp.MustCompile(`<[^<>\s]+>`)

// PushValue returns the script pushes that place v on the stack. Structs
// and arrays push each leaf in declaration order.
func PushValue(v Value) []byte {
	switch val := v.(type) {
	case Struct:
		var out []byte
		for _, f := range val.values {
			out = append(out, PushValue(f)...)
		}
		return out
	case Array:
		var out []byte
		for _, item := range val.items {
			out = append(out, PushValue(item)...)
		}
		return out
	case Int:
		return PushInt(val.bigInt())
	case PrivKey:
		return PushInt(val.BigInt())
	case Bool:
		if val.v {
			return []byte{OpTrue}
		}
		return []byte{OpFalse}
	default:
		return PushData(v.Serialize())
	}
}

// flattenPlaceholders maps every placeholder that can name part of v to the
// hex of its push encoding: <name>, <name.field> and <name[i]>.
func flattenPlaceholders(name string, v Value, hexOf func(Value) string, out map[string]string) {
	out["<"+name+">"] = hexOf(v)
	switch val := v.(type) {
	case Struct:
		for i, f := range val.typ.Fields {
			flattenPlaceholders(name+"."+f.Name, val.values[i], hexOf, out)
		}
	case Array:
		for i, item := range val.items {
			flattenPlaceholders(name+"["+strconv.Itoa(i)+"]", item, hexOf, out)
		}
	}
}

// buildCodePart substitutes constructor arguments into the hex template.
// State arguments and the code part placeholder become OP_0 since their real
// values live in the data part.
func buildCodePart(template string, params []Param, args []Value, isState func(string) bool) ([]byte, error) {
	subs := make(map[string]string)
	for i, p := range params {
		hexOf := func(v Value) string { return toHex(PushValue(v)) }
		if isState(p.Name) {
			hexOf = func(Value) string { return "00" }
		}
		flattenPlaceholders(p.Name, args[i], hexOf, subs)
	}
	subs[codePartPlaceholder] = "00"

	var missing string
	out := placeholderRe.ReplaceAllStringFunc(template, func(ph string) string {
		if s, ok := subs[ph]; ok {
			return s
		}
		if missing == "" {
			missing = ph
		}
		return ph
	})
	if missing != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedPlaceholder, missing)
	}

	code, err := decodeHex(strings.TrimSpace(out))
	if err != nil {
		return nil, fmt.Errorf("%w: code part is not hex: %v", ErrInvalidDescription, err)
	}
	return code, nil
}

// checkTemplate verifies that the template is hex once placeholders are removed.
func checkTemplate(template string) error {
	stripped := placeholderRe.ReplaceAllString(template, "")
	if _, err := decodeHex(strings.TrimSpace(stripped)); err != nil || len(stripped)%2 != 0 {
		return fmt.Errorf("%w: hex template is malformed", ErrInvalidDescription)
	}
	return nil
}

// AssembleScript joins a code part and a data part with OP_RETURN.
func AssembleScript(codePart, dataPart []byte) []byte {
	out := make([]byte, 0, len(codePart)+1+len(dataPart))
	out = append(out, codePart...)
	out = append(out, OpReturn)
	return append(out, dataPart...)
}

// SplitScript splits a locking script at its last top-level OP_RETURN.
// Push bodies are skipped, so a 0x6a byte inside pushed data is never taken
// as the separator.
func SplitScript(script []byte) (codePart, dataPart []byte, err error) {
	ops, err := decodeOps(script)
	if err != nil {
		return nil, nil, err
	}
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].Code == OpReturn && ops[i].Data == nil {
			off := ops[i].Offset
			return bytes.Clone(script[:off]), bytes.Clone(script[off+1:]), nil
		}
	}
	return nil, nil, ErrNoSeparator
}
