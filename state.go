package scryptlib

// Field is a named state value.
type Field struct {
	Name  string
	Value Value
}

// EncodeState builds a data part: for every state property in order, the
// length prefix of its encoding followed by the encoding.
func EncodeState(props []Param, values []Value) []byte {
	out := make([]byte, 0, StateLen(values))
	for i := range props {
		raw := values[i].Serialize()
		out = append(out, LengthPrefix(len(raw))...)
		out = append(out, raw...)
	}
	return out
}

// StateLen returns the data part length for values.
func StateLen(values []Value) int {
	n := 0
	for _, v := range values {
		raw := len(v.Serialize())
		n += LengthPrefixSize(raw) + raw
	}
	return n
}

// DecodeState parses a data part into one value per state property. The
// data part must hold exactly the declared fields: missing fields fail with
// ErrTruncated and leftover bytes with ErrTrailingBytes.
func DecodeState(props []Param, data []byte) ([]Value, error) {
	values := make([]Value, len(props))
	off := 0
	for i, p := range props {
		body, n, err := readPrefixed(data[off:])
		if err != nil {
			return nil, &DecodeError{Field: p.Name, Offset: off, Err: err}
		}
		v, err := DecodeValue(p.Type, body)
		if err != nil {
			return nil, withDecodeContext(err, p.Name, off+n-len(body))
		}
		values[i] = v
		off += n
	}
	if off != len(data) {
		return nil, &DecodeError{Offset: off, Err: ErrTrailingBytes}
	}
	return values, nil
}
