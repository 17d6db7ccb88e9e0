package scryptlib

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateProps(t *testing.T, types ...string) []Param {
	t.Helper()
	reg := personRegistry(t)
	props := make([]Param, len(types))
	for i, typ := range types {
		ti, err := reg.Resolve(typ)
		require.NoError(t, err)
		props[i] = Param{Name: string(rune('a' + i)), Type: ti}
	}
	return props
}

func TestEncodeState(t *testing.T) {
	props := stateProps(t, "int", "bool", "bytes")
	values := []Value{MustInt(0), NewBool(false), MustBytes("")}

	// zero-length int and bytes still carry a prefix
	data := EncodeState(props, values)
	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x00}, data)
	assert.Equal(t, len(data), StateLen(values))
}

func TestEncodeStateLongField(t *testing.T) {
	props := stateProps(t, "bytes", "bytes")
	long := bytes.Repeat([]byte{0x11}, 0x100)
	values := []Value{MustBytes(long), MustBytes("ff")}

	data := EncodeState(props, values)
	assert.Equal(t, []byte{OpPushData2, 0x00, 0x01}, data[:3])
	assert.Equal(t, 3+0x100+2, len(data))
	assert.Equal(t, len(data), StateLen(values))

	got, err := DecodeState(props, data)
	require.NoError(t, err)
	assert.True(t, values[0].Equals(got[0]))
	assert.True(t, values[1].Equals(got[1]))
}

func TestDecodeStateRoundTrip(t *testing.T) {
	props := stateProps(t, "int", "Person", "Sha256[2]", "SigHashType")
	reg := personRegistry(t)
	person, err := reg.NewStruct("Person", map[string]any{"addr": personAddr, "isMale": true, "age": -300})
	require.NoError(t, err)
	hashes, err := Coerce(props[2].Type, []string{testSha256Hex, testSha256Hex})
	require.NoError(t, err)

	values := []Value{MustInt(-5), person, hashes, NewSigHashType(SigHashSingle | SigHashAnyOneCanPay)}
	data := EncodeState(props, values)

	got, err := DecodeState(props, data)
	require.NoError(t, err)
	require.Len(t, got, len(values))
	for i := range values {
		assert.True(t, values[i].Equals(got[i]), props[i].Name)
	}
}

func TestDecodeStateErrors(t *testing.T) {
	props := stateProps(t, "int", "bool")

	tests := []struct {
		name  string
		data  []byte
		err   error
		field string
	}{
		{"empty", nil, ErrTruncated, "a"},
		{"missing second field", []byte{0x01, 0x05}, ErrTruncated, "b"},
		{"short body", []byte{0x01, 0x05, 0x02, 0x01}, ErrTruncated, "b"},
		{"trailing", []byte{0x01, 0x05, 0x01, 0x01, 0x00}, ErrTrailingBytes, ""},
		{"not a prefix", []byte{0x01, 0x05, 0x6a}, ErrBadLengthPrefix, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeState(props, tt.data)
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.field, de.Field)
		})
	}

	t.Run("bad bool body", func(t *testing.T) {
		_, err := DecodeState(props, []byte{0x01, 0x05, 0x01, 0x07})
		var de *DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "b", de.Field)
		assert.Equal(t, 3, de.Offset)
	})
}

func TestDecodeStateNoProps(t *testing.T) {
	got, err := DecodeState(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = DecodeState(nil, []byte{0x00})
	assert.ErrorIs(t, err, ErrTrailingBytes)
}
