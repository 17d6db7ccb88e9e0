package scryptlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleAndSplitScript(t *testing.T) {
	code := []byte{0x51, 0x52, 0x93}
	data := []byte{0x01, 0x05, 0x02, 0x6a, 0x6a}

	script := AssembleScript(code, data)
	assert.Equal(t, []byte{0x51, 0x52, 0x93, 0x6a, 0x01, 0x05, 0x02, 0x6a, 0x6a}, script)

	gotCode, gotData, err := SplitScript(script)
	require.NoError(t, err)
	assert.Equal(t, code, gotCode)
	assert.Equal(t, data, gotData)
}

func TestSplitScriptUsesLastTopLevelReturn(t *testing.T) {
	// code holds an OP_RETURN of its own and a pushed 6a byte
	code := []byte{0x6a, 0x01, 0x6a, 0x75}
	data := []byte{0x01, 0x6a}

	gotCode, gotData, err := SplitScript(AssembleScript(code, data))
	require.NoError(t, err)
	assert.Equal(t, code, gotCode)
	assert.Equal(t, data, gotData)
}

func TestSplitScriptEmptyParts(t *testing.T) {
	gotCode, gotData, err := SplitScript([]byte{OpReturn})
	require.NoError(t, err)
	assert.Empty(t, gotCode)
	assert.Empty(t, gotData)
}

func TestSplitScriptErrors(t *testing.T) {
	_, _, err := SplitScript([]byte{0x51, 0x01, 0x6a})
	assert.ErrorIs(t, err, ErrNoSeparator, "6a inside a push is not a separator")

	_, _, err = SplitScript([]byte{0x6a, 0x4c})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestPushValue(t *testing.T) {
	reg := personRegistry(t)
	p, err := reg.NewStruct("Person", map[string]any{"addr": "", "isMale": false, "age": 1})
	require.NoError(t, err)

	tests := []struct {
		name string
		val  Value
		want string
	}{
		{"int small", MustInt(3), "53"},
		{"int zero", MustInt(0), "00"},
		{"int negative one", MustInt(-1), "4f"},
		{"int large", MustInt(1000), "02e803"},
		{"bool true", NewBool(true), "51"},
		{"bool false", NewBool(false), "00"},
		{"bytes", MustBytes("abcd"), "02abcd"},
		{"empty bytes", MustBytes(""), "00"},
		{"sighash", NewSigHashType(SigHashAll | SigHashForkID), "0141"},
		{"struct", p, "00" + "00" + "51"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toHex(PushValue(tt.val)))
		})
	}
}

func TestBuildCodePart(t *testing.T) {
	reg := personRegistry(t)
	personType, err := reg.Resolve("Person")
	require.NoError(t, err)
	intType, err := reg.Resolve("int")
	require.NoError(t, err)

	p, err := reg.NewStruct("Person", map[string]any{"addr": "ab", "isMale": true, "age": 20})
	require.NoError(t, err)

	params := []Param{{Name: "p", Type: personType}, {Name: "n", Type: intType}}
	args := []Value{p, MustInt(2)}

	t.Run("field placeholders", func(t *testing.T) {
		code, err := buildCodePart("<p.addr><p.age><n>93", params, args, func(string) bool { return false })
		require.NoError(t, err)
		assert.Equal(t, "01ab"+"0114"+"52"+"93", toHex(code))
	})

	t.Run("whole struct placeholder", func(t *testing.T) {
		code, err := buildCodePart("<p>", params, args, func(string) bool { return false })
		require.NoError(t, err)
		assert.Equal(t, "01ab"+"51"+"0114", toHex(code))
	})

	t.Run("state params become OP_0", func(t *testing.T) {
		code, err := buildCodePart("<__codePart__><p.age><n>", params, args, func(name string) bool { return name == "p" })
		require.NoError(t, err)
		assert.Equal(t, "00"+"00"+"52", toHex(code))
	})

	t.Run("unresolved", func(t *testing.T) {
		_, err := buildCodePart("<q>", params, args, func(string) bool { return false })
		assert.ErrorIs(t, err, ErrUnresolvedPlaceholder)
	})
}

func TestCheckTemplate(t *testing.T) {
	assert.NoError(t, checkTemplate("<a>00<b.c>ff<d[0]>"))
	assert.NoError(t, checkTemplate(""))
	assert.ErrorIs(t, checkTemplate("<a>0"), ErrInvalidDescription)
	assert.ErrorIs(t, checkTemplate("xyz"), ErrInvalidDescription)
}
