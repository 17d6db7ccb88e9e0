package scryptlib

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generatorPubKeyHex = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

func TestHashes(t *testing.T) {
	assert.Equal(t, testSha256Hex, Sha256Of([]byte("abc")).Hex())

	pub, err := NewPubKey(generatorPubKeyHex)
	require.NoError(t, err)
	assert.Equal(t, "751e76e8199196d454941c45d1b3a323f1433bd6", Hash160(pub.Serialize()).Hex())
}

func TestPrivKeyPubKey(t *testing.T) {
	k, err := NewPrivKey(1)
	require.NoError(t, err)

	pub, err := k.PubKey()
	require.NoError(t, err)
	assert.Equal(t, generatorPubKeyHex, pub.Hex())

	ec, err := pub.ECPubKey()
	require.NoError(t, err)
	assert.True(t, ec.IsOnCurve())

	zero, err := NewPrivKey(0)
	require.NoError(t, err)
	_, err = zero.PubKey()
	assert.Error(t, err)

	tooBig, err := NewPrivKey(btcec.S256().Params().N)
	require.NoError(t, err)
	_, err = tooBig.PubKey()
	assert.Error(t, err)
}

func TestSigRoundTrip(t *testing.T) {
	priv, _ := btcec.PrivKeyFromBytes([]byte{
		0xac, 0x09, 0x74, 0xbe, 0xc3, 0x9a, 0x17, 0xe3, 0x6b, 0xa4, 0xa6, 0xb4, 0xd2, 0x38, 0xff, 0x94,
		0x4b, 0xac, 0xb4, 0x78, 0xcb, 0xed, 0x5e, 0xfc, 0xae, 0x78, 0x4d, 0x7b, 0xf4, 0xf2, 0xff, 0x80,
	})
	digest := Sha256Of([]byte("spend output 0"))

	der := ecdsa.Sign(priv, digest.Serialize()).Serialize()
	sig, err := NewSig(append(der, byte(SigHashAll|SigHashForkID)))
	require.NoError(t, err)

	_, flags, err := sig.Signature()
	require.NoError(t, err)
	assert.Equal(t, SigHashAll|SigHashForkID, flags.Flags())

	pub, err := NewPubKey(priv.PubKey().SerializeCompressed())
	require.NoError(t, err)

	ok, err := VerifySig(sig, digest, pub)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifySig(sig, Sha256Of([]byte("spend output 1")), pub)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSigFromVector(t *testing.T) {
	sig, err := NewSig(testSigHex)
	require.NoError(t, err)

	parsed, flags, err := sig.Signature()
	require.NoError(t, err)
	assert.NotNil(t, parsed)
	assert.Equal(t, byte(0x41), byte(flags.Flags()))
}

func TestSigNotDER(t *testing.T) {
	sig, err := NewSig("0102030405060708090a")
	require.NoError(t, err, "length checks only at construction")

	_, _, err = sig.Signature()
	var te *TypeError
	assert.ErrorAs(t, err, &te)
}
