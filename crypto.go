package scryptlib

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/minio/sha256-simd"
)

// Hash160 returns RIPEMD160(SHA256(data)), the digest contracts compare
// public keys against.
func Hash160(data []byte) Ripemd160 {
	return Ripemd160{b: btcutil.Hash160(data)}
}

// Sha256Of returns the SHA256 digest of data.
func Sha256Of(data []byte) Sha256 {
	sum := sha256.Sum256(data)
	return Sha256{b: sum[:]}
}

// PubKey derives the compressed secp256k1 public key for k.
func (k PrivKey) PubKey() (PubKey, error) {
	n := k.BigInt()
	if n.Sign() == 0 || n.Cmp(btcec.S256().Params().N) >= 0 {
		return PubKey{}, &TypeError{Expected: "private key in [1, N)", Got: n.String()}
	}
	_, pub := btcec.PrivKeyFromBytes(n.FillBytes(make([]byte, 32)))
	return PubKey{b: pub.SerializeCompressed()}, nil
}

// ECPubKey parses k as a point on secp256k1.
func (k PubKey) ECPubKey() (*btcec.PublicKey, error) {
	pub, err := btcec.ParsePubKey(k.b)
	if err != nil {
		return nil, &TypeError{Expected: TypePubKey, Got: k.Hex(), Err: err}
	}
	return pub, nil
}

// Signature splits s into its DER signature and trailing sighash flags.
func (s Sig) Signature() (*ecdsa.Signature, SigHashType, error) {
	if len(s.b) < MinSigLen {
		return nil, SigHashType{}, &TypeError{Expected: TypeSig, Got: fmt.Sprintf("%d bytes", len(s.b))}
	}
	der, flags := s.b[:len(s.b)-1], s.b[len(s.b)-1]
	sig, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return nil, SigHashType{}, &TypeError{Expected: "DER signature", Got: toHex(der), Err: err}
	}
	return sig, NewSigHashType(SigHash(flags)), nil
}

// VerifySig checks s against a 32-byte digest and public key. The digest is
// supplied by the transaction library.
func VerifySig(s Sig, digest Sha256, pub PubKey) (bool, error) {
	sig, _, err := s.Signature()
	if err != nil {
		return false, err
	}
	key, err := pub.ECPubKey()
	if err != nil {
		return false, err
	}
	if len(digest.b) != Sha256Len {
		return false, errors.New("scryptlib: digest must be 32 bytes")
	}
	return sig.Verify(digest.b, key), nil
}
