// Package signer implements secp256k1 key management, RFC 6979 deterministic
// signing with BIP-62 low-S canonicalization, and public key / address
// recovery for Ethereum-style signatures.
package signer

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/holiman/uint256"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

// Signer holds a secp256k1 key pair and the Ethereum address it controls.
type Signer struct {
	priv *secp256k1.PrivateKey
	pub  *secp256k1.PublicKey
	addr evmtype.Address
}

// New builds a Signer from a 32-byte private key.
func New(priv []byte) (*Signer, error) {
	if len(priv) != 32 {
		return nil, ecode.New(ecode.Validation, "signer: New", "private key must be 32 bytes")
	}
	pk := secp256k1.PrivKeyFromBytes(priv)
	pub := pk.PubKey()
	return &Signer{priv: pk, pub: pub, addr: addressFromPubKey(pub)}, nil
}

// FromHex builds a Signer from a hex-encoded private key, with or without
// a leading 0x prefix.
func FromHex(s string) (*Signer, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ecode.Wrap(ecode.Validation, "signer: FromHex", err)
	}
	return New(b)
}

// Generate creates a Signer from a fresh random private key.
func Generate() (*Signer, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, ecode.Wrap(ecode.Crypto, "signer: Generate", err)
	}
	return New(buf)
}

// Address returns the Ethereum address controlled by s.
func (s *Signer) Address() evmtype.Address { return s.addr }

// PublicKeyUncompressed returns the 65-byte uncompressed public key
// (0x04 || X || Y).
func (s *Signer) PublicKeyUncompressed() []byte {
	return s.pub.SerializeUncompressed()
}

// PrivateKeyBytes returns the raw 32-byte private key.
func (s *Signer) PrivateKeyBytes() []byte {
	b := s.priv.Serialize()
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Sign produces a deterministic (RFC 6979), low-S canonical signature over
// hash, a recoverable (r, s, v) triple with v in {0, 1}.
func (s *Signer) Sign(hash evmtype.Hash) (evmtype.Signature, error) {
	sig := ecdsa.SignCompact(s.priv, hash[:], false)
	// SignCompact prepends a recovery header byte: 27 + recid (+4 if the
	// public key used for recovery should be treated as compressed; here we
	// always pass compressed=false, so header = 27 + recid).
	if len(sig) != 65 {
		return evmtype.Signature{}, ecode.New(ecode.Crypto, "signer: Sign", "unexpected compact signature length")
	}
	header := sig[0]
	recID := header - 27
	if recID > 1 {
		return evmtype.Signature{}, ecode.New(ecode.Crypto, "signer: Sign", "unexpected recovery id")
	}
	var r, sVal uint256.Int
	r.SetBytes(sig[1:33])
	sVal.SetBytes(sig[33:65])
	return evmtype.Signature{R: &r, S: &sVal, V: recID}, nil
}

// Verify checks sig against hash for the given uncompressed or compressed
// public key bytes.
func Verify(pubKey []byte, hash evmtype.Hash, sig evmtype.Signature) (bool, error) {
	pub, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return false, ecode.Wrap(ecode.Crypto, "signer: Verify", err)
	}
	s := toDecredSignature(sig)
	return s.Verify(hash[:], pub), nil
}

// RecoverPubkey recovers the uncompressed public key that produced sig over
// hash.
func RecoverPubkey(sig evmtype.Signature, hash evmtype.Hash) ([]byte, error) {
	compact := compactSignatureBytes(sig)
	pub, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return nil, ecode.Wrap(ecode.Crypto, "signer: RecoverPubkey", err)
	}
	return pub.SerializeUncompressed(), nil
}

// RecoverAddress recovers the Ethereum address that produced sig over hash.
func RecoverAddress(sig evmtype.Signature, hash evmtype.Hash) (evmtype.Address, error) {
	compact := compactSignatureBytes(sig)
	pub, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return evmtype.Address{}, ecode.Wrap(ecode.Crypto, "signer: RecoverAddress", err)
	}
	return addressFromPubKey(pub), nil
}

// addressFromPubKey derives the Ethereum address from a public key: the
// low-order 20 bytes of Keccak256 of the uncompressed, prefix-stripped
// public key coordinates.
func addressFromPubKey(pub *secp256k1.PublicKey) evmtype.Address {
	uncompressed := pub.SerializeUncompressed()
	hash := evmtype.Keccak256(uncompressed[1:])
	var addr evmtype.Address
	copy(addr[:], hash[12:])
	return addr
}

func toDecredSignature(sig evmtype.Signature) *ecdsa.Signature {
	var r, s secp256k1.ModNScalar
	rb, sb := sig.R.Bytes32(), sig.S.Bytes32()
	r.SetBytes(&rb)
	s.SetBytes(&sb)
	return ecdsa.NewSignature(&r, &s)
}

func compactSignatureBytes(sig evmtype.Signature) []byte {
	out := make([]byte, 65)
	out[0] = 27 + sig.V
	rb, sb := sig.R.Bytes32(), sig.S.Bytes32()
	copy(out[1:33], rb[:])
	copy(out[33:65], sb[:])
	return out
}
