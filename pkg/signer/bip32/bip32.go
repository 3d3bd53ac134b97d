// Package bip32 implements BIP-32 hierarchical deterministic wallet key
// derivation over secp256k1.
package bip32

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

// HardenedOffset marks the start of the hardened derivation index range.
const HardenedOffset uint32 = 0x80000000

// Node is a full HD wallet node: it can derive both hardened and
// non-hardened children and can produce an EunuchNode for watch-only use.
type Node struct {
	PrivKey   [32]byte
	PubKey    [33]byte
	ChainCode [32]byte
}

// EunuchNode is a public-only HD wallet node (named for the BIP-32 "neutered"
// extended public key): a strict subset of Node's API with the hardened-step
// operation absent, because hardened derivation requires the private key.
type EunuchNode struct {
	PubKey    [33]byte
	ChainCode [32]byte
}

// FromSeed derives the master node from a BIP-39 seed (typically 64 bytes,
// but any length is accepted per BIP-32).
func FromSeed(seed []byte) (*Node, error) {
	mac := hmac.New(sha512.New, []byte("Bitcoin seed"))
	mac.Write(seed)
	i := mac.Sum(nil)

	il, ir := i[:32], i[32:]
	priv := secp256k1.PrivKeyFromBytes(il)
	if priv == nil {
		return nil, ecode.New(ecode.Crypto, "bip32: FromSeed", "invalid master key derived from seed")
	}

	var node Node
	copy(node.PrivKey[:], il)
	copy(node.PubKey[:], priv.PubKey().SerializeCompressed())
	copy(node.ChainCode[:], ir)
	return &node, nil
}

// Neuter returns the public-only projection of n.
func (n *Node) Neuter() *EunuchNode {
	return &EunuchNode{PubKey: n.PubKey, ChainCode: n.ChainCode}
}

// DeriveChild derives the child at index, following the hardened/normal
// split at HardenedOffset. Per BIP-32, if the candidate IL overflows the
// group order or yields a zero key, derivation retries at index+1.
func (n *Node) DeriveChild(index uint32) (*Node, error) {
	for {
		data := make([]byte, 0, 37)
		if index >= HardenedOffset {
			data = append(data, 0x00)
			data = append(data, n.PrivKey[:]...)
		} else {
			data = append(data, n.PubKey[:]...)
		}
		data = appendUint32BE(data, index)

		mac := hmac.New(sha512.New, n.ChainCode[:])
		mac.Write(data)
		i := mac.Sum(nil)
		il, ir := i[:32], i[32:]

		var ilScalar secp256k1.ModNScalar
		overflow := ilScalar.SetByteSlice(il)
		if overflow {
			index++
			continue
		}

		var parentScalar secp256k1.ModNScalar
		parentScalar.SetByteSlice(n.PrivKey[:])

		childScalar := new(secp256k1.ModNScalar).Add2(&ilScalar, &parentScalar)
		if childScalar.IsZero() {
			index++
			continue
		}

		childBytes := childScalar.Bytes()
		priv := secp256k1.PrivKeyFromBytes(childBytes[:])

		var child Node
		copy(child.PrivKey[:], childBytes[:])
		copy(child.PubKey[:], priv.PubKey().SerializeCompressed())
		copy(child.ChainCode[:], ir)
		return &child, nil
	}
}

// DeriveChild derives the non-hardened child at index. Hardened derivation
// is rejected because an EunuchNode holds no private key material.
func (n *EunuchNode) DeriveChild(index uint32) (*EunuchNode, error) {
	if index >= HardenedOffset {
		return nil, ecode.New(ecode.Validation, "bip32: EunuchNode.DeriveChild", "hardened derivation requires a private key")
	}

	data := append(append([]byte(nil), n.PubKey[:]...), uint32BE(index)...)

	mac := hmac.New(sha512.New, n.ChainCode[:])
	mac.Write(data)
	i := mac.Sum(nil)
	il, ir := i[:32], i[32:]

	var ilScalar secp256k1.ModNScalar
	if overflow := ilScalar.SetByteSlice(il); overflow {
		return nil, ecode.New(ecode.Crypto, "bip32: EunuchNode.DeriveChild", "derived scalar out of range, retry with next index")
	}

	parentPub, err := secp256k1.ParsePubKey(n.PubKey[:])
	if err != nil {
		return nil, ecode.Wrap(ecode.Crypto, "bip32: EunuchNode.DeriveChild", err)
	}

	childPub := addScalarBaseMultToPoint(&ilScalar, parentPub)
	if childPub == nil {
		return nil, ecode.New(ecode.Crypto, "bip32: EunuchNode.DeriveChild", "derived point is the point at infinity")
	}

	var child EunuchNode
	copy(child.PubKey[:], childPub.SerializeCompressed())
	copy(child.ChainCode[:], ir)
	return &child, nil
}

// DerivePath walks a "m/44'/60'/0'/0/0"-style path from n. "m" alone returns
// n unchanged.
func (n *Node) DerivePath(path string) (*Node, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	cur := n
	for _, step := range steps {
		cur, err = cur.DeriveChild(step)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// DerivePath walks a non-hardened path from n.
func (n *EunuchNode) DerivePath(path string) (*EunuchNode, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	cur := n
	for _, step := range steps {
		cur, err = cur.DeriveChild(step)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func parsePath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, ecode.New(ecode.Validation, "bip32: parsePath", `path must start with "m"`)
	}
	steps := make([]uint32, 0, len(parts)-1)
	for _, p := range parts[1:] {
		hardened := strings.HasSuffix(p, "'") || strings.HasSuffix(p, "h") || strings.HasSuffix(p, "H")
		numStr := strings.TrimRight(p, "'hH")
		n, err := strconv.ParseUint(numStr, 10, 32)
		if err != nil {
			return nil, ecode.Wrap(ecode.Validation, "bip32: parsePath", err)
		}
		index := uint32(n)
		if hardened {
			index += HardenedOffset
		}
		steps = append(steps, index)
	}
	return steps, nil
}

func uint32BE(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func appendUint32BE(dst []byte, v uint32) []byte {
	return append(dst, uint32BE(v)...)
}

// addScalarBaseMultToPoint computes parent + ilScalar*G, returning nil if the
// result is the point at infinity.
func addScalarBaseMultToPoint(ilScalar *secp256k1.ModNScalar, parent *secp256k1.PublicKey) *secp256k1.PublicKey {
	var tweak, parentJ, sum secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(ilScalar, &tweak)
	parent.AsJacobian(&parentJ)
	secp256k1.AddNonConst(&tweak, &parentJ, &sum)
	if (sum.X.IsZero() && sum.Y.IsZero()) || sum.Z.IsZero() {
		return nil
	}
	sum.ToAffine()
	return secp256k1.NewPublicKey(&sum.X, &sum.Y)
}
