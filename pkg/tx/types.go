// Package tx implements the five Ethereum transaction envelope variants
// (legacy, EIP-2930, EIP-1559, EIP-4844, EIP-7702): canonical RLP
// serialization, parsing, sighash computation, and sender recovery.
package tx

import (
	"github.com/holiman/uint256"

	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

// Type identifies an envelope variant by its wire type byte (legacy has no
// byte prefix and is represented here as 0 purely for dispatch).
type Type uint8

const (
	LegacyType Type = 0x00
	BerlinType Type = 0x01
	LondonType Type = 0x02
	CancunType Type = 0x03
	PragueType Type = 0x04
)

func (t Type) String() string {
	switch t {
	case LegacyType:
		return "legacy"
	case BerlinType:
		return "berlin"
	case LondonType:
		return "london"
	case CancunType:
		return "cancun"
	case PragueType:
		return "prague"
	default:
		return "unknown"
	}
}

// AccessTuple is one EIP-2930 access list entry.
type AccessTuple struct {
	Address     evmtype.Address
	StorageKeys []evmtype.Hash
}

// AccessList is the ordered list of storage access declarations carried by
// Berlin-and-later envelopes.
type AccessList []AccessTuple

// Authorization is one EIP-7702 authorization tuple.
type Authorization struct {
	ChainID *uint256.Int
	Address evmtype.Address
	Nonce   uint64
	YParity uint8
	R       *uint256.Int
	S       *uint256.Int
}

// Envelope is the union of all fields any transaction variant can carry.
// Which fields are meaningful is determined by Type; see the per-variant
// serialization rules in serialize.go.
type Envelope struct {
	Type Type

	// ChainID is required for Berlin and later; for legacy it is present
	// only when ReplayProtected is true (EIP-155).
	ChainID *uint256.Int
	Nonce   uint64

	GasPrice  *uint256.Int // legacy, berlin
	GasTipCap *uint256.Int // london, cancun, prague (maxPriorityFeePerGas)
	GasFeeCap *uint256.Int // london, cancun, prague (maxFeePerGas)

	Gas   uint64
	To    *evmtype.Address // nil means contract creation (legacy only)
	Value *uint256.Int
	Data  []byte

	AccessList AccessList // berlin, london, cancun, prague

	MaxFeePerBlobGas    *uint256.Int   // cancun
	BlobVersionedHashes []evmtype.Hash // cancun

	AuthorizationList []Authorization // prague

	// ReplayProtected selects EIP-155 behavior for legacy envelopes: when
	// true and ChainID is set, the chainId/0/0 triple (unsigned) or the
	// EIP-155 v encoding (signed) is used in place of the pre-155 form.
	ReplayProtected bool

	// Signature is nil for an unsigned envelope.
	Signature *evmtype.Signature
}

// BlobWrapper is the EIP-4844 network-transport wrapper: the signed
// transaction body plus its blob sidecar.
type BlobWrapper struct {
	Envelope    Envelope
	Blobs       [][]byte
	Commitments [][]byte
	Proofs      [][]byte
}
