package tx

import (
	"github.com/holiman/uint256"

	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

// The structs below mirror each envelope variant's exact RLP field order.
// Field count alone distinguishes unsigned from signed, and (for legacy)
// the pre-EIP-155 form from the replay-protected form, so parsing chooses
// among them by counting top-level list elements before decoding.

type legacyUnsignedNoReplay struct {
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *evmtype.Address
	Value    *uint256.Int
	Data     []byte
}

type legacyUnsignedReplay struct {
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *evmtype.Address
	Value    *uint256.Int
	Data     []byte
	ChainID  *uint256.Int
	Zero1    uint64
	Zero2    uint64
}

type legacySigned struct {
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *evmtype.Address
	Value    *uint256.Int
	Data     []byte
	V        *uint256.Int
	R        *uint256.Int
	S        *uint256.Int
}

type berlinUnsigned struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasPrice   *uint256.Int
	Gas        uint64
	To         *evmtype.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
}

type berlinSigned struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasPrice   *uint256.Int
	Gas        uint64
	To         *evmtype.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	YParity    uint8
	R          *uint256.Int
	S          *uint256.Int
}

type londonUnsigned struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         *evmtype.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
}

type londonSigned struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         *evmtype.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	YParity    uint8
	R          *uint256.Int
	S          *uint256.Int
}

type cancunUnsigned struct {
	ChainID             *uint256.Int
	Nonce               uint64
	GasTipCap           *uint256.Int
	GasFeeCap           *uint256.Int
	Gas                 uint64
	To                  *evmtype.Address
	Value               *uint256.Int
	Data                []byte
	AccessList          AccessList
	MaxFeePerBlobGas    *uint256.Int
	BlobVersionedHashes []evmtype.Hash
}

type cancunSigned struct {
	ChainID             *uint256.Int
	Nonce               uint64
	GasTipCap           *uint256.Int
	GasFeeCap           *uint256.Int
	Gas                 uint64
	To                  *evmtype.Address
	Value               *uint256.Int
	Data                []byte
	AccessList          AccessList
	MaxFeePerBlobGas    *uint256.Int
	BlobVersionedHashes []evmtype.Hash
	YParity             uint8
	R                   *uint256.Int
	S                   *uint256.Int
}

type cancunWrapped struct {
	Body        cancunSigned
	Blobs       [][]byte
	Commitments [][]byte
	Proofs      [][]byte
}

type pragueUnsigned struct {
	ChainID           *uint256.Int
	Nonce             uint64
	GasTipCap         *uint256.Int
	GasFeeCap         *uint256.Int
	Gas               uint64
	To                *evmtype.Address
	Value             *uint256.Int
	Data              []byte
	AccessList        AccessList
	AuthorizationList []Authorization
}

type pragueSigned struct {
	ChainID           *uint256.Int
	Nonce             uint64
	GasTipCap         *uint256.Int
	GasFeeCap         *uint256.Int
	Gas               uint64
	To                *evmtype.Address
	Value             *uint256.Int
	Data              []byte
	AccessList        AccessList
	AuthorizationList []Authorization
	YParity           uint8
	R                 *uint256.Int
	S                 *uint256.Int
}
