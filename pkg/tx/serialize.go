package tx

import (
	"github.com/holiman/uint256"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
	"github.com/alanyoungcy/ethcore/pkg/rlp"
)

// Serialize produces the canonical wire bytes for env: the unsigned form if
// env.Signature is nil, the signed form otherwise.
func Serialize(env Envelope) ([]byte, error) {
	if env.Signature == nil {
		return serializeUnsigned(env)
	}
	return serializeSigned(env)
}

// Sighash is the keccak256 digest that Signer.Sign/RecoverAddress operate
// over: the unsigned serialized form, type byte included where applicable.
func Sighash(env Envelope) (evmtype.Hash, error) {
	unsigned := env
	unsigned.Signature = nil
	b, err := serializeUnsigned(unsigned)
	if err != nil {
		return evmtype.Hash{}, err
	}
	return evmtype.Keccak256(b), nil
}

func serializeUnsigned(env Envelope) ([]byte, error) {
	switch env.Type {
	case LegacyType:
		if env.ReplayProtected && env.ChainID != nil {
			body := legacyUnsignedReplay{
				Nonce: env.Nonce, GasPrice: env.GasPrice, Gas: env.Gas, To: env.To,
				Value: env.Value, Data: env.Data, ChainID: env.ChainID,
			}
			return rlp.Encode(body)
		}
		body := legacyUnsignedNoReplay{
			Nonce: env.Nonce, GasPrice: env.GasPrice, Gas: env.Gas, To: env.To,
			Value: env.Value, Data: env.Data,
		}
		return rlp.Encode(body)

	case BerlinType:
		body := berlinUnsigned{
			ChainID: env.ChainID, Nonce: env.Nonce, GasPrice: env.GasPrice, Gas: env.Gas,
			To: env.To, Value: env.Value, Data: env.Data, AccessList: env.AccessList,
		}
		return prefixType(BerlinType, body)

	case LondonType:
		body := londonUnsigned{
			ChainID: env.ChainID, Nonce: env.Nonce, GasTipCap: env.GasTipCap, GasFeeCap: env.GasFeeCap,
			Gas: env.Gas, To: env.To, Value: env.Value, Data: env.Data, AccessList: env.AccessList,
		}
		return prefixType(LondonType, body)

	case CancunType:
		body := cancunUnsigned{
			ChainID: env.ChainID, Nonce: env.Nonce, GasTipCap: env.GasTipCap, GasFeeCap: env.GasFeeCap,
			Gas: env.Gas, To: env.To, Value: env.Value, Data: env.Data, AccessList: env.AccessList,
			MaxFeePerBlobGas: env.MaxFeePerBlobGas, BlobVersionedHashes: env.BlobVersionedHashes,
		}
		return prefixType(CancunType, body)

	case PragueType:
		body := pragueUnsigned{
			ChainID: env.ChainID, Nonce: env.Nonce, GasTipCap: env.GasTipCap, GasFeeCap: env.GasFeeCap,
			Gas: env.Gas, To: env.To, Value: env.Value, Data: env.Data, AccessList: env.AccessList,
			AuthorizationList: env.AuthorizationList,
		}
		return prefixType(PragueType, body)

	default:
		return nil, ecode.New(ecode.Schema, "tx: serializeUnsigned", "unsupported envelope type")
	}
}

func serializeSigned(env Envelope) ([]byte, error) {
	sig := env.Signature
	switch env.Type {
	case LegacyType:
		v := legacyV(sig.V, env.ChainID, env.ReplayProtected)
		body := legacySigned{
			Nonce: env.Nonce, GasPrice: env.GasPrice, Gas: env.Gas, To: env.To,
			Value: env.Value, Data: env.Data, V: v, R: sig.R, S: sig.S,
		}
		return rlp.Encode(body)

	case BerlinType:
		body := berlinSigned{
			ChainID: env.ChainID, Nonce: env.Nonce, GasPrice: env.GasPrice, Gas: env.Gas,
			To: env.To, Value: env.Value, Data: env.Data, AccessList: env.AccessList,
			YParity: sig.V, R: sig.R, S: sig.S,
		}
		return prefixType(BerlinType, body)

	case LondonType:
		body := londonSigned{
			ChainID: env.ChainID, Nonce: env.Nonce, GasTipCap: env.GasTipCap, GasFeeCap: env.GasFeeCap,
			Gas: env.Gas, To: env.To, Value: env.Value, Data: env.Data, AccessList: env.AccessList,
			YParity: sig.V, R: sig.R, S: sig.S,
		}
		return prefixType(LondonType, body)

	case CancunType:
		body, err := cancunSignedBody(env)
		if err != nil {
			return nil, err
		}
		return prefixType(CancunType, body)

	case PragueType:
		body := pragueSigned{
			ChainID: env.ChainID, Nonce: env.Nonce, GasTipCap: env.GasTipCap, GasFeeCap: env.GasFeeCap,
			Gas: env.Gas, To: env.To, Value: env.Value, Data: env.Data, AccessList: env.AccessList,
			AuthorizationList: env.AuthorizationList, YParity: sig.V, R: sig.R, S: sig.S,
		}
		return prefixType(PragueType, body)

	default:
		return nil, ecode.New(ecode.Schema, "tx: serializeSigned", "unsupported envelope type")
	}
}

func cancunSignedBody(env Envelope) (cancunSigned, error) {
	sig := env.Signature
	return cancunSigned{
		ChainID: env.ChainID, Nonce: env.Nonce, GasTipCap: env.GasTipCap, GasFeeCap: env.GasFeeCap,
		Gas: env.Gas, To: env.To, Value: env.Value, Data: env.Data, AccessList: env.AccessList,
		MaxFeePerBlobGas: env.MaxFeePerBlobGas, BlobVersionedHashes: env.BlobVersionedHashes,
		YParity: sig.V, R: sig.R, S: sig.S,
	}, nil
}

// SerializeWrapped produces the EIP-4844 network-transport encoding: the
// signed Cancun body plus its blob sidecar. The sidecar counts must match.
func SerializeWrapped(w BlobWrapper) ([]byte, error) {
	if w.Envelope.Type != CancunType || w.Envelope.Signature == nil {
		return nil, ecode.New(ecode.Validation, "tx: SerializeWrapped", "wrapped form requires a signed cancun envelope")
	}
	if len(w.Blobs) != len(w.Commitments) || len(w.Blobs) != len(w.Proofs) {
		return nil, ecode.New(ecode.Validation, "tx: SerializeWrapped", "blob/commitment/proof count mismatch")
	}
	body, err := cancunSignedBody(w.Envelope)
	if err != nil {
		return nil, err
	}
	wrapped := cancunWrapped{Body: body, Blobs: w.Blobs, Commitments: w.Commitments, Proofs: w.Proofs}
	return prefixType(CancunType, wrapped)
}

func prefixType(t Type, body any) ([]byte, error) {
	encoded, err := rlp.Encode(body)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(encoded)+1)
	out = append(out, byte(t))
	return append(out, encoded...), nil
}

// legacyV derives the full legacy "v" field: pre-155 is 27+recid; EIP-155
// replay-protected is 35 + 2*chainId + recid.
func legacyV(recID uint8, chainID *uint256.Int, replayProtected bool) *uint256.Int {
	if !replayProtected || chainID == nil {
		return uint256.NewInt(27 + uint64(recID))
	}
	v := new(uint256.Int).Mul(chainID, uint256.NewInt(2))
	v.Add(v, uint256.NewInt(35+uint64(recID)))
	return v
}
