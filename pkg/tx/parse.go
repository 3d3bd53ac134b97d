package tx

import (
	"github.com/holiman/uint256"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
	"github.com/alanyoungcy/ethcore/pkg/rlp"
)

// Parse decodes either a legacy (leading byte >= 0xc0) or typed (leading
// byte in {0x01,0x02,0x03,0x04}) transaction envelope, signed or unsigned.
func Parse(data []byte) (Envelope, error) {
	if len(data) == 0 {
		return Envelope{}, ecode.New(ecode.Protocol, "tx: Parse", "empty input")
	}
	switch data[0] {
	case byte(BerlinType):
		return parseTyped(BerlinType, data[1:])
	case byte(LondonType):
		return parseTyped(LondonType, data[1:])
	case byte(CancunType):
		return parseTyped(CancunType, data[1:])
	case byte(PragueType):
		return parseTyped(PragueType, data[1:])
	default:
		if data[0] < 0xc0 {
			return Envelope{}, ecode.New(ecode.Protocol, "tx: Parse", "unrecognized envelope type byte")
		}
		return parseLegacy(data)
	}
}

// ParseSigned decodes data and requires the result to carry a signature.
func ParseSigned(data []byte) (Envelope, error) {
	env, err := Parse(data)
	if err != nil {
		return Envelope{}, err
	}
	if env.Signature == nil {
		return Envelope{}, ecode.New(ecode.Validation, "tx: ParseSigned", "envelope is unsigned")
	}
	return env, nil
}

func parseLegacy(data []byte) (Envelope, error) {
	elems, err := rlp.ListElements(data)
	if err != nil {
		return Envelope{}, err
	}
	switch len(elems) {
	case 6:
		var body legacyUnsignedNoReplay
		if err := rlp.Decode(data, &body); err != nil {
			return Envelope{}, err
		}
		return Envelope{
			Type: LegacyType, Nonce: body.Nonce, GasPrice: body.GasPrice, Gas: body.Gas,
			To: body.To, Value: body.Value, Data: body.Data,
		}, nil
	case 9:
		var body legacySigned
		if err := rlp.Decode(data, &body); err != nil {
			return Envelope{}, err
		}
		if body.R.IsZero() && body.S.IsZero() {
			return Envelope{
				Type: LegacyType, Nonce: body.Nonce, GasPrice: body.GasPrice, Gas: body.Gas,
				To: body.To, Value: body.Value, Data: body.Data,
				ChainID: body.V, ReplayProtected: true,
			}, nil
		}
		recID, chainID, err := splitLegacyV(body.V)
		if err != nil {
			return Envelope{}, err
		}
		return Envelope{
			Type: LegacyType, Nonce: body.Nonce, GasPrice: body.GasPrice, Gas: body.Gas,
			To: body.To, Value: body.Value, Data: body.Data,
			ChainID: chainID, ReplayProtected: chainID != nil,
			Signature: &evmtype.Signature{R: body.R, S: body.S, V: recID},
		}, nil
	default:
		return Envelope{}, ecode.New(ecode.Protocol, "tx: parseLegacy", "unexpected legacy field count")
	}
}

func parseTyped(t Type, data []byte) (Envelope, error) {
	elems, err := rlp.ListElements(data)
	if err != nil {
		return Envelope{}, err
	}
	n := len(elems)
	switch t {
	case BerlinType:
		switch n {
		case 8:
			var b berlinUnsigned
			if err := rlp.Decode(data, &b); err != nil {
				return Envelope{}, err
			}
			return Envelope{Type: t, ChainID: b.ChainID, Nonce: b.Nonce, GasPrice: b.GasPrice, Gas: b.Gas,
				To: b.To, Value: b.Value, Data: b.Data, AccessList: b.AccessList}, nil
		case 11:
			var b berlinSigned
			if err := rlp.Decode(data, &b); err != nil {
				return Envelope{}, err
			}
			return Envelope{Type: t, ChainID: b.ChainID, Nonce: b.Nonce, GasPrice: b.GasPrice, Gas: b.Gas,
				To: b.To, Value: b.Value, Data: b.Data, AccessList: b.AccessList,
				Signature: &evmtype.Signature{R: b.R, S: b.S, V: b.YParity}}, nil
		}
	case LondonType:
		switch n {
		case 9:
			var b londonUnsigned
			if err := rlp.Decode(data, &b); err != nil {
				return Envelope{}, err
			}
			return Envelope{Type: t, ChainID: b.ChainID, Nonce: b.Nonce, GasTipCap: b.GasTipCap, GasFeeCap: b.GasFeeCap,
				Gas: b.Gas, To: b.To, Value: b.Value, Data: b.Data, AccessList: b.AccessList}, nil
		case 12:
			var b londonSigned
			if err := rlp.Decode(data, &b); err != nil {
				return Envelope{}, err
			}
			return Envelope{Type: t, ChainID: b.ChainID, Nonce: b.Nonce, GasTipCap: b.GasTipCap, GasFeeCap: b.GasFeeCap,
				Gas: b.Gas, To: b.To, Value: b.Value, Data: b.Data, AccessList: b.AccessList,
				Signature: &evmtype.Signature{R: b.R, S: b.S, V: b.YParity}}, nil
		}
	case CancunType:
		switch n {
		case 11:
			var b cancunUnsigned
			if err := rlp.Decode(data, &b); err != nil {
				return Envelope{}, err
			}
			return Envelope{Type: t, ChainID: b.ChainID, Nonce: b.Nonce, GasTipCap: b.GasTipCap, GasFeeCap: b.GasFeeCap,
				Gas: b.Gas, To: b.To, Value: b.Value, Data: b.Data, AccessList: b.AccessList,
				MaxFeePerBlobGas: b.MaxFeePerBlobGas, BlobVersionedHashes: b.BlobVersionedHashes}, nil
		case 14:
			var b cancunSigned
			if err := rlp.Decode(data, &b); err != nil {
				return Envelope{}, err
			}
			return Envelope{Type: t, ChainID: b.ChainID, Nonce: b.Nonce, GasTipCap: b.GasTipCap, GasFeeCap: b.GasFeeCap,
				Gas: b.Gas, To: b.To, Value: b.Value, Data: b.Data, AccessList: b.AccessList,
				MaxFeePerBlobGas: b.MaxFeePerBlobGas, BlobVersionedHashes: b.BlobVersionedHashes,
				Signature: &evmtype.Signature{R: b.R, S: b.S, V: b.YParity}}, nil
		}
	case PragueType:
		switch n {
		case 10:
			var b pragueUnsigned
			if err := rlp.Decode(data, &b); err != nil {
				return Envelope{}, err
			}
			return Envelope{Type: t, ChainID: b.ChainID, Nonce: b.Nonce, GasTipCap: b.GasTipCap, GasFeeCap: b.GasFeeCap,
				Gas: b.Gas, To: b.To, Value: b.Value, Data: b.Data, AccessList: b.AccessList,
				AuthorizationList: b.AuthorizationList}, nil
		case 13:
			var b pragueSigned
			if err := rlp.Decode(data, &b); err != nil {
				return Envelope{}, err
			}
			return Envelope{Type: t, ChainID: b.ChainID, Nonce: b.Nonce, GasTipCap: b.GasTipCap, GasFeeCap: b.GasFeeCap,
				Gas: b.Gas, To: b.To, Value: b.Value, Data: b.Data, AccessList: b.AccessList,
				AuthorizationList: b.AuthorizationList,
				Signature: &evmtype.Signature{R: b.R, S: b.S, V: b.YParity}}, nil
		}
	}
	return Envelope{}, ecode.New(ecode.Protocol, "tx: parseTyped", "unexpected field count for envelope type")
}

// ParseWrapped decodes an EIP-4844 network-transport (blob sidecar) form.
func ParseWrapped(data []byte) (BlobWrapper, error) {
	if len(data) == 0 || data[0] != byte(CancunType) {
		return BlobWrapper{}, ecode.New(ecode.Protocol, "tx: ParseWrapped", "not a cancun wrapped envelope")
	}
	var w cancunWrapped
	if err := rlp.Decode(data[1:], &w); err != nil {
		return BlobWrapper{}, err
	}
	if len(w.Blobs) != len(w.Commitments) || len(w.Blobs) != len(w.Proofs) {
		return BlobWrapper{}, ecode.New(ecode.Protocol, "tx: ParseWrapped", "blob/commitment/proof count mismatch")
	}
	b := w.Body
	env := Envelope{
		Type: CancunType, ChainID: b.ChainID, Nonce: b.Nonce, GasTipCap: b.GasTipCap, GasFeeCap: b.GasFeeCap,
		Gas: b.Gas, To: b.To, Value: b.Value, Data: b.Data, AccessList: b.AccessList,
		MaxFeePerBlobGas: b.MaxFeePerBlobGas, BlobVersionedHashes: b.BlobVersionedHashes,
		Signature: &evmtype.Signature{R: b.R, S: b.S, V: b.YParity},
	}
	return BlobWrapper{Envelope: env, Blobs: w.Blobs, Commitments: w.Commitments, Proofs: w.Proofs}, nil
}

// splitLegacyV recovers the secp256k1 recovery id and, for EIP-155
// replay-protected signatures, the chain ID encoded into a legacy v value.
func splitLegacyV(v *uint256.Int) (recID uint8, chainID *uint256.Int, err error) {
	if v.Cmp(uint256.NewInt(35)) < 0 {
		if v.Eq(uint256.NewInt(27)) {
			return 0, nil, nil
		}
		if v.Eq(uint256.NewInt(28)) {
			return 1, nil, nil
		}
		return 0, nil, ecode.New(ecode.Validation, "tx: splitLegacyV", "invalid legacy recovery id")
	}
	vMinus35 := new(uint256.Int).Sub(v, uint256.NewInt(35))
	rec := new(uint256.Int).And(vMinus35, uint256.NewInt(1))
	cid := new(uint256.Int).Rsh(new(uint256.Int).Sub(vMinus35, rec), 1)
	return uint8(rec.Uint64()), cid, nil
}
