package tx

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/ethcore/pkg/evmtype"
	"github.com/alanyoungcy/ethcore/pkg/signer"
)

// knownAccount is the well-known Hardhat/Anvil default test account #0: the
// private key derived from the "test test test ... junk" mnemonic at
// m/44'/60'/0'/0/0, address 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266.
const knownAccountAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

func testSigner(t *testing.T) *signer.Signer {
	t.Helper()
	priv := make([]byte, 32)
	priv[31] = 0x01
	s, err := signer.New(priv)
	require.NoError(t, err)
	return s
}

func sampleLegacyEnvelope() Envelope {
	to := evmtype.Address{19: 0x01}
	return Envelope{
		Type:     LegacyType,
		Nonce:    1,
		GasPrice: uint256.NewInt(1_000_000_000),
		Gas:      21000,
		To:       &to,
		Value:    uint256.NewInt(1_000),
		Data:     nil,
	}
}

func sampleLondonEnvelope() Envelope {
	to := evmtype.Address{19: 0x02}
	return Envelope{
		Type:      LondonType,
		ChainID:   uint256.NewInt(1),
		Nonce:     5,
		GasTipCap: uint256.NewInt(2_000_000_000),
		GasFeeCap: uint256.NewInt(50_000_000_000),
		Gas:       21000,
		To:        &to,
		Value:     uint256.NewInt(42),
		Data:      []byte{0xde, 0xad, 0xbe, 0xef},
	}
}

func TestSerializeParseLegacyUnsignedNoReplay(t *testing.T) {
	env := sampleLegacyEnvelope()
	encoded, err := Serialize(env)
	require.NoError(t, err)

	parsed, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, env.Nonce, parsed.Nonce)
	assert.Equal(t, env.GasPrice.Uint64(), parsed.GasPrice.Uint64())
	assert.Equal(t, *env.To, *parsed.To)
	assert.Nil(t, parsed.Signature)
}

func TestSignAndRecoverLegacy(t *testing.T) {
	s := testSigner(t)
	env := sampleLegacyEnvelope()
	env.ReplayProtected = true
	env.ChainID = uint256.NewInt(1)

	signed, err := Sign(env, s)
	require.NoError(t, err)
	require.NotNil(t, signed.Signature)

	addr, err := RecoverSender(signed)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), addr)
}

func TestSerializeParseLegacySignedRoundTrip(t *testing.T) {
	s := testSigner(t)
	env := sampleLegacyEnvelope()
	env.ReplayProtected = true
	env.ChainID = uint256.NewInt(1)

	signed, err := Sign(env, s)
	require.NoError(t, err)

	encoded, err := Serialize(signed)
	require.NoError(t, err)

	parsed, err := ParseSigned(encoded)
	require.NoError(t, err)
	require.NotNil(t, parsed.Signature)
	assert.True(t, parsed.ReplayProtected)
	assert.Equal(t, uint64(1), parsed.ChainID.Uint64())

	addr, err := RecoverSender(parsed)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), addr)
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)
}

func TestParseSignedRejectsUnsignedEnvelope(t *testing.T) {
	encoded, err := Serialize(sampleLegacyEnvelope())
	require.NoError(t, err)
	_, err = ParseSigned(encoded)
	assert.Error(t, err)
}

func TestRecoverSenderRejectsUnsignedEnvelope(t *testing.T) {
	_, err := RecoverSender(sampleLegacyEnvelope())
	assert.Error(t, err)
}

func TestSerializeParseLondonUnsigned(t *testing.T) {
	env := sampleLondonEnvelope()
	encoded, err := Serialize(env)
	require.NoError(t, err)
	assert.Equal(t, byte(LondonType), encoded[0])

	parsed, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, LondonType, parsed.Type)
	assert.Equal(t, env.GasTipCap.Uint64(), parsed.GasTipCap.Uint64())
	assert.Equal(t, env.GasFeeCap.Uint64(), parsed.GasFeeCap.Uint64())
	assert.Equal(t, env.Data, parsed.Data)
}

func TestSignAndRecoverLondonWithAccessList(t *testing.T) {
	s := testSigner(t)
	env := sampleLondonEnvelope()
	env.AccessList = AccessList{
		{Address: evmtype.Address{0: 0xaa}, StorageKeys: []evmtype.Hash{{0: 0x01}}},
	}

	signed, err := Sign(env, s)
	require.NoError(t, err)

	encoded, err := Serialize(signed)
	require.NoError(t, err)

	parsed, err := ParseSigned(encoded)
	require.NoError(t, err)
	require.Len(t, parsed.AccessList, 1)
	assert.Equal(t, env.AccessList[0].Address, parsed.AccessList[0].Address)

	addr, err := RecoverSender(parsed)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), addr)
}

func TestSerializeParseCancunWithBlobFields(t *testing.T) {
	s := testSigner(t)
	env := sampleLondonEnvelope()
	env.Type = CancunType
	env.MaxFeePerBlobGas = uint256.NewInt(100)
	env.BlobVersionedHashes = []evmtype.Hash{{0: 0x01, 1: 0x02}}

	signed, err := Sign(env, s)
	require.NoError(t, err)

	encoded, err := Serialize(signed)
	require.NoError(t, err)

	parsed, err := ParseSigned(encoded)
	require.NoError(t, err)
	assert.Equal(t, CancunType, parsed.Type)
	require.Len(t, parsed.BlobVersionedHashes, 1)
	assert.Equal(t, env.BlobVersionedHashes[0], parsed.BlobVersionedHashes[0])
}

func TestSerializeWrappedRequiresSignedCancun(t *testing.T) {
	env := sampleLondonEnvelope()
	env.Type = CancunType
	_, err := SerializeWrapped(BlobWrapper{Envelope: env})
	assert.Error(t, err)
}

func TestSerializeParseWrappedRoundTrip(t *testing.T) {
	s := testSigner(t)
	env := sampleLondonEnvelope()
	env.Type = CancunType
	env.MaxFeePerBlobGas = uint256.NewInt(10)
	env.BlobVersionedHashes = []evmtype.Hash{{0: 0x09}}

	signed, err := Sign(env, s)
	require.NoError(t, err)

	wrapper := BlobWrapper{
		Envelope:    signed,
		Blobs:       [][]byte{{1, 2, 3}},
		Commitments: [][]byte{{4, 5, 6}},
		Proofs:      [][]byte{{7, 8, 9}},
	}
	encoded, err := SerializeWrapped(wrapper)
	require.NoError(t, err)

	parsed, err := ParseWrapped(encoded)
	require.NoError(t, err)
	assert.Equal(t, wrapper.Blobs, parsed.Blobs)
	assert.Equal(t, wrapper.Commitments, parsed.Commitments)
	assert.Equal(t, wrapper.Proofs, parsed.Proofs)
}

func TestSerializeWrappedRejectsCountMismatch(t *testing.T) {
	s := testSigner(t)
	env := sampleLondonEnvelope()
	env.Type = CancunType
	env.MaxFeePerBlobGas = uint256.NewInt(10)
	env.BlobVersionedHashes = []evmtype.Hash{{0: 0x09}}
	signed, err := Sign(env, s)
	require.NoError(t, err)

	_, err = SerializeWrapped(BlobWrapper{
		Envelope:    signed,
		Blobs:       [][]byte{{1}},
		Commitments: [][]byte{{2}, {3}},
		Proofs:      [][]byte{{4}},
	})
	assert.Error(t, err)
}

func TestSerializeParsePragueWithAuthorizationList(t *testing.T) {
	s := testSigner(t)
	env := sampleLondonEnvelope()
	env.Type = PragueType
	env.AuthorizationList = []Authorization{
		{
			ChainID: uint256.NewInt(1),
			Address: evmtype.Address{0: 0x05},
			Nonce:   3,
			YParity: 1,
			R:       uint256.NewInt(111),
			S:       uint256.NewInt(222),
		},
	}

	signed, err := Sign(env, s)
	require.NoError(t, err)

	encoded, err := Serialize(signed)
	require.NoError(t, err)

	parsed, err := ParseSigned(encoded)
	require.NoError(t, err)
	require.Len(t, parsed.AuthorizationList, 1)
	assert.Equal(t, env.AuthorizationList[0].Address, parsed.AuthorizationList[0].Address)
	assert.Equal(t, env.AuthorizationList[0].Nonce, parsed.AuthorizationList[0].Nonce)
}

func TestParseRejectsUnrecognizedTypeByte(t *testing.T) {
	_, err := Parse([]byte{0x05})
	assert.Error(t, err)
}

func TestTypeStringNames(t *testing.T) {
	assert.Equal(t, "legacy", LegacyType.String())
	assert.Equal(t, "berlin", BerlinType.String())
	assert.Equal(t, "london", LondonType.String())
	assert.Equal(t, "cancun", CancunType.String())
	assert.Equal(t, "prague", PragueType.String())
	assert.Equal(t, "unknown", Type(0xff).String())
}

func TestLegacyUnsignedSerializeKnownVector(t *testing.T) {
	to, err := evmtype.ParseAddress(knownAccountAddr)
	require.NoError(t, err)
	env := Envelope{
		Type:     LegacyType,
		Nonce:    69,
		GasPrice: uint256.NewInt(2_000_000_000),
		Gas:      0,
		To:       &to,
		Value:    uint256.NewInt(1_000_000_000_000_000_000),
	}

	encoded, err := Serialize(env)
	require.NoError(t, err)

	want, err := hex.DecodeString("e64584773594008094f39fd6e51aad88f6f4ce6ab8827279cfffb92266880de0b6b3a764000080")
	require.NoError(t, err)
	assert.Equal(t, want, encoded)
}

func TestLondonAccessListSerializeKnownVectorPrefix(t *testing.T) {
	to, err := evmtype.ParseAddress(knownAccountAddr)
	require.NoError(t, err)
	env := Envelope{
		Type:      LondonType,
		ChainID:   uint256.NewInt(1),
		Nonce:     69,
		GasTipCap: uint256.NewInt(2_000_000_000),
		GasFeeCap: uint256.NewInt(2_000_000_000),
		Gas:       21001,
		To:        &to,
		Value:     uint256.NewInt(1_000_000_000_000_000_000),
		AccessList: AccessList{
			{Address: evmtype.Address{}, StorageKeys: []evmtype.Hash{{31: 0x01}, {31: 0x02}}},
		},
	}

	encoded, err := Serialize(env)
	require.NoError(t, err)

	want, err := hex.DecodeString("02f88b01458477359400847735940082520994")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(encoded), len(want))
	assert.Equal(t, want, encoded[:len(want)])
}

func TestCancunBlobSerializeKnownVectorPrefix(t *testing.T) {
	to, err := evmtype.ParseAddress(knownAccountAddr)
	require.NoError(t, err)
	env := Envelope{
		Type:                CancunType,
		ChainID:             uint256.NewInt(1),
		Nonce:               69,
		GasTipCap:           uint256.NewInt(2_000_000_000),
		GasFeeCap:           uint256.NewInt(2_000_000_000),
		Gas:                 0,
		To:                  &to,
		Value:               uint256.NewInt(1_000_000_000_000_000_000),
		MaxFeePerBlobGas:    uint256.NewInt(0),
		BlobVersionedHashes: []evmtype.Hash{{}},
	}

	encoded, err := Serialize(env)
	require.NoError(t, err)

	wantPrefix, err := hex.DecodeString("03f850014584773594008477359400")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(encoded), len(wantPrefix))
	assert.Equal(t, wantPrefix, encoded[:len(wantPrefix)])

	wantBlobList, err := hex.DecodeString("e1a0" + strings.Repeat("00", 32))
	require.NoError(t, err)
	assert.True(t, bytes.Contains(encoded, wantBlobList))
}

func TestSighashDeterministic(t *testing.T) {
	env := sampleLegacyEnvelope()
	h1, err := Sighash(env)
	require.NoError(t, err)
	h2, err := Sighash(env)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}
