package bip32

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeed() []byte {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed
}

func TestFromSeedDeterministic(t *testing.T) {
	n1, err := FromSeed(testSeed())
	require.NoError(t, err)
	n2, err := FromSeed(testSeed())
	require.NoError(t, err)
	assert.Equal(t, n1, n2)
}

func TestDeriveChildNonHardened(t *testing.T) {
	master, err := FromSeed(testSeed())
	require.NoError(t, err)

	child, err := master.DeriveChild(0)
	require.NoError(t, err)
	assert.NotEqual(t, master.PrivKey, child.PrivKey)
	assert.NotEqual(t, master.ChainCode, child.ChainCode)
}

func TestDeriveChildHardenedRequiresPrivateKey(t *testing.T) {
	master, err := FromSeed(testSeed())
	require.NoError(t, err)

	hardenedChild, err := master.DeriveChild(HardenedOffset)
	require.NoError(t, err)
	assert.NotEqual(t, [32]byte{}, hardenedChild.PrivKey)
}

func TestNeuterProducesMatchingPublicKey(t *testing.T) {
	master, err := FromSeed(testSeed())
	require.NoError(t, err)

	neutered := master.Neuter()
	assert.Equal(t, master.PubKey, neutered.PubKey)
	assert.Equal(t, master.ChainCode, neutered.ChainCode)
}

func TestNeuteredChildMatchesPrivateChildPublicKey(t *testing.T) {
	master, err := FromSeed(testSeed())
	require.NoError(t, err)

	privChild, err := master.DeriveChild(5)
	require.NoError(t, err)

	pubChild, err := master.Neuter().DeriveChild(5)
	require.NoError(t, err)

	assert.Equal(t, privChild.PubKey, pubChild.PubKey)
	assert.Equal(t, privChild.ChainCode, pubChild.ChainCode)
}

func TestEunuchNodeRejectsHardenedDerivation(t *testing.T) {
	master, err := FromSeed(testSeed())
	require.NoError(t, err)

	_, err = master.Neuter().DeriveChild(HardenedOffset)
	assert.Error(t, err)
}

func TestDerivePathStandardEthereumAccount(t *testing.T) {
	master, err := FromSeed(testSeed())
	require.NoError(t, err)

	node, err := master.DerivePath("m/44'/60'/0'/0/0")
	require.NoError(t, err)
	assert.NotEqual(t, master.PrivKey, node.PrivKey)
}

func TestDerivePathMAlone(t *testing.T) {
	master, err := FromSeed(testSeed())
	require.NoError(t, err)

	node, err := master.DerivePath("m")
	require.NoError(t, err)
	assert.Equal(t, master, node)
}

func TestDerivePathRejectsMissingMPrefix(t *testing.T) {
	master, err := FromSeed(testSeed())
	require.NoError(t, err)

	_, err = master.DerivePath("44'/60'/0'/0/0")
	assert.Error(t, err)
}

func TestDerivePathRejectsMalformedIndex(t *testing.T) {
	master, err := FromSeed(testSeed())
	require.NoError(t, err)

	_, err = master.DerivePath("m/abc")
	assert.Error(t, err)
}

func TestDerivePathEunuchNode(t *testing.T) {
	master, err := FromSeed(testSeed())
	require.NoError(t, err)

	priv, err := master.DerivePath("m/0/1")
	require.NoError(t, err)

	pub, err := master.Neuter().DerivePath("m/0/1")
	require.NoError(t, err)

	assert.Equal(t, priv.PubKey, pub.PubKey)
}
