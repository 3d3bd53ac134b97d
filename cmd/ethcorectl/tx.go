package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/alanyoungcy/ethcore/pkg/evmtype"
	"github.com/alanyoungcy/ethcore/pkg/tx"
)

func readRandom(b []byte) (int, error) {
	return rand.Read(b)
}

// buildLegacyEnvelope assembles a legacy, EIP-155 replay-protected envelope
// from CLI flag values. sign-tx only exposes the legacy shape; the other
// four variants are reachable programmatically via pkg/tx directly.
func buildLegacyEnvelope(to string, value, nonce, gas, gasPrice, chainID uint64, dataHex string) (tx.Envelope, error) {
	env := tx.Envelope{
		Type:            tx.LegacyType,
		Nonce:           nonce,
		GasPrice:        uint256.NewInt(gasPrice),
		Gas:             gas,
		Value:           uint256.NewInt(value),
		ChainID:         uint256.NewInt(chainID),
		ReplayProtected: true,
	}

	if to != "" {
		addr, err := evmtype.ParseAddress(to)
		if err != nil {
			return tx.Envelope{}, fmt.Errorf("parsing -to: %w", err)
		}
		env.To = &addr
	}

	if dataHex != "" {
		data, err := hex.DecodeString(trimHexPrefix(dataHex))
		if err != nil {
			return tx.Envelope{}, fmt.Errorf("parsing -data: %w", err)
		}
		env.Data = data
	}

	return env, nil
}
