package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/ethcore/pkg/ssz"
)

// runAttest builds a beacon-chain attestation envelope from CLI flags and
// prints its SSZ-encoded bytes. It is the beacon-chain-adjacent tooling
// that gives pkg/ssz a caller; it does not itself speak a consensus-layer
// network protocol.
func runAttest(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("attest", flag.ExitOnError)
	slot := fs.Uint64("slot", 0, "attestation slot")
	committeeIndex := fs.Uint64("committee-index", 0, "committee index")
	blockRootHex := fs.String("block-root", "", "32-byte hex beacon block root (required)")
	sourceEpoch := fs.Uint64("source-epoch", 0, "source checkpoint epoch")
	sourceRootHex := fs.String("source-root", "", "32-byte hex source checkpoint root (required)")
	targetEpoch := fs.Uint64("target-epoch", 0, "target checkpoint epoch")
	targetRootHex := fs.String("target-root", "", "32-byte hex target checkpoint root (required)")
	bitsHex := fs.String("bits", "", "hex-encoded aggregation bitlist")
	fs.Parse(args)

	blockRoot, err := parseRoot(*blockRootHex)
	if err != nil {
		return fmt.Errorf("parsing -block-root: %w", err)
	}
	sourceRoot, err := parseRoot(*sourceRootHex)
	if err != nil {
		return fmt.Errorf("parsing -source-root: %w", err)
	}
	targetRoot, err := parseRoot(*targetRootHex)
	if err != nil {
		return fmt.Errorf("parsing -target-root: %w", err)
	}

	var bits []byte
	if *bitsHex != "" {
		bits, err = hex.DecodeString(trimHexPrefix(*bitsHex))
		if err != nil {
			return fmt.Errorf("parsing -bits: %w", err)
		}
	}

	att := ssz.Attestation{
		AggregationBits: bits,
		Data: ssz.AttestationData{
			Slot:            *slot,
			CommitteeIndex:  *committeeIndex,
			BeaconBlockRoot: blockRoot,
			Source:          ssz.Checkpoint{Epoch: *sourceEpoch, Root: sourceRoot},
			Target:          ssz.Checkpoint{Epoch: *targetEpoch, Root: targetRoot},
		},
	}

	encoded, err := ssz.Marshal(&att)
	if err != nil {
		return fmt.Errorf("encoding attestation: %w", err)
	}

	logger.Info("encoded attestation", slog.Uint64("slot", *slot), slog.Int("bytes", len(encoded)))
	fmt.Printf("ssz: 0x%s\n", hex.EncodeToString(encoded))
	return nil
}

func parseRoot(s string) (ssz.Root, error) {
	var r ssz.Root
	b, err := hex.DecodeString(trimHexPrefix(s))
	if err != nil {
		return r, err
	}
	if len(b) != 32 {
		return r, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(r[:], b)
	return r, nil
}
