// Command ethcorectl is the CLI entry point for the ABI/RLP/transaction/
// signer codecs: key management, BIP-32 derivation, mnemonic handling,
// human-readable signature parsing, ABI decoding, transaction signing, and
// the event-log relay server.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/ethcore/internal/config"
	"github.com/alanyoungcy/ethcore/internal/keystore"
	"github.com/alanyoungcy/ethcore/internal/logrelay"
	"github.com/alanyoungcy/ethcore/pkg/abi"
	"github.com/alanyoungcy/ethcore/pkg/abi/human"
	"github.com/alanyoungcy/ethcore/pkg/signer"
	"github.com/alanyoungcy/ethcore/pkg/signer/bip32"
	"github.com/alanyoungcy/ethcore/pkg/signer/bip39"
	"github.com/alanyoungcy/ethcore/pkg/tx"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]
	reqLogger := logger.With(slog.String("request_id", uuid.New().String()), slog.String("command", cmd))

	var err error
	switch cmd {
	case "keygen":
		err = runKeygen(reqLogger, args)
	case "mnemonic":
		err = runMnemonic(reqLogger, args)
	case "derive":
		err = runDerive(reqLogger, args)
	case "parse-sig":
		err = runParseSig(reqLogger, args)
	case "decode-abi":
		err = runDecodeABI(reqLogger, args)
	case "sign-tx":
		err = runSignTx(reqLogger, args)
	case "relay":
		err = runRelay(reqLogger, args)
	case "attest":
		err = runAttest(reqLogger, args)
	case "next-nonce":
		err = runNextNonce(reqLogger, args)
	case "audit-record":
		err = runAuditRecord(reqLogger, args)
	case "audit-list":
		err = runAuditList(reqLogger, args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		reqLogger.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: ethcorectl <command> [flags]

commands:
  keygen       generate a signer keypair, optionally encrypting it to a keystore file
  mnemonic     generate a new BIP-39 mnemonic, or derive the seed from an existing one
  derive       derive a BIP-32 child key pair from a seed along a derivation path
  parse-sig    parse a human-readable Solidity signature into its canonical form
  decode-abi   decode ABI-encoded calldata against a human-readable signature
  sign-tx      sign a transaction envelope and print its serialized bytes
  relay        start the event-log relay WebSocket server
  attest       build and SSZ-encode a beacon-chain attestation envelope
  next-nonce   reserve, peek, or reset an address's next nonce in the noncecache
  audit-record sign a transaction and record the signed envelope in the auditstore
  audit-list   list recorded signed envelopes from the auditstore`)
}

func runKeygen(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	encryptedOut := fs.String("out", "", "write an encrypted keystore file to this path instead of printing the raw key")
	password := fs.String("password", "", "password for -out (required if -out is set)")
	fs.Parse(args)

	s, err := signer.Generate()
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	if *encryptedOut != "" {
		if *password == "" {
			return fmt.Errorf("keygen: -password is required with -out")
		}
		if err := keystore.WriteEncrypted(s, *password, *encryptedOut); err != nil {
			return fmt.Errorf("writing keystore: %w", err)
		}
		logger.Info("wrote encrypted keystore", slog.String("path", *encryptedOut), slog.String("address", s.Address().String()))
		return nil
	}

	fmt.Printf("address:     %s\n", s.Address().String())
	fmt.Printf("private_key: 0x%s\n", hex.EncodeToString(s.PrivateKeyBytes()))
	return nil
}

func runMnemonic(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("mnemonic", flag.ExitOnError)
	phrase := fs.String("phrase", "", "an existing mnemonic to convert to a seed (generates a new one if empty)")
	entropyBits := fs.Int("bits", 256, "entropy bits for a newly generated mnemonic (128, 160, 192, 224, or 256)")
	passphrase := fs.String("passphrase", "", "BIP-39 passphrase applied during seed derivation")
	fs.Parse(args)

	phraseVal := *phrase
	if phraseVal == "" {
		entropy := make([]byte, *entropyBits/8)
		if _, err := readRandom(entropy); err != nil {
			return fmt.Errorf("generating entropy: %w", err)
		}
		generated, err := bip39.FromEntropy(bip39.English, entropy)
		if err != nil {
			return fmt.Errorf("encoding mnemonic: %w", err)
		}
		phraseVal = generated
		fmt.Printf("mnemonic: %s\n", phraseVal)
	}

	if _, err := bip39.ToEntropy(bip39.English, phraseVal); err != nil {
		return fmt.Errorf("validating mnemonic: %w", err)
	}

	seed := bip39.MnemonicToSeed(phraseVal, *passphrase)
	fmt.Printf("seed: 0x%s\n", hex.EncodeToString(seed))
	return nil
}

func runDerive(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	seedHex := fs.String("seed", "", "hex-encoded BIP-32 seed (required)")
	path := fs.String("path", "m/44'/60'/0'/0/0", "BIP-32 derivation path")
	fs.Parse(args)

	if *seedHex == "" {
		return fmt.Errorf("derive: -seed is required")
	}
	seed, err := hex.DecodeString(trimHexPrefix(*seedHex))
	if err != nil {
		return fmt.Errorf("decoding seed: %w", err)
	}

	master, err := bip32.FromSeed(seed)
	if err != nil {
		return fmt.Errorf("deriving master key: %w", err)
	}
	child, err := master.DerivePath(*path)
	if err != nil {
		return fmt.Errorf("deriving path %s: %w", *path, err)
	}

	s, err := signer.New(child.PrivKey[:])
	if err != nil {
		return fmt.Errorf("building signer: %w", err)
	}

	fmt.Printf("path:        %s\n", *path)
	fmt.Printf("address:     %s\n", s.Address().String())
	fmt.Printf("private_key: 0x%s\n", hex.EncodeToString(s.PrivateKeyBytes()))
	return nil
}

func runParseSig(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("parse-sig", flag.ExitOnError)
	sigSrc := fs.String("sig", "", "human-readable signature, e.g. \"function transfer(address to, uint256 amount)\" (required)")
	fs.Parse(args)

	if *sigSrc == "" {
		return fmt.Errorf("parse-sig: -sig is required")
	}

	items, err := human.Parse(*sigSrc)
	if err != nil {
		return fmt.Errorf("parsing signature: %w", err)
	}
	for _, item := range items {
		canon := abi.CanonicalSignature(item.Name, item.Inputs)
		fmt.Printf("kind:      %d\n", item.Kind)
		fmt.Printf("canonical: %s\n", canon)
		if item.Kind == human.ItemFunction || item.Kind == human.ItemError {
			sel := abi.Selector(item.Name, item.Inputs)
			fmt.Printf("selector:  0x%s\n", hex.EncodeToString(sel[:]))
		}
	}
	return nil
}

func runDecodeABI(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("decode-abi", flag.ExitOnError)
	sigSrc := fs.String("sig", "", "human-readable function signature (required)")
	data := fs.String("data", "", "hex-encoded calldata, including the 4-byte selector (required)")
	fs.Parse(args)

	if *sigSrc == "" || *data == "" {
		return fmt.Errorf("decode-abi: -sig and -data are required")
	}

	items, err := human.Parse(*sigSrc)
	if err != nil {
		return fmt.Errorf("parsing signature: %w", err)
	}
	if len(items) != 1 {
		return fmt.Errorf("decode-abi: expected exactly one declaration, got %d", len(items))
	}
	item := items[0]

	raw, err := hex.DecodeString(trimHexPrefix(*data))
	if err != nil {
		return fmt.Errorf("decoding calldata: %w", err)
	}

	values, err := abi.DecodeFunctionCall(item.Name, item.Inputs, raw, abi.DefaultDecodeOptions())
	if err != nil {
		return fmt.Errorf("decoding arguments: %w", err)
	}

	for i, p := range item.Inputs {
		fmt.Printf("%s (%s) = %+v\n", p.Name, p.TypeString(), values[i])
	}
	return nil
}

func runSignTx(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("sign-tx", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a TOML config file supplying the keystore section as a fallback key source")
	keyHex := fs.String("key", "", "hex-encoded private key (overrides -config's keystore section)")
	to := fs.String("to", "", "recipient address (omit for contract creation)")
	valueDec := fs.Uint64("value", 0, "value in wei")
	nonce := fs.Uint64("nonce", 0, "account nonce")
	gas := fs.Uint64("gas", 21000, "gas limit")
	gasPrice := fs.Uint64("gas-price", 0, "legacy gas price in wei")
	chainID := fs.Uint64("chain-id", 1, "chain id for EIP-155 replay protection")
	dataHex := fs.String("data", "", "hex-encoded call data")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	rawKey := *keyHex
	if rawKey == "" {
		rawKey = cfg.Keystore.RawPrivateKeyHex
	}
	s, err := keystore.Load(keystore.Config{
		RawPrivateKeyHex: rawKey,
		EncryptedKeyPath: cfg.Keystore.EncryptedKeyPath,
		KeyPassword:      cfg.Keystore.KeyPassword,
	})
	if err != nil {
		return fmt.Errorf("loading key: %w", err)
	}

	env, err := buildLegacyEnvelope(*to, *valueDec, *nonce, *gas, *gasPrice, *chainID, *dataHex)
	if err != nil {
		return err
	}

	signed, err := tx.Sign(env, s)
	if err != nil {
		return fmt.Errorf("signing: %w", err)
	}

	raw, err := tx.Serialize(signed)
	if err != nil {
		return fmt.Errorf("serializing: %w", err)
	}

	logger.Info("signed transaction", slog.String("from", s.Address().String()), slog.Uint64("nonce", *nonce))
	fmt.Printf("raw: 0x%s\n", hex.EncodeToString(raw))
	return nil
}

func runRelay(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("relay", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a TOML config file supplying the relay section")
	addr := fs.String("addr", "", "listen address (overrides -config's relay.addr)")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = cfg.Relay.Addr
	}

	hub := logrelay.NewHub(logger)

	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := serveMux(hub)
	srv := &httpServer{addr: listenAddr, mux: mux}

	g, ctx := errgroup.WithContext(notifyCtx)
	g.Go(func() error {
		return hub.Run(ctx)
	})
	g.Go(func() error {
		return srv.runUntil(ctx)
	})

	logger.Info("relay listening", slog.String("addr", listenAddr))
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("relay: %w", err)
	}
	return nil
}

// loadConfig loads and validates the TOML config at path. An empty path
// yields the built-in defaults with ETHCORE_* env overrides still applied,
// so companion services can run purely off environment variables.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadDefaults(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
