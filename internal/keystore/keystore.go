// Package keystore encrypts and decrypts a pkg/signer.Signer's private key
// for at-rest storage, the way a CLI or long-running service needs to hold
// a key across restarts without keeping it in plaintext on disk.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/pbkdf2"

	"github.com/alanyoungcy/ethcore/pkg/signer"
)

const (
	// pbkdf2Iterations is the OWASP-recommended minimum for HMAC-SHA256.
	pbkdf2Iterations = 480_000
	// saltLen is the random salt length in bytes.
	saltLen = 16
	// aesKeyLen is the derived AES-256 key length.
	aesKeyLen = 32
	// currentVersion is the encrypted-key JSON schema version.
	currentVersion = 1
)

// encryptedKeyJSON is the on-disk format for an encrypted private key.
type encryptedKeyJSON struct {
	Version    int    `json:"version"`
	Address    string `json:"address"`    // checksummed, informational only
	Salt       string `json:"salt"`       // base64 standard encoding
	Nonce      string `json:"nonce"`      // base64 standard encoding
	Ciphertext string `json:"ciphertext"` // base64 standard encoding
}

// Config carries the information Load needs to resolve a Signer.
// Populate the fields from environment variables or a config file.
type Config struct {
	// RawPrivateKeyHex is a hex-encoded private key (with or without 0x
	// prefix). If non-empty, Load uses it directly.
	RawPrivateKeyHex string

	// EncryptedKeyPath is the path to a JSON file produced by Encrypt.
	EncryptedKeyPath string

	// KeyPassword is the password used to decrypt the file at EncryptedKeyPath.
	KeyPassword string
}

// Encrypt encrypts s's private key with password using PBKDF2-HMAC-SHA256
// key derivation and AES-256-GCM authenticated encryption. It returns the
// JSON blob suitable for writing to disk.
func Encrypt(s *signer.Signer, password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("keystore: password must not be empty")
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("keystore: generating salt: %w", err)
	}

	derivedKey := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, aesKeyLen, sha256.New)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("keystore: creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("keystore: creating GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("keystore: generating nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, s.PrivateKeyBytes(), nil)

	out := encryptedKeyJSON{
		Version:    currentVersion,
		Address:    s.Address().Hex(),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}

	return json.MarshalIndent(out, "", "  ")
}

// Decrypt decrypts a JSON blob produced by Encrypt, returning the Signer it
// wraps.
func Decrypt(encryptedJSON []byte, password string) (*signer.Signer, error) {
	if password == "" {
		return nil, errors.New("keystore: password must not be empty")
	}

	var stored encryptedKeyJSON
	if err := json.Unmarshal(encryptedJSON, &stored); err != nil {
		return nil, fmt.Errorf("keystore: parsing encrypted key JSON: %w", err)
	}
	if stored.Version != currentVersion {
		return nil, fmt.Errorf("keystore: unsupported version %d", stored.Version)
	}

	salt, err := base64.StdEncoding.DecodeString(stored.Salt)
	if err != nil {
		return nil, fmt.Errorf("keystore: decoding salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(stored.Nonce)
	if err != nil {
		return nil, fmt.Errorf("keystore: decoding nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(stored.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("keystore: decoding ciphertext: %w", err)
	}

	derivedKey := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, aesKeyLen, sha256.New)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("keystore: creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("keystore: creating GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("keystore: decryption failed (wrong password?): %w", err)
	}

	return signer.New(plaintext)
}

// Load resolves a Signer from the provided configuration.
//
// Resolution order:
//  1. If RawPrivateKeyHex is set, parse it directly.
//  2. If EncryptedKeyPath is set, read the file and decrypt with KeyPassword.
//  3. Otherwise, return an error.
func Load(cfg Config) (*signer.Signer, error) {
	if cfg.RawPrivateKeyHex != "" {
		return signer.FromHex(cfg.RawPrivateKeyHex)
	}

	if cfg.EncryptedKeyPath != "" {
		data, err := os.ReadFile(cfg.EncryptedKeyPath)
		if err != nil {
			return nil, fmt.Errorf("keystore: reading encrypted key file: %w", err)
		}
		return Decrypt(data, cfg.KeyPassword)
	}

	return nil, errors.New("keystore: no private key source configured (set RawPrivateKeyHex or EncryptedKeyPath)")
}

// WriteEncrypted encrypts s with password and writes the resulting JSON to
// path with restrictive permissions.
func WriteEncrypted(s *signer.Signer, password, path string) error {
	blob, err := Encrypt(s, password)
	if err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o600)
}
