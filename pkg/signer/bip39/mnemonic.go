package bip39

import (
	"crypto/sha256"
	"crypto/sha512"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

// validWordCounts maps the BIP-39 mnemonic lengths to the entropy bit width
// they encode (ENT = 32 * wordCount / 3).
var validWordCounts = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	21: 224,
	24: 256,
}

// ToEntropy validates and decodes a mnemonic phrase into its entropy bytes
// using wl to resolve each word to its 11-bit index.
func ToEntropy(wl *Wordlist, phrase string) ([]byte, error) {
	words := strings.Fields(phrase)
	entBits, ok := validWordCounts[len(words)]
	if !ok {
		return nil, ecode.New(ecode.Validation, "bip39: ToEntropy", "mnemonic must have 12, 15, 18, 21, or 24 words")
	}
	csBits := entBits / 32

	bits := newBitWriter(len(words) * 11)
	for _, w := range words {
		idx, ok := wl.IndexOf(w)
		if !ok {
			return nil, ecode.New(ecode.Validation, "bip39: ToEntropy", "invalid mnemonic word: "+w)
		}
		bits.writeBits(uint32(idx), 11)
	}

	allBits := bits.bytes()
	entropy := takeBits(allBits, entBits)
	checksum := extractBits(allBits, entBits, csBits)

	expected := expectedChecksumBits(entropy, csBits)
	if checksum != expected {
		return nil, ecode.New(ecode.Validation, "bip39: ToEntropy", "invalid mnemonic checksum")
	}
	return entropy, nil
}

// FromEntropy encodes entropy (16, 20, 24, 28, or 32 bytes) into its
// space-joined mnemonic phrase using wl.
func FromEntropy(wl *Wordlist, entropy []byte) (string, error) {
	entBits := len(entropy) * 8
	wordCount := 0
	for wc, bits := range validWordCounts {
		if bits == entBits {
			wordCount = wc
			break
		}
	}
	if wordCount == 0 {
		return "", ecode.New(ecode.Validation, "bip39: FromEntropy", "entropy must be 16, 20, 24, 28, or 32 bytes")
	}
	csBits := entBits / 32
	checksum := expectedChecksumBits(entropy, csBits)

	bits := newBitWriter(entBits + csBits)
	for _, b := range entropy {
		bits.writeBits(uint32(b), 8)
	}
	bits.writeBits(checksum, csBits)

	allBits := bits.bytes()
	words := make([]string, wordCount)
	for i := 0; i < wordCount; i++ {
		idx := uint16(extractBits(allBits, i*11, 11))
		w, ok := wl.Word(idx)
		if !ok {
			return "", ecode.New(ecode.Crypto, "bip39: FromEntropy", "wordlist index out of range")
		}
		words[i] = w
	}
	return strings.Join(words, " "), nil
}

// MnemonicToSeed stretches phrase (optionally with a BIP-39 passphrase) into
// a 64-byte seed via PBKDF2-HMAC-SHA512 with 2048 iterations, salt
// "mnemonic"+passphrase.
func MnemonicToSeed(phrase, passphrase string) []byte {
	salt := "mnemonic" + passphrase
	return pbkdf2.Key([]byte(phrase), []byte(salt), 2048, 64, sha512.New)
}

func expectedChecksumBits(entropy []byte, csBits int) uint32 {
	sum := sha256.Sum256(entropy)
	return extractBits(sum[:], 0, csBits)
}

// --------------------------------------------------------------------------
// bit-level helpers
// --------------------------------------------------------------------------

type bitWriter struct {
	buf []byte
	n   int // bits written so far
}

func newBitWriter(capBits int) *bitWriter {
	return &bitWriter{buf: make([]byte, (capBits+7)/8)}
}

// writeBits appends the low `count` bits of v, most-significant-bit first.
func (w *bitWriter) writeBits(v uint32, count int) {
	for i := count - 1; i >= 0; i-- {
		bit := (v >> uint(i)) & 1
		byteIdx := w.n / 8
		bitIdx := 7 - (w.n % 8)
		if bit == 1 {
			w.buf[byteIdx] |= 1 << uint(bitIdx)
		}
		w.n++
	}
}

func (w *bitWriter) bytes() []byte { return w.buf }

// extractBits reads `count` bits (MSB-first) starting at bit offset `start`
// from a packed big-endian bit buffer, returning them right-aligned.
func extractBits(buf []byte, start, count int) uint32 {
	var out uint32
	for i := 0; i < count; i++ {
		pos := start + i
		byteIdx := pos / 8
		bitIdx := 7 - (pos % 8)
		var bit uint32
		if byteIdx < len(buf) {
			bit = uint32(buf[byteIdx]>>uint(bitIdx)) & 1
		}
		out = out<<1 | bit
	}
	return out
}

// takeBits returns the first `count` bits as a byte slice (count must be a
// multiple of 8).
func takeBits(buf []byte, count int) []byte {
	return append([]byte(nil), buf[:count/8]...)
}
