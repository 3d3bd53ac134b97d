// Package bip39 implements mnemonic sentence <-> entropy conversion and
// mnemonic-to-seed stretching per BIP-39.
package bip39

import (
	_ "embed"
	"strings"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

//go:embed wordlist_english.txt
var englishWordlistData string

// Wordlist is an immutable, indexable 2048-word BIP-39 dictionary. The
// default English list is loaded once at package init; callers needing a
// different language load their own via NewWordlist.
type Wordlist struct {
	words   [2048]string
	indexOf map[string]uint16
}

// English is the BIP-39 English wordlist, the only wordlist most callers need.
var English = mustLoadWordlist(englishWordlistData)

// NewWordlist builds a Wordlist from newline-separated text containing
// exactly 2048 words.
func NewWordlist(text string) (*Wordlist, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 2048 {
		return nil, ecode.New(ecode.Validation, "bip39: NewWordlist", "wordlist must contain exactly 2048 words")
	}
	wl := &Wordlist{indexOf: make(map[string]uint16, 2048)}
	for i, w := range lines {
		w = strings.TrimSpace(w)
		wl.words[i] = w
		wl.indexOf[w] = uint16(i)
	}
	return wl, nil
}

func mustLoadWordlist(text string) *Wordlist {
	wl, err := NewWordlist(text)
	if err != nil {
		panic(err)
	}
	return wl
}

// Word returns the word at the given 11-bit index.
func (wl *Wordlist) Word(index uint16) (string, bool) {
	if index >= 2048 {
		return "", false
	}
	return wl.words[index], true
}

// IndexOf returns the 11-bit index of word, if present.
func (wl *Wordlist) IndexOf(word string) (uint16, bool) {
	idx, ok := wl.indexOf[word]
	return idx, ok
}
