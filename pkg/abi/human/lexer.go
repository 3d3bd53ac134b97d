// Package human implements a lexer, parser, and schema builder for
// Solidity "human-readable" signatures (the ethers.js-style ABI notation),
// producing abi.Parameter-based function/event/error/constructor/fallback/
// receive items. Struct declarations are resolved into tuple parameters and
// are not returned as items.
package human

import (
	"strings"
	"unicode"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma
	tokSemicolon
)

type token struct {
	kind tokenKind
	text string
}

// keywords recognized by the parser; identifiers not in this set are either
// primitive type names (checked structurally) or plain names.
var keywords = map[string]bool{
	"function": true, "event": true, "error": true, "constructor": true,
	"fallback": true, "receive": true, "struct": true,
	"view": true, "pure": true, "payable": true, "nonpayable": true,
	"external": true, "public": true, "internal": true, "private": true,
	"indexed": true, "memory": true, "calldata": true, "storage": true,
	"anonymous": true, "virtual": true, "override": true, "returns": true,
	"tuple": true, "address": true, "bool": true, "string": true, "bytes": true,
}

func lex(source string) ([]token, error) {
	var toks []token
	runes := []rune(source)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '[':
			toks = append(toks, token{tokLBracket, "["})
			i++
		case c == ']':
			toks = append(toks, token{tokRBracket, "]"})
			i++
		case c == '{':
			toks = append(toks, token{tokLBrace, "{"})
			i++
		case c == '}':
			toks = append(toks, token{tokRBrace, "}"})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case c == ';':
			toks = append(toks, token{tokSemicolon, ";"})
			i++
		case unicode.IsDigit(c):
			start := i
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
			toks = append(toks, token{tokNumber, string(runes[start:i])})
		case unicode.IsLetter(c) || c == '_' || c == '$':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_' || runes[i] == '$') {
				i++
			}
			toks = append(toks, token{tokIdent, string(runes[start:i])})
		default:
			return nil, ecode.New(ecode.Schema, "human: lex", "unexpected character '"+string(c)+"'")
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

func isTypeKeyword(s string) bool {
	if s == "address" || s == "bool" || s == "string" || s == "bytes" || s == "tuple" {
		return true
	}
	if n, ok := stripDigitSuffix(s, "uint"); ok {
		return n == "" || isDecimal(n)
	}
	if n, ok := stripDigitSuffix(s, "int"); ok {
		return n == "" || isDecimal(n)
	}
	if n, ok := stripDigitSuffix(s, "bytes"); ok {
		return n == "" || isDecimal(n)
	}
	return false
}

func stripDigitSuffix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
