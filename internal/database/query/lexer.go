// SPDX-License-Identifier: GPL-2.0-or-later

package query

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/owntone/go-libretune-server/internal/cache"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokOp // =, !=, <, <=, >, >=, includes, is, starts with, ends with
)

type token struct {
	kind tokenKind
	text string
}

// multiWordOps lists operator spellings that tokenize as more than one bare
// word, so the lexer can glue them back into a single tokOp.
var multiWordOps = map[string]string{
	"starts with": "starts with",
	"ends with":   "ends with",
}

// dangerousSubstrings are statement-terminator and comment markers that
// have no legitimate use inside a quoted predicate value (unlike plain
// English words such as "union" or "drop", which can appear in a real
// artist or title and would make unusable false positives). guardPrefilter
// rejects a predicate outright if any of these appear, before the lexer
// spends any effort tokenizing it. This is a defense-in-depth belt: the
// compiler already binds every value as a parameter and never concatenates
// client text into SQL, so nothing here can actually reach the database,
// but failing fast keeps obvious injection attempts out of logs and error
// messages as literal SQL.
var dangerousSubstrings = []string{
	";", "--", "/*", "*/", "\x00",
}

var guardAC = buildGuardAC()

func buildGuardAC() *cache.AhoCorasick {
	ac := cache.NewAhoCorasick()
	ac.AddPatterns(dangerousSubstrings, nil)
	ac.Build()
	return ac
}

// guardPrefilter reports the first disallowed substring found in s, or ""
// if none. Checked case-insensitively since AhoCorasick lowercases by
// default.
func guardPrefilter(s string) string {
	if m, ok := guardAC.SearchFirst(s); ok {
		return m.Pattern
	}
	return ""
}

// lex splits a predicate string into tokens. It is deliberately small:
// identifiers are any run of letters/digits/underscore, strings are quoted
// with either ' or ", numbers are runs of digits (optionally signed), and
// everything else is single- or two-character punctuation.
func lex(s string) ([]token, error) {
	if bad := guardPrefilter(s); bad != "" {
		return nil, fmt.Errorf("predicate contains disallowed sequence %q", bad)
	}

	var toks []token
	r := []rune(s)
	i := 0
	n := len(r)

	for i < n {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '\'' || c == '"':
			quote := c
			j := i + 1
			var sb strings.Builder
			closed := false
			for j < n {
				if r[j] == '\\' && j+1 < n {
					sb.WriteRune(r[j+1])
					j += 2
					continue
				}
				if r[j] == quote {
					closed = true
					j++
					break
				}
				sb.WriteRune(r[j])
				j++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated string literal starting at position %d", i)
			}
			toks = append(toks, token{tokString, sb.String()})
			i = j
		case c == '!' && i+1 < n && r[i+1] == '=':
			toks = append(toks, token{tokOp, "!="})
			i += 2
		case c == '<' && i+1 < n && r[i+1] == '=':
			toks = append(toks, token{tokOp, "<="})
			i += 2
		case c == '>' && i+1 < n && r[i+1] == '=':
			toks = append(toks, token{tokOp, ">="})
			i += 2
		case c == '=':
			toks = append(toks, token{tokOp, "="})
			i++
		case c == '<':
			toks = append(toks, token{tokOp, "<"})
			i++
		case c == '>':
			toks = append(toks, token{tokOp, ">"})
			i++
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < n && (unicode.IsLetter(r[j]) || unicode.IsDigit(r[j]) || r[j] == '_') {
				j++
			}
			word := string(r[i:j])
			toks = append(toks, classifyWord(word))
			i = j
		case unicode.IsDigit(c) || (c == '-' && i+1 < n && unicode.IsDigit(r[i+1])):
			j := i + 1
			for j < n && unicode.IsDigit(r[j]) {
				j++
			}
			toks = append(toks, token{tokNumber, string(r[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", c, i)
		}
	}

	return glueMultiWordOps(toks), nil
}

func classifyWord(word string) token {
	switch strings.ToLower(word) {
	case "and":
		return token{tokAnd, word}
	case "or":
		return token{tokOr, word}
	case "includes", "is":
		return token{tokOp, strings.ToLower(word)}
	case "starts", "ends", "with":
		// Resolved by glueMultiWordOps; tag as a plain identifier for now
		// and let the glue pass reclassify the pair.
		return token{tokIdent, strings.ToLower(word)}
	default:
		return token{tokIdent, word}
	}
}

// glueMultiWordOps merges a "starts"/"ends" identifier token followed by a
// "with" identifier token into one tokOp, and leaves every other token
// untouched (including a lone "starts" or "ends" used as an actual field
// name, which is valid since neither appears in the Fields whitelist).
func glueMultiWordOps(toks []token) []token {
	out := make([]token, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		if toks[i].kind == tokIdent && i+1 < len(toks) && toks[i+1].kind == tokIdent && toks[i+1].text == "with" {
			if combined, ok := multiWordOps[toks[i].text+" with"]; ok {
				out = append(out, token{tokOp, combined})
				i++
				continue
			}
		}
		out = append(out, toks[i])
	}
	return out
}
