// SPDX-License-Identifier: GPL-2.0-or-later

package query

import "testing"

func TestLexGluesMultiWordOperators(t *testing.T) {
	toks, err := lex(`title starts with "The"`)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3: %+v", len(toks), toks)
	}
	if toks[1].kind != tokOp || toks[1].text != "starts with" {
		t.Fatalf("toks[1] = %+v", toks[1])
	}
}

func TestLexRejectsDangerousSubstring(t *testing.T) {
	if _, err := lex(`title = "a" -- comment`); err == nil {
		t.Fatal("expected error")
	}
}

func TestLexUnterminatedString(t *testing.T) {
	if _, err := lex(`title = "unterminated`); err == nil {
		t.Fatal("expected error")
	}
}
