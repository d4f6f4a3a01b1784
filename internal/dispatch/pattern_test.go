// SPDX-License-Identifier: GPL-2.0-or-later

package dispatch

import "testing"

func TestMatchLiteral(t *testing.T) {
	p := ParsePattern("rsp/info")
	if _, ok := p.Match([]string{"rsp", "info"}); !ok {
		t.Fatal("expected match")
	}
}

func TestMatchWildcardCaptures(t *testing.T) {
	p := ParsePattern("rsp/db/*id/*type")
	vars, ok := p.Match([]string{"rsp", "db", "3", "artist"})
	if !ok {
		t.Fatal("expected match")
	}
	if vars["id"] != "3" || vars["type"] != "artist" {
		t.Fatalf("vars = %+v", vars)
	}
}

func TestMatchRejectsDifferentLength(t *testing.T) {
	p := ParsePattern("rsp/db/*id")
	if _, ok := p.Match([]string{"rsp", "db", "3", "extra"}); ok {
		t.Fatal("expected no match")
	}
}

func TestMatchRejectsLiteralMismatch(t *testing.T) {
	p := ParsePattern("rsp/db/*id")
	if _, ok := p.Match([]string{"rsp", "containers", "3"}); ok {
		t.Fatal("expected no match")
	}
}

func TestSplitPathRejectsTooDeep(t *testing.T) {
	if _, ok := SplitPath("a/b/c/d/e/f/g/h/i/j/k"); ok {
		t.Fatal("expected rejection past maxSegments")
	}
}

func TestSplitPathEmpty(t *testing.T) {
	segs, ok := SplitPath("/")
	if !ok || segs != nil {
		t.Fatalf("segs = %v, ok = %v", segs, ok)
	}
}
