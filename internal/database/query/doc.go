// SPDX-License-Identifier: GPL-2.0-or-later

// Package query implements the smart-query compiler (spec §4.5): it turns a
// client-supplied predicate string into a parameterized SQL WHERE fragment
// over a fixed column whitelist, never letting raw client text reach the SQL
// prepare step.
//
// # Grammar
//
// A predicate is a boolean expression over comparisons:
//
//	expr       := orExpr
//	orExpr     := andExpr ( "or" andExpr )*
//	andExpr    := term ( "and" term )*
//	term       := "(" expr ")" | comparison
//	comparison := field operator value
//	operator   := "=" | "!=" | "<" | "<=" | ">" | ">=" | "includes" | "is" | "starts with" | "ends with"
//
// Field names are checked against a fixed whitelist (see Fields); the
// compiler never forwards a bare column name the client invented. String
// values are always bound as parameters. "includes"/"starts with"/
// "ends with" compile to calls against the daap_like scalar function
// registered by internal/database, so they inherit the fold+strip-simple
// comparison semantics from internal/collation rather than a native SQL
// LIKE.
package query
