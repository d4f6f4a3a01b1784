// SPDX-License-Identifier: GPL-2.0-or-later

package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/owntone/go-libretune-server/internal/apperr"
	"github.com/owntone/go-libretune-server/internal/cache"
)

// Compiled is a parameterized WHERE fragment ready to append to a catalog
// query. Where never contains client-supplied text; every value the
// predicate named is bound positionally through Args.
type Compiled struct {
	Where string
	Args  []any
}

// compileCacheTTL bounds how long a compiled predicate is reused. Smart
// playlists are edited rarely relative to how often they're browsed, so a
// short TTL mostly avoids repeated parses of the same stored predicate
// string on back-to-back page requests for one playlist.
const compileCacheTTL = 5 * time.Minute

var compileCache = cache.New(compileCacheTTL)

// Compile turns a client-supplied smart-query predicate into a parameterized
// SQL WHERE fragment over the items table, aliased "f" (spec §4.5). It never
// forwards a field name the client invented: every comparison's Field is
// checked against Fields before it can contribute to the fragment.
func Compile(predicate string) (Compiled, error) {
	if key := strings.TrimSpace(predicate); key != "" {
		if cached, ok := compileCache.Get(key); ok {
			return cached.(Compiled), nil
		}
	}

	expr, err := parse(predicate)
	if err != nil {
		return Compiled{}, apperr.New(apperr.ClientMalformed, fmt.Errorf("smart query: %w", err))
	}

	c := &compiler{}
	where, err := c.compile(expr)
	if err != nil {
		return Compiled{}, err
	}

	result := Compiled{Where: where, Args: c.args}
	compileCache.Set(strings.TrimSpace(predicate), result)
	return result, nil
}

type compiler struct {
	args []any
}

func (c *compiler) compile(e Expr) (string, error) {
	switch n := e.(type) {
	case *BinaryExpr:
		left, err := c.compile(n.Left)
		if err != nil {
			return "", err
		}
		right, err := c.compile(n.Right)
		if err != nil {
			return "", err
		}
		op := "AND"
		if n.Op == "or" {
			op = "OR"
		}
		return fmt.Sprintf("(%s %s %s)", left, op, right), nil
	case *Comparison:
		return c.compileComparison(n)
	default:
		return "", apperr.New(apperr.Integrity, fmt.Errorf("smart query: unhandled expression node %T", e))
	}
}

func (c *compiler) compileComparison(cmp *Comparison) (string, error) {
	spec, ok := Fields[strings.ToLower(cmp.Field)]
	if !ok {
		msg := fmt.Sprintf("unknown smart query field %q", cmp.Field)
		if sug := suggestField(cmp.Field); sug != "" {
			msg += fmt.Sprintf(", did you mean %q?", sug)
		}
		return "", apperr.New(apperr.ClientMalformed, fmt.Errorf("%s", msg))
	}
	col := "f." + spec.Column

	if (cmp.Operator == "includes" || cmp.Operator == "starts with" || cmp.Operator == "ends with") && spec.Type != FieldString {
		return "", apperr.New(apperr.ClientMalformed, fmt.Errorf("field %q does not support operator %q", cmp.Field, cmp.Operator))
	}

	switch cmp.Operator {
	case "includes":
		return c.likeComparison(col, "%"+cmp.Value+"%")
	case "starts with":
		return c.likeComparison(col, cmp.Value+"%")
	case "ends with":
		return c.likeComparison(col, "%"+cmp.Value)
	case "is":
		return c.equalityComparison(spec, col, cmp)
	case "=", "!=", "<", "<=", ">", ">=":
		return c.relationalComparison(spec, col, cmp)
	default:
		return "", apperr.New(apperr.ClientMalformed, fmt.Errorf("unsupported operator %q", cmp.Operator))
	}
}

func (c *compiler) likeComparison(col, pattern string) (string, error) {
	c.args = append(c.args, pattern)
	return fmt.Sprintf("daap_like(%s, ?)", col), nil
}

func (c *compiler) equalityComparison(spec FieldSpec, col string, cmp *Comparison) (string, error) {
	switch spec.Type {
	case FieldBool:
		v, err := parseBool(cmp.Value)
		if err != nil {
			return "", apperr.New(apperr.ClientMalformed, fmt.Errorf("field %q: %w", cmp.Field, err))
		}
		c.args = append(c.args, v)
		return fmt.Sprintf("%s = ?", col), nil
	case FieldString:
		c.args = append(c.args, cmp.Value)
		return fmt.Sprintf("daap_compare(%s, ?) = 0", col), nil
	default:
		return c.relationalComparison(spec, col, &Comparison{Field: cmp.Field, Operator: "=", Value: cmp.Value, IsNumber: cmp.IsNumber})
	}
}

func (c *compiler) relationalComparison(spec FieldSpec, col string, cmp *Comparison) (string, error) {
	switch spec.Type {
	case FieldInt:
		n, err := strconv.ParseInt(cmp.Value, 10, 64)
		if err != nil {
			return "", apperr.New(apperr.ClientMalformed, fmt.Errorf("field %q expects an integer, got %q", cmp.Field, cmp.Value))
		}
		c.args = append(c.args, n)
	case FieldBool:
		v, err := parseBool(cmp.Value)
		if err != nil {
			return "", apperr.New(apperr.ClientMalformed, fmt.Errorf("field %q: %w", cmp.Field, err))
		}
		c.args = append(c.args, v)
	default:
		if cmp.Operator != "=" && cmp.Operator != "!=" {
			return "", apperr.New(apperr.ClientMalformed, fmt.Errorf("field %q does not support operator %q", cmp.Field, cmp.Operator))
		}
		c.args = append(c.args, cmp.Value)
	}
	return fmt.Sprintf("%s %s ?", col, cmp.Operator), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected a boolean value, got %q", s)
	}
}
