// SPDX-License-Identifier: GPL-2.0-or-later

package database

import (
	"context"
	"database/sql/driver"
	"fmt"

	duckdb "github.com/duckdb/duckdb-go/v2"

	"github.com/owntone/go-libretune-server/internal/collation"
)

// registerFunctions exposes the DAAP collation and the like/daap_no_zero
// helpers as DuckDB scalar functions. The original server installs these
// with sqlite3_create_collation/sqlite3_create_function in
// store_thread_init; DuckDB has no pluggable-collation hook, so the
// smart-query compiler compares text columns through
// daap_compare/daap_like instead of a native COLLATE clause. The browse
// engine sorts in Go with collation.Compare and calls neither function.
func (db *DB) registerFunctions() error {
	conn, err := db.conn.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("checkout connection for UDF registration: %w", err)
	}
	defer conn.Close()

	if err := duckdb.RegisterScalarUDF(conn, "daap_like", &likeUDF{}); err != nil {
		return fmt.Errorf("register daap_like: %w", err)
	}
	if err := duckdb.RegisterScalarUDF(conn, "daap_no_zero", &noZeroUDF{}); err != nil {
		return fmt.Errorf("register daap_no_zero: %w", err)
	}
	if err := duckdb.RegisterScalarUDF(conn, "daap_compare", &compareUDF{}); err != nil {
		return fmt.Errorf("register daap_compare: %w", err)
	}
	return nil
}

// likeUDF implements daap_like(subject, pattern) → bool, the scalar form of
// the LIKE operator described in §4.2, with no ESCAPE character; the
// smart-query compiler emits it as daap_like(column, ?). A pattern longer
// than collation.MaxPatternBytes is surfaced as a SQL error rather than a
// false result, matching the original's behavior of failing the statement
// outright.
type likeUDF struct{}

func (likeUDF) Config() duckdb.ScalarFuncConfig {
	varchar, _ := duckdb.NewTypeInfo(duckdb.TYPE_VARCHAR)
	boolean, _ := duckdb.NewTypeInfo(duckdb.TYPE_BOOLEAN)
	return duckdb.ScalarFuncConfig{
		InputTypeInfos: []duckdb.TypeInfo{varchar, varchar},
		ResultTypeInfo: boolean,
	}
}

func (likeUDF) Executor() duckdb.ScalarFuncExecutor {
	return duckdb.ScalarFuncExecutor{
		RowExecutor: func(values []driver.Value) (any, error) {
			subject, _ := values[0].(string)
			pattern, _ := values[1].(string)
			return collation.Like(pattern, subject, "")
		},
	}
}

// noZeroUDF implements daap_no_zero(new, old) → new unless new == 0, else
// old, for update statements that must not clobber a known value with an
// unset (zero) incoming one. No statement in this module calls it.
type noZeroUDF struct{}

func (noZeroUDF) Config() duckdb.ScalarFuncConfig {
	bigint, _ := duckdb.NewTypeInfo(duckdb.TYPE_BIGINT)
	return duckdb.ScalarFuncConfig{
		InputTypeInfos: []duckdb.TypeInfo{bigint, bigint},
		ResultTypeInfo: bigint,
	}
}

func (noZeroUDF) Executor() duckdb.ScalarFuncExecutor {
	return duckdb.ScalarFuncExecutor{
		RowExecutor: func(values []driver.Value) (any, error) {
			newVal, _ := values[0].(int64)
			oldVal, _ := values[1].(int64)
			if newVal == 0 {
				return oldVal, nil
			}
			return newVal, nil
		},
	}
}

// compareUDF implements daap_compare(a, b) → -1/0/1 using the DAAP
// collation's fold+strip+alpha-tie-break rule (§4.2). The smart-query
// compiler uses it for string equality predicates instead of a native
// COLLATE clause; see the doc comment on registerFunctions.
type compareUDF struct{}

func (compareUDF) Config() duckdb.ScalarFuncConfig {
	varchar, _ := duckdb.NewTypeInfo(duckdb.TYPE_VARCHAR)
	integer, _ := duckdb.NewTypeInfo(duckdb.TYPE_INTEGER)
	return duckdb.ScalarFuncConfig{
		InputTypeInfos: []duckdb.TypeInfo{varchar, varchar},
		ResultTypeInfo: integer,
	}
}

func (compareUDF) Executor() duckdb.ScalarFuncExecutor {
	return duckdb.ScalarFuncExecutor{
		RowExecutor: func(values []driver.Value) (any, error) {
			a, _ := values[0].(string)
			b, _ := values[1].(string)
			return int32(collation.Compare(a, b)), nil
		},
	}
}
