// Package dialect supplies the engine specific pieces of a reconcile query:
// the hash function, the per-column value normalization, and SQL rendering.
// Rules are pure expression rewrites over pkg/expr trees.
package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/block/recon/pkg/expr"
)

// Dialect names a SQL engine.
type Dialect string

const (
	Snowflake  Dialect = "snowflake"
	Databricks Dialect = "databricks"
	Oracle     Dialect = "oracle"
	MySQL      Dialect = "mysql"
	PostgreSQL Dialect = "postgresql"
	TSQL       Dialect = "tsql"
)

var ErrUnknownDialect = errors.New("unknown dialect")

var aliases = map[string]Dialect{
	"postgres":  PostgreSQL,
	"pg":        PostgreSQL,
	"sqlserver": TSQL,
	"mssql":     TSQL,
	"spark":     Databricks,
}

// All returns every supported dialect.
func All() []Dialect {
	return []Dialect{Snowflake, Databricks, Oracle, MySQL, PostgreSQL, TSQL}
}

// Parse resolves a dialect name. Matching is case insensitive and accepts
// a few common aliases such as "postgres" and "sqlserver".
func Parse(name string) (Dialect, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if d, ok := aliases[n]; ok {
		return d, nil
	}
	d := Dialect(n)
	if !d.valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
	return d, nil
}

func (d Dialect) String() string {
	return string(d)
}

func (d Dialect) valid() bool {
	_, ok := styles[d]
	return ok
}

// Provider supplies dialect rules to the query builder.
type Provider interface {
	// HashFunction returns a rule that wraps the root of an expression in
	// the dialect's hash function.
	HashFunction(d Dialect) (expr.Rule, error)
	// ValueTransform returns a rule that rewrites Column nodes into a
	// normalized, non-null string value.
	ValueTransform(d Dialect) (expr.Rule, error)
	// Render serializes an expression or statement as SQL text.
	Render(n expr.Node, d Dialect) (string, error)
}
