package dialect

import (
	"fmt"

	"github.com/block/recon/pkg/expr"
	"github.com/block/recon/pkg/typeconv"
)

// NullSentinel replaces NULL before hashing so that NULL and an empty string
// hash differently and concatenation never yields NULL.
const NullSentinel = "_null_recon_"

// tsqlUTF8Collation needs SQL Server 2019 or later.
const tsqlUTF8Collation = "Latin1_General_100_BIN2_UTF8"

// Standard is the built-in Provider.
type Standard struct{}

var _ Provider = Standard{}

// hashRules is read-only after package initialization.
var hashRules = map[Dialect]expr.Rule{
	Snowflake:  sha2,
	Databricks: sha2,
	MySQL:      sha2,
	Oracle: func(n expr.Node) expr.Node {
		return expr.Call("RAWTOHEX", expr.Call("STANDARD_HASH", n, expr.Str("SHA256")))
	},
	PostgreSQL: func(n expr.Node) expr.Node {
		bytes := expr.Call("CONVERT_TO", n, expr.Str("UTF8"))
		return expr.Call("ENCODE", expr.Call("SHA256", bytes), expr.Str("hex"))
	},
	TSQL: func(n expr.Node) expr.Node {
		// The UTF-8 collation makes HASHBYTES see the same bytes the other
		// engines hash. Only the 32 byte digest is fixed width.
		utf8 := expr.Collate{Expr: n, Collation: tsqlUTF8Collation}
		text := expr.Call("CONVERT", expr.Raw{SQL: "VARCHAR(MAX)"}, utf8)
		hashed := expr.Call("HASHBYTES", expr.Str("SHA2_256"), text)
		return expr.Call("CONVERT", expr.Raw{SQL: "VARCHAR(64)"}, hashed, expr.Num("2"))
	},
}

func sha2(n expr.Node) expr.Node {
	return expr.Call("SHA2", n, expr.Num("256"))
}

// textType is the type scalars are cast to before trimming, for engines
// that do not coerce implicitly.
var textType = map[Dialect]string{
	PostgreSQL: "TEXT",
	TSQL:       "NVARCHAR(MAX)",
}

// arrayText turns an array into a deterministic comma separated string.
var arrayText = map[Dialect]func(expr.Column) expr.Node{
	Snowflake: func(c expr.Column) expr.Node {
		return expr.Call("ARRAY_TO_STRING", expr.Call("ARRAY_COMPACT", c), expr.Str(","))
	},
	Databricks: func(c expr.Column) expr.Node {
		return expr.Call("CONCAT_WS", expr.Str(","), expr.Call("SORT_ARRAY", c))
	},
	PostgreSQL: func(c expr.Column) expr.Node {
		return expr.Call("ARRAY_TO_STRING", c, expr.Str(","))
	},
}

// binaryHex renders bytes as hex. The outer LOWER keeps engines that emit
// upper case hex comparable with those that emit lower case.
var binaryHex = map[Dialect]func(expr.Column) expr.Node{
	Snowflake:  func(c expr.Column) expr.Node { return expr.Call("HEX_ENCODE", c) },
	Databricks: func(c expr.Column) expr.Node { return expr.Call("HEX", c) },
	MySQL:      func(c expr.Column) expr.Node { return expr.Call("HEX", c) },
	Oracle:     func(c expr.Column) expr.Node { return expr.Call("RAWTOHEX", c) },
	PostgreSQL: func(c expr.Column) expr.Node { return expr.Call("ENCODE", c, expr.Str("hex")) },
	TSQL: func(c expr.Column) expr.Node {
		return expr.Call("CONVERT", expr.Raw{SQL: "VARCHAR(MAX)"}, c, expr.Num("2"))
	},
}

// HashFunction implements Provider.
func (Standard) HashFunction(d Dialect) (expr.Rule, error) {
	rule, ok := hashRules[d]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no hash function", ErrUnknownDialect, d)
	}
	return rule, nil
}

// ValueTransform implements Provider. Every column becomes
// COALESCE(TRIM(<text>), '_null_recon_') where <text> depends on the
// column's data type and the dialect.
func (Standard) ValueTransform(d Dialect) (expr.Rule, error) {
	if !d.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, d)
	}
	return func(n expr.Node) expr.Node {
		c, ok := n.(expr.Column)
		if !ok {
			return n
		}
		return expr.Call("COALESCE", expr.Call("TRIM", columnText(c, d)), expr.Str(NullSentinel))
	}, nil
}

func columnText(c expr.Column, d Dialect) expr.Node {
	switch typeconv.Categorize(c.DataType) {
	case typeconv.CategoryArray:
		if fn, ok := arrayText[d]; ok {
			return fn(c)
		}
	case typeconv.CategoryBinary:
		if fn, ok := binaryHex[d]; ok {
			return expr.Call("LOWER", fn(c))
		}
	}
	if t, ok := textType[d]; ok {
		return expr.Cast{Expr: c, Type: t}
	}
	return c
}
