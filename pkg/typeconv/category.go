// Package typeconv classifies column data types reported by different engines
// into the few categories that change how a value is turned into text.
package typeconv

import (
	"strings"
)

// Category is a coarse, engine independent grouping of a column type.
type Category int

const (
	// CategoryScalar covers strings, numbers, dates and anything unrecognized.
	CategoryScalar Category = iota
	// CategoryArray is an array or list of values.
	CategoryArray
	// CategoryBinary is raw bytes.
	CategoryBinary
)

func (c Category) String() string {
	switch c {
	case CategoryScalar:
		return "scalar"
	case CategoryArray:
		return "array"
	case CategoryBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// BaseType upper-cases a type and strips its length, precision or element
// type, e.g. "varchar(255)" becomes "VARCHAR" and "array<string>" becomes "ARRAY".
func BaseType(dataType string) string {
	baseType := strings.ToUpper(strings.TrimSpace(dataType))
	if idx := strings.IndexAny(baseType, "(<"); idx != -1 {
		baseType = baseType[:idx]
	}
	// Postgres spells arrays as a suffix: text[], int4[]
	if strings.HasSuffix(baseType, "[]") {
		return "ARRAY"
	}
	return strings.TrimSpace(strings.Replace(baseType, "UNSIGNED", "", 1))
}

// Categorize returns the category of a data type name as reported by
// Snowflake, Databricks, Oracle, MySQL, PostgreSQL or SQL Server.
// An empty type is a scalar.
func Categorize(dataType string) Category {
	switch BaseType(dataType) {
	case "ARRAY":
		return CategoryArray
	case "BINARY", "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB",
		"BYTEA", "RAW", "LONG RAW", "IMAGE":
		return CategoryBinary
	default:
		return CategoryScalar
	}
}
