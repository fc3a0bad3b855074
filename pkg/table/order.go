package table

import (
	"cmp"
	"slices"
)

// CanonicalColumn is a column named as in the queried layer, paired with
// its canonical (source layer) name.
type CanonicalColumn struct {
	Name      string
	Canonical string
}

// OrderByCanonical pairs each column with its canonical name and sorts by
// that name. Hash inputs are concatenated in this order, so a source query
// and a target query over renamed columns concatenate values in the same
// sequence.
func OrderByCanonical(columns []string, layer Layer, m Mapper) []CanonicalColumn {
	out := make([]CanonicalColumn, len(columns))
	for i, col := range columns {
		out[i] = CanonicalColumn{Name: col, Canonical: m.CanonicalName(col, layer)}
	}
	slices.SortStableFunc(out, func(a, b CanonicalColumn) int {
		return cmp.Or(cmp.Compare(a.Canonical, b.Canonical), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// Names returns the layer names of cols in order.
func Names(cols []CanonicalColumn) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
