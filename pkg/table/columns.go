package table

import (
	"fmt"
	"slices"
)

// ColumnSets are the columns a hash query is built from, named as in the
// layer being queried and sorted by that name.
type ColumnSets struct {
	// Hash is (join ∪ select) − threshold − drop.
	Hash []string
	// Key is Hash for row reports, otherwise join ∪ partition.
	Key []string
	// Join is the join columns. It is empty only for row reports.
	Join []string
}

// Columns computes the column sets of c for a report type in layer.
// It fails with ErrConfiguration when a non-row report has no join columns
// or when nothing would be left to hash.
func Columns(c *Config, reportType ReportType, layer Layer) (ColumnSets, error) {
	join := c.JoinColumnsFor(layer)
	if reportType.NeedsJoinColumns() && len(join) == 0 {
		return ColumnSets{}, fmt.Errorf("%w: join columns are compulsory for %s report type", ErrConfiguration, reportType)
	}

	excluded := make(map[string]bool)
	for _, col := range c.ThresholdColumnsFor(layer) {
		excluded[col] = true
	}
	for _, col := range c.DropColumnsFor(layer) {
		excluded[col] = true
	}
	var hash []string
	for _, col := range union(join, c.SelectColumnsFor(layer)) {
		if !excluded[col] {
			hash = append(hash, col)
		}
	}
	if len(hash) == 0 {
		return ColumnSets{}, fmt.Errorf("%w: table %q has no columns left to hash", ErrConfiguration, c.NameFor(layer))
	}

	sets := ColumnSets{Hash: hash, Join: union(join)}
	if reportType == ReportRow {
		sets.Key = slices.Clone(hash)
	} else {
		sets.Key = union(join, c.PartitionColumnsFor(layer))
	}
	return sets, nil
}

// union returns the sorted, de-duplicated union of the given column lists.
func union(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
