package table

// Mapper resolves a column name in a layer to its canonical name, which is
// the name the column has in the source layer.
type Mapper interface {
	CanonicalName(column string, layer Layer) string
}

var _ Mapper = (*Config)(nil)

// CanonicalName returns the source layer name of column. Source columns are
// their own canonical name; target columns are mapped back through
// ColumnMapping, and unmapped target columns keep their name.
func (c *Config) CanonicalName(column string, layer Layer) string {
	if layer == LayerSource {
		return column
	}
	for _, m := range c.ColumnMapping {
		if m.TargetName == column {
			return m.SourceName
		}
	}
	return column
}

// LayerName returns the name a source column has in layer.
func (c *Config) LayerName(column string, layer Layer) string {
	if layer == LayerSource {
		return column
	}
	for _, m := range c.ColumnMapping {
		if m.SourceName == column {
			return m.TargetName
		}
	}
	return column
}

func (c *Config) toLayer(cols []string, layer Layer) []string {
	if len(cols) == 0 {
		return nil
	}
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = c.LayerName(col, layer)
	}
	return out
}

// JoinColumnsFor returns the join columns named as in layer.
func (c *Config) JoinColumnsFor(layer Layer) []string {
	return c.toLayer(c.JoinColumns, layer)
}

// SelectColumnsFor returns the select columns named as in layer. When no
// select columns are configured every column of the layer's schema is selected.
func (c *Config) SelectColumnsFor(layer Layer) []string {
	if len(c.SelectColumns) > 0 {
		return c.toLayer(c.SelectColumns, layer)
	}
	schema := c.SchemaFor(layer)
	cols := make([]string, 0, len(schema))
	for _, ct := range schema {
		cols = append(cols, ct.Name)
	}
	return cols
}

// DropColumnsFor returns the drop columns named as in layer.
func (c *Config) DropColumnsFor(layer Layer) []string {
	return c.toLayer(c.DropColumns, layer)
}

// PartitionColumnsFor returns the partition columns named as in layer.
func (c *Config) PartitionColumnsFor(layer Layer) []string {
	return c.toLayer(c.PartitionColumns, layer)
}

// ThresholdColumnsFor returns the threshold columns named as in layer.
func (c *Config) ThresholdColumnsFor(layer Layer) []string {
	return c.toLayer(c.ThresholdColumns(), layer)
}

// SchemaFor returns the schema of layer, or nil if none is configured.
func (c *Config) SchemaFor(layer Layer) []ColumnType {
	if c.Schema == nil {
		return nil
	}
	if layer == LayerSource {
		return c.Schema.Source
	}
	return c.Schema.Target
}

// DataTypeFor returns the data type of a layer column, or "" if unknown.
func (c *Config) DataTypeFor(column string, layer Layer) string {
	for _, ct := range c.SchemaFor(layer) {
		if ct.Name == column {
			return ct.DataType
		}
	}
	return ""
}

// TransformationFor returns the user transformation for a layer column.
// Transformations are keyed by source column name.
func (c *Config) TransformationFor(column string, layer Layer) (string, bool) {
	canonical := c.CanonicalName(column, layer)
	for _, t := range c.Transformations {
		if t.ColumnName != canonical {
			continue
		}
		sql := t.Source
		if layer == LayerTarget {
			sql = t.Target
		}
		if sql == "" {
			return "", false
		}
		return sql, true
	}
	return "", false
}

// FilterFor returns the predicate for layer, or "" if there is none.
func (c *Config) FilterFor(layer Layer) string {
	if c.Filters == nil {
		return ""
	}
	if layer == LayerSource {
		return c.Filters.Source
	}
	return c.Filters.Target
}

// NameFor returns the table name in layer.
func (c *Config) NameFor(layer Layer) string {
	if layer == LayerSource {
		return c.SourceName
	}
	return c.TargetName
}
