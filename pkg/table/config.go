// Package table holds the per-table reconcile configuration, and the column
// set algebra and cross-layer ordering the hash query is built from.
package table

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is a YAML document describing the tables of one reconcile run.
type File struct {
	Version string    `yaml:"version"`
	Tables  []*Config `yaml:"tables"`
}

// Config is the reconcile configuration of one table pair.
// All column sets are written using source layer column names;
// ColumnMapping gives the target name of any column that is renamed.
type Config struct {
	SourceName       string           `yaml:"source_name"`
	TargetName       string           `yaml:"target_name"`
	JoinColumns      []string         `yaml:"join_columns,omitempty"`
	SelectColumns    []string         `yaml:"select_columns,omitempty"`
	DropColumns      []string         `yaml:"drop_columns,omitempty"`
	PartitionColumns []string         `yaml:"partition_columns,omitempty"`
	Thresholds       []Threshold      `yaml:"thresholds,omitempty"`
	ColumnMapping    []ColumnMapping  `yaml:"column_mapping,omitempty"`
	Transformations  []Transformation `yaml:"transformations,omitempty"`
	Filters          *Filters         `yaml:"filters,omitempty"`
	Schema           *Schema          `yaml:"schema,omitempty"`
}

// Threshold marks a column compared with a numeric tolerance elsewhere.
// Such columns never take part in hashing.
type Threshold struct {
	ColumnName string `yaml:"column_name"`
	LowerBound string `yaml:"lower_bound"`
	UpperBound string `yaml:"upper_bound"`
	Type       string `yaml:"type,omitempty"`
}

// ColumnMapping renames a source column on the target side.
type ColumnMapping struct {
	SourceName string `yaml:"source_name"`
	TargetName string `yaml:"target_name"`
}

// Transformation is a SQL expression used instead of the default value
// normalization for a column. Either side may be empty.
type Transformation struct {
	ColumnName string `yaml:"column_name"`
	Source     string `yaml:"source,omitempty"`
	Target     string `yaml:"target,omitempty"`
}

// Filters are per-layer predicates applied verbatim.
type Filters struct {
	Source string `yaml:"source,omitempty"`
	Target string `yaml:"target,omitempty"`
}

// Schema lists the columns of each side. Names are in that side's layer.
type Schema struct {
	Source []ColumnType `yaml:"source,omitempty"`
	Target []ColumnType `yaml:"target,omitempty"`
}

// ColumnType is a column name and the data type its engine reports.
type ColumnType struct {
	Name     string `yaml:"name"`
	DataType string `yaml:"data_type"`
}

// LoadConfig loads and validates a reconcile configuration file.
func LoadConfig(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates a YAML reconcile configuration.
func ParseConfig(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &f, nil
}

// Validate checks every table and sets defaults.
func (f *File) Validate() error {
	if f.Version == "" {
		f.Version = "1"
	}
	if len(f.Tables) == 0 {
		return fmt.Errorf("%w: at least one table is required", ErrConfiguration)
	}
	seen := make(map[string]bool)
	for i, t := range f.Tables {
		if t == nil {
			return fmt.Errorf("%w: tables[%d] is empty", ErrConfiguration, i)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tables[%d]: %w", i, err)
		}
		if seen[t.SourceName] {
			return fmt.Errorf("%w: table %q is configured more than once", ErrConfiguration, t.SourceName)
		}
		seen[t.SourceName] = true
	}
	return nil
}

// Table returns the configuration whose source name is name.
func (f *File) Table(name string) (*Config, error) {
	for _, t := range f.Tables {
		if strings.EqualFold(t.SourceName, name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: table %q is not configured", ErrConfiguration, name)
}

// Validate checks the table configuration. The target name defaults to
// the source name.
func (c *Config) Validate() error {
	if c.SourceName == "" {
		return fmt.Errorf("%w: source_name is required", ErrConfiguration)
	}
	if c.TargetName == "" {
		c.TargetName = c.SourceName
	}
	sets := map[string][]string{
		"join_columns":      c.JoinColumns,
		"select_columns":    c.SelectColumns,
		"drop_columns":      c.DropColumns,
		"partition_columns": c.PartitionColumns,
		"thresholds":        c.ThresholdColumns(),
	}
	for name, cols := range sets {
		for _, col := range cols {
			if strings.TrimSpace(col) == "" {
				return fmt.Errorf("%w: %s contains a blank column name", ErrConfiguration, name)
			}
		}
	}
	sources := make(map[string]bool)
	targets := make(map[string]bool)
	for _, m := range c.ColumnMapping {
		if m.SourceName == "" || m.TargetName == "" {
			return fmt.Errorf("%w: column_mapping entries need a source_name and a target_name", ErrConfiguration)
		}
		if sources[m.SourceName] {
			return fmt.Errorf("%w: column %q is mapped more than once", ErrConfiguration, m.SourceName)
		}
		if targets[m.TargetName] {
			return fmt.Errorf("%w: target column %q is the target of more than one mapping", ErrConfiguration, m.TargetName)
		}
		sources[m.SourceName] = true
		targets[m.TargetName] = true
	}
	// A mapping must not rename a column onto another configured column,
	// or the two would collapse into one on the target layer.
	renamedFrom := make(map[string]string)
	for _, cols := range [][]string{c.JoinColumns, c.SelectColumns, c.DropColumns, c.PartitionColumns, c.ThresholdColumns()} {
		for _, col := range cols {
			target := c.LayerName(col, LayerTarget)
			if prev, ok := renamedFrom[target]; ok && prev != col {
				return fmt.Errorf("%w: columns %q and %q are both named %q on the target layer", ErrConfiguration, prev, col, target)
			}
			renamedFrom[target] = col
		}
	}
	for _, tr := range c.Transformations {
		if tr.ColumnName == "" {
			return fmt.Errorf("%w: transformations entries need a column_name", ErrConfiguration)
		}
	}
	return nil
}

// ThresholdColumns returns the names of the threshold columns.
func (c *Config) ThresholdColumns() []string {
	cols := make([]string, 0, len(c.Thresholds))
	for _, t := range c.Thresholds {
		cols = append(cols, t.ColumnName)
	}
	return cols
}
