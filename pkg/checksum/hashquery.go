// Package checksum builds the row and key hash queries used to reconcile a
// table between a source and a target engine. The same logical table queried
// as source and as target yields identical hashes for matching rows, so the
// two result sets can be compared without moving row data between systems.
package checksum

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/block/recon/pkg/dialect"
	"github.com/block/recon/pkg/expr"
	"github.com/block/recon/pkg/table"
)

const (
	// HashColumnName is the alias of the full row hash.
	HashColumnName = "hash_value_recon"
	// JoinHashColumnName is the alias of the key hash.
	JoinHashColumnName = "join_hash_value_recon"
	// TablePlaceholder stands in for the table reference. The caller that
	// executes the query substitutes the real table name.
	TablePlaceholder = ":tbl"
)

// HashQueryConfig holds the optional dependencies of a HashQueryBuilder.
type HashQueryConfig struct {
	Provider dialect.Provider
	Logger   *slog.Logger
	ReconID  string // optional; attached to log lines
}

// NewHashQueryDefaultConfig returns a config using the standard dialect rules
// and the default logger.
func NewHashQueryDefaultConfig() *HashQueryConfig {
	return &HashQueryConfig{
		Provider: dialect.Standard{},
		Logger:   slog.Default(),
	}
}

// HashQueryBuilder builds the hash query of one table for one layer.
// It holds no mutable state and is safe for concurrent use.
type HashQueryBuilder struct {
	table     *table.Config
	layer     table.Layer
	dialect   dialect.Dialect
	provider  dialect.Provider
	hashRule  expr.Rule
	valueRule expr.Rule
	logger    *slog.Logger
	reconID   string
}

// NewHashQueryBuilder resolves the dialect rules up front, so an unknown
// dialect is reported here rather than on every BuildQuery.
func NewHashQueryBuilder(tbl *table.Config, layer table.Layer, d dialect.Dialect, config *HashQueryConfig) (*HashQueryBuilder, error) {
	if tbl == nil {
		return nil, errors.New("table config must be non-nil")
	}
	// Defaults are filled in on a copy; callers may share one config.
	cfg := *NewHashQueryDefaultConfig()
	if config != nil {
		if config.Provider != nil {
			cfg.Provider = config.Provider
		}
		if config.Logger != nil {
			cfg.Logger = config.Logger
		}
		cfg.ReconID = config.ReconID
	}
	config = &cfg
	hashRule, err := config.Provider.HashFunction(d)
	if err != nil {
		return nil, err
	}
	valueRule, err := config.Provider.ValueTransform(d)
	if err != nil {
		return nil, err
	}
	return &HashQueryBuilder{
		table:     tbl,
		layer:     layer,
		dialect:   d,
		provider:  config.Provider,
		hashRule:  hashRule,
		valueRule: valueRule,
		logger:    config.Logger,
		reconID:   config.ReconID,
	}, nil
}

// BuildQuery returns the hash query for reportType. The query selects the
// row hash, the key columns aliased to their source layer names, and the key
// hash, from TablePlaceholder filtered by the layer's filter.
func (b *HashQueryBuilder) BuildQuery(reportType table.ReportType) (string, error) {
	sel, err := b.buildSelect(reportType)
	if err != nil {
		return "", err
	}
	query, err := b.provider.Render(sel, b.dialect)
	if err != nil {
		return "", fmt.Errorf("failed to render hash query for %s: %w", b.layer, err)
	}
	b.logger.Debug("hash query built",
		"layer", b.layer.String(),
		"table", b.table.NameFor(b.layer),
		"dialect", b.dialect.String(),
		"recon_id", b.reconID,
		"query", query,
	)
	return query, nil
}

// buildSelect returns the select list [row hash, key columns..., key hash].
func (b *HashQueryBuilder) buildSelect(reportType table.ReportType) (expr.Select, error) {
	sets, err := table.Columns(b.table, reportType, b.layer)
	if err != nil {
		return expr.Select{}, err
	}

	hashCols := table.Names(table.OrderByCanonical(sets.Hash, b.layer, b.table))
	// A row report may run without join columns. The whole row is then the
	// key, so the key hash covers the key columns.
	joinCols := sets.Join
	if len(joinCols) == 0 {
		joinCols = sets.Key
	}
	joinHashCols := table.Names(table.OrderByCanonical(joinCols, b.layer, b.table))

	// Key columns are listed in canonical order too, so the source and
	// target result sets line up column for column.
	keyCols := table.OrderByCanonical(sets.Key, b.layer, b.table)

	fields := make([]expr.Node, 0, len(keyCols)+2)
	fields = append(fields, b.buildHash(hashCols, HashColumnName))
	for _, col := range keyCols {
		fields = append(fields, expr.Alias{
			Expr: b.valueOf(col.Name),
			Name: col.Canonical,
		})
	}
	fields = append(fields, b.buildHash(joinHashCols, JoinHashColumnName))

	return expr.Select{
		Fields: fields,
		From:   TablePlaceholder,
		Where:  b.table.FilterFor(b.layer),
	}, nil
}

// buildHash returns LOWER(<hash>(<value> or CONCAT(<values>))) AS alias.
// columns must already be in canonical order.
func (b *HashQueryBuilder) buildHash(columns []string, alias string) expr.Alias {
	if len(columns) == 0 {
		panic(fmt.Sprintf("checksum: no columns to build %s from", alias))
	}
	values := make([]expr.Node, len(columns))
	for i, col := range columns {
		values[i] = b.valueOf(col)
	}
	var hashInput expr.Node = values[0]
	if len(values) > 1 {
		hashInput = expr.Concat{Args: values}
	}
	return expr.Alias{
		Expr: expr.Apply(hashInput, b.hashRule, expr.Lower),
		Name: alias,
	}
}

// valueOf returns the normalized value of a column: the user's
// transformation when one is configured, otherwise the dialect default.
func (b *HashQueryBuilder) valueOf(column string) expr.Node {
	if sql, ok := b.table.TransformationFor(column, b.layer); ok {
		return expr.Raw{SQL: sql}
	}
	col := expr.Column{Name: column, DataType: b.table.DataTypeFor(column, b.layer)}
	return expr.Rewrite(col, b.valueRule)
}

// Layer returns the layer the builder queries.
func (b *HashQueryBuilder) Layer() table.Layer {
	return b.layer
}
