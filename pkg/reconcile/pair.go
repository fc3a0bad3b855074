// Package reconcile builds the source and target hash queries of the
// configured tables and exposes them as a command line tool.
package reconcile

import (
	"context"
	"log/slog"

	"github.com/block/recon/pkg/checksum"
	"github.com/block/recon/pkg/dialect"
	"github.com/block/recon/pkg/table"
	"golang.org/x/sync/errgroup"
)

// Queries are the hash queries of one table pair.
type Queries struct {
	Table  *table.Config
	Source string
	Target string
}

// PairConfig selects the dialect of each layer for BuildPair.
type PairConfig struct {
	SourceDialect dialect.Dialect
	TargetDialect dialect.Dialect
	Provider      dialect.Provider // optional; defaults to dialect.Standard
	Logger        *slog.Logger
	ReconID       string
}

// BuildPair builds the source and target queries of tbl concurrently.
func BuildPair(ctx context.Context, tbl *table.Config, reportType table.ReportType, config PairConfig) (Queries, error) {
	q := Queries{Table: tbl}
	g, ctx := errgroup.WithContext(ctx)
	build := func(layer table.Layer, d dialect.Dialect, out *string) func() error {
		return func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := checksum.NewHashQueryBuilder(tbl, layer, d, &checksum.HashQueryConfig{
				Provider: config.Provider,
				Logger:   config.Logger,
				ReconID:  config.ReconID,
			})
			if err != nil {
				return err
			}
			*out, err = b.BuildQuery(reportType)
			return err
		}
	}
	g.Go(build(table.LayerSource, config.SourceDialect, &q.Source))
	g.Go(build(table.LayerTarget, config.TargetDialect, &q.Target))
	if err := g.Wait(); err != nil {
		return Queries{}, err
	}
	return q, nil
}
