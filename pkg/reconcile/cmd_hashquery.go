package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/block/recon/pkg/dialect"
	"github.com/block/recon/pkg/table"
	"github.com/google/uuid"
)

// HashQueryCmd is the Kong CLI struct for the hash-query command.
// It prints the source and target hash queries of the configured tables.
type HashQueryCmd struct {
	Config        string   `help:"YAML file describing the tables to reconcile" short:"c" required:"" type:"existingfile"`
	Table         []string `help:"Source table name(s) to build queries for. Defaults to every configured table" short:"t"`
	ReportType    string   `help:"Report type: row, data, schema or all (default from profile, else row)" default:""`
	Profile       string   `help:"INI profile with [source], [target] and [recon] settings" type:"path"`
	SourceDialect string   `help:"Dialect of the source layer (default from profile, else snowflake)" default:""`
	TargetDialect string   `help:"Dialect of the target layer (default from profile, else databricks)" default:""`
	LogLevel      string   `help:"Log level" default:"info" enum:"debug,info,warn,error"`
}

// Run executes the hash-query command. It is called by Kong.
// The output is valid SQL: each query is preceded by a comment naming
// its table and layer.
func (cmd *HashQueryCmd) Run() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.LogLevel)); err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cmd.run(context.Background(), os.Stdout, logger, uuid.NewString())
}

func (cmd *HashQueryCmd) run(ctx context.Context, w io.Writer, logger *slog.Logger, reconID string) error {
	prof, err := newProfile(cmd.Profile)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	reportType, err := table.ParseReportType(firstNonEmpty(cmd.ReportType, prof.GetReportType()))
	if err != nil {
		return err
	}
	sourceDialect, err := dialect.Parse(firstNonEmpty(cmd.SourceDialect, prof.GetSourceDialect()))
	if err != nil {
		return err
	}
	targetDialect, err := dialect.Parse(firstNonEmpty(cmd.TargetDialect, prof.GetTargetDialect()))
	if err != nil {
		return err
	}

	file, err := table.LoadConfig(cmd.Config)
	if err != nil {
		return err
	}
	tables := file.Tables
	if len(cmd.Table) > 0 {
		tables = make([]*table.Config, 0, len(cmd.Table))
		for _, name := range cmd.Table {
			t, err := file.Table(name)
			if err != nil {
				return err
			}
			tables = append(tables, t)
		}
	}

	logger.Info("building hash queries",
		"recon_id", reconID,
		"report_type", reportType.String(),
		"source_dialect", sourceDialect.String(),
		"target_dialect", targetDialect.String(),
		"tables", len(tables),
	)
	config := PairConfig{
		SourceDialect: sourceDialect,
		TargetDialect: targetDialect,
		Logger:        logger,
		ReconID:       reconID,
	}
	for _, t := range tables {
		q, err := BuildPair(ctx, t, reportType, config)
		if err != nil {
			return fmt.Errorf("table %q: %w", t.SourceName, err)
		}
		printQueries(w, q, config)
	}
	return nil
}

func printQueries(w io.Writer, q Queries, config PairConfig) {
	fmt.Fprintf(w, "-- source %s (%s)\n%s;\n", q.Table.NameFor(table.LayerSource), config.SourceDialect, q.Source)
	fmt.Fprintf(w, "-- target %s (%s)\n%s;\n", q.Table.NameFor(table.LayerTarget), config.TargetDialect, q.Target)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
