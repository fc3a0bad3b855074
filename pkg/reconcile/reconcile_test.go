package reconcile

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/block/recon/pkg/checksum"
	"github.com/block/recon/pkg/dialect"
	"github.com/block/recon/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
	os.Exit(m.Run())
}

const tablesYAML = `
tables:
  - source_name: orders
    target_name: orders_silver
    join_columns: [id]
    select_columns: [id, customer, amount]
    thresholds:
      - column_name: amount
    column_mapping:
      - source_name: customer
        target_name: customer_name
  - source_name: audit_log
    select_columns: [event, payload]
`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewProfile(t *testing.T) {
	var nilProfile *profile
	assert.Equal(t, "snowflake", nilProfile.GetSourceDialect())
	assert.Equal(t, "databricks", nilProfile.GetTargetDialect())
	assert.Equal(t, "row", nilProfile.GetReportType())

	p, err := newProfile("")
	require.NoError(t, err)
	assert.Equal(t, "snowflake", p.GetSourceDialect())

	path := writeFile(t, "recon.ini", "[source]\ndialect = oracle\n\n[recon]\nreport_type = data\n")
	p, err = newProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "oracle", p.GetSourceDialect())
	assert.Equal(t, "databricks", p.GetTargetDialect())
	assert.Equal(t, "data", p.GetReportType())

	_, err = newProfile(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}

func TestBuildPair(t *testing.T) {
	tbl := &table.Config{
		SourceName:    "orders",
		JoinColumns:   []string{"id"},
		SelectColumns: []string{"id", "customer"},
		ColumnMapping: []table.ColumnMapping{{SourceName: "customer", TargetName: "customer_name"}},
	}
	q, err := BuildPair(context.Background(), tbl, table.ReportRow, PairConfig{
		SourceDialect: dialect.Snowflake,
		TargetDialect: dialect.Databricks,
		Logger:        discardLogger(),
	})
	require.NoError(t, err)
	assert.Contains(t, q.Source, "COALESCE(TRIM(customer), '_null_recon_') AS customer")
	assert.Contains(t, q.Target, "COALESCE(TRIM(customer_name), '_null_recon_') AS customer")
	assert.Contains(t, q.Target, "AS "+checksum.JoinHashColumnName)
	assert.Same(t, tbl, q.Table)
}

func TestBuildPairErrors(t *testing.T) {
	tbl := &table.Config{SourceName: "t", SelectColumns: []string{"a"}}
	config := PairConfig{SourceDialect: dialect.MySQL, TargetDialect: dialect.PostgreSQL, Logger: discardLogger()}

	_, err := BuildPair(context.Background(), tbl, table.ReportData, config)
	assert.ErrorIs(t, err, table.ErrConfiguration)

	config.TargetDialect = dialect.Dialect("db2")
	_, err = BuildPair(context.Background(), tbl, table.ReportRow, config)
	assert.ErrorIs(t, err, dialect.ErrUnknownDialect)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	config.TargetDialect = dialect.PostgreSQL
	_, err = BuildPair(ctx, tbl, table.ReportRow, config)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHashQueryCmd(t *testing.T) {
	cmd := &HashQueryCmd{
		Config:        writeFile(t, "tables.yaml", tablesYAML),
		Table:         []string{"orders"},
		SourceDialect: "mysql",
		TargetDialect: "postgres",
		LogLevel:      "info",
	}
	var out bytes.Buffer
	require.NoError(t, cmd.run(context.Background(), &out, discardLogger(), "test-run"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "-- source orders (mysql)", lines[0])
	assert.Equal(t, "-- target orders_silver (postgresql)", lines[2])
	assert.True(t, strings.HasPrefix(lines[1], "SELECT LOWER(SHA2(CONCAT("), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], "FROM :tbl;"), lines[1])
	assert.Contains(t, lines[3], "CAST(customer_name AS TEXT)")
	assert.NotContains(t, out.String(), "amount")
}

func TestHashQueryCmdProfile(t *testing.T) {
	cmd := &HashQueryCmd{
		Config:  writeFile(t, "tables.yaml", tablesYAML),
		Profile: writeFile(t, "recon.ini", "[source]\ndialect = tsql\n[target]\ndialect = oracle\n[recon]\nreport_type = row\n"),
	}
	var out bytes.Buffer
	require.NoError(t, cmd.run(context.Background(), &out, discardLogger(), "test-run"))
	assert.Contains(t, out.String(), "-- source audit_log (tsql)")
	assert.Contains(t, out.String(), "-- target audit_log (oracle)")
	assert.Contains(t, out.String(), "HASHBYTES('SHA2_256'")
	assert.Contains(t, out.String(), "RAWTOHEX(STANDARD_HASH(")

	// Flags win over the profile; audit_log has no join columns.
	cmd.ReportType = "data"
	out.Reset()
	err := cmd.run(context.Background(), &out, discardLogger(), "test-run")
	assert.ErrorIs(t, err, table.ErrConfiguration)
	assert.Contains(t, err.Error(), "audit_log")
}

func TestHashQueryCmdErrors(t *testing.T) {
	config := writeFile(t, "tables.yaml", tablesYAML)
	tests := []struct {
		name string
		cmd  HashQueryCmd
	}{
		{"unknown table", HashQueryCmd{Config: config, Table: []string{"nope"}}},
		{"unknown dialect", HashQueryCmd{Config: config, SourceDialect: "db2"}},
		{"unknown report type", HashQueryCmd{Config: config, ReportType: "key"}},
		{"missing profile", HashQueryCmd{Config: config, Profile: filepath.Join(t.TempDir(), "none.ini")}},
		{"missing config", HashQueryCmd{Config: filepath.Join(t.TempDir(), "none.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, tt.cmd.run(context.Background(), &out, discardLogger(), "test-run"))
		})
	}
}
