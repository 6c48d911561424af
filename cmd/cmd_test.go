package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/config"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/database"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/report"
)

// newVocabularyFile writes a DuckDB database file with the User and Word tables and returns
// its connection URI.
func newVocabularyFile(t *testing.T) string {
	t.Helper()
	uri := "duckdb://" + filepath.ToSlash(filepath.Join(t.TempDir(), "vocab.db"))
	ctx := context.Background()
	db, err := database.New(ctx, config.DatabaseConfig{ConnectionString: uri}, nil)
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range []string{
		`CREATE TABLE "User" (id VARCHAR, name VARCHAR)`,
		`CREATE TABLE "Word" (id VARCHAR, "userId" VARCHAR, difficulty VARCHAR, mastery DOUBLE)`,
		`INSERT INTO "User" VALUES ('u1', 'Ada'), ('u2', 'Lin')`,
		`INSERT INTO "Word" VALUES ('w1', 'u1', 'easy', 1), ('w2', 'u1', 'hard', 2), ('w3', 'u2', 'easy', 3), ('w4', 'u2', 'easy', 4)`,
	} {
		_, err := db.Pool.ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}
	return uri
}

// resetFlags restores every flag to its default, since cobra keeps flag values between runs.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommand_DefaultReports(t *testing.T) {
	uri := newVocabularyFile(t)

	out, err := execute(t, "run", "--database-url", uri, "--log-level", "error", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "== users (raw_table) ==")
	assert.Contains(t, out, "Found 4 rows.")
	assert.Contains(t, out, "Average mastery: 2.50")
	assert.Contains(t, out, "5 reports, 0 failed")
}

func TestRunCommand_JSONOnly(t *testing.T) {
	uri := newVocabularyFile(t)

	out, err := execute(t, "run", "--database-url", uri, "--log-level", "error", "--format", "json", "--only", "word_difficulty")
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "word_difficulty", decoded[0]["name"])
	assert.Equal(t, "ok", decoded[0]["status"])
}

func TestRunCommand_ConfigFileAndFailOnError(t *testing.T) {
	uri := newVocabularyFile(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "reports.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(`
database:
  connection_string: %q
reports:
  - name: broken
    kind: raw_table
    query: SELECT * FROM "Nope"
  - name: words
    kind: raw_table
    query: SELECT * FROM "Word"
`, uri)), 0o644))

	out, err := execute(t, "run", "--config", cfgPath, "--log-level", "error", "--format", "text", "--fail-on-error")
	require.ErrorIs(t, err, errReportsFailed)
	assert.Equal(t, 4, ExitCode(err))
	assert.Contains(t, out, "ERROR: report broken: query failed")
	assert.Contains(t, out, "2 reports, 1 failed")
}

func TestRunCommand_MissingConnection(t *testing.T) {
	t.Setenv(config.ConnectionStringEnv, "")
	_, err := execute(t, "run", "--log-level", "error")

	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 2, ExitCode(err))
}

func TestQueryCommand_Table(t *testing.T) {
	uri := newVocabularyFile(t)

	out, err := execute(t, "query", "--database-url", uri, "--log-level", "error",
		"--kind", "numeric_aggregate", "--table", "Word", "--column", "mastery", "--filter", `difficulty == "easy"`)
	require.NoError(t, err)
	assert.Contains(t, out, "== query (numeric_aggregate) ==")
	assert.Contains(t, out, "Found 3 rows.")
	assert.Contains(t, out, "Average mastery: 2.67")
}

func TestListReportsCommand(t *testing.T) {
	out, err := execute(t, "list-reports", "--log-level", "error")
	require.NoError(t, err)
	for _, s := range report.DefaultSpecs() {
		assert.Contains(t, out, s.Name)
	}
}

func TestQueryFlagsBuildSpec(t *testing.T) {
	quote := func(s string) string { return `"` + s + `"` }

	spec, err := queryFlags{kind: "raw_table", table: "public.User", limit: 5}.buildSpec(quote)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "public"."User"`, spec.Query)
	assert.Equal(t, "query", spec.Name)
	assert.Equal(t, 5, spec.Limit)

	spec, err = queryFlags{name: "m", kind: "numeric-aggregate", sql: "SELECT a, b", columns: "a, b"}.buildSpec(quote)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, spec.Columns)

	_, err = queryFlags{kind: "raw_table"}.buildSpec(quote)
	assert.Error(t, err)
	_, err = queryFlags{kind: "raw_table", sql: "SELECT 1", table: "User"}.buildSpec(quote)
	assert.Error(t, err)
	_, err = queryFlags{kind: "categorical_distribution", sql: "SELECT 1"}.buildSpec(quote)
	var invalid *report.InvalidSpecError
	assert.ErrorAs(t, err, &invalid)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("other")))
	assert.Equal(t, 2, ExitCode(&config.ConfigError{Key: "k"}))
	assert.Equal(t, 3, ExitCode(fmt.Errorf("wrapped: %w", &database.ConnectionError{Msg: "down"})))
	assert.Equal(t, 4, ExitCode(errReportsFailed))
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	assert.NoError(t, err)
	_, err = newLogger("loud")
	var cfgErr *config.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
