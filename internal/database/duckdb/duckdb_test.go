package duckdb

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/config"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"duckdb://", ""},
		{"duckdb:///var/lib/words.db", "/var/lib/words.db"},
		{"duckdb://words.db", "words.db"},
		{"duckdb:///var/lib/words.db?access_mode=READ_ONLY", "/var/lib/words.db?access_mode=READ_ONLY"},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, DSN(u), tt.in)
	}
}

func TestDuckDBQuoteIdentifier(t *testing.T) {
	handler := duckdbHandler{}
	assert.Equal(t, `"User"`, handler.QuoteIdentifier("User"))
	assert.Equal(t, `"a""b"`, handler.QuoteIdentifier(`a"b`))
}

func TestDuckDBNewAndQuery(t *testing.T) {
	ctx := context.Background()
	db, err := database.New(ctx, config.DatabaseConfig{ConnectionString: "duckdb://"}, nil)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "duckdb", db.Dialect)

	_, err = db.Pool.ExecContext(ctx, `CREATE TABLE "Word" (id INTEGER, difficulty VARCHAR, mastery DOUBLE)`)
	require.NoError(t, err)
	_, err = db.Pool.ExecContext(ctx, `INSERT INTO "Word" VALUES (1, 'easy', 1.0), (2, 'hard', NULL)`)
	require.NoError(t, err)

	rs, err := db.Query(ctx, `SELECT id, difficulty, mastery FROM "Word" ORDER BY id`)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "difficulty", "mastery"}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, int64(1), rs.Rows[0]["id"])
	assert.Equal(t, "easy", rs.Rows[0]["difficulty"])
	assert.Equal(t, 1.0, rs.Rows[0]["mastery"])
	assert.Nil(t, rs.Rows[1]["mastery"])
}

func TestDuckDBFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "words.db")

	db, err := database.New(ctx, config.DatabaseConfig{ConnectionString: "duckdb://" + path}, nil)
	require.NoError(t, err)
	_, err = db.Pool.ExecContext(ctx, `CREATE TABLE t AS SELECT 42 AS answer`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = database.New(ctx, config.DatabaseConfig{ConnectionString: "duckdb://" + path}, nil)
	require.NoError(t, err)
	defer db.Close()
	rs, err := db.Query(ctx, "SELECT answer FROM t")
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, int64(42), rs.Rows[0]["answer"])
}
