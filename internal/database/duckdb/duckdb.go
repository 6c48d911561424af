package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/config"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/database"
)

// duckdbHandler implements database.DialectHandler for embedded DuckDB databases.
// duckdb:// opens an in-memory database, duckdb:///path/to/file.db a database file.
type duckdbHandler struct{}

var _ database.DialectHandler = (*duckdbHandler)(nil)

func (h duckdbHandler) CreateCloudSQLPool(cfg config.DatabaseConfig, uri *url.URL) (*sql.DB, error) {
	return nil, errors.New("cloud sql is not available for duckdb")
}

func (h duckdbHandler) CreateStandardPool(cfg config.DatabaseConfig, uri *url.URL) (*sql.DB, error) {
	db, err := sql.Open("duckdb", DSN(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// DSN converts a duckdb:// URI into the driver's path[?options] form.
func DSN(uri *url.URL) string {
	path := uri.Host + uri.Path
	if uri.RawQuery != "" {
		return path + "?" + uri.RawQuery
	}
	return path
}

func (h duckdbHandler) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func init() {
	database.RegisterDialectHandler("duckdb", duckdbHandler{})
}
