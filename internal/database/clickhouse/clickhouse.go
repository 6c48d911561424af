package clickhouse

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/config"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/database"
)

// clickhouseHandler implements database.DialectHandler for ClickHouse over the native protocol.
type clickhouseHandler struct{}

var _ database.DialectHandler = (*clickhouseHandler)(nil)

func (h clickhouseHandler) CreateCloudSQLPool(cfg config.DatabaseConfig, uri *url.URL) (*sql.DB, error) {
	return nil, errors.New("cloud sql is not available for clickhouse")
}

func (h clickhouseHandler) CreateStandardPool(cfg config.DatabaseConfig, uri *url.URL) (*sql.DB, error) {
	opts, err := clickhouse.ParseDSN(uri.String())
	if err != nil {
		return nil, fmt.Errorf("error parsing clickhouse connection string: %w", err)
	}
	if cfg.ConnectTimeout > 0 {
		opts.DialTimeout = cfg.ConnectTimeout
	}
	return clickhouse.OpenDB(opts), nil
}

// QuoteIdentifier wraps name in backticks, escaping backslashes and backticks.
func (h clickhouseHandler) QuoteIdentifier(name string) string {
	name = strings.ReplaceAll(name, `\`, `\\`)
	name = strings.ReplaceAll(name, "`", "\\`")
	return "`" + name + "`"
}

func init() {
	database.RegisterDialectHandler("clickhouse", clickhouseHandler{})
}
