/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/config"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/database"
)

// postgresHandler struct implements database.DialectHandler for PostgreSQL.
type postgresHandler struct{}

var _ database.DialectHandler = (*postgresHandler)(nil)

// CreateCloudSQLPool for PostgreSQL. Credentials and database name come from the URI;
// the host part is ignored because the connector dials the instance directly.
func (h postgresHandler) CreateCloudSQLPool(cfg config.DatabaseConfig, uri *url.URL) (*sql.DB, error) {
	dbUser, dbPwd := database.Credentials(uri)
	dbName := database.DatabaseName(uri)
	if dbUser == "" || dbName == "" || cfg.CloudSQLInstanceConnectionName == "" {
		return nil, fmt.Errorf("missing required CloudSQL connection parameter (user, db, instance)")
	}

	pgCfg, err := cloudSQLConnConfig(dbUser, dbPwd, dbName)
	if err != nil {
		return nil, err
	}
	var opts []cloudsqlconn.Option
	if cfg.UsePrivateIP {
		opts = append(opts, cloudsqlconn.WithDefaultDialOptions(cloudsqlconn.WithPrivateIP()))
	}
	d, err := cloudsqlconn.NewDialer(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	instance := cfg.CloudSQLInstanceConnectionName
	pgCfg.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(ctx, instance)
	}
	dbURI := stdlib.RegisterConnConfig(pgCfg)
	dbPool, err := sql.Open("pgx", dbURI)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	return dbPool, nil
}

// cloudSQLConnConfig sets credentials on the parsed config directly, so passwords with
// spaces or quotes need no DSN escaping.
func cloudSQLConnConfig(user, password, dbName string) (*pgx.ConnConfig, error) {
	pgCfg, err := pgx.ParseConfig("")
	if err != nil {
		return nil, err
	}
	pgCfg.User = user
	pgCfg.Password = password
	pgCfg.Database = dbName
	return pgCfg, nil
}

// CreateStandardPool creates a standard PostgreSQL connection pool from the URI.
// sslmode defaults to disable when the URI does not set it.
func (h postgresHandler) CreateStandardPool(cfg config.DatabaseConfig, uri *url.URL) (*sql.DB, error) {
	connStr, err := pq.ParseURL(withDefaultSSLMode(uri).String())
	if err != nil {
		return nil, fmt.Errorf("error parsing connection string: %w", err)
	}

	dbPool, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	return dbPool, nil
}

func withDefaultSSLMode(uri *url.URL) *url.URL {
	u := *uri
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
	}
	return &u
}

// QuoteIdentifier for PostgreSQL
func (h postgresHandler) QuoteIdentifier(name string) string {
	// Replace any existing quotes with double quotes to escape them
	name = strings.Replace(name, `"`, `""`, -1)
	return fmt.Sprintf(`"%s"`, name)
}

func init() {
	database.RegisterDialectHandler("postgres", postgresHandler{})
	database.RegisterDialectHandler("cloudsqlpostgres", postgresHandler{})
}
