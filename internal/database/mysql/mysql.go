package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/config"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/database"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

type mysqlHandler struct{}

var _ database.DialectHandler = (*mysqlHandler)(nil)

func (h mysqlHandler) CreateCloudSQLPool(cfg config.DatabaseConfig, uri *url.URL) (*sql.DB, error) {
	dbUser, dbPwd := database.Credentials(uri)
	dbName := database.DatabaseName(uri)
	instanceConnectionName := cfg.CloudSQLInstanceConnectionName

	if dbUser == "" || dbPwd == "" || dbName == "" || instanceConnectionName == "" {
		return nil, fmt.Errorf("missing required CloudSQL connection parameter (user, pass, db, instance)")
	}

	d, err := cloudsqlconn.NewDialer(context.Background())
	if err != nil {
		return nil, fmt.Errorf("cloudsqlconn.NewDialer: %w", err)
	}

	var opts []cloudsqlconn.DialOption
	if cfg.UsePrivateIP {
		opts = append(opts, cloudsqlconn.WithPrivateIP())
	}

	network := fmt.Sprintf("cloudsql-%s", instanceConnectionName)

	mysql.RegisterDialContext(network,
		func(ctx context.Context, addr string) (net.Conn, error) {
			conn, dialErr := d.Dial(ctx, instanceConnectionName, opts...)
			if dialErr != nil {
				zap.L().Error("cloud sql dial failed", zap.String("instance", instanceConnectionName), zap.Error(dialErr))
			}
			return conn, dialErr
		})

	mysqlCfg, err := newMySQLConfig(uri)
	if err != nil {
		mysql.DeregisterDialContext(network)
		d.Close()
		return nil, err
	}
	mysqlCfg.Net = network
	mysqlCfg.Addr = instanceConnectionName

	dbPool, err := sql.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		mysql.DeregisterDialContext(network)
		d.Close()
		return nil, fmt.Errorf("sql.Open failed for CloudSQL MySQL: %w", err)
	}
	return dbPool, nil
}

func (h mysqlHandler) CreateStandardPool(cfg config.DatabaseConfig, uri *url.URL) (*sql.DB, error) {
	mysqlCfg, err := newMySQLConfig(uri)
	if err != nil {
		return nil, err
	}
	host := uri.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := uri.Port()
	if port == "" {
		port = "3306"
	}
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = net.JoinHostPort(host, port)

	dbPool, err := sql.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sql.Open (standard mysql): %w", err)
	}
	return dbPool, nil
}

// newMySQLConfig converts a mysql:// URI into a driver config. Query parameters are parsed
// by the driver so settings such as timeout or collation keep their usual meaning.
func newMySQLConfig(uri *url.URL) (*mysql.Config, error) {
	dsn := "/" + database.DatabaseName(uri)
	if uri.RawQuery != "" {
		dsn += "?" + uri.RawQuery
	}
	mysqlCfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql connection parameters: %w", err)
	}
	mysqlCfg.User, mysqlCfg.Passwd = database.Credentials(uri)
	mysqlCfg.AllowNativePasswords = true
	mysqlCfg.ParseTime = true
	return mysqlCfg, nil
}

func (h mysqlHandler) QuoteIdentifier(name string) string {
	name = strings.ReplaceAll(name, "`", "``")
	return fmt.Sprintf("`%s`", name)
}

func init() {
	database.RegisterDialectHandler("mysql", mysqlHandler{})
	database.RegisterDialectHandler("cloudsqlmysql", mysqlHandler{})
}
