package database

import (
	"net/url"
	"testing"

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/config"
)

func TestRedactURI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Password in user info", "postgres://alice:s3cret@db:5432/app", "postgres://alice:xxxxx@db:5432/app"},
		{"No password", "postgres://alice@db/app", "postgres://alice@db/app"},
		{"No credentials", "duckdb:///tmp/words.db", "duckdb:///tmp/words.db"},
		{"Password query parameter", "sqlserver://sa@db:1433?database=app&password=hunter2", "sqlserver://sa@db:1433?database=app&password=xxxxx"},
		{"Unparseable", "postgres://u:p@%zz/db", "postgres://xxxxx"},
		{"Garbage", "%zz", "xxxxx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactURI(tt.in); got != tt.want {
				t.Errorf("RedactURI(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@h:5432/app", "app"},
		{"postgres://u:p@h:5432/app/extra", "app"},
		{"sqlserver://u:p@h:1433?database=inventory", "inventory"},
		{"mysql://u:p@h:3306", ""},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.in)
		if err != nil {
			t.Fatalf("url.Parse(%q): %v", tt.in, err)
		}
		if got := DatabaseName(u); got != tt.want {
			t.Errorf("DatabaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCredentials(t *testing.T) {
	u, _ := url.Parse("postgres://alice:p%40ss@h/app")
	user, pass := Credentials(u)
	if user != "alice" || pass != "p@ss" {
		t.Errorf("Credentials() = %q, %q", user, pass)
	}

	u, _ = url.Parse("postgres://h/app")
	user, pass = Credentials(u)
	if user != "" || pass != "" {
		t.Errorf("Credentials() without user info = %q, %q", user, pass)
	}
}

func TestDBDatabaseName(t *testing.T) {
	tests := []struct {
		dialect string
		connStr string
		want    string
	}{
		{"postgres", "postgres://u:p@localhost:5432/vocab?sslmode=disable", "vocab"},
		{"sqlserver", "sqlserver://sa:pw@db:1433?database=inventory", "inventory"},
		{"duckdb", "duckdb:///var/lib/words.db", "words"},
		{"duckdb", "duckdb://", "memory"},
	}
	for _, tt := range tests {
		db := &DB{Dialect: tt.dialect, Config: config.DatabaseConfig{ConnectionString: tt.connStr}}
		if got := db.DatabaseName(); got != tt.want {
			t.Errorf("DatabaseName() for %q = %q, want %q", tt.connStr, got, tt.want)
		}
	}
}
