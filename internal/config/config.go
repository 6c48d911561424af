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
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConnectionStringEnv is the environment variable holding the database URI.
const ConnectionStringEnv = "DATABASE_URL"

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Reports  []ReportConfig `mapstructure:"reports"`
	LogLevel string         `mapstructure:"log_level"`
	Timeout  time.Duration  `mapstructure:"timeout"`

	// File is the config file the values were read from, empty when none was used.
	File string `mapstructure:"-"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	ConnectionString               string        `mapstructure:"connection_string"`
	Dialect                        string        `mapstructure:"dialect"`
	CloudSQLInstanceConnectionName string        `mapstructure:"cloudsql_instance_connection_name"`
	UsePrivateIP                   bool          `mapstructure:"cloudsql_use_private_ip"`
	MaxOpenConns                   int           `mapstructure:"max_open_conns"`
	MaxIdleConns                   int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime                time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout                 time.Duration `mapstructure:"connect_timeout"`
}

// ReportConfig is the file representation of a single report.
type ReportConfig struct {
	Name      string   `mapstructure:"name"`
	Kind      string   `mapstructure:"kind"`
	Query     string   `mapstructure:"query"`
	QueryFile string   `mapstructure:"query_file"`
	Column    string   `mapstructure:"column"`
	Columns   []string `mapstructure:"columns"`
	Filter    string   `mapstructure:"filter"`
	Limit     int      `mapstructure:"limit"`
}

// ConfigError reports a missing or invalid configuration value.
type ConfigError struct {
	Key string
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %s: %v", e.Key, e.Msg, e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Msg)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// GetConfig returns a default configuration. Values are overridden by Load and by flags in cmd.
func GetConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
			ConnectTimeout:  10 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from an optional .env file, the environment and an optional
// config file. A missing .env is not an error; a missing explicit config file is.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigError{Key: ".env", Msg: "failed to load", Err: err}
	}

	defaults := GetConfig()
	v := viper.New()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("database.max_open_conns", defaults.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", defaults.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", defaults.Database.ConnMaxLifetime)
	v.SetDefault("database.connect_timeout", defaults.Database.ConnectTimeout)

	v.SetEnvPrefix("REPORTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.connection_string", ConnectionStringEnv, "REPORTS_DATABASE_CONNECTION_STRING"); err != nil {
		return nil, &ConfigError{Key: "database.connection_string", Msg: "failed to bind environment", Err: err}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, &ConfigError{Key: "config", Msg: fmt.Sprintf("cannot read %s", path), Err: err}
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigError{Key: "config", Msg: fmt.Sprintf("cannot parse %s", path), Err: err}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &ConfigError{Key: "config", Msg: "cannot decode configuration", Err: err}
	}
	cfg.File = path
	return cfg, nil
}

// RequireConnection checks that a connection string is present.
func (c *Config) RequireConnection() error {
	if strings.TrimSpace(c.Database.ConnectionString) == "" {
		return &ConfigError{
			Key: "database.connection_string",
			Msg: fmt.Sprintf("not set (use --database-url or the %s environment variable)", ConnectionStringEnv),
		}
	}
	return nil
}
