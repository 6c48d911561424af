package database

import (
	"net/url"
	"strings"
)

const redacted = "xxxxx"

// RedactURI masks the password of a connection URI so it can be logged.
// Strings that do not parse as a URI are returned with everything after the scheme hidden.
func RedactURI(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		if i := strings.Index(connStr, "://"); i != -1 {
			return connStr[:i+3] + redacted
		}
		return redacted
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), redacted)
		}
	}
	q := u.Query()
	changed := false
	for _, key := range []string{"password", "pwd"} {
		if q.Has(key) {
			q.Set(key, redacted)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// DatabaseName returns the database named by a connection URI: the first path segment, or
// the "database" query parameter used by SQL Server style URIs.
func DatabaseName(u *url.URL) string {
	if name := strings.Trim(u.Path, "/"); name != "" {
		if i := strings.Index(name, "/"); i != -1 {
			return name[:i]
		}
		return name
	}
	return u.Query().Get("database")
}

// Credentials returns the user and password embedded in a connection URI.
func Credentials(u *url.URL) (user, password string) {
	if u.User == nil {
		return "", ""
	}
	password, _ = u.User.Password()
	return u.User.Username(), password
}
