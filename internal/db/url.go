package db

import (
	"fmt"
	"regexp"
	"strings"
)

// Driver names a supported export database
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ParseDatabaseURL parses the database URL and returns the driver and connection string.
// Postgres URLs are passed through unchanged, the others lose their scheme.
func ParseDatabaseURL(dbURL string) (Driver, string, error) {
	if dbURL == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return DriverPostgres, dbURL, nil
	case strings.HasPrefix(dbURL, "mysql://"):
		return DriverMySQL, strings.TrimPrefix(dbURL, "mysql://"), nil
	case strings.HasPrefix(dbURL, "sqlite://"):
		path := strings.TrimPrefix(dbURL, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite URL is missing a file path")
		}
		return DriverSQLite, path, nil
	default:
		return "", "", fmt.Errorf("unsupported database URL scheme (supported: postgres://, mysql://, sqlite://)")
	}
}

// ValidateTableName rejects names that would need quoting tricks to be safe in DDL
func ValidateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q: use letters, digits and underscores", name)
	}
	return nil
}
