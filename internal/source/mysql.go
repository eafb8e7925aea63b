package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLClient manages the connection to MySQL.
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient opens and pings the database.
func NewMySQLClient(ctx context.Context, dsn string) (*MySQLClient, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &MySQLClient{db: db}, nil
}

// Close closes the database connection.
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// DB returns the underlying database handle.
func (c *MySQLClient) DB() *sql.DB {
	return c.db
}

// ParseDatabaseName extracts the database name from a MySQL DSN of the form
// user:pass@tcp(host:port)/dbname?params.
func ParseDatabaseName(dsn string) (string, error) {
	slash := strings.LastIndex(dsn, "/")
	if slash < 0 || slash == len(dsn)-1 {
		return "", fmt.Errorf("no database name in DSN")
	}
	name := dsn[slash+1:]
	if q := strings.IndexByte(name, '?'); q >= 0 {
		name = name[:q]
	}
	if name == "" {
		return "", fmt.Errorf("no database name in DSN")
	}
	return name, nil
}
