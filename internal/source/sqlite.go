package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient manages the connection to SQLite.
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens and pings the database file.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &SQLiteClient{db: db}, nil
}

// Close closes the database connection.
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// DB returns the underlying database handle.
func (c *SQLiteClient) DB() *sql.DB {
	return c.db
}
