package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

const memoryPath = ":memory:"

// Open opens the SQLite database at path and makes sure the tasks table
// exists. Schema failures are returned as *SchemaError.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: is a separate database.
	if path == memoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func dsn(path string) string {
	if path == memoryPath {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return &SchemaError{Err: fmt.Errorf("read schema: %w", err)}
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return &SchemaError{Err: fmt.Errorf("apply schema: %w", err)}
	}

	return nil
}
