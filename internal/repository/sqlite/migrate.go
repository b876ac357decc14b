package sqlite

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/repsboard/payroll-backend/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables and indexes when they do not exist yet.
func Migrate(ctx context.Context, db *database.SQLiteDB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Open opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*database.SQLiteDB, error) {
	db, err := database.NewSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
