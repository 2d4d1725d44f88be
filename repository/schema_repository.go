package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaRepository inspects the live schema.
type SchemaRepository interface {
	HasColumn(ctx context.Context, table, column string) (bool, error)
	// HasPlayCounter reports whether song.play_count exists.
	HasPlayCounter(ctx context.Context) (bool, error)
}

type mysqlSchemaRepository struct {
	db *sql.DB
}

// NewMySQLSchemaRepository creates a new mysqlSchemaRepository.
func NewMySQLSchemaRepository(db *sql.DB) SchemaRepository {
	return &mysqlSchemaRepository{db: db}
}

// HasColumn checks INFORMATION_SCHEMA for table.column in the current database.
func (r *mysqlSchemaRepository) HasColumn(ctx context.Context, table, column string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM INFORMATION_SCHEMA.COLUMNS
	          WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?`
	if err := r.db.QueryRowContext(ctx, query, table, column).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check if %s.%s column exists: %w", table, column, err)
	}
	return count > 0, nil
}

func (r *mysqlSchemaRepository) HasPlayCounter(ctx context.Context) (bool, error) {
	return r.HasColumn(ctx, "song", "play_count")
}
