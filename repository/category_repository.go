package repository

import (
	"context"
	"database/sql"
	"fmt"

	"artiststudio/model"
)

// CategoryRepository defines the interface for category data operations.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
}

type mysqlCategoryRepository struct {
	db *sql.DB
}

// NewMySQLCategoryRepository creates a new mysqlCategoryRepository.
func NewMySQLCategoryRepository(db *sql.DB) CategoryRepository {
	return &mysqlCategoryRepository{db: db}
}

// ListCategories returns every category ordered by name.
func (r *mysqlCategoryRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, description, color FROM category ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		var (
			c           model.Category
			desc, color sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &desc, &color); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		c.Description = nullStringPtr(desc)
		c.Color = nullStringPtr(color)
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during category rows iteration: %w", err)
	}
	return categories, nil
}

// GetCategoryByName looks a category up by its exact name. Returns nil, nil when absent.
func (r *mysqlCategoryRepository) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	var (
		c           model.Category
		desc, color sql.NullString
	)
	err := r.db.QueryRowContext(ctx, "SELECT id, name, description, color FROM category WHERE name = ? LIMIT 1", name).
		Scan(&c.ID, &c.Name, &desc, &color)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan category %q: %w", name, err)
	}
	c.Description = nullStringPtr(desc)
	c.Color = nullStringPtr(color)
	return &c, nil
}
