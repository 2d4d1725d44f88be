package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"artiststudio/core/auth"
	"artiststudio/logger"
	"artiststudio/model"
)

type seedCategory struct {
	name, description, color string
}

var defaultCategories = []seedCategory{
	{"Pop", "Catchy mainstream songs", "#ec4899"},
	{"Rock", "Guitars up front", "#ef4444"},
	{"Electronic", "Synths and drum machines", "#8b5cf6"},
	{"Acoustic", "Unplugged sessions", "#f59e0b"},
	{"Jazz", "Improvised and swing", "#3b82f6"},
	{"Classical", "Orchestral and chamber works", "#10b981"},
}

// SeedDefaults inserts the default genre categories and, when adminPassword is
// set, an active administrator account. Existing rows are left untouched.
func SeedDefaults(ctx context.Context, pool *sql.DB, adminEmail, adminPassword string) error {
	for _, c := range defaultCategories {
		res, err := pool.ExecContext(ctx,
			"INSERT IGNORE INTO category (name, description, color) VALUES (?, ?, ?)",
			c.name, c.description, c.color)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			logger.Info("Seeded category", logger.String("name", c.name))
		}
	}

	if adminPassword == "" || adminEmail == "" {
		logger.Info("SEED_ADMIN_PASSWORD not set, skipping administrator account")
		return nil
	}

	var existingID int64
	err := pool.QueryRowContext(ctx, "SELECT id FROM `user` WHERE email = ?", adminEmail).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to check for existing administrator: %w", err)
	}
	if err == nil {
		logger.Info("Administrator already exists, skipping", logger.Int64("id", existingID))
		return nil
	}

	hashed, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password for administrator: %w", err)
	}
	roles, _ := json.Marshal([]string{model.RoleUser, model.RoleAdmin})
	res, err := pool.ExecContext(ctx,
		"INSERT INTO `user` (email, password, first_name, last_name, created_at, is_active, roles) VALUES (?, ?, ?, ?, ?, 1, ?)",
		adminEmail, hashed, "Admin", "Studio", time.Now(), string(roles))
	if err != nil {
		return fmt.Errorf("failed to insert administrator: %w", err)
	}
	id, _ := res.LastInsertId()
	logger.Info("Administrator created", logger.Int64("id", id), logger.String("email", adminEmail))
	return nil
}
