package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"artiststudio/model"
)

// UserRepository defines the interface for account data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	GetActiveUserByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	CountUsers(ctx context.Context) (int64, error)
	CountUsersCreatedToday(ctx context.Context) (int64, error)
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new mysqlUserRepository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

const userColumns = "id, email, password, first_name, last_name, is_active, roles, created_at"

// decodeRoles parses the JSON roles column, falling back to the default role.
func decodeRoles(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return append([]string(nil), model.DefaultRoles...)
	}
	var roles []string
	if err := json.Unmarshal([]byte(raw.String), &roles); err != nil || len(roles) == 0 {
		return append([]string(nil), model.DefaultRoles...)
	}
	return roles
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u                          model.User
		password, first, last, rls sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &password, &first, &last, &u.IsActive, &rls, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.PasswordHash = nullString(password)
	u.FirstName = nullString(first)
	u.LastName = nullString(last)
	u.Roles = decodeRoles(rls)
	return &u, nil
}

// CreateUser inserts an active account. A unique-key violation on email is
// reported as ErrDuplicateUser.
func (r *mysqlUserRepository) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	roles := user.Roles
	if len(roles) == 0 {
		roles = model.DefaultRoles
	}
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return 0, fmt.Errorf("failed to encode roles: %w", err)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query := "INSERT INTO `user` (email, password, first_name, last_name, created_at, is_active, roles) VALUES (?, ?, ?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, query, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.CreatedAt, user.IsActive, string(rolesJSON))
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, ErrDuplicateUser
		}
		return 0, fmt.Errorf("failed to execute create user statement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for user: %w", err)
	}
	return id, nil
}

// GetActiveUserByEmail retrieves an active account. Returns nil, nil when none matches.
func (r *mysqlUserRepository) GetActiveUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := "SELECT " + userColumns + " FROM `user` WHERE email = ? AND is_active = 1 LIMIT 1"
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user row for email %s: %w", email, err)
	}
	return user, nil
}

// EmailExists reports whether any account, active or not, uses email.
func (r *mysqlUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM `user` WHERE email = ? LIMIT 1", email).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check email %s: %w", email, err)
	}
	return true, nil
}

// ListUsers returns every account, newest first.
func (r *mysqlUserRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM `user` ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during user rows iteration: %w", err)
	}
	return users, nil
}

// CountUsers counts all accounts.
func (r *mysqlUserRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM `user`").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// CountUsersCreatedToday counts accounts created on the database server's
// current date.
func (r *mysqlUserRepository) CountUsersCreatedToday(ctx context.Context) (int64, error) {
	var n int64
	query := "SELECT COUNT(*) FROM `user` WHERE DATE(created_at) = CURDATE()"
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return n, nil
}
