package model

import "time"

// Role tags stored in user.roles.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// DefaultRoles is assigned to every registered account.
var DefaultRoles = []string{RoleUser}

// User represents an account row.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never exposed
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	IsActive     bool      `json:"isActive"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasRole reports whether the account carries role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// View returns the login projection of the account.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     u.Roles,
	}
}

// AdminView returns the admin listing projection of the account.
func (u *User) AdminView() AdminUserView {
	return AdminUserView{
		UserView:  u.View(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// UserView is what a successful login returns.
type UserView struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// AdminUserView is one row of the admin user listing.
type AdminUserView struct {
	UserView
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
