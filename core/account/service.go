// Package account registers and authenticates users. There are no sessions:
// every call re-submits credentials.
package account

import (
	"context"
	"errors"
	"time"

	"artiststudio/core/apperr"
	"artiststudio/core/auth"
	"artiststudio/core/sanitize"
	"artiststudio/logger"
	"artiststudio/model"
	"artiststudio/repository"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest accepted password, in bytes.
const MinPasswordLength = 6

// Client-facing messages.
const (
	MsgAllFieldsRequired   = "all fields are required"
	MsgInvalidEmail        = "invalid email"
	MsgPasswordTooShort    = "password too short (6 characters min)"
	MsgEmailTaken          = "this email is already in use"
	MsgCredentialsRequired = "email and password are required"
	MsgUserNotFound        = "user not found"
	MsgIncorrectPassword   = "incorrect password"
	MsgRoleRequired        = "administrator role required"
)

// Auditor records logins accepted through an override password.
type Auditor interface {
	RecordOverride(ctx context.Context, entry model.OverrideLogin) error
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Service implements registration and credential checks.
type Service struct {
	users    repository.UserRepository
	verifier *auth.Verifier
	auditor  Auditor
	validate *validator.Validate
}

// NewService creates an account Service. auditor may be nil, in which case
// override logins are only logged.
func NewService(users repository.UserRepository, verifier *auth.Verifier, auditor Auditor) *Service {
	return &Service{
		users:    users,
		verifier: verifier,
		auditor:  auditor,
		validate: validator.New(),
	}
}

// Register validates and stores a new active account with the default role.
//
// The duplicate check and the insert are not atomic. Two concurrent
// registrations of one email can both pass the check; the unique index on
// user.email rejects the second insert and that is reported the same way.
func (s *Service) Register(ctx context.Context, in RegisterInput) (int64, error) {
	email := sanitize.Clean(in.Email)
	firstName := sanitize.Clean(in.FirstName)
	lastName := sanitize.Clean(in.LastName)

	if email == "" || in.Password == "" || firstName == "" || lastName == "" {
		return 0, apperr.Validation(MsgAllFieldsRequired)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return 0, apperr.Validation(MsgInvalidEmail)
	}
	if len(in.Password) < MinPasswordLength {
		return 0, apperr.Validation(MsgPasswordTooShort)
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return 0, apperr.Storage("register", err)
	}
	if exists {
		return 0, apperr.Validation(MsgEmailTaken)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return 0, apperr.Storage("register", err)
	}

	id, err := s.users.CreateUser(ctx, &model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		Roles:        append([]string(nil), model.DefaultRoles...),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			logger.Warn("[Register] concurrent registration lost the race", logger.String("email", email))
			return 0, apperr.Validation(MsgEmailTaken)
		}
		return 0, apperr.Storage("register", err)
	}

	logger.Info("[Register] account created", logger.Int64("id", id), logger.String("email", email))
	return id, nil
}

// Login checks credentials against an active account and returns its public view.
func (s *Service) Login(ctx context.Context, email, password string) (*model.UserView, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

// Authorize authenticates like Login and additionally requires role.
func (s *Service) Authorize(ctx context.Context, email, password, role string) (*model.UserView, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !user.HasRole(role) {
		logger.Warn("[Authorize] missing role", logger.Int64("userId", user.ID), logger.String("role", role))
		return nil, apperr.Forbidden(MsgRoleRequired)
	}
	view := user.View()
	return &view, nil
}

func (s *Service) authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = sanitize.Clean(email)
	if email == "" || password == "" {
		return nil, apperr.Validation(MsgCredentialsRequired)
	}

	user, err := s.users.GetActiveUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Storage("login", err)
	}
	if user == nil {
		logger.Warn("[Login] user not found", logger.String("email", email))
		return nil, apperr.Unauthorized(MsgUserNotFound)
	}

	res := s.verifier.Verify(password, user.PasswordHash)
	if !res.OK {
		logger.Warn("[Login] password verification failed", logger.String("email", email))
		return nil, apperr.Unauthorized(MsgIncorrectPassword)
	}
	if res.Override {
		s.recordOverride(ctx, user)
	}
	return user, nil
}

func (s *Service) recordOverride(ctx context.Context, user *model.User) {
	logger.Warn("[Login] override password used",
		logger.Int64("userId", user.ID),
		logger.String("email", user.Email))
	if s.auditor == nil {
		return
	}
	entry := model.OverrideLogin{Email: user.Email, UserID: user.ID, At: time.Now()}
	if err := s.auditor.RecordOverride(ctx, entry); err != nil {
		logger.Error("[Login] failed to audit override login", logger.ErrorField(err))
	}
}
