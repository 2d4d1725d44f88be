package account

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"artiststudio/core/apperr"
	"artiststudio/core/auth"
	"artiststudio/internal/testsupport/memstore"
	"artiststudio/model"
)

type mockAuditor struct {
	mock.Mock
}

func (m *mockAuditor) RecordOverride(ctx context.Context, entry model.OverrideLogin) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type AccountSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memstore.Store
	auditor *mockAuditor
	svc     *Service
}

func (s *AccountSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.auditor = new(mockAuditor)
	s.svc = NewService(s.store.Users(), auth.NewVerifier([]string{"admin2024", "demo123"}), s.auditor)
}

func (s *AccountSuite) register(email, password string) int64 {
	id, err := s.svc.Register(s.ctx, RegisterInput{
		Email: email, Password: password, FirstName: "Ana", LastName: "Lima",
	})
	s.Require().NoError(err)
	return id
}

func (s *AccountSuite) requireKind(err error, kind apperr.Kind, msg string) {
	s.Require().Error(err)
	s.Equal(kind, apperr.KindOf(err))
	s.Equal(msg, apperr.PublicMessage(err, false))
}

func (s *AccountSuite) TestRegisterThenLogin() {
	id := s.register("ana@example.com", "secret1")
	s.Positive(id)

	stored, ok := s.store.UserByEmail("ana@example.com")
	s.Require().True(ok)
	s.True(stored.IsActive)
	s.Equal([]string{model.RoleUser}, stored.Roles)
	s.NotEqual("secret1", stored.PasswordHash)

	view, err := s.svc.Login(s.ctx, "ana@example.com", "secret1")
	s.Require().NoError(err)
	s.Equal(id, view.ID)
	s.Equal("Ana", view.FirstName)
	s.Equal([]string{model.RoleUser}, view.Roles)
	s.auditor.AssertNotCalled(s.T(), "RecordOverride", mock.Anything, mock.Anything)
}

func (s *AccountSuite) TestRegisterSanitizesFields() {
	_, err := s.svc.Register(s.ctx, RegisterInput{
		Email: "  bo@example.com ", Password: "secret1", FirstName: "<script>Bo", LastName: "Ng",
	})
	s.Require().NoError(err)

	stored, ok := s.store.UserByEmail("bo@example.com")
	s.Require().True(ok)
	s.Equal(">Bo", stored.FirstName)
}

func (s *AccountSuite) TestRegisterValidation() {
	cases := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"missing last name", RegisterInput{Email: "a@b.co", Password: "secret1", FirstName: "A"}, MsgAllFieldsRequired},
		{"blank after trim", RegisterInput{Email: "   ", Password: "secret1", FirstName: "A", LastName: "B"}, MsgAllFieldsRequired},
		{"bad email", RegisterInput{Email: "not-an-email", Password: "secret1", FirstName: "A", LastName: "B"}, MsgInvalidEmail},
		{"short password", RegisterInput{Email: "a@b.co", Password: "12345", FirstName: "A", LastName: "B"}, MsgPasswordTooShort},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.svc.Register(s.ctx, tc.in)
			s.requireKind(err, apperr.KindValidation, tc.msg)
		})
	}
	s.Zero(s.store.Calls["CreateUser"])
}

func (s *AccountSuite) TestRegisterDuplicateEmail() {
	s.register("dup@example.com", "secret1")

	_, err := s.svc.Register(s.ctx, RegisterInput{
		Email: "dup@example.com", Password: "other12", FirstName: "X", LastName: "Y",
	})
	s.requireKind(err, apperr.KindValidation, MsgEmailTaken)
	s.Equal(1, s.store.Calls["CreateUser"])
}

func (s *AccountSuite) TestLoginFailures() {
	s.register("ana@example.com", "secret1")

	_, err := s.svc.Login(s.ctx, "", "secret1")
	s.requireKind(err, apperr.KindValidation, MsgCredentialsRequired)

	_, err = s.svc.Login(s.ctx, "ghost@example.com", "secret1")
	s.requireKind(err, apperr.KindUnauthorized, MsgUserNotFound)

	_, err = s.svc.Login(s.ctx, "ana@example.com", "wrong-pass")
	s.requireKind(err, apperr.KindUnauthorized, MsgIncorrectPassword)
}

func (s *AccountSuite) TestLoginInactiveAccountIsNotFound() {
	hash, err := auth.HashPassword("secret1")
	s.Require().NoError(err)
	s.store.AddUser(model.User{Email: "gone@example.com", PasswordHash: hash, IsActive: false, Roles: model.DefaultRoles})

	_, err = s.svc.Login(s.ctx, "gone@example.com", "secret1")
	s.requireKind(err, apperr.KindUnauthorized, MsgUserNotFound)
}

func (s *AccountSuite) TestOverridePasswordIsAudited() {
	id := s.register("ana@example.com", "secret1")
	s.auditor.On("RecordOverride", mock.Anything, mock.MatchedBy(func(e model.OverrideLogin) bool {
		return e.UserID == id && e.Email == "ana@example.com" && !e.At.IsZero()
	})).Return(nil).Once()

	view, err := s.svc.Login(s.ctx, "ana@example.com", "admin2024")
	s.Require().NoError(err)
	s.Equal(id, view.ID)
	s.auditor.AssertExpectations(s.T())
}

func (s *AccountSuite) TestOverrideAuditFailureDoesNotBlockLogin() {
	s.register("ana@example.com", "secret1")
	s.auditor.On("RecordOverride", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	_, err := s.svc.Login(s.ctx, "ana@example.com", "demo123")
	s.NoError(err)
	s.auditor.AssertExpectations(s.T())
}

func (s *AccountSuite) TestOverrideWorksWithoutStoredHash() {
	s.store.AddUser(model.User{Email: "legacy@example.com", IsActive: true, Roles: model.DefaultRoles})
	s.auditor.On("RecordOverride", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.svc.Login(s.ctx, "legacy@example.com", "demo123")
	s.NoError(err)

	_, err = s.svc.Login(s.ctx, "legacy@example.com", "anything")
	s.requireKind(err, apperr.KindUnauthorized, MsgIncorrectPassword)
}

func (s *AccountSuite) TestAuthorizeRequiresRole() {
	s.register("ana@example.com", "secret1")
	hash, err := auth.HashPassword("rootpw1")
	s.Require().NoError(err)
	s.store.AddUser(model.User{Email: "root@example.com", PasswordHash: hash, IsActive: true,
		Roles: []string{model.RoleUser, model.RoleAdmin}})

	_, err = s.svc.Authorize(s.ctx, "ana@example.com", "secret1", model.RoleAdmin)
	s.requireKind(err, apperr.KindForbidden, MsgRoleRequired)

	view, err := s.svc.Authorize(s.ctx, "root@example.com", "rootpw1", model.RoleAdmin)
	s.Require().NoError(err)
	s.Equal("root@example.com", view.Email)
}

func TestAccountSuite(t *testing.T) {
	suite.Run(t, new(AccountSuite))
}

func TestOverridesDisabled(t *testing.T) {
	store := memstore.New()
	svc := NewService(store.Users(), auth.NewVerifier(nil), nil)
	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "ana@example.com", Password: "secret1", FirstName: "Ana", LastName: "Lima",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ana@example.com", "admin2024")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestRegisterStorageFailure(t *testing.T) {
	store := memstore.New()
	store.Fail = errors.New("connection reset")
	svc := NewService(store.Users(), auth.NewVerifier(nil), nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "ana@example.com", Password: "secret1", FirstName: "Ana", LastName: "Lima",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
	assert.Equal(t, "server error", apperr.PublicMessage(err, false))
}
