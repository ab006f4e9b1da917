package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authsvc "stayfinder/internal/app/services/auth"
	domainauth "stayfinder/internal/domain/auth"
	domainuser "stayfinder/internal/domain/user"
	"stayfinder/internal/infra/security"
	"stayfinder/internal/infra/storage/memory"
)

func newService(t *testing.T) (*authsvc.Service, *memory.UserRepository, *memory.SessionStore) {
	t.Helper()
	users := memory.NewUserRepository()
	sessions := memory.NewSessionStore()
	svc := &authsvc.Service{
		Users:     users,
		Sessions:  sessions,
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.RandomTokenGenerator{},
	}
	return svc, users, sessions
}

func TestRegister(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, authsvc.RegisterParams{
		Email:    " John@Example.COM ",
		Name:     "John Doe",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "john@example.com", result.User.Email)
	assert.Equal(t, []domainuser.Role{domainuser.RoleGuest}, result.User.Roles)
	assert.NotEqual(t, "correct horse", result.User.PasswordHash)

	stored, err := users.ByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, stored.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, authsvc.RegisterParams{Email: "", Name: "John", Password: "long enough"})
	assert.ErrorIs(t, err, domainuser.ErrEmailRequired)

	_, err = svc.Register(ctx, authsvc.RegisterParams{Email: "a@b.c", Name: "  ", Password: "long enough"})
	assert.ErrorIs(t, err, domainuser.ErrNameRequired)

	_, err = svc.Register(ctx, authsvc.RegisterParams{Email: "a@b.c", Name: "John", Password: "short"})
	assert.ErrorIs(t, err, authsvc.ErrPasswordTooShort)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, authsvc.RegisterParams{Email: "john@example.com", Name: "John", Password: "long enough"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, authsvc.RegisterParams{Email: "JOHN@example.com", Name: "Other", Password: "long enough"})
	assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, authsvc.RegisterParams{Email: "john@example.com", Name: "John", Password: "long enough"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, authsvc.LoginParams{Email: "john@example.com", Password: "long enough"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login(ctx, authsvc.LoginParams{Email: "john@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, authsvc.ErrInvalidCredentials)

	_, err = svc.Login(ctx, authsvc.LoginParams{Email: "nobody@example.com", Password: "long enough"})
	assert.ErrorIs(t, err, authsvc.ErrInvalidCredentials)
}

func TestLoginBlockedUser(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, authsvc.RegisterParams{Email: "john@example.com", Name: "John", Password: "long enough"})
	require.NoError(t, err)

	account, err := users.ByID(ctx, reg.User.ID)
	require.NoError(t, err)
	account.Block(time.Now())
	require.NoError(t, users.Save(ctx, account))

	_, err = svc.Login(ctx, authsvc.LoginParams{Email: "john@example.com", Password: "long enough"})
	assert.ErrorIs(t, err, authsvc.ErrUserBlocked)
}

func TestResolveToken(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, authsvc.RegisterParams{Email: "john@example.com", Name: "John", Password: "long enough"})
	require.NoError(t, err)

	resolved, err := svc.ResolveToken(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resolved.User.ID)
	assert.Equal(t, domainauth.Token(reg.Token), resolved.Session.Token)
}

func TestResolveTokenFailures(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.ResolveToken(ctx, "  ")
	assert.ErrorIs(t, err, domainauth.ErrTokenRequired)

	_, err = svc.ResolveToken(ctx, "unknown-token")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestResolveTokenBlockedUserKillsSessions(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, authsvc.RegisterParams{Email: "john@example.com", Name: "John", Password: "long enough"})
	require.NoError(t, err)

	account, err := users.ByID(ctx, reg.User.ID)
	require.NoError(t, err)
	account.Block(time.Now())
	require.NoError(t, users.Save(ctx, account))

	_, err = svc.ResolveToken(ctx, reg.Token)
	assert.ErrorIs(t, err, authsvc.ErrUserBlocked)

	// The blocked user's sessions are revoked, so a second resolve cannot
	// even find the session.
	_, err = svc.ResolveToken(ctx, reg.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestLogout(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, authsvc.RegisterParams{Email: "john@example.com", Name: "John", Password: "long enough"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.Token))
	_, err = svc.ResolveToken(ctx, reg.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)

	// Blank token logout is a no-op.
	require.NoError(t, svc.Logout(ctx, "  "))
}
