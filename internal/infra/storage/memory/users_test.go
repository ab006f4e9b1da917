package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "stayfinder/internal/domain/auth"
	domainuser "stayfinder/internal/domain/user"
	"stayfinder/internal/infra/storage/memory"
)

func seedUser(t *testing.T, repo *memory.UserRepository, id, email string, createdAt time.Time) *domainuser.User {
	t.Helper()
	u, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Email:        email,
		Name:         "User " + id,
		PasswordHash: "$2a$04$hash",
		CreatedAt:    createdAt,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), u))
	return u
}

func TestUserRepositoryLookup(t *testing.T) {
	repo := memory.NewUserRepository()
	seedUser(t, repo, "u1", "John@Example.com", time.Now())

	byEmail, err := repo.ByEmail(context.Background(), "  JOHN@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, domainuser.ID("u1"), byEmail.ID)

	byID, err := repo.ByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", byID.Email)

	_, err = repo.ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
}

func TestUserRepositoryEmailUniqueness(t *testing.T) {
	repo := memory.NewUserRepository()
	seedUser(t, repo, "u1", "john@example.com", time.Now())

	dup, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           "u2",
		Email:        "JOHN@example.com",
		Name:         "Impostor",
		PasswordHash: "$2a$04$hash",
	})
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(context.Background(), dup), domainuser.ErrEmailAlreadyUsed)

	// Re-saving the owner under the same address is fine.
	owner, err := repo.ByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.NoError(t, repo.Save(context.Background(), owner))
}

func TestUserRepositoryReadsAreIsolated(t *testing.T) {
	repo := memory.NewUserRepository()
	seedUser(t, repo, "u1", "john@example.com", time.Now())

	first, err := repo.ByID(context.Background(), "u1")
	require.NoError(t, err)
	first.Name = "Mutated"

	second, err := repo.ByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "User u1", second.Name)
}

func TestUserRepositoryList(t *testing.T) {
	repo := memory.NewUserRepository()
	base := time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC)
	seedUser(t, repo, "u2", "b@example.com", base.Add(time.Hour))
	seedUser(t, repo, "u1", "a@example.com", base)

	all, total, err := repo.List(context.Background(), domainuser.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, all, 2)
	assert.Equal(t, domainuser.ID("u1"), all[0].ID, "oldest first")
}

func newSession(t *testing.T, token string, userID domainuser.ID, ttl time.Duration) *domainauth.Session {
	t.Helper()
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  domainauth.Token(token),
		UserID: userID,
		TTL:    ttl,
		Now:    time.Now(),
	})
	require.NoError(t, err)
	return session
}

func TestSessionStore(t *testing.T) {
	store := memory.NewSessionStore()
	ctx := context.Background()

	session := newSession(t, "tok-1", "u1", time.Hour)
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, domainuser.ID("u1"), got.UserID)

	require.NoError(t, store.Delete(ctx, "tok-1"))
	_, err = store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)

	// Deleting an unknown token is a no-op.
	assert.NoError(t, store.Delete(ctx, "tok-unknown"))
}

func TestSessionStoreExpiry(t *testing.T) {
	store := memory.NewSessionStore()
	ctx := context.Background()

	session := newSession(t, "tok-1", "u1", time.Millisecond)
	require.NoError(t, store.Save(ctx, session))

	time.Sleep(5 * time.Millisecond)
	_, err := store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestSessionStoreDeleteByUser(t *testing.T) {
	store := memory.NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession(t, "tok-1", "u1", time.Hour)))
	require.NoError(t, store.Save(ctx, newSession(t, "tok-2", "u1", time.Hour)))
	require.NoError(t, store.Save(ctx, newSession(t, "tok-3", "u2", time.Hour)))

	require.NoError(t, store.DeleteByUser(ctx, "u1"))

	_, err := store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
	_, err = store.Get(ctx, "tok-2")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
	_, err = store.Get(ctx, "tok-3")
	assert.NoError(t, err)
}
