package auth

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingrediguard/internal/metrics"
)

func newTestService(t *testing.T) (*Service, *InMemoryUserRepository, *metrics.Metrics) {
	t.Helper()
	repo := NewInMemoryUserRepository()
	m := metrics.NewUnregistered()
	return NewService(repo, "", m, nil), repo, m
}

func TestPasswordIsHashedBeforeSaving(t *testing.T) {
	service, repo, _ := newTestService(t)
	password := "Password@123"

	user, err := service.AddUser(context.Background(), "alice", password, false)
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, password, stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestAddUser(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := service.AddUser(ctx, "  alice ", "pw", false)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsActive)
	assert.Equal(t, RoleStaff, user.Role())

	_, err = service.AddUser(ctx, "alice", "other", true)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = service.AddUser(ctx, "", "pw", false)
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = service.AddUser(ctx, "bob", "", false)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.EnsureDefaultAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = service.EnsureDefaultAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := service.Authenticate(ctx, DefaultAdminUsername, DefaultAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role())
}

func TestAuthenticate(t *testing.T) {
	service, repo, m := newTestService(t)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	user, err := service.AddUser(ctx, "alice", "secret", false)
	require.NoError(t, err)
	assert.Nil(t, user.LastLogin)

	_, err = service.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Authenticate(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := service.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, fixed, *got.LastLogin)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
	assert.Equal(t, fixed, *stored.LastLogin)

	require.NoError(t, service.SetActive(ctx, user.ID, false))
	_, err = service.Authenticate(ctx, "alice", "secret")
	assert.ErrorIs(t, err, ErrAccountDisabled)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("disabled")))
}

func TestLastAdminGuard(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.EnsureDefaultAdmin(ctx)
	require.NoError(t, err)
	admin, err := service.repo.FindByUsername(ctx, DefaultAdminUsername)
	require.NoError(t, err)

	assert.ErrorIs(t, service.SetActive(ctx, admin.ID, false), ErrLastAdmin)
	assert.ErrorIs(t, service.SetAdmin(ctx, admin.ID, false), ErrLastAdmin)

	second, err := service.AddUser(ctx, "carol", "pw", true)
	require.NoError(t, err)

	require.NoError(t, service.SetAdmin(ctx, admin.ID, false))
	assert.ErrorIs(t, service.SetActive(ctx, second.ID, false), ErrLastAdmin)

	assert.ErrorIs(t, service.SetActive(ctx, 999, false), ErrUserNotFound)
}

func TestChangePasswordAndReset(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := service.AddUser(ctx, "alice", "old", false)
	require.NoError(t, err)

	require.NoError(t, service.ChangePassword(ctx, user.ID, "new"))
	_, err = service.Authenticate(ctx, "alice", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = service.Authenticate(ctx, "alice", "new")
	assert.NoError(t, err)

	assert.ErrorIs(t, service.ChangePassword(ctx, user.ID, ""), ErrMissingFields)

	require.NoError(t, service.Reset(ctx))
	users, err := service.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, DefaultAdminUsername, users[0].Username)
	assert.True(t, users[0].IsAdmin)
}
