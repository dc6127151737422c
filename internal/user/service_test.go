package user

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (Service, *MockRepository) {
	repo := NewMockRepository()
	log, _ := test.NewNullLogger()
	return NewUserService(repo, log), repo
}

func TestRegister_Success(t *testing.T) {
	svc, repo := newTestService()

	u, err := svc.Register(context.Background(), "alice", "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "pw1", u.PasswordHash)

	ok, err := CheckPassword(u.PasswordHash, "pw1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.Count())
}

func TestRegister_DuplicateUsernameOrEmail(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same username", "alice", "other@x.com"},
		{"same email", "bob", "a@x.com"},
		{"both", "alice", "a@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.email, "pw2")
			assert.ErrorIs(t, err, ErrUsernameOrEmailTaken)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, 1, repo.Count())
		})
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@x.com", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(ctx, "alice", "a@x.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(ctx, "alice", "not-an-email", "pw")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	assert.Equal(t, 0, repo.Count())
}

func TestRegister_RepositoryFailure(t *testing.T) {
	svc, repo := newTestService()
	repo.Err = errors.New("connection refused")

	_, err := svc.Register(context.Background(), "alice", "a@x.com", "pw")
	assert.ErrorIs(t, err, ErrInternalError)
	assert.False(t, IsValidationError(err))
}

func TestGetUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	created, err := svc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	byEmail, err := svc.GetUserByEmail(ctx, " a@x.com ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = svc.GetUserByID(ctx, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
