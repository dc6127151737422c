package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/user"
)

type authFixture struct {
	service  Service
	users    user.Service
	userRepo *user.MockRepository
	sessions *session.Manager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	log, _ := test.NewNullLogger()
	repo := user.NewMockRepository()
	users := user.NewUserService(repo, log)
	sessions := session.NewManager(time.Hour, false)
	return &authFixture{
		service:  NewAuthService(users, sessions, log),
		users:    users,
		userRepo: repo,
		sessions: sessions,
	}
}

func (f *authFixture) register(t *testing.T, username, email, password string) *user.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), username, email, password)
	require.NoError(t, err)
	return u
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)
	alice := f.register(t, "alice", "a@x.com", "pw1")
	anon, err := f.sessions.Create(0)
	require.NoError(t, err)

	sess, err := f.service.Login(context.Background(), anon.Token, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, sess.UserID)
	assert.NotEqual(t, anon.Token, sess.Token)

	_, err = f.sessions.Get(anon.Token)
	assert.ErrorIs(t, err, session.ErrInvalidSessionToken)
}

func TestLogin_DistinguishesFailures(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "a@x.com", "pw1")
	anon, err := f.sessions.Create(0)
	require.NoError(t, err)

	_, err = f.service.Login(context.Background(), anon.Token, "nobody@x.com", "pw1")
	assert.ErrorIs(t, err, ErrNoSuchUser)

	_, err = f.service.Login(context.Background(), anon.Token, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrBadPassword)
	assert.NotEqual(t, ErrNoSuchUser.Error(), ErrBadPassword.Error())

	got, err := f.sessions.Get(anon.Token)
	require.NoError(t, err)
	assert.False(t, got.Authenticated(), "failed login must not bind the session")
}

func TestLogin_RepositoryFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.userRepo.Err = errors.New("db down")

	_, err := f.service.Login(context.Background(), "token", "a@x.com", "pw1")
	assert.ErrorIs(t, err, ErrInternalError)
}

func TestLogout_ClearsBinding(t *testing.T) {
	f := newAuthFixture(t)
	sess, err := f.sessions.Create(7)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(sess.Token))

	got, err := f.sessions.Get(sess.Token)
	require.NoError(t, err)
	assert.False(t, got.Authenticated())

	assert.NoError(t, f.service.Logout("unknown"))
}
