package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/web"
)

type handlerFixture struct {
	handler  *Handler
	repo     *MockRepository
	sessions *session.Manager
	sess     *session.Session
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	log, _ := test.NewNullLogger()
	sessions := session.NewManager(time.Hour, false)
	renderer, err := web.NewRenderer("", sessions, log)
	require.NoError(t, err)
	repo := NewMockRepository()
	sess, err := sessions.Create(0)
	require.NoError(t, err)

	return &handlerFixture{
		handler:  NewHandler(NewUserService(repo, log), sessions, renderer, log),
		repo:     repo,
		sessions: sessions,
		sess:     sess,
	}
}

func (f *handlerFixture) post(form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(session.WithSession(req.Context(), f.sess))
	rr := httptest.NewRecorder()
	f.handler.HandleRegister(rr, req)
	return rr
}

func (f *handlerFixture) flashes() []string {
	var messages []string
	for _, fl := range f.sessions.PopFlashes(f.sess.Token) {
		messages = append(messages, fl.Message)
	}
	return messages
}

func TestHandleRegisterForm(t *testing.T) {
	f := newHandlerFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	req = req.WithContext(session.WithSession(req.Context(), f.sess))
	rr := httptest.NewRecorder()

	f.handler.HandleRegisterForm(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `action="/register"`)
}

func TestHandleRegister_Success(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.post(url.Values{"username": {"alice"}, "email": {"a@x.com"}, "password": {"pw1"}})

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Equal(t, []string{"Registration successful! Please log in."}, f.flashes())
	assert.Equal(t, 1, f.repo.Count())
}

func TestHandleRegister_DuplicateDoesNotCreateRow(t *testing.T) {
	f := newHandlerFixture(t)
	_, err := f.handler.userService.Register(context.Background(), "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	rr := f.post(url.Values{"username": {"alice2"}, "email": {"a@x.com"}, "password": {"pw2"}})

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/register", rr.Header().Get("Location"))
	assert.Equal(t, []string{"Username or email already taken."}, f.flashes())
	assert.Equal(t, 1, f.repo.Count())
}

func TestHandleRegister_MissingFields(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.post(url.Values{"username": {"alice"}})

	assert.Equal(t, "/register", rr.Header().Get("Location"))
	assert.Equal(t, []string{"Please fill in all fields."}, f.flashes())
	assert.Equal(t, 0, f.repo.Count())
}
