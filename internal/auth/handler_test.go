package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/web"
)

func newTestHandler(t *testing.T) (*Handler, *authFixture, *web.Renderer) {
	t.Helper()
	f := newAuthFixture(t)
	log, _ := test.NewNullLogger()
	renderer, err := web.NewRenderer("", f.sessions, log)
	require.NoError(t, err)
	return NewHandler(f.service, f.sessions, renderer, log), f, renderer
}

func withSession(req *http.Request, s *session.Session) *http.Request {
	return req.WithContext(session.WithSession(req.Context(), s))
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func popMessages(sessions *session.Manager, token string) []string {
	var messages []string
	for _, fl := range sessions.PopFlashes(token) {
		messages = append(messages, fl.Message)
	}
	return messages
}

func TestHandleHome(t *testing.T) {
	h, f, _ := newTestHandler(t)

	anon, _ := f.sessions.Create(0)
	rr := httptest.NewRecorder()
	h.HandleHome(rr, withSession(httptest.NewRequest(http.MethodGet, "/", nil), anon))
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	bound, _ := f.sessions.Create(1)
	rr = httptest.NewRecorder()
	h.HandleHome(rr, withSession(httptest.NewRequest(http.MethodGet, "/", nil), bound))
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestHandleLoginForm(t *testing.T) {
	h, f, _ := newTestHandler(t)
	anon, _ := f.sessions.Create(0)

	rr := httptest.NewRecorder()
	h.HandleLoginForm(rr, withSession(httptest.NewRequest(http.MethodGet, "/login", nil), anon))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `action="/login"`)
}

func TestHandleLogin_Success(t *testing.T) {
	h, f, _ := newTestHandler(t)
	f.register(t, "alice", "a@x.com", "pw1")
	anon, _ := f.sessions.Create(0)

	rr := httptest.NewRecorder()
	h.HandleLogin(rr, withSession(postForm("/login", url.Values{"email": {"a@x.com"}, "password": {"pw1"}}), anon))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.NotEqual(t, anon.Token, cookies[0].Value)

	bound, err := f.sessions.Get(cookies[0].Value)
	require.NoError(t, err)
	assert.True(t, bound.Authenticated())
	assert.Equal(t, []string{"Logged in successfully!"}, popMessages(f.sessions, bound.Token))
}

func TestHandleLogin_CreatesSessionOnDemand(t *testing.T) {
	h, f, _ := newTestHandler(t)
	f.register(t, "alice", "a@x.com", "pw1")
	log, _ := test.NewNullLogger()
	handler := session.Middleware(f.sessions, log)(http.HandlerFunc(h.HandleLogin))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, postForm("/login", url.Values{"email": {"a@x.com"}, "password": {"pw1"}}))

	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	bound, err := f.sessions.Get(cookies[len(cookies)-1].Value)
	require.NoError(t, err)
	assert.True(t, bound.Authenticated())

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, postForm("/login", url.Values{"email": {"a@x.com"}, "password": {"bad"}}))

	assert.Equal(t, "/login", rr.Header().Get("Location"))
	cookies = rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, []string{"Wrong password."}, popMessages(f.sessions, cookies[0].Value))
}

func TestHandleLogin_WrongPasswordSetsNoSession(t *testing.T) {
	h, f, _ := newTestHandler(t)
	f.register(t, "alice", "a@x.com", "pw1")
	anon, _ := f.sessions.Create(0)

	rr := httptest.NewRecorder()
	h.HandleLogin(rr, withSession(postForm("/login", url.Values{"email": {"a@x.com"}, "password": {"nope"}}), anon))

	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Empty(t, rr.Result().Cookies())
	assert.Equal(t, []string{"Wrong password."}, popMessages(f.sessions, anon.Token))

	got, err := f.sessions.Get(anon.Token)
	require.NoError(t, err)
	assert.False(t, got.Authenticated())
}

func TestHandleLogin_UnknownUser(t *testing.T) {
	h, f, _ := newTestHandler(t)
	anon, _ := f.sessions.Create(0)

	rr := httptest.NewRecorder()
	h.HandleLogin(rr, withSession(postForm("/login", url.Values{"email": {"ghost@x.com"}, "password": {"pw"}}), anon))

	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Equal(t, []string{"User does not exist."}, popMessages(f.sessions, anon.Token))
}

func TestHandleLogin_MissingFields(t *testing.T) {
	h, f, _ := newTestHandler(t)
	anon, _ := f.sessions.Create(0)

	rr := httptest.NewRecorder()
	h.HandleLogin(rr, withSession(postForm("/login", url.Values{"email": {"a@x.com"}}), anon))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Please enter email and password.")
	assert.Contains(t, rr.Body.String(), `value="a@x.com"`)
}

func TestHandleLogout(t *testing.T) {
	h, f, _ := newTestHandler(t)
	bound, _ := f.sessions.Create(3)

	rr := httptest.NewRecorder()
	h.HandleLogout(rr, withSession(httptest.NewRequest(http.MethodGet, "/logout", nil), bound))

	assert.Equal(t, "/login", rr.Header().Get("Location"))
	got, err := f.sessions.Get(bound.Token)
	require.NoError(t, err)
	assert.False(t, got.Authenticated())
	assert.Equal(t, []string{"Logged out successfully."}, popMessages(f.sessions, bound.Token))
}

func TestRequireUser(t *testing.T) {
	_, f, renderer := newTestHandler(t)
	log, _ := test.NewNullLogger()
	alice := f.register(t, "alice", "a@x.com", "pw1")

	var seenUser string
	protected := RequireUser(f.sessions, f.users, renderer, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r.Context())
		require.True(t, ok)
		seenUser = u.Username
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("anonymous is redirected", func(t *testing.T) {
		anon, _ := f.sessions.Create(0)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil), anon))

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
		assert.Equal(t, []string{"Please log in."}, popMessages(f.sessions, anon.Token))
	})

	t.Run("bound user passes", func(t *testing.T) {
		bound, _ := f.sessions.Create(alice.ID)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil), bound))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "alice", seenUser)
	})

	t.Run("missing user clears binding", func(t *testing.T) {
		stale, _ := f.sessions.Create(alice.ID + 100)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil), stale))

		assert.Equal(t, "/login", rr.Header().Get("Location"))
		got, err := f.sessions.Get(stale.Token)
		require.NoError(t, err)
		assert.False(t, got.Authenticated())
		assert.Equal(t, []string{"User not found. Please log in again."}, popMessages(f.sessions, stale.Token))
	})
}
