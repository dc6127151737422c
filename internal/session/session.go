package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"time"
)

var (
	ErrInvalidSessionToken = errors.New("session token is invalid")
	ErrExpiredSessionToken = errors.New("session token is expired")
	ErrInternalError       = errors.New("internal Server Error")
)

const CookieName = "session_token"

// AnonymousTTL caps the lifetime of sessions not bound to a user. They only
// carry flashes and a pending login.
const AnonymousTTL = 15 * time.Minute

// Flash categories.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// Session binds an opaque token to an optional user id. UserID 0 means anonymous.
type Session struct {
	Token     string
	UserID    int64
	Flashes   []Flash
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Authenticated() bool {
	return s.UserID != 0
}

type Store interface {
	Create(userID int64) (*Session, error)
	Get(token string) (*Session, error)
	BindUser(token string, userID int64) (*Session, error)
	ClearUser(token string) error
	AddFlash(token string, flash Flash) error
	PopFlashes(token string) []Flash
	Delete(token string)
	StartCleanup(interval time.Duration) (stop func())
	WriteCookie(w http.ResponseWriter, s *Session)
}

type Manager struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	ttl          time.Duration
	secureCookie bool
	now          func() time.Time
}

func NewManager(ttl time.Duration, secureCookie bool) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		ttl:          ttl,
		secureCookie: secureCookie,
		now:          time.Now,
	}
}

func generateToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", ErrInternalError
	}
	return hex.EncodeToString(tokenBytes), nil
}

func (m *Manager) Create(userID int64) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	ttl := m.ttl
	if userID == 0 && ttl > AnonymousTTL {
		ttl = AnonymousTTL
	}
	now := m.now()
	s := &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()

	return s.copy(), nil
}

// Get returns a snapshot of the session; mutations go through the Manager.
func (m *Manager) Get(token string) (*Session, error) {
	m.mu.RLock()
	s, exists := m.sessions[token]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrInvalidSessionToken
	}
	if m.now().After(s.ExpiresAt) {
		m.Delete(token)
		return nil, ErrExpiredSessionToken
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return s.copy(), nil
}

// BindUser issues a fresh token bound to userID, carrying pending flashes over,
// and invalidates the old token.
func (m *Manager) BindUser(token string, userID int64) (*Session, error) {
	newToken, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var flashes []Flash
	if old, exists := m.sessions[token]; exists {
		flashes = old.Flashes
		delete(m.sessions, token)
	}
	s := &Session{
		Token:     newToken,
		UserID:    userID,
		Flashes:   flashes,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.sessions[newToken] = s
	return s.copy(), nil
}

func (m *Manager) ClearUser(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.sessions[token]
	if !exists {
		return ErrInvalidSessionToken
	}
	s.UserID = 0
	return nil
}

func (m *Manager) AddFlash(token string, flash Flash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.sessions[token]
	if !exists {
		return ErrInvalidSessionToken
	}
	s.Flashes = append(s.Flashes, flash)
	return nil
}

func (m *Manager) PopFlashes(token string) []Flash {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.sessions[token]
	if !exists {
		return nil
	}
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

func (m *Manager) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
}

func (m *Manager) StartCleanup(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				m.removeExpired()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (m *Manager) removeExpired() {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
}

func (m *Manager) WriteCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Session) copy() *Session {
	c := *s
	if s.Flashes != nil {
		c.Flashes = append([]Flash(nil), s.Flashes...)
	}
	return &c
}
