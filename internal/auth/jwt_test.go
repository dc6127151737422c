package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTriggerTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTriggerTokenManager("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestTriggerToken_RoundTrip(t *testing.T) {
	m, err := NewTriggerTokenManager("s3cret")
	require.NoError(t, err)

	token, err := m.Generate(time.Hour)
	require.NoError(t, err)
	assert.NoError(t, m.Validate(token))
}

func TestTriggerToken_Expired(t *testing.T) {
	m, _ := NewTriggerTokenManager("s3cret")

	token, err := m.Generate(-time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Validate(token), ErrExpiredJWTToken)
}

func TestTriggerToken_WrongSecret(t *testing.T) {
	issuer, _ := NewTriggerTokenManager("one")
	verifier, _ := NewTriggerTokenManager("two")

	token, err := issuer.Generate(time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, verifier.Validate(token), ErrInvalidJWTToken)
}

func TestTriggerToken_WrongSubject(t *testing.T) {
	m, _ := NewTriggerTokenManager("s3cret")
	claims := &jwt.StandardClaims{
		Subject:   "42",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	assert.ErrorIs(t, m.Validate(token), ErrInvalidJWTToken)
}

func TestTriggerMiddleware(t *testing.T) {
	m, _ := NewTriggerTokenManager("s3cret")
	log, _ := test.NewNullLogger()
	valid, err := m.Generate(time.Hour)
	require.NoError(t, err)

	handler := m.Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header is required"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "Invalid token format"},
		{"garbage token", "Bearer abc", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/internal/recurring/run", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.message != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "error", resp.Status)
				assert.Equal(t, tt.message, resp.Message)
			}
		})
	}
}
