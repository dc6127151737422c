package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidJWTToken = errors.New("JWT token is invalid")
	ErrExpiredJWTToken = errors.New("JWT token is expired")
	ErrMissingSecret   = errors.New("trigger secret is not configured")
)

// TriggerSubject is the only subject accepted on the recurring trigger endpoint.
const TriggerSubject = "recurring-trigger"

const DefaultTriggerTokenDuration = 24 * time.Hour

type TriggerTokenManager struct {
	secret string
}

func NewTriggerTokenManager(secret string) (*TriggerTokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TriggerTokenManager{secret: secret}, nil
}

func (j *TriggerTokenManager) Generate(duration time.Duration) (string, error) {
	claims := &jwt.StandardClaims{
		Subject:   TriggerSubject,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secret))
}

func (j *TriggerTokenManager) Validate(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.StandardClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secret), nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) {
			if validationErr.Errors&(jwt.ValidationErrorExpired) != 0 {
				return ErrExpiredJWTToken
			}
		}
		return ErrInvalidJWTToken
	}

	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok || !token.Valid || claims.Subject != TriggerSubject {
		return ErrInvalidJWTToken
	}
	return nil
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Middleware requires a valid "Authorization: Bearer <token>" header.
func (j *TriggerTokenManager) Middleware(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				writeJSONError(w, http.StatusUnauthorized, "Invalid token format")
				return
			}

			if err := j.Validate(tokenString); err != nil {
				log.WithError(err).Warn("rejected trigger token")
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:  "error",
		Message: message,
	})
}
