package user

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	passwordHashMethod     = "pbkdf2:sha256"
	passwordHashIterations = 600000
	passwordSaltLength     = 16
	passwordKeyLength      = sha256.Size
)

var ErrMalformedPasswordHash = errors.New("malformed password hash")

// HashPassword returns "pbkdf2:sha256:<iterations>$<salt>$<hex digest>".
func HashPassword(password string) (string, error) {
	salt := make([]byte, passwordSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("could not generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	return encodePasswordHash(password, saltHex, passwordHashIterations), nil
}

func encodePasswordHash(password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, passwordKeyLength, sha256.New)
	return fmt.Sprintf("%s:%d$%s$%s", passwordHashMethod, iterations, salt, hex.EncodeToString(key))
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(stored, password string) (bool, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return false, ErrMalformedPasswordHash
	}
	method, iterText, found := strings.Cut(parts[0], ":sha256:")
	if !found || method != "pbkdf2" {
		return false, ErrMalformedPasswordHash
	}
	iterations, err := strconv.Atoi(iterText)
	if err != nil || iterations <= 0 {
		return false, ErrMalformedPasswordHash
	}

	candidate := encodePasswordHash(password, parts[1], iterations)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1, nil
}
