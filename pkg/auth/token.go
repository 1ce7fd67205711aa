package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const SessionTokenLength = 32

var ErrEmptyToken = errors.New("empty token")

func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// HashToken returns the hex blake2b-256 digest stored in place of a session token.
func HashToken(token string) (string, error) {
	if token == "" {
		return "", ErrEmptyToken
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:]), nil
}

func CompareTokenHash(token, hash string) bool {
	computed, err := HashToken(token)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
