// Package auth issues and validates login session tokens.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/example/sentinel/internal/core/access"
)

// Claims carried by a session token. The role claim is informational;
// permission checks always use the stored role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Signer signs and parses HS256 session tokens with a locally stored
// random secret.
type Signer struct {
	secret []byte
}

// NewSigner creates a signer with the given secret.
func NewSigner(secret []byte) *Signer {
	return &Signer{secret: secret}
}

// LoadOrCreateSecret reads the signing secret from dir, generating and
// persisting a fresh one on first use.
func LoadOrCreateSecret(dir string) ([]byte, error) {
	path := filepath.Join(dir, "secret")

	secret, err := os.ReadFile(path)
	if err == nil && len(secret) > 0 {
		return secret, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read secret file: %w", err)
	}

	secret = make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, secret, 0600); err != nil {
		return nil, fmt.Errorf("failed to write secret file: %w", err)
	}
	return secret, nil
}

// Sign issues a token for the user expiring at expiresAt.
func (s *Signer) Sign(userID string, role access.Role, expiresAt time.Time) (string, error) {
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates a token and returns its subject user id.
func (s *Signer) Parse(tok string) (string, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c.Subject, nil
	}
	return "", errors.New("invalid token")
}
