// Package auth checks request credentials for write endpoints.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// APIKeyHeader carries the shared secret.
const APIKeyHeader = "X-API-Key"

var (
	// ErrMissingCredential is returned when the request carries no credential.
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidCredential is returned when the credential does not verify.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Checker verifies the credential on a request.
type Checker interface {
	Check(r *http.Request) error
}

// StaticKey accepts requests whose X-API-Key header equals a shared secret.
type StaticKey struct {
	key []byte
}

// NewStaticKey returns a Checker for the given shared secret.
func NewStaticKey(key string) *StaticKey {
	return &StaticKey{key: []byte(key)}
}

func (s *StaticKey) Check(r *http.Request) error {
	values, present := r.Header[http.CanonicalHeaderKey(APIKeyHeader)]
	if !present || len(values) == 0 {
		return ErrMissingCredential
	}
	if subtle.ConstantTimeCompare([]byte(values[0]), s.key) != 1 {
		return ErrInvalidCredential
	}
	return nil
}

// JWT accepts requests carrying an HS256-signed bearer token.
type JWT struct {
	secret []byte
}

// NewJWT returns a Checker validating bearer tokens against secret.
func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret)}
}

func (j *JWT) Check(r *http.Request) error {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ErrMissingCredential
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ErrInvalidCredential
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return ErrInvalidCredential
	}
	return nil
}
