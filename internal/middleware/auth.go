package middleware

import (
	"errors"
	"net/http"

	"github.com/roberta/studio/internal/auth"
	"github.com/roberta/studio/internal/response"
)

// RequireCredential returns middleware that rejects requests failing checker:
// 401 when no credential was sent, 403 when it does not verify.
func RequireCredential(checker auth.Checker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := checker.Check(r)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, auth.ErrMissingCredential):
				response.Unauthorized(w, "missing credentials")
			default:
				response.Forbidden(w, "invalid credentials")
			}
		})
	}
}
