// internal/auth/token.go
//
// Bearer-token gate for the management API.
//
// Context
// -------
// Staff tools call the authenticated consultation routes with
// `Authorization: Bearer <admin.token>`.  The token comes from config (and
// usually from Vault through a `vault:` reference).  Comparison is constant
// time.  An empty configured token rejects everything, so a missing secret
// can never open the routes.

package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/yanizio/lawdesk/internal/httpx"
)

// StaffPrincipal labels requests that presented the management token.
const StaffPrincipal = "staff"

// MsgUnauthorized is the Persian 401 message.
const MsgUnauthorized = "دسترسی غیرمجاز"

// BearerToken returns the token from an Authorization header, or "".
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// Verify reports whether presented matches want.
func Verify(want, presented string) bool {
	if want == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(presented)) == 1
}

// RequireToken rejects requests without the management token with 401.
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Verify(token, BearerToken(r)) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="lawdesk"`)
				httpx.Fail(w, http.StatusUnauthorized, MsgUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), StaffPrincipal)))
		})
	}
}
