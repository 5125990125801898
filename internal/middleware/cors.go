// internal/middleware/cors.go
//
// Permissive CORS for the booking API.
//
// The public booking form is served from a different origin than the API, so
// every response carries Access-Control-Allow-Origin: * and the method and
// header allow-lists.  Preflight OPTIONS requests on any path are answered
// with 204 and no body before routing.

package middleware

import "net/http"

const (
	corsMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsHeaders = "Content-Type, Authorization, X-Request-ID"
)

// CORS sets the allow headers and short-circuits preflight requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", corsMethods)
		h.Set("Access-Control-Allow-Headers", corsHeaders)
		h.Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
