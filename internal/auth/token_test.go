package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireToken(t *testing.T) {
	var who string
	h := RequireToken("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who, _ = Principal(r.Context())
	}))

	cases := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer wrong", http.StatusUnauthorized},
		{"Basic s3cret", http.StatusUnauthorized},
		{"Bearer s3cret", http.StatusOK},
		{"bearer  s3cret ", http.StatusOK},
	}
	for _, tc := range cases {
		who = ""
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, tc.want, rr.Code, tc.header)
		if tc.want == http.StatusOK {
			assert.Equal(t, StaffPrincipal, who)
		}
	}
}

func TestRequireToken_EmptyConfigRejects(t *testing.T) {
	h := RequireToken("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer ")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
