package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/lawdesk/internal/httpx"
	"github.com/yanizio/lawdesk/internal/reporting"
)

// MsgInternal is the generic Persian message for server faults.
const MsgInternal = "خطای داخلی سرور. لطفاً بعداً تلاش کنید"

// Recover turns a handler panic into a 500 envelope, logs it, and reports it.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				err := fmt.Errorf("panic: %v", v)
				log.Error("handler panic",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err),
					zap.Stack("stack"),
				)
				reporting.Capture(err, map[string]any{
					"method":     r.Method,
					"path":       r.URL.Path,
					"request_id": GetRequestID(r.Context()),
				})
				httpx.Fail(w, http.StatusInternalServerError, MsgInternal)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
