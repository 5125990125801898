// Package httpx writes the {success, data, error} envelope every endpoint
// answers with, and decodes request bodies with the same JSON codec.
package httpx

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/yanizio/lawdesk/internal/consultation"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 64 << 10

// ErrEmptyBody is returned by Decode when the request has no body.
var ErrEmptyBody = errors.New("empty request body")

// dataEnvelope always carries data, so an empty list is sent as [].
type dataEnvelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// OK writes status with {success:true, data}.
func OK[T any](w http.ResponseWriter, status int, data T) {
	write(w, status, dataEnvelope[T]{Success: true, Data: data})
}

// Done writes 200 {success:true} without data.
func Done(w http.ResponseWriter) {
	write(w, http.StatusOK, consultation.Envelope[any]{Success: true})
}

// Fail writes status with {success:false, error:msg}.
func Fail(w http.ResponseWriter, status int, msg string) {
	write(w, status, consultation.Envelope[any]{Error: msg})
}

func write(w http.ResponseWriter, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		zap.L().Error("envelope encode failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// Decode reads at most MaxBodyBytes of JSON from r into v.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	b, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(b) == 0 {
		return ErrEmptyBody
	}
	if len(b) > MaxBodyBytes {
		return fmt.Errorf("body exceeds %d bytes", MaxBodyBytes)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
