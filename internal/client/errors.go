// internal/client/errors.go
//
// Error taxonomy of the submission client.
//
// Context
// -------
// Every failure a caller can see falls in one of four buckets:
//
//   - *form.ValidationError: the draft never left the process.
//   - *APIError: the server answered with a non-success envelope or status.
//     Message is the fixed Persian text for the status; Detail keeps whatever
//     the server said.
//   - ErrTimeout / ErrNetwork: no response.  Classified from the transport
//     error, never retried.
//   - anything else: a programming or decoding fault.
//
// UserMessage collapses all of them into the one line a front end shows.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/yanizio/lawdesk/internal/form"
)

// Persian messages shown to the user.
const (
	MsgBadRequest    = "اطلاعات ارسالی نامعتبر است. لطفاً ورودی‌ها را بررسی کنید"
	MsgUnauthorized  = "دسترسی غیرمجاز. لطفاً دوباره وارد شوید"
	MsgForbidden     = "شما اجازه انجام این عملیات را ندارید"
	MsgNotFound      = "مورد درخواستی یافت نشد"
	MsgConflict      = "این زمان قبلاً رزرو شده است. لطفاً زمان دیگری انتخاب کنید"
	MsgUnprocessable = "داده‌های وارد شده معتبر نیستند"
	MsgServer        = "خطای سرور. لطفاً بعداً تلاش کنید"
	MsgGeneric       = "خطایی رخ داد. لطفاً دوباره تلاش کنید"
	MsgNetwork       = "خطا در اتصال به شبکه. لطفاً اتصال اینترنت خود را بررسی کنید"
	MsgTimeout       = "زمان درخواست به پایان رسید. لطفاً دوباره تلاش کنید"
)

var (
	// ErrNetwork means the request got no response.
	ErrNetwork = errors.New("network error")
	// ErrTimeout means the request got no response in time.
	ErrTimeout = errors.New("request timeout")
)

// APIError is a non-success answer from the server.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api %d: %s (%s)", e.Status, e.Message, e.Detail)
}

// StatusMessage returns the fixed Persian message for an HTTP status.
func StatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return MsgBadRequest
	case http.StatusUnauthorized:
		return MsgUnauthorized
	case http.StatusForbidden:
		return MsgForbidden
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusConflict:
		return MsgConflict
	case http.StatusUnprocessableEntity:
		return MsgUnprocessable
	case http.StatusInternalServerError:
		return MsgServer
	default:
		return MsgGeneric
	}
}

func newAPIError(status int, detail string) *APIError {
	return &APIError{Status: status, Message: StatusMessage(status), Detail: detail}
}

// classify wraps a transport failure as ErrTimeout or ErrNetwork.
func classify(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") || strings.Contains(s, "deadline exceeded")
}

// UserMessage returns the line a front end should display for err.
func UserMessage(err error) string {
	var (
		ve  *form.ValidationError
		api *APIError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &api):
		return api.Message
	case errors.Is(err, ErrTimeout):
		return MsgTimeout
	case errors.Is(err, ErrNetwork):
		return MsgNetwork
	default:
		return MsgGeneric
	}
}
