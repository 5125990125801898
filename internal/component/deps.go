// internal/component/deps.go
package component

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/lawdesk/internal/consultation"
	"github.com/yanizio/lawdesk/internal/notify"
)

// ErrMissingDep is returned by Init hooks when a required dependency is nil.
var ErrMissingDep = errors.New("required dependency not provided")

// Deps exposes shared resources to Components.
type Deps struct {
	Repo       *consultation.Repository
	Checker    *consultation.Checker
	Notifier   *notify.Dispatcher
	Log        *zap.Logger
	AdminToken string
	Now        func() time.Time
}

// Clock returns d.Now or time.Now.
func (d Deps) Clock() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// Logger returns d.Log or a no-op logger.
func (d Deps) Logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
