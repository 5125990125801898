// Package reporting forwards server faults to Sentry.
//
// Init is a no-op without a DSN, and Capture is always safe to call: with no
// client bound to the current hub the event is dropped.  Handlers report
// only 5xx faults; validation and not-found outcomes are not errors here.
package reporting

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Options configures Init.
type Options struct {
	DSN         string
	Environment string
	Release     string
	SampleRate  float64
}

// Init installs the global Sentry client.  It returns false when no DSN is
// configured.
func Init(o Options) (bool, error) {
	if o.DSN == "" {
		return false, nil
	}
	if o.SampleRate == 0 {
		o.SampleRate = 0.2
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              o.DSN,
		Environment:      o.Environment,
		Release:          o.Release,
		TracesSampleRate: o.SampleRate,
	})
	if err != nil {
		return false, fmt.Errorf("sentry initialization failed: %w", err)
	}
	return true, nil
}

// Capture reports err with extra context.
func Capture(err error, extra map[string]any) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub()
	if hub == nil || hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range extra {
			scope.SetExtra(k, v)
		}
		hub.CaptureException(err)
	})
}

// Flush waits up to d for buffered events.
func Flush(d time.Duration) bool { return sentry.Flush(d) }
