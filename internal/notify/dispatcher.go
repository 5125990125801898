// internal/notify/dispatcher.go
//
// Fire-and-forget delivery of booking notifications.
//
// Context
// -------
// Handlers call Dispatch after the row is committed and the response is
// decided.  Delivery runs on its own goroutine with a context detached from
// the request, so a slow or failing Telegram cannot delay or change the
// booking's HTTP result.  Failures are logged and counted, never returned,
// and never retried.
//
// Wait blocks until in-flight deliveries finish.  cmd/web calls it during
// shutdown and tests use it to observe the side effect.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/lawdesk/internal/consultation"
	"github.com/yanizio/lawdesk/internal/metrics"
)

// Sender delivers one formatted message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Dispatcher runs notifications in the background.
type Dispatcher struct {
	sender  Sender
	format  *Formatter
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
}

// NewDispatcher returns a Dispatcher.  A nil sender disables delivery.
func NewDispatcher(s Sender, f *Formatter, timeout time.Duration, log *zap.Logger) *Dispatcher {
	if f == nil {
		f = NewFormatter(nil, nil)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{sender: s, format: f, timeout: timeout, log: log}
}

// Enabled reports whether a sender is configured.
func (d *Dispatcher) Enabled() bool { return d != nil && d.sender != nil }

// Dispatch formats rec and sends it asynchronously.
func (d *Dispatcher) Dispatch(rec consultation.Record) {
	if !d.Enabled() {
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		return
	}

	text := d.format.Format(rec)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, text); err != nil {
			metrics.NotificationsTotal.WithLabelValues("failed").Inc()
			d.log.Warn("booking notification failed",
				zap.Int64("consultation_id", rec.ID), zap.Error(err))
			return
		}
		metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		d.log.Info("booking notification sent", zap.Int64("consultation_id", rec.ID))
	}()
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
