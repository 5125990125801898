// components/health/health.go
//
// Health component – liveness plus a database round trip.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/lawdesk/internal/component"
	"github.com/yanizio/lawdesk/internal/httpx"
)

// compile-time assertion
var _ component.Component = (*Comp)(nil)

// PingTimeout bounds the database check.
const PingTimeout = 2 * time.Second

// Status is the /healthz payload.
type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Notifier string `json:"notifier"`
}

// Comp implements component.Component.
type Comp struct{}

func (c *Comp) Name() string { return "health" }

func (c *Comp) Routes(r chi.Router, d component.Deps) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		st := Status{Status: "ok", Database: "up", Notifier: "disabled"}
		if d.Notifier.Enabled() {
			st.Notifier = "enabled"
		}

		if d.Repo != nil {
			ctx, cancel := context.WithTimeout(r.Context(), PingTimeout)
			defer cancel()
			if err := d.Repo.Ping(ctx); err != nil {
				d.Logger().Warn("health: database ping failed", zap.Error(err))
				st.Status, st.Database = "degraded", "down"
				httpx.OK(w, http.StatusServiceUnavailable, st)
				return
			}
		} else {
			st.Database = "unconfigured"
		}
		httpx.OK(w, http.StatusOK, st)
	})
}

// Register component at package init.
func init() {
	component.Register(&Comp{})
}
