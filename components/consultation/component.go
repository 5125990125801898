// components/consultation/component.go
//
// Consultation booking component: CRUD over the consultations table.
//
// Context
// -------
// Two route groups share one set of handlers:
//
//   - /api/consultations             staff tools, bearer token required
//   - /api/public/consultations      the website booking form, create only
//
// Every response is the {success, data, error} envelope.  Successful creates
// hand the stored row to the notification dispatcher after the response is
// written; delivery never affects the HTTP result.
//
// Notes
// -----
//   - Preflight OPTIONS requests are answered by the CORS middleware before
//     routing, so no OPTIONS routes are declared here.
//   - Two spaces after periods.
package consultation

import (
	"github.com/go-chi/chi/v5"

	"github.com/yanizio/lawdesk/internal/auth"
	"github.com/yanizio/lawdesk/internal/component"
	"github.com/yanizio/lawdesk/internal/consultation"
)

// Compile-time assertions.
var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

// Component wires the consultation handlers.
type Component struct{}

// Name returns the canonical component key.
func (c *Component) Name() string { return "consultation" }

// Init rejects a dependency set without a repository.
func (c *Component) Init(d component.Deps) error {
	if d.Repo == nil {
		return component.ErrMissingDep
	}
	return nil
}

// Routes attaches the public and managed route groups.
func (c *Component) Routes(r chi.Router, d component.Deps) {
	h := newHandlers(d)

	r.Post("/api/public/consultations", h.create(channelPublic))

	r.Route("/api/consultations", func(api chi.Router) {
		api.Use(auth.RequireToken(d.AdminToken))
		api.Post("/", h.create(channelManaged))
		api.Get("/", h.list)
		api.Get("/{id}", h.get)
		api.Put("/{id}", h.update)
		api.Delete("/{id}", h.remove)
	})
}

// Register component at program start.
func init() { component.Register(&Component{}) }

// newHandlers fills defaults the Deps may leave out.
func newHandlers(d component.Deps) *handlers {
	chk := d.Checker
	if chk == nil {
		chk = consultation.NewChecker(d.Now)
	}
	return &handlers{
		repo:    d.Repo,
		checker: chk,
		notify:  d.Notifier,
		log:     d.Logger().Named("consultation"),
		now:     d.Clock,
	}
}
