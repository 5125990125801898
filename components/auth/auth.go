// components/auth/auth.go
//
// Token check for staff tools.
//
// GET /api/auth/verify answers 200 with the principal when the bearer token
// is accepted and 401 otherwise, so a client can validate its configuration
// before sending real work.  The response also echoes the client fingerprint
// the request-info middleware derived, which helps operators confirm what
// the service sees behind a proxy.
//
//------------------------------------------------------------------------------

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/lawdesk/internal/auth"
	"github.com/yanizio/lawdesk/internal/component"
	"github.com/yanizio/lawdesk/internal/httpx"
	"github.com/yanizio/lawdesk/internal/requestinfo"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Identity is the verify payload.
type Identity struct {
	Principal string `json:"principal"`
	ClientIP  string `json:"client_ip,omitempty"`
	Country   string `json:"country,omitempty"`
	Browser   string `json:"browser,omitempty"`
	Device    string `json:"device,omitempty"`
}

// Component exposes the verify endpoint.
type Component struct{}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Routes attaches /api/auth/verify behind the management token.
func (c *Component) Routes(r chi.Router, d component.Deps) {
	r.With(auth.RequireToken(d.AdminToken)).Get("/api/auth/verify", c.handleVerify)
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleVerify(w http.ResponseWriter, r *http.Request) {
	who, _ := auth.Principal(r.Context())
	id := Identity{Principal: who}
	if ri := requestinfo.FromContext(r.Context()); ri != nil {
		if ri.Geo.IP != nil {
			id.ClientIP = ri.Geo.IP.String()
		}
		id.Country = ri.Geo.CountryISO
		id.Browser = ri.UA.Browser
		id.Device = ri.UA.Device
	}
	httpx.OK(w, http.StatusOK, id)
}
