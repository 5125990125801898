// internal/form/submit.go
//
// Consolidated submit helper.
//
// Context
//   Front ends want one call that validates the draft and, only when it is
//   clean, hands it to whatever persists it.  Submit provides that so the
//   network layer is never reached with invalid input and the draft is left
//   untouched on every failure path.
//
//------------------------------------------------------------------------------

package form

import (
	"context"

	"github.com/yanizio/lawdesk/internal/consultation"
)

// Sender persists a validated draft.  internal/client implements it.
type Sender interface {
	Send(ctx context.Context, d Draft) (*consultation.Record, error)
}

// Submit validates c and forwards its draft to s.  A *ValidationError is
// returned without calling s.
func Submit(ctx context.Context, c *Controller, s Sender) (*consultation.Record, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.Send(ctx, c.Draft())
}
