// internal/form/controller.go
//
// Form state controller for the consultation booking form.
//
// Context
//   A Controller owns one mutable Draft and one Errors record.  Front ends
//   call Set on every change and Blur when an input loses focus; both re-run
//   that field's rule.  Changing the date invalidates the chosen time, so Set
//   clears the time value and its error.  Submittable is the cheap predicate
//   used to enable the submit button, and Validate is the full pass run on
//   submit.
//
//   A Controller is not safe for concurrent use.  One form instance owns it.
//
//------------------------------------------------------------------------------

package form

import (
	"strings"
	"time"

	"github.com/yanizio/lawdesk/internal/consultation"
)

// Draft holds the raw user input.  ID is zero until the record is persisted.
type Draft struct {
	ID          int64
	Name        string
	Phone       string
	NationalID  string
	Province    string
	City        string
	Type        string
	Topic       string
	Description string
	Documents   string
	Message     string
	Date        string
	Time        string
}

// Value returns the raw input of f.
func (d *Draft) Value(f Field) string {
	if p := d.slot(f); p != nil {
		return *p
	}
	return ""
}

func (d *Draft) slot(f Field) *string {
	switch f {
	case FieldName:
		return &d.Name
	case FieldPhone:
		return &d.Phone
	case FieldNationalID:
		return &d.NationalID
	case FieldProvince:
		return &d.Province
	case FieldCity:
		return &d.City
	case FieldType:
		return &d.Type
	case FieldTopic:
		return &d.Topic
	case FieldDescription:
		return &d.Description
	case FieldDocuments:
		return &d.Documents
	case FieldMessage:
		return &d.Message
	case FieldDate:
		return &d.Date
	case FieldTime:
		return &d.Time
	}
	return nil
}

// Errors has one slot per validated field.  Empty means no error.
type Errors struct {
	Name       string
	Phone      string
	NationalID string
	Type       string
	Topic      string
	Date       string
	Time       string
}

// Get returns the error recorded for f.
func (e *Errors) Get(f Field) string {
	if p := e.slot(f); p != nil {
		return *p
	}
	return ""
}

// Any reports whether any slot holds an error.
func (e Errors) Any() bool { return e != Errors{} }

func (e *Errors) slot(f Field) *string {
	switch f {
	case FieldName:
		return &e.Name
	case FieldPhone:
		return &e.Phone
	case FieldNationalID:
		return &e.NationalID
	case FieldType:
		return &e.Type
	case FieldTopic:
		return &e.Topic
	case FieldDate:
		return &e.Date
	case FieldTime:
		return &e.Time
	}
	return nil
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides time.Now.  Date and same-day time rules read it.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithOptionalTopic lets the topic be left empty.  The short contact form
// does not ask for one.
func WithOptionalTopic() Option {
	return func(c *Controller) { c.topicRequired = false }
}

// Controller holds the draft and its per-field errors.
type Controller struct {
	now           func() time.Time
	topicRequired bool
	draft         Draft
	errs          Errors
}

// New returns a Controller with an empty draft.  The consultation type
// defaults to phone.
func New(opts ...Option) *Controller {
	c := &Controller{now: time.Now, topicRequired: true}
	for _, o := range opts {
		o(c)
	}
	c.draft.Type = string(consultation.TypePhone)
	return c
}

// Load replaces the draft with rec for editing.  Errors are cleared.
func (c *Controller) Load(rec *consultation.Record) {
	c.draft = Draft{
		ID:          rec.ID,
		Name:        rec.Name,
		Phone:       rec.Phone,
		NationalID:  consultation.Deref(rec.NationalID),
		Province:    consultation.Deref(rec.Province),
		City:        consultation.Deref(rec.City),
		Type:        string(rec.ConsultationType),
		Topic:       consultation.Deref(rec.ConsultationTopic),
		Description: consultation.Deref(rec.ProblemDescription),
		Documents:   consultation.Deref(rec.Documents),
		Message:     consultation.Deref(rec.Message),
		Date:        rec.PreferredDate,
		Time:        rec.PreferredTime,
	}
	c.errs = Errors{}
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft { return c.draft }

// Errors returns a copy of the current errors.
func (c *Controller) Errors() Errors { return c.errs }

// Set stores value for f and re-runs the rule for f.
func (c *Controller) Set(f Field, value string) {
	p := c.draft.slot(f)
	if p == nil {
		return
	}
	*p = value
	if f == FieldDate {
		c.draft.Time = ""
		c.errs.Time = ""
	}
	c.check(f)
}

// Blur re-runs the rule for f without changing its value.
func (c *Controller) Blur(f Field) { c.check(f) }

func (c *Controller) check(f Field) string {
	d := def(f)
	if d.Rule == nil {
		return ""
	}
	msg := d.Rule(c)
	if p := c.errs.slot(f); p != nil {
		*p = msg
	}
	return msg
}

// Submittable reports whether the submit action should be enabled: every
// required field is filled, no required field carries an error, and the
// national id is empty or error-free.
func (c *Controller) Submittable() bool {
	for f := Field(0); f < fieldCount; f++ {
		d := fieldDefs[f]
		if !d.Required || (f == FieldTopic && !c.topicRequired) {
			continue
		}
		if strings.TrimSpace(c.draft.Value(f)) == "" || c.errs.Get(f) != "" {
			return false
		}
	}
	return strings.TrimSpace(c.draft.NationalID) == "" || c.errs.NationalID == ""
}

// Validate re-runs every rule.  On failure it returns *ValidationError with
// the invalid fields in focus order.
func (c *Controller) Validate() error {
	for f := Field(0); f < fieldCount; f++ {
		c.check(f)
	}
	if !c.errs.Any() {
		return nil
	}

	ve := &ValidationError{}
	for _, f := range focusOrder {
		if msg := c.errs.Get(f); msg != "" {
			ve.Fields = append(ve.Fields, ErrorField{Field: f, Label: f.Label(), Message: msg})
		}
	}
	return ve
}

// IsEdit reports whether the draft refers to a persisted record.
func (c *Controller) IsEdit() bool { return c.draft.ID > 0 }

