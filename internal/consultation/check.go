// internal/consultation/check.go
//
// Server-side validation of create payloads.
//
// Context
// -------
// The HTTP handlers never trust the browser.  Checker wraps a dedicated
// go-playground/validator instance with custom tags (fa_name, ir_mobile,
// ir_national_id, consultation_type, topic) that delegate to the same pure
// rules the form controller runs, plus a struct-level rule for the
// date/time pair, which depends on the server clock.
//
// Failures come back as []FieldError keyed by JSON field name with the
// Persian message produced by the matching Check* rule.
package consultation

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Checker validates Payload values against the booking rules.
type Checker struct {
	v   *validator.Validate
	now func() time.Time
}

// NewChecker returns a Checker using now as the clock.  A nil clock means
// time.Now.
func NewChecker(now func() time.Time) *Checker {
	if now == nil {
		now = time.Now
	}
	c := &Checker{v: validator.New(validator.WithRequiredStructEnabled()), now: now}

	c.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]func(string) string{
		"fa_name":           CheckName,
		"ir_mobile":         CheckPhone,
		"ir_national_id":    CheckNationalID,
		"consultation_type": CheckType,
		"topic":             CheckTopic,
	}
	for tag, rule := range rules {
		rule := rule
		// Registration only fails on an empty tag or nil func.
		_ = c.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return rule(fl.Field().String()) == ""
		})
	}

	c.v.RegisterStructValidation(c.schedule, Payload{})
	return c
}

// schedule checks preferred_date and preferred_time against the clock.
func (c *Checker) schedule(sl validator.StructLevel) {
	p := sl.Current().Interface().(Payload)
	now := c.now()
	if p.PreferredDate != "" && CheckDate(p.PreferredDate, now) != "" {
		sl.ReportError(p.PreferredDate, "preferred_date", "PreferredDate", "schedule", "")
	}
	if p.PreferredTime != "" && CheckTime(p.PreferredTime, p.PreferredDate, now) != "" {
		sl.ReportError(p.PreferredTime, "preferred_time", "PreferredTime", "schedule", "")
	}
}

// Check validates p and returns every failing field in struct order.
func (c *Checker) Check(p Payload) []FieldError {
	err := c.v.Struct(p)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Message: MsgInvalidInput}}
	}

	now := c.now()
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: c.message(fe.Field(), p, now)})
	}
	return out
}

// CheckPatch validates the supplied fields of p.  Date and time are judged
// together; when only one of them changes the other is taken from cur.
func (c *Checker) CheckPatch(p Patch, cur *Record) []FieldError {
	var out []FieldError
	add := func(field, msg string) {
		if msg != "" {
			out = append(out, FieldError{Field: field, Message: msg})
		}
	}

	if p.Status != nil && !p.Status.Valid() {
		add("status", MsgStatusUnknown)
	}
	if p.Name != nil {
		add("name", CheckName(*p.Name))
	}
	if p.Phone != nil {
		add("phone", CheckPhone(*p.Phone))
	}
	if p.NationalID != nil {
		add("national_id", CheckNationalID(*p.NationalID))
	}
	if p.ConsultationType != nil {
		add("consultation_type", CheckType(string(*p.ConsultationType)))
	}
	if p.ConsultationTopic != nil {
		add("consultation_topic", CheckTopic(*p.ConsultationTopic))
	}

	if p.PreferredDate == nil && p.PreferredTime == nil {
		return out
	}
	date, tm := "", ""
	if cur != nil {
		date, tm = cur.PreferredDate, cur.PreferredTime
	}
	if p.PreferredDate != nil {
		date = *p.PreferredDate
	}
	if p.PreferredTime != nil {
		tm = *p.PreferredTime
	}
	now := c.now()
	if p.PreferredDate != nil {
		add("preferred_date", CheckDate(date, now))
	}
	add("preferred_time", CheckTime(tm, date, now))
	return out
}

// MsgInvalidInput is the fallback when no specific rule message applies.
const MsgInvalidInput = "اطلاعات وارد شده نامعتبر است"

func (c *Checker) message(field string, p Payload, now time.Time) string {
	var msg string
	switch field {
	case "name":
		msg = CheckName(p.Name)
	case "phone":
		msg = CheckPhone(p.Phone)
	case "national_id":
		msg = CheckNationalID(Deref(p.NationalID))
	case "consultation_type":
		msg = CheckType(string(p.ConsultationType))
	case "consultation_topic":
		msg = CheckTopic(Deref(p.ConsultationTopic))
	case "preferred_date":
		msg = CheckDate(p.PreferredDate, now)
	case "preferred_time":
		msg = CheckTime(p.PreferredTime, p.PreferredDate, now)
	}
	if msg == "" {
		return MsgInvalidInput
	}
	return msg
}

// MissingRequired lists the JSON names of required fields that are blank.
func MissingRequired(p Payload) []string {
	var missing []string
	for _, f := range []struct {
		name, val string
	}{
		{"name", p.Name},
		{"phone", p.Phone},
		{"consultation_type", string(p.ConsultationType)},
		{"preferred_date", p.PreferredDate},
		{"preferred_time", p.PreferredTime},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
