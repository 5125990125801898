// internal/consultation/model.go
//
// Consultation data model.
//
// Context
// -------
// A consultation is one appointment request submitted from the public booking
// form.  The same types travel through the client-side form controller, the
// submission client, the HTTP handlers, and the repository, so every closed
// set (type, status, time range) is defined exactly once here.
//
// Notes
// -----
//   - Optional columns are nullable in SQL and surface as *string so a stored
//     row round-trips without turning NULL into "".
//   - Dates and times stay strings on the wire (YYYY-MM-DD, HH:MM).  The
//     rules in rules.go own their parsing.
package consultation

import (
	"errors"
	"strings"
	"time"
)

// Type is the consultation channel.
type Type string

const (
	TypePhone    Type = "phone"
	TypeVideo    Type = "video"
	TypeInPerson Type = "in_person"
)

// ErrUnknownType is returned by ParseType for values outside the closed set.
var ErrUnknownType = errors.New("unknown consultation type")

// typeAliases maps spellings seen in older form variants onto the canonical
// set.
var typeAliases = map[string]Type{
	"phone":     TypePhone,
	"video":     TypeVideo,
	"in_person": TypeInPerson,
	"in-person": TypeInPerson,
	"online":    TypeVideo,
}

// Types lists the canonical values in display order.
func Types() []Type { return []Type{TypePhone, TypeVideo, TypeInPerson} }

// ParseType canonicalizes s.  Legacy aliases are accepted.
func ParseType(s string) (Type, error) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrUnknownType
	}
	return t, nil
}

// Label returns the Persian display label.
func (t Type) Label() string {
	switch t {
	case TypePhone:
		return "تلفنی"
	case TypeVideo:
		return "آنلاین (تصویری)"
	case TypeInPerson:
		return "حضوری"
	default:
		return string(t)
	}
}

// Status is the server-owned lifecycle value.  Transitions are unconstrained.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Topics is the fixed list of legal-subject categories offered by the form.
var Topics = []string{
	"دعاوی خانواده",
	"دعاوی کیفری",
	"دعاوی حقوقی و مدنی",
	"املاک و اراضی",
	"قراردادها و امور تجاری",
	"ارث و وصیت",
	"چک و سفته",
	"امور کار و کارگری",
	"امور ثبتی",
	"سایر موارد",
}

// IsTopic reports whether s is one of Topics.
func IsTopic(s string) bool {
	s = strings.TrimSpace(s)
	for _, t := range Topics {
		if t == s {
			return true
		}
	}
	return false
}

// Record mirrors one row of the consultations table.
type Record struct {
	ID                 int64     `db:"id"                  json:"id"`
	Name               string    `db:"name"                json:"name"`
	Phone              string    `db:"phone"               json:"phone"`
	NationalID         *string   `db:"national_id"         json:"national_id,omitempty"`
	Province           *string   `db:"province"            json:"province,omitempty"`
	City               *string   `db:"city"                json:"city,omitempty"`
	ConsultationType   Type      `db:"consultation_type"   json:"consultation_type"`
	ConsultationTopic  *string   `db:"consultation_topic"  json:"consultation_topic,omitempty"`
	ProblemDescription *string   `db:"problem_description" json:"problem_description,omitempty"`
	Documents          *string   `db:"documents"           json:"documents,omitempty"`
	Message            *string   `db:"message"             json:"message,omitempty"`
	PreferredDate      string    `db:"preferred_date"      json:"preferred_date"`
	PreferredTime      string    `db:"preferred_time"      json:"preferred_time"`
	Status             Status    `db:"status"              json:"status"`
	CreatedAt          time.Time `db:"created_at"          json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"          json:"updated_at"`
}

// Payload is the create body.  Required fields are validated by Checker.
type Payload struct {
	Name               string  `json:"name"                          validate:"required,fa_name"`
	Phone              string  `json:"phone"                         validate:"required,ir_mobile"`
	NationalID         *string `json:"national_id,omitempty"         validate:"omitempty,ir_national_id"`
	Province           *string `json:"province,omitempty"`
	City               *string `json:"city,omitempty"`
	ConsultationType   Type    `json:"consultation_type"             validate:"required,consultation_type"`
	ConsultationTopic  *string `json:"consultation_topic,omitempty"  validate:"omitempty,topic"`
	ProblemDescription *string `json:"problem_description,omitempty"`
	Documents          *string `json:"documents,omitempty"`
	Message            *string `json:"message,omitempty"`
	PreferredDate      string  `json:"preferred_date"                validate:"required"`
	PreferredTime      string  `json:"preferred_time"                validate:"required"`
}

// Patch is the update body.  Every field is optional; nil means "leave as
// is".  Staff normally send only status and message, while an edited draft
// resubmitted from the booking form carries the user fields as well.
type Patch struct {
	Status             *Status `json:"status,omitempty"`
	Message            *string `json:"message,omitempty"`
	Name               *string `json:"name,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	NationalID         *string `json:"national_id,omitempty"`
	Province           *string `json:"province,omitempty"`
	City               *string `json:"city,omitempty"`
	ConsultationType   *Type   `json:"consultation_type,omitempty"`
	ConsultationTopic  *string `json:"consultation_topic,omitempty"`
	ProblemDescription *string `json:"problem_description,omitempty"`
	Documents          *string `json:"documents,omitempty"`
	PreferredDate      *string `json:"preferred_date,omitempty"`
	PreferredTime      *string `json:"preferred_time,omitempty"`
}

// Empty reports whether no field was supplied.
func (p Patch) Empty() bool { return p == Patch{} }

// assignment is one column = value pair of an UPDATE.
type assignment struct {
	column string
	value  any
}

// assignments lists the supplied fields in a fixed column order.
func (p Patch) assignments() []assignment {
	var out []assignment
	add := func(col string, set bool, v any) {
		if set {
			out = append(out, assignment{col, v})
		}
	}
	if p.Status != nil {
		out = append(out, assignment{"status", *p.Status})
	}
	add("message", p.Message != nil, p.Message)
	add("name", p.Name != nil, p.Name)
	add("phone", p.Phone != nil, p.Phone)
	add("national_id", p.NationalID != nil, p.NationalID)
	add("province", p.Province != nil, p.Province)
	add("city", p.City != nil, p.City)
	if p.ConsultationType != nil {
		out = append(out, assignment{"consultation_type", *p.ConsultationType})
	}
	add("consultation_topic", p.ConsultationTopic != nil, p.ConsultationTopic)
	add("problem_description", p.ProblemDescription != nil, p.ProblemDescription)
	add("documents", p.Documents != nil, p.Documents)
	add("preferred_date", p.PreferredDate != nil, p.PreferredDate)
	add("preferred_time", p.PreferredTime != nil, p.PreferredTime)
	return out
}

// Normalize canonicalizes the supplied fields the same way Payload.Normalize
// does.  Blank strings are treated as not supplied.
func (p Patch) Normalize() Patch {
	out := p
	out.Message = trimOpt(p.Message)
	out.Name = trimOpt(p.Name)
	out.NationalID = trimOpt(p.NationalID)
	out.Province = trimOpt(p.Province)
	out.City = trimOpt(p.City)
	out.ConsultationTopic = trimOpt(p.ConsultationTopic)
	out.ProblemDescription = trimOpt(p.ProblemDescription)
	out.Documents = trimOpt(p.Documents)
	if p.Status != nil {
		st := Status(strings.ToLower(strings.TrimSpace(string(*p.Status))))
		out.Status = &st
	}
	if v := trimOpt(p.Phone); v != nil {
		out.Phone = Opt(DigitsOnly(*v))
	} else {
		out.Phone = nil
	}
	if out.NationalID != nil {
		id := LocalizeDigits(*out.NationalID)
		out.NationalID = &id
	}
	if v := trimOpt(p.PreferredDate); v != nil {
		d := LocalizeDigits(*v)
		out.PreferredDate = &d
	} else {
		out.PreferredDate = nil
	}
	if v := trimOpt(p.PreferredTime); v != nil {
		t := *v
		if r, err := ResolveTime(t); err == nil {
			t = r
		}
		out.PreferredTime = &t
	} else {
		out.PreferredTime = nil
	}
	if p.ConsultationType != nil {
		t := Type(strings.TrimSpace(string(*p.ConsultationType)))
		if c, err := ParseType(string(t)); err == nil {
			t = c
		}
		out.ConsultationType = &t
	}
	return out
}

// Envelope is the uniform response wrapper of every endpoint.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Trim returns a copy of p with every string trimmed and empty optionals
// dropped to nil.
func (p Payload) Trim() Payload {
	out := p
	out.Name = strings.TrimSpace(p.Name)
	out.Phone = strings.TrimSpace(p.Phone)
	out.ConsultationType = Type(strings.TrimSpace(string(p.ConsultationType)))
	out.PreferredDate = strings.TrimSpace(p.PreferredDate)
	out.PreferredTime = strings.TrimSpace(p.PreferredTime)
	out.NationalID = trimOpt(p.NationalID)
	out.Province = trimOpt(p.Province)
	out.City = trimOpt(p.City)
	out.ConsultationTopic = trimOpt(p.ConsultationTopic)
	out.ProblemDescription = trimOpt(p.ProblemDescription)
	out.Documents = trimOpt(p.Documents)
	out.Message = trimOpt(p.Message)
	return out
}

// Opt returns nil for blank s, otherwise a pointer to the trimmed value.
func Opt(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func trimOpt(p *string) *string {
	if p == nil {
		return nil
	}
	return Opt(*p)
}

// Deref returns the pointed-to string or "".
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Normalize returns the canonical form of p: trimmed, ASCII digits, alias
// types mapped, and preferred_time resolved to HH:MM.  Values that cannot be
// canonicalized are left as-is for the rules to reject.
func (p Payload) Normalize() Payload {
	out := p.Trim()
	out.Phone = DigitsOnly(out.Phone)
	out.PreferredDate = LocalizeDigits(out.PreferredDate)
	if out.NationalID != nil {
		id := LocalizeDigits(*out.NationalID)
		out.NationalID = &id
	}
	if t, err := ParseType(string(out.ConsultationType)); err == nil {
		out.ConsultationType = t
	}
	if t, err := ResolveTime(out.PreferredTime); err == nil {
		out.PreferredTime = t
	}
	return out
}
