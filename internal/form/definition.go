// internal/form/definition.go
//
// Field table for the consultation booking form.
//
// Context
//   The controller never indexes state by string.  Every input on the form is
//   a Field constant, and fieldDefs holds its wire key, Persian label,
//   required flag, and rule.  Lookups go through def(f), so adding a field is
//   one row here plus one slot in Draft (and in Errors when validated).
//
// Style
//   Two spaces after periods.  Labels are the exact strings shown in the
//   aggregated submit alert.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"

	"github.com/yanizio/lawdesk/internal/consultation"
)

// Field identifies one input of the booking form.
type Field int

const (
	FieldName Field = iota
	FieldPhone
	FieldNationalID
	FieldProvince
	FieldCity
	FieldType
	FieldTopic
	FieldDescription
	FieldDocuments
	FieldMessage
	FieldDate
	FieldTime
	fieldCount
)

// rule checks one field of the controller's draft.  Empty means valid.
type rule func(c *Controller) string

// fieldDef is one row of the form definition.
type fieldDef struct {
	Key      string // JSON key on the wire
	Label    string // Persian label
	Required bool
	Rule     rule // nil for free-form fields
}

var fieldDefs = [fieldCount]fieldDef{
	FieldName: {Key: "name", Label: "نام و نام خانوادگی", Required: true,
		Rule: func(c *Controller) string { return consultation.CheckName(c.draft.Name) }},
	FieldPhone: {Key: "phone", Label: "شماره تلفن", Required: true,
		Rule: func(c *Controller) string { return consultation.CheckPhone(c.draft.Phone) }},
	FieldNationalID: {Key: "national_id", Label: "کد ملی",
		Rule: func(c *Controller) string { return consultation.CheckNationalID(c.draft.NationalID) }},
	FieldProvince: {Key: "province", Label: "استان"},
	FieldCity:     {Key: "city", Label: "شهر"},
	FieldType: {Key: "consultation_type", Label: "نوع مشاوره", Required: true,
		Rule: func(c *Controller) string { return consultation.CheckType(c.draft.Type) }},
	FieldTopic: {Key: "consultation_topic", Label: "موضوع مشاوره", Required: true,
		Rule: checkTopic},
	FieldDescription: {Key: "problem_description", Label: "شرح مسئله"},
	FieldDocuments:   {Key: "documents", Label: "مدارک"},
	FieldMessage:     {Key: "message", Label: "پیام"},
	FieldDate: {Key: "preferred_date", Label: "تاریخ مشاوره", Required: true,
		Rule: func(c *Controller) string { return consultation.CheckDate(c.draft.Date, c.now()) }},
	FieldTime: {Key: "preferred_time", Label: "ساعت مشاوره", Required: true,
		Rule: func(c *Controller) string {
			return consultation.CheckTime(c.draft.Time, c.draft.Date, c.now())
		}},
}

// checkTopic enforces presence only when the controller was built with a
// mandatory topic (the default).  A supplied topic must always be listed.
func checkTopic(c *Controller) string {
	if !c.topicRequired && c.draft.Topic == "" {
		return ""
	}
	return consultation.CheckTopic(c.draft.Topic)
}

// focusOrder is the priority in which invalid fields receive focus.
var focusOrder = []Field{
	FieldName, FieldPhone, FieldDate, FieldTime, FieldTopic, FieldType, FieldNationalID,
}

func def(f Field) fieldDef {
	if f < 0 || f >= fieldCount {
		panic(fmt.Sprintf("form: unknown field %d", int(f)))
	}
	return fieldDefs[f]
}

// Key returns the JSON key of f.
func (f Field) Key() string { return def(f).Key }

// Label returns the Persian label of f.
func (f Field) Label() string { return def(f).Label }

// String implements fmt.Stringer.
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldDefs[f].Key
}

// Fields lists every field in declaration order.
func Fields() []Field {
	out := make([]Field, 0, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		out = append(out, f)
	}
	return out
}

// FieldByKey resolves a JSON key back to its Field.
func FieldByKey(key string) (Field, bool) {
	for f := Field(0); f < fieldCount; f++ {
		if fieldDefs[f].Key == key {
			return f, true
		}
	}
	return 0, false
}
