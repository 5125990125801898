package client

import (
	"github.com/yanizio/lawdesk/internal/consultation"
	"github.com/yanizio/lawdesk/internal/form"
)

// Normalize turns a draft into the wire payload: strings trimmed, Persian
// digits localized, the type canonicalized, and preferred_time resolved to
// HH:MM.  A time or type that cannot be resolved aborts with a
// *form.ValidationError.  d is not modified.
func Normalize(d form.Draft) (consultation.Payload, error) {
	p := consultation.Payload{
		Name:               d.Name,
		Phone:              d.Phone,
		NationalID:         consultation.Opt(d.NationalID),
		Province:           consultation.Opt(d.Province),
		City:               consultation.Opt(d.City),
		ConsultationType:   consultation.Type(d.Type),
		ConsultationTopic:  consultation.Opt(d.Topic),
		ProblemDescription: consultation.Opt(d.Description),
		Documents:          consultation.Opt(d.Documents),
		Message:            consultation.Opt(d.Message),
		PreferredDate:      d.Date,
		PreferredTime:      d.Time,
	}.Normalize()

	var ve form.ValidationError
	if _, err := consultation.ResolveTime(p.PreferredTime); err != nil {
		ve.Fields = append(ve.Fields, form.ErrorField{
			Field: form.FieldTime, Label: form.FieldTime.Label(), Message: consultation.MsgTimeFormat,
		})
	}
	if _, err := consultation.ParseType(string(p.ConsultationType)); err != nil {
		ve.Fields = append(ve.Fields, form.ErrorField{
			Field: form.FieldType, Label: form.FieldType.Label(), Message: consultation.MsgTypeUnknown,
		})
	}
	if len(ve.Fields) > 0 {
		return consultation.Payload{}, &ve
	}
	return p, nil
}

// patchFrom expresses a full payload as an update body.
func patchFrom(p consultation.Payload) consultation.Patch {
	typ := p.ConsultationType
	return consultation.Patch{
		Message:            p.Message,
		Name:               &p.Name,
		Phone:              &p.Phone,
		NationalID:         p.NationalID,
		Province:           p.Province,
		City:               p.City,
		ConsultationType:   &typ,
		ConsultationTopic:  p.ConsultationTopic,
		ProblemDescription: p.ProblemDescription,
		Documents:          p.Documents,
		PreferredDate:      &p.PreferredDate,
		PreferredTime:      &p.PreferredTime,
	}
}
