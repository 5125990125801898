// internal/notify/format.go
//
// HTML rendering of a new-booking notification.
//
// Context
// -------
// The message goes to a Telegram chat with parse_mode=HTML, so every value
// taken from the record is escaped.  Mandatory fields always appear; optional
// ones only when populated.  The footer carries the server time in the
// configured zone (Asia/Tehran in production).
package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yanizio/lawdesk/internal/consultation"
)

// Formatter builds notification text.
type Formatter struct {
	loc *time.Location
	now func() time.Time
}

// NewFormatter returns a Formatter stamping messages in loc.  nil loc means
// UTC; nil now means time.Now.
func NewFormatter(loc *time.Location, now func() time.Time) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Formatter{loc: loc, now: now}
}

// Format renders rec.
func (f *Formatter) Format(rec consultation.Record) string {
	var b strings.Builder

	b.WriteString("<b>📋 درخواست مشاوره جدید</b>\n\n")
	line(&b, "👤 نام", rec.Name)
	line(&b, "📱 تلفن", rec.Phone)
	line(&b, "🆔 کد ملی", consultation.Deref(rec.NationalID))
	line(&b, "📍 محل", location(rec))
	line(&b, "💼 نوع مشاوره", rec.ConsultationType.Label())
	line(&b, "📂 موضوع", consultation.Deref(rec.ConsultationTopic))
	line(&b, "📅 تاریخ", rec.PreferredDate)
	line(&b, "🕐 ساعت", rec.PreferredTime)
	line(&b, "📝 شرح مسئله", consultation.Deref(rec.ProblemDescription))
	line(&b, "📎 مدارک", consultation.Deref(rec.Documents))
	line(&b, "💬 پیام", consultation.Deref(rec.Message))
	if rec.ID > 0 {
		line(&b, "🔖 شماره پیگیری", fmt.Sprintf("#%d", rec.ID))
	}

	fmt.Fprintf(&b, "\n⏰ زمان ثبت: %s", f.now().In(f.loc).Format("2006-01-02 15:04:05"))
	return b.String()
}

func line(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "<b>%s:</b> %s\n", label, html.EscapeString(value))
}

func location(rec consultation.Record) string {
	parts := make([]string, 0, 2)
	for _, p := range []*string{rec.Province, rec.City} {
		if v := strings.TrimSpace(consultation.Deref(p)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "، ")
}
