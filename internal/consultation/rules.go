// internal/consultation/rules.go
//
// Field rules shared by the form controller and the HTTP handlers.
//
// Context
// -------
// Each Check* function inspects one field value, occasionally with a sibling
// (time needs the chosen date), and returns either "" or a Persian message
// ready to show next to the input.  Rules are pure.  The caller supplies
// "now" so date and same-day time checks are deterministic in tests.
package consultation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the wire format of preferred_date.
const DateLayout = "2006-01-02"

// User-facing messages.  Kept as constants so tests and handlers share them.
const (
	MsgNameRequired   = "نام و نام خانوادگی الزامی است"
	MsgNameTooShort   = "نام باید حداقل ۲ کاراکتر باشد"
	MsgNamePersian    = "نام باید فقط شامل حروف فارسی باشد"
	MsgPhoneRequired  = "شماره تلفن الزامی است"
	MsgPhoneLength    = "شماره تلفن باید ۱۱ رقم باشد"
	MsgPhonePrefix    = "شماره تلفن باید با ۰۹ شروع شود"
	MsgNationalLength = "کد ملی باید ۱۰ رقم باشد"
	MsgNationalSum    = "کد ملی نامعتبر است"
	MsgDateRequired   = "تاریخ مشاوره الزامی است"
	MsgDateFormat     = "فرمت تاریخ نادرست است"
	MsgDatePast       = "تاریخ مشاوره نمی‌تواند در گذشته باشد"
	MsgTimeRequired   = "ساعت مشاوره الزامی است"
	MsgTimeFormat     = "فرمت ساعت نادرست است"
	MsgTimePast       = "ساعت مشاوره باید بعد از زمان فعلی باشد"
	MsgTopicRequired  = "موضوع مشاوره الزامی است"
	MsgTopicUnknown   = "موضوع مشاوره نامعتبر است"
	MsgTypeRequired   = "نوع مشاوره الزامی است"
	MsgTypeUnknown    = "نوع مشاوره نامعتبر است"
	MsgStatusUnknown  = "وضعیت نامعتبر است"
)

// persianName allows the Arabic block, ZWNJ, and whitespace.
var persianName = regexp.MustCompile(`^[\x{0600}-\x{06FF}\x{200C}\s]+$`)

var (
	mobilePattern   = regexp.MustCompile(`^09[0-9]{9}$`)
	nationalPattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// CheckName validates the full name.
func CheckName(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return MsgNameRequired
	case utf8.RuneCountInString(v) < 2:
		return MsgNameTooShort
	case !persianName.MatchString(v):
		return MsgNamePersian
	}
	return ""
}

// CheckPhone validates an Iranian mobile number.  Separators and Persian
// digits are tolerated.
func CheckPhone(v string) string {
	d := DigitsOnly(v)
	switch {
	case d == "":
		return MsgPhoneRequired
	case len(d) != 11:
		return MsgPhoneLength
	case !mobilePattern.MatchString(d):
		return MsgPhonePrefix
	}
	return ""
}

// CheckNationalID validates the optional national id.  Empty is valid.
func CheckNationalID(v string) string {
	v = LocalizeDigits(strings.TrimSpace(v))
	if v == "" {
		return ""
	}
	if !nationalPattern.MatchString(v) {
		return MsgNationalLength
	}
	if !NationalIDChecksum(v) {
		return MsgNationalSum
	}
	return ""
}

// NationalIDChecksum runs the Iranian national id check-digit algorithm on a
// 10-digit ASCII string.
func NationalIDChecksum(id string) bool {
	if len(id) != 10 {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(id[i]-'0') * (10 - i)
	}
	check := int(id[9] - '0')
	r := sum % 11
	if r < 2 {
		return check == r
	}
	return check == 11-r
}

// CheckDate validates preferred_date against the local calendar day of now.
func CheckDate(v string, now time.Time) string {
	v = LocalizeDigits(strings.TrimSpace(v))
	if v == "" {
		return MsgDateRequired
	}
	d, err := time.ParseInLocation(DateLayout, v, now.Location())
	if err != nil {
		return MsgDateFormat
	}
	if d.Before(midnight(now)) {
		return MsgDatePast
	}
	return ""
}

// CheckTime validates preferred_time.  When date is today the resolved time
// must be strictly later than now.
func CheckTime(v, date string, now time.Time) string {
	if strings.TrimSpace(v) == "" {
		return MsgTimeRequired
	}
	t, err := ResolveTime(v)
	if err != nil {
		return MsgTimeFormat
	}
	if LocalizeDigits(strings.TrimSpace(date)) == now.Format(DateLayout) && t <= now.Format("15:04") {
		return MsgTimePast
	}
	return ""
}

// CheckTopic validates the legal-subject category.
func CheckTopic(v string) string {
	if strings.TrimSpace(v) == "" {
		return MsgTopicRequired
	}
	if !IsTopic(v) {
		return MsgTopicUnknown
	}
	return ""
}

// CheckType validates the consultation channel.
func CheckType(v string) string {
	if strings.TrimSpace(v) == "" {
		return MsgTypeRequired
	}
	if _, err := ParseType(v); err != nil {
		return MsgTypeUnknown
	}
	return ""
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
