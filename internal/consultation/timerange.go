package consultation

import (
	"errors"
	"regexp"
	"strings"
)

// TimeRange is one of the bookable two-hour windows offered by the form.
type TimeRange string

const (
	Range8To10  TimeRange = "8-10"
	Range10To12 TimeRange = "10-12"
	Range12To14 TimeRange = "12-14"
	Range14To16 TimeRange = "14-16"
	Range16To18 TimeRange = "16-18"
	Range18To20 TimeRange = "18-20"
)

// ErrUnsupportedTimeRange is returned for tokens outside the closed set.
var ErrUnsupportedTimeRange = errors.New("unsupported time range")

// ErrTimeFormat is returned by ResolveTime when the value is neither a clock
// time nor a known range.
var ErrTimeFormat = errors.New("wrong time format")

var rangeStarts = map[TimeRange]string{
	Range8To10:  "08:00",
	Range10To12: "10:00",
	Range12To14: "12:00",
	Range14To16: "14:00",
	Range16To18: "16:00",
	Range18To20: "18:00",
}

// TimeRanges lists every window in chronological order.
func TimeRanges() []TimeRange {
	return []TimeRange{Range8To10, Range10To12, Range12To14, Range14To16, Range16To18, Range18To20}
}

// Start returns the canonical HH:MM start of r.
func (r TimeRange) Start() string { return rangeStarts[r] }

var rangeSeparators = strings.NewReplacer(" to ", "-", " تا ", "-", "–", "-", " ", "")

// ParseTimeRange accepts "10-12", "10 to 12", "۱۰ تا ۱۲" and similar
// spellings of a known window.
func ParseTimeRange(s string) (TimeRange, error) {
	tok := rangeSeparators.Replace(LocalizeDigits(strings.ToLower(strings.TrimSpace(s))))
	r := TimeRange(tok)
	if _, ok := rangeStarts[r]; !ok {
		return "", ErrUnsupportedTimeRange
	}
	return r, nil
}

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ResolveTime turns a literal clock time or a range token into canonical,
// zero-padded HH:MM.
func ResolveTime(s string) (string, error) {
	v := LocalizeDigits(strings.TrimSpace(s))
	if v == "" {
		return "", ErrTimeFormat
	}
	if clockPattern.MatchString(v) {
		if len(v) == 4 {
			v = "0" + v
		}
		return v, nil
	}
	r, err := ParseTimeRange(v)
	if err != nil {
		return "", ErrTimeFormat
	}
	return r.Start(), nil
}
