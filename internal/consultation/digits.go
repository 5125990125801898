package consultation

import "strings"

// digitReplacer maps Persian (U+06F0..U+06F9) and Arabic-Indic
// (U+0660..U+0669) digits onto ASCII.
var digitReplacer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// LocalizeDigits rewrites every Persian or Arabic-Indic digit in s as ASCII.
func LocalizeDigits(s string) string { return digitReplacer.Replace(s) }

// DigitsOnly localizes s and drops every rune that is not an ASCII digit.
func DigitsOnly(s string) string {
	s = LocalizeDigits(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
