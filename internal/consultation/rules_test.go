package consultation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tehran = time.FixedZone("IRST", 3*3600+1800)

// fixedNow is 2026-03-10 14:00 local.
var fixedNow = time.Date(2026, 3, 10, 14, 0, 0, 0, tehran)

func TestCheckName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"علی رضایی", ""},
		{"  مریم  ", ""},
		{"زهرا‌سادات", ""},
		{"", MsgNameRequired},
		{"   ", MsgNameRequired},
		{"ع", MsgNameTooShort},
		{"Ali", MsgNamePersian},
		{"علیa", MsgNamePersian},
		{"علی2", MsgNamePersian},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CheckName(tc.in), "name %q", tc.in)
	}
}

func TestCheckPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09121234567", ""},
		{"0912-123-4567", ""},
		{"۰۹۱۲۱۲۳۴۵۶۷", ""},
		{"", MsgPhoneRequired},
		{"abc", MsgPhoneRequired},
		{"0912123", MsgPhoneLength},
		{"091212345678", MsgPhoneLength},
		{"08121234567", MsgPhonePrefix},
		{"19121234567", MsgPhonePrefix},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CheckPhone(tc.in), "phone %q", tc.in)
	}
}

func TestCheckNationalID(t *testing.T) {
	assert.Empty(t, CheckNationalID(""))
	assert.Empty(t, CheckNationalID("0013542419"))
	assert.Empty(t, CheckNationalID("۰۰۱۳۵۴۲۴۱۹"))
	assert.Equal(t, MsgNationalSum, CheckNationalID("0013542418"))
	assert.Equal(t, MsgNationalLength, CheckNationalID("001354241"))
	assert.Equal(t, MsgNationalLength, CheckNationalID("00135424x9"))
}

func TestNationalIDChecksum_Edges(t *testing.T) {
	// sum = 10, r = 10, check digit 11-10.
	assert.True(t, NationalIDChecksum("1000000001"))
	// r = 0 keeps the remainder itself as check digit.
	assert.True(t, NationalIDChecksum("0000000000"))
	assert.False(t, NationalIDChecksum("0000000001"))
}

func TestCheckDate(t *testing.T) {
	assert.Empty(t, CheckDate("2026-03-10", fixedNow), "today")
	assert.Empty(t, CheckDate("2026-03-11", fixedNow), "tomorrow")
	assert.Empty(t, CheckDate("2099-01-01", fixedNow))
	assert.Equal(t, MsgDatePast, CheckDate("2026-03-09", fixedNow), "yesterday")
	assert.Equal(t, MsgDateRequired, CheckDate("", fixedNow))
	assert.Equal(t, MsgDateFormat, CheckDate("10/03/2026", fixedNow))
}

func TestResolveTime(t *testing.T) {
	cases := map[string]string{
		"10-12":    "10:00",
		"10 to 12": "10:00",
		"۱۲ تا ۱۴": "12:00",
		"8-10":     "08:00",
		"23:30":    "23:30",
		"9:15":     "09:15",
	}
	for in, want := range cases {
		got, err := ResolveTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"99-100", "24:00", "noon", ""} {
		_, err := ResolveTime(bad)
		assert.ErrorIs(t, err, ErrTimeFormat, bad)
	}
}

func TestParseTimeRange_Unsupported(t *testing.T) {
	_, err := ParseTimeRange("11-13")
	assert.ErrorIs(t, err, ErrUnsupportedTimeRange)
}

func TestCheckTime(t *testing.T) {
	assert.Equal(t, MsgTimePast, CheckTime("13:00", "2026-03-10", fixedNow))
	assert.Equal(t, MsgTimePast, CheckTime("14:00", "2026-03-10", fixedNow))
	assert.Empty(t, CheckTime("15:00", "2026-03-10", fixedNow))
	assert.Empty(t, CheckTime("13:00", "2026-03-11", fixedNow))
	assert.Equal(t, MsgTimePast, CheckTime("12-14", "2026-03-10", fixedNow))
	assert.Equal(t, MsgTimeFormat, CheckTime("99-100", "2026-03-11", fixedNow))
	assert.Equal(t, MsgTimeRequired, CheckTime(" ", "2026-03-11", fixedNow))
}

func TestCheckTopicAndType(t *testing.T) {
	assert.Empty(t, CheckTopic(Topics[0]))
	assert.Equal(t, MsgTopicRequired, CheckTopic("  "))
	assert.Equal(t, MsgTopicUnknown, CheckTopic("آشپزی"))

	assert.Empty(t, CheckType("phone"))
	assert.Empty(t, CheckType("in-person"))
	assert.Equal(t, MsgTypeUnknown, CheckType("fax"))
	assert.Equal(t, MsgTypeRequired, CheckType(""))
}

func TestParseType_Aliases(t *testing.T) {
	got, err := ParseType("online")
	require.NoError(t, err)
	assert.Equal(t, TypeVideo, got)

	got, err = ParseType("IN-PERSON")
	require.NoError(t, err)
	assert.Equal(t, TypeInPerson, got)

	_, err = ParseType("carrier-pigeon")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestLocalizeDigits(t *testing.T) {
	assert.Equal(t, "0912 345", LocalizeDigits("۰۹۱۲ ٣٤٥"))
	assert.Equal(t, "09123", DigitsOnly("+۰۹-۱۲ 3"))
}
