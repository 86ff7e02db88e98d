package punch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timeclock/punch"
)

// =============================================================================
// ENCODE / DECODE
// =============================================================================

func TestEncode_FixedWidthLayout(t *testing.T) {
	line, err := punch.Encode("0000000123", "24/01/2024", "800")
	require.NoError(t, err)

	assert.Equal(t, "00000001232401240800003", line)
	assert.Len(t, line, punch.LineWidth)
}

func TestDecode_RoundTrip(t *testing.T) {
	cases := []punch.Line{
		{Badge: "0000000123", Date: "24/01/2024", Time: "0800"},
		{Badge: "9876543210", Date: "01/12/2031", Time: "0000"},
		{Badge: "0000000001", Date: "29/02/2028", Time: "2359"},
	}
	for _, want := range cases {
		t.Run(want.Badge+"_"+want.Time, func(t *testing.T) {
			raw, err := punch.Encode(want.Badge, want.Date, want.Time)
			require.NoError(t, err)

			got, err := punch.Decode(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecode_WrongLengthRejected(t *testing.T) {
	// GIVEN: A 24-character line (one digit too many)
	// WHEN: Decoding it
	// THEN: It is an invalid line carrying its length

	_, err := punch.Decode("000000012301012400800003")

	require.Error(t, err)
	assert.ErrorIs(t, err, punch.ErrInvalidLine)
	var lenErr *punch.LineLengthError
	require.ErrorAs(t, err, &lenErr)
	assert.Equal(t, 24, lenErr.Length)
}

func TestDecode_NoNumericValidation(t *testing.T) {
	// Correctly sized garbage passes through untouched.
	got, err := punch.Decode("ABCDEFGHIJxxyyzzwwwwQQQ")
	require.NoError(t, err)

	assert.Equal(t, "ABCDEFGHIJ", got.Badge)
	assert.Equal(t, "xx/yy/20zz", got.Date)
	assert.Equal(t, "wwww", got.Time)
}

func TestEncode_RefusesWrongWidthInput(t *testing.T) {
	_, err := punch.Encode("123", "24/01/2024", "0800")
	assert.ErrorIs(t, err, punch.ErrInvalidLine, "short badge")

	_, err = punch.Encode("0000000123", "2024-01-24", "0800")
	assert.ErrorIs(t, err, punch.ErrInvalidLine, "ISO date")

	_, err = punch.Encode("0000000123", "24/01/2024", "08000")
	assert.ErrorIs(t, err, punch.ErrInvalidLine, "five-digit time")
}

func TestLayout_CoversWholeLine(t *testing.T) {
	fields := []punch.Field{
		punch.Layout.Badge, punch.Layout.Day, punch.Layout.Month,
		punch.Layout.Year, punch.Layout.Time, punch.Layout.Terminator,
	}
	offset := 0
	for _, f := range fields {
		assert.Equal(t, offset, f.Offset, f.Name)
		offset = f.End()
	}
	assert.Equal(t, punch.LineWidth, offset)
}

// =============================================================================
// NORMALIZATION
// =============================================================================

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "24/01/2024", punch.NormalizeDate("24012024"))
	assert.Equal(t, "24/01/2024", punch.NormalizeDate(" 24/01/2024 "))
	assert.Equal(t, "1/2/2024", punch.NormalizeDate(" 1/2/2024 "), "not 8 digits: trimmed pass-through")
	assert.Equal(t, "", punch.NormalizeDate(""))
}

func TestNormalizeTime(t *testing.T) {
	assert.Equal(t, "0800", punch.NormalizeTime("800"))
	assert.Equal(t, "0005", punch.NormalizeTime(" 5 "))
	assert.Equal(t, "1230", punch.NormalizeTime("1230"))
	assert.Equal(t, "", punch.NormalizeTime("   "))
	assert.Equal(t, "12345", punch.NormalizeTime("12345"))
}

func TestNormalizeBadge(t *testing.T) {
	assert.Equal(t, "0000000123", punch.NormalizeBadge(" 123 "))
	assert.Equal(t, "0000000123", punch.NormalizeBadge("0000000123"))
}

func TestIsValidTime(t *testing.T) {
	valid := []string{"0000", "0800", "800", "2359", " 1230 "}
	for _, v := range valid {
		assert.True(t, punch.IsValidTime(v), v)
	}
	invalid := []string{"", "2400", "0860", "9999", "ab12", "12345", "-100"}
	for _, v := range invalid {
		assert.False(t, punch.IsValidTime(v), v)
	}
}

// =============================================================================
// CALENDAR HELPERS
// =============================================================================

func TestParseDay(t *testing.T) {
	d, err := punch.ParseDay("29/02/2024")
	require.NoError(t, err)
	assert.Equal(t, "29/02/2024", punch.FormatDay(d))

	_, err = punch.ParseDay("31/02/2024")
	assert.ErrorIs(t, err, punch.ErrInvalidDate)

	_, err = punch.ParseDay("99999999")
	assert.ErrorIs(t, err, punch.ErrInvalidDate)
}

func TestSortDates_ChronologicalThenGarbage(t *testing.T) {
	dates := []string{"02/02/2024", "zz/yy/20xx", "01/01/2025", "31/12/2023"}
	punch.SortDates(dates)
	assert.Equal(t, []string{"31/12/2023", "02/02/2024", "01/01/2025", "zz/yy/20xx"}, dates)
}

func TestClockMinutes(t *testing.T) {
	m, err := punch.ClockMinutes("1750")
	require.NoError(t, err)
	assert.Equal(t, 17*60+50, m)

	_, err = punch.ClockMinutes("2500")
	assert.ErrorIs(t, err, punch.ErrInvalidTime)
}
