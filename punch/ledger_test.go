package punch_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timeclock/punch"
)

const day = "24/01/2024"

func ledgerWith(times ...string) *punch.Ledger {
	l := punch.NewLedger("0000000123")
	for _, t := range times {
		l.AddPunch(day, t)
	}
	return l
}

// =============================================================================
// ADD / REMOVE
// =============================================================================

func TestLedger_AddPunch_SetSemantics(t *testing.T) {
	// GIVEN: A punch at 08:00
	// WHEN: The same time is added again, raw and unpadded
	// THEN: The day still holds one punch

	l := ledgerWith("0800")
	l.AddPunch(day, "0800")
	l.AddPunch("24012024", "800")

	assert.Equal(t, []string{"0800"}, l.Times(day))
}

func TestLedger_RemovePunch(t *testing.T) {
	l := ledgerWith("0800", "1200", "1300")

	l.RemovePunch(day, "1200")
	assert.Equal(t, []string{"0800", "1300"}, l.Times(day))

	// Unknown time and unknown day are no-ops.
	l.RemovePunch(day, "1900")
	l.RemovePunch("01/01/2020", "0800")
	assert.Equal(t, []string{"0800", "1300"}, l.Times(day))
	assert.False(t, l.HasDay("01/01/2020"))
}

func TestLedger_RemovedDayStaysKnown(t *testing.T) {
	l := ledgerWith("0800")
	l.RemovePunch(day, "0800")

	assert.True(t, l.HasDay(day))
	assert.False(t, l.HasPunches(day))
}

func TestLedger_TimesIsACopy(t *testing.T) {
	l := ledgerWith("0800", "1200")
	times := l.Times(day)
	times[0] = "9999"

	assert.Equal(t, []string{"0800", "1200"}, l.Times(day))
}

// =============================================================================
// PROBLEMS
// =============================================================================

func TestLedger_Problems(t *testing.T) {
	l := punch.NewLedger("0000000123")
	for _, tm := range []string{"0800", "1200"} {
		l.AddPunch("01/02/2024", tm)
	}
	for _, tm := range []string{"0800", "0900", "1200", "1300", "1800"} {
		l.AddPunch("02/02/2024", tm)
	}
	for _, tm := range []string{"0800", "1200", "1300", "1800"} {
		l.AddPunch("03/02/2024", tm)
	}

	problems := l.Problems()

	assert.Equal(t, map[string]punch.Status{
		"01/02/2024": punch.StatusMissing,
		"02/02/2024": punch.StatusExcess,
	}, problems)
	assert.NotContains(t, problems, "03/02/2024", "complete day is never reported")
}

func TestLedger_Problems_EmptiedDayIsMissing(t *testing.T) {
	l := ledgerWith("0800")
	l.RemovePunch(day, "0800")

	assert.Equal(t, punch.StatusMissing, l.Problems()[day])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, punch.StatusMissing, punch.StatusFor(0))
	assert.Equal(t, punch.StatusMissing, punch.StatusFor(3))
	assert.Equal(t, punch.StatusOK, punch.StatusFor(4))
	assert.Equal(t, punch.StatusExcess, punch.StatusFor(5))
	assert.False(t, punch.StatusOK.IsProblem())
	assert.False(t, punch.StatusNoRecord.IsProblem())
}

// =============================================================================
// LINE GENERATION
// =============================================================================

func TestLedger_GenerateLines_KeepsOrderAndDuplicates(t *testing.T) {
	l := punch.NewLedger("0000000123")

	lines, err := l.GenerateLines(day, []string{"1300", "800", "1300"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"00000001232401241300003",
		"00000001232401240800003",
		"00000001232401241300003",
	}, lines)
}

func TestLedger_GenerateLines_BadDate(t *testing.T) {
	l := punch.NewLedger("0000000123")
	_, err := l.GenerateLines("tomorrow", []string{"0800"})
	assert.True(t, errors.Is(err, punch.ErrInvalidLine))
}

func TestLedger_DatesChronological(t *testing.T) {
	l := punch.NewLedger("0000000123")
	l.AddPunch("10/03/2024", "0800")
	l.AddPunch("09/03/2024", "0800")
	l.AddPunch("01/12/2023", "0800")

	assert.Equal(t, []string{"01/12/2023", "09/03/2024", "10/03/2024"}, l.Dates())
}

func TestLedger_SetDay(t *testing.T) {
	l := ledgerWith("0700")
	l.SetDay(day, []string{"0800", "1200", "0800"})

	assert.Equal(t, []string{"0800", "1200"}, l.Times(day))
}

// =============================================================================
// REGISTRY / LINE SET
// =============================================================================

func TestRegistry(t *testing.T) {
	r := punch.NewRegistry()
	assert.Nil(t, r.Get("0000000002"))

	a := r.GetOrCreate("0000000002")
	r.GetOrCreate("0000000001")
	assert.Same(t, a, r.GetOrCreate("0000000002"))

	assert.Equal(t, []string{"0000000001", "0000000002"}, r.Badges())
	assert.Equal(t, 2, r.Len())
}

func TestLineSet(t *testing.T) {
	s := punch.NewLineSet()
	s.Add("00000001232401240800003")
	s.Add("00000001232401240800003")

	assert.True(t, s.Has("00000001232401240800003"))
	assert.False(t, s.Has("00000001232401241200003"))
	assert.Equal(t, 1, s.Len())
}

// =============================================================================
// WORKED HOURS
// =============================================================================

func TestWorkedHours(t *testing.T) {
	assert.Equal(t, "8.83", punch.WorkedHours([]string{"1750", "0800", "1300", "1200"}).String())
	assert.Equal(t, "4", punch.WorkedHours([]string{"0800", "1200", "1300"}).String(), "unmatched punch ignored")
	assert.Equal(t, "0", punch.WorkedHours(nil).String())
	assert.Equal(t, "1", punch.WorkedHours([]string{"0800", "bad", "0900"}).String(), "invalid time ignored")
}

func TestAuditFilter_Matches(t *testing.T) {
	e := punch.AuditEntry{Badge: "0000000123", Action: punch.AuditManualAdd}

	assert.True(t, punch.AuditFilter{}.Matches(e))
	assert.True(t, punch.AuditFilter{Badge: "0000000123"}.Matches(e))
	assert.False(t, punch.AuditFilter{Badge: "0000000999"}.Matches(e))
	assert.True(t, punch.AuditFilter{Actions: []punch.AuditAction{punch.AuditCorrection, punch.AuditManualAdd}}.Matches(e))
	assert.False(t, punch.AuditFilter{Actions: []punch.AuditAction{punch.AuditDuplication}}.Matches(e))
}
