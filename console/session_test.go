package console_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/timeclock/console"
	"github.com/warp/timeclock/reconcile"
	"github.com/warp/timeclock/store/file"
)

const badge = "0000000123"

func rec(ddmm, hhmm string) string {
	return badge + ddmm + "24" + hhmm + "003"
}

// runSession loads lines into a temp file, feeds input to a session and
// returns everything it printed plus the file path.
func runSession(t *testing.T, input string, lines ...string) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moviment.txt")
	if len(lines) > 0 {
		require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	}
	reg, set, _, err := file.Load(path, zap.NewNop())
	require.NoError(t, err)
	svc := reconcile.NewService(reg, file.NewStore(path, set, zap.NewNop()), nil, zap.NewNop())

	var out bytes.Buffer
	err = console.NewSession(svc, strings.NewReader(input), &out, path).Run(context.Background())
	require.NoError(t, err)
	return out.String(), path
}

func TestSession_ListAndExit(t *testing.T) {
	out, _ := runSession(t, "7\n8\n", rec("2401", "0800"))

	assert.Contains(t, out, "TIMECLOCK RECONCILIATION v1.0")
	assert.Contains(t, out, "1 - Correct missing/excess punches")
	assert.Contains(t, out, "8 - Exit")
	assert.Contains(t, out, "--- Available badges ---\n"+badge+"\n")
	assert.True(t, strings.HasSuffix(out, "\nDone.\n"))
}

func TestSession_EndOfInputExits(t *testing.T) {
	out, _ := runSession(t, "")

	assert.True(t, strings.HasSuffix(out, "\nDone.\n"))
}

func TestSession_InvalidOption(t *testing.T) {
	out, _ := runSession(t, "9\nabc\n8\n")

	assert.Equal(t, 2, strings.Count(out, "Invalid option. Try again."))
}

func TestSession_CorrectMissingDay(t *testing.T) {
	// GIVEN: 24/01 has two punches
	// WHEN: The operator corrects badge 123 with 1300 and 1800
	// THEN: Both lines reach the file and the success message is shown

	out, path := runSession(t, "1\n123\n1300\n1800\n8\n", rec("2401", "0800"), rec("2401", "1200"))

	assert.Contains(t, out, "Correcting 24/01/2024 (MISSING) - existing: 0800, 1200")
	assert.Contains(t, out, "24/01/2024: punch 1300 added.")
	assert.Contains(t, out, "[SUCCESS] 2 line(s) added to the file.")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), rec("2401", "1300"))
	assert.Contains(t, string(data), rec("2401", "1800"))
}

func TestSession_CorrectRejectsBadTime(t *testing.T) {
	out, _ := runSession(t, "1\n"+badge+"\n9999\n\n8\n", rec("2401", "0800"))

	assert.Contains(t, out, "Invalid or already recorded time.")
	assert.Contains(t, out, "No new lines written.")
}

func TestSession_CorrectUnknownBadge(t *testing.T) {
	out, _ := runSession(t, "1\n555\n8\n", rec("2401", "0800"))

	assert.Contains(t, out, "Badge not found.")
}

func TestSession_ViewAndReport(t *testing.T) {
	out, _ := runSession(t, "2\n123\n4\n123\n8\n",
		rec("2401", "0800"), rec("2401", "1200"), rec("2401", "1300"), rec("2401", "1700"),
		rec("2601", "0800"),
	)

	assert.Contains(t, out, "24/01/2024: 4 punch(es) -> 0800, 1200, 1300, 1700 (8.00h)")
	assert.Contains(t, out, "--- MONTHLY REPORT (24/01/2024 to 26/01/2024) ---")
	assert.Contains(t, out, "25/01/2024: no record")
	assert.Contains(t, out, "26/01/2024: 1 punch(es) - MISSING")
}

func TestSession_ShowFile(t *testing.T) {
	out, _ := runSession(t, "3\n8\n", rec("2401", "0800"), "short")

	assert.Contains(t, out, "001: "+rec("2401", "0800"))
	assert.Contains(t, out, "002: short")
}

func TestSession_ShowMissingFile(t *testing.T) {
	out, _ := runSession(t, "3\n8\n")

	assert.Contains(t, out, "[INFO] attendance file not found")
	assert.NotContains(t, out, "[ERROR]")
}

func TestSession_DuplicateAndManualAdd(t *testing.T) {
	input := strings.Join([]string{
		"5", badge, "24/01/2024", "25/01/2024, 30/02/2024",
		"6", "77", "01/02/2024", "0800, 9999,1200",
		"8",
	}, "\n") + "\n"

	out, _ := runSession(t, input, rec("2401", "0800"), rec("2401", "1200"))

	assert.Contains(t, out, "2 punch(es) duplicated to 25/01/2024.")
	assert.Contains(t, out, "Invalid date: 30/02/2024 - skipping.")
	assert.Contains(t, out, "Duplication finished. 2 line(s) added.")
	assert.Contains(t, out, "2 punch(es) added for 01/02/2024.")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"0800", "1200"}, console.SplitList(" 0800 ,, 1200,"))
	assert.Nil(t, console.SplitList(" "))
}

func TestParseCommand(t *testing.T) {
	assert.Equal(t, console.CmdCorrect, console.ParseCommand(" 1 "))
	assert.Equal(t, console.CmdExit, console.ParseCommand("8"))
	assert.Equal(t, console.CmdUnknown, console.ParseCommand("0"))
	assert.Equal(t, console.CmdUnknown, console.ParseCommand("12"))
	assert.Equal(t, "List badges", console.CmdListBadges.String())
	assert.Len(t, console.Commands(), 8)
}
