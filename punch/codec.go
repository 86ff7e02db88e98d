/*
codec.go - Fixed-width encoding of punch records

PURPOSE:
  Every punch lives in the attendance file as one 23-character line.
  This file owns the layout of that line and the only code allowed to
  slice or build it. The external payroll system reads the same file,
  so the layout must stay bit-exact.

LINE LAYOUT:
  BBBBBBBBBBDDMMYYHHMM003
  |         | | | |   |
  |         | | | |   +-- terminator, always "003"
  |         | | | +------ time HHMM, zero-padded
  |         | | +-------- year, last two digits (20xx assumed)
  |         | +---------- month
  |         +------------ day
  +---------------------- badge, zero-padded to 10

READ RULES:
  - A line that is not exactly 23 characters is not a record. It is
    skipped on read, never an error for the caller.
  - No numeric validation on read: a correctly sized line with garbage
    digits decodes as-is.
  - The terminator is not checked on read.

WRITE RULES:
  - Encode never produces a line of any other length. Inputs that would
    do so are rejected with ErrInvalidLine.
  - Date fields must be digits on write, even though read accepts
    anything of the right length.

SEE ALSO:
  - ledger.go: Builds lines for a day via GenerateLines
  - store/file/file.go: Reads and appends lines
*/
package punch

import (
	"fmt"
	"strings"
)

// =============================================================================
// LAYOUT - single source of truth for field offsets
// =============================================================================

const (
	// LineWidth is the exact length of a valid encoded line (newline excluded).
	LineWidth = 23

	// BadgeWidth is the fixed width of a badge identifier.
	BadgeWidth = 10

	// Terminator closes every line written by this system.
	Terminator = "003"

	// ExpectedPunches is the number of punches a compliant day must have.
	ExpectedPunches = 4

	// DateLayout is the canonical textual form of a day (DD/MM/YYYY).
	DateLayout = "02/01/2006"
)

// Field is one fixed-width slot of an encoded line.
type Field struct {
	Name   string
	Offset int
	Width  int
}

// End returns the exclusive end offset of the field.
func (f Field) End() int { return f.Offset + f.Width }

// Slice extracts the field from a full-width line.
func (f Field) Slice(line string) string { return line[f.Offset:f.End()] }

// Layout describes the encoded line field by field.
var Layout = struct {
	Badge      Field
	Day        Field
	Month      Field
	Year       Field
	Time       Field
	Terminator Field
}{
	Badge:      Field{Name: "badge", Offset: 0, Width: BadgeWidth},
	Day:        Field{Name: "day", Offset: 10, Width: 2},
	Month:      Field{Name: "month", Offset: 12, Width: 2},
	Year:       Field{Name: "year", Offset: 14, Width: 2},
	Time:       Field{Name: "time", Offset: 16, Width: 4},
	Terminator: Field{Name: "terminator", Offset: 20, Width: len(Terminator)},
}

// Line is a decoded record: one punch of one employee.
type Line struct {
	Badge string // 10 characters, zero-padded
	Date  string // DD/MM/YYYY
	Time  string // HHMM
}

// =============================================================================
// DECODE / ENCODE
// =============================================================================

// Decode parses one raw line. The only failure is a length mismatch.
func Decode(raw string) (Line, error) {
	if len(raw) != LineWidth {
		return Line{}, &LineLengthError{Length: len(raw)}
	}
	return Line{
		Badge: Layout.Badge.Slice(raw),
		Date:  Layout.Day.Slice(raw) + "/" + Layout.Month.Slice(raw) + "/20" + Layout.Year.Slice(raw),
		Time:  Layout.Time.Slice(raw),
	}, nil
}

// Encode builds the fixed-width line for a punch. The date must already be
// in DD/MM/YYYY form with digits only; the time is zero-padded to four digits.
func Encode(badge, date, hhmm string) (string, error) {
	if len(badge) != BadgeWidth {
		return "", fmt.Errorf("%w: badge %q is not %d characters", ErrInvalidLine, badge, BadgeWidth)
	}
	dd, mm, yyyy, ok := splitDate(date)
	if !ok {
		return "", fmt.Errorf("%w: date %q is not DD/MM/YYYY", ErrInvalidLine, date)
	}
	t := NormalizeTime(hhmm)
	if len(t) != Layout.Time.Width {
		return "", fmt.Errorf("%w: time %q is not HHMM", ErrInvalidLine, hhmm)
	}

	var b strings.Builder
	b.Grow(LineWidth)
	b.WriteString(badge)
	b.WriteString(dd)
	b.WriteString(mm)
	b.WriteString(yyyy[len(yyyy)-Layout.Year.Width:])
	b.WriteString(t)
	b.WriteString(Terminator)
	return b.String(), nil
}

// splitDate cuts a DD/MM/YYYY string into its parts.
func splitDate(date string) (dd, mm, yyyy string, ok bool) {
	d := NormalizeDate(date)
	if len(d) != len(DateLayout) || d[2] != '/' || d[5] != '/' {
		return "", "", "", false
	}
	dd, mm, yyyy = d[0:2], d[3:5], d[6:10]
	if !isDigits(dd + mm + yyyy) {
		return "", "", "", false
	}
	return dd, mm, yyyy, true
}

// =============================================================================
// INPUT NORMALIZATION
// =============================================================================

// NormalizeDate accepts DD/MM/YYYY or DDMMYYYY and returns DD/MM/YYYY.
// Anything else is returned trimmed but otherwise unchanged.
func NormalizeDate(s string) string {
	trimmed := strings.TrimSpace(s)
	digits := strings.ReplaceAll(trimmed, "/", "")
	if len(digits) == 8 {
		return digits[:2] + "/" + digits[2:4] + "/" + digits[4:]
	}
	return trimmed
}

// NormalizeTime trims and left-pads with zeros to four characters.
// Empty input stays empty: it means "no time supplied".
func NormalizeTime(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return t
	}
	return zeroPad(t, Layout.Time.Width)
}

// NormalizeBadge trims operator input and left-pads it to BadgeWidth.
func NormalizeBadge(s string) string {
	return zeroPad(strings.TrimSpace(s), BadgeWidth)
}

// IsValidTime reports whether s is a wall-clock time 0000-2359 once normalized.
func IsValidTime(s string) bool {
	t := NormalizeTime(s)
	if len(t) != 4 || !isDigits(t) {
		return false
	}
	hh := int(t[0]-'0')*10 + int(t[1]-'0')
	mm := int(t[2]-'0')*10 + int(t[3]-'0')
	return hh <= 23 && mm <= 59
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
