package punch

// Status is the reconciliation state of one employee-day.
type Status string

const (
	StatusOK      Status = "OK"
	StatusMissing Status = "MISSING"
	StatusExcess  Status = "EXCESS"

	// StatusNoRecord only appears in calendar reports, for days with no entry at all.
	StatusNoRecord Status = "NO_RECORD"
)

// StatusFor classifies a punch count against ExpectedPunches.
func StatusFor(count int) Status {
	switch {
	case count < ExpectedPunches:
		return StatusMissing
	case count > ExpectedPunches:
		return StatusExcess
	default:
		return StatusOK
	}
}

// IsProblem reports whether the status needs correction.
func (s Status) IsProblem() bool { return s == StatusMissing || s == StatusExcess }
