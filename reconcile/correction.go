package reconcile

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/warp/timeclock/punch"
)

// =============================================================================
// AUTOMATIC CORRECTION
// =============================================================================

// Prompt is what the operator sees before entering a time.
type Prompt struct {
	Badge    string
	Date     string
	Status   punch.Status
	Times    []string // current punches of the day, ascending
	Rejected string   // previous entry that was refused, empty if none
}

// TimeEntryFunc supplies the next time for a problem day.
// Returning an empty string skips the rest of that day.
type TimeEntryFunc func(p Prompt) string

// DayCorrection is the outcome for one problem day.
type DayCorrection struct {
	Date     string
	Status   punch.Status
	Added    []string
	Removed  []string
	Rejected []string
	Count    int // punches left after correction
}

// CorrectionResult is the outcome of CorrectAutomatically.
type CorrectionResult struct {
	Badge   string
	Days    []DayCorrection
	Staged  int      // lines produced by additions
	Written []string // lines that reached the file after de-dup
}

// CorrectAutomatically walks every MISSING/EXCESS day of a badge, in date
// order, asking entry for times until the day has ExpectedPunches or the
// operator skips. Added punches are appended to the file in one batch at
// the end; removed punches only leave the in-memory ledger.
func (s *Service) CorrectAutomatically(ctx context.Context, badge string, entry TimeEntryFunc) (CorrectionResult, error) {
	ledger, err := s.ledger(badge)
	if err != nil {
		return CorrectionResult{}, err
	}
	res := CorrectionResult{Badge: ledger.Badge}

	problems := ledger.Problems()
	if len(problems) == 0 {
		return res, punch.ErrNoProblems
	}
	dates := make([]string, 0, len(problems))
	for d := range problems {
		dates = append(dates, d)
	}
	punch.SortDates(dates)

	var staged []string
	for _, date := range dates {
		status := problems[date]
		dc := DayCorrection{Date: date, Status: status}
		switch status {
		case punch.StatusMissing:
			staged = append(staged, s.fillMissing(ledger, date, entry, &dc)...)
		case punch.StatusExcess:
			s.trimExcess(ledger, date, entry, &dc)
		}
		dc.Count = len(ledger.Times(date))
		res.Days = append(res.Days, dc)
	}
	res.Staged = len(staged)

	written, appendErr := s.store.Append(ctx, staged)
	res.Written = written.Written

	audit := punch.AuditEntry{Action: punch.AuditCorrection, Badge: ledger.Badge, Dates: dates, Lines: written.Written}
	for _, dc := range res.Days {
		for _, t := range dc.Removed {
			audit.Removed = append(audit.Removed, dc.Date+" "+t)
		}
	}
	s.record(ctx, audit, appendErr)

	s.logger.Info("correction finished",
		zap.String("badge", ledger.Badge),
		zap.Int("days", len(res.Days)),
		zap.Int("staged", res.Staged),
		zap.Int("written", len(res.Written)),
	)
	return res, appendErr
}

// fillMissing adds operator-supplied times until the day is complete.
// Returns the encoded lines for every accepted time.
func (s *Service) fillMissing(ledger *punch.Ledger, date string, entry TimeEntryFunc, dc *DayCorrection) []string {
	var lines []string
	rejected := ""
	for len(ledger.Times(date)) < punch.ExpectedPunches {
		raw := strings.TrimSpace(entry(s.prompt(ledger, date, dc.Status, rejected)))
		if raw == "" {
			break
		}
		hhmm := punch.NormalizeTime(raw)
		if !punch.IsValidTime(hhmm) || containsTime(ledger.Times(date), hhmm) {
			rejected = raw
			dc.Rejected = append(dc.Rejected, raw)
			continue
		}
		encoded, err := ledger.GenerateLines(date, []string{hhmm})
		if err != nil {
			s.logger.Warn("cannot encode punch", zap.String("date", date), zap.String("time", hhmm), zap.Error(err))
			rejected = raw
			dc.Rejected = append(dc.Rejected, raw)
			continue
		}
		ledger.AddPunch(date, hhmm)
		lines = append(lines, encoded...)
		dc.Added = append(dc.Added, hhmm)
		rejected = ""
	}
	return lines
}

// trimExcess removes operator-selected times until the day is complete.
func (s *Service) trimExcess(ledger *punch.Ledger, date string, entry TimeEntryFunc, dc *DayCorrection) {
	rejected := ""
	for len(ledger.Times(date)) > punch.ExpectedPunches {
		raw := strings.TrimSpace(entry(s.prompt(ledger, date, dc.Status, rejected)))
		if raw == "" {
			break
		}
		hhmm := punch.NormalizeTime(raw)
		if !containsTime(ledger.Times(date), hhmm) {
			rejected = raw
			dc.Rejected = append(dc.Rejected, raw)
			continue
		}
		ledger.RemovePunch(date, hhmm)
		dc.Removed = append(dc.Removed, hhmm)
		rejected = ""
	}
}

func (s *Service) prompt(ledger *punch.Ledger, date string, status punch.Status, rejected string) Prompt {
	return Prompt{
		Badge:    ledger.Badge,
		Date:     date,
		Status:   status,
		Times:    ledger.SortedTimes(date),
		Rejected: rejected,
	}
}

func containsTime(times []string, t string) bool {
	for _, x := range times {
		if x == t {
			return true
		}
	}
	return false
}
