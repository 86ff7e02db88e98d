package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/timeclock/punch"
)

// =============================================================================
// READ SIDE - listings for the menu and the API
// =============================================================================

// DaySummary describes one recorded day of a badge.
type DaySummary struct {
	Date   string
	Times  []string // ascending
	Count  int
	Status punch.Status
	Hours  decimal.Decimal
}

// ReportDay is one calendar day of a MonthlyReport.
type ReportDay struct {
	Date   string
	Count  int
	Status punch.Status // NO_RECORD when the day has no entry
}

// MonthlyReport lists every calendar day from the first to the last
// recorded day of a badge.
type MonthlyReport struct {
	Badge string
	From  string
	To    string
	Days  []ReportDay
}

// Badges returns every known badge, sorted.
func (s *Service) Badges() []string { return s.registry.Badges() }

// Summary lists the recorded days of a badge chronologically.
func (s *Service) Summary(badge string) ([]DaySummary, error) {
	ledger, err := s.ledger(badge)
	if err != nil {
		return nil, err
	}
	var days []DaySummary
	for _, date := range ledger.Dates() {
		times := ledger.SortedTimes(date)
		days = append(days, DaySummary{
			Date:   date,
			Times:  times,
			Count:  len(times),
			Status: punch.StatusFor(len(times)),
			Hours:  punch.WorkedHours(times),
		})
	}
	return days, nil
}

// Problems returns the MISSING/EXCESS days of a badge.
func (s *Service) Problems(badge string) (map[string]punch.Status, error) {
	ledger, err := s.ledger(badge)
	if err != nil {
		return nil, err
	}
	return ledger.Problems(), nil
}

// MonthlyReport walks the calendar between the first and last recorded day.
// Days whose key is not a real date are left out of the walk.
func (s *Service) MonthlyReport(badge string) (MonthlyReport, error) {
	ledger, err := s.ledger(badge)
	if err != nil {
		return MonthlyReport{}, err
	}
	rep := MonthlyReport{Badge: ledger.Badge}

	var dates []string
	for _, d := range ledger.Dates() {
		if _, err := punch.ParseDay(d); err == nil {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return rep, fmt.Errorf("%w: no records for %s", punch.ErrDateNotFound, ledger.Badge)
	}

	from, _ := punch.ParseDay(dates[0])
	to, _ := punch.ParseDay(dates[len(dates)-1])
	rep.From = punch.FormatDay(from)
	rep.To = punch.FormatDay(to)

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := punch.FormatDay(day)
		rd := ReportDay{Date: date, Status: punch.StatusNoRecord}
		if ledger.HasDay(date) {
			rd.Count = len(ledger.Times(date))
			rd.Status = punch.StatusFor(rd.Count)
		}
		rep.Days = append(rep.Days, rd)
	}
	return rep, nil
}

// FileContents returns the raw attendance file lines.
func (s *Service) FileContents() ([]string, error) {
	return s.store.Contents()
}
