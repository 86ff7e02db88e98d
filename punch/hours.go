/*
Package punch provides the core of the time-clock reconciliation engine.

PURPOSE:
  Everything that must stay bit-exact or invariant-safe lives here: the
  fixed-width line codec, the per-employee ledger, the line set used for
  de-duplication and the day status rules. I/O and operator interaction
  live in other packages and only call into this one.

KEY CONCEPTS IN THIS FILE (hours.go):
  - Hours: worked time of a day as a decimal number of hours
  - Pairs: punches sorted ascending and read as (in, out) pairs

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so 7h50 is 7.83, not 7.833333334
  2. Partial days count what they can: an unmatched last punch is ignored

USAGE:
  h := punch.WorkedHours([]string{"0800", "1200", "1300", "1750"})
  // h.String() == "8.83"

SEE ALSO:
  - ledger.go: Source of the punches
  - reconcile/report.go: Day summaries using WorkedHours
*/
package punch

import (
	"sort"

	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// WorkedHours sums complete in/out pairs of the given punches, in hours,
// rounded to two decimal places. Invalid times are ignored.
func WorkedHours(times []string) decimal.Decimal {
	minutes := make([]int, 0, len(times))
	for _, t := range times {
		m, err := ClockMinutes(t)
		if err != nil {
			continue
		}
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)

	total := 0
	for i := 0; i+1 < len(minutes); i += 2 {
		total += minutes[i+1] - minutes[i]
	}
	return decimal.NewFromInt(int64(total)).Div(minutesPerHour).Round(2)
}
