/*
ledger.go - Per-employee punch aggregate

PURPOSE:
  A Ledger holds every punch of one badge, bucketed by calendar day.
  It is rebuilt from the attendance file at startup and then edited in
  place for the rest of the session.

INVARIANT:
  No two equal times for the same (badge, day). Adds are set-like.

TWO-TIER STORAGE:
  The file is an append-only log; the Ledger is the in-memory index over
  it. Adds are persisted by the caller (GenerateLines + file append).
  Removes are NOT persisted: they only change what the ledger reports.

    file:   [0800, 0900, 1200, 1300, 1800]   (never rewritten)
    ledger: [0800, 1200, 1300, 1800]         (after RemovePunch 0900)

  On the next startup the removed punch comes back from the file.

SEE ALSO:
  - codec.go: Line encoding used by GenerateLines
  - reconcile/service.go: Correction workflows driving Add/Remove
*/
package punch

import (
	"sort"
)

// =============================================================================
// LEDGER - punches of one employee
// =============================================================================

// Ledger holds the punches of one badge keyed by DD/MM/YYYY day.
type Ledger struct {
	Badge string
	days  map[string][]string
}

// NewLedger creates an empty ledger for a badge.
func NewLedger(badge string) *Ledger {
	return &Ledger{Badge: badge, days: make(map[string][]string)}
}

// AddPunch records a time for a day. Adding an existing time is a no-op.
func (l *Ledger) AddPunch(date, hhmm string) {
	date = NormalizeDate(date)
	hhmm = NormalizeTime(hhmm)
	times, ok := l.days[date]
	if !ok {
		times = []string{}
	}
	if !contains(times, hhmm) {
		times = append(times, hhmm)
	}
	l.days[date] = times
}

// RemovePunch drops a time from a day, if present. In-memory only.
func (l *Ledger) RemovePunch(date, hhmm string) {
	date = NormalizeDate(date)
	hhmm = NormalizeTime(hhmm)
	times, ok := l.days[date]
	if !ok {
		return
	}
	for i, t := range times {
		if t == hhmm {
			l.days[date] = append(times[:i], times[i+1:]...)
			return
		}
	}
}

// Problems returns every day whose punch count differs from ExpectedPunches.
// Days with exactly the expected count are omitted.
func (l *Ledger) Problems() map[string]Status {
	problems := make(map[string]Status)
	for date, times := range l.days {
		if s := StatusFor(len(times)); s.IsProblem() {
			problems[date] = s
		}
	}
	return problems
}

// GenerateLines encodes one line per time, in the caller's order.
// Duplicates are kept; the file store is the de-dup authority.
func (l *Ledger) GenerateLines(date string, times []string) ([]string, error) {
	lines := make([]string, 0, len(times))
	for _, t := range times {
		line, err := Encode(l.Badge, date, t)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Dates returns every day present in the ledger, chronologically.
func (l *Ledger) Dates() []string {
	dates := make([]string, 0, len(l.days))
	for d := range l.days {
		dates = append(dates, d)
	}
	SortDates(dates)
	return dates
}

// Times returns a copy of the punches recorded for a day, in insertion order.
func (l *Ledger) Times(date string) []string {
	times := l.days[NormalizeDate(date)]
	out := make([]string, len(times))
	copy(out, times)
	return out
}

// SortedTimes returns the punches of a day in ascending order.
func (l *Ledger) SortedTimes(date string) []string {
	times := l.Times(date)
	sort.Strings(times)
	return times
}

// HasDay reports whether the day has an entry, even an emptied one.
func (l *Ledger) HasDay(date string) bool {
	_, ok := l.days[NormalizeDate(date)]
	return ok
}

// HasPunches reports whether the day has at least one recorded punch.
func (l *Ledger) HasPunches(date string) bool {
	return len(l.days[NormalizeDate(date)]) > 0
}

// SetDay replaces the punches of a day with a de-duplicated copy of times.
func (l *Ledger) SetDay(date string, times []string) {
	date = NormalizeDate(date)
	l.days[date] = []string{}
	for _, t := range times {
		l.AddPunch(date, t)
	}
}

func contains(times []string, t string) bool {
	for _, x := range times {
		if x == t {
			return true
		}
	}
	return false
}

// =============================================================================
// REGISTRY - all ledgers, keyed by badge
// =============================================================================

// Registry indexes ledgers by badge.
type Registry struct {
	ledgers map[string]*Ledger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ledgers: make(map[string]*Ledger)}
}

// Get returns the ledger for a badge, or nil.
func (r *Registry) Get(badge string) *Ledger { return r.ledgers[badge] }

// GetOrCreate returns the ledger for a badge, creating it on first use.
func (r *Registry) GetOrCreate(badge string) *Ledger {
	l, ok := r.ledgers[badge]
	if !ok {
		l = NewLedger(badge)
		r.ledgers[badge] = l
	}
	return l
}

// Badges returns every known badge, sorted.
func (r *Registry) Badges() []string {
	badges := make([]string, 0, len(r.ledgers))
	for b := range r.ledgers {
		badges = append(badges, b)
	}
	sort.Strings(badges)
	return badges
}

// Len returns the number of badges.
func (r *Registry) Len() int { return len(r.ledgers) }

// =============================================================================
// LINE SET - de-duplication authority for raw lines
// =============================================================================

// LineSet holds every raw line known to exist in the attendance file.
type LineSet map[string]struct{}

// NewLineSet returns an empty set.
func NewLineSet() LineSet { return make(LineSet) }

// Has reports whether line is already in the file.
func (s LineSet) Has(line string) bool {
	_, ok := s[line]
	return ok
}

// Add records line as present in the file.
func (s LineSet) Add(line string) { s[line] = struct{}{} }

// Len returns the number of distinct lines.
func (s LineSet) Len() int { return len(s) }
