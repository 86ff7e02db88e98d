/*
audit.go - Audit trail of write operations

PURPOSE:
  The attendance file records punches, not who added them or why. The
  audit log keeps that context: every correction, duplication or manual
  add that reached the file is recorded with the lines it wrote.

  The audit log is a side record. It never backs the ledger and a
  failure to write it never blocks a punch write.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Persistent audit log
  - store/memory/memory.go: In-memory audit log (default, tests)

SEE ALSO:
  - reconcile/service.go: Records one entry per write operation
*/
package punch

import (
	"context"
	"time"
)

// AuditAction names the operation that produced an audit entry.
type AuditAction string

const (
	AuditCorrection  AuditAction = "correction"
	AuditDuplication AuditAction = "duplication"
	AuditManualAdd   AuditAction = "manual_add"
)

// AuditEntry records one write operation against the attendance file.
type AuditEntry struct {
	ID        string
	Timestamp time.Time
	Action    AuditAction
	Badge     string
	Dates     []string // days touched by the operation
	Lines     []string // lines actually written, after de-dup
	Removed   []string // in-memory removals as DD/MM/YYYY HHMM, never persisted to the file
	Error     string   // append failure, if any
}

// AuditLog stores audit entries. Append-only.
type AuditLog interface {
	Append(ctx context.Context, entry AuditEntry) error
	Query(ctx context.Context, filter AuditFilter) ([]AuditEntry, error)
}

// AuditFilter narrows a query. Zero values match everything.
type AuditFilter struct {
	Badge   string
	Actions []AuditAction
	Limit   int
}

// Matches reports whether an entry passes the filter (Limit aside).
func (f AuditFilter) Matches(e AuditEntry) bool {
	if f.Badge != "" && e.Badge != f.Badge {
		return false
	}
	if len(f.Actions) == 0 {
		return true
	}
	for _, a := range f.Actions {
		if a == e.Action {
			return true
		}
	}
	return false
}
