// Package memory provides an in-memory audit log.
package memory

import (
	"context"
	"sync"

	"github.com/warp/timeclock/punch"
)

// =============================================================================
// MEMORY AUDIT LOG - In-memory implementation (default, testing)
// =============================================================================

type AuditLog struct {
	mu      sync.RWMutex
	entries []punch.AuditEntry
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// Append adds an entry. Append-only.
func (m *AuditLog) Append(_ context.Context, entry punch.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, cloneEntry(entry))
	return nil
}

// Query returns matching entries, newest first.
func (m *AuditLog) Query(_ context.Context, filter punch.AuditFilter) ([]punch.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []punch.AuditEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if !filter.Matches(m.entries[i]) {
			continue
		}
		result = append(result, cloneEntry(m.entries[i]))
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func cloneEntry(e punch.AuditEntry) punch.AuditEntry {
	e.Dates = append([]string(nil), e.Dates...)
	e.Lines = append([]string(nil), e.Lines...)
	e.Removed = append([]string(nil), e.Removed...)
	return e
}
