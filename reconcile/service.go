/*
Package reconcile drives the correction workflows over the punch ledgers.

PURPOSE:
  Finds employee-days whose punch count is not the expected 4 and offers
  the operator three ways to fix them:
    1. CorrectAutomatically: walk every problem day, adding or removing
       punches as the operator supplies times
    2. DuplicateDay: copy a good day onto empty days
    3. ManualAdd: add a list of times to one day

  It also serves the read side the menu and API need: badge list, day
  summaries, problem list and the calendar report.

WRITE PATH:
  ledger edit -> GenerateLines -> Store.Append (de-dup + fsync) -> audit

  Only adds reach the file. Removals change the in-memory ledger alone.

ERRORS:
  Informational outcomes (unknown badge, nothing to fix) come back as
  punch sentinel errors. An append failure comes back together with a
  result describing what did get written; callers report it and carry on.

SEE ALSO:
  - punch/ledger.go: Ledger and Registry
  - store/file/file.go: Append and de-dup
  - console/session.go, api/handlers.go: Callers
*/
package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/timeclock/punch"
	"github.com/warp/timeclock/store/file"
)

// Store is the attendance file as seen by the reconciler.
type Store interface {
	Append(ctx context.Context, candidates []string) (file.AppendResult, error)
	Contents() ([]string, error)
}

// =============================================================================
// SERVICE
// =============================================================================

// Service holds the in-memory ledgers and the store they are persisted to.
// It is not safe for concurrent use; callers serialize access.
type Service struct {
	registry *punch.Registry
	store    Store
	audit    punch.AuditLog
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a reconciler. audit may be nil.
func NewService(registry *punch.Registry, store Store, audit punch.AuditLog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry: registry,
		store:    store,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

// ledger resolves operator badge input to a loaded ledger.
func (s *Service) ledger(badge string) (*punch.Ledger, error) {
	l := s.registry.Get(punch.NormalizeBadge(badge))
	if l == nil {
		return nil, punch.ErrBadgeNotFound
	}
	return l, nil
}

// Audit returns recorded write operations.
func (s *Service) Audit(ctx context.Context, filter punch.AuditFilter) ([]punch.AuditEntry, error) {
	if s.audit == nil {
		return nil, nil
	}
	if filter.Badge != "" {
		filter.Badge = punch.NormalizeBadge(filter.Badge)
	}
	return s.audit.Query(ctx, filter)
}

// record writes an audit entry. Failures are logged, never returned.
func (s *Service) record(ctx context.Context, entry punch.AuditEntry, appendErr error) {
	if s.audit == nil {
		return
	}
	if len(entry.Lines) == 0 && len(entry.Removed) == 0 && appendErr == nil {
		return
	}
	entry.ID = uuid.NewString()
	entry.Timestamp = s.now()
	if appendErr != nil {
		entry.Error = appendErr.Error()
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit entry",
			zap.String("action", string(entry.Action)),
			zap.String("badge", entry.Badge),
			zap.Error(err),
		)
	}
}
