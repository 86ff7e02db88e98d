package reconcile

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/warp/timeclock/punch"
)

// ManualAddResult is the outcome of ManualAdd.
type ManualAddResult struct {
	Badge    string
	Date     string
	Accepted []string // valid times, normalized
	Rejected []string // raw candidates that failed validation
	Written  []string
}

// ManualAdd appends the valid candidate times for one day. The ledger
// only learns the times if at least one line was actually written; a
// badge seen for the first time gets its ledger at that point.
func (s *Service) ManualAdd(ctx context.Context, badge, date string, times []string) (ManualAddResult, error) {
	if strings.TrimSpace(badge) == "" || strings.TrimSpace(date) == "" || len(times) == 0 {
		return ManualAddResult{}, punch.ErrInsufficientInput
	}
	res := ManualAddResult{
		Badge: punch.NormalizeBadge(badge),
		Date:  punch.NormalizeDate(date),
	}

	for _, t := range times {
		if punch.IsValidTime(t) {
			res.Accepted = append(res.Accepted, punch.NormalizeTime(t))
		} else {
			res.Rejected = append(res.Rejected, t)
		}
	}
	if len(res.Accepted) == 0 {
		return res, punch.ErrNoValidTimes
	}

	ledger := s.registry.Get(res.Badge)
	if ledger == nil {
		ledger = punch.NewLedger(res.Badge)
	}
	lines, err := ledger.GenerateLines(res.Date, res.Accepted)
	if err != nil {
		return res, fmt.Errorf("cannot add punches for %s: %w", res.Date, err)
	}

	out, appendErr := s.store.Append(ctx, lines)
	res.Written = out.Written
	if out.Count > 0 {
		ledger = s.registry.GetOrCreate(res.Badge)
		for _, t := range res.Accepted {
			ledger.AddPunch(res.Date, t)
		}
	}

	s.record(ctx, punch.AuditEntry{
		Action: punch.AuditManualAdd,
		Badge:  res.Badge,
		Dates:  []string{res.Date},
		Lines:  out.Written,
	}, appendErr)

	s.logger.Info("manual add finished",
		zap.String("badge", res.Badge),
		zap.String("date", res.Date),
		zap.Int("accepted", len(res.Accepted)),
		zap.Int("written", out.Count),
	)
	return res, appendErr
}
