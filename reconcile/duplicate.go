package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/warp/timeclock/punch"
)

// =============================================================================
// DAY DUPLICATION
// =============================================================================

// TargetOutcome says what happened to one duplication target.
type TargetOutcome string

const (
	TargetWritten     TargetOutcome = "written"
	TargetInvalidDate TargetOutcome = "invalid_date"
	TargetHasPunches  TargetOutcome = "has_punches"
	TargetNothingNew  TargetOutcome = "nothing_new" // every line already in the file
	TargetFailed      TargetOutcome = "failed"
)

// TargetResult is the outcome for one target day.
type TargetResult struct {
	Date    string
	Outcome TargetOutcome
	Written int
	Err     error
}

// DuplicationResult is the outcome of DuplicateDay.
type DuplicationResult struct {
	Badge   string
	Source  string
	Times   []string
	Targets []TargetResult
	Total   int
}

// DuplicateDay copies the punches of source onto every target day that
// is a real calendar day and has no punches yet. A target is registered
// in memory only if at least one of its lines was actually written.
// Bad targets are skipped; they never abort the rest of the batch.
func (s *Service) DuplicateDay(ctx context.Context, badge, source string, targets []string) (DuplicationResult, error) {
	ledger, err := s.ledger(badge)
	if err != nil {
		return DuplicationResult{}, err
	}
	source = punch.NormalizeDate(source)
	res := DuplicationResult{Badge: ledger.Badge, Source: source}
	if !ledger.HasDay(source) {
		return res, fmt.Errorf("%w: %s", punch.ErrDateNotFound, source)
	}

	var dates []string
	for _, t := range targets {
		if t = strings.TrimSpace(t); t != "" {
			dates = append(dates, punch.NormalizeDate(t))
		}
	}
	if len(dates) == 0 {
		return res, punch.ErrNoTargets
	}

	times := ledger.Times(source)
	res.Times = times

	var (
		written []string
		errs    []error
	)
	for _, date := range dates {
		tr := TargetResult{Date: date}
		if _, err := punch.ParseDay(date); err != nil {
			s.logger.Warn("skipping invalid target date", zap.String("date", date))
			tr.Outcome = TargetInvalidDate
			tr.Err = err
			res.Targets = append(res.Targets, tr)
			continue
		}
		if ledger.HasPunches(date) {
			tr.Outcome = TargetHasPunches
			res.Targets = append(res.Targets, tr)
			continue
		}

		lines, err := ledger.GenerateLines(date, times)
		if err != nil {
			tr.Outcome = TargetFailed
			tr.Err = err
			res.Targets = append(res.Targets, tr)
			continue
		}
		out, appendErr := s.store.Append(ctx, lines)
		tr.Written = out.Count
		switch {
		case appendErr != nil:
			tr.Outcome = TargetFailed
			tr.Err = appendErr
			errs = append(errs, appendErr)
		case out.Count > 0:
			tr.Outcome = TargetWritten
		default:
			tr.Outcome = TargetNothingNew
		}
		if out.Count > 0 {
			ledger.SetDay(date, times)
			res.Total += out.Count
			written = append(written, out.Written...)
		}
		res.Targets = append(res.Targets, tr)
	}

	s.record(ctx, punch.AuditEntry{
		Action: punch.AuditDuplication,
		Badge:  ledger.Badge,
		Dates:  append([]string{source}, dates...),
		Lines:  written,
	}, errors.Join(errs...))

	s.logger.Info("duplication finished",
		zap.String("badge", ledger.Badge),
		zap.String("source", source),
		zap.Int("targets", len(dates)),
		zap.Int("written", res.Total),
	)
	return res, errors.Join(errs...)
}
