/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the reconcile result types from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done by the reconcile service, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - reconcile/: Result types mapped here
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/timeclock/punch"
	"github.com/warp/timeclock/reconcile"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CorrectionRequest scripts the operator answers of an automatic correction.
// Entries are consumed in order; once exhausted every prompt is skipped.
type CorrectionRequest struct {
	Entries []string `json:"entries"`
}

// DuplicateRequest copies a source day onto target days.
type DuplicateRequest struct {
	Source  string   `json:"source"`
	Targets []string `json:"targets"`
}

// ManualAddRequest adds times to one day.
type ManualAddRequest struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// DayDTO is one recorded day of a badge.
type DayDTO struct {
	Date   string          `json:"date"`
	Times  []string        `json:"times"`
	Count  int             `json:"count"`
	Status string          `json:"status"`
	Hours  decimal.Decimal `json:"hours"`
}

// ProblemDTO is one MISSING/EXCESS day.
type ProblemDTO struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// ReportDTO is the calendar report of a badge.
type ReportDTO struct {
	Badge string         `json:"badge"`
	From  string         `json:"from"`
	To    string         `json:"to"`
	Days  []ReportDayDTO `json:"days"`
}

type ReportDayDTO struct {
	Date   string `json:"date"`
	Count  int    `json:"count"`
	Status string `json:"status"`
}

// CorrectionDTO is the outcome of an automatic correction.
type CorrectionDTO struct {
	Badge   string             `json:"badge"`
	Days    []DayCorrectionDTO `json:"days"`
	Staged  int                `json:"staged"`
	Written []string           `json:"written"`
	Error   string             `json:"error,omitempty"`
}

type DayCorrectionDTO struct {
	Date     string   `json:"date"`
	Status   string   `json:"status"`
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	Rejected []string `json:"rejected"`
	Count    int      `json:"count"`
}

// DuplicationDTO is the outcome of a day duplication.
type DuplicationDTO struct {
	Badge   string      `json:"badge"`
	Source  string      `json:"source"`
	Times   []string    `json:"times"`
	Targets []TargetDTO `json:"targets"`
	Total   int         `json:"total"`
	Error   string      `json:"error,omitempty"`
}

type TargetDTO struct {
	Date    string `json:"date"`
	Outcome string `json:"outcome"`
	Written int    `json:"written"`
}

// ManualAddDTO is the outcome of a manual add.
type ManualAddDTO struct {
	Badge    string   `json:"badge"`
	Date     string   `json:"date"`
	Accepted []string `json:"accepted"`
	Rejected []string `json:"rejected"`
	Written  []string `json:"written"`
	Error    string   `json:"error,omitempty"`
}

// AuditEntryDTO is one recorded write operation.
type AuditEntryDTO struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"timestamp"`
	Action    string   `json:"action"`
	Badge     string   `json:"badge"`
	Dates     []string `json:"dates"`
	Lines     []string `json:"lines"`
	Removed   []string `json:"removed"`
	Error     string   `json:"error,omitempty"`
}

// ErrorResponse is returned for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toDayDTOs(days []reconcile.DaySummary) []DayDTO {
	out := make([]DayDTO, len(days))
	for i, d := range days {
		out[i] = DayDTO{
			Date:   d.Date,
			Times:  nonNil(d.Times),
			Count:  d.Count,
			Status: string(d.Status),
			Hours:  d.Hours,
		}
	}
	return out
}

func toProblemDTOs(problems map[string]punch.Status) []ProblemDTO {
	dates := make([]string, 0, len(problems))
	for d := range problems {
		dates = append(dates, d)
	}
	punch.SortDates(dates)
	out := make([]ProblemDTO, len(dates))
	for i, d := range dates {
		out[i] = ProblemDTO{Date: d, Status: string(problems[d])}
	}
	return out
}

func toReportDTO(rep reconcile.MonthlyReport) ReportDTO {
	dto := ReportDTO{Badge: rep.Badge, From: rep.From, To: rep.To, Days: make([]ReportDayDTO, len(rep.Days))}
	for i, d := range rep.Days {
		dto.Days[i] = ReportDayDTO{Date: d.Date, Count: d.Count, Status: string(d.Status)}
	}
	return dto
}

func toCorrectionDTO(res reconcile.CorrectionResult) CorrectionDTO {
	dto := CorrectionDTO{
		Badge:   res.Badge,
		Days:    make([]DayCorrectionDTO, len(res.Days)),
		Staged:  res.Staged,
		Written: nonNil(res.Written),
	}
	for i, d := range res.Days {
		dto.Days[i] = DayCorrectionDTO{
			Date:     d.Date,
			Status:   string(d.Status),
			Added:    nonNil(d.Added),
			Removed:  nonNil(d.Removed),
			Rejected: nonNil(d.Rejected),
			Count:    d.Count,
		}
	}
	return dto
}

func toDuplicationDTO(res reconcile.DuplicationResult) DuplicationDTO {
	dto := DuplicationDTO{
		Badge:   res.Badge,
		Source:  res.Source,
		Times:   nonNil(res.Times),
		Targets: make([]TargetDTO, len(res.Targets)),
		Total:   res.Total,
	}
	for i, t := range res.Targets {
		dto.Targets[i] = TargetDTO{Date: t.Date, Outcome: string(t.Outcome), Written: t.Written}
	}
	return dto
}

func toManualAddDTO(res reconcile.ManualAddResult) ManualAddDTO {
	return ManualAddDTO{
		Badge:    res.Badge,
		Date:     res.Date,
		Accepted: nonNil(res.Accepted),
		Rejected: nonNil(res.Rejected),
		Written:  nonNil(res.Written),
	}
}

func toAuditDTOs(entries []punch.AuditEntry) []AuditEntryDTO {
	out := make([]AuditEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = AuditEntryDTO{
			ID:        e.ID,
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Action:    string(e.Action),
			Badge:     e.Badge,
			Dates:     nonNil(e.Dates),
			Lines:     nonNil(e.Lines),
			Removed:   nonNil(e.Removed),
			Error:     e.Error,
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
