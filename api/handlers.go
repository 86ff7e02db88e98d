/*
handlers.go - HTTP API handlers for the reconciliation engine

PURPOSE:
  Exposes the same operations as the operator menu over JSON so another
  tool can drive them. Handles HTTP request/response and delegates to the
  reconcile service.

ENDPOINTS:
  Badges:
    GET    /api/badges                        List badges
    GET    /api/badges/{badge}/days           Day summaries
    GET    /api/badges/{badge}/problems       MISSING/EXCESS days
    GET    /api/badges/{badge}/report         Calendar report

  Corrections:
    POST   /api/badges/{badge}/corrections    Scripted automatic correction
    POST   /api/badges/{badge}/duplicate      Duplicate a day
    POST   /api/badges/{badge}/punches        Manual add

  File:
    GET    /api/file                          Raw attendance file
    GET    /api/audit                         Write history (?badge=)

SERIALIZATION:
  The service is single-threaded by contract. Every handler takes the
  Handler mutex, so requests run one at a time.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (times, dates, empty fields)
  - 404: Unknown badge, date or missing file
  - 422: Nothing to correct
  - 500: Append failure (body still reports what was written)

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/timeclock/punch"
	"github.com/warp/timeclock/reconcile"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *reconcile.Service
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewHandler creates a new handler over the reconcile service.
func NewHandler(svc *reconcile.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: svc, logger: logger}
}

// =============================================================================
// BADGE HANDLERS
// =============================================================================

// ListBadges returns every known badge, sorted.
func (h *Handler) ListBadges(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, nonNil(h.Service.Badges()))
}

// GetDays returns the day summaries of a badge.
func (h *Handler) GetDays(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	days, err := h.Service.Summary(chi.URLParam(r, "badge"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayDTOs(days))
}

// GetProblems returns the MISSING/EXCESS days of a badge.
func (h *Handler) GetProblems(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	problems, err := h.Service.Problems(chi.URLParam(r, "badge"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProblemDTOs(problems))
}

// GetReport returns the calendar report of a badge.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rep, err := h.Service.MonthlyReport(chi.URLParam(r, "badge"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(rep))
}

// =============================================================================
// CORRECTION HANDLERS
// =============================================================================

// Correct runs an automatic correction with scripted answers.
func (h *Handler) Correct(w http.ResponseWriter, r *http.Request) {
	var req CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next := 0
	res, err := h.Service.CorrectAutomatically(r.Context(), chi.URLParam(r, "badge"), func(reconcile.Prompt) string {
		if next >= len(req.Entries) {
			return ""
		}
		next++
		return req.Entries[next-1]
	})
	if err != nil && !errors.Is(err, punch.ErrAppendFailed) {
		h.writeDomainError(w, err)
		return
	}

	dto := toCorrectionDTO(res)
	if err != nil {
		dto.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, dto)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// Duplicate copies a day onto target days.
func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	var req DuplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	res, err := h.Service.DuplicateDay(r.Context(), chi.URLParam(r, "badge"), req.Source, req.Targets)
	if err != nil && !errors.Is(err, punch.ErrAppendFailed) {
		h.writeDomainError(w, err)
		return
	}

	dto := toDuplicationDTO(res)
	if err != nil {
		dto.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, dto)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// AddPunches adds times to one day of a badge.
func (h *Handler) AddPunches(w http.ResponseWriter, r *http.Request) {
	var req ManualAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	res, err := h.Service.ManualAdd(r.Context(), chi.URLParam(r, "badge"), req.Date, req.Times)
	if err != nil && !errors.Is(err, punch.ErrAppendFailed) {
		h.writeDomainError(w, err)
		return
	}

	dto := toManualAddDTO(res)
	if err != nil {
		dto.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, dto)
		return
	}
	status := http.StatusOK
	if len(res.Written) > 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, dto)
}

// =============================================================================
// FILE / AUDIT HANDLERS
// =============================================================================

// GetFile returns the raw attendance file lines.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	lines, err := h.Service.FileContents()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(lines))
}

// GetAudit returns recorded write operations, newest first.
func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	filter := punch.AuditFilter{Badge: r.URL.Query().Get("badge")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		filter.Limit = n
	}

	entries, err := h.Service.Audit(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query audit log", err)
		return
	}
	writeJSON(w, http.StatusOK, toAuditDTOs(entries))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps punch errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, punch.ErrBadgeNotFound):
		writeError(w, http.StatusNotFound, "Badge not found", err)
	case errors.Is(err, punch.ErrDateNotFound), errors.Is(err, punch.ErrFileNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, punch.ErrNoProblems):
		writeError(w, http.StatusUnprocessableEntity, "Nothing to correct", err)
	case punch.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
