package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/calc"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/report"
)

type totalsResponse struct {
	Month     core.MonthKey `json:"month"`
	Saved     bool          `json:"saved"`
	Totals    calc.Totals   `json:"totals"`
	Breakdown []calc.Slice  `json:"breakdown"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) apiFail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "API request failed", log.FieldError, err)
	}
	writeJSON(w, status, errorResponse{Error: userMessage(err, status)})
}

// handleAPITotals reports the working month, unsaved edits included.
func (s *Server) handleAPITotals(w http.ResponseWriter, r *http.Request) {
	b := s.tracker.Bundle()
	writeJSON(w, http.StatusOK, totalsResponse{
		Month:     b.MonthKey,
		Saved:     s.tracker.IsSaved(),
		Totals:    b.Totals,
		Breakdown: calc.Breakdown(b.Totals),
	})
}

func (s *Server) handleAPIMonths(w http.ResponseWriter, r *http.Request) {
	months := s.tracker.Archive()
	if months == nil {
		months = []report.MonthSummary{}
	}
	writeJSON(w, http.StatusOK, months)
}

func (s *Server) handleAPIMonth(w http.ResponseWriter, r *http.Request) {
	key, err := core.ParseMonthKey(r.PathValue("month"))
	if err != nil {
		s.apiFail(w, r, err)
		return
	}
	b, err := s.tracker.SavedBundle(key)
	if err != nil {
		s.apiFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleAPIMetrics reports the request counters kept by the trace middleware,
// this request included.
func (s *Server) handleAPIMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracer.GetMetrics())
}
