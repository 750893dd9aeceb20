package http

import (
	"net/http"

	"fintrack/internal/log"
)

func (s *Server) monthMoved(w http.ResponseWriter, r *http.Request) {
	key := s.tracker.Current()
	log.FromContext(r.Context()).DebugContext(r.Context(), "Month changed",
		log.FieldOperation, log.OpNavigate, log.FieldMonth, key.String())
	s.respond(w, r, NewHTMXResponse().TriggerMonthChanged(key.String()))
}

func (s *Server) handlePrevMonth(w http.ResponseWriter, r *http.Request) {
	s.tracker.Prev()
	s.monthMoved(w, r)
}

func (s *Server) handleNextMonth(w http.ResponseWriter, r *http.Request) {
	s.tracker.Next()
	s.monthMoved(w, r)
}

func (s *Server) handleGotoMonth(w http.ResponseWriter, r *http.Request) {
	if errResp := ParseFormOrFail(r); errResp != nil {
		errResp.Write(w)
		return
	}
	key, err := ParseMonthParam(r.Form, "month", s.tracker.Current())
	if err != nil {
		s.fail(w, r, log.OpNavigate, err)
		return
	}
	s.tracker.Goto(key)
	s.monthMoved(w, r)
}

func (s *Server) handleSaveMonth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.tracker.Save(r.Context())
	if err != nil {
		s.fail(w, r, log.OpSave, err)
		return
	}
	s.reports.Purge()
	month := snap.MonthYear.String()
	s.respond(w, r, NewHTMXResponse().
		TriggerLedgerChanged(month).
		TriggerSuccessNotification("Saved "+snap.MonthYear.Label()))
}

// handleDeleteMonth removes a saved month; without a month field it targets
// the month under the cursor.
func (s *Server) handleDeleteMonth(w http.ResponseWriter, r *http.Request) {
	if errResp := ParseFormOrFail(r); errResp != nil {
		errResp.Write(w)
		return
	}
	key, err := ParseMonthParam(r.Form, "month", s.tracker.Current())
	if err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	if err := s.tracker.Delete(r.Context(), key); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	s.reports.Purge()
	s.respond(w, r, NewHTMXResponse().
		TriggerMonthChanged(s.tracker.Current().String()).
		TriggerSuccessNotification("Deleted "+key.Label()))
}
