package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

func (s *Server) ledgerChanged(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, NewHTMXResponse().TriggerLedgerChanged(s.tracker.Current().String()))
}

func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		msg := "Invalid request format"
		if p.IsJSON() {
			msg = "Invalid JSON body"
		}
		BadRequestError(msg).TriggerErrorNotification(msg).Write(w)
		return nil, false
	}
	return p, true
}

// handleSetEntry writes one account line. Values that do not parse are
// stored as zero, like an emptied form field.
func (s *Server) handleSetEntry(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	c, err := ledger.ParseCategory(s.tracker.Variant(), p.Get("category"))
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	if err := s.tracker.SetEntry(c, p.Get("key"), core.ParseAmountOrZero(p.Get("value"))); err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	s.ledgerChanged(w, r)
}

// handleSetDeduction updates a deduction's amount and, when sent, its
// description.
func (s *Server) handleSetDeduction(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	key := p.Get("key")
	if p.Has("amount") {
		if err := s.tracker.SetDeductionAmount(key, core.ParseAmountOrZero(p.Get("amount"))); err != nil {
			s.fail(w, r, log.OpUpdate, err)
			return
		}
	}
	if p.Has("description") {
		if err := s.tracker.SetDeductionDescription(key, p.Get("description")); err != nil {
			s.fail(w, r, log.OpUpdate, err)
			return
		}
	}
	s.ledgerChanged(w, r)
}

// handleApplyProfile stores the submitted pay profile and copies it into
// the working month. reset=true also clears business and other income.
func (s *Server) handleApplyProfile(w http.ResponseWriter, r *http.Request) {
	if errResp := ParseFormOrFail(r); errResp != nil {
		errResp.Write(w)
		return
	}
	profile := s.tracker.Profile()
	if v, ok := r.Form["primarySalary"]; ok {
		profile.PrimarySalary = core.ParseAmountOrZero(strings.Join(v, ""))
	}
	for i, d := range profile.Deductions {
		if v, ok := r.Form["deduction."+d.Key]; ok {
			profile.Deductions[i].Amount = core.ParseAmountOrZero(strings.Join(v, ""))
		}
	}
	if profile.PrimarySalary.IsNegative() {
		s.fail(w, r, log.OpUpdate, core.ErrNegativeAmount)
		return
	}
	for _, d := range profile.Deductions {
		if d.Amount.IsNegative() {
			s.fail(w, r, log.OpUpdate, core.ErrNegativeAmount)
			return
		}
	}

	s.tracker.SetProfile(profile)
	if err := s.tracker.ApplyProfile(r.Form.Get("reset") == "true"); err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	s.ledgerChanged(w, r)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	exp, err := s.tracker.AddExpense(p.Get("category"), p.Get("name"), amount)
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	s.respond(w, r, NewHTMXResponse().
		TriggerLedgerChanged(s.tracker.Current().String()).
		TriggerSuccessNotification("Added "+exp.Name))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := ParseExpenseID(r)
	if err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	if err := s.tracker.UpdateExpense(id, p.Get("field"), p.Get("value")); err != nil {
		s.fail(w, r, log.OpUpdate, err)
		return
	}
	s.ledgerChanged(w, r)
}

func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	id, err := ParseExpenseID(r)
	if err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	if err := s.tracker.RemoveExpense(id); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	s.ledgerChanged(w, r)
}
