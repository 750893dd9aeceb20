package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/snapshot"
)

const maxImportBytes = 10 << 20

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.tracker.Export().Encode()
	if err != nil {
		s.fail(w, r, log.OpExport, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", snapshot.ExportFilename(s.now())))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// readImportBody accepts a multipart upload in the "file" field or the
// document as the raw request body.
func readImportBody(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err == nil {
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("%w: no file uploaded", snapshot.ErrMalformedImport)
		}
		defer f.Close()
		return io.ReadAll(f)
	} else if !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("%w: %v", snapshot.ErrMalformedImport, err)
	}
	return io.ReadAll(r.Body)
}

// handleImport replaces every saved month with the uploaded backup. A bad
// document leaves the store untouched and raises a notification that stays
// until dismissed.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readImportBody(r)
	if err == nil {
		var n int
		n, err = s.tracker.Import(r.Context(), data)
		if err == nil {
			s.reports.Purge()
			s.respond(w, r, NewHTMXResponse().
				TriggerMonthChanged(s.tracker.Current().String()).
				TriggerLedgerChanged(s.tracker.Current().String()).
				TriggerSuccessNotification(fmt.Sprintf("Imported %d saved months", n)))
			return
		}
	}

	status := statusFor(err)
	msg := "Import failed: " + userMessage(err, status)
	log.FromContext(r.Context()).WarnContext(r.Context(), "Import rejected",
		log.FieldOperation, log.OpImport, log.FieldError, err)
	errorResponseFor(status, msg).TriggerBlockingError(msg).Write(w)
}

// renderReport renders the month's report. Saved months are served from the
// report cache; the cursor month is always rendered from the working copy.
func (s *Server) renderReport(key core.MonthKey, renderer report.Renderer) ([]byte, error) {
	if key == s.tracker.Current() {
		var buf bytes.Buffer
		if err := renderer.Render(&buf, s.tracker.Bundle()); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	cacheKey := renderer.ContentType() + "|" + key.String()
	if data, ok := s.reports.Get(cacheKey); ok {
		return data, nil
	}
	b, err := s.tracker.SavedBundle(key)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, b); err != nil {
		return nil, err
	}
	s.reports.Set(cacheKey, buf.Bytes())
	return buf.Bytes(), nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key, err := ParseMonthParam(q, "month", s.tracker.Current())
	if err != nil {
		s.fail(w, r, log.OpRender, err)
		return
	}
	renderer, err := report.NewRenderer(q.Get("format"))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	data, err := s.renderReport(key, renderer)
	if err != nil {
		s.fail(w, r, log.OpRender, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", renderer.Filename(key)))
	_, _ = w.Write(data)
}
