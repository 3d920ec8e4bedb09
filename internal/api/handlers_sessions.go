package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/finreport/internal/dashboard"
	"github.com/dgallion1/finreport/internal/export"
	"github.com/dgallion1/finreport/internal/failure"
	"github.com/dgallion1/finreport/internal/prompt"
	"github.com/dgallion1/finreport/internal/session"
)

// handleCreateSession uploads a document into a new session and runs the
// first extraction with the requested result type.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.readUpload(w, r)
	if err != nil {
		jsonError(w, err.Error(), statusOf(err))
		return
	}
	rt, err := prompt.ParseResultType(r.FormValue("result_type"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := s.sessions.Create()
	if err := s.svc.Upload(sess, data, filename); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   failure.Message(err),
			"session": sess.Snapshot(),
		})
		return
	}
	// A failed extraction is recorded on the session and visible in
	// its snapshot; the session itself was still created.
	_, _ = s.svc.Extract(r.Context(), sess, rt)

	w.Header().Set("Location", fmt.Sprintf("/api/sessions/%s", sess.ID))
	writeJSON(w, http.StatusCreated, map[string]any{"session": sess.Snapshot()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": sess.Snapshot()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "sessionID")) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	var req struct {
		ResultType string `json:"result_type"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	rt, err := prompt.ParseResultType(req.ResultType)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := s.svc.Extract(r.Context(), sess, rt); err != nil {
		if errors.Is(err, dashboard.ErrSuperseded) {
			jsonError(w, err.Error(), http.StatusConflict)
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   failure.Message(err),
			"session": sess.Snapshot(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": sess.Snapshot()})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	answer := s.svc.Ask(r.Context(), sess, req.Question)
	if answer == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	s.writeCSV(w, sess)
}

func (s *Server) handleReportXLSX(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	data, ok, err := s.svc.Workbook(sess)
	if !ok {
		jsonError(w, "no report available", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("render workbook", "session_id", sess.ID, "error", err)
		jsonError(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.XLSXFilename))
	w.Write(data)
}

func (s *Server) writeCSV(w http.ResponseWriter, sess *session.Session) {
	out, ok, err := s.svc.Report(sess)
	if !ok {
		jsonError(w, "no report available", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("render csv", "session_id", sess.ID, "error", err)
		jsonError(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.ReportFilename))
	w.Write([]byte(out))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
	}
	return sess
}
