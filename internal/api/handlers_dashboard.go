package api

import (
	"bytes"
	"net/http"

	"github.com/dgallion1/finreport/internal/dashboard"
	"github.com/dgallion1/finreport/internal/failure"
	"github.com/dgallion1/finreport/internal/prompt"
	"github.com/dgallion1/finreport/internal/session"
)

type pageData struct {
	Session     *session.Snapshot
	View        *dashboard.View
	ResultTypes []prompt.ResultType
	Selected    prompt.ResultType
	Error       string
	Question    string
	Answer      string
	HasReport   bool
}

// cookieSession returns the dashboard session named by the request's
// cookie, or nil.
func (s *Server) cookieSession(r *http.Request) *session.Session {
	c, _ := s.cookies.Get(r, cookieName)
	id, _ := c.Values["sid"].(string)
	if id == "" {
		return nil
	}
	return s.sessions.Get(id)
}

// ensureSession returns the request's session, creating one and setting
// the cookie when needed.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if sess := s.cookieSession(r); sess != nil {
		return sess, nil
	}
	sess := s.sessions.Create()
	c, _ := s.cookies.Get(r, cookieName)
	c.Values["sid"] = sess.ID
	if err := c.Save(r, w); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.page(s.cookieSession(r)))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.readUpload(w, r)
	if err != nil {
		p := s.page(s.cookieSession(r))
		p.Error = err.Error()
		s.render(w, statusOf(err), p)
		return
	}
	rt, err := prompt.ParseResultType(r.FormValue("result_type"))
	if err != nil {
		p := s.page(s.cookieSession(r))
		p.Error = err.Error()
		s.render(w, http.StatusBadRequest, p)
		return
	}

	sess, err := s.ensureSession(w, r)
	if err != nil {
		s.log.Error("save dashboard cookie", "error", err)
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}
	if err := s.svc.Upload(sess, data, filename); err == nil {
		_, _ = s.svc.Extract(r.Context(), sess, rt)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleResultType(w http.ResponseWriter, r *http.Request) {
	sess := s.cookieSession(r)
	if sess == nil || sess.Text() == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	rt, err := prompt.ParseResultType(r.FormValue("result_type"))
	if err != nil {
		p := s.page(sess)
		p.Error = err.Error()
		s.render(w, http.StatusBadRequest, p)
		return
	}
	_, _ = s.svc.Extract(r.Context(), sess, rt)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAsk renders the answer directly; answers are never stored.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	sess := s.cookieSession(r)
	if sess == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	question := r.FormValue("question")
	p := s.page(sess)
	p.Question = question
	p.Answer = s.svc.Ask(r.Context(), sess, question)
	s.render(w, http.StatusOK, p)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.cookieSession(r)
	if sess == nil {
		http.NotFound(w, r)
		return
	}
	s.writeCSV(w, sess)
}

func (s *Server) page(sess *session.Session) pageData {
	p := pageData{
		ResultTypes: prompt.ResultTypes,
		Selected:    prompt.Consolidated,
	}
	if sess == nil {
		return p
	}
	snap := sess.Snapshot()
	p.Session = &snap
	if snap.ResultType != "" {
		p.Selected = snap.ResultType
	}
	switch snap.Status {
	case session.StatusNoText:
		p.Error = failure.NoText
	case session.StatusFailed:
		p.Error = snap.Error
	}
	if snap.Record != nil {
		v := dashboard.BuildView(*snap.Record, s.svc.Prompts().Period)
		p.View = &v
		p.HasReport = true
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, status int, p pageData) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "dashboard.html", p); err != nil {
		s.log.Error("render dashboard", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
