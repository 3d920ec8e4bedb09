// Package dashboard wires text extraction, prompting, the model client and
// the response parser into the operations behind the dashboard.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/finreport/internal/export"
	"github.com/dgallion1/finreport/internal/failure"
	"github.com/dgallion1/finreport/internal/finance"
	"github.com/dgallion1/finreport/internal/llm"
	"github.com/dgallion1/finreport/internal/prompt"
	"github.com/dgallion1/finreport/internal/session"
	"github.com/dgallion1/finreport/internal/textextract"
)

var errEmptyRecord = errors.New("model returned an empty object")

// ErrSuperseded is returned by Extract when the session's document was
// replaced while the model call was running. The result is discarded.
var ErrSuperseded = errors.New("document replaced during extraction")

// Service runs dashboard operations against a session. Each operation is
// sequential and blocks until its model call returns.
type Service struct {
	extractor *textextract.Extractor
	llm       *llm.Client
	prompts   prompt.Builder
	log       *slog.Logger
}

func NewService(extractor *textextract.Extractor, client *llm.Client, prompts prompt.Builder, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{extractor: extractor, llm: client, prompts: prompts, log: log}
}

// Prompts returns the prompt builder in use.
func (s *Service) Prompts() prompt.Builder { return s.prompts }

// Upload extracts the document's text into sess, replacing whatever it
// held. A failure leaves the session without text and never reaches the
// model.
func (s *Service) Upload(sess *session.Session, data []byte, filename string) error {
	hash := textextract.ContentHash(data)
	text, err := s.extractor.Extract(data, filename)
	if err != nil {
		sess.Reset(filename, hash, "")
		return err
	}
	sess.Reset(filename, hash, text)
	s.log.Info("document uploaded",
		"session_id", sess.ID,
		"filename", filename,
		"bytes", len(data),
		"chars", len(text),
	)
	return nil
}

// Extract asks the model for the structured record of sess's document.
// An empty or undecodable response fails with failure.Parse and clears the
// session's record.
func (s *Service) Extract(ctx context.Context, sess *session.Session, rt prompt.ResultType) (finance.Record, error) {
	text, gen := sess.Document()
	if text == "" {
		return finance.Record{}, failure.New(failure.Extraction, "extract record", textextract.ErrNoText)
	}

	start := time.Now()
	raw := s.llm.Complete(ctx, s.prompts.BuildExtractionPrompt(text, rt))
	rec, err := finance.ParseStructured(raw)
	if err == nil && rec.IsEmpty() {
		err = failure.New(failure.Parse, "extract record", errEmptyRecord)
	}
	if err != nil {
		if !sess.SetFailed(gen, rt, failure.ExtractFailed) {
			return s.superseded(sess, rt)
		}
		s.log.Warn("record extraction failed",
			"session_id", sess.ID,
			"result_type", rt,
			"response_chars", len(raw),
			"error", err,
		)
		return finance.Record{}, err
	}

	if issues := finance.CheckShape(raw); len(issues) > 0 {
		s.log.Warn("response shape deviates", "session_id", sess.ID, "issues", issues)
	}
	if issues := finance.Review(rec); len(issues) > 0 {
		s.log.Warn("record values need review", "session_id", sess.ID, "issues", issues)
	}

	if !sess.SetRecord(gen, rt, rec) {
		return s.superseded(sess, rt)
	}
	s.log.Info("record extracted",
		"session_id", sess.ID,
		"result_type", rt,
		"metrics", len(rec.Metrics),
		"segments", len(rec.Segments),
		"ratios", len(rec.Ratios),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

func (s *Service) superseded(sess *session.Session, rt prompt.ResultType) (finance.Record, error) {
	s.log.Info("extraction discarded, document replaced",
		"session_id", sess.ID,
		"result_type", rt,
	)
	return finance.Record{}, ErrSuperseded
}

// Ask answers a free-form question from sess's document. The answer is
// never retained. An empty question returns "" without calling the model.
func (s *Service) Ask(ctx context.Context, sess *session.Session, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return ""
	}
	text := sess.Text()
	if text == "" {
		return failure.NoText
	}
	answer := s.llm.Answer(ctx, s.prompts.BuildQueryPrompt(text, question))
	s.log.Info("question answered",
		"session_id", sess.ID,
		"question_chars", len(question),
		"answer_chars", len(answer),
	)
	return answer
}

// Report renders sess's record as CSV. ok is false when no record exists.
func (s *Service) Report(sess *session.Session) (string, bool, error) {
	rec, ok := sess.Record()
	if !ok {
		return "", false, nil
	}
	out, err := export.ToCSV(rec)
	if err != nil {
		return "", true, err
	}
	return out, true, nil
}

// Workbook renders sess's record as an XLSX workbook.
func (s *Service) Workbook(sess *session.Session) ([]byte, bool, error) {
	rec, ok := sess.Record()
	if !ok {
		return nil, false, nil
	}
	out, err := export.ToXLSX(rec)
	if err != nil {
		return nil, true, err
	}
	return out, true, nil
}

// Stats returns the model client's rolling stats.
func (s *Service) Stats() llm.StatsSnapshot {
	return s.llm.Stats().Snapshot()
}

// Model describes the configured model provider.
func (s *Service) Model() (provider, model string) {
	p := s.llm.Provider()
	return p.Name(), p.Model()
}
