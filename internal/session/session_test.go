package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dgallion1/finreport/internal/finance"
	"github.com/dgallion1/finreport/internal/prompt"
)

func TestStore_CreateAndGet(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create()
	if s.ID == "" {
		t.Fatal("expected non-empty session id")
	}
	if s.Status != StatusEmpty {
		t.Errorf("expected status %q, got %q", StatusEmpty, s.Status)
	}
	if s.ResultType != prompt.Consolidated {
		t.Errorf("expected default result type Consolidated, got %q", s.ResultType)
	}
	if got := st.Get(s.ID); got != s {
		t.Error("expected Get to return the created session")
	}
	if st.Get("missing") != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestStore_CreateUniqueIDs(t *testing.T) {
	st := NewStore(time.Hour)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := st.Create().ID
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if st.Len() != 100 {
		t.Errorf("expected 100 sessions, got %d", st.Len())
	}
}

func TestStore_Delete(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create()
	if !st.Delete(s.ID) {
		t.Error("expected Delete to report existing session")
	}
	if st.Delete(s.ID) {
		t.Error("expected second Delete to report missing session")
	}
	if st.Get(s.ID) != nil {
		t.Error("expected session to be gone")
	}
}

func TestStore_CleanupRemovesExpired(t *testing.T) {
	st := NewStore(50 * time.Millisecond)
	old := st.Create()
	fresh := st.Create()

	old.mu.Lock()
	old.UpdatedAt = time.Now().Add(-time.Second)
	old.mu.Unlock()

	if n := st.Cleanup(); n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}
	if st.Get(old.ID) != nil {
		t.Error("expected expired session to be removed")
	}
	if st.Get(fresh.ID) == nil {
		t.Error("expected fresh session to survive")
	}
}

func TestSession_ResetClearsRecord(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create()
	s.Reset("q3.pdf", "abc", "Revenue 500 Cr")
	if s.Status != StatusReady {
		t.Errorf("expected status %q, got %q", StatusReady, s.Status)
	}

	rec, err := finance.ParseStructured(`{"Metrics":{"Revenue":"500 Cr"}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, gen := s.Document()
	s.SetRecord(gen, prompt.Standalone, rec)
	if got, ok := s.Record(); !ok || got.Metric(finance.MetricRevenue) != "500 Cr" {
		t.Fatalf("expected stored record, got ok=%v rec=%+v", ok, got)
	}

	s.Reset("q4.pdf", "def", "other text")
	if _, ok := s.Record(); ok {
		t.Error("expected record cleared after reset")
	}
	if s.Text() != "other text" {
		t.Errorf("expected new text, got %q", s.Text())
	}
	if s.Filename != "q4.pdf" || s.ContentHash != "def" {
		t.Errorf("unexpected document fields: %q %q", s.Filename, s.ContentHash)
	}
}

func TestSession_ResetWithoutText(t *testing.T) {
	s := NewStore(time.Hour).Create()
	s.Reset("blank.pdf", "abc", "")
	if s.Status != StatusNoText {
		t.Errorf("expected status %q, got %q", StatusNoText, s.Status)
	}
}

func TestSession_SetFailedDropsRecord(t *testing.T) {
	s := NewStore(time.Hour).Create()
	s.Reset("q3.pdf", "abc", "text")
	rec, _ := finance.ParseStructured(`{"Company Name":"Acme"}`)
	_, gen := s.Document()
	s.SetRecord(gen, prompt.Consolidated, rec)

	s.SetFailed(gen, prompt.Standalone, "Failed to extract data.")
	if _, ok := s.Record(); ok {
		t.Error("expected record dropped after failure")
	}
	snap := s.Snapshot()
	if snap.Status != StatusFailed || snap.Error != "Failed to extract data." {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.ResultType != prompt.Standalone {
		t.Errorf("expected result type Standalone, got %q", snap.ResultType)
	}
	if snap.Record != nil {
		t.Error("expected nil record in snapshot")
	}
}

func TestSession_SnapshotJSON(t *testing.T) {
	s := NewStore(time.Hour).Create()
	s.Reset("q3.pdf", "abc", "12345")
	rec, _ := finance.ParseStructured(`{"Metrics":{"EPS":"13.70"}}`)
	_, gen := s.Document()
	s.SetRecord(gen, prompt.Consolidated, rec)

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["session_id"] != s.ID {
		t.Errorf("expected session_id %q, got %v", s.ID, out["session_id"])
	}
	if out["text_chars"] != float64(5) {
		t.Errorf("expected text_chars 5, got %v", out["text_chars"])
	}
	if _, ok := out["record"]; !ok {
		t.Error("expected record in JSON")
	}
	if out["status"] != string(StatusExtracted) {
		t.Errorf("expected status extracted, got %v", out["status"])
	}
}

func TestSession_StaleResultsDiscarded(t *testing.T) {
	s := NewStore(time.Hour).Create()
	s.Reset("q3.pdf", "abc", "Reliance Industries Limited")
	_, gen := s.Document()

	s.Reset("other.txt", "def", "Other Co")
	rec, _ := finance.ParseStructured(`{"Company Name":"Reliance Industries Limited"}`)
	if s.SetRecord(gen, prompt.Consolidated, rec) {
		t.Error("expected SetRecord to reject a result for the replaced document")
	}
	if s.SetFailed(gen, prompt.Consolidated, "Failed to extract data.") {
		t.Error("expected SetFailed to reject a result for the replaced document")
	}
	if _, ok := s.Record(); ok {
		t.Error("expected no record after stale write")
	}
	snap := s.Snapshot()
	if snap.Status != StatusReady || snap.Error != "" || snap.Filename != "other.txt" {
		t.Errorf("unexpected snapshot after stale write: %+v", snap)
	}

	text, cur := s.Document()
	if text != "Other Co" || cur == gen {
		t.Errorf("expected new document with new generation, got %q gen=%d (old %d)", text, cur, gen)
	}
	if !s.SetRecord(cur, prompt.Consolidated, rec) {
		t.Error("expected SetRecord to accept the current generation")
	}
}

func TestSession_SnapshotRecordReadsAbsentAsNA(t *testing.T) {
	s := NewStore(time.Hour).Create()
	s.Reset("q3.pdf", "abc", "Revenue 1 Cr")
	rec, err := finance.ParseStructured(`{"Metrics":{"Revenue":"1 Cr"}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, gen := s.Document()
	s.SetRecord(gen, prompt.Consolidated, rec)

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out struct {
		Record json.RawMessage `json:"record"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := `{"metrics":[{"name":"Revenue","value":"1 Cr"}],"segments":[],"ratios":[],"company_name":"N/A","summary":["N/A","N/A"]}`
	if string(out.Record) != want {
		t.Errorf("record JSON:\n got  %s\n want %s", out.Record, want)
	}
}
