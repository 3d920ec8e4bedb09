// Package session keeps per-user dashboard state: the uploaded document's
// text and the last extracted record.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/finreport/internal/finance"
	"github.com/dgallion1/finreport/internal/prompt"
)

// Status represents where a session is in the upload/extract flow.
type Status string

const (
	StatusEmpty     Status = "empty"
	StatusNoText    Status = "no_text"
	StatusReady     Status = "ready"
	StatusExtracted Status = "extracted"
	StatusFailed    Status = "failed"
)

// Session is one user's working context. It is created on first upload
// and reset on every new upload.
type Session struct {
	mu sync.Mutex

	ID          string
	Filename    string
	ContentHash string
	Status      Status
	ResultType  prompt.ResultType
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Internal: not serialized.
	gen       uint64
	text      string
	record    finance.Record
	hasRecord bool
	lastError string
}

// Reset replaces the document and clears any previous record. Results
// computed against the previous document can no longer be stored.
func (s *Session) Reset(filename, contentHash, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.Filename = filename
	s.ContentHash = contentHash
	s.text = text
	s.record = finance.Record{}
	s.hasRecord = false
	s.lastError = ""
	s.Status = StatusReady
	if text == "" {
		s.Status = StatusNoText
	}
	s.UpdatedAt = time.Now()
}

// Text returns the normalized document text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Document returns the document text with its generation. The generation
// changes on every Reset.
func (s *Session) Document() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.gen
}

// SetRecord stores a successfully extracted record for document generation
// gen. It reports false and stores nothing if the document was replaced.
func (s *Session) SetRecord(gen uint64, rt prompt.ResultType, rec finance.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.ResultType = rt
	s.record = rec
	s.hasRecord = true
	s.lastError = ""
	s.Status = StatusExtracted
	s.UpdatedAt = time.Now()
	return true
}

// SetFailed records a failed extraction and drops any previous record.
// Like SetRecord it is a no-op once the document has been replaced.
func (s *Session) SetFailed(gen uint64, rt prompt.ResultType, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.ResultType = rt
	s.record = finance.Record{}
	s.hasRecord = false
	s.lastError = msg
	s.Status = StatusFailed
	s.UpdatedAt = time.Now()
	return true
}

// Record returns the last extracted record, if any.
func (s *Session) Record() (finance.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record, s.hasRecord
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID          string            `json:"session_id"`
	Filename    string            `json:"filename"`
	ContentHash string            `json:"content_hash,omitempty"`
	Status      Status            `json:"status"`
	ResultType  prompt.ResultType `json:"result_type,omitempty"`
	TextChars   int               `json:"text_chars"`
	Record      *finance.Record   `json:"record,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:          s.ID,
		Filename:    s.Filename,
		ContentHash: s.ContentHash,
		Status:      s.Status,
		ResultType:  s.ResultType,
		TextChars:   len(s.text),
		Error:       s.lastError,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.hasRecord {
		rec := s.record
		snap.Record = &rec
	}
	return snap
}

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create registers a new empty session.
func (st *Store) Create() *Session {
	now := time.Now()
	s := &Session{
		ID:         uuid.NewString(),
		Status:     StatusEmpty,
		ResultType: prompt.Consolidated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	return s
}

func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[id]
}

// Delete removes a session and reports whether it existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Cleanup removes sessions idle for longer than the TTL and returns how
// many were removed.
func (st *Store) Cleanup() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := now.Sub(s.UpdatedAt)
		s.mu.Unlock()
		if idle > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
