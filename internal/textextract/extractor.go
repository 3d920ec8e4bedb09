// Package textextract turns uploaded report bytes into normalized plain
// text, memoizing results by content.
package textextract

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dgallion1/finreport/internal/failure"
	"github.com/dgallion1/finreport/internal/parser"
)

// DefaultCacheSize bounds the number of memoized documents.
const DefaultCacheSize = 10

// DefaultBoilerplate lists lines stripped from every document.
var DefaultBoilerplate = []string{"SAVITHRI"}

// ErrNoText is returned when a document parses but yields no usable text.
var ErrNoText = errors.New("no text extracted")

// Options configures an Extractor.
type Options struct {
	CacheSize            int
	Boilerplate          []string
	PDFFallbackPdftotext bool
}

// Extractor produces DocumentText from raw bytes. It is safe for
// concurrent use; the cache provides its own locking.
type Extractor struct {
	cache       *lru.Cache[string, string]
	boilerplate []string
	parserOpts  parser.Options
	log         *slog.Logger
}

// New creates an Extractor with an LRU cache of opts.CacheSize entries.
func New(opts Options, log *slog.Logger) (*Extractor, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Boilerplate == nil {
		opts.Boilerplate = DefaultBoilerplate
	}
	if log == nil {
		log = slog.Default()
	}
	cache, err := lru.New[string, string](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create text cache: %w", err)
	}
	return &Extractor{
		cache:       cache,
		boilerplate: opts.Boilerplate,
		parserOpts:  parser.Options{PDFFallbackPdftotext: opts.PDFFallbackPdftotext},
		log:         log,
	}, nil
}

// Extract returns the normalized text of data. The filename only selects
// the parser; an empty name means PDF. On failure the returned text is
// empty and the error is a failure.Extraction.
func (e *Extractor) Extract(data []byte, filename string) (string, error) {
	key := cacheKey(data, filename)
	if text, ok := e.cache.Get(key); ok {
		e.log.Debug("text cache hit", "content_hash", key[:16])
		return text, nil
	}

	p, err := parser.ForFile(filename, e.parserOpts)
	if err != nil {
		return "", e.fail(filename, err)
	}
	doc, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return "", e.fail(filename, err)
	}

	text := Normalize(doc.Text(), e.boilerplate)
	if text == "" {
		return "", e.fail(filename, ErrNoText)
	}

	e.cache.Add(key, text)
	e.log.Info("extracted document text",
		"filename", filename,
		"pages", len(doc.Pages),
		"chars", len(text),
	)
	return text, nil
}

// Len reports the number of cached documents.
func (e *Extractor) Len() int {
	return e.cache.Len()
}

// Purge empties the cache.
func (e *Extractor) Purge() {
	e.cache.Purge()
}

func (e *Extractor) fail(filename string, err error) error {
	e.log.Error("text extraction failed", "filename", filename, "error", err)
	return failure.New(failure.Extraction, "extract text", err)
}

// ContentHash returns the hex SHA-256 of data.
func ContentHash(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

func cacheKey(data []byte, filename string) string {
	ext := parser.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}
	return ContentHash(data) + ext
}

// Normalize removes boilerplate lines, drops blank and whitespace-only
// lines so runs of newlines collapse to one, and trims the result. A line
// is boilerplate only when its trimmed text equals an entry; a line that
// merely ends with one is kept whole, so no two lines are ever joined.
func Normalize(text string, boilerplate []string) string {
	drop := make(map[string]bool, len(boilerplate))
	for _, b := range boilerplate {
		if b = strings.TrimSpace(b); b != "" {
			drop[b] = true
		}
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || drop[trimmed] {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
