package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Document is the text of an uploaded report, split into pages or sections.
type Document struct {
	Pages []string
}

// Text joins all pages with a newline. Pages that yielded nothing still
// contribute an empty line so page boundaries stay visible.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	return strings.Join(d.Pages, "\n")
}

// Parser converts raw document bytes into page text.
type Parser interface {
	Parse(r io.Reader) (*Document, error)
}

// Options tune parser construction.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".docx":     true,
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".txt":      true,
	".csv":      true,
}

// ForFile returns the appropriate parser for a filename. A name without an
// extension is treated as a PDF, since that is what the dashboard accepts.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := Ext(filename)
	switch ext {
	case "", ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// Ext returns the lower-cased extension of filename.
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := Ext(filename)
	return ext == "" || SupportedExtensions[ext]
}

// sections collects heading-delimited blocks of text for the structured
// formats. Each heading starts a new page-like section.
type sections struct {
	pages   []string
	current strings.Builder
}

func (s *sections) heading(title string) {
	s.flush()
	s.current.WriteString(title)
}

func (s *sections) text(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if s.current.Len() > 0 {
		s.current.WriteString("\n")
	}
	s.current.WriteString(t)
}

func (s *sections) flush() {
	if t := strings.TrimSpace(s.current.String()); t != "" {
		s.pages = append(s.pages, t)
	}
	s.current.Reset()
}

func (s *sections) document() *Document {
	s.flush()
	return &Document{Pages: s.pages}
}
