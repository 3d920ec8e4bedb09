package parser

import (
	"bufio"
	"io"
)

// TextParser handles plain text files. The whole file is one page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var s sections
	for scanner.Scan() {
		s.current.WriteString(scanner.Text())
		s.current.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s.document(), nil
}
