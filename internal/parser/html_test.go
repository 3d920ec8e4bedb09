package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_SectionsAndTables(t *testing.T) {
	input := `<html><head><title>Q3</title><style>body{}</style></head>
<body>
<h1>Financial Results</h1>
<p>Quarter ended   31 Dec'24</p>
<script>var x = 1;</script>
<h2>Segments</h2>
<table>
  <tr><th>Segment</th><th>Revenue</th></tr>
  <tr><td>Retail</td><td>90,351 Cr</td></tr>
</table>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("expected 2 sections, got %d: %q", len(doc.Pages), doc.Pages)
	}
	if doc.Pages[0] != "Financial Results\nQuarter ended 31 Dec'24" {
		t.Errorf("unexpected first section %q", doc.Pages[0])
	}
	if doc.Pages[1] != "Segments\nSegment Revenue\nRetail 90,351 Cr" {
		t.Errorf("unexpected second section %q", doc.Pages[1])
	}
	if strings.Contains(doc.Text(), "var x") {
		t.Error("expected script content to be skipped")
	}
}
