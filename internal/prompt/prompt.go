// Package prompt builds the two model prompts: structured extraction of
// financial figures and free-form questions about a report.
package prompt

import (
	"fmt"
	"strings"
)

// ResultType selects which statement variant the extraction targets.
type ResultType string

const (
	Consolidated ResultType = "Consolidated"
	Standalone   ResultType = "Standalone"
)

// ResultTypes lists the selectable result types in display order.
var ResultTypes = []ResultType{Consolidated, Standalone}

func (r ResultType) String() string { return string(r) }

// ParseResultType accepts either result type case-insensitively. An empty
// string selects Consolidated.
func ParseResultType(s string) (ResultType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "consolidated":
		return Consolidated, nil
	case "standalone":
		return Standalone, nil
	default:
		return "", fmt.Errorf("unknown result type %q", s)
	}
}

const (
	// DefaultPeriod is the reporting period named in extraction prompts.
	DefaultPeriod = "the quarter ended 31 Dec'24"
)

// DefaultSegments are the business segments requested by default.
var DefaultSegments = []string{
	"Oil to Chemicals",
	"Oil and Gas",
	"Retail",
	"Digital Services",
	"Others",
}

// Builder holds the fixed parts of the extraction template.
type Builder struct {
	Period   string
	Segments []string
}

// DefaultBuilder returns a Builder with the default period and segments.
func DefaultBuilder() Builder {
	return Builder{Period: DefaultPeriod, Segments: DefaultSegments}
}

const extractionRules = `Ensure exact numerical values with their scale (Cr, Lakh, Thousand) exactly as written in the text.
Do not infer, estimate or calculate any value. Every value must be a string that carries its unit or scale.
Include:
- Revenue (Value of Sales & Services after GST, in Cr)
- Operating Profit (Total Segment Profit before Interest Tax and Depreciation, in Cr)
- Net Profit (Profit After Tax and Share of Profit/Loss of Associates and Joint Ventures, in Cr)
- Sales (Gross Value of Sales and Services before Inter Segment Transfers, in Cr)
- EPS (Earnings per Share, Basic, in ₹)
- Segment-wise Revenue and EBIT for: %s
- Ratios: Debt Equity Ratio, Net Profit Margin (%%), Return on Equity (%%)
- Year-over-Year Growth for Net Profit (%%)
- Company Name and a 2-line summary

Return a single JSON object and nothing else, in exactly this shape:
%s

If a value is missing, use "N/A".`

// BuildExtractionPrompt returns the structured-extraction prompt for text.
// The document text is embedded verbatim.
func (b Builder) BuildExtractionPrompt(text string, rt ResultType) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Extract financial metrics from the text for %s results for %s.\n", rt, b.period())
	fmt.Fprintf(&sb, extractionRules, strings.Join(b.segments(), ", "), b.jsonShape())
	sb.WriteString("\n\nText:\n")
	sb.WriteString(text)
	return sb.String()
}

const queryRules = `Using the provided financial document text, answer the user's query with exact values and their scale (e.g., Cr, Lakh, Thousand) directly from the text. Do not infer or estimate values. If the value is not explicitly stated, return "Not available in the document." Provide a concise answer (1-2 sentences max).`

// BuildQueryPrompt returns the question-answering prompt for text.
func (b Builder) BuildQueryPrompt(text, question string) string {
	var sb strings.Builder
	sb.WriteString(queryRules)
	sb.WriteString("\n\nUser Query: ")
	sb.WriteString(question)
	sb.WriteString("\nDocument Text:\n")
	sb.WriteString(text)
	return sb.String()
}

func (b Builder) period() string {
	if b.Period == "" {
		return DefaultPeriod
	}
	return b.Period
}

func (b Builder) segments() []string {
	if len(b.Segments) == 0 {
		return DefaultSegments
	}
	return b.Segments
}

// jsonShape renders the expected response object with placeholder values.
func (b Builder) jsonShape() string {
	segs := make([]string, 0, len(b.segments()))
	for _, s := range b.segments() {
		segs = append(segs, fmt.Sprintf(`%q: {"Revenue": "value Cr", "EBIT": "value Cr"}`, s))
	}
	return `{
  "Metrics": {"Revenue": "value Cr", "Operating Profit": "value Cr", "Net Profit": "value Cr", "Sales": "value Cr", "EPS": "value", "YoY Net Profit Growth": "value %"},
  "Segments": {` + strings.Join(segs, ", ") + `},
  "Ratios": {"Debt Equity Ratio": "value", "Net Profit Margin": "value %", "Return on Equity": "value %"},
  "Company Name": "Company Name",
  "Summary": ["Line 1", "Line 2"]
}`
}
