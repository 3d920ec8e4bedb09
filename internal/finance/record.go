// Package finance holds the structured financial record extracted from a
// model response and the parser that produces it.
package finance

import (
	"encoding/json"

	"github.com/dgallion1/finreport/internal/failure"
)

// Metric names requested by the extraction prompt.
const (
	MetricRevenue         = "Revenue"
	MetricOperatingProfit = "Operating Profit"
	MetricNetProfit       = "Net Profit"
	MetricSales           = "Sales"
	MetricEPS             = "EPS"
	MetricYoYGrowth       = "YoY Net Profit Growth"
)

// Ratio names requested by the extraction prompt.
const (
	RatioDebtEquity      = "Debt Equity Ratio"
	RatioNetProfitMargin = "Net Profit Margin"
	RatioReturnOnEquity  = "Return on Equity"
)

// Top-level keys of the response object.
const (
	keyMetrics  = "Metrics"
	keySegments = "Segments"
	keyRatios   = "Ratios"
	keyCompany  = "Company Name"
	keySummary  = "Summary"
)

// Entry is one named value, such as a metric or a ratio.
type Entry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Segment is one business segment's revenue and EBIT.
type Segment struct {
	Name    string `json:"name"`
	Revenue string `json:"revenue"`
	EBIT    string `json:"ebit"`
}

// Record is a parsed extraction result. Entries keep the order in which
// the model emitted them. Every value is display text; absent values read
// as failure.NA through the accessors.
type Record struct {
	Metrics     []Entry   `json:"metrics"`
	Segments    []Segment `json:"segments"`
	Ratios      []Entry   `json:"ratios"`
	CompanyName string    `json:"company_name"`
	Summary     []string  `json:"summary"`

	hasCompany bool
	keys       int
}

// IsEmpty reports whether the record came from no object, or from an
// object without any keys.
func (r Record) IsEmpty() bool { return r.keys == 0 }

// Metric returns the named metric or "N/A".
func (r Record) Metric(name string) string { return lookup(r.Metrics, name) }

// Ratio returns the named ratio or "N/A".
func (r Record) Ratio(name string) string { return lookup(r.Ratios, name) }

// Segment returns the named segment. Missing segments report ok=false
// with both values "N/A".
func (r Record) Segment(name string) (Segment, bool) {
	for _, s := range r.Segments {
		if s.Name == name {
			return s, true
		}
	}
	return Segment{Name: name, Revenue: failure.NA, EBIT: failure.NA}, false
}

// Company returns the company name or "N/A".
func (r Record) Company() string {
	if !r.hasCompany {
		return failure.NA
	}
	return r.CompanyName
}

// SummaryLines returns exactly two summary lines, padding with "N/A".
func (r Record) SummaryLines() [2]string {
	lines := [2]string{failure.NA, failure.NA}
	for i := 0; i < len(r.Summary) && i < len(lines); i++ {
		lines[i] = r.Summary[i]
	}
	return lines
}

// MarshalJSON encodes the record the way every other consumer reads it:
// a missing company name is "N/A", the summary has at least two lines
// and absent sections are empty arrays.
func (r Record) MarshalJSON() ([]byte, error) {
	summary := r.Summary
	if len(summary) < 2 {
		lines := r.SummaryLines()
		summary = lines[:]
	}
	return json.Marshal(struct {
		Metrics     []Entry   `json:"metrics"`
		Segments    []Segment `json:"segments"`
		Ratios      []Entry   `json:"ratios"`
		CompanyName string    `json:"company_name"`
		Summary     []string  `json:"summary"`
	}{
		Metrics:     nonNil(r.Metrics),
		Segments:    nonNil(r.Segments),
		Ratios:      nonNil(r.Ratios),
		CompanyName: r.Company(),
		Summary:     summary,
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func lookup(entries []Entry, name string) string {
	for _, e := range entries {
		if e.Name == name {
			return e.Value
		}
	}
	return failure.NA
}

// upsert replaces an existing entry's value in place, keeping the position
// of the first occurrence.
func upsert(entries []Entry, e Entry) []Entry {
	for i := range entries {
		if entries[i].Name == e.Name {
			entries[i].Value = e.Value
			return entries
		}
	}
	return append(entries, e)
}
