// Package export renders a financial record as a downloadable report.
package export

import "github.com/dgallion1/finreport/internal/finance"

// Default download filenames.
const (
	Filename     = "financial_report.csv"
	XLSXFilename = "financial_report.xlsx"
)

// Rows lays the record out as report rows: metrics, segments, ratios,
// company name and summary, each section followed by an empty row. Section
// headers are always present even when a section has no entries.
func Rows(rec finance.Record) [][]string {
	rows := [][]string{
		{"Financial Metrics"},
		{"Metric", "Value"},
	}
	for _, e := range rec.Metrics {
		rows = append(rows, []string{e.Name, e.Value})
	}

	rows = append(rows,
		[]string{},
		[]string{"Segment Information"},
		[]string{"Segment", "Revenue", "EBIT"},
	)
	for _, s := range rec.Segments {
		rows = append(rows, []string{s.Name, s.Revenue, s.EBIT})
	}

	rows = append(rows,
		[]string{},
		[]string{"Financial Ratios"},
		[]string{"Ratio", "Value"},
	)
	for _, e := range rec.Ratios {
		rows = append(rows, []string{e.Name, e.Value})
	}

	summary := rec.SummaryLines()
	rows = append(rows,
		[]string{},
		[]string{"Company Name", rec.Company()},
		[]string{"Summary", summary[0]},
		[]string{"", summary[1]},
	)
	return rows
}
