package finance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/finreport/internal/failure"
)

const maxValueLen = 120

var (
	bareNumber = regexp.MustCompile(`^[-+]?[\d,]*\.?\d+$`)

	injectionPattern = regexp.MustCompile(
		`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
			`act\s+as\s+|pretend\s+|forget\s+(everything|all)|override|` +
			`new\s+instructions)`,
	)
)

// Review lists values that break the record's conventions: numbers
// without a unit, overlong values and summary lines that read like
// instructions. Like CheckShape it only informs; the record is unchanged.
func Review(r Record) []string {
	var issues []string
	check := func(where, v string) {
		v = strings.TrimSpace(v)
		switch {
		case v == failure.NA || v == failure.NotAvailable:
		case v == "":
			issues = append(issues, fmt.Sprintf("%s: empty value", where))
		case bareNumber.MatchString(v) && where != "Metrics/"+MetricEPS:
			issues = append(issues, fmt.Sprintf("%s: %q has no unit", where, v))
		case len(v) > maxValueLen:
			issues = append(issues, fmt.Sprintf("%s: value longer than %d bytes", where, maxValueLen))
		}
	}
	for _, e := range r.Metrics {
		check("Metrics/"+e.Name, e.Value)
	}
	for _, s := range r.Segments {
		check("Segments/"+s.Name+"/Revenue", s.Revenue)
		check("Segments/"+s.Name+"/EBIT", s.EBIT)
	}
	for _, e := range r.Ratios {
		if e.Name == RatioDebtEquity {
			continue
		}
		check("Ratios/"+e.Name, e.Value)
	}
	for i, line := range r.Summary {
		if injectionPattern.MatchString(line) {
			issues = append(issues, fmt.Sprintf("Summary/%d: suspicious instruction-like text", i))
		}
	}
	return issues
}
