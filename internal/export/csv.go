package export

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/dgallion1/finreport/internal/finance"
)

// ToCSV renders the record as CSV text with "\n" line endings.
func ToCSV(rec finance.Record) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.WriteAll(Rows(rec)); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return sb.String(), nil
}
