package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/finreport/internal/finance"
)

// Sheet is the worksheet name used by ToXLSX.
const Sheet = "Report"

// ToXLSX renders the same rows as ToCSV into a single-sheet workbook.
func ToXLSX(rec finance.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	for i, row := range Rows(rec) {
		r := i + 1
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, r)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(Sheet, cell, v); err != nil {
				return nil, fmt.Errorf("set %s: %w", cell, err)
			}
		}
		if len(row) == 1 {
			cell, _ := excelize.CoordinatesToCellName(1, r)
			_ = f.SetCellStyle(Sheet, cell, cell, bold)
		}
	}
	_ = f.SetColWidth(Sheet, "A", "A", 28)
	_ = f.SetColWidth(Sheet, "B", "C", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
