package excel

import (
	"fmt"

	"clientportal/domain/tabular"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook renders a sheet into a single-tab .xlsx workbook. Headers go
// in row 1 in sheet order, each data row below in source order.
func WriteWorkbook(sheetName string, s tabular.Sheet) ([]byte, error) {
	if sheetName == "" {
		sheetName = "Results"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, header := range s.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("invalid header coordinate: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header %q: %w", header, err)
		}
	}

	if len(s.Headers) > 0 {
		styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err == nil {
			last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1)
			_ = f.SetCellStyle(sheetName, "A1", last, styleID)
		}
	}

	for i, row := range s.Rows {
		for col, header := range s.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("invalid cell coordinate: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, row[header]); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
