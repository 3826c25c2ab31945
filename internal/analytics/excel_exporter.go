package analytics

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Engagement"

// ExportSummaryExcel renders the summary as a spreadsheet for athletes who
// want to share their numbers with counselors.
func ExportSummaryExcel(summary *Summary) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", exportSheet)

	headers := []string{"Day", "Profile Views", "Media Plays", "Contact Reveals"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
		file.SetCellStyle(exportSheet, "A1", lastCol, headerStyle)
	}

	for rowIdx, day := range summary.Days {
		row := rowIdx + 2
		values := []interface{}{
			day.Day.Format("2006-01-02"),
			day.ProfileViews,
			day.MediaPlays,
			day.ContactReveals,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			if err := file.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	totalRow := len(summary.Days) + 2
	totals := []interface{}{
		"Total",
		summary.Totals.ProfileViews,
		summary.Totals.MediaPlays,
		summary.Totals.ContactReveals,
	}
	for colIdx, value := range totals {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, totalRow)
		if err := file.SetCellValue(exportSheet, cell, value); err != nil {
			return nil, fmt.Errorf("failed to write totals: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
