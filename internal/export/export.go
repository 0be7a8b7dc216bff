// Package export writes a filtered record view as a downloadable table,
// matching the dashboard's "download data" action.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ole-nepal/epustakalaya-browser/internal/catalog"
)

const sheetName = "Contents"

// columns is the export column order; names match the record's JSON field
// names so the download lines up with the API payload.
var columns = []string{
	"content_id", "title", "type", "grade", "subject", "chapter",
	"name", "file_id", "content_link", "content_source",
}

func row(rec catalog.ContentRecord) []string {
	return []string{
		rec.ContentID, rec.Title, rec.Type, rec.Grade, rec.Subject,
		rec.Chapter, rec.Name, rec.FileID, rec.ContentLink, rec.ContentSource,
	}
}

// CSV writes the records as comma-separated values with a header row.
func CSV(w io.Writer, records []catalog.ContentRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// XLSX writes the records as a single-sheet workbook with a bold header.
func XLSX(w io.Writer, records []catalog.ContentRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("writing header cell: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, rec := range records {
		for col, v := range row(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("writing row %d: %w", i+2, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
