// Package export writes and reads tabular data as CSV or XLSX. Rows are
// slices of structs tagged with `csv:"column"`.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteCSV writes a header line followed by one line per row.
func WriteCSV(w io.Writer, rows interface{}) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("marshal csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the same table as WriteCSV into a single sheet workbook.
func WriteXLSX(w io.Writer, sheet string, rows interface{}) error {
	records, err := table(rows)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if len(records) > 0 {
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return fmt.Errorf("freeze header: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ReadCSV decodes a CSV file with a header line into out, a pointer to a slice of structs.
func ReadCSV(r io.Reader, out interface{}) error {
	if err := gocsv.Unmarshal(r, out); err != nil {
		return fmt.Errorf("unmarshal csv: %w", err)
	}
	return nil
}

// ReadXLSX decodes the first sheet of a workbook the same way ReadCSV decodes a file.
func ReadXLSX(r io.Reader, out interface{}) error {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return fmt.Errorf("read xlsx rows: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("workbook has no rows")
	}

	// GetRows trims trailing empty cells; pad to the header width.
	width := len(rows[0])
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	for _, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		if err := cw.Write(row[:width]); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return ReadCSV(&buf, out)
}

// table renders rows through gocsv so CSV and XLSX share column names and formatting.
func table(rows interface{}) ([][]string, error) {
	var buf bytes.Buffer
	if err := gocsv.Marshal(rows, &buf); err != nil {
		return nil, fmt.Errorf("marshal rows: %w", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read marshalled rows: %w", err)
	}
	return records, nil
}
