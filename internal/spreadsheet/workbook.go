// Package spreadsheet reads and writes the xlsx workbooks exchanged with users and used as
// the file-based system of record.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of xlsx downloads.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Build creates a single-sheet workbook holding header followed by rows.
// The caller owns the returned file and must Close it.
func Build(sheet string, header []string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()

	defaultSheet := f.GetSheetName(0)
	if defaultSheet != sheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("rename sheet %s: %w", sheet, err)
		}
	}

	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}

	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

// Write serializes a single-sheet workbook into w.
func Write(w io.Writer, sheet string, header []string, rows [][]interface{}) error {
	f, err := Build(sheet, header, rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Read returns the raw rows of the first sheet of the workbook in r, header included.
func Read(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return firstSheetRows(f)
}

// ReadFile is Read for a workbook on disk.
func ReadFile(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	return firstSheetRows(f)
}

func firstSheetRows(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}
