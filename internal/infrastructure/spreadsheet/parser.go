// Package spreadsheet parses uploaded Excel workbooks into the domain
// workbook model using excelize.
package spreadsheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/prodcat/backend/internal/domain"
)

// Parser converts raw .xlsx/.xls upload bytes into a domain.Workbook.
type Parser struct{}

// NewParser creates a workbook parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the whole workbook into memory. The first row of each sheet is
// treated as the header; header names are normalized (lower-cased, trimmed)
// and rows are materialized as column->value maps with "" for missing cells.
// Returns domain.ErrMalformedFile (wrapped) when the bytes are not a
// readable spreadsheet.
func (p *Parser) Parse(data []byte) (*domain.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedFile, err)
	}
	defer f.Close()

	wb := &domain.Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: reading sheet %q: %v", domain.ErrMalformedFile, name, err)
		}
		wb.Sheets = append(wb.Sheets, buildSheet(name, rows))
	}

	return wb, nil
}

// buildSheet projects raw cell rows onto the normalized sheet model. Each
// kept column remembers its original cell index so data stays aligned when
// header cells are skipped.
func buildSheet(name string, rows [][]string) domain.Sheet {
	sheet := domain.Sheet{Name: name}
	if len(rows) == 0 {
		return sheet
	}

	var cellIndex []int
	seen := make(map[string]bool)
	for i, header := range rows[0] {
		col := normalizeColumn(header)
		if col == "" {
			// Headerless columns carry no addressable data.
			continue
		}
		if seen[col] {
			// A duplicated header keeps its first occurrence.
			continue
		}
		seen[col] = true
		sheet.Columns = append(sheet.Columns, col)
		cellIndex = append(cellIndex, i)
	}

	for _, raw := range rows[1:] {
		if isEmptyRow(raw) {
			continue
		}
		row := make(map[string]string, len(sheet.Columns))
		for i, col := range sheet.Columns {
			if cell := cellIndex[i]; cell < len(raw) {
				row[col] = raw[cell]
			} else {
				row[col] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet
}

// normalizeColumn lower-cases and trims a header cell.
func normalizeColumn(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// isEmptyRow reports whether every cell in the row is blank. Trailing blank
// rows are a common spreadsheet artifact and are not data.
func isEmptyRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
