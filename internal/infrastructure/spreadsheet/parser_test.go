package spreadsheet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/prodcat/backend/internal/domain"
)

// buildWorkbook creates an xlsx file in memory. Each sheet maps to a header
// row followed by data rows.
func buildWorkbook(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParser_Parse(t *testing.T) {
	parser := NewParser()

	t.Run("parses sheets with normalized columns", func(t *testing.T) {
		data := buildWorkbook(t, map[string][][]any{
			"Stock": {
				{" Name ", "DESCRIPTION", "Price "},
				{"Keyboard", "Mechanical", 59.9},
				{"Mouse", "Wireless", 25},
			},
		})

		wb, err := parser.Parse(data)
		require.NoError(t, err)
		require.Equal(t, []string{"Stock"}, wb.SheetNames())

		sheet, ok := wb.Sheet("Stock")
		require.True(t, ok)
		assert.Equal(t, []string{"name", "description", "price"}, sheet.Columns)
		require.Len(t, sheet.Rows, 2)
		assert.Equal(t, "Keyboard", sheet.Rows[0]["name"])
		assert.Equal(t, "Wireless", sheet.Rows[1]["description"])
		assert.Equal(t, "25", sheet.Rows[1]["price"])
	})

	t.Run("fills missing trailing cells with empty strings", func(t *testing.T) {
		data := buildWorkbook(t, map[string][][]any{
			"Products": {
				{"name", "description", "price"},
				{"Keyboard"},
			},
		})

		wb, err := parser.Parse(data)
		require.NoError(t, err)

		sheet, ok := wb.Sheet("Products")
		require.True(t, ok)
		require.Len(t, sheet.Rows, 1)
		assert.Equal(t, "Keyboard", sheet.Rows[0]["name"])
		assert.Equal(t, "", sheet.Rows[0]["description"])
		assert.Equal(t, "", sheet.Rows[0]["price"])
	})

	t.Run("skips fully empty rows", func(t *testing.T) {
		data := buildWorkbook(t, map[string][][]any{
			"Products": {
				{"name", "description", "price"},
				{"Keyboard", "Mechanical", 10},
				{"", "", ""},
				{"Mouse", "Wireless", 20},
			},
		})

		wb, err := parser.Parse(data)
		require.NoError(t, err)

		sheet, _ := wb.Sheet("Products")
		require.Len(t, sheet.Rows, 2)
		assert.Equal(t, "Mouse", sheet.Rows[1]["name"])
	})

	t.Run("keeps cell alignment across a blank header", func(t *testing.T) {
		data := buildWorkbook(t, map[string][][]any{
			"Products": {
				{"name", "", "description", "price"},
				{"Keyboard", "SKU-1", "Mechanical", 59.9},
			},
		})

		wb, err := parser.Parse(data)
		require.NoError(t, err)

		sheet, ok := wb.Sheet("Products")
		require.True(t, ok)
		assert.Equal(t, []string{"name", "description", "price"}, sheet.Columns)
		require.Len(t, sheet.Rows, 1)
		assert.Equal(t, "Keyboard", sheet.Rows[0]["name"])
		assert.Equal(t, "Mechanical", sheet.Rows[0]["description"])
		assert.Equal(t, "59.9", sheet.Rows[0]["price"])
	})

	t.Run("duplicate normalized headers keep the first occurrence", func(t *testing.T) {
		data := buildWorkbook(t, map[string][][]any{
			"Products": {
				{"Name", "name ", "description", "price"},
				{"Keyboard", "dup", "Mechanical", 59.9},
			},
		})

		wb, err := parser.Parse(data)
		require.NoError(t, err)

		sheet, ok := wb.Sheet("Products")
		require.True(t, ok)
		assert.Equal(t, []string{"name", "description", "price"}, sheet.Columns)
		require.Len(t, sheet.Rows, 1)
		assert.Equal(t, "Keyboard", sheet.Rows[0]["name"])
		assert.Equal(t, "Mechanical", sheet.Rows[0]["description"])
	})

	t.Run("keeps sheet order from the file", func(t *testing.T) {
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetName("Sheet1", "First"))
		_, err := f.NewSheet("Second")
		require.NoError(t, err)
		_, err = f.NewSheet("Third")
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))

		wb, err := parser.Parse(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, []string{"First", "Second", "Third"}, wb.SheetNames())
	})

	t.Run("handles a sheet with only a header", func(t *testing.T) {
		data := buildWorkbook(t, map[string][][]any{
			"Products": {
				{"name", "description", "price"},
			},
		})

		wb, err := parser.Parse(data)
		require.NoError(t, err)

		sheet, _ := wb.Sheet("Products")
		assert.Equal(t, []string{"name", "description", "price"}, sheet.Columns)
		assert.Empty(t, sheet.Rows)
	})

	t.Run("rejects bytes that are not a spreadsheet", func(t *testing.T) {
		_, err := parser.Parse([]byte("definitely not an xlsx file"))
		assert.True(t, errors.Is(err, domain.ErrMalformedFile), "error = %v, want ErrMalformedFile", err)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := parser.Parse(nil)
		assert.True(t, errors.Is(err, domain.ErrMalformedFile), "error = %v, want ErrMalformedFile", err)
	})
}
