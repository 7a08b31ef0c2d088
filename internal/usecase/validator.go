package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prodcat/backend/internal/domain"
)

// requiredColumns are the normalized column names every importable sheet
// must carry.
var requiredColumns = []string{"name", "description", "price"}

const priceColumn = "price"

// ValidateColumns checks that the sheet's normalized column set is a
// superset of the required columns. It runs before any cell inspection so
// the value checks can assume the columns exist.
func ValidateColumns(sheet *domain.Sheet) error {
	present := make(map[string]bool, len(sheet.Columns))
	for _, col := range sheet.Columns {
		present[col] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: sheet must contain columns %s (missing: %s)",
			domain.ErrValidationFailed,
			strings.Join(requiredColumns, ", "),
			strings.Join(missing, ", "))
	}
	return nil
}

// ValidateNoEmptyValues checks that no cell in the sheet is empty.
func ValidateNoEmptyValues(sheet *domain.Sheet) error {
	for i, row := range sheet.Rows {
		for _, col := range sheet.Columns {
			if strings.TrimSpace(row[col]) == "" {
				return fmt.Errorf("%w: empty value in column %q at data row %d",
					domain.ErrValidationFailed, col, i+1)
			}
		}
	}
	return nil
}

// ValidateNumericPrice checks that every value in the price column parses as
// a non-negative floating-point number.
func ValidateNumericPrice(sheet *domain.Sheet) error {
	for i, row := range sheet.Rows {
		price, err := strconv.ParseFloat(strings.TrimSpace(row[priceColumn]), 64)
		if err != nil {
			return fmt.Errorf("%w: column %q contains non-numeric value %q at data row %d",
				domain.ErrValidationFailed, priceColumn, row[priceColumn], i+1)
		}
		if price < 0 {
			return fmt.Errorf("%w: column %q contains negative value %q at data row %d",
				domain.ErrValidationFailed, priceColumn, row[priceColumn], i+1)
		}
	}
	return nil
}

// ValidateSheet runs all sheet checks in fixed order: column presence, then
// empty values, then numeric prices. It stops at the first failure. The
// whole sheet is validated before any row is imported, so a failure here
// means zero products were created.
func ValidateSheet(sheet *domain.Sheet) error {
	if err := ValidateColumns(sheet); err != nil {
		return err
	}
	if err := ValidateNoEmptyValues(sheet); err != nil {
		return err
	}
	return ValidateNumericPrice(sheet)
}
