package domain

import "errors"

var (
	// ErrMalformedFile is returned when uploaded bytes cannot be parsed as a
	// spreadsheet
	ErrMalformedFile = errors.New("file is not a readable spreadsheet")

	// ErrSheetNotFound is returned when the requested sheet is absent from
	// the uploaded workbook
	ErrSheetNotFound = errors.New("sheet not found in workbook")

	// ErrValidationFailed is returned when sheet contents violate the import
	// rules (missing columns, empty cells, non-numeric prices)
	ErrValidationFailed = errors.New("sheet validation failed")

	// ErrProductNotFound is returned when no product exists for the given id
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidInput is returned when request parameters are invalid
	ErrInvalidInput = errors.New("invalid request parameters")
)
