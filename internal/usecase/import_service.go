package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/prodcat/backend/internal/domain"
)

// Progress checkpoints broadcast during an import. The labels are part of
// the streaming contract consumed by the frontend.
const (
	stepValidatingColumns = "Validando columnas"
	stepValidatingValues  = "Validando valores"
	stepImporting         = "Importando"
	stepCompleted         = "Completado"
)

const eventImportCompleted = "import_completed"

// defaultPreviewRows caps how many rows PreviewSheet returns.
const defaultPreviewRows = 10

// ImportServiceConfig holds configuration for the import service.
type ImportServiceConfig struct {
	PreviewRows int
}

// ImportService orchestrates the spreadsheet import pipeline: parse the
// upload, validate the selected sheet wholesale, then create one product per
// row sequentially while broadcasting progress checkpoints.
type ImportService struct {
	parser      domain.WorkbookParser
	repo        domain.ProductRepository
	notifier    domain.ProgressNotifier
	events      domain.EventLog
	logger      *zap.Logger
	previewRows int
}

// NewImportService creates an import service with its dependencies.
func NewImportService(
	parser domain.WorkbookParser,
	repo domain.ProductRepository,
	notifier domain.ProgressNotifier,
	events domain.EventLog,
	logger *zap.Logger,
	config ImportServiceConfig,
) *ImportService {
	previewRows := config.PreviewRows
	if previewRows <= 0 {
		previewRows = defaultPreviewRows
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ImportService{
		parser:      parser,
		repo:        repo,
		notifier:    notifier,
		events:      events,
		logger:      logger,
		previewRows: previewRows,
	}
}

// Load parses raw upload bytes into a workbook. It returns
// domain.ErrMalformedFile (wrapped) when the bytes are not a readable
// spreadsheet. No side effects.
func (s *ImportService) Load(data []byte) (*domain.Workbook, error) {
	return s.parser.Parse(data)
}

// ListSheets returns the workbook's sheet names in file order.
func (s *ImportService) ListSheets(wb *domain.Workbook) []string {
	return wb.SheetNames()
}

// PreviewSheet returns up to the configured number of rows from the named
// sheet. Row keys are the sheet's normalized column names and missing cells
// come back as empty strings.
func (s *ImportService) PreviewSheet(wb *domain.Workbook, sheetName string) ([]map[string]string, error) {
	sheet, ok := wb.Sheet(sheetName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrSheetNotFound, sheetName)
	}

	limit := s.previewRows
	if limit > len(sheet.Rows) {
		limit = len(sheet.Rows)
	}

	preview := make([]map[string]string, 0, limit)
	preview = append(preview, sheet.Rows[:limit]...)
	return preview, nil
}

// ImportSheet validates the named sheet and creates one product per data
// row, in row order, returning the number of products created.
//
// Validation is wholesale: any rule failure aborts before the first create,
// so a failed validation means zero rows were inserted. A repository failure
// mid-iteration stops the import immediately; rows already created are
// retained (no rollback). The completion entry in the event log is
// best-effort and never fails an otherwise-successful import.
func (s *ImportService) ImportSheet(ctx context.Context, wb *domain.Workbook, sheetName string) (int, error) {
	sheet, ok := wb.Sheet(sheetName)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrSheetNotFound, sheetName)
	}

	s.notify(stepValidatingColumns, 10)
	if err := ValidateColumns(sheet); err != nil {
		return 0, err
	}

	s.notify(stepValidatingValues, 20)
	if err := ValidateSheet(sheet); err != nil {
		return 0, err
	}

	s.notify(stepImporting, 40)

	created := 0
	for i, row := range sheet.Rows {
		price, err := strconv.ParseFloat(strings.TrimSpace(row[priceColumn]), 64)
		if err != nil || price < 0 {
			// Unreachable after ValidateSheet, but a bad price here must not
			// insert an invariant-violating row.
			return created, fmt.Errorf("%w: column %q at data row %d",
				domain.ErrValidationFailed, priceColumn, i+1)
		}

		input := domain.ProductInput{
			Name:        row["name"],
			Description: row["description"],
			Price:       price,
		}

		if _, err := s.repo.Create(ctx, input); err != nil {
			s.logger.Error("import aborted on row create",
				zap.String("sheet", sheetName),
				zap.Int("row", i+1),
				zap.Int("created", created),
				zap.Error(err))
			return created, fmt.Errorf("creating product from row %d: %w", i+1, err)
		}
		created++
	}

	s.notify(stepCompleted, 100)

	if err := s.events.Append(eventImportCompleted, map[string]any{
		"sheet": sheetName,
		"count": created,
	}); err != nil {
		// Audit logging is observability-only: never fail the import for it.
		s.logger.Warn("failed to append import log entry",
			zap.String("sheet", sheetName),
			zap.Error(err))
	}

	return created, nil
}

// notify broadcasts a progress checkpoint. Delivery is fire-and-forget.
func (s *ImportService) notify(step string, progress int) {
	s.notifier.Broadcast(domain.ProgressEvent{Step: step, Progress: progress})
}
