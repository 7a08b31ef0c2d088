package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prodcat/backend/internal/domain"
	"github.com/prodcat/backend/internal/infrastructure/progress"
	"github.com/prodcat/backend/internal/usecase"
)

// spreadsheetExtensions are the upload filename suffixes accepted by the
// upload endpoint.
var spreadsheetExtensions = []string{".xlsx", ".xls", ".xlsm"}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products *usecase.ProductService
	importer *usecase.ImportService
	hub      *progress.Hub
	events   domain.EventLog
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	products *usecase.ProductService,
	importer *usecase.ImportService,
	hub *progress.Hub,
	events domain.EventLog,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		products: products,
		importer: importer,
		hub:      hub,
		events:   events,
		logger:   logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "prodcat-backend",
		"version": "1.0.0",
	})
}

// ---------------------------------------------------------------------------
// Response envelope
// ---------------------------------------------------------------------------

// envelope is the standard {message, status, data} response wrapper.
type envelope struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
}

func respond(c *gin.Context, code int, message string, data any) {
	c.JSON(code, envelope{Message: message, Status: "success", Data: data})
}

// respondError maps domain errors onto HTTP status codes. Client errors
// carry the error detail so callers can correct their input; repository and
// other internal failures are reported generically.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrMalformedFile),
		errors.Is(err, domain.ErrSheetNotFound),
		errors.Is(err, domain.ErrValidationFailed),
		errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, envelope{Message: err.Error(), Status: "error"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, envelope{Message: "Product not found", Status: "error"})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, envelope{Message: "Internal server error", Status: "error"})
	}
}

// ---------------------------------------------------------------------------
// Product CRUD
// ---------------------------------------------------------------------------

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(c *gin.Context) {
	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	created, err := h.products.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Product created successfully", created)
}

// ListProducts handles GET /products with skip/limit pagination
func (h *Handler) ListProducts(c *gin.Context) {
	skip, err := parseQueryInt(c, "skip", 0, 0)
	if err != nil {
		h.respondError(c, err)
		return
	}
	limit, err := parseQueryInt(c, "limit", 20000, 1)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if limit > 50000 {
		limit = 50000
	}

	products, err := h.products.List(c.Request.Context(), skip, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Products fetched successfully", products)
}

// GetProduct handles GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product fetched successfully", product)
}

// UpdateProduct handles PUT /products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var patch domain.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	updated, err := h.products.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product updated successfully", updated)
}

// DeleteProduct handles DELETE /products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product deleted successfully", nil)
}

// ---------------------------------------------------------------------------
// Excel import
// ---------------------------------------------------------------------------

// ListSheets handles POST /excel/sheets: returns the workbook's sheet names.
func (h *Handler) ListSheets(c *gin.Context) {
	data, _, err := readUploadFile(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	wb, err := h.importer.Load(data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sheets": h.importer.ListSheets(wb)})
}

// PreviewSheet handles POST /excel/preview/:sheet: returns the first rows of
// the named sheet.
func (h *Handler) PreviewSheet(c *gin.Context) {
	data, _, err := readUploadFile(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	wb, err := h.importer.Load(data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	preview, err := h.importer.PreviewSheet(wb, c.Param("sheet"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

// ImportSheet handles POST /excel/import/:sheet: imports the named sheet as
// products.
func (h *Handler) ImportSheet(c *gin.Context) {
	data, _, err := readUploadFile(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	wb, err := h.importer.Load(data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	count, err := h.importer.ImportSheet(c.Request.Context(), wb, c.Param("sheet"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("%d products imported", count), gin.H{"count": count})
}

// Upload handles POST /excel/upload: imports the first sheet of the uploaded
// workbook. Only spreadsheet filename extensions are accepted.
func (h *Handler) Upload(c *gin.Context) {
	data, filename, err := readUploadFile(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if !isSpreadsheetFilename(filename) {
		h.respondError(c, fmt.Errorf("%w: only %s files are accepted",
			domain.ErrInvalidInput, strings.Join(spreadsheetExtensions, ", ")))
		return
	}

	wb, err := h.importer.Load(data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sheets := h.importer.ListSheets(wb)
	if len(sheets) == 0 {
		h.respondError(c, fmt.Errorf("%w: workbook contains no sheets", domain.ErrMalformedFile))
		return
	}

	count, err := h.importer.ImportSheet(c.Request.Context(), wb, sheets[0])
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("%d products imported", count), gin.H{"count": count})
}

// Progress handles GET /excel/progress: streams progress events over SSE
// for the lifetime of the connection. The client sends nothing beyond
// keeping the connection open.
func (h *Handler) Progress(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, envelope{Message: "Streaming unsupported", Status: "error"})
		return
	}

	ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(ch)

	flusher.Flush()

	for {
		select {
		case event, open := <-ch:
			if !open {
				return
			}
			b, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", b)
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

// ExcelLogs handles GET /logs/excel: returns the import audit trail.
func (h *Handler) ExcelLogs(c *gin.Context) {
	entries, err := h.events.Entries()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// readUploadFile reads the multipart "file" field into memory and returns
// its bytes and original filename.
func readUploadFile(c *gin.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("%w: missing file upload: %v", domain.ErrInvalidInput, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("opening upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("reading upload: %w", err)
	}
	return data, fileHeader.Filename, nil
}

// isSpreadsheetFilename reports whether the filename carries a recognized
// spreadsheet extension.
func isSpreadsheetFilename(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range spreadsheetExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: id must be a positive integer", domain.ErrInvalidInput)
	}
	return id, nil
}

func parseQueryInt(c *gin.Context, name string, def, min int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < min {
		return 0, fmt.Errorf("%w: %s must be an integer >= %d", domain.ErrInvalidInput, name, min)
	}
	return value, nil
}
