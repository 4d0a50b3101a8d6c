package handler

import (
	"errors"
	"log"
	"mime/multipart"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/PNHMEDIA/faktury-app-v2/internal/model"
	"github.com/PNHMEDIA/faktury-app-v2/internal/service"
)

// InvoiceHandler handles HTTP requests for invoice ingestion and management
type InvoiceHandler struct {
	ingest      *service.IngestService
	invoices    *service.InvoiceService
	maxFileSize int64
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(ingest *service.IngestService, invoices *service.InvoiceService, maxFileSize int64) *InvoiceHandler {
	if maxFileSize <= 0 {
		maxFileSize = 20 * 1024 * 1024
	}
	return &InvoiceHandler{
		ingest:      ingest,
		invoices:    invoices,
		maxFileSize: maxFileSize,
	}
}

// RegisterRoutes registers the handler's routes. Everything except the
// preview image fetch sits behind the session middleware.
func (h *InvoiceHandler) RegisterRoutes(router *gin.Engine, sessionAuth gin.HandlerFunc) {
	v1 := router.Group("/v1", sessionAuth)
	{
		v1.GET("/invoices", h.ListInvoices)
		v1.POST("/invoices", h.UploadInvoices)
		v1.PATCH("/invoices/:filename", h.EditInvoice)
		v1.DELETE("/invoices/:filename", h.DeleteInvoice)
		v1.GET("/documents/:filename", h.GetDocument)
	}

	router.GET("/previews/:filename", h.GetPreview)
}

// ListInvoices handles the GET /v1/invoices endpoint
// @Summary List processed invoices
// @Description Get all processed invoices ordered by modification time, newest first
// @Tags invoices
// @Produce json
// @Success 200 {object} model.InvoiceListResponse "Processed invoices"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	entries, err := h.invoices.List(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, "Failed to list invoices: "+err.Error())
		return
	}

	respondOK(c, model.InvoiceListResponse{Data: entries})
}

// UploadInvoices handles the POST /v1/invoices endpoint
// @Summary Upload invoices
// @Description Upload one or more invoice files (image or PDF) for processing. Files succeed or fail independently.
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Invoice files"
// @Success 200 {object} model.BatchUploadResponse "Per-file processing results"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Router /v1/invoices [post]
func (h *InvoiceHandler) UploadInvoices(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxFileSize); err != nil {
		respondBadRequest(c, "Failed to parse form data: "+err.Error())
		return
	}

	form := c.Request.MultipartForm
	headers := form.File["files"]
	if len(headers) == 0 {
		respondBadRequest(c, "No files provided")
		return
	}

	// Results stay in submission order even when some files are rejected
	// before reaching the ingestion batch.
	uploads := make([]service.Upload, 0, len(headers))
	positions := make([]int, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	results := make([]model.UploadFileResult, len(headers))

	for i, header := range headers {
		if header.Size > h.maxFileSize {
			results[i] = model.UploadFileResult{
				OriginalName: header.Filename,
				Error:        "File size exceeds limit",
				ErrorCode:    model.ErrCodeStorageFailed,
			}
			continue
		}

		file, err := header.Open()
		if err != nil {
			results[i] = model.UploadFileResult{
				OriginalName: header.Filename,
				Error:        ErrFileUpload + ": " + err.Error(),
				ErrorCode:    model.ErrCodeStorageFailed,
			}
			continue
		}
		opened = append(opened, file)
		uploads = append(uploads, service.Upload{Filename: header.Filename, Content: file})
		positions = append(positions, i)
	}
	defer func() {
		for _, file := range opened {
			file.Close()
		}
	}()

	log.Printf("Processing %d uploaded file(s)", len(uploads))
	for i, result := range h.ingest.ProcessUploads(c.Request.Context(), uploads) {
		results[positions[i]] = result
	}

	response := model.BatchUploadResponse{Results: results}
	for _, result := range results {
		if result.Success {
			response.Processed++
		} else {
			response.Failed++
		}
	}

	respondOK(c, response)
}

// EditInvoice handles the PATCH /v1/invoices/{filename} endpoint
// @Summary Edit invoice fields
// @Description Update supplier, date and description for a processed invoice; renames the document, preview and sidecar
// @Tags invoices
// @Accept json
// @Produce json
// @Param filename path string true "Stored document filename"
// @Param fields body model.EditInvoiceRequest true "New field values"
// @Success 200 {object} model.EditInvoiceResponse "New filename"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 404 {object} model.ErrorResponse "Invoice not found"
// @Failure 500 {object} model.ErrorResponse "Rename failed"
// @Router /v1/invoices/{filename} [patch]
func (h *InvoiceHandler) EditInvoice(c *gin.Context) {
	param, err := getPathParam(c, "filename")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	name, err := safeFilename(param)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req model.EditInvoiceRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	newFilename, err := h.invoices.Edit(c.Request.Context(), name, req)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, "Failed to rename invoice: "+err.Error())
		return
	}

	respondOK(c, model.EditInvoiceResponse{Filename: newFilename})
}

// DeleteInvoice handles the DELETE /v1/invoices/{filename} endpoint
// @Summary Delete an invoice
// @Description Remove the document, preview and sidecar for a processed invoice
// @Tags invoices
// @Produce json
// @Param filename path string true "Stored document filename"
// @Success 200 {object} map[string]string "Invoice deleted"
// @Failure 400 {object} model.ErrorResponse "Invalid filename"
// @Failure 500 {object} model.ErrorResponse "Removal failed or a member was missing"
// @Router /v1/invoices/{filename} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	param, err := getPathParam(c, "filename")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	name, err := safeFilename(param)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), name); err != nil {
		respondInternalServerError(c, "Failed to delete invoice: "+err.Error())
		return
	}

	respondOK(c, gin.H{"message": "Invoice deleted"})
}

// GetPreview handles the GET /previews/{filename} endpoint
// @Summary Fetch a preview image
// @Description Serve the JPEG preview for a processed invoice
// @Tags invoices
// @Produce jpeg
// @Param filename path string true "Preview filename"
// @Success 200 {file} file "Preview image"
// @Failure 404 {object} model.ErrorResponse "Preview not found"
// @Router /previews/{filename} [get]
func (h *InvoiceHandler) GetPreview(c *gin.Context) {
	param, err := getPathParam(c, "filename")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	name, err := safeFilename(param)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	path := h.invoices.PreviewPath(name)
	if _, err := os.Stat(path); err != nil {
		respondNotFound(c, ErrResourceNotFound)
		return
	}

	c.File(path)
}

// GetDocument handles the GET /v1/documents/{filename} endpoint
// @Summary Download a processed document
// @Description Serve the stored invoice document under its processed name
// @Tags invoices
// @Produce octet-stream
// @Param filename path string true "Stored document filename"
// @Success 200 {file} file "Document"
// @Failure 404 {object} model.ErrorResponse "Document not found"
// @Router /v1/documents/{filename} [get]
func (h *InvoiceHandler) GetDocument(c *gin.Context) {
	param, err := getPathParam(c, "filename")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	name, err := safeFilename(param)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	path := h.invoices.DocumentPath(name)
	if _, err := os.Stat(path); err != nil {
		respondNotFound(c, ErrResourceNotFound)
		return
	}

	c.FileAttachment(path, name)
}
