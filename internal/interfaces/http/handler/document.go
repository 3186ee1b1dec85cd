package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	documentapp "github.com/keystone/backend/internal/application/document"
	"github.com/keystone/backend/internal/interfaces/http/dto"
	"github.com/keystone/backend/internal/interfaces/http/middleware"
)

// sniffLen is how many bytes http.DetectContentType inspects
const sniffLen = 512

// DocumentHandler handles document upload, download and processing endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *documentapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *documentapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload godoc
// @ID           uploadDocument
// @Summary      Upload a document
// @Description  Stores the file and, unless process=false, starts AI extraction for supported files
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Portfolio-ID header   string true  "Portfolio ID"
// @Param        file           formData file   true  "Document file"
// @Param        category       formData string true  "Category" Enums(lease, tax, insurance, mortgage, inspection, receipt, other)
// @Param        property_id    formData string false "Property ID" format(uuid)
// @Param        process        formData bool   false "Start extraction" default(true)
// @Success      201 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the maximum upload size")
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationRequired, "file is required")
		return
	}

	req := documentapp.UploadRequest{
		Category:    c.PostForm("category"),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Process:     true,
	}
	if raw := c.PostForm("property_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid property_id format")
			return
		}
		req.PropertyID = &id
	}
	if raw := c.PostForm("process"); raw != "" {
		process, err := strconv.ParseBool(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "process must be true or false")
			return
		}
		req.Process = process
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	body, contentType, err := sniffContentType(file, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	req.ContentType = contentType

	doc, err := h.documentService.Upload(c.Request.Context(), portfolioID(c), middleware.GetUserID(c), req, body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// sniffContentType detects the type from the leading bytes when the client
// sent none or a generic one. The returned reader replays the sniffed bytes.
func sniffContentType(r io.Reader, declared string) (io.Reader, string, error) {
	if declared != "" && declared != "application/octet-stream" {
		return r, declared, nil
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), r), http.DetectContentType(head), nil
}

// List godoc
// @ID           listDocuments
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Param        X-Portfolio-ID    header string true  "Portfolio ID"
// @Param        page              query  int    false "Page number" default(1)
// @Param        page_size         query  int    false "Page size"   default(20)
// @Param        order_by          query  string false "Sort field"  Enums(created_at, file_name, category, size_bytes)
// @Param        order_dir         query  string false "Sort order"  Enums(asc, desc)
// @Param        search            query  string false "File name search"
// @Param        property_id       query  string false "Property ID" format(uuid)
// @Param        category          query  string false "Category"
// @Param        processing_status query  string false "Processing status"
// @Success      200 {object} APIResponse[[]documentapp.DocumentResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	var filter documentapp.ListDocumentsFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.documentService.List(c.Request.Context(), portfolioID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getDocument
// @Summary      Get a document
// @Description  Includes extracted fields and a pre-signed download URL
// @Tags         documents
// @Produce      json
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), portfolioID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Download godoc
// @ID           downloadDocument
// @Summary      Download a document
// @Description  Redirects to a short-lived pre-signed URL
// @Tags         documents
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Document ID" format(uuid)
// @Success      302
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	link, err := h.documentService.DownloadURL(c.Request.Context(), portfolioID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusFound, link.URL)
}

// Process godoc
// @ID           processDocument
// @Summary      Reprocess a document
// @Description  Restarts extraction. Rejected while processing is pending or running.
// @Tags         documents
// @Produce      json
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Document ID" format(uuid)
// @Success      202 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/documents/{id}/process [post]
func (h *DocumentHandler) Process(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.Reprocess(c.Request.Context(), portfolioID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, doc)
}

// Delete godoc
// @ID           deleteDocument
// @Summary      Delete a document
// @Description  Removes the row and the stored object
// @Tags         documents
// @Param        X-Portfolio-ID header string true "Portfolio ID"
// @Param        id             path   string true "Document ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), portfolioID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
