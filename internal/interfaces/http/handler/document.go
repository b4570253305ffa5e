package handler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	documentapp "github.com/rwbiz/backend/internal/application/document"
	"github.com/rwbiz/backend/internal/interfaces/http/dto"
)

// DocumentHandler handles the document vault endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *documentapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *documentapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// CreateCategory godoc
// @ID           createDocumentCategory
// @Summary      Create a document category
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body documentapp.CategoryRequest true "Category"
// @Success      201 {object} APIResponse[documentapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/categories [post]
func (h *DocumentHandler) CreateCategory(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req documentapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cat, err := h.documentService.CreateCategory(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Category created", cat)
}

// ListCategories godoc
// @ID           listDocumentCategories
// @Summary      List document categories
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[[]documentapp.CategoryResponse]
// @Security     BearerAuth
// @Router       /documents/categories [get]
func (h *DocumentHandler) ListCategories(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	cats, err := h.documentService.ListCategories(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Categories retrieved", cats)
}

// UpdateCategory godoc
// @ID           updateDocumentCategory
// @Summary      Update a document category
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body documentapp.CategoryRequest true "Category"
// @Success      200 {object} APIResponse[documentapp.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/categories/{id} [put]
func (h *DocumentHandler) UpdateCategory(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "category")
	if !ok {
		return
	}
	var req documentapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cat, err := h.documentService.UpdateCategory(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Category updated", cat)
}

// DeleteCategory godoc
// @ID           deleteDocumentCategory
// @Summary      Delete a document category
// @Description  Categories that still hold documents cannot be deleted
// @Tags         documents
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/categories/{id} [delete]
func (h *DocumentHandler) DeleteCategory(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "category")
	if !ok {
		return
	}

	if err := h.documentService.DeleteCategory(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Upload godoc
// @ID           uploadDocument
// @Summary      Upload a document
// @Description  Store a file in the company vault. The type is detected from the content and checked against the allow list.
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        file formData file true "File"
// @Param        title formData string false "Title"
// @Param        description formData string false "Description"
// @Param        category_id formData string false "Category ID" format(uuid)
// @Param        tags formData []string false "Tags" collectionFormat(multi)
// @Param        confidential formData bool false "Confidential"
// @Param        expiry_date formData string false "Expiry date" format(date)
// @Success      201 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.HandleError(c, err)
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "A file is required in the 'file' field")
		return
	}
	var meta documentapp.MetadataRequest
	if err := c.ShouldBindWith(&meta, binding.FormMultipart); err != nil {
		h.handleBindError(c, err, dto.ErrCodeInvalidInput, "Invalid document metadata")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()

	doc, err := h.documentService.Upload(c.Request.Context(), a, documentapp.UploadInput{
		FileName: fh.Filename,
		Size:     fh.Size,
		Content:  f,
		Metadata: meta,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Document uploaded", doc)
}

// List godoc
// @ID           listDocuments
// @Summary      List documents
// @Description  Confidential documents are only listed for privileged members or explicit grantees
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search title, description and file name"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        status query string false "Status" Enums(ACTIVE, ARCHIVED)
// @Param        tag query string false "Tag"
// @Success      200 {object} APIResponse[[]documentapp.DocumentResponse]
// @Security     BearerAuth
// @Router       /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req documentapp.ListDocumentsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	docs, total, err := h.documentService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Documents retrieved", docs, total, req.Page, req.PageSize)
}

// Get godoc
// @ID           getDocument
// @Summary      Get document metadata
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "document")
	if !ok {
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Document retrieved", doc)
}

// Download godoc
// @ID           downloadDocument
// @Summary      Download a document
// @Description  Stream the file, or with redirect=true answer 302 to a short-lived signed URL
// @Tags         documents
// @Produce      octet-stream
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Param        redirect query bool false "Redirect to a signed URL"
// @Success      200 {file} file
// @Success      302
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "document")
	if !ok {
		return
	}
	redirect := c.Query("redirect") == "true"

	dl, err := h.documentService.Download(c.Request.Context(), a, id, redirect)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if dl.RedirectURL != "" {
		c.Redirect(http.StatusFound, dl.RedirectURL)
		return
	}
	defer dl.Body.Close()

	c.DataFromReader(http.StatusOK, dl.Size, dl.ContentType, dl.Body, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": dl.FileName}),
	})
}

// UpdateMetadata godoc
// @ID           updateDocumentMetadata
// @Summary      Update document metadata
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body documentapp.MetadataRequest true "Metadata"
// @Success      200 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [put]
func (h *DocumentHandler) UpdateMetadata(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "document")
	if !ok {
		return
	}
	var req documentapp.MetadataRequest
	if !h.bindJSON(c, &req) {
		return
	}

	doc, err := h.documentService.UpdateMetadata(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Document updated", doc)
}

// Archive godoc
// @ID           archiveDocument
// @Summary      Archive a document
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/archive [post]
func (h *DocumentHandler) Archive(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "document")
	if !ok {
		return
	}

	doc, err := h.documentService.Archive(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Document archived", doc)
}

// Restore godoc
// @ID           restoreDocument
// @Summary      Restore an archived document
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/restore [post]
func (h *DocumentHandler) Restore(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "document")
	if !ok {
		return
	}

	doc, err := h.documentService.Restore(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Document restored", doc)
}

// Delete godoc
// @ID           deleteDocument
// @Summary      Delete a document
// @Description  Remove the metadata and the stored object
// @Tags         documents
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "document")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GrantAccess godoc
// @ID           grantDocumentAccess
// @Summary      Share a document with a member
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body documentapp.GrantAccessRequest true "Grant"
// @Success      200 {object} APIResponse[documentapp.AccessResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/access [post]
func (h *DocumentHandler) GrantAccess(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "document")
	if !ok {
		return
	}
	var req documentapp.GrantAccessRequest
	if !h.bindJSON(c, &req) {
		return
	}

	grant, err := h.documentService.GrantAccess(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Access granted", grant)
}

// ListAccess godoc
// @ID           listDocumentAccess
// @Summary      List a document's grants
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[[]documentapp.AccessResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/access [get]
func (h *DocumentHandler) ListAccess(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "document")
	if !ok {
		return
	}

	grants, err := h.documentService.ListAccess(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Access list retrieved", grants)
}

// RevokeAccess godoc
// @ID           revokeDocumentAccess
// @Summary      Revoke a member's access
// @Tags         documents
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Param        userId path string true "User ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/access/{userId} [delete]
func (h *DocumentHandler) RevokeAccess(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "document")
	if !ok {
		return
	}
	userID, ok := h.pathUUID(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.documentService.RevokeAccess(c.Request.Context(), a, id, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activities godoc
// @ID           listDocumentActivities
// @Summary      Document audit trail
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]documentapp.ActivityResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/activities [get]
func (h *DocumentHandler) Activities(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "document")
	if !ok {
		return
	}
	var req documentapp.ListActivitiesRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.documentService.Activities(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Activities retrieved", items, total, req.Page, req.PageSize)
}
