package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crowddocs/contribution-service/internal/blob"
	"github.com/crowddocs/contribution-service/internal/services"
	"github.com/crowddocs/contribution-service/internal/utils"
)

const maxPictureSize = 5 << 20 // 5 MiB

// ContributionHandler exposes the moderation-queue surface: proposing,
// editing, deleting and reading proposed documents and fixes.
type ContributionHandler struct {
	BaseHandler
	service services.ContributionService
	blobs   blob.Store
}

func NewContributionHandler(service services.ContributionService, blobs blob.Store, logger utils.Logger) *ContributionHandler {
	return &ContributionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		blobs:       blobs,
	}
}

// ProposeDocument is the role-branched creation entrypoint: admins publish
// directly, users land in the moderation queue. The body is multipart with
// an optional docpicture file.
func (h *ContributionHandler) ProposeDocument(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	duration, _ := strconv.Atoi(c.PostForm("duration"))
	req := services.CreateDocumentRequest{
		Name:     c.PostForm("name"),
		Type:     c.PostForm("type"),
		Duration: duration,
	}

	for _, raw := range c.PostFormArray("related_doc_ids") {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid related document ID",
				Details: raw,
			})
			return
		}
		req.RelatedDocIDs = append(req.RelatedDocIDs, uint(id))
	}

	pictureURL, err := h.uploadPicture(c)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	req.Picture = pictureURL

	response, err := h.service.CreateDocumentOrProposal(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ProposeFix submits a correction against a published document. User role
// only; the service rejects admins.
func (h *ContributionHandler) ProposeFix(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	docID, err := strconv.ParseUint(c.Param("docid"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid document ID"})
		return
	}

	req := services.ProposeFixRequest{
		DocName:        c.PostForm("doc_name"),
		ProposedChange: c.PostForm("proposed_change"),
	}

	pictureURL, err := h.uploadPicture(c)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	req.DocPicture = pictureURL

	fix, err := h.service.ProposeFix(c.Request.Context(), identity, uint(docID), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fix)
}

func (h *ContributionHandler) UpdateProposedDocument(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid proposal ID"})
		return
	}

	var req services.UpdateProposedDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	proposal, err := h.service.UpdateProposedDocument(c.Request.Context(), identity, uint(id), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

func (h *ContributionHandler) UpdateFix(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid fix ID"})
		return
	}

	var req services.UpdateFixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	fix, err := h.service.UpdateFix(c.Request.Context(), identity, uint(id), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, fix)
}

// DeleteProposedDocument returns the deleted record for client-side audit.
func (h *ContributionHandler) DeleteProposedDocument(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid proposal ID"})
		return
	}

	proposal, err := h.service.DeleteProposedDocument(c.Request.Context(), identity, uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": proposal})
}

func (h *ContributionHandler) DeleteFix(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid fix ID"})
		return
	}

	fix, err := h.service.DeleteFix(c.Request.Context(), identity, uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": fix})
}

func (h *ContributionHandler) ListMyProposedDocuments(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	proposals, err := h.service.ListMyProposedDocuments(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

func (h *ContributionHandler) ListMyFixes(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	fixes, err := h.service.ListMyFixes(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fixes": fixes})
}

// GetProposedDocument serves the full-detail read; the service enforces
// owner-or-admin visibility.
func (h *ContributionHandler) GetProposedDocument(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid proposal ID"})
		return
	}

	proposal, err := h.service.GetProposedDocument(c.Request.Context(), identity, uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

func (h *ContributionHandler) GetFix(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid fix ID"})
		return
	}

	fix, err := h.service.GetFix(c.Request.Context(), identity, uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, fix)
}

// uploadPicture stores an optional docpicture form file and returns its URL.
// No file attached is not an error.
func (h *ContributionHandler) uploadPicture(c *gin.Context) (string, error) {
	fileHeader, err := c.FormFile("docpicture")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		// Multipart bodies without any file section also land here.
		return "", nil
	}

	if fileHeader.Size > maxPictureSize {
		return "", fmt.Errorf("picture exceeds %d bytes", maxPictureSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded picture: %w", err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	key := fmt.Sprintf("pictures/%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.blobs.Upload(c.Request.Context(), key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("store uploaded picture: %w", err)
	}
	return url, nil
}
