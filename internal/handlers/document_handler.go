package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crowddocs/contribution-service/internal/services"
	"github.com/crowddocs/contribution-service/internal/utils"
)

// DocumentHandler serves the public read path over the published catalog.
type DocumentHandler struct {
	BaseHandler
	service services.CatalogService
}

func NewDocumentHandler(service services.CatalogService, logger utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	documents, err := h.service.ListDocuments(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

func (h *DocumentHandler) GetDocumentDetails(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid document ID",
		})
		return
	}

	detail, err := h.service.GetDocumentDetails(c.Request.Context(), uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
