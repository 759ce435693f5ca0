package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crowddocs/contribution-service/internal/services"
	"github.com/crowddocs/contribution-service/internal/utils"
)

// AdminHandler serves the platform-wide moderation queue views. Routes are
// gated on the admin role at the router; the services check again.
type AdminHandler struct {
	BaseHandler
	contributions services.ContributionService
	export        services.ExportService
}

func NewAdminHandler(contributions services.ContributionService, export services.ExportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   NewBaseHandler(logger),
		contributions: contributions,
		export:        export,
	}
}

func (h *AdminHandler) ListProposedDocuments(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	summaries, err := h.contributions.ListAllProposedDocuments(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposedDocuments": summaries})
}

func (h *AdminHandler) ListProposedFixes(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	summaries, err := h.contributions.ListAllFixes(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposedFixes": summaries})
}

// ExportModerationQueue streams the queue snapshot as an xlsx attachment.
func (h *AdminHandler) ExportModerationQueue(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	data, err := h.export.ExportModerationQueue(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("moderation-queue-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
