package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danukusuma/akunting_app/internal/apperrors"
	"github.com/danukusuma/akunting_app/internal/core/domain"
	portssvc "github.com/danukusuma/akunting_app/internal/core/ports/services"
	"github.com/danukusuma/akunting_app/internal/dto"
	"github.com/danukusuma/akunting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// templateHandler handles HTTP requests related to journal templates.
type templateHandler struct {
	templateService portssvc.TemplateSvcFacade
}

// RegisterTemplateRoutes registers routes related to templates.
func RegisterTemplateRoutes(rg *gin.RouterGroup, templateService portssvc.TemplateSvcFacade) {
	h := &templateHandler{templateService: templateService}

	templates := rg.Group("/templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.GET("/:templateID", h.getTemplate)
		templates.PUT("/:templateID", h.updateTemplate)
		templates.DELETE("/:templateID", h.deactivateTemplate)
		templates.POST("/:templateID/preview", h.previewTemplate)
	}
}

// createTemplate godoc
// @Summary Create a journal template
// @Description Creates a template after checking that its lines balance at a reference amount
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   template body dto.CreateTemplateRequest true "Template details"
// @Success 201 {object} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Invalid input, unbalanced lines, or negative line amount"
// @Failure 500 {object} map[string]string "Failed to create template"
// @Router /templates [post]
func (h *templateHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	actor := middleware.GetActorFromContext(c)
	template, err := h.templateService.CreateTemplate(c.Request.Context(), req, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation),
			errors.Is(err, apperrors.ErrUnbalancedTemplate),
			errors.Is(err, apperrors.ErrNegativeLineAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create template", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTemplateResponse(template))
}

// getTemplate godoc
// @Summary Get a template by ID
// @Tags templates
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to retrieve template"
// @Router /templates/{templateID} [get]
func (h *templateHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	template, err := h.templateService.GetTemplateByID(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			logger.Error("Failed to get template", slog.String("error", err.Error()), slog.String("template_id", templateID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve template"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(template))
}

// listTemplates godoc
// @Summary List templates
// @Description Retrieves templates ordered by code, optionally filtered by category
// @Tags templates
// @Produce  json
// @Param   category query string false "Filter by category (REVENUE, EXPENSE, PAYMENT, RECEIPT, TRANSFER)"
// @Param   limit query int false "Max results (default 50)"
// @Param   offset query int false "Offset (default 0)"
// @Success 200 {array} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Unknown category"
// @Failure 500 {object} map[string]string "Failed to list templates"
// @Router /templates [get]
func (h *templateHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var category *domain.TemplateCategory
	if raw := c.Query("category"); raw != "" {
		switch cat := domain.TemplateCategory(raw); cat {
		case domain.CategoryRevenue, domain.CategoryExpense, domain.CategoryPayment, domain.CategoryReceipt, domain.CategoryTransfer:
			category = &cat
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + raw})
			return
		}
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context(), category, limit, offset)
	if err != nil {
		logger.Error("Failed to list templates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list templates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponses(templates))
}

// updateTemplate godoc
// @Summary Update a template
// @Description Edits a template. Templates that have driven transactions are superseded copy-on-write: the response carries the new template id and code.
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Param   template body dto.UpdateTemplateRequest true "Fields to update"
// @Success 200 {object} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Invalid input or unbalanced lines"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 409 {object} map[string]string "Template edit conflicted with concurrent use"
// @Failure 500 {object} map[string]string "Failed to update template"
// @Router /templates/{templateID} [put]
func (h *templateHandler) updateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")
	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	actor := middleware.GetActorFromContext(c)
	template, err := h.templateService.UpdateTemplate(c.Request.Context(), templateID, req, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		case errors.Is(err, apperrors.ErrValidation),
			errors.Is(err, apperrors.ErrUnbalancedTemplate),
			errors.Is(err, apperrors.ErrNegativeLineAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update template", slog.String("error", err.Error()), slog.String("template_id", templateID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update template"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(template))
}

// deactivateTemplate godoc
// @Summary Deactivate a template
// @Description Marks a template inactive so it can no longer drive new drafts
// @Tags templates
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to deactivate template"
// @Router /templates/{templateID} [delete]
func (h *templateHandler) deactivateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	actor := middleware.GetActorFromContext(c)
	if err := h.templateService.DeactivateTemplate(c.Request.Context(), templateID, actor); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			logger.Error("Failed to deactivate template", slog.String("error", err.Error()), slog.String("template_id", templateID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate template"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// previewTemplate godoc
// @Summary Preview a template at an amount
// @Description Evaluates all template lines at the given amount without persisting anything
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Param   preview body dto.PreviewTemplateRequest true "Amount to evaluate at"
// @Success 200 {object} dto.PreviewTemplateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to preview template"
// @Router /templates/{templateID}/preview [post]
func (h *templateHandler) previewTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")
	var req dto.PreviewTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	preview, err := h.templateService.PreviewTemplate(c.Request.Context(), templateID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to preview template", slog.String("error", err.Error()), slog.String("template_id", templateID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to preview template"})
		}
		return
	}

	c.JSON(http.StatusOK, preview)
}
