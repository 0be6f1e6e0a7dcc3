package handler

import (
	"net/http"

	"ecostore/internal/apierror"
	"ecostore/internal/dto"
	"ecostore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InsightsHandler struct{ svc service.CatalogService }

func NewInsightsHandler(svc service.CatalogService) *InsightsHandler {
	return &InsightsHandler{svc: svc}
}

// Get GET /v1/products/:id/insights — the full sustainability card.
func (h *InsightsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Insight(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LoyaltyPreview POST /v1/loyalty/preview — pure points math, no account state.
func LoyaltyPreview(c *gin.Context) {
	var req dto.LoyaltyPreviewRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, service.PreviewLoyalty(req))
}
