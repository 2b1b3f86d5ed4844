package api

import (
	"net/http"

	"github.com/equipment-loan-tracker/internal/models"
	"github.com/equipment-loan-tracker/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ViewHandler serves the read-only projections
type ViewHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewViewHandler creates a new ViewHandler
func NewViewHandler(services *service.Services, log zerolog.Logger) *ViewHandler {
	return &ViewHandler{
		services: services,
		log:      log.With().Str("handler", "views").Logger(),
	}
}

// ListMaterials handles GET /v1/materials?filter=all|available|borrowed
func (h *ViewHandler) ListMaterials(c *gin.Context) {
	filter := models.MaterialFilter(c.DefaultQuery("filter", string(models.MaterialFilterAll)))

	list, err := h.services.Views.Materials(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListAvailableMaterials handles GET /v1/materials/available
func (h *ViewHandler) ListAvailableMaterials(c *gin.Context) {
	materials := h.services.Views.AvailableMaterials(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"count": len(materials), "materials": materials})
}

// GetLoanBoard handles GET /v1/loans
func (h *ViewHandler) GetLoanBoard(c *gin.Context) {
	loans := h.services.Views.LoanBoard(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"count": len(loans), "loans": loans})
}

// GetHistory handles GET /v1/history?status=...&sort=...
func (h *ViewHandler) GetHistory(c *gin.Context) {
	filter := models.HistoryFilter(c.DefaultQuery("status", string(models.HistoryFilterAll)))
	sortBy := models.HistorySort(c.DefaultQuery("sort", string(models.HistorySortDate)))

	loans, err := h.services.Views.History(c.Request.Context(), filter, sortBy)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": filter,
		"sort":   sortBy,
		"count":  len(loans),
		"loans":  loans,
	})
}

// GetStats handles GET /v1/stats and GET /metrics
func (h *ViewHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Views.Summary(c.Request.Context()))
}
