package api

import (
	"net/http"

	"github.com/equipment-loan-tracker/internal/models"
	"github.com/equipment-loan-tracker/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RecordHandler handles the commands that create or update records
type RecordHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(services *service.Services, log zerolog.Logger) *RecordHandler {
	return &RecordHandler{
		services: services,
		log:      log.With().Str("handler", "records").Logger(),
	}
}

// ListUsers handles GET /v1/users
func (h *RecordHandler) ListUsers(c *gin.Context) {
	users := h.services.Views.Users(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// CreateUser handles POST /v1/users
func (h *RecordHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.services.Loans.AddUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListCategories handles GET /v1/categories
func (h *RecordHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.Categories})
}

// CreateMaterial handles POST /v1/materials
func (h *RecordHandler) CreateMaterial(c *gin.Context) {
	var req models.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	material, err := h.services.Loans.AddMaterial(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, material)
}

// CreateLoan handles POST /v1/loans
func (h *RecordHandler) CreateLoan(c *gin.Context) {
	var req models.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	loan, err := h.services.Loans.CreateLoan(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// ReturnLoan handles POST /v1/loans/:loan_id/return
func (h *RecordHandler) ReturnLoan(c *gin.Context) {
	loanID := c.Param("loan_id")
	if loanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "loan_id is required"})
		return
	}

	loan, err := h.services.Loans.ReturnLoan(c.Request.Context(), loanID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}
