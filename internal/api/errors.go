package api

import (
	"errors"
	"net/http"

	"github.com/equipment-loan-tracker/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verrs service.ValidationErrors
	var conflict *service.ConflictError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": verrs})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":          err.Error(),
			"material_id":    conflict.MaterialID,
			"active_loan_id": conflict.ActiveLoanID,
		})
	case errors.Is(err, service.ErrLoanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
	case errors.Is(err, service.ErrLoanAlreadyReturned):
		c.JSON(http.StatusConflict, gin.H{"error": "loan already returned"})
	case errors.Is(err, service.ErrInvalidFilter), errors.Is(err, service.ErrImportParse):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrArchiveDisabled):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
