package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/equipment-loan-tracker/internal/config"
	"github.com/equipment-loan-tracker/internal/models"
	"github.com/equipment-loan-tracker/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SnapshotHandler handles export, import and archive endpoints
type SnapshotHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "snapshot").Logger(),
	}
}

// DownloadSnapshot handles GET /v1/snapshot
func (h *SnapshotHandler) DownloadSnapshot(c *gin.Context) {
	doc := h.services.Snapshot.Export(c.Request.Context())

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", h.services.Snapshot.ExportFileName()))
	c.IndentedJSON(http.StatusOK, doc)
}

// ImportSnapshot handles POST /v1/snapshot.
// Accepts a multipart "file" upload with a .json extension or a raw JSON body.
func (h *SnapshotHandler) ImportSnapshot(c *gin.Context) {
	ctx := c.Request.Context()
	maxSize := h.cfg.Snapshot.MaxUploadSize
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)

	var (
		result *models.ImportResult
		err    error
		source = "body"
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(ferr, &tooLarge) {
				respondError(c, h.log, ferr)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
			return
		}
		defer file.Close()

		if header.Size > maxSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("file too large, max size is %d bytes", maxSize),
			})
			return
		}
		if strings.ToLower(filepath.Ext(header.Filename)) != ".json" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "snapshot import requires a .json file"})
			return
		}

		source = header.Filename
		result, err = h.services.Snapshot.Import(ctx, file)
	} else {
		result, err = h.services.Snapshot.Import(ctx, c.Request.Body)
	}

	if errors.Is(err, service.ErrImportInvalid) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       err.Error(),
			"error_count": len(result.Errors),
			"errors":      result.Errors,
		})
		return
	}
	if err != nil {
		h.log.Warn().Err(err).Str("source", source).Msg("Snapshot import failed")
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("source", source).Strs("applied", result.Applied).Msg("Snapshot import applied")
	c.JSON(http.StatusOK, result)
}

// multipartOverhead leaves room for multipart headers around the file part
const multipartOverhead = 64 * 1024

// DownloadHistoryReport handles GET /v1/history/report?status=...&sort=...
func (h *SnapshotHandler) DownloadHistoryReport(c *gin.Context) {
	filter := models.HistoryFilter(c.DefaultQuery("status", string(models.HistoryFilterAll)))
	sortBy := models.HistorySort(c.DefaultQuery("sort", string(models.HistorySortDate)))

	rows, err := h.services.Snapshot.HistoryReport(c.Request.Context(), filter, sortBy)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", h.services.Snapshot.ReportFileName()))
	c.IndentedJSON(http.StatusOK, rows)
}

// ListArchive handles GET /v1/snapshot/archive?limit=...
func (h *SnapshotHandler) ListArchive(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	snapshots, err := h.services.Snapshot.ListArchive(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(snapshots), "snapshots": snapshots})
}

// CreateArchive handles POST /v1/snapshot/archive
func (h *SnapshotHandler) CreateArchive(c *gin.Context) {
	snapshot, err := h.services.Snapshot.Archive(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}
