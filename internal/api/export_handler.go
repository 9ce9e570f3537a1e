package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roster-api/internal/service"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /admin/exportar?format=csv|json|ndjson
// Streams the roster directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	format, ok := service.LookupExportFormat(c.Query("format"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: csv, json, ndjson"})
		return
	}

	filename := fmt.Sprintf("roster-%s%s", time.Now().Format("20060102"), format.Extension)
	c.Header("Content-Type", format.ContentType)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Status(http.StatusOK)

	count, err := h.services.Export.Stream(c.Request.Context(), c.Writer, format.Name)
	if err != nil {
		h.log.Error().Err(err).Str("format", format.Name).Int("written", count).Msg("Export failed")
		// Can't return error JSON after streaming has started
		return
	}
}
