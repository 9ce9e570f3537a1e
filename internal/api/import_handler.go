package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/roster-api/internal/config"
	"github.com/roster-api/internal/service"
	"github.com/rs/zerolog"
)

const importFormPath = "/admin/importar_ods"

// importColumnsHelp lists the headers the import recognizes, for the form page
var importColumnsHelp = []string{
	"NOME", "FUNÇÃO", "LOCAL DE TRABALHO", "CONTRATO",
	"FEZ EXAME ?", "SOLICITAÇÃO DO CONTRATRO", "VALOR DA DIARIA",
}

// ImportHandler handles the spreadsheet import endpoints
type ImportHandler struct {
	services *service.Services
	cfg      *config.Config
	flash    *flashStore
	log      zerolog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(services *service.Services, cfg *config.Config, flash *flashStore, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		services: services,
		cfg:      cfg,
		flash:    flash,
		log:      log.With().Str("handler", "import").Logger(),
	}
}

// Form handles GET /admin/importar_ods
func (h *ImportHandler) Form(c *gin.Context) {
	c.HTML(http.StatusOK, "importar_ods.html", gin.H{
		"Title":     "Importar planilha",
		"Columns":   importColumnsHelp,
		"Accept":    strings.Join(h.cfg.Import.Extensions, ","),
		"Flashes":   h.flash.Pop(c),
		"BrandLogo": brandLogo(h.cfg),
	})
}

// Upload handles POST /admin/importar_ods with the spreadsheet in "arquivo".
// The outcome is reported through a flash message on the next page.
func (h *ImportHandler) Upload(c *gin.Context) {
	// Leave room for the multipart envelope around the file
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Import.MaxUploadSize+1<<20)

	header, err := c.FormFile("arquivo")
	if err != nil {
		h.log.Warn().Err(err).Msg("Upload without a readable file")
		h.reject(c)
		return
	}

	file, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Str("file", header.Filename).Msg("Failed to open upload")
		h.fail(c, err)
		return
	}
	defer file.Close()

	report, err := h.services.Import.ImportSpreadsheet(c.Request.Context(), header.Filename, file, header.Size)
	switch {
	case errors.Is(err, service.ErrImportRejected):
		h.log.Warn().Err(err).Str("file", header.Filename).Msg("Import rejected")
		h.reject(c)
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	h.log.Info().
		Str("batch_id", report.BatchID).
		Str("file", header.Filename).
		Int("imported", report.Imported).
		Int("unmapped", report.UnmappedRows).
		Msg("Roster replaced from upload")

	h.addFlash(c, flashOK, "Importação concluída.")
	c.Redirect(http.StatusSeeOther, "/")
}

// reject sends the user back to the form; nothing was changed
func (h *ImportHandler) reject(c *gin.Context) {
	h.addFlash(c, flashError, fmt.Sprintf("Envie um arquivo %s válido.", strings.Join(h.cfg.Import.Extensions, " ou ")))
	c.Redirect(http.StatusSeeOther, importFormPath)
}

// fail reports an import error on the roster page; the roster is unchanged
func (h *ImportHandler) fail(c *gin.Context, err error) {
	h.addFlash(c, flashError, "Erro ao importar: "+err.Error())
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *ImportHandler) addFlash(c *gin.Context, category, message string) {
	if err := h.flash.Add(c, category, message); err != nil {
		h.log.Warn().Err(err).Msg("Failed to store flash message")
	}
}
