package api

import (
	"errors"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/roster-api/internal/config"
	"github.com/roster-api/internal/models"
	"github.com/roster-api/internal/query"
	"github.com/roster-api/internal/service"
	"github.com/roster-api/internal/validation"
	"github.com/rs/zerolog"
)

// RosterHandler serves the roster page and the per-employee mutations
type RosterHandler struct {
	services *service.Services
	cfg      *config.Config
	flash    *flashStore
	log      zerolog.Logger
}

// NewRosterHandler creates a new RosterHandler
func NewRosterHandler(services *service.Services, cfg *config.Config, flash *flashStore, log zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		services: services,
		cfg:      cfg,
		flash:    flash,
		log:      log.With().Str("handler", "roster").Logger(),
	}
}

// Index handles GET /?q=...&filtro=...
func (h *RosterHandler) Index(c *gin.Context) {
	criteria := query.NewCriteria(c.Query("q"), c.Query("filtro"))

	employees, err := h.services.Roster.List(c.Request.Context(), criteria)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list employees")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":     "Colaboradores",
		"Employees": employees,
		"Q":         criteria.Term,
		"Filter":    query.WebName(criteria.Filter),
		"Filters":   filterOptions,
		"Flashes":   h.flash.Pop(c),
		"BrandLogo": brandLogo(h.cfg),
	})
}

// ToggleExam handles POST /func/:id/toggle_exame
func (h *RosterHandler) ToggleExam(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}
	e, err := h.services.Roster.ToggleExam(c.Request.Context(), id)
	h.renderCard(c, e, err)
}

// ToggleContract handles POST /func/:id/toggle_contrato
func (h *RosterHandler) ToggleContract(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}
	e, err := h.services.Roster.ToggleContract(c.Request.Context(), id)
	h.renderCard(c, e, err)
}

// AdjustRate handles POST /func/:id/ajusta_diaria with form field delta
func (h *RosterHandler) AdjustRate(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	delta, err := parseDelta(c.PostForm("delta"))
	if err != nil {
		h.log.Debug().Str("delta", c.PostForm("delta")).Msg("Rejected rate delta")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	e, err := h.services.Roster.AdjustRate(c.Request.Context(), id, delta)
	h.renderCard(c, e, err)
}

// Create handles POST /func/novo
func (h *RosterHandler) Create(c *gin.Context) {
	var in models.EmployeeInput
	if err := c.ShouldBind(&in); err != nil {
		h.log.Debug().Err(err).Msg("Malformed new employee form")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	if _, err := h.services.Roster.Create(c.Request.Context(), &in); err != nil {
		h.log.Error().Err(err).Msg("Failed to create employee")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	h.addFlash(c, flashOK, "Colaborador adicionado.")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *RosterHandler) renderCard(c *gin.Context, e *models.Employee, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Mutation failed")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.HTML(http.StatusOK, "_card.html", e)
}

func (h *RosterHandler) addFlash(c *gin.Context, category, message string) {
	if err := h.flash.Add(c, category, message); err != nil {
		h.log.Warn().Err(err).Msg("Failed to store flash message")
	}
}

// employeeID parses the :id path segment. A malformed id cannot match a
// record, so it is answered like a missing one.
func employeeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// parseDelta accepts a signed decimal with either separator. An absent
// delta is zero. A delta larger than any storable rate is rejected.
func parseDelta(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	if math.Abs(v) > validation.MaxDailyRate {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// brandLogo returns the logo URL when the file exists under the static dir
func brandLogo(cfg *config.Config) string {
	if _, err := os.Stat(filepath.Join(cfg.Web.StaticDir, "logo.png")); err != nil {
		return ""
	}
	return "/static/logo.png"
}
