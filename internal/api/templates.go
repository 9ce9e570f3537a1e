package api

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/roster-api/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"money":       formatMoney,
	"statusLabel": statusLabel,
	"statusClass": statusClass,
}

// loadTemplates parses the embedded pages and fragments
func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// formatMoney renders a rate the way it is written in Brazil, e.g. R$ 1.234,50
func formatMoney(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	whole, cents := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "R$ " + b.String() + "," + cents
}

func statusLabel(s models.Status) string {
	if s == models.StatusOK {
		return "OK"
	}
	return "Pendente"
}

func statusClass(s models.Status) string {
	if s == models.StatusOK {
		return "flag--ok"
	}
	return "flag--pending"
}

// filterOption is one entry of the filter drop-down
type filterOption struct {
	Value string
	Label string
}

var filterOptions = []filterOption{
	{Value: "todos", Label: "Todos"},
	{Value: "pendencias", Label: "Com pendências"},
	{Value: "exame_pendente", Label: "Exame pendente"},
	{Value: "contrato_pendente", Label: "Contrato pendente"},
}
