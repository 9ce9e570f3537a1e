// Package query selects and orders roster records for display.
package query

import (
	"sort"
	"strings"

	"github.com/roster-api/internal/models"
)

// Criteria is a free-text term combined with a compliance filter
type Criteria struct {
	Term   string
	Filter models.Filter
}

// filterAliases maps the names used by the web UI to filters
var filterAliases = map[string]models.Filter{
	"todos":             models.FilterAll,
	"pendencias":        models.FilterHasPending,
	"exame_pendente":    models.FilterExamPending,
	"contrato_pendente": models.FilterContractPending,

	string(models.FilterAll):             models.FilterAll,
	string(models.FilterHasPending):      models.FilterHasPending,
	string(models.FilterExamPending):     models.FilterExamPending,
	string(models.FilterContractPending): models.FilterContractPending,
}

// ParseFilter resolves a filter name; unknown names select everything
func ParseFilter(name string) models.Filter {
	if f, ok := filterAliases[strings.TrimSpace(name)]; ok {
		return f
	}
	return models.FilterAll
}

// WebName returns the UI name of a filter
func WebName(f models.Filter) string {
	switch f {
	case models.FilterHasPending:
		return "pendencias"
	case models.FilterExamPending:
		return "exame_pendente"
	case models.FilterContractPending:
		return "contrato_pendente"
	}
	return "todos"
}

// NewCriteria builds criteria from raw request values
func NewCriteria(term, filter string) Criteria {
	return Criteria{
		Term:   strings.TrimSpace(term),
		Filter: ParseFilter(filter),
	}
}

// Matches reports whether a single record satisfies the criteria
func (c Criteria) Matches(e *models.Employee) bool {
	if !matchesFilter(e, c.Filter) {
		return false
	}
	if c.Term == "" {
		return true
	}
	term := strings.ToLower(c.Term)
	return containsFold(e.Name, term) ||
		containsFold(e.Role, term) ||
		containsFold(e.WorkSite, term)
}

// Apply returns the matching records sorted by name. The input slice is not modified.
func Apply(records []*models.Employee, c Criteria) []*models.Employee {
	out := make([]*models.Employee, 0, len(records))
	for _, e := range records {
		if c.Matches(e) {
			out = append(out, e)
		}
	}
	SortByName(out)
	return out
}

// SortByName orders records by name, then id for equal names
func SortByName(records []*models.Employee) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].ID < records[j].ID
	})
}

func matchesFilter(e *models.Employee, f models.Filter) bool {
	switch f {
	case models.FilterHasPending:
		return e.HasPending()
	case models.FilterExamPending:
		return e.ExamPending()
	case models.FilterContractPending:
		return e.ContractPending()
	}
	return true
}

// containsFold expects term already lowercased
func containsFold(field, term string) bool {
	return strings.Contains(strings.ToLower(field), term)
}
