package service

import (
	"github.com/roster-api/internal/models"
	"github.com/roster-api/internal/spreadsheet"
)

// Employee fields a spreadsheet column can feed
const (
	fieldName           = "name"
	fieldRole           = "role"
	fieldWorkSite       = "work_site"
	fieldContractType   = "contract_type"
	fieldExamStatus     = "exam_status"
	fieldContractStatus = "contract_status"
	fieldDailyRate      = "daily_rate"
)

type columnAlias struct {
	Header string
	Field  string
}

// importColumns maps the headers of the roster workbook kept by the office.
// Matching is exact. When two headers feed the same field, the later entry wins.
var importColumns = []columnAlias{
	{"NOME ", fieldName},
	{"NOME", fieldName},
	{"FUNÇÃO", fieldRole},
	{"VALOR DA DIARIA", fieldDailyRate},
	{"LOCAL DE TRABALHO", fieldWorkSite},
	{"CONTRATO", fieldContractType},
	{"FEZ EXAME ?", fieldExamStatus},
	{"SOLICITAÇÃO DO CONTRATRO", fieldContractStatus},
}

// seedColumns accepts the internal field names and the legacy seed headers
var seedColumns = []columnAlias{
	{"nome", fieldName},
	{"name", fieldName},
	{"funcao", fieldRole},
	{"role", fieldRole},
	{"local_trabalho", fieldWorkSite},
	{"work_site", fieldWorkSite},
	{"tipo_contrato", fieldContractType},
	{"contract_type", fieldContractType},
	{"status_exame", fieldExamStatus},
	{"exam_status", fieldExamStatus},
	{"status_contrato", fieldContractStatus},
	{"contract_status", fieldContractStatus},
	{"valor_diaria", fieldDailyRate},
	{"daily_rate", fieldDailyRate},
}

// exportHeader lists the columns written by the CSV export, so a saved
// export can be imported again
var exportHeader = []string{
	"NOME",
	"FUNÇÃO",
	"LOCAL DE TRABALHO",
	"CONTRATO",
	"FEZ EXAME ?",
	"SOLICITAÇÃO DO CONTRATRO",
	"VALOR DA DIARIA",
}

// columnMap resolves which sheet column feeds each field
type columnMap struct {
	index   map[string]int
	headers []string
}

func mapColumns(table *spreadsheet.Table, aliases []columnAlias) *columnMap {
	m := &columnMap{index: make(map[string]int)}
	for _, a := range aliases {
		if col := table.Column(a.Header); col >= 0 {
			m.index[a.Field] = col
			m.headers = append(m.headers, a.Header)
		}
	}
	return m
}

// input reads one data row into raw employee fields
func (m *columnMap) input(table *spreadsheet.Table, row []string) *models.EmployeeInput {
	get := func(field string) string {
		col, ok := m.index[field]
		if !ok {
			return ""
		}
		return table.Cell(row, col)
	}

	return &models.EmployeeInput{
		Name:           get(fieldName),
		Role:           get(fieldRole),
		WorkSite:       get(fieldWorkSite),
		ContractType:   get(fieldContractType),
		ExamStatus:     get(fieldExamStatus),
		ContractStatus: get(fieldContractStatus),
		DailyRate:      get(fieldDailyRate),
	}
}
