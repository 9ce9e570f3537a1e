package validation

import (
	"strings"

	"github.com/roster-api/internal/models"
)

// recognizedStatuses are values that map to a flag without being noted as coerced
var recognizedStatuses = map[string]bool{
	"OK":       true,
	"PENDING":  true,
	"PENDENTE": true,
}

// Employee builds a normalized employee from raw input. The returned notes
// list every value that was replaced by a default; line is the source row
// (0 when the input did not come from a file).
func Employee(in *models.EmployeeInput, line int) (*models.Employee, []models.ValidationError) {
	var notes []models.ValidationError

	rate, err := DailyRate(in.DailyRate)
	if err != nil {
		notes = append(notes, models.ValidationError{
			Line:    line,
			Field:   "daily_rate",
			Message: err.Error() + ", stored as 0",
			Value:   in.DailyRate,
		})
	}

	notes = appendStatusNote(notes, line, "exam_status", in.ExamStatus)
	notes = appendStatusNote(notes, line, "contract_status", in.ContractStatus)

	return &models.Employee{
		Name:           Text(in.Name),
		Role:           Text(in.Role),
		WorkSite:       Text(in.WorkSite),
		ContractType:   ContractType(in.ContractType),
		ExamStatus:     Status(in.ExamStatus),
		ContractStatus: Status(in.ContractStatus),
		DailyRate:      rate,
	}, notes
}

// NewHire builds an employee from the add form. Compliance flags always
// start as PENDING, whatever the caller sent.
func NewHire(in *models.EmployeeInput) *models.Employee {
	hire := *in
	hire.ExamStatus = ""
	hire.ContractStatus = ""
	e, _ := Employee(&hire, 0)
	return e
}

func appendStatusNote(notes []models.ValidationError, line int, field, raw string) []models.ValidationError {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" || recognizedStatuses[v] {
		return notes
	}
	return append(notes, models.ValidationError{
		Line:    line,
		Field:   field,
		Message: "unrecognized status, stored as PENDING",
		Value:   raw,
	})
}
