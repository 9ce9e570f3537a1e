package models

import "strings"

// Status is the value of one of the two compliance flags on an employee
type Status string

const (
	StatusOK      Status = "OK"
	StatusPending Status = "PENDING"
)

// DefaultContractType is used when no contract type is supplied
const DefaultContractType = "INTERMITENT"

// Employee represents one worker on the roster
type Employee struct {
	ID             int64   `json:"id" db:"id"`
	Name           string  `json:"name" db:"name"`
	Role           string  `json:"role" db:"role"`
	WorkSite       string  `json:"work_site" db:"work_site"`
	ContractType   string  `json:"contract_type" db:"contract_type"`
	ExamStatus     Status  `json:"exam_status" db:"exam_status"`
	ContractStatus Status  `json:"contract_status" db:"contract_status"`
	DailyRate      float64 `json:"daily_rate" db:"daily_rate"`
}

// ExamPending reports whether the medical exam is still outstanding
func (e *Employee) ExamPending() bool {
	return e.ExamStatus != StatusOK
}

// ContractPending reports whether the contract paperwork is still outstanding
func (e *Employee) ContractPending() bool {
	return e.ContractStatus != StatusOK
}

// HasPending reports whether either compliance flag is outstanding
func (e *Employee) HasPending() bool {
	return e.ExamPending() || e.ContractPending()
}

// EmployeeInput carries raw, untrusted field values from a form, a
// spreadsheet row or the seed file. Every field is normalized before storage.
type EmployeeInput struct {
	Name           string `json:"name" form:"nome"`
	Role           string `json:"role" form:"funcao"`
	WorkSite       string `json:"work_site" form:"local_trabalho"`
	ContractType   string `json:"contract_type" form:"tipo_contrato"`
	ExamStatus     string `json:"exam_status" form:"-"`
	ContractStatus string `json:"contract_status" form:"-"`
	DailyRate      string `json:"daily_rate" form:"valor_diaria"`
}

// IsBlank reports whether every field is empty or whitespace
func (in *EmployeeInput) IsBlank() bool {
	for _, v := range []string{
		in.Name, in.Role, in.WorkSite, in.ContractType, in.ExamStatus, in.ContractStatus, in.DailyRate,
	} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Filter selects a subset of the roster by compliance state
type Filter string

const (
	FilterAll             Filter = "all"
	FilterHasPending      Filter = "has_pending"
	FilterExamPending     Filter = "exam_pending"
	FilterContractPending Filter = "contract_pending"
)

// RosterStats summarizes the roster for the metrics endpoint
type RosterStats struct {
	Total           int     `json:"total"`
	ExamPending     int     `json:"exam_pending"`
	ContractPending int     `json:"contract_pending"`
	HasPending      int     `json:"has_pending"`
	DailyRateSum    float64 `json:"daily_rate_sum"`
}
