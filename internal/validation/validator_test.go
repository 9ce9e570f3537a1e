package validation

import (
	"errors"
	"testing"

	"github.com/roster-api/internal/models"
)

func TestDailyRate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr error
	}{
		{name: "blank is zero", raw: "", want: 0},
		{name: "whitespace is zero", raw: "   ", want: 0},
		{name: "plain integer", raw: "150", want: 150},
		{name: "dot decimal", raw: "120.5", want: 120.5},
		{name: "comma decimal", raw: "120,50", want: 120.5},
		{name: "currency prefix", raw: "R$ 95,00", want: 95},
		{name: "brazilian thousands", raw: "1.234,56", want: 1234.56},
		{name: "english thousands", raw: "1,234.56", want: 1234.56},
		{name: "dotted thousands only", raw: "1.234.567", want: 1234567},
		{name: "rounds to cents", raw: "10.006", want: 10.01},
		{name: "not a number", raw: "not-a-number", want: 0, wantErr: ErrInvalidRate},
		{name: "NaN rejected", raw: "NaN", want: 0, wantErr: ErrInvalidRate},
		{name: "negative clamps", raw: "-30", want: 0, wantErr: ErrNegativeRate},
		{name: "overflows cents", raw: "1e308", want: 0, wantErr: ErrRateTooLarge},
		{name: "above numeric precision", raw: "10000000000", want: 0, wantErr: ErrRateTooLarge},
		{name: "largest storable", raw: "9.999.999.999,99", want: MaxDailyRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DailyRate(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DailyRate(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DailyRate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want models.Status
	}{
		{"OK", models.StatusOK},
		{"ok", models.StatusOK},
		{"  Ok ", models.StatusOK},
		{"PENDING", models.StatusPending},
		{"SIM", models.StatusPending},
		{"", models.StatusPending},
		{"OK!", models.StatusPending},
	}

	for _, tt := range tests {
		if got := Status(tt.raw); got != tt.want {
			t.Errorf("Status(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestContractType(t *testing.T) {
	if got := ContractType(" clt "); got != "CLT" {
		t.Errorf("Expected CLT, got %q", got)
	}
	if got := ContractType(""); got != models.DefaultContractType {
		t.Errorf("Expected default contract type, got %q", got)
	}
	if got := ContractType("   "); got != models.DefaultContractType {
		t.Errorf("Expected default contract type for whitespace, got %q", got)
	}
}

func TestToggleIsInvolution(t *testing.T) {
	for _, s := range []models.Status{models.StatusOK, models.StatusPending} {
		if got := Toggle(Toggle(s)); got != s {
			t.Errorf("Toggle(Toggle(%s)) = %s", s, got)
		}
	}
	if Toggle(models.StatusOK) != models.StatusPending {
		t.Error("OK should toggle to PENDING")
	}
}

func TestAdjustRate(t *testing.T) {
	tests := []struct {
		name           string
		current, delta float64
		want           float64
	}{
		{name: "increase", current: 100, delta: 10, want: 110},
		{name: "decrease", current: 100, delta: -25.5, want: 74.5},
		{name: "clamps at zero", current: 50, delta: -80, want: 0},
		{name: "rounds", current: 0.1, delta: 0.2, want: 0.3},
		{name: "clamps at ceiling", current: 100, delta: 1e308, want: MaxDailyRate},
		{name: "huge negative clamps at zero", current: 100, delta: -1e308, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustRate(tt.current, tt.delta); got != tt.want {
				t.Errorf("AdjustRate(%v, %v) = %v, want %v", tt.current, tt.delta, got, tt.want)
			}
		})
	}
}

func TestEmployee(t *testing.T) {
	tests := []struct {
		name       string
		input      *models.EmployeeInput
		want       models.Employee
		wantFields []string
	}{
		{
			name: "full row",
			input: &models.EmployeeInput{
				Name:           " Ana Souza ",
				Role:           "Cozinheira",
				WorkSite:       "Natal",
				ContractType:   "clt",
				ExamStatus:     "ok",
				ContractStatus: "PENDENTE",
				DailyRate:      "120,00",
			},
			want: models.Employee{
				Name:           "Ana Souza",
				Role:           "Cozinheira",
				WorkSite:       "Natal",
				ContractType:   "CLT",
				ExamStatus:     models.StatusOK,
				ContractStatus: models.StatusPending,
				DailyRate:      120,
			},
		},
		{
			name:  "defaults for missing fields",
			input: &models.EmployeeInput{Name: "João"},
			want: models.Employee{
				Name:           "João",
				ContractType:   models.DefaultContractType,
				ExamStatus:     models.StatusPending,
				ContractStatus: models.StatusPending,
			},
		},
		{
			name: "degraded values are noted",
			input: &models.EmployeeInput{
				Name:       "Maria",
				ExamStatus: "SIM",
				DailyRate:  "abc",
			},
			want: models.Employee{
				Name:           "Maria",
				ContractType:   models.DefaultContractType,
				ExamStatus:     models.StatusPending,
				ContractStatus: models.StatusPending,
			},
			wantFields: []string{"daily_rate", "exam_status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, notes := Employee(tt.input, 7)
			if *got != tt.want {
				t.Errorf("Employee() = %+v, want %+v", *got, tt.want)
			}
			if len(notes) != len(tt.wantFields) {
				t.Fatalf("Expected %d notes, got %d: %v", len(tt.wantFields), len(notes), notes)
			}
			for i, field := range tt.wantFields {
				if notes[i].Field != field {
					t.Errorf("Note %d field = %s, want %s", i, notes[i].Field, field)
				}
				if notes[i].Line != 7 {
					t.Errorf("Note %d line = %d, want 7", i, notes[i].Line)
				}
			}
		})
	}
}

func TestNewHireForcesPending(t *testing.T) {
	e := NewHire(&models.EmployeeInput{
		Name:           "Carlos",
		ExamStatus:     "OK",
		ContractStatus: "OK",
		DailyRate:      "not-a-number",
	})

	if e.ExamStatus != models.StatusPending || e.ContractStatus != models.StatusPending {
		t.Errorf("Expected both flags PENDING, got %s / %s", e.ExamStatus, e.ContractStatus)
	}
	if e.DailyRate != 0 {
		t.Errorf("Expected rate 0, got %v", e.DailyRate)
	}
	if e.ContractType != models.DefaultContractType {
		t.Errorf("Expected default contract type, got %s", e.ContractType)
	}
}

// BenchmarkEmployee benchmarks the full normalization of one spreadsheet row
func BenchmarkEmployee(b *testing.B) {
	in := &models.EmployeeInput{
		Name:           "  Ana Souza ",
		Role:           "Cozinheira",
		WorkSite:       "Restaurante Centro",
		ContractType:   "intermitent",
		ExamStatus:     "ok",
		ContractStatus: "pendente",
		DailyRate:      "R$ 1.234,50",
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		Employee(in, i)
	}
}
