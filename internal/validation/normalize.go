package validation

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/roster-api/internal/models"
)

var (
	ErrInvalidRate  = errors.New("daily rate is not a number")
	ErrNegativeRate = errors.New("daily rate is negative")
	ErrRateTooLarge = errors.New("daily rate is too large")
)

// MaxDailyRate is the largest value a NUMERIC(12,2) column holds
const MaxDailyRate = 9999999999.99

// Text trims surrounding whitespace
func Text(raw string) string {
	return strings.TrimSpace(raw)
}

// ContractType uppercases the value, falling back to the default when blank
func ContractType(raw string) string {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return models.DefaultContractType
	}
	return v
}

// Status maps a raw flag to OK only on a case-insensitive "ok"; anything else is PENDING
func Status(raw string) models.Status {
	if strings.EqualFold(strings.TrimSpace(raw), string(models.StatusOK)) {
		return models.StatusOK
	}
	return models.StatusPending
}

// Toggle flips a compliance flag
func Toggle(s models.Status) models.Status {
	if s == models.StatusOK {
		return models.StatusPending
	}
	return models.StatusOK
}

// Round2 rounds to cents
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AdjustRate applies a signed delta and clamps the result to [0, MaxDailyRate]
func AdjustRate(current, delta float64) float64 {
	v := current + delta
	if math.IsNaN(v) {
		return Round2(math.Max(0, math.Min(current, MaxDailyRate)))
	}
	return Round2(math.Max(0, math.Min(v, MaxDailyRate)))
}

// DailyRate parses a rate as typed into a form or a spreadsheet cell.
// Blank is 0 without error. Unparseable and negative values return 0 together
// with the reason, so callers can note the coercion.
func DailyRate(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	s = strings.TrimSpace(strings.TrimPrefix(strings.ToUpper(s), "R$"))
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)
	s = normalizeDecimal(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidRate
	}
	if v < 0 {
		return 0, ErrNegativeRate
	}
	if v > MaxDailyRate {
		return 0, ErrRateTooLarge
	}
	return Round2(v), nil
}

// normalizeDecimal turns "1.234,56", "1,234.56", "120,5" and "1.234.567"
// into strconv-friendly form
func normalizeDecimal(s string) string {
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")

	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}
