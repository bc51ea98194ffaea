package booking

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var nanosPerHour = decimal.NewFromInt(int64(time.Hour))

// CalculatePrice: стоимость интервала [start, end) по почасовой ставке.
// Берётся точная длительность, сумма округляется до центов.
func CalculatePrice(start, end datatypes.Time, hourlyRate decimal.Decimal) (decimal.Decimal, error) {
	if end <= start {
		return decimal.Zero, ErrInvalidRange
	}
	if hourlyRate.IsNegative() {
		return decimal.Zero, validationError("negative hourly rate %s", hourlyRate)
	}

	return hourlyRate.
		Mul(decimal.NewFromInt(int64(time.Duration(end - start)))).
		Div(nanosPerHour).
		Round(2), nil
}
