package booking

import "github.com/shopspring/decimal"

// RatingAggregate: производные поля рейтинга площадки.
type RatingAggregate struct {
	Average float64
	Count   int
}

// AggregateRatings считает среднее с округлением до одного знака (половина вверх).
// Без отзывов: 0 и 0.
func AggregateRatings(ratings []int) RatingAggregate {
	if len(ratings) == 0 {
		return RatingAggregate{}
	}

	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}

	avg := decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(int64(len(ratings))), 1)
	return RatingAggregate{
		Average: avg.InexactFloat64(),
		Count:   len(ratings),
	}
}
