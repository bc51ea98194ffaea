package booking

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/reservefield/booking-core/internal/calendar"
)

func clock(t *testing.T, s string) datatypes.Time {
	t.Helper()
	c, err := calendar.ParseClock(s)
	if err != nil {
		t.Fatalf("parse clock %q: %v", s, err)
	}
	return c
}

func TestCalculatePrice(t *testing.T) {
	cases := []struct {
		start, end string
		rate       string
		want       string
	}{
		{"10:00", "10:30", "10.00", "5.00"},
		{"10:00", "11:00", "20.00", "20.00"},
		{"10:00", "11:30", "40.00", "60.00"},
		{"09:00", "09:20", "25.00", "8.33"},
		{"09:00", "09:10", "0.05", "0.01"},
		{"18:00", "19:00", "0", "0.00"},
	}
	for _, tc := range cases {
		got, err := CalculatePrice(clock(t, tc.start), clock(t, tc.end), decimal.RequireFromString(tc.rate))
		if err != nil {
			t.Fatalf("%s-%s: unexpected error: %v", tc.start, tc.end, err)
		}
		if got.StringFixed(2) != tc.want {
			t.Fatalf("%s-%s at %s: expected %s, got %s", tc.start, tc.end, tc.rate, tc.want, got.StringFixed(2))
		}
	}
}

func TestCalculatePrice_ExactDuration(t *testing.T) {
	rate := decimal.RequireFromString("60.00")

	got, err := CalculatePrice(datatypes.NewTime(10, 0, 0, 0), datatypes.NewTime(10, 30, 59, 0), rate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StringFixed(2) != "30.98" {
		t.Fatalf("expected 30.98 for 30m59s, got %s", got.StringFixed(2))
	}

	got, err = CalculatePrice(datatypes.NewTime(10, 0, 0, 0), datatypes.NewTime(10, 0, 30, 0), rate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsZero() {
		t.Fatalf("a non-empty interval must not be free")
	}
}

func TestCalculatePrice_Invalid(t *testing.T) {
	if _, err := CalculatePrice(clock(t, "11:00"), clock(t, "10:00"), decimal.NewFromInt(10)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := CalculatePrice(clock(t, "10:00"), clock(t, "10:00"), decimal.NewFromInt(10)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for empty range, got %v", err)
	}
	if _, err := CalculatePrice(clock(t, "10:00"), clock(t, "11:00"), decimal.NewFromInt(-1)); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAggregateRatings(t *testing.T) {
	cases := []struct {
		ratings []int
		want    RatingAggregate
	}{
		{nil, RatingAggregate{}},
		{[]int{3, 4, 5}, RatingAggregate{Average: 4.0, Count: 3}},
		{[]int{5, 4, 5}, RatingAggregate{Average: 4.7, Count: 3}},
		{[]int{4, 5}, RatingAggregate{Average: 4.5, Count: 2}},
		{[]int{1, 2, 2, 2}, RatingAggregate{Average: 1.8, Count: 4}},
		{[]int{1}, RatingAggregate{Average: 1, Count: 1}},
	}
	for _, tc := range cases {
		if got := AggregateRatings(tc.ratings); got != tc.want {
			t.Fatalf("ratings %v: expected %+v, got %+v", tc.ratings, tc.want, got)
		}
	}
}

func TestReasonOf(t *testing.T) {
	wrapped := errors.Join(errors.New("ctx"), ErrOverlap)
	if got := ReasonOf(wrapped); got != ReasonOverlap {
		t.Fatalf("expected overlap, got %q", got)
	}
	if got := ReasonOf(&OutsideHoursError{Opens: clock(t, "09:00"), Closes: clock(t, "22:00")}); got != ReasonOutsideOperatingHours {
		t.Fatalf("expected outside_operating_hours, got %q", got)
	}
	if IsRejection(errors.New("connection reset")) {
		t.Fatal("infrastructure error must not be a rejection")
	}
	if ReasonOf(nil) != "" {
		t.Fatal("nil error has no reason")
	}
}
