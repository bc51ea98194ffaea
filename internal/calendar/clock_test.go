package calendar

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-19")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", d)
	}

	if _, err := ParseDate("19/10/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseClock(t *testing.T) {
	cases := map[string]datatypes.Time{
		"09:00":    datatypes.NewTime(9, 0, 0, 0),
		"22:30":    datatypes.NewTime(22, 30, 0, 0),
		"08:15:00": datatypes.NewTime(8, 15, 0, 0),
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseClock(%q) = %v, want %v", in, got, want)
		}
	}

	for _, bad := range []string{"", "25:00", "9am", "10:61", "10:00:30", "09:30:59"} {
		if _, err := ParseClock(bad); !errors.Is(err, ErrInvalidClock) {
			t.Fatalf("ParseClock(%q): expected ErrInvalidClock, got %v", bad, err)
		}
	}
}

func TestWholeMinute(t *testing.T) {
	if !WholeMinute(datatypes.NewTime(10, 30, 0, 0)) {
		t.Fatalf("10:30:00 must be a whole minute")
	}
	if WholeMinute(datatypes.NewTime(10, 0, 30, 0)) {
		t.Fatalf("10:00:30 must not be a whole minute")
	}
	if WholeMinute(datatypes.NewTime(10, 0, 0, 500)) {
		t.Fatalf("nanoseconds must not pass as a whole minute")
	}
}

func TestToday_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	// 01:00 UTC 20 октября: это ещё 19 октября в UTC-3.
	now := time.Date(2026, 10, 20, 1, 0, 0, 0, time.UTC)

	got := Today(now, loc)
	if !got.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected today: %v", got)
	}
}

func TestClockRangeAndFormat(t *testing.T) {
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tr := ClockRange(date, datatypes.NewTime(9, 0, 0, 0), datatypes.NewTime(10, 30, 0, 0))

	if tr.Duration() != 90*time.Minute {
		t.Fatalf("unexpected duration: %v", tr.Duration())
	}
	if got := FormatClock(ClockOf(tr.End)); got != "10:30" {
		t.Fatalf("FormatClock = %q", got)
	}

	str := FormatSlotForUser(tr, true, "abc")
	for _, part := range []string{"Lunes", "19.10.2026", "09:00", "10:30", "ID: abc"} {
		if !strings.Contains(str, part) {
			t.Fatalf("expected %q in %q", part, str)
		}
	}
}
