package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidClock = errors.New("invalid time of day")
)

// ParseDate разбирает дату "YYYY-MM-DD" в полночь UTC.
// Даты храним без зоны: зона сервиса учитывается только при вычислении "сегодня".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DateOf отбрасывает время, сохраняя календарный день в зоне t.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today: текущая дата в локали сервиса.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc != nil {
		now = now.In(loc)
	}
	return DateOf(now)
}

// ParseClock разбирает время суток "HH:MM". "HH:MM:SS" принимается только
// с нулевыми секундами: так API отдаёт время обратно.
func ParseClock(s string) (datatypes.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{ClockLayout, "15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil && t.Second() == 0 {
			return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
}

// WholeMinute: время суток без секунд и долей.
func WholeMinute(c datatypes.Time) bool {
	return time.Duration(c)%time.Minute == 0
}

// At склеивает дату и время суток в момент времени.
func At(date time.Time, clock datatypes.Time) time.Time {
	return DateOf(date).Add(time.Duration(clock))
}

// ClockRange: интервал [start, end) внутри дня date.
func ClockRange(date time.Time, start, end datatypes.Time) TimeRange {
	return TimeRange{Start: At(date, start), End: At(date, end)}
}

// ClockOf: время суток момента t.
func ClockOf(t time.Time) datatypes.Time {
	return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0)
}

// FormatClock форматирует время суток как "HH:MM".
func FormatClock(c datatypes.Time) string {
	d := time.Duration(c)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
