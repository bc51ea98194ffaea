package calendar

import (
	"fmt"
	"time"
)

var esWeekdays = map[time.Weekday]string{
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

// WeekdayName: название дня недели для интерфейса.
func WeekdayName(w time.Weekday) string {
	return esWeekdays[w]
}

// FormatSlotForUser форматирует интервал в человекочитаемую строку,
// например "Lunes, 20.10.2026, 09:00–10:00".
// Если includeID = true, в конце добавляется идентификатор брони в скобках.
func FormatSlotForUser(tr TimeRange, includeID bool, id string) string {
	base := fmt.Sprintf("%s, %s, %s–%s",
		WeekdayName(tr.Start.Weekday()),
		tr.Start.Format("02.01.2006"),
		tr.Start.Format(ClockLayout),
		tr.End.Format(ClockLayout),
	)

	if includeID && id != "" {
		return fmt.Sprintf("%s (ID: %s)", base, id)
	}

	return base
}
