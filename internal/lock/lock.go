// Package lock сериализует создание броней на одну площадку и дату.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotAcquired: блокировку не удалось получить до истечения контекста.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker выдаёт эксклюзивную блокировку по ключу.
type Locker interface {
	// Lock блокирует до получения или отмены ctx. unlock вызывается ровно один раз.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// DayKey: ключ блокировки для пары (площадка, дата).
func DayKey(facilityID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("reservefield:lock:%s:%s", facilityID, date.Format("2006-01-02"))
}
