// Package localtime переводит моменты времени в локальные дату и время организации и обратно.
// Смещение UTC определяется для каждого момента отдельно, поэтому переходы на летнее время учитываются.
package localtime

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

// DefaultZoneName зона по умолчанию
const DefaultZoneName = "America/Santiago"

// DateLayout формат календарной даты
const DateLayout = "2006-01-02"

var (
	// ErrUnknownZone возвращается для неизвестного имени зоны
	ErrUnknownZone = errors.New("localtime: unknown time zone")

	// ErrNonexistentLocalTime возвращается для локального времени, попавшего в разрыв при переводе часов
	ErrNonexistentLocalTime = errors.New("localtime: local time does not exist in zone")
)

// Zone часовой пояс организации
type Zone struct {
	loc *time.Location
}

// NewZone загружает зону из встроенной базы IANA
func NewZone(name string) (*Zone, error) {
	if name == "" {
		name = DefaultZoneName
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownZone, name, err)
	}
	return &Zone{loc: loc}, nil
}

// MustZone паникует, если зона не найдена
func MustZone(name string) *Zone {
	z, err := NewZone(name)
	if err != nil {
		panic(err)
	}
	return z
}

// Name имя зоны
func (z *Zone) Name() string {
	return z.loc.String()
}

// Location возвращает *time.Location зоны
func (z *Zone) Location() *time.Location {
	return z.loc
}

// TimeOf возвращает локальное время суток момента (HH:MM)
func (z *Zone) TimeOf(instant time.Time) types.TimeString {
	return types.NewTimeString(instant.In(z.loc))
}

// DateOf возвращает локальную календарную дату момента (00:00 UTC)
func (z *Zone) DateOf(instant time.Time) time.Time {
	local := instant.In(z.loc)
	return Date(local.Year(), local.Month(), local.Day())
}

// Instant строит момент из локальной даты и времени суток.
// Время, которого нет в зоне (разрыв при переводе часов вперёд), считается ошибкой.
func (z *Zone) Instant(date time.Time, at types.TimeString) (time.Time, error) {
	if err := at.Validate(); err != nil {
		return time.Time{}, err
	}
	result := time.Date(date.Year(), date.Month(), date.Day(), at.Hour(), at.Minute(), 0, 0, z.loc)
	if z.TimeOf(result) != at {
		return time.Time{}, fmt.Errorf("%w: %s %s", ErrNonexistentLocalTime, date.Format(DateLayout), at)
	}
	return result, nil
}

// DayBounds возвращает начало (00:00) и конец (23:59:59.999) локального дня включительно
func (z *Zone) DayBounds(date time.Time) (time.Time, time.Time) {
	start := z.startOfDay(date)
	next := z.startOfDay(date.AddDate(0, 0, 1))
	return start, next.Add(-time.Millisecond)
}

// Format форматирует момент в RFC 3339 с явным смещением зоны
func (z *Zone) Format(instant time.Time) string {
	return instant.In(z.loc).Format(time.RFC3339)
}

// startOfDay первый момент локальных суток. В зонах, где часы переводятся в полночь,
// 00:00 может не существовать, тогда берётся первый существующий момент.
func (z *Zone) startOfDay(date time.Time) time.Time {
	t := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, z.loc)
	if t.In(z.loc).Day() != date.Day() {
		t = time.Date(date.Year(), date.Month(), date.Day(), 1, 0, 0, 0, z.loc)
	}
	return t
}

// Date календарная дата без зоны
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate парсит YYYY-MM-DD в календарную дату
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate форматирует календарную дату
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}
