package get_occupancy_report

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
)

// Granularity шаг временного ряда
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week" // неделя начинается с понедельника
	GranularityMonth Granularity = "month"
)

// ParseGranularity разбирает шаг ряда; пустая строка означает день
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return GranularityDay, nil
	case GranularityDay, GranularityWeek, GranularityMonth:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown granularity %q", ErrInvalidInput, s)
	}
}

// Request модель запроса отчёта о загрузке
type Request struct {
	OrgID         string                // ID организации
	CenterID      *string               // Ограничение одним центром (опционально)
	StartDate     time.Time             // Первая локальная дата периода
	EndDate       time.Time             // Последняя локальная дата периода (включительно)
	Granularity   Granularity           // Шаг временного ряда
	BusinessHours *domain.BusinessHours // Часы работы вместо настроенных (опционально)
}

// BoxOccupancy загрузка одного бокса за период
type BoxOccupancy struct {
	BoxID       string
	BoxName     string
	CenterID    string
	Occupied    int
	Capacity    int
	OccupiedPct float64 // 0..100, один знак после запятой
}

// TimelinePoint число активных броней в одном интервале ряда
type TimelinePoint struct {
	Key   string // YYYY-MM-DD для дня и недели, YYYY-MM для месяца
	Count int
}

// Response модель ответа с отчётом
type Response struct {
	StartDate        time.Time
	EndDate          time.Time
	Granularity      Granularity
	Active           int
	Cancelled        int
	CancellationRate float64 // Доля отменённых в процентах
	CapacityPerBox   int     // Слотов на один бокс за период
	Boxes            []BoxOccupancy
	Timeline         []TimelinePoint
}
