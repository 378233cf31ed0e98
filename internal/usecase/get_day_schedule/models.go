package get_day_schedule

import (
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

// Request модель запроса сетки дня
type Request struct {
	OrgID      string    // ID организации
	CenterID   string    // ID центра
	Date       time.Time // Локальная дата (без времени)
	DoctorName *string   // Поиск по имени врача (подстрока, без учёта регистра)
	BoxName    *string   // Поиск по имени бокса (подстрока, без учёта регистра)
}

// Response модель ответа с сеткой дня
type Response struct {
	Date       time.Time
	CenterID   string
	CenterName string
	Boxes      []*domain.Box       // Колонки сетки в естественном порядке
	TimeLabels []types.TimeString  // Строки сетки: окно дня с шагом слота
	Grid       domain.TimeSlotGrid // Бокс -> время -> занятость
	Occupied   int                 // Занятые ячейки в отображаемых боксах
	Free       int                 // Свободные ячейки окна в отображаемых боксах
}
