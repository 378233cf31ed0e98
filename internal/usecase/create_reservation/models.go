package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

// Request модель запроса на создание брони или серии броней
type Request struct {
	OrgID         string             // ID организации
	UserID        string             // ID пользователя, создающего бронь
	CenterID      string             // ID центра
	BoxName       string             // Имя бокса в центре
	DoctorID      *string            // Существующий врач центра
	NewDoctorName *string            // Имя нового врача (создаётся, если такого нет)
	Observation   string             // Заметка (опционально)
	Date          time.Time          // Локальная дата (без времени)
	TimeSlots     []types.TimeString // Запрошенные слоты, например ["09:00", "09:30"]
	Recurrence    *Recurrence        // Повторение (опционально)
}

// Recurrence параметры повторения по дням недели
type Recurrence struct {
	EndDate  time.Time      // Последний день (включительно)
	Weekdays []time.Weekday // Дни недели, 0 = воскресенье
}

// Response результат создания
type Response struct {
	DatesProcessed int                // Дни, все слоты которых записаны
	SlotsCreated   int                // Всего созданных броней
	ReservationIDs []string           // ID созданных броней в порядке записи
	Dates          []time.Time        // Целевые даты
	TimeSlots      []types.TimeString // Слоты после нормализации
	BoxID          string
	BoxName        string
	DoctorName     string
	DoctorCreated  bool // Врач создан этим запросом
}
