package import_data

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/pkg/csvrows"
)

// Kind тип импортируемого файла
type Kind string

const (
	KindInfrastructure Kind = "infrastructure" // колонки cae, box
	KindDoctors        Kind = "doctors"        // колонки cae, medico
	KindReservations   Kind = "reservations"   // колонки location|cae, description, summary, start_time, end_time, id, event_id
)

// ParseKind разбирает тип файла без учёта регистра
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindInfrastructure, KindDoctors, KindReservations:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Request модель запроса импорта
type Request struct {
	OrgID  string        // Организация, в которую идёт импорт
	UserID string        // Автор импортированных броней
	Kind   Kind          // Тип файла
	Rows   []csvrows.Row // Строки файла
	Log    LogSink       // Получатель сообщений о ходе (опционально)
}

// Options параметры пакетной записи
type Options struct {
	BatchSize       int           // Строк броней в пакете
	BatchPause      time.Duration // Пауза между пакетами броней
	RescueBatchSize int           // Записей в пакете восстановления
	RescuePause     time.Duration // Пауза между пакетами восстановления
}

// Result итог прогона импорта
type Result struct {
	Kind                  Kind
	RowsSeen              int
	RowsSkipped           int
	CentersCreated        int
	BoxesCreated          int
	DoctorsCreated        int
	ReservationsCommitted int
	Batches               int
}

// RescueResult итог восстановления данных организации
type RescueResult struct {
	PerCollection map[string]int64
	Total         int64
}
