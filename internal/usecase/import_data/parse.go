package import_data

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/csvrows"
)

var errBadTimestamp = errors.New("unparseable timestamp")

// timestampLayouts форматы времени внешних выгрузок. Без смещения время считается UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05-07",
	"2006-01-02T15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// parseTimestamp разбирает момент времени с явным или подразумеваемым (UTC) смещением
func parseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errBadTimestamp, raw)
}

// reservationRow поля строки брони после разбора
type reservationRow struct {
	id         string
	eventID    string
	centerName string
	boxName    string
	doctorName string
	start      time.Time
	end        time.Time
}

// parseReservationRow разбирает строку брони. Ошибка означает, что строку нужно пропустить.
func parseReservationRow(row csvrows.Row) (*reservationRow, error) {
	centerName := row.Get("location", "cae")
	boxName := boxFromDescription(row.Get("description"))
	startRaw := row.Get("start_time")

	if centerName == "" || boxName == "" || startRaw == "" {
		return nil, errors.New("missing center, box or start_time")
	}

	start, err := parseTimestamp(startRaw)
	if err != nil {
		return nil, err
	}

	end := start.Add(domain.SlotDurationMinutes * time.Minute)
	if endRaw := row.Get("end_time"); endRaw != "" {
		end, err = parseTimestamp(endRaw)
		if err != nil {
			return nil, err
		}
	}
	if !end.After(start) {
		return nil, fmt.Errorf("end_time %s is not after start_time %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	doctor := strings.TrimSpace(strings.ReplaceAll(row.Get("summary"), `"`, ""))
	if doctor == "" {
		doctor = domain.DefaultImportedDoctorName
	}

	return &reservationRow{
		id:         row.Get("id"),
		eventID:    row.Get("event_id"),
		centerName: centerName,
		boxName:    boxName,
		doctorName: doctor,
		start:      start,
		end:        end,
	}, nil
}

// boxFromDescription имя бокса это текст до первого дефиса
func boxFromDescription(description string) string {
	if i := strings.Index(description, "-"); i >= 0 {
		return strings.TrimSpace(description[:i])
	}
	return strings.TrimSpace(description)
}
