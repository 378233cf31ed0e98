package create_reservation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.OrgID == "" {
		return fmt.Errorf("%w: orgID is required", ErrInvalidInput)
	}

	if req.UserID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	if req.CenterID == "" {
		return fmt.Errorf("%w: centerID is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.BoxName) == "" {
		return fmt.Errorf("%w: box is required", ErrInvalidInput)
	}

	// Врач: либо выбран существующий, либо указано имя нового
	hasDoctor := req.DoctorID != nil && strings.TrimSpace(*req.DoctorID) != ""
	hasNewDoctor := req.NewDoctorName != nil && strings.TrimSpace(*req.NewDoctorName) != ""
	if !hasDoctor && !hasNewDoctor {
		return fmt.Errorf("%w: doctor or new doctor name is required", ErrInvalidInput)
	}
	if hasDoctor && hasNewDoctor {
		return fmt.Errorf("%w: doctor and new doctor name are mutually exclusive", ErrInvalidInput)
	}
	if hasNewDoctor && len(strings.TrimSpace(*req.NewDoctorName)) > domain.MaxNameLength {
		return fmt.Errorf("%w: doctor name exceeds %d characters", ErrInvalidInput, domain.MaxNameLength)
	}

	if len(req.Observation) > domain.MaxObservationLength {
		return fmt.Errorf("%w: observation exceeds %d characters", ErrInvalidInput, domain.MaxObservationLength)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.TimeSlots) == 0 {
		return fmt.Errorf("%w: at least one time slot is required", ErrInvalidInput)
	}

	if len(req.TimeSlots) > domain.MaxSlotsPerRequest {
		return fmt.Errorf("%w: at most %d time slots per request", ErrInvalidInput, domain.MaxSlotsPerRequest)
	}

	for _, slot := range req.TimeSlots {
		if err := slot.Validate(); err != nil {
			return fmt.Errorf("%w: invalid time slot %q: %v", ErrInvalidInput, slot, err)
		}
		if slot.Minutes()%domain.SlotDurationMinutes != 0 {
			return fmt.Errorf("%w: %s is not aligned to %d minutes", ErrInvalidTimeSlot, slot, domain.SlotDurationMinutes)
		}
	}

	if req.Recurrence != nil {
		if err := validateRecurrence(req.Date, req.Recurrence); err != nil {
			return err
		}
	}

	return nil
}

// validateRecurrence проверяет параметры повторения
func validateRecurrence(anchor time.Time, rec *Recurrence) error {
	if rec.EndDate.IsZero() {
		return fmt.Errorf("%w: recurrence end date is required", ErrInvalidInput)
	}

	if len(rec.Weekdays) == 0 {
		return fmt.Errorf("%w: recurrence needs at least one weekday", ErrInvalidInput)
	}

	for _, wd := range rec.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("%w: invalid weekday %d", ErrInvalidInput, wd)
		}
	}

	if rec.EndDate.Before(anchor) {
		return fmt.Errorf("%w: recurrence end date is before start date", ErrInvalidInput)
	}

	return nil
}

// normalizeSlots убирает повторы и сортирует слоты по возрастанию
func normalizeSlots(slots []types.TimeString) []types.TimeString {
	seen := make(map[types.TimeString]bool, len(slots))
	result := make([]types.TimeString, 0, len(slots))

	for _, slot := range slots {
		if seen[slot] {
			continue
		}
		seen[slot] = true
		result = append(result, slot)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].IsBefore(result[j])
	})

	return result
}
