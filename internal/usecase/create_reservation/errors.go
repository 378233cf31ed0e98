package create_reservation

import "errors"

var (
	// ErrCenterNotFound возвращается, когда центр не найден в организации
	ErrCenterNotFound = errors.New("create_reservation: center not found")

	// ErrBoxNotFound возвращается, когда бокс с таким именем в центре не найден
	ErrBoxNotFound = errors.New("create_reservation: box not found")

	// ErrDoctorNotFound возвращается, когда выбранный врач не найден в центре
	ErrDoctorNotFound = errors.New("create_reservation: doctor not found")

	// ErrInvalidTimeSlot возвращается, когда время слота некорректно
	// (не кратно длительности слота, попадает в переход на летнее время или заканчивается после полуночи)
	ErrInvalidTimeSlot = errors.New("create_reservation: invalid time slot")

	// ErrNoTargetDates возвращается, когда в диапазоне повторения нет ни одного выбранного дня недели
	ErrNoTargetDates = errors.New("create_reservation: recurrence produced no dates")

	// ErrSlotConflict возвращается, когда хотя бы один запрошенный слот уже занят.
	// Запрос отклоняется целиком, клиенту нужно обновить сетку и повторить.
	ErrSlotConflict = errors.New("create_reservation: slot already occupied")

	// ErrSlotBusy возвращается в строгом режиме, если те же слоты сейчас бронирует другой запрос
	ErrSlotBusy = errors.New("create_reservation: slot is being booked by another request")

	// ErrPartialFailure возвращается, когда запись оборвалась на середине.
	// Уже созданные брони остаются, их число есть в ответе.
	ErrPartialFailure = errors.New("create_reservation: partially created")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
