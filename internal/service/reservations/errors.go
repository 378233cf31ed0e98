package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронь не найдена в организации
	ErrReservationNotFound = errors.New("reservations: reservation not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reservations: invalid input data")

	// ErrInvalidDateRange возвращается, когда конец диапазона раньше начала
	ErrInvalidDateRange = errors.New("reservations: end date is before start date")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations: internal error")
)
