package get_day_schedule

import "errors"

var (
	// ErrCenterNotFound возвращается, когда центр не найден в организации
	ErrCenterNotFound = errors.New("get_day_schedule: center not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_day_schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_day_schedule: internal error")
)
