package get_occupancy_report

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_occupancy_report: invalid input data")

	// ErrInvalidDateRange возвращается, если начало периода позже конца
	ErrInvalidDateRange = errors.New("get_occupancy_report: start date is after end date")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_occupancy_report: internal error")
)
