package import_data

import "errors"

var (
	// ErrUnknownKind возвращается для неизвестного типа файла
	ErrUnknownKind = errors.New("import_data: unknown import kind")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("import_data: invalid input data")

	// ErrStorage возвращается, когда запись пакета не удалась.
	// Уже записанные пакеты остаются, их число есть в результате.
	ErrStorage = errors.New("import_data: storage failure, run aborted")

	// ErrCancelled возвращается, когда прогон прерван между пакетами
	ErrCancelled = errors.New("import_data: run cancelled")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("import_data: internal error")
)
