package import_data

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/internal/infra/storage/maintenance"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/directory"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/csvrows"
)

// Исходы строк для метрик
const (
	outcomeImported = "imported"
	outcomeSkipped  = "skipped"
)

// UseCase use case пакетного импорта справочников и броней из CSV
type UseCase struct {
	reservationRepo ReservationRepository
	maintenanceRepo MaintenanceRepository
	resolvers       ResolverFactory
	metrics         MetricsRecorder
	opts            Options
	sleep           func(ctx context.Context, d time.Duration) error
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	maintenanceRepo MaintenanceRepository,
	resolvers ResolverFactory,
	metrics MetricsRecorder,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 400
	}
	if opts.RescueBatchSize <= 0 {
		opts.RescueBatchSize = 400
	}

	return &UseCase{
		reservationRepo: reservationRepo,
		maintenanceRepo: maintenanceRepo,
		resolvers:       resolvers,
		metrics:         metrics,
		opts:            opts,
		sleep:           sleepContext,
		logger:          logger,
	}
}

// Execute выполняет импорт одного файла.
// Строка без обязательных полей пропускается. Сбой записи прерывает прогон,
// результат при этом содержит уже записанное.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Result, error) {
	uc.logger.Info("ImportData: org=%s, kind=%s, rows=%d", req.OrgID, req.Kind, len(req.Rows))

	// 1. Валидация входных данных
	if req.OrgID == "" {
		return nil, fmt.Errorf("%w: orgID is required", ErrInvalidInput)
	}
	if _, err := ParseKind(string(req.Kind)); err != nil {
		return nil, err
	}
	if req.Kind == KindReservations && req.UserID == "" {
		return nil, fmt.Errorf("%w: userID is required for reservations", ErrInvalidInput)
	}

	sink := req.Log
	if sink == nil {
		sink = func(string) {}
	}

	// 2. Резолвер живёт ровно один прогон
	resolver := uc.resolvers.NewResolver(req.OrgID)
	result := &Result{Kind: req.Kind}

	var err error
	switch req.Kind {
	case KindInfrastructure:
		err = uc.importInfrastructure(ctx, resolver, req.Rows, result, sink)
	case KindDoctors:
		err = uc.importDoctors(ctx, resolver, req.Rows, result, sink)
	case KindReservations:
		err = uc.importReservations(ctx, resolver, req, result, sink)
	}

	// 3. Итоги
	stats := resolver.Stats()
	result.CentersCreated = stats.CentersCreated
	result.BoxesCreated = stats.BoxesCreated
	result.DoctorsCreated = stats.DoctorsCreated

	uc.metrics.IncImportRows(string(req.Kind), outcomeImported, result.RowsSeen-result.RowsSkipped)
	uc.metrics.IncImportRows(string(req.Kind), outcomeSkipped, result.RowsSkipped)

	if err != nil {
		uc.logger.Error("ImportData: kind=%s aborted after %d rows: %v", req.Kind, result.RowsSeen, err)
		sink(fmt.Sprintf("ERROR: %v", err))
		return result, err
	}

	uc.logger.Info("ImportData: kind=%s done: seen=%d skipped=%d centers=%d boxes=%d doctors=%d reservations=%d",
		req.Kind, result.RowsSeen, result.RowsSkipped, result.CentersCreated, result.BoxesCreated,
		result.DoctorsCreated, result.ReservationsCommitted)

	return result, nil
}

func (uc *UseCase) importInfrastructure(ctx context.Context, resolver *directory.Resolver, rows []csvrows.Row, result *Result, sink LogSink) error {
	sink(fmt.Sprintf("Processing %d infrastructure rows...", len(rows)))

	for _, row := range rows {
		result.RowsSeen++

		centerName := row.Get("cae")
		boxName := row.Get("box")
		if centerName == "" || boxName == "" {
			result.RowsSkipped++
			continue
		}

		center, created, err := resolver.ResolveCenter(ctx, centerName)
		if err != nil {
			return fmt.Errorf("%w: resolve center %q: %v", ErrStorage, centerName, err)
		}
		if created {
			sink(fmt.Sprintf("[+] New center: %s", center.Name))
		}

		if _, created, err = resolver.ResolveBox(ctx, center.ID, boxName); err != nil {
			return fmt.Errorf("%w: resolve box %q: %v", ErrStorage, boxName, err)
		}
		if created && resolver.Stats().BoxesCreated%10 == 0 {
			sink(fmt.Sprintf("[+] %d boxes added...", resolver.Stats().BoxesCreated))
		}
	}

	stats := resolver.Stats()
	sink(fmt.Sprintf("DONE: %d centers and %d boxes created", stats.CentersCreated, stats.BoxesCreated))
	return nil
}

func (uc *UseCase) importDoctors(ctx context.Context, resolver *directory.Resolver, rows []csvrows.Row, result *Result, sink LogSink) error {
	sink(fmt.Sprintf("Processing %d doctor rows...", len(rows)))

	for _, row := range rows {
		result.RowsSeen++

		centerName := row.Get("cae")
		doctorName := row.Get("medico")
		if centerName == "" || doctorName == "" {
			result.RowsSkipped++
			continue
		}

		center, created, err := resolver.ResolveCenter(ctx, centerName)
		if err != nil {
			return fmt.Errorf("%w: resolve center %q: %v", ErrStorage, centerName, err)
		}
		if created {
			sink(fmt.Sprintf("[+] New center created for doctor: %s", center.Name))
		}

		if _, created, err = resolver.ResolveDoctor(ctx, center.ID, doctorName); err != nil {
			return fmt.Errorf("%w: resolve doctor %q: %v", ErrStorage, doctorName, err)
		}
		if created && resolver.Stats().DoctorsCreated%5 == 0 {
			sink(fmt.Sprintf("[+] %d doctors added...", resolver.Stats().DoctorsCreated))
		}
	}

	sink(fmt.Sprintf("DONE: %d doctors created", resolver.Stats().DoctorsCreated))
	return nil
}

func (uc *UseCase) importReservations(ctx context.Context, resolver *directory.Resolver, req *Request, result *Result, sink LogSink) error {
	sink(fmt.Sprintf("Loading %d reservations for org %s...", len(req.Rows), req.OrgID))

	batch := make([]*domain.Reservation, 0, uc.opts.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		if result.Batches > 0 {
			if err := uc.sleep(ctx, uc.opts.BatchPause); err != nil {
				return fmt.Errorf("%w: %v", ErrCancelled, err)
			}
		}

		written, err := uc.reservationRepo.UpsertBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("%w: batch %d: %v", ErrStorage, result.Batches+1, err)
		}

		result.Batches++
		result.ReservationsCommitted += written
		sink(fmt.Sprintf("[PROGRESS] Saved %d / %d...", result.ReservationsCommitted, len(req.Rows)))
		batch = batch[:0]
		return nil
	}

	for i, row := range req.Rows {
		result.RowsSeen++

		parsed, err := parseReservationRow(row)
		if err != nil {
			result.RowsSkipped++
			uc.logger.Warn("ImportData: row %d skipped: %v", i+1, err)
			continue
		}

		center, _, err := resolver.ResolveCenter(ctx, parsed.centerName)
		if err != nil {
			return fmt.Errorf("%w: resolve center %q: %v", ErrStorage, parsed.centerName, err)
		}
		box, _, err := resolver.ResolveBox(ctx, center.ID, parsed.boxName)
		if err != nil {
			return fmt.Errorf("%w: resolve box %q: %v", ErrStorage, parsed.boxName, err)
		}

		reservation := &domain.Reservation{
			ID:          parsed.id,
			OrgID:       req.OrgID,
			CenterID:    center.ID,
			BoxID:       box.ID,
			BoxName:     box.Name,
			DoctorName:  parsed.doctorName,
			Observation: domain.ImportedObservation,
			StartTime:   parsed.start,
			EndTime:     parsed.end,
			UserID:      req.UserID,
		}
		if parsed.eventID != "" {
			eventID := parsed.eventID
			reservation.OriginalEventID = &eventID
		}

		batch = append(batch, reservation)
		if len(batch) >= uc.opts.BatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	sink(fmt.Sprintf("SUCCESS: %d reservations processed", result.ReservationsCommitted))
	return nil
}

// RescueOrphans переносит в организацию записи всех коллекций без организации или с чужой организацией.
// Записи переносятся пакетами с паузой; сбой прерывает прогон, перенесённое остаётся.
func (uc *UseCase) RescueOrphans(ctx context.Context, orgID string, log LogSink) (*RescueResult, error) {
	uc.logger.Info("RescueOrphans: org=%s", orgID)

	if orgID == "" {
		return nil, fmt.Errorf("%w: orgID is required", ErrInvalidInput)
	}
	if log == nil {
		log = func(string) {}
	}

	result := &RescueResult{PerCollection: make(map[string]int64, len(maintenance.Collections))}

	for _, collection := range maintenance.Collections {
		log(fmt.Sprintf("Scanning collection: %s...", collection))

		ids, err := uc.maintenanceRepo.ListForeignIDs(ctx, collection, orgID)
		if err != nil {
			uc.logger.Error("RescueOrphans: list %s failed: %v", collection, err)
			return result, fmt.Errorf("%w: list %s: %v", ErrStorage, collection, err)
		}

		for start := 0; start < len(ids); start += uc.opts.RescueBatchSize {
			if start > 0 {
				if err := uc.sleep(ctx, uc.opts.RescuePause); err != nil {
					return result, fmt.Errorf("%w: %v", ErrCancelled, err)
				}
			}

			end := start + uc.opts.RescueBatchSize
			if end > len(ids) {
				end = len(ids)
			}

			moved, err := uc.maintenanceRepo.ReassignOrg(ctx, collection, ids[start:end], orgID)
			if err != nil {
				uc.logger.Error("RescueOrphans: reassign %s failed: %v", collection, err)
				return result, fmt.Errorf("%w: reassign %s: %v", ErrStorage, collection, err)
			}
			result.PerCollection[collection] += moved
			result.Total += moved
		}

		log(fmt.Sprintf("  > %d records reassigned in %s", result.PerCollection[collection], collection))
	}

	uc.logger.Info("RescueOrphans: org=%s, %d records reassigned", orgID, result.Total)
	return result, nil
}

// CountReservations считает брони на стороне хранилища; пустой orgID означает все организации
func (uc *UseCase) CountReservations(ctx context.Context, orgID string) (int64, error) {
	count, err := uc.reservationRepo.Count(ctx, orgID)
	if err != nil {
		uc.logger.Error("CountReservations: %v", err)
		return 0, fmt.Errorf("%w: count reservations: %v", ErrInternal, err)
	}
	return count, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
