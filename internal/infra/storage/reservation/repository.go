package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/psqlbuilder"
)

const table = "reservations"

var columns = []string{
	"id",
	"org_id",
	"center_id",
	"box_id",
	"box_name",
	"doctor_name",
	"observation",
	"start_time",
	"end_time",
	"user_id",
	"original_event_id",
	"status",
	"cancelled_at",
	"created_at",
}

// activeOnly записи без статуса тоже активны
var activeOnly = squirrel.Or{
	squirrel.Eq{"status": nil},
	squirrel.NotEq{"status": string(domain.StatusCancelled)},
}

// Repository репозиторий броней
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория броней
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую активную бронь.
// Если ID не задан, генерируется UUID.
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	reservation.Status = domain.StatusActive

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"org_id",
			"center_id",
			"box_id",
			"box_name",
			"doctor_name",
			"observation",
			"start_time",
			"end_time",
			"user_id",
			"original_event_id",
			"status",
		).
		Values(
			reservation.ID,
			reservation.OrgID,
			reservation.CenterID,
			reservation.BoxID,
			reservation.BoxName,
			reservation.DoctorName,
			reservation.Observation,
			reservation.StartTime.UTC(),
			reservation.EndTime.UTC(),
			reservation.UserID,
			reservation.OriginalEventID,
			string(reservation.Status),
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&reservation.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return reservation, nil
}

// GetByID получает бронь по ID в любом статусе
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return reservation, nil
}

// List получает брони организации по фильтру, упорядоченные по времени начала.
//
// Примеры:
//
// 1. Активные брони центра на локальный день:
//    filter := domain.ReservationFilter{OrgID: org, CenterID: &center, From: &dayStart, To: &dayEnd}
//
// 2. Серия врача в боксе (для отмены диапазоном):
//    filter := domain.ReservationFilter{OrgID: org, CenterID: &center, BoxID: &box, DoctorName: &name}
//
// 3. Все брони периода включая отменённые (аналитика):
//    filter := domain.ReservationFilter{OrgID: org, From: &from, To: &to, IncludeCancelled: true}
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"org_id": filter.OrgID})

	if filter.CenterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"center_id": *filter.CenterID})
	}
	if filter.BoxID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"box_id": *filter.BoxID})
	}
	if filter.DoctorName != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"doctor_name": *filter.DoctorName})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"start_time": filter.To.UTC()})
	}
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(activeOnly)
	}

	query, args, err := selectBuilder.OrderBy("start_time ASC", "box_name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// Cancel переводит активную бронь в cancelled.
// Возвращает false без ошибки, если бронь уже отменена: cancelled_at не перезаписывается.
func (r *Repository) Cancel(ctx context.Context, id string, at time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(domain.StatusCancelled)).
		Set("cancelled_at", at.UTC()).
		Where(squirrel.Eq{"id": id}).
		Where(activeOnly).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected > 0 {
		return true, nil
	}

	// Ничего не обновлено: бронь либо уже отменена, либо отсутствует
	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// CancelBatch отменяет набор броней одним запросом (всё или ничего).
// Уже отменённые брони не затрагиваются. Возвращает число отменённых.
func (r *Repository) CancelBatch(ctx context.Context, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(domain.StatusCancelled)).
		Set("cancelled_at", at.UTC()).
		Where(squirrel.Eq{"id": ids}).
		Where(activeOnly).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelBatch - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelBatch - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelBatch - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// UpdateObservation меняет только текст заметки, статус и время не трогаются
func (r *Repository) UpdateObservation(ctx context.Context, id string, observation string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("observation", observation).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateObservation - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateObservation - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateObservation - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// UpsertBatch записывает пакет броней одним запросом.
// Брони с существующим ID сливаются с сохранённой записью: обновляются импортируемые поля,
// статус, время отмены и время создания остаются прежними. Новые брони создаются активными.
// Внутри пакета при повторе ID побеждает последняя запись.
func (r *Repository) UpsertBatch(ctx context.Context, reservations []*domain.Reservation) (int, error) {
	batch := dedupeByID(reservations)
	if len(batch) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(table).
		Columns(
			"id",
			"org_id",
			"center_id",
			"box_id",
			"box_name",
			"doctor_name",
			"observation",
			"start_time",
			"end_time",
			"user_id",
			"original_event_id",
			"status",
		)

	for _, res := range batch {
		insertBuilder = insertBuilder.Values(
			res.ID,
			res.OrgID,
			res.CenterID,
			res.BoxID,
			res.BoxName,
			res.DoctorName,
			res.Observation,
			res.StartTime.UTC(),
			res.EndTime.UTC(),
			res.UserID,
			res.OriginalEventID,
			string(domain.StatusActive),
		)
	}

	query, args, err := insertBuilder.
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			org_id = EXCLUDED.org_id,
			center_id = EXCLUDED.center_id,
			box_id = EXCLUDED.box_id,
			box_name = EXCLUDED.box_name,
			doctor_name = EXCLUDED.doctor_name,
			observation = EXCLUDED.observation,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			user_id = EXCLUDED.user_id,
			original_event_id = EXCLUDED.original_event_id`).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: UpsertBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("%w: UpsertBatch - execute insert: %v", ErrExecQuery, err)
	}

	return len(batch), nil
}

// Count считает брони на стороне сервера; пустой orgID означает все организации
func (r *Repository) Count(ctx context.Context, orgID string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").From(table)
	if orgID != "" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"org_id": orgID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		reservation     domain.Reservation
		orgID           sql.NullString
		originalEventID sql.NullString
		status          sql.NullString
		cancelledAt     sql.NullTime
	)

	err := row.Scan(
		&reservation.ID,
		&orgID,
		&reservation.CenterID,
		&reservation.BoxID,
		&reservation.BoxName,
		&reservation.DoctorName,
		&reservation.Observation,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.UserID,
		&originalEventID,
		&status,
		&cancelledAt,
		&reservation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	reservation.OrgID = orgID.String
	reservation.Status = domain.NormalizeStatus(status.String)
	if originalEventID.Valid {
		reservation.OriginalEventID = &originalEventID.String
	}
	if cancelledAt.Valid {
		reservation.CancelledAt = &cancelledAt.Time
	}

	return &reservation, nil
}

func dedupeByID(reservations []*domain.Reservation) []*domain.Reservation {
	index := make(map[string]int, len(reservations))
	result := make([]*domain.Reservation, 0, len(reservations))

	for _, res := range reservations {
		if res == nil {
			continue
		}
		if res.ID == "" {
			res.ID = uuid.NewString()
		}
		if i, ok := index[res.ID]; ok {
			result[i] = res
			continue
		}
		index[res.ID] = len(result)
		result = append(result, res)
	}

	return result
}
