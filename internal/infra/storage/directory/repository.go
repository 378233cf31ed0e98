package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/psqlbuilder"
)

// Repository репозиторий справочников: центры, боксы, врачи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListCenters получает центры организации, упорядоченные по имени
func (r *Repository) ListCenters(ctx context.Context, orgID string) ([]*domain.Center, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "org_id", "name").
		From("centers").
		Where(squirrel.Eq{"org_id": orgID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListCenters - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCenters - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	centers := make([]*domain.Center, 0)
	for rows.Next() {
		var center domain.Center
		var org sql.NullString
		if err := rows.Scan(&center.ID, &org, &center.Name); err != nil {
			return nil, fmt.Errorf("%w: ListCenters - scan row: %v", ErrScanRow, err)
		}
		center.OrgID = org.String
		centers = append(centers, &center)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListCenters - rows error: %v", ErrScanRow, err)
	}

	return centers, nil
}

// GetCenter получает центр организации по ID
func (r *Repository) GetCenter(ctx context.Context, orgID, id string) (*domain.Center, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "org_id", "name").
		From("centers").
		Where(squirrel.Eq{"id": id, "org_id": orgID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCenter - build select query: %v", ErrBuildQuery, err)
	}

	var center domain.Center
	var org sql.NullString
	err = executor.QueryRowContext(ctx, query, args...).Scan(&center.ID, &org, &center.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCenterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCenter - scan center: %v", ErrScanRow, err)
	}
	center.OrgID = org.String

	return &center, nil
}

// CreateCenter сохраняет центр; ID генерируется, если не задан
func (r *Repository) CreateCenter(ctx context.Context, center *domain.Center) (*domain.Center, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if center.ID == "" {
		center.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("centers").
		Columns("id", "org_id", "name").
		Values(center.ID, center.OrgID, center.Name).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateCenter - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: CreateCenter - execute insert: %v", ErrExecQuery, err)
	}

	return center, nil
}

// ListBoxes получает боксы организации; centerID ограничивает одним центром
func (r *Repository) ListBoxes(ctx context.Context, orgID string, centerID *string) ([]*domain.Box, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "org_id", "center_id", "name").
		From("boxes").
		Where(squirrel.Eq{"org_id": orgID})
	if centerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"center_id": *centerID})
	}

	query, args, err := selectBuilder.OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBoxes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBoxes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	boxes := make([]*domain.Box, 0)
	for rows.Next() {
		var box domain.Box
		var org sql.NullString
		if err := rows.Scan(&box.ID, &org, &box.CenterID, &box.Name); err != nil {
			return nil, fmt.Errorf("%w: ListBoxes - scan row: %v", ErrScanRow, err)
		}
		box.OrgID = org.String
		boxes = append(boxes, &box)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBoxes - rows error: %v", ErrScanRow, err)
	}

	return boxes, nil
}

// CreateBox сохраняет бокс; ID генерируется, если не задан
func (r *Repository) CreateBox(ctx context.Context, box *domain.Box) (*domain.Box, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if box.ID == "" {
		box.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("boxes").
		Columns("id", "org_id", "center_id", "name").
		Values(box.ID, box.OrgID, box.CenterID, box.Name).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBox - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: CreateBox - execute insert: %v", ErrExecQuery, err)
	}

	return box, nil
}

// ListDoctors получает врачей организации; centerID ограничивает одним центром
func (r *Repository) ListDoctors(ctx context.Context, orgID string, centerID *string) ([]*domain.Doctor, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "org_id", "center_id", "name").
		From("doctors").
		Where(squirrel.Eq{"org_id": orgID})
	if centerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"center_id": *centerID})
	}

	query, args, err := selectBuilder.OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDoctors - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDoctors - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	doctors := make([]*domain.Doctor, 0)
	for rows.Next() {
		var doctor domain.Doctor
		var org sql.NullString
		if err := rows.Scan(&doctor.ID, &org, &doctor.CenterID, &doctor.Name); err != nil {
			return nil, fmt.Errorf("%w: ListDoctors - scan row: %v", ErrScanRow, err)
		}
		doctor.OrgID = org.String
		doctors = append(doctors, &doctor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDoctors - rows error: %v", ErrScanRow, err)
	}

	return doctors, nil
}

// GetDoctor получает врача организации по ID
func (r *Repository) GetDoctor(ctx context.Context, orgID, id string) (*domain.Doctor, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "org_id", "center_id", "name").
		From("doctors").
		Where(squirrel.Eq{"id": id, "org_id": orgID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctor - build select query: %v", ErrBuildQuery, err)
	}

	var doctor domain.Doctor
	var org sql.NullString
	err = executor.QueryRowContext(ctx, query, args...).Scan(&doctor.ID, &org, &doctor.CenterID, &doctor.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctor - scan doctor: %v", ErrScanRow, err)
	}
	doctor.OrgID = org.String

	return &doctor, nil
}

// CreateDoctor сохраняет врача; ID генерируется, если не задан
func (r *Repository) CreateDoctor(ctx context.Context, doctor *domain.Doctor) (*domain.Doctor, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if doctor.ID == "" {
		doctor.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("doctors").
		Columns("id", "org_id", "center_id", "name").
		Values(doctor.ID, doctor.OrgID, doctor.CenterID, doctor.Name).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateDoctor - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: CreateDoctor - execute insert: %v", ErrExecQuery, err)
	}

	return doctor, nil
}
