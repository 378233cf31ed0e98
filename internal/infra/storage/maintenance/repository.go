package maintenance

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicBoxService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/psqlbuilder"
)

// Collections таблицы, записи которых принадлежат организации
var Collections = []string{"centers", "boxes", "doctors", "reservations"}

// Repository сервисные операции над данными организаций
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListForeignIDs возвращает ID записей коллекции без организации или с чужой организацией
func (r *Repository) ListForeignIDs(ctx context.Context, collection, orgID string) ([]string, error) {
	if !known(collection) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From(collection).
		Where(squirrel.Or{
			squirrel.Eq{"org_id": nil},
			squirrel.Eq{"org_id": ""},
			squirrel.NotEq{"org_id": orgID},
		}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForeignIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForeignIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListForeignIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListForeignIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// ReassignOrg переносит записи коллекции в организацию одним запросом
func (r *Repository) ReassignOrg(ctx context.Context, collection string, ids []string, orgID string) (int64, error) {
	if !known(collection) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(collection).
		Set("org_id", orgID).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ReassignOrg - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ReassignOrg - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ReassignOrg - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func known(collection string) bool {
	for _, c := range Collections {
		if c == collection {
			return true
		}
	}
	return false
}
