package hours

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const table = "working_hours"

var columns = []string{
	"id",
	"business_id",
	"staff_id",
	"weekday",
	"is_open",
	"start_minute",
	"end_minute",
	"updated_at",
}

// Repository рабочие часы бизнеса и сотрудников
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetForResource часы конкретного ресурса на день недели, без иерархии.
// staffID == nil означает бизнес целиком.
func (r *Repository) GetForResource(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID, weekday time.Weekday) (*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID, "weekday": int(weekday)}).
		Where(resourceCond(staffID)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetForResource - build select query: %v", ErrBuildQuery, err)
	}

	wh, err := scanHours(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetForResource - scan: %v", ErrScanRow, err)
	}
	return wh, nil
}

// GetEffective часы с учетом иерархии:
// 1. часы сотрудника (если staffID указан)
// 2. часы бизнеса
func (r *Repository) GetEffective(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID, weekday time.Weekday) (*domain.WorkingHours, error) {
	if staffID != nil {
		wh, err := r.GetForResource(ctx, businessID, staffID, weekday)
		if err == nil {
			return wh, nil
		}
		if !errors.Is(err, ErrHoursNotFound) {
			return nil, fmt.Errorf("%w: GetEffective - level 1 (staff): %v", ErrExecQuery, err)
		}
	}

	wh, err := r.GetForResource(ctx, businessID, nil, weekday)
	if err == nil {
		return wh, nil
	}
	if !errors.Is(err, ErrHoursNotFound) {
		return nil, fmt.Errorf("%w: GetEffective - level 2 (business): %v", ErrExecQuery, err)
	}

	return nil, ErrHoursNotFound
}

// ListForResource все настроенные дни ресурса, по возрастанию дня недели
func (r *Repository) ListForResource(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID) ([]*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID}).
		Where(resourceCond(staffID)).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.WorkingHours, 0, 7)
	for rows.Next() {
		wh, err := scanHours(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListForResource - scan row: %v", ErrScanRow, err)
		}
		result = append(result, wh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListForResource - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Upsert создает или заменяет часы ресурса на день недели
func (r *Repository) Upsert(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	conflictTarget := "(business_id, weekday) WHERE staff_id IS NULL"
	if wh.StaffID != nil {
		conflictTarget = "(business_id, staff_id, weekday) WHERE staff_id IS NOT NULL"
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("business_id", "staff_id", "weekday", "is_open", "start_minute", "end_minute").
		Values(wh.BusinessID, nullableUUID(wh.StaffID), int(wh.Weekday), wh.IsOpen, wh.StartMinute, wh.EndMinute).
		Suffix("ON CONFLICT " + conflictTarget + " DO UPDATE SET " +
			"is_open = EXCLUDED.is_open, start_minute = EXCLUDED.start_minute, " +
			"end_minute = EXCLUDED.end_minute, updated_at = NOW() " +
			"RETURNING id, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&wh.ID, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}
	wh.UpdatedAt = updatedAt.Time

	return wh, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHours(row rowScanner) (*domain.WorkingHours, error) {
	var (
		wh        domain.WorkingHours
		staffID   uuid.NullUUID
		weekday   int
		updatedAt sql.NullTime
	)

	if err := row.Scan(
		&wh.ID,
		&wh.BusinessID,
		&staffID,
		&weekday,
		&wh.IsOpen,
		&wh.StartMinute,
		&wh.EndMinute,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if staffID.Valid {
		id := staffID.UUID
		wh.StaffID = &id
	}
	wh.Weekday = time.Weekday(weekday)
	wh.UpdatedAt = updatedAt.Time

	return &wh, nil
}

// resourceCond staff_id = $n либо staff_id IS NULL для бизнеса целиком
func resourceCond(staffID *uuid.UUID) squirrel.Eq {
	if staffID == nil {
		return squirrel.Eq{"staff_id": nil}
	}
	return squirrel.Eq{"staff_id": *staffID}
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
