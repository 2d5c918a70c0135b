package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository чтение профиля бизнеса: сам бизнес, услуги и сотрудники.
// Редактирование этих данных живет в другом месте.
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusiness получает бизнес по ID
func (r *Repository) GetBusiness(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"slug",
		"name",
		"timezone",
		"slot_granularity_minutes",
		"advance_booking_days",
		"created_at",
		"updated_at",
	).
		From("businesses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusiness - build select query: %v", ErrBuildQuery, err)
	}

	var (
		b                    domain.Business
		createdAt, updatedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.OwnerID,
		&b.Slug,
		&b.Name,
		&b.Timezone,
		&b.SlotGranularityMinutes,
		&b.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusiness - scan business: %v", ErrScanRow, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}

// GetService получает услугу бизнеса
func (r *Repository) GetService(ctx context.Context, businessID, serviceID uuid.UUID) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "title", "duration_minutes", "price").
		From("services").
		Where(squirrel.Eq{"id": serviceID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.BusinessID,
		&s.Title,
		&s.DurationMinutes,
		&s.Price,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}
	return &s, nil
}

// GetStaff получает сотрудника бизнеса (включая неактивных)
func (r *Repository) GetStaff(ctx context.Context, businessID, staffID uuid.UUID) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "name", "title", "is_active").
		From("staff").
		Where(squirrel.Eq{"id": staffID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s     domain.Staff
		title sql.NullString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.BusinessID, &s.Name, &title, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %v", ErrScanRow, err)
	}
	if title.Valid {
		s.Title = &title.String
	}
	return &s, nil
}

// HasActiveStaff есть ли у бизнеса хотя бы один активный сотрудник
func (r *Repository) HasActiveStaff(ctx context.Context, businessID uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	sub, args, err := psqlbuilder.Select("1").
		From("staff").
		Where(squirrel.Eq{"business_id": businessID, "is_active": true}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveStaff - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasActiveStaff - execute query: %v", ErrExecQuery, err)
	}
	return exists, nil
}
