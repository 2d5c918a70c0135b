package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const (
	pqSerializationFailure = "40001"
	pqExclusionViolation   = "23P01"
)

var columns = []string{
	"id",
	"business_id",
	"service_id",
	"staff_id",
	"customer_id",
	"customer_name",
	"customer_phone",
	"start_time",
	"end_time",
	"status",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей (appointments) и клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Если в контексте передана активная транзакция, использует её.
// Пересечение с уже существующей записью того же ресурса отсекается
// exclusion constraint в БД и возвращается как ErrConcurrentBooking.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"id",
			"business_id",
			"service_id",
			"staff_id",
			"customer_id",
			"customer_name",
			"customer_phone",
			"start_time",
			"end_time",
			"status",
			"notes",
		).
		Values(
			a.ID,
			a.BusinessID,
			a.ServiceID,
			nullableUUID(a.StaffID),
			nullableUUID(a.CustomerID),
			a.CustomerName,
			a.CustomerPhone,
			a.StartTime.UTC(),
			a.EndTime.UTC(),
			a.Status,
			a.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		if isConcurrentBooking(err) {
			return nil, fmt.Errorf("%w: Create: %v", ErrConcurrentBooking, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}
	return a, nil
}

// ListBooked записи ресурса, занимающие время в полуинтервале [from, to).
// staffID == nil выбирает записи на бизнес целиком (staff_id IS NULL).
// Отмененные записи время не занимают. Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) ListBooked(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(resourceCond(staffID)).
		Where(squirrel.NotEq{"status": statusStrings(domain.FreeingStatuses)}).
		Where(squirrel.Lt{"start_time": to.UTC()}).
		Where(squirrel.Gt{"end_time": from.UTC()}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBooked - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if isConcurrentBooking(err) {
			return nil, fmt.Errorf("%w: ListBooked: %v", ErrConcurrentBooking, err)
		}
		return nil, fmt.Errorf("%w: ListBooked - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListWithFilter записи бизнеса с фильтрацией по сотруднику, периоду и статусу.
// Без указания статуса и IncludeInactive отмененные и no-show исключаются.
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": filter.To.UTC()})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	query, args, err := selectBuilder.OrderBy("start_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isConcurrentBooking(err) {
			return fmt.Errorf("%w: UpdateStatus: %v", ErrConcurrentBooking, err)
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// GetOrCreateCustomer находит клиента бизнеса по телефону или создает нового.
// Имя существующего клиента не перезаписывается.
func (r *Repository) GetOrCreateCustomer(ctx context.Context, businessID uuid.UUID, name, phone string) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customers").
		Columns("id", "business_id", "name", "phone").
		Values(uuid.New(), businessID, name, phone).
		Suffix("ON CONFLICT (business_id, phone) DO UPDATE SET phone = EXCLUDED.phone " +
			"RETURNING id, business_id, name, phone, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOrCreateCustomer - build insert query: %v", ErrBuildQuery, err)
	}

	var (
		c         domain.Customer
		createdAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.BusinessID, &c.Name, &c.Phone, &createdAt)
	if err != nil {
		if isConcurrentBooking(err) {
			return nil, fmt.Errorf("%w: GetOrCreateCustomer: %v", ErrConcurrentBooking, err)
		}
		return nil, fmt.Errorf("%w: GetOrCreateCustomer - execute insert: %v", ErrExecQuery, err)
	}
	c.CreatedAt = createdAt.Time

	return &c, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		staffID, customerID  uuid.NullUUID
		status               string
		notes                sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	if err := row.Scan(
		&a.ID,
		&a.BusinessID,
		&a.ServiceID,
		&staffID,
		&customerID,
		&a.CustomerName,
		&a.CustomerPhone,
		&a.StartTime,
		&a.EndTime,
		&status,
		&notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if staffID.Valid {
		id := staffID.UUID
		a.StaffID = &id
	}
	if customerID.Valid {
		id := customerID.UUID
		a.CustomerID = &id
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	a.Status = domain.AppointmentStatus(status)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func isConcurrentBooking(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqSerializationFailure || pqErr.Code == pqExclusionViolation
	}
	return false
}

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

func statusStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
