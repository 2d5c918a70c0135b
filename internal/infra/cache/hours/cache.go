package hours

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	hoursRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/hours"
)

const keyPrefix = "scheduling:hours:"

// Source хранилище рабочих часов, которое кэшируется
type Source interface {
	GetEffective(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID, weekday time.Weekday) (*domain.WorkingHours, error)
	ListForResource(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID) ([]*domain.WorkingHours, error)
	Upsert(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Repository read-through кэш рабочих часов в Redis.
// Все ключи бизнеса лежат в одном hash, поэтому инвалидация - один DEL.
// Ошибки Redis не ломают запрос: чтение уходит в Source.
type Repository struct {
	source Source
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

func NewRepository(source Source, client *redis.Client, ttl time.Duration, logger Logger) *Repository {
	return &Repository{
		source: source,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// entry значение в кэше; Found=false хранит отсутствие настройки
type entry struct {
	Found bool                 `json:"found"`
	Hours *domain.WorkingHours `json:"hours,omitempty"`
}

func (r *Repository) GetEffective(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID, weekday time.Weekday) (*domain.WorkingHours, error) {
	key, field := businessKey(businessID), resourceField(staffID, weekday)

	raw, err := r.client.HGet(ctx, key, field).Bytes()
	switch {
	case err == nil:
		var e entry
		if jsonErr := json.Unmarshal(raw, &e); jsonErr == nil {
			if !e.Found {
				return nil, hoursRepo.ErrHoursNotFound
			}
			return e.Hours, nil
		}
		r.logger.Warn("HoursCache: corrupted entry %s/%s dropped", key, field)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("HoursCache: read %s/%s failed: %v", key, field, err)
	}

	wh, err := r.source.GetEffective(ctx, businessID, staffID, weekday)
	if err != nil && !errors.Is(err, hoursRepo.ErrHoursNotFound) {
		return nil, err
	}

	r.store(ctx, key, field, entry{Found: err == nil, Hours: wh})
	return wh, err
}

func (r *Repository) ListForResource(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID) ([]*domain.WorkingHours, error) {
	return r.source.ListForResource(ctx, businessID, staffID)
}

// Upsert пишет в Source и сбрасывает кэш бизнеса
func (r *Repository) Upsert(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error) {
	saved, err := r.source.Upsert(ctx, wh)
	if err != nil {
		return nil, err
	}
	r.Invalidate(ctx, wh.BusinessID)
	return saved, nil
}

// Invalidate удаляет все закэшированные часы бизнеса
func (r *Repository) Invalidate(ctx context.Context, businessID uuid.UUID) {
	if err := r.client.Del(ctx, businessKey(businessID)).Err(); err != nil {
		r.logger.Warn("HoursCache: invalidate business=%s failed: %v", businessID, err)
	}
}

func (r *Repository) store(ctx context.Context, key, field string, e entry) {
	data, err := json.Marshal(e)
	if err != nil {
		r.logger.Warn("HoursCache: marshal %s/%s failed: %v", key, field, err)
		return
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, data)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		r.logger.Warn("HoursCache: write %s/%s failed: %v", key, field, err)
	}
}

func businessKey(businessID uuid.UUID) string {
	return keyPrefix + businessID.String()
}

func resourceField(staffID *uuid.UUID, weekday time.Weekday) string {
	resource := "business"
	if staffID != nil {
		resource = staffID.String()
	}
	return fmt.Sprintf("%s:%d", resource, int(weekday))
}
