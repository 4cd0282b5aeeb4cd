package database

import (
	"context"
	"fmt"
	"time"

	"sentinel/internal/domain"

	"gorm.io/gorm"
)

const (
	defaultQueryLimit = 100
	maxQueryLimit     = 10000
)

// EventLog is the append-only record of every processed event, suspicious or
// not. Rows are never updated after insert.
type EventLog struct {
	db *gorm.DB
}

func NewEventLog(db *gorm.DB) *EventLog {
	return &EventLog{db: db}
}

// Append stores the event with its classification result. The database
// assigns the identifier; a zero timestamp is defaulted to now by the
// model's BeforeCreate hook.
func (l *EventLog) Append(ctx context.Context, event *domain.Event, isSuspicious bool) error {
	event.IsSuspicious = isSuspicious
	if err := l.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("event log: append: %w", err)
	}
	return nil
}

// EventQuery narrows a suspicious-event lookup. Nil bounds are open ends.
type EventQuery struct {
	Start  *time.Time
	End    *time.Time
	Limit  int
	Offset int
}

// Suspicious returns flagged events newest-first with pagination. Limits
// outside [1, maxQueryLimit] fall back to the defaults; callers wanting a
// hard rejection validate before calling.
func (l *EventLog) Suspicious(ctx context.Context, query EventQuery) ([]domain.Event, error) {
	limit := query.Limit
	if limit < 1 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	tx := l.db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("is_suspicious = ?", true)

	if query.Start != nil {
		tx = tx.Where("timestamp >= ?", *query.Start)
	}
	if query.End != nil {
		tx = tx.Where("timestamp <= ?", *query.End)
	}

	var events []domain.Event
	err := tx.Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("event log: query: %w", err)
	}
	return events, nil
}

// Count returns total and suspicious event counts.
func (l *EventLog) Count(ctx context.Context) (total int64, suspicious int64, err error) {
	if err = l.db.WithContext(ctx).
		Model(&domain.Event{}).
		Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("event log: count: %w", err)
	}
	if err = l.db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("is_suspicious = ?", true).
		Count(&suspicious).Error; err != nil {
		return 0, 0, fmt.Errorf("event log: count suspicious: %w", err)
	}
	return total, suspicious, nil
}
