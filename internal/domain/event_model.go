package domain

import (
	"time"

	"gorm.io/gorm"
)

// Event is one processed security event. Rows are immutable once written:
// IsSuspicious is the classification decision at insert time and is never
// recomputed when ranges or flags change later.
type Event struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"not null;index"`
	Username  string    `gorm:"not null;size:255"`
	SourceIP  string    `gorm:"not null;size:45"` // IPv6 support
	EventType string    `gorm:"not null;size:255"`

	// FileSizeMB is only meaningful for transfer-style events.
	FileSizeMB *float64

	Application string `gorm:"not null;size:255"`
	Success     bool   `gorm:"not null"`

	// Country is filled from the GeoLite database when one is configured.
	Country string `gorm:"size:2;default:''"`

	IsSuspicious bool `gorm:"not null;default:false;index:ix_events_is_suspicious"`
}

// BeforeCreate defaults the timestamp when the caller did not supply one.
func (event *Event) BeforeCreate(_ *gorm.DB) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return nil
}
