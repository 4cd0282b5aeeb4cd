package dto

import (
	"fmt"
	"time"

	"sentinel/internal/domain"
	"sentinel/internal/support"
)

// EventRequest is one incoming event in a /process-event batch. The wire
// names follow the public API contract.
type EventRequest struct {
	Timestamp   *time.Time `json:"timestamp"`
	Username    string     `json:"username"`
	SourceIP    string     `json:"source_ip"`
	EventType   string     `json:"event_type"`
	FileSizeMB  *float64   `json:"file_size_mb"`
	Application string     `json:"application"`
	Success     *bool      `json:"success"`
}

// Validate checks required fields and IP syntax, and returns the normalized
// domain event. Malformed input is rejected here so it never reaches the
// classification engine.
func (r EventRequest) Validate() (domain.Event, error) {
	if r.Username == "" {
		return domain.Event{}, fmt.Errorf("username is required")
	}
	if r.EventType == "" {
		return domain.Event{}, fmt.Errorf("event_type is required")
	}
	if r.Application == "" {
		return domain.Event{}, fmt.Errorf("application is required")
	}
	if r.Success == nil {
		return domain.Event{}, fmt.Errorf("success is required")
	}

	addr, err := support.ParseIP(r.SourceIP)
	if err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		Username:    r.Username,
		SourceIP:    addr.String(),
		EventType:   r.EventType,
		FileSizeMB:  r.FileSizeMB,
		Application: r.Application,
		Success:     *r.Success,
	}
	if r.Timestamp != nil {
		event.Timestamp = *r.Timestamp
	}
	return event, nil
}

// EventResponse reports the classification outcome for one processed event.
type EventResponse struct {
	User         string `json:"user"`
	IP           string `json:"ip"`
	IsSuspicious bool   `json:"is_suspicious"`
}

// EventRecord is a stored event as returned by /suspicious-events.
type EventRecord struct {
	ID           uint64    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Username     string    `json:"username"`
	SourceIP     string    `json:"source_ip"`
	EventType    string    `json:"event_type"`
	FileSizeMB   *float64  `json:"file_size_mb,omitempty"`
	Application  string    `json:"application"`
	Success      bool      `json:"success"`
	Country      string    `json:"country,omitempty"`
	IsSuspicious bool      `json:"is_suspicious"`
}

// EventRecordFrom maps a stored event onto the wire shape.
func EventRecordFrom(event domain.Event) EventRecord {
	return EventRecord{
		ID:           event.ID,
		Timestamp:    event.Timestamp,
		Username:     event.Username,
		SourceIP:     event.SourceIP,
		EventType:    event.EventType,
		FileSizeMB:   event.FileSizeMB,
		Application:  event.Application,
		Success:      event.Success,
		Country:      event.Country,
		IsSuspicious: event.IsSuspicious,
	}
}
