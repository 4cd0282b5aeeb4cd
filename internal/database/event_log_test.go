package database

import (
	"context"
	"testing"
	"time"

	"sentinel/internal/domain"
)

func TestEventLogAppendAssignsIDAndDefaultsTimestamp(t *testing.T) {
	eventLog := NewEventLog(setupStoreTestDB(t))
	ctx := context.Background()

	event := domain.Event{
		Username:    "alice",
		SourceIP:    "10.0.0.5",
		EventType:   "login",
		Application: "email",
		Success:     true,
	}

	before := time.Now().UTC().Add(-time.Second)
	if err := eventLog.Append(ctx, &event, false); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	if event.ID == 0 {
		t.Fatal("Append did not assign an identifier")
	}
	if event.Timestamp.Before(before) {
		t.Fatalf("Append did not default the timestamp, got %s", event.Timestamp)
	}
	if event.IsSuspicious {
		t.Fatal("Append stored is_suspicious=true for a clean event")
	}
}

func TestEventLogSuspiciousPagination(t *testing.T) {
	eventLog := NewEventLog(setupStoreTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		event := domain.Event{
			Timestamp:   base.Add(time.Duration(i) * time.Hour),
			Username:    "mallory",
			SourceIP:    "173.99.253.17",
			EventType:   "login",
			Application: "vpn",
			Success:     true,
		}
		if err := eventLog.Append(ctx, &event, true); err != nil {
			t.Fatalf("Append %d returned error: %v", i, err)
		}
	}

	// A clean event must never show up in the suspicious query.
	clean := domain.Event{
		Timestamp:   base.Add(10 * time.Hour),
		Username:    "alice",
		SourceIP:    "10.0.0.5",
		EventType:   "login",
		Application: "email",
		Success:     true,
	}
	if err := eventLog.Append(ctx, &clean, false); err != nil {
		t.Fatalf("Append clean event returned error: %v", err)
	}

	events, err := eventLog.Suspicious(ctx, EventQuery{Limit: 2})
	if err != nil {
		t.Fatalf("Suspicious returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Suspicious returned %d events, want 2", len(events))
	}
	if !events[0].Timestamp.Equal(base.Add(4 * time.Hour)) {
		t.Fatalf("first event timestamp = %s, want %s", events[0].Timestamp, base.Add(4*time.Hour))
	}
	if !events[1].Timestamp.Equal(base.Add(3 * time.Hour)) {
		t.Fatalf("second event timestamp = %s, want %s", events[1].Timestamp, base.Add(3*time.Hour))
	}

	events, err = eventLog.Suspicious(ctx, EventQuery{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("Suspicious with offset returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Suspicious with offset returned %d events, want 1", len(events))
	}
	if !events[0].Timestamp.Equal(base) {
		t.Fatalf("offset event timestamp = %s, want %s", events[0].Timestamp, base)
	}
}

func TestEventLogSuspiciousTimeWindow(t *testing.T) {
	eventLog := NewEventLog(setupStoreTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		event := domain.Event{
			Timestamp:   base.Add(time.Duration(i) * time.Hour),
			Username:    "mallory",
			SourceIP:    "173.99.253.17",
			EventType:   "file_upload",
			Application: "file_manager",
			Success:     true,
		}
		if err := eventLog.Append(ctx, &event, true); err != nil {
			t.Fatalf("Append %d returned error: %v", i, err)
		}
	}

	start := base.Add(30 * time.Minute)
	end := base.Add(90 * time.Minute)
	events, err := eventLog.Suspicious(ctx, EventQuery{Start: &start, End: &end, Limit: 10})
	if err != nil {
		t.Fatalf("Suspicious returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Suspicious returned %d events, want 1", len(events))
	}
	if !events[0].Timestamp.Equal(base.Add(time.Hour)) {
		t.Fatalf("windowed event timestamp = %s, want %s", events[0].Timestamp, base.Add(time.Hour))
	}
}

func TestEventLogCount(t *testing.T) {
	eventLog := NewEventLog(setupStoreTestDB(t))
	ctx := context.Background()

	for i, suspicious := range []bool{true, false, true} {
		event := domain.Event{
			Username:    "alice",
			SourceIP:    "10.0.0.5",
			EventType:   "login",
			Application: "email",
			Success:     true,
		}
		if err := eventLog.Append(ctx, &event, suspicious); err != nil {
			t.Fatalf("Append %d returned error: %v", i, err)
		}
	}

	total, suspicious, err := eventLog.Count(ctx)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if total != 3 || suspicious != 2 {
		t.Fatalf("Count returned total=%d suspicious=%d, want 3 and 2", total, suspicious)
	}
}
