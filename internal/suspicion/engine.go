package suspicion

import (
	"context"
	"fmt"

	"sentinel/internal/database"
	"sentinel/internal/domain"
	"sentinel/internal/geo"
	"sentinel/internal/support"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Engine classifies incoming events against the range and flag stores and
// records the outcome. It holds no state between calls; each event is a pure
// read of the current store contents plus the flag/event writes.
type Engine struct {
	db  *gorm.DB
	geo *geo.Resolver // may be nil
}

// NewEngine wires the engine to its store handle. The geo resolver is
// optional and may be nil.
func NewEngine(db *gorm.DB, resolver *geo.Resolver) *Engine {
	return &Engine{db: db, geo: resolver}
}

// Result is the per-event outcome reported back to the caller.
type Result struct {
	Username   string
	SourceIP   string
	Suspicious bool
}

// ProcessEvent runs the classification protocol for one event:
//
//  1. look up whether the user is flagged, the IP is flagged, and the IP
//     falls inside a stored range,
//  2. the event is suspicious iff any of the three holds,
//  3. a suspicious event flags its user and IP if they were not already,
//  4. the event is appended with the computed value.
//
// Once any signal fires, both the user and the IP stay flagged, so later
// events from either are caught by the membership shortcut without
// rescanning ranges. Everything runs in one transaction: either the event
// row and any new flag rows commit together, or none of them do.
func (e *Engine) ProcessEvent(ctx context.Context, event domain.Event) (bool, error) {
	addr, err := support.ParseIP(event.SourceIP)
	if err != nil {
		return false, err
	}
	event.SourceIP = addr.String()

	if event.Country == "" {
		event.Country = e.geo.Country(addr)
	}

	var suspicious bool
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flags := database.NewFlagStore(tx)
		ranges := database.NewRangeStore(tx)
		events := database.NewEventLog(tx)

		userFlagged, err := flags.IsUserFlagged(ctx, event.Username)
		if err != nil {
			return err
		}
		ipFlagged, err := flags.IsIPFlagged(ctx, addr)
		if err != nil {
			return err
		}
		inRange, err := ranges.Contains(ctx, addr)
		if err != nil {
			return err
		}

		suspicious = userFlagged || ipFlagged || inRange

		if suspicious && !userFlagged {
			if err := flags.FlagUser(ctx, event.Username); err != nil {
				return err
			}
		}
		if suspicious && !ipFlagged {
			if err := flags.FlagIP(ctx, addr); err != nil {
				return err
			}
		}

		return events.Append(ctx, &event, suspicious)
	})
	if err != nil {
		return false, fmt.Errorf("suspicion: process event: %w", err)
	}

	if suspicious {
		log.Debug("Suspicious event recorded", "user", event.Username, "ip", event.SourceIP, "type", event.EventType)
	}
	return suspicious, nil
}

// ProcessBatch classifies events sequentially in submission order, each in
// its own transaction. The first storage failure aborts the remainder.
func (e *Engine) ProcessBatch(ctx context.Context, events []domain.Event) ([]Result, error) {
	results := make([]Result, 0, len(events))
	for i, event := range events {
		suspicious, err := e.ProcessEvent(ctx, event)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		results = append(results, Result{
			Username:   event.Username,
			SourceIP:   event.SourceIP,
			Suspicious: suspicious,
		})
	}
	return results, nil
}
