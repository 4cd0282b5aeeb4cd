package database

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	"sentinel/internal/domain"
	"sentinel/internal/support"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateRange is returned when the normalized CIDR already exists.
	ErrDuplicateRange = errors.New("IP range already exists")

	// ErrRangeNotFound is returned when a delete target does not exist.
	ErrRangeNotFound = errors.New("IP range not found")
)

// RangeStore persists suspicious CIDR ranges. Construct it over the main
// handle for standalone calls, or over a transaction inside the engine.
type RangeStore struct {
	db *gorm.DB
}

func NewRangeStore(db *gorm.DB) *RangeStore {
	return &RangeStore{db: db}
}

// Add normalizes and stores a CIDR. Returns the normalized form.
func (s *RangeStore) Add(ctx context.Context, cidr string) (string, error) {
	prefix, err := support.ParseCIDR(cidr)
	if err != nil {
		return "", err
	}

	normalized := prefix.String()
	record := domain.SuspiciousIPRange{CIDR: normalized}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateRange, normalized)
		}
		return "", fmt.Errorf("range store: insert %s: %w", normalized, err)
	}

	return normalized, nil
}

// List returns all stored CIDR strings in storage order.
func (s *RangeStore) List(ctx context.Context) ([]string, error) {
	var cidrs []string
	if err := s.db.WithContext(ctx).
		Model(&domain.SuspiciousIPRange{}).
		Pluck("cidr", &cidrs).Error; err != nil {
		return nil, fmt.Errorf("range store: list: %w", err)
	}
	return cidrs, nil
}

// Delete removes the exact normalized match of the given CIDR.
func (s *RangeStore) Delete(ctx context.Context, cidr string) error {
	prefix, err := support.ParseCIDR(cidr)
	if err != nil {
		return err
	}

	normalized := prefix.String()
	result := s.db.WithContext(ctx).
		Where("cidr = ?", normalized).
		Delete(&domain.SuspiciousIPRange{})
	if result.Error != nil {
		return fmt.Errorf("range store: delete %s: %w", normalized, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRangeNotFound, normalized)
	}
	return nil
}

// Contains reports whether the address falls inside at least one stored
// range. The check is numeric containment (address masked by the prefix
// length against the network address), never string comparison, and a
// prefix of the other address family never matches.
func (s *RangeStore) Contains(ctx context.Context, addr netip.Addr) (bool, error) {
	cidrs, err := s.List(ctx)
	if err != nil {
		return false, err
	}

	for _, cidr := range cidrs {
		prefix, parseErr := netip.ParsePrefix(cidr)
		if parseErr != nil {
			// Rows are normalized on insert, so this only happens on
			// hand-edited data. Skip instead of failing classification.
			log.Warn("range store: skipping unparseable stored range", "cidr", cidr, "error", parseErr)
			continue
		}
		if prefix.Contains(addr) {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of stored ranges.
func (s *RangeStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&domain.SuspiciousIPRange{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("range store: count: %w", err)
	}
	return count, nil
}
