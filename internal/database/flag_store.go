package database

import (
	"context"
	"fmt"
	"net/netip"

	"sentinel/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FlagStore holds the two independent membership sets: flagged usernames and
// flagged addresses. Flags are monotonic; nothing here ever deletes a row.
type FlagStore struct {
	db *gorm.DB
}

func NewFlagStore(db *gorm.DB) *FlagStore {
	return &FlagStore{db: db}
}

func (s *FlagStore) IsUserFlagged(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&domain.FlaggedUser{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("flag store: user lookup: %w", err)
	}
	return count > 0, nil
}

func (s *FlagStore) IsIPFlagged(ctx context.Context, addr netip.Addr) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&domain.FlaggedIP{}).
		Where("ip = ?", addr.String()).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("flag store: ip lookup: %w", err)
	}
	return count > 0, nil
}

// FlagUser inserts the username into the flagged set. Concurrent processing
// of two events from the same unflagged user can both reach this call, so
// duplicates are absorbed instead of failing the transaction.
func (s *FlagStore) FlagUser(ctx context.Context, username string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.FlaggedUser{Username: username}).Error
	if err != nil {
		return fmt.Errorf("flag store: flag user %q: %w", username, err)
	}
	return nil
}

// FlagIP is the address-side counterpart of FlagUser.
func (s *FlagStore) FlagIP(ctx context.Context, addr netip.Addr) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.FlaggedIP{IP: addr.String()}).Error
	if err != nil {
		return fmt.Errorf("flag store: flag ip %s: %w", addr, err)
	}
	return nil
}

// CountUsers returns the number of flagged usernames.
func (s *FlagStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&domain.FlaggedUser{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("flag store: count users: %w", err)
	}
	return count, nil
}

// CountIPs returns the number of flagged addresses.
func (s *FlagStore) CountIPs(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&domain.FlaggedIP{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("flag store: count ips: %w", err)
	}
	return count, nil
}
