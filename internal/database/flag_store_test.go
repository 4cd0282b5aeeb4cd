package database

import (
	"context"
	"net/netip"
	"testing"
)

func TestFlagStoreUserLifecycle(t *testing.T) {
	store := NewFlagStore(setupStoreTestDB(t))
	ctx := context.Background()

	flagged, err := store.IsUserFlagged(ctx, "alice")
	if err != nil {
		t.Fatalf("IsUserFlagged returned error: %v", err)
	}
	if flagged {
		t.Fatal("user flagged before any insert")
	}

	if err := store.FlagUser(ctx, "alice"); err != nil {
		t.Fatalf("FlagUser returned error: %v", err)
	}

	flagged, err = store.IsUserFlagged(ctx, "alice")
	if err != nil {
		t.Fatalf("IsUserFlagged returned error: %v", err)
	}
	if !flagged {
		t.Fatal("user not flagged after FlagUser")
	}
}

func TestFlagStoreUserIdempotent(t *testing.T) {
	store := NewFlagStore(setupStoreTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.FlagUser(ctx, "alice"); err != nil {
			t.Fatalf("FlagUser call %d returned error: %v", i, err)
		}
	}

	flagged, err := store.IsUserFlagged(ctx, "alice")
	if err != nil {
		t.Fatalf("IsUserFlagged returned error: %v", err)
	}
	if !flagged {
		t.Fatal("membership lost after repeated FlagUser")
	}

	count, err := store.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountUsers returned %d, want 1", count)
	}
}

func TestFlagStoreIPIdempotent(t *testing.T) {
	store := NewFlagStore(setupStoreTestDB(t))
	ctx := context.Background()
	addr := netip.MustParseAddr("173.99.253.17")

	for i := 0; i < 3; i++ {
		if err := store.FlagIP(ctx, addr); err != nil {
			t.Fatalf("FlagIP call %d returned error: %v", i, err)
		}
	}

	flagged, err := store.IsIPFlagged(ctx, addr)
	if err != nil {
		t.Fatalf("IsIPFlagged returned error: %v", err)
	}
	if !flagged {
		t.Fatal("membership lost after repeated FlagIP")
	}

	count, err := store.CountIPs(ctx)
	if err != nil {
		t.Fatalf("CountIPs returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountIPs returned %d, want 1", count)
	}
}

func TestFlagStoreSetsAreIndependent(t *testing.T) {
	store := NewFlagStore(setupStoreTestDB(t))
	ctx := context.Background()

	if err := store.FlagUser(ctx, "alice"); err != nil {
		t.Fatalf("FlagUser returned error: %v", err)
	}

	flagged, err := store.IsIPFlagged(ctx, netip.MustParseAddr("10.0.0.5"))
	if err != nil {
		t.Fatalf("IsIPFlagged returned error: %v", err)
	}
	if flagged {
		t.Fatal("flagging a user leaked into the IP set")
	}
}
