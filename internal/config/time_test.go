package config

import (
	"testing"
	"time"
)

func TestCalculateInterval(t *testing.T) {
	t.Run("enforces minimum interval", func(t *testing.T) {
		if got := CalculateInterval(Timer{}); got != time.Second {
			t.Fatalf("CalculateInterval returned %s, want 1s", got)
		}
	})

	t.Run("returns configured duration", func(t *testing.T) {
		timer := Timer{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}
		want := 24*time.Hour + 2*time.Hour + 3*time.Minute + 4*time.Second
		if got := CalculateInterval(timer); got != want {
			t.Fatalf("CalculateInterval returned %s, want %s", got, want)
		}
	})
}

func TestSetIntervals(t *testing.T) {
	origCfg := GetConfig()
	origInterval := GetFeedRefreshInterval()
	origListeners := feedIntervalListeners

	t.Cleanup(func() {
		configValue.Store(origCfg)
		feedRefreshInterval.Store(origInterval)
		feedIntervalListeners = origListeners
	})

	testCfg := Config{}
	testCfg.Feeds.RefreshTimer = Timer{Minutes: 30}

	configValue.Store(testCfg)
	feedIntervalListeners = nil

	SetIntervals()

	if got := GetFeedRefreshInterval(); got != 30*time.Minute {
		t.Fatalf("GetFeedRefreshInterval returned %s, want 30m", got)
	}
}

func TestSetIntervalsZeroTimerFallsBackToDefault(t *testing.T) {
	origCfg := GetConfig()
	origInterval := GetFeedRefreshInterval()
	origListeners := feedIntervalListeners

	t.Cleanup(func() {
		configValue.Store(origCfg)
		feedRefreshInterval.Store(origInterval)
		feedIntervalListeners = origListeners
	})

	configValue.Store(Config{})
	feedIntervalListeners = nil

	SetIntervals()

	if got := GetFeedRefreshInterval(); got != defaultFeedRefreshInterval {
		t.Fatalf("GetFeedRefreshInterval returned %s, want %s", got, defaultFeedRefreshInterval)
	}
}

func TestFeedIntervalUpdates(t *testing.T) {
	origInterval := GetFeedRefreshInterval()
	origListeners := feedIntervalListeners

	t.Cleanup(func() {
		feedRefreshInterval.Store(origInterval)
		feedIntervalListeners = origListeners
	})

	feedRefreshInterval.Store(time.Second)
	feedIntervalListeners = nil

	ch := FeedIntervalUpdates()
	first := <-ch
	if first != time.Second {
		t.Fatalf("initial update = %s, want 1s", first)
	}

	setFeedRefreshInterval(5 * time.Second)

	select {
	case next := <-ch:
		if next != 5*time.Second {
			t.Fatalf("next update = %s, want 5s", next)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for interval update")
	}

	// Verify no duplicate notification when same interval is set.
	setFeedRefreshInterval(5 * time.Second)
	select {
	case <-ch:
		t.Fatal("unexpected update when interval unchanged")
	case <-time.After(50 * time.Millisecond):
	}
}
