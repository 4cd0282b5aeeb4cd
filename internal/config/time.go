package config

import (
	"sync"
	"sync/atomic"
	"time"
)

type Timer struct {
	Days    uint32 `json:"days"`
	Hours   uint32 `json:"hours"`
	Minutes uint32 `json:"minutes"`
	Seconds uint32 `json:"seconds"`
}

const defaultFeedRefreshInterval = 6 * time.Hour

var (
	feedRefreshInterval   atomic.Value
	feedIntervalListeners []chan time.Duration
	listenersMu           sync.Mutex
)

func init() {
	feedRefreshInterval.Store(defaultFeedRefreshInterval)
}

// SetIntervals recomputes derived intervals from the current configuration.
func SetIntervals() {
	setFeedRefreshInterval(calculateFeedRefreshInterval(GetConfig()))
}

// CalculateInterval converts a Timer to a duration with a one-second floor.
func CalculateInterval(timer Timer) time.Duration {
	intervalMs := uint64(timer.Days)*24*60*60*1000 +
		uint64(timer.Hours)*60*60*1000 +
		uint64(timer.Minutes)*60*1000 +
		uint64(timer.Seconds)*1000

	minInterval := uint64(1000)
	if intervalMs < minInterval {
		intervalMs = minInterval
	}

	return time.Duration(intervalMs) * time.Millisecond
}

func calculateFeedRefreshInterval(cfg Config) time.Duration {
	timer := cfg.Feeds.RefreshTimer
	if timer.Days == 0 && timer.Hours == 0 && timer.Minutes == 0 && timer.Seconds == 0 {
		return defaultFeedRefreshInterval
	}
	return CalculateInterval(timer)
}

func GetFeedRefreshInterval() time.Duration {
	return feedRefreshInterval.Load().(time.Duration)
}

// FeedIntervalUpdates registers a listener that receives the current value
// immediately and every later change.
func FeedIntervalUpdates() <-chan time.Duration {
	ch := make(chan time.Duration, 1)
	listenersMu.Lock()
	feedIntervalListeners = append(feedIntervalListeners, ch)
	listenersMu.Unlock()

	ch <- GetFeedRefreshInterval()
	return ch
}

func setFeedRefreshInterval(interval time.Duration) {
	if interval <= 0 {
		interval = defaultFeedRefreshInterval
	}

	current := GetFeedRefreshInterval()
	if current == interval {
		return
	}

	feedRefreshInterval.Store(interval)

	listenersMu.Lock()
	defer listenersMu.Unlock()
	for _, ch := range feedIntervalListeners {
		select {
		case ch <- interval:
		default:
		}
	}
}
