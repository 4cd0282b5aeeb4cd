package feeds

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"sentinel/internal/config"
	"sentinel/internal/database"
	"sentinel/internal/support"
)

const (
	maxResponseBytes = 10 << 20 // 10 MiB safety cap per source
)

var (
	refreshOnce singleflight.Group
	httpClient  = &http.Client{Timeout: 30 * time.Second}

	// Bare IPv4 or IPv4/prefix tokens anywhere in a feed line.
	ipv4Regex = regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,3}){3}(?:/\d{1,2})?\b`)
)

// Outcome summarizes one refresh run across all configured sources.
type Outcome struct {
	Sources     int `json:"sources"`
	Entries     int `json:"entries"`
	NewRanges   int `json:"new_ranges"`
	TotalRanges int `json:"total_ranges"`
}

// Manager periodically pulls the configured feed sources and inserts their
// networks into the suspicious range store. Bare addresses become /32 (or
// /128) ranges so that flag rows stay reserved for event-implicated actors.
type Manager struct {
	ranges *database.RangeStore
}

func NewManager(ranges *database.RangeStore) *Manager {
	return &Manager{ranges: ranges}
}

// StartRefreshRoutine runs the refresh loop until ctx is canceled,
// rescheduling when the configured interval changes.
func (m *Manager) StartRefreshRoutine(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	updates := config.FeedIntervalUpdates()
	current := <-updates

	ticker := time.NewTicker(current)
	defer ticker.Stop()

	m.triggerRefresh(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.triggerRefresh(ctx, "scheduled")
		case newInterval := <-updates:
			if newInterval <= 0 || newInterval == current {
				continue
			}
			drainTicker(ticker)
			current = newInterval
			ticker.Reset(current)
		}
	}
}

func (m *Manager) triggerRefresh(ctx context.Context, reason string) {
	outcome, err := m.Refresh(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Feed refresh canceled", "reason", reason)
		} else {
			log.Error("Feed refresh failed", "reason", reason, "error", err)
		}
		return
	}
	if outcome == nil {
		return
	}

	log.Info("Feed refresh completed",
		"reason", reason,
		"sources", outcome.Sources,
		"entries", outcome.Entries,
		"new_ranges", outcome.NewRanges,
		"total_ranges", outcome.TotalRanges,
	)
}

func drainTicker(ticker *time.Ticker) {
	for {
		select {
		case <-ticker.C:
		default:
			return
		}
	}
}

// Refresh downloads every configured source and stores the parsed networks,
// skipping duplicates. Concurrent callers share a single run.
func (m *Manager) Refresh(ctx context.Context) (*Outcome, error) {
	result, err, _ := refreshOnce.Do("refresh", func() (interface{}, error) {
		return m.doRefresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	outcome, _ := result.(*Outcome)
	return outcome, nil
}

func (m *Manager) doRefresh(ctx context.Context) (*Outcome, error) {
	cfg := config.GetConfig()
	sources := append([]string(nil), cfg.Feeds.Sources...)

	outcome := &Outcome{Sources: len(sources)}

	for _, src := range sources {
		prefixes, fetchErr := fetchFeed(ctx, src)
		if fetchErr != nil {
			if errors.Is(fetchErr, context.Canceled) {
				return nil, fetchErr
			}
			log.Warn("Feed fetch failed", "source", src, "error", fetchErr)
			continue
		}

		outcome.Entries += len(prefixes)

		for _, prefix := range prefixes {
			_, err := m.ranges.Add(ctx, prefix.String())
			switch {
			case err == nil:
				outcome.NewRanges++
			case errors.Is(err, database.ErrDuplicateRange):
				// Already known; feeds re-publish their full list every run.
			default:
				return nil, err
			}
		}
	}

	total, err := m.ranges.Count(ctx)
	if err != nil {
		return nil, err
	}
	outcome.TotalRanges = int(total)

	return outcome, nil
}

func fetchFeed(ctx context.Context, source string) ([]netip.Prefix, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return parseFeed(content), nil
}

// parseFeed extracts networks from a plain-text feed. Lines may carry
// comments or extra columns; IPv4 tokens are picked out by regex, and lines
// that are a single IPv6 address or prefix are accepted whole.
func parseFeed(payload []byte) []netip.Prefix {
	scanner := bufio.NewScanner(bytes.NewReader(payload))
	scanner.Buffer(make([]byte, 1024), 1024*1024)

	seen := make(map[netip.Prefix]struct{})
	var prefixes []netip.Prefix

	add := func(prefix netip.Prefix) {
		prefix = prefix.Masked()
		if _, found := seen[prefix]; found {
			return
		}
		seen[prefix] = struct{}{}
		prefixes = append(prefixes, prefix)
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		for _, token := range ipv4Regex.FindAllString(line, -1) {
			if prefix, ok := parseToken(token); ok {
				add(prefix)
			}
		}

		if field := strings.Fields(line)[0]; strings.Contains(field, ":") {
			if prefix, ok := parseToken(field); ok {
				add(prefix)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		log.Warn("Feed scanner warning", "error", err)
	}

	return prefixes
}

func parseToken(token string) (netip.Prefix, bool) {
	if strings.Contains(token, "/") {
		prefix, err := support.ParseCIDR(token)
		if err != nil {
			return netip.Prefix{}, false
		}
		return prefix, true
	}

	addr, err := support.ParseIP(token)
	if err != nil {
		return netip.Prefix{}, false
	}
	return netip.PrefixFrom(addr, addr.BitLen()), true
}
