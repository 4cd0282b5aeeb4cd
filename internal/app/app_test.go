package app

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogLevel(t *testing.T) {
	if got := logLevel(true); got != log.InfoLevel {
		t.Fatalf("logLevel(true) = %v, want InfoLevel", got)
	}
	if got := logLevel(false); got != log.DebugLevel {
		t.Fatalf("logLevel(false) = %v, want DebugLevel", got)
	}
}

func TestReadPort(t *testing.T) {
	t.Setenv("SENTINEL_PORT_VALID", "12345")
	if got := readPort("SENTINEL_PORT_VALID"); got != 12345 {
		t.Fatalf("readPort returned %d, want 12345", got)
	}

	t.Setenv("SENTINEL_PORT_INVALID", "not-a-number")
	if got := readPort("SENTINEL_PORT_INVALID"); got != 0 {
		t.Fatalf("readPort with invalid value returned %d, want 0", got)
	}

	t.Setenv("SENTINEL_PORT_ZERO", "0")
	if got := readPort("SENTINEL_PORT_ZERO"); got != 0 {
		t.Fatalf("readPort with zero value returned %d, want 0", got)
	}
}

func TestResolvePort(t *testing.T) {
	t.Run("env overrides fallback", func(t *testing.T) {
		t.Setenv("SENTINEL_TEST_PORT", "5050")
		if got := resolvePort("SENTINEL_TEST_PORT", 8080); got != 5050 {
			t.Fatalf("resolvePort returned %d, want 5050", got)
		}
	})

	t.Run("fallback used when env unset", func(t *testing.T) {
		if got := resolvePort("SENTINEL_TEST_PORT_UNSET", 9090); got != 9090 {
			t.Fatalf("resolvePort returned %d, want 9090", got)
		}
	})
}
