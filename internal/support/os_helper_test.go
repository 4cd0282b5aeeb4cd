package support

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("SENTINEL_TEST_ENV", "value")
	if got := GetEnv("SENTINEL_TEST_ENV", "fallback"); got != "value" {
		t.Fatalf("GetEnv returned %s, want value", got)
	}

	if got := GetEnv("SENTINEL_TEST_ENV_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv returned %s, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SENTINEL_TEST_INT", "42")
	if got := GetEnvInt("SENTINEL_TEST_INT", 7); got != 42 {
		t.Fatalf("GetEnvInt returned %d, want 42", got)
	}

	t.Setenv("SENTINEL_TEST_INT_BAD", "not-a-number")
	if got := GetEnvInt("SENTINEL_TEST_INT_BAD", 7); got != 7 {
		t.Fatalf("GetEnvInt with invalid value returned %d, want 7", got)
	}

	if got := GetEnvInt("SENTINEL_TEST_INT_MISSING", 7); got != 7 {
		t.Fatalf("GetEnvInt with missing value returned %d, want 7", got)
	}
}
