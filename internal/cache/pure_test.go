package cache

import (
	"strings"
	"testing"
)

func TestSummaryKey(t *testing.T) {
	t.Parallel()

	key := SummaryKey("user-42")
	if key != "summary:user-42" {
		t.Errorf("SummaryKey = %q, want summary:user-42", key)
	}
}

func TestHashRateLimitKey_Deterministic(t *testing.T) {
	t.Parallel()

	a := HashRateLimitKey("203.0.113.9")
	b := HashRateLimitKey("203.0.113.9")
	if a != b {
		t.Errorf("same IP should hash identically: %q vs %q", a, b)
	}

	if len(a) != 32 {
		t.Errorf("hash length = %d, want 32 hex chars", len(a))
	}
}

func TestHashRateLimitKey_HidesIP(t *testing.T) {
	t.Parallel()

	hashed := HashRateLimitKey("203.0.113.9")
	if strings.Contains(hashed, "203.0.113.9") {
		t.Error("hashed key must not contain the raw IP")
	}

	other := HashRateLimitKey("203.0.113.10")
	if hashed == other {
		t.Error("different IPs should produce different keys")
	}
}
