package auth

import (
	"testing"
	"time"
)

func TestStoreTTL(t *testing.T) {
	if got := NewStore(nil, 2*time.Hour).TTL(); got != 2*time.Hour {
		t.Fatalf("TTL() = %v, want 2h", got)
	}
	// Zero or negative falls back to the default lifetime.
	if got := NewStore(nil, 0).TTL(); got != 24*time.Hour {
		t.Fatalf("TTL() with zero ttl = %v, want 24h", got)
	}
	if got := NewStore(nil, -time.Minute).TTL(); got != 24*time.Hour {
		t.Fatalf("TTL() with negative ttl = %v, want 24h", got)
	}
}
