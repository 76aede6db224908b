package handlers

import (
	"testing"
	"time"

	"github.com/rafdmrs/Faelist-todo-App/internal/auth"
)

func TestCookieMaxAgeTracksSessionTTL(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want int
	}{
		{30 * time.Minute, 1800},
		{2 * time.Hour, 7200},
		{24 * time.Hour, 86400},
	}
	for _, tc := range tests {
		sessions := auth.NewStore(nil, tc.ttl)
		if got := cookieMaxAge(sessions.TTL()); got != tc.want {
			t.Fatalf("cookieMaxAge for ttl %v = %d, want %d", tc.ttl, got, tc.want)
		}
	}

	// A store built with no explicit TTL still yields a bounded cookie.
	if got := cookieMaxAge(auth.NewStore(nil, 0).TTL()); got != 86400 {
		t.Fatalf("default ttl cookie age = %d, want 86400", got)
	}
}
