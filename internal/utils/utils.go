package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ParseDurationEnv parses a duration from an environment value. Accepts
// time.ParseDuration forms ("10s", "5m", "24h") and, for compatibility with
// plain-seconds config, a bare number ("10" means 10s). Surrounding quotes
// from .env files are stripped.
func ParseDurationEnv(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n := len(s); n >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[n-1] == q {
			s = s[1 : n-1]
		}
	}
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

// RedisEndpoint is a Redis connection target extracted from a URL.
type RedisEndpoint struct {
	Addr     string
	Password string
	DB       int
}

// ParseRedisURL parses a redis:// or rediss:// URL as handed out by managed
// Redis providers into an endpoint usable with go-redis Options.
func ParseRedisURL(s string) (RedisEndpoint, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return RedisEndpoint{}, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return RedisEndpoint{}, fmt.Errorf("scheme must be redis or rediss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return RedisEndpoint{}, fmt.Errorf("missing host in Redis URL")
	}
	ep := RedisEndpoint{Addr: u.Host}
	if u.User != nil {
		ep.Password, _ = u.User.Password()
	}
	if path := strings.TrimPrefix(u.Path, "/"); path != "" {
		ep.DB, _ = strconv.Atoi(path)
	}
	return ep, nil
}
