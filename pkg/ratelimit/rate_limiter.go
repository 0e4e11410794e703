package ratelimit

import (
	"context"
	"fmt"
	"slices"
	"time"

	"mergington/internal/shared/config"
	"mergington/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RateLimitType string

const (
	RateLimitTypeDefault       RateLimitType = "default"
	RateLimitTypePublic        RateLimitType = "public"
	RateLimitTypeParticipation RateLimitType = "participation"
	RateLimitTypeHealth        RateLimitType = "health"
)

type Config struct {
	Enabled               bool          `json:"enabled"`
	WindowDuration        time.Duration `json:"window_duration"`
	DefaultRequests       int           `json:"default_requests"`
	PublicRequests        int           `json:"public_requests"`
	ParticipationRequests int           `json:"participation_requests"`
	HealthRequests        int           `json:"health_requests"`
	WhitelistedIPs        []string      `json:"whitelisted_ips"`
}

// ConfigFrom copies the application's rate limit settings
func ConfigFrom(cfg config.RateLimitConfig) *Config {
	return &Config{
		Enabled:               cfg.Enabled,
		WindowDuration:        cfg.WindowDuration,
		DefaultRequests:       cfg.DefaultRequests,
		PublicRequests:        cfg.PublicRequests,
		ParticipationRequests: cfg.ParticipationRequests,
		HealthRequests:        cfg.HealthRequests,
		WhitelistedIPs:        cfg.WhitelistedIPs,
	}
}

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *redis.Client
	config *Config
	now    func() time.Time
}

func NewRateLimiter(client *redis.Client, config *Config) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		now:    time.Now,
	}
}

// Lua script for atomic sliding window rate limiting
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local window_start = ARGV[1]
	local now = ARGV[2]
	local limit = tonumber(ARGV[3])
	local window_ms = ARGV[4]
	local member = ARGV[5]

	-- Remove old entries
	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current_count = redis.call('ZCARD', key)

	if current_count >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {0, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)

	return {1, limit - current_count - 1}
`)

// IsAllowed checks if request is allowed
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.getLimit(limitType)

	if !r.config.Enabled || r.isWhitelisted(clientIP) {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: r.now().Add(r.config.WindowDuration).Unix(),
		}, nil
	}

	key := constants.BuildRateLimitKey(clientIP, string(limitType))
	return r.checkLimit(ctx, key, limit)
}

// checkLimit performs the sliding window check. Members are unique per
// request so that hits inside the same millisecond are all counted.
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int) (*Result, error) {
	now := r.now()
	windowStart := now.Add(-r.config.WindowDuration)

	result, err := slidingWindowScript.Run(ctx, r.client, []string{key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		r.config.WindowDuration.Milliseconds(),
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected redis response")
	}

	return &Result{
		Allowed:   result[0] == 1,
		Limit:     limit,
		Remaining: int(result[1]),
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}, nil
}

func (r *RateLimiter) getLimit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return r.config.PublicRequests
	case RateLimitTypeParticipation:
		return r.config.ParticipationRequests
	case RateLimitTypeHealth:
		return r.config.HealthRequests
	default:
		return r.config.DefaultRequests
	}
}

func (r *RateLimiter) isWhitelisted(ip string) bool {
	return slices.Contains(r.config.WhitelistedIPs, ip)
}
