package constants

import "fmt"

// Redis key layout
// Pattern: mergington:{module}:{identifier}:{params?}

const (
	KEY_PREFIX     = "mergington"
	KEY_RATE_LIMIT = KEY_PREFIX + ":ratelimit:" // + client-ip:limit-type
)

// BuildRateLimitKey constructs the sorted-set key for one client and limit class
// Example: BuildRateLimitKey("10.0.0.1", "participation") -> "mergington:ratelimit:10.0.0.1:participation"
func BuildRateLimitKey(clientIP, limitType string) string {
	return fmt.Sprintf("%s%s:%s", KEY_RATE_LIMIT, clientIP, limitType)
}
