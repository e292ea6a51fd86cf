package models

import (
	"strings"
	"time"
)

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassRead: listings and lookups (GET)
	ClassRead EndpointClass = "read"
	// ClassWrite: contract and milestone mutations
	ClassWrite EndpointClass = "write"
	// ClassMoney: deposits, releases and settlement attachment
	ClassMoney EndpointClass = "money"
)

// IsValid checks if the endpoint class is one of the supported enum values.
func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassRead, ClassWrite, ClassMoney:
		return true
	}
	return false
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// Limit is a sliding-window budget.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// Config holds per-class budgets for IP addresses and authenticated users.
type Config struct {
	IPLimits   map[EndpointClass]Limit
	UserLimits map[EndpointClass]Limit
}

// DefaultConfig keeps money movement on a much tighter budget than reads.
func DefaultConfig() *Config {
	return &Config{
		IPLimits: map[EndpointClass]Limit{
			ClassRead:  {RequestsPerWindow: 300, Window: time.Minute},
			ClassWrite: {RequestsPerWindow: 120, Window: time.Minute},
			ClassMoney: {RequestsPerWindow: 30, Window: time.Minute},
		},
		UserLimits: map[EndpointClass]Limit{
			ClassRead:  {RequestsPerWindow: 100, Window: time.Minute},
			ClassWrite: {RequestsPerWindow: 50, Window: time.Minute},
			ClassMoney: {RequestsPerWindow: 10, Window: time.Minute},
		},
	}
}

func (c *Config) IPLimit(class EndpointClass) (Limit, bool) {
	l, ok := c.IPLimits[class]
	return l, ok && l.RequestsPerWindow > 0 && l.Window > 0
}

func (c *Config) UserLimit(class EndpointClass) (Limit, bool) {
	l, ok := c.UserLimits[class]
	return l, ok && l.RequestsPerWindow > 0 && l.Window > 0
}

// KeyPrefix names the identifier kind a bucket is keyed by.
type KeyPrefix string

const (
	KeyPrefixIP   KeyPrefix = "ip"
	KeyPrefixUser KeyPrefix = "user"
)

type RateLimitKey struct {
	prefix     KeyPrefix
	identifier string
	class      EndpointClass
}

func NewRateLimitKey(prefix KeyPrefix, identifier string, class EndpointClass) RateLimitKey {
	return RateLimitKey{prefix: prefix, identifier: identifier, class: class}
}

// String renders "ratelimit:{prefix}:{identifier}:{class}".
func (k RateLimitKey) String() string {
	return "ratelimit:" + string(k.prefix) + ":" + SanitizeKeySegment(k.identifier) + ":" + string(k.class)
}

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so an identifier containing ':' cannot address another bucket. IPv6
// addresses are the common case.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
