// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Bearer scheme and header names.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "averio-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting
//
// The exact limits are operational policy, not core auth logic. These are
// the defaults applied when no configuration overrides them.

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP globally.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the global limiter.
	DefaultRateLimitBurst = 150

	// AuthThrottleRPM is the per-key requests per minute for sensitive auth
	// endpoints (login, register, verification, password recovery).
	AuthThrottleRPM = 10.0

	// AuthThrottleBurst is the burst allowance for sensitive auth endpoints.
	AuthThrottleBurst = 10

	// RateLimitCleanupInterval is how often old entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # Authentication

const (
	// BearerScheme is the expected Authorization scheme for opaque tokens.
	BearerScheme = "Bearer"

	// LinkIssuer is the 'iss' claim stamped into signed verification links.
	LinkIssuer = "averio.app"
)

// # Redis Prefixes (Volatile Taxonomy)

const (
	RedisPrefixResetToken = "auth:reset_token:"
)
