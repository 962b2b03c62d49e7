// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuers and login code lifetimes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "bolgeo-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout must outlast a fully retried completion request:
	// four calls of RecommendRequestTimeout plus 2s+4s+8s of backoff.
	DefaultWriteTimeout = 120 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for ordinary API routes.
	GlobalRequestTimeout = 30 * time.Second

	// RecommendRequestTimeout bounds a single model call, not the retry sequence.
	RecommendRequestTimeout = 25 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// RecommendRateLimit is the number of recommendation requests per IP per window.
	RecommendRateLimit = 10

	// RecommendRateWindow is the window for [RecommendRateLimit].
	RecommendRateWindow = 1 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "bolgeo.app"

	// AccessTokenTTL is the lifetime of an issued access token.
	AccessTokenTTL = 7 * 24 * time.Hour

	// LoginCodeTTL is how long an emailed login code stays valid.
	LoginCodeTTL = 15 * time.Minute

	// LoginCodeLength is the number of digits in a login code.
	LoginCodeLength = 6

	// LoginCodeMaxAttempts is how many verifications a single code allows.
	LoginCodeMaxAttempts = 5
)

// # Catalog Browsing

const (
	// LibraryPageSize is the number of catalog entries revealed per "load more".
	LibraryPageSize = 40

	// FeedbackMaxLength is the maximum comment length in characters.
	FeedbackMaxLength = 1000
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixLoginCode  = "auth:login_code:"
	RedisPrefixRevoked    = "auth:revoked:"
	RedisPrefixPreference = "users:preference:"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetail  = "detail"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)
