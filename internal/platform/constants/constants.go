// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

/*
Package constants provides centralized, immutable values for the entire store.

It defines default timeouts, throttle windows, and cross-cutting keys shared
between the different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Access Control: Claims cache windows, throttle and lockout policy.
  - Security: JWT issuers and cookie configuration.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "inkwell-api"
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

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Access Control (admin claims verification)

const (
	// ClaimsCacheTTL is how long a verified elevated-capability decision is
	// trusted before a forced re-verification is required.
	ClaimsCacheTTL = 10 * time.Minute

	// ClaimsVerifyAttempts bounds the forced claims refresh retry loop.
	ClaimsVerifyAttempts = 2

	// ClaimsVerifyRetryDelay is the fixed delay between refresh attempts.
	ClaimsVerifyRetryDelay = 500 * time.Millisecond

	// VerifyThrottleInterval is the minimum gap between two verification rounds.
	VerifyThrottleInterval = 3 * time.Second

	// VerifyLockoutThreshold is the number of consecutive failed verification
	// rounds that triggers a lockout.
	VerifyLockoutThreshold = 5

	// VerifyLockoutDuration is how long the gate stays closed after lockout.
	VerifyLockoutDuration = 15 * time.Minute
)

// # Admin Navigation

const (
	// AdminPathPrefix marks the privileged area of the application.
	AdminPathPrefix = "/api/v1/admin"

	// AdminSignInPath is the privileged sign-in entry point.
	AdminSignInPath = "/api/v1/admin/login"

	// AdminHomePath is the privileged landing page after a successful sign-in.
	AdminHomePath = "/api/v1/admin/dashboard"
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "inkwell.store"

	// RefreshTokenCookieName is the name of the cookie that stores the refresh token.
	RefreshTokenCookieName = "refresh_token"

	// RefreshTokenCookiePath is the scoped path for the refresh token cookie.
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCore  = "core"
	SchemaUsers = "users"
	SchemaSales = "sales"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixResetToken   = "auth:reset_token:"
	RedisPrefixClaims       = "auth:claims:"
	RedisPrefixClaimsBackup = "access:claims_backup:"
)
