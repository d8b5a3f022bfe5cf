package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Database pool settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Redis key prefixes
const (
	RedisKeySeriesSkipLock = "groupmeet:series:skip-lock:"
)

// SeriesSkipLockTTL bounds how long a skip batch may hold the per-series lock.
const SeriesSkipLockTTL = 15 * time.Second

const DefaultTimeout = 10 * time.Second

// Pagination defaults
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Notification task queue
const (
	TaskNotificationDeliver = "notification:deliver"
)
