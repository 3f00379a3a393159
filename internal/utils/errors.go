package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken    = errors.New("INVALID_TOKEN")
	ErrProductNotFound = errors.New("PRODUCT_NOT_FOUND")
	ErrSyncInProgress  = errors.New("SYNC_IN_PROGRESS")
	ErrSyncRateLimited = errors.New("SYNC_RATE_LIMITED")
	ErrEmptyFeed       = errors.New("EMPTY_FEED")
)
