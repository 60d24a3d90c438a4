package models

import "errors"

var (
	ErrInvalidExternalID = errors.New("invalid external ID")
	ErrInvalidQuestion   = errors.New("invalid market question")
	ErrInvalidEventID    = errors.New("invalid event ID")
	ErrInvalidMultiplier = errors.New("multipliers must be greater than 1.0")
	ErrInvalidYesPercent = errors.New("yes percent must be between 1 and 99")
	ErrInvalidExpiry     = errors.New("invalid expiry time")
	ErrInvalidOutcome    = errors.New("outcome must be yes or no")

	ErrMarketAlreadyResolved = errors.New("market is already resolved")
	ErrCategoryDowngrade     = errors.New("category cannot be downgraded")
	ErrDuplicateMarket       = errors.New("market with this external ID already exists")
	ErrRecordNotFound        = errors.New("record not found")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")
)
