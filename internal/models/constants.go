package models

const (
	// DefaultPageSize is the search page size when the caller passes none.
	DefaultPageSize = 5

	// MaxPageSize caps the search page size.
	MaxPageSize = 50

	// AvailabilityCacheTTL lifetime of a cached availability map in seconds.
	AvailabilityCacheTTL = 60

	// DefaultMaxAdvanceDays how far ahead a reservation may be placed when a
	// restaurant has no explicit settings record.
	DefaultMaxAdvanceDays = 90

	// DefaultMaxGuests upper guest bound used without explicit settings.
	DefaultMaxGuests = 20

	// RateLimitRequests and RateLimitWindow bound API request frequency per key.
	RateLimitRequests = 20
	RateLimitWindow   = 60
)

const DateLayout = "2006-01-02"
