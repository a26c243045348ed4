package usecase

import "time"

const (
	// AccountTypeCacheTTL is how long resolved account types stay cached.
	// Types change rarely, so a short TTL keeps staleness bounded without
	// hitting the store on every policy check.
	AccountTypeCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	defaultPageSize = 20
	maxPageSize     = 100
)

// clampPageSize applies the default and maximum page size.
func clampPageSize(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
