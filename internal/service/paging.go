package service

const (
	// DefaultPageSize is used when the caller does not specify one
	DefaultPageSize = 20

	// MaxPageSize caps the page size regardless of what was requested
	MaxPageSize = 50
)

// normalizePage clamps page and pageSize into their valid ranges.
// Pages are 1-based; out-of-range values fall back rather than error.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
