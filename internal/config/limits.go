package config

const (
	// MaxMenuItemNameLength is the maximum length for menu item names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255), matching the
	// original schema.
	MaxMenuItemNameLength = 255

	// DefaultChildrenPageSize is the page size used when a children
	// listing does not specify a limit.
	DefaultChildrenPageSize = 100

	// MaxChildrenPageSize caps the limit a caller can request for a
	// children listing.
	MaxChildrenPageSize = 1000
)
