package marketplace

// Config holds the marketplace rules
type Config struct {
	MaxListingPrice int64
	// ListingCap bounds the active listings of one seller
	ListingCap int
	MaxBalance int64
	// DefaultPageSize and MaxPageSize bound ListActive pages
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultConfig returns stock marketplace rules
func DefaultConfig() Config {
	return Config{
		MaxListingPrice: 1_000_000,
		ListingCap:      20,
		MaxBalance:      1_000_000_000,
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
}
