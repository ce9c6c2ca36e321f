package core

// RandomSource provides the draws used by booster generation.
// Implementations must be safe for concurrent use.
type RandomSource interface {
	// Float64 returns a value in [0.0, 1.0)
	Float64() float64
	// Intn returns a value in [0, n); n must be > 0
	Intn(n int) int
}
