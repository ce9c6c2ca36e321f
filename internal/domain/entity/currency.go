package entity

import (
	"math"

	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
)

// ValidateAmount checks that a currency amount is within [1, max]
func ValidateAmount(amount, max int64) error {
	if amount < 1 || amount > max {
		return errs.ErrInvalidPrice
	}
	return nil
}

// CreditFits reports whether adding amount to balance stays within max without overflowing
func CreditFits(balance, amount, max int64) bool {
	if amount < 0 {
		return false
	}
	if balance > math.MaxInt64-amount {
		return false
	}
	return balance+amount <= max
}

// MultiplyPrice multiplies a unit price by a quantity, reporting overflow
func MultiplyPrice(unit int64, quantity int) (int64, bool) {
	if unit < 0 || quantity < 0 {
		return 0, false
	}
	if quantity != 0 && unit > math.MaxInt64/int64(quantity) {
		return 0, false
	}
	return unit * int64(quantity), true
}
