package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
)

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(1, 100))
	assert.NoError(t, ValidateAmount(100, 100))
	assert.ErrorIs(t, ValidateAmount(0, 100), errs.ErrInvalidTarget)
	assert.ErrorIs(t, ValidateAmount(101, 100), errs.ErrInvalidPrice)
}

func TestCreditFits(t *testing.T) {
	assert.True(t, CreditFits(50, 50, 100))
	assert.False(t, CreditFits(50, 51, 100))
	assert.False(t, CreditFits(math.MaxInt64-1, 5, math.MaxInt64))
	assert.False(t, CreditFits(0, -1, 100))
}

func TestMultiplyPrice(t *testing.T) {
	total, ok := MultiplyPrice(25, 4)
	assert.True(t, ok)
	assert.Equal(t, int64(100), total)

	_, ok = MultiplyPrice(math.MaxInt64/2, 3)
	assert.False(t, ok)
}
