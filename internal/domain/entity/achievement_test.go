package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAchievementClampProgress(t *testing.T) {
	testCases := []struct {
		name      string
		threshold int
		value     int
		expected  int
	}{
		{"below threshold", 10, 4, 4},
		{"at ceiling", 10, 11, 11},
		{"above ceiling", 10, 500, 11},
		{"floors fractional ceiling", 15, 100, 16},
		{"negative", 10, -3, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := &Achievement{Threshold: tc.threshold}
			assert.Equal(t, tc.expected, a.ClampProgress(tc.value))
		})
	}
}

func TestAchievementKindValid(t *testing.T) {
	assert.True(t, KindBoostersOpened.Valid())
	assert.True(t, KindScopeDistinctCards.Valid())
	assert.False(t, AchievementKind("cards_sold").Valid())
}
