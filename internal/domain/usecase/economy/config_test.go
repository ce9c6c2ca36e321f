package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{name: "stock rules", mutate: func(*Config) {}},
		{
			name:    "tier without a price",
			mutate:  func(cfg *Config) { delete(cfg.SellPrices, entity.RarityLeader) },
			wantErr: "sell price of leader",
		},
		{
			name:    "tier sells for nothing",
			mutate:  func(cfg *Config) { cfg.SellPrices[entity.RarityCommon] = 0 },
			wantErr: "sell price of common",
		},
		{
			name:    "starting balance above the cap",
			mutate:  func(cfg *Config) { cfg.StartingBalance = cfg.MaxBalance + 1 },
			wantErr: "starting balance",
		},
		{
			name:    "empty booster",
			mutate:  func(cfg *Config) { cfg.BoosterSize = 0 },
			wantErr: "booster size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
