package migration

import (
	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes the models cannot express
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

type indexStatement struct {
	name string
	sql  string
}

var advancedIndexes = []indexStatement{
	{
		// Browse and seller-cap queries only ever read active listings
		name: "idx_listings_active",
		sql: `CREATE INDEX IF NOT EXISTS idx_listings_active
			ON listings (created_at DESC, id DESC)
			WHERE status = 'active'`,
	},
	{
		name: "idx_listings_seller_active",
		sql: `CREATE INDEX IF NOT EXISTS idx_listings_seller_active
			ON listings (seller_id)
			WHERE status = 'active'`,
	},
	{
		name: "idx_inventory_owned",
		sql: `CREATE INDEX IF NOT EXISTS idx_inventory_owned
			ON inventory (account_id, card_id)
			WHERE quantity > 0`,
	},
	{
		name: "idx_booster_openings_opened_at_brin",
		sql: `CREATE INDEX IF NOT EXISTS idx_booster_openings_opened_at_brin
			ON booster_openings USING BRIN (opened_at)
			WITH (pages_per_range = 32)`,
	},
	{
		name: "idx_achievement_progress_unclaimed",
		sql: `CREATE INDEX IF NOT EXISTS idx_achievement_progress_unclaimed
			ON achievement_progress (account_id)
			WHERE claimed = false`,
	},
	{
		name: "idx_notifications_account_id_desc",
		sql: `CREATE INDEX IF NOT EXISTS idx_notifications_account_id_desc
			ON notifications (account_id, id DESC)`,
	},
}

// CreateIndexes creates the partial and BRIN indexes
func (m *AdvancedIndexManager) CreateIndexes(db *gorm.DB) error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	for _, index := range advancedIndexes {
		if err := db.Exec(index.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": index.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", map[string]any{
		"count": len(advancedIndexes),
	})
	return nil
}

// CreatePerformanceTweaks applies storage settings. Failures are logged and ignored.
func (m *AdvancedIndexManager) CreatePerformanceTweaks(db *gorm.DB) error {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	// Hot rows are updated in place far more often than inserted
	for _, tweak := range []indexStatement{
		{name: "accounts_fillfactor", sql: `ALTER TABLE accounts SET (fillfactor = 80)`},
		{name: "inventory_fillfactor", sql: `ALTER TABLE inventory SET (fillfactor = 80)`},
		{name: "listings_fillfactor", sql: `ALTER TABLE listings SET (fillfactor = 90)`},
		{name: "listings_card_statistics", sql: `ALTER TABLE listings ALTER COLUMN card_id SET STATISTICS 1000`},
	} {
		if err := db.Exec(tweak.sql).Error; err != nil {
			m.logger.Warn("Failed to apply performance tweak", map[string]any{
				"tweak": tweak.name,
				"error": err.Error(),
			})
		}
	}

	m.logger.Info("PostgreSQL performance tweaks applied", nil)
	return nil
}
