package usecase

import "context"

// Gated economy actions
const (
	ActionOpenBooster       = "open_booster"
	ActionBuyBooster        = "buy_booster"
	ActionSellCard          = "sell_card"
	ActionClaimDaily        = "claim_daily"
	ActionClaimAchievement  = "claim_achievement"
	ActionClaimNotification = "claim_notification"
	ActionCreateListing     = "create_listing"
	ActionPurchaseListing   = "purchase_listing"
	ActionCancelListing     = "cancel_listing"
)

// Gatekeeper decides whether an account may attempt an economy action now.
// A nil error records the attempt; a *RateLimitedError rejects it without recording.
type Gatekeeper interface {
	Check(ctx context.Context, accountID uint64, action string) error
}
