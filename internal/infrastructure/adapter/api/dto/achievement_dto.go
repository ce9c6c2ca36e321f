package dto

import (
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// AchievementStatusResponse represents one achievement and the account's progress on it
type AchievementStatusResponse struct {
	AchievementID uint64     `json:"achievementId"`
	Name          string     `json:"name"`
	Kind          string     `json:"kind"`
	ScopeID       string     `json:"scopeId,omitempty"`
	Threshold     int        `json:"threshold"`
	Reward        int64      `json:"reward"`
	Progress      int        `json:"progress"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	Claimed       bool       `json:"claimed"`
	ClaimedAt     *time.Time `json:"claimedAt,omitempty"`
}

// NewAchievementsResponse converts an achievement progress listing
func NewAchievementsResponse(statuses []entity.AchievementStatus) []AchievementStatusResponse {
	resp := make([]AchievementStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		resp = append(resp, AchievementStatusResponse{
			AchievementID: s.Achievement.ID,
			Name:          s.Achievement.Name,
			Kind:          string(s.Achievement.Kind),
			ScopeID:       s.Achievement.ScopeID,
			Threshold:     s.Achievement.Threshold,
			Reward:        s.Achievement.Reward,
			Progress:      s.Progress.Progress,
			Completed:     s.Progress.Completed(s.Achievement.Threshold),
			CompletedAt:   s.Progress.CompletedAt,
			Claimed:       s.Progress.Claimed,
			ClaimedAt:     s.Progress.ClaimedAt,
		})
	}
	return resp
}

// RecomputeRequest optionally narrows a recompute to one pack
type RecomputeRequest struct {
	ScopeID string `json:"scopeId"`
}
