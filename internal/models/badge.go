package models

import "time"

// BadgeType separates club tiers from student tiers.
type BadgeType string

const (
	BadgeTypeClub    BadgeType = "club"
	BadgeTypeStudent BadgeType = "student"
)

// TierNone marks a point total below every rung of a ladder.
const TierNone = "none"

// Badge is a badge definition.
type Badge struct {
	BadgeID        int64     `db:"badge_id" json:"badge_id"`
	Name           string    `db:"badge_name" json:"badge_name"`
	Type           BadgeType `db:"badge_type" json:"badge_type"`
	Description    string    `db:"description" json:"description"`
	PointsRequired int       `db:"points_required" json:"points_required"`
}

// BadgeFilter narrows badge definition listings.
type BadgeFilter struct {
	Type BadgeType
}

// UserBadge records that a student reached a tier. Awards are never removed.
type UserBadge struct {
	UserBadgeID int64     `db:"user_badge_id" json:"user_badge_id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	BadgeID     int64     `db:"badge_id" json:"badge_id"`
	AwardedAt   time.Time `db:"awarded_at" json:"awarded_at"`
}

// UserBadgeDetail is an award joined with its definition.
type UserBadgeDetail struct {
	UserBadge
	BadgeName string    `db:"badge_name" json:"badge_name"`
	BadgeType BadgeType `db:"badge_type" json:"badge_type"`
}

// Tier is one rung of a TierLadder.
type Tier struct {
	Name      string
	MinPoints int
}

// TierLadder is ordered by MinPoints descending; the first rung reached wins.
type TierLadder []Tier

// Resolve maps a point total to the highest qualifying tier name, or TierNone.
func (l TierLadder) Resolve(points int) string {
	for _, tier := range l {
		if points >= tier.MinPoints {
			return tier.Name
		}
	}
	return TierNone
}

// ClubTierLadder ranks clubs by their total points.
var ClubTierLadder = TierLadder{
	{Name: "platinum", MinPoints: 2000},
	{Name: "gold", MinPoints: 1200},
	{Name: "silver", MinPoints: 700},
	{Name: "bronze", MinPoints: 300},
	{Name: "iron", MinPoints: 100},
}

// StudentTierLadder ranks students by their total points.
var StudentTierLadder = TierLadder{
	{Name: "gold", MinPoints: 60},
	{Name: "silver", MinPoints: 40},
	{Name: "bronze", MinPoints: 20},
}
