package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/club-hub-api/internal/models"
)

// BadgeRepository manages badge definitions and student awards.
type BadgeRepository struct {
	db *sqlx.DB
}

// NewBadgeRepository constructs the repository.
func NewBadgeRepository(db *sqlx.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// List returns badge definitions, optionally of one type, by threshold.
func (r *BadgeRepository) List(ctx context.Context, filter models.BadgeFilter) ([]models.Badge, error) {
	query := "SELECT badge_id, badge_name, badge_type, description, points_required FROM badges"
	var args []interface{}
	if filter.Type != "" {
		query += " WHERE badge_type = $1"
		args = append(args, filter.Type)
	}
	query += " ORDER BY badge_type ASC, points_required ASC, badge_id ASC"
	var badges []models.Badge
	if err := r.db.SelectContext(ctx, &badges, query, args...); err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	return badges, nil
}

// ListAwards returns award rows, optionally for one user.
func (r *BadgeRepository) ListAwards(ctx context.Context, userID int64) ([]models.UserBadge, error) {
	query := "SELECT user_badge_id, user_id, badge_id, awarded_at FROM user_badges"
	var args []interface{}
	if userID > 0 {
		query += " WHERE user_id = $1"
		args = append(args, userID)
	}
	query += " ORDER BY user_badge_id ASC"
	var awards []models.UserBadge
	if err := r.db.SelectContext(ctx, &awards, query, args...); err != nil {
		return nil, fmt.Errorf("list user badges: %w", err)
	}
	return awards, nil
}

// ListAwardDetails returns a user's awards joined with their definitions.
func (r *BadgeRepository) ListAwardDetails(ctx context.Context, userID int64) ([]models.UserBadgeDetail, error) {
	const query = `SELECT ub.user_badge_id, ub.user_id, ub.badge_id, ub.awarded_at, b.badge_name, b.badge_type
        FROM user_badges ub
        JOIN badges b ON b.badge_id = ub.badge_id
        WHERE ub.user_id = $1
        ORDER BY b.points_required ASC, ub.user_badge_id ASC`
	var details []models.UserBadgeDetail
	if err := r.db.SelectContext(ctx, &details, query, userID); err != nil {
		return nil, fmt.Errorf("list user badge details: %w", err)
	}
	return details, nil
}

// AwardExists reports whether the user already holds the badge.
func (r *BadgeRepository) AwardExists(ctx context.Context, userID, badgeID int64) (bool, error) {
	const query = `SELECT 1 FROM user_badges WHERE user_id = $1 AND badge_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, userID, badgeID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check user badge: %w", err)
	}
	return true, nil
}

// Award inserts an award row and reports whether a row was written. An award
// the user already holds is left alone.
func (r *BadgeRepository) Award(ctx context.Context, userID, badgeID int64) (bool, error) {
	const query = `INSERT INTO user_badges (user_id, badge_id) VALUES ($1, $2) ON CONFLICT (user_id, badge_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, userID, badgeID)
	if err != nil {
		return false, fmt.Errorf("award badge %d to user %d: %w", badgeID, userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("award badge %d to user %d: %w", badgeID, userID, err)
	}
	return affected > 0, nil
}
