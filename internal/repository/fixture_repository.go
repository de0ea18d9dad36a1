package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/club-hub-api/internal/models"
)

// FixtureRepository prepares an empty database for seeding.
type FixtureRepository struct {
	db *sqlx.DB
}

// NewFixtureRepository constructs the repository.
func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

// EnsureSchema applies the DDL in Schema.
func (r *FixtureRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// CountUsers returns the number of user rows.
func (r *FixtureRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// Load inserts the fixture set with explicit ids in one transaction and
// realigns the id sequences afterwards.
func (r *FixtureRepository) Load(ctx context.Context, set models.FixtureSet) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fixture transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const userQuery = `INSERT INTO users (user_id, name, email, role, total_points) VALUES ($1, $2, $3, $4, $5)`
	for _, user := range set.Users {
		if _, err = tx.ExecContext(ctx, userQuery, user.UserID, user.Name, user.Email, user.Role, user.TotalPoints); err != nil {
			return fmt.Errorf("insert fixture user %d: %w", user.UserID, err)
		}
	}

	const clubQuery = `INSERT INTO clubs (club_id, club_name, description, category, capacity, current_members, total_points, badge)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, club := range set.Clubs {
		if _, err = tx.ExecContext(ctx, clubQuery, club.ClubID, club.Name, club.Description, club.Category, club.Capacity, club.CurrentMembers, club.TotalPoints, club.Badge); err != nil {
			return fmt.Errorf("insert fixture club %d: %w", club.ClubID, err)
		}
	}

	const badgeQuery = `INSERT INTO badges (badge_name, badge_type, description, points_required) VALUES ($1, $2, $3, $4)`
	for _, badge := range set.Badges {
		if _, err = tx.ExecContext(ctx, badgeQuery, badge.Name, badge.Type, badge.Description, badge.PointsRequired); err != nil {
			return fmt.Errorf("insert fixture badge %s: %w", badge.Name, err)
		}
	}

	for _, table := range []struct{ name, column string }{{"users", "user_id"}, {"clubs", "club_id"}} {
		query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE(MAX(%s), 1)) FROM %s", table.name, table.column, table.column, table.name)
		if _, err = tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("realign %s sequence: %w", table.name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit fixtures: %w", err)
	}
	return nil
}
