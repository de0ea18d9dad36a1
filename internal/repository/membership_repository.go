package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/club-hub-api/internal/models"
)

// MembershipRepository handles persistence of club memberships.
type MembershipRepository struct {
	db *sqlx.DB
}

// NewMembershipRepository constructs the repository.
func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// JoinTx is a transaction scoped to one membership batch. Every Join applied
// through it is committed or discarded together.
type JoinTx interface {
	Join(ctx context.Context, membership models.Membership) error
	Commit() error
	Rollback() error
}

// BeginJoins opens the batch transaction. Callers should defer Rollback; it is a
// no-op once Commit succeeded.
func (r *MembershipRepository) BeginJoins(ctx context.Context) (JoinTx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin membership batch: %w", err)
	}
	return &joinTx{tx: tx}, nil
}

type joinTx struct {
	tx *sqlx.Tx
}

// Join inserts the membership, credits the student and bumps the club head count.
func (t *joinTx) Join(ctx context.Context, membership models.Membership) error {
	const insertQuery = `INSERT INTO club_members (user_id, club_id, points_earned) VALUES ($1, $2, $3)`
	if _, err := t.tx.ExecContext(ctx, insertQuery, membership.UserID, membership.ClubID, membership.PointsEarned); err != nil {
		return fmt.Errorf("insert membership user=%d club=%d: %w", membership.UserID, membership.ClubID, err)
	}

	const pointsQuery = `UPDATE users SET total_points = total_points + $1 WHERE user_id = $2`
	if _, err := t.tx.ExecContext(ctx, pointsQuery, membership.PointsEarned, membership.UserID); err != nil {
		return fmt.Errorf("credit user %d points: %w", membership.UserID, err)
	}

	const membersQuery = `UPDATE clubs SET current_members = current_members + 1 WHERE club_id = $1`
	if _, err := t.tx.ExecContext(ctx, membersQuery, membership.ClubID); err != nil {
		return fmt.Errorf("increment club %d members: %w", membership.ClubID, err)
	}
	return nil
}

func (t *joinTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit membership batch: %w", err)
	}
	return nil
}

func (t *joinTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback membership batch: %w", err)
	}
	return nil
}

// List returns memberships filtered by user and/or club.
func (r *MembershipRepository) List(ctx context.Context, filter models.MembershipFilter) ([]models.Membership, int, error) {
	base := "FROM club_members"
	var conditions []string
	var args []interface{}

	if filter.UserID > 0 {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.ClubID > 0 {
		conditions = append(conditions, fmt.Sprintf("club_id = $%d", len(args)+1))
		args = append(args, filter.ClubID)
	}
	if len(conditions) > 0 {
		base += " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT membership_id, user_id, club_id, points_earned, joined_at %s ORDER BY membership_id ASC LIMIT %d OFFSET %d", base, size, offset)
	var memberships []models.Membership
	if err := r.db.SelectContext(ctx, &memberships, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list memberships: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count memberships: %w", err)
	}
	return memberships, total, nil
}

// ListByClub returns the roster of a club with member names.
func (r *MembershipRepository) ListByClub(ctx context.Context, clubID int64) ([]models.ClubMember, error) {
	const query = `SELECT cm.membership_id, cm.user_id, cm.club_id, cm.points_earned, cm.joined_at,
        u.name AS user_name, u.total_points AS user_total_points
        FROM club_members cm
        JOIN users u ON u.user_id = cm.user_id
        WHERE cm.club_id = $1
        ORDER BY u.total_points DESC, cm.user_id ASC`
	var members []models.ClubMember
	if err := r.db.SelectContext(ctx, &members, query, clubID); err != nil {
		return nil, fmt.Errorf("list club members: %w", err)
	}
	return members, nil
}

// ListByUser returns the clubs a user has joined.
func (r *MembershipRepository) ListByUser(ctx context.Context, userID int64) ([]models.UserClub, error) {
	const query = `SELECT cm.membership_id, cm.user_id, cm.club_id, cm.points_earned, cm.joined_at, c.club_name
        FROM club_members cm
        JOIN clubs c ON c.club_id = cm.club_id
        WHERE cm.user_id = $1
        ORDER BY cm.club_id ASC`
	var clubs []models.UserClub
	if err := r.db.SelectContext(ctx, &clubs, query, userID); err != nil {
		return nil, fmt.Errorf("list user clubs: %w", err)
	}
	return clubs, nil
}
