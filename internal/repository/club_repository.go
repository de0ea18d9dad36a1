package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/club-hub-api/internal/models"
)

const clubColumns = "club_id, club_name, description, category, capacity, current_members, total_points, badge, created_at, updated_at"

// ClubRepository manages persistence for clubs.
type ClubRepository struct {
	db *sqlx.DB
}

// NewClubRepository constructs a new club repository.
func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

// List returns clubs matching filter criteria.
func (r *ClubRepository) List(ctx context.Context, filter models.ClubFilter) ([]models.Club, int, error) {
	base := "FROM clubs WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(club_name) LIKE $%d OR LOWER(description) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "club_id"
	}
	allowedSorts := map[string]bool{
		"club_id":         true,
		"club_name":       true,
		"category":        true,
		"current_members": true,
		"total_points":    true,
		"created_at":      true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "club_id"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", clubColumns, base, sortBy, order, size, offset)
	var clubs []models.Club
	if err := r.db.SelectContext(ctx, &clubs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list clubs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count clubs: %w", err)
	}
	return clubs, total, nil
}

// ListAll returns every club ordered by id.
func (r *ClubRepository) ListAll(ctx context.Context) ([]models.Club, error) {
	query := fmt.Sprintf("SELECT %s FROM clubs ORDER BY club_id ASC", clubColumns)
	var clubs []models.Club
	if err := r.db.SelectContext(ctx, &clubs, query); err != nil {
		return nil, fmt.Errorf("list all clubs: %w", err)
	}
	return clubs, nil
}

// Leaderboard returns clubs ordered by total points, optionally within one category.
func (r *ClubRepository) Leaderboard(ctx context.Context, category string) ([]models.Club, error) {
	query := fmt.Sprintf("SELECT %s FROM clubs", clubColumns)
	var args []interface{}
	if category != "" {
		query += " WHERE LOWER(category) = LOWER($1)"
		args = append(args, category)
	}
	query += " ORDER BY total_points DESC, club_id ASC"
	var clubs []models.Club
	if err := r.db.SelectContext(ctx, &clubs, query, args...); err != nil {
		return nil, fmt.Errorf("club leaderboard: %w", err)
	}
	return clubs, nil
}

// Categories returns the distinct club categories.
func (r *ClubRepository) Categories(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT category FROM clubs WHERE category <> '' ORDER BY category ASC`
	var categories []string
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list club categories: %w", err)
	}
	return categories, nil
}

// FindByID returns a club record by ID.
func (r *ClubRepository) FindByID(ctx context.Context, id int64) (*models.Club, error) {
	query := fmt.Sprintf("SELECT %s FROM clubs WHERE club_id = $1", clubColumns)
	var club models.Club
	if err := r.db.GetContext(ctx, &club, query, id); err != nil {
		return nil, err
	}
	return &club, nil
}

// ExistsByName checks if a club with the same name already exists.
func (r *ClubRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM clubs WHERE LOWER(club_name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID > 0 {
		query += " AND club_id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check club name: %w", err)
	}
	return true, nil
}

// Create persists a club record and fills in its generated id.
func (r *ClubRepository) Create(ctx context.Context, club *models.Club) error {
	now := time.Now().UTC()
	if club.CreatedAt.IsZero() {
		club.CreatedAt = now
	}
	club.UpdatedAt = now
	if club.Badge == "" {
		club.Badge = models.TierNone
	}

	const query = `INSERT INTO clubs (club_name, description, category, capacity, current_members, total_points, badge, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING club_id`
	if err := r.db.QueryRowxContext(ctx, query,
		club.Name, club.Description, club.Category, club.Capacity, club.CurrentMembers, club.TotalPoints, club.Badge, club.CreatedAt, club.UpdatedAt,
	).Scan(&club.ClubID); err != nil {
		return fmt.Errorf("create club: %w", err)
	}
	return nil
}

// Update modifies the editable club fields.
func (r *ClubRepository) Update(ctx context.Context, club *models.Club) error {
	club.UpdatedAt = time.Now().UTC()
	const query = `UPDATE clubs SET club_name = :club_name, description = :description, category = :category, capacity = :capacity, updated_at = :updated_at WHERE club_id = :club_id`
	if _, err := r.db.NamedExecContext(ctx, query, club); err != nil {
		return fmt.Errorf("update club: %w", err)
	}
	return nil
}

// Delete removes a club record.
func (r *ClubRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM clubs WHERE club_id = $1`, id); err != nil {
		return fmt.Errorf("delete club: %w", err)
	}
	return nil
}

// CountMembers returns how many memberships reference the club.
func (r *ClubRepository) CountMembers(ctx context.Context, clubID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM club_members WHERE club_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, clubID); err != nil {
		return 0, fmt.Errorf("count club members: %w", err)
	}
	return count, nil
}

// MemberPointTotals sums the total points of every club's current members.
// Clubs without members report 0.
func (r *ClubRepository) MemberPointTotals(ctx context.Context) ([]models.ClubPoints, error) {
	const query = `SELECT c.club_id, COALESCE(SUM(u.total_points), 0) AS total_points
        FROM clubs c
        LEFT JOIN club_members cm ON cm.club_id = c.club_id
        LEFT JOIN users u ON u.user_id = cm.user_id
        GROUP BY c.club_id
        ORDER BY c.club_id ASC`
	var totals []models.ClubPoints
	if err := r.db.SelectContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("sum club member points: %w", err)
	}
	return totals, nil
}

// UpdateTotalPoints overwrites the stored club total.
func (r *ClubRepository) UpdateTotalPoints(ctx context.Context, clubID int64, points int) error {
	const query = `UPDATE clubs SET total_points = $1 WHERE club_id = $2`
	if _, err := r.db.ExecContext(ctx, query, points, clubID); err != nil {
		return fmt.Errorf("update club %d total points: %w", clubID, err)
	}
	return nil
}

// UpdateBadge overwrites the stored club tier.
func (r *ClubRepository) UpdateBadge(ctx context.Context, clubID int64, badge string) error {
	const query = `UPDATE clubs SET badge = $1 WHERE club_id = $2`
	if _, err := r.db.ExecContext(ctx, query, badge, clubID); err != nil {
		return fmt.Errorf("update club %d badge: %w", clubID, err)
	}
	return nil
}
