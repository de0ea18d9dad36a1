package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/club-hub-api/internal/models"
)

var clubRowColumns = []string{"club_id", "club_name", "description", "category", "capacity", "current_members", "total_points", "badge", "created_at", "updated_at"}

func TestClubListAllOrdersByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClubRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(clubRowColumns).
		AddRow(1, "Chess Club", "", "Academic", 30, 12, 0, "none", now, now).
		AddRow(2, "Art Club", "", "Arts", 30, 30, 0, "none", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + clubColumns + " FROM clubs ORDER BY club_id ASC")).WillReturnRows(rows)

	clubs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, clubs, 2)
	assert.Equal(t, 30, clubs[1].CurrentMembers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClubLeaderboardByCategory(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClubRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(clubRowColumns).AddRow(3, "Robotics Club", "", "Technology", 30, 20, 450, "bronze", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM clubs WHERE LOWER(category) = LOWER($1) ORDER BY total_points DESC, club_id ASC")).
		WithArgs("technology").
		WillReturnRows(rows)

	clubs, err := repo.Leaderboard(context.Background(), "technology")
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "bronze", clubs[0].Badge)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClubMemberPointTotals(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClubRepository(db)

	rows := sqlmock.NewRows([]string{"club_id", "total_points"}).
		AddRow(1, 120).
		AddRow(2, 0)
	mock.ExpectQuery("COALESCE\\(SUM\\(u.total_points\\), 0\\)").WillReturnRows(rows)

	totals, err := repo.MemberPointTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.ClubPoints{{ClubID: 1, TotalPoints: 120}, {ClubID: 2, TotalPoints: 0}}, totals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClubUpdateTotalPointsAndBadge(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClubRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE clubs SET total_points = $1 WHERE club_id = $2")).
		WithArgs(700, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE clubs SET badge = $1 WHERE club_id = $2")).
		WithArgs("silver", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, repo.UpdateTotalPoints(ctx, 4, 700))
	require.NoError(t, repo.UpdateBadge(ctx, 4, "silver"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClubExistsByName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClubRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM clubs WHERE LOWER(club_name) = LOWER($1) AND club_id <> $2 LIMIT 1")).
		WithArgs("Chess Club", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM clubs WHERE LOWER(club_name) = LOWER($1) LIMIT 1")).
		WithArgs("Chess Club").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	ctx := context.Background()
	exists, err := repo.ExistsByName(ctx, "Chess Club", 3)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByName(ctx, "Chess Club", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClubCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClubRepository(db)

	mock.ExpectQuery("INSERT INTO clubs").
		WillReturnRows(sqlmock.NewRows([]string{"club_id"}).AddRow(11))

	club := &models.Club{Name: "Debate Club", Category: "Academic", Capacity: 25}
	require.NoError(t, repo.Create(context.Background(), club))
	assert.Equal(t, int64(11), club.ClubID)
	assert.Equal(t, models.TierNone, club.Badge)
	assert.False(t, club.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClubUpdateAndDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClubRepository(db)

	mock.ExpectExec("UPDATE clubs SET club_name").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM clubs WHERE club_id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, repo.Update(ctx, &models.Club{ClubID: 5, Name: "Drama Club", Category: "Arts", Capacity: 40}))
	require.NoError(t, repo.Delete(ctx, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClubCountMembersAndCategories(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClubRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM club_members WHERE club_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))
	mock.ExpectQuery("SELECT DISTINCT category FROM clubs").
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Arts").AddRow("Sports"))

	ctx := context.Background()
	count, err := repo.CountMembers(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 17, count)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arts", "Sports"}, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}
