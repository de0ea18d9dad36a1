package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/club-hub-api/internal/models"
)

func expectJoin(mock sqlmock.Sqlmock, userID, clubID int64, points int) {
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO club_members (user_id, club_id, points_earned) VALUES ($1, $2, $3)")).
		WithArgs(userID, clubID, points).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET total_points = total_points + $1 WHERE user_id = $2")).
		WithArgs(points, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE clubs SET current_members = current_members + 1 WHERE club_id = $1")).
		WithArgs(clubID).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestJoinTxCommitsEveryJoin(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	mock.ExpectBegin()
	expectJoin(mock, 2, 1, 10)
	expectJoin(mock, 2, 3, 10)
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := repo.BeginJoins(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Join(ctx, models.Membership{UserID: 2, ClubID: 1, PointsEarned: 10}))
	require.NoError(t, tx.Join(ctx, models.Membership{UserID: 2, ClubID: 3, PointsEarned: 10}))
	require.NoError(t, tx.Commit())
	assert.NoError(t, tx.Rollback(), "rollback after commit is a no-op")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinTxRollsBackOnFailedInsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	mock.ExpectBegin()
	expectJoin(mock, 2, 1, 10)
	mock.ExpectExec("INSERT INTO club_members").
		WithArgs(int64(3), int64(1), 10).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := repo.BeginJoins(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Join(ctx, models.Membership{UserID: 2, ClubID: 1, PointsEarned: 10}))
	err = tx.Join(ctx, models.Membership{UserID: 3, ClubID: 1, PointsEarned: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user=3 club=1")
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginJoinsFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := repo.BeginJoins(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinTxCommitFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	tx, err := repo.BeginJoins(context.Background())
	require.NoError(t, err)
	err = tx.Commit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit membership batch")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"membership_id", "user_id", "club_id", "points_earned", "joined_at"}).
		AddRow(1, 2, 4, 10, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT membership_id, user_id, club_id, points_earned, joined_at FROM club_members WHERE user_id = $1 AND club_id = $2 ORDER BY membership_id ASC LIMIT 100 OFFSET 0")).
		WithArgs(int64(2), int64(4)).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM club_members WHERE user_id = $1 AND club_id = $2")).
		WithArgs(int64(2), int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	memberships, total, err := repo.List(context.Background(), models.MembershipFilter{UserID: 2, ClubID: 4})
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, 10, memberships[0].PointsEarned)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipListByClub(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"membership_id", "user_id", "club_id", "points_earned", "joined_at", "user_name", "user_total_points"}).
		AddRow(3, 7, 1, 10, now, "Alan", 30).
		AddRow(1, 2, 1, 10, now, "Ada", 20)
	mock.ExpectQuery("FROM club_members cm\\s+JOIN users u").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	members, err := repo.ListByClub(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Alan", members[0].UserName)
	assert.Equal(t, 30, members[0].UserTotalPoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipListByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	rows := sqlmock.NewRows([]string{"membership_id", "user_id", "club_id", "points_earned", "joined_at", "club_name"}).
		AddRow(1, 2, 1, 10, time.Now(), "Chess Club")
	mock.ExpectQuery("JOIN clubs c ON c.club_id = cm.club_id").
		WithArgs(int64(2)).
		WillReturnRows(rows)

	clubs, err := repo.ListByUser(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Chess Club", clubs[0].ClubName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
