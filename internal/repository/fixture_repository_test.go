package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/club-hub-api/internal/models"
)

func fixtureSet() models.FixtureSet {
	return models.FixtureSet{
		Users: []models.User{
			{UserID: 1, Name: "Admin One", Email: "admin1@clubhub.test", Role: models.RoleAdmin},
			{UserID: 2, Name: "Ada Lovelace", Email: "ada.lovelace.2@students.clubhub.test", Role: models.RoleStudent},
		},
		Clubs: []models.Club{
			{ClubID: 1, Name: "Chess Club", Category: "Academic", Capacity: 30, Badge: models.TierNone},
		},
		Badges: []models.Badge{
			{Name: "Bronze", Type: models.BadgeTypeStudent, PointsRequired: 20},
		},
	}
}

func TestFixtureEnsureSchema(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFixtureRepository(db)

	for range Schema {
		mock.ExpectExec("CREATE (TABLE|INDEX) IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFixtureLoadCommits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFixtureRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WithArgs(int64(1), "Admin One", "admin1@clubhub.test", "admin", 0).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO users").WithArgs(int64(2), "Ada Lovelace", "ada.lovelace.2@students.clubhub.test", "student", 0).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO clubs").WithArgs(int64(1), "Chess Club", "", "Academic", 30, 0, 0, "none").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO badges").WithArgs("Bronze", "student", "", 20).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("SELECT setval(pg_get_serial_sequence('users', 'user_id')")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SELECT setval(pg_get_serial_sequence('clubs', 'club_id')")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Load(context.Background(), fixtureSet()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFixtureLoadRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFixtureRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.Load(context.Background(), fixtureSet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert fixture user 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFixtureCountUsers(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFixtureRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(101))

	count, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 101, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
