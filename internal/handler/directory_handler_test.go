package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/club-hub-api/internal/models"
	appErrors "github.com/noah-isme/club-hub-api/pkg/errors"
)

type directoryServiceMock struct {
	memberships    []models.Membership
	badges         []models.Badge
	awards         []models.UserBadge
	err            error
	lastFilter     models.MembershipFilter
	lastBadgeType  string
	lastUserID     int64
	membershipHits int
}

func (m *directoryServiceMock) Memberships(ctx context.Context, filter models.MembershipFilter) ([]models.Membership, *models.Pagination, error) {
	m.membershipHits++
	m.lastFilter = filter
	return m.memberships, &models.Pagination{Page: 1, PageSize: 100, TotalCount: len(m.memberships)}, m.err
}

func (m *directoryServiceMock) Badges(ctx context.Context, badgeType string) ([]models.Badge, error) {
	m.lastBadgeType = badgeType
	return m.badges, m.err
}

func (m *directoryServiceMock) UserBadges(ctx context.Context, userID int64) ([]models.UserBadge, error) {
	m.lastUserID = userID
	return m.awards, m.err
}

func TestDirectoryHandlerMemberships(t *testing.T) {
	svc := &directoryServiceMock{memberships: []models.Membership{{MembershipID: 1, UserID: 2, ClubID: 3, PointsEarned: 10}}}
	handler := NewDirectoryHandler(svc)

	c, w := newTestContext(http.MethodGet, "/club-members?user_id=2&club_id=3", nil)
	handler.Memberships(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), svc.lastFilter.UserID)
	assert.Equal(t, int64(3), svc.lastFilter.ClubID)
	assert.Equal(t, 100, svc.lastFilter.PageSize)
}

func TestDirectoryHandlerMembershipsRejectsBadID(t *testing.T) {
	svc := &directoryServiceMock{}
	handler := NewDirectoryHandler(svc)

	c, w := newTestContext(http.MethodGet, "/club-members?club_id=-1", nil)
	handler.Memberships(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.membershipHits)
}

func TestDirectoryHandlerBadges(t *testing.T) {
	svc := &directoryServiceMock{badges: []models.Badge{{BadgeID: 1, Name: "Bronze", Type: models.BadgeTypeStudent, PointsRequired: 20}}}
	handler := NewDirectoryHandler(svc)

	c, w := newTestContext(http.MethodGet, "/badges?type=student", nil)
	handler.Badges(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student", svc.lastBadgeType)
}

func TestDirectoryHandlerBadgesInvalidType(t *testing.T) {
	svc := &directoryServiceMock{err: appErrors.Clone(appErrors.ErrValidation, "type must be club or student")}
	handler := NewDirectoryHandler(svc)

	c, w := newTestContext(http.MethodGet, "/badges?type=teacher", nil)
	handler.Badges(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDirectoryHandlerUserBadges(t *testing.T) {
	svc := &directoryServiceMock{awards: []models.UserBadge{{UserBadgeID: 1, UserID: 5, BadgeID: 2}}}
	handler := NewDirectoryHandler(svc)

	c, w := newTestContext(http.MethodGet, "/user-badges?user_id=5", nil)
	handler.UserBadges(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), svc.lastUserID)
	assert.Len(t, decodeEnvelope(t, w)["data"], 1)
}
