package service

import (
	"context"
	"strings"

	"github.com/noah-isme/club-hub-api/internal/models"
	appErrors "github.com/noah-isme/club-hub-api/pkg/errors"
)

type membershipLister interface {
	List(ctx context.Context, filter models.MembershipFilter) ([]models.Membership, int, error)
}

type badgeReader interface {
	List(ctx context.Context, filter models.BadgeFilter) ([]models.Badge, error)
	ListAwards(ctx context.Context, userID int64) ([]models.UserBadge, error)
}

// DirectoryService serves the plain table listings: memberships, badge
// definitions and awards.
type DirectoryService struct {
	memberships membershipLister
	badges      badgeReader
}

// NewDirectoryService constructs the service.
func NewDirectoryService(memberships membershipLister, badges badgeReader) *DirectoryService {
	return &DirectoryService{memberships: memberships, badges: badges}
}

// Memberships lists club memberships filtered by user or club.
func (s *DirectoryService) Memberships(ctx context.Context, filter models.MembershipFilter) ([]models.Membership, *models.Pagination, error) {
	if filter.UserID < 0 || filter.ClubID < 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "ids must be positive")
	}
	memberships, total, err := s.memberships.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list memberships")
	}
	if memberships == nil {
		memberships = []models.Membership{}
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 100
	}
	return memberships, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Badges lists badge definitions, optionally of one type.
func (s *DirectoryService) Badges(ctx context.Context, badgeType string) ([]models.Badge, error) {
	filter := models.BadgeFilter{Type: models.BadgeType(strings.ToLower(strings.TrimSpace(badgeType)))}
	switch filter.Type {
	case "", models.BadgeTypeClub, models.BadgeTypeStudent:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "type must be club or student")
	}
	badges, err := s.badges.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list badges")
	}
	if badges == nil {
		badges = []models.Badge{}
	}
	return badges, nil
}

// UserBadges lists award rows, optionally for one user.
func (s *DirectoryService) UserBadges(ctx context.Context, userID int64) ([]models.UserBadge, error) {
	if userID < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id must be positive")
	}
	awards, err := s.badges.ListAwards(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list user badges")
	}
	if awards == nil {
		awards = []models.UserBadge{}
	}
	return awards, nil
}
