package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/club-hub-api/internal/dto"
	"github.com/noah-isme/club-hub-api/internal/models"
	appErrors "github.com/noah-isme/club-hub-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type userClubReader interface {
	ListByUser(ctx context.Context, userID int64) ([]models.UserClub, error)
}

type userBadgeReader interface {
	ListAwardDetails(ctx context.Context, userID int64) ([]models.UserBadgeDetail, error)
}

// UserService exposes read access to users and student profiles.
type UserService struct {
	repo   userRepository
	clubs  userClubReader
	badges userBadgeReader
	logger *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo userRepository, clubs userClubReader, badges userBadgeReader, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, clubs: clubs, badges: badges, logger: logger}
}

// List returns paginated users.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	if filter.Role != nil && *filter.Role != models.RoleStudent && *filter.Role != models.RoleAdmin {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "role must be student or admin")
	}
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return users, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Profile returns a user with derived level, tier, joined clubs and badges.
func (s *UserService) Profile(ctx context.Context, id int64) (*dto.StudentProfile, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	clubs, err := s.clubs.ListByUser(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load joined clubs")
	}
	badges, err := s.badges.ListAwardDetails(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load badges")
	}
	if clubs == nil {
		clubs = []models.UserClub{}
	}
	if badges == nil {
		badges = []models.UserBadgeDetail{}
	}

	tier := models.TierNone
	if user.Role == models.RoleStudent {
		tier = models.StudentTierLadder.Resolve(user.TotalPoints)
	}
	return &dto.StudentProfile{
		User:        *user,
		Level:       StudentLevel(user.TotalPoints),
		Tier:        tier,
		JoinedClubs: clubs,
		Badges:      badges,
	}, nil
}
