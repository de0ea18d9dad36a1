package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/club-hub-api/internal/models"
	appErrors "github.com/noah-isme/club-hub-api/pkg/errors"
)

type clubRepository interface {
	List(ctx context.Context, filter models.ClubFilter) ([]models.Club, int, error)
	FindByID(ctx context.Context, id int64) (*models.Club, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, club *models.Club) error
	Update(ctx context.Context, club *models.Club) error
	Delete(ctx context.Context, id int64) error
	CountMembers(ctx context.Context, clubID int64) (int, error)
}

type clubRosterReader interface {
	ListByClub(ctx context.Context, clubID int64) ([]models.ClubMember, error)
}

type leaderboardInvalidator interface {
	InvalidateLeaderboards(ctx context.Context) error
}

// CreateClubRequest captures fields for creating clubs.
type CreateClubRequest struct {
	Name        string `json:"club_name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category" validate:"required,max=50"`
	Capacity    int    `json:"capacity" validate:"required,min=1,max=1000"`
}

// UpdateClubRequest modifies the editable club fields.
type UpdateClubRequest struct {
	Name        string `json:"club_name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category" validate:"required,max=50"`
	Capacity    int    `json:"capacity" validate:"required,min=1,max=1000"`
}

// ClubService handles club catalogue workflows. Points, head counts and badges
// are owned by the seeding batch and are never edited here.
type ClubService struct {
	repo      clubRepository
	roster    clubRosterReader
	cache     leaderboardInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClubService creates a new club service.
func NewClubService(repo clubRepository, roster clubRosterReader, cache leaderboardInvalidator, validate *validator.Validate, logger *zap.Logger) *ClubService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClubService{repo: repo, roster: roster, cache: cache, validator: validate, logger: logger}
}

// List returns paginated clubs.
func (s *ClubService) List(ctx context.Context, filter models.ClubFilter) ([]models.Club, *models.Pagination, error) {
	clubs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list clubs")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return clubs, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a club with its roster.
func (s *ClubService) Get(ctx context.Context, id int64) (*models.ClubDetail, error) {
	club, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.roster.ListByClub(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club members")
	}
	if members == nil {
		members = []models.ClubMember{}
	}
	return &models.ClubDetail{Club: *club, Members: members}, nil
}

// Create adds a club ensuring name uniqueness.
func (s *ClubService) Create(ctx context.Context, req CreateClubRequest) (*models.Club, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid club payload")
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := s.ensureUniqueName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	club := &models.Club{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Capacity:    req.Capacity,
		Badge:       models.TierNone,
	}
	if err := s.repo.Create(ctx, club); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create club")
	}
	s.invalidate(ctx)
	s.logger.Info("club created", zap.Int64("club_id", club.ClubID), zap.String("name", club.Name))
	return club, nil
}

// Update modifies a club. Capacity cannot drop below the current head count.
func (s *ClubService) Update(ctx context.Context, id int64, req UpdateClubRequest) (*models.Club, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid club payload")
	}
	club, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := s.ensureUniqueName(ctx, req.Name, id); err != nil {
		return nil, err
	}
	if req.Capacity < club.CurrentMembers {
		return nil, appErrors.Clone(appErrors.ErrValidation, "capacity is below the current member count")
	}

	club.Name = req.Name
	club.Description = strings.TrimSpace(req.Description)
	club.Category = strings.TrimSpace(req.Category)
	club.Capacity = req.Capacity
	if err := s.repo.Update(ctx, club); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update club")
	}
	s.invalidate(ctx)
	return club, nil
}

// Delete removes a club that has no members.
func (s *ClubService) Delete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountMembers(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count club members")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "club still has members")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete club")
	}
	s.invalidate(ctx)
	return nil
}

func (s *ClubService) find(ctx context.Context, id int64) (*models.Club, error) {
	club, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club")
	}
	return club, nil
}

func (s *ClubService) ensureUniqueName(ctx context.Context, name string, excludeID int64) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check club name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "club name already exists")
	}
	return nil
}

func (s *ClubService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateLeaderboards(ctx); err != nil {
		s.logger.Warn("leaderboard cache not invalidated", zap.Error(err))
	}
}
