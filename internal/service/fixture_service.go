package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/noah-isme/club-hub-api/internal/models"
)

var fixtureCategories = []string{"Technology", "Arts", "Sports", "Academic", "Community"}

type fixtureStore interface {
	EnsureSchema(ctx context.Context) error
	CountUsers(ctx context.Context) (int, error)
	Load(ctx context.Context, set models.FixtureSet) error
}

// FixtureService prepares an empty store with the users, clubs and badge
// definitions the seeding batch expects.
type FixtureService struct {
	store  fixtureStore
	faker  *gofakeit.Faker
	cfg    SeedServiceConfig
	logger *zap.Logger
}

// NewFixtureService constructs the service. A zero seed draws a random one.
func NewFixtureService(store fixtureStore, seed uint64, cfg SeedServiceConfig, logger *zap.Logger) *FixtureService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FixtureService{store: store, faker: gofakeit.New(seed), cfg: cfg, logger: logger}
}

// Apply creates the schema and loads fixtures unless users already exist. It
// reports whether fixtures were written.
func (s *FixtureService) Apply(ctx context.Context) (bool, error) {
	if err := s.store.EnsureSchema(ctx); err != nil {
		return false, err
	}
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		s.logger.Info("fixtures skipped, users already present", zap.Int("users", count))
		return false, nil
	}
	set := s.Build()
	if err := s.store.Load(ctx, set); err != nil {
		return false, err
	}
	s.logger.Info("fixtures loaded",
		zap.Int("users", len(set.Users)),
		zap.Int("clubs", len(set.Clubs)),
		zap.Int("badges", len(set.Badges)),
	)
	return true, nil
}

// Build generates the fixture set. Ids below MinStudentID are administrators.
func (s *FixtureService) Build() models.FixtureSet {
	var set models.FixtureSet

	for id := int64(1); id < s.cfg.MinStudentID; id++ {
		set.Users = append(set.Users, models.User{
			UserID: id,
			Name:   s.faker.Name(),
			Email:  fmt.Sprintf("admin%d@clubhub.test", id),
			Role:   models.RoleAdmin,
		})
	}
	for id := s.cfg.MinStudentID; id <= s.cfg.MaxStudentID; id++ {
		first, last := s.faker.FirstName(), s.faker.LastName()
		set.Users = append(set.Users, models.User{
			UserID: id,
			Name:   first + " " + last,
			Email:  fmt.Sprintf("%s.%s.%d@students.clubhub.test", strings.ToLower(first), strings.ToLower(last), id),
			Role:   models.RoleStudent,
		})
	}

	numClubs := s.cfg.NumClubs
	if numClubs <= 0 {
		numClubs = 10
	}
	for i := 0; i < numClubs; i++ {
		category := fixtureCategories[i%len(fixtureCategories)]
		adjective := s.faker.Adjective()
		set.Clubs = append(set.Clubs, models.Club{
			ClubID:      int64(i + 1),
			Name:        fmt.Sprintf("%s %s Club", capitalize(adjective), capitalize(s.faker.Noun())),
			Description: fmt.Sprintf("A %s %s club.", adjective, strings.ToLower(category)),
			Category:    category,
			Capacity:    s.cfg.ClubCapacity,
			Badge:       models.TierNone,
		})
	}

	set.Badges = append(set.Badges, ladderBadges(models.ClubTierLadder, models.BadgeTypeClub)...)
	set.Badges = append(set.Badges, ladderBadges(models.StudentTierLadder, models.BadgeTypeStudent)...)
	return set
}

func ladderBadges(ladder models.TierLadder, badgeType models.BadgeType) []models.Badge {
	badges := make([]models.Badge, 0, len(ladder))
	for i := len(ladder) - 1; i >= 0; i-- {
		tier := ladder[i]
		badges = append(badges, models.Badge{
			Name:           capitalize(tier.Name),
			Type:           badgeType,
			Description:    fmt.Sprintf("Reach %d points", tier.MinPoints),
			PointsRequired: tier.MinPoints,
		})
	}
	return badges
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
