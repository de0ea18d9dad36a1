package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/club-hub-api/internal/models"
)

type clubBadgeStore interface {
	ListAll(ctx context.Context) ([]models.Club, error)
	UpdateBadge(ctx context.Context, clubID int64, badge string) error
}

type studentLister interface {
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
}

type badgeAwardStore interface {
	List(ctx context.Context, filter models.BadgeFilter) ([]models.Badge, error)
	AwardExists(ctx context.Context, userID, badgeID int64) (bool, error)
	Award(ctx context.Context, userID, badgeID int64) (bool, error)
}

// BadgeAssigner applies the club and student tier ladders.
type BadgeAssigner struct {
	clubs    clubBadgeStore
	students studentLister
	badges   badgeAwardStore
	logger   *zap.Logger
}

// NewBadgeAssigner constructs the assigner.
func NewBadgeAssigner(clubs clubBadgeStore, students studentLister, badges badgeAwardStore, logger *zap.Logger) *BadgeAssigner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BadgeAssigner{clubs: clubs, students: students, badges: badges, logger: logger}
}

// AssignClubBadges recomputes every club tier and writes only the ones that
// changed. Tiers move in both directions. Returns the number of writes.
func (b *BadgeAssigner) AssignClubBadges(ctx context.Context) (int, error) {
	clubs, err := b.clubs.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, club := range clubs {
		tier := models.ClubTierLadder.Resolve(club.TotalPoints)
		if tier == club.Badge {
			continue
		}
		if err := b.clubs.UpdateBadge(ctx, club.ClubID, tier); err != nil {
			return changed, err
		}
		changed++
		b.logger.Info("club badge updated",
			zap.Int64("club_id", club.ClubID),
			zap.Int("total_points", club.TotalPoints),
			zap.String("previous", club.Badge),
			zap.String("badge", tier),
		)
	}
	return changed, nil
}

// AssignStudentBadges awards each student the tier they currently qualify for,
// unless they already hold it. Earlier awards are never removed.
func (b *BadgeAssigner) AssignStudentBadges(ctx context.Context) (int, error) {
	definitions, err := b.badges.List(ctx, models.BadgeFilter{Type: models.BadgeTypeStudent})
	if err != nil {
		return 0, err
	}
	badgeIDs := make(map[string]int64, len(definitions))
	for _, def := range definitions {
		badgeIDs[strings.ToLower(def.Name)] = def.BadgeID
	}

	students, err := b.students.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return 0, err
	}

	awarded := 0
	for _, student := range students {
		tier := models.StudentTierLadder.Resolve(student.TotalPoints)
		if tier == models.TierNone {
			continue
		}
		badgeID, ok := badgeIDs[tier]
		if !ok {
			b.logger.Warn("student badge definition missing", zap.String("badge", tier))
			continue
		}
		exists, err := b.badges.AwardExists(ctx, student.UserID, badgeID)
		if err != nil {
			return awarded, fmt.Errorf("check award for user %d: %w", student.UserID, err)
		}
		if exists {
			continue
		}
		inserted, err := b.badges.Award(ctx, student.UserID, badgeID)
		if err != nil {
			return awarded, err
		}
		if !inserted {
			continue
		}
		awarded++
		b.logger.Info("student badge awarded",
			zap.Int64("user_id", student.UserID),
			zap.Int("total_points", student.TotalPoints),
			zap.String("badge", tier),
		)
	}
	return awarded, nil
}
