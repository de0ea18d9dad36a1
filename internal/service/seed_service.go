package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/club-hub-api/internal/models"
	"github.com/noah-isme/club-hub-api/internal/repository"
	appErrors "github.com/noah-isme/club-hub-api/pkg/errors"
)

type seedClubReader interface {
	ListAll(ctx context.Context) ([]models.Club, error)
}

type membershipBatchStore interface {
	BeginJoins(ctx context.Context) (repository.JoinTx, error)
}

// SeedServiceConfig carries the batch constants.
type SeedServiceConfig struct {
	MinStudentID  int64
	MaxStudentID  int64
	NumClubs      int
	ClubCapacity  int
	PointsPerClub int
}

// SeedServiceParams groups constructor dependencies.
type SeedServiceParams struct {
	Clubs       seedClubReader
	Memberships membershipBatchStore
	Aggregator  *PointsAggregator
	Badges      *BadgeAssigner
	Random      RandomSource
	Logger      *zap.Logger
	Config      SeedServiceConfig
}

// SeedService runs the membership seeding batch: assign and commit memberships
// in one transaction, then recompute club totals and badges.
type SeedService struct {
	clubs       seedClubReader
	memberships membershipBatchStore
	aggregator  *PointsAggregator
	badges      *BadgeAssigner
	rng         RandomSource
	logger      *zap.Logger
	now         func() time.Time
	cfg         SeedServiceConfig
}

// NewSeedService constructs a SeedService.
func NewSeedService(params SeedServiceParams) *SeedService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := params.Random
	if rng == nil {
		rng = NewRandomSource(0)
	}
	return &SeedService{
		clubs:       params.Clubs,
		memberships: params.Memberships,
		aggregator:  params.Aggregator,
		badges:      params.Badges,
		rng:         rng,
		logger:      logger,
		now:         time.Now,
		cfg:         params.Config,
	}
}

// Run executes every phase. A failure during the membership phase rolls back
// all memberships of the run; later failures stop the remaining phases but keep
// what was already written.
func (s *SeedService) Run(ctx context.Context) (*models.SeedReport, error) {
	report := &models.SeedReport{StartedAt: s.now().UTC()}

	clubs, err := s.clubs.ListAll(ctx)
	if err != nil {
		return report, appErrors.Wrap(err, appErrors.ErrSeedSetup.Code, appErrors.ErrSeedSetup.Status, "failed to load clubs")
	}

	if err := s.commitMemberships(ctx, clubs, report); err != nil {
		return report, err
	}
	if err := s.recompute(ctx, report); err != nil {
		return report, err
	}

	report.FinishedAt = s.now().UTC()
	s.logger.Info("seed batch finished",
		zap.Int("students_processed", report.StudentsProcessed),
		zap.Int("memberships_created", report.MembershipsCreated),
		zap.Int("club_badges_changed", report.ClubBadgesChanged),
		zap.Int("student_badges_awarded", report.StudentBadgesAwarded),
	)
	return report, nil
}

// Recompute runs only the post-commit phases: club totals, club tiers and
// student awards. It is safe to repeat.
func (s *SeedService) Recompute(ctx context.Context) (*models.SeedReport, error) {
	report := &models.SeedReport{StartedAt: s.now().UTC()}
	if err := s.recompute(ctx, report); err != nil {
		return report, err
	}
	report.FinishedAt = s.now().UTC()
	return report, nil
}

func (s *SeedService) commitMemberships(ctx context.Context, clubs []models.Club, report *models.SeedReport) error {
	tracker := NewCapacityTracker(clubs, s.cfg.ClubCapacity)
	generator := NewAssignmentGenerator(s.rng, candidateClubIDs(clubs, s.cfg.NumClubs))

	tx, err := s.memberships.BeginJoins(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrSeedSetup.Code, appErrors.ErrSeedSetup.Status, "failed to open membership batch")
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("membership batch rollback failed", zap.Error(rbErr))
		}
	}()

	s.logger.Info("membership batch started",
		zap.Int64("min_student_id", s.cfg.MinStudentID),
		zap.Int64("max_student_id", s.cfg.MaxStudentID),
		zap.Int("clubs", len(clubs)),
	)

	created := 0
	for studentID := s.cfg.MinStudentID; studentID <= s.cfg.MaxStudentID; studentID++ {
		assignment := generator.Next(studentID, tracker)
		report.StudentsProcessed++
		if len(assignment.ClubIDs) == 0 {
			report.StudentsWithoutClubs++
			s.logger.Debug("student joins no clubs", zap.Int64("user_id", studentID))
			continue
		}
		s.logger.Debug("student joining clubs", zap.Int64("user_id", studentID), zap.Int64s("club_ids", assignment.ClubIDs))

		for _, clubID := range assignment.ClubIDs {
			membership := models.Membership{UserID: studentID, ClubID: clubID, PointsEarned: s.cfg.PointsPerClub}
			if err := tx.Join(ctx, membership); err != nil {
				s.logger.Error("membership batch rolled back",
					zap.Int64("user_id", studentID),
					zap.Int64("club_id", clubID),
					zap.Int("discarded_joins", created),
					zap.Error(err),
				)
				return appErrors.Wrap(err, appErrors.ErrMembershipBatch.Code, appErrors.ErrMembershipBatch.Status, appErrors.ErrMembershipBatch.Message)
			}
			tracker.RecordJoin(clubID)
			created++
			s.logger.Debug("club member added",
				zap.Int64("user_id", studentID),
				zap.Int64("club_id", clubID),
				zap.Int("club_members", tracker.Count(clubID)),
			)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("membership batch commit failed", zap.Int("discarded_joins", created), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrMembershipBatch.Code, appErrors.ErrMembershipBatch.Status, appErrors.ErrMembershipBatch.Message)
	}
	report.MembershipsCreated = created
	s.logger.Info("membership batch committed", zap.Int("memberships_created", created))
	return nil
}

func (s *SeedService) recompute(ctx context.Context, report *models.SeedReport) error {
	updated, err := s.aggregator.Recompute(ctx)
	report.ClubsRecomputed = updated
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrAggregation.Code, appErrors.ErrAggregation.Status, appErrors.ErrAggregation.Message)
	}
	s.logger.Info("club total points recalculated", zap.Int("clubs", updated))

	changed, err := s.badges.AssignClubBadges(ctx)
	report.ClubBadgesChanged = changed
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrBadgeAssignment.Code, appErrors.ErrBadgeAssignment.Status, "failed to update club badges")
	}
	s.logger.Info("club badges updated", zap.Int("changed", changed))

	awarded, err := s.badges.AssignStudentBadges(ctx)
	report.StudentBadgesAwarded = awarded
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrBadgeAssignment.Code, appErrors.ErrBadgeAssignment.Status, "failed to assign student badges")
	}
	s.logger.Info("student badges assigned", zap.Int("awarded", awarded))
	return nil
}

// candidateClubIDs returns the persisted club ids in ascending order, limited
// to the first limit ids when limit is positive.
func candidateClubIDs(clubs []models.Club, limit int) []int64 {
	ids := make([]int64, 0, len(clubs))
	for _, club := range clubs {
		ids = append(ids, club.ClubID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}
