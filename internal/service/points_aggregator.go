package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/club-hub-api/internal/models"
)

type clubPointsStore interface {
	MemberPointTotals(ctx context.Context) ([]models.ClubPoints, error)
	UpdateTotalPoints(ctx context.Context, clubID int64, points int) error
}

// PointsAggregator rewrites every club's total as the sum of its members'
// point totals. The stored total is treated as a cache of that sum.
type PointsAggregator struct {
	store  clubPointsStore
	logger *zap.Logger
}

// NewPointsAggregator constructs the aggregator.
func NewPointsAggregator(store clubPointsStore, logger *zap.Logger) *PointsAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PointsAggregator{store: store, logger: logger}
}

// Recompute overwrites all club totals and returns how many clubs were written.
// Each write is independent; a failure leaves earlier clubs updated.
func (a *PointsAggregator) Recompute(ctx context.Context) (int, error) {
	totals, err := a.store.MemberPointTotals(ctx)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, total := range totals {
		if err := a.store.UpdateTotalPoints(ctx, total.ClubID, total.TotalPoints); err != nil {
			return updated, err
		}
		updated++
		a.logger.Debug("club total points updated", zap.Int64("club_id", total.ClubID), zap.Int("total_points", total.TotalPoints))
	}
	return updated, nil
}
