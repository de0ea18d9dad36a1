package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/club-hub-api/internal/dto"
	"github.com/noah-isme/club-hub-api/internal/models"
	appErrors "github.com/noah-isme/club-hub-api/pkg/errors"
	"github.com/noah-isme/club-hub-api/pkg/export"
)

const pointsPerLevel = 20

// Export formats accepted by ExportClubs.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type clubLeaderboardReader interface {
	Leaderboard(ctx context.Context, category string) ([]models.Club, error)
	Categories(ctx context.Context) ([]string, error)
}

type studentLeaderboardReader interface {
	Leaderboard(ctx context.Context, limit int) ([]models.User, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered leaderboard download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// LeaderboardServiceParams groups constructor dependencies.
type LeaderboardServiceParams struct {
	Clubs    clubLeaderboardReader
	Students studentLeaderboardReader
	Cache    *CacheService
	Metrics  *MetricsService
	CacheTTL time.Duration
	Logger   *zap.Logger
	CSV      csvRenderer
	PDF      pdfRenderer
}

// LeaderboardService ranks clubs and students by total points.
type LeaderboardService struct {
	clubs    clubLeaderboardReader
	students studentLeaderboardReader
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
	csv      csvRenderer
	pdf      pdfRenderer
	now      func() time.Time
}

// NewLeaderboardService constructs the service.
func NewLeaderboardService(params LeaderboardServiceParams) *LeaderboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &LeaderboardService{
		clubs:    params.Clubs,
		students: params.Students,
		cache:    params.Cache,
		metrics:  params.Metrics,
		cacheTTL: params.CacheTTL,
		logger:   logger,
		csv:      csv,
		pdf:      pdf,
		now:      time.Now,
	}
}

// Clubs returns clubs ranked by total points, optionally within a category. The
// boolean reports a cache hit.
func (s *LeaderboardService) Clubs(ctx context.Context, category string) (*dto.ClubLeaderboardResponse, bool, error) {
	category = strings.TrimSpace(category)
	key := clubLeaderboardKey(category)

	var cached dto.ClubLeaderboardResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	clubs, err := s.clubs.Leaderboard(ctx, category)
	s.metrics.ObserveDBQuery("club_leaderboard", time.Since(start))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club leaderboard")
	}
	categories, err := s.clubs.Categories(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club categories")
	}

	resp := &dto.ClubLeaderboardResponse{
		Category:   category,
		Categories: categories,
		Entries:    make([]dto.ClubLeaderboardEntry, 0, len(clubs)),
	}
	for i, club := range clubs {
		resp.Entries = append(resp.Entries, dto.ClubLeaderboardEntry{
			Rank:           i + 1,
			ClubID:         club.ClubID,
			Name:           club.Name,
			Category:       club.Category,
			TotalPoints:    club.TotalPoints,
			CurrentMembers: club.CurrentMembers,
			Capacity:       club.Capacity,
			Badge:          club.Badge,
		})
	}

	if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
		s.logger.Debug("club leaderboard not cached", zap.Error(err))
	}
	return resp, false, nil
}

// Students returns the top students by total points.
func (s *LeaderboardService) Students(ctx context.Context, limit int) (*dto.StudentLeaderboardResponse, bool, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	key := studentLeaderboardKey(limit)

	var cached dto.StudentLeaderboardResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	users, err := s.students.Leaderboard(ctx, limit)
	s.metrics.ObserveDBQuery("student_leaderboard", time.Since(start))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student leaderboard")
	}

	resp := &dto.StudentLeaderboardResponse{Entries: make([]dto.StudentLeaderboardEntry, 0, len(users))}
	for i, user := range users {
		resp.Entries = append(resp.Entries, dto.StudentLeaderboardEntry{
			Rank:        i + 1,
			UserID:      user.UserID,
			Name:        user.Name,
			TotalPoints: user.TotalPoints,
			Level:       StudentLevel(user.TotalPoints),
			Tier:        models.StudentTierLadder.Resolve(user.TotalPoints),
		})
	}

	if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
		s.logger.Debug("student leaderboard not cached", zap.Error(err))
	}
	return resp, false, nil
}

// ExportClubs renders the club leaderboard as CSV or PDF.
func (s *LeaderboardService) ExportClubs(ctx context.Context, category, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	board, _, err := s.Clubs(ctx, category)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Rank", "Club", "Category", "Members", "Capacity", "Total Points", "Badge"},
		Rows:    make([]map[string]string, 0, len(board.Entries)),
		Numeric: map[string]bool{"Rank": true, "Members": true, "Capacity": true, "Total Points": true},
	}
	for _, entry := range board.Entries {
		if err := dataset.AppendRow(
			strconv.Itoa(entry.Rank),
			entry.Name,
			entry.Category,
			strconv.Itoa(entry.CurrentMembers),
			strconv.Itoa(entry.Capacity),
			strconv.Itoa(entry.TotalPoints),
			entry.Badge,
		); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build leaderboard export")
		}
	}

	stamp := s.now().UTC().Format("20060102_150405")
	file := &ExportFile{Filename: fmt.Sprintf("club_leaderboard_%s.%s", stamp, format)}
	switch format {
	case ExportFormatPDF:
		title := "Club Leaderboard"
		if board.Category != "" {
			title = fmt.Sprintf("Club Leaderboard %s", board.Category)
		}
		file.ContentType = "application/pdf"
		file.Payload, err = s.pdf.Render(dataset, title)
	default:
		file.ContentType = "text/csv"
		file.Payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render leaderboard export")
	}
	return file, nil
}

// InvalidateCache drops cached rankings after totals change.
func (s *LeaderboardService) InvalidateCache(ctx context.Context) error {
	return s.cache.InvalidateLeaderboards(ctx)
}

// StudentLevel derives the display level from a point total.
func StudentLevel(points int) int {
	if points < 0 {
		points = 0
	}
	return points/pointsPerLevel + 1
}
