package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/club-hub-api/internal/dto"
	"github.com/noah-isme/club-hub-api/internal/middleware"
	"github.com/noah-isme/club-hub-api/internal/service"
	appErrors "github.com/noah-isme/club-hub-api/pkg/errors"
	"github.com/noah-isme/club-hub-api/pkg/response"
)

type leaderboardService interface {
	Clubs(ctx context.Context, category string) (*dto.ClubLeaderboardResponse, bool, error)
	Students(ctx context.Context, limit int) (*dto.StudentLeaderboardResponse, bool, error)
	ExportClubs(ctx context.Context, category, format string) (*service.ExportFile, error)
}

// LeaderboardHandler serves club and student rankings.
type LeaderboardHandler struct {
	service leaderboardService
}

// NewLeaderboardHandler constructs the handler.
func NewLeaderboardHandler(svc leaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: svc}
}

// Clubs godoc
// @Summary Club leaderboard
// @Description Clubs ranked by total points, optionally within one category
// @Tags Leaderboards
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} response.Envelope
// @Router /leaderboards/clubs [get]
func (h *LeaderboardHandler) Clubs(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	board, cacheHit, err := h.service.Clubs(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, board, cacheHit, start)
}

// Students godoc
// @Summary Student leaderboard
// @Tags Leaderboards
// @Produce json
// @Param limit query int false "Maximum entries (default 100)"
// @Success 200 {object} response.Envelope
// @Router /leaderboards/students [get]
func (h *LeaderboardHandler) Students(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	board, cacheHit, err := h.service.Students(c.Request.Context(), queryInt(c, "limit", 100))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, board, cacheHit, start)
}

// ExportClubs godoc
// @Summary Export club leaderboard
// @Tags Leaderboards
// @Produce text/csv
// @Produce application/pdf
// @Param category query string false "Category filter"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /leaderboards/clubs/export [get]
func (h *LeaderboardHandler) ExportClubs(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	file, err := h.service.ExportClubs(c.Request.Context(), c.Query("category"), c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func respondWithMeta(c *gin.Context, data interface{}, cacheHit bool, start time.Time) {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, nil, meta)
}
