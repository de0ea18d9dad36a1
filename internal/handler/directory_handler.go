package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/club-hub-api/internal/models"
	"github.com/noah-isme/club-hub-api/pkg/response"
)

type directoryService interface {
	Memberships(ctx context.Context, filter models.MembershipFilter) ([]models.Membership, *models.Pagination, error)
	Badges(ctx context.Context, badgeType string) ([]models.Badge, error)
	UserBadges(ctx context.Context, userID int64) ([]models.UserBadge, error)
}

// DirectoryHandler serves membership and badge listings.
type DirectoryHandler struct {
	service directoryService
}

// NewDirectoryHandler creates the handler.
func NewDirectoryHandler(svc directoryService) *DirectoryHandler {
	return &DirectoryHandler{service: svc}
}

// Memberships godoc
// @Summary List club memberships
// @Tags Memberships
// @Produce json
// @Param user_id query int false "User filter"
// @Param club_id query int false "Club filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /club-members [get]
func (h *DirectoryHandler) Memberships(c *gin.Context) {
	userID, err := queryID(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	clubID, err := queryID(c, "club_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.MembershipFilter{
		UserID:   userID,
		ClubID:   clubID,
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 100),
	}
	memberships, pagination, err := h.service.Memberships(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memberships, pagination)
}

// Badges godoc
// @Summary List badge definitions
// @Tags Badges
// @Produce json
// @Param type query string false "club or student"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /badges [get]
func (h *DirectoryHandler) Badges(c *gin.Context) {
	badges, err := h.service.Badges(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, badges, nil)
}

// UserBadges godoc
// @Summary List awarded badges
// @Tags Badges
// @Produce json
// @Param user_id query int false "User filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /user-badges [get]
func (h *DirectoryHandler) UserBadges(c *gin.Context) {
	userID, err := queryID(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	awards, err := h.service.UserBadges(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, awards, nil)
}
