package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/club-hub-api/internal/models"
	"github.com/noah-isme/club-hub-api/internal/service"
	appErrors "github.com/noah-isme/club-hub-api/pkg/errors"
	"github.com/noah-isme/club-hub-api/pkg/response"
)

type clubService interface {
	List(ctx context.Context, filter models.ClubFilter) ([]models.Club, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.ClubDetail, error)
	Create(ctx context.Context, req service.CreateClubRequest) (*models.Club, error)
	Update(ctx context.Context, id int64, req service.UpdateClubRequest) (*models.Club, error)
	Delete(ctx context.Context, id int64) error
}

// ClubHandler handles club endpoints.
type ClubHandler struct {
	service clubService
}

// NewClubHandler creates a new club handler.
func NewClubHandler(svc clubService) *ClubHandler {
	return &ClubHandler{service: svc}
}

// List godoc
// @Summary List clubs
// @Description List clubs with pagination and filtering
// @Tags Clubs
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param category query string false "Category filter"
// @Param search query string false "Search term"
// @Param sort_by query string false "Sort by"
// @Param sort_order query string false "Sort order"
// @Success 200 {object} response.Envelope
// @Router /clubs [get]
func (h *ClubHandler) List(c *gin.Context) {
	filter := models.ClubFilter{
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	clubs, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clubs, pagination)
}

// Get godoc
// @Summary Get club
// @Description Get club detail with its members
// @Tags Clubs
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/{id} [get]
func (h *ClubHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	club, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, club, nil)
}

// Create godoc
// @Summary Create club
// @Tags Clubs
// @Accept json
// @Produce json
// @Param payload body service.CreateClubRequest true "Club payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /clubs [post]
func (h *ClubHandler) Create(c *gin.Context) {
	var req service.CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	club, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, club)
}

// Update godoc
// @Summary Update club
// @Tags Clubs
// @Accept json
// @Produce json
// @Param id path int true "Club ID"
// @Param payload body service.UpdateClubRequest true "Club payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/{id} [put]
func (h *ClubHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	club, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, club, nil)
}

// Delete godoc
// @Summary Delete club
// @Description Delete a club without members
// @Tags Clubs
// @Param id path int true "Club ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /clubs/{id} [delete]
func (h *ClubHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
