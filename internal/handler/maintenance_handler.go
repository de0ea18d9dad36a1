package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/club-hub-api/internal/dto"
	"github.com/noah-isme/club-hub-api/internal/models"
	"github.com/noah-isme/club-hub-api/pkg/response"
)

type maintenanceService interface {
	EnqueueRecompute(ctx context.Context) (*dto.RecomputeJobResponse, error)
	Get(ctx context.Context, id string) (*models.MaintenanceJob, error)
}

// MaintenanceHandler exposes background recompute jobs.
type MaintenanceHandler struct {
	service maintenanceService
}

// NewMaintenanceHandler constructs the handler.
func NewMaintenanceHandler(svc maintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: svc}
}

// Recompute godoc
// @Summary Recompute club totals and badges
// @Description Queues a recompute of club totals, club badges and student badges
// @Tags Maintenance
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /maintenance/recompute [post]
func (h *MaintenanceHandler) Recompute(c *gin.Context) {
	job, err := h.service.EnqueueRecompute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// Job godoc
// @Summary Maintenance job status
// @Tags Maintenance
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /maintenance/jobs/{id} [get]
func (h *MaintenanceHandler) Job(c *gin.Context) {
	job, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}
