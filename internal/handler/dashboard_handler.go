package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amirhzq/unit-media-api/internal/dto"
	"github.com/amirhzq/unit-media-api/internal/models"
	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
	"github.com/amirhzq/unit-media-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context, actor *models.Session) (*dto.DashboardStats, error)
	RecentActivity(ctx context.Context, actor *models.Session) ([]dto.ActivityItem, error)
	LeavesOn(ctx context.Context, actor *models.Session, date time.Time) ([]models.LeaveRequest, error)
}

// DashboardHandler serves the aggregate views: counters, the recent
// activity feed and the leave calendar.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats godoc
// @Summary Dashboard counters over the full submission set
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Activity godoc
// @Summary Recent submissions and leave requests, newest first
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/activity [get]
func (h *DashboardHandler) Activity(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	items, err := h.service.RecentActivity(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// CalendarLeaves godoc
// @Summary Approved leave requests covering a calendar day
// @Tags Dashboard
// @Produce json
// @Param date query string true "Day in YYYY-MM-DD form"
// @Success 200 {object} response.Envelope
// @Router /calendar/leaves [get]
func (h *DashboardHandler) CalendarLeaves(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	raw := c.Query("date")
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingInput, "date query parameter is required"))
		return
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be in YYYY-MM-DD form"))
		return
	}

	leaves, err := h.service.LeavesOn(c.Request.Context(), actor, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves)
}
