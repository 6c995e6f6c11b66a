package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhzq/unit-media-api/internal/dto"
	"github.com/amirhzq/unit-media-api/internal/models"
	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
	"github.com/amirhzq/unit-media-api/pkg/response"
)

type leaveService interface {
	CreateLeave(ctx context.Context, actor *models.Session, req dto.CreateLeaveRequest) (*models.LeaveRequest, error)
	MyLeaves(ctx context.Context, actor *models.Session) ([]models.LeaveRequest, error)
	PendingLeaves(ctx context.Context, actor *models.Session) ([]models.LeaveRequest, error)
	SupportApproveLeave(ctx context.Context, actor *models.Session, id string) (*models.LeaveRequest, error)
	ApproveLeave(ctx context.Context, actor *models.Session, id string) (*models.LeaveRequest, error)
}

// LeaveHandler wires the workflow service's leave operations to HTTP
// endpoints.
type LeaveHandler struct {
	service leaveService
}

// NewLeaveHandler constructs the handler.
func NewLeaveHandler(service leaveService) *LeaveHandler {
	return &LeaveHandler{service: service}
}

// List godoc
// @Summary List the actor's own leave requests
// @Tags Leaves
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	leaves, err := h.service.MyLeaves(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves)
}

// Create godoc
// @Summary File a leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Param payload body dto.CreateLeaveRequest true "Leave request"
// @Success 201 {object} response.Envelope
// @Router /leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid leave payload"))
		return
	}

	leave, err := h.service.CreateLeave(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, leave)
}

// Pending godoc
// @Summary List the pending leave queue
// @Tags Leaves
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /leaves/pending [get]
func (h *LeaveHandler) Pending(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	pending, err := h.service.PendingLeaves(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pending)
}

// Support godoc
// @Summary Add a support approval to a leave request
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave ID"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id}/support [post]
func (h *LeaveHandler) Support(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	leave, err := h.service.SupportApproveLeave(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave)
}

// Approve godoc
// @Summary Approve a leave request
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave ID"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id}/approve [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	leave, err := h.service.ApproveLeave(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave)
}
