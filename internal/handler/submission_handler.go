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

type submissionService interface {
	CreateSubmission(ctx context.Context, actor *models.Session, req dto.CreateSubmissionRequest) (*models.Submission, error)
	VisibleSubmissions(ctx context.Context, actor *models.Session) ([]models.Submission, error)
	PendingSubmissions(ctx context.Context, actor *models.Session) ([]models.Submission, error)
	SupportApproveSubmission(ctx context.Context, actor *models.Session, id string) (*models.Submission, error)
	ApproveSubmission(ctx context.Context, actor *models.Session, id string) (*models.Submission, error)
}

// SubmissionHandler wires the workflow service's submission operations to
// HTTP endpoints.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// List godoc
// @Summary List submissions visible to the actor
// @Tags Submissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	submissions, err := h.service.VisibleSubmissions(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions)
}

// Create godoc
// @Summary Submit a new poster or video item
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubmissionRequest true "Submission"
// @Success 201 {object} response.Envelope
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid submission payload"))
		return
	}

	submission, err := h.service.CreateSubmission(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}

// Pending godoc
// @Summary List the pending approval queue
// @Tags Submissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /submissions/pending [get]
func (h *SubmissionHandler) Pending(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	pending, err := h.service.PendingSubmissions(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pending)
}

// Support godoc
// @Summary Add a support approval to a submission
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Router /submissions/{id}/support [post]
func (h *SubmissionHandler) Support(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	submission, err := h.service.SupportApproveSubmission(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission)
}

// Approve godoc
// @Summary Final-approve a submission
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Router /submissions/{id}/approve [post]
func (h *SubmissionHandler) Approve(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	submission, err := h.service.ApproveSubmission(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission)
}
