package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhzq/unit-media-api/internal/models"
	"github.com/amirhzq/unit-media-api/internal/service"
	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
	"github.com/amirhzq/unit-media-api/pkg/response"
)

type identityService interface {
	Authenticate(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	RestoreSession(ctx context.Context) (*models.Session, error)
	EndSession(ctx context.Context) error
}

type sampleSeeder interface {
	EnsureSampleData(ctx context.Context, actor *models.Session) error
}

// AuthHandler wires the identity service to HTTP endpoints.
type AuthHandler struct {
	identity identityService
	seeder   sampleSeeder
	metrics  *service.MetricsService
}

// NewAuthHandler constructs the handler. The seeder may be nil when sample
// data is disabled.
func NewAuthHandler(identity identityService, seeder sampleSeeder, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{identity: identity, seeder: seeder, metrics: metrics}
}

// Login godoc
// @Summary Authenticate against the static user table
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid login payload"))
		return
	}

	resp, err := h.identity.Authenticate(c.Request.Context(), req)
	if err != nil {
		h.metrics.RecordLogin(false)
		response.Error(c, err)
		return
	}
	h.metrics.RecordLogin(true)

	if h.seeder != nil {
		actor := &models.Session{CurrentUser: &resp.User}
		if err := h.seeder.EnsureSampleData(c.Request.Context(), actor); err != nil {
			// Seeding is best-effort demo data; a failure must not block login.
			response.JSON(c, http.StatusOK, resp)
			return
		}
	}

	response.JSON(c, http.StatusOK, resp)
}

// Logout godoc
// @Summary End the persisted session
// @Tags Auth
// @Produce json
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.identity.EndSession(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Session godoc
// @Summary Restore the persisted session
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	session, err := h.identity.RestoreSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	data := gin.H{
		"current_user": session.CurrentUser,
		"is_logged_in": session.LoggedIn(),
	}
	if session.LoggedIn() {
		data["capabilities"] = models.Capabilities(session.CurrentUser.Role)
	}
	response.JSON(c, http.StatusOK, data)
}
