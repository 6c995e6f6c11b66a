package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/amirhzq/unit-media-api/internal/models"
)

func newCapabilityRouter(cap models.Capability, claims *models.JWTClaims) *gin.Engine {
	router := gin.New()
	if claims != nil {
		router.Use(func(c *gin.Context) {
			c.Set(ContextUserKey, claims)
		})
	}
	router.POST("/guarded", RequireCapability(cap), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequireCapabilityAllows(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newCapabilityRouter(models.CapApproveSubmission, &models.JWTClaims{
		Username: "admin", Role: models.RoleKetuaMedia,
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/guarded", nil))

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequireCapabilityForbidsWrongRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newCapabilityRouter(models.CapApproveSubmission, &models.JWTClaims{
		Username: "user2", Role: models.RoleSetiausaha,
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/guarded", nil))

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequireCapabilityRejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newCapabilityRouter(models.CapApproveSubmission, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/guarded", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}
