package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhzq/unit-media-api/internal/models"
	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
)

type fakeIdentitySrv struct {
	loginResp  *models.LoginResponse
	loginErr   error
	session    *models.Session
	sessionErr error
	endErr     error
	ended      bool
}

func (f *fakeIdentitySrv) Authenticate(context.Context, models.LoginRequest) (*models.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeIdentitySrv) RestoreSession(context.Context) (*models.Session, error) {
	return f.session, f.sessionErr
}

func (f *fakeIdentitySrv) EndSession(context.Context) error {
	f.ended = true
	return f.endErr
}

type fakeSeeder struct {
	called bool
	actor  *models.Session
	err    error
}

func (f *fakeSeeder) EnsureSampleData(_ context.Context, actor *models.Session) error {
	f.called = true
	f.actor = actor
	return f.err
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

func TestAuthHandlerLoginSuccessTriggersSeeding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	seeder := &fakeSeeder{}
	h := NewAuthHandler(&fakeIdentitySrv{loginResp: &models.LoginResponse{
		AccessToken: "token",
		User:        models.UserInfo{Username: "admin", Role: models.RoleKetuaMedia},
	}}, seeder, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin","password":"admin123"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, seeder.called)
	require.NotNil(t, seeder.actor)
	assert.Equal(t, "admin", seeder.actor.CurrentUser.Username)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "token", envelope.Data["access_token"])
}

func TestAuthHandlerLoginInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeIdentitySrv{}, nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerLoginBadCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	seeder := &fakeSeeder{}
	h := NewAuthHandler(&fakeIdentitySrv{loginErr: appErrors.ErrInvalidCredentials}, seeder, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin","password":"wrong"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, seeder.called)
}

func TestAuthHandlerLoginSeedFailureDoesNotBlock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	seeder := &fakeSeeder{err: appErrors.ErrInternal}
	h := NewAuthHandler(&fakeIdentitySrv{loginResp: &models.LoginResponse{
		User: models.UserInfo{Username: "admin", Role: models.RoleKetuaMedia},
	}}, seeder, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin","password":"admin123"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandlerLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	identity := &fakeIdentitySrv{}
	h := NewAuthHandler(identity, nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)

	h.Logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, identity.ended)
}

func TestAuthHandlerSessionRestored(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeIdentitySrv{session: &models.Session{
		CurrentUser: &models.UserInfo{Username: "user2", Role: models.RoleSetiausaha},
	}}, nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/session", nil)

	h.Session(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Data["is_logged_in"])
	assert.NotEmpty(t, envelope.Data["capabilities"])
}

func TestAuthHandlerSessionMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeIdentitySrv{sessionErr: appErrors.ErrUnauthenticated}, nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/session", nil)

	h.Session(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
