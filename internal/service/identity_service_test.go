package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amirhzq/unit-media-api/internal/models"
	"github.com/amirhzq/unit-media-api/internal/store"
	"github.com/amirhzq/unit-media-api/pkg/config"
	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
)

func newIdentityService() (*IdentityService, store.Store) {
	st := store.NewMemoryStore()
	svc := NewIdentityService(st, zap.NewNop(), config.JWTConfig{
		Secret:     "test_secret",
		Expiration: time.Hour,
		Issuer:     "unit-media-api",
	})
	return svc, st
}

func TestAuthenticateSuccess(t *testing.T) {
	svc, st := newIdentityService()

	resp, err := svc.Authenticate(context.Background(), models.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, models.RoleKetuaMedia, resp.User.Role)
	assert.Equal(t, "Ahmad Ketua", resp.User.FullName)
	assert.Contains(t, resp.Capabilities, models.CapApproveSubmission)

	var info models.UserInfo
	require.NoError(t, st.Get(context.Background(), store.KeyCurrentUser, &info))
	assert.Equal(t, "admin", info.Username)

	var flag string
	require.NoError(t, st.Get(context.Background(), store.KeyIsLoggedIn, &flag))
	assert.Equal(t, "true", flag)
}

func TestAuthenticateTrimsUsername(t *testing.T) {
	svc, _ := newIdentityService()

	resp, err := svc.Authenticate(context.Background(), models.LoginRequest{Username: "  user1  ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "user1", resp.User.Username)
	assert.Equal(t, models.RoleMember, resp.User.Role)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, _ := newIdentityService()

	_, err := svc.Authenticate(context.Background(), models.LoginRequest{Username: "admin", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc, _ := newIdentityService()

	_, err := svc.Authenticate(context.Background(), models.LoginRequest{Username: "ghost", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthenticateMissingInput(t *testing.T) {
	svc, _ := newIdentityService()

	_, err := svc.Authenticate(context.Background(), models.LoginRequest{Username: "   ", Password: ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingInput.Code, appErrors.FromError(err).Code)
}

func TestRestoreSessionWithoutLogin(t *testing.T) {
	svc, _ := newIdentityService()

	_, err := svc.RestoreSession(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthenticated.Code, appErrors.FromError(err).Code)
}

func TestSessionLifecycle(t *testing.T) {
	svc, _ := newIdentityService()
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, models.LoginRequest{Username: "user3", Password: "password123"})
	require.NoError(t, err)

	session, err := svc.RestoreSession(ctx)
	require.NoError(t, err)
	assert.True(t, session.LoggedIn())
	assert.Equal(t, models.RoleJQC, session.CurrentUser.Role)

	require.NoError(t, svc.EndSession(ctx))

	_, err = svc.RestoreSession(ctx)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthenticated.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc, _ := newIdentityService()

	resp, err := svc.Authenticate(context.Background(), models.LoginRequest{Username: "user4", Password: "password123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user4", claims.Username)
	assert.Equal(t, models.RoleKetuaVideo, claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newIdentityService()

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthenticated.Code, appErrors.FromError(err).Code)
}
