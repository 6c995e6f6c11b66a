package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/amirhzq/unit-media-api/internal/models"
	"github.com/amirhzq/unit-media-api/internal/store"
	"github.com/amirhzq/unit-media-api/pkg/config"
	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
)

// DefaultUsers returns the static credential table. The table is fixed for
// the lifetime of the process; comparison is plaintext by contract.
func DefaultUsers() map[string]models.User {
	users := []models.User{
		{Username: "admin", Password: "admin123", FullName: "Ahmad Ketua", Role: models.RoleKetuaMedia, RoleName: "Ketua Media", ProfilePic: "assets/profile/admin.png"},
		{Username: "user1", Password: "password123", FullName: "Siti Member", Role: models.RoleMember, RoleName: "Member", ProfilePic: "assets/profile/user1.png"},
		{Username: "user2", Password: "password123", FullName: "Budi Setiausaha", Role: models.RoleSetiausaha, RoleName: "Setiausaha", ProfilePic: "assets/profile/user2.png"},
		{Username: "user3", Password: "password123", FullName: "Maya JQC", Role: models.RoleJQC, RoleName: "JQC", ProfilePic: "assets/profile/user3.png"},
		{Username: "user4", Password: "password123", FullName: "Rudi Video", Role: models.RoleKetuaVideo, RoleName: "Ketua Unit Video", ProfilePic: "assets/profile/user4.png"},
		{Username: "user5", Password: "password123", FullName: "Linda Poster", Role: models.RoleKetuaPoster, RoleName: "Ketua Unit Poster", ProfilePic: "assets/profile/user5.png"},
	}
	table := make(map[string]models.User, len(users))
	for _, u := range users {
		table[u.Username] = u
	}
	return table
}

// IdentityService is the single source of truth for who is acting and what
// they may do. Sessions are persisted through the key-value store so a
// restarted client can resume.
type IdentityService struct {
	users  map[string]models.User
	store  store.Store
	logger *zap.Logger
	config config.JWTConfig
	now    func() time.Time
}

// NewIdentityService constructs an IdentityService over the static user table.
func NewIdentityService(st store.Store, logger *zap.Logger, cfg config.JWTConfig) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{
		users:  DefaultUsers(),
		store:  st,
		logger: logger,
		config: cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Authenticate verifies credentials against the static table, persists the
// resulting session and issues an access token.
func (s *IdentityService) Authenticate(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, appErrors.ErrMissingInput
	}

	user, ok := s.users[username]
	if !ok || user.Password != req.Password {
		return nil, appErrors.ErrInvalidCredentials
	}

	info := user.Info()
	if err := s.store.Set(ctx, store.KeyCurrentUser, info); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	if err := s.store.Set(ctx, store.KeyIsLoggedIn, "true"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	token, issuedAt, err := s.generateAccessToken(info)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("user logged in",
		zap.String("username", info.Username),
		zap.String("role", string(info.Role)),
	)

	return &models.LoginResponse{
		AccessToken:  token,
		ExpiresIn:    int64(s.config.Expiration.Seconds()),
		User:         info,
		Capabilities: models.Capabilities(info.Role),
		IssuedAt:     issuedAt,
	}, nil
}

// RestoreSession rehydrates the persisted session, if any. Callers that
// require an authenticated context receive ErrUnauthenticated when none
// exists.
func (s *IdentityService) RestoreSession(ctx context.Context) (*models.Session, error) {
	var info models.UserInfo
	if err := s.store.Get(ctx, store.KeyCurrentUser, &info); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrKeyNotFound.Code {
			return nil, appErrors.ErrUnauthenticated
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore session")
	}
	var flag string
	if err := s.store.Get(ctx, store.KeyIsLoggedIn, &flag); err != nil || flag != "true" {
		return nil, appErrors.ErrUnauthenticated
	}
	return &models.Session{CurrentUser: &info}, nil
}

// EndSession clears the persisted session. Capability checks against the
// cleared session fail closed.
func (s *IdentityService) EndSession(ctx context.Context) error {
	if err := s.store.Delete(ctx, store.KeyCurrentUser); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	if err := s.store.Delete(ctx, store.KeyIsLoggedIn); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *IdentityService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthenticated.Code, appErrors.ErrUnauthenticated.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid token claims")
	}

	return claims, nil
}

func (s *IdentityService) generateAccessToken(info models.UserInfo) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.config.Expiration)
	claims := &models.JWTClaims{
		Username:   info.Username,
		Role:       info.Role,
		RoleName:   info.RoleName,
		FullName:   info.FullName,
		ProfilePic: info.ProfilePic,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   info.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
