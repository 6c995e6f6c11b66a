package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserInfo     `json:"user"`
	Capabilities []Capability `json:"capabilities"`
	IssuedAt     time.Time    `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Username   string `json:"username"`
	Role       Role   `json:"role"`
	RoleName   string `json:"role_name"`
	FullName   string `json:"full_name"`
	ProfilePic string `json:"profile_pic"`
	jwt.RegisteredClaims
}

// Session builds the session value implied by a validated token.
func (c *JWTClaims) Session() *Session {
	if c == nil {
		return &Session{}
	}
	return &Session{CurrentUser: &UserInfo{
		Username:   c.Username,
		FullName:   c.FullName,
		Role:       c.Role,
		RoleName:   c.RoleName,
		ProfilePic: c.ProfilePic,
	}}
}
