package models

// Session is the authenticated context for one identity. A nil session or a
// session without a current user holds no capabilities.
type Session struct {
	CurrentUser *UserInfo `json:"current_user,omitempty"`
}

// LoggedIn reports whether the session carries an authenticated user.
func (s *Session) LoggedIn() bool {
	return s != nil && s.CurrentUser != nil
}

// Can reports whether the session's user holds the capability. It fails
// closed: a missing or logged-out session grants nothing.
func (s *Session) Can(cap Capability) bool {
	if !s.LoggedIn() {
		return false
	}
	return HasCapability(s.CurrentUser.Role, cap)
}
