package domain

// Session is the cached proof of authentication plus a minimal profile
// cache. Token and UserID are written together or not at all; Role and
// Name are best-effort and may be stale or missing.
type Session struct {
	Token  string `json:"token,omitempty"`
	UserID int64  `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Authenticated reports whether the session carries usable credentials.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.UserID != 0
}

// AdminCached reports whether the cached profile already marks the
// session as admin, allowing the gate to skip the verifying call.
func (s Session) AdminCached() bool {
	return s.Role == "admin" || s.Name == "Admin"
}
