package domain

// User is the backend profile record. Role is best-effort: older
// accounts may carry no role at all.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// IsAdmin reports whether the profile is admin-equivalent. Legacy admin
// accounts predate the role field and are recognised by name.
func (u User) IsAdmin() bool {
	return u.Role == "admin" || u.Name == "Admin"
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the backend's login/register reply.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}
