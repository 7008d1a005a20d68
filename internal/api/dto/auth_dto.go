package dto

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse standard response for a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  PrincipalView `json:"user"`
}

// PrincipalView is the public shape of the authenticated actor.
type PrincipalView struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	StaffProfileID *string `json:"staff_profile_id,omitempty"`
	ClientID       *string `json:"client_id,omitempty"`
}

// LogoutResponse carries the redirect signal after logout.
type LogoutResponse struct {
	Redirect string `json:"redirect"`
}
