package domain

// LoginResponse tells the browser where to sign in
type LoginResponse struct {
	URL   string `json:"url"   example:"https://keycloak.example.org/realms/dcb/protocol/openid-connect/auth?..."`
	State string `json:"state" example:"0192b6c3-5f1e-7c11-9d55-3f1e7c119d55"`
}

// CallbackResponse is returned after a successful code exchange
type CallbackResponse struct {
	Me       Me     `json:"me"`
	ReturnTo string `json:"return_to,omitempty"`
}

// Me describes the signed-in user
type Me struct {
	SessionID string   `json:"session_id"`
	Subject   string   `json:"subject"`
	Username  string   `json:"username"`
	Name      string   `json:"name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Roles     []string `json:"roles"`
	ExpiresAt string   `json:"expires_at" example:"2026-10-15T13:05:00Z"`
}

// LogoutResponse carries the provider logout URL the browser should visit next
type LogoutResponse struct {
	URL string `json:"url"`
}
