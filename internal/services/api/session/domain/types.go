// Package domain holds the session model, DTOs and ports
package domain

import "time"

// Session is a signed-in dashboard user as stored server side
// tokens never leave the server; the browser only holds the session id
type Session struct {
	ID           string
	Subject      string
	Username     string
	Name         string
	Email        string
	Roles        []string
	AccessToken  string
	RefreshToken string
	IDToken      string
	AccessExpiry time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Tokens is the rotating part of a session
type Tokens struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	AccessExpiry time.Time
}

// LoginState is what the login redirect leaves in the cache until the callback consumes it
type LoginState struct {
	Nonce    string `json:"nonce"`
	ReturnTo string `json:"return_to,omitempty"`
}
