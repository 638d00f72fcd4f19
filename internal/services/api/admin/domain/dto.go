// Package domain holds DTOs for admin http and service contracts
package domain

// MemberInput names the agency to add to the group in the path
type MemberInput struct {
	Agency string `json:"agency" validate:"required,max=64,code" example:"AG01"`
}
