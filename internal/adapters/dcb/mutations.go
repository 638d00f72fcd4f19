package dcb

import (
	"context"
)

// AgencyGroupInput creates an agency group
type AgencyGroupInput struct {
	Code string `json:"code" validate:"required,max=32"`
	Name string `json:"name" validate:"required,max=200"`
}

// AgencyGroupMemberInput adds an agency to a group, both by code
type AgencyGroupMemberInput struct {
	Group  string `json:"group" validate:"required"`
	Agency string `json:"agency" validate:"required"`
}

// LibraryContactInput creates a contact on a library
type LibraryContactInput struct {
	LibraryID        string `json:"libraryId" validate:"required,uuid"`
	FirstName        string `json:"firstName" validate:"required"`
	LastName         string `json:"lastName" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Role             string `json:"role" validate:"required"`
	IsPrimaryContact bool   `json:"isPrimaryContact"`
	Reason           string `json:"reason,omitempty"`
}

// ParticipationInput changes whether an agency supplies or borrows
type ParticipationInput struct {
	Code               string `json:"code" validate:"required"`
	IsSupplyingAgency  *bool  `json:"isSupplyingAgency,omitempty" validate:"required_without=IsBorrowingAgency"`
	IsBorrowingAgency  *bool  `json:"isBorrowingAgency,omitempty" validate:"required_without=IsSupplyingAgency"`
	Reason             string `json:"reason" validate:"required"`
	ChangeCategory     string `json:"changeCategory,omitempty"`
	ChangeReferenceURL string `json:"changeReferenceUrl,omitempty" validate:"omitempty,url"`
}

const (
	createAgencyGroupDoc = `mutation CreateAgencyGroup($input: AgencyGroupInput!) {
  createAgencyGroup(input: $input) { id code name }
}`
	addAgencyToGroupDoc = `mutation AddAgencyToGroup($input: AddAgencyToGroupCommand!) {
  addAgencyToGroup(input: $input) { id agency { id code name } }
}`
	createLibraryContactDoc = `mutation CreateLibraryContact($input: CreateLibraryContactInput!) {
  createLibraryContact(input: $input) { id firstName lastName email role isPrimaryContact }
}`
	updateParticipationDoc = `mutation UpdateAgencyParticipationStatus($input: UpdateAgencyParticipationInput!) {
  updateAgencyParticipationStatus(input: $input) { id code name isSupplyingAgency isBorrowingAgency }
}`
)

type input[T any] struct {
	Input T `json:"input"`
}

// CreateAgencyGroup creates a group and returns it
func (c *Client) CreateAgencyGroup(ctx context.Context, tokens TokenSource, in AgencyGroupInput) (AgencyGroup, error) {
	var out struct {
		CreateAgencyGroup AgencyGroup `json:"createAgencyGroup"`
	}
	err := c.GraphQL(ctx, tokens, createAgencyGroupDoc, input[AgencyGroupInput]{in}, &out)
	return out.CreateAgencyGroup, err
}

// AddAgencyToGroup adds an agency to a group and returns the membership
func (c *Client) AddAgencyToGroup(ctx context.Context, tokens TokenSource, in AgencyGroupMemberInput) (AgencyGroupMember, error) {
	var out struct {
		AddAgencyToGroup AgencyGroupMember `json:"addAgencyToGroup"`
	}
	err := c.GraphQL(ctx, tokens, addAgencyToGroupDoc, input[AgencyGroupMemberInput]{in}, &out)
	return out.AddAgencyToGroup, err
}

// CreateLibraryContact adds a contact to a library
func (c *Client) CreateLibraryContact(ctx context.Context, tokens TokenSource, in LibraryContactInput) (Person, error) {
	var out struct {
		CreateLibraryContact Person `json:"createLibraryContact"`
	}
	err := c.GraphQL(ctx, tokens, createLibraryContactDoc, input[LibraryContactInput]{in}, &out)
	return out.CreateLibraryContact, err
}

// UpdateAgencyParticipationStatus flips supplying or borrowing for an agency
func (c *Client) UpdateAgencyParticipationStatus(ctx context.Context, tokens TokenSource, in ParticipationInput) (Agency, error) {
	var out struct {
		UpdateAgencyParticipationStatus Agency `json:"updateAgencyParticipationStatus"`
	}
	err := c.GraphQL(ctx, tokens, updateParticipationDoc, input[ParticipationInput]{in}, &out)
	return out.UpdateAgencyParticipationStatus, err
}
