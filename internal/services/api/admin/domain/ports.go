package domain

import (
	"context"

	"dcbadmin/internal/adapters/dcb"
)

// Mutations are the DCB writes behind the admin forms
type Mutations interface {
	CreateAgencyGroup(ctx context.Context, tokens dcb.TokenSource, in dcb.AgencyGroupInput) (dcb.AgencyGroup, error)
	AddAgencyToGroup(ctx context.Context, tokens dcb.TokenSource, in dcb.AgencyGroupMemberInput) (dcb.AgencyGroupMember, error)
	CreateLibraryContact(ctx context.Context, tokens dcb.TokenSource, in dcb.LibraryContactInput) (dcb.Person, error)
	UpdateAgencyParticipationStatus(ctx context.Context, tokens dcb.TokenSource, in dcb.ParticipationInput) (dcb.Agency, error)
}

// ServicePort defines the service contract for admin forms
type ServicePort interface {
	CreateGroup(ctx context.Context, sessionID string, tokens dcb.TokenSource, in dcb.AgencyGroupInput) (dcb.AgencyGroup, error)
	AddMember(ctx context.Context, sessionID string, tokens dcb.TokenSource, group string, in MemberInput) (dcb.AgencyGroupMember, error)
	CreateContact(ctx context.Context, sessionID string, tokens dcb.TokenSource, in dcb.LibraryContactInput) (dcb.Person, error)
	UpdateParticipation(ctx context.Context, sessionID string, tokens dcb.TokenSource, in dcb.ParticipationInput) (dcb.Agency, error)
}
