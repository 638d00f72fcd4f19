// Package service runs the admin forms against DCB
package service

import (
	"context"
	"strings"

	"dcbadmin/internal/adapters/dcb"
	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/logger"
	pnet "dcbadmin/internal/platform/net"
	"dcbadmin/internal/platform/store"
	"dcbadmin/internal/services/api/admin/domain"
	gridsvc "dcbadmin/internal/services/api/grid/service"
)

// Service defines the service contract for admin forms
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	dcb   domain.Mutations
	cache store.Cache
	log   logger.Logger
}

// New creates an admin service
func New(m domain.Mutations, cache store.Cache) *Svc {
	if m == nil {
		panic("admin.Service requires non nil Mutations")
	}
	if cache == nil {
		panic("admin.Service requires a non nil Cache")
	}
	return &Svc{dcb: m, cache: cache, log: *logger.Named("admin")}
}

// stale drops the session's cached grid pages a change made out of date
func (s *Svc) stale(ctx context.Context, sessionID string, kinds ...string) {
	keys := make([]string, 0, len(kinds))
	for _, k := range kinds {
		keys = append(keys, gridsvc.PageKey(sessionID, k))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		logger.C(ctx).Warn().Err(err).Strs("kinds", kinds).Msg("cached grid pages not dropped")
	}
}

func (s *Svc) audit(ctx context.Context, action, target string) {
	s.log.Info().
		Str("action", action).
		Str("target", target).
		Str("subject", pnet.UserID(ctx)).
		Str("request_id", pnet.RequestID(ctx)).
		Msg("admin change")
}

// CreateGroup creates an agency group
func (s *Svc) CreateGroup(ctx context.Context, sessionID string, tokens dcb.TokenSource, in dcb.AgencyGroupInput) (dcb.AgencyGroup, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	g, err := s.dcb.CreateAgencyGroup(ctx, tokens, in)
	if err != nil {
		return dcb.AgencyGroup{}, err
	}
	s.audit(ctx, "createAgencyGroup", g.Code)
	s.stale(ctx, sessionID, "agencyGroups")
	return g, nil
}

// AddMember adds an agency to the group identified by its code
func (s *Svc) AddMember(ctx context.Context, sessionID string, tokens dcb.TokenSource, group string, in domain.MemberInput) (dcb.AgencyGroupMember, error) {
	group = strings.TrimSpace(group)
	if group == "" {
		return dcb.AgencyGroupMember{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "group is a required field"), "group")
	}
	m, err := s.dcb.AddAgencyToGroup(ctx, tokens, dcb.AgencyGroupMemberInput{Group: group, Agency: strings.TrimSpace(in.Agency)})
	if err != nil {
		return dcb.AgencyGroupMember{}, err
	}
	s.audit(ctx, "addAgencyToGroup", group+"/"+in.Agency)
	s.stale(ctx, sessionID, "agencyGroups", "agencies")
	return m, nil
}

// CreateContact adds a contact to a library
func (s *Svc) CreateContact(ctx context.Context, sessionID string, tokens dcb.TokenSource, in dcb.LibraryContactInput) (dcb.Person, error) {
	in.Email = strings.TrimSpace(in.Email)
	p, err := s.dcb.CreateLibraryContact(ctx, tokens, in)
	if err != nil {
		return dcb.Person{}, err
	}
	s.audit(ctx, "createLibraryContact", in.LibraryID)
	s.stale(ctx, sessionID, "contacts", "libraries")
	return p, nil
}

// UpdateParticipation changes whether an agency supplies or borrows
func (s *Svc) UpdateParticipation(ctx context.Context, sessionID string, tokens dcb.TokenSource, in dcb.ParticipationInput) (dcb.Agency, error) {
	if in.IsSupplyingAgency == nil && in.IsBorrowingAgency == nil {
		return dcb.Agency{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "isSupplyingAgency or isBorrowingAgency is required"), "isSupplyingAgency")
	}
	a, err := s.dcb.UpdateAgencyParticipationStatus(ctx, tokens, in)
	if err != nil {
		return dcb.Agency{}, err
	}
	s.audit(ctx, "updateAgencyParticipationStatus", in.Code)
	s.stale(ctx, sessionID, "agencies")
	return a, nil
}
