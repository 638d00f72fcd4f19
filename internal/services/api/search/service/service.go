// Package service contains search workflows: the criteria codec exposed over HTTP and the
// discovery search itself
package service

import (
	"context"
	"net/url"
	"strings"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/core/gridfilter"
	"dcbadmin/internal/core/normalize"
	"dcbadmin/internal/core/search"
	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/logger"
	"dcbadmin/internal/services/api/search/domain"
)

// DefaultLimit is the page size used when a results request names none
const DefaultLimit = 10

// Service defines the service contract for search
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	instances domain.Instances
	publicURL string
	log       logger.Logger
}

// New creates a search service; publicURL is the dashboard origin used for shareable links
func New(instances domain.Instances, publicURL string) *Svc {
	if instances == nil {
		panic("search.Service requires a non nil Instances")
	}
	return &Svc{
		instances: instances,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       *logger.Named("search"),
	}
}

// encode cleans values, normalises and validates criteria before serialising them
func encode(c search.Criteria) (search.Criteria, string, error) {
	c = search.Normalize(append(search.Criteria(nil), c...))
	for i := range c {
		c[i].Value = normalize.Value(c[i].Value)
	}
	if err := search.Validate(c); err != nil {
		return nil, "", err
	}
	return c, search.BuildQuery(c), nil
}

// ShareURL builds the link that reopens a search in the dashboard
func (s *Svc) ShareURL(q string) string {
	if s.publicURL == "" || q == "" {
		return ""
	}
	return s.publicURL + "/search?" + url.Values{"q": {q}}.Encode()
}

// Encode serialises criteria into q and a shareable URL
func (s *Svc) Encode(_ context.Context, in domain.EncodeInput) (domain.EncodeResponse, error) {
	_, q, err := encode(in.Criteria)
	if err != nil {
		return domain.EncodeResponse{}, err
	}
	return domain.EncodeResponse{Q: q, URL: s.ShareURL(q)}, nil
}

// Decode parses q back into criteria; unparseable groups are reported, not fatal
func (s *Svc) Decode(ctx context.Context, q string) (search.Parsed, error) {
	p := search.ParseQuery(q)
	if len(p.Dropped) > 0 {
		logger.C(ctx).Debug().Strs("dropped", p.Dropped).Msg("query groups without a known field")
	}
	return p, nil
}

// SelectField applies the field change rules of the search builder
func (s *Svc) SelectField(_ context.Context, in domain.SelectFieldInput) (domain.CriteriaResponse, error) {
	c, err := search.SelectField(in.Criteria, in.ID, in.Field)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.CriteriaResponse{}, perr.WithField(err, "id")
		}
		return domain.CriteriaResponse{}, perr.WithField(err, "field")
	}
	c, q, err := encode(c)
	if err != nil {
		return domain.CriteriaResponse{}, err
	}
	return domain.CriteriaResponse{Criteria: c, Q: q}, nil
}

// GridFilter maps criteria to the grid filter model
func (s *Svc) GridFilter(_ context.Context, in domain.GridFilterInput) (gridfilter.Model, error) {
	return gridfilter.FromCriteria(in.Criteria), nil
}

// FromGridFilter maps a grid filter model back to criteria
func (s *Svc) FromGridFilter(_ context.Context, in domain.FromGridFilterInput) (domain.CriteriaResponse, error) {
	c := gridfilter.ToCriteria(in.Model)
	return domain.CriteriaResponse{Criteria: c, Q: search.BuildQuery(c)}, nil
}

// Results runs the discovery search; q wins over criteria when both are sent
func (s *Svc) Results(ctx context.Context, tokens dcb.TokenSource, in domain.ResultsInput) (domain.ResultsResponse, error) {
	q := strings.TrimSpace(in.Q)
	if q == "" {
		var err error
		if _, q, err = encode(in.Criteria); err != nil {
			return domain.ResultsResponse{}, err
		}
	}
	if q == "" {
		return domain.ResultsResponse{}, perr.WithField(perr.InvalidArgf("a search needs at least one criterion with a value"), "criteria")
	}
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	res, err := s.instances.SearchInstances(ctx, tokens, q, in.Offset, limit)
	if err != nil {
		return domain.ResultsResponse{}, err
	}
	logger.C(ctx).Debug().Str("q", q).Int("total", res.TotalRecords).Msg("instance search")
	return domain.ResultsResponse{Q: q, InstanceResults: res}, nil
}
