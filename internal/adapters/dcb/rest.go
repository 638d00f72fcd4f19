package dcb

import (
	"context"
	"net/url"
	"strconv"

	perr "dcbadmin/internal/platform/errors"
)

// ServiceInfo is the build and git metadata the service publishes at /info
type ServiceInfo struct {
	Git struct {
		Branch string `json:"branch"`
		Commit struct {
			ID   string `json:"id"`
			Time string `json:"time"`
		} `json:"commit"`
	} `json:"git"`
	Build struct {
		Artifact string `json:"artifact"`
		Name     string `json:"name"`
		Version  string `json:"version"`
		Time     string `json:"time"`
	} `json:"build"`
}

// BibCount is the number of source bibs harvested from one host system
type BibCount struct {
	SourceSystemID   string `json:"sourceSystemId"`
	SourceSystemName string `json:"sourceSystemName"`
	BibCount         int64  `json:"bibCount"`
}

// ErrorCount is one row of an error overview report
type ErrorCount struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
	Count   int64  `json:"count"`
}

// Instance is one search hit
type Instance struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Contributors  []string `json:"contributors,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	Languages     []string `json:"languages,omitempty"`
	Identifiers   []string `json:"identifiers,omitempty"`
	InstanceTypes []string `json:"instanceTypes,omitempty"`
}

// InstanceResults is one page of search hits
type InstanceResults struct {
	TotalRecords int        `json:"totalRecords"`
	Instances    []Instance `json:"instances"`
}

// ServiceInfo reads /info
func (c *Client) ServiceInfo(ctx context.Context, tokens TokenSource) (ServiceInfo, error) {
	var out ServiceInfo
	err := c.getJSON(ctx, tokens, "/info", &out)
	return out, err
}

// BibCountsByHostLms reads the per host system bib statistics
func (c *Client) BibCountsByHostLms(ctx context.Context, tokens TokenSource) ([]BibCount, error) {
	var out []BibCount
	if err := c.getJSON(ctx, tokens, "/admin/statistics/bibs", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []BibCount{}
	}
	return out, nil
}

// ErrorOverview reads a named error report
func (c *Client) ErrorOverview(ctx context.Context, tokens TokenSource, report string) ([]ErrorCount, error) {
	if report == "" {
		return nil, perr.InvalidArgf("report name is required")
	}
	var out []ErrorCount
	if err := c.getJSON(ctx, tokens, "/admin/reports/errors/"+url.PathEscape(report), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []ErrorCount{}
	}
	return out, nil
}

// SearchInstances runs a query string against the discovery index
func (c *Client) SearchInstances(ctx context.Context, tokens TokenSource, q string, offset, limit int) (InstanceResults, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	v := url.Values{}
	v.Set("q", q)
	v.Set("offset", strconv.Itoa(offset))
	v.Set("limit", strconv.Itoa(limit))
	var out InstanceResults
	if err := c.getJSON(ctx, tokens, "/search/instances?"+v.Encode(), &out); err != nil {
		return InstanceResults{}, err
	}
	if out.Instances == nil {
		out.Instances = []Instance{}
	}
	return out, nil
}
