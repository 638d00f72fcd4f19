// Package domain holds DTOs for search http and service contracts
package domain

import (
	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/core/gridfilter"
	"dcbadmin/internal/core/search"
)

// EncodeInput is a criteria list to serialise
type EncodeInput struct {
	Criteria search.Criteria `json:"criteria"`
}

// EncodeResponse carries the query string and a link that reopens the search
type EncodeResponse struct {
	Q   string `json:"q" example:"(@title \"moby dick\") AND (language:English)"`
	URL string `json:"url,omitempty" example:"https://admin.example.org/search?q=..."`
}

// SelectFieldInput changes the field of one criterion
type SelectFieldInput struct {
	Criteria search.Criteria `json:"criteria"`
	ID       string          `json:"id" validate:"required" example:"0192f7a4-0000-7000-8000-000000000001"`
	Field    search.Field    `json:"field" example:"clusterRecordId"`
}

// GridFilterInput maps criteria onto a grid filter model
type GridFilterInput struct {
	Criteria search.Criteria `json:"criteria"`
}

// FromGridFilterInput maps a grid filter model back onto criteria
type FromGridFilterInput struct {
	Model gridfilter.Model `json:"model"`
}

// CriteriaResponse wraps an edited criteria list with its encoded form
type CriteriaResponse struct {
	Criteria search.Criteria `json:"criteria"`
	Q        string          `json:"q"`
}

// ResultsInput runs a search
type ResultsInput struct {
	Criteria search.Criteria `json:"criteria"`
	Q        string          `json:"q,omitempty" validate:"omitempty,max=2000"`
	Offset   int             `json:"offset,omitempty" validate:"omitempty,min=0" example:"0"`
	Limit    int             `json:"limit,omitempty" validate:"omitempty,min=1,max=100" example:"10"`
}

// ResultsResponse is one page of search hits plus the query that produced it
type ResultsResponse struct {
	Q string `json:"q"`
	dcb.InstanceResults
}
