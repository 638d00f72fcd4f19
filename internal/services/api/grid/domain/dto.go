// Package domain holds DTOs for grid http and service contracts
package domain

import (
	"time"

	"dcbadmin/internal/core/gridfilter"
	"dcbadmin/internal/core/gridquery"
)

// SortInput changes the grid sort; an empty field restores the kind's default
type SortInput struct {
	Field     string `json:"field" example:"name"`
	Direction string `json:"direction,omitempty" validate:"omitempty,oneof=asc desc ASC DESC" example:"asc"`
}

// PageInput moves the grid
type PageInput struct {
	Page     int `json:"page" validate:"min=0" example:"0"`
	PageSize int `json:"pageSize,omitempty" validate:"omitempty,min=1,max=200" example:"25"`
}

// PageRequest is one grid interaction
// nil parts keep the grid's current value, so a pager click only sends pagination
type PageRequest struct {
	Filter      *gridfilter.Model `json:"filter,omitempty"`
	QuickSearch *string           `json:"quickSearch,omitempty" validate:"omitempty,max=500"`
	Sort        *SortInput        `json:"sort,omitempty"`
	Pagination  *PageInput        `json:"pagination,omitempty"`
	// Preset is AND-ed in front of every query; a different preset moves a live view to page zero
	Preset string `json:"preset,omitempty" validate:"omitempty,max=500" example:"agency:1f1c..."`
	// Reset discards the saved view before applying the request
	Reset bool `json:"reset,omitempty"`
}

// PageResponse is the page a grid displays
type PageResponse struct {
	Kind      string              `json:"kind"`
	Variables gridquery.Variables `json:"variables"`
	State     gridquery.State     `json:"state"`
	Status    gridquery.Status    `json:"status"`
	Rows      []gridquery.Row     `json:"rows"`
	Total     int                 `json:"total"`
}

// SearchEntry is one recorded grid fetch
type SearchEntry struct {
	At        time.Time
	SessionID string
	Subject   string
	Kind      string
	Query     string
	Page      int
	PageSize  int
	Total     int
	Latency   time.Duration
	Failed    bool
}
