package gridquery

import (
	"context"
	"strconv"
	"sync"

	"dcbadmin/internal/core/gridfilter"
	perr "dcbadmin/internal/platform/errors"
)

// DefaultPageSize is used when a grid asks for a non-positive page size
const DefaultPageSize = 25

// MaxPageSize caps a single page
const MaxPageSize = 200

var (
	// ErrRowNotLoaded is returned when a selected row is not on the current page
	ErrRowNotLoaded = perr.New(perr.ErrorCodeNotFound, "row is not on the loaded page")
	// ErrSuperseded is returned by Load when newer grid state replaced the request in flight
	ErrSuperseded = perr.New(perr.ErrorCodeConflict, "grid state changed while loading")
)

// Row is anything a grid can display and select by id
type Row interface {
	RowID() string
}

// Page is one fetched page
type Page struct {
	Rows  []Row
	Total int
}

// Fetcher runs the list query for a set of variables
type Fetcher func(ctx context.Context, v Variables) (Page, error)

// Status is the grid's display state
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusEmpty   Status = "empty"
	StatusReady   Status = "ready"
)

// Sort is the active sort
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// State is the serialisable part of a controller
type State struct {
	Kind        string           `json:"kind"`
	Page        int              `json:"page"`
	PageSize    int              `json:"pageSize"`
	Sort        Sort             `json:"sort"`
	Filter      gridfilter.Model `json:"filter"`
	QuickSearch string           `json:"quickSearch,omitempty"`
	Preset      string           `json:"preset,omitempty"`
	Total       int              `json:"total"`
}

// Controller holds the state of one grid view
type Controller struct {
	mu       sync.Mutex
	kind     Kind
	st       State
	gen      uint64
	inflight int
	loaded   bool
	err      error
	rows     []Row
}

// NewController starts a grid on page zero with the kind's default sort
func NewController(k Kind, preset string) *Controller {
	return &Controller{
		kind: k,
		st: State{
			Kind:     k.Name,
			PageSize: DefaultPageSize,
			Sort:     Sort{Field: k.DefaultSort, Direction: Asc},
			Filter:   gridfilter.Model{Items: []gridfilter.Item{}, LogicOperator: gridfilter.And},
			Preset:   preset,
		},
	}
}

// Restore rebuilds a controller from saved state and the rows of the page it last loaded
func Restore(k Kind, st State, rows []Row) *Controller {
	c := NewController(k, st.Preset)
	c.st = st
	c.st.Kind = k.Name
	c.rows = rows
	c.loaded = rows != nil
	return c
}

// Kind returns the grid's kind
func (c *Controller) Kind() Kind { return c.kind }

// State returns a copy of the serialisable state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st
}

// touch invalidates any load in flight; callers hold mu
func (c *Controller) touch() { c.gen++ }

// SetPagination moves to page with size rows per page; a size change returns to page zero
func (c *Controller) SetPagination(page, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 0 {
		page = 0
	}
	if size != c.st.PageSize {
		page = 0
	}
	c.st.Page, c.st.PageSize = page, size
	c.touch()
}

// SetSort changes the sort and returns to page zero; an empty field restores the default
func (c *Controller) SetSort(field string, dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if field == "" {
		field, dir = c.kind.DefaultSort, Asc
	}
	c.st.Sort = Sort{Field: field, Direction: dir}
	c.st.Page = 0
	c.touch()
}

// SetFilter replaces the column filter model and returns to page zero
func (c *Controller) SetFilter(m gridfilter.Model) error {
	for i, it := range m.Items {
		if !c.kind.Filterable(it.Field) {
			return perr.WithField(perr.InvalidArgf("column %q cannot be filtered on %s", it.Field, c.kind.Name), "items["+strconv.Itoa(i)+"].field")
		}
	}
	if m.Items == nil {
		m.Items = []gridfilter.Item{}
	}
	m.LogicOperator = m.Logic()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.Filter = m
	c.st.Page = 0
	c.touch()
	return nil
}

// SetPreset scopes the grid to another preset query and returns to page zero
// the current preset is kept when p is empty or unchanged
func (c *Controller) SetPreset(p string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p == "" || p == c.st.Preset {
		return
	}
	c.st.Preset = p
	c.st.Page = 0
	c.touch()
}

// SetQuickSearch replaces the quick search text and returns to page zero
func (c *Controller) SetQuickSearch(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.QuickSearch = s
	c.st.Page = 0
	c.touch()
}

// Variables derives the list query variables from the current state
func (c *Controller) Variables() Variables {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.variables()
}

func (c *Controller) variables() Variables {
	return Variables{
		PageNo:   c.st.Page,
		PageSize: c.st.PageSize,
		Order:    c.st.Sort.Field,
		OrderBy:  c.st.Sort.Direction,
		Query:    BuildQuery(c.kind, c.st.Filter, c.st.QuickSearch, c.st.Preset),
	}
}

// Load fetches the page for the current state
// if the state changes or another Load starts before fetch returns, the response is discarded
// and ErrSuperseded is returned
func (c *Controller) Load(ctx context.Context, fetch Fetcher) (Page, error) {
	c.mu.Lock()
	c.touch()
	gen := c.gen
	v := c.variables()
	c.inflight++
	c.mu.Unlock()

	p, err := fetch(ctx, v)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if gen != c.gen {
		return Page{}, ErrSuperseded
	}
	if err != nil {
		c.err = err
		return Page{}, err
	}
	c.err = nil
	c.loaded = true
	c.rows = p.Rows
	c.st.Total = p.Total
	return p, nil
}

// RowCount returns the total known for the result set; while a page loads this is the previous
// total so the pager does not jump
func (c *Controller) RowCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.Total
}

// Rows returns the rows of the last loaded page
func (c *Controller) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Row(nil), c.rows...)
}

// Select returns a row of the loaded page without fetching
func (c *Controller) Select(id string) (Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.rows {
		if r.RowID() == id {
			return r, nil
		}
	}
	return nil, ErrRowNotLoaded
}

// Status reports what the grid should display
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.inflight > 0:
		return StatusLoading
	case c.err != nil:
		return StatusError
	case !c.loaded:
		return StatusIdle
	case len(c.rows) == 0:
		return StatusEmpty
	default:
		return StatusReady
	}
}

// Err returns the error of the last load, if it failed
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
