// Package gridfilter converts between search criteria and the column filter model a data grid
// keeps, so a search started in the builder can be refined in the grid and back again
package gridfilter

import (
	"strings"

	"dcbadmin/internal/core/search"
)

// Logic joins filter items
type Logic string

const (
	// And requires every item
	And Logic = "and"
	// Or requires any item
	Or Logic = "or"
)

// Filter operators understood by the grid
const (
	OpContains   = "contains"
	OpEquals     = "equals"
	OpIs         = "is"
	OpStartsWith = "startsWith"
	OpEndsWith   = "endsWith"
)

// TitleColumn is the only column criteria map onto directly
const TitleColumn = "title"

// Item is one column filter
type Item struct {
	ID       string `json:"id,omitempty"`
	Field    string `json:"field" validate:"required"`
	Operator string `json:"operator" validate:"required,oneof=contains equals is startsWith endsWith"`
	Value    string `json:"value"`
}

// Model is the grid filter model
type Model struct {
	Items         []Item `json:"items" validate:"dive"`
	LogicOperator Logic  `json:"logicOperator,omitempty" validate:"omitempty,oneof=and or"`
}

// Logic returns the logic operator, defaulting to And
func (m Model) Logic() Logic {
	if m.LogicOperator == Or {
		return Or
	}
	return And
}

// Active returns the items that carry a non-blank value
func (m Model) Active() []Item {
	out := make([]Item, 0, len(m.Items))
	for _, it := range m.Items {
		if strings.TrimSpace(it.Value) != "" {
			out = append(out, it)
		}
	}
	return out
}

// FromCriteria maps Title and Keyword criteria to title contains filters
// an OR on any criterion, mapped or not, switches the model logic to Or; other fields have no
// grid column and are dropped
func FromCriteria(c search.Criteria) Model {
	m := Model{Items: []Item{}, LogicOperator: And}
	for _, x := range c {
		if x.Operator == search.OR {
			m.LogicOperator = Or
		}
		if x.Field != search.Title && x.Field != search.Keyword {
			continue
		}
		m.Items = append(m.Items, Item{ID: x.ID, Field: TitleColumn, Operator: OpContains, Value: x.Value})
	}
	return m
}

// ToCriteria maps the title column to Title and every other column to Keyword
// each criterion takes the model logic as its operator; the first is normalized to AND
func ToCriteria(m Model) search.Criteria {
	op := search.AND
	if m.Logic() == Or {
		op = search.OR
	}
	out := make(search.Criteria, 0, len(m.Items))
	for _, it := range m.Active() {
		f := search.Keyword
		if it.Field == TitleColumn {
			f = search.Title
		}
		c := search.New(f, it.Value, op)
		if it.ID != "" {
			c.ID = it.ID
		}
		out = append(out, c)
	}
	return search.Normalize(out)
}
