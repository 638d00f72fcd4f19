package search

import (
	"strings"

	perr "dcbadmin/internal/platform/errors"

	"github.com/google/uuid"
)

// ErrClusterExclusive is returned when a cluster record criterion would share the list with others
var ErrClusterExclusive = perr.New(perr.ErrorCodeInvalidArgument, "a cluster record id search cannot be combined with other criteria")

// Criterion is one row of the search builder
type Criterion struct {
	ID       string   `json:"id"`
	Field    Field    `json:"field"`
	Value    string   `json:"value"`
	Operator Operator `json:"operator"`
}

// Criteria is an ordered criteria list
type Criteria []Criterion

// newID is a seam for tests; v7 ids sort in generation order
var newID = func() string { return uuid.Must(uuid.NewV7()).String() }

// New builds a criterion with a fresh id
func New(field Field, value string, op Operator) Criterion {
	return Criterion{ID: newID(), Field: field, Value: value, Operator: op}
}

// Normalize forces the first operator to AND; the first criterion has no left side
func Normalize(c Criteria) Criteria {
	if len(c) > 0 {
		c[0].Operator = AND
	}
	return c
}

// HasCluster reports whether any criterion targets a cluster record id
func (c Criteria) HasCluster() bool {
	for _, x := range c {
		if x.Field == ClusterRecordID {
			return true
		}
	}
	return false
}

// NonBlank returns the criteria whose trimmed value is not empty
func (c Criteria) NonBlank() Criteria {
	out := make(Criteria, 0, len(c))
	for _, x := range c {
		if strings.TrimSpace(x.Value) != "" {
			out = append(out, x)
		}
	}
	return out
}

func (c Criteria) index(id string) int {
	for i, x := range c {
		if x.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a criterion; a cluster record criterion replaces the whole list
func Add(c Criteria, x Criterion) (Criteria, error) {
	if x.ID == "" {
		x.ID = newID()
	}
	if x.Field == ClusterRecordID {
		x.Operator = AND
		return Criteria{x}, nil
	}
	if c.HasCluster() {
		return c, ErrClusterExclusive
	}
	out := append(append(Criteria(nil), c...), x)
	return Normalize(out), nil
}

// Remove drops the criterion with id
func Remove(c Criteria, id string) (Criteria, error) {
	i := c.index(id)
	if i < 0 {
		return c, perr.NotFoundf("criterion %s not found", id)
	}
	out := append(append(Criteria(nil), c[:i]...), c[i+1:]...)
	return Normalize(out), nil
}

// UpdateValue replaces the value of the criterion with id
func UpdateValue(c Criteria, id, value string) (Criteria, error) {
	i := c.index(id)
	if i < 0 {
		return c, perr.NotFoundf("criterion %s not found", id)
	}
	out := append(Criteria(nil), c...)
	out[i].Value = value
	return out, nil
}

// UpdateOperator replaces the operator of the criterion with id
func UpdateOperator(c Criteria, id string, op Operator) (Criteria, error) {
	i := c.index(id)
	if i < 0 {
		return c, perr.NotFoundf("criterion %s not found", id)
	}
	out := append(Criteria(nil), c...)
	out[i].Operator = op
	return Normalize(out), nil
}

// SelectField changes the field of the criterion with id
//
// Selecting ClusterRecordID collapses the list to that single criterion. Selecting any other field
// while some other criterion targets a cluster record fails with ErrClusterExclusive.
func SelectField(c Criteria, id string, field Field) (Criteria, error) {
	i := c.index(id)
	if i < 0 {
		return c, perr.NotFoundf("criterion %s not found", id)
	}
	if field == ClusterRecordID {
		x := c[i]
		x.Field = ClusterRecordID
		x.Operator = AND
		return Criteria{x}, nil
	}
	for j, x := range c {
		if j != i && x.Field == ClusterRecordID {
			return c, ErrClusterExclusive
		}
	}
	out := append(Criteria(nil), c...)
	out[i].Field = field
	return out, nil
}

// Validate checks the list invariants
func Validate(c Criteria) error {
	if len(c) == 0 {
		return nil
	}
	if c[0].Operator != AND {
		return perr.WithField(perr.InvalidArgf("first criterion must use AND"), "criteria[0].operator")
	}
	if c.HasCluster() && len(c) > 1 {
		return ErrClusterExclusive
	}
	return nil
}
