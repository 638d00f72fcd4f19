package gridquery

import (
	"strings"

	"dcbadmin/internal/core/gridfilter"
)

// Direction is a sort direction as the list queries expect it
type Direction string

const (
	// Asc sorts ascending
	Asc Direction = "ASC"
	// Desc sorts descending
	Desc Direction = "DESC"
)

// ParseDirection accepts asc/desc in any case; anything else is Asc
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return Desc
	}
	return Asc
}

// Variables are the list query variables sent upstream
type Variables struct {
	PageNo   int       `json:"pageno"`
	PageSize int       `json:"pagesize"`
	Order    string    `json:"order"`
	OrderBy  Direction `json:"orderBy"`
	Query    string    `json:"query"`
}

// escape backslash-escapes spaces so the search backend keeps a value as one term
func escape(v string) string { return strings.ReplaceAll(strings.TrimSpace(v), " ", `\ `) }

// term renders one filter item in the backend's field:value syntax
func term(it gridfilter.Item) string {
	v := escape(it.Value)
	switch it.Operator {
	case gridfilter.OpEquals, gridfilter.OpIs:
		return it.Field + ":" + v
	case gridfilter.OpStartsWith:
		return it.Field + ":" + v + "*"
	case gridfilter.OpEndsWith:
		return it.Field + ":*" + v
	default:
		return it.Field + ":*" + v + "*"
	}
}

// BuildQuery derives the query variable
//
// Active filter items win over the quick search text, which otherwise searches the kind's
// default field. A preset is AND-ed in front of whatever the user asked for.
func BuildQuery(k Kind, m gridfilter.Model, quick, preset string) string {
	var terms []string
	for _, it := range m.Active() {
		terms = append(terms, term(it))
	}
	if len(terms) == 0 && strings.TrimSpace(quick) != "" {
		terms = append(terms, term(gridfilter.Item{Field: k.DefaultField, Operator: gridfilter.OpContains, Value: quick}))
	}

	joiner := " AND "
	if m.Logic() == gridfilter.Or {
		joiner = " OR "
	}
	q := strings.Join(terms, joiner)

	preset = strings.TrimSpace(preset)
	switch {
	case preset == "":
		return q
	case q == "":
		return preset
	case len(terms) > 1:
		return preset + " AND (" + q + ")"
	default:
		return preset + " AND " + q
	}
}
