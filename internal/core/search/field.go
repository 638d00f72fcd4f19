// Package search holds the search criteria model and the query string codec used to drive
// server side search and to keep searches shareable through a single URL parameter
package search

import (
	"encoding/json"
	"strings"

	perr "dcbadmin/internal/platform/errors"
)

// Field is a searchable bibliographic field
type Field uint8

const (
	// Keyword searches every indexed field
	Keyword Field = iota
	// Title searches titles
	Title
	// Author searches authors and contributors
	Author
	// ISBN searches normalized ISBN identifiers
	ISBN
	// ISSN searches normalized ISSN identifiers
	ISSN
	// Subject searches subject headings
	Subject
	// Language searches the record language
	Language
	// Format searches the material format
	Format
	// Publisher searches publisher names
	Publisher
	// ClusterRecordID pins the search to one cluster record by UUID
	ClusterRecordID
)

// prefix describes how a field is written in the query language
type prefix struct {
	token     string
	separator bool
}

// prefixes is ordered; the decoder takes the first token the content starts with, so no token
// may be a strict prefix of another
var prefixes = []struct {
	field Field
	p     prefix
}{
	{Keyword, prefix{"@keyword", true}},
	{Title, prefix{"@title", true}},
	{Author, prefix{"@author", true}},
	{ISBN, prefix{"isbn:", false}},
	{ISSN, prefix{"issn:", false}},
	{Subject, prefix{"subject:", false}},
	{Language, prefix{"language:", false}},
	{Format, prefix{"@format", true}},
	{Publisher, prefix{"@publisher", true}},
	{ClusterRecordID, prefix{"clusterRecordId:", false}},
}

var fieldNames = map[Field]string{
	Keyword:         "keyword",
	Title:           "title",
	Author:          "author",
	ISBN:            "isbn",
	ISSN:            "issn",
	Subject:         "subject",
	Language:        "language",
	Format:          "format",
	Publisher:       "publisher",
	ClusterRecordID: "clusterRecordId",
}

// Fields returns every field in display order
func Fields() []Field {
	out := make([]Field, 0, len(prefixes))
	for _, e := range prefixes {
		out = append(out, e.field)
	}
	return out
}

func (f Field) String() string {
	if s, ok := fieldNames[f]; ok {
		return s
	}
	return "unknown"
}

// Prefix returns the query language token for f and whether a space separates it from the value
func (f Field) Prefix() (string, bool) {
	for _, e := range prefixes {
		if e.field == f {
			return e.p.token, e.p.separator
		}
	}
	return "", false
}

// ParseField resolves a field by name, case-insensitive
func ParseField(s string) (Field, error) {
	s = strings.TrimSpace(s)
	for f, name := range fieldNames {
		if strings.EqualFold(name, s) {
			return f, nil
		}
	}
	return Keyword, perr.InvalidArgf("unknown search field %q", s)
}

// MarshalJSON writes the field name
func (f Field) MarshalJSON() ([]byte, error) { return json.Marshal(f.String()) }

// UnmarshalJSON reads a field name
func (f *Field) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseField(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Operator combines a criterion with everything to its left
type Operator uint8

const (
	// AND requires both sides
	AND Operator = iota
	// OR requires either side
	OR
	// NOT excludes the right side
	NOT
)

func (o Operator) String() string {
	switch o {
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	default:
		return "AND"
	}
}

// ParseOperator resolves an operator name, case-insensitive
func ParseOperator(s string) (Operator, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AND":
		return AND, nil
	case "OR":
		return OR, nil
	case "NOT":
		return NOT, nil
	}
	return AND, perr.InvalidArgf("unknown operator %q", s)
}

// MarshalJSON writes the operator name
func (o Operator) MarshalJSON() ([]byte, error) { return json.Marshal(o.String()) }

// UnmarshalJSON reads an operator name
func (o *Operator) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseOperator(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}
