package search

import "strings"

// FormatQueryPart renders one field/value pair as a query language fragment
//
// ClusterRecordID values are returned verbatim since they are exact match UUIDs. Language values
// are resolved through the alias table first. Values containing a space are quoted so the
// downstream parser sees a single token. Embedded quotes are passed through untouched.
func FormatQueryPart(field Field, value string) string {
	if field == ClusterRecordID {
		return value
	}
	if field == Language {
		value, _ = CanonicalLanguage(value)
	}
	if strings.Contains(value, " ") {
		value = `"` + value + `"`
	}
	token, sep := field.Prefix()
	if sep {
		return token + " " + value
	}
	return token + value
}
