// Package gridquery derives list query variables from grid state and keeps the grid's view of a
// server paginated result set: loading, totals and the rows of the current page
package gridquery

import (
	"sort"

	perr "dcbadmin/internal/platform/errors"
)

// Kind describes one listable DCB entity
type Kind struct {
	Name         string   `json:"name"`
	ListField    string   `json:"listField"`
	DefaultField string   `json:"defaultField"`
	DefaultSort  string   `json:"defaultSort"`
	Columns      []string `json:"columns"`
}

// Filterable reports whether col may carry a column filter
func (k Kind) Filterable(col string) bool {
	for _, c := range k.Columns {
		if c == col {
			return true
		}
	}
	return false
}

var kinds = map[string]Kind{
	"agencies": {
		Name: "agencies", ListField: "agencies", DefaultField: "name", DefaultSort: "name",
		Columns: []string{"name", "code", "hostLms", "isSupplyingAgency", "isBorrowingAgency", "id"},
	},
	"locations": {
		Name: "locations", ListField: "locations", DefaultField: "name", DefaultSort: "name",
		Columns: []string{"name", "code", "type", "agency", "printLabel", "id"},
	},
	"hostLms": {
		Name: "hostLms", ListField: "hostLms", DefaultField: "name", DefaultSort: "name",
		Columns: []string{"name", "code", "lmsClientClass", "id"},
	},
	"libraries": {
		Name: "libraries", ListField: "libraries", DefaultField: "fullName", DefaultSort: "fullName",
		Columns: []string{"fullName", "shortName", "abbreviatedName", "agencyCode", "type", "id"},
	},
	"agencyGroups": {
		Name: "agencyGroups", ListField: "agencyGroups", DefaultField: "name", DefaultSort: "name",
		Columns: []string{"name", "code", "id"},
	},
	"patronRequests": {
		Name: "patronRequests", ListField: "patronRequests", DefaultField: "description", DefaultSort: "dateCreated",
		Columns: []string{"description", "status", "patronHostlmsCode", "localBarcode", "errorMessage", "id"},
	},
	"referenceValueMappings": {
		Name: "referenceValueMappings", ListField: "referenceValueMappings", DefaultField: "fromValue", DefaultSort: "fromCategory",
		Columns: []string{"fromCategory", "fromContext", "fromValue", "toCategory", "toContext", "toValue", "id"},
	},
	"numericRangeMappings": {
		Name: "numericRangeMappings", ListField: "numericRangeMappings", DefaultField: "mappedValue", DefaultSort: "domain",
		Columns: []string{"context", "domain", "lowerBound", "upperBound", "mappedValue", "id"},
	},
	"sourceBibs": {
		Name: "sourceBibs", ListField: "sourceBibs", DefaultField: "title", DefaultSort: "title",
		Columns: []string{"title", "author", "sourceRecordId", "sourceSystemId", "id"},
	},
	"clusterRecords": {
		Name: "clusterRecords", ListField: "instanceClusters", DefaultField: "title", DefaultSort: "title",
		Columns: []string{"title", "selectedBib", "id"},
	},
	"audits": {
		Name: "audits", ListField: "audits", DefaultField: "briefDescription", DefaultSort: "auditDate",
		Columns: []string{"briefDescription", "fromStatus", "toStatus", "auditDate", "id"},
	},
	"dataChangeLog": {
		Name: "dataChangeLog", ListField: "dataChangeLog", DefaultField: "entityType", DefaultSort: "timestampLogged",
		Columns: []string{"entityType", "entityId", "actionInfo", "lastEditedBy", "reason", "id"},
	},
	"contacts": {
		Name: "contacts", ListField: "libraryContacts", DefaultField: "lastName", DefaultSort: "lastName",
		Columns: []string{"firstName", "lastName", "email", "role", "id"},
	},
}

// Kinds returns every registered kind sorted by name
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup resolves a kind by name
func Lookup(name string) (Kind, error) {
	k, ok := kinds[name]
	if !ok {
		return Kind{}, perr.NotFoundf("unknown grid kind %q", name)
	}
	return k, nil
}
