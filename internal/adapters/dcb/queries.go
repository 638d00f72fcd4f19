package dcb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dcbadmin/internal/core/gridquery"
	perr "dcbadmin/internal/platform/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// listDocument renders the paged list query for one GraphQL list field
func listDocument(field, selection string) string {
	return fmt.Sprintf(`query List($pageno: Int, $pagesize: Int, $order: String, $orderBy: String, $query: String) {
  %s(pageno: $pageno, pagesize: $pagesize, order: $order, orderBy: $orderBy, query: $query) {
    totalSize
    pageable { number offset }
    content { %s }
  }
}`, field, selection)
}

const (
	selAgency        = `id code name authProfile longitudeLatitude isSupplyingAgency isBorrowingAgency hostLms { id code name }`
	selLocation      = `id code name type printLabel isPickup agency { id code name }`
	selHostLms       = `id code name lmsClientClass clientConfig`
	selLibrary       = `id agencyCode fullName shortName abbreviatedName type supportHours`
	selAgencyGroup   = `id code name members { id agency { id code name } }`
	selPatronRequest = `id dateCreated dateUpdated description status patronHostlmsCode bibClusterId pickupLocationCode localBarcode errorMessage nextScheduledPoll isManuallySelectedItem`
	selRVM           = `id fromCategory fromContext fromValue toCategory toContext toValue label lastImported`
	selNRM           = `id context domain lowerBound upperBound targetContext mappedValue`
	selSourceBib     = `id title author sourceSystemId sourceRecordId dateCreated clusterRecordId`
	selCluster       = `id title selectedBib dateCreated`
	selAudit         = `id auditDate briefDescription fromStatus toStatus auditData`
	selChangeLog     = `id entityId entityType actionInfo timestampLogged lastEditedBy reason changeCategory changeReferenceUrl changes`
	selPerson        = `id firstName lastName email role isPrimaryContact`
)

// List runs the paged list query named by field and decodes rows of type T
func List[T any](ctx context.Context, c *Client, tokens TokenSource, field, selection string, v gridquery.Variables) (Page[T], error) {
	var data map[string]Page[T]
	if err := c.GraphQL(ctx, tokens, listDocument(field, selection), v, &data); err != nil {
		return Page[T]{}, err
	}
	page, ok := data[field]
	if !ok {
		return Page[T]{}, perr.Upstreamf("dcb response is missing %s", field)
	}
	if err := validate.Struct(page); err != nil {
		return Page[T]{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "dcb returned an invalid %s row", field)
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	return page, nil
}

// entity binds a grid kind to its list query and row type
type entity struct {
	list   func(ctx context.Context, c *Client, tokens TokenSource, v gridquery.Variables) (gridquery.Page, error)
	decode func(raw []byte) ([]gridquery.Row, error)
}

func entityOf[T gridquery.Row](field, selection string) entity {
	return entity{
		list: func(ctx context.Context, c *Client, tokens TokenSource, v gridquery.Variables) (gridquery.Page, error) {
			p, err := List[T](ctx, c, tokens, field, selection, v)
			if err != nil {
				return gridquery.Page{}, err
			}
			return gridquery.Page{Rows: rows(p.Content), Total: p.TotalSize}, nil
		},
		decode: func(raw []byte) ([]gridquery.Row, error) {
			var out []T
			if err := json.Unmarshal(raw, &out); err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "cached %s rows are unreadable", field)
			}
			return rows(out), nil
		},
	}
}

func rows[T gridquery.Row](in []T) []gridquery.Row {
	out := make([]gridquery.Row, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}

// entities is keyed by grid kind name
var entities = map[string]entity{
	"agencies":               entityOf[Agency]("agencies", selAgency),
	"locations":              entityOf[Location]("locations", selLocation),
	"hostLms":                entityOf[HostLms]("hostLms", selHostLms),
	"libraries":              entityOf[Library]("libraries", selLibrary),
	"agencyGroups":           entityOf[AgencyGroup]("agencyGroups", selAgencyGroup),
	"patronRequests":         entityOf[PatronRequest]("patronRequests", selPatronRequest),
	"referenceValueMappings": entityOf[ReferenceValueMapping]("referenceValueMappings", selRVM),
	"numericRangeMappings":   entityOf[NumericRangeMapping]("numericRangeMappings", selNRM),
	"sourceBibs":             entityOf[SourceBib]("sourceBibs", selSourceBib),
	"clusterRecords":         entityOf[ClusterRecord]("instanceClusters", selCluster),
	"audits":                 entityOf[Audit]("audits", selAudit),
	"dataChangeLog":          entityOf[DataChangeLog]("dataChangeLog", selChangeLog),
	"contacts":               entityOf[Person]("libraryContacts", selPerson),
}

func lookup(kind string) (entity, error) {
	e, ok := entities[kind]
	if !ok {
		return entity{}, perr.NotFoundf("unknown grid kind %q", kind)
	}
	return e, nil
}

// Fetcher returns a gridquery.Fetcher for kind bound to the session's tokens
func (c *Client) Fetcher(kind string, tokens TokenSource) (gridquery.Fetcher, error) {
	e, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, v gridquery.Variables) (gridquery.Page, error) {
		return e.list(ctx, c, tokens, v)
	}, nil
}

// DecodeRows turns cached row JSON back into typed rows of kind
func DecodeRows(kind string, raw []byte) ([]gridquery.Row, error) {
	e, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	return e.decode(raw)
}

// Detail fetches one record of kind by id
// ids that are not UUIDs cannot exist upstream and are reported as not found without a call
func (c *Client) Detail(ctx context.Context, tokens TokenSource, kind, id string) (gridquery.Row, error) {
	e, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return nil, perr.NotFoundf("%s %q is not a valid record id", kind, id)
	}
	p, err := e.list(ctx, c, tokens, gridquery.Variables{PageNo: 0, PageSize: 1, Order: "id", OrderBy: gridquery.Asc, Query: "id:" + id})
	if err != nil {
		return nil, err
	}
	if len(p.Rows) == 0 {
		return nil, perr.NotFoundf("no %s record with id %s", kind, id)
	}
	return p.Rows[0], nil
}
