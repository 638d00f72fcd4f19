package dcb

// Pageable echoes the page the service returned
type Pageable struct {
	Number int `json:"number"`
	Offset int `json:"offset"`
}

// Page is a list query result
type Page[T any] struct {
	TotalSize int      `json:"totalSize"`
	Content   []T      `json:"content" validate:"dive"`
	Pageable  Pageable `json:"pageable"`
}

// Agency is a DCB participating agency
type Agency struct {
	ID                string   `json:"id" validate:"required"`
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	AuthProfile       string   `json:"authProfile,omitempty"`
	LongitudeLatitude []string `json:"longitudeLatitude,omitempty"`
	IsSupplyingAgency *bool    `json:"isSupplyingAgency,omitempty"`
	IsBorrowingAgency *bool    `json:"isBorrowingAgency,omitempty"`
	HostLms           *HostLms `json:"hostLms,omitempty"`
}

// RowID implements gridquery.Row
func (a Agency) RowID() string { return a.ID }

// Location is a pickup or shelving location
type Location struct {
	ID         string  `json:"id" validate:"required"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	PrintLabel string  `json:"printLabel,omitempty"`
	IsPickup   *bool   `json:"isPickup,omitempty"`
	Agency     *Agency `json:"agency,omitempty"`
}

// RowID implements gridquery.Row
func (l Location) RowID() string { return l.ID }

// HostLms is a library management system DCB integrates with
type HostLms struct {
	ID             string         `json:"id" validate:"required"`
	Code           string         `json:"code"`
	Name           string         `json:"name"`
	LmsClientClass string         `json:"lmsClientClass,omitempty"`
	ClientConfig   map[string]any `json:"clientConfig,omitempty"`
}

// RowID implements gridquery.Row
func (h HostLms) RowID() string { return h.ID }

// Library is a consortium member library
type Library struct {
	ID              string   `json:"id" validate:"required"`
	AgencyCode      string   `json:"agencyCode"`
	FullName        string   `json:"fullName"`
	ShortName       string   `json:"shortName"`
	AbbreviatedName string   `json:"abbreviatedName"`
	Type            string   `json:"type,omitempty"`
	SupportHours    string   `json:"supportHours,omitempty"`
	Contacts        []Person `json:"contacts,omitempty"`
}

// RowID implements gridquery.Row
func (l Library) RowID() string { return l.ID }

// AgencyGroup groups agencies for reporting and routing
type AgencyGroup struct {
	ID      string              `json:"id" validate:"required"`
	Code    string              `json:"code"`
	Name    string              `json:"name"`
	Members []AgencyGroupMember `json:"members,omitempty"`
}

// RowID implements gridquery.Row
func (g AgencyGroup) RowID() string { return g.ID }

// AgencyGroupMember links an agency to a group
type AgencyGroupMember struct {
	ID     string  `json:"id"`
	Agency *Agency `json:"agency,omitempty"`
}

// PatronRequest is an inter-library request
type PatronRequest struct {
	ID                     string `json:"id" validate:"required"`
	DateCreated            string `json:"dateCreated"`
	DateUpdated            string `json:"dateUpdated,omitempty"`
	Description            string `json:"description"`
	Status                 string `json:"status"`
	PatronHostlmsCode      string `json:"patronHostlmsCode,omitempty"`
	BibClusterID           string `json:"bibClusterId,omitempty"`
	PickupLocationCode     string `json:"pickupLocationCode,omitempty"`
	LocalBarcode           string `json:"localBarcode,omitempty"`
	ErrorMessage           string `json:"errorMessage,omitempty"`
	NextScheduledPoll      string `json:"nextScheduledPoll,omitempty"`
	IsManuallySelectedItem bool   `json:"isManuallySelectedItem,omitempty"`
}

// RowID implements gridquery.Row
func (p PatronRequest) RowID() string { return p.ID }

// ReferenceValueMapping maps a value between two contexts
type ReferenceValueMapping struct {
	ID           string `json:"id" validate:"required"`
	FromCategory string `json:"fromCategory"`
	FromContext  string `json:"fromContext"`
	FromValue    string `json:"fromValue"`
	ToCategory   string `json:"toCategory"`
	ToContext    string `json:"toContext"`
	ToValue      string `json:"toValue"`
	Label        string `json:"label,omitempty"`
	LastImported string `json:"lastImported,omitempty"`
}

// RowID implements gridquery.Row
func (m ReferenceValueMapping) RowID() string { return m.ID }

// NumericRangeMapping maps a numeric range in one context to a value
type NumericRangeMapping struct {
	ID            string `json:"id" validate:"required"`
	Context       string `json:"context"`
	Domain        string `json:"domain"`
	LowerBound    int64  `json:"lowerBound"`
	UpperBound    int64  `json:"upperBound"`
	TargetContext string `json:"targetContext,omitempty"`
	MappedValue   string `json:"mappedValue"`
}

// RowID implements gridquery.Row
func (m NumericRangeMapping) RowID() string { return m.ID }

// SourceBib is a bibliographic record harvested from a host system
type SourceBib struct {
	ID              string `json:"id" validate:"required"`
	Title           string `json:"title"`
	Author          string `json:"author,omitempty"`
	SourceSystemID  string `json:"sourceSystemId"`
	SourceRecordID  string `json:"sourceRecordId"`
	DateCreated     string `json:"dateCreated,omitempty"`
	ClusterRecordID string `json:"clusterRecordId,omitempty"`
}

// RowID implements gridquery.Row
func (b SourceBib) RowID() string { return b.ID }

// ClusterRecord groups source bibs describing the same work
type ClusterRecord struct {
	ID          string      `json:"id" validate:"required"`
	Title       string      `json:"title"`
	SelectedBib string      `json:"selectedBib,omitempty"`
	DateCreated string      `json:"dateCreated,omitempty"`
	Members     []SourceBib `json:"members,omitempty"`
}

// RowID implements gridquery.Row
func (r ClusterRecord) RowID() string { return r.ID }

// Audit is one patron request state transition
type Audit struct {
	ID               string         `json:"id" validate:"required"`
	AuditDate        string         `json:"auditDate"`
	BriefDescription string         `json:"briefDescription"`
	FromStatus       string         `json:"fromStatus,omitempty"`
	ToStatus         string         `json:"toStatus,omitempty"`
	AuditData        map[string]any `json:"auditData,omitempty"`
}

// RowID implements gridquery.Row
func (a Audit) RowID() string { return a.ID }

// DataChangeLog is one recorded configuration change
type DataChangeLog struct {
	ID                 string `json:"id" validate:"required"`
	EntityID           string `json:"entityId"`
	EntityType         string `json:"entityType"`
	ActionInfo         string `json:"actionInfo"`
	TimestampLogged    string `json:"timestampLogged"`
	LastEditedBy       string `json:"lastEditedBy,omitempty"`
	Reason             string `json:"reason,omitempty"`
	ChangeCategory     string `json:"changeCategory,omitempty"`
	ChangeReferenceURL string `json:"changeReferenceUrl,omitempty"`
	Changes            string `json:"changes,omitempty"`
}

// RowID implements gridquery.Row
func (d DataChangeLog) RowID() string { return d.ID }

// Person is a library contact
type Person struct {
	ID               string `json:"id" validate:"required"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	IsPrimaryContact bool   `json:"isPrimaryContact"`
}

// RowID implements gridquery.Row
func (p Person) RowID() string { return p.ID }
