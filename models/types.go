// ABOUTME: Data models for pipeline entities
// ABOUTME: Defines Opportunity, Company, Contact, drafts, and import payloads
package models

// Kind names one of the three entity collections.
type Kind string

const (
	KindOpportunity Kind = "opportunity"
	KindCompany     Kind = "company"
	KindContact     Kind = "contact"
)

type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsClient    bool   `json:"isClient,omitempty"`
	HQCountry   string `json:"hqCountry,omitempty"`
	Website     string `json:"website,omitempty"`
	Type        string `json:"type,omitempty"`
	Segment     string `json:"segment,omitempty"`
	Description string `json:"description,omitempty"`
}

type Contact struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	CompanyID   string `json:"companyId,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type Opportunity struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	SalesStep      string  `json:"salesStep"`
	Client         string  `json:"client,omitempty"`
	Owner          string  `json:"owner,omitempty"`
	CompanyID      string  `json:"companyId,omitempty"`
	ContactID      string  `json:"contactId,omitempty"`
	LeadSource     string  `json:"leadSource,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	NextAction     string  `json:"nextAction,omitempty"`
	NextActionDate string  `json:"nextActionDate,omitempty"`
	ClosingDate    string  `json:"closingDate,omitempty"`
	ClosingValue   float64 `json:"closingValue"`
}

// Draft types carry caller-supplied fields for a save. A nil pointer means the
// field was not supplied and the stored value is kept on update; a non-nil
// pointer to an empty string clears the field.

type CompanyDraft struct {
	ID          string  `json:"id,omitempty"`
	Name        *string `json:"name,omitempty"`
	IsClient    *bool   `json:"isClient,omitempty"`
	HQCountry   *string `json:"hqCountry,omitempty"`
	Website     *string `json:"website,omitempty"`
	Type        *string `json:"type,omitempty"`
	Segment     *string `json:"segment,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ContactDraft struct {
	ID          string  `json:"id,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	CompanyID   *string `json:"companyId,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

type OpportunityDraft struct {
	ID             string   `json:"id,omitempty"`
	Name           *string  `json:"name,omitempty"`
	SalesStep      *string  `json:"salesStep,omitempty"`
	Client         *string  `json:"client,omitempty"`
	Owner          *string  `json:"owner,omitempty"`
	CompanyID      *string  `json:"companyId,omitempty"`
	ContactID      *string  `json:"contactId,omitempty"`
	LeadSource     *string  `json:"leadSource,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	NextAction     *string  `json:"nextAction,omitempty"`
	NextActionDate *string  `json:"nextActionDate,omitempty"`
	ClosingDate    *string  `json:"closingDate,omitempty"`
	ClosingValue   *float64 `json:"closingValue,omitempty"`
}

// FieldError reports one validation or integrity violation. Code is a stable
// machine-readable token so callers never have to string-match Message.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeRequired               = "required"
	CodeBadFormat              = "bad_format"
	CodeInvalidStep            = "invalid_step"
	CodeBadNumber              = "bad_number"
	CodeBadDate                = "bad_date"
	CodeRequiredForWon         = "required_for_won"
	CodeAfterClosing           = "after_closing"
	CodeBadEmail               = "bad_email"
	CodeUnknownCompany         = "unknown_company"
	CodeUnknownContact         = "unknown_contact"
	CodeContactCompanyMismatch = "contact_company_mismatch"
)

// StepWon is the terminal sales step; opportunities in it require a closing date.
const StepWon = "Won"

// DefaultSalesSteps is the step list used until persisted state or an import
// supplies one.
var DefaultSalesSteps = []string{"New", "Qualified", "Proposal", "Negotiation", StepWon, "Lost"}

// Vocabulary holds the controlled value sets derived from the data or supplied
// by an import payload.
type Vocabulary struct {
	LeadSources     []string `json:"leadSources"`
	CompanyTypes    []string `json:"companyTypes"`
	CompanySegments []string `json:"companySegments"`
	Owners          []string `json:"owners"`
}

// Counts reports the size of each vocabulary list.
func (v Vocabulary) Counts() VocabCounts {
	return VocabCounts{
		LeadSources:     len(v.LeadSources),
		CompanyTypes:    len(v.CompanyTypes),
		CompanySegments: len(v.CompanySegments),
		Owners:          len(v.Owners),
	}
}

// IsEmpty reports whether no vocabulary list has any values.
func (v Vocabulary) IsEmpty() bool {
	return len(v.LeadSources) == 0 && len(v.CompanyTypes) == 0 &&
		len(v.CompanySegments) == 0 && len(v.Owners) == 0
}

type VocabCounts struct {
	LeadSources     int `json:"leadSources"`
	CompanyTypes    int `json:"companyTypes"`
	CompanySegments int `json:"companySegments"`
	Owners          int `json:"owners"`
}

// ImportPayload is the contract with the file-parsing collaborator. A payload
// with OK != true is rejected wholesale before any record is touched.
type ImportPayload struct {
	OK         bool               `json:"ok"`
	Rows       []OpportunityDraft `json:"rows"`
	Companies  []Company          `json:"companies"`
	Contacts   []Contact          `json:"contacts"`
	SalesSteps []string           `json:"salesSteps"`
	Vocab      *Vocabulary        `json:"vocab,omitempty"`
}

// ImportSummary is the aggregate accounting for one merge batch.
type ImportSummary struct {
	BatchID          string `json:"batchId"`
	Added            int    `json:"added"`
	Updated          int    `json:"updated"`
	Invalid          int    `json:"invalid"`
	DroppedCompanies int    `json:"droppedCompanies,omitempty"`
	DroppedContacts  int    `json:"droppedContacts,omitempty"`
	Applied          bool   `json:"applied"`
}

// Snapshot is a defensive copy of the authoritative collections plus the
// derived client roster. Mutating a snapshot never touches the store.
type Snapshot struct {
	Opportunities []Opportunity `json:"opportunities"`
	Companies     []Company     `json:"companies"`
	Contacts      []Contact     `json:"contacts"`
	SalesSteps    []string      `json:"salesSteps"`
	ClientList    []string      `json:"clientList"`
}
