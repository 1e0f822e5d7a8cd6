// ABOUTME: Field-level validation for opportunities, companies, and contacts
// ABOUTME: Collects every violation; never short-circuits, never touches the store
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/harperreed/pipeline/models"
)

// Config carries the runtime vocabulary the validator needs. The store owns it
// and passes it on every call so independent stores validate independently.
type Config struct {
	SalesSteps []string
}

var (
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Opportunity checks a candidate opportunity record and returns every
// violation found, in rule order.
func Opportunity(o models.Opportunity, cfg Config) []models.FieldError {
	var errs []models.FieldError

	if o.ID != "" && !models.ValidID(models.KindOpportunity, o.ID) {
		errs = append(errs, fieldError("id", models.CodeBadFormat, "id must match OPP-###### with six digits"))
	}
	if o.CompanyID != "" && !models.ValidID(models.KindCompany, o.CompanyID) {
		errs = append(errs, fieldError("companyId", models.CodeBadFormat, "companyId must match CMPY-###### with six digits"))
	}
	if o.ContactID != "" && !models.ValidID(models.KindContact, o.ContactID) {
		errs = append(errs, fieldError("contactId", models.CodeBadFormat, "contactId must match CON-###### with six digits"))
	}

	if strings.TrimSpace(o.Name) == "" {
		errs = append(errs, fieldError("name", models.CodeRequired, "name is required"))
	}

	if !containsStep(cfg.SalesSteps, o.SalesStep) {
		errs = append(errs, fieldError("salesStep", models.CodeInvalidStep,
			fmt.Sprintf("salesStep must be one of: %s", strings.Join(cfg.SalesSteps, ", "))))
	}

	if math.IsNaN(o.ClosingValue) || math.IsInf(o.ClosingValue, 0) || o.ClosingValue < 0 {
		errs = append(errs, fieldError("closingValue", models.CodeBadNumber, "closingValue must be a finite number >= 0"))
	}

	nextOK := true
	closeOK := true
	if o.NextActionDate != "" && !validISODate(o.NextActionDate) {
		errs = append(errs, fieldError("nextActionDate", models.CodeBadDate, "nextActionDate must be a real date in YYYY-MM-DD form"))
		nextOK = false
	}
	if o.ClosingDate != "" && !validISODate(o.ClosingDate) {
		errs = append(errs, fieldError("closingDate", models.CodeBadDate, "closingDate must be a real date in YYYY-MM-DD form"))
		closeOK = false
	}

	if o.SalesStep == models.StepWon && o.ClosingDate == "" {
		errs = append(errs, fieldError("closingDate", models.CodeRequiredForWon, "closingDate is required when salesStep is Won"))
	}

	// ISO dates compare correctly as strings once both are well-formed.
	if nextOK && closeOK && o.NextActionDate != "" && o.ClosingDate != "" && o.NextActionDate > o.ClosingDate {
		errs = append(errs, fieldError("nextActionDate", models.CodeAfterClosing, "nextActionDate must not be after closingDate"))
	}

	return errs
}

// Company checks a candidate company record.
func Company(c models.Company) []models.FieldError {
	var errs []models.FieldError
	if c.ID != "" && !models.ValidID(models.KindCompany, c.ID) {
		errs = append(errs, fieldError("id", models.CodeBadFormat, "id must match CMPY-###### with six digits"))
	}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, fieldError("name", models.CodeRequired, "name is required"))
	}
	return errs
}

// Contact checks a candidate contact record.
func Contact(c models.Contact) []models.FieldError {
	var errs []models.FieldError
	if c.ID != "" && !models.ValidID(models.KindContact, c.ID) {
		errs = append(errs, fieldError("id", models.CodeBadFormat, "id must match CON-###### with six digits"))
	}
	if c.CompanyID != "" && !models.ValidID(models.KindCompany, c.CompanyID) {
		errs = append(errs, fieldError("companyId", models.CodeBadFormat, "companyId must match CMPY-###### with six digits"))
	}
	if strings.TrimSpace(c.DisplayName) == "" && strings.TrimSpace(c.FirstName) == "" && strings.TrimSpace(c.LastName) == "" {
		errs = append(errs, fieldError("displayName", models.CodeRequired, "one of displayName, firstName, or lastName is required"))
	}
	if c.Email != "" && !emailRe.MatchString(c.Email) {
		errs = append(errs, fieldError("email", models.CodeBadEmail, "email must look like local@domain.tld"))
	}
	return errs
}

// validISODate accepts only YYYY-MM-DD strings that name a real calendar day.
// The reformat round-trip rejects shapes the layout parser would normalize.
func validISODate(s string) bool {
	if !isoDateRe.MatchString(s) {
		return false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	return t.Format("2006-01-02") == s
}

func containsStep(steps []string, step string) bool {
	for _, s := range steps {
		if s == step {
			return true
		}
	}
	return false
}

func fieldError(field, code, message string) models.FieldError {
	return models.FieldError{Field: field, Code: code, Message: message}
}
