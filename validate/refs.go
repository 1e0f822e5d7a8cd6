// ABOUTME: Referential integrity checks for foreign identifiers
// ABOUTME: Runs after format validation; failures share the FieldError shape
package validate

import (
	"fmt"

	"github.com/harperreed/pipeline/models"
)

// Resolver answers existence and relationship questions against the current
// reference set. The record store implements it.
type Resolver interface {
	HasCompany(id string) bool
	ContactByID(id string) (models.Contact, bool)
}

// OpportunityRefs verifies that the foreign ids on a format-clean opportunity
// resolve and agree with each other.
func OpportunityRefs(o models.Opportunity, r Resolver) []models.FieldError {
	var errs []models.FieldError

	if o.CompanyID != "" && !r.HasCompany(o.CompanyID) {
		errs = append(errs, fieldError("companyId", models.CodeUnknownCompany,
			fmt.Sprintf("companyId %s does not name a stored company", o.CompanyID)))
	}

	if o.ContactID != "" {
		contact, ok := r.ContactByID(o.ContactID)
		if !ok {
			errs = append(errs, fieldError("contactId", models.CodeUnknownContact,
				fmt.Sprintf("contactId %s does not name a stored contact", o.ContactID)))
		} else if o.CompanyID != "" && contact.CompanyID != "" && contact.CompanyID != o.CompanyID {
			errs = append(errs, fieldError("contactId", models.CodeContactCompanyMismatch,
				fmt.Sprintf("contact %s belongs to %s, not %s", o.ContactID, contact.CompanyID, o.CompanyID)))
		}
	}

	return errs
}

// IDFieldsClean reports whether the identifier fields came through field
// validation without format errors. Referential checks only need clean ids;
// other field failures must not suppress them.
func IDFieldsClean(errs []models.FieldError) bool {
	for _, e := range errs {
		if e.Code != models.CodeBadFormat {
			continue
		}
		switch e.Field {
		case "id", "companyId", "contactId":
			return false
		}
	}
	return true
}

// ContactRefs verifies that a contact's companyId, when set, resolves.
func ContactRefs(c models.Contact, r Resolver) []models.FieldError {
	var errs []models.FieldError
	if c.CompanyID != "" && !r.HasCompany(c.CompanyID) {
		errs = append(errs, fieldError("companyId", models.CodeUnknownCompany,
			fmt.Sprintf("companyId %s does not name a stored company", c.CompanyID)))
	}
	return errs
}
