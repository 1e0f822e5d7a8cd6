// ABOUTME: Record builders that merge a draft over a previous record
// ABOUTME: Nil draft fields keep the prior value; the merge rule lives here only
package models

import "strings"

// BuildOpportunity produces the candidate record for a save: the draft's
// supplied fields laid over prev. Pass nil prev for a create. A create with no
// sales step lands on the first configured step.
func BuildOpportunity(prev *Opportunity, d OpportunityDraft, steps []string) Opportunity {
	var o Opportunity
	if prev != nil {
		o = *prev
	} else if len(steps) > 0 {
		o.SalesStep = steps[0]
	}
	if d.ID != "" {
		o.ID = d.ID
	}
	setString(&o.Name, d.Name)
	setString(&o.SalesStep, d.SalesStep)
	setString(&o.Client, d.Client)
	setString(&o.Owner, d.Owner)
	setString(&o.CompanyID, d.CompanyID)
	setString(&o.ContactID, d.ContactID)
	setString(&o.LeadSource, d.LeadSource)
	setString(&o.Notes, d.Notes)
	setString(&o.NextAction, d.NextAction)
	setString(&o.NextActionDate, d.NextActionDate)
	setString(&o.ClosingDate, d.ClosingDate)
	if d.ClosingValue != nil {
		o.ClosingValue = *d.ClosingValue
	}
	return o
}

// BuildCompany merges a company draft over prev.
func BuildCompany(prev *Company, d CompanyDraft) Company {
	var c Company
	if prev != nil {
		c = *prev
	}
	if d.ID != "" {
		c.ID = d.ID
	}
	setString(&c.Name, d.Name)
	if d.IsClient != nil {
		c.IsClient = *d.IsClient
	}
	setString(&c.HQCountry, d.HQCountry)
	setString(&c.Website, d.Website)
	setString(&c.Type, d.Type)
	setString(&c.Segment, d.Segment)
	setString(&c.Description, d.Description)
	return c
}

// BuildContact merges a contact draft over prev and derives DisplayName from
// the name parts when it is absent.
func BuildContact(prev *Contact, d ContactDraft) Contact {
	var c Contact
	if prev != nil {
		c = *prev
	}
	if d.ID != "" {
		c.ID = d.ID
	}
	setString(&c.DisplayName, d.DisplayName)
	setString(&c.FirstName, d.FirstName)
	setString(&c.LastName, d.LastName)
	setString(&c.CompanyID, d.CompanyID)
	setString(&c.Email, d.Email)
	setString(&c.Phone, d.Phone)
	if strings.TrimSpace(c.DisplayName) == "" {
		c.DisplayName = DeriveDisplayName(c.FirstName, c.LastName)
	}
	return c
}

// DeriveDisplayName joins the non-empty name parts with a single space.
func DeriveDisplayName(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
