// ABOUTME: Single-record save path: merge, validate, integrity check, commit
// ABOUTME: Atomic per record; invalid drafts never touch the collections
package store

import (
	"fmt"

	"github.com/harperreed/pipeline/models"
	"github.com/harperreed/pipeline/validate"
)

// Save dispatches a draft to the typed save for its kind. A kind/draft
// mismatch is a programmer error and panics; invalid record data never does.
func (s *Store) Save(kind models.Kind, draft any) Result {
	switch kind {
	case models.KindOpportunity:
		d, ok := draft.(models.OpportunityDraft)
		if !ok {
			panic(fmt.Sprintf("store: draft type %T does not match kind %q", draft, kind))
		}
		return s.SaveOpportunity(d)
	case models.KindCompany:
		d, ok := draft.(models.CompanyDraft)
		if !ok {
			panic(fmt.Sprintf("store: draft type %T does not match kind %q", draft, kind))
		}
		return s.SaveCompany(d)
	case models.KindContact:
		d, ok := draft.(models.ContactDraft)
		if !ok {
			panic(fmt.Sprintf("store: draft type %T does not match kind %q", draft, kind))
		}
		return s.SaveContact(d)
	}
	panic(fmt.Sprintf("store: unknown entity kind %q", kind))
}

// SaveOpportunity validates and commits one opportunity draft. A draft with a
// known id merges over and replaces the stored record; no id or an unknown id
// allocates a fresh one.
func (s *Store) SaveOpportunity(d models.OpportunityDraft) Result {
	res, _ := s.saveOpportunity(d, true)
	return res
}

func (s *Store) saveOpportunity(d models.OpportunityDraft, notify bool) (Result, bool) {
	var prev *models.Opportunity
	if d.ID != "" {
		if existing, ok := s.opportunities[d.ID]; ok {
			prev = &existing
		}
	}

	cand := models.BuildOpportunity(prev, d, s.salesSteps)
	errs := validate.Opportunity(cand, validate.Config{SalesSteps: s.salesSteps})
	if validate.IDFieldsClean(errs) {
		errs = append(errs, validate.OpportunityRefs(cand, s)...)
	}
	if len(errs) > 0 {
		return Result{OK: false, Errors: errs}, false
	}

	updated := prev != nil
	if !updated {
		cand.ID = s.allocateID(models.KindOpportunity)
	}
	s.opportunities[cand.ID] = cand
	s.rebuildIndexes()

	if notify {
		s.notifyRecordSaved(models.KindOpportunity, cand.ID)
	}
	return Result{OK: true, ID: cand.ID}, updated
}

// SaveCompany validates and commits one company draft.
func (s *Store) SaveCompany(d models.CompanyDraft) Result {
	var prev *models.Company
	if d.ID != "" {
		if existing, ok := s.companies[d.ID]; ok {
			prev = &existing
		}
	}

	cand := models.BuildCompany(prev, d)
	errs := validate.Company(cand)
	if len(errs) > 0 {
		return Result{OK: false, Errors: errs}
	}

	if prev == nil {
		cand.ID = s.allocateID(models.KindCompany)
	}
	s.companies[cand.ID] = cand
	s.rebuildIndexes()

	s.notifyRecordSaved(models.KindCompany, cand.ID)
	return Result{OK: true, ID: cand.ID}
}

// SaveContact validates and commits one contact draft, including the
// company reference check.
func (s *Store) SaveContact(d models.ContactDraft) Result {
	var prev *models.Contact
	if d.ID != "" {
		if existing, ok := s.contacts[d.ID]; ok {
			prev = &existing
		}
	}

	cand := models.BuildContact(prev, d)
	errs := validate.Contact(cand)
	if validate.IDFieldsClean(errs) {
		errs = append(errs, validate.ContactRefs(cand, s)...)
	}
	if len(errs) > 0 {
		return Result{OK: false, Errors: errs}
	}

	if prev == nil {
		cand.ID = s.allocateID(models.KindContact)
	}
	s.contacts[cand.ID] = cand
	s.rebuildIndexes()

	s.notifyRecordSaved(models.KindContact, cand.ID)
	return Result{OK: true, ID: cand.ID}
}

func (s *Store) notifyRecordSaved(kind models.Kind, id string) {
	for _, o := range s.observers {
		o.RecordSaved(kind, id)
	}
}
