// ABOUTME: Bulk import reconciliation with add/update/invalid accounting
// ABOUTME: Reference entities land first, indexes rebuild, then rows replay the save path
package store

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/pipeline/models"
	"github.com/harperreed/pipeline/vocab"
)

// ErrPayloadRejected reports a payload whose OK flag was not set; the batch
// is ignored wholesale with zero side effects.
var ErrPayloadRejected = errors.New("import payload not ok, batch rejected")

// MergeImport reconciles a bulk payload against the store.
//
// Companies and contacts are upserted behind an id-format gate only; a
// malformed id drops the row, never the batch. A supplied step list replaces
// the configured one before any opportunity is validated. Derived lookups are
// rebuilt once so referential checks see the final reference set. Each row
// then runs the full single-record save path and is counted added, updated,
// or invalid. By default earlier writes survive a later row's failure; with
// AtomicImport the whole batch is discarded when any row is invalid.
func (s *Store) MergeImport(p models.ImportPayload) (models.ImportSummary, error) {
	if !p.OK {
		return models.ImportSummary{}, ErrPayloadRejected
	}

	summary := models.ImportSummary{BatchID: newBatchID(), Applied: true}

	var backup *storeState
	if s.atomicImport {
		backup = s.cloneState()
	}

	for _, c := range p.Companies {
		if !models.ValidID(models.KindCompany, c.ID) {
			summary.DroppedCompanies++
			s.log.Warn().Str("batch", summary.BatchID).Str("id", c.ID).
				Msg("dropping company row with malformed id")
			continue
		}
		if strings.TrimSpace(c.Name) == "" {
			c.Name = c.ID
		}
		s.companies[c.ID] = c
	}

	for _, c := range p.Contacts {
		if !models.ValidID(models.KindContact, c.ID) {
			summary.DroppedContacts++
			s.log.Warn().Str("batch", summary.BatchID).Str("id", c.ID).
				Msg("dropping contact row with malformed id")
			continue
		}
		if strings.TrimSpace(c.DisplayName) == "" {
			c.DisplayName = models.DeriveDisplayName(c.FirstName, c.LastName)
		}
		s.contacts[c.ID] = c
	}

	if len(p.SalesSteps) > 0 {
		s.salesSteps = append([]string(nil), p.SalesSteps...)
	}

	// Opportunity referential checks must see the final reference set.
	s.rebuildIndexes()

	for i, row := range p.Rows {
		if !rowPrecheckOK(row) {
			summary.Invalid++
			s.log.Warn().Str("batch", summary.BatchID).Int("row", i).
				Msg("skipping row with malformed identifier")
			continue
		}
		res, updated := s.saveOpportunity(row, false)
		switch {
		case !res.OK:
			summary.Invalid++
			s.log.Warn().Str("batch", summary.BatchID).Int("row", i).
				Interface("errors", res.Errors).Msg("row failed validation")
		case updated:
			summary.Updated++
		default:
			summary.Added++
		}
	}

	if s.atomicImport && summary.Invalid > 0 {
		s.restoreState(backup)
		summary.Applied = false
		s.log.Warn().Str("batch", summary.BatchID).Int("invalid", summary.Invalid).
			Msg("atomic import discarded, invalid rows present")
		return summary, nil
	}

	if p.Vocab != nil {
		s.vocabulary = vocab.Sanitize(*p.Vocab)
	} else {
		s.vocabulary = vocab.Infer(s.opportunitySlice(), s.companySlice())
	}

	s.log.Info().Str("batch", summary.BatchID).
		Int("added", summary.Added).Int("updated", summary.Updated).Int("invalid", summary.Invalid).
		Msg("import merge completed")

	for _, o := range s.observers {
		o.ImportCompleted(summary)
	}
	counts := s.vocabulary.Counts()
	for _, o := range s.observers {
		o.VocabularyReady(counts)
	}
	return summary, nil
}

// rowPrecheckOK is the cheap format gate a row must clear before the save
// path runs; a failing row never consumes an identifier.
func rowPrecheckOK(d models.OpportunityDraft) bool {
	if d.ID != "" && !models.ValidID(models.KindOpportunity, d.ID) {
		return false
	}
	if d.CompanyID != nil && *d.CompanyID != "" && !models.ValidID(models.KindCompany, *d.CompanyID) {
		return false
	}
	if d.ContactID != nil && *d.ContactID != "" && !models.ValidID(models.KindContact, *d.ContactID) {
		return false
	}
	return true
}

type storeState struct {
	opportunities map[string]models.Opportunity
	companies     map[string]models.Company
	contacts      map[string]models.Contact
	salesSteps    []string
	vocabulary    models.Vocabulary
}

func (s *Store) cloneState() *storeState {
	st := &storeState{
		opportunities: make(map[string]models.Opportunity, len(s.opportunities)),
		companies:     make(map[string]models.Company, len(s.companies)),
		contacts:      make(map[string]models.Contact, len(s.contacts)),
		salesSteps:    append([]string(nil), s.salesSteps...),
		vocabulary:    s.Vocabulary(),
	}
	for id, o := range s.opportunities {
		st.opportunities[id] = o
	}
	for id, c := range s.companies {
		st.companies[id] = c
	}
	for id, c := range s.contacts {
		st.contacts[id] = c
	}
	return st
}

func (s *Store) restoreState(st *storeState) {
	s.opportunities = st.opportunities
	s.companies = st.companies
	s.contacts = st.contacts
	s.salesSteps = st.salesSteps
	s.vocabulary = st.vocabulary
	s.rebuildIndexes()
}

func newBatchID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
