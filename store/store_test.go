// ABOUTME: Tests for the record store save path and read operations
// ABOUTME: Allocation, idempotent re-save, rejection, cloning, and reset
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/pipeline/models"
)

func strPtr(s string) *string { return &s }

// eventRecorder captures outbound notifications for assertions.
type eventRecorder struct {
	saved     []string
	imports   []models.ImportSummary
	vocabs    []models.VocabCounts
	resets    int
}

func (r *eventRecorder) RecordSaved(kind models.Kind, id string)          { r.saved = append(r.saved, string(kind)+":"+id) }
func (r *eventRecorder) ImportCompleted(summary models.ImportSummary)     { r.imports = append(r.imports, summary) }
func (r *eventRecorder) VocabularyReady(counts models.VocabCounts)        { r.vocabs = append(r.vocabs, counts) }
func (r *eventRecorder) StoreReset()                                      { r.resets++ }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(Options{})
}

func addCompany(t *testing.T, s *Store, name string) string {
	t.Helper()
	res := s.SaveCompany(models.CompanyDraft{Name: strPtr(name)})
	require.True(t, res.OK, "company save failed: %v", res.Errors)
	return res.ID
}

func addContact(t *testing.T, s *Store, name, companyID string) string {
	t.Helper()
	d := models.ContactDraft{DisplayName: strPtr(name)}
	if companyID != "" {
		d.CompanyID = strPtr(companyID)
	}
	res := s.SaveContact(d)
	require.True(t, res.OK, "contact save failed: %v", res.Errors)
	return res.ID
}

func TestSaveOpportunityAllocatesSequentialIDs(t *testing.T) {
	s := newTestStore(t)

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		res := s.SaveOpportunity(models.OpportunityDraft{Name: strPtr(name), SalesStep: strPtr("New")})
		require.True(t, res.OK, "save failed: %v", res.Errors)
		ids = append(ids, res.ID)
	}
	assert.Equal(t, []string{"OPP-000001", "OPP-000002", "OPP-000003"}, ids)
}

func TestSaveResaveIsUpdateNotAdd(t *testing.T) {
	s := newTestStore(t)
	res := s.SaveOpportunity(models.OpportunityDraft{Name: strPtr("Acme renewal"), SalesStep: strPtr("New"), Owner: strPtr("Sam")})
	require.True(t, res.OK)

	again := s.SaveOpportunity(models.OpportunityDraft{ID: res.ID, Name: strPtr("Acme renewal"), SalesStep: strPtr("New"), Owner: strPtr("Sam")})
	require.True(t, again.OK)
	assert.Equal(t, res.ID, again.ID, "re-save must not allocate a new id")

	o, ok := s.Opportunity(res.ID)
	require.True(t, ok)
	assert.Equal(t, "Sam", o.Owner)
	assert.Len(t, s.Snapshot().Opportunities, 1)
}

func TestSaveMergesDraftOverPrevious(t *testing.T) {
	s := newTestStore(t)
	res := s.SaveOpportunity(models.OpportunityDraft{
		Name:      strPtr("Acme renewal"),
		SalesStep: strPtr("New"),
		Owner:     strPtr("Sam"),
		Notes:     strPtr("initial call done"),
	})
	require.True(t, res.OK)

	update := s.SaveOpportunity(models.OpportunityDraft{ID: res.ID, SalesStep: strPtr("Qualified")})
	require.True(t, update.OK)

	o, _ := s.Opportunity(res.ID)
	assert.Equal(t, "Qualified", o.SalesStep)
	assert.Equal(t, "Sam", o.Owner, "omitted fields keep prior values")
	assert.Equal(t, "initial call done", o.Notes)
}

func TestSaveWithUnknownIDCreatesFresh(t *testing.T) {
	s := newTestStore(t)
	res := s.SaveOpportunity(models.OpportunityDraft{ID: "OPP-000042", Name: strPtr("X"), SalesStep: strPtr("New")})
	require.True(t, res.OK)
	assert.Equal(t, "OPP-000001", res.ID, "unknown id allocates fresh, not the supplied one")
	_, ok := s.Opportunity("OPP-000042")
	assert.False(t, ok)
}

func TestSaveRejectsUnknownCompany(t *testing.T) {
	s := newTestStore(t)
	res := s.SaveOpportunity(models.OpportunityDraft{
		Name:      strPtr("X"),
		SalesStep: strPtr("New"),
		CompanyID: strPtr("CMPY-000001"),
	})
	require.False(t, res.OK)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, models.CodeUnknownCompany, res.Errors[0].Code)
	assert.Empty(t, s.Snapshot().Opportunities, "rejected draft must not be committed")
}

func TestSaveReportsFieldAndReferenceErrorsTogether(t *testing.T) {
	s := newTestStore(t)
	res := s.SaveOpportunity(models.OpportunityDraft{
		SalesStep: strPtr("New"),
		CompanyID: strPtr("CMPY-000009"),
	})
	require.False(t, res.OK)

	codes := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		codes = append(codes, e.Code)
	}
	assert.Contains(t, codes, models.CodeRequired, "missing name must still be reported")
	assert.Contains(t, codes, models.CodeUnknownCompany, "a field error must not hide the dangling reference")
}

func TestSaveSkipsReferenceCheckOnMalformedID(t *testing.T) {
	s := newTestStore(t)
	res := s.SaveOpportunity(models.OpportunityDraft{
		Name:      strPtr("X"),
		SalesStep: strPtr("New"),
		CompanyID: strPtr("not-an-id"),
	})
	require.False(t, res.OK)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, models.CodeBadFormat, res.Errors[0].Code, "a malformed id gets the format error only")
}

func TestSaveRejectsContactCompanyMismatch(t *testing.T) {
	s := newTestStore(t)
	acme := addCompany(t, s, "Acme")
	globex := addCompany(t, s, "Globex")
	jane := addContact(t, s, "Jane Doe", acme)

	res := s.SaveOpportunity(models.OpportunityDraft{
		Name:      strPtr("X"),
		SalesStep: strPtr("New"),
		CompanyID: strPtr(globex),
		ContactID: strPtr(jane),
	})
	require.False(t, res.OK)
	assert.Equal(t, models.CodeContactCompanyMismatch, res.Errors[0].Code)
}

func TestSaveValidationFailureKeepsPriorVersion(t *testing.T) {
	s := newTestStore(t)
	res := s.SaveOpportunity(models.OpportunityDraft{Name: strPtr("Acme renewal"), SalesStep: strPtr("New")})
	require.True(t, res.OK)

	bad := s.SaveOpportunity(models.OpportunityDraft{ID: res.ID, SalesStep: strPtr("Won")})
	require.False(t, bad.OK, "Won without closing date must fail")

	o, ok := s.Opportunity(res.ID)
	require.True(t, ok)
	assert.Equal(t, "New", o.SalesStep, "failed update must not mutate the stored record")
}

func TestSaveDispatcherPanicsOnKindMismatch(t *testing.T) {
	s := newTestStore(t)
	assert.Panics(t, func() {
		s.Save(models.KindOpportunity, models.CompanyDraft{})
	})
	assert.Panics(t, func() {
		s.Save(models.Kind("widget"), models.OpportunityDraft{})
	})
}

func TestSaveContactRequiresExistingCompany(t *testing.T) {
	s := newTestStore(t)
	res := s.SaveContact(models.ContactDraft{DisplayName: strPtr("Jane"), CompanyID: strPtr("CMPY-000009")})
	require.False(t, res.OK)
	assert.Equal(t, models.CodeUnknownCompany, res.Errors[0].Code)
}

func TestSaveContactReportsNameAndReferenceErrorsTogether(t *testing.T) {
	s := newTestStore(t)
	res := s.SaveContact(models.ContactDraft{CompanyID: strPtr("CMPY-000009")})
	require.False(t, res.OK)

	codes := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		codes = append(codes, e.Code)
	}
	assert.Contains(t, codes, models.CodeRequired)
	assert.Contains(t, codes, models.CodeUnknownCompany)
}

func TestResolveName(t *testing.T) {
	s := newTestStore(t)
	id := addCompany(t, s, "Acme")

	assert.Equal(t, "Acme", s.ResolveName(models.KindCompany, id))
	assert.Equal(t, "", s.ResolveName(models.KindCompany, "CMPY-000099"))
	assert.Equal(t, "", s.ResolveName(models.KindCompany, "garbage"))
	assert.Panics(t, func() { s.ResolveName(models.Kind("widget"), id) })
}

func TestLookupByName(t *testing.T) {
	s := newTestStore(t)
	id := addCompany(t, s, "Acme")

	got, ok := s.LookupByName(models.KindCompany, "Acme")
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = s.LookupByName(models.KindCompany, "Nonesuch")
	assert.False(t, ok)
}

func TestClientRoster(t *testing.T) {
	s := newTestStore(t)
	isClient := true
	a := s.SaveCompany(models.CompanyDraft{Name: strPtr("Acme"), IsClient: &isClient})
	require.True(t, a.OK)
	b := s.SaveCompany(models.CompanyDraft{Name: strPtr("Globex")})
	require.True(t, b.OK)

	assert.Equal(t, []string{a.ID}, s.Snapshot().ClientList)
}

func TestSnapshotIsDefensiveCopy(t *testing.T) {
	s := newTestStore(t)
	addCompany(t, s, "Acme")

	snap := s.Snapshot()
	snap.Companies[0].Name = "Mutated"
	snap.SalesSteps[0] = "Mutated"

	fresh := s.Snapshot()
	assert.Equal(t, "Acme", fresh.Companies[0].Name)
	assert.Equal(t, models.DefaultSalesSteps[0], fresh.SalesSteps[0])
}

func TestRecordSavedNotification(t *testing.T) {
	s := newTestStore(t)
	rec := &eventRecorder{}
	s.Subscribe(rec)

	res := s.SaveOpportunity(models.OpportunityDraft{Name: strPtr("X"), SalesStep: strPtr("New")})
	require.True(t, res.OK)
	assert.Equal(t, []string{"opportunity:" + res.ID}, rec.saved)

	bad := s.SaveOpportunity(models.OpportunityDraft{SalesStep: strPtr("Nope")})
	require.False(t, bad.OK)
	assert.Len(t, rec.saved, 1, "no notification for a rejected draft")
}

func TestReset(t *testing.T) {
	s := newTestStore(t)
	rec := &eventRecorder{}
	s.Subscribe(rec)
	addCompany(t, s, "Acme")
	require.NoError(t, s.AddVocabularyValue("owners", "Sam"))

	s.Reset()

	assert.Empty(t, s.Snapshot().Companies)
	assert.Empty(t, s.Snapshot().ClientList)
	assert.True(t, s.Vocabulary().IsEmpty())
	assert.Equal(t, models.DefaultSalesSteps, s.SalesSteps())
	assert.Equal(t, 1, rec.resets)

	// Allocation starts over after a reset.
	res := s.SaveCompany(models.CompanyDraft{Name: strPtr("Globex")})
	require.True(t, res.OK)
	assert.Equal(t, "CMPY-000001", res.ID)
}

func TestAddVocabularyValue(t *testing.T) {
	s := newTestStore(t)
	rec := &eventRecorder{}
	s.Subscribe(rec)

	require.NoError(t, s.AddVocabularyValue("owners", "Sam"))
	assert.Equal(t, []string{"Sam"}, s.Vocabulary().Owners)
	require.Len(t, rec.vocabs, 1)
	assert.Equal(t, 1, rec.vocabs[0].Owners)

	assert.Error(t, s.AddVocabularyValue("colors", "Red"))
}

func TestLoadDropsMalformedAndInfersVocabulary(t *testing.T) {
	s := newTestStore(t)
	s.Load(models.Snapshot{
		Companies: []models.Company{
			{ID: "CMPY-000001", Name: "Acme", Type: "Startup"},
			{ID: "CMPY-1", Name: "Broken"},
		},
		Opportunities: []models.Opportunity{
			{ID: "OPP-000001", Name: "X", SalesStep: "New", Owner: "Sam"},
		},
		SalesSteps: []string{"New", "Won"},
	}, models.Vocabulary{})

	snap := s.Snapshot()
	assert.Len(t, snap.Companies, 1)
	assert.Equal(t, []string{"New", "Won"}, snap.SalesSteps)
	assert.Equal(t, []string{"Sam"}, s.Vocabulary().Owners, "empty persisted vocabulary falls back to inference")
	assert.Equal(t, []string{"Startup"}, s.Vocabulary().CompanyTypes)
}
