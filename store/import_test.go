// ABOUTME: Tests for the bulk import merge algorithm
// ABOUTME: Batch accounting, ordering, step replacement, and the atomic flag
package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/pipeline/models"
)

func TestMergeImportRejectsNotOKPayload(t *testing.T) {
	s := newTestStore(t)
	rec := &eventRecorder{}
	s.Subscribe(rec)

	_, err := s.MergeImport(models.ImportPayload{
		OK:        false,
		Companies: []models.Company{{ID: "CMPY-000001", Name: "Acme"}},
	})
	require.ErrorIs(t, err, ErrPayloadRejected)
	assert.Empty(t, s.Snapshot().Companies, "rejected payload must have zero side effects")
	assert.Empty(t, rec.imports)
}

func TestMergeImportBatchAccounting(t *testing.T) {
	s := newTestStore(t)

	// Three pre-existing opportunities whose ids the payload will match.
	var existing []string
	for i := 0; i < 3; i++ {
		res := s.SaveOpportunity(models.OpportunityDraft{Name: strPtr(fmt.Sprintf("Old %d", i)), SalesStep: strPtr("New")})
		require.True(t, res.OK)
		existing = append(existing, res.ID)
	}

	var rows []models.OpportunityDraft
	for i := 0; i < 5; i++ {
		rows = append(rows, models.OpportunityDraft{Name: strPtr(fmt.Sprintf("Fresh %d", i)), SalesStep: strPtr("New")})
	}
	for i := 0; i < 2; i++ {
		rows = append(rows, models.OpportunityDraft{Name: strPtr(fmt.Sprintf("Bad %d", i)), SalesStep: strPtr("New"), CompanyID: strPtr("CMPY-1")})
	}
	for _, id := range existing {
		rows = append(rows, models.OpportunityDraft{ID: id, SalesStep: strPtr("Qualified")})
	}

	summary, err := s.MergeImport(models.ImportPayload{OK: true, Rows: rows})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Added)
	assert.Equal(t, 3, summary.Updated)
	assert.Equal(t, 2, summary.Invalid)
	assert.True(t, summary.Applied)
	assert.NotEmpty(t, summary.BatchID)
	assert.Len(t, s.Snapshot().Opportunities, 8, "invalid rows consume no identifiers")
}

func TestMergeImportDropsMalformedReferenceEntities(t *testing.T) {
	s := newTestStore(t)

	summary, err := s.MergeImport(models.ImportPayload{
		OK: true,
		Companies: []models.Company{
			{ID: "CMPY-000001", Name: "Acme"},
			{ID: "CMPY-1", Name: "Broken"},
		},
		Contacts: []models.Contact{
			{ID: "CON-000001", FirstName: "Jane", LastName: "Doe"},
			{ID: "CON-17", DisplayName: "Broken"},
		},
		Rows: []models.OpportunityDraft{
			{Name: strPtr("Good"), SalesStep: strPtr("New"), CompanyID: strPtr("CMPY-000001")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.DroppedCompanies)
	assert.Equal(t, 1, summary.DroppedContacts)
	assert.Equal(t, 1, summary.Added)

	snap := s.Snapshot()
	require.Len(t, snap.Companies, 1)
	assert.Equal(t, "CMPY-000001", snap.Companies[0].ID)
	require.Len(t, snap.Contacts, 1)
	assert.Equal(t, "Jane Doe", snap.Contacts[0].DisplayName, "display name derives during upsert")
}

func TestMergeImportOpportunityAgainstDroppedCompanyIsInvalid(t *testing.T) {
	s := newTestStore(t)

	summary, err := s.MergeImport(models.ImportPayload{
		OK:        true,
		Companies: []models.Company{{ID: "CMPY-1", Name: "Broken"}},
		Rows: []models.OpportunityDraft{
			{Name: strPtr("Orphan"), SalesStep: strPtr("New"), CompanyID: strPtr("CMPY-000001")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Invalid, "reference to a dropped company must reject the row")
	assert.Empty(t, s.Snapshot().Opportunities)
}

func TestMergeImportCompanyNameDefaultsToID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.MergeImport(models.ImportPayload{
		OK:        true,
		Companies: []models.Company{{ID: "CMPY-000007"}},
	})
	require.NoError(t, err)
	c, ok := s.Company("CMPY-000007")
	require.True(t, ok)
	assert.Equal(t, "CMPY-000007", c.Name)
}

func TestMergeImportReplacesSalesSteps(t *testing.T) {
	s := newTestStore(t)

	summary, err := s.MergeImport(models.ImportPayload{
		OK:         true,
		SalesSteps: []string{"Discovery", "Commit", "Won"},
		Rows: []models.OpportunityDraft{
			{Name: strPtr("Uses new step"), SalesStep: strPtr("Commit")},
			{Name: strPtr("Uses old step"), SalesStep: strPtr("Qualified")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Discovery", "Commit", "Won"}, s.SalesSteps())
	assert.Equal(t, 1, summary.Added, "row on a replaced-in step lands")
	assert.Equal(t, 1, summary.Invalid, "row on a replaced-out step fails in the same merge")

	// The replacement also governs later single-record saves.
	res := s.SaveOpportunity(models.OpportunityDraft{Name: strPtr("After"), SalesStep: strPtr("Qualified")})
	assert.False(t, res.OK)
}

func TestMergeImportVocabularyVerbatimOrInferred(t *testing.T) {
	s := newTestStore(t)

	_, err := s.MergeImport(models.ImportPayload{
		OK: true,
		Rows: []models.OpportunityDraft{
			{Name: strPtr("A"), SalesStep: strPtr("New"), Owner: strPtr("Sam"), LeadSource: strPtr("Referral")},
			{Name: strPtr("B"), SalesStep: strPtr("New"), Owner: strPtr("Alex")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alex", "Sam"}, s.Vocabulary().Owners, "no payload vocab means inference")
	assert.Equal(t, []string{"Referral"}, s.Vocabulary().LeadSources)

	_, err = s.MergeImport(models.ImportPayload{
		OK:    true,
		Vocab: &models.Vocabulary{Owners: []string{"Zoe", " Zoe ", "Amy"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Amy", "Zoe"}, s.Vocabulary().Owners, "payload vocab wins, sanitized")
}

func TestMergeImportNonAtomicKeepsEarlierWrites(t *testing.T) {
	s := newTestStore(t)

	summary, err := s.MergeImport(models.ImportPayload{
		OK: true,
		Rows: []models.OpportunityDraft{
			{Name: strPtr("Good"), SalesStep: strPtr("New")},
			{Name: strPtr("Bad"), SalesStep: strPtr("Nope")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 1, summary.Invalid)
	assert.Len(t, s.Snapshot().Opportunities, 1, "earlier writes survive a later row's failure")
}

func TestMergeImportAtomicDiscardsBatch(t *testing.T) {
	s := New(Options{AtomicImport: true})

	res := s.SaveCompany(models.CompanyDraft{Name: strPtr("Kept")})
	require.True(t, res.OK)

	summary, err := s.MergeImport(models.ImportPayload{
		OK:        true,
		Companies: []models.Company{{ID: "CMPY-000050", Name: "Incoming"}},
		Rows: []models.OpportunityDraft{
			{Name: strPtr("Good"), SalesStep: strPtr("New")},
			{Name: strPtr("Bad"), SalesStep: strPtr("Nope")},
		},
	})
	require.NoError(t, err)
	assert.False(t, summary.Applied)
	assert.Equal(t, 1, summary.Invalid)

	snap := s.Snapshot()
	assert.Empty(t, snap.Opportunities, "atomic batch leaves no partial writes")
	require.Len(t, snap.Companies, 1)
	assert.Equal(t, res.ID, snap.Companies[0].ID, "pre-batch state is restored")
}

func TestMergeImportNotifications(t *testing.T) {
	s := newTestStore(t)
	rec := &eventRecorder{}
	s.Subscribe(rec)

	_, err := s.MergeImport(models.ImportPayload{
		OK: true,
		Rows: []models.OpportunityDraft{
			{Name: strPtr("A"), SalesStep: strPtr("New"), Owner: strPtr("Sam")},
		},
	})
	require.NoError(t, err)

	assert.Empty(t, rec.saved, "import emits no per-record notifications")
	require.Len(t, rec.imports, 1)
	assert.Equal(t, 1, rec.imports[0].Added)
	require.Len(t, rec.vocabs, 1)
	assert.Equal(t, 1, rec.vocabs[0].Owners)
}
