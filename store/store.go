// ABOUTME: In-memory record store owning the authoritative collections
// ABOUTME: The only mutable state; rebuilds derived indexes after every commit
package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harperreed/pipeline/models"
	"github.com/harperreed/pipeline/vocab"
)

// Result is the outcome of a single-record save. Save never returns a Go
// error for invalid input; the violations ride in Errors.
type Result struct {
	OK     bool               `json:"ok"`
	ID     string             `json:"id,omitempty"`
	Errors []models.FieldError `json:"errors,omitempty"`
}

// Observer receives outbound notifications after committed state changes.
type Observer interface {
	RecordSaved(kind models.Kind, id string)
	ImportCompleted(summary models.ImportSummary)
	VocabularyReady(counts models.VocabCounts)
	StoreReset()
}

// Options configures a Store.
type Options struct {
	// Logger defaults to a no-op logger when nil.
	Logger *zerolog.Logger
	// AtomicImport discards the whole merge batch when any row is invalid
	// instead of keeping earlier successful writes.
	AtomicImport bool
}

// Store holds the three entity collections, the runtime step list and
// vocabulary, and the derived lookups. Single-writer; not safe for
// concurrent mutation.
type Store struct {
	opportunities map[string]models.Opportunity
	companies     map[string]models.Company
	contacts      map[string]models.Contact

	salesSteps []string
	vocabulary models.Vocabulary

	nameIndex  map[models.Kind]map[string]string
	clientList []string

	observers    []Observer
	log          zerolog.Logger
	atomicImport bool
}

// New creates an empty store with the default sales-step list.
func New(opts Options) *Store {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	s := &Store{
		log:          log,
		atomicImport: opts.AtomicImport,
	}
	s.clear()
	return s
}

// Subscribe registers an observer for outbound notifications.
func (s *Store) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// Load replaces the store contents from a persisted snapshot. Records with
// malformed ids are dropped, mirroring import behavior. An empty persisted
// vocabulary falls back to inference over the loaded collections.
func (s *Store) Load(snap models.Snapshot, v models.Vocabulary) {
	s.clear()
	for _, c := range snap.Companies {
		if !models.ValidID(models.KindCompany, c.ID) {
			s.log.Warn().Str("id", c.ID).Msg("dropping persisted company with malformed id")
			continue
		}
		if strings.TrimSpace(c.Name) == "" {
			c.Name = c.ID
		}
		s.companies[c.ID] = c
	}
	for _, c := range snap.Contacts {
		if !models.ValidID(models.KindContact, c.ID) {
			s.log.Warn().Str("id", c.ID).Msg("dropping persisted contact with malformed id")
			continue
		}
		if strings.TrimSpace(c.DisplayName) == "" {
			c.DisplayName = models.DeriveDisplayName(c.FirstName, c.LastName)
		}
		s.contacts[c.ID] = c
	}
	for _, o := range snap.Opportunities {
		if !models.ValidID(models.KindOpportunity, o.ID) {
			s.log.Warn().Str("id", o.ID).Msg("dropping persisted opportunity with malformed id")
			continue
		}
		s.opportunities[o.ID] = o
	}
	if len(snap.SalesSteps) > 0 {
		s.salesSteps = append([]string(nil), snap.SalesSteps...)
	}
	if v.IsEmpty() {
		s.vocabulary = vocab.Infer(s.opportunitySlice(), s.companySlice())
	} else {
		s.vocabulary = vocab.Sanitize(v)
	}
	s.rebuildIndexes()
}

// Reset clears all collections, indexes, and vocabulary. Irreversible within
// the process.
func (s *Store) Reset() {
	s.clear()
	for _, o := range s.observers {
		o.StoreReset()
	}
}

func (s *Store) clear() {
	s.opportunities = make(map[string]models.Opportunity)
	s.companies = make(map[string]models.Company)
	s.contacts = make(map[string]models.Contact)
	s.salesSteps = append([]string(nil), models.DefaultSalesSteps...)
	s.vocabulary = models.Vocabulary{}
	s.rebuildIndexes()
}

// Opportunity returns a copy of the stored record, false for malformed or
// unknown ids.
func (s *Store) Opportunity(id string) (models.Opportunity, bool) {
	o, ok := s.opportunities[id]
	return o, ok
}

// Company returns a copy of the stored record.
func (s *Store) Company(id string) (models.Company, bool) {
	c, ok := s.companies[id]
	return c, ok
}

// Contact returns a copy of the stored record.
func (s *Store) Contact(id string) (models.Contact, bool) {
	c, ok := s.contacts[id]
	return c, ok
}

// HasCompany implements validate.Resolver.
func (s *Store) HasCompany(id string) bool {
	_, ok := s.companies[id]
	return ok
}

// ContactByID implements validate.Resolver.
func (s *Store) ContactByID(id string) (models.Contact, bool) {
	return s.Contact(id)
}

// ResolveName returns the display name for an id, or "" for malformed or
// unknown ids. Never errors for bad data; panics only on an unknown kind.
func (s *Store) ResolveName(kind models.Kind, id string) string {
	switch kind {
	case models.KindOpportunity:
		if o, ok := s.opportunities[id]; ok {
			return o.Name
		}
	case models.KindCompany:
		if c, ok := s.companies[id]; ok {
			return c.Name
		}
	case models.KindContact:
		if c, ok := s.contacts[id]; ok {
			return c.DisplayName
		}
	default:
		panic(fmt.Sprintf("store: unknown entity kind %q", kind))
	}
	return ""
}

// LookupByName returns the id indexed under a display name for autocomplete.
func (s *Store) LookupByName(kind models.Kind, name string) (string, bool) {
	idx, ok := s.nameIndex[kind]
	if !ok {
		panic(fmt.Sprintf("store: unknown entity kind %q", kind))
	}
	id, ok := idx[name]
	return id, ok
}

// Snapshot returns an independent copy of the authoritative collections.
// Callers may mutate it freely.
func (s *Store) Snapshot() models.Snapshot {
	return models.Snapshot{
		Opportunities: s.opportunitySlice(),
		Companies:     s.companySlice(),
		Contacts:      s.contactSlice(),
		SalesSteps:    append([]string(nil), s.salesSteps...),
		ClientList:    append([]string(nil), s.clientList...),
	}
}

// SalesSteps returns a copy of the configured step list.
func (s *Store) SalesSteps() []string {
	return append([]string(nil), s.salesSteps...)
}

// Vocabulary returns a copy of the current vocabulary.
func (s *Store) Vocabulary() models.Vocabulary {
	return models.Vocabulary{
		LeadSources:     append([]string(nil), s.vocabulary.LeadSources...),
		CompanyTypes:    append([]string(nil), s.vocabulary.CompanyTypes...),
		CompanySegments: append([]string(nil), s.vocabulary.CompanySegments...),
		Owners:          append([]string(nil), s.vocabulary.Owners...),
	}
}

// AddVocabularyValue appends one value to the named vocabulary list.
func (s *Store) AddVocabularyValue(kind, value string) error {
	if err := vocab.Add(&s.vocabulary, kind, value); err != nil {
		return err
	}
	counts := s.vocabulary.Counts()
	for _, o := range s.observers {
		o.VocabularyReady(counts)
	}
	return nil
}

// rebuildIndexes recomputes the name lookups and client roster from the
// authoritative maps. Derived state is never edited in place.
func (s *Store) rebuildIndexes() {
	idx := map[models.Kind]map[string]string{
		models.KindOpportunity: make(map[string]string, len(s.opportunities)),
		models.KindCompany:     make(map[string]string, len(s.companies)),
		models.KindContact:     make(map[string]string, len(s.contacts)),
	}
	for id, o := range s.opportunities {
		idx[models.KindOpportunity][o.Name] = id
	}
	clients := make([]string, 0)
	for id, c := range s.companies {
		idx[models.KindCompany][c.Name] = id
		if c.IsClient {
			clients = append(clients, id)
		}
	}
	for id, c := range s.contacts {
		idx[models.KindContact][c.DisplayName] = id
	}
	sort.Strings(clients)
	s.nameIndex = idx
	s.clientList = clients
}

func (s *Store) opportunitySlice() []models.Opportunity {
	out := make([]models.Opportunity, 0, len(s.opportunities))
	for _, o := range s.opportunities {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) companySlice() []models.Company {
	out := make([]models.Company, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) contactSlice() []models.Contact {
	out := make([]models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
