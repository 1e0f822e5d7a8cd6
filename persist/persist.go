// ABOUTME: Snapshot persistence on BadgerDB as independent keyed JSON blobs
// ABOUTME: One blob per collection plus vocabulary and a write manifest
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harperreed/pipeline/models"
)

const (
	keyOpportunities = "opportunities"
	keyCompanies     = "companies"
	keyContacts      = "contacts"
	keySalesSteps    = "sales_steps"
	keyClientList    = "client_list"
	keyVocabulary    = "vocabulary"
	keyManifest      = "manifest"
)

// Manifest records when and what the last snapshot write contained.
type Manifest struct {
	ID            string `json:"id"`
	SavedAt       string `json:"saved_at"`
	Opportunities int    `json:"opportunities"`
	Companies     int    `json:"companies"`
	Contacts      int    `json:"contacts"`
}

// Snapshots wraps a badger database holding the persisted store state.
type Snapshots struct {
	db  *badger.DB
	log zerolog.Logger
}

// Open opens (or creates) the snapshot database at path.
func Open(path string, log *zerolog.Logger) (*Snapshots, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db: %w", err)
	}
	return newSnapshots(db, log), nil
}

// OpenInMemory opens a throwaway in-memory snapshot database for tests.
func OpenInMemory(log *zerolog.Logger) (*Snapshots, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory snapshot db: %w", err)
	}
	return newSnapshots(db, log), nil
}

func newSnapshots(db *badger.DB, log *zerolog.Logger) *Snapshots {
	l := zerolog.Nop()
	if log != nil {
		l = *log
	}
	return &Snapshots{db: db, log: l}
}

// Close releases the underlying database.
func (s *Snapshots) Close() error {
	return s.db.Close()
}

// Save writes the snapshot and vocabulary in one transaction. Each blob is
// independently keyed so a reader can pick up a single collection without the rest.
func (s *Snapshots) Save(snap models.Snapshot, v models.Vocabulary) error {
	manifest := Manifest{
		ID:            uuid.New().String(),
		SavedAt:       time.Now().UTC().Format(time.RFC3339),
		Opportunities: len(snap.Opportunities),
		Companies:     len(snap.Companies),
		Contacts:      len(snap.Contacts),
	}

	blobs := map[string]any{
		keyOpportunities: snap.Opportunities,
		keyCompanies:     snap.Companies,
		keyContacts:      snap.Contacts,
		keySalesSteps:    snap.SalesSteps,
		keyClientList:    snap.ClientList,
		keyVocabulary:    v,
		keyManifest:      manifest,
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for key, value := range blobs {
			data, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("failed to marshal %s: %w", key, err)
			}
			if err := txn.Set([]byte(key), data); err != nil {
				return fmt.Errorf("failed to set %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug().Str("manifest", manifest.ID).
		Int("opportunities", manifest.Opportunities).
		Int("companies", manifest.Companies).
		Int("contacts", manifest.Contacts).
		Msg("snapshot written")
	return nil
}

// Load reads the persisted snapshot. The found flag is false when no
// snapshot has been written yet.
func (s *Snapshots) Load() (models.Snapshot, models.Vocabulary, bool, error) {
	var snap models.Snapshot
	var v models.Vocabulary
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		targets := map[string]any{
			keyOpportunities: &snap.Opportunities,
			keyCompanies:     &snap.Companies,
			keyContacts:      &snap.Contacts,
			keySalesSteps:    &snap.SalesSteps,
			keyClientList:    &snap.ClientList,
			keyVocabulary:    &v,
		}
		for key, target := range targets {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", key, err)
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("failed to copy %s: %w", key, err)
			}
			if err := json.Unmarshal(data, target); err != nil {
				return fmt.Errorf("failed to decode %s: %w", key, err)
			}
			found = true
		}
		return nil
	})
	if err != nil {
		return models.Snapshot{}, models.Vocabulary{}, false, err
	}
	return snap, v, found, nil
}

// LoadManifest returns the manifest of the last write, if any.
func (s *Snapshots) LoadManifest() (Manifest, bool, error) {
	var m Manifest
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyManifest))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return Manifest{}, false, fmt.Errorf("failed to read manifest: %w", err)
	}
	return m, found, nil
}
