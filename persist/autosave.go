// ABOUTME: Store observer that persists a snapshot after each committed change
// ABOUTME: Synchronous writes; a failed write is logged, never raised
package persist

import (
	"github.com/rs/zerolog"

	"github.com/harperreed/pipeline/models"
	"github.com/harperreed/pipeline/store"
)

// AutoSaver subscribes to the record store and rewrites the snapshot after
// every committed mutation.
type AutoSaver struct {
	store *store.Store
	snaps *Snapshots
	log   zerolog.Logger
}

// NewAutoSaver builds the observer; the caller subscribes it to the store.
func NewAutoSaver(st *store.Store, snaps *Snapshots, log *zerolog.Logger) *AutoSaver {
	l := zerolog.Nop()
	if log != nil {
		l = *log
	}
	return &AutoSaver{store: st, snaps: snaps, log: l}
}

func (a *AutoSaver) RecordSaved(kind models.Kind, id string) { a.flush() }

func (a *AutoSaver) ImportCompleted(summary models.ImportSummary) { a.flush() }

func (a *AutoSaver) VocabularyReady(counts models.VocabCounts) { a.flush() }

func (a *AutoSaver) StoreReset() { a.flush() }

func (a *AutoSaver) flush() {
	if err := a.snaps.Save(a.store.Snapshot(), a.store.Vocabulary()); err != nil {
		a.log.Error().Err(err).Msg("snapshot write failed")
	}
}
