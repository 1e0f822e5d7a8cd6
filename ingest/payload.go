// ABOUTME: Import payload loading from JSON files
// ABOUTME: Produces the parsed payload the store's merge consumes
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/pipeline/models"
)

// LoadPayload reads a JSON import payload from disk. File and syntax
// problems are Go errors; record-level problems are the merge's concern.
func LoadPayload(path string) (models.ImportPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.ImportPayload{}, fmt.Errorf("failed to open payload: %w", err)
	}
	defer f.Close()
	return ParsePayload(f)
}

// ParsePayload decodes an import payload from a reader.
func ParsePayload(r io.Reader) (models.ImportPayload, error) {
	var p models.ImportPayload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return models.ImportPayload{}, fmt.Errorf("failed to parse payload: %w", err)
	}
	return p, nil
}
