// ABOUTME: Sequential identifier allocation per entity kind
// ABOUTME: Next six-digit zero-padded id after the maximum in use
package store

import "github.com/harperreed/pipeline/models"

// NextID returns the next unused identifier for kind given the ids currently
// in use. Ids that do not match the strict format are ignored, never errors.
// Monotonic within a single process; nothing guards concurrent allocators.
func NextID(kind models.Kind, existing []string) string {
	max := 0
	for _, id := range existing {
		if n, ok := models.IDNumber(kind, id); ok && n > max {
			max = n
		}
	}
	return models.FormatID(kind, max+1)
}

func (s *Store) allocateID(kind models.Kind) string {
	var ids []string
	switch kind {
	case models.KindOpportunity:
		ids = make([]string, 0, len(s.opportunities))
		for id := range s.opportunities {
			ids = append(ids, id)
		}
	case models.KindCompany:
		ids = make([]string, 0, len(s.companies))
		for id := range s.companies {
			ids = append(ids, id)
		}
	case models.KindContact:
		ids = make([]string, 0, len(s.contacts))
		for id := range s.contacts {
			ids = append(ids, id)
		}
	}
	return NextID(kind, ids)
}
