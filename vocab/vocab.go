// ABOUTME: Controlled vocabulary derivation and maintenance
// ABOUTME: Trimmed, deduplicated, lexicographically sorted value sets
package vocab

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/pipeline/models"
)

// Vocabulary kind names accepted by Add.
const (
	KindLeadSources     = "leadSources"
	KindCompanyTypes    = "companyTypes"
	KindCompanySegments = "companySegments"
	KindOwners          = "owners"
)

// Infer scans the final collections for candidate values: lead source and
// owner from opportunities, type and segment from companies. Deterministic
// regardless of input ordering.
func Infer(opportunities []models.Opportunity, companies []models.Company) models.Vocabulary {
	var leadSources, owners, types, segments []string
	for _, o := range opportunities {
		leadSources = append(leadSources, o.LeadSource)
		owners = append(owners, o.Owner)
	}
	for _, c := range companies {
		types = append(types, c.Type)
		segments = append(segments, c.Segment)
	}
	return models.Vocabulary{
		LeadSources:     normalize(leadSources),
		CompanyTypes:    normalize(types),
		CompanySegments: normalize(segments),
		Owners:          normalize(owners),
	}
}

// Sanitize runs an externally supplied vocabulary through the same
// trim/dedupe/sort pipeline as inference.
func Sanitize(v models.Vocabulary) models.Vocabulary {
	return models.Vocabulary{
		LeadSources:     normalize(v.LeadSources),
		CompanyTypes:    normalize(v.CompanyTypes),
		CompanySegments: normalize(v.CompanySegments),
		Owners:          normalize(v.Owners),
	}
}

// Add appends one normalized value to the named list if not already present,
// keeping the list sorted. Unknown kinds and empty values are errors, not
// panics.
func Add(v *models.Vocabulary, kind, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("vocabulary value must not be empty")
	}

	var list *[]string
	switch kind {
	case KindLeadSources:
		list = &v.LeadSources
	case KindCompanyTypes:
		list = &v.CompanyTypes
	case KindCompanySegments:
		list = &v.CompanySegments
	case KindOwners:
		list = &v.Owners
	default:
		return fmt.Errorf("unknown vocabulary kind: %s", kind)
	}

	for _, existing := range *list {
		if existing == value {
			return nil
		}
	}
	*list = append(*list, value)
	sort.Strings(*list)
	return nil
}

// normalize trims values, drops empties, dedupes case-sensitively, and sorts.
func normalize(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
