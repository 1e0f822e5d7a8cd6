// ABOUTME: CSV parsing for opportunity rows
// ABOUTME: Header-mapped columns; cell problems surface per row, not per file
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/harperreed/pipeline/models"
)

// ParseOpportunitiesCSV reads opportunity drafts from CSV. The first record
// is a header naming draft fields (id, name, salesStep, client, owner,
// companyId, contactId, leadSource, notes, nextAction, nextActionDate,
// closingDate, closingValue). Empty cells are treated as absent. An
// unparseable closingValue becomes NaN so the merge counts that one row
// invalid instead of aborting the file.
func ParseOpportunitiesCSV(r io.Reader) ([]models.OpportunityDraft, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var rows []models.OpportunityDraft
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		d := models.OpportunityDraft{
			ID:             cell("id"),
			Name:           optional(cell("name")),
			SalesStep:      optional(cell("salesStep")),
			Client:         optional(cell("client")),
			Owner:          optional(cell("owner")),
			CompanyID:      optional(cell("companyId")),
			ContactID:      optional(cell("contactId")),
			LeadSource:     optional(cell("leadSource")),
			Notes:          optional(cell("notes")),
			NextAction:     optional(cell("nextAction")),
			NextActionDate: optional(cell("nextActionDate")),
			ClosingDate:    optional(cell("closingDate")),
		}

		if raw := cell("closingValue"); raw != "" {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				value = math.NaN()
			}
			d.ClosingValue = &value
		}

		rows = append(rows, d)
	}
	return rows, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
