// ABOUTME: Bulk import CLI command
// ABOUTME: Reads a JSON payload or opportunity CSV and reports batch accounting
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/pipeline/ingest"
	"github.com/harperreed/pipeline/models"
	"github.com/harperreed/pipeline/store"
)

// ImportCommand merges a bulk payload into the store and prints the
// added/updated/invalid accounting.
func ImportCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	payloadPath := fs.String("file", "", "JSON import payload")
	csvPath := fs.String("csv", "", "CSV of opportunity rows (alternative to --file)")
	_ = fs.Parse(args)

	var payload models.ImportPayload
	switch {
	case *payloadPath != "":
		p, err := ingest.LoadPayload(*payloadPath)
		if err != nil {
			return err
		}
		payload = p
	case *csvPath != "":
		f, err := os.Open(*csvPath)
		if err != nil {
			return fmt.Errorf("failed to open csv: %w", err)
		}
		defer f.Close()
		rows, err := ingest.ParseOpportunitiesCSV(f)
		if err != nil {
			return err
		}
		payload = models.ImportPayload{OK: true, Rows: rows}
	default:
		return fmt.Errorf("one of --file or --csv is required")
	}

	summary, err := st.MergeImport(payload)
	if errors.Is(err, store.ErrPayloadRejected) {
		return fmt.Errorf("payload rejected, nothing imported")
	}
	if err != nil {
		return err
	}

	if !summary.Applied {
		fmt.Printf("%s batch %s discarded: %d invalid row(s)\n",
			errStyle.Render("✗"), summary.BatchID, summary.Invalid)
		return nil
	}

	fmt.Println(summaryStyle.Render(fmt.Sprintf("batch %s", summary.BatchID)))
	fmt.Printf("  %s added    %d\n", okStyle.Render("+"), summary.Added)
	fmt.Printf("  %s updated  %d\n", okStyle.Render("~"), summary.Updated)
	fmt.Printf("  %s invalid  %d\n", errStyle.Render("!"), summary.Invalid)
	if summary.DroppedCompanies > 0 || summary.DroppedContacts > 0 {
		fmt.Printf("  %s dropped  %d companies, %d contacts (malformed ids)\n",
			subtleStyle.Render("-"), summary.DroppedCompanies, summary.DroppedContacts)
	}
	return nil
}
