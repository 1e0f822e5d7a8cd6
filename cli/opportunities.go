// ABOUTME: Opportunity CLI commands
// ABOUTME: Human-friendly commands for adding, listing, and showing opportunities
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/pipeline/models"
	"github.com/harperreed/pipeline/store"
)

// AddOpportunityCommand saves one opportunity from flags. With --id it
// updates the stored record; omitted flags keep their prior values.
func AddOpportunityCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add-opp", flag.ExitOnError)
	id := fs.String("id", "", "Opportunity id (OPP-######) to update; empty creates")
	name := fs.String("name", "", "Opportunity name (required on create)")
	step := fs.String("step", "", "Sales step (see 'steps' for the configured list)")
	client := fs.String("client", "", "Client name")
	owner := fs.String("owner", "", "Owner")
	companyID := fs.String("company", "", "Company id (CMPY-######)")
	contactID := fs.String("contact", "", "Contact id (CON-######)")
	leadSource := fs.String("source", "", "Lead source")
	notes := fs.String("notes", "", "Notes")
	nextAction := fs.String("next-action", "", "Next action")
	nextActionDate := fs.String("next-action-date", "", "Next action date (YYYY-MM-DD)")
	closingDate := fs.String("closing-date", "", "Closing date (YYYY-MM-DD)")
	closingValue := fs.Float64("closing-value", 0, "Closing value")
	_ = fs.Parse(args)

	draft := models.OpportunityDraft{ID: *id}
	setIfPassed(fs, "name", &draft.Name, name)
	setIfPassed(fs, "step", &draft.SalesStep, step)
	setIfPassed(fs, "client", &draft.Client, client)
	setIfPassed(fs, "owner", &draft.Owner, owner)
	setIfPassed(fs, "company", &draft.CompanyID, companyID)
	setIfPassed(fs, "contact", &draft.ContactID, contactID)
	setIfPassed(fs, "source", &draft.LeadSource, leadSource)
	setIfPassed(fs, "notes", &draft.Notes, notes)
	setIfPassed(fs, "next-action", &draft.NextAction, nextAction)
	setIfPassed(fs, "next-action-date", &draft.NextActionDate, nextActionDate)
	setIfPassed(fs, "closing-date", &draft.ClosingDate, closingDate)
	if passed(fs, "closing-value") {
		draft.ClosingValue = closingValue
	}

	res := st.SaveOpportunity(draft)
	if !res.OK {
		printFieldErrors(res.Errors)
		return fmt.Errorf("opportunity not saved")
	}
	printSaved(models.KindOpportunity, res.ID)
	return nil
}

// ListOpportunitiesCommand prints the opportunities, optionally filtered by step.
func ListOpportunitiesCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list-opps", flag.ExitOnError)
	step := fs.String("step", "", "Only show opportunities in this sales step")
	_ = fs.Parse(args)

	snap := st.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTEP\tOWNER\tCOMPANY\tVALUE\tCLOSING")
	for _, o := range snap.Opportunities {
		if *step != "" && o.SalesStep != *step {
			continue
		}
		company := st.ResolveName(models.KindCompany, o.CompanyID)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			o.ID, o.Name, o.SalesStep, o.Owner, company, o.ClosingValue, o.ClosingDate)
	}
	return w.Flush()
}

// ShowOpportunityCommand prints one opportunity with resolved references.
func ShowOpportunityCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("show-opp", flag.ExitOnError)
	id := fs.String("id", "", "Opportunity id (required)")
	_ = fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("--id is required")
	}
	o, ok := st.Opportunity(*id)
	if !ok {
		return fmt.Errorf("no opportunity with id %s", *id)
	}

	fmt.Printf("%s\n", summaryStyle.Render(o.Name))
	fmt.Printf("  id:           %s\n", o.ID)
	fmt.Printf("  step:         %s\n", o.SalesStep)
	fmt.Printf("  client:       %s\n", o.Client)
	fmt.Printf("  owner:        %s\n", o.Owner)
	if o.CompanyID != "" {
		fmt.Printf("  company:      %s (%s)\n", st.ResolveName(models.KindCompany, o.CompanyID), o.CompanyID)
	}
	if o.ContactID != "" {
		fmt.Printf("  contact:      %s (%s)\n", st.ResolveName(models.KindContact, o.ContactID), o.ContactID)
	}
	if o.LeadSource != "" {
		fmt.Printf("  lead source:  %s\n", o.LeadSource)
	}
	if o.NextAction != "" {
		fmt.Printf("  next action:  %s (%s)\n", o.NextAction, o.NextActionDate)
	}
	fmt.Printf("  value:        %.2f\n", o.ClosingValue)
	if o.ClosingDate != "" {
		fmt.Printf("  closing:      %s\n", o.ClosingDate)
	}
	if o.Notes != "" {
		fmt.Printf("  notes:        %s\n", o.Notes)
	}
	return nil
}

// setIfPassed copies a flag value into a draft field only when the flag was
// explicitly set, so the save keeps stored values for omitted flags.
func setIfPassed(fs *flag.FlagSet, name string, dst **string, value *string) {
	if passed(fs, name) {
		*dst = value
	}
}

func passed(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
