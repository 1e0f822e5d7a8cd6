// ABOUTME: Company CLI commands
// ABOUTME: Adding and listing companies, including the client roster
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/pipeline/models"
	"github.com/harperreed/pipeline/store"
)

// AddCompanyCommand saves one company from flags.
func AddCompanyCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add-company", flag.ExitOnError)
	id := fs.String("id", "", "Company id (CMPY-######) to update; empty creates")
	name := fs.String("name", "", "Company name (required on create)")
	isClient := fs.Bool("client", false, "Mark the company as a client")
	country := fs.String("country", "", "Headquarters country")
	website := fs.String("website", "", "Website")
	ctype := fs.String("type", "", "Company type")
	segment := fs.String("segment", "", "Market segment")
	description := fs.String("description", "", "Description")
	_ = fs.Parse(args)

	draft := models.CompanyDraft{ID: *id}
	setIfPassed(fs, "name", &draft.Name, name)
	if passed(fs, "client") {
		draft.IsClient = isClient
	}
	setIfPassed(fs, "country", &draft.HQCountry, country)
	setIfPassed(fs, "website", &draft.Website, website)
	setIfPassed(fs, "type", &draft.Type, ctype)
	setIfPassed(fs, "segment", &draft.Segment, segment)
	setIfPassed(fs, "description", &draft.Description, description)

	res := st.SaveCompany(draft)
	if !res.OK {
		printFieldErrors(res.Errors)
		return fmt.Errorf("company not saved")
	}
	printSaved(models.KindCompany, res.ID)
	return nil
}

// ListCompaniesCommand prints the companies; --clients restricts to the roster.
func ListCompaniesCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list-companies", flag.ExitOnError)
	clientsOnly := fs.Bool("clients", false, "Only show companies flagged as clients")
	_ = fs.Parse(args)

	snap := st.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCLIENT\tTYPE\tSEGMENT\tCOUNTRY")
	for _, c := range snap.Companies {
		if *clientsOnly && !c.IsClient {
			continue
		}
		client := ""
		if c.IsClient {
			client = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, client, c.Type, c.Segment, c.HQCountry)
	}
	return w.Flush()
}
