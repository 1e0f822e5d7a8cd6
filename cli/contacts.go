// ABOUTME: Contact CLI commands
// ABOUTME: Adding and listing contacts with company resolution
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/pipeline/models"
	"github.com/harperreed/pipeline/store"
)

// AddContactCommand saves one contact from flags.
func AddContactCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	id := fs.String("id", "", "Contact id (CON-######) to update; empty creates")
	displayName := fs.String("name", "", "Display name (derived from first/last when omitted)")
	firstName := fs.String("first", "", "First name")
	lastName := fs.String("last", "", "Last name")
	companyID := fs.String("company", "", "Company id (CMPY-######)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	_ = fs.Parse(args)

	draft := models.ContactDraft{ID: *id}
	setIfPassed(fs, "name", &draft.DisplayName, displayName)
	setIfPassed(fs, "first", &draft.FirstName, firstName)
	setIfPassed(fs, "last", &draft.LastName, lastName)
	setIfPassed(fs, "company", &draft.CompanyID, companyID)
	setIfPassed(fs, "email", &draft.Email, email)
	setIfPassed(fs, "phone", &draft.Phone, phone)

	res := st.SaveContact(draft)
	if !res.OK {
		printFieldErrors(res.Errors)
		return fmt.Errorf("contact not saved")
	}
	printSaved(models.KindContact, res.ID)
	return nil
}

// ListContactsCommand prints the contacts with their company names resolved.
func ListContactsCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	_ = fs.Parse(args)

	snap := st.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY")
	for _, c := range snap.Contacts {
		company := st.ResolveName(models.KindCompany, c.CompanyID)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.DisplayName, c.Email, c.Phone, company)
	}
	return w.Flush()
}
