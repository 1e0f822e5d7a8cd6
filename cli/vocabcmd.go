// ABOUTME: Vocabulary and store maintenance CLI commands
// ABOUTME: Shows controlled value sets, adds values, prints steps, resets the store
package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/harperreed/pipeline/store"
)

// VocabCommand prints the current controlled vocabulary.
func VocabCommand(st *store.Store, args []string) error {
	v := st.Vocabulary()
	fmt.Printf("lead sources:     %s\n", strings.Join(v.LeadSources, ", "))
	fmt.Printf("company types:    %s\n", strings.Join(v.CompanyTypes, ", "))
	fmt.Printf("company segments: %s\n", strings.Join(v.CompanySegments, ", "))
	fmt.Printf("owners:           %s\n", strings.Join(v.Owners, ", "))
	return nil
}

// AddVocabCommand appends one value to a vocabulary list.
func AddVocabCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("vocab-add", flag.ExitOnError)
	kind := fs.String("kind", "", "Vocabulary kind: leadSources, companyTypes, companySegments, owners")
	value := fs.String("value", "", "Value to add")
	_ = fs.Parse(args)

	if err := st.AddVocabularyValue(*kind, *value); err != nil {
		return err
	}
	fmt.Printf("%s added %q to %s\n", okStyle.Render("✓"), *value, *kind)
	return nil
}

// StepsCommand prints the configured sales-step list in order.
func StepsCommand(st *store.Store, args []string) error {
	for i, step := range st.SalesSteps() {
		fmt.Printf("%d. %s\n", i+1, step)
	}
	return nil
}

// ResetCommand clears every collection after an explicit confirmation flag.
func ResetCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	force := fs.Bool("force", false, "Required; the reset is irreversible")
	_ = fs.Parse(args)

	if !*force {
		return fmt.Errorf("reset is irreversible; pass --force to proceed")
	}
	st.Reset()
	fmt.Printf("%s store reset\n", okStyle.Render("✓"))
	return nil
}
