// ABOUTME: Shared CLI output helpers and lipgloss styles
// ABOUTME: Field errors render one line per violation with the stable code
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/pipeline/models"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	summaryStyle = lipgloss.NewStyle().Bold(true)
)

func printFieldErrors(errs []models.FieldError) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "%s %s: %s %s\n",
			errStyle.Render("✗"), e.Field, e.Message, subtleStyle.Render("("+e.Code+")"))
	}
}

func printSaved(kind models.Kind, id string) {
	fmt.Printf("%s saved %s %s\n", okStyle.Render("✓"), kind, id)
}
