// ABOUTME: Entry point for the pipeline record store CLI
// ABOUTME: Wires config, logging, snapshot persistence, and the record store
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/harperreed/pipeline/cli"
	"github.com/harperreed/pipeline/config"
	"github.com/harperreed/pipeline/logger"
	"github.com/harperreed/pipeline/persist"
	"github.com/harperreed/pipeline/store"
)

const version = "0.2.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dataDir := flag.String("data-dir", "", "Data directory (default: ~/.local/share/pipeline)")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("pipeline version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	// .env entries become PIPELINE_* config before viper reads the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	log := logger.New(cfg.LogEnv, cfg.LogLevel)

	snaps, err := persist.Open(cfg.SnapshotPath(), &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open snapshot database")
	}
	defer snaps.Close()

	st := store.New(store.Options{Logger: &log, AtomicImport: cfg.AtomicImport})
	snap, vocabState, found, err := snaps.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load snapshot")
	}
	if found {
		st.Load(snap, vocabState)
	}
	st.Subscribe(persist.NewAutoSaver(st, snaps, &log))

	command := args[0]
	commandArgs := args[1:]

	run := func(err error) {
		if err != nil {
			log.Fatal().Err(err).Msg("command failed")
		}
	}

	switch command {
	// Opportunity commands
	case "add-opp":
		run(cli.AddOpportunityCommand(st, commandArgs))
	case "list-opps":
		run(cli.ListOpportunitiesCommand(st, commandArgs))
	case "show-opp":
		run(cli.ShowOpportunityCommand(st, commandArgs))

	// Company commands
	case "add-company":
		run(cli.AddCompanyCommand(st, commandArgs))
	case "list-companies":
		run(cli.ListCompaniesCommand(st, commandArgs))

	// Contact commands
	case "add-contact":
		run(cli.AddContactCommand(st, commandArgs))
	case "list-contacts":
		run(cli.ListContactsCommand(st, commandArgs))

	// Bulk and maintenance commands
	case "import":
		run(cli.ImportCommand(st, commandArgs))
	case "vocab":
		run(cli.VocabCommand(st, commandArgs))
	case "vocab-add":
		run(cli.AddVocabCommand(st, commandArgs))
	case "steps":
		run(cli.StepsCommand(st, commandArgs))
	case "reset":
		run(cli.ResetCommand(st, commandArgs))

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`pipeline v%s - schema-validated sales record store

USAGE:
  pipeline [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --data-dir <path>      Data directory (default: ~/.local/share/pipeline)

COMMANDS:
  pipeline add-opp          Add or update an opportunity
    --id <OPP-######>         Update an existing record
    --name <name>             Opportunity name (required on create)
    --step <step>             Sales step (see 'steps')
    --company <CMPY-######>   Company reference
    --contact <CON-######>    Contact reference
    --closing-date <date>     Closing date, YYYY-MM-DD (required once Won)
    --closing-value <n>       Closing value

  pipeline list-opps        List opportunities
    --step <step>             Filter by sales step

  pipeline show-opp --id <OPP-######>   Show one opportunity

  pipeline add-company      Add or update a company
    --name <name>             Company name (required on create)
    --client                  Mark as client

  pipeline list-companies   List companies
    --clients                 Only the client roster

  pipeline add-contact      Add or update a contact
    --name | --first/--last   Some name is required
    --company <CMPY-######>   Company reference

  pipeline list-contacts    List contacts

  pipeline import           Bulk import
    --file <payload.json>     Full JSON payload
    --csv <rows.csv>          Opportunity rows only

  pipeline vocab            Show the controlled vocabulary
  pipeline vocab-add        Add a vocabulary value
    --kind <kind> --value <v>

  pipeline steps            Show the configured sales steps
  pipeline reset --force    Clear every collection (irreversible)

EXAMPLES:
  pipeline add-company --name "Acme Corp" --client
  pipeline add-opp --name "Acme renewal" --step Qualified --company CMPY-000001
  pipeline import --file export.json
`, version)
}
