package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mvdburg/stamboom/api"
	"github.com/mvdburg/stamboom/log"
	"github.com/mvdburg/stamboom/mcp"
	"github.com/spf13/cobra"
)

var (
	// Root command
	rootCmd = &cobra.Command{
		Use:           "stamboom",
		Short:         "Search Dutch genealogy and war archives",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: `stamboom searches Dutch civil records, the WikiTree family-tree wiki,
and two Holocaust-documentation archives from one terminal, pacing its
requests to stay within each source's rate budget.

Searches against the civil-records source use a small query language:
join up to three names with '&', use a single '&~&' for a fuzzy match
between two names, quote only the first name, and end the query with a
year or year range (an open range like "1824-" runs to the present).`,
	}

	// Version information
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Version command
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stamboom version %s\n", Version)
			fmt.Printf("  commit: %s\n", Commit)
			fmt.Printf("  built:  %s\n", Date)
		},
	}

	// Shared upstream clients; one per source so every command spends
	// the same rate-limit budget
	clients = initClients()
)

// initClients loads optional settings from .env before the clients
// capture them, and turns on HTTP traffic logging in debug mode
func initClients() *api.Clients {
	_ = godotenv.Load()
	log.InitLogger()
	if os.Getenv("STAMBOOM_DEBUG") != "" {
		log.EnableGlobalHTTP()
	}
	return api.NewClients()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcp.Command(clients))
}

// Run executes the main CLI functionality
func Run() error {
	return rootCmd.Execute()
}
