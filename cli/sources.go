package cli

import (
	"fmt"

	"github.com/mvdburg/stamboom/api"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the supported archive sources",
	Run:   runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) {
	fmt.Println("Archive sources:")
	for _, source := range api.Sources() {
		fmt.Printf("  %-12s %s\n", source.Name, source.Description)
		fmt.Printf("  %-12s %s\n", "", source.BaseURL)
	}
}
