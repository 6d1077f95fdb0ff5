package cli

import (
	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"
)

var (
	monumentCmd = &cobra.Command{
		Use:   "monument",
		Short: "Look up memorial documents on Joods Monument",
	}

	monumentLimit int

	monumentSearchCmd = &cobra.Command{
		Use:   "search <name>",
		Short: "Search memorial documents by name",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonumentSearch,
	}

	monumentJSON bool

	monumentPersonCmd = &cobra.Command{
		Use:   "person <id>",
		Short: "Fetch one memorial document",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonumentPerson,
	}

	warsourcesCmd = &cobra.Command{
		Use:   "warsources",
		Short: "Look up WWII archive material on Oorlogsbronnen",
	}

	warsourcesCount int

	warsourcesSearchCmd = &cobra.Command{
		Use:   "search <name>",
		Short: "Search the WWII archive index by name",
		Args:  cobra.ExactArgs(1),
		RunE:  runWarSourcesSearch,
	}

	warsourcesPersonCmd = &cobra.Command{
		Use:   "person <id>",
		Short: "Fetch the combined document for one person",
		Long: `Fetch a person document assembled from its four sub-resources: the
person itself, its events, related persons and source material. The
read fails as a whole when any part is missing.`,
		Args: cobra.ExactArgs(1),
		RunE: runWarSourcesPerson,
	}
)

func init() {
	monumentSearchCmd.Flags().IntVar(&monumentLimit, "limit", 10, "Maximum number of matches")
	monumentPersonCmd.Flags().BoolVar(&monumentJSON, "json", false, "Print the result as JSON")
	monumentCmd.AddCommand(monumentSearchCmd, monumentPersonCmd)

	warsourcesSearchCmd.Flags().IntVar(&warsourcesCount, "count", 10, "Maximum number of matches")
	warsourcesCmd.AddCommand(warsourcesSearchCmd, warsourcesPersonCmd)

	rootCmd.AddCommand(monumentCmd, warsourcesCmd)
}

func runMonumentSearch(cmd *cobra.Command, args []string) error {
	matches, err := clients.Monument.Search(args[0], monumentLimit)
	if err != nil {
		return failure.Wrap(err)
	}
	return printJSON(matches)
}

func runMonumentPerson(cmd *cobra.Command, args []string) error {
	person, err := clients.Monument.Get(args[0])
	if err != nil {
		return failure.Wrap(err)
	}

	if monumentJSON {
		return printJSON(person)
	}
	return display(monumentMarkdown(person))
}

func runWarSourcesSearch(cmd *cobra.Command, args []string) error {
	matches, err := clients.WarSources.Search(args[0], warsourcesCount)
	if err != nil {
		return failure.Wrap(err)
	}
	return printJSON(matches)
}

func runWarSourcesPerson(cmd *cobra.Command, args []string) error {
	doc, err := clients.WarSources.GetPerson(args[0])
	if err != nil {
		return failure.Wrap(err)
	}
	return printJSON(doc)
}
