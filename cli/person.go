package cli

import (
	"strconv"
	"strings"

	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/wikitree"
	"github.com/spf13/cobra"
)

var personCmd = &cobra.Command{
	Use:   "person <source> <id>",
	Short: "Fetch a person document from any source",
	Long: `Fetch a person document by source name and identifier, so a reference
like "wikitree Wiebrens-12" found in notes resolves without recalling
the source-specific command. Run 'stamboom sources' for the source
names.`,
	Args: cobra.ExactArgs(2),
	RunE: runPerson,
}

func init() {
	rootCmd.AddCommand(personCmd)
}

func runPerson(cmd *cobra.Command, args []string) error {
	source, id := strings.ToLower(args[0]), args[1]

	switch source {
	case "wikitree":
		if numeric, err := strconv.ParseInt(id, 10, 64); err == nil {
			person, err := clients.WikiTree.GetPerson(numeric, nil)
			if err != nil {
				return failure.Wrap(err)
			}
			return printJSON(person)
		}
		profile, err := clients.WikiTree.GetProfile(wikitree.ProfileParams{Name: id})
		if err != nil {
			return failure.Wrap(err)
		}
		return printJSON(profile)

	case "monument":
		person, err := clients.Monument.Get(id)
		if err != nil {
			return failure.Wrap(err)
		}
		return display(monumentMarkdown(person))

	case "warsources":
		doc, err := clients.WarSources.GetPerson(id)
		if err != nil {
			return failure.Wrap(err)
		}
		return printJSON(doc)

	default:
		return failure.New(UnknownSource,
			failure.Message("Unknown source; run 'stamboom sources' for the supported names"),
			failure.Context{"source": source},
		)
	}
}
