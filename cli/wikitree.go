package cli

import (
	"strconv"

	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/wikitree"
	"github.com/spf13/cobra"
)

var (
	wikitreeFields []string

	wikitreeCmd = &cobra.Command{
		Use:   "wikitree",
		Short: "Look up profiles on the collaborative family tree",
	}

	wikitreeProfileBio string

	wikitreeProfileCmd = &cobra.Command{
		Use:   "profile <id>",
		Short: "Fetch one profile by ID",
		Long: `Fetch a profile by its symbolic ID (e.g. Wiebrens-12) or, when the
argument is numeric, by its person ID.`,
		Args: cobra.ExactArgs(1),
		RunE: runWikiTreeProfile,
	}

	wikitreeParents  bool
	wikitreeChildren bool
	wikitreeSiblings bool
	wikitreeSpouses  bool

	wikitreeRelativesCmd = &cobra.Command{
		Use:   "relatives <id>...",
		Short: "Fetch the relatives of one or more profiles",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWikiTreeRelatives,
	}

	wikitreeFirstName string
	wikitreeBirthDate string
	wikitreeDeathDate string
	wikitreeLimit     int

	wikitreeSearchCmd = &cobra.Command{
		Use:   "search <last-name>",
		Short: "Search profiles by name and life dates",
		Args:  cobra.ExactArgs(1),
		RunE:  runWikiTreeSearch,
	}
)

func init() {
	wikitreeCmd.PersistentFlags().StringSliceVar(&wikitreeFields, "fields", nil, "Restrict the returned fields")

	wikitreeProfileCmd.Flags().StringVar(&wikitreeProfileBio, "bio-format", "", "Biography format (wiki, html or text)")

	wikitreeRelativesCmd.Flags().BoolVar(&wikitreeParents, "parents", false, "Include parents")
	wikitreeRelativesCmd.Flags().BoolVar(&wikitreeChildren, "children", false, "Include children")
	wikitreeRelativesCmd.Flags().BoolVar(&wikitreeSiblings, "siblings", false, "Include siblings")
	wikitreeRelativesCmd.Flags().BoolVar(&wikitreeSpouses, "spouses", false, "Include spouses")

	wikitreeSearchCmd.Flags().StringVar(&wikitreeFirstName, "first-name", "", "First name")
	wikitreeSearchCmd.Flags().StringVar(&wikitreeBirthDate, "birth-date", "", "Birth date (YYYY-MM-DD)")
	wikitreeSearchCmd.Flags().StringVar(&wikitreeDeathDate, "death-date", "", "Death date (YYYY-MM-DD)")
	wikitreeSearchCmd.Flags().IntVar(&wikitreeLimit, "limit", 10, "Maximum number of matches")

	wikitreeCmd.AddCommand(wikitreeProfileCmd, wikitreeRelativesCmd, wikitreeSearchCmd)
	rootCmd.AddCommand(wikitreeCmd)
}

func runWikiTreeProfile(cmd *cobra.Command, args []string) error {
	if id, err := strconv.ParseInt(args[0], 10, 64); err == nil {
		person, err := clients.WikiTree.GetPerson(id, wikitreeFields)
		if err != nil {
			return failure.Wrap(err)
		}
		return printJSON(person)
	}

	profile, err := clients.WikiTree.GetProfile(wikitree.ProfileParams{
		Name:      args[0],
		Fields:    wikitreeFields,
		BioFormat: wikitreeProfileBio,
	})
	if err != nil {
		return failure.Wrap(err)
	}
	return printJSON(profile)
}

func runWikiTreeRelatives(cmd *cobra.Command, args []string) error {
	items, err := clients.WikiTree.GetRelatives(wikitree.RelativesParams{
		Names:       args,
		Fields:      wikitreeFields,
		GetParents:  wikitreeParents,
		GetChildren: wikitreeChildren,
		GetSiblings: wikitreeSiblings,
		GetSpouses:  wikitreeSpouses,
	})
	if err != nil {
		return failure.Wrap(err)
	}
	return printJSON(items)
}

func runWikiTreeSearch(cmd *cobra.Command, args []string) error {
	matches, err := clients.WikiTree.SearchPerson(wikitree.SearchParams{
		FirstName: wikitreeFirstName,
		LastName:  args[0],
		BirthDate: wikitreeBirthDate,
		DeathDate: wikitreeDeathDate,
		Fields:    wikitreeFields,
		Limit:     wikitreeLimit,
	})
	if err != nil {
		return failure.Wrap(err)
	}
	return printJSON(matches)
}
