package cli

import (
	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/openarch"
	"github.com/spf13/cobra"
)

var (
	searchArchive      string
	searchSourceType   string
	searchEventPlace   string
	searchRelationType string
	searchEventType    string
	searchCountry      string
	searchStart        int
	searchSize         int
	searchSort         = sortFlag{Value: openarch.SortByName}
	searchMultiPage    bool
	searchJSON         bool

	searchCmd = &cobra.Command{
		Use:   "search <query>",
		Short: "Search Dutch civil records",
		Long: `Search the civil-records source and resolve every match into a full
record. A search matching more records than one page can hold fails as
over-broad unless --multi-page is given; narrow the query with a year
range or a filter, or page through with --start.`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}
)

func init() {
	searchCmd.Flags().StringVar(&searchArchive, "archive", "", "Restrict to one archive code")
	searchCmd.Flags().StringVar(&searchSourceType, "source-type", "", "Restrict to one source type")
	searchCmd.Flags().StringVar(&searchEventPlace, "place", "", "Restrict to one event place")
	searchCmd.Flags().StringVar(&searchRelationType, "relation", "", "Restrict to one relation type")
	searchCmd.Flags().StringVar(&searchEventType, "event", "", "Restrict to one event type")
	searchCmd.Flags().StringVar(&searchCountry, "country", "", "Restrict to one country code")
	searchCmd.Flags().IntVar(&searchStart, "start", 0, "Result offset")
	searchCmd.Flags().IntVar(&searchSize, "size", openarch.MaxPageSize, "Page size (capped)")
	searchCmd.Flags().Var(&searchSort, "sort", "Sort mode: name, role, event or date")
	searchCmd.Flags().BoolVar(&searchMultiPage, "multi-page", false, "Allow results beyond one page")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print the result as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	result, err := clients.OpenArch.Search(openarch.SearchOptions{
		Query:        args[0],
		Archive:      searchArchive,
		SourceType:   searchSourceType,
		EventPlace:   searchEventPlace,
		RelationType: searchRelationType,
		EventType:    searchEventType,
		CountryCode:  searchCountry,
		Start:        searchStart,
		PageSize:     searchSize,
		Sort:         searchSort.Value,
		MultiPage:    searchMultiPage,
	})
	if err != nil {
		return failure.Wrap(err)
	}

	if searchJSON {
		return printJSON(result)
	}
	return display(searchResultMarkdown(result))
}
