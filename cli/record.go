package cli

import (
	"fmt"

	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/openarch"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	recordRaw     bool
	recordBrowser bool

	recordCmd = &cobra.Command{
		Use:   "record <archive> <identifier>",
		Short: "Show a single civil record",
		Long: `Fetch one civil record by its archive code and identifier, the pair
printed in every search result's source link.`,
		Args: cobra.ExactArgs(2),
		RunE: runRecord,
	}
)

func init() {
	recordCmd.Flags().BoolVar(&recordRaw, "raw", false, "Print the upstream document without normalization")
	recordCmd.Flags().BoolVar(&recordBrowser, "browser", false, "Open the record page in a web browser")

	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	archive, identifier := args[0], args[1]

	if recordBrowser {
		return browser.OpenURL(fmt.Sprintf("https://www.openarchieven.nl/%s:%s", archive, identifier))
	}

	doc, err := clients.OpenArch.Show(archive, identifier)
	if err != nil {
		return failure.Wrap(err)
	}

	if recordRaw {
		return printJSON(doc)
	}

	record := openarch.Normalize(doc, openarch.Link{Archive: archive, Identifier: identifier})
	return display(recordMarkdown(*record))
}
