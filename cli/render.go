package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/morikuni/failure/v2"
	"github.com/mvdburg/stamboom/api/monument"
	"github.com/mvdburg/stamboom/api/openarch"
)

// display renders markdown content: through glamour and the pager on a
// terminal, as plain text when output is piped
func display(content string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println(content)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return failure.Wrap(err)
	}

	out, err := renderer.Render(content)
	if err != nil {
		return failure.Wrap(err)
	}

	return RunPager(out)
}

// printJSON writes v as indented JSON to stdout
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return failure.Wrap(err)
	}
	fmt.Println(string(out))
	return nil
}

// recordMarkdown formats one normalized record
func recordMarkdown(rec openarch.Record) string {
	var b strings.Builder

	title := rec.Event.Type
	if title == "" {
		title = "Record"
	}
	fmt.Fprintf(&b, "## %s", title)
	if rec.Event.Date != "" {
		fmt.Fprintf(&b, " — %s", rec.Event.Date)
	}
	if rec.Event.Place != "" {
		fmt.Fprintf(&b, " (%s)", rec.Event.Place)
	}
	b.WriteString("\n\n")

	for _, p := range rec.Persons {
		role := p.RelationType
		if role == "" {
			role = "Onbekend"
		}
		fmt.Fprintf(&b, "- **%s**: %s", role, p.FullName())
		if p.BirthDate != "" {
			fmt.Fprintf(&b, ", born %s", p.BirthDate)
		}
		if p.BirthPlace != "" {
			fmt.Fprintf(&b, " in %s", p.BirthPlace)
		}
		b.WriteString("\n")
	}

	src := rec.Source
	fmt.Fprintf(&b, "\nSource: %s [%s:%s]", src.Type, src.Archive, src.Identifier)
	if src.Place != "" {
		fmt.Fprintf(&b, ", %s", src.Place)
	}
	b.WriteString("\n")

	for key, value := range src.Remarks {
		fmt.Fprintf(&b, "- %s: %s\n", key, value)
	}

	if src.Scans != nil {
		for _, u := range src.Scans.URLs {
			fmt.Fprintf(&b, "- Scan: %s\n", u)
		}
		if s := src.Scans.Single; s != nil && s.UriViewer != "" {
			fmt.Fprintf(&b, "- Scan: %s\n", s.UriViewer)
		}
	}

	return b.String()
}

// monumentMarkdown formats one memorial document
func monumentMarkdown(p *monument.Person) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", p.Title)
	if p.BirthDate != "" || p.BirthPlace != "" {
		fmt.Fprintf(&b, "- Born: %s %s\n", p.BirthDate, p.BirthPlace)
	}
	if p.DeathDate != "" || p.DeathPlace != "" {
		fmt.Fprintf(&b, "- Died: %s %s\n", p.DeathDate, p.DeathPlace)
	}
	if p.URL != "" {
		fmt.Fprintf(&b, "- %s\n", p.URL)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Description)
	}

	return b.String()
}

// searchResultMarkdown formats a search result page
func searchResultMarkdown(result *openarch.SearchResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", result.Query)
	fmt.Fprintf(&b, "%d of %d records", len(result.Records), result.Total)
	if result.TotalPages > 0 {
		fmt.Fprintf(&b, " (page %d/%d)", result.Page, result.TotalPages)
	}
	b.WriteString("\n\n")

	for _, rec := range result.Records {
		b.WriteString(recordMarkdown(rec))
		b.WriteString("\n")
	}

	return b.String()
}
