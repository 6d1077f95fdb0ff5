package openarch

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/morikuni/failure/v2"
)

// The search mini-language joins name terms with '&' (at most two
// joins) or with a single fuzzy '&~&' operator, allows quoting around
// the first name only, and may end in a year or year range. The
// upstream silently mishandles anything outside those bounds, so
// offending queries are rejected here before they cost a network call.

var (
	// "1824-" means 1824 up to the present
	openYearRange = regexp.MustCompile(`\b(\d{4})-($|\s)`)

	// a digit run followed by a letter reads as a name after a date
	textAfterDate = regexp.MustCompile(`\d\s+[\p{L}"]`)
)

// NormalizeQuery rewrites a raw query into the form that is actually
// sent upstream. It completes an open-ended year range with the
// current year and collapses a redundant doubled fuzzy operator
// (X &~& Y &~& Z carries no fuzzy meaning) into plain joins.
func NormalizeQuery(query string) string {
	q := strings.Join(strings.Fields(query), " ")

	q = openYearRange.ReplaceAllString(q, fmt.Sprintf("${1}-%d${2}", time.Now().Year()))

	if strings.Count(q, "&~&") > 1 {
		q = strings.ReplaceAll(q, "&~&", "&")
	}

	return q
}

// ValidateQuery checks a normalized query against the mini-language
// rules. It is a pure function; rejected queries never reach the
// network. The returned error carries the normalized query for
// diagnostic display.
func ValidateQuery(query string) error {
	if strings.Count(query, "&") > 2 {
		return failure.New(ErrInvalidQuery,
			failure.Message("Query joins too many names with '&'; use at most two joins"),
			failure.Context{"query": query},
		)
	}

	if i := strings.Index(query, "&"); i >= 0 && strings.Contains(query[i+1:], `"`) {
		return failure.New(ErrInvalidQuery,
			failure.Message("Quoting is only allowed around the first name"),
			failure.Context{"query": query},
		)
	}

	if textAfterDate.MatchString(query) {
		return failure.New(ErrInvalidQuery,
			failure.Message("Free text may not follow a date; put names before the year range"),
			failure.Context{"query": query},
		)
	}

	return nil
}
