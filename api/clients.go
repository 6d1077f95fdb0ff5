// Package api bundles the genealogy source clients.
//
// Each upstream gets exactly one client per process so its rate-limit
// window is shared by every caller, whether requests come in through
// the CLI, the MCP server, or both.
package api

import (
	"os"

	"github.com/mvdburg/stamboom/api/monument"
	"github.com/mvdburg/stamboom/api/openarch"
	"github.com/mvdburg/stamboom/api/warsources"
	"github.com/mvdburg/stamboom/api/wikitree"
)

// Clients holds one client per upstream source
type Clients struct {
	OpenArch   *openarch.Client
	WikiTree   *wikitree.Client
	Monument   *monument.Client
	WarSources *warsources.Client
}

// NewClients creates the per-upstream clients with their default rate
// limiters. The response language for sources that support one comes
// from STAMBOOM_LANG (default "en").
func NewClients() *Clients {
	lang := os.Getenv("STAMBOOM_LANG")
	if lang == "" {
		lang = "en"
	}

	return &Clients{
		OpenArch:   openarch.New(openarch.WithLang(lang)),
		WikiTree:   wikitree.New(),
		Monument:   monument.New(monument.WithLang(lang)),
		WarSources: warsources.New(),
	}
}
