package api

import (
	"github.com/mvdburg/stamboom/api/monument"
	"github.com/mvdburg/stamboom/api/openarch"
	"github.com/mvdburg/stamboom/api/warsources"
	"github.com/mvdburg/stamboom/api/wikitree"
)

// Source describes one upstream archive
type Source struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BaseURL     string `json:"base_url"`
}

// Sources lists the supported upstream archives
func Sources() []Source {
	return []Source{
		{
			Name:        "openarch",
			Description: "Open Archieven, Dutch civil records (births, marriages, deaths)",
			BaseURL:     openarch.DefaultBaseURL,
		},
		{
			Name:        "wikitree",
			Description: "WikiTree, collaborative family-tree wiki",
			BaseURL:     wikitree.DefaultBaseURL,
		},
		{
			Name:        "monument",
			Description: "Joods Monument, memorial for Dutch victims of the Holocaust",
			BaseURL:     monument.DefaultBaseURL,
		},
		{
			Name:        "warsources",
			Description: "Oorlogsbronnen, faceted index of Dutch WWII archive material",
			BaseURL:     warsources.DefaultBaseURL,
		},
	}
}
