package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"github.com/mvdburg/stamboom/api"
	"github.com/mvdburg/stamboom/api/openarch"
	"github.com/mvdburg/stamboom/api/wikitree"
)

var validate = validator.New()

func InitTools(clients *api.Clients) []server.ServerTool {
	tools := []server.ServerTool{}

	tools = append(tools, newServerTool(SearchRecords(clients)))
	tools = append(tools, newServerTool(GetRecord(clients)))
	tools = append(tools, newServerTool(SearchWikiTree(clients)))
	tools = append(tools, newServerTool(GetWikiTreeProfile(clients)))
	tools = append(tools, newServerTool(GetWikiTreeRelatives(clients)))
	tools = append(tools, newServerTool(SearchMonument(clients)))
	tools = append(tools, newServerTool(GetMonumentRecord(clients)))
	tools = append(tools, newServerTool(SearchWarSources(clients)))
	tools = append(tools, newServerTool(GetWarSourcesPerson(clients)))

	return tools
}

// toolResultJSON marshals v as the text payload of a successful tool
// call
func toolResultJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func SearchRecords(clients *api.Clients) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"search_records",
			mcp.WithDescription("Search Dutch civil records (births, marriages, deaths). "+
				"Join up to three names with '&', use a single '&~&' for a fuzzy match, "+
				"quote only the first name, and end the query with a year or year range "+
				"(an open range like \"1824-\" runs to the present)."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query, e.g. \"Gabe Wiebrens & Hendriks 1900-1950\"")),
			mcp.WithString("archive", mcp.Description("Restrict to one archive code")),
			mcp.WithString("source_type", mcp.Description("Restrict to one source type")),
			mcp.WithString("event_place", mcp.Description("Restrict to one event place")),
			mcp.WithString("relation_type", mcp.Description("Restrict to one relation type")),
			mcp.WithString("event_type", mcp.Description("Restrict to one event type")),
			mcp.WithString("country", mcp.Description("Restrict to one country code")),
			mcp.WithNumber("start", mcp.Description("Result offset")),
			mcp.WithNumber("page_size", mcp.Description("Page size (capped at 30)")),
			mcp.WithBoolean("multi_page", mcp.Description("Allow results beyond one page; without it an over-broad search fails")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Query        string `json:"query" validate:"required"`
				Archive      string `json:"archive"`
				SourceType   string `json:"source_type"`
				EventPlace   string `json:"event_place"`
				RelationType string `json:"relation_type"`
				EventType    string `json:"event_type"`
				Country      string `json:"country"`
				Start        int    `json:"start" validate:"min=0"`
				PageSize     int    `json:"page_size" validate:"min=0"`
				MultiPage    bool   `json:"multi_page"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			result, err := clients.OpenArch.Search(openarch.SearchOptions{
				Query:        args.Query,
				Archive:      args.Archive,
				SourceType:   args.SourceType,
				EventPlace:   args.EventPlace,
				RelationType: args.RelationType,
				EventType:    args.EventType,
				CountryCode:  args.Country,
				Start:        args.Start,
				PageSize:     args.PageSize,
				MultiPage:    args.MultiPage,
			})
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return toolResultJSON(result)
		}
}

func GetRecord(clients *api.Clients) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"get_record",
			mcp.WithDescription("Fetch one civil record by its archive code and identifier"),
			mcp.WithString("archive", mcp.Required(), mcp.Description("Archive code from a search result's source link")),
			mcp.WithString("identifier", mcp.Required(), mcp.Description("Record identifier within the archive")),
			mcp.WithBoolean("raw", mcp.Description("Return the upstream document without normalization")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Archive    string `json:"archive" validate:"required"`
				Identifier string `json:"identifier" validate:"required"`
				Raw        bool   `json:"raw"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			doc, err := clients.OpenArch.Show(args.Archive, args.Identifier)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if args.Raw {
				return toolResultJSON(doc)
			}
			return toolResultJSON(openarch.Normalize(doc, openarch.Link{
				Archive:    args.Archive,
				Identifier: args.Identifier,
			}))
		}
}

func SearchWikiTree(clients *api.Clients) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"search_wikitree",
			mcp.WithDescription("Search WikiTree profiles by name and life dates"),
			mcp.WithString("last_name", mcp.Required(), mcp.Description("Last name")),
			mcp.WithString("first_name", mcp.Description("First name")),
			mcp.WithString("birth_date", mcp.Description("Birth date (YYYY-MM-DD)")),
			mcp.WithString("death_date", mcp.Description("Death date (YYYY-MM-DD)")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of matches")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				LastName  string `json:"last_name" validate:"required"`
				FirstName string `json:"first_name"`
				BirthDate string `json:"birth_date"`
				DeathDate string `json:"death_date"`
				Limit     int    `json:"limit" validate:"min=0"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			matches, err := clients.WikiTree.SearchPerson(wikitree.SearchParams{
				FirstName: args.FirstName,
				LastName:  args.LastName,
				BirthDate: args.BirthDate,
				DeathDate: args.DeathDate,
				Limit:     args.Limit,
			})
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return toolResultJSON(matches)
		}
}

func GetWikiTreeProfile(clients *api.Clients) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"get_wikitree_profile",
			mcp.WithDescription("Fetch one WikiTree profile by its symbolic ID, e.g. \"Wiebrens-12\""),
			mcp.WithString("name", mcp.Required(), mcp.Description("Symbolic profile ID")),
			mcp.WithString("fields", mcp.Description("Comma-separated list of fields to return")),
			mcp.WithString("bio_format", mcp.Description("Biography format (wiki, html or text)")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Name      string `json:"name" validate:"required"`
				Fields    string `json:"fields"`
				BioFormat string `json:"bio_format"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			profile, err := clients.WikiTree.GetProfile(wikitree.ProfileParams{
				Name:      args.Name,
				Fields:    splitFields(args.Fields),
				BioFormat: args.BioFormat,
			})
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return toolResultJSON(profile)
		}
}

func GetWikiTreeRelatives(clients *api.Clients) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"get_wikitree_relatives",
			mcp.WithDescription("Fetch the parents, children, siblings or spouses of WikiTree profiles"),
			mcp.WithString("names", mcp.Required(), mcp.Description("Comma-separated symbolic profile IDs")),
			mcp.WithBoolean("parents", mcp.Description("Include parents")),
			mcp.WithBoolean("children", mcp.Description("Include children")),
			mcp.WithBoolean("siblings", mcp.Description("Include siblings")),
			mcp.WithBoolean("spouses", mcp.Description("Include spouses")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Names    string `json:"names" validate:"required"`
				Parents  bool   `json:"parents"`
				Children bool   `json:"children"`
				Siblings bool   `json:"siblings"`
				Spouses  bool   `json:"spouses"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			items, err := clients.WikiTree.GetRelatives(wikitree.RelativesParams{
				Names:       splitFields(args.Names),
				GetParents:  args.Parents,
				GetChildren: args.Children,
				GetSiblings: args.Siblings,
				GetSpouses:  args.Spouses,
			})
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return toolResultJSON(items)
		}
}

func SearchMonument(clients *api.Clients) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"search_monument",
			mcp.WithDescription("Search the Joods Monument memorial archive by name"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Person name")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of matches")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Name  string `json:"name" validate:"required"`
				Limit int    `json:"limit" validate:"min=0"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			matches, err := clients.Monument.Search(args.Name, args.Limit)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return toolResultJSON(matches)
		}
}

func GetMonumentRecord(clients *api.Clients) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"get_monument_record",
			mcp.WithDescription("Fetch one Joods Monument memorial document, with translations "+
				"unwrapped and the description converted to markdown"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Document identifier from a search result")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				ID string `json:"id" validate:"required"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			person, err := clients.Monument.Get(args.ID)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return toolResultJSON(person)
		}
}

func SearchWarSources(clients *api.Clients) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"search_warsources",
			mcp.WithDescription("Search the Oorlogsbronnen WWII archive index by person name"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Person name")),
			mcp.WithNumber("count", mcp.Description("Maximum number of matches")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Name  string `json:"name" validate:"required"`
				Count int    `json:"count" validate:"min=0"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			matches, err := clients.WarSources.Search(args.Name, args.Count)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return toolResultJSON(matches)
		}
}

func GetWarSourcesPerson(clients *api.Clients) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"get_warsources_person",
			mcp.WithDescription("Fetch the combined Oorlogsbronnen document for one person: the "+
				"person itself, its events, related persons and source material"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Person identifier from a search result")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				ID string `json:"id" validate:"required"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			doc, err := clients.WarSources.GetPerson(args.ID)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return toolResultJSON(doc)
		}
}

// splitFields turns a comma-separated argument into a trimmed list,
// dropping empty entries
func splitFields(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
