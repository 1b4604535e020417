package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sabio/pubchem-mcp-go/pkg/pubchem"
)

// searchSubstanceByNameTool returns the tool definition for search_substance_by_name
func (s *MCPServer) searchSubstanceByNameTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_substance_by_name",
		Description: "Search for deposited substances by name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Substance name to search for",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of results to return (default 5)",
				},
			},
			Required: []string{"name"},
		},
	}
}

// handleSearchSubstanceByName handles the search_substance_by_name tool call
func (s *MCPServer) handleSearchSubstanceByName(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		Name       string `json:"name"`
		MaxResults int    `json:"max_results"`
	}{}
	parseArgs(arguments, &args)
	if args.Name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	sids, err := s.client.SubstanceSIDsByName(toolCtx(), args.Name)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No substances found matching %q", args.Name)), nil
		}
		return errorResult("searching substances", err), nil
	}
	if len(sids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No substances found matching %q", args.Name)), nil
	}

	total := len(sids)
	limit := clampLimit(args.MaxResults, DefaultSearchResults, MaxSearchResults)
	if limit > total {
		limit = total
	}

	items := make([]string, 0, limit)
	for _, sid := range sids[:limit] {
		id := strconv.FormatInt(sid, 10)
		record, err := s.client.SubstanceRecord(toolCtx(), id)
		if err != nil {
			items = append(items, fmt.Sprintf("SID: %s | %s", id, substanceURL(id)))
			continue
		}
		items = append(items, fmt.Sprintf("SID: %s | Source: %s\n   %s",
			id, substanceSource(record), substanceURL(id)))
	}
	text := fmt.Sprintf("Substance Search Results for %q:\n\n", args.Name) +
		numberedList(items) +
		truncationNote(limit, total, "matching substances")
	return mcp.NewToolResultText(text), nil
}

// substanceSource names the depositor of a substance record, whichever
// source field is populated.
func substanceSource(record *pubchem.SubstanceRecord) string {
	switch {
	case record.Source.DB.Name != "":
		return record.Source.DB.Name
	case record.Source.Depositor.Name != "":
		return record.Source.Depositor.Name
	case record.Source.Name != "":
		return record.Source.Name
	}
	return "Unknown"
}

// getSubstanceDetailsTool returns the tool definition for get_substance_details
func (s *MCPServer) getSubstanceDetailsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_substance_details",
		Description: "Get the depositor record of a substance",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"sid": map[string]any{
					"type":        "string",
					"description": "PubChem Substance ID",
				},
			},
			Required: []string{"sid"},
		},
	}
}

// handleGetSubstanceDetails handles the get_substance_details tool call
func (s *MCPServer) handleGetSubstanceDetails(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		SID string `json:"sid"`
	}{}
	parseArgs(arguments, &args)
	if args.SID == "" {
		return mcp.NewToolResultError("sid is required"), nil
	}

	record, err := s.client.SubstanceRecord(toolCtx(), args.SID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No substance found with SID %s", args.SID)), nil
		}
		return errorResult("retrieving substance details", err), nil
	}

	synonyms, err := s.client.SubstanceSynonyms(toolCtx(), args.SID)
	if err != nil && !pubchem.IsNotFound(err) {
		return errorResult("retrieving substance synonyms", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Substance Details for SID %s:\n\n", args.SID)
	fmt.Fprintf(&b, "Source: %s\n", substanceSource(record))
	if len(synonyms) > 0 {
		shown := synonyms
		if len(shown) > 3 {
			shown = shown[:3]
		}
		fmt.Fprintf(&b, "Names: %s\n", strings.Join(shown, ", "))
	}
	fmt.Fprintf(&b, "URL: %s\n", substanceURL(args.SID))
	return mcp.NewToolResultText(b.String()), nil
}

// getSubstanceSDFTool returns the tool definition for get_substance_sdf
func (s *MCPServer) getSubstanceSDFTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_substance_sdf",
		Description: "Get the SDF rendition of a substance as deposited",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"sid": map[string]any{
					"type":        "string",
					"description": "PubChem Substance ID",
				},
			},
			Required: []string{"sid"},
		},
	}
}

// handleGetSubstanceSDF handles the get_substance_sdf tool call
func (s *MCPServer) handleGetSubstanceSDF(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		SID string `json:"sid"`
	}{}
	parseArgs(arguments, &args)
	if args.SID == "" {
		return mcp.NewToolResultError("sid is required"), nil
	}

	sdf, err := s.client.SubstanceSDF(toolCtx(), args.SID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No SDF data found for substance SID %s", args.SID)), nil
		}
		return errorResult("retrieving substance SDF", err), nil
	}
	return mcp.NewToolResultText(sdf), nil
}

// getSubstanceSynonymsTool returns the tool definition for get_substance_synonyms
func (s *MCPServer) getSubstanceSynonymsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_substance_synonyms",
		Description: "List the depositor-supplied synonyms of a substance",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"sid": map[string]any{
					"type":        "string",
					"description": "PubChem Substance ID",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of synonyms to return (default 10)",
				},
			},
			Required: []string{"sid"},
		},
	}
}

// handleGetSubstanceSynonyms handles the get_substance_synonyms tool call
func (s *MCPServer) handleGetSubstanceSynonyms(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		SID        string `json:"sid"`
		MaxResults int    `json:"max_results"`
	}{}
	parseArgs(arguments, &args)
	if args.SID == "" {
		return mcp.NewToolResultError("sid is required"), nil
	}

	synonyms, err := s.client.SubstanceSynonyms(toolCtx(), args.SID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No substance found with SID %s", args.SID)), nil
		}
		return errorResult("retrieving substance synonyms", err), nil
	}
	if len(synonyms) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No synonyms found for substance SID %s", args.SID)), nil
	}

	total := len(synonyms)
	limit := clampLimit(args.MaxResults, DefaultSynonymPage, total)
	if limit > total {
		limit = total
	}
	text := fmt.Sprintf("Synonyms for substance SID %s:\n\n", args.SID) +
		numberedList(synonyms[:limit]) +
		truncationNote(limit, total, "synonyms")
	return mcp.NewToolResultText(text), nil
}

// getSubstanceCompoundsTool returns the tool definition for get_substance_compounds
func (s *MCPServer) getSubstanceCompoundsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_substance_compounds",
		Description: "List the standardized compounds derived from a substance",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"sid": map[string]any{
					"type":        "string",
					"description": "PubChem Substance ID",
				},
			},
			Required: []string{"sid"},
		},
	}
}

// handleGetSubstanceCompounds handles the get_substance_compounds tool call
func (s *MCPServer) handleGetSubstanceCompounds(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		SID string `json:"sid"`
	}{}
	parseArgs(arguments, &args)
	if args.SID == "" {
		return mcp.NewToolResultError("sid is required"), nil
	}

	cids, err := s.client.SubstanceCIDs(toolCtx(), args.SID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No substance found with SID %s", args.SID)), nil
		}
		return errorResult("retrieving substance compounds", err), nil
	}
	if len(cids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No standardized compounds found for substance SID %s", args.SID)), nil
	}

	props, err := s.compoundSummaries(cids)
	if err != nil {
		return errorResult("retrieving compound properties", err), nil
	}

	items := make([]string, 0, len(props))
	for _, p := range props {
		items = append(items, summaryLine(p)+"\n   "+compoundURL(p.CID()))
	}
	text := fmt.Sprintf("Standardized compounds for substance SID %s:\n\n", args.SID) +
		numberedList(items)
	return mcp.NewToolResultText(text), nil
}
