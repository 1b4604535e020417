package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sabio/pubchem-mcp-go/pkg/pubchem"
)

// getCompoundClassificationTool returns the tool definition for get_compound_classification
func (s *MCPServer) getCompoundClassificationTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_classification",
		Description: "Get the classification hierarchies a compound belongs to",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundClassification handles the get_compound_classification tool call
func (s *MCPServer) handleGetCompoundClassification(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID string `json:"cid"`
	}{}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	hierarchies, err := s.client.CompoundClassification(toolCtx(), args.CID, "")
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No classification data found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound classification", err), nil
	}
	if len(hierarchies) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No classification data found for compound CID %s", args.CID)), nil
	}

	if len(hierarchies) > 5 {
		hierarchies = hierarchies[:5]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Classification for CID %s:\n", args.CID)
	for _, hierarchy := range hierarchies {
		names := make([]string, 0, len(hierarchy.Node))
		for _, node := range hierarchy.Node {
			if node.Information.Name != "" {
				names = append(names, node.Information.Name)
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(&b, "• %s\n", strings.Join(names, " → "))
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// getCompoundPharmacologyTool returns the tool definition for get_compound_pharmacology
func (s *MCPServer) getCompoundPharmacologyTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_pharmacology",
		Description: "Get the recorded pharmacological actions of a compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundPharmacology handles the get_compound_pharmacology tool call
func (s *MCPServer) handleGetCompoundPharmacology(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID string `json:"cid"`
	}{}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	hierarchies, err := s.client.CompoundClassification(toolCtx(), args.CID, "pharm_action")
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No pharmacological action data found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound pharmacology", err), nil
	}

	var actions []string
	seen := map[string]bool{}
	for _, hierarchy := range hierarchies {
		for _, node := range hierarchy.Node {
			if node.NodeAttributes.IsDataNode != "true" {
				continue
			}
			name := node.Information.Name
			if name != "" && !seen[name] {
				seen[name] = true
				actions = append(actions, name)
			}
		}
	}
	if len(actions) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No pharmacological actions found for compound CID %s", args.CID)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pharmacological Actions for CID %s:\n", args.CID)
	for _, action := range actions {
		fmt.Fprintf(&b, "• %s\n", action)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// getCompoundTargetsTool returns the tool definition for get_compound_targets
func (s *MCPServer) getCompoundTargetsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_targets",
		Description: "List biological targets a compound has been tested against",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundTargets handles the get_compound_targets tool call
func (s *MCPServer) handleGetCompoundTargets(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID string `json:"cid"`
	}{}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	rows, err := s.client.CompoundAssaySummary(toolCtx(), args.CID)
	if err != nil {
		if pubchem.IsNotFound(err) || pubchem.IsBadRequest(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No target data found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound targets", err), nil
	}

	var targets []string
	seen := map[string]bool{}
	for _, row := range rows {
		name := row.Target.Name
		if name != "" && !seen[name] {
			seen[name] = true
			targets = append(targets, name)
		}
	}
	if len(targets) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No biological targets found for compound CID %s", args.CID)), nil
	}
	if len(targets) > 10 {
		targets = targets[:10]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Biological Targets for CID %s:\n", args.CID)
	for _, target := range targets {
		fmt.Fprintf(&b, "• %s\n", target)
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

// getCompoundBioactivityTool returns the tool definition for get_compound_bioactivity
func (s *MCPServer) getCompoundBioactivityTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_bioactivity",
		Description: "Summarize the bioassay activity of a compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
				"max_assays": map[string]any{
					"type":        "number",
					"description": "Maximum number of bioassays to list (default 5)",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundBioactivity handles the get_compound_bioactivity tool call
func (s *MCPServer) handleGetCompoundBioactivity(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID       string `json:"cid"`
		MaxAssays int    `json:"max_assays"`
	}{MaxAssays: 5}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}
	maxAssays := args.MaxAssays
	if maxAssays <= 0 {
		maxAssays = 5
	}

	name, err := s.client.CompoundTitle(toolCtx(), args.CID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound", err), nil
	}

	rows, err := s.client.CompoundAssaySummary(toolCtx(), args.CID)
	if err != nil {
		if pubchem.IsNotFound(err) || pubchem.IsBadRequest(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No bioactivity data found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving bioactivity data", err), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No bioactivity data found for compound CID %s", args.CID)), nil
	}

	active := 0
	for _, row := range rows {
		if row.Active {
			active++
		}
	}

	shown := rows
	if len(shown) > maxAssays {
		shown = shown[:maxAssays]
	}
	items := make([]string, 0, len(shown))
	for _, row := range shown {
		var b strings.Builder
		fmt.Fprintf(&b, "AID %d: %s", row.AID, row.AssayName)
		activeText := "No"
		if row.Active {
			activeText = "Yes"
		}
		fmt.Fprintf(&b, "\n   - Active: %s", activeText)
		if row.ActivityValue != "" {
			value := row.ActivityValue
			if row.ActivityUnit != "" {
				value += " " + row.ActivityUnit
			}
			fmt.Fprintf(&b, "\n   - Activity Value: %s", value)
		}
		if row.Target.Name != "" {
			fmt.Fprintf(&b, "\n   - Target: %s", row.Target.Name)
		}
		items = append(items, b.String())
	}

	text := fmt.Sprintf("Bioactivity Information for %s (CID %s):\n\nActive in %d of %d bioassays\n\nTop %d Bioassays:\n",
		name, args.CID, active, len(rows), len(shown)) +
		numberedList(items)
	return mcp.NewToolResultText(text), nil
}

// searchBioassaysTool returns the tool definition for search_bioassays
func (s *MCPServer) searchBioassaysTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_bioassays",
		Description: "Search bioassays by description and show details of the top hits",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Free-text query, e.g. 'cyclooxygenase inhibition'",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of assays to return (default 5)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// handleSearchBioassays handles the search_bioassays tool call
func (s *MCPServer) handleSearchBioassays(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		Query      string `json:"query"`
		MaxResults int    `json:"max_results"`
	}{MaxResults: 5}
	parseArgs(arguments, &args)
	if args.Query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	limit := args.MaxResults
	if limit <= 0 {
		limit = 5
	}

	aids, err := s.client.AssayAIDsByQuery(toolCtx(), args.Query)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText("No bioassays found matching the query."), nil
		}
		return errorResult("searching bioassays", err), nil
	}
	if len(aids) == 0 {
		return mcp.NewToolResultText("No bioassays found matching the query."), nil
	}

	total := len(aids)
	if limit > total {
		limit = total
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Bioassay Search Results for %q:\n", args.Query)
	for _, aid := range aids[:limit] {
		id := strconv.FormatInt(aid, 10)
		descr, err := s.client.AssayDescription(toolCtx(), id)
		if err != nil {
			fmt.Fprintf(&b, "\nAID: %s\nURL: %s\n", id, assayURL(id))
			continue
		}
		fmt.Fprintf(&b, "\nAID: %s\nName: %s\nDescription: %s\nURL: %s\n",
			id, descr.Name, truncate(descr.Description, 150), assayURL(id))
	}
	b.WriteString(truncationNote(limit, total, "matching bioassays"))
	return mcp.NewToolResultText(b.String()), nil
}

// getBioassayDetailsTool returns the tool definition for get_bioassay_details
func (s *MCPServer) getBioassayDetailsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_bioassay_details",
		Description: "Get the descriptive record of a bioassay",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"aid": map[string]any{
					"type":        "string",
					"description": "PubChem Assay ID",
				},
			},
			Required: []string{"aid"},
		},
	}
}

// handleGetBioassayDetails handles the get_bioassay_details tool call
func (s *MCPServer) handleGetBioassayDetails(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		AID string `json:"aid"`
	}{}
	parseArgs(arguments, &args)
	if args.AID == "" {
		return mcp.NewToolResultError("aid is required"), nil
	}

	descr, err := s.client.AssayDescription(toolCtx(), args.AID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No bioassay found with AID %s", args.AID)), nil
		}
		return errorResult("retrieving bioassay details", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Bioassay Details for AID %s:\n\n", args.AID)
	fmt.Fprintf(&b, "Name: %s\n", descr.Name)
	if descr.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", truncate(descr.Description, 500))
	}
	if len(descr.Target) > 0 && descr.Target[0].Name != "" {
		fmt.Fprintf(&b, "Target: %s\n", descr.Target[0].Name)
	}
	if descr.Protocol != "" {
		fmt.Fprintf(&b, "Protocol: %s\n", truncate(descr.Protocol, 300))
	}
	fmt.Fprintf(&b, "URL: %s\n", assayURL(args.AID))
	return mcp.NewToolResultText(b.String()), nil
}

// getBioassayResultsTool returns the tool definition for get_bioassay_results
func (s *MCPServer) getBioassayResultsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_bioassay_results",
		Description: "Check what was tested in a bioassay, optionally whether a specific compound is among the tested ones",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"aid": map[string]any{
					"type":        "string",
					"description": "PubChem Assay ID",
				},
				"cid": map[string]any{
					"type":        "string",
					"description": "Optional PubChem Compound ID to check for",
				},
			},
			Required: []string{"aid"},
		},
	}
}

// handleGetBioassayResults handles the get_bioassay_results tool call
func (s *MCPServer) handleGetBioassayResults(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		AID string `json:"aid"`
		CID string `json:"cid"`
	}{}
	parseArgs(arguments, &args)
	if args.AID == "" {
		return mcp.NewToolResultError("aid is required"), nil
	}

	if args.CID != "" {
		cids, err := s.client.AssayCIDs(toolCtx(), args.AID, args.CID)
		if err != nil {
			if pubchem.IsNotFound(err) {
				return mcp.NewToolResultText(fmt.Sprintf("Compound CID %s was not tested in bioassay AID %s", args.CID, args.AID)), nil
			}
			return errorResult("retrieving bioassay results", err), nil
		}
		if len(cids) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("Compound CID %s was not tested in bioassay AID %s", args.CID, args.AID)), nil
		}
		text := fmt.Sprintf("Bioassay Results for AID %s:\n\nCompound CID %s was tested in this assay.\nFull data: %s",
			args.AID, args.CID, assayURL(args.AID))
		return mcp.NewToolResultText(text), nil
	}

	sids, err := s.client.AssaySIDs(toolCtx(), args.AID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No results found for bioassay AID %s", args.AID)), nil
		}
		return errorResult("retrieving bioassay results", err), nil
	}
	if len(sids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No results found for bioassay AID %s", args.AID)), nil
	}
	text := fmt.Sprintf("Bioassay Results for AID %s:\n\n%d substances were tested in this assay.\nFull data: %s",
		args.AID, len(sids), assayURL(args.AID))
	return mcp.NewToolResultText(text), nil
}
