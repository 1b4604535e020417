package server

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sabio/pubchem-mcp-go/pkg/pubchem"
)

// xrefDatabases are the registries queried by get_compound_xrefs.
var xrefDatabases = []string{
	"ChEBI", "ChEMBL", "DrugBank", "HMDB", "KEGG", "CAS", "ZINC",
	"ChemSpider", "BindingDB", "PDB",
}

// vendorDatabases are the vendor registries queried by get_compound_vendors.
var vendorDatabases = []string{
	"Sigma-Aldrich", "Alfa", "MolPort", "Mcule", "Cayman", "ChemicalBook",
}

// getCompoundXrefsTool returns the tool definition for get_compound_xrefs
func (s *MCPServer) getCompoundXrefsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_xrefs",
		Description: "Get cross-references from a compound into other chemistry databases",
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

// handleGetCompoundXrefs handles the get_compound_xrefs tool call
func (s *MCPServer) handleGetCompoundXrefs(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
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

	var b strings.Builder
	fmt.Fprintf(&b, "Cross-References for CID %s:\n", args.CID)
	found := 0
	for _, db := range xrefDatabases {
		// Registries without an entry for this compound 404; that is not
		// an error for the tool as a whole.
		ids, err := s.client.CompoundXrefs(toolCtx(), args.CID, db)
		if err != nil {
			if pubchem.IsNotFound(err) || pubchem.IsBadRequest(err) {
				continue
			}
			return errorResult("retrieving cross-references", err), nil
		}
		if len(ids) == 0 {
			continue
		}
		found++
		fmt.Fprintf(&b, "\n%s IDs:\n", db)
		shown := ids
		if len(shown) > 5 {
			shown = shown[:5]
		}
		b.WriteString(numberedList(shown))
		if len(ids) > 5 {
			fmt.Fprintf(&b, "   ... and %d more\n", len(ids)-5)
		}
	}
	if found == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No cross-references found for compound CID %s", args.CID)), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

// getCompoundLiteratureTool returns the tool definition for get_compound_literature
func (s *MCPServer) getCompoundLiteratureTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_literature",
		Description: "Get PubMed citations related to a compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of citations to return (default 10)",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundLiterature handles the get_compound_literature tool call
func (s *MCPServer) handleGetCompoundLiterature(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID        string `json:"cid"`
		MaxResults int    `json:"max_results"`
	}{MaxResults: 10}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	pmids, err := s.client.CompoundXrefs(toolCtx(), args.CID, "PMID")
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No literature references found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound literature", err), nil
	}
	if len(pmids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No PubMed citations found for compound CID %s", args.CID)), nil
	}

	total := len(pmids)
	limit := args.MaxResults
	if limit <= 0 {
		limit = 10
	}
	if limit > total {
		limit = total
	}

	items := make([]string, 0, limit)
	for _, pmid := range pmids[:limit] {
		items = append(items, fmt.Sprintf("PMID: %s - https://pubmed.ncbi.nlm.nih.gov/%s/", pmid, pmid))
	}
	text := fmt.Sprintf("PubMed Citations for CID %s:\n", args.CID) +
		numberedList(items) +
		truncationNote(limit, total, "citations")
	return mcp.NewToolResultText(text), nil
}

// getCompoundPatentsTool returns the tool definition for get_compound_patents
func (s *MCPServer) getCompoundPatentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_patents",
		Description: "Get patents referencing a compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of patents to return (default 10)",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundPatents handles the get_compound_patents tool call
func (s *MCPServer) handleGetCompoundPatents(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID        string `json:"cid"`
		MaxResults int    `json:"max_results"`
	}{MaxResults: 10}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	patents, err := s.client.CompoundXrefs(toolCtx(), args.CID, "PATENT")
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No patent references found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound patents", err), nil
	}
	if len(patents) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No patents found for compound CID %s", args.CID)), nil
	}

	total := len(patents)
	limit := args.MaxResults
	if limit <= 0 {
		limit = 10
	}
	if limit > total {
		limit = total
	}

	text := fmt.Sprintf("Patents for CID %s:\n", args.CID) +
		numberedList(patents[:limit]) +
		truncationNote(limit, total, "patents")
	return mcp.NewToolResultText(text), nil
}

// getCompoundToxicityTool returns the tool definition for get_compound_toxicity
func (s *MCPServer) getCompoundToxicityTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_toxicity",
		Description: "Get GHS classification and HSDB references for a compound",
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

// handleGetCompoundToxicity handles the get_compound_toxicity tool call
func (s *MCPServer) handleGetCompoundToxicity(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
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

	ghs, ghsErr := s.client.CompoundXrefs(toolCtx(), args.CID, "GHS")
	if ghsErr != nil && !pubchem.IsNotFound(ghsErr) && !pubchem.IsBadRequest(ghsErr) {
		return errorResult("retrieving compound toxicity", ghsErr), nil
	}
	hsdb, hsdbErr := s.client.CompoundXrefs(toolCtx(), args.CID, "HSDB")
	if hsdbErr != nil && !pubchem.IsNotFound(hsdbErr) && !pubchem.IsBadRequest(hsdbErr) {
		return errorResult("retrieving compound toxicity", hsdbErr), nil
	}
	if len(ghs) == 0 && len(hsdb) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No toxicity information found for compound CID %s", args.CID)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Toxicity Information for CID %s:\n", args.CID)
	if len(ghs) > 0 {
		b.WriteString("GHS Classification:\n")
		b.WriteString(numberedList(ghs))
		b.WriteString("\n")
	}
	if len(hsdb) > 0 {
		b.WriteString("HSDB References:\n")
		items := make([]string, 0, len(hsdb))
		for _, id := range hsdb {
			items = append(items, "HSDB ID: "+id)
		}
		b.WriteString(numberedList(items))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// getCompoundDrugInteractionsTool returns the tool definition for get_compound_drug_interactions
func (s *MCPServer) getCompoundDrugInteractionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_drug_interactions",
		Description: "Get DrugBank references for a compound, as an entry point for interaction lookups",
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

// handleGetCompoundDrugInteractions handles the get_compound_drug_interactions tool call
func (s *MCPServer) handleGetCompoundDrugInteractions(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
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

	ids, err := s.client.CompoundXrefs(toolCtx(), args.CID, "DrugBank")
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No drug interaction information found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving drug interactions", err), nil
	}
	if len(ids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No drug interaction information found for compound CID %s", args.CID)), nil
	}

	items := make([]string, 0, len(ids))
	for _, id := range ids {
		items = append(items, fmt.Sprintf("DrugBank ID: %s - https://go.drugbank.com/drugs/%s", id, id))
	}
	text := fmt.Sprintf("Drug Information for CID %s:\nDrugBank References:\n", args.CID) +
		numberedList(items) +
		"\nNote: For detailed drug interactions, visit the DrugBank website using the links above."
	return mcp.NewToolResultText(text), nil
}

// getCompoundVendorsTool returns the tool definition for get_compound_vendors
func (s *MCPServer) getCompoundVendorsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_vendors",
		Description: "Get vendor product references for a compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
				"max_vendors": map[string]any{
					"type":        "number",
					"description": "Maximum number of vendors to return (default 10)",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundVendors handles the get_compound_vendors tool call
func (s *MCPServer) handleGetCompoundVendors(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID        string `json:"cid"`
		MaxVendors int    `json:"max_vendors"`
	}{MaxVendors: 10}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}
	maxVendors := args.MaxVendors
	if maxVendors <= 0 {
		maxVendors = 10
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Vendor Information for CID %s:\n", args.CID)
	found := 0
	for _, vendor := range vendorDatabases {
		if found >= maxVendors {
			break
		}
		ids, err := s.client.CompoundXrefs(toolCtx(), args.CID, vendor)
		if err != nil {
			if pubchem.IsNotFound(err) || pubchem.IsBadRequest(err) {
				continue
			}
			return errorResult("retrieving compound vendors", err), nil
		}
		if len(ids) == 0 {
			continue
		}
		found++
		fmt.Fprintf(&b, "\n%s References:\n", vendor)
		shown := ids
		if len(shown) > 3 {
			shown = shown[:3]
		}
		items := make([]string, 0, len(shown))
		for _, id := range shown {
			items = append(items, "Product ID: "+id)
		}
		b.WriteString(numberedList(items))
	}
	if found == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No vendor information found for compound CID %s", args.CID)), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}
