package server

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sabio/pubchem-mcp-go/pkg/pubchem"
)

// detailProps is the projection behind get_compound_details.
var detailProps = []string{
	"Title", "MolecularFormula", "MolecularWeight", "CanonicalSMILES", "InChI",
	"IUPACName", "XLogP", "HBondDonorCount", "HBondAcceptorCount",
	"RotatableBondCount", "ExactMass",
}

// getCompoundDetailsTool returns the tool definition for get_compound_details
func (s *MCPServer) getCompoundDetailsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_details",
		Description: "Get detailed information about a compound: names, formula, structure notations and key properties",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID, e.g. '2244' for aspirin",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundDetails handles the get_compound_details tool call
func (s *MCPServer) handleGetCompoundDetails(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
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

	props, err := s.client.CompoundProperties(toolCtx(), "cid", args.CID, detailProps)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound details", err), nil
	}
	if len(props) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
	}
	p := props[0]

	synonyms, err := s.client.CompoundSynonyms(toolCtx(), args.CID)
	if err != nil && !pubchem.IsNotFound(err) {
		return errorResult("retrieving compound synonyms", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Compound Details for CID %s:\n\n", args.CID)
	fmt.Fprintf(&b, "Name: %s\n", p.StringOr("Title", "Unknown"))
	fmt.Fprintf(&b, "IUPAC Name: %s\n", p.StringOr("IUPACName", "N/A"))
	fmt.Fprintf(&b, "Molecular Formula: %s\n", p.StringOr("MolecularFormula", "N/A"))
	fmt.Fprintf(&b, "Molecular Weight: %s g/mol\n", p.StringOr("MolecularWeight", "N/A"))
	fmt.Fprintf(&b, "Exact Mass: %s\n", p.StringOr("ExactMass", "N/A"))
	fmt.Fprintf(&b, "Canonical SMILES: %s\n", p.StringOr("CanonicalSMILES", "N/A"))
	fmt.Fprintf(&b, "InChI: %s\n", p.StringOr("InChI", "N/A"))
	fmt.Fprintf(&b, "XLogP: %s\n", p.StringOr("XLogP", "N/A"))
	fmt.Fprintf(&b, "H-Bond Donors: %s\n", p.StringOr("HBondDonorCount", "N/A"))
	fmt.Fprintf(&b, "H-Bond Acceptors: %s\n", p.StringOr("HBondAcceptorCount", "N/A"))
	fmt.Fprintf(&b, "Rotatable Bonds: %s\n", p.StringOr("RotatableBondCount", "N/A"))
	if len(synonyms) > 0 {
		shown := synonyms
		if len(shown) > 3 {
			shown = shown[:3]
		}
		fmt.Fprintf(&b, "Common Names: %s\n", strings.Join(shown, ", "))
	}
	fmt.Fprintf(&b, "URL: %s\n", compoundURL(p.CID()))
	return mcp.NewToolResultText(b.String()), nil
}

// getCompoundPropertiesTool returns the tool definition for get_compound_properties
func (s *MCPServer) getCompoundPropertiesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_properties",
		Description: "Get physicochemical properties of a compound; accepts a named set or explicit property names",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
				"property_list": map[string]any{
					"type":        "string",
					"description": "'basic', 'physical', 'all', or comma-separated property names (default 'basic')",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundProperties handles the get_compound_properties tool call
func (s *MCPServer) handleGetCompoundProperties(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID          string `json:"cid"`
		PropertyList string `json:"property_list"`
	}{PropertyList: "basic"}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	requested := resolvePropertyList(args.PropertyList)
	if len(requested) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no valid properties in %q", args.PropertyList)), nil
	}
	// Title rides along so the header can name the compound.
	projection := requested
	if !containsString(projection, "Title") {
		projection = append([]string{"Title"}, projection...)
	}

	props, err := s.client.CompoundProperties(toolCtx(), "cid", args.CID, projection)
	if err != nil {
		switch {
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText(fmt.Sprintf("Invalid property list: %s", args.PropertyList)), nil
		}
		return errorResult("retrieving compound properties", err), nil
	}
	if len(props) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
	}
	p := props[0]

	var b strings.Builder
	fmt.Fprintf(&b, "Properties for %s (CID %s):\n\n", p.StringOr("Title", "Unknown"), args.CID)
	for _, name := range requested {
		if name == "Title" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", name, p.StringOr(name, "N/A"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

// getCompoundSynonymsTool returns the tool definition for get_compound_synonyms
func (s *MCPServer) getCompoundSynonymsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_synonyms",
		Description: "List names and synonyms recorded for a compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of synonyms to return (default 10)",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundSynonyms handles the get_compound_synonyms tool call
func (s *MCPServer) handleGetCompoundSynonyms(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID        string `json:"cid"`
		MaxResults int    `json:"max_results"`
	}{}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	synonyms, err := s.client.CompoundSynonyms(toolCtx(), args.CID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound synonyms", err), nil
	}
	if len(synonyms) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No synonyms found for compound CID %s", args.CID)), nil
	}

	total := len(synonyms)
	limit := clampLimit(args.MaxResults, DefaultSynonymPage, total)
	if limit > total {
		limit = total
	}
	text := fmt.Sprintf("Synonyms for compound CID %s:\n\n", args.CID) +
		numberedList(synonyms[:limit]) +
		truncationNote(limit, total, "synonyms")
	return mcp.NewToolResultText(text), nil
}

// getCompoundSDFTool returns the tool definition for get_compound_sdf
func (s *MCPServer) getCompoundSDFTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_sdf",
		Description: "Get the SDF (structure-data file) rendition of a compound",
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

// handleGetCompoundSDF handles the get_compound_sdf tool call
func (s *MCPServer) handleGetCompoundSDF(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
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

	sdf, err := s.client.CompoundSDF(toolCtx(), args.CID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No SDF data found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving SDF data", err), nil
	}
	return mcp.NewToolResultText(sdf), nil
}

// getCompoundSMILESTool returns the tool definition for get_compound_smiles
func (s *MCPServer) getCompoundSMILESTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_smiles",
		Description: "Get the canonical and isomeric SMILES of a compound",
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

// handleGetCompoundSMILES handles the get_compound_smiles tool call
func (s *MCPServer) handleGetCompoundSMILES(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
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

	props, err := s.client.CompoundProperties(toolCtx(), "cid", args.CID,
		[]string{"Title", "CanonicalSMILES", "IsomericSMILES"})
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
		}
		return errorResult("retrieving SMILES", err), nil
	}
	if len(props) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
	}
	p := props[0]

	var b strings.Builder
	fmt.Fprintf(&b, "SMILES for %s (CID %s):\n\n", p.StringOr("Title", "Unknown"), args.CID)
	fmt.Fprintf(&b, "Canonical SMILES: %s\n", p.StringOr("CanonicalSMILES", "N/A"))
	if isomeric := p.String("IsomericSMILES"); isomeric != "" && isomeric != p.String("CanonicalSMILES") {
		fmt.Fprintf(&b, "Isomeric SMILES: %s\n", isomeric)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// getCompoundInChITool returns the tool definition for get_compound_inchi
func (s *MCPServer) getCompoundInChITool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_inchi",
		Description: "Get the InChI and InChIKey of a compound",
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

// handleGetCompoundInChI handles the get_compound_inchi tool call
func (s *MCPServer) handleGetCompoundInChI(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
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

	props, err := s.client.CompoundProperties(toolCtx(), "cid", args.CID,
		[]string{"Title", "InChI", "InChIKey"})
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
		}
		return errorResult("retrieving InChI", err), nil
	}
	if len(props) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
	}
	p := props[0]

	var b strings.Builder
	fmt.Fprintf(&b, "InChI for %s (CID %s):\n\n", p.StringOr("Title", "Unknown"), args.CID)
	fmt.Fprintf(&b, "InChI: %s\n", p.StringOr("InChI", "N/A"))
	fmt.Fprintf(&b, "InChIKey: %s\n", p.StringOr("InChIKey", "N/A"))
	return mcp.NewToolResultText(b.String()), nil
}

// getCompoundMOLTool returns the tool definition for get_compound_mol
func (s *MCPServer) getCompoundMOLTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_mol",
		Description: "Get the MOL file rendition of a compound",
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

// handleGetCompoundMOL handles the get_compound_mol tool call
func (s *MCPServer) handleGetCompoundMOL(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
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

	mol, err := s.client.CompoundMOL(toolCtx(), args.CID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No MOL data found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving MOL data", err), nil
	}
	return mcp.NewToolResultText(mol), nil
}

// batchGetCompoundsTool returns the tool definition for batch_get_compounds
func (s *MCPServer) batchGetCompoundsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "batch_get_compounds",
		Description: "Get one property for several compounds at once, rendered as a table",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cids": map[string]any{
					"type":        "string",
					"description": "Comma-separated PubChem Compound IDs, e.g. '2244,3672,1983'",
				},
				"property_name": map[string]any{
					"type":        "string",
					"description": "Property to retrieve, e.g. 'MolecularWeight' (default 'MolecularWeight')",
				},
			},
			Required: []string{"cids"},
		},
	}
}

// handleBatchGetCompounds handles the batch_get_compounds tool call
func (s *MCPServer) handleBatchGetCompounds(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CIDs         string `json:"cids"`
		PropertyName string `json:"property_name"`
	}{PropertyName: "MolecularWeight"}
	parseArgs(arguments, &args)
	if strings.TrimSpace(args.CIDs) == "" {
		return mcp.NewToolResultError("cids is required"), nil
	}

	var ids []string
	for _, raw := range strings.Split(args.CIDs, ",") {
		if id := strings.TrimSpace(raw); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return mcp.NewToolResultError("cids is required"), nil
	}

	property := normalizeProperty(args.PropertyName)
	props, err := s.client.CompoundProperties(toolCtx(), "cid", strings.Join(ids, ","),
		[]string{"Title", property})
	if err != nil {
		switch {
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText("No compounds found for the given CIDs"), nil
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText(fmt.Sprintf("Invalid request: check the CID list and property name %q", args.PropertyName)), nil
		}
		return errorResult("retrieving batch properties", err), nil
	}
	if len(props) == 0 {
		return mcp.NewToolResultText("No compounds found for the given CIDs"), nil
	}

	rows := make([][]string, 0, len(props))
	for _, p := range props {
		rows = append(rows, []string{
			p.String("CID"),
			p.StringOr("Title", "Unknown"),
			p.StringOr(property, "N/A"),
		})
	}
	title := fmt.Sprintf("Batch Property Data (%s):", property)
	return mcp.NewToolResultText(renderTable(title, []string{"CID", "Name", property}, rows)), nil
}
