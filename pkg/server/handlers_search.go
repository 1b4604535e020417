package server

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sabio/pubchem-mcp-go/pkg/pubchem"
)

// summaryProps is the projection used for one-line compound listings.
var summaryProps = []string{"Title", "MolecularFormula", "MolecularWeight"}

// validElements is the set of element symbols accepted by the element
// search, capitalized.
var validElements = func() map[string]bool {
	set := make(map[string]bool, len(elementOrder))
	for _, s := range elementOrder {
		set[s] = true
	}
	return set
}()

func joinCIDs(cids []int64) string {
	ids := make([]string, len(cids))
	for i, cid := range cids {
		ids[i] = strconv.FormatInt(cid, 10)
	}
	return strings.Join(ids, ",")
}

// compoundSummaries projects title, formula and weight for a batch of CIDs
// in a single call.
func (s *MCPServer) compoundSummaries(cids []int64) ([]pubchem.Property, error) {
	return s.client.CompoundProperties(toolCtx(), "cid", joinCIDs(cids), summaryProps)
}

func summaryLine(p pubchem.Property) string {
	return fmt.Sprintf("CID: %d | %s | %s | %s g/mol",
		p.CID(),
		p.StringOr("Title", "Unknown"),
		p.StringOr("MolecularFormula", "N/A"),
		p.StringOr("MolecularWeight", "N/A"))
}

// compoundBlock renders the multi-line summary used by single-hit searches.
func compoundBlock(p pubchem.Property) string {
	var b strings.Builder
	cid := p.CID()
	fmt.Fprintf(&b, "CID: %d\n", cid)
	fmt.Fprintf(&b, "Name: %s\n", p.StringOr("Title", "Unknown"))
	fmt.Fprintf(&b, "Molecular Formula: %s\n", p.StringOr("MolecularFormula", "N/A"))
	fmt.Fprintf(&b, "Molecular Weight: %s g/mol\n", p.StringOr("MolecularWeight", "N/A"))
	if smiles := p.String("CanonicalSMILES"); smiles != "" {
		fmt.Fprintf(&b, "Canonical SMILES: %s\n", smiles)
	}
	if iupac := p.String("IUPACName"); iupac != "" {
		fmt.Fprintf(&b, "IUPAC Name: %s\n", iupac)
	}
	fmt.Fprintf(&b, "URL: %s\n", compoundURL(cid))
	return b.String()
}

// looksLikeInChI reports whether a query is InChI notation, with or without
// the standard prefix.
func looksLikeInChI(query string) bool {
	return strings.HasPrefix(query, "InChI=") || strings.HasPrefix(query, "1S/")
}

// looksLikeSMILES is a heuristic: names never contain bond or branch
// symbols, SMILES almost always do.
func looksLikeSMILES(query string) bool {
	return strings.ContainsAny(query, "=#()[]@\\/")
}

// searchCompoundTool returns the tool definition for search_compound
func (s *MCPServer) searchCompoundTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_compound",
		Description: "Search for compounds by name, SMILES or InChI; the identifier type is detected automatically",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Compound name, SMILES string or InChI string",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of results for name searches (default 5)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// handleSearchCompound handles the search_compound tool call
func (s *MCPServer) handleSearchCompound(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	args := struct {
		Query      string `json:"query"`
		MaxResults int    `json:"max_results"`
	}{}
	parseArgs(arguments, &args)
	if args.Query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	switch {
	case looksLikeInChI(args.Query):
		return s.handleSearchCompoundByInChI(map[string]interface{}{"inchi": args.Query})
	case looksLikeSMILES(args.Query):
		return s.handleSearchCompoundBySMILES(map[string]interface{}{"smiles": args.Query})
	default:
		return s.handleSearchCompoundByName(arguments)
	}
}

// searchCompoundByNameTool returns the tool definition for search_compound_by_name
func (s *MCPServer) searchCompoundByNameTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_compound_by_name",
		Description: "Search for compounds by name and list the top matches with formula and weight",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Compound name or synonym, e.g. 'aspirin'",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of results to return (default 5)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// handleSearchCompoundByName handles the search_compound_by_name tool call
func (s *MCPServer) handleSearchCompoundByName(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		Query      string `json:"query"`
		MaxResults int    `json:"max_results"`
	}{}
	parseArgs(arguments, &args)
	if args.Query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	cids, err := s.client.CompoundCIDsByName(toolCtx(), args.Query)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No compounds found matching %q", args.Query)), nil
		}
		return errorResult("searching compounds", err), nil
	}
	if len(cids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compounds found matching %q", args.Query)), nil
	}

	total := len(cids)
	limit := clampLimit(args.MaxResults, DefaultSearchResults, MaxSearchResults)
	if limit > total {
		limit = total
	}
	props, err := s.compoundSummaries(cids[:limit])
	if err != nil {
		return errorResult("retrieving compound properties", err), nil
	}

	items := make([]string, 0, len(props))
	for _, p := range props {
		items = append(items, summaryLine(p))
	}
	text := fmt.Sprintf("Compound Search Results for %q:\n\n", args.Query) +
		numberedList(items) +
		truncationNote(limit, total, "matching compounds")
	return mcp.NewToolResultText(text), nil
}

// searchCompoundBySMILESTool returns the tool definition for search_compound_by_smiles
func (s *MCPServer) searchCompoundBySMILESTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_compound_by_smiles",
		Description: "Look up the compound matching a SMILES string",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"smiles": map[string]any{
					"type":        "string",
					"description": "SMILES notation, e.g. 'CC(=O)OC1=CC=CC=C1C(=O)O'",
				},
			},
			Required: []string{"smiles"},
		},
	}
}

// handleSearchCompoundBySMILES handles the search_compound_by_smiles tool call
func (s *MCPServer) handleSearchCompoundBySMILES(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		SMILES string `json:"smiles"`
	}{}
	parseArgs(arguments, &args)
	if args.SMILES == "" {
		return mcp.NewToolResultError("smiles is required"), nil
	}

	cids, err := s.client.CompoundCIDsBySMILES(toolCtx(), args.SMILES)
	if err != nil {
		switch {
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText(fmt.Sprintf("Invalid SMILES notation: %s", args.SMILES)), nil
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText(fmt.Sprintf("No compound found for SMILES %s", args.SMILES)), nil
		}
		return errorResult("searching by SMILES", err), nil
	}
	if len(cids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compound found for SMILES %s", args.SMILES)), nil
	}

	props, err := s.client.CompoundProperties(toolCtx(), "cid", strconv.FormatInt(cids[0], 10),
		[]string{"Title", "MolecularFormula", "MolecularWeight", "CanonicalSMILES", "IUPACName"})
	if err != nil {
		return errorResult("retrieving compound properties", err), nil
	}
	if len(props) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compound found for SMILES %s", args.SMILES)), nil
	}

	text := fmt.Sprintf("Compound Match for SMILES %q:\n\n%s", args.SMILES, compoundBlock(props[0]))
	return mcp.NewToolResultText(text), nil
}

// searchCompoundByInChITool returns the tool definition for search_compound_by_inchi
func (s *MCPServer) searchCompoundByInChITool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_compound_by_inchi",
		Description: "Look up the compound matching an InChI string",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"inchi": map[string]any{
					"type":        "string",
					"description": "InChI notation; the 'InChI=' prefix may be omitted",
				},
			},
			Required: []string{"inchi"},
		},
	}
}

// handleSearchCompoundByInChI handles the search_compound_by_inchi tool call
func (s *MCPServer) handleSearchCompoundByInChI(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		InChI string `json:"inchi"`
	}{}
	parseArgs(arguments, &args)
	if args.InChI == "" {
		return mcp.NewToolResultError("inchi is required"), nil
	}
	inchi := args.InChI
	if !strings.HasPrefix(inchi, "InChI=") {
		inchi = "InChI=" + inchi
	}

	cids, err := s.client.CompoundCIDsByInChI(toolCtx(), inchi)
	if err != nil {
		switch {
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText(fmt.Sprintf("Invalid InChI notation: %s", args.InChI)), nil
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText(fmt.Sprintf("No compound found for InChI %s", args.InChI)), nil
		}
		return errorResult("searching by InChI", err), nil
	}
	if len(cids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compound found for InChI %s", args.InChI)), nil
	}

	props, err := s.client.CompoundProperties(toolCtx(), "cid", strconv.FormatInt(cids[0], 10),
		[]string{"Title", "MolecularFormula", "MolecularWeight", "CanonicalSMILES", "InChIKey"})
	if err != nil {
		return errorResult("retrieving compound properties", err), nil
	}
	if len(props) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compound found for InChI %s", args.InChI)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Compound Match for InChI:\n\n%s", compoundBlock(props[0]))
	if key := props[0].String("InChIKey"); key != "" {
		fmt.Fprintf(&b, "InChIKey: %s\n", key)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// searchBySubstructureTool returns the tool definition for search_by_substructure
func (s *MCPServer) searchBySubstructureTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_by_substructure",
		Description: "Find compounds containing the given substructure",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"smiles": map[string]any{
					"type":        "string",
					"description": "SMILES notation of the substructure",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of results to return (default 10)",
				},
			},
			Required: []string{"smiles"},
		},
	}
}

// handleSearchBySubstructure handles the search_by_substructure tool call
func (s *MCPServer) handleSearchBySubstructure(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		SMILES     string `json:"smiles"`
		MaxResults int    `json:"max_results"`
	}{}
	parseArgs(arguments, &args)
	if args.SMILES == "" {
		return mcp.NewToolResultError("smiles is required"), nil
	}

	cids, err := s.client.CompoundCIDsBySubstructure(toolCtx(), args.SMILES)
	if err != nil {
		switch {
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText(fmt.Sprintf("Invalid SMILES notation: %s", args.SMILES)), nil
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText(fmt.Sprintf("No compounds found containing the substructure: %s", args.SMILES)), nil
		}
		return errorResult("searching by substructure", err), nil
	}
	if len(cids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compounds found containing the substructure: %s", args.SMILES)), nil
	}

	total := len(cids)
	limit := clampLimit(args.MaxResults, DefaultStructurePage, MaxSearchResults)
	if limit > total {
		limit = total
	}
	props, err := s.compoundSummaries(cids[:limit])
	if err != nil {
		return errorResult("retrieving compound properties", err), nil
	}

	items := make([]string, 0, len(props))
	for _, p := range props {
		items = append(items, summaryLine(p)+"\n   "+compoundURL(p.CID()))
	}
	text := fmt.Sprintf("Compounds containing substructure %q:\n\n", args.SMILES) +
		numberedList(items) +
		truncationNote(limit, total, "matching compounds")
	return mcp.NewToolResultText(text), nil
}

// searchBySimilarityTool returns the tool definition for search_by_similarity
func (s *MCPServer) searchBySimilarityTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_by_similarity",
		Description: "Find compounds structurally similar to the given SMILES (2D Tanimoto similarity)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"smiles": map[string]any{
					"type":        "string",
					"description": "SMILES notation of the query structure",
				},
				"threshold": map[string]any{
					"type":        "number",
					"description": "Similarity threshold between 0.0 and 1.0 (default 0.8)",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of results to return (default 10)",
				},
			},
			Required: []string{"smiles"},
		},
	}
}

// handleSearchBySimilarity handles the search_by_similarity tool call
func (s *MCPServer) handleSearchBySimilarity(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		SMILES     string  `json:"smiles"`
		Threshold  float64 `json:"threshold"`
		MaxResults int     `json:"max_results"`
	}{Threshold: 0.8}
	parseArgs(arguments, &args)
	if args.SMILES == "" {
		return mcp.NewToolResultError("smiles is required"), nil
	}
	threshold := similarityThreshold(args.Threshold)
	limit := clampLimit(args.MaxResults, DefaultStructurePage, MaxSearchResults)

	props, err := s.client.SimilarCompoundProperties(toolCtx(), "smiles", args.SMILES, threshold, limit, summaryProps)
	if err != nil {
		switch {
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText(fmt.Sprintf("Invalid SMILES notation: %s", args.SMILES)), nil
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText(fmt.Sprintf("No similar compounds found for SMILES %s", args.SMILES)), nil
		}
		return errorResult("searching by similarity", err), nil
	}
	if len(props) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No similar compounds found for SMILES %s", args.SMILES)), nil
	}

	items := make([]string, 0, len(props))
	for _, p := range props {
		items = append(items, summaryLine(p))
	}
	text := fmt.Sprintf("Similar Compounds (Tanimoto >= %.2f) for SMILES %q:\n\n", float64(threshold)/100, args.SMILES) +
		numberedList(items)
	return mcp.NewToolResultText(text), nil
}

// similarityThreshold converts a 0-1 fraction to the 0-100 integer the API
// expects, defaulting out-of-range values to 80.
func similarityThreshold(fraction float64) int {
	if fraction <= 0 || fraction > 1 {
		return 80
	}
	return int(math.Round(fraction * 100))
}

// searchByExactStructureTool returns the tool definition for search_by_exact_structure
func (s *MCPServer) searchByExactStructureTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_by_exact_structure",
		Description: "Find the compound exactly matching the given structure",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"smiles": map[string]any{
					"type":        "string",
					"description": "SMILES notation of the structure",
				},
			},
			Required: []string{"smiles"},
		},
	}
}

// handleSearchByExactStructure handles the search_by_exact_structure tool call
func (s *MCPServer) handleSearchByExactStructure(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		SMILES string `json:"smiles"`
	}{}
	parseArgs(arguments, &args)
	if args.SMILES == "" {
		return mcp.NewToolResultError("smiles is required"), nil
	}

	cids, err := s.client.CompoundCIDsByIdentity(toolCtx(), args.SMILES)
	if err != nil {
		switch {
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText(fmt.Sprintf("Invalid SMILES notation: %s", args.SMILES)), nil
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText(fmt.Sprintf("No exact structure match found for SMILES %s", args.SMILES)), nil
		}
		return errorResult("searching by exact structure", err), nil
	}
	if len(cids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No exact structure match found for SMILES %s", args.SMILES)), nil
	}

	props, err := s.client.CompoundProperties(toolCtx(), "cid", strconv.FormatInt(cids[0], 10),
		[]string{"Title", "MolecularFormula", "MolecularWeight", "CanonicalSMILES"})
	if err != nil {
		return errorResult("retrieving compound properties", err), nil
	}
	if len(props) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No exact structure match found for SMILES %s", args.SMILES)), nil
	}

	return mcp.NewToolResultText("Exact Structure Match:\n\n" + compoundBlock(props[0])), nil
}

// searchSimilarCompoundsByCIDTool returns the tool definition for search_similar_compounds_by_cid
func (s *MCPServer) searchSimilarCompoundsByCIDTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_similar_compounds_by_cid",
		Description: "Find compounds structurally similar to an existing PubChem compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID to use as the query",
				},
				"threshold": map[string]any{
					"type":        "number",
					"description": "Similarity threshold between 0.0 and 1.0 (default 0.8)",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of results to return (default 10)",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleSearchSimilarCompoundsByCID handles the search_similar_compounds_by_cid tool call
func (s *MCPServer) handleSearchSimilarCompoundsByCID(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID        string  `json:"cid"`
		Threshold  float64 `json:"threshold"`
		MaxResults int     `json:"max_results"`
	}{Threshold: 0.8}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	name, err := s.client.CompoundTitle(toolCtx(), args.CID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound", err), nil
	}

	threshold := similarityThreshold(args.Threshold)
	limit := clampLimit(args.MaxResults, DefaultStructurePage, MaxSearchResults)
	props, err := s.client.SimilarCompoundProperties(toolCtx(), "cid", args.CID, threshold, limit,
		[]string{"Title", "MolecularFormula", "CanonicalSMILES"})
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No similar compounds found for CID %s", args.CID)), nil
		}
		return errorResult("searching similar compounds", err), nil
	}
	if len(props) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No similar compounds found for CID %s", args.CID)), nil
	}

	// The API returns hits ordered by similarity but without scores, so the
	// score shown is interpolated from rank and flagged as approximate.
	floor := float64(threshold) / 100
	items := make([]string, 0, len(props))
	for i, p := range props {
		score := 1.0 - float64(i)*0.02
		if score < floor {
			score = floor
		}
		items = append(items, fmt.Sprintf("CID %d (%s) - Similarity: ~%.2f\n   Formula: %s\n   SMILES: %s",
			p.CID(), p.StringOr("Title", "Unknown"), score,
			p.StringOr("MolecularFormula", "N/A"), p.StringOr("CanonicalSMILES", "N/A")))
	}

	text := fmt.Sprintf("Similar Compounds to CID %s (%s):\n\n", args.CID, name) +
		numberedList(items) +
		"\nSimilarity values are approximate, derived from result ordering."
	return mcp.NewToolResultText(text), nil
}

// searchCompoundsByPropertyTool returns the tool definition for search_compounds_by_property
func (s *MCPServer) searchCompoundsByPropertyTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_compounds_by_property",
		Description: "Find compounds whose property falls inside a numeric range",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"property_name": map[string]any{
					"type":        "string",
					"description": "Property to search on, e.g. 'MolecularWeight', 'XLogP', 'TPSA'",
				},
				"min_value": map[string]any{
					"type":        "number",
					"description": "Lower bound of the range",
				},
				"max_value": map[string]any{
					"type":        "number",
					"description": "Upper bound of the range",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of results to return (default 10)",
				},
			},
			Required: []string{"property_name", "min_value", "max_value"},
		},
	}
}

// handleSearchCompoundsByProperty handles the search_compounds_by_property tool call
func (s *MCPServer) handleSearchCompoundsByProperty(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		PropertyName string  `json:"property_name"`
		MinValue     float64 `json:"min_value"`
		MaxValue     float64 `json:"max_value"`
		MaxResults   int     `json:"max_results"`
	}{}
	parseArgs(arguments, &args)
	if args.PropertyName == "" {
		return mcp.NewToolResultError("property_name is required"), nil
	}

	property := normalizeRangeProperty(args.PropertyName)
	if !isRangeSearchProperty(property) {
		return mcp.NewToolResultText(fmt.Sprintf("Invalid property name %q. Valid properties are: %s",
			args.PropertyName, strings.Join(rangeSearchProperties, ", "))), nil
	}
	if args.MinValue > args.MaxValue {
		return mcp.NewToolResultError("min_value must not exceed max_value"), nil
	}

	cids, err := s.client.CompoundCIDsByPropertyRange(toolCtx(), property, args.MinValue, args.MaxValue)
	if err != nil {
		switch {
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText(fmt.Sprintf("No compounds found with %s between %g and %g",
				property, args.MinValue, args.MaxValue)), nil
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText(fmt.Sprintf("Invalid search: check that %g:%g is a valid range for %s",
				args.MinValue, args.MaxValue, property)), nil
		}
		return errorResult("searching by property range", err), nil
	}
	if len(cids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compounds found with %s between %g and %g",
			property, args.MinValue, args.MaxValue)), nil
	}

	total := len(cids)
	limit := clampLimit(args.MaxResults, DefaultStructurePage, MaxSearchResults)
	if limit > total {
		limit = total
	}
	props, err := s.compoundSummaries(cids[:limit])
	if err != nil {
		return errorResult("retrieving compound properties", err), nil
	}

	items := make([]string, 0, len(props))
	for _, p := range props {
		items = append(items, summaryLine(p))
	}
	text := fmt.Sprintf("Compounds with %s between %g and %g:\n\n", property, args.MinValue, args.MaxValue) +
		numberedList(items) +
		truncationNote(limit, total, "matching compounds")
	return mcp.NewToolResultText(text), nil
}

// searchCompoundsByElementTool returns the tool definition for search_compounds_by_element
func (s *MCPServer) searchCompoundsByElementTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_compounds_by_element",
		Description: "Find compounds containing all of the given chemical elements",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"elements": map[string]any{
					"type":        "string",
					"description": "Comma-separated element symbols, e.g. 'C,N,O'",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of results to return (default 10)",
				},
			},
			Required: []string{"elements"},
		},
	}
}

// handleSearchCompoundsByElement handles the search_compounds_by_element tool call
func (s *MCPServer) handleSearchCompoundsByElement(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		Elements   string `json:"elements"`
		MaxResults int    `json:"max_results"`
	}{}
	parseArgs(arguments, &args)
	if args.Elements == "" {
		return mcp.NewToolResultError("elements is required"), nil
	}

	var symbols []string
	var invalid []string
	for _, raw := range strings.Split(args.Elements, ",") {
		symbol := capitalizeElement(strings.TrimSpace(raw))
		if symbol == "" {
			continue
		}
		if !validElements[symbol] {
			invalid = append(invalid, symbol)
			continue
		}
		symbols = append(symbols, symbol)
	}
	if len(invalid) > 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Invalid element symbols: %s", strings.Join(invalid, ", "))), nil
	}
	if len(symbols) == 0 {
		return mcp.NewToolResultError("elements is required"), nil
	}

	// fastformula has no element-only mode; a wildcard count per element
	// approximates it.
	formula := strings.Join(symbols, "*") + "*"
	cids, err := s.client.CompoundCIDsByFormula(toolCtx(), formula)
	if err != nil {
		switch {
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText(fmt.Sprintf("No compounds found containing elements: %s", strings.Join(symbols, ", "))), nil
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText("Invalid search: check that your element symbols are valid"), nil
		}
		return errorResult("searching by elements", err), nil
	}
	if len(cids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compounds found containing elements: %s", strings.Join(symbols, ", "))), nil
	}

	total := len(cids)
	limit := clampLimit(args.MaxResults, DefaultStructurePage, MaxSearchResults)
	if limit > total {
		limit = total
	}
	props, err := s.compoundSummaries(cids[:limit])
	if err != nil {
		return errorResult("retrieving compound properties", err), nil
	}

	items := make([]string, 0, len(props))
	for _, p := range props {
		items = append(items, summaryLine(p))
	}
	text := fmt.Sprintf("Compounds containing elements %s:\n\n", strings.Join(symbols, ", ")) +
		numberedList(items) +
		truncationNote(limit, total, "matching compounds")
	return mcp.NewToolResultText(text), nil
}

// capitalizeElement normalizes an element symbol to its canonical casing.
func capitalizeElement(symbol string) string {
	if symbol == "" {
		return ""
	}
	return strings.ToUpper(symbol[:1]) + strings.ToLower(symbol[1:])
}

// searchCompoundsByScaffoldTool returns the tool definition for search_compounds_by_scaffold
func (s *MCPServer) searchCompoundsByScaffoldTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_compounds_by_scaffold",
		Description: "Find compounds built on the given molecular scaffold",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"scaffold": map[string]any{
					"type":        "string",
					"description": "SMILES notation of the scaffold, e.g. 'c1ccccc1' for benzene",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of results to return (default 10)",
				},
			},
			Required: []string{"scaffold"},
		},
	}
}

// handleSearchCompoundsByScaffold handles the search_compounds_by_scaffold tool call
func (s *MCPServer) handleSearchCompoundsByScaffold(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		Scaffold   string `json:"scaffold"`
		MaxResults int    `json:"max_results"`
	}{}
	parseArgs(arguments, &args)
	if args.Scaffold == "" {
		return mcp.NewToolResultError("scaffold is required"), nil
	}

	cids, err := s.client.CompoundCIDsBySubstructure(toolCtx(), args.Scaffold)
	if err != nil {
		switch {
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText(fmt.Sprintf("Invalid search: check that %q is a valid SMILES string", args.Scaffold)), nil
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText(fmt.Sprintf("No compounds found containing the scaffold: %s", args.Scaffold)), nil
		}
		return errorResult("searching by scaffold", err), nil
	}
	if len(cids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compounds found containing the scaffold: %s", args.Scaffold)), nil
	}

	total := len(cids)
	limit := clampLimit(args.MaxResults, DefaultStructurePage, MaxSearchResults)
	if limit > total {
		limit = total
	}
	props, err := s.compoundSummaries(cids[:limit])
	if err != nil {
		return errorResult("retrieving compound properties", err), nil
	}

	items := make([]string, 0, len(props))
	for _, p := range props {
		items = append(items, summaryLine(p)+"\n   "+compoundURL(p.CID()))
	}
	text := fmt.Sprintf("Compounds containing scaffold %q:\n\n", args.Scaffold) +
		numberedList(items) +
		truncationNote(limit, total, "matching compounds")
	return mcp.NewToolResultText(text), nil
}
