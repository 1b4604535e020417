package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sabio/pubchem-mcp-go/pkg/pubchem"
)

// elementOrder lists element symbols by atomic number.
var elementOrder = []string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne", "Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr", "Rf", "Db",
	"Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

func elementSymbol(atomicNumber int64) string {
	if atomicNumber < 1 || int(atomicNumber) > len(elementOrder) {
		return "?"
	}
	return elementOrder[atomicNumber-1]
}

// convertStructureTool returns the tool definition for convert_structure
func (s *MCPServer) convertStructureTool() mcp.Tool {
	return mcp.Tool{
		Name:        "convert_structure",
		Description: "Convert a structure between SMILES, InChI and InChIKey notations",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"input_format": map[string]any{
					"type":        "string",
					"description": "Format of the input structure: 'SMILES' or 'InChI'",
				},
				"output_format": map[string]any{
					"type":        "string",
					"description": "Desired output format: 'SMILES', 'InChI' or 'InChIKey'",
				},
				"structure": map[string]any{
					"type":        "string",
					"description": "The structure to convert",
				},
			},
			Required: []string{"input_format", "output_format", "structure"},
		},
	}
}

// handleConvertStructure handles the convert_structure tool call
func (s *MCPServer) handleConvertStructure(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		InputFormat  string `json:"input_format"`
		OutputFormat string `json:"output_format"`
		Structure    string `json:"structure"`
	}{}
	parseArgs(arguments, &args)
	if args.Structure == "" {
		return mcp.NewToolResultError("structure is required"), nil
	}

	outputProps := map[string]string{
		"smiles":   "CanonicalSMILES",
		"inchi":    "InChI",
		"inchikey": "InChIKey",
	}
	property, ok := outputProps[strings.ToLower(args.OutputFormat)]
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("Output format %q not supported. Use SMILES, InChI or InChIKey.", args.OutputFormat)), nil
	}

	var props []pubchem.Property
	var err error
	switch strings.ToLower(args.InputFormat) {
	case "smiles":
		props, err = s.client.CompoundProperties(toolCtx(), "smiles", args.Structure, []string{property})
	case "inchi":
		inchi := args.Structure
		if !strings.HasPrefix(inchi, "InChI=") {
			inchi = "InChI=" + inchi
		}
		props, err = s.client.CompoundPropertiesByInChI(toolCtx(), inchi, []string{property})
	default:
		return mcp.NewToolResultText(fmt.Sprintf("Input format %q not supported. Use SMILES or InChI.", args.InputFormat)), nil
	}
	if err != nil {
		switch {
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText(fmt.Sprintf("Invalid %s notation: %s", args.InputFormat, args.Structure)), nil
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText(fmt.Sprintf("No compound found for the given %s", args.InputFormat)), nil
		}
		return errorResult("converting structure", err), nil
	}
	if len(props) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compound found for the given %s", args.InputFormat)), nil
	}

	converted := props[0].String(property)
	if converted == "" {
		return mcp.NewToolResultText(fmt.Sprintf("Conversion produced no %s for the given structure", args.OutputFormat)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Converted structure (%s):\n%s", args.OutputFormat, converted)), nil
}

// getStructureImageTool returns the tool definition for get_structure_image
func (s *MCPServer) getStructureImageTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_structure_image",
		Description: "Get the URL of a rendered structure image for a compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
				"image_format": map[string]any{
					"type":        "string",
					"description": "'PNG' or 'SVG' (default 'PNG')",
				},
				"size": map[string]any{
					"type":        "string",
					"description": "Image size as WIDTHxHEIGHT, e.g. '500x500'",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetStructureImage handles the get_structure_image tool call
func (s *MCPServer) handleGetStructureImage(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID         string `json:"cid"`
		ImageFormat string `json:"image_format"`
		Size        string `json:"size"`
	}{ImageFormat: "PNG", Size: "500x500"}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	format := strings.ToUpper(args.ImageFormat)
	if format != "PNG" && format != "SVG" {
		return mcp.NewToolResultText(fmt.Sprintf("Image format %q not supported. Use PNG or SVG.", args.ImageFormat)), nil
	}

	name, err := s.client.CompoundTitle(toolCtx(), args.CID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound", err), nil
	}

	imageURL := fmt.Sprintf("https://pubchem.ncbi.nlm.nih.gov/image/imgsrv.fcgi?cid=%s&t=l", args.CID)
	if width, height, ok := parseImageSize(args.Size); ok {
		imageURL = fmt.Sprintf("%s&width=%d&height=%d", imageURL, width, height)
	}
	text := fmt.Sprintf("Image URL for %s (CID %s) in %s format at size %s:\n%s",
		name, args.CID, format, args.Size, imageURL)
	return mcp.NewToolResultText(text), nil
}

// parseImageSize parses a "WIDTHxHEIGHT" string.
func parseImageSize(size string) (int, int, bool) {
	parts := strings.SplitN(strings.ToLower(size), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	width, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	height, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

// getCompoundImageURLTool returns the tool definition for get_compound_image_url
func (s *MCPServer) getCompoundImageURLTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_image_url",
		Description: "Get the 2D or 3D depiction URL of a compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
				"image_type": map[string]any{
					"type":        "string",
					"description": "'2d' or '3d' (default '2d')",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundImageURL handles the get_compound_image_url tool call
func (s *MCPServer) handleGetCompoundImageURL(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID       string `json:"cid"`
		ImageType string `json:"image_type"`
	}{ImageType: "2d"}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	var imageURL string
	switch strings.ToLower(args.ImageType) {
	case "2d":
		imageURL = fmt.Sprintf("https://pubchem.ncbi.nlm.nih.gov/image/imgsrv.fcgi?cid=%s&t=l", args.CID)
	case "3d":
		imageURL = fmt.Sprintf("https://pubchem.ncbi.nlm.nih.gov/image/img3d.cgi?cid=%s&t=l", args.CID)
	default:
		return mcp.NewToolResultText(fmt.Sprintf("Image type %q not supported. Use '2d' or '3d'.", args.ImageType)), nil
	}

	text := fmt.Sprintf("%s image URL for compound CID %s:\n%s",
		strings.ToUpper(args.ImageType), args.CID, imageURL)
	return mcp.NewToolResultText(text), nil
}

// get3DStructureTool returns the tool definition for get_3d_structure
func (s *MCPServer) get3DStructureTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_3d_structure",
		Description: "Get the download URL of the computed 3D conformer record of a compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
				"format": map[string]any{
					"type":        "string",
					"description": "'SDF' or 'JSON' (default 'SDF')",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGet3DStructure handles the get_3d_structure tool call
func (s *MCPServer) handleGet3DStructure(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID    string `json:"cid"`
		Format string `json:"format"`
	}{Format: "SDF"}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	format := strings.ToUpper(args.Format)
	if format != "SDF" && format != "JSON" {
		return mcp.NewToolResultText(fmt.Sprintf("Format %q not supported. Use SDF or JSON.", args.Format)), nil
	}

	name, err := s.client.CompoundTitle(toolCtx(), args.CID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No compound found with CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound", err), nil
	}

	structureURL := fmt.Sprintf("%s/compound/cid/%s/record/%s/?record_type=3d",
		pubchem.DefaultBaseURL, args.CID, format)
	text := fmt.Sprintf("3D Structure for %s (CID %s) in %s format:\n\nTo download the full 3D %s file, visit:\n%s",
		name, args.CID, format, format, structureURL)
	return mcp.NewToolResultText(text), nil
}

// generate2DCoordinatesTool returns the tool definition for generate_2d_coordinates
func (s *MCPServer) generate2DCoordinatesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "generate_2d_coordinates",
		Description: "Get the URL of a standardized record with 2D coordinates for a SMILES structure",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"smiles": map[string]any{
					"type":        "string",
					"description": "SMILES notation of the structure",
				},
				"format": map[string]any{
					"type":        "string",
					"description": "'SDF' or 'JSON' (default 'SDF')",
				},
			},
			Required: []string{"smiles"},
		},
	}
}

// handleGenerate2DCoordinates handles the generate_2d_coordinates tool call
func (s *MCPServer) handleGenerate2DCoordinates(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		SMILES string `json:"smiles"`
		Format string `json:"format"`
	}{Format: "SDF"}
	parseArgs(arguments, &args)
	if args.SMILES == "" {
		return mcp.NewToolResultError("smiles is required"), nil
	}

	format := strings.ToUpper(args.Format)
	if format != "SDF" && format != "JSON" {
		return mcp.NewToolResultText(fmt.Sprintf("Format %q not supported. Use SDF or JSON.", args.Format)), nil
	}

	// Validate the SMILES before handing back a URL that would 400.
	if _, err := s.client.CompoundCIDsBySMILES(toolCtx(), args.SMILES); err != nil {
		switch {
		case pubchem.IsBadRequest(err):
			return mcp.NewToolResultText(fmt.Sprintf("Invalid SMILES notation: %s", args.SMILES)), nil
		case pubchem.IsNotFound(err):
			return mcp.NewToolResultText(fmt.Sprintf("No compound found for SMILES %s", args.SMILES)), nil
		}
		return errorResult("validating SMILES", err), nil
	}

	recordURL := fmt.Sprintf("%s/compound/smiles/%s/record/%s", pubchem.DefaultBaseURL, args.SMILES, format)
	text := fmt.Sprintf("2D Coordinates for molecule (SMILES: %s) in %s format:\n\nTo generate the full 2D %s file, visit:\n%s",
		args.SMILES, format, format, recordURL)
	return mcp.NewToolResultText(text), nil
}

// getCompound3DCoordinatesTool returns the tool definition for get_compound_3d_coordinates
func (s *MCPServer) getCompound3DCoordinatesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_3d_coordinates",
		Description: "Get the atom coordinates of the computed 3D conformer of a compound",
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

// handleGetCompound3DCoordinates handles the get_compound_3d_coordinates tool call
func (s *MCPServer) handleGetCompound3DCoordinates(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
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

	record, err := s.client.CompoundRecord(toolCtx(), args.CID, true)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No 3D structure found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving 3D coordinates", err), nil
	}
	if len(record.Coords) == 0 || len(record.Coords[0].Conformers) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No 3D structure found for compound CID %s", args.CID)), nil
	}

	conformer := record.Coords[0].Conformers[0]
	total := len(conformer.X)
	const maxAtoms = 25
	shown := total
	if shown > maxAtoms {
		shown = maxAtoms
	}

	rows := make([][]string, 0, shown)
	for i := 0; i < shown; i++ {
		symbol := "?"
		if i < len(record.Atoms.Element) {
			symbol = elementSymbol(record.Atoms.Element[i])
		}
		// Upstream records occasionally ship ragged coordinate arrays;
		// missing axis values render as zero.
		y, z := 0.0, 0.0
		if i < len(conformer.Y) {
			y = conformer.Y[i]
		}
		if i < len(conformer.Z) {
			z = conformer.Z[i]
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			symbol,
			strconv.FormatFloat(conformer.X[i], 'f', 4, 64),
			strconv.FormatFloat(y, 'f', 4, 64),
			strconv.FormatFloat(z, 'f', 4, 64),
		})
	}

	title := fmt.Sprintf("3D Coordinates for compound CID %s (%d atoms):", args.CID, total)
	text := renderTable(title, []string{"Atom", "Element", "X", "Y", "Z"}, rows) +
		truncationNote(shown, total, "atoms")
	return mcp.NewToolResultText(text), nil
}

// getCompoundConformersTool returns the tool definition for get_compound_conformers
func (s *MCPServer) getCompoundConformersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_conformers",
		Description: "List the stored conformer identifiers of a compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
				"max_conformers": map[string]any{
					"type":        "number",
					"description": "Maximum number of conformers to list (default 5)",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundConformers handles the get_compound_conformers tool call
func (s *MCPServer) handleGetCompoundConformers(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID           string `json:"cid"`
		MaxConformers int    `json:"max_conformers"`
	}{MaxConformers: 5}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}

	conformers, err := s.client.CompoundConformerIDs(toolCtx(), args.CID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No conformers found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving conformers", err), nil
	}
	if len(conformers) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No conformers found for compound CID %s", args.CID)), nil
	}

	total := len(conformers)
	limit := args.MaxConformers
	if limit <= 0 {
		limit = 5
	}
	if limit > total {
		limit = total
	}

	items := make([]string, 0, limit)
	for _, id := range conformers[:limit] {
		items = append(items, fmt.Sprintf("Conformer ID: %s\n   %s/conformers/%s/SDF", id, pubchem.DefaultBaseURL, id))
	}
	text := fmt.Sprintf("Conformers for compound CID %s:\n\n", args.CID) +
		numberedList(items) +
		truncationNote(limit, total, "conformers")
	return mcp.NewToolResultText(text), nil
}
