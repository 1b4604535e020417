package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sabio/pubchem-mcp-go/pkg/pubchem"
	"golang.org/x/time/rate"
)

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// MCPServer wraps the PubChem client and MCP server
type MCPServer struct {
	client  *pubchem.Client
	server  *server.MCPServer
	limiter *rate.Limiter
}

// NewMCPServer creates a new MCP server with the given PubChem client
func NewMCPServer(client *pubchem.Client) *MCPServer {
	return &MCPServer{
		client: client,
		server: server.NewMCPServer(
			"pubchem-mcp-server",
			"1.0.0",
		),
		limiter: newRateLimiter(),
	}
}

// GetServer returns the underlying MCP server
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.server
}

// RegisterTools registers all MCP tools
func (s *MCPServer) RegisterTools() {
	// Compound search
	s.server.AddTool(s.searchCompoundTool(), s.handleSearchCompound)
	s.server.AddTool(s.searchCompoundByNameTool(), s.handleSearchCompoundByName)
	s.server.AddTool(s.searchCompoundBySMILESTool(), s.handleSearchCompoundBySMILES)
	s.server.AddTool(s.searchCompoundByInChITool(), s.handleSearchCompoundByInChI)
	s.server.AddTool(s.searchBySubstructureTool(), s.handleSearchBySubstructure)
	s.server.AddTool(s.searchBySimilarityTool(), s.handleSearchBySimilarity)
	s.server.AddTool(s.searchByExactStructureTool(), s.handleSearchByExactStructure)
	s.server.AddTool(s.searchSimilarCompoundsByCIDTool(), s.handleSearchSimilarCompoundsByCID)
	s.server.AddTool(s.searchCompoundsByPropertyTool(), s.handleSearchCompoundsByProperty)
	s.server.AddTool(s.searchCompoundsByElementTool(), s.handleSearchCompoundsByElement)
	s.server.AddTool(s.searchCompoundsByScaffoldTool(), s.handleSearchCompoundsByScaffold)

	// Compound details and formats
	s.server.AddTool(s.getCompoundDetailsTool(), s.handleGetCompoundDetails)
	s.server.AddTool(s.getCompoundPropertiesTool(), s.handleGetCompoundProperties)
	s.server.AddTool(s.getCompoundSynonymsTool(), s.handleGetCompoundSynonyms)
	s.server.AddTool(s.getCompoundSDFTool(), s.handleGetCompoundSDF)
	s.server.AddTool(s.getCompoundSMILESTool(), s.handleGetCompoundSMILES)
	s.server.AddTool(s.getCompoundInChITool(), s.handleGetCompoundInChI)
	s.server.AddTool(s.getCompoundMOLTool(), s.handleGetCompoundMOL)
	s.server.AddTool(s.batchGetCompoundsTool(), s.handleBatchGetCompounds)

	// Structure conversion and visualization
	s.server.AddTool(s.convertStructureTool(), s.handleConvertStructure)
	s.server.AddTool(s.getStructureImageTool(), s.handleGetStructureImage)
	s.server.AddTool(s.getCompoundImageURLTool(), s.handleGetCompoundImageURL)
	s.server.AddTool(s.get3DStructureTool(), s.handleGet3DStructure)
	s.server.AddTool(s.generate2DCoordinatesTool(), s.handleGenerate2DCoordinates)
	s.server.AddTool(s.getCompound3DCoordinatesTool(), s.handleGetCompound3DCoordinates)
	s.server.AddTool(s.getCompoundConformersTool(), s.handleGetCompoundConformers)

	// Cross references
	s.server.AddTool(s.getCompoundXrefsTool(), s.handleGetCompoundXrefs)
	s.server.AddTool(s.getCompoundLiteratureTool(), s.handleGetCompoundLiterature)
	s.server.AddTool(s.getCompoundPatentsTool(), s.handleGetCompoundPatents)
	s.server.AddTool(s.getCompoundToxicityTool(), s.handleGetCompoundToxicity)
	s.server.AddTool(s.getCompoundDrugInteractionsTool(), s.handleGetCompoundDrugInteractions)
	s.server.AddTool(s.getCompoundVendorsTool(), s.handleGetCompoundVendors)

	// Classification and bioactivity
	s.server.AddTool(s.getCompoundClassificationTool(), s.handleGetCompoundClassification)
	s.server.AddTool(s.getCompoundPharmacologyTool(), s.handleGetCompoundPharmacology)
	s.server.AddTool(s.getCompoundTargetsTool(), s.handleGetCompoundTargets)
	s.server.AddTool(s.getCompoundBioactivityTool(), s.handleGetCompoundBioactivity)
	s.server.AddTool(s.searchBioassaysTool(), s.handleSearchBioassays)
	s.server.AddTool(s.getBioassayDetailsTool(), s.handleGetBioassayDetails)
	s.server.AddTool(s.getBioassayResultsTool(), s.handleGetBioassayResults)

	// Substances
	s.server.AddTool(s.searchSubstanceByNameTool(), s.handleSearchSubstanceByName)
	s.server.AddTool(s.getSubstanceDetailsTool(), s.handleGetSubstanceDetails)
	s.server.AddTool(s.getSubstanceSDFTool(), s.handleGetSubstanceSDF)
	s.server.AddTool(s.getSubstanceSynonymsTool(), s.handleGetSubstanceSynonyms)
	s.server.AddTool(s.getSubstanceCompoundsTool(), s.handleGetSubstanceCompounds)

	// Literature references
	s.server.AddTool(s.searchDocumentsTool(), s.handleSearchDocuments)
	s.server.AddTool(s.getDocumentDetailsTool(), s.handleGetDocumentDetails)
	s.server.AddTool(s.getDocumentCompoundsTool(), s.handleGetDocumentCompounds)
	s.server.AddTool(s.getCompoundReferencesTool(), s.handleGetCompoundReferences)
}

// parseArgs round-trips the raw argument map through JSON into a typed
// struct so missing keys keep their pre-set defaults.
func parseArgs(arguments map[string]interface{}, out any) {
	if arguments == nil {
		return
	}
	data, _ := json.Marshal(arguments)
	_ = json.Unmarshal(data, out)
}

// errorResult renders an internal error as the user-facing tool result.
// The typed error stays inside pkg/pubchem; the protocol layer only ever
// sees a string.
func errorResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error %s: %v", action, err))
}

func toolCtx() context.Context {
	return context.Background()
}
