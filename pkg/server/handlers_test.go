package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sabio/pubchem-mcp-go/pkg/pubchem"
	"golang.org/x/time/rate"
)

// newFakePubChem serves a minimal slice of the PUG REST surface: aspirin
// (CID 2244) resolves, everything else 404s.
func newFakePubChem(t *testing.T) *httptest.Server {
	t.Helper()

	const aspirinProps = `{"PropertyTable":{"Properties":[{
		"CID":2244,
		"Title":"Aspirin",
		"MolecularFormula":"C9H8O4",
		"MolecularWeight":"180.16",
		"CanonicalSMILES":"CC(=O)OC1=CC=CC=C1C(=O)O",
		"IUPACName":"2-acetyloxybenzoic acid",
		"InChI":"InChI=1S/C9H8O4/c1-6(10)13-8-5-3-2-4-7(8)9(11)12/h2-5H,1H3,(H,11,12)",
		"InChIKey":"BSYNRYMUTXBXSQ-UHFFFAOYSA-N",
		"XLogP":1.2,
		"HBondDonorCount":1,
		"HBondAcceptorCount":4,
		"RotatableBondCount":3,
		"ExactMass":"180.04225873"
	}]}}`

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path
		switch {
		case path == "/compound/name/aspirin/cids/JSON":
			_, _ = w.Write([]byte(`{"IdentifierList":{"CID":[2244]}}`))
		case path == "/compound/cid/2244/synonyms/JSON":
			_, _ = w.Write([]byte(`{"InformationList":{"Information":[{"CID":2244,
				"Synonym":["aspirin","acetylsalicylic acid","2-acetoxybenzoic acid","ASA","Ecotrin"]}]}}`))
		case strings.HasPrefix(path, "/compound/cid/2244") && strings.Contains(path, "/property/"):
			_, _ = w.Write([]byte(aspirinProps))
		case strings.HasPrefix(path, "/compound/cid/2244,"):
			_, _ = w.Write([]byte(aspirinProps))
		case path == "/compound/smiles/C=O/cids/JSON":
			_, _ = w.Write([]byte(`{"IdentifierList":{"CID":[9999]}}`))
		case strings.HasPrefix(path, "/compound/cid/9999") && strings.Contains(path, "/property/"):
			_, _ = w.Write([]byte(`{"PropertyTable":{"Properties":[]}}`))
		case path == "/compound/cid/702/record/JSON":
			// A drifted 3D record: the y array is shorter than x.
			_, _ = w.Write([]byte(`{"PC_Compounds":[{
				"atoms":{"aid":[1,2],"element":[6,8]},
				"coords":[{"conformers":[{"x":[1.25,2.5],"y":[0.5]}]}]}]}`))
		default:
			http.Error(w, `{"Fault":{"Code":"PUGREST.NotFound","Message":"No CID found"}}`, http.StatusNotFound)
		}
	}))
}

func newTestServer(t *testing.T, baseURL string) *MCPServer {
	t.Helper()

	client, err := pubchem.NewClient(pubchem.Config{
		BaseURL:        baseURL,
		CallsPerSecond: 1000,
		CacheTTL:       time.Hour,
		Timeout:        5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return NewMCPServer(client)
}

func toolResultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestHandleSearchCompoundByNameSuccess(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	result, err := mcpServer.handleSearchCompoundByName(map[string]interface{}{
		"query": "aspirin",
	})
	if err != nil {
		t.Fatalf("handleSearchCompoundByName error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error result: %s", toolResultText(t, result))
	}
	text := toolResultText(t, result)
	for _, want := range []string{"CID: 2244", "Aspirin", "C9H8O4", "180.16 g/mol"} {
		if !strings.Contains(text, want) {
			t.Fatalf("result missing %q:\n%s", want, text)
		}
	}
}

func TestHandleSearchCompoundByNameNotFound(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	result, err := mcpServer.handleSearchCompoundByName(map[string]interface{}{
		"query": "definitely-not-a-compound",
	})
	if err != nil {
		t.Fatalf("handleSearchCompoundByName error: %v", err)
	}
	if result.IsError {
		t.Fatal("a 404 is a normal no-results outcome, not a tool error")
	}
	text := toolResultText(t, result)
	if !strings.Contains(text, "No compounds found matching") {
		t.Fatalf("unexpected text: %s", text)
	}
}

func TestHandleSearchCompoundByNameMissingQuery(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	result, err := mcpServer.handleSearchCompoundByName(map[string]interface{}{})
	if err != nil {
		t.Fatalf("handleSearchCompoundByName error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing query")
	}
}

func TestHandleGetCompoundSynonymsTruncation(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	result, err := mcpServer.handleGetCompoundSynonyms(map[string]interface{}{
		"cid":         "2244",
		"max_results": 3,
	})
	if err != nil {
		t.Fatalf("handleGetCompoundSynonyms error: %v", err)
	}
	text := toolResultText(t, result)
	if !strings.Contains(text, "1. aspirin") {
		t.Fatalf("list missing first synonym:\n%s", text)
	}
	if !strings.Contains(text, "Showing 3 of 5 synonyms.") {
		t.Fatalf("missing truncation note:\n%s", text)
	}
	if strings.Contains(text, "Ecotrin") {
		t.Fatalf("truncated synonym leaked into output:\n%s", text)
	}
}

func TestHandleGetCompoundPropertiesBasic(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	result, err := mcpServer.handleGetCompoundProperties(map[string]interface{}{
		"cid": "2244",
	})
	if err != nil {
		t.Fatalf("handleGetCompoundProperties error: %v", err)
	}
	text := toolResultText(t, result)
	for _, want := range []string{"Properties for Aspirin (CID 2244)", "MolecularFormula: C9H8O4", "MolecularWeight: 180.16"} {
		if !strings.Contains(text, want) {
			t.Fatalf("result missing %q:\n%s", want, text)
		}
	}
}

func TestHandleGetCompoundDetailsNotFound(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	result, err := mcpServer.handleGetCompoundDetails(map[string]interface{}{
		"cid": "999999999",
	})
	if err != nil {
		t.Fatalf("handleGetCompoundDetails error: %v", err)
	}
	text := toolResultText(t, result)
	if text != "No compound found with CID 999999999" {
		t.Fatalf("unexpected text: %s", text)
	}
}

func TestHandleSearchCompoundBySMILESEmptyPropertyTable(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	result, err := mcpServer.handleSearchCompoundBySMILES(map[string]interface{}{
		"smiles": "C=O",
	})
	if err != nil {
		t.Fatalf("handleSearchCompoundBySMILES error: %v", err)
	}
	if result.IsError {
		t.Fatal("an empty property table is a no-results outcome, not a tool error")
	}
	text := toolResultText(t, result)
	if !strings.Contains(text, "No compound found for SMILES C=O") {
		t.Fatalf("unexpected text: %s", text)
	}
	if strings.Contains(text, "<nil>") {
		t.Fatalf("nil error leaked into output: %s", text)
	}
}

func TestHandleGetCompound3DCoordinatesRaggedRecord(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	result, err := mcpServer.handleGetCompound3DCoordinates(map[string]interface{}{
		"cid": "702",
	})
	if err != nil {
		t.Fatalf("handleGetCompound3DCoordinates error: %v", err)
	}
	if result.IsError {
		t.Fatalf("ragged coordinates should degrade, got error result: %s", toolResultText(t, result))
	}
	text := toolResultText(t, result)
	if !strings.Contains(text, "3D Coordinates for compound CID 702 (2 atoms):") {
		t.Fatalf("missing table title:\n%s", text)
	}
	// The second atom has no y or z value; both render as zero.
	if !strings.Contains(text, "2.5000") || !strings.Contains(text, "0.0000") {
		t.Fatalf("missing coordinate rows:\n%s", text)
	}
}

func TestHandleBatchGetCompounds(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	result, err := mcpServer.handleBatchGetCompounds(map[string]interface{}{
		"cids":          "2244",
		"property_name": "mw",
	})
	if err != nil {
		t.Fatalf("handleBatchGetCompounds error: %v", err)
	}
	text := toolResultText(t, result)
	if !strings.Contains(text, "Batch Property Data (MolecularWeight):") {
		t.Fatalf("missing table title:\n%s", text)
	}
	if !strings.Contains(text, "2244") || !strings.Contains(text, "180.16") {
		t.Fatalf("missing table row data:\n%s", text)
	}
}

func TestHandleSearchCompoundsByPropertyInvalidName(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	result, err := mcpServer.handleSearchCompoundsByProperty(map[string]interface{}{
		"property_name": "Color",
		"min_value":     1.0,
		"max_value":     2.0,
	})
	if err != nil {
		t.Fatalf("handleSearchCompoundsByProperty error: %v", err)
	}
	text := toolResultText(t, result)
	if !strings.Contains(text, "Invalid property name") {
		t.Fatalf("unexpected text: %s", text)
	}
}

func TestHandleSearchCompoundsByElementInvalidSymbol(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	result, err := mcpServer.handleSearchCompoundsByElement(map[string]interface{}{
		"elements": "C,Xx",
	})
	if err != nil {
		t.Fatalf("handleSearchCompoundsByElement error: %v", err)
	}
	text := toolResultText(t, result)
	if !strings.Contains(text, "Invalid element symbols: Xx") {
		t.Fatalf("unexpected text: %s", text)
	}
}

func TestSearchCompoundDispatch(t *testing.T) {
	cases := []struct {
		query  string
		inchi  bool
		smiles bool
	}{
		{"aspirin", false, false},
		{"InChI=1S/C9H8O4/...", true, false},
		{"1S/C9H8O4/...", true, false},
		{"CC(=O)OC1=CC=CC=C1C(=O)O", false, true},
		{"c1ccccc1", false, false}, // bare ring SMILES is indistinguishable from a name
	}
	for _, tc := range cases {
		if got := looksLikeInChI(tc.query); got != tc.inchi {
			t.Errorf("looksLikeInChI(%q) = %v", tc.query, got)
		}
		if got := looksLikeSMILES(tc.query); got != tc.smiles {
			t.Errorf("looksLikeSMILES(%q) = %v", tc.query, got)
		}
	}
}

func TestEnforceRateLimit(t *testing.T) {
	server := newFakePubChem(t)
	t.Cleanup(server.Close)
	mcpServer := newTestServer(t, server.URL)

	// One token, refilled slower than the test runs.
	mcpServer.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)

	first, err := mcpServer.handleGetCompoundSynonyms(map[string]interface{}{"cid": "2244"})
	if err != nil {
		t.Fatalf("first call error: %v", err)
	}
	if first.IsError {
		t.Fatal("first call should pass the admission limiter")
	}

	second, err := mcpServer.handleGetCompoundSynonyms(map[string]interface{}{"cid": "2244"})
	if err != nil {
		t.Fatalf("second call error: %v", err)
	}
	if !second.IsError {
		t.Fatal("second call should be rejected")
	}
	if text := toolResultText(t, second); !strings.Contains(text, "rate limit exceeded") {
		t.Fatalf("unexpected rejection text: %s", text)
	}

	// nil limiter disables admission control entirely.
	mcpServer.limiter = nil
	third, err := mcpServer.handleGetCompoundSynonyms(map[string]interface{}{"cid": "2244"})
	if err != nil {
		t.Fatalf("third call error: %v", err)
	}
	if third.IsError {
		t.Fatal("nil limiter must not reject calls")
	}
}
