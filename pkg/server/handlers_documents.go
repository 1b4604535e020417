package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sabio/pubchem-mcp-go/pkg/pubchem"
)

// searchDocumentsTool returns the tool definition for search_documents
func (s *MCPServer) searchDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_documents",
		Description: "Search PubChem literature references by title words",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Words from the reference title",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of references to return (default 5)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// handleSearchDocuments handles the search_documents tool call
func (s *MCPServer) handleSearchDocuments(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
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

	entries, err := s.client.ReferenceSearch(toolCtx(), args.Query)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No documents found matching %q", args.Query)), nil
		}
		return errorResult("searching documents", err), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No documents found matching %q", args.Query)), nil
	}

	total := len(entries)
	limit := clampLimit(args.MaxResults, DefaultSearchResults, MaxSearchResults)
	if limit > total {
		limit = total
	}

	items := make([]string, 0, limit)
	for _, entry := range entries[:limit] {
		var b strings.Builder
		b.WriteString(entry.StringOr("RecordTitle", "Untitled"))
		if author := entry.String("Author"); author != "" {
			fmt.Fprintf(&b, "\n   Author: %s", author)
		}
		if source := entry.String("Source"); source != "" {
			fmt.Fprintf(&b, "\n   Source: %s", source)
		}
		if year := entry.String("Year"); year != "" {
			fmt.Fprintf(&b, " (%s)", year)
		}
		if id := entry.String("ReferenceID"); id != "" {
			fmt.Fprintf(&b, "\n   Reference ID: %s", id)
		}
		items = append(items, b.String())
	}
	text := fmt.Sprintf("Document Search Results for %q:\n\n", args.Query) +
		numberedList(items) +
		truncationNote(limit, total, "matching documents")
	return mcp.NewToolResultText(text), nil
}

// getDocumentDetailsTool returns the tool definition for get_document_details
func (s *MCPServer) getDocumentDetailsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_document_details",
		Description: "Get the full record of a literature reference",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"reference_id": map[string]any{
					"type":        "string",
					"description": "PubChem reference identifier (PMID, DOI or source ID)",
				},
			},
			Required: []string{"reference_id"},
		},
	}
}

// handleGetDocumentDetails handles the get_document_details tool call
func (s *MCPServer) handleGetDocumentDetails(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		ReferenceID string `json:"reference_id"`
	}{}
	parseArgs(arguments, &args)
	if args.ReferenceID == "" {
		return mcp.NewToolResultError("reference_id is required"), nil
	}

	record, err := s.client.ReferenceBySourceID(toolCtx(), args.ReferenceID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No document found with reference ID %s", args.ReferenceID)), nil
		}
		return errorResult("retrieving document details", err), nil
	}

	return mcp.NewToolResultText(formatReference(args.ReferenceID, record)), nil
}

func formatReference(id string, record *pubchem.ReferenceRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document Details for reference %s:\n\n", id)
	fmt.Fprintf(&b, "Title: %s\n", record.RecordTitle)
	if author := record.FirstAuthor(); author != "" {
		authors := author
		if extra := len(record.AuthorList.Author) - 1; extra > 0 {
			authors = fmt.Sprintf("%s and %d others", author, extra)
		}
		fmt.Fprintf(&b, "Authors: %s\n", authors)
	}
	if record.Source.SourceName != "" {
		fmt.Fprintf(&b, "Source: %s\n", record.Source.SourceName)
	}
	if record.CreateDate.Year != "" {
		fmt.Fprintf(&b, "Year: %s\n", record.CreateDate.Year)
	}
	if record.Description != "" {
		fmt.Fprintf(&b, "Abstract: %s\n", truncate(record.Description, 500))
	}
	if record.ReferenceURL != "" {
		fmt.Fprintf(&b, "URL: %s\n", record.ReferenceURL)
	}
	return b.String()
}

// getDocumentCompoundsTool returns the tool definition for get_document_compounds
func (s *MCPServer) getDocumentCompoundsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_document_compounds",
		Description: "List compounds mentioned in a literature reference",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"reference_id": map[string]any{
					"type":        "string",
					"description": "PubChem reference identifier",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of compounds to return (default 10)",
				},
			},
			Required: []string{"reference_id"},
		},
	}
}

// handleGetDocumentCompounds handles the get_document_compounds tool call
func (s *MCPServer) handleGetDocumentCompounds(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		ReferenceID string `json:"reference_id"`
		MaxResults  int    `json:"max_results"`
	}{MaxResults: 10}
	parseArgs(arguments, &args)
	if args.ReferenceID == "" {
		return mcp.NewToolResultError("reference_id is required"), nil
	}

	cids, err := s.client.ReferenceCIDs(toolCtx(), args.ReferenceID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No compounds found for reference %s", args.ReferenceID)), nil
		}
		return errorResult("retrieving document compounds", err), nil
	}
	if len(cids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No compounds found for reference %s", args.ReferenceID)), nil
	}

	total := len(cids)
	limit := args.MaxResults
	if limit <= 0 {
		limit = 10
	}
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
	text := fmt.Sprintf("Compounds mentioned in reference %s:\n\n", args.ReferenceID) +
		numberedList(items) +
		truncationNote(limit, total, "compounds")
	return mcp.NewToolResultText(text), nil
}

// getCompoundReferencesTool returns the tool definition for get_compound_references
func (s *MCPServer) getCompoundReferencesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_compound_references",
		Description: "List literature references that discuss a compound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"cid": map[string]any{
					"type":        "string",
					"description": "PubChem Compound ID",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of references to return (default 5)",
				},
			},
			Required: []string{"cid"},
		},
	}
}

// handleGetCompoundReferences handles the get_compound_references tool call
func (s *MCPServer) handleGetCompoundReferences(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if result := s.enforceRateLimit(); result != nil {
		return result, nil
	}
	args := struct {
		CID        string `json:"cid"`
		MaxResults int    `json:"max_results"`
	}{MaxResults: 5}
	parseArgs(arguments, &args)
	if args.CID == "" {
		return mcp.NewToolResultError("cid is required"), nil
	}
	limit := args.MaxResults
	if limit <= 0 {
		limit = 5
	}

	ids, err := s.client.CompoundReferenceIDs(toolCtx(), args.CID)
	if err != nil {
		if pubchem.IsNotFound(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No references found for compound CID %s", args.CID)), nil
		}
		return errorResult("retrieving compound references", err), nil
	}
	if len(ids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No references found for compound CID %s", args.CID)), nil
	}

	total := len(ids)
	if limit > total {
		limit = total
	}
	var b strings.Builder
	fmt.Fprintf(&b, "References for compound CID %s:\n", args.CID)
	for i, refID := range ids[:limit] {
		id := strconv.FormatInt(refID, 10)
		record, err := s.client.ReferenceByPMID(toolCtx(), id)
		if err != nil {
			fmt.Fprintf(&b, "\n%d. Reference ID: %s\n", i+1, id)
			continue
		}
		fmt.Fprintf(&b, "\n%d. %s", i+1, record.RecordTitle)
		if author := record.FirstAuthor(); author != "" {
			fmt.Fprintf(&b, "\n   Author: %s", author)
		}
		if record.Source.SourceName != "" {
			fmt.Fprintf(&b, "\n   Source: %s", record.Source.SourceName)
		}
		if record.CreateDate.Year != "" {
			fmt.Fprintf(&b, " (%s)", record.CreateDate.Year)
		}
		fmt.Fprintf(&b, "\n   PMID: %s\n", id)
	}
	b.WriteString(truncationNote(limit, total, "references"))
	return mcp.NewToolResultText(b.String()), nil
}
