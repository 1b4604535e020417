package pubchem

import (
	"context"
	"net/url"
)

// ReferenceBySourceID fetches a literature reference record by its source
// identifier (PMID, DOI, ISBN).
func (c *Client) ReferenceBySourceID(ctx context.Context, referenceID string) (*ReferenceRecord, error) {
	var envelope referenceEnvelope
	err := c.getJSON(ctx, c.urlJoin("/reference/sourceid/"+url.PathEscape(referenceID)+"/JSON"), &envelope)
	if err != nil {
		return nil, err
	}
	return &envelope.Record, nil
}

// ReferenceByPMID fetches a literature reference record by PubMed ID.
func (c *Client) ReferenceByPMID(ctx context.Context, pmid string) (*ReferenceRecord, error) {
	var envelope referenceEnvelope
	err := c.getJSON(ctx, c.urlJoin("/reference/pubmed/"+url.PathEscape(pmid)+"/JSON"), &envelope)
	if err != nil {
		return nil, err
	}
	return &envelope.Record, nil
}

// ReferenceSearch runs the reference autocomplete search and returns the
// matching dictionary entries.
func (c *Client) ReferenceSearch(ctx context.Context, query string) ([]Property, error) {
	var envelope dictionaryEnvelope
	err := c.getJSON(ctx, c.urlJoin("/reference/autocomplete/"+url.PathEscape(query)+"/JSON"), &envelope)
	if err != nil {
		return nil, err
	}
	return envelope.Dictionary.Entry, nil
}

// ReferenceCIDs lists compounds mentioned in a reference.
func (c *Client) ReferenceCIDs(ctx context.Context, referenceID string) ([]int64, error) {
	return c.identifierList(ctx, c.urlJoin("/reference/sourceid/"+url.PathEscape(referenceID)+"/cids/JSON"))
}
