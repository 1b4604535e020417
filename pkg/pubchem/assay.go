package pubchem

import (
	"context"
	"net/url"
)

// AssayDescription fetches the descriptive block of a bioassay record.
func (c *Client) AssayDescription(ctx context.Context, aid string) (*AssayDescription, error) {
	var envelope assayContainerEnvelope
	err := c.getJSON(ctx, c.urlJoin("/assay/aid/"+url.PathEscape(aid)+"/description/JSON"), &envelope)
	if err != nil {
		return nil, err
	}
	if len(envelope.PCAssayContainer) == 0 {
		return nil, &APIError{Kind: KindUnexpected, Message: "empty assay container"}
	}
	return &envelope.PCAssayContainer[0].Assay.Descr, nil
}

// AssayAIDsByQuery searches bioassays by free-text description.
func (c *Client) AssayAIDsByQuery(ctx context.Context, query string) ([]int64, error) {
	return c.identifierList(ctx, c.urlJoin("/assay/aid/all/JSON?query="+url.QueryEscape(query)))
}

// AssaySIDs lists the substances tested in a bioassay.
func (c *Client) AssaySIDs(ctx context.Context, aid string) ([]int64, error) {
	return c.identifierList(ctx, c.urlJoin("/assay/aid/"+url.PathEscape(aid)+"/sids/JSON"))
}

// AssayCIDs lists the compounds tested in a bioassay, optionally narrowed
// to a single compound to check its presence.
func (c *Client) AssayCIDs(ctx context.Context, aid, cid string) ([]int64, error) {
	path := "/assay/aid/" + url.PathEscape(aid) + "/cids/JSON"
	if cid != "" {
		path = "/assay/aid/" + url.PathEscape(aid) + "/cids/" + url.PathEscape(cid) + "/JSON"
	}
	return c.identifierList(ctx, c.urlJoin(path))
}
