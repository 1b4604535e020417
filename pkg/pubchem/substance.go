package pubchem

import (
	"context"
	"net/url"
)

// SubstanceSIDsByName resolves a substance name to SIDs.
func (c *Client) SubstanceSIDsByName(ctx context.Context, name string) ([]int64, error) {
	return c.identifierList(ctx, c.urlJoin("/substance/name/"+url.PathEscape(name)+"/sids/JSON"))
}

// SubstanceRecord fetches the depositor record of a substance.
func (c *Client) SubstanceRecord(ctx context.Context, sid string) (*SubstanceRecord, error) {
	var envelope substanceRecordEnvelope
	err := c.getJSON(ctx, c.urlJoin("/substance/sid/"+url.PathEscape(sid)+"/JSON"), &envelope)
	if err != nil {
		return nil, err
	}
	if len(envelope.PCSubstances) == 0 {
		return nil, &APIError{Kind: KindUnexpected, Message: "empty substance record"}
	}
	return &envelope.PCSubstances[0], nil
}

// SubstanceSDF returns the SDF rendition of a substance record.
func (c *Client) SubstanceSDF(ctx context.Context, sid string) (string, error) {
	return c.getText(ctx, c.urlJoin("/substance/sid/"+url.PathEscape(sid)+"/SDF"))
}

// SubstanceSynonyms lists the depositor-supplied synonyms of a substance.
func (c *Client) SubstanceSynonyms(ctx context.Context, sid string) ([]string, error) {
	return c.synonyms(ctx, c.urlJoin("/substance/sid/"+url.PathEscape(sid)+"/synonyms/JSON"))
}

// SubstanceCIDs lists the standardized compounds derived from a substance.
func (c *Client) SubstanceCIDs(ctx context.Context, sid string) ([]int64, error) {
	var envelope struct {
		InformationList struct {
			Information []struct {
				SID int64   `json:"SID"`
				CID []int64 `json:"CID"`
			} `json:"Information"`
		} `json:"InformationList"`
	}
	err := c.getJSON(ctx, c.urlJoin("/substance/sid/"+url.PathEscape(sid)+"/cids/JSON"), &envelope)
	if err != nil {
		return nil, err
	}
	if len(envelope.InformationList.Information) == 0 {
		return nil, nil
	}
	return envelope.InformationList.Information[0].CID, nil
}
