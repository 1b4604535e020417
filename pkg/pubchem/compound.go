package pubchem

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// CompoundCIDsByName resolves a compound name or synonym to CIDs.
func (c *Client) CompoundCIDsByName(ctx context.Context, name string) ([]int64, error) {
	return c.identifierList(ctx, c.urlJoin("/compound/name/"+url.PathEscape(name)+"/cids/JSON"))
}

// CompoundCIDsBySMILES resolves a SMILES string to CIDs.
func (c *Client) CompoundCIDsBySMILES(ctx context.Context, smiles string) ([]int64, error) {
	return c.identifierList(ctx, c.urlJoin("/compound/smiles/"+url.PathEscape(smiles)+"/cids/JSON"))
}

// CompoundCIDsByInChI resolves an InChI string to CIDs. InChI goes through
// a form POST because the notation routinely exceeds URL path limits.
func (c *Client) CompoundCIDsByInChI(ctx context.Context, inchi string) ([]int64, error) {
	var envelope identifierListEnvelope
	err := c.postFormJSON(ctx, c.urlJoin("/compound/inchi/cids/JSON"), map[string]string{"inchi": inchi}, &envelope)
	if err != nil {
		return nil, err
	}
	return envelope.IdentifierList.CID, nil
}

// CompoundCIDsBySubstructure finds compounds containing the given
// substructure.
func (c *Client) CompoundCIDsBySubstructure(ctx context.Context, smiles string) ([]int64, error) {
	return c.identifierList(ctx, c.urlJoin("/compound/substructure/smiles/"+url.PathEscape(smiles)+"/cids/JSON"))
}

// CompoundCIDsByIdentity finds the exact structure match for a SMILES.
func (c *Client) CompoundCIDsByIdentity(ctx context.Context, smiles string) ([]int64, error) {
	return c.identifierList(ctx, c.urlJoin("/compound/fastidentity/smiles/"+url.PathEscape(smiles)+"/cids/JSON"))
}

// CompoundCIDsByFormula finds compounds matching a molecular formula
// pattern.
func (c *Client) CompoundCIDsByFormula(ctx context.Context, formula string) ([]int64, error) {
	return c.identifierList(ctx, c.urlJoin("/compound/fastformula/"+url.PathEscape(formula)+"/cids/JSON"))
}

// CompoundCIDsByPropertyRange finds compounds whose property falls inside
// [min, max].
func (c *Client) CompoundCIDsByPropertyRange(ctx context.Context, property string, min, max float64) ([]int64, error) {
	path := fmt.Sprintf("/compound/fastsearch/property/%s/%g:%g/JSON", url.PathEscape(property), min, max)
	return c.identifierList(ctx, c.urlJoin(path))
}

// CompoundProperties projects the named properties for one or more
// compounds. ns is the identifier namespace ("cid", "smiles", "name") and
// id the identifier; multiple CIDs may be passed comma-separated.
func (c *Client) CompoundProperties(ctx context.Context, ns, id string, props []string) ([]Property, error) {
	path := fmt.Sprintf("/compound/%s/%s/property/%s/JSON", ns, url.PathEscape(id), strings.Join(props, ","))
	var envelope propertyTableEnvelope
	if err := c.getJSON(ctx, c.urlJoin(path), &envelope); err != nil {
		return nil, err
	}
	return envelope.PropertyTable.Properties, nil
}

// CompoundPropertiesByInChI is CompoundProperties for the InChI namespace,
// which requires a form POST.
func (c *Client) CompoundPropertiesByInChI(ctx context.Context, inchi string, props []string) ([]Property, error) {
	path := fmt.Sprintf("/compound/inchi/property/%s/JSON", strings.Join(props, ","))
	var envelope propertyTableEnvelope
	err := c.postFormJSON(ctx, c.urlJoin(path), map[string]string{"inchi": inchi}, &envelope)
	if err != nil {
		return nil, err
	}
	return envelope.PropertyTable.Properties, nil
}

// SimilarCompoundProperties runs a 2D similarity search and projects
// properties of the hits in one call.
func (c *Client) SimilarCompoundProperties(ctx context.Context, ns, id string, threshold, maxRecords int, props []string) ([]Property, error) {
	path := fmt.Sprintf("/compound/fastsimilarity_2d/%s/%s/property/%s/JSON?Threshold=%d&MaxRecords=%d",
		ns, url.PathEscape(id), strings.Join(props, ","), threshold, maxRecords)
	var envelope propertyTableEnvelope
	if err := c.getJSON(ctx, c.urlJoin(path), &envelope); err != nil {
		return nil, err
	}
	return envelope.PropertyTable.Properties, nil
}

// CompoundTitle returns the preferred display name of a compound.
func (c *Client) CompoundTitle(ctx context.Context, cid string) (string, error) {
	props, err := c.CompoundProperties(ctx, "cid", cid, []string{"Title"})
	if err != nil {
		return "", err
	}
	if len(props) == 0 {
		return "", &APIError{Kind: KindUnexpected, Message: "empty property table"}
	}
	return props[0].StringOr("Title", "Unknown"), nil
}

// CompoundSynonyms lists all recorded synonyms of a compound.
func (c *Client) CompoundSynonyms(ctx context.Context, cid string) ([]string, error) {
	return c.synonyms(ctx, c.urlJoin("/compound/cid/"+url.PathEscape(cid)+"/synonyms/JSON"))
}

// CompoundMOL returns the MOL rendition of a compound record.
func (c *Client) CompoundMOL(ctx context.Context, cid string) (string, error) {
	return c.getText(ctx, c.urlJoin("/compound/cid/"+url.PathEscape(cid)+"/record/MOL"))
}

// CompoundSDF returns the SDF rendition of a compound record.
func (c *Client) CompoundSDF(ctx context.Context, cid string) (string, error) {
	return c.getText(ctx, c.urlJoin("/compound/cid/"+url.PathEscape(cid)+"/SDF"))
}

// CompoundRecord fetches the full compound record. When threeD is set the
// computed 3D conformer record is requested instead of the 2D one.
func (c *Client) CompoundRecord(ctx context.Context, cid string, threeD bool) (*CompoundRecord, error) {
	requestURL := c.urlJoin("/compound/cid/" + url.PathEscape(cid) + "/record/JSON")
	if threeD {
		requestURL += "?record_type=3d"
	}
	var envelope compoundRecordEnvelope
	if err := c.getJSON(ctx, requestURL, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.PCCompounds) == 0 {
		return nil, &APIError{Kind: KindUnexpected, Message: "empty compound record"}
	}
	return &envelope.PCCompounds[0], nil
}

// CompoundConformerIDs lists stored conformer identifiers of a compound.
func (c *Client) CompoundConformerIDs(ctx context.Context, cid string) ([]string, error) {
	var envelope informationListEnvelope
	err := c.getJSON(ctx, c.urlJoin("/compound/cid/"+url.PathEscape(cid)+"/conformers/JSON"), &envelope)
	if err != nil {
		return nil, err
	}
	if len(envelope.InformationList.Information) == 0 {
		return nil, nil
	}
	return anySliceToStrings(envelope.InformationList.Information[0]["ConformerID"]), nil
}

// CompoundXrefs returns cross-references of a compound into the named
// registry (e.g. "ChEBI", "PMID", "PATENT"). Values are stringified since
// registries disagree on numeric versus text identifiers.
func (c *Client) CompoundXrefs(ctx context.Context, cid, registry string) ([]string, error) {
	path := "/compound/cid/" + url.PathEscape(cid) + "/xrefs/" + url.PathEscape(registry) + "/JSON"
	var envelope informationListEnvelope
	if err := c.getJSON(ctx, c.urlJoin(path), &envelope); err != nil {
		return nil, err
	}
	if len(envelope.InformationList.Information) == 0 {
		return nil, nil
	}
	return anySliceToStrings(envelope.InformationList.Information[0][registry]), nil
}

// CompoundClassification returns the classification hierarchies of a
// compound. classificationType may be empty or e.g. "pharm_action".
func (c *Client) CompoundClassification(ctx context.Context, cid, classificationType string) ([]ClassificationHierarchy, error) {
	requestURL := c.urlJoin("/compound/cid/" + url.PathEscape(cid) + "/classification/JSON")
	if classificationType != "" {
		requestURL += "?classification_type=" + url.QueryEscape(classificationType)
	}
	var envelope classificationEnvelope
	if err := c.getJSON(ctx, requestURL, &envelope); err != nil {
		return nil, err
	}
	return envelope.Hierarchies.Hierarchy, nil
}

// CompoundAssaySummary returns the bioassay summary rows of a compound.
func (c *Client) CompoundAssaySummary(ctx context.Context, cid string) ([]AssayRow, error) {
	var envelope assaySummaryEnvelope
	err := c.getJSON(ctx, c.urlJoin("/compound/cid/"+url.PathEscape(cid)+"/assaysummary/JSON"), &envelope)
	if err != nil {
		return nil, err
	}
	if len(envelope.Table.Row) > 0 {
		return envelope.Table.Row, nil
	}
	return envelope.AssaySummaries.AssaySummary, nil
}

// CompoundReferenceIDs lists literature reference IDs that mention a
// compound.
func (c *Client) CompoundReferenceIDs(ctx context.Context, cid string) ([]int64, error) {
	var envelope literatureEnvelope
	err := c.getJSON(ctx, c.urlJoin("/compound/cid/"+url.PathEscape(cid)+"/literature/JSON"), &envelope)
	if err != nil {
		return nil, err
	}
	if len(envelope.InformationList.Information) == 0 {
		return nil, nil
	}
	return envelope.InformationList.Information[0].ReferenceID, nil
}

func (c *Client) identifierList(ctx context.Context, requestURL string) ([]int64, error) {
	var envelope identifierListEnvelope
	if err := c.getJSON(ctx, requestURL, &envelope); err != nil {
		return nil, err
	}
	ids := envelope.IdentifierList.CID
	if len(ids) == 0 {
		ids = envelope.IdentifierList.SID
	}
	if len(ids) == 0 {
		ids = envelope.IdentifierList.AID
	}
	return ids, nil
}

func (c *Client) synonyms(ctx context.Context, requestURL string) ([]string, error) {
	var envelope informationListEnvelope
	if err := c.getJSON(ctx, requestURL, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.InformationList.Information) == 0 {
		return nil, nil
	}
	return anySliceToStrings(envelope.InformationList.Information[0]["Synonym"]), nil
}

// anySliceToStrings renders a loosely decoded JSON array as strings,
// dropping anything that is neither a string nor a number.
func anySliceToStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			out = append(out, t)
		case float64:
			out = append(out, strconv.FormatInt(int64(t), 10))
		}
	}
	return out
}
