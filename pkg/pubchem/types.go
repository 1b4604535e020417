package pubchem

import (
	"math"
	"strconv"
)

// Property is one row of a PUG REST property table projection. PubChem
// renders numeric properties inconsistently across endpoints (sometimes
// JSON numbers, sometimes strings), so values stay loosely typed and are
// read through the accessors below.
type Property map[string]any

// String returns the value under key rendered as text, or "" if absent.
func (p Property) String(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// StringOr is String with a fallback for missing values.
func (p Property) StringOr(key, fallback string) string {
	if s := p.String(key); s != "" {
		return s
	}
	return fallback
}

// CID returns the CID column of the row, or 0 if absent.
func (p Property) CID() int64 {
	if v, ok := p["CID"].(float64); ok {
		return int64(v)
	}
	return 0
}

type identifierListEnvelope struct {
	IdentifierList struct {
		CID []int64 `json:"CID"`
		SID []int64 `json:"SID"`
		AID []int64 `json:"AID"`
	} `json:"IdentifierList"`
}

type propertyTableEnvelope struct {
	PropertyTable struct {
		Properties []Property `json:"Properties"`
	} `json:"PropertyTable"`
}

// informationListEnvelope wraps the InformationList responses used by the
// synonyms, xrefs, conformers and substance-mapping endpoints. Xref values
// are keyed by registry name and may be numbers or strings, hence the loose
// row type.
type informationListEnvelope struct {
	InformationList struct {
		Information []map[string]any `json:"Information"`
	} `json:"InformationList"`
}

// CompoundRecord is the subset of a PC_Compounds record the server reads:
// label/value property pairs plus atom elements and conformer coordinates.
type CompoundRecord struct {
	Props []struct {
		URN struct {
			Label string `json:"label"`
			Name  string `json:"name"`
		} `json:"urn"`
		Value struct {
			SVal string  `json:"sval"`
			FVal float64 `json:"fval"`
			IVal int64   `json:"ival"`
		} `json:"value"`
	} `json:"props"`
	Atoms struct {
		AID     []int64 `json:"aid"`
		Element []int64 `json:"element"`
	} `json:"atoms"`
	Coords []struct {
		Conformers []struct {
			X []float64 `json:"x"`
			Y []float64 `json:"y"`
			Z []float64 `json:"z"`
		} `json:"conformers"`
	} `json:"coords"`
}

type compoundRecordEnvelope struct {
	PCCompounds []CompoundRecord `json:"PC_Compounds"`
}

// SubstanceRecord is the subset of a PC_Substances record the server reads.
type SubstanceRecord struct {
	Source struct {
		Name string `json:"name"`
		DB   struct {
			Name string `json:"name"`
		} `json:"db"`
		Depositor struct {
			Name string `json:"name"`
		} `json:"depositor"`
	} `json:"source"`
}

type substanceRecordEnvelope struct {
	PCSubstances []SubstanceRecord `json:"PC_Substances"`
}

// ClassificationNode is one node of a classification hierarchy.
type ClassificationNode struct {
	Information struct {
		Name        string `json:"Name"`
		Description string `json:"Description"`
	} `json:"Information"`
	NodeAttributes struct {
		IsDataNode string `json:"isDataNode"`
	} `json:"NodeAttributes"`
}

// ClassificationHierarchy is one rooted path through a classification tree.
type ClassificationHierarchy struct {
	Node []ClassificationNode `json:"Node"`
}

type classificationEnvelope struct {
	Hierarchies struct {
		Hierarchy []ClassificationHierarchy `json:"Hierarchy"`
	} `json:"Hierarchies"`
}

// AssayRow is one row of a compound's bioassay summary table.
type AssayRow struct {
	AID           int64  `json:"AID"`
	AssayName     string `json:"AssayName"`
	Active        bool   `json:"Active"`
	ActivityValue string `json:"ActivityValue"`
	ActivityUnit  string `json:"ActivityUnit"`
	Target        struct {
		Name string `json:"Name"`
	} `json:"Target"`
}

type assaySummaryEnvelope struct {
	Table struct {
		Row []AssayRow `json:"Row"`
	} `json:"Table"`
	AssaySummaries struct {
		AssaySummary []AssayRow `json:"AssaySummary"`
	} `json:"AssaySummaries"`
}

// AssayDescription is the descriptive block of a bioassay record.
type AssayDescription struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Protocol    string `json:"protocol"`
	Target      []struct {
		Name string `json:"name"`
	} `json:"target"`
}

type assayContainerEnvelope struct {
	PCAssayContainer []struct {
		Assay struct {
			Descr AssayDescription `json:"descr"`
		} `json:"assay"`
	} `json:"PC_AssayContainer"`
}

// ReferenceRecord is the subset of a literature reference record the
// server reads.
type ReferenceRecord struct {
	RecordTitle string `json:"RecordTitle"`
	Description string `json:"Description"`
	AuthorList  struct {
		Author []struct {
			String string `json:"String"`
		} `json:"Author"`
	} `json:"AuthorList"`
	Source struct {
		SourceName string `json:"SourceName"`
	} `json:"Source"`
	CreateDate struct {
		Year string `json:"Year"`
	} `json:"CreateDate"`
	ReferenceURL string `json:"ReferenceURL"`
}

// FirstAuthor returns the leading author string, or "" when none is listed.
func (r *ReferenceRecord) FirstAuthor() string {
	if len(r.AuthorList.Author) == 0 {
		return ""
	}
	return r.AuthorList.Author[0].String
}

type referenceEnvelope struct {
	Record ReferenceRecord `json:"Record"`
}

// dictionaryEnvelope wraps the reference autocomplete response. Entries mix
// string and numeric fields, so rows reuse the loose Property type.
type dictionaryEnvelope struct {
	Dictionary struct {
		Entry []Property `json:"Entry"`
	} `json:"Dictionary"`
}

type literatureEnvelope struct {
	InformationList struct {
		Information []struct {
			ReferenceID []int64 `json:"ReferenceID"`
		} `json:"Information"`
	} `json:"InformationList"`
}
