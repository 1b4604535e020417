package server

import "strings"

// propertyAliases maps colloquial property names to the PUG REST ones.
var propertyAliases = map[string]string{
	"molecularweight":    "MolecularWeight",
	"mw":                 "MolecularWeight",
	"weight":             "MolecularWeight",
	"xlogp":              "XLogP",
	"logp":               "XLogP",
	"tpsa":               "TPSA",
	"hbonddonorcount":    "HBondDonorCount",
	"hbd":                "HBondDonorCount",
	"hbondacceptorcount": "HBondAcceptorCount",
	"hba":                "HBondAcceptorCount",
	"rotatablebondcount": "RotatableBondCount",
	"rb":                 "RotatableBondCount",
	"formula":            "MolecularFormula",
	"molecularformula":   "MolecularFormula",
	"inchi":              "InChI",
	"inchikey":           "InChIKey",
	"canonicalsmiles":    "CanonicalSMILES",
	"smiles":             "CanonicalSMILES",
	"exactmass":          "ExactMass",
	"title":              "Title",
	"iupacname":          "IUPACName",
}

// propertySets are the named projections accepted by
// get_compound_properties.
var propertySets = map[string][]string{
	"basic": {"Title", "MolecularFormula", "MolecularWeight", "CanonicalSMILES", "IUPACName"},
	"physical": {"XLogP", "TPSA", "HBondDonorCount", "HBondAcceptorCount",
		"RotatableBondCount", "ExactMass", "MonoisotopicMass"},
	"all": {"Title", "MolecularFormula", "MolecularWeight", "CanonicalSMILES", "IsomericSMILES",
		"IUPACName", "InChI", "InChIKey", "XLogP", "TPSA", "HBondDonorCount",
		"HBondAcceptorCount", "RotatableBondCount", "ExactMass", "MonoisotopicMass"},
}

// rangeSearchProperties are the properties the fastsearch endpoint accepts.
// Molecular weight is spelled "MW" there, unlike in property projections.
var rangeSearchProperties = []string{
	"MW", "XLogP", "TPSA", "HBondDonorCount", "HBondAcceptorCount", "RotatableBondCount",
}

// normalizeProperty resolves a user-supplied property name to its PUG REST
// spelling, falling back to the input unchanged.
func normalizeProperty(name string) string {
	key := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if mapped, ok := propertyAliases[key]; ok {
		return mapped
	}
	return name
}

// resolvePropertyList expands a named set or normalizes a comma-separated
// list of property names.
func resolvePropertyList(spec string) []string {
	if set, ok := propertySets[strings.ToLower(strings.TrimSpace(spec))]; ok {
		return set
	}
	var props []string
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			props = append(props, normalizeProperty(part))
		}
	}
	return props
}

// normalizeRangeProperty is normalizeProperty with the fastsearch spelling
// of molecular weight.
func normalizeRangeProperty(name string) string {
	p := normalizeProperty(name)
	if p == "MolecularWeight" {
		return "MW"
	}
	return p
}

func isRangeSearchProperty(name string) bool {
	for _, p := range rangeSearchProperties {
		if p == name {
			return true
		}
	}
	return false
}
