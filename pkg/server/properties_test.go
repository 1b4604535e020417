package server

import (
	"reflect"
	"testing"
)

func TestNormalizeProperty(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"mw", "MolecularWeight"},
		{"MW", "MolecularWeight"},
		{"molecular weight", "MolecularWeight"},
		{"logp", "XLogP"},
		{"TPSA", "TPSA"},
		{"smiles", "CanonicalSMILES"},
		{"NoSuchProperty", "NoSuchProperty"},
	}
	for _, tc := range cases {
		if got := normalizeProperty(tc.in); got != tc.want {
			t.Errorf("normalizeProperty(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRangeProperty(t *testing.T) {
	if got := normalizeRangeProperty("MolecularWeight"); got != "MW" {
		t.Fatalf("range spelling of molecular weight is MW, got %q", got)
	}
	if got := normalizeRangeProperty("xlogp"); got != "XLogP" {
		t.Fatalf("normalizeRangeProperty(xlogp) = %q", got)
	}
	if !isRangeSearchProperty("MW") || isRangeSearchProperty("MolecularWeight") {
		t.Fatal("range search must accept MW and reject the projection spelling")
	}
	if isRangeSearchProperty("Color") {
		t.Fatal("unknown property accepted for range search")
	}
}

func TestResolvePropertyList(t *testing.T) {
	if got := resolvePropertyList("basic"); !reflect.DeepEqual(got, propertySets["basic"]) {
		t.Fatalf("named set not resolved: %v", got)
	}
	if got := resolvePropertyList(" ALL "); !reflect.DeepEqual(got, propertySets["all"]) {
		t.Fatalf("named sets should be case and space insensitive: %v", got)
	}
	got := resolvePropertyList("mw, formula, InChIKey")
	want := []string{"MolecularWeight", "MolecularFormula", "InChIKey"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("resolvePropertyList = %v, want %v", got, want)
	}
	if got := resolvePropertyList(" , ,"); got != nil {
		t.Fatalf("blank spec resolved to %v", got)
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct {
		requested, def, max, want int
	}{
		{0, 5, 50, 5},
		{-3, 5, 50, 5},
		{7, 5, 50, 7},
		{200, 5, 50, 50},
	}
	for _, tc := range cases {
		if got := clampLimit(tc.requested, tc.def, tc.max); got != tc.want {
			t.Errorf("clampLimit(%d, %d, %d) = %d, want %d", tc.requested, tc.def, tc.max, got, tc.want)
		}
	}
}

func TestSimilarityThreshold(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0.8, 80},
		{0.95, 95},
		{1.0, 100},
		{0, 80},
		{-0.5, 80},
		{1.5, 80},
	}
	for _, tc := range cases {
		if got := similarityThreshold(tc.in); got != tc.want {
			t.Errorf("similarityThreshold(%g) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseImageSize(t *testing.T) {
	if w, h, ok := parseImageSize("300x300"); !ok || w != 300 || h != 300 {
		t.Fatalf("parseImageSize(300x300) = %d, %d, %v", w, h, ok)
	}
	if w, h, ok := parseImageSize("640X480"); !ok || w != 640 || h != 480 {
		t.Fatalf("uppercase separator rejected: %d, %d, %v", w, h, ok)
	}
	for _, bad := range []string{"", "300", "x300", "300x", "0x300", "-1x100", "axb"} {
		if _, _, ok := parseImageSize(bad); ok {
			t.Errorf("parseImageSize(%q) accepted", bad)
		}
	}
}

func TestCapitalizeElement(t *testing.T) {
	cases := map[string]string{"c": "C", "CL": "Cl", "fe": "Fe", "N": "N", "": ""}
	for in, want := range cases {
		if got := capitalizeElement(in); got != want {
			t.Errorf("capitalizeElement(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestElementSymbol(t *testing.T) {
	cases := map[int64]string{1: "H", 6: "C", 8: "O", 26: "Fe", 118: "Og", 0: "?", 119: "?"}
	for in, want := range cases {
		if got := elementSymbol(in); got != want {
			t.Errorf("elementSymbol(%d) = %q, want %q", in, got, want)
		}
	}
}
