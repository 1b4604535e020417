package server

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNumberedList(t *testing.T) {
	got := numberedList([]string{"alpha", "beta"})
	want := "1. alpha\n2. beta\n"
	if got != want {
		t.Fatalf("numberedList = %q, want %q", got, want)
	}
	if got := numberedList(nil); got != "" {
		t.Fatalf("empty list rendered as %q", got)
	}
}

func TestTruncationNote(t *testing.T) {
	if got := truncationNote(5, 5, "compounds"); got != "" {
		t.Fatalf("no truncation should produce no note, got %q", got)
	}
	if got := truncationNote(5, 12, "compounds"); got != "\nShowing 5 of 12 compounds." {
		t.Fatalf("unexpected note %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable("Batch Property Data (MolecularWeight):",
		[]string{"CID", "Name", "MolecularWeight"},
		[][]string{
			{"2244", "Aspirin", "180.16"},
			{"3672", "Ibuprofen", "206.28"},
		})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "Batch Property Data (MolecularWeight):" {
		t.Fatalf("unexpected title line %q", lines[0])
	}
	if !strings.Contains(lines[2], "CID") || !strings.Contains(lines[2], " | ") {
		t.Fatalf("unexpected header line %q", lines[2])
	}
	if lines[1] != lines[3] || !strings.HasPrefix(lines[1], "---") {
		t.Fatalf("separator lines do not match:\n%s", out)
	}
	if !strings.Contains(lines[4], "Aspirin") || !strings.Contains(lines[5], "206.28") {
		t.Fatalf("row data missing:\n%s", out)
	}
	// All data lines share the separator width.
	for _, line := range []string{lines[2], lines[4], lines[5]} {
		if len(line) != len(lines[1]) {
			t.Fatalf("ragged table, line %q is %d wide, separator %d", line, len(line), len(lines[1]))
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate shortened a fitting string: %q", got)
	}
	if got := truncate("abcdefghij", 4); got != "abcd..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	// A cut landing inside a multi-byte rune backs up to the rune start.
	if got := truncate("αβγδ", 5); got != "αβ..." {
		t.Fatalf("mid-rune truncation produced %q", got)
	}
	if got := truncate("αβγδ", 5); !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
}

func TestEntityURLs(t *testing.T) {
	if got := compoundURL(2244); got != "https://pubchem.ncbi.nlm.nih.gov/compound/2244" {
		t.Fatalf("unexpected compound URL %q", got)
	}
	if got := substanceURL("12345"); got != "https://pubchem.ncbi.nlm.nih.gov/substance/12345" {
		t.Fatalf("unexpected substance URL %q", got)
	}
	if got := assayURL("1000"); got != "https://pubchem.ncbi.nlm.nih.gov/bioassay/1000" {
		t.Fatalf("unexpected assay URL %q", got)
	}
}
