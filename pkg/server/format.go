package server

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// numberedList renders items as "1. ...\n2. ...".
func numberedList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return b.String()
}

// truncationNote returns the trailing "Showing N of M <noun>." line, or ""
// when nothing was cut off.
func truncationNote(shown, total int, noun string) string {
	if total <= shown {
		return ""
	}
	return fmt.Sprintf("\nShowing %d of %d %s.", shown, total, noun)
}

// renderTable renders rows as a fixed-width table with " | " separators,
// the way batch results are presented.
func renderTable(title string, headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
		for _, row := range rows {
			if i < len(row) && len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
		widths[i] += 2
	}

	lineWidth := 3 * (len(headers) - 1)
	for _, w := range widths {
		lineWidth += w
	}
	separator := strings.Repeat("-", lineWidth) + "\n"

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(separator)
	for i, header := range headers {
		fmt.Fprintf(&b, "%-*s", widths[i], header)
		if i < len(headers)-1 {
			b.WriteString(" | ")
		}
	}
	b.WriteString("\n")
	b.WriteString(separator)
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			fmt.Fprintf(&b, "%-*s", widths[i], cell)
			if i < len(row)-1 && i < len(headers)-1 {
				b.WriteString(" | ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// truncate shortens long descriptive text for list output, cutting on a
// rune boundary so multi-byte text stays valid.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}

func compoundURL(cid int64) string {
	return fmt.Sprintf("https://pubchem.ncbi.nlm.nih.gov/compound/%d", cid)
}

func substanceURL(sid string) string {
	return "https://pubchem.ncbi.nlm.nih.gov/substance/" + sid
}

func assayURL(aid string) string {
	return "https://pubchem.ncbi.nlm.nih.gov/bioassay/" + aid
}
