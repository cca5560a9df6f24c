package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"go-leadscout/internal/models"
	"go-leadscout/internal/storage"
)

const (
	colDate    = 12
	colAuthor  = 24
	colScore   = 5
	colSnippet = 56
)

// PrintTopLeads renders the ranked leads as a fixed-width console table.
// Widths are display cells, not bytes, so CJK names and emoji line up.
func PrintTopLeads(w io.Writer, leads []models.Post) {
	if len(leads) == 0 {
		fmt.Fprintln(w, "No leads to display.")
		return
	}

	rule := strings.Repeat("-", colDate+colAuthor+colScore+colSnippet+3)
	fmt.Fprintf(w, "\nTOP %d HIRING LEADS (by relevance score)\n%s\n", len(leads), rule)
	fmt.Fprintf(w, "%s %s %s %s\n",
		pad("Date", colDate), pad("Author", colAuthor), pad("Score", colScore), pad("Snippet", colSnippet))
	fmt.Fprintln(w, rule)

	for _, lead := range leads {
		author := lead.AuthorName
		if author == "" {
			author = "Unknown"
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			pad(lead.PublishedAt.Format("2006-01-02"), colDate),
			pad(runewidth.Truncate(author, colAuthor, "…"), colAuthor),
			pad(fmt.Sprintf("%d", lead.Score), colScore),
			pad(runewidth.Truncate(storage.Snippet(lead.Text, colSnippet*2), colSnippet, "…"), colSnippet))
		if lead.URL != "" {
			fmt.Fprintf(w, "%s URL: %s\n", pad("", colDate), lead.URL)
		}
		fmt.Fprintln(w, rule)
	}
}

func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
