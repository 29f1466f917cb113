// Package cli formats reelmatch results for the terminal.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/pkg/utils"
)

// OutputFormat is the format for suggestion output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one tab-separated "id score title" line per suggestion.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat parses s; empty yields OutputText.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return OutputText, nil
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, compact or json)", s)
	}
}

// WriteSuggestions writes res to w in the given format.
func WriteSuggestions(w io.Writer, res *models.SuggestionResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, res)
	case OutputCompact:
		for _, s := range res.Suggestions {
			if _, err := fmt.Fprintf(w, "%d\t%d\t%s\n", s.ID, s.Score, s.Title); err != nil {
				return err
			}
		}
		return nil
	default:
		writeSuggestionsText(w, res)
		return nil
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSuggestionsText(w io.Writer, res *models.SuggestionResult) {
	fmt.Fprintf(w, "\n%d suggestions for %q (%s, %s) in %.2fms\n\n",
		len(res.Suggestions), res.Query, res.Mode, matchDescription(res), float64(res.QueryTime)/1000)
	for _, s := range res.Suggestions {
		fmt.Fprintf(w, "%3d. %-50s %3d%%  [%d]\n", s.Rank, utils.Truncate(s.Title, 47), s.Score, s.ID)
		if d := s.Detail; d != nil {
			if d.ReleaseDate != "" || d.Popularity > 0 {
				fmt.Fprintf(w, "     Released: %s | Popularity: %.2f\n", orDash(d.ReleaseDate), d.Popularity)
			}
			if d.ImageURL != "" {
				fmt.Fprintf(w, "     %s\n", d.ImageURL)
			}
		}
	}
	fmt.Fprintln(w)
}

func matchDescription(res *models.SuggestionResult) string {
	switch res.MatchedBy {
	case models.MatchedByTitle, models.MatchedByID:
		desc := fmt.Sprintf("matched %s: %s [%d]", res.MatchedBy, res.MatchedTitle, res.MatchedID)
		if len(res.Alternatives) > 0 {
			desc += fmt.Sprintf(", also %v", res.Alternatives)
		}
		return desc
	case models.MatchedByPerson:
		return "matched person"
	default:
		return "unmatched"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// WriteNotFound writes a not-found message with optional "did you mean" hints.
func WriteNotFound(w io.Writer, query string, hints []string) {
	fmt.Fprintf(w, "No movie or person named %q in the corpus.\n", query)
	if len(hints) > 0 {
		fmt.Fprintln(w, "Did you mean:")
		for _, h := range hints {
			fmt.Fprintf(w, "  %s\n", h)
		}
	}
}
