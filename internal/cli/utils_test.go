package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/hyperjump/reelmatch/internal/models"
)

func sampleResult() *models.SuggestionResult {
	return &models.SuggestionResult{
		Query:        "The Matrix",
		Mode:         models.ModeSoup,
		MatchedID:    603,
		MatchedTitle: "The Matrix",
		MatchedBy:    models.MatchedByTitle,
		QueryTime:    120,
		Suggestions: []models.Suggestion{
			{ID: 604, Title: "The Matrix Reloaded", Score: 100, Similarity: 0.82, Rank: 1,
				Detail: &models.MovieDetail{ID: 604, ReleaseDate: "2003-05-15", Popularity: 70.456, ImageURL: "http://img/604.jpg"}},
			{ID: 605, Title: "The Matrix Revolutions", Score: 91, Similarity: 0.75, Rank: 2},
		},
	}
}

func TestWriteSuggestions_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSuggestions(&buf, sampleResult(), OutputJSON); err != nil {
		t.Fatalf("WriteSuggestions(json): %v", err)
	}
	var decoded models.SuggestionResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Query != "The Matrix" || len(decoded.Suggestions) != 2 || decoded.Suggestions[0].Detail == nil {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteSuggestions_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSuggestions(&buf, sampleResult(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	want := "604\t100\tThe Matrix Reloaded\n605\t91\tThe Matrix Revolutions\n"
	if buf.String() != want {
		t.Errorf("compact output = %q, want %q", buf.String(), want)
	}
}

func TestWriteSuggestions_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSuggestions(&buf, sampleResult(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`2 suggestions for "The Matrix"`,
		"matched title: The Matrix [603]",
		"The Matrix Reloaded",
		"100%",
		"Popularity: 70.46",
		"http://img/604.jpg",
		"[605]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSuggestions_PersonMatch(t *testing.T) {
	res := &models.SuggestionResult{Query: "Christopher Nolan", Mode: models.ModeOverview, MatchedBy: models.MatchedByPerson}
	var buf bytes.Buffer
	if err := WriteSuggestions(&buf, res, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "matched person") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteSuggestions_DuplicateTitle(t *testing.T) {
	res := &models.SuggestionResult{
		Query: "Dune", Mode: models.ModeSoup,
		MatchedID: 841, MatchedTitle: "Dune", MatchedBy: models.MatchedByTitle,
		Alternatives: []int{438631},
	}
	var buf bytes.Buffer
	if err := WriteSuggestions(&buf, res, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "matched title: Dune [841], also [438631]") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"TEXT", OutputText, false},
		{"compact", OutputCompact, false},
		{" json ", OutputJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteNotFound(t *testing.T) {
	var buf bytes.Buffer
	WriteNotFound(&buf, "Incepton", []string{"Inception"})
	out := buf.String()
	if !strings.Contains(out, `"Incepton"`) || !strings.Contains(out, "Did you mean:\n  Inception") {
		t.Errorf("output = %q", out)
	}

	buf.Reset()
	WriteNotFound(&buf, "zzz", nil)
	if strings.Contains(buf.String(), "Did you mean") {
		t.Errorf("no hints should print no hint header: %q", buf.String())
	}
}
