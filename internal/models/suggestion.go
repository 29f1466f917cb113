package models

// Suggestion is one ranked candidate in a suggestion result.
type Suggestion struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	// Score is the relevance as a 0-100 percentage of the best candidate in the same result.
	Score int `json:"score"`
	// Similarity is the raw cosine similarity to the query.
	Similarity float64      `json:"similarity"`
	Rank       int          `json:"rank"`
	Detail     *MovieDetail `json:"detail,omitempty"`
}

// SuggestionResult is the ordered output of a similarity lookup.
type SuggestionResult struct {
	Query string `json:"query"`
	Mode  Mode   `json:"mode"`
	// MatchedID is the corpus entry the query resolved to; zero for person-name matches.
	MatchedID    int          `json:"matched_id,omitempty"`
	MatchedTitle string       `json:"matched_title,omitempty"`
	MatchedBy    string       `json:"matched_by"`
	// Alternatives lists other corpus entries sharing the matched title, in corpus order.
	Alternatives []int        `json:"alternatives,omitempty"`
	Suggestions  []Suggestion `json:"suggestions"`
	BuildID      string       `json:"build_id,omitempty"`
	QueryTime    int64        `json:"query_time_us"`
}

// Match kinds reported in SuggestionResult.MatchedBy.
const (
	MatchedByTitle  = "title"
	MatchedByPerson = "person"
	MatchedByID     = "id"
)

// IDs returns candidate identifiers in rank order.
func (r *SuggestionResult) IDs() []int {
	ids := make([]int, len(r.Suggestions))
	for i, s := range r.Suggestions {
		ids[i] = s.ID
	}
	return ids
}

// Scores returns the id -> score mapping. Use IDs for ordering.
func (r *SuggestionResult) Scores() map[int]int {
	out := make(map[int]int, len(r.Suggestions))
	for _, s := range r.Suggestions {
		out[s.ID] = s.Score
	}
	return out
}

// SuggestRequest is the API input for a suggestion lookup.
type SuggestRequest struct {
	Query  string `json:"query" validate:"required,max=200"`
	Mode   string `json:"mode,omitempty" validate:"omitempty,movie_mode"`
	Enrich bool   `json:"enrich,omitempty"`
}

// SearchRequest is the API input for a title search.
type SearchRequest struct {
	Query string `json:"q" validate:"required,max=200"`
	Limit int    `json:"limit,omitempty" validate:"min=0,max=50"`
}
