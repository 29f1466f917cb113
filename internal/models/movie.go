// Package models defines core data structures for movies, similarity modes, and suggestion results.
package models

import "time"

// Movie is a single corpus entry. Identity is the numeric ID; Title is display only.
type Movie struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Overview  string    `json:"overview,omitempty" db:"overview"`
	Cast      []string  `json:"cast,omitempty" db:"cast"`
	Directors []string  `json:"directors,omitempty" db:"directors"`
	Keywords  []string  `json:"keywords,omitempty" db:"keywords"`
	Genres    []string  `json:"genres,omitempty" db:"genres"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// People returns cast followed by directors.
func (m *Movie) People() []string {
	out := make([]string, 0, len(m.Cast)+len(m.Directors))
	out = append(out, m.Cast...)
	out = append(out, m.Directors...)
	return out
}

// MovieDetail is display data resolved from the external metadata provider.
type MovieDetail struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	ImageURL    string   `json:"img_url"`
	Popularity  float64  `json:"popularity"`
	Genres      []string `json:"genres,omitempty"`
	Runtime     int      `json:"runtime,omitempty"`
	Tagline     string   `json:"tagline,omitempty"`
	Directors   []string `json:"directors,omitempty"`
	TrailerURL  string   `json:"trailer_url,omitempty"`
}

// PersonDetail is a cast or crew member as reported by the metadata provider.
type PersonDetail struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Biography string `json:"biography,omitempty"`
	ImageURL  string `json:"img_url"`
	// Movies holds the person's acting credits, most popular first.
	Movies []PersonCredit `json:"movies"`
}

// PersonCredit is one movie in a person's filmography. Popularity is relative to the
// person's most popular credit, which scores 100.
type PersonCredit struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Character   string `json:"character,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	ImageURL    string `json:"img_url"`
	Popularity  int    `json:"popularity"`
}

// MovieSummary is a title and poster, as listed in trending feeds.
type MovieSummary struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"img_url"`
}
