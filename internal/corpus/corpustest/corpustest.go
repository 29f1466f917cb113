// Package corpustest provides a small fixed movie corpus for tests.
package corpustest

import (
	"testing"

	"github.com/hyperjump/reelmatch/internal/corpus"
	"github.com/hyperjump/reelmatch/internal/models"
)

// Identifiers of fixture entries referenced directly by tests.
const (
	MatrixID      = 603
	ReloadedID    = 604
	DarkKnightID  = 155
	InceptionID   = 27205
	Dune1984ID    = 841
	Dune2021ID    = 438631
	ForrestGumpID = 13
)

// Movies returns the fixture corpus in corpus order. Two entries share the title "Dune".
func Movies() []models.Movie {
	return []models.Movie{
		{ID: 603, Title: "The Matrix", Overview: "Set in the 22nd century, The Matrix tells the story of a computer hacker who joins a group of underground insurgents fighting the vast and powerful computers who now rule the earth.",
			Cast: []string{"Keanu Reeves", "Laurence Fishburne", "Carrie-Anne Moss", "Hugo Weaving"}, Directors: []string{"Lana Wachowski", "Lilly Wachowski"},
			Keywords: []string{"saving the world", "artificial intelligence", "man vs machine", "simulated reality", "dystopia"}, Genres: []string{"Action", "Science Fiction"}},
		{ID: 604, Title: "The Matrix Reloaded", Overview: "Six months after the events depicted in The Matrix, Neo has proved to be a good omen for the free humans, as more and more humans are being freed from the matrix and brought to Zion.",
			Cast: []string{"Keanu Reeves", "Carrie-Anne Moss", "Laurence Fishburne", "Hugo Weaving"}, Directors: []string{"Lana Wachowski", "Lilly Wachowski"},
			Keywords: []string{"artificial intelligence", "man vs machine", "simulated reality", "sequel"}, Genres: []string{"Action", "Science Fiction", "Thriller"}},
		{ID: 605, Title: "The Matrix Revolutions", Overview: "The human city of Zion defends itself against the massive invasion of the machines as Neo fights to end the war at another front while also opposing the rogue Agent Smith.",
			Cast: []string{"Keanu Reeves", "Laurence Fishburne", "Carrie-Anne Moss", "Hugo Weaving"}, Directors: []string{"Lana Wachowski", "Lilly Wachowski"},
			Keywords: []string{"artificial intelligence", "man vs machine", "war", "sequel"}, Genres: []string{"Action", "Science Fiction"}},
		{ID: 155, Title: "The Dark Knight", Overview: "Batman raises the stakes in his war on crime. With the help of Lt. Jim Gordon and District Attorney Harvey Dent, Batman sets out to dismantle the remaining criminal organizations that plague the streets.",
			Cast: []string{"Christian Bale", "Heath Ledger", "Aaron Eckhart", "Michael Caine"}, Directors: []string{"Christopher Nolan"},
			Keywords: []string{"dc comics", "crime fighter", "secret identity", "vigilante"}, Genres: []string{"Drama", "Action", "Crime", "Thriller"}},
		{ID: 272, Title: "Batman Begins", Overview: "Driven by tragedy, billionaire Bruce Wayne dedicates his life to uncovering and defeating the corruption that holds Gotham City in its grip as Batman.",
			Cast: []string{"Christian Bale", "Michael Caine", "Liam Neeson", "Katie Holmes"}, Directors: []string{"Christopher Nolan"},
			Keywords: []string{"dc comics", "crime fighter", "secret identity", "origin story"}, Genres: []string{"Action", "Crime", "Drama"}},
		{ID: 27205, Title: "Inception", Overview: "Cobb, a skilled thief who commits corporate espionage by infiltrating the subconscious of his targets, is offered a chance to regain his old life as payment for a task considered to be impossible.",
			Cast: []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Ellen Page", "Michael Caine"}, Directors: []string{"Christopher Nolan"},
			Keywords: []string{"dream", "subconscious", "heist", "mind bending"}, Genres: []string{"Action", "Science Fiction", "Adventure"}},
		{ID: 157336, Title: "Interstellar", Overview: "The adventures of a group of explorers who make use of a newly discovered wormhole to surpass the limitations on human space travel and conquer the vast distances involved in an interstellar voyage.",
			Cast: []string{"Matthew McConaughey", "Jessica Chastain", "Anne Hathaway", "Michael Caine"}, Directors: []string{"Christopher Nolan"},
			Keywords: []string{"space travel", "wormhole", "time paradox", "saving the world"}, Genres: []string{"Adventure", "Drama", "Science Fiction"}},
		{ID: 78, Title: "Blade Runner", Overview: "In the smog-choked dystopian Los Angeles of 2019, blade runner Rick Deckard is called out of retirement to terminate a quartet of replicants who have escaped to Earth seeking their creator.",
			Cast: []string{"Harrison Ford", "Rutger Hauer", "Sean Young"}, Directors: []string{"Ridley Scott"},
			Keywords: []string{"artificial intelligence", "dystopia", "android", "cyberpunk"}, Genres: []string{"Science Fiction", "Drama", "Thriller"}},
		{ID: 335984, Title: "Blade Runner 2049", Overview: "Thirty years after the events of the first film, a new blade runner, LAPD Officer K, unearths a long-buried secret that has the potential to plunge what's left of society into chaos.",
			Cast: []string{"Ryan Gosling", "Harrison Ford", "Ana de Armas"}, Directors: []string{"Denis Villeneuve"},
			Keywords: []string{"artificial intelligence", "dystopia", "android", "sequel"}, Genres: []string{"Science Fiction", "Drama"}},
		{ID: 218, Title: "The Terminator", Overview: "In the post-apocalyptic future, reigning tyrannical supercomputers teleport a cyborg assassin known as the Terminator back to 1984 to kill Sarah Connor.",
			Cast: []string{"Arnold Schwarzenegger", "Michael Biehn", "Linda Hamilton"}, Directors: []string{"James Cameron"},
			Keywords: []string{"artificial intelligence", "man vs machine", "cyborg", "time travel"}, Genres: []string{"Action", "Thriller", "Science Fiction"}},
		{ID: 13, Title: "Forrest Gump", Overview: "A man with a low IQ has accomplished great things in his life and been present during significant historic events, in each case far exceeding what anyone imagined he could do.",
			Cast: []string{"Tom Hanks", "Robin Wright", "Gary Sinise"}, Directors: []string{"Robert Zemeckis"},
			Keywords: []string{"vietnam veteran", "based on novel", "running"}, Genres: []string{"Comedy", "Drama", "Romance"}},
		{ID: 680, Title: "Pulp Fiction", Overview: "A burger-loving hit man, his philosophical partner, a drug-addled gangster's moll and a washed-up boxer converge in this sprawling, comedic crime caper.",
			Cast: []string{"John Travolta", "Samuel L. Jackson", "Uma Thurman", "Bruce Willis"}, Directors: []string{"Quentin Tarantino"},
			Keywords: []string{"gangster", "hitman", "nonlinear timeline"}, Genres: []string{"Thriller", "Crime"}},
		{ID: 841, Title: "Dune", Overview: "In the year 10,191, the world is at war for control of the desert planet Arrakis, the only source of the spice that allows space travel.",
			Cast: []string{"Kyle MacLachlan", "Francesca Annis", "Jurgen Prochnow"}, Directors: []string{"David Lynch"},
			Keywords: []string{"desert planet", "based on novel", "space travel"}, Genres: []string{"Action", "Science Fiction", "Adventure"}},
		{ID: 438631, Title: "Dune", Overview: "Paul Atreides, a brilliant and gifted young man born into a great destiny, must travel to the desert planet Arrakis to ensure the future of his family and his people.",
			Cast: []string{"Timothee Chalamet", "Rebecca Ferguson", "Oscar Isaac"}, Directors: []string{"Denis Villeneuve"},
			Keywords: []string{"desert planet", "based on novel", "chosen one"}, Genres: []string{"Science Fiction", "Adventure"}},
		{ID: 10681, Title: "WALL·E", Overview: "",
			Cast: []string{"Ben Burtt", "Elissa Knight"}, Directors: []string{"Andrew Stanton"},
			Keywords: []string{"robot", "space travel", "dystopia"}, Genres: []string{"Animation", "Family", "Science Fiction"}},
	}
}

// Catalog returns the fixture corpus as a Catalog.
func Catalog(tb testing.TB) *corpus.Catalog {
	tb.Helper()
	c, err := corpus.NewCatalog(Movies())
	if err != nil {
		tb.Fatalf("NewCatalog: %v", err)
	}
	return c
}
