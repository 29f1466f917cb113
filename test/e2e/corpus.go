// Package e2e provides end-to-end tests over a generated corpus of movie franchises.
package e2e

import (
	"fmt"

	"github.com/hyperjump/reelmatch/internal/models"
)

// Franchise is a family of movies sharing people, keywords and plot vocabulary.
type Franchise struct {
	Stem     string
	Hero     string
	Place    string
	Plot     [3]string
	Director string
	Cast     [3]string
	Keywords [3]string
	Genres   [2]string
}

// QueryTestCase is a query whose top suggestions must all come from the expected set.
type QueryTestCase struct {
	Query       string
	Mode        models.Mode
	ExpectedIDs []int
	// Top is how many leading suggestions must be drawn from ExpectedIDs.
	Top         int
	Description string
}

// Corpus holds generated movies and query test cases.
type Corpus struct {
	Movies    []models.Movie
	TestCases []QueryTestCase
}

// EntriesPerFranchise is the number of movies generated per franchise.
const EntriesPerFranchise = 5

var franchises = []Franchise{
	{"Tidebreaker", "Captain Morrow", "Port Royal", [3]string{"galleon", "treasure", "mutiny"}, "Ava Lindqvist", [3]string{"Oren Vale", "Mira Castell", "Jonas Reed"}, [3]string{"pirate", "high seas", "buried treasure"}, [2]string{"Adventure", "Action"}},
	{"Starfall", "Commander Ishida", "Kepler Station", [3]string{"wormhole", "asteroid", "colony"}, "Theo Marchetti", [3]string{"Lena Okafor", "Dmitri Sokol", "Hana Ito"}, [3]string{"space travel", "first contact", "spaceship"}, [2]string{"Science Fiction", "Thriller"}},
	{"Grimhollow", "Sister Agnes", "Grimhollow Abbey", [3]string{"exorcism", "crypt", "relic"}, "Marguerite Doyle", [3]string{"Ellis Grant", "Nadia Moreau", "Piet Janssen"}, [3]string{"haunted house", "demon", "possession"}, [2]string{"Horror", "Mystery"}},
	{"Velvet Heist", "Rico Salazar", "Monte Carlo", [3]string{"vault", "casino", "diamonds"}, "Samuel Okoro", [3]string{"Claire Dubois", "Marco Ferri", "Yuki Tanaka"}, [3]string{"heist", "con artist", "double cross"}, [2]string{"Crime", "Comedy"}},
	{"Ironclad", "Sergeant Kowalski", "Verdun", [3]string{"trenches", "artillery", "armistice"}, "Henrik Aalto", [3]string{"Tomas Novak", "Sean Gallagher", "Émile Laurent"}, [3]string{"world war i", "soldier", "battlefield"}, [2]string{"War", "Drama"}},
	{"Moonlit Waltz", "Eleanor Price", "Bath", [3]string{"ballroom", "courtship", "inheritance"}, "Julia Hartwell", [3]string{"Rose Whitaker", "Edmund Shaw", "Lydia Bennet"}, [3]string{"period piece", "forbidden love", "aristocracy"}, [2]string{"Romance", "Drama"}},
	{"Dust Riders", "Marshal Hale", "Tombstone", [3]string{"outlaws", "stagecoach", "railroad"}, "Cole Brannigan", [3]string{"Wade Harlan", "June Caldwell", "Eli Tucker"}, [3]string{"wild west", "gunslinger", "revenge"}, [2]string{"Western", "Action"}},
	{"Pixel Pals", "Bolt", "Circuit City", [3]string{"robots", "arcade", "glitch"}, "Penny Alvarez", [3]string{"Max Fuller", "Zoe Park", "Gus Whitman"}, [3]string{"video game", "friendship", "talking robot"}, [2]string{"Animation", "Family"}},
	{"Deep Cipher", "Agent Weller", "Berlin", [3]string{"cipher", "defector", "microfilm"}, "Viktor Strand", [3]string{"Anna Keller", "Lukas Brandt", "Ivan Petrov"}, [3]string{"cold war", "espionage", "double agent"}, [2]string{"Thriller", "Mystery"}},
	{"Summit", "Tenzing Rai", "Annapurna", [3]string{"avalanche", "glacier", "expedition"}, "Ingrid Solberg", [3]string{"Pasang Sherpa", "Kate Mallory", "Arne Holm"}, [3]string{"mountaineering", "survival", "true story"}, [2]string{"Adventure", "Drama"}},
	{"Neon Ronin", "Kaito", "Neo Osaka", [3]string{"katana", "cyborg", "megacorp"}, "Ren Takahashi", [3]string{"Aiko Mori", "Daichi Sato", "Lin Wei"}, [3]string{"cyberpunk", "samurai", "dystopia"}, [2]string{"Science Fiction", "Action"}},
	{"Hoop Dreams", "Marcus Bell", "South Side", [3]string{"playoffs", "scholarship", "coach"}, "Denise Carter", [3]string{"Andre Wallace", "Tasha Grant", "Leon Brooks"}, [3]string{"basketball", "underdog", "high school"}, [2]string{"Drama", "Family"}},
	{"Dragonsong", "Princess Ysolde", "Eldermere", [3]string{"dragon", "prophecy", "sorcerer"}, "Gareth Wynn", [3]string{"Bryn Ashford", "Tamsin Blake", "Corwin Hale"}, [3]string{"sword and sorcery", "quest", "magic"}, [2]string{"Fantasy", "Adventure"}},
	{"Courtroom Nine", "Attorney Whitfield", "Manhattan", [3]string{"verdict", "jury", "testimony"}, "Harold Stein", [3]string{"Grace Lin", "Robert Hayes", "Maria Santos"}, [3]string{"legal drama", "trial", "wrongful conviction"}, [2]string{"Drama", "Crime"}},
	{"Sweet Tooth Bakery", "Poppy Lane", "Vermont", [3]string{"cupcakes", "contest", "frosting"}, "Molly Finch", [3]string{"Holly Marsh", "Ben Carver", "Iris Tate"}, [3]string{"small town", "baking", "second chance"}, [2]string{"Comedy", "Romance"}},
	{"Abyssal", "Dr. Reyes", "Mariana Trench", [3]string{"submersible", "leviathan", "pressure"}, "Omar Haddad", [3]string{"Sofia Reyes", "Kenji Abe", "Paul Mercer"}, [3]string{"deep sea", "creature feature", "underwater"}, [2]string{"Horror", "Science Fiction"}},
	{"Rally Kings", "Luca Benedetti", "Monte Sahara", [3]string{"rally", "dunes", "engine"}, "Franco Bellini", [3]string{"Gianni Russo", "Elena Costa", "Pierre Martin"}, [3]string{"car racing", "rivalry", "desert"}, [2]string{"Action", "Sport"}},
	{"Quiet Harbor", "Ruth Ellison", "Maine", [3]string{"lighthouse", "widow", "letters"}, "Nora Quill", [3]string{"Ada Finch", "Walter Grey", "Colin Marsh"}, [3]string{"grief", "coastal town", "family secrets"}, [2]string{"Drama", "Mystery"}},
	{"Jungle Drums", "Professor Okafor", "Congo Basin", [3]string{"temple", "idol", "rapids"}, "Kwame Mensah", [3]string{"Amara Nwosu", "Felix Hart", "Lena Kruger"}, [3]string{"archaeology", "jungle", "lost civilization"}, [2]string{"Adventure", "Action"}},
	{"Chalk Lines", "Detective Marlowe", "Chicago", [3]string{"autopsy", "suspect", "alibi"}, "Ray Donnelly", [3]string{"Vince Moretti", "Carla Nunez", "Hank Doyle"}, [3]string{"serial killer", "police procedural", "homicide"}, [2]string{"Crime", "Thriller"}},
}

// Franchises returns the generator table.
func Franchises() []Franchise {
	return append([]Franchise(nil), franchises...)
}

// BuildCorpus returns len(Franchises())*EntriesPerFranchise movies and query test cases.
// Every franchise entry shares its franchise's people, keywords and plot vocabulary, so
// suggestions for one entry should be led by its siblings in either mode.
func BuildCorpus() *Corpus {
	c := &Corpus{}
	for fi, f := range franchises {
		ids := make([]int, EntriesPerFranchise)
		for n := 0; n < EntriesPerFranchise; n++ {
			id := 1000 + fi*10 + n + 1
			ids[n] = id
			c.Movies = append(c.Movies, models.Movie{
				ID:    id,
				Title: franchiseTitle(f.Stem, n),
				Overview: fmt.Sprintf("%s returns to %s in %d where the %s, the %s and the %s decide everything.",
					f.Hero, f.Place, 1980+fi+n*3, f.Plot[n%3], f.Plot[(n+1)%3], f.Plot[(n+2)%3]),
				Cast:      []string{f.Cast[n%3], f.Cast[(n+1)%3], f.Cast[(n+2)%3], fmt.Sprintf("Extra %d", id)},
				Directors: []string{f.Director},
				Keywords:  append([]string(nil), f.Keywords[:]...),
				Genres:    append([]string(nil), f.Genres[:]...),
			})
		}
		siblings := ids[1:]
		for _, mode := range models.Modes {
			c.TestCases = append(c.TestCases, QueryTestCase{
				Query:       franchiseTitle(f.Stem, 0),
				Mode:        mode,
				ExpectedIDs: siblings,
				Top:         len(siblings),
				Description: fmt.Sprintf("%s/%s siblings lead", f.Stem, mode),
			})
		}
		c.TestCases = append(c.TestCases, QueryTestCase{
			Query:       f.Director,
			Mode:        models.ModeSoup,
			ExpectedIDs: ids,
			Top:         len(ids),
			Description: fmt.Sprintf("%s/director filmography", f.Stem),
		})
	}
	return c
}

func franchiseTitle(stem string, n int) string {
	if n == 0 {
		return stem
	}
	return fmt.Sprintf("%s %d", stem, n+1)
}
