package e2e

import (
	"strings"
	"testing"

	"github.com/hyperjump/reelmatch/internal/corpus"
	"github.com/hyperjump/reelmatch/pkg/utils"
)

func TestBuildCorpus_Size(t *testing.T) {
	c := BuildCorpus()
	want := len(Franchises()) * EntriesPerFranchise
	if len(c.Movies) != want {
		t.Errorf("expected %d movies, got %d", want, len(c.Movies))
	}
	if len(c.TestCases) != len(Franchises())*3 {
		t.Errorf("expected %d test cases, got %d", len(Franchises())*3, len(c.TestCases))
	}
}

func TestBuildCorpus_UniqueIDsAndTitles(t *testing.T) {
	c := BuildCorpus()
	ids := make(map[int]bool)
	titles := make(map[string]bool)
	for _, m := range c.Movies {
		if ids[m.ID] {
			t.Errorf("duplicate id %d", m.ID)
		}
		ids[m.ID] = true
		key := utils.NormalizeKey(m.Title)
		if titles[key] {
			t.Errorf("duplicate title %q", m.Title)
		}
		titles[key] = true
	}
}

func TestBuildCorpus_ExpectedIDsExist(t *testing.T) {
	c := BuildCorpus()
	cat, err := corpus.NewCatalog(c.Movies)
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range c.TestCases {
		if tc.Query == "" || tc.Top == 0 || tc.Top > len(tc.ExpectedIDs) {
			t.Errorf("%s: malformed case %+v", tc.Description, tc)
		}
		for _, id := range tc.ExpectedIDs {
			if _, ok := cat.Get(id); !ok {
				t.Errorf("%s: expected id %d not in corpus", tc.Description, id)
			}
		}
		if len(cat.LookupTitle(tc.Query)) == 0 && len(cat.LookupPerson(tc.Query)) == 0 {
			t.Errorf("%s: query %q matches nothing", tc.Description, tc.Query)
		}
	}
}

func TestEncodeCorpus_RoundTripsThroughLoader(t *testing.T) {
	c := BuildCorpus()
	for _, ext := range SupportedCorpusExtensions {
		t.Run(strings.TrimPrefix(ext, "."), func(t *testing.T) {
			data, err := EncodeCorpus(ext, c.Movies)
			if err != nil {
				t.Fatal(err)
			}
			movies, err := corpus.NewLoader().LoadBytes(data, ext)
			if err != nil {
				t.Fatal(err)
			}
			if len(movies) != len(c.Movies) {
				t.Fatalf("loaded %d movies, want %d", len(movies), len(c.Movies))
			}
			first, want := movies[0], c.Movies[0]
			if first.ID != want.ID || first.Title != want.Title || len(first.Cast) != len(want.Cast) {
				t.Errorf("first movie = %+v, want %+v", first, want)
			}
		})
	}
	if _, err := EncodeCorpus(".pdf", c.Movies); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
