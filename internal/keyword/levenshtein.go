package keyword

import (
	"sort"
	"unicode/utf8"

	"github.com/hyperjump/reelmatch/pkg/utils"
)

// EditDistance returns the optimal string alignment distance between a and b: the number of
// single-rune insertions, deletions, substitutions or adjacent transpositions.
func EditDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	// three rolling rows: i-2, i-1, i
	prev2 := make([]int, len(rb)+1)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d := min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				d = min(d, prev2[j-2]+cost)
			}
			curr[j] = d
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[len(rb)]
}

// maxFallbackDistance allows roughly one edit per three runes, at least two.
func maxFallbackDistance(query string) int {
	d := utf8.RuneCountInString(utils.NormalizeKey(query)) / 3
	if d < 2 {
		d = 2
	}
	return d
}

// rankByDistance returns up to limit distinct titles ordered by edit distance to query
// (case-insensitive), ties keeping input order. maxDist < 0 disables the distance cutoff.
func rankByDistance(query string, titles []string, limit, maxDist int) []string {
	q := utils.NormalizeKey(query)
	type scored struct {
		title string
		dist  int
		pos   int
	}
	seen := make(map[string]struct{}, len(titles))
	ranked := make([]scored, 0, len(titles))
	for i, t := range titles {
		key := utils.NormalizeKey(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		d := EditDistance(q, key)
		if maxDist >= 0 && d > maxDist {
			continue
		}
		ranked = append(ranked, scored{title: t, dist: d, pos: i})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return ranked[i].pos < ranked[j].pos
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.title
	}
	return out
}
