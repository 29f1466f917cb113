package corpus

import (
	"strings"

	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/pkg/utils"
)

// DefaultTopCast is the number of billed cast members included in the soup.
const DefaultTopCast = 3

// Soup returns the metadata text for m: keywords, the top billed cast, directors and genres,
// each squashed to a single lowercase token so distinct people never share a term.
func Soup(m models.Movie, topCast int) string {
	if topCast <= 0 {
		topCast = DefaultTopCast
	}
	cast := m.Cast
	if len(cast) > topCast {
		cast = cast[:topCast]
	}
	parts := make([]string, 0, len(m.Keywords)+len(cast)+len(m.Directors)+len(m.Genres))
	for _, list := range [][]string{m.Keywords, cast, m.Directors, m.Genres} {
		for _, item := range list {
			if s := utils.Squash(item); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " ")
}

// Texts returns the per-entry text for mode, in corpus order.
func (c *Catalog) Texts(mode models.Mode, topCast int) []string {
	out := make([]string, len(c.movies))
	for i, m := range c.movies {
		switch mode {
		case models.ModeSoup:
			out[i] = Soup(m, topCast)
		default:
			out[i] = m.Overview
		}
	}
	return out
}
