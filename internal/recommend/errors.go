package recommend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound matches any NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found in corpus")

// ErrNotReady is returned when no snapshot has been installed.
var ErrNotReady = errors.New("recommender has no corpus snapshot")

// NotFoundError reports a query with no matching title or person in the corpus.
type NotFoundError struct {
	Query string
	// Suggestions are close titles, best first; may be empty.
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no movie or person named %q in the corpus", e.Query)
	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(quoteAll(e.Suggestions), ", ") + "?"
	}
	return msg
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func quoteAll(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
