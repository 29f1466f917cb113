package models

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the text representation used for similarity.
type Mode string

const (
	// ModeOverview compares movies by their synopsis (TF-IDF).
	ModeOverview Mode = "overview"
	// ModeSoup compares movies by cast, director, keywords and genres (term counts).
	ModeSoup Mode = "soup"
)

// Modes lists every supported mode in a stable order.
var Modes = []Mode{ModeOverview, ModeSoup}

// ErrInvalidMode is returned when a mode string is not recognised.
var ErrInvalidMode = errors.New("invalid similarity mode")

// ParseMode parses s case-insensitively. An empty string yields fallback.
func ParseMode(s string, fallback Mode) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return fallback, nil
	}
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q (supported: overview, soup)", ErrInvalidMode, s)
	}
	return m, nil
}

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool {
	return m == ModeOverview || m == ModeSoup
}

func (m Mode) String() string {
	return string(m)
}
