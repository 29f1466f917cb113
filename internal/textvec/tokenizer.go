// Package textvec turns corpus texts into sparse, L2-normalized term vectors.
package textvec

import (
	"fmt"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/whitespace"

	"github.com/hyperjump/reelmatch/internal/models"
)

// soupAnalyzerName splits on whitespace only; soup items are already single tokens.
const soupAnalyzerName = "reelmatch_soup"

// minTokenRunes drops single-character tokens.
const minTokenRunes = 2

// Tokenizer splits text into terms with a bleve analyzer.
type Tokenizer struct {
	name    string
	analyze func([]byte) analysis.TokenStream
}

// NewTokenizer returns the tokenizer for mode: the standard analyzer (unicode words,
// lowercase, English stop words) for overview text, and a whitespace analyzer with
// the same filters for soup text.
func NewTokenizer(mode models.Mode) (*Tokenizer, error) {
	im := bleve.NewIndexMapping()
	name := standard.Name
	if mode == models.ModeSoup {
		err := im.AddCustomAnalyzer(soupAnalyzerName, map[string]interface{}{
			"type":          custom.Name,
			"tokenizer":     whitespace.Name,
			"token_filters": []string{lowercase.Name, en.StopName},
		})
		if err != nil {
			return nil, fmt.Errorf("register soup analyzer: %w", err)
		}
		name = soupAnalyzerName
	}
	a := im.AnalyzerNamed(name)
	if a == nil {
		return nil, fmt.Errorf("analyzer %q not available", name)
	}
	return &Tokenizer{name: name, analyze: a.Analyze}, nil
}

// Name returns the analyzer name.
func (t *Tokenizer) Name() string {
	return t.name
}

// Tokens returns the terms of text in order, repeats included.
func (t *Tokenizer) Tokens(text string) []string {
	if text == "" {
		return nil
	}
	stream := t.analyze([]byte(text))
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		if utf8.RuneCount(tok.Term) < minTokenRunes {
			continue
		}
		out = append(out, string(tok.Term))
	}
	return out
}
