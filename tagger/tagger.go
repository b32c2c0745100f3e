// Package tagger splits text into sentences and tokens, and attaches the
// part of speech and morphological features the stress resolver uses to
// tell homographs apart.
package tagger

import (
	"context"

	"github.com/wbrown/uk_stress/types"
)

// Tagger parses text into sentences of tokens. Token offsets are rune
// offsets into text, and token IDs restart at 1 in every sentence.
type Tagger interface {
	Parse(ctx context.Context, text string) ([]types.Sentence, error)
}

// Func adapts a plain function to the Tagger interface.
type Func func(ctx context.Context, text string) ([]types.Sentence, error)

func (f Func) Parse(ctx context.Context, text string) ([]types.Sentence,
	error) {
	return f(ctx, text)
}

// indexRunes finds needle in haystack at or after from, or returns -1.
func indexRunes(haystack []rune, from int, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}
	last := len(haystack) - len(needle)
	for idx := from; idx <= last; idx++ {
		match := true
		for j, r := range needle {
			if haystack[idx+j] != r {
				match = false
				break
			}
		}
		if match {
			return idx
		}
	}
	return -1
}

// aligner locates token forms in a text, moving strictly forward.
type aligner struct {
	text   []rune
	cursor int
}

func newAligner(text string) *aligner {
	return &aligner{text: []rune(text)}
}

// next returns the span of form after the previous match.
func (a *aligner) next(form string) (int, int, bool) {
	needle := []rune(form)
	start := indexRunes(a.text, a.cursor, needle)
	if start < 0 {
		return 0, 0, false
	}
	a.cursor = start + len(needle)
	return start, a.cursor, true
}
