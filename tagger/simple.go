package tagger

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/wbrown/uk_stress/types"
)

// Words, with inner apostrophes and hyphens, numbers, or single symbols.
var simplePattern = regexp.MustCompile(
	`[\p{L}\p{M}]+(?:['’ʼ\-][\p{L}\p{M}]+)*|\p{N}+|[^\s\p{L}\p{M}\p{N}]`)

const sentenceEnds = ".!?…"

// Simple tokenizes with a regular expression and ends sentences at terminal
// punctuation. It attaches no morphology, so ambiguous words fall through to
// the ambiguity policy. It needs no model and works in every build.
type Simple struct{}

func (Simple) Parse(ctx context.Context, text string) ([]types.Sentence,
	error) {
	sentences := make([]types.Sentence, 0, 4)
	current := make(types.Sentence, 0, 16)
	bytePos, runePos := 0, 0
	for _, loc := range simplePattern.FindAllStringIndex(text, -1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		runePos += utf8.RuneCountInString(text[bytePos:loc[0]])
		start := runePos
		runePos += utf8.RuneCountInString(text[loc[0]:loc[1]])
		bytePos = loc[1]

		form := text[loc[0]:loc[1]]
		current = append(current, types.ParseToken{
			ID:        len(current) + 1,
			Text:      form,
			StartChar: start,
			EndChar:   runePos,
		})
		if strings.ContainsAny(form, sentenceEnds) {
			sentences = append(sentences, current)
			current = make(types.Sentence, 0, 16)
		}
	}
	if len(current) > 0 {
		sentences = append(sentences, current)
	}
	return sentences, nil
}
