//go:build !wasip1 && !js

package tagger

import (
	"context"

	"github.com/jdkato/prose/v2"
	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress/types"
)

// Prose segments and tokenizes with prose. Its models are English, so it
// attaches no morphology; it is a middle ground between Simple and a real
// Ukrainian tagger.
type Prose struct{}

func (Prose) Parse(ctx context.Context, text string) ([]types.Sentence,
	error) {
	doc, err := prose.NewDocument(
		text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(true),
	)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Sentence boundaries as rune offsets.
	sentenceEnds := make([]int, 0, len(doc.Sentences()))
	sa := newAligner(text)
	for _, sentence := range doc.Sentences() {
		if _, end, ok := sa.next(sentence.Text); ok {
			sentenceEnds = append(sentenceEnds, end)
		}
	}

	sentences := make([]types.Sentence, 0, len(sentenceEnds)+1)
	current := make(types.Sentence, 0, 16)
	boundary := 0
	ta := newAligner(text)
	for _, tok := range doc.Tokens() {
		start, end, ok := ta.next(tok.Text)
		if !ok {
			log.Debug().Msgf("Token %q not found in text", tok.Text)
			continue
		}
		for boundary < len(sentenceEnds) && start >= sentenceEnds[boundary] {
			boundary++
			if len(current) > 0 {
				sentences = append(sentences, current)
				current = make(types.Sentence, 0, 16)
			}
		}
		current = append(current, types.ParseToken{
			ID:        len(current) + 1,
			Text:      tok.Text,
			StartChar: start,
			EndChar:   end,
		})
	}
	if len(current) > 0 {
		sentences = append(sentences, current)
	}
	return sentences, nil
}
