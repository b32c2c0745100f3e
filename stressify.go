// Package uk_stress places stress marks on Ukrainian text, using a compiled
// stress dictionary and the grammatical features of each token to choose
// between homographs.
package uk_stress

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress/mutable"
	"github.com/wbrown/uk_stress/tagger"
	"github.com/wbrown/uk_stress/types"
)

const (
	// AcuteAccent follows the stressed vowel as a separate character:
	// я´йця. It renders everywhere.
	AcuteAccent = "´"
	// CombiningAcuteAccent sits on top of the stressed vowel: я́йця. Some
	// platforms render it poorly.
	CombiningAcuteAccent = "\u0301"
)

type options struct {
	symbol    string
	policy    Policy
	tolerance int
	cacheSize int
}

func defaultOptions() options {
	return options{
		symbol:    AcuteAccent,
		policy:    Skip,
		tolerance: DefaultPenaltyTolerance,
		cacheSize: DefaultCacheSize,
	}
}

// Option configures a Resolver or a Stressifier.
type Option func(*options)

// WithStressSymbol sets the mark inserted after stressed vowels. Any string
// is accepted.
func WithStressSymbol(symbol string) Option {
	return func(o *options) { o.symbol = symbol }
}

// WithPolicy sets what happens when ambiguity cannot be resolved.
func WithPolicy(policy Policy) Option {
	return func(o *options) { o.policy = policy }
}

// WithPenaltyTolerance sets how many unmatched tags the best candidates
// may have before the parse is disregarded.
func WithPenaltyTolerance(tolerance int) Option {
	return func(o *options) { o.tolerance = tolerance }
}

// WithCacheSize sets the number of decoded dictionary records kept in
// memory. Zero disables the cache.
func WithCacheSize(size int) Option {
	return func(o *options) { o.cacheSize = size }
}

// Stressifier adds stress marks to text. Build one and reuse it; it is safe
// for concurrent use as long as its tagger is.
type Stressifier struct {
	Resolver *Resolver
	Tagger   tagger.Tagger
	symbol   string
	closer   io.Closer
}

func NewStressifier(dict Lookup, tg tagger.Tagger, opts ...Option) (
	*Stressifier, error) {
	if tg == nil {
		return nil, fmt.Errorf("no tagger given")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	resolver, err := newResolver(dict, o)
	if err != nil {
		return nil, err
	}
	return &Stressifier{Resolver: resolver, Tagger: tg, symbol: o.symbol}, nil
}

// Close releases the dictionary when the Stressifier loaded it itself.
func (s *Stressifier) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func (s *Stressifier) Symbol() string {
	return s.symbol
}

// ApplyAccentPositions inserts symbol after each stressed character of
// word. Offsets past the end of the word are ignored.
func ApplyAccentPositions(word string, positions types.AccentPattern,
	symbol string) string {
	if len(positions) == 0 {
		return word
	}
	sorted := append(types.AccentPattern{}, positions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	runes := []rune(word)
	mark := []rune(symbol)
	for _, position := range sorted {
		pos := int(position)
		if pos > len(runes) {
			continue
		}
		updated := make([]rune, 0, len(runes)+len(mark))
		updated = append(updated, runes[:pos]...)
		updated = append(updated, mark...)
		updated = append(updated, runes[pos:]...)
		runes = updated
	}
	return string(runes)
}

// StressifySentences marks the tokens of already parsed text.
func (s *Stressifier) StressifySentences(ctx context.Context, text string,
	sentences []types.Sentence) (string, error) {
	result := mutable.New(text)
	source := []rune(text)
	for _, sentence := range sentences {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		for _, token := range sentence {
			if token.StartChar < 0 || token.EndChar > len(source) ||
				token.StartChar >= token.EndChar ||
				string(source[token.StartChar:token.EndChar]) != token.Text {
				log.Debug().Msgf("Token %q does not match its span %d:%d",
					token.Text, token.StartChar, token.EndChar)
				continue
			}
			accents, err := s.Resolver.FindAccentPositions(token)
			if err != nil {
				return "", err
			}
			accented := ApplyAccentPositions(token.Text, accents, s.symbol)
			if accented != token.Text {
				result.Replace(token.StartChar, token.EndChar, accented)
			}
		}
	}
	return result.EditedText(), nil
}

// Stressify returns text with stress marks placed after stressed vowels.
func (s *Stressifier) Stressify(ctx context.Context, text string) (string,
	error) {
	sentences, err := s.Tagger.Parse(ctx, text)
	if err != nil {
		return "", fmt.Errorf("tagging failed: %w", err)
	}
	log.Debug().Msgf("Parsed text into %d sentences", len(sentences))
	return s.StressifySentences(ctx, text, sentences)
}
