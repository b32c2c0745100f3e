package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// MarshalJSON writes the pattern as a list of numbers rather than the
// base64 string encoding/json uses for byte slices.
func (accents AccentPattern) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('[')
	for idx, offset := range accents {
		if idx > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", offset)
	}
	sb.WriteByte(']')
	return []byte(sb.String()), nil
}

func (accents AccentPattern) Equal(other AccentPattern) bool {
	if len(accents) != len(other) {
		return false
	}
	for idx := range accents {
		if accents[idx] != other[idx] {
			return false
		}
	}
	return true
}

// Key returns a comparable representation of the pattern, usable as a map
// key when counting distinct patterns.
func (accents AccentPattern) Key() string {
	return string(accents)
}

// Union merges patterns into a sorted set of offsets.
func Union(patterns ...AccentPattern) AccentPattern {
	seen := make(map[uint8]bool)
	union := make(AccentPattern, 0)
	for _, pattern := range patterns {
		for _, offset := range pattern {
			if !seen[offset] {
				seen[offset] = true
				union = append(union, offset)
			}
		}
	}
	sort.Slice(union, func(i, j int) bool { return union[i] < union[j] })
	return union
}

// Key identifies a candidate by both its tags and its accents.
func (candidate Candidate) Key() string {
	return strings.Join(candidate.Tags, "|") + "\x00" +
		candidate.Accents.Key()
}

func (candidate Candidate) String() string {
	return fmt.Sprintf("%v %v", candidate.Tags, []uint8(candidate.Accents))
}

// Tokens flattens sentences into a single token list.
func Tokens(sentences []Sentence) []ParseToken {
	tokens := make([]ParseToken, 0)
	for _, sentence := range sentences {
		tokens = append(tokens, sentence...)
	}
	return tokens
}

func (accents *AccentPattern) UnmarshalJSON(data []byte) error {
	var offsets []int
	if err := json.Unmarshal(data, &offsets); err != nil {
		return err
	}
	pattern := make(AccentPattern, len(offsets))
	for idx, offset := range offsets {
		if offset < 0 || offset > 255 {
			return fmt.Errorf("accent offset out of range: %d", offset)
		}
		pattern[idx] = uint8(offset)
	}
	*accents = pattern
	return nil
}

// WordToken builds a parse for a word looked up on its own. Its ID is 0, as
// the word has no position in a sentence.
func WordToken(text, upos, feats string) ParseToken {
	return ParseToken{
		Text:    text,
		UPOS:    upos,
		Feats:   feats,
		EndChar: len([]rune(text)),
	}
}
