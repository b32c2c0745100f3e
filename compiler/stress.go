package compiler

import (
	"strings"

	"github.com/wbrown/uk_stress/tags"
	"github.com/wbrown/uk_stress/types"
)

// Accent is the combining acute accent used by the lexicon to mark stress.
const Accent = '\u0301'

// Vowels are the vowel letters of Ukrainian, both cases.
const Vowels = "уеіїаояиюєУЕІАОЯИЮЄЇ"

// Reason classifies why a lexicon row was rejected.
type Reason int

const (
	Valid Reason = iota
	TooFewVowels
	NotAfterVowel
	AtStart
	Unmarked
	OffsetOverflow
)

func (reason Reason) String() string {
	switch reason {
	case Valid:
		return "valid"
	case TooFewVowels:
		return "fewer than two vowels"
	case NotAfterVowel:
		return "mark not after a vowel"
	case AtStart:
		return "mark at offset 0"
	case Unmarked:
		return "no stress mark"
	case OffsetOverflow:
		return "offset too large"
	}
	return "unknown"
}

func isVowel(r rune) bool {
	return strings.ContainsRune(Vowels, r)
}

func countVowels(s string) int {
	count := 0
	for _, r := range s {
		if isVowel(r) {
			count++
		}
	}
	return count
}

// StripAccent removes every stress mark from form.
func StripAccent(form string) string {
	return strings.ReplaceAll(form, string(Accent), "")
}

// AccentPositions returns the stress offsets of form, counted in characters
// of the stripped form. Each mark is shifted left by the marks removed
// before it.
func AccentPositions(form string) types.AccentPattern {
	positions := make(types.AccentPattern, 0, 2)
	removed := 0
	pos := 0
	for _, r := range form {
		if r == Accent {
			offset := pos - removed
			if offset > 0xFF {
				offset = 0xFF
			}
			positions = append(positions, uint8(offset))
			removed++
		}
		pos++
	}
	return positions
}

// ValidateStress checks that form carries a usable stress marking.
func ValidateStress(form string) Reason {
	if countVowels(form) < 2 {
		return TooFewVowels
	}
	runes := []rune(form)
	marks := 0
	for idx, r := range runes {
		if r != Accent {
			continue
		}
		marks++
		if idx == 0 {
			return AtStart
		}
		if !isVowel(runes[idx-1]) {
			return NotAfterVowel
		}
	}
	if marks == 0 {
		return Unmarked
	}
	for _, offset := range AccentPositions(form) {
		if offset >= tags.RecordSeparator {
			return OffsetOverflow
		}
	}
	return Valid
}
