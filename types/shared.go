package types

// AccentPattern holds the stressed positions of a word. Each offset counts
// characters of the accent-stripped word; the stress mark is placed right
// before the character at that offset, i.e. right after the stressed vowel.
type AccentPattern []uint8

// Candidate is a single stress option stored in the dictionary, together
// with the grammatical tags it applies to. Unambiguous entries carry no tags.
type Candidate struct {
	Tags    []string      `json:"tags"`
	Accents AccentPattern `json:"stress"`
}

// ParseToken is a token as produced by an external tokenizer/tagger.
// StartChar and EndChar are character (not byte) offsets into the source
// text, ID is the 1-based position of the token in its sentence.
type ParseToken struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	UPOS      string `json:"upos"`
	Feats     string `json:"feats"`
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
}

type Sentence []ParseToken
