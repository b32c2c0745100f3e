package compiler

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnparseable = errors.New("unparseable description")

type rule struct {
	phrase string
	tag    string
}

// Matched in order; a phrase with an empty tag is recognised but adds
// nothing.
var grammarRules = []rule{
	{"однина", "Number=Sing"},
	{"множина", "Number=Plur"},
	{"називний", "Case=Nom"},
	{"родовий", "Case=Gen"},
	{"давальний", "Case=Dat"},
	{"знахідний", "Case=Acc"},
	{"орудний", "Case=Ins"},
	{"місцевий", "Case=Loc"},
	{"кличний", "Case=Voc"},
	{"чол. р.", "Gender=Masc"},
	{"жін. р.", "Gender=Fem"},
	{"сер. р.", "Gender=Neut"},
	{"Інфінітив", "VerbForm=Inf"},
	{"дієприслівник", "VerbForm=Conv"},
	{"пасивний дієприкметник", ""},
	{"активний дієприкметник", ""},
	{"безособова форма", "Person=0"},
}

// Proper nouns are stored as NOUN, which is how they are looked up.
var posRules = []rule{
	{"іменник", "upos=NOUN"},
	{"прикметник", "upos=ADJ"},
	{"вигук", "upos=INTJ"},
	{"сполучник", "upos=CCONJ"},
	{"частка", "upos=PART"},
	{"займенник", "upos=PRON"},
	{"дієслово", "upos=VERB"},
	{"прізвище", "upos=NOUN"},
	{"власна назва", "upos=NOUN"},
	{"прислівник", "upos=ADV"},
	{"абревіатура", "upos=NOUN"},
	{"прийменник", "upos=ADP"},
	{"числівник", "upos=NUM"},
	{"сполука", "upos=CCONJ"},
	{"присудкове слово", "upos=ПРИСУДКОВЕ СЛОВО"},
	{"UNK", ""},
}

// Checked in order, the first match wins.
var genderRules = []rule{
	{"чоловічого або жіночого роду", ""},
	{"чоловічого", "Gender=Masc"},
	{"жіночого", "Gender=Fem"},
	{"середнього", "Gender=Neut"},
}

func applyRules(rules []rule, s string, tagList []string) ([]string, bool) {
	matched := false
	for _, r := range rules {
		if !strings.Contains(s, r.phrase) {
			continue
		}
		matched = true
		if r.tag != "" {
			tagList = append(tagList, r.tag)
		}
	}
	return tagList, matched
}

// ParseTags maps a grammatical description to tags, e.g.
// "однина місцевий" to [Number=Sing Case=Loc].
func ParseTags(s string) ([]string, error) {
	tagList, matched := applyRules(grammarRules, s, make([]string, 0, 3))
	if !matched && s != "" {
		return nil, fmt.Errorf("%w: grammar %q", ErrUnparseable, s)
	}
	return tagList, nil
}

// ParsePOS maps a part-of-speech description to tags: the part of speech
// itself, then the gender it names, if any.
func ParsePOS(s string) ([]string, error) {
	tagList, matched := applyRules(posRules, s, make([]string, 0, 2))
	for _, r := range genderRules {
		if strings.Contains(s, r.phrase) {
			matched = true
			if r.tag != "" {
				tagList = append(tagList, r.tag)
			}
			break
		}
	}
	if !matched && s != "" {
		return nil, fmt.Errorf("%w: part of speech %q", ErrUnparseable, s)
	}
	return tagList, nil
}

// ParseRow returns the tags of a lexicon row, grammar tags first.
func ParseRow(row Row) ([]string, error) {
	grammar, err := ParseTags(row.Tag)
	if err != nil {
		return nil, err
	}
	pos, err := ParsePOS(row.Type)
	if err != nil {
		return nil, err
	}
	return append(grammar, pos...), nil
}
