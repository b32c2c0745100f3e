package uk_stress

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wbrown/uk_stress/dictionary"
	"github.com/wbrown/uk_stress/tags"
	"github.com/wbrown/uk_stress/types"
)

const DefaultPenaltyTolerance = 1
const DefaultCacheSize = 65536

// Lookup is the read side of a stress dictionary.
type Lookup interface {
	Get(key string) ([]byte, bool)
}

// AmbiguityHandler picks the stress of a word whose candidates the parse
// could not narrow down to one pattern.
type AmbiguityHandler func(candidates []types.Candidate,
	parse types.ParseToken) types.AccentPattern

type policyKind int

const (
	skipPolicy policyKind = iota
	firstPolicy
	allPolicy
	customPolicy
)

// Policy decides what to do with unresolved ambiguity.
type Policy struct {
	kind    policyKind
	handler AmbiguityHandler
}

var (
	// Skip leaves the word without stress.
	Skip = Policy{kind: skipPolicy}
	// First takes the first eligible candidate in dictionary order.
	First = Policy{kind: firstPolicy}
	// All marks every offset of every eligible candidate.
	All = Policy{kind: allPolicy}
)

// Custom delegates the choice to handler.
func Custom(handler AmbiguityHandler) Policy {
	return Policy{kind: customPolicy, handler: handler}
}

func (policy Policy) String() string {
	switch policy.kind {
	case skipPolicy:
		return "skip"
	case firstPolicy:
		return "first"
	case allPolicy:
		return "all"
	case customPolicy:
		return "custom"
	}
	return "unknown"
}

// ParsePolicy maps the names "skip", "first" and "all" to policies.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "skip", "":
		return Skip, nil
	case "first":
		return First, nil
	case "all":
		return All, nil
	}
	return Skip, fmt.Errorf("unknown ambiguity policy %q", name)
}

type cacheEntry struct {
	found      bool
	candidates []types.Candidate
}

// Resolver finds the stressed positions of single tokens. It is safe for
// concurrent use.
type Resolver struct {
	dict      Lookup
	policy    Policy
	tolerance int
	cache     *lru.ARCCache
	hits      atomic.Int64
	misses    atomic.Int64
}

func NewResolver(dict Lookup, opts ...Option) (*Resolver, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newResolver(dict, o)
}

func newResolver(dict Lookup, o options) (*Resolver, error) {
	if dict == nil {
		return nil, fmt.Errorf("no dictionary given")
	}
	if o.policy.kind == customPolicy && o.policy.handler == nil {
		return nil, fmt.Errorf("custom policy without a handler")
	}
	if o.tolerance < 0 {
		return nil, fmt.Errorf("negative penalty tolerance %d", o.tolerance)
	}
	resolver := &Resolver{
		dict:      dict,
		policy:    o.policy,
		tolerance: o.tolerance,
	}
	if o.cacheSize > 0 {
		cache, err := lru.NewARC(o.cacheSize)
		if err != nil {
			return nil, err
		}
		resolver.cache = cache
	}
	return resolver, nil
}

func (resolver *Resolver) Policy() Policy {
	return resolver.policy
}

// CacheStats returns the record cache hits and misses so far.
func (resolver *Resolver) CacheStats() (hits, misses int64) {
	return resolver.hits.Load(), resolver.misses.Load()
}

// lookup returns the decoded record of word.
func (resolver *Resolver) lookup(word string) (cacheEntry, error) {
	if resolver.cache != nil {
		if cached, ok := resolver.cache.Get(word); ok {
			resolver.hits.Add(1)
			return cached.(cacheEntry), nil
		}
		resolver.misses.Add(1)
	}
	var entry cacheEntry
	if value, ok := resolver.dict.Get(word); ok {
		candidates, err := dictionary.DecodeRecord(value)
		if err != nil {
			return entry, fmt.Errorf("%q: %w", word, err)
		}
		entry = cacheEntry{found: true, candidates: candidates}
	}
	if resolver.cache != nil {
		resolver.cache.Add(word, entry)
	}
	return entry, nil
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// casings lists the spellings of text to look up, in order, without
// repeats.
func casings(text string) []string {
	lower := cases.Lower(language.Ukrainian).String(text)
	title := cases.Title(language.Ukrainian).String(text)
	words := []string{text}
	for _, word := range []string{lower, title} {
		duplicate := false
		for _, seen := range words {
			if seen == word {
				duplicate = true
				break
			}
		}
		if !duplicate {
			words = append(words, word)
		}
	}
	return words
}

// features returns the tags a parse supports. Proper nouns count as nouns,
// the dictionary does not tell them apart.
func features(parse types.ParseToken) map[string]bool {
	upos := parse.UPOS
	if upos == "PROPN" {
		upos = "NOUN"
	}
	feats := strings.Split(parse.Feats, "|")
	set := make(map[string]bool, len(feats)+1)
	for _, feat := range feats {
		set[feat] = true
	}
	set["upos="+upos] = true
	return set
}

// penalty counts the tags of a candidate the parse does not support.
func penalty(candidate types.Candidate, feats map[string]bool) int {
	count := 0
	for _, tag := range candidate.Tags {
		if tag != "" && tags.Known(tag) && !feats[tag] {
			count++
		}
	}
	return count
}

func distinctPatterns(candidates []types.Candidate) int {
	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		seen[candidate.Accents.Key()] = true
	}
	return len(seen)
}

func clonePattern(accents types.AccentPattern) types.AccentPattern {
	return append(types.AccentPattern{}, accents...)
}

// cloneCandidate detaches a candidate from the cached record it was decoded
// into.
func cloneCandidate(candidate types.Candidate) types.Candidate {
	return types.Candidate{
		Tags:    append([]string{}, candidate.Tags...),
		Accents: clonePattern(candidate.Accents),
	}
}

// Candidates returns the deduplicated dictionary candidates of a token,
// trying its exact, lowercase and title-case spellings in turn. The first
// token of a sentence that starts with a capital keeps trying after a hit,
// since sentence position alone may capitalize it. The candidates are
// copies; changing them does not affect later lookups.
func (resolver *Resolver) Candidates(parse types.ParseToken) (
	[]types.Candidate, bool, error) {
	base := parse.Text
	sentenceInitial := parse.ID == 1 && startsUpper(base)
	found := false
	candidates := make([]types.Candidate, 0, 4)
	seen := make(map[string]bool, 4)
	for _, word := range casings(base) {
		entry, err := resolver.lookup(word)
		if err != nil {
			return nil, found, err
		}
		if !entry.found {
			continue
		}
		found = true
		for _, candidate := range entry.candidates {
			if key := candidate.Key(); !seen[key] {
				seen[key] = true
				candidates = append(candidates, cloneCandidate(candidate))
			}
		}
		if !sentenceInitial {
			break
		}
	}
	return candidates, found, nil
}

// Eligible narrows candidates down to the ones that best match the parse.
// When even the best match misses more than the tolerated number of tags,
// every candidate stays eligible.
func (resolver *Resolver) Eligible(candidates []types.Candidate,
	parse types.ParseToken) []types.Candidate {
	feats := features(parse)
	penalties := make([]int, len(candidates))
	best := -1
	for idx, candidate := range candidates {
		penalties[idx] = penalty(candidate, feats)
		log.Debug().Msgf("   penalty: %d, match: %v", penalties[idx],
			candidate)
		if best < 0 || penalties[idx] < best {
			best = penalties[idx]
		}
	}
	log.Debug().Msgf("Best penalty: %d", best)
	if best > resolver.tolerance {
		log.Debug().Msgf("Nothing matched the parse, considering all "+
			"dictionary options. Tags from parse: %s|upos=%s",
			parse.Feats, parse.UPOS)
		return candidates
	}
	eligible := make([]types.Candidate, 0, len(candidates))
	for idx, candidate := range candidates {
		if penalties[idx] == best {
			eligible = append(eligible, candidate)
		}
	}
	return eligible
}

// FindAccentPositions returns the stressed offsets of a token. Words that
// are not in the dictionary, and ambiguity left unresolved under Skip,
// yield an empty pattern.
func (resolver *Resolver) FindAccentPositions(parse types.ParseToken) (
	types.AccentPattern, error) {
	base := parse.Text
	candidates, found, err := resolver.Candidates(parse)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Debug().Msgf("%s is not in the dictionary", base)
		return types.AccentPattern{}, nil
	}
	switch len(candidates) {
	case 0:
		log.Warn().Msgf("The word `%s` is in the dictionary, but lacks "+
			"accents", base)
		return types.AccentPattern{}, nil
	case 1:
		log.Debug().Msgf("`%s` has a single accent, looks no further", base)
		return clonePattern(candidates[0].Accents), nil
	}

	log.Debug().Msgf("Resolving ambiguous entry %s", base)
	eligible := resolver.Eligible(candidates, parse)
	if distinctPatterns(eligible) == 1 {
		log.Debug().Msgf("Ambiguity resolved to a single option: %v",
			eligible[0])
		return clonePattern(eligible[0].Accents), nil
	}

	log.Debug().Msgf("Using %s strategy for %s", resolver.policy, base)
	switch resolver.policy.kind {
	case firstPolicy:
		return clonePattern(eligible[0].Accents), nil
	case allPolicy:
		patterns := make([]types.AccentPattern, 0, len(eligible))
		for _, candidate := range eligible {
			patterns = append(patterns, candidate.Accents)
		}
		return types.Union(patterns...), nil
	case customPolicy:
		return clonePattern(resolver.policy.handler(eligible, parse)), nil
	}
	return types.AccentPattern{}, nil
}
