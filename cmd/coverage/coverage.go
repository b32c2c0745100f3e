package main

import (
	"sort"
	"strings"
	"unicode"

	"github.com/wbrown/uk_stress/compiler"
)

// Coverage counts how many of the words that need stress got one. It does
// not measure whether the stress is correct.
type Coverage struct {
	Total    int
	Stressed int
	Missed   map[string]int
	symbol   string
}

func NewCoverage(symbol string) *Coverage {
	return &Coverage{Missed: make(map[string]int), symbol: symbol}
}

func countVowels(s string) int {
	count := 0
	for _, r := range s {
		if strings.ContainsRune(compiler.Vowels, r) {
			count++
		}
	}
	return count
}

// wordTokens splits text on whitespace, keeping tokens with a letter and
// more than one vowel. Words with a single vowel need no stress mark.
func wordTokens(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if strings.IndexFunc(field, unicode.IsLetter) < 0 {
			continue
		}
		if countVowels(field) < 2 {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// Add compares a sentence with its stressified version.
func (c *Coverage) Add(original, stressed string) {
	tokens := wordTokens(original)
	got := make(map[string]bool)
	for _, token := range wordTokens(stressed) {
		if strings.Contains(token, c.symbol) {
			c.Stressed++
			got[strings.ReplaceAll(token, c.symbol, "")] = true
		}
	}
	c.Total += len(tokens)
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		if !got[token] && !seen[token] {
			seen[token] = true
			c.Missed[token]++
		}
	}
}

func (c *Coverage) Ratio() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Stressed) / float64(c.Total)
}

type MissedToken struct {
	Token string
	Count int
}

// TopMissed returns the n most frequently missed tokens, ties broken
// alphabetically.
func (c *Coverage) TopMissed(n int) []MissedToken {
	missed := make([]MissedToken, 0, len(c.Missed))
	for token, count := range c.Missed {
		missed = append(missed, MissedToken{token, count})
	}
	sort.Slice(missed, func(i, j int) bool {
		if missed[i].Count != missed[j].Count {
			return missed[i].Count > missed[j].Count
		}
		return missed[i].Token < missed[j].Token
	})
	if n >= 0 && len(missed) > n {
		missed = missed[:n]
	}
	return missed
}
