// Package compiler turns an accented lexicon into a stress dictionary.
package compiler

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress/dictionary"
	"github.com/wbrown/uk_stress/types"
)

// ProgressEvery is how many lexicon rows are read between progress log
// lines.
var ProgressEvery = 250000

// Report summarises a compilation.
type Report struct {
	Rows      int
	Accepted  int
	Skipped   map[Reason]int
	Keys      int
	Ambiguous int
	Bytes     int64
}

func newReport() *Report {
	return &Report{Skipped: make(map[Reason]int)}
}

// SkippedTotal sums the rejected rows over every reason.
func (report *Report) SkippedTotal() int {
	total := 0
	for _, count := range report.Skipped {
		total += count
	}
	return total
}

func (report *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s rows read, %s accepted, %s skipped",
		humanize.Comma(int64(report.Rows)),
		humanize.Comma(int64(report.Accepted)),
		humanize.Comma(int64(report.SkippedTotal())))
	reasons := make([]Reason, 0, len(report.Skipped))
	for reason := range report.Skipped {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	for _, reason := range reasons {
		fmt.Fprintf(&sb, "\n  %s: %s", reason,
			humanize.Comma(int64(report.Skipped[reason])))
	}
	fmt.Fprintf(&sb, "\n%s keys, %s ambiguous",
		humanize.Comma(int64(report.Keys)),
		humanize.Comma(int64(report.Ambiguous)))
	if report.Bytes > 0 {
		fmt.Fprintf(&sb, ", %s written", humanize.Bytes(uint64(report.Bytes)))
	}
	return sb.String()
}

type variant struct {
	accents types.AccentPattern
	tags    []string
}

// grouper collects the variants of every base form, keeping the order base
// forms and variants were first seen in.
type grouper struct {
	groups map[string][]variant
	order  []string
}

func (g *grouper) add(base string, v variant) {
	variants, ok := g.groups[base]
	if !ok {
		g.order = append(g.order, base)
	}
	g.groups[base] = append(variants, v)
}

// encodeGroup serializes the variants of one base form. A single distinct
// pattern needs no tags. Otherwise every distinct (pattern, tags) pair gets
// a tagged sub-record.
func encodeGroup(variants []variant) ([]byte, bool, error) {
	first := variants[0].accents
	unambiguous := true
	for _, v := range variants[1:] {
		if !v.accents.Equal(first) {
			unambiguous = false
			break
		}
	}
	if unambiguous {
		value, err := dictionary.EncodeAccents(first)
		return value, false, err
	}

	value := make([]byte, 0, len(variants)*6)
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		record, err := dictionary.EncodeTagged(v.accents, v.tags)
		if err != nil {
			return nil, true, err
		}
		if seen[string(record)] {
			continue
		}
		seen[string(record)] = true
		value = append(value, record...)
	}
	return value, true, nil
}

// BuildDictionary reads a CSV lexicon and groups its rows into dictionary
// records. Rows with an invalid stress marking are skipped and counted;
// descriptions no rule understands abort the build.
func BuildDictionary(r io.Reader) (*dictionary.Builder, *Report, error) {
	report := newReport()
	g := &grouper{groups: make(map[string][]variant)}

	readErr := ReadLexicon(r, func(row Row) error {
		report.Rows++
		if report.Rows%ProgressEvery == 0 {
			log.Info().Msgf("Read %s rows, %s base forms...",
				humanize.Comma(int64(report.Rows)),
				humanize.Comma(int64(len(g.order))))
		}
		if reason := ValidateStress(row.Form); reason != Valid {
			report.Skipped[reason]++
			log.Debug().Msgf("Skipping %q on line %d: %s", row.Form,
				row.Line, reason)
			return nil
		}
		tagList, err := ParseRow(row)
		if err != nil {
			return fmt.Errorf("line %d: %w", row.Line, err)
		}
		report.Accepted++
		g.add(StripAccent(row.Form), variant{
			accents: AccentPositions(row.Form),
			tags:    tagList,
		})
		return nil
	})
	if readErr != nil {
		return nil, report, readErr
	}

	builder := dictionary.NewBuilder()
	for _, base := range g.order {
		value, ambiguous, err := encodeGroup(g.groups[base])
		if err != nil {
			return nil, report, fmt.Errorf("%q: %w", base, err)
		}
		if ambiguous {
			report.Ambiguous++
		}
		if err := builder.Insert(base, value); err != nil {
			return nil, report, err
		}
	}
	report.Keys = builder.Len()
	if skipped := report.SkippedTotal(); skipped > 0 {
		log.Warn().Msgf("Skipped %s bad word forms",
			humanize.Comma(int64(skipped)))
	}
	return builder, report, nil
}

// Compile reads a CSV lexicon from r and writes the compiled dictionary to
// w.
func Compile(r io.Reader, w io.Writer) (*Report, error) {
	builder, report, err := BuildDictionary(r)
	if err != nil {
		return report, err
	}
	written, err := builder.WriteTo(w)
	report.Bytes = written
	if err != nil {
		return report, fmt.Errorf("writing dictionary: %w", err)
	}
	log.Info().Msgf("Compiled %s keys, %s ambiguous, %s",
		humanize.Comma(int64(report.Keys)),
		humanize.Comma(int64(report.Ambiguous)),
		humanize.Bytes(uint64(written)))
	return report, nil
}
