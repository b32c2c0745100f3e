// Package mutable edits text without disturbing the offsets of edits that
// are still pending.
package mutable

import (
	"sort"
	"strings"
)

// Edit replaces the characters in [Start, End) of the source text with
// Value. Offsets count runes, not bytes.
type Edit struct {
	Start int
	End   int
	Value string
}

// MutableText records edits against an unchanging source text. Every edit
// refers to source offsets, so edits can be added in any order.
type MutableText struct {
	source []rune
	edits  []Edit
}

func New(text string) *MutableText {
	return &MutableText{
		source: []rune(text),
		edits:  make([]Edit, 0),
	}
}

// Replace schedules the replacement of source runes [start, end) with value.
func (mt *MutableText) Replace(start, end int, value string) {
	mt.edits = append(mt.edits, Edit{Start: start, End: end, Value: value})
}

// Edits returns a copy of the pending edits, in the order they were made.
func (mt *MutableText) Edits() []Edit {
	edits := make([]Edit, len(mt.edits))
	copy(edits, mt.edits)
	return edits
}

func (mt *MutableText) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(mt.source) {
		return len(mt.source)
	}
	return offset
}

// EditedText returns the source with every pending edit applied, in order
// of (start, end). Text between edits is copied verbatim. An edit starting
// inside an earlier one only contributes its value.
func (mt *MutableText) EditedText() string {
	if len(mt.edits) == 0 {
		return string(mt.source)
	}
	edits := mt.Edits()
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start < edits[j].Start
		}
		return edits[i].End < edits[j].End
	})

	var sb strings.Builder
	sb.Grow(len(mt.source) * 2)
	pos := 0
	for _, edit := range edits {
		start := mt.clamp(edit.Start)
		if start > pos {
			sb.WriteString(string(mt.source[pos:start]))
		}
		sb.WriteString(edit.Value)
		pos = mt.clamp(edit.End)
	}
	if pos < len(mt.source) {
		sb.WriteString(string(mt.source[pos:]))
	}
	return sb.String()
}

// SourceText returns the text without pending edits.
func (mt *MutableText) SourceText() string {
	return string(mt.source)
}

// ApplyEdits commits the pending edits into the source text and clears
// them. Later edits refer to the new source.
func (mt *MutableText) ApplyEdits() {
	mt.source = []rune(mt.EditedText())
	mt.edits = mt.edits[:0]
}

func (mt *MutableText) String() string {
	return mt.EditedText()
}
