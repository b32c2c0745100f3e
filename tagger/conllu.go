package tagger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress/types"
)

// Document is a parsed CoNLL-U stream together with the text its offsets
// refer to.
type Document struct {
	Text      string
	Sentences []types.Sentence
}

type conlluToken struct {
	types.ParseToken
	hasRange   bool
	spaceAfter bool
	unaligned  bool
	lastWord   int
}

func conlluField(value string) string {
	if value == "_" {
		return ""
	}
	return value
}

func parseMisc(misc string, token *conlluToken) {
	for _, item := range strings.Split(misc, "|") {
		key, value, _ := strings.Cut(item, "=")
		switch key {
		case "SpaceAfter":
			token.spaceAfter = value != "No"
		case "TokenRange":
			startStr, endStr, ok := strings.Cut(value, ":")
			if !ok {
				continue
			}
			start, startErr := strconv.Atoi(startStr)
			end, endErr := strconv.Atoi(endStr)
			if startErr == nil && endErr == nil && start <= end {
				token.StartChar, token.EndChar = start, end
				token.hasRange = true
			}
		}
	}
}

// ParseCoNLLU reads tokens from CoNLL-U. A multiword token becomes a single
// token spanning its surface form, tagged like its first word; empty nodes
// are dropped.
//
// When text is given, offsets come from TokenRange annotations, or from
// locating each form in text. Without text, the text is rebuilt from the
// forms and SpaceAfter annotations, one sentence per line.
func ParseCoNLLU(r io.Reader, text string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	sentences := make([][]*conlluToken, 0)
	current := make([]*conlluToken, 0, 32)
	var mwt *conlluToken
	lineNo := 0
	flush := func() {
		if len(current) > 0 {
			sentences = append(sentences, current)
			current = make([]*conlluToken, 0, 32)
		}
		mwt = nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 10 {
			return nil, fmt.Errorf("conllu line %d: expected 10 fields, "+
				"got %d", lineNo, len(fields))
		}
		id := fields[0]
		if strings.Contains(id, ".") {
			continue
		}
		if first, last, isRange := strings.Cut(id, "-"); isRange {
			firstID, err := strconv.Atoi(first)
			if err != nil {
				return nil, fmt.Errorf("conllu line %d: bad id %q", lineNo, id)
			}
			lastID, err := strconv.Atoi(last)
			if err != nil {
				return nil, fmt.Errorf("conllu line %d: bad id %q", lineNo, id)
			}
			mwt = &conlluToken{
				ParseToken: types.ParseToken{ID: firstID, Text: fields[1]},
				spaceAfter: true,
				lastWord:   lastID,
			}
			parseMisc(fields[9], mwt)
			current = append(current, mwt)
			continue
		}
		wordID, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("conllu line %d: bad id %q", lineNo, id)
		}
		if mwt != nil && wordID <= mwt.lastWord {
			if wordID == mwt.ID {
				mwt.UPOS = conlluField(fields[3])
				mwt.Feats = conlluField(fields[5])
			}
			continue
		}
		mwt = nil
		token := &conlluToken{
			ParseToken: types.ParseToken{
				ID:    wordID,
				Text:  fields[1],
				UPOS:  conlluField(fields[3]),
				Feats: conlluField(fields[5]),
			},
			spaceAfter: true,
		}
		parseMisc(fields[9], token)
		current = append(current, token)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	doc := &Document{Sentences: make([]types.Sentence, 0, len(sentences))}
	if text == "" {
		doc.Text = rebuildText(sentences)
	} else {
		doc.Text = text
		alignTokens(text, sentences)
	}
	for _, sentence := range sentences {
		parsed := make(types.Sentence, 0, len(sentence))
		for _, token := range sentence {
			if !token.unaligned {
				parsed = append(parsed, token.ParseToken)
			}
		}
		doc.Sentences = append(doc.Sentences, parsed)
	}
	return doc, nil
}

func rebuildText(sentences [][]*conlluToken) string {
	var sb strings.Builder
	pos := 0
	for idx, sentence := range sentences {
		if idx > 0 {
			sb.WriteByte('\n')
			pos++
		}
		for tokIdx, token := range sentence {
			token.StartChar = pos
			sb.WriteString(token.Text)
			pos += len([]rune(token.Text))
			token.EndChar = pos
			if token.spaceAfter && tokIdx < len(sentence)-1 {
				sb.WriteByte(' ')
				pos++
			}
		}
	}
	return sb.String()
}

func alignTokens(text string, sentences [][]*conlluToken) {
	a := newAligner(text)
	for _, sentence := range sentences {
		for _, token := range sentence {
			if token.hasRange {
				if token.EndChar > a.cursor {
					a.cursor = token.EndChar
				}
				continue
			}
			start, end, ok := a.next(token.Text)
			if !ok {
				log.Debug().Msgf("Token %q not found in text", token.Text)
				token.unaligned = true
				continue
			}
			token.StartChar, token.EndChar = start, end
		}
	}
}
