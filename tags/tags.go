// Package tags maps the closed vocabulary of morphological tags used by the
// stress dictionary to single byte codes and back.
package tags

import (
	"errors"
	"fmt"
	"hash/crc32"
)

// IgnoreCode marks tags that carry no disambiguating value. They are
// accepted by Compress and silently dropped.
const IgnoreCode byte = 0x00

// Delimiters of tagged dictionary records. They are never used as tag codes.
const (
	RecordSeparator  byte = 0xFE
	RecordTerminator byte = 0xFF
)

var (
	ErrUnknownTag    = errors.New("unknown tag")
	ErrCorruptRecord = errors.New("corrupt dictionary record")
)

type entry struct {
	tag  string
	code byte
}

// The order of this table is the canonical order of the vocabulary, and is
// what Checksum is computed over.
var table = []entry{
	{"Number=Sing", 0x11},
	{"Number=Plur", 0x12},
	{"Case=Nom", 0x20},
	{"Case=Gen", 0x21},
	{"Case=Dat", 0x22},
	{"Case=Acc", 0x23},
	{"Case=Ins", 0x24},
	{"Case=Loc", 0x25},
	{"Case=Voc", 0x26},
	{"Gender=Neut", 0x30},
	{"Gender=Masc", 0x31},
	{"Gender=Fem", 0x32},
	{"VerbForm=Inf", 0x41},
	{"VerbForm=Conv", 0x42},
	{"Person=0", 0x50},
	{"upos=NOUN", 0x61},
	{"upos=ADJ", 0x62},
	{"upos=INTJ", 0x63},
	{"upos=CCONJ", 0x64},
	{"upos=PART", 0x65},
	{"upos=PRON", 0x66},
	{"upos=VERB", 0x67},
	{"upos=PROPN", 0x68},
	{"upos=ADV", 0x69},
	{"upos=NUM", 0x6b},
	{"upos=ADP", 0x6c},

	// Not worth storing.
	{"upos=СПОЛУКА", IgnoreCode},
	{"upos=ПРИСУДКОВЕ СЛОВО", IgnoreCode},
	{"upos=NumType=Card", IgnoreCode},
	{"upos=<None>", IgnoreCode},
	{"", IgnoreCode},
}

var (
	codeByTag map[string]byte
	tagByCode [256]*string
)

func init() {
	if err := Validate(); err != nil {
		panic(err)
	}
	codeByTag = make(map[string]byte, len(table))
	for idx := range table {
		e := &table[idx]
		codeByTag[e.tag] = e.code
		if e.code != IgnoreCode {
			tagByCode[e.code] = &e.tag
		}
	}
}

// Validate checks that the table is a bijection between tags and non-ignore
// codes, and that no code collides with a record delimiter.
func Validate() error {
	seenTags := make(map[string]bool, len(table))
	seenCodes := make(map[byte]string, len(table))
	for _, e := range table {
		if seenTags[e.tag] {
			return fmt.Errorf("tags: duplicate tag %q", e.tag)
		}
		seenTags[e.tag] = true
		if e.code == IgnoreCode {
			continue
		}
		if e.code == RecordSeparator || e.code == RecordTerminator {
			return fmt.Errorf("tags: %q uses a record delimiter code 0x%02x",
				e.tag, e.code)
		}
		if other, ok := seenCodes[e.code]; ok {
			return fmt.Errorf("tags: %q and %q share code 0x%02x",
				other, e.tag, e.code)
		}
		seenCodes[e.code] = e.tag
	}
	return nil
}

// Compress encodes tags into one byte each. Ignored tags are dropped.
func Compress(tags []string) ([]byte, error) {
	compressed := make([]byte, 0, len(tags))
	for _, tag := range tags {
		code, ok := codeByTag[tag]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
		}
		if code != IgnoreCode {
			compressed = append(compressed, code)
		}
	}
	return compressed, nil
}

// Decompress is the inverse of Compress.
func Decompress(compressed []byte) ([]string, error) {
	tags := make([]string, 0, len(compressed))
	for _, code := range compressed {
		tag := tagByCode[code]
		if tag == nil {
			return nil, fmt.Errorf("%w: unknown tag code 0x%02x",
				ErrCorruptRecord, code)
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// Known reports whether tag belongs to the vocabulary, ignored tags
// included.
func Known(tag string) bool {
	_, ok := codeByTag[tag]
	return ok
}

// Code returns the byte code of a tag.
func Code(tag string) (byte, bool) {
	code, ok := codeByTag[tag]
	return code, ok
}

// Tags lists every decodable tag in code order.
func Tags() []string {
	tags := make([]string, 0, len(table))
	for code := range tagByCode {
		if tagByCode[code] != nil {
			tags = append(tags, *tagByCode[code])
		}
	}
	return tags
}

// Checksum fingerprints the table. Dictionaries record the checksum of the
// table they were compiled with and refuse to load under a different one.
func Checksum() uint32 {
	hash := crc32.NewIEEE()
	for _, e := range table {
		hash.Write([]byte(e.tag))
		hash.Write([]byte{0, e.code})
	}
	return hash.Sum32()
}
