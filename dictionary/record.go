package dictionary

import (
	"bytes"
	"fmt"

	"github.com/wbrown/uk_stress/tags"
	"github.com/wbrown/uk_stress/types"
)

// Dictionary values come in two layouts:
//
//	unambiguous: [offset]...
//	ambiguous:   ([offset]... SEP [tag code]... TERM)...
//
// Offsets are always below tags.RecordSeparator, so an unambiguous value
// never contains a delimiter byte.

// EncodeAccents serializes an unambiguous record.
func EncodeAccents(accents types.AccentPattern) ([]byte, error) {
	for _, offset := range accents {
		if offset >= tags.RecordSeparator {
			return nil, fmt.Errorf("accent offset %d does not fit a record",
				offset)
		}
	}
	return []byte(accents), nil
}

// EncodeTagged serializes one tagged sub-record of an ambiguous record.
func EncodeTagged(accents types.AccentPattern, tagList []string) ([]byte,
	error) {
	offsets, err := EncodeAccents(accents)
	if err != nil {
		return nil, err
	}
	compressed, err := tags.Compress(tagList)
	if err != nil {
		return nil, err
	}
	record := make([]byte, 0, len(offsets)+len(compressed)+2)
	record = append(record, offsets...)
	record = append(record, tags.RecordSeparator)
	record = append(record, compressed...)
	record = append(record, tags.RecordTerminator)
	return record, nil
}

// IsTagged reports whether value holds tagged sub-records.
func IsTagged(value []byte) bool {
	return len(value) > 0 && value[len(value)-1] == tags.RecordTerminator
}

// DecodeRecord parses a dictionary value into its candidates, in storage
// order.
func DecodeRecord(value []byte) ([]types.Candidate, error) {
	if len(value) == 0 {
		return nil, nil
	}
	if !IsTagged(value) {
		if bytes.IndexByte(value, tags.RecordSeparator) >= 0 ||
			bytes.IndexByte(value, tags.RecordTerminator) >= 0 {
			return nil, fmt.Errorf("%w: stray delimiter in untagged record",
				tags.ErrCorruptRecord)
		}
		accents := make(types.AccentPattern, len(value))
		copy(accents, value)
		return []types.Candidate{{Tags: []string{}, Accents: accents}}, nil
	}

	candidates := make([]types.Candidate, 0, 2)
	items := bytes.Split(value[:len(value)-1],
		[]byte{tags.RecordTerminator})
	for _, item := range items {
		sep := bytes.IndexByte(item, tags.RecordSeparator)
		if sep < 0 {
			return nil, fmt.Errorf("%w: tagged record without separator",
				tags.ErrCorruptRecord)
		}
		decoded, err := tags.Decompress(item[sep+1:])
		if err != nil {
			return nil, err
		}
		accents := make(types.AccentPattern, sep)
		copy(accents, item[:sep])
		candidates = append(candidates, types.Candidate{
			Tags:    decoded,
			Accents: accents,
		})
	}
	return candidates, nil
}
