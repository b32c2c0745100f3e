package compiler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Row is a lexicon entry: an accented surface form with its part of speech
// and grammatical descriptions.
type Row struct {
	Line int
	Form string
	Type string
	Tag  string
}

var lexiconColumns = []string{"form", "type", "tag"}

// ReadLexicon streams the rows of a CSV lexicon to fn. The first row is a
// header naming at least the form, type and tag columns, in any order.
func ReadLexicon(r io.Reader, fn func(Row) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return errors.New("empty lexicon")
		}
		return fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[name] = idx
	}
	indexes := make([]int, len(lexiconColumns))
	for idx, name := range lexiconColumns {
		col, ok := columns[name]
		if !ok {
			return fmt.Errorf("lexicon lacks a %q column", name)
		}
		indexes[idx] = col
	}
	field := func(record []string, idx int) string {
		if indexes[idx] < len(record) {
			return record[indexes[idx]]
		}
		return ""
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		line, _ := reader.FieldPos(0)
		row := Row{
			Line: line,
			Form: field(record, 0),
			Type: field(record, 1),
			Tag:  field(record, 2),
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}
