package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Frame is an untyped table as read from a source: a header row and string cells.
type Frame struct {
	Source string
	Header []string
	Rows   [][]string
}

// ReadCSV reads a whole CSV document. The first record is the header.
func ReadCSV(r io.Reader, source string) (Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are padded by cell()

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Frame{}, &SchemaMismatchError{Source: source, Detail: "empty document"}
	} else if err != nil {
		return Frame{}, unavailable(source, fmt.Errorf("read header: %w", err))
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	f := Frame{Source: source, Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return Frame{}, unavailable(source, err)
		}
		f.Rows = append(f.Rows, rec)
	}
	return f, nil
}

// columns finds the positions of the named columns. Every name in required
// must be present; names in optional map to -1 when absent.
func (f Frame) columns(required, optional []string) (map[string]int, error) {
	pos := make(map[string]int, len(f.Header))
	for i, h := range f.Header {
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	idx := make(map[string]int, len(required)+len(optional))
	var missing []string
	for _, name := range required {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[name] = i
	}
	if len(missing) > 0 {
		return nil, &SchemaMismatchError{Source: f.Source, Missing: missing}
	}
	for _, name := range optional {
		if i, ok := pos[name]; ok {
			idx[name] = i
		} else {
			idx[name] = -1
		}
	}
	return idx, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
