package source

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/deckview/pkg/errors"
)

// ParseCSV reads a CSV document whose first non-blank line is the header.
//
// Quoted fields may contain commas. Header and values are trimmed and
// stripped of one pair of surrounding quotes. Blank lines are skipped and
// missing trailing cells become "".
func ParseCSV(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var header []string
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse CSV")
		}
		if blank(rec) {
			continue
		}
		for i := range rec {
			rec[i] = cleanCell(rec[i])
		}
		if header == nil {
			header = rec
			continue
		}
		rows = append(rows, rec)
	}

	if header == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no data found in the sheet")
	}
	return newItems(header, rows), nil
}

// ReadCSVFile parses a local CSV file.
func ReadCSVFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}

// FromValues converts a Sheets API values payload: the first row is the
// header, every following row is an item.
func FromValues(values [][]string) ([]Item, error) {
	if len(values) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no data found in the sheet")
	}
	header := make([]string, len(values[0]))
	for i, h := range values[0] {
		header[i] = strings.TrimSpace(h)
	}
	return newItems(header, values[1:]), nil
}

func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
