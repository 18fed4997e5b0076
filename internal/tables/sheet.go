// Package tables reads the roster, feedback and participant inputs.
package tables

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Sheet is a header row plus data records, as exported from a spreadsheet.
type Sheet struct {
	Headers []string   `json:"headers"`
	Records [][]string `json:"rows"`
}

// ReadFile reads a .csv or .tsv file from disk.
func ReadFile(path string) (*Sheet, error) {
	delim, err := delimiterFor(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return Read(file, delim)
}

// ReadBytes parses file content directly from memory.
func ReadBytes(data []byte, filename string) (*Sheet, error) {
	delim, err := delimiterFor(filename)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data), delim)
}

func delimiterFor(name string) (rune, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		return ',', nil
	case ".tsv", ".txt":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unknown file format: %s (must be .csv or .tsv)", ext)
	}
}

// Read parses delimited data from any io.Reader. The first record is the
// header. An empty input yields an empty sheet.
func Read(reader io.Reader, delim rune) (*Sheet, error) {
	r := csv.NewReader(reader)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return &Sheet{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		// Spreadsheet exports often start with a UTF-8 BOM.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	out := make([][]string, 0, len(records))
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		out = append(out, rec)
	}
	return &Sheet{Headers: header, Records: out}, nil
}

// Column returns the index of the first header containing any of the
// keywords, case-insensitively, or -1.
func (s *Sheet) Column(keywords ...string) int {
	for i, h := range s.Headers {
		lower := strings.ToLower(h)
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return i
			}
		}
	}
	return -1
}

// ColumnWord is like Column but matches whole words of the header only, so
// "id" does not hit "Providence".
func (s *Sheet) ColumnWord(words ...string) int {
	for i, h := range s.Headers {
		for _, w := range headerWords(h) {
			for _, want := range words {
				if w == want {
					return i
				}
			}
		}
	}
	return -1
}

// Cell returns the trimmed value at idx, or "" when out of range.
func Cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func headerWords(h string) []string {
	return strings.FieldsFunc(strings.ToLower(h), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
