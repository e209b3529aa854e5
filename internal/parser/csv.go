package parser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/eda-cli/internal/table"
)

func parseCSV(path string, opt Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	br := bufio.NewReader(f)
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path, br)
	}
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNoColumns
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	if err := validUTF8(header); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	var records [][]string
	for {
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			break
		}
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d: expected %d fields, saw %d", len(records)+1, len(header), len(rec))
		}
		if err := validUTF8(rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return table.New(filepath.Base(path), header, records, opt.Number), nil
}

func validUTF8(fields []string) error {
	for i, f := range fields {
		if !utf8.ValidString(f) {
			return fmt.Errorf("field %d is not valid UTF-8", i+1)
		}
	}
	return nil
}

// sniffDelimiter picks tab for .tsv files, otherwise the most frequent of
// ',', ';' and '\t' in the header line. Defaults to comma.
func sniffDelimiter(path string, br *bufio.Reader) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	line, _ := br.Peek(4096)
	if i := strings.IndexByte(string(line), '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestN := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := strings.Count(string(line), string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

// WriteCSV writes t as comma-separated text with a header row. Missing
// cells are written empty.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.Rows; i++ {
		if err := cw.Write(t.Record(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
