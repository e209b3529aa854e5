// Package parser turns files on disk into tables. Parsers are registered per
// file extension; Load resolves a path that may be a single file or a
// directory of files.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/eda-cli/internal/table"
)

var (
	// ErrPathNotFound indicates the input path is neither a regular file nor a directory.
	ErrPathNotFound = errors.New("path not found")
	// ErrUnsupportedFormat indicates no parser is registered for the file extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrParseFailure indicates a file could not be read or its content is malformed.
	ErrParseFailure = errors.New("parse failure")
)

// ParseError wraps a failure to read a specific file. It matches both
// ErrParseFailure and the underlying cause under errors.Is.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error reading %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParseFailure, e.Err} }

// Options controls how files are parsed.
type Options struct {
	// Delimiter for CSV. If 0, sniffed from the extension and header line.
	Delimiter rune
	// MaxRows limits data rows read per file; 0 means unlimited.
	MaxRows int
	// SheetName selects a spreadsheet sheet by name (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based sheet used when SheetName is empty.
	SheetIndex int
	// Number locale; zero values auto-detect per cell.
	Number table.NumberFormat
}

// DefaultOptions reads whole files and the first sheet of workbooks.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Parser reads a file into a table.
type Parser interface {
	Parse(path string, opt Options) (*table.Table, error)
}

// Func adapts a function to the Parser interface.
type Func func(path string, opt Options) (*table.Table, error)

func (f Func) Parse(path string, opt Options) (*table.Table, error) { return f(path, opt) }

var registry = map[string]Parser{}

// Register binds a parser to a file extension such as ".csv". Later
// registrations for the same extension replace earlier ones.
func Register(ext string, p Parser) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	registry[ext] = p
}

// Lookup returns the parser for the path's extension.
func Lookup(path string) (Parser, bool) {
	p, ok := registry[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

// Supported reports whether a parser is registered for the path's extension.
func Supported(path string) bool {
	_, ok := Lookup(path)
	return ok
}

// Extensions lists registered extensions in sorted order.
func Extensions() []string {
	out := make([]string, 0, len(registry))
	for ext := range registry {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ParseFile parses a single file with default options.
func ParseFile(path string) (*table.Table, error) {
	return LoadFile(path, DefaultOptions())
}

// LoadFile selects a parser by extension and parses path.
func LoadFile(path string, opt Options) (*table.Table, error) {
	p, ok := Lookup(path)
	if !ok {
		ext := filepath.Ext(path)
		if ext == "" {
			ext = "(none)"
		}
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, ext, path)
	}
	t, err := p.Parse(path, opt)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return t, nil
}

func init() {
	Register(".csv", Func(parseCSV))
	Register(".tsv", Func(parseCSV))
	Register(".xlsx", Func(parseXLSX))
	Register(".xls", Func(parseXLS))
}

// errNoColumns mirrors the failure of reading a file with no header row.
var errNoColumns = errors.New("no columns to parse from file")
