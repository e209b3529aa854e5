package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

// Collection maps source file names to tables, in directory listing order.
type Collection struct {
	Names  []string
	Tables map[string]*table.Table
}

func newCollection() *Collection {
	return &Collection{Tables: map[string]*table.Table{}}
}

func (c *Collection) add(name string, t *table.Table) {
	if _, ok := c.Tables[name]; !ok {
		c.Names = append(c.Names, name)
	}
	c.Tables[name] = t
}

// Get returns the table loaded from the named file.
func (c *Collection) Get(name string) (*table.Table, bool) {
	t, ok := c.Tables[name]
	return t, ok
}

// Len is the number of loaded tables.
func (c *Collection) Len() int { return len(c.Names) }

// Result holds either a single table (file input) or a collection (directory input).
type Result struct {
	Table      *table.Table
	Collection *Collection
}

// IsDir reports whether the result came from a directory.
func (r *Result) IsDir() bool { return r.Collection != nil }

// Tables flattens the result into name-ordered tables.
func (r *Result) Tables() []*table.Table {
	if r.Collection == nil {
		if r.Table == nil {
			return nil
		}
		return []*table.Table{r.Table}
	}
	out := make([]*table.Table, 0, r.Collection.Len())
	for _, n := range r.Collection.Names {
		out = append(out, r.Collection.Tables[n])
	}
	return out
}

// Loader resolves paths into tables.
type Loader struct {
	Options Options
	Sink    report.Sink
	// OnFile, if set, is called after each directory entry is attempted.
	OnFile func(name string, err error)
}

// NewLoader returns a loader reporting to sink; a nil sink discards diagnostics.
func NewLoader(opt Options, sink report.Sink) *Loader {
	if sink == nil {
		sink = report.Discard{}
	}
	return &Loader{Options: opt, Sink: sink}
}

// Load parses a regular file into a table or every supported file of a
// directory into a collection. Per-file failures inside a directory are
// reported and skipped; a single-file failure is returned.
func (l *Loader) Load(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	switch {
	case info.Mode().IsRegular():
		t, err := LoadFile(path, l.Options)
		if err != nil {
			return nil, err
		}
		return &Result{Table: t}, nil
	case info.IsDir():
		c, err := l.LoadDir(path)
		if err != nil {
			return nil, err
		}
		return &Result{Collection: c}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
}

// LoadDir parses each supported regular file directly under dir.
func (l *Loader) LoadDir(dir string) (*Collection, error) {
	files, err := CandidateFiles(dir)
	if err != nil {
		return nil, err
	}
	c := newCollection()
	for _, name := range files {
		t, err := LoadFile(filepath.Join(dir, name), l.Options)
		if err != nil {
			report.Warnf(l.sink(), "Skipping %s: %v", name, err)
		} else {
			c.add(name, t)
		}
		if l.OnFile != nil {
			l.OnFile(name, err)
		}
	}
	return c, nil
}

func (l *Loader) sink() report.Sink {
	if l.Sink == nil {
		return report.Discard{}
	}
	return l.Sink
}

// CandidateFiles lists names of regular files under dir with a registered extension.
func CandidateFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !Supported(e.Name()) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

// Load is a convenience wrapper around a Loader.
func Load(path string, opt Options, sink report.Sink) (*Result, error) {
	return NewLoader(opt, sink).Load(path)
}
