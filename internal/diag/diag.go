// Package diag collects non-fatal conditions raised during a collection run.
//
// Components never abort on unreadable directories, unreadable files,
// conflicting message ids or ambiguous locations. They report them here
// and carry on; the driver decides how to present the result.
package diag

import (
	"github.com/rs/zerolog"
)

// Kind classifies a diagnostic.
type Kind string

const (
	UnreadableDir     Kind = "unreadable-dir"
	UnreadableFile    Kind = "unreadable-file"
	DuplicateID       Kind = "duplicate-id"
	MultipleLocations Kind = "multiple-locations"
)

// Entry is a single reported condition.
type Entry struct {
	Kind    Kind
	Path    string
	ID      string
	Message string
	Err     error
}

// Collector retains diagnostics for one run and echoes them to a logger.
// A nil *Collector discards everything.
type Collector struct {
	logger  zerolog.Logger
	entries []Entry
}

// NewCollector creates a collector logging through logger.
func NewCollector(logger zerolog.Logger) *Collector {
	return &Collector{logger: logger}
}

// Report records e and logs it at warn level.
func (c *Collector) Report(e Entry) {
	if c == nil {
		return
	}
	c.entries = append(c.entries, e)

	ev := c.logger.Warn().Str("kind", string(e.Kind))
	if e.Err != nil {
		ev = ev.Err(e.Err)
	}
	if e.Path != "" {
		ev = ev.Str("path", e.Path)
	}
	if e.ID != "" {
		ev = ev.Str("id", e.ID)
	}
	ev.Msg(e.Message)
}

// Entries returns a copy of everything reported so far.
func (c *Collector) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of reported diagnostics.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Count returns the number of diagnostics of the given kind.
func (c *Collector) Count(kind Kind) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, e := range c.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
