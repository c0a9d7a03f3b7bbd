// Package extract turns a source tree into a lazy sequence of identified
// message fragments.
package extract

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"localize-collector/internal/diag"
	"localize-collector/internal/filewalker"
	"localize-collector/internal/msgid"
	"localize-collector/internal/parser"
	"localize-collector/internal/textutil"

	"github.com/rs/zerolog/log"
)

// Stats summarises one pass over the tree.
type Stats struct {
	Dirs       int
	Files      int
	Fragments  int
	Duplicates int
	Conflicts  int
}

// Driver composes the walker, parser and resolver. The first fragment seen
// for an id is authoritative for the rest of the pass.
type Driver struct {
	walker   *filewalker.Walker
	parser   *parser.TemplateParser
	resolver msgid.Resolver
	diag     *diag.Collector
	observe  func(parser.Fragment)
	stats    Stats
}

// NewDriver creates a Driver. A nil resolver defaults to msgid.Localize.
func NewDriver(w *filewalker.Walker, p *parser.TemplateParser, r msgid.Resolver, collector *diag.Collector) *Driver {
	if r == nil {
		r = msgid.Localize{}
	}
	return &Driver{walker: w, parser: p, resolver: r, diag: collector}
}

// OnOccurrence registers fn to receive every resolved fragment, duplicates
// included, before first-seen deduplication. It runs in walk order on the
// consuming goroutine.
func (d *Driver) OnOccurrence(fn func(parser.Fragment)) { d.observe = fn }

// Stats returns the counters of the most recent pass.
func (d *Driver) Stats() Stats { return d.stats }

// Fragments yields each unique message once, in walk order and then source
// order within a file. A later fragment with a known id is dropped; when its
// literal text differs from the first one it is reported as a conflict.
// Unreadable files are reported and skipped.
func (d *Driver) Fragments() iter.Seq[parser.Fragment] {
	return func(yield func(parser.Fragment) bool) {
		d.stats = Stats{}
		defer func() { d.stats.Dirs = d.walker.Visited() }()
		seen := make(map[string]parser.Fragment)

		for rel := range d.walker.Walk() {
			if !d.parser.CanParse(rel) {
				continue
			}
			file := filepath.ToSlash(rel)

			content, err := os.ReadFile(filepath.Join(d.walker.Root(), rel))
			if err != nil {
				d.diag.Report(diag.Entry{
					Kind:    diag.UnreadableFile,
					Path:    file,
					Message: "Failed to read file",
					Err:     err,
				})
				continue
			}
			d.stats.Files++

			for f := range d.parser.Parse(string(content)) {
				f.File = file
				f.ID = d.resolver.Resolve(f.Parts, f.Placeholders)
				if d.observe != nil {
					d.observe(f)
				}

				if first, ok := seen[f.ID]; ok {
					d.stats.Duplicates++
					if first.Source != f.Source {
						d.stats.Conflicts++
						d.reportConflict(first, f)
					}
					continue
				}
				seen[f.ID] = f

				d.stats.Fragments++
				if !yield(f) {
					return
				}
			}
		}

		log.Debug().
			Int("files", d.stats.Files).
			Int("fragments", d.stats.Fragments).
			Int("duplicates", d.stats.Duplicates).
			Msg("Extraction pass complete")
	}
}

func (d *Driver) reportConflict(first, dup parser.Fragment) {
	var msg string
	if first.File == dup.File {
		msg = fmt.Sprintf("Duplicate translation id %q with different text found twice in %s (%q at line %d, %q at line %d)",
			dup.ID, dup.File,
			textutil.Truncate(first.Source, 40), first.Line,
			textutil.Truncate(dup.Source, 40), dup.Line)
	} else {
		msg = fmt.Sprintf("Duplicate translation id %q found in %s but was already defined in %s (%q vs %q)",
			dup.ID, dup.File, first.File,
			textutil.Truncate(dup.Source, 40), textutil.Truncate(first.Source, 40))
	}
	d.diag.Report(diag.Entry{
		Kind:    diag.DuplicateID,
		Path:    dup.File,
		ID:      dup.ID,
		Message: msg,
	})
}
