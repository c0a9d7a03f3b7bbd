// Package xliff reconciles extracted fragments with an XLIFF 1.2
// interchange document.
//
// The document must hold exactly one <file> with exactly one <body> whose
// element children are all <trans-unit>. Anything else is a StructureError
// and nothing is written: a malformed document is never silently fixed.
// Units are matched by id, created when missing and updated in place
// otherwise. Units that no fragment matches are left as they are.
package xliff

import (
	"fmt"
	"os"
	"path/filepath"

	"localize-collector/internal/diag"

	"github.com/beevik/etree"
)

// FileName is the interchange document name inside the translations directory.
const FileName = "messages.xlf"

// DefaultIndent is the indentation width used when Options.Indent is zero.
const DefaultIndent = 4

const (
	tagFile         = "file"
	tagHeader       = "header"
	tagBody         = "body"
	tagUnit         = "trans-unit"
	tagSource       = "source"
	tagContextGroup = "context-group"
	tagContext      = "context"
	tagPlaceholder  = "x"

	purposeLocation = "location"
	contextFile     = "sourcefile"
	contextLine     = "linenumber"

	// unknownLine is written for new units; line numbers are not tracked
	// unless Options.LineNumbers is set.
	unknownLine = "0"
)

// StructureError reports a document that does not have the expected shape.
// It is always fatal.
type StructureError struct {
	Path   string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("malformed interchange document %s: %s", e.Path, e.Reason)
}

// Options tune loading, merging and serialization.
type Options struct {
	// Indent is the number of spaces per nesting level.
	Indent int
	// LineNumbers rewrites the linenumber context of merged units with the
	// fragment's line.
	LineNumbers bool
	// Diag receives non-fatal conditions. May be nil.
	Diag *diag.Collector
}

// Document is an interchange document held in memory for one run. It owns
// its element tree; callers only ever see snapshots.
type Document struct {
	path  string
	opts  Options
	doc   *etree.Document
	body  *etree.Element
	units map[string]*etree.Element
}

// Path returns the file the document is saved to.
func Path(translationsDir string) string {
	return filepath.Join(translationsDir, FileName)
}

// Load reads and validates the document at path and indexes its units by id.
// Units without an id are kept but not indexed. When two units share an id
// the later one wins.
func Load(path string, opts Options) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("read interchange document: %w", err)
	}

	d := &Document{path: path, opts: opts, doc: doc, units: make(map[string]*etree.Element)}
	if err := d.locateBody(); err != nil {
		return nil, err
	}

	for _, e := range d.body.ChildElements() {
		if e.Tag != tagUnit {
			return nil, d.structureErr("unknown body element <%s>", e.Tag)
		}
		if id := e.SelectAttrValue("id", ""); id != "" {
			d.units[id] = e
		}
	}
	return d, nil
}

// Create builds an empty XLIFF 1.2 document to be saved at path. It refuses
// to replace an existing file.
func Create(path, sourceLanguage string, opts Options) (*Document, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("interchange document already exists: %s", path)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("xliff")
	root.CreateAttr("version", "1.2")
	root.CreateAttr("xmlns", "urn:oasis:names:tc:xliff:document:1.2")
	file := root.CreateElement(tagFile)
	file.CreateAttr("source-language", sourceLanguage)
	file.CreateAttr("datatype", "plaintext")
	file.CreateAttr("original", "ng2.template")
	body := file.CreateElement(tagBody)

	return &Document{path: path, opts: opts, doc: doc, body: body, units: make(map[string]*etree.Element)}, nil
}

func (d *Document) locateBody() error {
	root := d.doc.Root()
	if root == nil {
		return d.structureErr("no root element")
	}

	files := root.ChildElements()
	if len(files) != 1 {
		return d.structureErr("expecting exactly 1 <%s> element under <%s>, found %d", tagFile, root.Tag, len(files))
	}

	for _, e := range files[0].ChildElements() {
		switch e.Tag {
		case tagHeader:
		case tagBody:
			if d.body != nil {
				return d.structureErr("expecting exactly 1 <%s> element under <%s>, found more", tagBody, files[0].Tag)
			}
			d.body = e
		default:
			return d.structureErr("unexpected <%s> element under <%s>", e.Tag, files[0].Tag)
		}
	}
	if d.body == nil {
		return d.structureErr("expecting exactly 1 <%s> element under <%s>, found none", tagBody, files[0].Tag)
	}
	return nil
}

func (d *Document) structureErr(format string, args ...any) error {
	return &StructureError{Path: d.path, Reason: fmt.Sprintf(format, args...)}
}

// Len returns the number of indexed units.
func (d *Document) Len() int { return len(d.units) }

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	indent := d.opts.Indent
	if indent == 0 {
		indent = DefaultIndent
	}
	reindent(&d.doc.Element, -1, max(indent, 0))

	out, err := d.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize interchange document: %w", err)
	}
	return collapseBlankLines(out), nil
}

// Save writes the document back to its path.
func (d *Document) Save() error {
	out, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return fmt.Errorf("create translations directory: %w", err)
	}
	if err := os.WriteFile(d.path, out, 0644); err != nil {
		return fmt.Errorf("write interchange document: %w", err)
	}
	return nil
}
