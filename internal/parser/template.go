package parser

import (
	"iter"
	"strings"

	"localize-collector/internal/interpolation"
)

// TemplateParser finds tagged template calls such as $localize`Hello ${name}`.
type TemplateParser struct {
	marker string
	ext    string
}

// NewTemplateParser creates a parser for calls tagged with marker in files
// ending with ext.
func NewTemplateParser(marker, ext string) *TemplateParser {
	return &TemplateParser{marker: marker, ext: strings.ToLower(ext)}
}

// CanParse reports whether the file name carries the source extension.
// The comparison is case-insensitive.
func (p *TemplateParser) CanParse(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), p.ext)
}

// Parse lazily yields the fragments of content in source order. ID and File
// are left empty for the caller to fill in.
func (p *TemplateParser) Parse(content string) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		if p.marker == "" {
			return
		}
		pos, line, counted := 0, 1, 0
		for {
			idx := strings.Index(content[pos:], p.marker)
			if idx < 0 {
				return
			}
			start := pos + idx
			pos = start + len(p.marker)

			body, next, ok := templateBody(content, pos)
			if !ok {
				continue
			}
			pos = next

			line += strings.Count(content[counted:start], "\n")
			counted = start

			parts, placeholders := interpolation.Split(body)
			f := Fragment{
				Line:         line,
				Source:       strings.Join(parts, ""),
				Parts:        parts,
				Placeholders: placeholders,
			}
			if !yield(f) {
				return
			}
		}
	}
}

// templateBody reads the backtick-delimited body that must follow the marker
// at pos, allowing whitespace in between. The body ends at the next backtick
// and must not be empty. It returns the body and the offset just past the
// closing backtick.
func templateBody(content string, pos int) (string, int, bool) {
	i := pos
	for i < len(content) && isSpace(content[i]) {
		i++
	}
	if i >= len(content) || content[i] != '`' {
		return "", pos, false
	}
	end := strings.IndexByte(content[i+1:], '`')
	if end <= 0 {
		return "", pos, false
	}
	return content[i+1 : i+1+end], i + end + 2, true
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
