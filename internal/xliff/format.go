package xliff

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// textTags hold inline content whose whitespace is significant.
var textTags = map[string]bool{
	"source":     true,
	"target":     true,
	"seg-source": true,
	"note":       true,
	"context":    true,
	"mrk":        true,
}

// reindent replaces the whitespace between the children of structural
// elements with newlines and depth*width spaces. Elements holding text are
// left byte for byte as they are. Depth -1 is the document itself.
func reindent(e *etree.Element, depth, width int) {
	if depth >= 0 && (textTags[e.Tag] || hasText(e)) {
		return
	}

	for i := len(e.Child) - 1; i >= 0; i-- {
		if cd, ok := e.Child[i].(*etree.CharData); ok && !cd.IsCData() && cd.IsWhitespace() {
			e.RemoveChildAt(i)
		}
	}
	if len(e.Child) == 0 {
		return
	}
	for _, c := range e.ChildElements() {
		reindent(c, depth+1, width)
	}

	pad := "\n" + strings.Repeat(" ", (depth+1)*width)
	for i := len(e.Child) - 1; i >= 0; i-- {
		if depth < 0 && i == 0 {
			continue
		}
		e.InsertChildAt(i, etree.NewText(pad))
	}
	e.AddChild(etree.NewText("\n" + strings.Repeat(" ", max(depth, 0)*width)))
}

func hasText(e *etree.Element) bool {
	for _, c := range e.Child {
		if cd, ok := c.(*etree.CharData); ok && (cd.IsCData() || !cd.IsWhitespace()) {
			return true
		}
	}
	return false
}

var blankLineRun = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)

// collapseBlankLines squeezes runs of blank lines into a single blank line.
func collapseBlankLines(b []byte) []byte {
	return blankLineRun.ReplaceAll(b, []byte("\n\n"))
}
