package interpolation

import (
	"strconv"
	"strings"
)

const (
	siteOpen  = "${"
	siteClose = '}'
)

// Split breaks a template body into literal parts and the raw expression
// text of each ${...} site, in source order. len(parts) is always
// len(placeholders)+1.
//
// The first '}' after "${" closes a site; braces inside the expression are
// not balanced, so `${ {a: 1}.a }` yields the expression " {a: 1" and leaves
// ".a }" in the following literal. An empty site "${}" or an unterminated
// "${" stays literal text.
func Split(body string) (parts, placeholders []string) {
	last, i := 0, 0
	for {
		start := strings.Index(body[i:], siteOpen)
		if start < 0 {
			break
		}
		start += i

		end := strings.IndexByte(body[start+len(siteOpen):], siteClose)
		if end < 0 {
			break
		}
		if end == 0 {
			i = start + 1
			continue
		}

		exprStart := start + len(siteOpen)
		parts = append(parts, body[last:start])
		placeholders = append(placeholders, body[exprStart:exprStart+end])
		last = exprStart + end + 1
		i = last
	}
	parts = append(parts, body[last:])
	return parts, placeholders
}

// MarkerID returns the positional name of the placeholder at index i:
// PH, PH_1, PH_2, ...
func MarkerID(i int) string {
	if i == 0 {
		return "PH"
	}
	return "PH_" + strconv.Itoa(i)
}

// EquivText renders a placeholder expression the way it appears in source.
func EquivText(expr string) string {
	return siteOpen + expr + string(siteClose)
}
