// Package msgid derives stable message ids from the literal/placeholder
// structure of a tagged template.
package msgid

import (
	"strings"

	"localize-collector/internal/interpolation"
)

// Resolver maps a fragment's structure to its message id. Implementations
// must be pure: equal input always yields the same id.
type Resolver interface {
	Resolve(parts, placeholders []string) string
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(parts, placeholders []string) string

func (f ResolverFunc) Resolve(parts, placeholders []string) string {
	return f(parts, placeholders)
}

const (
	blockMarker      = ':'
	meaningSeparator = "|"
	idSeparator      = "@@"
	legacyIDMarker   = "␟"
)

// Message is the parsed form of a template used for id computation.
type Message struct {
	// Text interleaves the literal parts with {$NAME} placeholder markers.
	Text             string
	Meaning          string
	Description      string
	CustomID         string
	PlaceholderNames []string
}

// Localize resolves ids the way $localize does: a custom @@id in the
// leading metadata block wins, otherwise the id is the decimal digest of
// the message text and meaning. Placeholder expressions do not take part,
// only their names.
type Localize struct{}

func (Localize) Resolve(parts, placeholders []string) string {
	m := ParseMessage(parts)
	if m.CustomID != "" {
		return m.CustomID
	}
	return ComputeMsgID(m.Text, m.Meaning)
}

// ParseMessage reads the metadata blocks of a template's literal parts.
//
// The first part may open with ":meaning|description@@id:". Every later
// part may open with ":name:" naming the placeholder before it; unnamed
// placeholders are PH, PH_1, PH_2, ...
func ParseMessage(parts []string) Message {
	var m Message
	if len(parts) == 0 {
		return m
	}

	var sb strings.Builder
	block, text, ok := splitBlock(parts[0])
	if ok {
		m.Meaning, m.Description, m.CustomID = parseMetadata(block)
	}
	sb.WriteString(text)

	for i, part := range parts[1:] {
		name := interpolation.MarkerID(i)
		block, text, ok := splitBlock(part)
		if ok {
			if n, _, _ := strings.Cut(block, idSeparator); n != "" {
				name = n
			}
		}
		m.PlaceholderNames = append(m.PlaceholderNames, name)
		sb.WriteString("{$" + name + "}")
		sb.WriteString(text)
	}
	m.Text = sb.String()
	return m
}

// splitBlock separates a leading ":...:" block from the rest of s.
// A backslash escapes the next character inside the block. An unterminated
// block is treated as plain text.
func splitBlock(s string) (block, text string, ok bool) {
	if len(s) == 0 || s[0] != blockMarker {
		return "", s, false
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case blockMarker:
			return s[1:i], s[i+1:], true
		}
	}
	return "", s, false
}

func parseMetadata(block string) (meaning, description, customID string) {
	block, _, _ = strings.Cut(block, legacyIDMarker)
	meaningAndDesc, customID, _ := strings.Cut(block, idSeparator)
	meaning, description, found := strings.Cut(meaningAndDesc, meaningSeparator)
	if !found {
		meaning, description = "", meaningAndDesc
	}
	return meaning, description, customID
}
