package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"localize-collector/internal/parser"
)

// WriteJSON writes fragments as an indented JSON array.
func WriteJSON(w io.Writer, fragments []parser.Fragment) error {
	if fragments == nil {
		fragments = []parser.Fragment{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(fragments); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// WriteTSV writes one fragment per line: id, file, line, source and the
// placeholder expressions joined with " | ".
func WriteTSV(w io.Writer, fragments []parser.Fragment) error {
	if _, err := fmt.Fprintln(w, "id\tfile\tline\tsource\tplaceholders"); err != nil {
		return fmt.Errorf("write TSV header: %w", err)
	}

	for _, f := range fragments {
		_, err := fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			f.ID,
			escapeTSV(f.File),
			f.Line,
			escapeTSV(f.Source),
			escapeTSV(strings.Join(f.Placeholders, " | ")),
		)
		if err != nil {
			return fmt.Errorf("write TSV row: %w", err)
		}
	}
	return nil
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}
