package parser

// Fragment is one tagged-template translation call found in a source file.
type Fragment struct {
	// ID is the message id, assigned by the extraction driver.
	ID string `json:"id"`
	// File is the slash-separated path relative to the scan root.
	File string `json:"file"`
	// Line is the 1-based line of the call marker.
	Line int `json:"line"`
	// Source is Parts joined with no separator.
	Source string `json:"source"`
	// Parts are the literal segments around placeholders.
	Parts []string `json:"parts"`
	// Placeholders holds the expression of each ${...} site;
	// Placeholders[i] sits between Parts[i] and Parts[i+1].
	Placeholders []string `json:"placeholders"`
}
