package doctext

// Fragment is one text-bearing leaf of a document, located within the
// flattened text. Offsets are rune positions, half-open [Start, End).
type Fragment struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Page  int    `json:"page,omitempty"` // Source page (0 if N/A)
}

// FlatText is the flattened representation of a document: the text-bearing
// leaves in document order, plus the span of each within the whole.
type FlatText struct {
	Title     string     `json:"title"`
	Text      string     `json:"text"`
	Fragments []Fragment `json:"fragments"`
}
