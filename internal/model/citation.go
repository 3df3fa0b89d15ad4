package model

// ExtractedCitation is a structured bibliographic reference found in the
// input text. All fields except RawText are best-effort: empty when the
// source does not carry them.
type ExtractedCitation struct {
	RawText string `json:"raw_text"`          // The citation exactly as written
	Authors string `json:"authors,omitempty"` // e.g. "He, K., Zhang, X., Ren, S., & Sun, J."
	Year    string `json:"year,omitempty"`    // 4-digit publication year
	Title   string `json:"title,omitempty"`
	Venue   string `json:"venue,omitempty"` // Journal, conference or publisher
	Pages   string `json:"pages,omitempty"` // e.g. "770-778"
}

// OrUnknown returns the given citation field, or "Unknown" when absent.
// Prompts render missing fields this way rather than as empty strings.
func OrUnknown(field string) string {
	if field == "" {
		return "Unknown"
	}
	return field
}

// CitationResult is one row of a /verify-citations response
type CitationResult struct {
	RawCitation string         `json:"raw_citation"`
	Authors     string         `json:"authors,omitempty"`
	Year        string         `json:"year,omitempty"`
	Title       string         `json:"title,omitempty"`
	Venue       string         `json:"venue,omitempty"`
	Pages       string         `json:"pages,omitempty"`
	Status      Status         `json:"status"`
	Errors      []string       `json:"errors"`
	Reason      string         `json:"reason"`
	Sources     []EvidenceItem `json:"sources"`
}
