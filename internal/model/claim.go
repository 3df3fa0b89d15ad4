package model

// UnknownOffset is the sentinel used when a claim's text cannot be
// located verbatim in the source it was extracted from.
const UnknownOffset = -1

// ExtractedClaim is a complete factual assertion found in the input text
type ExtractedClaim struct {
	Text        string `json:"text"`         // The claim exactly as asserted
	StartOffset int    `json:"start_offset"` // Byte offset of Text in the source, or UnknownOffset
	EndOffset   int    `json:"end_offset"`   // Byte offset one past the claim, or UnknownOffset
}

// Anchored reports whether the claim was located verbatim in its source.
func (c ExtractedClaim) Anchored() bool {
	return c.StartOffset != UnknownOffset && c.EndOffset != UnknownOffset
}

// ClaimResult is one row of a /verify response: the claim, its verdict,
// and the evidence it was judged against
type ClaimResult struct {
	Claim     string         `json:"claim"`
	StartChar int            `json:"start_char"`
	EndChar   int            `json:"end_char"`
	Status    Status         `json:"status"`
	Reason    string         `json:"reason"`
	Sources   []EvidenceItem `json:"sources"`
}
