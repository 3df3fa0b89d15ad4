package model

import "strings"

// Status is the three-valued classification of a claim or citation
type Status string

const (
	StatusVerified     Status = "VERIFIED"     // Evidence directly supports the complete item
	StatusHallucinated Status = "HALLUCINATED" // Evidence contradicts at least one part
	StatusUnverifiable Status = "UNVERIFIABLE" // Evidence insufficient or ambiguous
)

// MaxReasonLength bounds every verdict reason returned to callers.
const MaxReasonLength = 150

// ParseStatus normalizes a status value received from the reasoning
// oracle. Anything outside the closed three-value set is coerced to
// UNVERIFIABLE rather than rejected.
func ParseStatus(raw string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusVerified:
		return StatusVerified
	case StatusHallucinated:
		return StatusHallucinated
	default:
		return StatusUnverifiable
	}
}

// Verdict is the terminal classification for one claim or citation.
// Errors is populated on the citation path only.
type Verdict struct {
	Status Status   `json:"status"`
	Reason string   `json:"reason"`
	Errors []string `json:"errors,omitempty"`
}

// TruncateReason clips a reason string to MaxReasonLength characters.
// Counted in runes so a multibyte character is never split.
func TruncateReason(reason string) string {
	runes := []rune(reason)
	if len(runes) <= MaxReasonLength {
		return reason
	}
	return string(runes[:MaxReasonLength])
}
