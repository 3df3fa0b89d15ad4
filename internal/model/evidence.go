package model

// EvidenceItem is a single web search hit used as grounding for a
// verdict. Ordering is significant: the first item is the most relevant.
type EvidenceItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// DedupeEvidence removes items with duplicate URLs, keeping the first
// occurrence and preserving order.
func DedupeEvidence(items []EvidenceItem) []EvidenceItem {
	seen := make(map[string]bool, len(items))
	var unique []EvidenceItem
	for _, item := range items {
		if seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		unique = append(unique, item)
	}
	return unique
}
