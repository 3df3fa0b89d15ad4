// Package search gathers web evidence for claims and citations. A
// quota-limited primary provider is tried first; a credential-free
// fallback keeps retrieval alive when the primary is absent, broke or
// out of quota. Provider failures never escape this package: they
// degrade to zero results.
package search

import (
	"context"

	"github.com/veridex/veridex/internal/model"
)

// Provider turns a text query into an ordered list of search hits
type Provider interface {
	// Name returns the provider name for logging
	Name() string

	// Search returns up to max hits for the query, most relevant first
	Search(ctx context.Context, query string, max int) ([]model.EvidenceItem, error)
}
