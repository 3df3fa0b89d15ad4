package search

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
)

// citationPrefixChars is how much of a raw citation goes into the
// exact-match sub-query. Full citations are too long for phrase search.
const citationPrefixChars = 60

// scholarSite scopes the second citation sub-query to an academic index
const scholarSite = "site:scholar.google.com"

// Retriever fans a query across the primary and fallback providers and
// normalizes the outcome: deduplicated, capped, and never an error.
type Retriever struct {
	primary     Provider // nil when no credential is configured
	fallback    Provider
	timeout     time.Duration
	maxResults  int
	citationCap int
	subqueryGap time.Duration
	logger      *zap.Logger
}

// NewRetriever creates a retriever over the given providers. primary
// may be nil, which activates fallback-only mode.
func NewRetriever(primary, fallback Provider, cfg model.SearchConfig, logger *zap.Logger) *Retriever {
	return &Retriever{
		primary:     primary,
		fallback:    fallback,
		timeout:     cfg.Timeout,
		maxResults:  cfg.MaxResults,
		citationCap: cfg.CitationCap,
		subqueryGap: cfg.SubqueryGap,
		logger:      logger,
	}
}

// Search retrieves evidence for a query. Blank queries, provider
// failures and timeouts all degrade to an empty list; the caller never
// sees an error from this layer.
func (r *Retriever) Search(ctx context.Context, query string) []model.EvidenceItem {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	// The whole call shares one hard wall-clock budget; hitting it is
	// indistinguishable from a zero-result response
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	items := r.searchTiered(ctx, query, r.maxResults)
	return model.DedupeEvidence(items)
}

// SearchCitation retrieves targeted academic evidence for a raw
// citation via two differently-scoped sub-queries: an exact-match on a
// truncated prefix, then a query scoped to an academic index.
func (r *Retriever) SearchCitation(ctx context.Context, citationText string) []model.EvidenceItem {
	if strings.TrimSpace(citationText) == "" {
		return nil
	}

	queries := []string{
		`"` + truncate(citationText, citationPrefixChars) + `"`,
		truncate(citationText, citationPrefixChars) + " " + scholarSite,
	}

	var merged []model.EvidenceItem
	for i, query := range queries {
		if i > 0 {
			// Short pause between sub-queries to stay under provider
			// rate limits
			select {
			case <-ctx.Done():
				return model.DedupeEvidence(merged)
			case <-time.After(r.subqueryGap):
			}
		}

		subCtx, cancel := context.WithTimeout(ctx, r.timeout)
		merged = append(merged, r.searchTiered(subCtx, query, r.maxResults)...)
		cancel()
	}

	merged = model.DedupeEvidence(merged)
	if len(merged) > r.citationCap {
		merged = merged[:r.citationCap]
	}

	return merged
}

// searchTiered tries the primary provider, then the fallback. Any
// provider error counts as zero results from that tier.
func (r *Retriever) searchTiered(ctx context.Context, query string, max int) []model.EvidenceItem {
	if r.primary != nil {
		items, err := r.primary.Search(ctx, query, max)
		if err != nil {
			r.logger.Warn("primary search failed",
				zap.String("provider", r.primary.Name()),
				zap.Error(err))
		}
		if len(items) > 0 {
			return items
		}
	}

	items, err := r.fallback.Search(ctx, query, max)
	if err != nil {
		r.logger.Warn("fallback search failed",
			zap.String("provider", r.fallback.Name()),
			zap.Error(err))
		return nil
	}

	return items
}

// truncate clips s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
