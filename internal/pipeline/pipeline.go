// Package pipeline orchestrates the verification flow: extraction,
// per-item evidence retrieval and classification, and result assembly.
// Items are processed strictly sequentially with explicit pacing
// between oracle calls; the pacing is deliberate backpressure against
// upstream rate limits, not an incidental limitation.
package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/veridex/veridex/internal/extract"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/oracle"
	"github.com/veridex/veridex/internal/search"
	"github.com/veridex/veridex/internal/verify"
)

// Pipeline wires the extractors, retriever and verifiers together. It
// holds no per-request state; one Pipeline serves concurrent requests.
type Pipeline struct {
	claimExtractor    *extract.ClaimExtractor
	citationExtractor *extract.CitationExtractor
	retriever         *search.Retriever
	claimVerifier     *verify.ClaimVerifier
	citationVerifier  *verify.CitationVerifier
	cfg               model.PipelineConfig
	logger            *zap.Logger
}

// NewPipeline creates a pipeline over the given oracle client and
// retriever. The oracle is injected rather than constructed here so
// tests can substitute a fake.
func NewPipeline(client oracle.Client, retriever *search.Retriever, cfg *model.Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		claimExtractor:    extract.NewClaimExtractor(client, cfg.Pipeline, logger),
		citationExtractor: extract.NewCitationExtractor(client, cfg.Pipeline, logger),
		retriever:         retriever,
		claimVerifier:     verify.NewClaimVerifier(client, cfg.Pipeline, logger),
		citationVerifier:  verify.NewCitationVerifier(client, cfg.Pipeline, logger),
		cfg:               cfg.Pipeline,
		logger:            logger,
	}
}

// VerifyText runs the claim pipeline: extract claims, then for each
// claim in order retrieve evidence and classify it. Empty extraction
// short-circuits without any retrieval or verification calls. The only
// error returned is context cancellation.
func (p *Pipeline) VerifyText(ctx context.Context, text string) ([]model.ClaimResult, error) {
	claims := p.claimExtractor.Extract(ctx, text)
	if len(claims) == 0 {
		return []model.ClaimResult{}, nil
	}

	// Burst 1: the first item proceeds immediately, every subsequent
	// item waits out the pacing interval
	pacer := rate.NewLimiter(rate.Every(p.cfg.ClaimPacing), 1)

	results := make([]model.ClaimResult, 0, len(claims))
	for _, claim := range claims {
		if err := pacer.Wait(ctx); err != nil {
			return nil, err
		}

		evidence := p.retriever.Search(ctx, claim.Text)
		verdict := p.claimVerifier.Verify(ctx, claim.Text, evidence)

		results = append(results, model.ClaimResult{
			Claim:     claim.Text,
			StartChar: claim.StartOffset,
			EndChar:   claim.EndOffset,
			Status:    verdict.Status,
			Reason:    verdict.Reason,
			Sources:   sources(evidence),
		})
	}

	return results, nil
}

// VerifyCitations runs the citation pipeline: extract citations, then
// for each one retrieve targeted academic evidence and classify it
// with the ensemble. An internal failure on one item is contained to
// that item's row; siblings are unaffected.
func (p *Pipeline) VerifyCitations(ctx context.Context, text string) ([]model.CitationResult, error) {
	citations := p.citationExtractor.Extract(ctx, text)
	if len(citations) == 0 {
		return []model.CitationResult{}, nil
	}

	pacer := rate.NewLimiter(rate.Every(p.cfg.CitationPacing), 1)

	results := make([]model.CitationResult, 0, len(citations))
	for _, citation := range citations {
		if err := pacer.Wait(ctx); err != nil {
			return nil, err
		}

		results = append(results, p.processCitation(ctx, citation))
	}

	return results, nil
}

// processCitation handles one citation end to end, converting a panic
// anywhere in retrieval or verification into an UNVERIFIABLE row.
func (p *Pipeline) processCitation(ctx context.Context, citation model.ExtractedCitation) (result model.CitationResult) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("citation processing panicked",
				zap.String("citation", citation.RawText),
				zap.Any("panic", r))
			result = model.CitationResult{
				RawCitation: citation.RawText,
				Authors:     citation.Authors,
				Year:        citation.Year,
				Title:       citation.Title,
				Venue:       citation.Venue,
				Pages:       citation.Pages,
				Status:      model.StatusUnverifiable,
				Errors:      []string{},
				Reason:      "Internal error during citation verification",
				Sources:     []model.EvidenceItem{},
			}
		}
	}()

	evidence := p.retriever.SearchCitation(ctx, citationQuery(citation))
	verdict := p.citationVerifier.Verify(ctx, citation, evidence)

	return model.CitationResult{
		RawCitation: citation.RawText,
		Authors:     citation.Authors,
		Year:        citation.Year,
		Title:       citation.Title,
		Venue:       citation.Venue,
		Pages:       citation.Pages,
		Status:      verdict.Status,
		Errors:      verdict.Errors,
		Reason:      verdict.Reason,
		Sources:     sources(evidence),
	}
}

// citationQuery builds the composite search query for a citation from
// its structured fields, falling back to the raw text when none parsed
func citationQuery(citation model.ExtractedCitation) string {
	var parts []string
	for _, field := range []string{citation.Authors, citation.Year, citation.Title} {
		if field != "" {
			parts = append(parts, field)
		}
	}
	if len(parts) == 0 {
		return citation.RawText
	}
	return strings.Join(parts, " ")
}

// sources normalizes a possibly-nil evidence list for JSON rendering
func sources(evidence []model.EvidenceItem) []model.EvidenceItem {
	if evidence == nil {
		return []model.EvidenceItem{}
	}
	return evidence
}
