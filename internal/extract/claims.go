// Package extract segments free text into verifiable units: factual
// claims anchored to source offsets, and structured bibliographic
// citations. Both extractors prompt the reasoning oracle at low
// temperature and fail soft: any oracle or parse failure yields an
// empty list, never an error.
package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/oracle"
)

const claimPrompt = `You are a claim extraction assistant. Extract COMPLETE factual statements that can be verified or disproven.

EXTRACT COMPLETE CLAIMS, NOT INDIVIDUAL ENTITIES!

Examples of GOOD claims:
- "Albert Einstein discovered penicillin in 1928" (complete action with subject + verb + object + time)
- "Elon Musk founded Google in 1998" (complete statement about who did what when)
- "The Eiffel Tower was completed in 1889" (complete statement about an event)
- "Python was created by Guido van Rossum" (complete attribution statement)

Examples of BAD claims (DO NOT extract these):
- "Albert Einstein" (just a name, not a claim)
- "1928" (just a date, not a claim)
- "NASA" (just an organization name, not a claim)
- "discovered penicillin" (incomplete, missing subject)

RULES:
1. Extract COMPLETE sentences or clauses that make verifiable factual assertions
2. Each claim must have a subject, verb, and assertion (who/what did/is what)
3. Include relevant context (when, where, how) in the claim
4. Claims should be specific enough to verify against sources
5. Maximum %d claims
6. Do NOT extract individual names, dates, or entities by themselves
7. Do NOT extract questions, commands, or opinions

TEXT TO ANALYZE:
%s

Return a JSON array with objects containing: "claim", "start_char", "end_char"
The claim text should be the COMPLETE factual statement from the original text.

Return ONLY valid JSON array, no other text.`

// ClaimExtractor segments text into independently verifiable claims
type ClaimExtractor struct {
	oracle      oracle.Client
	temperature float32
	maxClaims   int
	logger      *zap.Logger
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(client oracle.Client, cfg model.PipelineConfig, logger *zap.Logger) *ClaimExtractor {
	return &ClaimExtractor{
		oracle:      client,
		temperature: cfg.ExtractTemperature,
		maxClaims:   cfg.MaxClaims,
		logger:      logger,
	}
}

// rawClaim is the oracle's wire shape for one extracted claim
type rawClaim struct {
	Claim     string `json:"claim"`
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
}

// Extract returns at most the configured number of claims found in
// text, each anchored to its source span where possible. Oracle and
// parse failures return an empty list.
func (e *ClaimExtractor) Extract(ctx context.Context, text string) []model.ExtractedClaim {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw, err := e.oracle.Complete(ctx, oracle.CompletionRequest{
		Prompt:      fmt.Sprintf(claimPrompt, e.maxClaims, text),
		Temperature: e.temperature,
		MaxTokens:   1024,
	})
	if err != nil {
		e.logger.Warn("claim extraction failed", zap.Error(err))
		return nil
	}

	var candidates []rawClaim
	if !oracle.DecodeArray(raw, &candidates) {
		e.logger.Warn("claim extraction returned unparseable output")
		return nil
	}

	if len(candidates) > e.maxClaims {
		candidates = candidates[:e.maxClaims]
	}

	var claims []model.ExtractedClaim
	for _, c := range candidates {
		if strings.TrimSpace(c.Claim) == "" {
			continue
		}
		claims = append(claims, anchorClaim(text, c))
	}

	return claims
}

// anchorClaim resolves a claim's offsets against the source text. The
// oracle's reported offsets are kept only if they match exactly;
// otherwise the claim is located by substring search, and a claim that
// cannot be found verbatim keeps the unknown sentinel rather than
// being dropped.
func anchorClaim(text string, c rawClaim) model.ExtractedClaim {
	if spanMatches(text, c.StartChar, c.EndChar, c.Claim) {
		return model.ExtractedClaim{Text: c.Claim, StartOffset: c.StartChar, EndOffset: c.EndChar}
	}

	if idx := strings.Index(text, c.Claim); idx != -1 {
		return model.ExtractedClaim{Text: c.Claim, StartOffset: idx, EndOffset: idx + len(c.Claim)}
	}

	return model.ExtractedClaim{
		Text:        c.Claim,
		StartOffset: model.UnknownOffset,
		EndOffset:   model.UnknownOffset,
	}
}

func spanMatches(text string, start, end int, claim string) bool {
	if start < 0 || end > len(text) || start >= end {
		return false
	}
	return text[start:end] == claim
}
