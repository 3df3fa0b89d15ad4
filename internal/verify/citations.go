package verify

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/oracle"
)

// noCitationEvidenceReason mirrors noEvidenceReason for the citation path
const noCitationEvidenceReason = "No search results found to verify this citation"

const citationCheckPrompt = `You are an expert academic citation verifier. Check if the citation details are accurate.

CITATION TO VERIFY:
- Authors: %s
- Year: %s
- Title: %s
- Venue: %s
- Pages: %s

SEARCH RESULTS FROM THE WEB:
%s

VERIFICATION TASK:
Compare the citation details against the search results. Check for:
1. Is the YEAR correct? (Common error: off by 1 year)
2. Is the VENUE correct? (Common error: wrong conference/journal)
3. Are the PAGE NUMBERS correct? (Common error: off by 1 page)
4. Are the AUTHORS correct?
5. Is the TITLE accurate?

RESPOND with ONLY a JSON object:
{
  "status": "VERIFIED|HALLUCINATED|UNVERIFIABLE",
  "errors": ["list of specific errors found, if any"],
  "reason": "Brief explanation under 150 characters"
}

STATUS RULES:
- VERIFIED: All citation details match search results
- HALLUCINATED: One or more details are WRONG (incorrect year, venue, pages, etc.)
- UNVERIFIABLE: Cannot find enough evidence to verify

Return ONLY valid JSON.`

// CitationVerifier performs ensemble classification of one citation:
// the same check runs at several sampling temperatures and the
// verdicts are majority-voted. Hallucinated details that one sample
// misses tend to be caught by another.
type CitationVerifier struct {
	oracle       oracle.Client
	temperatures []float32
	logger       *zap.Logger
}

// NewCitationVerifier creates a new citation verifier
func NewCitationVerifier(client oracle.Client, cfg model.PipelineConfig, logger *zap.Logger) *CitationVerifier {
	temps := cfg.EnsembleTemperatures
	if len(temps) == 0 {
		temps = []float32{0.1, 0.3, 0.5}
	}
	return &CitationVerifier{
		oracle:       client,
		temperatures: temps,
		logger:       logger,
	}
}

// vote is one ensemble member's classification
type vote struct {
	status model.Status
	errors []string
	reason string
}

// citationResponse is the oracle's wire shape for a citation check
type citationResponse struct {
	Status string   `json:"status"`
	Errors []string `json:"errors"`
	Reason string   `json:"reason"`
}

// Verify classifies the citation against the evidence using the
// temperature ensemble. The checks run concurrently over the same
// immutable input and join before aggregation; a single failed check
// degrades to an UNVERIFIABLE vote without aborting the ensemble.
func (v *CitationVerifier) Verify(ctx context.Context, citation model.ExtractedCitation, evidence []model.EvidenceItem) model.Verdict {
	if len(evidence) == 0 {
		return model.Verdict{Status: model.StatusUnverifiable, Errors: []string{}, Reason: noCitationEvidenceReason}
	}

	formatted := FormatEvidence(evidence)

	votes := make([]vote, len(v.temperatures))
	var wg sync.WaitGroup
	for i, temp := range v.temperatures {
		wg.Add(1)
		go func(i int, temp float32) {
			defer wg.Done()
			votes[i] = v.check(ctx, citation, formatted, temp)
		}(i, temp)
	}
	wg.Wait()

	return tally(votes)
}

// check runs one ensemble member at the given temperature
func (v *CitationVerifier) check(ctx context.Context, citation model.ExtractedCitation, formattedEvidence string, temp float32) vote {
	prompt := fmt.Sprintf(citationCheckPrompt,
		model.OrUnknown(citation.Authors),
		model.OrUnknown(citation.Year),
		model.OrUnknown(citation.Title),
		model.OrUnknown(citation.Venue),
		model.OrUnknown(citation.Pages),
		formattedEvidence,
	)

	raw, err := v.oracle.Complete(ctx, oracle.CompletionRequest{
		Prompt:      prompt,
		Temperature: temp,
		MaxTokens:   512,
	})
	if err != nil {
		v.logger.Warn("citation check failed", zap.Float32("temperature", temp), zap.Error(err))
		return vote{
			status: model.StatusUnverifiable,
			reason: model.TruncateReason("Error: " + err.Error()),
		}
	}

	var parsed citationResponse
	if !oracle.DecodeObject(raw, &parsed) {
		return vote{
			status: model.StatusUnverifiable,
			reason: "Error parsing citation check response",
		}
	}

	reason := parsed.Reason
	if reason == "" {
		reason = "Unable to verify"
	}

	return vote{
		status: model.ParseStatus(parsed.Status),
		errors: parsed.Errors,
		reason: model.TruncateReason(reason),
	}
}

// tally aggregates ensemble votes into a single verdict: majority
// status with a first-seen tie-break, unioned error lists, and a
// composite reason stating the agreement level.
func tally(votes []vote) model.Verdict {
	winner, count := majority(votes)

	// Surface the reason from a vote that matches the winning status
	reason := votes[0].reason
	for _, v := range votes {
		if v.status == winner {
			reason = v.reason
			break
		}
	}

	var composite string
	switch {
	case count == len(votes):
		composite = fmt.Sprintf("All %d checks agree: %s", len(votes), reason)
	case count > 1:
		composite = fmt.Sprintf("%d/%d checks agree: %s", count, len(votes), reason)
	default:
		composite = fmt.Sprintf("Checks disagree. %s: %s", winner, reason)
	}

	return model.Verdict{
		Status: winner,
		Errors: unionErrors(votes),
		Reason: model.TruncateReason(composite),
	}
}

// majority returns the most common status and its count. On a full
// split the first-seen status wins: votes are counted in ensemble
// order, so the outcome is deterministic for a given vote sequence.
func majority(votes []vote) (model.Status, int) {
	counts := make(map[model.Status]int, len(votes))
	for _, v := range votes {
		counts[v.status]++
	}

	winner := votes[0].status
	best := 0
	for _, v := range votes {
		if counts[v.status] > best {
			winner = v.status
			best = counts[v.status]
		}
	}

	return winner, best
}

// unionErrors merges all votes' error lists, dropping duplicates
func unionErrors(votes []vote) []string {
	seen := make(map[string]bool)
	unique := []string{}
	for _, v := range votes {
		for _, e := range v.errors {
			if seen[e] {
				continue
			}
			seen[e] = true
			unique = append(unique, e)
		}
	}
	return unique
}
