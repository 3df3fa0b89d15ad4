// Package verify classifies claims and citations against retrieved
// evidence. Every verification operation is total: upstream failures
// fold into an UNVERIFIABLE verdict instead of surfacing as errors.
package verify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/oracle"
)

// noEvidenceReason is the fixed reason used when retrieval came back
// empty; no oracle call is spent on these.
const noEvidenceReason = "No search results found to verify this claim"

const factCheckPrompt = `You are a rigorous fact-checking assistant. Analyze whether the ENTIRE claim is supported by search results.

CLAIM TO VERIFY:
%s

SEARCH RESULTS:
%s

VERIFICATION RULES:
1. VERIFIED - The search results CLEARLY and DIRECTLY support the COMPLETE claim
   - All parts of the claim must be confirmed (subject, action, object, time, place, etc.)
   - Example: "Einstein discovered penicillin" requires proof Einstein discovered it (not just that Einstein existed)

2. HALLUCINATED - The search results CONTRADICT the claim OR show it's factually wrong
   - Any part of the claim that is proven false makes the whole claim HALLUCINATED
   - Example: If claim says "X did Y" but sources say "Z did Y", mark as HALLUCINATED

3. UNVERIFIABLE - Not enough evidence in search results to confirm or deny
   - Sources don't mention the specific claim at all
   - Sources are ambiguous or inconclusive

CRITICAL: Verify the COMPLETE STATEMENT, not just that entities exist!
- "Einstein discovered penicillin" is HALLUCINATED even though Einstein existed
- "Musk founded Google" is HALLUCINATED even though both Musk and Google exist

Respond with ONLY a JSON object in this exact format:
{"status": "VERIFIED|HALLUCINATED|UNVERIFIABLE", "reason": "Brief explanation under 150 characters"}

IMPORTANT:
- status MUST be exactly one of: VERIFIED, HALLUCINATED, UNVERIFIABLE
- reason MUST be under 150 characters explaining why
- Return ONLY valid JSON, no other text`

// ClaimVerifier performs single-pass classification of one claim
// against its evidence
type ClaimVerifier struct {
	oracle      oracle.Client
	temperature float32
	logger      *zap.Logger
}

// NewClaimVerifier creates a new claim verifier
func NewClaimVerifier(client oracle.Client, cfg model.PipelineConfig, logger *zap.Logger) *ClaimVerifier {
	return &ClaimVerifier{
		oracle:      client,
		temperature: cfg.ExtractTemperature,
		logger:      logger,
	}
}

// checkResponse is the oracle's wire shape for a classification
type checkResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Verify classifies the claim against the evidence. The returned
// verdict always carries a status from the closed three-value set.
func (v *ClaimVerifier) Verify(ctx context.Context, claimText string, evidence []model.EvidenceItem) model.Verdict {
	if len(evidence) == 0 {
		return model.Verdict{Status: model.StatusUnverifiable, Reason: noEvidenceReason}
	}

	raw, err := v.oracle.Complete(ctx, oracle.CompletionRequest{
		Prompt:      fmt.Sprintf(factCheckPrompt, claimText, FormatEvidence(evidence)),
		Temperature: v.temperature,
		MaxTokens:   256,
	})
	if err != nil {
		v.logger.Warn("claim verification failed", zap.Error(err))
		return model.Verdict{
			Status: model.StatusUnverifiable,
			Reason: model.TruncateReason("Error during verification: " + err.Error()),
		}
	}

	var parsed checkResponse
	if !oracle.DecodeObject(raw, &parsed) {
		return model.Verdict{
			Status: model.StatusUnverifiable,
			Reason: "Error parsing fact-check response",
		}
	}

	reason := parsed.Reason
	if reason == "" {
		reason = "Unable to determine verification status"
	}

	return model.Verdict{
		Status: model.ParseStatus(parsed.Status),
		Reason: model.TruncateReason(reason),
	}
}

// FormatEvidence renders evidence items as prompt bullet lines
func FormatEvidence(evidence []model.EvidenceItem) string {
	lines := make([]string, 0, len(evidence))
	for _, item := range evidence {
		lines = append(lines, fmt.Sprintf("- %s: %s", item.Title, item.Snippet))
	}
	return strings.Join(lines, "\n")
}
