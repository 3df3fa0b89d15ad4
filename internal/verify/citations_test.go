package verify

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
)

func testCitation() model.ExtractedCitation {
	return model.ExtractedCitation{
		RawText: "He, K., et al. (2016). Deep residual learning. CVPR, 770-778.",
		Authors: "He, K., Zhang, X., Ren, S., & Sun, J.",
		Year:    "2016",
		Title:   "Deep residual learning for image recognition",
		Venue:   "CVPR",
		Pages:   "770-778",
	}
}

func citationCheck(status, reason string, errors ...string) string {
	quoted := make([]string, len(errors))
	for i, e := range errors {
		quoted[i] = fmt.Sprintf("%q", e)
	}
	return fmt.Sprintf(`{"status": %q, "errors": [%s], "reason": %q}`,
		status, strings.Join(quoted, ","), reason)
}

func TestCitationVerifier_NoEvidenceShortCircuits(t *testing.T) {
	fake := &fakeOracle{response: citationCheck("VERIFIED", "x")}
	verifier := NewCitationVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), testCitation(), nil)

	if verdict.Status != model.StatusUnverifiable {
		t.Errorf("expected UNVERIFIABLE, got %s", verdict.Status)
	}
	if fake.callCount() != 0 {
		t.Errorf("expected no oracle calls without evidence, got %d", fake.callCount())
	}
}

func TestCitationVerifier_UnanimousVote(t *testing.T) {
	fake := &fakeOracle{response: citationCheck("VERIFIED", "All details match")}
	verifier := NewCitationVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), testCitation(), someEvidence())

	if verdict.Status != model.StatusVerified {
		t.Errorf("expected VERIFIED, got %s", verdict.Status)
	}
	if !strings.HasPrefix(verdict.Reason, "All 3 checks agree:") {
		t.Errorf("unexpected reason: %q", verdict.Reason)
	}
	if fake.callCount() != 3 {
		t.Errorf("expected 3 ensemble calls, got %d", fake.callCount())
	}
}

func TestCitationVerifier_MajorityVote(t *testing.T) {
	fake := &fakeOracle{byTemp: map[float32]string{
		0.1: citationCheck("VERIFIED", "Year and venue match"),
		0.3: citationCheck("VERIFIED", "Details check out"),
		0.5: citationCheck("HALLUCINATED", "Pages look wrong", "pages off by one"),
	}}
	verifier := NewCitationVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), testCitation(), someEvidence())

	if verdict.Status != model.StatusVerified {
		t.Errorf("expected VERIFIED, got %s", verdict.Status)
	}
	if !strings.HasPrefix(verdict.Reason, "2/3 checks agree:") {
		t.Errorf("unexpected reason: %q", verdict.Reason)
	}
	// The dissenter's errors are still surfaced
	if len(verdict.Errors) != 1 || verdict.Errors[0] != "pages off by one" {
		t.Errorf("unexpected errors: %v", verdict.Errors)
	}
}

func TestCitationVerifier_FullSplitResolvesFirstSeen(t *testing.T) {
	fake := &fakeOracle{byTemp: map[float32]string{
		0.1: citationCheck("VERIFIED", "matches"),
		0.3: citationCheck("HALLUCINATED", "wrong year", "year is 2015"),
		0.5: citationCheck("UNVERIFIABLE", "cannot tell"),
	}}
	verifier := NewCitationVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), testCitation(), someEvidence())

	// First-seen tie-break: votes are counted in temperature order, so
	// the 0.1 vote wins a 1-1-1 split
	if verdict.Status != model.StatusVerified {
		t.Errorf("expected VERIFIED on full split, got %s", verdict.Status)
	}
	if !strings.HasPrefix(verdict.Reason, "Checks disagree.") {
		t.Errorf("unexpected reason: %q", verdict.Reason)
	}
	if !strings.Contains(verdict.Reason, "VERIFIED") {
		t.Errorf("expected winning status in reason, got %q", verdict.Reason)
	}
}

func TestCitationVerifier_SingleVoterFailureDoesNotAbort(t *testing.T) {
	fake := &fakeOracle{
		byTemp: map[float32]string{
			0.1: citationCheck("HALLUCINATED", "venue is wrong", "venue should be ICCV"),
			0.3: citationCheck("HALLUCINATED", "venue mismatch", "venue should be ICCV"),
		},
		errByTemp: map[float32]error{
			0.5: fmt.Errorf("rate limit"),
		},
	}
	verifier := NewCitationVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), testCitation(), someEvidence())

	if verdict.Status != model.StatusHallucinated {
		t.Errorf("expected HALLUCINATED, got %s", verdict.Status)
	}
	if !strings.HasPrefix(verdict.Reason, "2/3 checks agree:") {
		t.Errorf("unexpected reason: %q", verdict.Reason)
	}
	// Duplicate errors across voters collapse to one
	if len(verdict.Errors) != 1 {
		t.Errorf("expected deduplicated errors, got %v", verdict.Errors)
	}
}

func TestCitationVerifier_AllVotersFailing(t *testing.T) {
	fake := &fakeOracle{err: fmt.Errorf("upstream down")}
	verifier := NewCitationVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), testCitation(), someEvidence())

	if verdict.Status != model.StatusUnverifiable {
		t.Errorf("expected UNVERIFIABLE, got %s", verdict.Status)
	}
	if !strings.HasPrefix(verdict.Reason, "All 3 checks agree:") {
		t.Errorf("unexpected reason: %q", verdict.Reason)
	}
}

func TestCitationVerifier_ReasonWithinLimit(t *testing.T) {
	long := strings.Repeat("mismatch ", 40)
	fake := &fakeOracle{response: citationCheck("HALLUCINATED", long)}
	verifier := NewCitationVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), testCitation(), someEvidence())
	if len([]rune(verdict.Reason)) > model.MaxReasonLength {
		t.Errorf("reason exceeds %d chars: %d", model.MaxReasonLength, len([]rune(verdict.Reason)))
	}
}
