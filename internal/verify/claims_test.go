package verify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/oracle"
)

// fakeOracle scripts responses per temperature; safe for the
// concurrent ensemble
type fakeOracle struct {
	mu        sync.Mutex
	byTemp    map[float32]string
	errByTemp map[float32]error
	response  string
	err       error
	calls     int
}

func (f *fakeOracle) Complete(ctx context.Context, req oracle.CompletionRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err, ok := f.errByTemp[req.Temperature]; ok {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	if resp, ok := f.byTemp[req.Temperature]; ok {
		return resp, nil
	}
	return f.response, nil
}

func (f *fakeOracle) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testPipelineConfig() model.PipelineConfig {
	return model.DefaultConfig().Pipeline
}

func someEvidence() []model.EvidenceItem {
	return []model.EvidenceItem{
		{Title: "Sky color", URL: "https://example.com/sky", Snippet: "The sky appears blue due to Rayleigh scattering."},
	}
}

func TestClaimVerifier_NoEvidenceShortCircuits(t *testing.T) {
	fake := &fakeOracle{response: `{"status": "VERIFIED", "reason": "x"}`}
	verifier := NewClaimVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), "The sky is blue", nil)

	if verdict.Status != model.StatusUnverifiable {
		t.Errorf("expected UNVERIFIABLE, got %s", verdict.Status)
	}
	if verdict.Reason != noEvidenceReason {
		t.Errorf("unexpected reason: %q", verdict.Reason)
	}
	if fake.callCount() != 0 {
		t.Errorf("expected no oracle calls without evidence, got %d", fake.callCount())
	}
}

func TestClaimVerifier_Verified(t *testing.T) {
	fake := &fakeOracle{response: `{"status": "VERIFIED", "reason": "Sources confirm the sky is blue"}`}
	verifier := NewClaimVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), "The sky is blue", someEvidence())

	if verdict.Status != model.StatusVerified {
		t.Errorf("expected VERIFIED, got %s", verdict.Status)
	}
	if verdict.Reason != "Sources confirm the sky is blue" {
		t.Errorf("unexpected reason: %q", verdict.Reason)
	}
}

func TestClaimVerifier_CoercesInvalidStatus(t *testing.T) {
	for _, status := range []string{"MAYBE", "TRUE", "", "partially verified"} {
		fake := &fakeOracle{response: fmt.Sprintf(`{"status": %q, "reason": "r"}`, status)}
		verifier := NewClaimVerifier(fake, testPipelineConfig(), zap.NewNop())

		verdict := verifier.Verify(context.Background(), "claim", someEvidence())
		if verdict.Status != model.StatusUnverifiable {
			t.Errorf("status %q: expected coercion to UNVERIFIABLE, got %s", status, verdict.Status)
		}
	}
}

func TestClaimVerifier_AcceptsLowercaseStatus(t *testing.T) {
	fake := &fakeOracle{response: `{"status": "hallucinated", "reason": "contradicted"}`}
	verifier := NewClaimVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), "claim", someEvidence())
	if verdict.Status != model.StatusHallucinated {
		t.Errorf("expected HALLUCINATED, got %s", verdict.Status)
	}
}

func TestClaimVerifier_TruncatesLongReason(t *testing.T) {
	long := strings.Repeat("because of evidence ", 30)
	fake := &fakeOracle{response: fmt.Sprintf(`{"status": "VERIFIED", "reason": %q}`, long)}
	verifier := NewClaimVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), "claim", someEvidence())
	if len([]rune(verdict.Reason)) > model.MaxReasonLength {
		t.Errorf("reason exceeds %d chars: %d", model.MaxReasonLength, len([]rune(verdict.Reason)))
	}
}

func TestClaimVerifier_OracleFailureDegrades(t *testing.T) {
	fake := &fakeOracle{err: fmt.Errorf("quota exhausted")}
	verifier := NewClaimVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), "claim", someEvidence())
	if verdict.Status != model.StatusUnverifiable {
		t.Errorf("expected UNVERIFIABLE, got %s", verdict.Status)
	}
	if !strings.Contains(verdict.Reason, "quota exhausted") {
		t.Errorf("expected diagnostic reason, got %q", verdict.Reason)
	}
}

func TestClaimVerifier_UnparseableOutputDegrades(t *testing.T) {
	fake := &fakeOracle{response: "The claim seems fine to me."}
	verifier := NewClaimVerifier(fake, testPipelineConfig(), zap.NewNop())

	verdict := verifier.Verify(context.Background(), "claim", someEvidence())
	if verdict.Status != model.StatusUnverifiable {
		t.Errorf("expected UNVERIFIABLE, got %s", verdict.Status)
	}
}
