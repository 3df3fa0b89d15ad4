package extract

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/oracle"
)

// fakeOracle returns scripted responses in order and counts calls
type fakeOracle struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeOracle) Complete(ctx context.Context, req oracle.CompletionRequest) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func testPipelineConfig() model.PipelineConfig {
	return model.DefaultConfig().Pipeline
}

func TestClaimExtractor_AnchorsOffsets(t *testing.T) {
	text := "The sky is blue. Water boils at 100 degrees."
	fake := &fakeOracle{responses: []string{
		`[{"claim": "The sky is blue", "start_char": 0, "end_char": 15},
		  {"claim": "Water boils at 100 degrees", "start_char": 99, "end_char": 120}]`,
	}}

	extractor := NewClaimExtractor(fake, testPipelineConfig(), zap.NewNop())
	claims := extractor.Extract(context.Background(), text)

	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}

	// Exact offsets from the oracle are kept
	if claims[0].StartOffset != 0 || claims[0].EndOffset != 15 {
		t.Errorf("unexpected offsets for first claim: %d..%d", claims[0].StartOffset, claims[0].EndOffset)
	}

	// Wrong offsets are re-anchored by substring search
	if claims[1].StartOffset != 17 || claims[1].EndOffset != 17+len("Water boils at 100 degrees") {
		t.Errorf("expected relocated offsets, got %d..%d", claims[1].StartOffset, claims[1].EndOffset)
	}

	// The invariant: resolvable offsets slice back to the claim text
	for _, c := range claims {
		if !c.Anchored() {
			continue
		}
		if text[c.StartOffset:c.EndOffset] != c.Text {
			t.Errorf("offset invariant violated for %q", c.Text)
		}
	}
}

func TestClaimExtractor_UnlocatableClaimKeepsSentinel(t *testing.T) {
	fake := &fakeOracle{responses: []string{
		`[{"claim": "I love coding", "start_char": 0, "end_char": 13}]`,
	}}

	extractor := NewClaimExtractor(fake, testPipelineConfig(), zap.NewNop())
	claims := extractor.Extract(context.Background(), "I ❤️ coding.")

	// The oracle normalized the emoji; the claim cannot be located but
	// must still be returned with sentinel offsets
	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(claims))
	}
	if claims[0].Anchored() {
		t.Errorf("expected sentinel offsets, got %d..%d", claims[0].StartOffset, claims[0].EndOffset)
	}
	if claims[0].StartOffset != model.UnknownOffset || claims[0].EndOffset != model.UnknownOffset {
		t.Errorf("expected (-1, -1), got (%d, %d)", claims[0].StartOffset, claims[0].EndOffset)
	}
}

func TestClaimExtractor_CapsAtMaxClaims(t *testing.T) {
	payload := "["
	for i := 0; i < 8; i++ {
		if i > 0 {
			payload += ","
		}
		payload += fmt.Sprintf(`{"claim": "claim number %d", "start_char": -1, "end_char": -1}`, i)
	}
	payload += "]"

	fake := &fakeOracle{responses: []string{payload}}
	extractor := NewClaimExtractor(fake, testPipelineConfig(), zap.NewNop())

	claims := extractor.Extract(context.Background(), "some text with many claims")
	if len(claims) > 5 {
		t.Errorf("expected at most 5 claims, got %d", len(claims))
	}
}

func TestClaimExtractor_EmptyInputSkipsOracle(t *testing.T) {
	fake := &fakeOracle{responses: []string{"[]"}}
	extractor := NewClaimExtractor(fake, testPipelineConfig(), zap.NewNop())

	for _, input := range []string{"", "   ", "\n\t"} {
		claims := extractor.Extract(context.Background(), input)
		if len(claims) != 0 {
			t.Errorf("expected no claims for input %q", input)
		}
	}
	if fake.calls != 0 {
		t.Errorf("expected no oracle calls for blank input, got %d", fake.calls)
	}
}

func TestClaimExtractor_FailsSoft(t *testing.T) {
	errFake := &fakeOracle{err: fmt.Errorf("rate limit")}
	extractor := NewClaimExtractor(errFake, testPipelineConfig(), zap.NewNop())
	if claims := extractor.Extract(context.Background(), "The sky is blue."); claims != nil {
		t.Errorf("expected nil on oracle failure, got %+v", claims)
	}

	proseFake := &fakeOracle{responses: []string{"I cannot find any claims here."}}
	extractor = NewClaimExtractor(proseFake, testPipelineConfig(), zap.NewNop())
	if claims := extractor.Extract(context.Background(), "The sky is blue."); claims != nil {
		t.Errorf("expected nil on unparseable output, got %+v", claims)
	}
}
