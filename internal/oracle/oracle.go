// Package oracle wraps the external generative model that both
// extraction and verification prompt against. The client is a thin
// transport: it sends one fully-rendered prompt and returns the raw
// text output. It never retries and never interprets failures; callers
// own recovery.
package oracle

import "context"

// CompletionRequest is one structured-output request to the oracle
type CompletionRequest struct {
	// Prompt is the fully-rendered natural-language prompt
	Prompt string

	// Temperature controls sampling diversity (0.1 for extraction,
	// varied across the citation ensemble)
	Temperature float32

	// MaxTokens bounds the response length
	MaxTokens int
}

// Client issues completion requests to a reasoning oracle
type Client interface {
	// Complete returns the raw model output for the request. Network,
	// quota and malformed-response failures propagate as errors.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
