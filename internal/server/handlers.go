package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
)

// VerificationPipeline is the contract the HTTP layer needs from the
// pipeline; narrowed to an interface so handler tests can fake it.
type VerificationPipeline interface {
	VerifyText(ctx context.Context, text string) ([]model.ClaimResult, error)
	VerifyCitations(ctx context.Context, text string) ([]model.CitationResult, error)
}

// Handler serves the verification endpoints
type Handler struct {
	pipeline     VerificationPipeline
	maxTextChars int
	logger       *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(p VerificationPipeline, cfg model.ServerConfig, logger *zap.Logger) *Handler {
	return &Handler{
		pipeline:     p,
		maxTextChars: cfg.MaxTextChars,
		logger:       logger,
	}
}

type verifyRequest struct {
	Text string `json:"text"`
}

type claimsResponse struct {
	Results []model.ClaimResult `json:"results"`
}

type citationsResponse struct {
	Results []model.CitationResult `json:"results"`
}

// Health is the liveness probe
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Verify handles POST /verify: extract and classify factual claims
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readText(w, r)
	if !ok {
		return
	}

	results, err := h.pipeline.VerifyText(r.Context(), text)
	if err != nil {
		h.logger.Error("claim pipeline failed", zap.Error(err),
			zap.String("request_id", RequestIDFromContext(r.Context())))
		writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}

	writeJSON(w, http.StatusOK, claimsResponse{Results: results})
}

// VerifyCitations handles POST /verify-citations: extract and classify
// academic citations
func (h *Handler) VerifyCitations(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readText(w, r)
	if !ok {
		return
	}

	results, err := h.pipeline.VerifyCitations(r.Context(), text)
	if err != nil {
		h.logger.Error("citation pipeline failed", zap.Error(err),
			zap.String("request_id", RequestIDFromContext(r.Context())))
		writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}

	writeJSON(w, http.StatusOK, citationsResponse{Results: results})
}

// readText decodes and validates the request body. Validation failures
// are written to the client and reported as ok=false; the pipeline is
// never invoked for them.
func (h *Handler) readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text cannot be empty")
		return "", false
	}

	if utf8.RuneCountInString(req.Text) > h.maxTextChars {
		writeError(w, http.StatusBadRequest, "text exceeds maximum length")
		return "", false
	}

	return req.Text, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
