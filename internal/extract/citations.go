package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/oracle"
)

const citationPrompt = `You are an expert at parsing academic citations. Extract citation details from the given text.

TEXT:
%s

Extract ALL citations found and return a JSON array. For each citation, extract:
- raw_citation: The exact citation text as it appears
- authors: Full author list as written (e.g., "He, K., Zhang, X., Ren, S., & Sun, J.")
- year: Publication year (4 digits as string)
- title: Paper/article title
- venue: Journal name, conference name, or publisher (e.g., "CVPR", "Nature", "IEEE")
- pages: Page range if present (e.g., "770-778")

Return ONLY a valid JSON array like this:
[
  {
    "raw_citation": "He, K., et al. (2016). Deep residual learning...",
    "authors": "He, K., Zhang, X., Ren, S., & Sun, J.",
    "year": "2016",
    "title": "Deep residual learning for image recognition",
    "venue": "CVPR",
    "pages": "770-778"
  }
]

If a field is not present in the text, use "Unknown".
If no citations found, return: []
Return ONLY valid JSON, no other text.`

// CitationExtractor segments text into structured bibliographic records
type CitationExtractor struct {
	oracle       oracle.Client
	temperature  float32
	maxCitations int
	logger       *zap.Logger
}

// NewCitationExtractor creates a new citation extractor
func NewCitationExtractor(client oracle.Client, cfg model.PipelineConfig, logger *zap.Logger) *CitationExtractor {
	return &CitationExtractor{
		oracle:       client,
		temperature:  cfg.ExtractTemperature,
		maxCitations: cfg.MaxCitations,
		logger:       logger,
	}
}

// rawCitation is the oracle's wire shape for one extracted citation
type rawCitation struct {
	RawCitation string `json:"raw_citation"`
	Authors     string `json:"authors"`
	Year        string `json:"year"`
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	Pages       string `json:"pages"`
}

// Extract returns the citations found in text. No offset anchoring is
// attempted; citation identity is the raw text itself. Oracle and
// parse failures return an empty list.
func (e *CitationExtractor) Extract(ctx context.Context, text string) []model.ExtractedCitation {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw, err := e.oracle.Complete(ctx, oracle.CompletionRequest{
		Prompt:      fmt.Sprintf(citationPrompt, text),
		Temperature: e.temperature,
		MaxTokens:   1024,
	})
	if err != nil {
		e.logger.Warn("citation extraction failed", zap.Error(err))
		return nil
	}

	var candidates []rawCitation
	if !oracle.DecodeArray(raw, &candidates) {
		e.logger.Warn("citation extraction returned unparseable output")
		return nil
	}

	if len(candidates) > e.maxCitations {
		candidates = candidates[:e.maxCitations]
	}

	var citations []model.ExtractedCitation
	for _, c := range candidates {
		if strings.TrimSpace(c.RawCitation) == "" {
			continue
		}
		citations = append(citations, model.ExtractedCitation{
			RawText: c.RawCitation,
			Authors: normalizeField(c.Authors),
			Year:    normalizeField(c.Year),
			Title:   normalizeField(c.Title),
			Venue:   normalizeField(c.Venue),
			Pages:   normalizeField(c.Pages),
		})
	}

	return citations
}

// normalizeField maps the oracle's "Unknown" placeholder to the empty
// string so absence is represented one way throughout the pipeline.
func normalizeField(v string) string {
	trimmed := strings.TrimSpace(v)
	if strings.EqualFold(trimmed, "Unknown") {
		return ""
	}
	return trimmed
}
