package oracle

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Models wrap their JSON payloads in prose more often than not. The
// greedy match grabs the widest {...} or [...] span so nested
// structures survive; parsing the whole trimmed output is the fallback
// for well-behaved responses.
var (
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	arrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

// DecodeObject extracts and unmarshals the first JSON object embedded
// in raw model output. Returns false when no parseable object exists;
// a malformed payload is an absent result, not a failure.
func DecodeObject(raw string, v any) bool {
	return decode(raw, objectPattern, v)
}

// DecodeArray extracts and unmarshals the first JSON array embedded in
// raw model output. Same absent-on-malformed contract as DecodeObject.
func DecodeArray(raw string, v any) bool {
	return decode(raw, arrayPattern, v)
}

func decode(raw string, pattern *regexp.Regexp, v any) bool {
	trimmed := strings.TrimSpace(raw)

	if span := pattern.FindString(trimmed); span != "" {
		if json.Unmarshal([]byte(span), v) == nil {
			return true
		}
	}

	return json.Unmarshal([]byte(trimmed), v) == nil
}
