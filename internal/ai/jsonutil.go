package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	// jsonObjectPattern matches the outermost JSON object in a response.
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	// trailingCommaPattern matches trailing commas before ] or }.
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// StripCodeFence removes a surrounding markdown code fence (```json ... ``` or ``` ... ```).
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// decodeJSON parses an engine response into T. The top level must be a JSON
// object. It strips code fences and, if the text is not valid JSON as a whole,
// retries with the embedded object minus trailing commas.
func decodeJSON[T any](raw string) (T, error) {
	var out T
	text := StripCodeFence(raw)
	if text == "" {
		return out, ErrEmptyResponse
	}

	err := ErrNotObject
	if strings.HasPrefix(text, "{") {
		if err = json.Unmarshal([]byte(text), &out); err == nil {
			return out, nil
		}
	}

	obj := jsonObjectPattern.FindString(text)
	if obj == "" {
		return out, err
	}
	var retry T
	if json.Unmarshal([]byte(trailingCommaPattern.ReplaceAllString(obj, "$1")), &retry) != nil {
		return out, err
	}
	return retry, nil
}
