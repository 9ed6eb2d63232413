package ai

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrEmptyResponse is returned when the engine answered with no text.
var ErrEmptyResponse = errors.New("AI returned empty response")

// ErrNotObject is returned when the response holds no top level JSON object.
var ErrNotObject = errors.New("AI response is not a JSON object")

// ErrNoScores is returned when a comparison scores no vendor.
var ErrNoScores = errors.New("AI comparison contains no vendor scores")

// quotaMarkers are substrings of provider errors caused by rate or usage limits.
var quotaMarkers = []string{
	"429",
	"quota",
	"rate limit",
	"rate_limit",
	"ratelimit",
	"resource_exhausted",
	"resource exhausted",
	"too many requests",
}

// IsQuotaMessage reports whether an error text points at a rate or usage limit.
func IsQuotaMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range quotaMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// IsQuotaError reports whether err was caused by a rate or usage limit.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBudgetExhausted) {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	return IsQuotaMessage(err.Error())
}
