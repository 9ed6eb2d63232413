package ai

// Outcome tags a ParseResult.
type Outcome int

const (
	// OutcomeOK means the engine answered and the answer parsed.
	OutcomeOK Outcome = iota
	// OutcomeMalformed means the engine answered with text that did not parse.
	OutcomeMalformed
	// OutcomeEngineError means the engine call itself failed.
	OutcomeEngineError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeEngineError:
		return "engine_error"
	}
	return "unknown"
}

// ParseResult is the result of a structured extraction.
// Value holds the parsed value on success and the documented fallback otherwise.
type ParseResult[T any] struct {
	Outcome Outcome
	Value   T
	Raw     string // engine text that failed to parse
	Err     error
}

// OK reports whether extraction succeeded.
func (r ParseResult[T]) OK() bool {
	return r.Outcome == OutcomeOK
}

// Quota reports whether the failure was caused by a rate or usage limit.
func (r ParseResult[T]) Quota() bool {
	return r.Outcome == OutcomeEngineError && IsQuotaError(r.Err)
}

// Message returns the error text, or "" on success.
func (r ParseResult[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func ok[T any](v T) ParseResult[T] {
	return ParseResult[T]{Outcome: OutcomeOK, Value: v}
}

func malformed[T any](fallback T, raw string, err error) ParseResult[T] {
	return ParseResult[T]{Outcome: OutcomeMalformed, Value: fallback, Raw: raw, Err: err}
}

func engineError[T any](fallback T, err error) ParseResult[T] {
	return ParseResult[T]{Outcome: OutcomeEngineError, Value: fallback, Err: err}
}
