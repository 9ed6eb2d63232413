package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Engine is a text generation backend: one prompt in, one raw completion out.
type Engine interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIEngine talks to any OpenAI-compatible chat completion endpoint.
type OpenAIEngine struct {
	client *openai.Client
	model  string
}

// NewOpenAIEngine creates an engine for the given endpoint. An empty baseURL
// uses the OpenAI default. Each HTTP call is limited to timeout; zero means no limit.
func NewOpenAIEngine(apiKey, baseURL, model string, timeout time.Duration) *OpenAIEngine {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &OpenAIEngine{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Generate sends prompt as a single user message.
func (e *OpenAIEngine) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ErrBudgetExhausted is returned by BudgetedEngine when the local daily budget is spent.
var ErrBudgetExhausted = errors.New("quota exceeded: daily AI request budget reached")

// BudgetedEngine caps the number of calls forwarded to the wrapped engine.
// The budget refills continuously, perDay tokens every 24 hours.
type BudgetedEngine struct {
	next    Engine
	limiter *rate.Limiter
}

// NewBudgetedEngine wraps next with a daily call budget. perDay <= 0 disables the cap.
func NewBudgetedEngine(next Engine, perDay int) Engine {
	if perDay <= 0 {
		return next
	}
	return &BudgetedEngine{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(24*time.Hour/time.Duration(perDay)), perDay),
	}
}

// Generate forwards the call if budget remains.
func (b *BudgetedEngine) Generate(ctx context.Context, prompt string) (string, error) {
	if !b.limiter.Allow() {
		return "", ErrBudgetExhausted
	}
	return b.next.Generate(ctx, prompt)
}

// Remaining reports the number of calls that can be made right now.
func (b *BudgetedEngine) Remaining() int {
	return int(b.limiter.Tokens())
}
