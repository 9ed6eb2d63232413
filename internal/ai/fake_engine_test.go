package ai

import (
	"context"
	"sync"
)

// fakeEngine returns canned responses and records prompts.
type fakeEngine struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (f *fakeEngine) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeEngine) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}
