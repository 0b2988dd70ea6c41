// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shubh-37/startupai/internal/llm"
)

// Fake answers each request with the first Rule whose Match substring
// appears in the system prompt or prompt. Unmatched requests get Default.
type Fake struct {
	mu       sync.Mutex
	Rules    []Rule
	Default  string
	Err      error
	Tokens   int
	Requests []llm.Request
}

// Rule maps a prompt substring to a canned reply.
type Rule struct {
	Match string
	Reply string
	Err   error
}

var _ llm.Client = (*Fake)(nil)

// ErrUnscripted is returned when no rule matches and Default is empty.
var ErrUnscripted = errors.New("llmtest: no scripted reply")

// Complete records the request and returns the scripted reply.
func (f *Fake) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)

	if f.Err != nil {
		return nil, f.Err
	}

	reply := f.Default
	for _, rule := range f.Rules {
		if strings.Contains(req.System, rule.Match) || strings.Contains(req.Prompt, rule.Match) {
			if rule.Err != nil {
				return nil, rule.Err
			}
			reply = rule.Reply
			break
		}
	}
	if reply == "" {
		return nil, ErrUnscripted
	}

	tokens := f.Tokens
	if tokens == 0 {
		tokens = 100
	}
	return &llm.Response{
		Text:         reply,
		Model:        "fake",
		InputTokens:  tokens / 2,
		OutputTokens: tokens - tokens/2,
	}, nil
}

// Calls returns how many requests were made.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
