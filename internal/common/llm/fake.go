package llm

import (
	"context"
	"strings"
	"sync"
	"time"
)

// FakeCompleter is a scripted Completer for tests.
type FakeCompleter struct {
	// Reply is returned when no ReplyFor entry matches.
	Reply string
	// ReplyFor maps a substring of the prompt to a reply.
	ReplyFor map[string]string
	Error    error
	// Delay blocks each call, honoring ctx cancellation.
	Delay time.Duration

	mu       sync.Mutex
	requests []Request
}

func NewFakeCompleter(reply string) *FakeCompleter {
	return &FakeCompleter{Reply: reply}
}

func (f *FakeCompleter) Complete(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if f.Error != nil {
		return "", f.Error
	}
	for needle, reply := range f.ReplyFor {
		if strings.Contains(req.Prompt, needle) {
			return reply, nil
		}
	}
	return f.Reply, nil
}

// Requests returns a copy of every request received.
func (f *FakeCompleter) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Calls returns the number of requests received.
func (f *FakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
