package testhelpers

import (
	"context"
	"errors"
	"sync"

	"finqa/internal/pkg/openai"
)

// Reply is one scripted completion outcome.
type Reply struct {
	Text string
	Err  error
}

// Call records what was sent to the FakeCompleter.
type Call struct {
	Messages []openai.Message
	Options  openai.Options
}

// FakeCompleter replays scripted replies in order. When Handler is set it is
// consulted instead of Replies.
type FakeCompleter struct {
	Replies []Reply
	Handler func(call Call) (string, error)

	mu    sync.Mutex
	next  int
	calls []Call
}

func (f *FakeCompleter) Complete(ctx context.Context, messages []openai.Message, opts openai.Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := Call{Messages: append([]openai.Message(nil), messages...), Options: opts}
	f.calls = append(f.calls, call)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if f.Handler != nil {
		return f.Handler(call)
	}

	if f.next >= len(f.Replies) {
		return "", errors.New("fake completer: no reply scripted")
	}
	reply := f.Replies[f.next]
	f.next++
	return reply.Text, reply.Err
}

// Calls returns every call received so far.
func (f *FakeCompleter) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// UserPrompt returns the user message content of the i-th call.
func (f *FakeCompleter) UserPrompt(i int) string {
	calls := f.Calls()
	if i < 0 || i >= len(calls) {
		return ""
	}
	for _, m := range calls[i].Messages {
		if m.Role == openai.RoleUser {
			return m.Content
		}
	}
	return ""
}
