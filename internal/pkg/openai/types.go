package openai

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Options tune a single completion request. MaxTokens <= 0 leaves the limit to
// the provider.
type Options struct {
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// Completer sends a chat-style prompt and returns the model's raw text reply.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, messages []Message, opts Options) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	return f(ctx, messages, opts)
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
