// Package llm abstracts the language model the DM narrates with.
package llm

import "context"

//go:generate mockgen -destination=mock/mock_client.go -package=mockllm github.com/dmforge/dmforge/internal/llm Client

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation
type Message struct {
	Role    string
	Content string
}

// Request is a single completion request. System carries the DM persona and
// game context; Messages carry the conversation so far, oldest first.
type Request struct {
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Response is the model's reply
type Response struct {
	Content string
	Model   string
}

// Client generates completions
type Client interface {
	// Complete sends the request and returns the model's reply.
	// Returns errors.Unavailable when the provider can't be reached
	Complete(ctx context.Context, req *Request) (*Response, error)
}
