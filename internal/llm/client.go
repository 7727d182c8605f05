package llm

import "context"

// Client is the opaque LLM backend collaborator: chat completion, image
// generation, and web search over one remote API.
type Client interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	ChatStream(ctx context.Context, req *ChatRequest) (StreamReader, error)
	GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResponse, error)
	WebSearch(ctx context.Context, req *SearchRequest) (*SearchResponse, error)
	Provider() string
	Model() string
}

type ChatRequest struct {
	// Model overrides the client's default chat model when non-empty.
	Model       string
	Messages    []Message
	Tools       []*ToolDefinition
	Temperature float32
	MaxTokens   int
}

type ChatResponse struct {
	Message    Message
	StopReason StopReason
	Usage      Usage
}

// ToolDefinition is the provider-facing function-calling schema.
type ToolDefinition struct {
	Type     string
	Function *FunctionDef
}

type FunctionDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type ImageRequest struct {
	Prompt string
	Size   string
	Count  int
}

type ImageResponse struct {
	URLs          []string
	RevisedPrompt string
}

type SearchRequest struct {
	Query      string
	MaxResults int
}

type SearchResult struct {
	Title   string
	Snippet string
	URL     string
}

type SearchResponse struct {
	Query   string
	Results []SearchResult
}

// StreamReader yields incremental deltas from a streaming chat completion.
// AccumulatedMessage returns the fully assembled assistant message; call it
// after Recv has reported Done.
type StreamReader interface {
	Recv() (*Delta, error)
	Close() error
	AccumulatedMessage() Message
}

type Delta struct {
	Role      Role
	Content   string
	ToolCalls []*ToolCall
	Done      bool
}
