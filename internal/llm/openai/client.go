package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"varta/internal/llm"
)

// Client adapts an OpenAI-compatible backend to the llm.Client contract.
type Client struct {
	client      *openai.Client
	model       string
	imageModel  string
	searchModel string
}

// Option configures optional client settings.
type Option func(*Client)

// WithImageModel overrides the model used for image generation.
func WithImageModel(model string) Option {
	return func(c *Client) { c.imageModel = model }
}

// WithSearchModel overrides the model used for the web-search surface.
func WithSearchModel(model string) Option {
	return func(c *Client) { c.searchModel = model }
}

// NewClient creates a backend client. An empty baseURL uses the default
// OpenAI endpoint; a custom one targets any OpenAI-compatible API.
func NewClient(apiKey, model, baseURL string, opts ...Option) *Client {
	var inner *openai.Client
	if baseURL != "" {
		config := openai.DefaultConfig(apiKey)
		config.BaseURL = baseURL
		inner = openai.NewClientWithConfig(config)
	} else {
		inner = openai.NewClient(apiKey)
	}

	c := &Client{
		client:      inner,
		model:       model,
		imageModel:  openai.CreateImageModelDallE3,
		searchModel: model,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chatModel picks the request's model override, falling back to the
// client's default.
func (c *Client) chatModel(req *llm.ChatRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model
}

func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel(req),
		Messages:    convertMessages(req.Messages),
		Tools:       convertTools(req.Tools),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return convertResponse(resp), nil
}

func (c *Client) GenerateImage(ctx context.Context, req *llm.ImageRequest) (*llm.ImageResponse, error) {
	count := req.Count
	if count <= 0 {
		count = 1
	}
	size := req.Size
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}

	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          c.imageModel,
		N:              count,
		Size:           size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	out := &llm.ImageResponse{URLs: make([]string, 0, len(resp.Data))}
	for _, item := range resp.Data {
		out.URLs = append(out.URLs, item.URL)
		if item.RevisedPrompt != "" {
			out.RevisedPrompt = item.RevisedPrompt
		}
	}
	return out, nil
}

const searchSystemPrompt = `You are a web search engine. For the user's query,
return ONLY a JSON array of result objects, each with the keys "title",
"snippet" and "url". No prose, no markdown fences.`

// WebSearch runs a search-instructed completion against the backend and
// decodes the structured results it returns.
func (c *Client) WebSearch(ctx context.Context, req *llm.SearchRequest) (*llm.SearchResponse, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.searchModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: searchSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Return up to %d results for: %s", maxResults, req.Query)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("web search returned no choices")
	}

	results, err := parseSearchResults(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return &llm.SearchResponse{Query: req.Query, Results: results}, nil
}

// parseSearchResults decodes the model's JSON result array, tolerating a
// markdown code fence around the payload.
func parseSearchResults(content string) ([]llm.SearchResult, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	var wire []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		URL     string `json:"url"`
	}
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return nil, fmt.Errorf("cannot parse search results: %w", err)
	}

	results := make([]llm.SearchResult, len(wire))
	for i, r := range wire {
		results[i] = llm.SearchResult{Title: r.Title, Snippet: r.Snippet, URL: r.URL}
	}
	return results, nil
}

func (c *Client) Provider() string {
	return "openai"
}

func (c *Client) Model() string {
	return c.model
}

func convertMessages(msgs []llm.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(msgs))
	for i, msg := range msgs {
		m := openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}

		if len(msg.ToolCalls) > 0 {
			m.ToolCalls = make([]openai.ToolCall, len(msg.ToolCalls))
			for j, tc := range msg.ToolCalls {
				m.ToolCalls[j] = openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Function.Name,
						Arguments: tc.Function.Arguments,
					},
				}
			}
		}

		if msg.Role == llm.RoleTool {
			m.ToolCallID = msg.ToolCallID
			m.Name = msg.Name
		}

		result[i] = m
	}
	return result
}

func convertTools(tools []*llm.ToolDefinition) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}

	result := make([]openai.Tool, len(tools))
	for i, t := range tools {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  t.Function.Parameters,
			},
		}
	}
	return result
}

func convertResponse(resp openai.ChatCompletionResponse) *llm.ChatResponse {
	choice := resp.Choices[0]

	msg := llm.Message{
		Role:    llm.Role(choice.Message.Role),
		Content: choice.Message.Content,
	}

	if len(choice.Message.ToolCalls) > 0 {
		msg.ToolCalls = make([]*llm.ToolCall, len(choice.Message.ToolCalls))
		for i, tc := range choice.Message.ToolCalls {
			msg.ToolCalls[i] = &llm.ToolCall{
				ID:   tc.ID,
				Type: string(tc.Type),
				Function: &llm.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
	}

	return &llm.ChatResponse{
		Message:    msg,
		StopReason: convertStopReason(choice.FinishReason),
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
}

func convertStopReason(reason openai.FinishReason) llm.StopReason {
	switch reason {
	case openai.FinishReasonToolCalls:
		return llm.StopReasonToolCalls
	case openai.FinishReasonLength:
		return llm.StopReasonLength
	default:
		return llm.StopReasonStop
	}
}
