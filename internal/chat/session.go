package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"varta/internal/function"
	"varta/internal/india"
	"varta/internal/llm"
	"varta/internal/logger"
)

// Config tunes a conversation session.
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
	MaxTurns    int
}

// DefaultSystemPrompt frames the assistant for Indian users.
const DefaultSystemPrompt = `You are a helpful AI assistant for users in India.
You have access to tools for calculations, weather, currency conversion,
festivals, news, web search and image generation. Prefer tools over guessing.
Use INR for money and IST for times.`

// Session drives the chat loop: enhance the query, call the model with the
// registry's function specs, dispatch requested calls, feed results back,
// repeat until the model stops.
type Session struct {
	client       llm.Client
	registry     *function.Registry
	executor     *function.Executor
	enhancer     *india.Enhancer
	systemPrompt string
	config       Config
	log          *logger.Logger
}

// Output is the final state of a completed session run.
type Output struct {
	Messages   []llm.Message
	Reply      string
	Dispatches []*function.Result
	Metadata   map[string]string
	Usage      llm.Usage
}

// NewSession builds a session. A nil config gets conservative defaults; a
// nil logger disables tracing.
func NewSession(client llm.Client, registry *function.Registry, executor *function.Executor,
	enhancer *india.Enhancer, cfg *Config, log *logger.Logger) *Session {
	if cfg == nil {
		cfg = &Config{
			Temperature: 0.7,
			MaxTokens:   4096,
			MaxTurns:    10,
		}
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 10
	}
	if log == nil {
		log = logger.NewLogger(nil, logger.LevelError)
	}

	return &Session{
		client:       client,
		registry:     registry,
		executor:     executor,
		enhancer:     enhancer,
		systemPrompt: DefaultSystemPrompt,
		config:       *cfg,
		log:          log,
	}
}

// SetSystemPrompt overrides the default system prompt.
func (s *Session) SetSystemPrompt(prompt string) {
	s.systemPrompt = prompt
}

// Run executes one user query to completion.
func (s *Session) Run(ctx context.Context, query string) (*Output, error) {
	start := time.Now()
	s.log.SessionStart(query)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: s.systemPrompt},
		{Role: llm.RoleUser, Content: s.enhancer.EnhanceQuery(query), Timestamp: time.Now()},
	}

	var dispatches []*function.Result
	var usage llm.Usage

	for turn := 0; turn < s.config.MaxTurns; turn++ {
		s.log.Debug("Turn %d: calling model", turn+1)

		resp, err := s.client.Chat(ctx, &llm.ChatRequest{
			Model:       s.config.Model,
			Messages:    messages,
			Tools:       s.registry.Specs(),
			Temperature: s.config.Temperature,
			MaxTokens:   s.config.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}

		messages = append(messages, resp.Message)
		usage.PromptTokens += resp.Usage.PromptTokens
		usage.CompletionTokens += resp.Usage.CompletionTokens
		usage.TotalTokens += resp.Usage.TotalTokens

		if resp.Message.Content != "" {
			s.log.ModelResponse(resp.Message.Content)
		}

		if resp.StopReason != llm.StopReasonToolCalls || len(resp.Message.ToolCalls) == 0 {
			s.log.SessionEnd(time.Since(start), len(dispatches))
			return &Output{
				Messages:   messages,
				Reply:      resp.Message.Content,
				Dispatches: dispatches,
				Metadata:   s.enhancer.Metadata(),
				Usage:      usage,
			}, nil
		}

		results := s.executor.DispatchToolCalls(ctx, resp.Message.ToolCalls)
		dispatches = append(dispatches, results...)

		for i, tc := range resp.Message.ToolCalls {
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    encodeResult(results[i]),
				ToolCallID: tc.ID,
				Name:       tc.Function.Name,
				Timestamp:  time.Now(),
			})
		}
	}

	return nil, fmt.Errorf("conversation exceeded %d turns without completing", s.config.MaxTurns)
}

// Renderer consumes a model stream as it arrives, for incremental display.
type Renderer interface {
	Render(reader llm.StreamReader) ([]string, error)
}

// RunStream executes one user query with incremental output. The renderer
// sees each delta as it arrives; a nil renderer drains silently. Tool calls
// assembled from the stream dispatch between turns exactly as in Run.
// Streaming responses carry no usage accounting.
func (s *Session) RunStream(ctx context.Context, query string, renderer Renderer) (*Output, error) {
	start := time.Now()
	s.log.SessionStart(query)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: s.systemPrompt},
		{Role: llm.RoleUser, Content: s.enhancer.EnhanceQuery(query), Timestamp: time.Now()},
	}

	var dispatches []*function.Result

	for turn := 0; turn < s.config.MaxTurns; turn++ {
		s.log.Debug("Turn %d: streaming from model", turn+1)

		reader, err := s.client.ChatStream(ctx, &llm.ChatRequest{
			Model:       s.config.Model,
			Messages:    messages,
			Tools:       s.registry.Specs(),
			Temperature: s.config.Temperature,
			MaxTokens:   s.config.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("chat stream failed: %w", err)
		}

		if renderer != nil {
			_, err = renderer.Render(reader)
		} else {
			err = drain(reader)
		}
		if err != nil {
			return nil, fmt.Errorf("stream interrupted: %w", err)
		}

		msg := reader.AccumulatedMessage()
		messages = append(messages, msg)

		if len(msg.ToolCalls) == 0 {
			s.log.SessionEnd(time.Since(start), len(dispatches))
			return &Output{
				Messages:   messages,
				Reply:      msg.Content,
				Dispatches: dispatches,
				Metadata:   s.enhancer.Metadata(),
			}, nil
		}

		results := s.executor.DispatchToolCalls(ctx, msg.ToolCalls)
		dispatches = append(dispatches, results...)

		for i, tc := range msg.ToolCalls {
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    encodeResult(results[i]),
				ToolCallID: tc.ID,
				Name:       tc.Function.Name,
				Timestamp:  time.Now(),
			})
		}
	}

	return nil, fmt.Errorf("conversation exceeded %d turns without completing", s.config.MaxTurns)
}

// drain consumes a stream to completion without rendering.
func drain(reader llm.StreamReader) error {
	defer reader.Close()
	for {
		delta, err := reader.Recv()
		if err != nil {
			return err
		}
		if delta.Done {
			return nil
		}
	}
}

// encodeResult renders a dispatch result as the tool-role message content.
// The payload is never empty: some backends reject empty message content.
func encodeResult(res *function.Result) string {
	payload := map[string]any{"success": res.Success}
	if res.Success {
		payload["result"] = res.Value
	} else {
		payload["error"] = res.Error
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"unencodable result: %v"}`, err)
	}
	return string(data)
}
