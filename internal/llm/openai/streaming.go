package openai

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"varta/internal/llm"
)

// StreamReader decodes a streaming chat completion. Tool-call fragments
// arrive chunked by index and are accumulated until the final delta.
type StreamReader struct {
	stream         *openai.ChatCompletionStream
	accumulatedMsg llm.Message
	toolCallsMap   map[int]*llm.ToolCall
}

func (c *Client) ChatStream(ctx context.Context, req *llm.ChatRequest) (llm.StreamReader, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel(req),
		Messages:    convertMessages(req.Messages),
		Tools:       convertTools(req.Tools),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("chat stream failed: %w", err)
	}

	return &StreamReader{
		stream:         stream,
		accumulatedMsg: llm.Message{Role: llm.RoleAssistant},
		toolCallsMap:   make(map[int]*llm.ToolCall),
	}, nil
}

func (s *StreamReader) Recv() (*llm.Delta, error) {
	resp, err := s.stream.Recv()
	if err == io.EOF {
		return &llm.Delta{Done: true}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in stream response")
	}

	return s.apply(resp), nil
}

// apply folds one stream chunk into the accumulated message and returns the
// corresponding delta.
func (s *StreamReader) apply(resp openai.ChatCompletionStreamResponse) *llm.Delta {
	delta := resp.Choices[0].Delta
	result := &llm.Delta{
		Role:    llm.Role(delta.Role),
		Content: delta.Content,
	}

	if delta.Content != "" {
		s.accumulatedMsg.Content += delta.Content
	}

	// Tool calls stream in fragments keyed by index; name and argument
	// text grow across chunks.
	if len(delta.ToolCalls) > 0 {
		result.ToolCalls = make([]*llm.ToolCall, 0, len(delta.ToolCalls))

		for _, tc := range delta.ToolCalls {
			index := 0
			if tc.Index != nil {
				index = *tc.Index
			}

			toolCall, exists := s.toolCallsMap[index]
			if !exists {
				toolCall = &llm.ToolCall{
					ID:       tc.ID,
					Type:     string(tc.Type),
					Function: &llm.FunctionCall{},
				}
				s.toolCallsMap[index] = toolCall
			}

			toolCall.Function.Name += tc.Function.Name
			toolCall.Function.Arguments += tc.Function.Arguments
			if tc.ID != "" {
				toolCall.ID = tc.ID
			}

			result.ToolCalls = append(result.ToolCalls, toolCall)
		}
	}

	finishReason := resp.Choices[0].FinishReason
	if finishReason == openai.FinishReasonStop ||
		finishReason == openai.FinishReasonToolCalls ||
		finishReason == openai.FinishReasonLength {
		if len(s.toolCallsMap) > 0 {
			s.accumulatedMsg.ToolCalls = make([]*llm.ToolCall, 0, len(s.toolCallsMap))
			for i := 0; i < len(s.toolCallsMap); i++ {
				if tc, ok := s.toolCallsMap[i]; ok {
					s.accumulatedMsg.ToolCalls = append(s.accumulatedMsg.ToolCalls, tc)
				}
			}
		}
	}

	return result
}

func (s *StreamReader) Close() error {
	s.stream.Close()
	return nil
}

// AccumulatedMessage returns the fully assembled assistant message. Call it
// after Recv has reported Done.
func (s *StreamReader) AccumulatedMessage() llm.Message {
	return s.accumulatedMsg
}
