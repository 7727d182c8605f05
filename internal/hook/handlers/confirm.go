package handlers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"varta/internal/hook"
)

// DispatchConfirmHandler prompts the user for confirmation before dispatching
// configured tools.
type DispatchConfirmHandler struct {
	reader    io.Reader
	writer    io.Writer
	toolNames map[string]bool // Only confirm these tools (empty = all)
}

// NewDispatchConfirmHandler creates a confirmation handler for the given
// tool names. With no names, every dispatch asks.
func NewDispatchConfirmHandler(tools ...string) *DispatchConfirmHandler {
	toolNames := make(map[string]bool)
	for _, t := range tools {
		toolNames[t] = true
	}
	return &DispatchConfirmHandler{
		reader:    os.Stdin,
		writer:    os.Stdout,
		toolNames: toolNames,
	}
}

// NewDispatchConfirmHandlerWithIO creates a handler with custom IO (for testing)
func NewDispatchConfirmHandlerWithIO(reader io.Reader, writer io.Writer, tools ...string) *DispatchConfirmHandler {
	h := NewDispatchConfirmHandler(tools...)
	h.reader = reader
	h.writer = writer
	return h
}

func (h *DispatchConfirmHandler) Name() string {
	return "dispatch_confirm"
}

func (h *DispatchConfirmHandler) Points() []hook.HookPoint {
	return []hook.HookPoint{hook.BeforeDispatch}
}

func (h *DispatchConfirmHandler) Priority() int {
	return 100 // High priority - runs first
}

func (h *DispatchConfirmHandler) Handle(ctx context.Context, data *hook.HookData) (*hook.Feedback, error) {
	if len(h.toolNames) > 0 && !h.toolNames[data.ToolName] {
		return hook.AllowFeedback(), nil
	}

	fmt.Fprintf(h.writer, "\n\033[33mFunction '%s' requires confirmation:\033[0m\n", data.ToolName)
	if args := data.Get("arguments"); args != nil {
		fmt.Fprintf(h.writer, "    Arguments: %v\n", args)
	}
	fmt.Fprintf(h.writer, "\nAllow? [y/N]: ")

	scanner := bufio.NewScanner(h.reader)
	if !scanner.Scan() {
		return hook.DenyFeedback("No input received"), nil
	}

	input := strings.TrimSpace(strings.ToLower(scanner.Text()))

	switch input {
	case "y", "yes":
		fmt.Fprintf(h.writer, "\033[32mAllowed\033[0m\n\n")
		return hook.AllowFeedback(), nil
	default:
		fmt.Fprintf(h.writer, "\033[31mDenied\033[0m\n\n")
		return hook.DenyFeedback("User denied function dispatch"), nil
	}
}
