package cli

import (
	"fmt"
	"io"
	"os"

	"varta/internal/llm"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
	ColorBold   = "\033[1m"
)

// StreamRenderer writes a streaming chat response to a terminal as it
// arrives, announcing tool-call requests as they assemble.
type StreamRenderer struct {
	writer    io.Writer
	colorMode bool
	started   bool
}

func NewStreamRenderer(w io.Writer) *StreamRenderer {
	if w == nil {
		w = os.Stdout
	}
	return &StreamRenderer{writer: w, colorMode: true}
}

func (r *StreamRenderer) SetColorMode(enabled bool) {
	r.colorMode = enabled
}

// Render consumes the stream until done, echoing content deltas. It returns
// the names of any tool calls the model requested.
func (r *StreamRenderer) Render(reader llm.StreamReader) ([]string, error) {
	defer reader.Close()

	seen := map[string]bool{}
	var toolNames []string

	for {
		delta, err := reader.Recv()
		if err != nil {
			return toolNames, err
		}
		if delta.Done {
			break
		}

		if delta.Content != "" {
			if !r.started {
				r.writeColored("─── ", ColorGray)
				r.started = true
			}
			fmt.Fprint(r.writer, delta.Content)
		}

		for _, tc := range delta.ToolCalls {
			name := tc.Function.Name
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			toolNames = append(toolNames, name)
			r.writeColored(fmt.Sprintf("\n[calling %s]\n", name), ColorCyan)
		}
	}

	if r.started {
		fmt.Fprintln(r.writer)
	}
	return toolNames, nil
}

func (r *StreamRenderer) writeColored(content, color string) {
	if r.colorMode {
		fmt.Fprintf(r.writer, "%s%s%s", color, content, ColorReset)
	} else {
		fmt.Fprint(r.writer, content)
	}
}
