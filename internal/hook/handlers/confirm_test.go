package handlers

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"varta/internal/hook"
)

func confirmData(tool string) *hook.HookData {
	return hook.NewHookData(hook.BeforeDispatch, tool).
		Set("arguments", map[string]any{"expression": "1+1"})
}

func TestConfirmHandler_Allow(t *testing.T) {
	var out bytes.Buffer
	h := NewDispatchConfirmHandlerWithIO(strings.NewReader("y\n"), &out)

	feedback, err := h.Handle(context.Background(), confirmData("calculator"))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !feedback.Allow {
		t.Error("y should allow the dispatch")
	}
	if !strings.Contains(out.String(), "calculator") {
		t.Error("prompt should name the tool")
	}
}

func TestConfirmHandler_DenyByDefault(t *testing.T) {
	for _, input := range []string{"n\n", "\n", "nope\n"} {
		var out bytes.Buffer
		h := NewDispatchConfirmHandlerWithIO(strings.NewReader(input), &out)

		feedback, err := h.Handle(context.Background(), confirmData("calculator"))
		if err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
		if feedback.Allow {
			t.Errorf("input %q should deny", input)
		}
		if feedback.Message == "" {
			t.Error("denial should carry a message")
		}
	}
}

func TestConfirmHandler_NoInput(t *testing.T) {
	var out bytes.Buffer
	h := NewDispatchConfirmHandlerWithIO(strings.NewReader(""), &out)

	feedback, err := h.Handle(context.Background(), confirmData("calculator"))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if feedback.Allow {
		t.Error("closed input should deny")
	}
}

func TestConfirmHandler_FiltersTools(t *testing.T) {
	var out bytes.Buffer
	h := NewDispatchConfirmHandlerWithIO(strings.NewReader(""), &out, "generate_image")

	// A tool outside the filter passes without a prompt.
	feedback, err := h.Handle(context.Background(), confirmData("calculator"))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !feedback.Allow {
		t.Error("unlisted tool should pass without confirmation")
	}
	if out.Len() != 0 {
		t.Error("unlisted tool should not be prompted for")
	}
}
