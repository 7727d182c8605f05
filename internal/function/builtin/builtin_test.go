package builtin

import (
	"context"
	"errors"
	"testing"

	"varta/internal/function"
	"varta/internal/india"
	"varta/internal/llm"
)

// stubClient satisfies llm.Client for tool tests without a live backend.
type stubClient struct {
	searchResp *llm.SearchResponse
	searchErr  error
	imageResp  *llm.ImageResponse
	imageErr   error
}

func (c *stubClient) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	return nil, errors.New("not implemented")
}

func (c *stubClient) ChatStream(ctx context.Context, req *llm.ChatRequest) (llm.StreamReader, error) {
	return nil, errors.New("not implemented")
}

func (c *stubClient) GenerateImage(ctx context.Context, req *llm.ImageRequest) (*llm.ImageResponse, error) {
	return c.imageResp, c.imageErr
}

func (c *stubClient) WebSearch(ctx context.Context, req *llm.SearchRequest) (*llm.SearchResponse, error) {
	return c.searchResp, c.searchErr
}

func (c *stubClient) Provider() string { return "stub" }
func (c *stubClient) Model() string    { return "stub-model" }

func newBuiltinExecutor(t *testing.T, client llm.Client) (*function.Executor, *function.Registry) {
	t.Helper()
	registry := function.NewRegistry()
	enhancer := india.NewEnhancer("", "")
	if err := RegisterDefaults(registry, client, enhancer); err != nil {
		t.Fatalf("RegisterDefaults failed: %v", err)
	}
	return function.NewExecutor(registry), registry
}

func TestRegisterDefaults(t *testing.T) {
	_, registry := newBuiltinExecutor(t, &stubClient{})

	want := []string{
		"calculator", "get_weather", "convert_currency", "get_festivals",
		"get_news", "web_search", "generate_image",
	}
	all := registry.ListAll()
	if len(all) != len(want) {
		t.Fatalf("registered %d tools, want %d", len(all), len(want))
	}
	for i, name := range want {
		if all[i].Name != name {
			t.Errorf("position %d: got %s, want %s", i, all[i].Name, name)
		}
	}
}

func TestCalculatorDispatch(t *testing.T) {
	executor, _ := newBuiltinExecutor(t, &stubClient{})

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "calculator",
		Arguments: map[string]any{"expression": "(12 + 8) * 3"},
		CallID:    "calc",
	})

	if !res.Success {
		t.Fatalf("dispatch failed: %s", res.Error)
	}
	value := res.Value.(map[string]any)
	if value["result"] != 60.0 {
		t.Errorf("result = %v", value["result"])
	}
	if value["formatted"] != "60" {
		t.Errorf("formatted = %v", value["formatted"])
	}
}

func TestCalculatorDispatch_BadExpression(t *testing.T) {
	executor, _ := newBuiltinExecutor(t, &stubClient{})

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "calculator",
		Arguments: map[string]any{"expression": "1 / 0"},
		CallID:    "calc",
	})

	if res.Success {
		t.Fatal("division by zero should surface as a failed result")
	}
	if res.Error == "" {
		t.Error("failed result must carry an error message")
	}
}

func TestWeatherDispatch(t *testing.T) {
	executor, _ := newBuiltinExecutor(t, &stubClient{})

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "Mumbai", "units": "fahrenheit"},
		CallID:    "w1",
	})

	if !res.Success {
		t.Fatalf("dispatch failed: %s", res.Error)
	}
	value := res.Value.(map[string]any)
	if value["city"] != "Mumbai" {
		t.Errorf("city = %v", value["city"])
	}
	if value["units"] != "fahrenheit" {
		t.Errorf("units = %v", value["units"])
	}

	celsius := india.CityWeather("Mumbai").TempC
	wantF := celsius*9/5 + 32
	if value["temperature"] != wantF {
		t.Errorf("temperature = %v, want %v", value["temperature"], wantF)
	}
}

func TestWeatherDispatch_UnknownCityFallsBack(t *testing.T) {
	executor, _ := newBuiltinExecutor(t, &stubClient{})

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "Atlantis"},
		CallID:    "w2",
	})

	if !res.Success {
		t.Fatalf("unknown city should still produce a report: %s", res.Error)
	}
	value := res.Value.(map[string]any)
	if value["units"] != "celsius" {
		t.Errorf("default units = %v", value["units"])
	}
}

func TestCurrencyDispatch(t *testing.T) {
	executor, _ := newBuiltinExecutor(t, &stubClient{})

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "convert_currency",
		Arguments: map[string]any{"amount": 1000.0, "to": "usd"},
		CallID:    "fx1",
	})

	if !res.Success {
		t.Fatalf("dispatch failed: %s", res.Error)
	}
	value := res.Value.(map[string]any)
	if value["from"] != "INR" {
		t.Errorf("default source currency = %v", value["from"])
	}
	if value["to"] != "USD" {
		t.Errorf("target currency not normalized: %v", value["to"])
	}
	converted, ok := value["converted"].(float64)
	if !ok || converted <= 0 {
		t.Errorf("converted = %v", value["converted"])
	}
}

func TestCurrencyDispatch_UnknownCurrency(t *testing.T) {
	executor, _ := newBuiltinExecutor(t, &stubClient{})

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "convert_currency",
		Arguments: map[string]any{"amount": 10.0, "to": "XYZ"},
		CallID:    "fx2",
	})

	if res.Success {
		t.Fatal("unsupported currency should fail")
	}
}

func TestWebSearchDispatch(t *testing.T) {
	client := &stubClient{searchResp: &llm.SearchResponse{
		Query: "monsoon forecast",
		Results: []llm.SearchResult{
			{Title: "IMD update", Snippet: "above normal rainfall", URL: "https://example.in/imd"},
		},
	}}
	executor, _ := newBuiltinExecutor(t, client)

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "web_search",
		Arguments: map[string]any{"query": "monsoon forecast"},
		CallID:    "s1",
	})

	if !res.Success {
		t.Fatalf("dispatch failed: %s", res.Error)
	}
	value := res.Value.(map[string]any)
	if value["fallback"] != false {
		t.Error("live results should not be marked as fallback")
	}
	results := value["results"].([]map[string]any)
	if len(results) != 1 || results[0]["title"] != "IMD update" {
		t.Errorf("results = %v", results)
	}
}

func TestWebSearchDispatch_FallbackOnBackendError(t *testing.T) {
	client := &stubClient{searchErr: errors.New("backend down")}
	executor, _ := newBuiltinExecutor(t, client)

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "web_search",
		Arguments: map[string]any{"query": "cricket score", "max_results": 2.0},
		CallID:    "s2",
	})

	if !res.Success {
		t.Fatalf("backend failure should fall back, not fail: %s", res.Error)
	}
	value := res.Value.(map[string]any)
	if value["fallback"] != true {
		t.Error("fallback results must be marked")
	}
	results := value["results"].([]map[string]any)
	if len(results) == 0 || len(results) > 2 {
		t.Errorf("got %d fallback results, want 1..2", len(results))
	}
}

func TestGenerateImageDispatch(t *testing.T) {
	client := &stubClient{imageResp: &llm.ImageResponse{
		URLs:          []string{"https://example.in/image.png"},
		RevisedPrompt: "a bustling Mumbai street market, realistic",
	}}
	executor, _ := newBuiltinExecutor(t, client)

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "generate_image",
		Arguments: map[string]any{"prompt": "street market"},
		CallID:    "img1",
	})

	if !res.Success {
		t.Fatalf("dispatch failed: %s", res.Error)
	}
	value := res.Value.(map[string]any)
	if value["style"] != "realistic" {
		t.Errorf("default style = %v", value["style"])
	}
	urls := value["urls"].([]string)
	if len(urls) != 1 {
		t.Errorf("urls = %v", urls)
	}
}

func TestGenerateImageDispatch_InvalidStyle(t *testing.T) {
	executor, _ := newBuiltinExecutor(t, &stubClient{})

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "generate_image",
		Arguments: map[string]any{"prompt": "street market", "style": "cubist"},
		CallID:    "img2",
	})

	if res.Success {
		t.Fatal("style outside the enum must fail validation")
	}
}

func TestFestivalsDispatch(t *testing.T) {
	executor, _ := newBuiltinExecutor(t, &stubClient{})

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "get_festivals",
		Arguments: map[string]any{"month": 10.0},
		CallID:    "f1",
	})

	if !res.Success {
		t.Fatalf("dispatch failed: %s", res.Error)
	}
}

func TestNewsDispatch(t *testing.T) {
	executor, _ := newBuiltinExecutor(t, &stubClient{})

	res := executor.Dispatch(context.Background(), function.Call{
		Name:      "get_news",
		Arguments: map[string]any{"category": "cricket"},
		CallID:    "n1",
	})

	if !res.Success {
		t.Fatalf("dispatch failed: %s", res.Error)
	}
}
