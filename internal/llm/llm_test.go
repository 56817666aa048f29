package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// --- Tests ---

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "")
	t.Setenv(EnvOpenRouterKey, "")

	for _, p := range []string{"openai", "openrouter"} {
		_, err := NewProvider(Settings{Provider: p, Model: "some-model"})
		if err == nil {
			t.Errorf("expected error for provider %q with missing API key", p)
		}
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	for _, p := range []string{"unknown", "anthropic", ""} {
		if _, err := NewProvider(Settings{Provider: p}); err == nil {
			t.Errorf("expected error for provider %q", p)
		}
	}
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	t.Setenv(EnvOllamaHost, "")
	provider, err := NewProvider(Settings{Provider: "ollama", Model: "llama3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollamaP, ok := provider.(*OllamaProvider)
	if !ok {
		t.Fatal("expected *OllamaProvider")
	}
	if ollamaP.baseURL != defaultOllamaHost {
		t.Errorf("expected default host, got %q", ollamaP.baseURL)
	}
}

func TestFactoryOllamaHostPrecedence(t *testing.T) {
	t.Setenv(EnvOllamaHost, "http://gpu-box:11434/")
	provider, _ := NewProvider(Settings{Provider: "ollama"})
	if got := provider.(*OllamaProvider).baseURL; got != "http://gpu-box:11434" {
		t.Errorf("expected env host without trailing slash, got %q", got)
	}

	provider, _ = NewProvider(Settings{Provider: "ollama", BaseURL: "http://other:1"})
	if got := provider.(*OllamaProvider).baseURL; got != "http://other:1" {
		t.Errorf("expected settings host, got %q", got)
	}
}

func TestFactoryCreatesOpenAIAndOpenRouter(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "test-key")
	t.Setenv(EnvOpenRouterKey, "test-key")

	for _, name := range []string{"openai", "openrouter"} {
		provider, err := NewProvider(Settings{Provider: name, Model: "gpt-4o-mini"})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if provider.Name() != name {
			t.Errorf("expected name %q, got %q", name, provider.Name())
		}
	}
}

func TestFactoryWrapsWithRateLimiter(t *testing.T) {
	provider, err := NewProvider(Settings{Provider: "ollama", RateLimitRPM: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := provider.(*RateLimitedProvider); !ok {
		t.Errorf("expected *RateLimitedProvider, got %T", provider)
	}
	if provider.Name() != "ollama" {
		t.Errorf("expected wrapped name 'ollama', got %q", provider.Name())
	}
}

func TestOpenAICompatibleProvider(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"{\"response\":\"hi\"}"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`))
	}))
	defer srv.Close()

	p := NewOpenAICompatibleProvider("openai", "key", srv.URL, "gpt-4o-mini")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "hello"}},
		JSONMode: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != `{"response":"hi"}` || resp.InputTokens != 12 || resp.OutputTokens != 3 {
		t.Errorf("unexpected response %+v", resp)
	}
	if got["model"] != "gpt-4o-mini" {
		t.Errorf("expected default model in request, got %v", got["model"])
	}
	if rf, ok := got["response_format"].(map[string]any); !ok || rf["type"] != "json_object" {
		t.Errorf("expected json_object response format, got %v", got["response_format"])
	}
}

func TestOpenAICompatibleProviderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	p := NewOpenAICompatibleProvider("openrouter", "key", srv.URL, "m")
	_, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusTooManyRequests || se.Provider != "openrouter" {
		t.Errorf("unexpected status error %+v", se)
	}
}

func TestOllamaProvider(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"kia ora"},"done":true,"done_reason":"stop","prompt_eval_count":7,"eval_count":2}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages:  []Message{{Role: RoleUser, Content: "hello"}},
		MaxTokens: 64,
		JSONMode:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "kia ora" || resp.InputTokens != 7 || resp.OutputTokens != 2 || resp.FinishReason != "stop" {
		t.Errorf("unexpected response %+v", resp)
	}
	if got.Format != "json" || got.Stream || got.Options.NumPredict != 64 || got.Model != "llama3" {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestOllamaProviderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "missing").Complete(context.Background(), CompletionRequest{})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound || se.Body != "model not found" {
		t.Errorf("expected 404 status error, got %v", err)
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := NewMockProvider("test")
	rl := NewRateLimitedProvider(mock, 60)

	resp, err := rl.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}
	if rl.Name() != "test" {
		t.Errorf("expected name 'test', got %q", rl.Name())
	}
}

func TestRateLimiterLimitsRequests(t *testing.T) {
	mock := NewMockProvider("test")
	// Allow only 2 requests per minute.
	rl := NewRateLimitedProvider(mock, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	req := CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hello"}}}

	// First two should succeed immediately.
	for i := 0; i < 2; i++ {
		if _, err := rl.Complete(ctx, req); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}

	// Third should block and eventually fail due to context timeout.
	if _, err := rl.Complete(ctx, req); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 calls to reach the provider, got %d", mock.CallCount())
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimitedProvider(NewMockProvider("test"), 60)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	rl.lastFill = clock
	rl.tokens = 0

	if rl.take() {
		t.Fatal("expected empty bucket")
	}
	clock = clock.Add(2 * time.Second)
	if !rl.take() {
		t.Error("expected tokens after two seconds at 60 rpm")
	}
	clock = clock.Add(time.Hour)
	rl.take()
	if rl.tokens != 59 {
		t.Errorf("expected bucket capped at rpm, got %v tokens left", rl.tokens)
	}
}

func TestEstimateCostKnownModels(t *testing.T) {
	for _, model := range []string{"gpt-4o", "gpt-4o-mini", "openai/gpt-4o-mini", "anthropic/claude-3.5-sonnet"} {
		if cost := EstimateCost(model, 1000, 500); cost <= 0 {
			t.Errorf("EstimateCost(%q) = %f, expected > 0", model, cost)
		}
	}
}

func TestEstimateCostUnknownModel(t *testing.T) {
	if cost := EstimateCost("llama3", 1000, 500); cost != 0 {
		t.Errorf("expected 0 for unknown model, got %f", cost)
	}
}

func TestEstimateCostAccuracy(t *testing.T) {
	// gpt-4o: $2.50/1M input, $10/1M output
	cost := EstimateCost("gpt-4o", 1_000_000, 1_000_000)
	expected := 12.5
	if cost < expected-0.01 || cost > expected+0.01 {
		t.Errorf("expected cost ~$%.2f, got $%.2f", expected, cost)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hi", 1},
		{"hello world!!", 3},
		{"a longer piece of text that has more characters", 11},
	}

	for _, tt := range tests {
		got := EstimateTokens(tt.text)
		if got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestPromptText(t *testing.T) {
	req := CompletionRequest{Messages: []Message{{Role: RoleSystem, Content: "a"}, {Role: RoleUser, Content: "b"}}}
	if got := req.PromptText(); got != "a\nb\n" {
		t.Errorf("PromptText() = %q", got)
	}
}
