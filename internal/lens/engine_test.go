package lens

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexziconAI/eco-dairy-bot/internal/clues"
	"github.com/lexziconAI/eco-dairy-bot/internal/llm"
)

// mockProvider records calls and returns a canned completion.
type mockProvider struct {
	mu       sync.Mutex
	calls    []llm.CompletionRequest
	response *llm.CompletionResponse
	err      error
}

func newMockProvider(content string) *mockProvider {
	return &mockProvider{response: &llm.CompletionResponse{
		Content:      content,
		InputTokens:  100,
		OutputTokens: 50,
		Model:        "gpt-4o-mini",
		FinishReason: "stop",
	}}
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

var t0 = time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)

func feedCostConversation() Conversation {
	return Conversation{Turns: []Turn{
		{Role: RoleUser, Text: "Feed costs are through the roof this season.", Timestamp: t0},
		{Role: RoleBot, Text: "That sounds tough. What are you feeding?", Timestamp: t0.Add(5 * time.Second)},
		{Role: RoleUser, Text: "Mostly palm kernel, and the feed costs keep climbing.", Timestamp: t0.Add(40 * time.Second)},
		{Role: RoleBot, Text: "Have you looked at more pasture?", Timestamp: t0.Add(45 * time.Second)},
		{Role: RoleUser, Text: "I'm worried the feed costs will sink us. What should we do?", Timestamp: t0.Add(90 * time.Second)},
	}}
}

func TestLensNoUserTurn(t *testing.T) {
	e := NewEngine(nil, nil, "")

	_, err := e.Lens(Conversation{})
	assert.ErrorIs(t, err, ErrNoUserTurn)

	_, err = e.Lens(Conversation{Turns: []Turn{{Role: RoleBot, Text: "Kia ora"}}})
	assert.ErrorIs(t, err, ErrNoUserTurn)
}

func TestLensOutOfOrder(t *testing.T) {
	e := NewEngine(nil, nil, "")
	_, err := e.Lens(Conversation{Turns: []Turn{
		{Role: RoleUser, Text: "second", Timestamp: t0.Add(time.Minute)},
		{Role: RoleUser, Text: "first", Timestamp: t0},
	}})
	assert.ErrorIs(t, err, ErrOutOfOrder)
}

func TestLensReplaysEveryUserTurn(t *testing.T) {
	e := NewEngine(nil, nil, "")
	l, err := e.Lens(feedCostConversation())
	require.NoError(t, err)

	assert.True(t, l.Clues.HasPattern(clues.PatternRepeatedConcern, "feed costs"),
		"third mention of feed costs should be a repeated concern")
	assert.Len(t, l.Visualization.Timestamps, 3)
	assert.Equal(t, t0.Add(90*time.Second), l.Matrices.Timestamp)

	require.Len(t, l.Exchanges, 2, "the last user turn has no reply yet")
	assert.Equal(t, 2, l.Metrics.TotalExchanges)
	assert.Equal(t, "Have you looked at more pasture?", l.Exchanges[1].BotText)

	assert.Equal(t, "feed costs", l.Insights.TopTopics[0].Topic)
	assert.Equal(t, 3, l.Insights.TopTopics[0].Count)
	assert.Equal(t, "feed costs", l.Flow.CurrentTopic)

	assert.NotEmpty(t, l.Metadata.Orientation)
	assert.Equal(t, l.Insights.EmotionalTone, l.Metadata.EmotionalTone)
	assert.Equal(t, len(l.Clues.TopicPatterns), l.Metadata.ClueCounts.TopicPatterns)
	assert.NotEmpty(t, l.Reply.Full)
}

func TestLensCountsContradictions(t *testing.T) {
	e := NewEngine(nil, nil, "")
	l, err := e.Lens(Conversation{Turns: []Turn{
		{Role: RoleUser, Text: "Things on the farm are bad", Timestamp: t0},
		{Role: RoleBot, Text: "What's going on?", Timestamp: t0.Add(5 * time.Second)},
		{Role: RoleUser, Text: "The weather is fine", Timestamp: t0.Add(30 * time.Second)},
		{Role: RoleBot, Text: "Good to hear.", Timestamp: t0.Add(35 * time.Second)},
		{Role: RoleUser, Text: "Actually it's good now", Timestamp: t0.Add(60 * time.Second)},
	}})
	require.NoError(t, err)

	require.Len(t, l.Clues.Contradictions, 1)
	assert.Equal(t, 1, l.Metadata.ClueCounts.ContradictionFlags)
	assert.Equal(t, len(l.Clues.LinguisticMarkers), l.Metadata.ClueCounts.LinguisticMarkers)
	assert.Equal(t, len(l.Clues.EngagementSignals), l.Metadata.ClueCounts.EngagementSignals)
}

func TestLensIsIndependentPerCall(t *testing.T) {
	e := NewEngine(nil, nil, "")
	first, err := e.Lens(feedCostConversation())
	require.NoError(t, err)
	second, err := e.Lens(feedCostConversation())
	require.NoError(t, err)

	assert.Equal(t, first.Insights, second.Insights)
	assert.Equal(t, first.Matrices, second.Matrices)
}

func TestLensWithoutTimestamps(t *testing.T) {
	e := NewEngine(nil, nil, "")
	e.now = func() time.Time { return t0 }

	l, err := e.Lens(Conversation{Turns: []Turn{
		{Role: RoleUser, Text: "The cows are grand"},
		{Role: RoleBot, Text: "Good to hear"},
		{Role: RoleUser, Text: "Milk price is up too"},
	}})
	require.NoError(t, err)
	assert.Equal(t, t0, l.Matrices.Timestamp)
}

func TestResponseTime(t *testing.T) {
	assert.Equal(t, 30*time.Second, responseTime(t0, t0.Add(30*time.Second)))
	assert.Zero(t, responseTime(time.Time{}, t0))
	assert.Zero(t, responseTime(t0, time.Time{}))
	assert.Zero(t, responseTime(t0, t0))
}

func TestPairs(t *testing.T) {
	got := pairs([]Turn{
		{Role: RoleBot, Text: "hello"},
		{Role: RoleUser, Text: "a"},
		{Role: RoleUser, Text: "b"},
		{Role: RoleBot, Text: "c"},
		{Role: RoleUser, Text: "d"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].user.Text)
	assert.Equal(t, "c", got[0].bot.Text)
}

func TestAnalyzeMergesModelOutput(t *testing.T) {
	mock := newMockProvider(`{"response":"Kia ora, let's look at your feed budget.","lenses":{"systems":"feed and pasture","themes":["feed costs"]}}`)
	e := NewEngine(nil, mock, "gpt-4o-mini")

	res, err := e.Analyze(context.Background(), feedCostConversation())
	require.NoError(t, err)

	assert.Equal(t, "Kia ora, let's look at your feed budget.", res.Response)
	assert.JSONEq(t, `{"systems":"feed and pasture","themes":["feed costs"]}`, string(res.Lenses))
	assert.Equal(t, "gpt-4o-mini", res.Model)
	assert.NotEmpty(t, res.Metadata.Orientation)

	require.Equal(t, 1, mock.callCount())
	req := mock.calls[0]
	assert.True(t, req.JSONMode)
	assert.Equal(t, "gpt-4o-mini", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "## Conversation Analysis")
	assert.Contains(t, req.Messages[0].Content, `"orientation"`)
	assert.Contains(t, req.Messages[1].Content, "Farmer: I'm worried the feed costs will sink us.")
}

func TestAnalyzeResultSerialization(t *testing.T) {
	mock := newMockProvider(`{"response":"ok","lenses":{"chaos":"x"}}`)
	e := NewEngine(nil, mock, "")

	res, err := e.Analyze(context.Background(), feedCostConversation())
	require.NoError(t, err)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"response", "lenses", "analysisMetadata", "matrices", "visualization", "narrative"} {
		assert.Contains(t, m, key)
	}
}

func TestAnalyzePropagatesModelErrorWithoutRetry(t *testing.T) {
	upstream := errors.New("rate limited")
	mock := newMockProvider("")
	mock.err = upstream
	e := NewEngine(nil, mock, "")

	_, err := e.Analyze(context.Background(), feedCostConversation())
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, 1, mock.callCount())
}

func TestAnalyzeWithoutProvider(t *testing.T) {
	e := NewEngine(nil, nil, "")
	_, err := e.Analyze(context.Background(), feedCostConversation())
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestAnalyzeSkipsModelForInvalidConversation(t *testing.T) {
	mock := newMockProvider("{}")
	e := NewEngine(nil, mock, "")
	_, err := e.Analyze(context.Background(), Conversation{})
	assert.ErrorIs(t, err, ErrNoUserTurn)
	assert.Zero(t, mock.callCount())
}

func TestParseModelOutput(t *testing.T) {
	text, lenses := parseModelOutput("```json\n{\"response\":\"hi\",\"lenses\":{\"a\":1}}\n```")
	assert.Equal(t, "hi", text)
	assert.JSONEq(t, `{"a":1}`, string(lenses))

	text, lenses = parseModelOutput("  just words  ")
	assert.Equal(t, "just words", text)
	assert.JSONEq(t, `{}`, string(lenses))

	text, lenses = parseModelOutput(`{"response":"no lenses"}`)
	assert.Equal(t, "no lenses", text)
	assert.JSONEq(t, `{}`, string(lenses))
}

func TestTranscriptWindow(t *testing.T) {
	var turns []Turn
	for i := 0; i < transcriptWindow+5; i++ {
		turns = append(turns, Turn{Role: RoleUser, Text: "line"})
	}
	turns[0].Text = "oldest"
	out := buildTranscript(turns)
	assert.NotContains(t, out, "oldest")
	assert.Equal(t, transcriptWindow, strings.Count(out, "Farmer: "))
}
