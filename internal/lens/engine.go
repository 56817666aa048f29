// Package lens runs the analyzer pipeline over a conversation and, when a
// model is configured, asks it to frame the result for the farmer.
package lens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lexziconAI/eco-dairy-bot/internal/clues"
	"github.com/lexziconAI/eco-dairy-bot/internal/exchange"
	"github.com/lexziconAI/eco-dairy-bot/internal/lexicon"
	"github.com/lexziconAI/eco-dairy-bot/internal/llm"
	"github.com/lexziconAI/eco-dairy-bot/internal/matrix"
	"github.com/lexziconAI/eco-dairy-bot/internal/narrative"
	"github.com/lexziconAI/eco-dairy-bot/internal/response"
	"github.com/lexziconAI/eco-dairy-bot/internal/topicflow"
)

var (
	// ErrNoUserTurn is returned for a conversation without any user turn.
	ErrNoUserTurn = errors.New("conversation has no user turn")
	// ErrOutOfOrder is returned when turn timestamps go backwards.
	ErrOutOfOrder = errors.New("turns are not in chronological order")
	// ErrNoProvider is returned by Analyze when no model is configured.
	ErrNoProvider = errors.New("no LLM provider configured")
)

// Engine turns conversations into lenses. It holds no per-conversation
// state, so one Engine may serve concurrent requests.
type Engine struct {
	store       *Store
	llmProvider llm.Provider
	llmModel    string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
	now         func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithGeneration sets the completion token budget and temperature.
func WithGeneration(maxTokens int, temperature float64) Option {
	return func(e *Engine) {
		e.maxTokens = maxTokens
		e.temperature = temperature
	}
}

// NewEngine creates an engine. store and provider may be nil: without a
// store the conversation routes are unavailable, and without a provider
// Analyze fails with ErrNoProvider.
func NewEngine(store *Store, provider llm.Provider, model string, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		llmProvider: provider,
		llmModel:    model,
		maxTokens:   2048,
		temperature: 0.7,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Store returns the underlying store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// Lens replays every user turn through a fresh set of analyzers, oldest
// first, and returns the reading of the last one.
func (e *Engine) Lens(conv Conversation) (*Lens, error) {
	if err := checkOrder(conv.Turns); err != nil {
		return nil, err
	}

	detector := clues.NewDetector()
	matrices := matrix.NewEngine()
	flow := topicflow.NewManager()
	stories := narrative.NewModule()

	var (
		out      Lens
		seen     bool
		lastBot  time.Time
		fallback = e.now()
	)
	for _, t := range conv.Turns {
		if t.Role != RoleUser {
			if t.Role == RoleBot {
				lastBot = t.Timestamp
			}
			continue
		}
		ts := t.Timestamp
		if ts.IsZero() {
			ts = fallback
		}

		out.Clues = detector.Analyze(t.Text, responseTime(lastBot, t.Timestamp))
		out.Matrices = matrices.AnalyzeAt(t.Text, out.Clues, ts)
		flow.Update(t.Text, lexicon.DetectTopics(t.Text))
		out.Narrative = stories.AnalyzeAt(t.Text, ts)
		seen = true
	}
	if !seen {
		return nil, ErrNoUserTurn
	}

	out.Visualization = matrices.ExportForVisualization()
	out.Evolution = matrices.Evolution()

	out.Flow = Flow{
		State:       flow.Snapshot(),
		ShouldPivot: flow.ShouldPivot(),
		DepthLevel:  flow.DepthLevel(),
	}
	if next, ok := flow.SuggestNextTopic(); ok {
		out.Flow.SuggestedTopic = next
	}

	var log exchange.Log
	for i, p := range pairs(conv.Turns) {
		log.Add(exchange.Analyze(i, p.user.Text, p.bot.Text, p.user.Timestamp))
	}
	out.Exchanges = log.Exchanges()
	out.Metrics = log.Metrics()

	out.Insights = detector.Insights()
	orientation := matrices.CurrentOrientation()
	out.Reply = response.Generate(response.Input{
		Orientation: orientation,
		Matrices:    out.Matrices,
		Narrative:   out.Narrative,
	})
	out.Metadata = Metadata{
		Orientation:     orientation,
		EmotionalTone:   out.Insights.EmotionalTone,
		EngagementLevel: out.Insights.EngagementLevel,
		ClueCounts: ClueCounts{
			LinguisticMarkers:  len(out.Clues.LinguisticMarkers),
			TopicPatterns:      len(out.Clues.TopicPatterns),
			EngagementSignals:  len(out.Clues.EngagementSignals),
			ContradictionFlags: len(out.Clues.Contradictions),
		},
	}
	return &out, nil
}

// checkOrder rejects timestamps that go backwards. Turns without a
// timestamp are not compared.
func checkOrder(turns []Turn) error {
	var prev time.Time
	for i, t := range turns {
		if t.Timestamp.IsZero() {
			continue
		}
		if t.Timestamp.Before(prev) {
			return fmt.Errorf("turn %d at %s: %w", i, t.Timestamp.Format(time.RFC3339), ErrOutOfOrder)
		}
		prev = t.Timestamp
	}
	return nil
}

// responseTime is how long the farmer took to answer the last bot turn, or
// 0 when either side has no timestamp.
func responseTime(bot, user time.Time) time.Duration {
	if bot.IsZero() || user.IsZero() || !user.After(bot) {
		return 0
	}
	return user.Sub(bot)
}

type pair struct {
	user, bot Turn
}

// pairs matches each user turn with the bot turn directly after it. A user
// turn still waiting for a reply is not an exchange yet.
func pairs(turns []Turn) []pair {
	var out []pair
	for i := 0; i+1 < len(turns); i++ {
		if turns[i].Role == RoleUser && turns[i+1].Role == RoleBot {
			out = append(out, pair{user: turns[i], bot: turns[i+1]})
		}
	}
	return out
}

// Analyze computes the lens, then makes exactly one model call to turn it
// into a reply and a set of framings. Model errors are returned wrapped and
// are not retried.
func (e *Engine) Analyze(ctx context.Context, conv Conversation) (*Result, error) {
	l, err := e.Lens(conv)
	if err != nil {
		return nil, err
	}
	if e.llmProvider == nil {
		return nil, ErrNoProvider
	}

	system, err := buildSystemPrompt(l)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	req := llm.CompletionRequest{
		Model: e.llmModel,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: buildTranscript(conv.Turns)},
		},
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
		JSONMode:    true,
	}

	start := e.now()
	resp, err := e.llmProvider.Complete(ctx, req)
	if err != nil {
		e.logger.Warn("llm completion failed",
			zap.String("provider", e.llmProvider.Name()),
			zap.String("conversation_id", conv.ID),
			zap.Error(err))
		return nil, fmt.Errorf("LLM completion: %w", err)
	}

	// Some local servers report no usage.
	inputTokens, outputTokens := resp.InputTokens, resp.OutputTokens
	if inputTokens == 0 {
		inputTokens = llm.EstimateTokens(req.PromptText())
	}
	if outputTokens == 0 {
		outputTokens = llm.EstimateTokens(resp.Content)
	}
	e.logger.Info("llm completion",
		zap.String("provider", e.llmProvider.Name()),
		zap.String("model", resp.Model),
		zap.String("conversation_id", conv.ID),
		zap.Int("input_tokens", inputTokens),
		zap.Int("output_tokens", outputTokens),
		zap.Float64("cost_usd", llm.EstimateCost(resp.Model, inputTokens, outputTokens)),
		zap.Duration("elapsed", e.now().Sub(start)))

	text, lenses := parseModelOutput(resp.Content)
	return &Result{
		Response: text,
		Lenses:   lenses,
		Model:    resp.Model,
		Lens:     *l,
	}, nil
}

type modelOutput struct {
	Response string          `json:"response"`
	Lenses   json.RawMessage `json:"lenses"`
}

// parseModelOutput pulls the reply and lens blob out of the completion. When
// the model did not return the expected JSON the whole completion becomes
// the reply and the lens blob is empty.
func parseModelOutput(content string) (string, json.RawMessage) {
	empty := json.RawMessage(`{}`)

	// The JSON may be wrapped in a markdown code block.
	jsonStr := content
	if idx := strings.Index(content, "{"); idx >= 0 {
		jsonStr = content[idx:]
	}
	if idx := strings.LastIndex(jsonStr, "}"); idx >= 0 {
		jsonStr = jsonStr[:idx+1]
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil || out.Response == "" {
		return strings.TrimSpace(content), empty
	}
	if len(out.Lenses) == 0 || string(out.Lenses) == "null" {
		out.Lenses = empty
	}
	return out.Response, out.Lenses
}
