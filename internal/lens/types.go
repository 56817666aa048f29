package lens

import (
	"encoding/json"
	"time"

	"github.com/lexziconAI/eco-dairy-bot/internal/clues"
	"github.com/lexziconAI/eco-dairy-bot/internal/exchange"
	"github.com/lexziconAI/eco-dairy-bot/internal/matrix"
	"github.com/lexziconAI/eco-dairy-bot/internal/narrative"
	"github.com/lexziconAI/eco-dairy-bot/internal/response"
	"github.com/lexziconAI/eco-dairy-bot/internal/topicflow"
)

// Turn roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Turn is one message in a conversation.
type Turn struct {
	ID        string    `json:"id,omitempty"`
	Role      string    `json:"role"` // "user" or "bot"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an ordered sequence of turns.
type Conversation struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Turns     []Turn    `json:"turns"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// ClueCounts is how many clues of each kind the current turn produced.
type ClueCounts struct {
	LinguisticMarkers  int `json:"linguisticMarkers"`
	TopicPatterns      int `json:"topicPatterns"`
	EngagementSignals  int `json:"engagementSignals"`
	ContradictionFlags int `json:"contradictionFlags"`
}

// Metadata summarises a lens for display next to the reply.
type Metadata struct {
	Orientation     string     `json:"orientation"`
	EmotionalTone   string     `json:"emotionalTone"`
	EngagementLevel string     `json:"engagementLevel"`
	ClueCounts      ClueCounts `json:"clueCounts"`
}

// Flow is the topic flow state plus the manager's derived readings.
type Flow struct {
	topicflow.State
	ShouldPivot    bool   `json:"shouldPivot"`
	SuggestedTopic string `json:"suggestedTopic,omitempty"`
	DepthLevel     string `json:"depthLevel"`
}

// Lens is everything the analyzers derive from a conversation without
// calling a model.
type Lens struct {
	Clues         clues.DetectedClues `json:"clues"`
	Matrices      matrix.Analysis     `json:"matrices"`
	Visualization matrix.Series       `json:"visualization"`
	Evolution     matrix.Evolution    `json:"orientationEvolution"`
	Flow          Flow                `json:"flow"`
	Narrative     narrative.Analysis  `json:"narrative"`
	Exchanges     []exchange.Exchange `json:"exchanges"`
	Metrics       exchange.Metrics    `json:"metrics"`
	Insights      clues.Insights      `json:"insights"`
	Reply         response.Reply      `json:"reply"`
	Metadata      Metadata            `json:"analysisMetadata"`
}

// Result is a lens merged with one model completion. Lenses is the model's
// own framing, passed through as returned.
type Result struct {
	Response string          `json:"response"`
	Lenses   json.RawMessage `json:"lenses"`
	Model    string          `json:"model,omitempty"`
	Lens
}

// SavedAnalysis is a lens or result stored against a conversation.
type SavedAnalysis struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	Kind           string          `json:"kind"` // "lens" or "llm"
	Orientation    string          `json:"orientation"`
	TurnCount      int             `json:"turn_count"`
	Result         json.RawMessage `json:"result"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Saved analysis kinds.
const (
	KindLens = "lens"
	KindLLM  = "llm"
)
