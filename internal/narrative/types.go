package narrative

import "time"

// Story kinds.
const (
	KindLiving = "living"
	KindAnte   = "ante"
	KindGrand  = "grand"
)

// Gap types.
const (
	GapMissingLiving     = "missing_living"
	GapWeakAnte          = "weak_ante"
	GapDisconnectedGrand = "disconnected_grand"
)

// Quantum narrative types.
const (
	QuantumSuperposition = "superposition"
	QuantumEntanglement  = "entanglement"
	QuantumCollapse      = "collapse"
	QuantumEmergence     = "emergence"
)

// ConnectionReinforcement is the only connection type produced by lexical
// overlap.
const ConnectionReinforcement = "reinforcement"

// LivingStory is an experience the farmer has lived through.
type LivingStory struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Theme     string    `json:"theme"`
	Emotion   string    `json:"emotion"`
	Outcome   string    `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

// AnteNarrative is a story that has not happened yet: a plan or aspiration.
type AnteNarrative struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Aspiration  string    `json:"aspiration"`
	Timeframe   string    `json:"timeframe"`
	Feasibility float64   `json:"feasibility"`
	Timestamp   time.Time `json:"timestamp"`
}

// GrandNarrative links the farmer's stories to a universal theme.
type GrandNarrative struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	Theme          string    `json:"theme"`
	UniversalTruth string    `json:"universalTruth"`
	Applicability  string    `json:"applicability"`
	Timestamp      time.Time `json:"timestamp"`
}

// Gap is a kind of story the conversation is missing.
type Gap struct {
	Type            string `json:"type"`
	SuggestedPrompt string `json:"suggestedPrompt"`
}

// Connection links two collected stories that share vocabulary.
type Connection struct {
	FromID   string  `json:"fromId"`
	ToID     string  `json:"toId"`
	Type     string  `json:"type"`
	Strength float64 `json:"strength"`
}

// Collection holds every story gathered over the conversation.
type Collection struct {
	LivingStories   []LivingStory    `json:"livingStories"`
	AnteNarratives  []AnteNarrative  `json:"anteNarratives"`
	GrandNarratives []GrandNarrative `json:"grandNarratives"`
	Connections     []Connection     `json:"connections"`
}

// Total is the number of stories of every kind.
func (c Collection) Total() int {
	return len(c.LivingStories) + len(c.AnteNarratives) + len(c.GrandNarratives)
}

// QuantumNarrative captures tension between possibilities held at once.
type QuantumNarrative struct {
	ID                       string    `json:"id"`
	Type                     string    `json:"type"`
	AlternativePossibilities []string  `json:"alternativePossibilities"`
	EntangledConcepts        []string  `json:"entangledConcepts,omitempty"`
	QuantumCoherence         float64   `json:"quantumCoherence"`
	Content                  string    `json:"content"`
	Timestamp                time.Time `json:"timestamp"`
}

// Evolution places the farmer's story on a journey of stages.
type Evolution struct {
	Stage              string   `json:"stage"`
	Direction          string   `json:"direction"`
	Catalysts          []string `json:"catalysts"`
	Resistances        []string `json:"resistances"`
	NextStageReadiness float64  `json:"nextStageReadiness"`
}

// Analysis is the narrative reading of one turn against everything
// collected so far.
type Analysis struct {
	NewLivingStory    *LivingStory       `json:"newLivingStory,omitempty"`
	NewAnteNarrative  *AnteNarrative     `json:"newAnteNarrative,omitempty"`
	NewGrandNarrative *GrandNarrative    `json:"newGrandNarrative,omitempty"`
	Collection        Collection         `json:"collection"`
	Gaps              []Gap              `json:"gaps"`
	Quantum           []QuantumNarrative `json:"quantumNarratives"`
	Evolution         Evolution          `json:"storyEvolution"`
	Coherence         float64            `json:"narrativeCoherence"`
}
